// Package fts implements the inverted index at the heart of the search
// engine: field-weighted term statistics, a prefix trie for term lookup,
// the inter-document link graph, search-property aliasing, and word
// correlations. Building follows the teacher's functional-options
// constructor shape (see Option), generalized from a flat BM25 corpus to
// the richer per-field, per-position data model this engine needs.
package fts

import (
	"fmt"
	"strings"
	"time"

	"github.com/i80and/marian/internal/stem"
	"github.com/i80and/marian/internal/tokenize"
	"github.com/i80and/marian/internal/trie"
)

// Correlation is one entry in a word's synonym list: a stemmed synonym and
// a closeness in (0, 1].
type Correlation struct {
	Synonym   string
	Closeness float64
}

// Index is the corpus-wide inverted index. Use New to construct one, Add to
// insert documents, and Finish once all documents are inserted; after
// Finish, an Index is an immutable, concurrency-safe-for-reads snapshot.
type Index struct {
	fieldOrder []string
	fields     map[string]*field

	terms map[string]*TermEntry
	trie  *trie.Trie

	documents []*Document
	urlToID   map[string]int

	linkGraph        map[string][]string
	inverseLinkGraph map[string][]string
	outgoingNeighbors [][]int
	incomingNeighbors [][]int

	aliases      map[string]string
	correlations map[string][]Correlation

	manifestErrors map[string]string

	nextPosition int
	finished     time.Time
}

// Option configures an Index at construction time.
type Option func(*Index)

// WithFieldWeights overrides the default field-name → weight mapping.
func WithFieldWeights(weights map[string]float64) Option {
	return func(idx *Index) {
		idx.fieldOrder = idx.fieldOrder[:0]
		idx.fields = make(map[string]*field, len(weights))
		for name, weight := range weights {
			idx.fieldOrder = append(idx.fieldOrder, name)
			idx.fields[name] = newField(name, weight)
		}
	}
}

// defaultFieldOrder fixes iteration order for the default field set so that
// index construction is deterministic.
var defaultFieldOrder = []string{"text", "headings", "title", "tags"}

// New returns an empty Index with the default field set (title, text,
// headings, tags) unless overridden by WithFieldWeights.
func New(opts ...Option) *Index {
	idx := &Index{
		fields:           make(map[string]*field),
		urlToID:          make(map[string]int),
		terms:            make(map[string]*TermEntry),
		trie:             trie.New(),
		linkGraph:        make(map[string][]string),
		inverseLinkGraph: make(map[string][]string),
		aliases:          make(map[string]string),
		correlations:     make(map[string][]Correlation),
		manifestErrors:   make(map[string]string),
	}

	for _, name := range defaultFieldOrder {
		idx.fieldOrder = append(idx.fieldOrder, name)
		idx.fields[name] = newField(name, DefaultFieldWeights[name])
	}

	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// AliasSearchProperty registers alias as another name for property.
func (idx *Index) AliasSearchProperty(alias, property string) {
	idx.aliases[alias] = property
}

// ResolveSearchProperty returns the canonical property name for alias, or
// alias itself if it is not a registered alias (spec §7: unknown aliases
// pass through as literal property names).
func (idx *Index) ResolveSearchProperty(alias string) string {
	if canonical, ok := idx.aliases[alias]; ok {
		return canonical
	}
	return alias
}

// AddCorrelation registers an external correlation hint between word and
// synonym at the given closeness. Part of the public contract described in
// spec §3; unused by the self-registering $/%/%% path but available to a
// future caller that wants to seed synonym hints from manifest data.
func (idx *Index) AddCorrelation(word, synonym string, closeness float64) {
	idx.correlations[word] = append(idx.correlations[word], Correlation{
		Synonym:   synonym,
		Closeness: closeness,
	})
}

// Correlations returns the registered synonym list for word.
func (idx *Index) Correlations(word string) []Correlation {
	return idx.correlations[word]
}

// RecordManifestError records the most recent load/parse error observed for
// a manifest source key, surfaced through the HTTP status endpoint.
func (idx *Index) RecordManifestError(manifestKey string, err error) {
	if err == nil {
		delete(idx.manifestErrors, manifestKey)
		return
	}
	idx.manifestErrors[manifestKey] = err.Error()
}

// ManifestErrors returns the manifest-key → last-error-message ledger.
func (idx *Index) ManifestErrors() map[string]string {
	return idx.manifestErrors
}

// Finished reports the time Finish was called, the zero Time if it has not
// been called yet.
func (idx *Index) Finished() time.Time {
	return idx.finished
}

// DocumentByID returns the stored document, or nil if id is out of range.
func (idx *Index) DocumentByID(id int) *Document {
	if id < 0 || id >= len(idx.documents) {
		return nil
	}
	return idx.documents[id]
}

// DocumentCount returns the number of documents inserted so far.
func (idx *Index) DocumentCount() int {
	return len(idx.documents)
}

// SearchProperties returns every distinct search property seen so far, in
// insertion order of first occurrence.
func (idx *Index) SearchProperties() []string {
	seen := make(map[string]bool)
	var out []string
	for _, doc := range idx.documents {
		if !seen[doc.SearchProperty] {
			seen[doc.SearchProperty] = true
			out = append(out, doc.SearchProperty)
		}
	}
	return out
}

// correlationPrefix reports the number of leading characters to strip from
// token to obtain its correlation-stripped form: 2 for "%%", 1 for "%" or
// "$", and 0 when token carries no correlation prefix.
func correlationPrefix(token string) int {
	switch {
	case strings.HasPrefix(token, "%%"):
		return 2
	case strings.HasPrefix(token, "%"), strings.HasPrefix(token, "$"):
		return 1
	default:
		return 0
	}
}

// Add inserts document into the index, returning its freshly assigned ID.
// Implements spec §4.6's add() algorithm.
func (idx *Index) Add(input DocumentInput, includeInGlobalSearch bool, searchProperty string) int {
	url := NormalizeURL(input.URL)

	for _, link := range input.Links {
		normalized := NormalizeURL(link)
		idx.inverseLinkGraph[normalized] = append(idx.inverseLinkGraph[normalized], url)
	}
	idx.linkGraph[url] = input.Links

	docID := len(idx.documents)
	idx.urlToID[url] = docID
	doc := &Document{
		ID:                    docID,
		URL:                   url,
		Title:                 input.Title,
		Preview:               input.Preview,
		IncludeInGlobalSearch: includeInGlobalSearch,
		SearchProperty:        searchProperty,
	}
	idx.documents = append(idx.documents, doc)

	type pendingCorrelation struct {
		from, to string
	}
	var pending []pendingCorrelation

	stems := stem.NewCache()

	for _, fieldName := range idx.fieldOrder {
		text, ok := input.FieldText[fieldName]
		if !ok || text == "" {
			continue
		}
		f := idx.fields[fieldName]
		entry := f.entry(docID)

		for _, token := range tokenize.Tokenize(text, true) {
			if stem.IsStopWord(token) {
				continue
			}

			prefixLen := correlationPrefix(token)
			stripped := token[prefixLen:]
			term := stems.Stem(stripped)
			if prefixLen > 0 {
				prefixedStem := stems.Stem(token)
				pending = append(pending, pendingCorrelation{from: term, to: prefixedStem})
			}

			idx.nextPosition++
			pos := idx.nextPosition

			te, ok := idx.terms[term]
			if !ok {
				te = newTermEntry()
				idx.terms[term] = te
			}

			if entry.termFrequencies[term] == 0 {
				idx.trie.Insert(term, docID)
				te.TimesAppeared[fieldName]++
			}
			entry.termFrequencies[term]++
			entry.tokenCount++
			te.registerDoc(docID)
			te.Positions[docID] = append(te.Positions[docID], pos)
		}

		idx.nextPosition++ // inter-field gap
		f.totalTokens += entry.tokenCount
	}

	for _, c := range pending {
		idx.AddCorrelation(c.from, c.to, 0.9)
	}

	return docID
}

// Finish computes each field's length-weight, materializes the integer
// adjacency lists from the link graphs, and sets the finished timestamp.
// Searches performed before Finish is called are undefined (spec §3).
func (idx *Index) Finish(now time.Time) {
	for _, f := range idx.fields {
		f.computeLengthWeight()
	}

	n := len(idx.documents)
	idx.outgoingNeighbors = make([][]int, n)
	idx.incomingNeighbors = make([][]int, n)

	for url, outgoing := range idx.linkGraph {
		docID, ok := idx.urlToID[url]
		if !ok {
			continue
		}
		for _, link := range outgoing {
			normalized := NormalizeURL(link)
			if targetID, ok := idx.urlToID[normalized]; ok {
				idx.outgoingNeighbors[docID] = append(idx.outgoingNeighbors[docID], targetID)
			}
		}
	}
	for url, incoming := range idx.inverseLinkGraph {
		docID, ok := idx.urlToID[url]
		if !ok {
			continue
		}
		for _, linker := range incoming {
			if sourceID, ok := idx.urlToID[linker]; ok {
				idx.incomingNeighbors[docID] = append(idx.incomingNeighbors[docID], sourceID)
			}
		}
	}

	idx.finished = now
}

// OutgoingNeighbors returns the integer-indexed outgoing adjacency list for
// docID, valid only after Finish.
func (idx *Index) OutgoingNeighbors(docID int) []int {
	if docID < 0 || docID >= len(idx.outgoingNeighbors) {
		return nil
	}
	return idx.outgoingNeighbors[docID]
}

// IncomingNeighbors returns the integer-indexed incoming adjacency list for
// docID, valid only after Finish.
func (idx *Index) IncomingNeighbors(docID int) []int {
	if docID < 0 || docID >= len(idx.incomingNeighbors) {
		return nil
	}
	return idx.incomingNeighbors[docID]
}

// SearchTrie does a prefix search for term, returning doc ID → matched full
// tokens.
func (idx *Index) SearchTrie(term string) map[int][]string {
	return idx.trie.Search(term)
}

// Term returns the corpus-wide term entry for the given stemmed term, or nil.
func (idx *Index) Term(term string) *TermEntry {
	return idx.terms[term]
}

// FieldWeight returns the static relevance weight of fieldName, or 0 if the
// field is not part of this index's field set.
func (idx *Index) FieldWeight(fieldName string) float64 {
	f, ok := idx.fields[fieldName]
	if !ok {
		return 0
	}
	return f.weight
}

// FieldLengthWeight returns the length-weight computed at Finish.
func (idx *Index) FieldLengthWeight(fieldName string) float64 {
	f, ok := idx.fields[fieldName]
	if !ok {
		return 0
	}
	return f.lengthWeight
}

// FieldTotalTokens returns the field's corpus-wide token count.
func (idx *Index) FieldTotalTokens(fieldName string) int {
	f, ok := idx.fields[fieldName]
	if !ok {
		return 0
	}
	return f.totalTokens
}

// FieldTimesAppeared returns the number of documents in which term was
// registered for fieldName.
func (idx *Index) FieldTimesAppeared(fieldName, term string) int {
	f, ok := idx.fields[fieldName]
	if !ok {
		return 0
	}
	return f.timesAppeared(term, idx.terms)
}

// DocumentTermFrequency returns term's frequency in fieldName for docID.
func (idx *Index) DocumentTermFrequency(fieldName string, docID int, term string) int {
	f, ok := idx.fields[fieldName]
	if !ok {
		return 0
	}
	entry, ok := f.documents[docID]
	if !ok {
		return 0
	}
	return entry.termFrequencies[term]
}

// DocumentFieldLength returns the document's token count in fieldName.
func (idx *Index) DocumentFieldLength(fieldName string, docID int) int {
	f, ok := idx.fields[fieldName]
	if !ok {
		return 0
	}
	entry, ok := f.documents[docID]
	if !ok {
		return 0
	}
	return entry.tokenCount
}

// FieldNames returns the index's configured field names.
func (idx *Index) FieldNames() []string {
	return idx.fieldOrder
}

// errNotFinished is returned by operations that require Finish to have run.
var errNotFinished = fmt.Errorf("fts: index has not been finished")

// RequireFinished fails fast (per spec §7, "search before finish is
// programmer error") if Finish has not yet been called.
func (idx *Index) RequireFinished() error {
	if idx.finished.IsZero() {
		return errNotFinished
	}
	return nil
}
