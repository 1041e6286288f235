package fts

// DefaultFieldWeights gives the manifest field mapping's static relevance
// weights: tags are the strongest signal (a tag is a deliberate, hand-picked
// label), title next, headings a middling signal, and body text the weakest
// per-token signal (there being far more of it).
var DefaultFieldWeights = map[string]float64{
	"text":     1.0,
	"headings": 5.0,
	"title":    10.0,
	"tags":     75.0,
}

// fieldDocEntry is one field's per-document entry: how many tokens of this
// field the document contributed, and the field-local term frequencies.
type fieldDocEntry struct {
	tokenCount      int
	termFrequencies map[string]int
}

// field is a named text channel with a static weight and a length-weight
// computed once, at finish, from the corpus as a whole.
type field struct {
	name         string
	weight       float64
	totalTokens  int
	lengthWeight float64
	documents    map[int]*fieldDocEntry
}

func newField(name string, weight float64) *field {
	return &field{
		name:      name,
		weight:    weight,
		documents: make(map[int]*fieldDocEntry),
	}
}

func (f *field) entry(docID int) *fieldDocEntry {
	e, ok := f.documents[docID]
	if !ok {
		e = &fieldDocEntry{termFrequencies: make(map[string]int)}
		f.documents[docID] = e
	}
	return e
}

// timesAppeared returns the number of documents in which term was
// registered for this field (i.e. the length of its times_appeared entry),
// used by the ranker as the field-local document frequency of term.
func (f *field) timesAppeared(term string, termEntries map[string]*TermEntry) int {
	te, ok := termEntries[term]
	if !ok {
		return 0
	}
	return te.TimesAppeared[f.name]
}

// computeLengthWeight implements the length-weight formula from §3:
// |docs in field| / Σ (unique terms per doc).
func (f *field) computeLengthWeight() {
	uniqueTermsSum := 0
	for _, entry := range f.documents {
		uniqueTermsSum += len(entry.termFrequencies)
	}
	if uniqueTermsSum == 0 {
		f.lengthWeight = 0
		return
	}
	f.lengthWeight = float64(len(f.documents)) / float64(uniqueTermsSum)
}
