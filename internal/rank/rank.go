package rank

import (
	"math"
	"sort"

	"github.com/i80and/marian/internal/fts"
	"github.com/i80and/marian/internal/query"
	"github.com/i80and/marian/internal/stem"
)

// MaxResults caps a single search's returned document count, per spec.
const MaxResults = 150

// relevancyTailFactor sets the score-fusion tail penalty threshold:
// documents with relevancy_score below
// relevancyTailFactor·σ are docked σ/relevancy_score.
const relevancyTailFactor = 2.5

// Result is one ranked document, ready for the HTTP layer to serialize.
type Result struct {
	DocumentID int
	Title      string
	Preview    string
	URL        string
	Score      float64
}

// match is one root-set candidate document accumulated during candidate
// collection: its relevancy score and the stemmed tokens that contributed to
// it, keyed by their position lists for the phrase filter.
type match struct {
	docID          int
	relevancyScore float64
	tokenPositions map[string][]int
}

// Search runs the full ranking pipeline against idx for q and returns up to
// MaxResults documents in descending score order.
func Search(idx *fts.Index, q *query.Query) []Result {
	candidates := collectCandidates(idx, q)

	if len(q.StemmedPhrases) > 0 {
		filtered := candidates[:0]
		for _, m := range candidates {
			if q.CheckPhrases(m.tokenPositions) {
				filtered = append(filtered, m)
			}
		}
		candidates = filtered
	}

	if len(candidates) == 0 {
		return nil
	}

	baseSet, baseIndexOf := buildBaseSet(idx, candidates)
	g := neighborsFor(idx, baseSet, baseIndexOf)
	scores := runHITS(len(baseSet), g)

	return fuseScores(idx, candidates, baseIndexOf, scores)
}

// expandedWeight maps a stemmed term to its correlation-expanded weight: 1.0
// for the query's own stemmed terms, or the registered closeness for any
// synonym reached through a correlation on a term or a stemmed bigram of two
// consecutive query terms.
func expandedWeight(idx *fts.Index, q *query.Query) map[string]float64 {
	weight := make(map[string]float64)

	var stemmedTerms []string
	for term := range q.Terms {
		s := stem.Stem(term)
		stemmedTerms = append(stemmedTerms, s)
		if weight[s] < 1.0 {
			weight[s] = 1.0
		}
	}

	considerCorrelations := func(key string) {
		for _, c := range idx.Correlations(key) {
			if weight[c.Synonym] < c.Closeness {
				weight[c.Synonym] = c.Closeness
			}
		}
	}
	for _, s := range stemmedTerms {
		considerCorrelations(s)
	}
	for i := 0; i+1 < len(stemmedTerms); i++ {
		considerCorrelations(stemmedTerms[i] + " " + stemmedTerms[i+1])
	}

	return weight
}

// collectCandidates performs Step 1: correlation expansion, a trie prefix
// search per stemmed term, and per-(doc, term, field) Dirichlet+
// accumulation into each matching document's relevancy score.
func collectCandidates(idx *fts.Index, q *query.Query) []*match {
	weight := expandedWeight(idx, q)
	allowedProperties := make(map[string]bool, len(q.SearchProperties))
	for _, p := range q.SearchProperties {
		allowedProperties[idx.ResolveSearchProperty(p)] = true
	}

	// |query.terms|, not len(weight): the document-length normalization
	// term is sized to the original parsed query, before correlation
	// synonyms are folded in, matching original_source/src/fts.rs's
	// original_terms.len() (computed before collect_correlations runs).
	distinctQueryTerms := len(q.Terms)
	matches := make(map[int]*match)

	for term, termWeight := range weight {
		for docID, matchedTokens := range idx.SearchTrie(term) {
			doc := idx.DocumentByID(docID)
			if doc == nil {
				continue
			}

			property := idx.ResolveSearchProperty(doc.SearchProperty)
			if len(allowedProperties) > 0 {
				if !allowedProperties[property] {
					continue
				}
			} else if !doc.IncludeInGlobalSearch {
				continue
			}

			m, ok := matches[docID]
			if !ok {
				m = &match{docID: docID, tokenPositions: make(map[string][]int)}
				matches[docID] = m
			}

			for _, matchedToken := range matchedTokens {
				for _, fieldName := range idx.FieldNames() {
					tf := idx.DocumentTermFrequency(fieldName, docID, matchedToken)
					if tf == 0 {
						continue
					}

					timesAppeared := idx.FieldTimesAppeared(fieldName, matchedToken)
					fieldTotalTokens := idx.FieldTotalTokens(fieldName)
					pTerm := termProbability(timesAppeared, fieldTotalTokens)
					docFieldLength := idx.DocumentFieldLength(fieldName, docID)

					contribution := dirichletPlus(termWeight, tf, pTerm, docFieldLength, distinctQueryTerms)
					m.relevancyScore += contribution * idx.FieldWeight(fieldName) * idx.FieldLengthWeight(fieldName)
				}

				if te := idx.Term(matchedToken); te != nil {
					m.tokenPositions[matchedToken] = te.Positions[docID]
				}
			}
		}
	}

	out := make([]*match, 0, len(matches))
	for _, m := range matches {
		out = append(out, m)
	}
	return out
}

// buildBaseSet implements Step 3: the base set is the root set plus every
// incoming/outgoing link-graph neighbor of each root document, the latter
// entering with relevancy_score 0. baseIndexOf maps a document ID to its
// dense index within baseSet, for HITS's integer-indexed score arrays.
func buildBaseSet(idx *fts.Index, root []*match) ([]*match, map[int]int) {
	baseIndexOf := make(map[int]int)
	var baseSet []*match

	add := func(docID int) {
		if _, ok := baseIndexOf[docID]; ok {
			return
		}
		baseIndexOf[docID] = len(baseSet)
		baseSet = append(baseSet, &match{docID: docID})
	}

	for _, m := range root {
		baseIndexOf[m.docID] = len(baseSet)
		baseSet = append(baseSet, m)
	}
	for _, m := range root {
		for _, neighbor := range idx.OutgoingNeighbors(m.docID) {
			add(neighbor)
		}
		for _, neighbor := range idx.IncomingNeighbors(m.docID) {
			add(neighbor)
		}
	}

	return baseSet, baseIndexOf
}

// neighborsFor materializes the base set's incoming/outgoing adjacency in
// terms of dense base-set indices, restricting the full link graph to edges
// between two base-set members.
func neighborsFor(idx *fts.Index, baseSet []*match, baseIndexOf map[int]int) neighbors {
	n := len(baseSet)
	g := neighbors{incoming: make([][]int, n), outgoing: make([][]int, n)}

	for i, m := range baseSet {
		for _, neighbor := range idx.OutgoingNeighbors(m.docID) {
			if j, ok := baseIndexOf[neighbor]; ok {
				g.outgoing[i] = append(g.outgoing[i], j)
			}
		}
		for _, neighbor := range idx.IncomingNeighbors(m.docID) {
			if j, ok := baseIndexOf[neighbor]; ok {
				g.incoming[i] = append(g.incoming[i], j)
			}
		}
	}

	return g
}

// fuseScores implements Step 5: discard graph-only additions, compute the
// sample standard deviation σ of the surviving relevancy scores, max-
// normalize relevancy and authority against matches at or above σ, then
// combine with a tail penalty for matches below 2.5σ.
func fuseScores(idx *fts.Index, root []*match, baseIndexOf map[int]int, scores hitsScores) []Result {
	var relevancyScores []float64
	for _, m := range root {
		if m.relevancyScore != 0 {
			relevancyScores = append(relevancyScores, m.relevancyScore)
		}
	}
	if len(relevancyScores) == 0 {
		return nil
	}

	sigma := sampleStdDev(relevancyScores)

	maxRelevancy, maxAuthority := 0.0, 0.0
	for _, m := range root {
		if m.relevancyScore == 0 || m.relevancyScore < sigma {
			continue
		}
		if m.relevancyScore > maxRelevancy {
			maxRelevancy = m.relevancyScore
		}
		if i := baseIndexOf[m.docID]; scores.authority[i] > maxAuthority {
			maxAuthority = scores.authority[i]
		}
	}
	if maxRelevancy == 0 {
		maxRelevancy = 1
	}
	if maxAuthority == 0 {
		maxAuthority = 1
	}

	results := make([]Result, 0, len(root))
	for _, m := range root {
		if m.relevancyScore == 0 {
			continue
		}

		authority := scores.authority[baseIndexOf[m.docID]]
		nr := m.relevancyScore/maxRelevancy + 1
		na := authority/maxAuthority + 1

		score := math.Log2(nr) + math.Log2(na)*(1.0/math.Log2(4))
		if m.relevancyScore < relevancyTailFactor*sigma {
			score -= sigma / m.relevancyScore
		}

		doc := idx.DocumentByID(m.docID)
		results = append(results, Result{
			DocumentID: m.docID,
			Title:      doc.Title,
			Preview:    doc.Preview,
			URL:        doc.URL,
			Score:      score,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > MaxResults {
		results = results[:MaxResults]
	}
	return results
}

// sampleStdDev computes sqrt(Σ(x-mean)² / (n-1)), the sample standard
// deviation. For n == 1 (no degrees of freedom) it returns 0.
func sampleStdDev(values []float64) float64 {
	n := len(values)
	if n <= 1 {
		return 0
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	sumSquares := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}

	return math.Sqrt(sumSquares / float64(n-1))
}
