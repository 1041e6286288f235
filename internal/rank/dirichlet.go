// Package rank implements the ranking pipeline: candidate collection over
// the inverted index, Dirichlet+ smoothed relevancy scoring, phrase-adjacency
// filtering, HITS authority/hub iteration over the link-induced root/base
// set, and final score fusion. The pipeline is grounded on the teacher's
// bm25md.Corpus — its field-weighted per-term accumulation loop and its
// sequential/parallel search split are kept; the scoring formula itself is
// replaced (BM25F → Dirichlet+) because
// this corpus is ranked differently than the teacher's.
package rank

import "math"

// mu and delta are Lv & Zhai (2011)'s Dirichlet+ smoothing constants, fixed
// per the formula this engine uses.
const (
	mu    = 2000.0
	delta = 0.05
)

// minFieldTokens floors a field's total-token count before it is used as a
// probability denominator, so a field with only a handful of tokens across
// the whole corpus does not inflate p_term into near-certainty.
const minFieldTokens = 500

// termProbability returns a term's probability within a field: how often it
// appears (as a fraction of documents, via timesAppeared) relative to the
// field's corpus-wide token volume.
func termProbability(timesAppeared, fieldTotalTokens int) float64 {
	denom := float64(fieldTotalTokens)
	if denom < minFieldTokens {
		denom = minFieldTokens
	}
	return float64(timesAppeared) / denom
}

// dirichletPlus computes the Dirichlet+ relevancy contribution of one
// (term, field) pair within one document.
//
//	termWeight         the term's correlation-expanded weight (1.0 for an
//	                    exact query term, the registered closeness for an
//	                    expanded synonym)
//	tf                  the term's frequency in this document's field
//	pTerm               the term's probability within the field corpus-wide
//	docFieldLength      the document's token count in this field
//	distinctQueryTerms  |q|, the number of distinct query terms
func dirichletPlus(termWeight float64, tf int, pTerm float64, docFieldLength int, distinctQueryTerms int) float64 {
	if pTerm == 0 {
		return 0
	}

	tfQ := termWeight * float64(tf)

	t2 := math.Log2(1+float64(tf)/(mu*pTerm)) + math.Log2(1+delta/(mu*pTerm))
	t3 := float64(distinctQueryTerms) * math.Log2(mu/(float64(docFieldLength)+mu))

	return tfQ*t2 + t3
}
