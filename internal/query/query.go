// Package query parses raw search-box query strings into term sets and
// quoted phrases, and checks whether a phrase's stemmed components occur at
// contiguous token positions within a candidate document.
package query

import (
	"regexp"
	"strings"

	"github.com/i80and/marian/internal/stem"
	"github.com/i80and/marian/internal/tokenize"
)

// partsPattern matches either a literal double quote or a maximal run of
// non-whitespace, non-quote characters.
var partsPattern = regexp.MustCompile(`"|[^"\s]+`)

// Query is a parsed search-box string.
type Query struct {
	Terms            map[string]bool
	Phrases          []string
	StemmedPhrases   [][]string
	SearchProperties []string
}

// New parses queryString, a raw search-box query, and records
// searchProperties verbatim (alias resolution happens at search time, not
// here).
func New(queryString string, searchProperties []string) *Query {
	q := &Query{
		Terms:            make(map[string]bool),
		SearchProperties: searchProperties,
	}

	var phrase *strings.Builder
	endPhrase := false

	for _, match := range partsPattern.FindAllString(queryString, -1) {
		if phrase != nil {
			if match == `"` {
				endPhrase = true
			} else {
				q.addTerm(match)
				phrase.WriteString(match)
				phrase.WriteByte(' ')
			}
		} else {
			if match == `"` {
				phrase = &strings.Builder{}
				continue
			}
			q.addTerm(match)
		}

		if endPhrase {
			q.addPhrase(phrase.String())
			phrase = nil
			endPhrase = false
		}
	}

	if phrase != nil {
		q.addPhrase(phrase.String())
	}

	return q
}

func (q *Query) addTerm(term string) {
	if stem.IsStopWord(term) {
		return
	}
	q.Terms[term] = true
}

func (q *Query) addPhrase(phrase string) {
	phrase = strings.TrimSuffix(phrase, " ")

	var stemmed []string
	for _, tok := range tokenize.Tokenize(phrase, false) {
		if stem.IsStopWord(tok) {
			continue
		}
		stemmed = append(stemmed, stem.Stem(tok))
	}

	q.StemmedPhrases = append(q.StemmedPhrases, stemmed)
	q.Phrases = append(q.Phrases, phrase)
}

// CheckPhrases reports whether, for every stemmed phrase in the query, there
// is a choice of one position per phrase component from tokenPositions such
// that the chosen positions are strictly consecutive ascending integers.
// tokenPositions maps a stemmed token to its ordered list of positions
// within the candidate document.
func (q *Query) CheckPhrases(tokenPositions map[string][]int) bool {
	for _, phraseTokens := range q.StemmedPhrases {
		if !haveContiguousKeywords(phraseTokens, tokenPositions) {
			return false
		}
	}
	return true
}

func haveContiguousKeywords(phraseComponents []string, tokenPositions map[string][]int) bool {
	path := make([][]int, 0, len(phraseComponents))
	for _, component := range phraseComponents {
		positions, ok := tokenPositions[component]
		if !ok {
			return false
		}
		path = append(path, positions)
	}
	return haveContiguousPath(path, -1, false)
}

// haveContiguousPath reports whether there is a choice of one element per
// slice in tree such that each chosen element equals the previous choice
// plus one, scanning left to right. lastCandidate/hasLast model the "no
// previous choice yet" state without a pointer or sentinel value.
func haveContiguousPath(tree [][]int, lastCandidate int, hasLast bool) bool {
	if len(tree) == 0 {
		return true
	}

	for _, element := range tree[0] {
		if hasLast && element != lastCandidate+1 {
			continue
		}
		if haveContiguousPath(tree[1:], element, true) {
			return true
		}
	}

	return false
}
