// Package tokenize splits raw text into the lowercase token stream consumed
// by both indexing and query parsing.
package tokenize

import (
	"strings"

	"github.com/i80and/marian/internal/stem"
)

func isWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '$', r == '%', r == '.':
		return true
	}
	return false
}

// splitRaw splits s on runs of characters outside [A-Za-z0-9_$%.].
func splitRaw(s string) []string {
	var tokens []string
	start := -1
	for i, r := range s {
		if isWordRune(r) {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			tokens = append(tokens, s[start:i])
			start = -1
		}
	}
	if start != -1 {
		tokens = append(tokens, s[start:])
	}
	return tokens
}

func trimDots(s string) string {
	s = strings.TrimPrefix(s, ".")
	s = strings.TrimSuffix(s, ".")
	return s
}

// Tokenize splits text into an ordered sequence of lowercase tokens. When
// fuzzy is true, dotted identifiers are additionally split on '.', exposing
// code-like tokens (e.g. "db.scores.find") both whole and as their individual
// dot-separated components ("db", "scores", "find").
func Tokenize(text string, fuzzy bool) []string {
	raw := splitRaw(text)
	tokens := make([]string, 0, len(raw))

	for i := 0; i < len(raw); i++ {
		tok := strings.ToLower(trimDots(raw[i]))

		if i+1 < len(raw) {
			next := strings.ToLower(trimDots(raw[i+1]))
			if tail, ok := stem.AtomicPhraseFor(tok); ok && tail == next {
				tokens = append(tokens, tok+" "+next)
				i++
				continue
			}
		}

		if tok == "$" {
			tokens = append(tokens, "positional", "operator")
			continue
		}

		if len(tok) > 1 {
			tokens = append(tokens, tok)
		}

		if fuzzy && strings.Contains(tok, ".") {
			for _, part := range strings.Split(tok, ".") {
				if len(part) > 1 {
					tokens = append(tokens, part)
				}
			}
		}
	}

	return tokens
}
