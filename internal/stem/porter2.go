// Package stem implements the Snowball Porter2 English stemming algorithm.
package stem

import "strings"

// exceptionalStems maps whole words to a fixed stem output, bypassing the
// rest of the algorithm. Grounded on the Among-table special-case list (a_10)
// found in the reference transpiled implementation; a few of these entries
// (replica, importance) are not part of the commonly published Porter2
// exception list but are carried here for fidelity with that source, since no
// reference stemmed-word corpus shipped alongside it.
var exceptionalStems = map[string]string{
	"skis":       "ski",
	"skies":      "sky",
	"dying":      "die",
	"lying":      "lie",
	"tying":      "tie",
	"idly":       "idl",
	"gently":     "gentl",
	"ugly":       "ugli",
	"early":      "earli",
	"only":       "onli",
	"singly":     "singl",
	"replica":    "replic",
	"importance": "important",
}

// invariantStems are words that the algorithm would otherwise mangle; they
// stem to themselves.
var invariantStems = map[string]bool{
	"andes": true, "atlas": true, "bias": true, "cosmos": true,
	"howe": true, "important": true, "news": true, "sky": true,
}

// exception2Words bypass steps 1b onward (but not step 1a, which is a no-op
// for all of them) because they end in what looks like a doubled consonant
// or -eed but must not be touched by the later rules.
var exception2Words = map[string]bool{
	"succeed": true, "proceed": true, "exceed": true, "canning": true,
	"inning": true, "earring": true, "herring": true, "outing": true,
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}

func isLowerVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

// word is the mutable working buffer for one stemming pass. A 'y' that acts
// as a consonant (word-initial, or immediately after a vowel) is marked as
// uppercase 'Y' for the duration of the algorithm so that vowel/consonant
// tests treat it correctly; it is folded back to lowercase before the result
// is returned.
type word struct {
	buf []byte
}

func newWord(s string) *word {
	w := &word{buf: []byte(s)}
	w.markY()
	return w
}

func (w *word) markY() {
	for i := range w.buf {
		if w.buf[i] != 'y' {
			continue
		}
		if i == 0 || w.isVowelAt(i-1) {
			w.buf[i] = 'Y'
		}
	}
}

func (w *word) unmarkY() {
	for i := range w.buf {
		if w.buf[i] == 'Y' {
			w.buf[i] = 'y'
		}
	}
}

func (w *word) isVowelAt(i int) bool {
	if i < 0 || i >= len(w.buf) {
		return false
	}
	c := w.buf[i]
	if c == 'Y' {
		return false
	}
	return isLowerVowel(c)
}

// regionAfter returns the start of the region following the first
// non-vowel that itself follows a vowel, scanning from `from`. If no such
// boundary exists the region is empty (len(buf)).
func (w *word) regionAfter(from int) int {
	n := len(w.buf)
	i := from
	for i < n && !w.isVowelAt(i) {
		i++
	}
	for i < n && w.isVowelAt(i) {
		i++
	}
	if i >= n {
		return n
	}
	return i + 1
}

func (w *word) regions() (r1, r2 int) {
	s := string(w.buf)
	switch {
	case strings.HasPrefix(s, "gener"):
		r1 = 5
	case strings.HasPrefix(s, "commun"):
		r1 = 6
	case strings.HasPrefix(s, "arsen"):
		r1 = 5
	default:
		r1 = w.regionAfter(0)
	}
	r2 = w.regionAfter(r1)
	return r1, r2
}

func (w *word) hasSuffix(suf string) bool {
	return strings.HasSuffix(string(w.buf), suf)
}

// hasSuffixInRegion reports whether the word ends with suf AND the start of
// that suffix falls at or after region boundary r.
func (w *word) hasSuffixInRegion(suf string, r int) bool {
	if !w.hasSuffix(suf) {
		return false
	}
	return len(w.buf)-len(suf) >= r
}

func (w *word) trimSuffix(n int) {
	w.buf = w.buf[:len(w.buf)-n]
}

func (w *word) setSuffix(n int, repl string) {
	w.buf = append(w.buf[:len(w.buf)-n], repl...)
}

func (w *word) hasVowelInRange(lo, hi int) bool {
	for i := lo; i < hi; i++ {
		if w.isVowelAt(i) {
			return true
		}
	}
	return false
}

// endsInShortSyllable implements the Snowball "short syllable" test: either
// a vowel at the very start of the word followed by a non-vowel, or a vowel
// preceded by a consonant and followed by a non-vowel other than w, x or Y.
func (w *word) endsInShortSyllable() bool {
	n := len(w.buf)
	if n < 2 {
		return false
	}
	last, prev := n-1, n-2
	if !w.isVowelAt(prev) || w.isVowelAt(last) {
		return false
	}
	if prev == 0 {
		return true
	}
	switch w.buf[last] {
	case 'w', 'x', 'Y':
		return false
	}
	return !w.isVowelAt(prev - 1)
}

func (w *word) isShort(r1 int) bool {
	return r1 == len(w.buf) && w.endsInShortSyllable()
}

// step0 removes a trailing apostrophe form ('s', 's or ').
func (w *word) step0() {
	for _, suf := range []string{"'s'", "'s", "'"} {
		if w.hasSuffix(suf) {
			w.trimSuffix(len(suf))
			return
		}
	}
}

func (w *word) step1a() {
	switch {
	case w.hasSuffix("sses"):
		w.setSuffix(4, "ss")
	case w.hasSuffix("ied"), w.hasSuffix("ies"):
		if len(w.buf)-3 > 1 {
			w.setSuffix(3, "i")
		} else {
			w.setSuffix(3, "ie")
		}
	case w.hasSuffix("us"), w.hasSuffix("ss"):
		// no change
	case w.hasSuffix("s"):
		stemLen := len(w.buf) - 1
		if w.hasVowelInRange(0, stemLen-1) {
			w.trimSuffix(1)
		}
	}
}

func (w *word) step1b(r1 int) {
	switch {
	case w.hasSuffix("eedly"):
		if w.hasSuffixInRegion("eedly", r1) {
			w.setSuffix(5, "ee")
		}
		return
	case w.hasSuffix("eed"):
		if w.hasSuffixInRegion("eed", r1) {
			w.setSuffix(3, "ee")
		}
		return
	}

	for _, suf := range []string{"ingly", "edly", "ing", "ed"} {
		if !w.hasSuffix(suf) {
			continue
		}
		stemLen := len(w.buf) - len(suf)
		if !w.hasVowelInRange(0, stemLen) {
			return
		}
		w.trimSuffix(len(suf))
		w.postStep1b(r1)
		return
	}
}

func (w *word) postStep1b(r1 int) {
	switch {
	case w.hasSuffix("at"), w.hasSuffix("bl"), w.hasSuffix("iz"):
		w.buf = append(w.buf, 'e')
	case w.endsWithDoubleConsonant():
		w.buf = w.buf[:len(w.buf)-1]
	case w.isShort(r1):
		w.buf = append(w.buf, 'e')
	}
}

func (w *word) endsWithDoubleConsonant() bool {
	n := len(w.buf)
	if n < 2 {
		return false
	}
	a, b := w.buf[n-2], w.buf[n-1]
	if a != b || isLowerVowel(a) || a == 'Y' {
		return false
	}
	switch a {
	case 'l', 's', 'z':
		return false
	}
	return true
}

func (w *word) step1c() {
	n := len(w.buf)
	if n < 3 {
		return
	}
	last := n - 1
	if w.buf[last] != 'y' && w.buf[last] != 'Y' {
		return
	}
	if w.isVowelAt(last - 1) {
		return
	}
	if last-1 == 0 {
		return
	}
	w.buf[last] = 'i'
}

type suffixRule struct {
	suffix      string
	replacement string
}

// step2Rules is ordered longest-suffix-first so that, e.g., "ization" is
// matched before the shorter "ation" it also ends with.
var step2Rules = []suffixRule{
	{"ational", "ate"},
	{"ization", "ize"},
	{"iveness", "ive"},
	{"fulness", "ful"},
	{"ousness", "ous"},
	{"tional", "tion"},
	{"biliti", "ble"},
	{"lessli", "less"},
	{"entli", "ent"},
	{"ousli", "ous"},
	{"ation", "ate"},
	{"alism", "al"},
	{"aliti", "al"},
	{"iviti", "ive"},
	{"fulli", "ful"},
	{"enci", "ence"},
	{"anci", "ance"},
	{"izer", "ize"},
	{"alli", "al"},
	{"ator", "ate"},
	{"bli", "ble"},
	{"eli", "e"},
}

func isValidLI(c byte) bool {
	switch c {
	case 'c', 'd', 'e', 'g', 'h', 'k', 'm', 'n', 'r', 't':
		return true
	}
	return false
}

func (w *word) step2(r1 int) {
	for _, rule := range step2Rules {
		if w.hasSuffixInRegion(rule.suffix, r1) {
			w.setSuffix(len(rule.suffix), rule.replacement)
			return
		}
	}
	if w.hasSuffixInRegion("ogi", r1) && len(w.buf) >= 4 && w.buf[len(w.buf)-4] == 'l' {
		w.setSuffix(3, "og")
		return
	}
	if w.hasSuffixInRegion("li", r1) && len(w.buf) >= 3 && isValidLI(w.buf[len(w.buf)-3]) {
		w.trimSuffix(2)
	}
}

// step3Rules is ordered longest-suffix-first.
var step3Rules = []suffixRule{
	{"ational", "ate"},
	{"tional", "tion"},
	{"alize", "al"},
	{"icate", "ic"},
	{"iciti", "ic"},
	{"ical", "ic"},
	{"ness", ""},
	{"ful", ""},
}

func (w *word) step3(r1, r2 int) {
	if w.hasSuffixInRegion("ative", r1) && w.hasSuffixInRegion("ative", r2) {
		w.trimSuffix(5)
		return
	}
	for _, rule := range step3Rules {
		if w.hasSuffixInRegion(rule.suffix, r1) {
			w.setSuffix(len(rule.suffix), rule.replacement)
			return
		}
	}
}

// step4Suffixes is ordered longest-suffix-first; all are deletions and all
// require R2.
var step4Suffixes = []string{
	"ement",
	"ance", "ence", "able", "ible", "ment",
	"ant", "ent", "ism", "ate", "iti", "ous", "ive", "ize",
	"al", "er", "ic",
}

func (w *word) step4(r2 int) {
	for _, suf := range step4Suffixes {
		if w.hasSuffixInRegion(suf, r2) {
			w.trimSuffix(len(suf))
			return
		}
	}
	if w.hasSuffixInRegion("ion", r2) {
		n := len(w.buf)
		if n >= 4 {
			switch w.buf[n-4] {
			case 's', 't':
				w.trimSuffix(3)
			}
		}
	}
}

func (w *word) step5(r1, r2 int) {
	n := len(w.buf)
	if n == 0 {
		return
	}
	switch w.buf[n-1] {
	case 'e':
		ePos := n - 1
		switch {
		case ePos >= r2:
			w.trimSuffix(1)
		case ePos >= r1:
			stem := &word{buf: w.buf[:n-1]}
			if !stem.endsInShortSyllable() {
				w.trimSuffix(1)
			}
		}
	case 'l':
		if n >= 2 && w.buf[n-2] == 'l' && n-1 >= r2 {
			w.trimSuffix(1)
		}
	}
}

// porter2 runs the Snowball Porter2 English algorithm on an already
// lowercased, ASCII word of length >= 3.
func porter2(lower string) string {
	if s, ok := exceptionalStems[lower]; ok {
		return s
	}
	if invariantStems[lower] {
		return lower
	}

	w := newWord(lower)
	w.step0()
	r1, r2 := w.regions()
	w.step1a()

	if exception2Words[string(w.buf)] {
		w.unmarkY()
		return string(w.buf)
	}

	w.step1b(r1)
	w.step1c()
	w.step2(r1)
	w.step3(r1, r2)
	w.step4(r2)
	w.step5(r1, r2)

	w.unmarkY()
	return string(w.buf)
}

// computeStem returns the Porter2 stem of word, which must already be
// lowercased. Non-ASCII input and input of length <= 2 is returned unchanged.
func computeStem(lower string) string {
	if lower == "" || !isASCII(lower) || len(lower) <= 2 {
		return lower
	}
	return porter2(lower)
}
