package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldText lowercases and strips combining marks so "Café" and "cafe" compare equal.
// Transformers are stateful, so a fresh chain is built per call.
func foldText(s string) string {
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(strings.TrimSpace(stripped))
}

// substringDistance returns the minimum edit distance between pattern and any
// substring of text (Sellers' algorithm). Leading and trailing text is free.
func substringDistance(pattern, text []rune) int {
	if len(pattern) == 0 {
		return 0
	}
	if len(text) == 0 {
		return len(pattern)
	}

	prev := make([]int, len(text)+1)
	curr := make([]int, len(text)+1)

	for i := 1; i <= len(pattern); i++ {
		curr[0] = i
		for j := 1; j <= len(text); j++ {
			cost := 0
			if pattern[i-1] != text[j-1] {
				cost = 1
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	best := prev[0]
	for _, d := range prev[1:] {
		best = min(best, d)
	}
	return best
}

// pattern is a folded query ready to be matched against many field values.
type pattern struct {
	runes []rune
}

func compilePattern(query string) pattern {
	return pattern{runes: []rune(foldText(query))}
}

func (p pattern) empty() bool {
	return len(p.runes) == 0
}

// distance is the normalized edit distance in [0,1]; 0 means the query occurs verbatim.
func (p pattern) distance(text string) float64 {
	if p.empty() {
		return 0
	}
	d := substringDistance(p.runes, []rune(foldText(text)))
	return min(1, float64(d)/float64(len(p.runes)))
}
