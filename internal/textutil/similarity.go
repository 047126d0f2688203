package textutil

import (
	"math"
	"regexp"

	"golang.org/x/text/cases"
)

var nonWordRun = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// minTokenRunes drops articles and short particles that dominate prose
// without saying anything about its content.
const minTokenRunes = 3

// termCounts is a bag-of-words vector.
type termCounts map[string]float64

// Tokenize case-folds text and splits it into words of at least three runes.
func Tokenize(text string) []string {
	var terms []string
	for _, word := range nonWordRun.Split(cases.Fold().String(text), -1) {
		if len([]rune(word)) >= minTokenRunes {
			terms = append(terms, word)
		}
	}
	return terms
}

func countTerms(text string) termCounts {
	counts := termCounts{}
	for _, term := range Tokenize(text) {
		counts[term]++
	}
	return counts
}

func (c termCounts) magnitude() float64 {
	var sum float64
	for _, n := range c {
		sum += n * n
	}
	return math.Sqrt(sum)
}

// cosine returns the cosine of the angle between two term vectors, or 0
// when either is empty.
func cosine(a, b termCounts) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for term, n := range a {
		dot += n * b[term]
	}
	if dot == 0 {
		return 0
	}
	return min(dot/(a.magnitude()*b.magnitude()), 1)
}

// Similarity scores how much vocabulary two texts share, in [0,1]. Texts
// too short to yield any words compare by plain equality.
func Similarity(a, b string) float64 {
	ca, cb := countTerms(a), countTerms(b)
	if len(ca) == 0 && len(cb) == 0 {
		if a == b {
			return 1
		}
		return 0
	}
	return cosine(ca, cb)
}
