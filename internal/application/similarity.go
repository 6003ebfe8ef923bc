package application

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// DefaultSimilarityCutoff is the minimum score a fuzzy name match must reach
const DefaultSimilarityCutoff = 0.6

// Similarity scores how alike two strings are, from 0 (unrelated) to 1 (equal)
type Similarity interface {
	Score(a, b string) float64
	Cutoff() float64
}

// EditDistance scores strings by normalized Levenshtein distance, ignoring case
type EditDistance struct {
	Threshold float64
}

// NewEditDistance returns the default fuzzy matcher
func NewEditDistance() EditDistance {
	return EditDistance{Threshold: DefaultSimilarityCutoff}
}

// Score returns 1 - distance/longest length
func (e EditDistance) Score(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// Cutoff returns the minimum accepted score
func (e EditDistance) Cutoff() float64 {
	return e.Threshold
}
