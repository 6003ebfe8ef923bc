package application

import (
	"sort"
	"strings"

	"prestito/internal/domain"
)

// BookMatch is a catalog entry with its relevance to a search query
type BookMatch struct {
	Book  *domain.Book
	Score int
}

// FuzzyScore calculates a relevance score for how well target matches query
func FuzzyScore(target, query string) int {
	target = strings.ToLower(target)
	query = strings.ToLower(query)

	if len(query) == 0 {
		return 0
	}

	// Substring matches outrank any in-order character match
	if strings.Contains(target, query) {
		score := 100
		if strings.HasPrefix(target, query) {
			score += 50
		}
		return score
	}

	// Fuzzy match: chars must appear in order
	score := 0
	queryIdx := 0
	prevMatchIdx := -1

	for i := 0; i < len(target) && queryIdx < len(query); i++ {
		if target[i] == query[queryIdx] {
			if prevMatchIdx == i-1 {
				score += 10 // consecutive chars
			}
			if i == 0 {
				score += 15 // start of string
			}
			if i > 0 && (target[i-1] == ' ' || target[i-1] == '-' || target[i-1] == ':') {
				score += 10 // word start
			}
			score++
			prevMatchIdx = i
			queryIdx++
		}
	}

	if queryIdx == len(query) {
		return score
	}
	return 0
}

// Search ranks catalog books against query by ID, name and author.
// Queries shorter than two characters return nothing.
func (c *Catalog) Search(query string) []BookMatch {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil
	}

	var matches []BookMatch
	for _, b := range c.books {
		best := max(
			FuzzyScore(b.ID, query),
			FuzzyScore(b.Name, query),
			FuzzyScore(b.Author, query),
		)
		if best > 0 {
			matches = append(matches, BookMatch{Book: b, Score: best})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}
