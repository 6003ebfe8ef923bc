package commands

import (
	"errors"
	"fmt"

	"prestito/internal/application"
	"prestito/internal/domain"
)

// Tier tells how a book query was matched
type Tier int

const (
	TierID Tier = iota
	TierName
	TierFuzzy
)

func (t Tier) String() string {
	switch t {
	case TierID:
		return "id"
	case TierName:
		return "name"
	case TierFuzzy:
		return "similar name"
	default:
		return "unknown"
	}
}

// Resolution is a catalog book matched from operator input
type Resolution struct {
	Query string
	Book  *domain.Book
	Tier  Tier
}

// NeedsConfirm reports whether the operator must accept the match first
func (r Resolution) NeedsConfirm() bool {
	return r.Tier == TierFuzzy
}

// SuggestionError reports a fuzzy match that was not accepted
type SuggestionError struct {
	Query      string
	Suggestion *domain.Book
}

func (e *SuggestionError) Error() string {
	return fmt.Sprintf("no book named %q; did you mean %q (%s)?", e.Query, e.Suggestion.Name, e.Suggestion.ID)
}

func (e *SuggestionError) Is(target error) bool {
	return target == application.ErrNotConfirmed
}

// ResolveBook matches query against the catalog by id, then exact name,
// then similar name. The first tier that matches wins.
func ResolveBook(catalog *application.Catalog, query string) (Resolution, error) {
	if err := application.ValidateRequired("query", query); err != nil {
		return Resolution{}, err
	}

	if b, err := catalog.FindByID(query); err == nil {
		return Resolution{Query: query, Book: b, Tier: TierID}, nil
	} else if !errors.Is(err, application.ErrNotFound) {
		return Resolution{}, err
	}

	if b, err := catalog.FindByName(query); err == nil {
		return Resolution{Query: query, Book: b, Tier: TierName}, nil
	} else if !errors.Is(err, application.ErrNotFound) {
		return Resolution{}, err
	}

	b, err := catalog.FindSimilar(query)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{Query: query, Book: b, Tier: TierFuzzy}, nil
}

// Accept turns a resolution into a book, failing with a SuggestionError when
// a fuzzy match was not confirmed
func (r Resolution) Accept(confirmed bool) (*domain.Book, error) {
	if r.NeedsConfirm() && !confirmed {
		return nil, &SuggestionError{Query: r.Query, Suggestion: r.Book}
	}
	return r.Book, nil
}
