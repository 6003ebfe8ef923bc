package commands

import (
	"context"

	"prestito/internal/application"
)

// SearchBooksCommand ranks catalog books against a query
type SearchBooksCommand struct {
	catalog *application.Catalog
	Query   string
}

// NewSearchBooksCommand creates a new SearchBooksCommand
func NewSearchBooksCommand(catalog *application.Catalog, query string) *SearchBooksCommand {
	return &SearchBooksCommand{
		catalog: catalog,
		Query:   query,
	}
}

// Execute runs the search command and returns scored, sorted matches
func (c *SearchBooksCommand) Execute(ctx context.Context) ([]application.BookMatch, error) {
	return c.catalog.Search(c.Query), nil
}
