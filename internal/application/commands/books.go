package commands

import (
	"context"
	"fmt"
	"strings"

	"prestito/internal/application"
	"prestito/internal/domain"
)

// AddBookResult contains the result of adding a book
type AddBookResult struct {
	Book    *domain.Book
	Message string
}

// AddBookCommand adds a book to the catalog from operator input
type AddBookCommand struct {
	catalog   *application.Catalog
	ID        string
	Name      string
	Author    string
	Publisher string
	PubDate   string
	Total     string
	Price     string
}

// NewAddBookCommand creates a new AddBookCommand
func NewAddBookCommand(catalog *application.Catalog, id, name, author, publisher, pubDate, total, price string) *AddBookCommand {
	return &AddBookCommand{
		catalog:   catalog,
		ID:        strings.TrimSpace(id),
		Name:      strings.TrimSpace(name),
		Author:    strings.TrimSpace(author),
		Publisher: strings.TrimSpace(publisher),
		PubDate:   strings.TrimSpace(pubDate),
		Total:     total,
		Price:     price,
	}
}

// Validate checks the input and parses it into a book
func (c *AddBookCommand) Validate() (*domain.Book, error) {
	if err := application.ValidateRequired("bookID", c.ID); err != nil {
		return nil, err
	}
	if err := application.ValidateRequired("name", c.Name); err != nil {
		return nil, err
	}
	for field, v := range map[string]string{
		"bookID": c.ID, "name": c.Name, "author": c.Author, "publisher": c.Publisher,
	} {
		if err := application.ValidateNoCommas(field, v); err != nil {
			return nil, err
		}
	}

	pubDate, err := application.ParseYear("pubDate", c.PubDate)
	if err != nil {
		return nil, err
	}
	total, err := application.ParseStock("total", c.Total)
	if err != nil {
		return nil, err
	}
	price, err := application.ParsePrice("price", c.Price)
	if err != nil {
		return nil, err
	}

	return domain.NewBook(c.ID, c.Name, c.Author, c.Publisher, pubDate, total, price), nil
}

// Execute adds the book and persists the catalog
func (c *AddBookCommand) Execute(ctx context.Context) (*AddBookResult, error) {
	book, err := c.Validate()
	if err != nil {
		return nil, err
	}

	if err := c.catalog.Add(book); err != nil {
		return nil, err
	}
	if err := c.catalog.Save(); err != nil {
		return nil, err
	}

	return &AddBookResult{
		Book:    book,
		Message: fmt.Sprintf("Added %s %s", book.ID, book.Name),
	}, nil
}

// RemoveBookResult contains the result of removing a book
type RemoveBookResult struct {
	Book    *domain.Book
	Message string
}

// RemoveBookCommand removes a book found by id, name or similar name
type RemoveBookCommand struct {
	catalog *application.Catalog
	Query   string
	// AcceptSuggestion confirms a similar-name match
	AcceptSuggestion bool
}

// NewRemoveBookCommand creates a new RemoveBookCommand
func NewRemoveBookCommand(catalog *application.Catalog, query string, acceptSuggestion bool) *RemoveBookCommand {
	return &RemoveBookCommand{
		catalog:          catalog,
		Query:            query,
		AcceptSuggestion: acceptSuggestion,
	}
}

// Execute removes the book and persists the catalog. Outstanding notes keep
// their ledger copy of the book.
func (c *RemoveBookCommand) Execute(ctx context.Context) (*RemoveBookResult, error) {
	res, err := ResolveBook(c.catalog, c.Query)
	if err != nil {
		return nil, err
	}
	book, err := res.Accept(c.AcceptSuggestion)
	if err != nil {
		return nil, err
	}

	if err := c.catalog.Remove(book); err != nil {
		return nil, err
	}
	if err := c.catalog.Save(); err != nil {
		return nil, err
	}

	return &RemoveBookResult{
		Book:    book,
		Message: fmt.Sprintf("Removed %s %s", book.ID, book.Name),
	}, nil
}

// ListBooksCommand lists the catalog
type ListBooksCommand struct {
	catalog       *application.Catalog
	AvailableOnly bool
}

// NewListBooksCommand creates a new ListBooksCommand
func NewListBooksCommand(catalog *application.Catalog, availableOnly bool) *ListBooksCommand {
	return &ListBooksCommand{catalog: catalog, AvailableOnly: availableOnly}
}

// Execute runs the list books command
func (c *ListBooksCommand) Execute(ctx context.Context) ([]*domain.Book, error) {
	if c.AvailableOnly {
		return c.catalog.Available(), nil
	}
	return c.catalog.Books(), nil
}

// SaveCatalogCommand writes the catalog to the stock file
type SaveCatalogCommand struct {
	catalog *application.Catalog
}

// NewSaveCatalogCommand creates a new SaveCatalogCommand
func NewSaveCatalogCommand(catalog *application.Catalog) *SaveCatalogCommand {
	return &SaveCatalogCommand{catalog: catalog}
}

// Execute runs the save command
func (c *SaveCatalogCommand) Execute(ctx context.Context) (string, error) {
	if err := c.catalog.Save(); err != nil {
		return "", err
	}
	return fmt.Sprintf("Saved %d books", c.catalog.Len()), nil
}
