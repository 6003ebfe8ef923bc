package application

import (
	"fmt"
	"slices"
	"strings"

	"prestito/internal/domain"
	"prestito/internal/ports"
)

// Catalog is the in-memory book collection. Stock mutations go through
// ReconcileStockChange, which persists the whole catalog afterwards.
type Catalog struct {
	repo       ports.BookRepository
	similarity Similarity
	books      []*domain.Book
}

// CatalogOption configures a Catalog
type CatalogOption func(*Catalog)

// WithSimilarity swaps the fuzzy name matcher
func WithSimilarity(s Similarity) CatalogOption {
	return func(c *Catalog) {
		c.similarity = s
	}
}

// WithBooks seeds the catalog without loading from the repository
func WithBooks(books ...*domain.Book) CatalogOption {
	return func(c *Catalog) {
		c.books = append(c.books, books...)
	}
}

// NewCatalog creates a catalog backed by repo. A nil repo keeps the catalog
// purely in memory.
func NewCatalog(repo ports.BookRepository, opts ...CatalogOption) *Catalog {
	c := &Catalog{
		repo:       repo,
		similarity: NewEditDistance(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadCatalog creates a catalog and fills it from repo
func LoadCatalog(repo ports.BookRepository, opts ...CatalogOption) (*Catalog, error) {
	c := NewCatalog(repo, opts...)
	books, err := repo.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	c.books = books
	return c, nil
}

// Books returns all books in catalog order
func (c *Catalog) Books() []*domain.Book {
	return slices.Clone(c.books)
}

// Available returns the books with at least one copy on the shelf
func (c *Catalog) Available() []*domain.Book {
	var result []*domain.Book
	for _, b := range c.books {
		if b.Available() {
			result = append(result, b)
		}
	}
	return result
}

// Len returns the number of catalog entries
func (c *Catalog) Len() int {
	return len(c.books)
}

// FindByID returns the first book whose ID matches, ignoring case
func (c *Catalog) FindByID(id string) (*domain.Book, error) {
	id = strings.TrimSpace(id)
	for _, b := range c.books {
		if strings.EqualFold(b.ID, id) {
			return b, nil
		}
	}
	return nil, &NotFoundError{Kind: "book", Query: id}
}

// FindByName returns the first book whose name matches, ignoring case
func (c *Catalog) FindByName(name string) (*domain.Book, error) {
	name = strings.TrimSpace(name)
	for _, b := range c.books {
		if strings.EqualFold(b.Name, name) {
			return b, nil
		}
	}
	return nil, &NotFoundError{Kind: "book", Query: name}
}

// FindSimilar returns the book whose name is closest to name, provided the
// score clears the similarity cutoff. Ties keep catalog order.
func (c *Catalog) FindSimilar(name string) (*domain.Book, error) {
	var (
		best      *domain.Book
		bestScore float64
	)
	for _, b := range c.books {
		score := c.similarity.Score(name, b.Name)
		if score < c.similarity.Cutoff() {
			continue
		}
		if best == nil || score > bestScore {
			best, bestScore = b, score
		}
	}
	if best == nil {
		return nil, &NotFoundError{Kind: "book", Query: name}
	}
	return best, nil
}

// Add appends a new book. The catalog is unchanged when the ID or the
// title (case-insensitively) is taken.
func (c *Catalog) Add(book *domain.Book) error {
	if err := book.Validate(); err != nil {
		return &ValidationError{Field: "book", Message: err.Error()}
	}
	if existing, err := c.FindByID(book.ID); err == nil {
		return &DuplicateIDError{ID: book.ID, Existing: existing.Name}
	}
	if existing, err := c.FindByName(book.Name); err == nil {
		return &DuplicateNameError{Name: book.Name, ExistingID: existing.ID}
	}
	c.books = append(c.books, book)
	return nil
}

// Remove deletes the given book by identity
func (c *Catalog) Remove(book *domain.Book) error {
	idx := slices.Index(c.books, book)
	if idx < 0 {
		name := ""
		if book != nil {
			name = book.Name
		}
		return &NotFoundError{Kind: "book", Query: name}
	}
	c.books = slices.Delete(c.books, idx, idx+1)
	return nil
}

// ReconcileStockChange applies a borrow (delta -1) or return (delta +1) to
// one book and then persists the whole catalog. A rejected stock change
// leaves both memory and storage untouched.
func (c *Catalog) ReconcileStockChange(bookID string, delta int) (*domain.Book, error) {
	book, err := c.FindByID(bookID)
	if err != nil {
		return nil, err
	}

	switch delta {
	case -1:
		err = book.Borrow()
	case 1:
		err = book.Returned()
	default:
		return nil, &ValidationError{
			Field:   "delta",
			Message: fmt.Sprintf("stock changes move one copy at a time, got %d", delta),
		}
	}
	if err != nil {
		return book, err
	}

	return book, c.Save()
}

// Save persists the whole catalog
func (c *Catalog) Save() error {
	if c.repo == nil {
		return nil
	}
	if err := c.repo.Save(c.books); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	return nil
}
