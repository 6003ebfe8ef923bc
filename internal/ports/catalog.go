package ports

import "prestito/internal/domain"

// BookRepository persists the whole catalog at once
type BookRepository interface {
	// Load returns every book in stored order
	Load() ([]*domain.Book, error)

	// Save replaces the stored catalog with books
	Save(books []*domain.Book) error
}
