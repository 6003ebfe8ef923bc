package application

import (
	"errors"
	"fmt"

	"prestito/internal/domain"
)

// Sentinel errors for common conditions
var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateID   = errors.New("duplicate ID")
	ErrDuplicateName = errors.New("duplicate book name")
	ErrIO            = errors.New("persistence failure")
	ErrNotConfirmed  = errors.New("not confirmed")
	ErrSessionClosed = errors.New("borrow session already finalized")
	ErrEmptySession  = errors.New("no books in borrow session")
	ErrClosedNote    = errors.New("note already returned")

	// Stock boundary errors live with the Book they guard
	ErrStockDepleted = domain.ErrStockDepleted
	ErrStockOverfull = domain.ErrStockOverfull
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError names the lookup that missed
type NotFoundError struct {
	Kind  string // "book" or "note"
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Query)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// DuplicateIDError represents a catalog add colliding with an existing book
type DuplicateIDError struct {
	ID       string
	Existing string // Name of the book already holding the ID
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("the book titled %s already has ID %s", e.Existing, e.ID)
}

func (e *DuplicateIDError) Is(target error) bool {
	return target == ErrDuplicateID
}

// DuplicateNameError represents a catalog add reusing the title of an
// existing book. Ledgers record books by name, so titles stay unique.
type DuplicateNameError struct {
	Name       string
	ExistingID string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("a book titled %s already exists with ID %s", e.Name, e.ExistingID)
}

func (e *DuplicateNameError) Is(target error) bool {
	return target == ErrDuplicateName || target == ErrDuplicateID
}

// IOError represents a failed read or write of a persisted store
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}
