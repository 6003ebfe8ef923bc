package commands

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"prestito/internal/application"
	"prestito/internal/domain"
)

// SessionState is the lifecycle of a borrow session
type SessionState int

const (
	SessionCollecting SessionState = iota
	SessionFinalized
	SessionCancelled
)

// AddOutcome is what happened to a book offered to a borrow session
type AddOutcome int

const (
	AddBorrowed AddOutcome = iota
	AddDepleted
	AddDuplicate
)

func (o AddOutcome) String() string {
	switch o {
	case AddBorrowed:
		return "borrowed"
	case AddDepleted:
		return "out of stock"
	case AddDuplicate:
		return "already in this note"
	default:
		return "unknown"
	}
}

// AddResult reports the outcome of adding one book to a session
type AddResult struct {
	Book    *domain.Book
	Outcome AddOutcome
	Message string
}

// BorrowReceipt is the persisted result of a finalized session
type BorrowReceipt struct {
	ID      string
	Note    *domain.Note
	Invoice string
	Message string
}

// BorrowSession collects the books one borrower takes together. Each added
// book leaves the shelf immediately; Finalize writes the note.
type BorrowSession struct {
	coord    *Coordinator
	Borrower string
	books    []*domain.Book
	state    SessionState
}

// NewBorrowSession opens a session for borrower
func (c *Coordinator) NewBorrowSession(borrower string) (*BorrowSession, error) {
	borrower = strings.TrimSpace(borrower)
	if err := application.ValidateRequired("borrower", borrower); err != nil {
		return nil, err
	}
	if err := application.ValidateNoCommas("borrower", borrower); err != nil {
		return nil, err
	}
	if err := application.ValidateNoPathSeparators("borrower", borrower); err != nil {
		return nil, err
	}
	return &BorrowSession{coord: c, Borrower: borrower}, nil
}

// State returns the session lifecycle state
func (s *BorrowSession) State() SessionState {
	return s.state
}

// Books returns the books collected so far in the order they were added
func (s *BorrowSession) Books() []*domain.Book {
	return slices.Clone(s.books)
}

// Resolve matches operator input to a catalog book
func (s *BorrowSession) Resolve(query string) (Resolution, error) {
	if s.state != SessionCollecting {
		return Resolution{}, application.ErrSessionClosed
	}
	return ResolveBook(s.coord.Catalog, query)
}

// Add takes one copy of book off the shelf and adds it to the session.
// Depleted and duplicate books are reported as outcomes and the session
// continues. A failed catalog save is returned as an error; the copy stays
// borrowed and in the session.
func (s *BorrowSession) Add(book *domain.Book) (AddResult, error) {
	if s.state != SessionCollecting {
		return AddResult{}, application.ErrSessionClosed
	}

	if slices.ContainsFunc(s.books, func(b *domain.Book) bool { return strings.EqualFold(b.ID, book.ID) }) {
		return AddResult{
			Book:    book,
			Outcome: AddDuplicate,
			Message: fmt.Sprintf("%s is already in this note", book.Name),
		}, nil
	}

	_, err := s.coord.Catalog.ReconcileStockChange(book.ID, -1)
	switch {
	case errors.Is(err, domain.ErrStockDepleted):
		s.coord.Logger.Info("book out of stock", "book", book.ID, "borrower", s.Borrower)
		return AddResult{
			Book:    book,
			Outcome: AddDepleted,
			Message: fmt.Sprintf("%s is out of stock", book.Name),
		}, nil
	case errors.Is(err, application.ErrIO):
		s.books = append(s.books, book)
		return AddResult{Book: book, Outcome: AddBorrowed}, err
	case err != nil:
		return AddResult{}, err
	}

	s.books = append(s.books, book)
	return AddResult{
		Book:    book,
		Outcome: AddBorrowed,
		Message: fmt.Sprintf("Added %s (%d left)", book.Name, book.Remaining),
	}, nil
}

// Finalize writes the note for the collected books and closes the session.
// A failed write leaves the session open so it can be retried.
func (s *BorrowSession) Finalize(ctx context.Context) (*BorrowReceipt, error) {
	if s.state != SessionCollecting {
		return nil, application.ErrSessionClosed
	}
	if len(s.books) == 0 {
		return nil, application.ErrEmptySession
	}

	c := s.coord
	note := domain.NewNote(s.Borrower, slices.Clone(s.books), c.now(), c.Terms)
	id := domain.NewNoteID(s.Borrower, note.BorrowedDate, c.Store.Exists)
	invoice := application.RenderInvoice(c.Header, note, c.Width)

	if err := c.Store.Save(id, invoice, note.BorrowLedgerLines()); err != nil {
		return nil, fmt.Errorf("failed to save note %s: %w", id, err)
	}

	s.state = SessionFinalized
	c.Logger.Info("note created", "note", id, "borrower", s.Borrower, "books", len(s.books))

	return &BorrowReceipt{
		ID:      id,
		Note:    note,
		Invoice: invoice,
		Message: fmt.Sprintf("Created note %s for %s (%d books, due %s)",
			id, s.Borrower, len(s.books), note.DueDate.Format("2006-01-02")),
	}, nil
}

// Cancel puts every collected copy back on the shelf and closes the session
// without writing a note
func (s *BorrowSession) Cancel(ctx context.Context) error {
	if s.state != SessionCollecting {
		return application.ErrSessionClosed
	}

	var errs []error
	for _, b := range s.books {
		if _, err := s.coord.Catalog.ReconcileStockChange(b.ID, 1); err != nil {
			s.coord.Logger.Warn("restock on cancel failed", "book", b.ID, "err", err)
			errs = append(errs, err)
		}
	}
	s.books = nil
	s.state = SessionCancelled
	return errors.Join(errs...)
}

// BorrowLine reports what happened to one requested book
type BorrowLine struct {
	Query   string
	Book    *domain.Book
	Outcome AddOutcome
	Err     error // Set when the query did not resolve or the add failed
}

// BorrowResult contains the per-book report and the written note
type BorrowResult struct {
	Lines   []BorrowLine
	Receipt *BorrowReceipt
}

// BorrowCommand runs a whole borrow session from a list of book queries,
// for callers that cannot prompt between books
type BorrowCommand struct {
	coord             *Coordinator
	Borrower          string
	Queries           []string
	AcceptSuggestions bool
}

// NewBorrowCommand creates a new BorrowCommand
func NewBorrowCommand(coord *Coordinator, borrower string, queries []string, acceptSuggestions bool) *BorrowCommand {
	return &BorrowCommand{
		coord:             coord,
		Borrower:          borrower,
		Queries:           queries,
		AcceptSuggestions: acceptSuggestions,
	}
}

// Execute resolves and adds every query, then finalizes the note. Books
// that cannot be borrowed are reported and skipped. When nothing was
// borrowed the result carries the report and ErrEmptySession. When the
// note cannot be written the borrowed copies are restocked.
func (c *BorrowCommand) Execute(ctx context.Context) (*BorrowResult, error) {
	s, err := c.coord.NewBorrowSession(c.Borrower)
	if err != nil {
		return nil, err
	}

	result := &BorrowResult{}
	for _, q := range c.Queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		line := BorrowLine{Query: q}

		res, err := s.Resolve(q)
		if err != nil {
			line.Err = err
			result.Lines = append(result.Lines, line)
			continue
		}
		book, err := res.Accept(c.AcceptSuggestions)
		if err != nil {
			line.Err = err
			result.Lines = append(result.Lines, line)
			continue
		}

		added, err := s.Add(book)
		line.Book, line.Outcome, line.Err = book, added.Outcome, err
		result.Lines = append(result.Lines, line)
	}

	receipt, err := s.Finalize(ctx)
	if err != nil {
		// A one-shot session is never retried; put the copies back
		if cerr := s.Cancel(ctx); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to restock: %w", cerr))
		}
		return result, err
	}
	result.Receipt = receipt
	return result, nil
}
