package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prestito/internal/application"
	"prestito/internal/domain"
)

// OpenNote is an outstanding note offered for return
type OpenNote struct {
	ID         string
	BorrowedAt time.Time
}

// OpenNotes lists the outstanding notes of borrower in store order
func (c *Coordinator) OpenNotes(ctx context.Context, borrower string) ([]OpenNote, error) {
	if err := application.ValidateRequired("borrower", borrower); err != nil {
		return nil, err
	}

	slug := domain.Slug(borrower)
	ids, err := c.Store.Search(slug, true)
	if err != nil {
		return nil, fmt.Errorf("failed to search notes: %w", err)
	}

	var notes []OpenNote
	for _, id := range ids {
		idSlug, at, err := domain.ParseNoteID(id)
		if err != nil || idSlug != slug {
			continue
		}
		notes = append(notes, OpenNote{ID: id, BorrowedAt: at})
	}
	return notes, nil
}

// LoadNote rehydrates a note from its ledger, linking books still in the
// catalog by name
func (c *Coordinator) LoadNote(ctx context.Context, id string) (*domain.Note, error) {
	if err := application.ValidateRequired("noteID", id); err != nil {
		return nil, err
	}
	lines, err := c.Store.Load(id)
	if err != nil {
		return nil, err
	}
	note, err := domain.ParseLedger(lines, c.Terms, c.resolveLedgerBook)
	if err != nil {
		return nil, fmt.Errorf("note %s: %w", id, err)
	}
	return note, nil
}

// ReturnOutcome is what happened to one book of a returned note
type ReturnOutcome int

const (
	ReturnRestocked ReturnOutcome = iota
	ReturnOverfull
	ReturnDetached
)

func (o ReturnOutcome) String() string {
	switch o {
	case ReturnRestocked:
		return "restocked"
	case ReturnOverfull:
		return "stock already full"
	case ReturnDetached:
		return "no longer in catalog"
	default:
		return "unknown"
	}
}

// BookReturn reports the restock of one book
type BookReturn struct {
	Book    *domain.Book
	Outcome ReturnOutcome
}

// ReturnReceipt is the result of closing a note
type ReturnReceipt struct {
	ID      string
	Note    *domain.Note
	Books   []BookReturn
	Invoice string
	Message string
}

// Return closes note id. Nothing is changed unless confirmed is true. Each
// book is restocked independently: a full shelf or a book that left the
// catalog is reported and the remaining books still go back. Catalog and
// ledger write failures are returned together with the receipt.
func (c *Coordinator) Return(ctx context.Context, id string, confirmed bool) (*ReturnReceipt, error) {
	if !confirmed {
		return nil, application.ErrNotConfirmed
	}
	if err := application.ValidateRequired("noteID", id); err != nil {
		return nil, err
	}

	lines, err := c.Store.Load(id)
	if err != nil {
		return nil, err
	}
	if domain.IsClosed(lines) {
		return nil, fmt.Errorf("%s: %w", id, application.ErrClosedNote)
	}
	note, err := domain.ParseLedger(lines, c.Terms, c.resolveLedgerBook)
	if err != nil {
		return nil, fmt.Errorf("note %s: %w", id, err)
	}

	var (
		books   = make([]BookReturn, 0, len(note.Books))
		ioErrs  []error
		skipped int
	)
	for _, b := range note.Books {
		if b.Detached() {
			c.Logger.Warn("returned book not in catalog", "note", id, "book", b.Name)
			books = append(books, BookReturn{Book: b, Outcome: ReturnDetached})
			skipped++
			continue
		}

		_, err := c.Catalog.ReconcileStockChange(b.ID, 1)
		switch {
		case err == nil:
			books = append(books, BookReturn{Book: b, Outcome: ReturnRestocked})
		case errors.Is(err, domain.ErrStockOverfull):
			c.Logger.Warn("returned book already fully stocked", "note", id, "book", b.ID, "remaining", b.Remaining)
			books = append(books, BookReturn{Book: b, Outcome: ReturnOverfull})
			skipped++
		case errors.Is(err, application.ErrNotFound):
			c.Logger.Warn("returned book not in catalog", "note", id, "book", b.ID)
			books = append(books, BookReturn{Book: b, Outcome: ReturnDetached})
			skipped++
		default:
			// The copy is back in memory even though the catalog save failed
			books = append(books, BookReturn{Book: b, Outcome: ReturnRestocked})
			ioErrs = append(ioErrs, err)
		}
	}

	note.MarkReturned(c.now())
	if err := note.CalculateCost(); err != nil {
		c.Logger.Error("cost not calculated", "note", id, "err", err)
	}

	line, _ := note.ReturnLedgerLine()
	invoice := application.RenderInvoice(c.Header, note, c.Width)
	if err := c.Store.AppendReturn(id, invoice, line); err != nil {
		ioErrs = append(ioErrs, fmt.Errorf("failed to record return of %s: %w", id, err))
	}

	c.Logger.Info("note returned", "note", id, "late_days", note.LateDays, "final_cost", note.FinalCost.String())

	msg := fmt.Sprintf("Returned note %s: %d late days, total %s",
		id, note.LateDays, application.FormatMoney(note.FinalCost, c.Header.Currency))
	if skipped > 0 {
		msg += fmt.Sprintf(" (%d books not restocked)", skipped)
	}

	return &ReturnReceipt{
		ID:      id,
		Note:    note,
		Books:   books,
		Invoice: invoice,
		Message: msg,
	}, errors.Join(ioErrs...)
}
