package commands

import (
	"context"
	"fmt"

	"prestito/internal/application"
	"prestito/internal/domain"
)

// NoteView is a rendered note, open or closed
type NoteView struct {
	ID       string
	Note     *domain.Note
	Invoice  string
	Markdown string
	Path     string // Stored invoice file, empty when unknown
}

// PrintNote renders any note from its ledger
func (c *Coordinator) PrintNote(ctx context.Context, id string) (*NoteView, error) {
	note, err := c.LoadNote(ctx, id)
	if err != nil {
		return nil, err
	}

	path, err := c.Store.InvoicePath(id)
	if err != nil {
		c.Logger.Debug("no stored invoice", "note", id, "err", err)
		path = ""
	}

	return &NoteView{
		ID:       id,
		Note:     note,
		Invoice:  application.RenderInvoice(c.Header, note, c.Width),
		Markdown: application.RenderInvoiceMarkdown(c.Header, note),
		Path:     path,
	}, nil
}

// NoteListing is one search hit with enough detail to pick from a list
type NoteListing struct {
	ID         string
	Borrower   string
	BorrowedAt string
	Closed     bool
}

// SearchNotes lists note ids containing keyword. Ids that do not parse as
// note ids are still listed with an empty borrow date.
func (c *Coordinator) SearchNotes(ctx context.Context, keyword string, openOnly bool) ([]NoteListing, error) {
	ids, err := c.Store.Search(keyword, openOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to search notes: %w", err)
	}

	listings := make([]NoteListing, 0, len(ids))
	for _, id := range ids {
		l := NoteListing{ID: id}
		if slug, at, err := domain.ParseNoteID(id); err == nil {
			l.Borrower = domain.DisplayName(slug)
			l.BorrowedAt = at.Format("2006-01-02 15:04")
		}
		if !openOnly {
			lines, err := c.Store.Load(id)
			if err != nil {
				return nil, err
			}
			l.Closed = domain.IsClosed(lines)
		}
		listings = append(listings, l)
	}
	return listings, nil
}
