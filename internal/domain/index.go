package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NoteSummary represents a cached note entry used by reports
type NoteSummary struct {
	ID           string // Note id (primary key)
	BorrowerSlug string
	Borrower     string
	BookCount    int
	BorrowedDate time.Time
	DueDate      time.Time
	Returned     bool
	ReturnedDate time.Time
	FinalCost    decimal.Decimal
}

// Summarize builds the cached view of a parsed note
func Summarize(id string, n *Note) NoteSummary {
	slug, _, err := ParseNoteID(id)
	if err != nil {
		slug = Slug(n.Borrower)
	}
	return NoteSummary{
		ID:           id,
		BorrowerSlug: slug,
		Borrower:     n.Borrower,
		BookCount:    len(n.Books),
		BorrowedDate: n.BorrowedDate,
		DueDate:      n.DueDate,
		Returned:     n.Returned,
		ReturnedDate: n.ReturnedDate,
		FinalCost:    n.FinalCost,
	}
}

// SyncStats holds statistics from a sync operation
type SyncStats struct {
	NotesAdded   int
	NotesUpdated int
	NotesDeleted int
	FilesScanned int
	Skipped      int // Ledgers that failed to parse
	Duration     time.Duration
}
