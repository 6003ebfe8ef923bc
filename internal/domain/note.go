package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotReturned is returned when a cost is requested for an outstanding note
var ErrNotReturned = errors.New("note has not been marked as returned")

// Terms are the lending conditions applied to new notes
type Terms struct {
	LoanPeriod time.Duration
	FinePerDay decimal.Decimal
}

// DefaultTerms lends for ten days and fines 10 per late day
var DefaultTerms = Terms{
	LoanPeriod: 10 * 24 * time.Hour,
	FinePerDay: decimal.NewFromInt(10),
}

const day = 24 * time.Hour

// Note is one lending transaction: the books one borrower took together
type Note struct {
	Borrower     string
	Books        []*Book
	Prices       []decimal.Decimal // Price of each book when borrowed, parallel to Books
	BorrowedDate time.Time
	DueDate      time.Time
	Returned     bool
	ReturnedDate time.Time // Zero while outstanding
	LateDays     int
	Cost         decimal.Decimal // Sum of book prices when the note was created
	Fine         decimal.Decimal
	FinalCost    decimal.Decimal

	finePerDay decimal.Decimal
}

// NewNote creates an outstanding note. The cost is a snapshot of the book
// prices at this moment and is never recomputed.
func NewNote(borrower string, books []*Book, borrowedAt time.Time, terms Terms) *Note {
	cost := decimal.Zero
	prices := make([]decimal.Decimal, len(books))
	for i, b := range books {
		prices[i] = b.Price
		cost = cost.Add(b.Price)
	}
	return &Note{
		Borrower:     borrower,
		Books:        books,
		Prices:       prices,
		BorrowedDate: borrowedAt,
		DueDate:      borrowedAt.Add(terms.LoanPeriod),
		Cost:         cost,
		Fine:         decimal.Zero,
		FinalCost:    decimal.Zero,
		finePerDay:   terms.FinePerDay,
	}
}

// MarkReturned closes the note at the given time. Calling it twice
// overwrites the return date.
func (n *Note) MarkReturned(at time.Time) {
	n.ReturnedDate = at
	n.Returned = true
}

// CalculateCost computes late days, fine and final cost of a returned note.
// An outstanding note is left untouched.
func (n *Note) CalculateCost() error {
	if !n.Returned {
		return ErrNotReturned
	}

	lateDays := 0
	if late := n.ReturnedDate.Sub(n.DueDate); late > 0 {
		lateDays = int(late / day)
	}

	n.LateDays = lateDays
	n.Fine = n.finePerDay.Mul(decimal.NewFromInt(int64(lateDays)))
	n.FinalCost = n.Cost.Add(n.Fine)
	return nil
}

// IsOverdue reports whether an outstanding note is past its due date
func (n *Note) IsOverdue(now time.Time) bool {
	return !n.Returned && now.After(n.DueDate)
}

// BookNames returns the titles of the borrowed books in ledger order
func (n *Note) BookNames() []string {
	names := make([]string, 0, len(n.Books))
	for _, b := range n.Books {
		names = append(names, b.Name)
	}
	return names
}

// BookPrice returns what the i-th book cost when it was borrowed. The
// catalog price may have changed since.
func (n *Note) BookPrice(i int) decimal.Decimal {
	if i < len(n.Prices) {
		return n.Prices[i]
	}
	return n.Books[i].Price
}
