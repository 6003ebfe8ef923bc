package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 30, 0, 0, time.UTC)
}

func testBooks() []*Book {
	return []*Book{
		NewBook("B1", "Dune", "Herbert", "Chilton", "1965", 2, decimal.NewFromInt(5)),
		NewBook("B2", "Emma", "Austen", "Murray", "1815", 1, decimal.RequireFromString("2.5")),
	}
}

func TestNewNote_CostSnapshot(t *testing.T) {
	books := testBooks()
	note := NewNote("Ada", books, date(2024, time.January, 1), DefaultTerms)

	if !note.Cost.Equal(decimal.RequireFromString("7.5")) {
		t.Errorf("expected cost 7.5, got %s", note.Cost)
	}

	// Later price changes must not leak into the note
	books[0].Price = decimal.NewFromInt(100)
	if !note.Cost.Equal(decimal.RequireFromString("7.5")) {
		t.Errorf("cost changed after catalog mutation: %s", note.Cost)
	}

	if !note.Fine.IsZero() || !note.FinalCost.IsZero() {
		t.Errorf("outstanding note must have zero fine and final cost, got %s / %s", note.Fine, note.FinalCost)
	}
}

func TestNewNote_DueDate(t *testing.T) {
	note := NewNote("Ada", testBooks(), date(2024, time.January, 1), DefaultTerms)
	if !note.DueDate.Equal(date(2024, time.January, 11)) {
		t.Errorf("expected due date 2024-01-11, got %s", note.DueDate)
	}
}

func TestNote_CalculateCost(t *testing.T) {
	tests := []struct {
		name         string
		returned     time.Time
		wantLateDays int
		wantFine     int64
	}{
		{name: "four days late", returned: date(2024, time.January, 15), wantLateDays: 4, wantFine: 40},
		{name: "on due date", returned: date(2024, time.January, 11), wantLateDays: 0, wantFine: 0},
		{name: "early", returned: date(2024, time.January, 3), wantLateDays: 0, wantFine: 0},
		{name: "partial day late", returned: date(2024, time.January, 11).Add(20 * time.Hour), wantLateDays: 0, wantFine: 0},
		{name: "one and a half days late", returned: date(2024, time.January, 12).Add(12 * time.Hour), wantLateDays: 1, wantFine: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note := NewNote("Ada", testBooks(), date(2024, time.January, 1), DefaultTerms)
			note.MarkReturned(tt.returned)

			if err := note.CalculateCost(); err != nil {
				t.Fatalf("CalculateCost failed: %v", err)
			}
			if note.LateDays != tt.wantLateDays {
				t.Errorf("expected %d late days, got %d", tt.wantLateDays, note.LateDays)
			}
			if !note.Fine.Equal(decimal.NewFromInt(tt.wantFine)) {
				t.Errorf("expected fine %d, got %s", tt.wantFine, note.Fine)
			}
			if !note.FinalCost.Equal(note.Cost.Add(note.Fine)) {
				t.Errorf("final cost %s != cost %s + fine %s", note.FinalCost, note.Cost, note.Fine)
			}
		})
	}
}

func TestNote_CalculateCostRequiresReturn(t *testing.T) {
	note := NewNote("Ada", testBooks(), date(2024, time.January, 1), DefaultTerms)

	err := note.CalculateCost()
	if !errors.Is(err, ErrNotReturned) {
		t.Fatalf("expected ErrNotReturned, got %v", err)
	}
	if note.LateDays != 0 || !note.Fine.IsZero() || !note.FinalCost.IsZero() {
		t.Error("fields changed on an outstanding note")
	}
}

func TestNote_CustomTerms(t *testing.T) {
	terms := Terms{LoanPeriod: 7 * 24 * time.Hour, FinePerDay: decimal.RequireFromString("1.5")}
	note := NewNote("Ada", testBooks(), date(2024, time.January, 1), terms)
	note.MarkReturned(date(2024, time.January, 10))

	if err := note.CalculateCost(); err != nil {
		t.Fatalf("CalculateCost failed: %v", err)
	}
	if note.LateDays != 2 {
		t.Errorf("expected 2 late days, got %d", note.LateDays)
	}
	if !note.Fine.Equal(decimal.NewFromInt(3)) {
		t.Errorf("expected fine 3, got %s", note.Fine)
	}
}

func TestNote_IsOverdue(t *testing.T) {
	note := NewNote("Ada", testBooks(), date(2024, time.January, 1), DefaultTerms)

	if note.IsOverdue(date(2024, time.January, 5)) {
		t.Error("note should not be overdue before its due date")
	}
	if !note.IsOverdue(date(2024, time.January, 12)) {
		t.Error("note should be overdue after its due date")
	}

	note.MarkReturned(date(2024, time.January, 12))
	if note.IsOverdue(date(2024, time.January, 20)) {
		t.Error("returned note is never overdue")
	}
}
