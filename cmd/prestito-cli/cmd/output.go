package cmd

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"prestito/internal/application"
	"prestito/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

// bookJSON is the --json view of a book
type bookJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
	PubDate   string `json:"pub_date"`
	Total     int    `json:"total"`
	Remaining int    `json:"remaining"`
	Price     string `json:"price"`
	Score     int    `json:"score,omitempty"`
}

func toBookJSON(b *domain.Book) bookJSON {
	return bookJSON{
		ID:        b.ID,
		Name:      b.Name,
		Author:    b.Author,
		Publisher: b.Publisher,
		PubDate:   b.PubDate,
		Total:     b.Total,
		Remaining: b.Remaining,
		Price:     b.Price.StringFixed(2),
	}
}

// noteJSON is the --json view of a note
type noteJSON struct {
	ID           string     `json:"id"`
	Borrower     string     `json:"borrower"`
	Books        []bookJSON `json:"books"`
	BorrowedDate string     `json:"borrowed_date"`
	DueDate      string     `json:"due_date"`
	Returned     bool       `json:"returned"`
	ReturnedDate string     `json:"returned_date,omitempty"`
	LateDays     int        `json:"late_days"`
	Cost         string     `json:"cost"`
	Fine         string     `json:"fine,omitempty"`
	FinalCost    string     `json:"final_cost,omitempty"`
}

func toNoteJSON(id string, n *domain.Note) noteJSON {
	v := noteJSON{
		ID:           id,
		Borrower:     n.Borrower,
		BorrowedDate: n.BorrowedDate.Format(timeLayout),
		DueDate:      n.DueDate.Format(timeLayout),
		Returned:     n.Returned,
		LateDays:     n.LateDays,
		Cost:         n.Cost.StringFixed(2),
	}
	for _, b := range n.Books {
		v.Books = append(v.Books, toBookJSON(b))
	}
	if n.Returned {
		v.ReturnedDate = n.ReturnedDate.Format(timeLayout)
		v.Fine = n.Fine.StringFixed(2)
		v.FinalCost = n.FinalCost.StringFixed(2)
	}
	return v
}

const timeLayout = "2006-01-02 15:04"

func printBooks(books []*domain.Book) error {
	if jsonOut {
		views := make([]bookJSON, 0, len(books))
		for _, b := range books {
			views = append(views, toBookJSON(b))
		}
		return printJSON(views)
	}
	if len(books) == 0 {
		fmt.Fprintln(out, "No books.")
		return nil
	}
	for _, b := range books {
		fmt.Fprintf(out, "%-6s %-30s %-22s %3d/%-3d %s\n",
			b.ID, b.Name, b.Author, b.Remaining, b.Total,
			application.FormatMoney(b.Price, lib.Config.Currency))
	}
	return nil
}
