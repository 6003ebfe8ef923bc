package application

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"prestito/internal/domain"
)

func testHeader() InvoiceHeader {
	return InvoiceHeader{
		LibraryName: "Town Library",
		Operator:    "Grace",
		Currency:    "USD",
		FinePerDay:  decimal.NewFromInt(10),
	}
}

func testNote() *domain.Note {
	books := []*domain.Book{
		domain.NewBook("B1", "Dune", "Frank Herbert", "Chilton", "1965", 2, decimal.NewFromInt(5)),
		domain.NewBook("B2", "Emma", "Jane Austen", "John Murray", "1815", 1, decimal.RequireFromString("2.5")),
	}
	at := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	return domain.NewNote("Ada Lovelace", books, at, domain.DefaultTerms)
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{"47.5", "USD", "$47.50"},
		{"0", "USD", "$0.00"},
		{"12.345", "ZZZ", "12.35 ZZZ"},
	}

	for _, tt := range tests {
		t.Run(tt.amount+tt.currency, func(t *testing.T) {
			got := FormatMoney(decimal.RequireFromString(tt.amount), tt.currency)
			if got != tt.want {
				t.Errorf("FormatMoney(%s, %s) = %q, want %q", tt.amount, tt.currency, got, tt.want)
			}
		})
	}
}

func TestRenderInvoice_Outstanding(t *testing.T) {
	out := RenderInvoice(testHeader(), testNote(), 0)

	for _, want := range []string{
		"Town Library",
		"Sender: Grace",
		"Receiver: Ada Lovelace",
		"Date: 01 January, 2024",
		"Return Due: 11 January, 2024",
		"Dune",
		"Initial Total",
		"$7.50",
		"Kindly return the book before or at the due date.",
		"You will be fined $10.00 per day for late return.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("invoice missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Returned Date") {
		t.Error("outstanding invoice should not show a return date")
	}
}

func TestRenderInvoice_Returned(t *testing.T) {
	n := testNote()
	n.MarkReturned(time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC))
	if err := n.CalculateCost(); err != nil {
		t.Fatal(err)
	}

	out := RenderInvoice(testHeader(), n, 120)
	for _, want := range []string{"Returned Date: 15 January, 2024", "Fine", "$40.00", "$47.50"} {
		if !strings.Contains(out, want) {
			t.Errorf("invoice missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Initial Total") {
		t.Error("returned invoice should show the final total")
	}
}

func TestRenderInvoiceMarkdown(t *testing.T) {
	n := testNote()
	n.Books = append(n.Books, &domain.Book{Name: "Lost Book", Price: decimal.NewFromInt(1)})

	out := RenderInvoiceMarkdown(testHeader(), n)
	if !strings.HasPrefix(out, "# Town Library") {
		t.Errorf("expected heading, got:\n%s", out)
	}
	if !strings.Contains(out, "| - | Lost Book |") {
		t.Errorf("detached book should have a dash for its ID:\n%s", out)
	}
}

func TestPadLine(t *testing.T) {
	tests := []struct {
		name  string
		width int
		s     string
		right bool
		want  string
	}{
		{"centered", 10, "Dune", false, "   Dune   "},
		{"centered odd gap", 9, "Dune", false, "  Dune   "},
		{"right", 10, "Dune", true, "      Dune"},
		{"wide runes", 6, "読書", false, " 読書 "},
		{"too wide", 3, "Dune", false, "Dune"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := padLine(tt.width, tt.s, tt.right); got != tt.want {
				t.Errorf("padLine(%d, %q, %v) = %q, want %q", tt.width, tt.s, tt.right, got, tt.want)
			}
		})
	}
}
