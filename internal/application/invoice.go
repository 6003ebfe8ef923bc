package application

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"

	"prestito/internal/domain"
)

// DefaultInvoiceWidth is used when the terminal width is unknown
const DefaultInvoiceWidth = 100

// InvoiceHeader carries the issuer details printed on every invoice
type InvoiceHeader struct {
	LibraryName string
	Operator    string
	Currency    string // ISO 4217 code, e.g. "NPR"
	FinePerDay  decimal.Decimal
}

// FormatMoney renders an amount in the given currency
func FormatMoney(amount decimal.Decimal, currency string) string {
	if currency == "" {
		return amount.StringFixed(2)
	}
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

const invoiceDate = "02 January, 2006"

// padLine pads s with spaces to width display cells, centered or flush
// right. Text already wider than width is returned as is.
func padLine(width int, s string, right bool) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	left := gap / 2
	if right {
		left = gap
	}
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
}

// RenderInvoice renders the plain-text invoice stored next to a ledger
func RenderInvoice(h InvoiceHeader, n *domain.Note, width int) string {
	if width <= 0 {
		width = DefaultInvoiceWidth
	}

	var b strings.Builder
	rule := strings.Repeat("-", width)

	b.WriteString(padLine(width, h.LibraryName, false))
	b.WriteString("\n")
	b.WriteString(padLine(width, "Sender: "+h.Operator, true))
	b.WriteString("\n")
	b.WriteString(rule + "\n")
	b.WriteString("Invoice\n")
	fmt.Fprintf(&b, "Receiver: %s\n", n.Borrower)
	fmt.Fprintf(&b, "Date: %s\n", n.BorrowedDate.Format(invoiceDate))
	fmt.Fprintf(&b, "Return Due: %s\n", n.DueDate.Format(invoiceDate))
	if n.Returned {
		fmt.Fprintf(&b, "Returned Date: %s\n", n.ReturnedDate.Format(invoiceDate))
	}

	row := func(id, name, author, price string) string {
		return fmt.Sprintf("|%-10s | %-50s | %-20s | %-12s|", id, name, author, price)
	}
	header := row("Book ID", "Book Name", "Author", "Price")
	tableRule := strings.Repeat("-", len(header))
	center := func(s string) {
		b.WriteString(padLine(width, s, false))
		b.WriteString("\n")
	}

	center(tableRule)
	center(header)
	for i, book := range n.Books {
		center(row(book.ID, book.Name, book.Author, FormatMoney(n.BookPrice(i), h.Currency)))
	}
	if n.Returned {
		center(row("", "", "Fine", FormatMoney(n.Fine, h.Currency)))
		center(row("", "", "Total", FormatMoney(n.FinalCost, h.Currency)))
	} else {
		center(row("", "", "Initial Total", FormatMoney(n.Cost, h.Currency)))
	}
	center(tableRule)

	b.WriteString(rule + "\n")
	b.WriteString("Kindly return the book before or at the due date.\n")
	fmt.Fprintf(&b, "Note: You will be fined %s per day for late return.\n", FormatMoney(h.FinePerDay, h.Currency))

	return b.String()
}

// RenderInvoiceMarkdown renders the same invoice as markdown for terminal
// renderers
func RenderInvoiceMarkdown(h InvoiceHeader, n *domain.Note) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", h.LibraryName)
	fmt.Fprintf(&b, "**Invoice** issued by %s\n\n", h.Operator)
	fmt.Fprintf(&b, "- Receiver: %s\n", n.Borrower)
	fmt.Fprintf(&b, "- Date: %s\n", n.BorrowedDate.Format(invoiceDate))
	fmt.Fprintf(&b, "- Return Due: %s\n", n.DueDate.Format(invoiceDate))
	if n.Returned {
		fmt.Fprintf(&b, "- Returned Date: %s\n", n.ReturnedDate.Format(invoiceDate))
		if n.LateDays > 0 {
			fmt.Fprintf(&b, "- Late by: %d days\n", n.LateDays)
		}
	}
	b.WriteString("\n| Book ID | Book Name | Author | Price |\n")
	b.WriteString("|---|---|---|---:|\n")
	for i, book := range n.Books {
		id := book.ID
		if book.Detached() {
			id = "-"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", id, book.Name, book.Author, FormatMoney(n.BookPrice(i), h.Currency))
	}
	if n.Returned {
		fmt.Fprintf(&b, "| | | **Fine** | %s |\n", FormatMoney(n.Fine, h.Currency))
		fmt.Fprintf(&b, "| | | **Total** | %s |\n", FormatMoney(n.FinalCost, h.Currency))
	} else {
		fmt.Fprintf(&b, "| | | **Initial Total** | %s |\n", FormatMoney(n.Cost, h.Currency))
	}
	fmt.Fprintf(&b, "\n> Kindly return the book before or at the due date. "+
		"You will be fined %s per day for late return.\n", FormatMoney(h.FinePerDay, h.Currency))

	return b.String()
}
