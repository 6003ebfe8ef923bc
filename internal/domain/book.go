package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Stock boundary errors
var (
	ErrStockDepleted = errors.New("stock depleted")
	ErrStockOverfull = errors.New("stock overfull")
)

// StockKind identifies which boundary of the stock counter was hit
type StockKind int

const (
	StockDepleted StockKind = iota
	StockOverfull
)

func (k StockKind) String() string {
	switch k {
	case StockDepleted:
		return "depleted"
	case StockOverfull:
		return "overfull"
	default:
		return "unknown"
	}
}

// StockError reports a rejected borrow or return together with the
// remaining count at the time of the attempt
type StockError struct {
	Kind      StockKind
	BookID    string
	Remaining int
}

func (e *StockError) Error() string {
	switch e.Kind {
	case StockDepleted:
		return fmt.Sprintf("book %s: stock empty (remaining %d)", e.BookID, e.Remaining)
	default:
		return fmt.Sprintf("book %s: stock already full (remaining %d)", e.BookID, e.Remaining)
	}
}

func (e *StockError) Is(target error) bool {
	switch e.Kind {
	case StockDepleted:
		return target == ErrStockDepleted
	case StockOverfull:
		return target == ErrStockOverfull
	}
	return false
}

// stockFields is the column count of one stock file record
const stockFields = 8

// Book is one catalog entry together with its stock counter
type Book struct {
	ID        string // Unique library ID
	Name      string
	Author    string
	Publisher string
	PubDate   string // Publication year, kept as entered
	Total     int
	Remaining int
	Price     decimal.Decimal // Borrowing price per loan period
}

// NewBook creates a book with its whole stock on the shelf
func NewBook(id, name, author, publisher, pubDate string, total int, price decimal.Decimal) *Book {
	return &Book{
		ID:        id,
		Name:      name,
		Author:    author,
		Publisher: publisher,
		PubDate:   pubDate,
		Total:     total,
		Remaining: total,
		Price:     price,
	}
}

// Borrow takes one copy off the shelf
func (b *Book) Borrow() error {
	if b.Remaining < 1 {
		return &StockError{Kind: StockDepleted, BookID: b.ID, Remaining: b.Remaining}
	}
	b.Remaining--
	return nil
}

// Returned puts one copy back on the shelf. A return that would take
// Remaining above Total is rejected.
func (b *Book) Returned() error {
	if b.Remaining >= b.Total {
		return &StockError{Kind: StockOverfull, BookID: b.ID, Remaining: b.Remaining}
	}
	b.Remaining++
	return nil
}

// Detached reports whether the book was rebuilt from a ledger and has no
// catalog entry behind it
func (b *Book) Detached() bool {
	return b.ID == ""
}

// Available reports whether at least one copy can be borrowed
func (b *Book) Available() bool {
	return b.Remaining >= 1
}

// Validate checks the fields that the stock file format can represent
func (b *Book) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("book ID is required")
	}
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("book name is required")
	}
	for label, v := range map[string]string{
		"ID": b.ID, "name": b.Name, "author": b.Author,
		"publisher": b.Publisher, "published date": b.PubDate,
	} {
		if strings.ContainsAny(v, ",\n") {
			return fmt.Errorf("book %s must not contain commas or newlines: %q", label, v)
		}
	}
	if b.Total < 0 {
		return fmt.Errorf("total stock must not be negative: %d", b.Total)
	}
	if b.Remaining < 0 || b.Remaining > b.Total {
		return fmt.Errorf("remaining stock %d out of range 0..%d", b.Remaining, b.Total)
	}
	if b.Price.IsNegative() {
		return fmt.Errorf("price must not be negative: %s", b.Price)
	}
	return nil
}

// AvailableText renders the stock row shown in availability listings
func (b *Book) AvailableText() string {
	return fmt.Sprintf("|%-10s|%-50s|%-20s|%-10d|%-10s|", b.ID, b.Name, b.Author, b.Remaining, b.Price)
}

// DisplayText renders every catalog field
func (b *Book) DisplayText() string {
	return fmt.Sprintf("|%-7s|%-45s|%-20s|%-22s|%-5s|%-5d|%-6s|",
		b.ID, b.Name, b.Author, b.Publisher, b.PubDate, b.Total, b.Price)
}

// StockLine renders the book as one stock file record:
// lib_id,name,author,publisher,pub_date,total,remaining,price
func (b *Book) StockLine() string {
	return strings.Join([]string{
		b.ID,
		b.Name,
		b.Author,
		b.Publisher,
		b.PubDate,
		strconv.Itoa(b.Total),
		strconv.Itoa(b.Remaining),
		b.Price.String(),
	}, ",") + "\n"
}

// ParseStockLine parses one stock file record written by StockLine
func ParseStockLine(line string) (*Book, error) {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.Split(line, ",")
	if len(fields) != stockFields {
		return nil, fmt.Errorf("expected %d fields, got %d: %q", stockFields, len(fields), line)
	}

	total, err := strconv.Atoi(strings.TrimSpace(fields[5]))
	if err != nil {
		return nil, fmt.Errorf("invalid total %q: %w", fields[5], err)
	}
	remaining, err := strconv.Atoi(strings.TrimSpace(fields[6]))
	if err != nil {
		return nil, fmt.Errorf("invalid remaining %q: %w", fields[6], err)
	}
	price, err := decimal.NewFromString(strings.TrimSpace(fields[7]))
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", fields[7], err)
	}

	return &Book{
		ID:        fields[0],
		Name:      fields[1],
		Author:    fields[2],
		Publisher: fields[3],
		PubDate:   fields[4],
		Total:     total,
		Remaining: remaining,
		Price:     price,
	}, nil
}
