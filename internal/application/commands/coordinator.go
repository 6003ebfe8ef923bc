package commands

import (
	"log/slog"
	"strings"
	"time"

	"prestito/internal/application"
	"prestito/internal/domain"
	"prestito/internal/ports"
)

// Clock returns the current time
type Clock func() time.Time

// Coordinator sequences borrow and return flows across the Catalog and the
// Note Store. The two stores share no transaction: each step is persisted
// as it happens and nothing is rolled back.
type Coordinator struct {
	Catalog *application.Catalog
	Store   ports.NoteStore
	Clock   Clock
	Terms   domain.Terms
	Logger  *slog.Logger
	Header  application.InvoiceHeader
	Width   int // Invoice width in columns
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithClock overrides time.Now
func WithClock(clock Clock) Option {
	return func(c *Coordinator) {
		c.Clock = clock
	}
}

// WithTerms sets the loan period and fine rate for new notes
func WithTerms(terms domain.Terms) Option {
	return func(c *Coordinator) {
		c.Terms = terms
	}
}

// WithLogger sets the logger for non-fatal conditions
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.Logger = logger
	}
}

// WithHeader sets the invoice issuer details
func WithHeader(header application.InvoiceHeader) Option {
	return func(c *Coordinator) {
		c.Header = header
	}
}

// NewCoordinator creates a Coordinator with default terms, the system clock
// and a discarding logger
func NewCoordinator(catalog *application.Catalog, store ports.NoteStore, opts ...Option) *Coordinator {
	c := &Coordinator{
		Catalog: catalog,
		Store:   store,
		Clock:   time.Now,
		Terms:   domain.DefaultTerms,
		Logger:  slog.New(slog.DiscardHandler),
		Width:   application.DefaultInvoiceWidth,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Header.FinePerDay.IsZero() {
		c.Header.FinePerDay = c.Terms.FinePerDay
	}
	return c
}

func (c *Coordinator) now() time.Time {
	return c.Clock()
}

// resolveLedgerBook maps a ledger book name to the live catalog entry. New
// titles are unique, but a stock file edited by hand may repeat one; the
// first copy with stock out is then the one being returned.
func (c *Coordinator) resolveLedgerBook(name string) *domain.Book {
	name = strings.TrimSpace(name)
	var first *domain.Book
	for _, b := range c.Catalog.Books() {
		if !strings.EqualFold(b.Name, name) {
			continue
		}
		if b.Remaining < b.Total {
			return b
		}
		if first == nil {
			first = b
		}
	}
	return first
}
