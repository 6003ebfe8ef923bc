package commands

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"prestito/internal/application"
	"prestito/internal/domain"
)

// memStore is an in-memory NoteStore
type memStore struct {
	ledgers   map[string][]string
	invoices  map[string]string
	saveErr   error
	appendErr error
}

func newMemStore() *memStore {
	return &memStore{
		ledgers:  make(map[string][]string),
		invoices: make(map[string]string),
	}
}

func (s *memStore) Save(id, rendered string, lines []string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.ledgers[id] = append([]string(nil), lines...)
	s.invoices[id] = rendered
	return nil
}

func (s *memStore) AppendReturn(id, rendered, line string) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	if _, ok := s.ledgers[id]; !ok {
		return &application.IOError{Op: "append", Path: id, Err: application.ErrNotFound}
	}
	s.ledgers[id] = append(s.ledgers[id], line)
	s.invoices[id] = rendered
	return nil
}

func (s *memStore) Load(id string) ([]string, error) {
	lines, ok := s.ledgers[id]
	if !ok {
		return nil, &application.NotFoundError{Kind: "note", Query: id}
	}
	return lines, nil
}

func (s *memStore) Search(keyword string, excludeReturned bool) ([]string, error) {
	var ids []string
	for id, lines := range s.ledgers {
		if !strings.Contains(id, keyword) {
			continue
		}
		if excludeReturned && domain.IsClosed(lines) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *memStore) List() ([]string, error) {
	return s.Search("", false)
}

func (s *memStore) Exists(id string) bool {
	_, ok := s.ledgers[id]
	return ok
}

func (s *memStore) InvoicePath(id string) (string, error) {
	if !s.Exists(id) {
		return "", &application.NotFoundError{Kind: "note", Query: id}
	}
	return "/notes/" + id + ".txt", nil
}

// memRepo is an in-memory BookRepository
type memRepo struct {
	books   []*domain.Book
	saves   int
	saveErr error
}

func (r *memRepo) Load() ([]*domain.Book, error) { return r.books, nil }

func (r *memRepo) Save(books []*domain.Book) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.books = books
	return nil
}

// fixedClock returns a clock that reports t and can be moved forward
type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time { return c.t }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 30, 0, 0, time.UTC)
}

func sampleBooks() []*domain.Book {
	return []*domain.Book{
		domain.NewBook("B1", "Dune", "Frank Herbert", "Chilton", "1965", 1, decimal.NewFromInt(5)),
		domain.NewBook("B2", "Emma", "Jane Austen", "John Murray", "1815", 2, decimal.RequireFromString("2.5")),
		domain.NewBook("B3", "The Hobbit", "J.R.R. Tolkien", "Allen & Unwin", "1937", 0, decimal.NewFromInt(4)),
	}
}

// newTestCoordinator wires a coordinator over in-memory stores
func newTestCoordinator() (*Coordinator, *memRepo, *memStore, *fixedClock) {
	repo := &memRepo{books: sampleBooks()}
	catalog, err := application.LoadCatalog(repo)
	if err != nil {
		panic(err)
	}
	store := newMemStore()
	clock := &fixedClock{t: date(2024, 1, 1)}
	c := NewCoordinator(catalog, store,
		WithClock(clock.Now),
		WithHeader(application.InvoiceHeader{LibraryName: "Town Library", Operator: "grace", Currency: "USD"}),
	)
	return c, repo, store, clock
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
