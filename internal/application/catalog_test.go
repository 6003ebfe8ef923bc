package application

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prestito/internal/domain"
)

// memRepo is an in-memory BookRepository
type memRepo struct {
	books   []*domain.Book
	saves   int
	saveErr error
}

func (r *memRepo) Load() ([]*domain.Book, error) {
	return r.books, nil
}

func (r *memRepo) Save(books []*domain.Book) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.books = books
	return nil
}

func sampleBooks() []*domain.Book {
	return []*domain.Book{
		domain.NewBook("B1", "The Hobbit", "J.R.R. Tolkien", "Allen & Unwin", "1937", 2, decimal.NewFromInt(5)),
		domain.NewBook("B2", "Dune", "Frank Herbert", "Chilton", "1965", 1, decimal.RequireFromString("2.5")),
		domain.NewBook("B3", "Emma", "Jane Austen", "John Murray", "1815", 0, decimal.NewFromInt(3)),
	}
}

func TestLoadCatalog(t *testing.T) {
	repo := &memRepo{books: sampleBooks()}

	c, err := LoadCatalog(repo)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
	assert.Len(t, c.Available(), 2)
}

func TestCatalog_FindByID(t *testing.T) {
	c := NewCatalog(nil, WithBooks(sampleBooks()...))

	b, err := c.FindByID("b2")
	require.NoError(t, err)
	assert.Equal(t, "Dune", b.Name)

	_, err = c.FindByID("B9")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalog_FindByName(t *testing.T) {
	c := NewCatalog(nil, WithBooks(sampleBooks()...))

	b, err := c.FindByName("  the hobbit ")
	require.NoError(t, err)
	assert.Equal(t, "B1", b.ID)

	_, err = c.FindByName("Hobbit")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalog_FindSimilar(t *testing.T) {
	c := NewCatalog(nil, WithBooks(sampleBooks()...))

	tests := []struct {
		name    string
		query   string
		wantID  string
		wantErr bool
	}{
		{"one typo", "The Hobit", "B1", false},
		{"case only", "DUNE", "B2", false},
		{"extra letter", "Dunes", "B2", false},
		{"unrelated", "Neuromancer", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := c.FindSimilar(tt.query)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, b.ID)
		})
	}
}

func TestCatalog_FindSimilarKeepsCatalogOrderOnTie(t *testing.T) {
	c := NewCatalog(nil, WithBooks(
		domain.NewBook("A", "Dust", "", "", "", 1, decimal.Zero),
		domain.NewBook("B", "Dusk", "", "", "", 1, decimal.Zero),
	))

	b, err := c.FindSimilar("Dush")
	require.NoError(t, err)
	assert.Equal(t, "A", b.ID)
}

func TestCatalog_Add(t *testing.T) {
	c := NewCatalog(nil, WithBooks(sampleBooks()...))

	err := c.Add(domain.NewBook("B4", "Beloved", "Toni Morrison", "Knopf", "1987", 1, decimal.NewFromInt(4)))
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())

	err = c.Add(domain.NewBook("b1", "Other", "", "", "", 1, decimal.Zero))
	var dup *DuplicateIDError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "The Hobbit", dup.Existing)
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 4, c.Len())

	err = c.Add(domain.NewBook("B6", "dune", "", "", "", 1, decimal.NewFromInt(8)))
	var dupName *DuplicateNameError
	require.True(t, errors.As(err, &dupName))
	assert.Equal(t, "B2", dupName.ExistingID)
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 4, c.Len())

	err = c.Add(domain.NewBook("B5", "Dune, Messiah", "", "", "", 1, decimal.Zero))
	var valErr *ValidationError
	assert.True(t, errors.As(err, &valErr))
}

func TestCatalog_Remove(t *testing.T) {
	books := sampleBooks()
	c := NewCatalog(nil, WithBooks(books...))

	require.NoError(t, c.Remove(books[1]))
	assert.Equal(t, 2, c.Len())

	_, err := c.FindByID("B2")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, c.Remove(books[1]), ErrNotFound)
}

func TestCatalog_ReconcileStockChange(t *testing.T) {
	repo := &memRepo{books: sampleBooks()}
	c, err := LoadCatalog(repo)
	require.NoError(t, err)

	b, err := c.ReconcileStockChange("B1", -1)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Remaining)
	assert.Equal(t, 1, repo.saves)

	b, err = c.ReconcileStockChange("B1", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Remaining)
	assert.Equal(t, 2, repo.saves)

	_, err = c.ReconcileStockChange("B1", 1)
	assert.ErrorIs(t, err, ErrStockOverfull)
	assert.Equal(t, 2, repo.saves)

	_, err = c.ReconcileStockChange("B3", -1)
	assert.ErrorIs(t, err, ErrStockDepleted)

	_, err = c.ReconcileStockChange("B9", -1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.ReconcileStockChange("B1", 2)
	var valErr *ValidationError
	assert.True(t, errors.As(err, &valErr))
}

func TestCatalog_ReconcileStockChangeSaveFailure(t *testing.T) {
	repo := &memRepo{books: sampleBooks(), saveErr: &IOError{Op: "write", Path: "stock.txt", Err: errors.New("disk full")}}
	c, err := LoadCatalog(repo)
	require.NoError(t, err)

	b, err := c.ReconcileStockChange("B2", -1)
	assert.ErrorIs(t, err, ErrIO)
	// The in-memory change stands
	assert.Equal(t, 0, b.Remaining)
}

func TestCatalog_Search(t *testing.T) {
	c := NewCatalog(nil, WithBooks(sampleBooks()...))

	matches := c.Search("herbert")
	require.Len(t, matches, 1)
	assert.Equal(t, "B2", matches[0].Book.ID)

	matches = c.Search("the")
	require.NotEmpty(t, matches)
	assert.Equal(t, "B1", matches[0].Book.ID)

	assert.Nil(t, c.Search("t"))
}
