package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prestito/internal/application"
	"prestito/internal/domain"
)

// borrow finalizes a session for borrower over the given book ids
func borrow(t *testing.T, c *Coordinator, borrower string, ids ...string) string {
	t.Helper()
	s, err := c.NewBorrowSession(borrower)
	require.NoError(t, err)
	for _, id := range ids {
		b, err := c.Catalog.FindByID(id)
		require.NoError(t, err)
		res, err := s.Add(b)
		require.NoError(t, err)
		require.Equal(t, AddBorrowed, res.Outcome)
	}
	r, err := s.Finalize(context.Background())
	require.NoError(t, err)
	return r.ID
}

func TestLendingRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _, store, _ := newTestCoordinator()

	id := borrow(t, c, "Ada", "B1")
	dune, _ := c.Catalog.FindByID("B1")
	assert.Equal(t, 0, dune.Remaining)
	assert.Len(t, store.ledgers[id], 1)

	// A second borrow of the only copy is depleted
	s, err := c.NewBorrowSession("Bob")
	require.NoError(t, err)
	res, err := s.Add(dune)
	require.NoError(t, err)
	assert.Equal(t, AddDepleted, res.Outcome)

	receipt, err := c.Return(ctx, id, true)
	require.NoError(t, err)
	assert.Equal(t, 1, dune.Remaining)
	assert.Len(t, store.ledgers[id], 2)
	assert.True(t, receipt.Note.FinalCost.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, 0, receipt.Note.LateDays)
}

func TestReturn_LateFine(t *testing.T) {
	ctx := context.Background()
	c, _, store, clock := newTestCoordinator()

	id := borrow(t, c, "Ada", "B1", "B2")
	clock.t = date(2024, 1, 15)

	receipt, err := c.Return(ctx, id, true)
	require.NoError(t, err)

	n := receipt.Note
	assert.Equal(t, 4, n.LateDays)
	assert.True(t, n.Fine.Equal(decimal.NewFromInt(40)))
	assert.True(t, n.FinalCost.Equal(decimal.RequireFromString("47.5")))
	assert.Equal(t, "RETURN:Ada,2024-01-15T09:30:00Z,4,47.5", store.ledgers[id][2])
	assert.Contains(t, store.invoices[id], "Returned Date: 15 January, 2024")

	// The ledger rehydrates to the same note
	loaded, err := c.LoadNote(ctx, id)
	require.NoError(t, err)
	assert.True(t, loaded.Returned)
	assert.True(t, loaded.Fine.Equal(n.Fine))
	assert.True(t, loaded.ReturnedDate.Equal(n.ReturnedDate))
	assert.Equal(t, []string{"Dune", "Emma"}, loaded.BookNames())
}

func TestReturn_OnTimeHasNoFine(t *testing.T) {
	c, _, _, clock := newTestCoordinator()

	id := borrow(t, c, "Ada", "B2")
	clock.t = date(2024, 1, 11)

	receipt, err := c.Return(context.Background(), id, true)
	require.NoError(t, err)
	assert.Equal(t, 0, receipt.Note.LateDays)
	assert.True(t, receipt.Note.Fine.IsZero())
}

func TestReturn_RequiresConfirmation(t *testing.T) {
	c, _, store, _ := newTestCoordinator()
	id := borrow(t, c, "Ada", "B2")
	emma, _ := c.Catalog.FindByID("B2")

	_, err := c.Return(context.Background(), id, false)
	assert.ErrorIs(t, err, application.ErrNotConfirmed)
	assert.Equal(t, 1, emma.Remaining)
	assert.Len(t, store.ledgers[id], 1)
}

func TestReturn_ClosedNote(t *testing.T) {
	c, _, _, _ := newTestCoordinator()
	id := borrow(t, c, "Ada", "B2")

	_, err := c.Return(context.Background(), id, true)
	require.NoError(t, err)

	_, err = c.Return(context.Background(), id, true)
	assert.ErrorIs(t, err, application.ErrClosedNote)
}

func TestReturn_UnknownNote(t *testing.T) {
	c, _, _, _ := newTestCoordinator()

	_, err := c.Return(context.Background(), "nobody-1", true)
	assert.ErrorIs(t, err, application.ErrNotFound)
}

func TestReturn_PerBookOutcomes(t *testing.T) {
	c, _, _, _ := newTestCoordinator()
	id := borrow(t, c, "Ada", "B1", "B2")

	// Emma leaves the catalog; Dune is restocked by hand meanwhile
	emma, _ := c.Catalog.FindByID("B2")
	require.NoError(t, c.Catalog.Remove(emma))
	dune, _ := c.Catalog.FindByID("B1")
	dune.Remaining = dune.Total

	receipt, err := c.Return(context.Background(), id, true)
	require.NoError(t, err)
	require.Len(t, receipt.Books, 2)
	assert.Equal(t, ReturnOverfull, receipt.Books[0].Outcome)
	assert.Equal(t, ReturnDetached, receipt.Books[1].Outcome)
	assert.True(t, receipt.Books[1].Book.Detached())
	assert.Equal(t, 1, dune.Remaining)
	assert.True(t, receipt.Note.Returned)
	assert.Contains(t, receipt.Message, "2 books not restocked")
}

func TestReturn_AppendFailure(t *testing.T) {
	c, _, store, _ := newTestCoordinator()
	id := borrow(t, c, "Ada", "B2")
	store.appendErr = &application.IOError{Op: "append", Path: id, Err: errors.New("read-only")}

	receipt, err := c.Return(context.Background(), id, true)
	assert.ErrorIs(t, err, application.ErrIO)
	require.NotNil(t, receipt)
	assert.True(t, receipt.Note.Returned)
}

func TestOpenNotes(t *testing.T) {
	ctx := context.Background()
	c, _, _, clock := newTestCoordinator()

	first := borrow(t, c, "Ada", "B2")
	clock.t = date(2024, 1, 2)
	second := borrow(t, c, "Ada", "B1")
	borrow(t, c, "Adam", "B2")

	notes, err := c.OpenNotes(ctx, "ada")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, first, notes[0].ID)
	assert.Equal(t, second, notes[1].ID)
	assert.True(t, notes[0].BorrowedAt.Equal(date(2024, 1, 1)))

	_, err = c.Return(ctx, first, true)
	require.NoError(t, err)

	notes, err = c.OpenNotes(ctx, "Ada")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, second, notes[0].ID)
}

func TestLoadNote_DetachedBookKeepsLedgerPrice(t *testing.T) {
	c, _, store, _ := newTestCoordinator()
	store.ledgers["ada-1"] = []string{
		"BORROW:Ada,Lost Book,2024-01-01T09:30:00Z,2024-01-11T09:30:00Z,7.25",
	}

	n, err := c.LoadNote(context.Background(), "ada-1")
	require.NoError(t, err)
	require.Len(t, n.Books, 1)
	assert.True(t, n.Books[0].Detached())
	assert.True(t, n.Cost.Equal(decimal.RequireFromString("7.25")))
	assert.IsType(t, &domain.Book{}, n.Books[0])
}

func TestReturn_InvoiceUsesBorrowedPrice(t *testing.T) {
	c, _, _, _ := newTestCoordinator()
	id := borrow(t, c, "Ada", "B1")

	// Dune is replaced by a pricier edition while the copy is out
	dune, _ := c.Catalog.FindByID("B1")
	require.NoError(t, c.Catalog.Remove(dune))
	require.NoError(t, c.Catalog.Add(domain.NewBook("B1", "Dune", "Frank Herbert", "Ace", "1990", 1, decimal.NewFromInt(8))))

	receipt, err := c.Return(context.Background(), id, true)
	require.NoError(t, err)
	assert.True(t, receipt.Note.BookPrice(0).Equal(decimal.NewFromInt(5)))
	assert.True(t, receipt.Note.FinalCost.Equal(decimal.NewFromInt(5)))
	assert.NotContains(t, receipt.Invoice, application.FormatMoney(decimal.NewFromInt(8), c.Header.Currency))
	assert.Contains(t, receipt.Invoice, application.FormatMoney(decimal.NewFromInt(5), c.Header.Currency))
}

func TestReturn_SharedTitleRestocksBorrowedCopy(t *testing.T) {
	// A hand-edited stock file can still repeat a title
	repo := &memRepo{books: []*domain.Book{
		domain.NewBook("B1", "Dune", "Frank Herbert", "Chilton", "1965", 1, decimal.NewFromInt(5)),
		domain.NewBook("B9", "Dune", "Frank Herbert", "Ace", "1990", 1, decimal.NewFromInt(8)),
	}}
	catalog, err := application.LoadCatalog(repo)
	require.NoError(t, err)
	clock := &fixedClock{t: date(2024, 1, 1)}
	c := NewCoordinator(catalog, newMemStore(), WithClock(clock.Now))

	id := borrow(t, c, "Ada", "B9")

	receipt, err := c.Return(context.Background(), id, true)
	require.NoError(t, err)
	require.Len(t, receipt.Books, 1)
	assert.Equal(t, ReturnRestocked, receipt.Books[0].Outcome)
	assert.Equal(t, "B9", receipt.Books[0].Book.ID)

	first, _ := c.Catalog.FindByID("B1")
	second, _ := c.Catalog.FindByID("B9")
	assert.Equal(t, 1, first.Remaining)
	assert.Equal(t, 1, second.Remaining)
	assert.True(t, receipt.Note.FinalCost.Equal(decimal.NewFromInt(8)))
}
