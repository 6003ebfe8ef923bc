package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prestito/internal/adapters/filesystem"
)

func setupIndex(t *testing.T) (*Index, *filesystem.NoteStore) {
	t.Helper()
	dir := t.TempDir()

	idx := NewIndex()
	require.NoError(t, idx.Open(filepath.Join(dir, "index", "notes.db")))
	t.Cleanup(func() { idx.Close() })

	store := filesystem.NewNoteStore(filepath.Join(dir, "notes"))
	notes := map[string][]string{
		"ada-lovelace-1704101400": {
			"BORROW:Ada Lovelace,Dune,2024-01-01T09:30:00Z,2024-01-11T09:30:00Z,5",
			"BORROW:Ada Lovelace,Emma,2024-01-01T09:30:00Z,2024-01-11T09:30:00Z,2.5",
			"RETURN:Ada Lovelace,2024-01-15T09:30:00Z,4,47.5",
		},
		"ada-lovelace-1706779800": {
			"BORROW:Ada Lovelace,Dune,2024-02-01T09:30:00Z,2024-02-11T09:30:00Z,5",
		},
		"bob-1707039000": {
			"BORROW:Bob,Emma,2024-02-04T09:30:00Z,2024-02-14T09:30:00Z,2.5",
		},
	}
	for id, lines := range notes {
		require.NoError(t, store.Save(id, "", lines))
	}
	return idx, store
}

func TestSyncFull(t *testing.T) {
	idx, store := setupIndex(t)

	before := time.Now().Unix()
	stats, err := idx.SyncFull(store)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.FilesScanned)
	assert.Equal(t, 3, stats.NotesAdded)
	assert.Zero(t, stats.Skipped)

	var synced int64
	require.NoError(t, idx.db.QueryRow(`SELECT value FROM meta WHERE key = 'last_sync_time'`).Scan(&synced))
	assert.GreaterOrEqual(t, synced, before)

	s, err := idx.GetSummary("ada-lovelace-1704101400")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "ada-lovelace", s.BorrowerSlug)
	assert.Equal(t, "Ada Lovelace", s.Borrower)
	assert.Equal(t, 2, s.BookCount)
	assert.True(t, s.Returned)
	assert.True(t, s.FinalCost.Equal(decimal.RequireFromString("47.5")))
	assert.True(t, s.ReturnedDate.Equal(time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)))

	missing, err := idx.GetSummary("nobody-1")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSyncFull_UpdatesAndDeletes(t *testing.T) {
	idx, store := setupIndex(t)

	_, err := idx.SyncFull(store)
	require.NoError(t, err)

	// Closing a note only updates its summary
	require.NoError(t, store.AppendReturn("bob-1707039000", "", "RETURN:Bob,2024-02-10T09:30:00Z,0,2.5"))
	stats, err := idx.SyncFull(store)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.NotesUpdated)
	assert.Zero(t, stats.NotesAdded)

	s, err := idx.GetSummary("bob-1707039000")
	require.NoError(t, err)
	assert.True(t, s.Returned)

	// A ledger that no longer parses drops out of the index
	require.NoError(t, store.Save("bob-1707039000", "", []string{"GARBAGE"}))
	stats, err = idx.SyncFull(store)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.NotesDeleted)

	s, err = idx.GetSummary("bob-1707039000")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestReports(t *testing.T) {
	idx, store := setupIndex(t)
	_, err := idx.SyncFull(store)
	require.NoError(t, err)

	outstanding, err := idx.Outstanding()
	require.NoError(t, err)
	require.Len(t, outstanding, 2)
	assert.Equal(t, "ada-lovelace-1706779800", outstanding[0].ID)
	assert.Equal(t, "bob-1707039000", outstanding[1].ID)

	overdue, err := idx.Overdue(time.Date(2024, 2, 12, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "ada-lovelace-1706779800", overdue[0].ID)

	history, err := idx.History("ada-lovelace")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "ada-lovelace-1706779800", history[0].ID)
	assert.Equal(t, "ada-lovelace-1704101400", history[1].ID)
}

func TestBeginTx_Rollback(t *testing.T) {
	idx, store := setupIndex(t)
	_, err := idx.SyncFull(store)
	require.NoError(t, err)

	tx, err := idx.BeginTx()
	require.NoError(t, err)
	require.NoError(t, tx.DeleteSummary("bob-1707039000"))
	require.NoError(t, tx.Rollback())

	s, err := idx.GetSummary("bob-1707039000")
	require.NoError(t, err)
	assert.NotNil(t, s)
}
