package sqlite

import (
	"database/sql"

	"prestito/internal/domain"
	"prestito/internal/ports"
)

// indexTx implements ports.IndexTx
type indexTx struct {
	tx *sql.Tx
}

// Ensure indexTx implements IndexTx
var _ ports.IndexTx = (*indexTx)(nil)

// UpsertSummary inserts or replaces a note summary
func (t *indexTx) UpsertSummary(s *domain.NoteSummary) error {
	var returnedAt any
	if s.Returned {
		returnedAt = s.ReturnedDate.UnixNano()
	}
	returned := 0
	if s.Returned {
		returned = 1
	}

	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO notes (`+summaryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.BorrowerSlug, s.Borrower, s.BookCount,
		s.BorrowedDate.UnixNano(), s.DueDate.UnixNano(),
		returned, returnedAt, s.FinalCost.String())
	return err
}

// DeleteSummary removes a note summary by id
func (t *indexTx) DeleteSummary(id string) error {
	_, err := t.tx.Exec(`DELETE FROM notes WHERE id = ?`, id)
	return err
}

// Commit commits the transaction
func (t *indexTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *indexTx) Rollback() error {
	return t.tx.Rollback()
}
