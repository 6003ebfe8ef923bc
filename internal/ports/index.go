package ports

import (
	"time"

	"prestito/internal/domain"
)

// NoteIndex caches note summaries for reports that would otherwise parse
// every ledger
type NoteIndex interface {
	// Lifecycle
	Open(dbPath string) error
	Close() error

	// Sync operations
	SyncFull(store NoteStore) (*domain.SyncStats, error)

	// Queries
	GetSummary(id string) (*domain.NoteSummary, error)
	Outstanding() ([]domain.NoteSummary, error)
	Overdue(asOf time.Time) ([]domain.NoteSummary, error)
	History(borrowerSlug string) ([]domain.NoteSummary, error)

	// Batch updates
	BeginTx() (IndexTx, error)
}

// IndexTx represents a transaction for atomic cache updates
type IndexTx interface {
	UpsertSummary(summary *domain.NoteSummary) error
	DeleteSummary(id string) error

	// Transaction control
	Commit() error
	Rollback() error
}
