package sqlite

import (
	"fmt"
	"time"

	"prestito/internal/domain"
	"prestito/internal/ports"
)

// SyncFull rebuilds the note summaries from every ledger in store. Ledgers
// that fail to parse are counted as skipped and left out of the index.
func (idx *Index) SyncFull(store ports.NoteStore) (*domain.SyncStats, error) {
	start := time.Now()
	stats := &domain.SyncStats{}

	ids, err := store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	// Track existing ids to detect additions and deletions
	existing := make(map[string]bool)
	rows, err := idx.db.Query(`SELECT id FROM notes`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		existing[id] = true
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read indexed notes: %w", err)
	}

	tx, err := idx.BeginTx()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		stats.FilesScanned++

		lines, err := store.Load(id)
		if err != nil {
			stats.Skipped++
			continue
		}
		// Prices come from the ledger; only summary fields are needed here
		note, err := domain.ParseLedger(lines, domain.DefaultTerms, nil)
		if err != nil {
			stats.Skipped++
			continue
		}

		summary := domain.Summarize(id, note)
		if err := tx.UpsertSummary(&summary); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to index %s: %w", id, err)
		}
		seen[id] = true
		if existing[id] {
			stats.NotesUpdated++
		} else {
			stats.NotesAdded++
		}
	}

	// Delete summaries whose ledger is gone or no longer parses
	for id := range existing {
		if seen[id] {
			continue
		}
		if err := tx.DeleteSummary(id); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to remove %s: %w", id, err)
		}
		stats.NotesDeleted++
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if _, err := idx.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('last_sync_time', ?)`,
		time.Now().Unix()); err != nil {
		return nil, fmt.Errorf("failed to record sync time: %w", err)
	}

	stats.Duration = time.Since(start)
	return stats, nil
}
