package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"prestito/internal/domain"
	"prestito/internal/ports"

	_ "github.com/mattn/go-sqlite3"
)

const schemaVersion = "1"

// Index implements ports.NoteIndex using SQLite
type Index struct {
	db     *sql.DB
	dbPath string
}

// Ensure Index implements NoteIndex
var _ ports.NoteIndex = (*Index)(nil)

// NewIndex creates a new SQLite index
func NewIndex() *Index {
	return &Index{}
}

// Open initializes the index database. An empty path uses the XDG data
// directory.
func (idx *Index) Open(dbPath string) error {
	if dbPath == "" {
		dbPath = defaultDatabasePath()
	}
	// Expand ~ in path
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}
	idx.dbPath = dbPath

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(idx.dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", idx.dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	idx.db = db

	// Pragmas + schema in a single batch
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS notes (
			id TEXT PRIMARY KEY,
			borrower_slug TEXT NOT NULL,
			borrower TEXT NOT NULL,
			book_count INTEGER NOT NULL,
			borrowed_at INTEGER NOT NULL,
			due_at INTEGER NOT NULL,
			returned INTEGER NOT NULL DEFAULT 0,
			returned_at INTEGER,
			final_cost TEXT NOT NULL DEFAULT '0'
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_notes_borrower ON notes(borrower_slug);
		CREATE INDEX IF NOT EXISTS idx_notes_open_due ON notes(returned, due_at);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if err := idx.updateMeta(); err != nil {
		db.Close()
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	return nil
}

// Close closes the database connection
func (idx *Index) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// Path returns the database file location
func (idx *Index) Path() string {
	return idx.dbPath
}

// defaultDatabasePath returns the XDG location of the index
func defaultDatabasePath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "prestito", "notes.db")
}

// updateMeta records the schema version
func (idx *Index) updateMeta() error {
	_, err := idx.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion)
	return err
}

const summaryColumns = `id, borrower_slug, borrower, book_count, borrowed_at, due_at, returned, returned_at, final_cost`

// GetSummary retrieves a note summary by id, or nil when absent
func (idx *Index) GetSummary(id string) (*domain.NoteSummary, error) {
	row := idx.db.QueryRow(`SELECT `+summaryColumns+` FROM notes WHERE id = ?`, id)
	s, err := scanSummary(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Outstanding returns every open note, earliest due first
func (idx *Index) Outstanding() ([]domain.NoteSummary, error) {
	return idx.query(`SELECT `+summaryColumns+` FROM notes WHERE returned = 0 ORDER BY due_at, id`)
}

// Overdue returns open notes whose due date is before asOf
func (idx *Index) Overdue(asOf time.Time) ([]domain.NoteSummary, error) {
	return idx.query(`SELECT `+summaryColumns+` FROM notes WHERE returned = 0 AND due_at < ? ORDER BY due_at, id`,
		asOf.UnixNano())
}

// History returns every note of a borrower, newest first
func (idx *Index) History(borrowerSlug string) ([]domain.NoteSummary, error) {
	return idx.query(`SELECT `+summaryColumns+` FROM notes WHERE borrower_slug = ? ORDER BY borrowed_at DESC, id DESC`,
		borrowerSlug)
}

func (idx *Index) query(q string, args ...any) ([]domain.NoteSummary, error) {
	rows, err := idx.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []domain.NoteSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *s)
	}
	return summaries, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(r scanner) (*domain.NoteSummary, error) {
	var (
		s          domain.NoteSummary
		borrowed   int64
		due        int64
		returned   int
		returnedAt sql.NullInt64
		finalCost  string
	)
	err := r.Scan(&s.ID, &s.BorrowerSlug, &s.Borrower, &s.BookCount,
		&borrowed, &due, &returned, &returnedAt, &finalCost)
	if err != nil {
		return nil, err
	}

	s.BorrowedDate = time.Unix(0, borrowed)
	s.DueDate = time.Unix(0, due)
	s.Returned = returned != 0
	if returnedAt.Valid {
		s.ReturnedDate = time.Unix(0, returnedAt.Int64)
	}
	s.FinalCost, err = decimal.NewFromString(finalCost)
	if err != nil {
		return nil, fmt.Errorf("note %s: invalid final cost %q: %w", s.ID, finalCost, err)
	}
	return &s, nil
}

// BeginTx starts a new transaction
func (idx *Index) BeginTx() (ports.IndexTx, error) {
	tx, err := idx.db.Begin()
	if err != nil {
		return nil, err
	}
	return &indexTx{tx: tx}, nil
}
