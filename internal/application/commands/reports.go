package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"prestito/internal/application"
	"prestito/internal/domain"
	"prestito/internal/ports"
)

// ReportKind selects which notes a report lists
type ReportKind int

const (
	ReportOutstanding ReportKind = iota
	ReportOverdue
	ReportHistory
)

func (k ReportKind) String() string {
	switch k {
	case ReportOutstanding:
		return "outstanding"
	case ReportOverdue:
		return "overdue"
	case ReportHistory:
		return "history"
	default:
		return "unknown"
	}
}

// ParseReportKind maps a report name to its kind
func ParseReportKind(s string) (ReportKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "outstanding":
		return ReportOutstanding, nil
	case "overdue":
		return ReportOverdue, nil
	case "history":
		return ReportHistory, nil
	default:
		return 0, fmt.Errorf("unknown report %q (expected outstanding, overdue or history)", s)
	}
}

// ReportResult contains the notes matched by a report
type ReportResult struct {
	Notes []domain.NoteSummary
	Stats *domain.SyncStats
}

// ReportCommand refreshes the note index from the store and queries it
type ReportCommand struct {
	index    ports.NoteIndex
	store    ports.NoteStore
	logger   *slog.Logger
	Kind     ReportKind
	AsOf     time.Time
	Borrower string
}

// NewReportCommand creates a new ReportCommand
func NewReportCommand(index ports.NoteIndex, store ports.NoteStore, logger *slog.Logger, kind ReportKind) *ReportCommand {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ReportCommand{
		index:  index,
		store:  store,
		logger: logger,
		Kind:   kind,
		AsOf:   time.Now(),
	}
}

// Validate checks the report parameters
func (c *ReportCommand) Validate() error {
	if c.Kind == ReportHistory {
		return application.ValidateRequired("borrower", c.Borrower)
	}
	return nil
}

// Execute syncs the index and runs the report query
func (c *ReportCommand) Execute(ctx context.Context) (*ReportResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	stats, err := c.index.SyncFull(c.store)
	if err != nil {
		return nil, fmt.Errorf("failed to sync note index: %w", err)
	}
	if stats.Skipped > 0 {
		c.logger.Warn("ledgers skipped during sync", "count", stats.Skipped)
	}

	var notes []domain.NoteSummary
	switch c.Kind {
	case ReportOutstanding:
		notes, err = c.index.Outstanding()
	case ReportOverdue:
		notes, err = c.index.Overdue(c.AsOf)
	case ReportHistory:
		notes, err = c.index.History(domain.Slug(c.Borrower))
	default:
		return nil, fmt.Errorf("unknown report kind %d", c.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query note index: %w", err)
	}

	return &ReportResult{Notes: notes, Stats: stats}, nil
}
