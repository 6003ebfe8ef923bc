// Package bootstrap wires the adapters behind the lending coordinator from
// a loaded configuration. Every entry point starts here.
package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"prestito/internal/adapters/credentials"
	"prestito/internal/adapters/filesystem"
	"prestito/internal/adapters/sqlite"
	"prestito/internal/application"
	"prestito/internal/application/commands"
	"prestito/internal/config"
)

// Library holds the wired components for one process
type Library struct {
	Config      *config.Config
	Stock       *filesystem.StockFile
	Store       *filesystem.NoteStore
	Catalog     *application.Catalog
	Coord       *commands.Coordinator
	Credentials *credentials.File
	Logger      *slog.Logger
}

// Open loads the catalog and builds the coordinator. A missing stock file
// opens an empty catalog.
func Open(cfg *config.Config, logger *slog.Logger) (*Library, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	stock := filesystem.NewStockFile(cfg.StockFile)
	catalog, err := application.LoadCatalog(stock)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Debug("catalog loaded", "path", stock.Path(), "books", catalog.Len())

	store := filesystem.NewNoteStore(cfg.NotesDir)
	coord := commands.NewCoordinator(catalog, store,
		commands.WithTerms(cfg.Terms()),
		commands.WithHeader(cfg.InvoiceHeader()),
		commands.WithLogger(logger),
	)

	return &Library{
		Config:      cfg,
		Stock:       stock,
		Store:       store,
		Catalog:     catalog,
		Coord:       coord,
		Credentials: credentials.NewFile(cfg.CredentialsFile),
		Logger:      logger,
	}, nil
}

// OpenIndex opens the note index database. The caller closes it.
func (l *Library) OpenIndex() (*sqlite.Index, error) {
	idx := sqlite.NewIndex()
	if err := idx.Open(l.Config.IndexFile); err != nil {
		return nil, fmt.Errorf("failed to open note index: %w", err)
	}
	return idx, nil
}

// NewLogger returns a text logger writing to w at level
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// OpenLogFile opens path for appending, creating its directory. The caller
// closes the file.
func OpenLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, &application.IOError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, &application.IOError{Op: "open", Path: path, Err: err}
	}
	return f, nil
}
