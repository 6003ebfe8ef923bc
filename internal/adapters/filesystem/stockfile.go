package filesystem

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"prestito/internal/application"
	"prestito/internal/domain"
	"prestito/internal/ports"
)

// StockFile implements ports.BookRepository over the comma-separated
// stock file, one book per line
type StockFile struct {
	path string
}

var _ ports.BookRepository = (*StockFile)(nil)

// NewStockFile creates a stock file repository
func NewStockFile(path string) *StockFile {
	return &StockFile{path: expandHome(path)}
}

// Path returns the stock file location
func (s *StockFile) Path() string {
	return s.path
}

// Load reads every book. A missing file is an empty catalog.
func (s *StockFile) Load() ([]*domain.Book, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &application.IOError{Op: "open", Path: s.path, Err: err}
	}
	defer f.Close()

	var books []*domain.Book
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		b, err := domain.ParseStockLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", s.path, lineNo, err)
		}
		books = append(books, b)
	}
	if err := scanner.Err(); err != nil {
		return nil, &application.IOError{Op: "read", Path: s.path, Err: err}
	}
	return books, nil
}

// Save overwrites the whole file with books in order
func (s *StockFile) Save(books []*domain.Book) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return &application.IOError{Op: "mkdir", Path: filepath.Dir(s.path), Err: err}
	}

	var b strings.Builder
	for _, book := range books {
		b.WriteString(book.StockLine())
	}
	if err := os.WriteFile(s.path, []byte(b.String()), 0644); err != nil {
		return &application.IOError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

// expandHome expands a leading ~ to the home directory
func expandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}
