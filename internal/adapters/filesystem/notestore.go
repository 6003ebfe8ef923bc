package filesystem

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"prestito/internal/application"
	"prestito/internal/domain"
	"prestito/internal/ports"
)

// File extensions of the two artifacts kept per note
const (
	LedgerExt  = ".ledger"
	InvoiceExt = ".txt"
)

// NoteStore implements ports.NoteStore as a directory holding
// <id>.ledger and <id>.txt for every note
type NoteStore struct {
	dir string
}

var _ ports.NoteStore = (*NoteStore)(nil)

// NewNoteStore creates a note store rooted at dir
func NewNoteStore(dir string) *NoteStore {
	return &NoteStore{dir: expandHome(dir)}
}

// Dir returns the notes directory
func (s *NoteStore) Dir() string {
	return s.dir
}

func (s *NoteStore) ledgerPath(id string) string {
	return filepath.Join(s.dir, id+LedgerExt)
}

func (s *NoteStore) invoicePath(id string) string {
	return filepath.Join(s.dir, id+InvoiceExt)
}

func validID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return &application.ValidationError{Field: "noteID", Message: fmt.Sprintf("invalid note ID: %q", id)}
	}
	return nil
}

// Save creates or overwrites the ledger and invoice for id
func (s *NoteStore) Save(id, rendered string, lines []string) error {
	if err := validID(id); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return &application.IOError{Op: "mkdir", Path: s.dir, Err: err}
	}

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if err := os.WriteFile(s.ledgerPath(id), []byte(b.String()), 0644); err != nil {
		return &application.IOError{Op: "write", Path: s.ledgerPath(id), Err: err}
	}
	if err := os.WriteFile(s.invoicePath(id), []byte(rendered), 0644); err != nil {
		return &application.IOError{Op: "write", Path: s.invoicePath(id), Err: err}
	}
	return nil
}

// AppendReturn appends line to an existing ledger and replaces the invoice
func (s *NoteStore) AppendReturn(id, rendered, line string) error {
	if err := validID(id); err != nil {
		return err
	}
	path := s.ledgerPath(id)

	// O_APPEND without O_CREATE: a missing ledger is an error
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return &application.IOError{Op: "append", Path: path, Err: err}
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return &application.IOError{Op: "append", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &application.IOError{Op: "close", Path: path, Err: err}
	}

	if err := os.WriteFile(s.invoicePath(id), []byte(rendered), 0644); err != nil {
		return &application.IOError{Op: "write", Path: s.invoicePath(id), Err: err}
	}
	return nil
}

// Load returns the non-empty ledger lines for id
func (s *NoteStore) Load(id string) ([]string, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	path := s.ledgerPath(id)

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &application.NotFoundError{Kind: "note", Query: id}
	}
	if err != nil {
		return nil, &application.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &application.IOError{Op: "read", Path: path, Err: err}
	}
	return lines, nil
}

// List returns every note id, sorted
func (s *NoteStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &application.IOError{Op: "read", Path: s.dir, Err: err}
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), LedgerExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), LedgerExt))
	}
	sort.Strings(ids)
	return ids, nil
}

// Search returns the ids containing keyword. Matching is case-sensitive.
// Closed notes are skipped when excludeReturned is set.
func (s *NoteStore) Search(keyword string, excludeReturned bool) ([]string, error) {
	ids, err := s.List()
	if err != nil {
		return nil, err
	}

	var results []string
	for _, id := range ids {
		if !strings.Contains(id, keyword) {
			continue
		}
		if excludeReturned {
			lines, err := s.Load(id)
			if err != nil {
				return nil, err
			}
			if domain.IsClosed(lines) {
				continue
			}
		}
		results = append(results, id)
	}
	return results, nil
}

// Exists reports whether a ledger exists for id
func (s *NoteStore) Exists(id string) bool {
	if validID(id) != nil {
		return false
	}
	_, err := os.Stat(s.ledgerPath(id))
	return err == nil
}

// InvoicePath returns the rendered invoice path for id
func (s *NoteStore) InvoicePath(id string) (string, error) {
	if err := validID(id); err != nil {
		return "", err
	}
	path := s.invoicePath(id)
	if _, err := os.Stat(path); err != nil {
		return "", &application.NotFoundError{Kind: "invoice", Query: id}
	}
	return path, nil
}
