package credentials

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"prestito/internal/application"
	"prestito/internal/ports"
)

// ErrInvalidCredentials is returned for an unknown user or a wrong password
var ErrInvalidCredentials = errors.New("invalid user or password")

// File implements ports.CredentialStore as "user:bcrypt-hash" lines
type File struct {
	path string
	cost int
}

var _ ports.CredentialStore = (*File)(nil)

// NewFile creates a credential store at path
func NewFile(path string) *File {
	return &File{path: path, cost: bcrypt.DefaultCost}
}

// WithCost returns a copy using a different bcrypt cost. Tests use
// bcrypt.MinCost.
func (f *File) WithCost(cost int) *File {
	return &File{path: f.path, cost: cost}
}

// Verify checks password against the stored hash for user
func (f *File) Verify(user, password string) error {
	entries, err := f.read()
	if err != nil {
		return err
	}
	hash, ok := entries[user]
	if !ok {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// SetPassword stores a fresh hash for user, creating the file if needed
func (f *File) SetPassword(user, password string) error {
	entries, err := f.read()
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), f.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	entries[user] = string(hash)

	return f.write(entries)
}

// Users returns the registered user names, sorted
func (f *File) Users() ([]string, error) {
	entries, err := f.read()
	if err != nil {
		return nil, err
	}
	users := make([]string, 0, len(entries))
	for u := range entries {
		users = append(users, u)
	}
	sort.Strings(users)
	return users, nil
}

func (f *File) read() (map[string]string, error) {
	entries := make(map[string]string)

	file, err := os.Open(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, &application.IOError{Op: "open", Path: f.path, Err: err}
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		user, hash, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		entries[user] = hash
	}
	if err := scanner.Err(); err != nil {
		return nil, &application.IOError{Op: "read", Path: f.path, Err: err}
	}
	return entries, nil
}

func (f *File) write(entries map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return &application.IOError{Op: "mkdir", Path: filepath.Dir(f.path), Err: err}
	}

	users := make([]string, 0, len(entries))
	for u := range entries {
		users = append(users, u)
	}
	sort.Strings(users)

	var b strings.Builder
	for _, u := range users {
		fmt.Fprintf(&b, "%s:%s\n", u, entries[u])
	}
	if err := os.WriteFile(f.path, []byte(b.String()), 0600); err != nil {
		return &application.IOError{Op: "write", Path: f.path, Err: err}
	}
	return nil
}
