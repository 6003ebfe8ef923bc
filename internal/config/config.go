package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"prestito/internal/application"
	"prestito/internal/domain"
)

// Defaults used when the matching PRESTITO_* variable is unset
const (
	DefaultDataDir     = "~/.local/share/prestito"
	DefaultLibraryName = "Community Library"
	DefaultCurrency    = "NPR"
	DefaultLoanDays    = 10
	DefaultFinePerDay  = "10"
)

// Config holds every path and lending parameter. It is built once in main
// and passed to constructors.
type Config struct {
	DataDir         string
	StockFile       string
	NotesDir        string
	CredentialsFile string
	IndexFile       string
	LogFile         string
	LogLevel        slog.Level
	LibraryName     string
	Operator        string
	Currency        string
	LoanDays        int
	FinePerDay      decimal.Decimal
}

// Load reads the configuration from PRESTITO_* environment variables
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads the configuration through getenv
func LoadFrom(getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		DataDir:         env("PRESTITO_DATA_DIR", DefaultDataDir),
		StockFile:       getenv("PRESTITO_STOCK_FILE"),
		NotesDir:        getenv("PRESTITO_NOTES_DIR"),
		CredentialsFile: getenv("PRESTITO_CREDENTIALS_FILE"),
		IndexFile:       getenv("PRESTITO_INDEX_FILE"),
		LogFile:         getenv("PRESTITO_LOG_FILE"),
		LibraryName:     env("PRESTITO_LIBRARY_NAME", DefaultLibraryName),
		Operator:        env("PRESTITO_OPERATOR", currentUser(getenv)),
		Currency:        strings.ToUpper(env("PRESTITO_CURRENCY", DefaultCurrency)),
	}

	days, err := strconv.Atoi(env("PRESTITO_LOAN_DAYS", strconv.Itoa(DefaultLoanDays)))
	if err != nil || days < 1 {
		return nil, fmt.Errorf("PRESTITO_LOAN_DAYS must be a whole number of at least 1")
	}
	cfg.LoanDays = days

	fine, err := decimal.NewFromString(env("PRESTITO_FINE_PER_DAY", DefaultFinePerDay))
	if err != nil || fine.IsNegative() {
		return nil, fmt.Errorf("PRESTITO_FINE_PER_DAY must be a number of at least 0")
	}
	cfg.FinePerDay = fine

	if err := cfg.LogLevel.UnmarshalText([]byte(env("PRESTITO_LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("PRESTITO_LOG_LEVEL: %w", err)
	}

	cfg.Resolve()
	return cfg, nil
}

// Overlay returns a getenv that prefers non-empty values from overrides.
// Command-line flags are applied this way so derived paths follow them.
func Overlay(getenv func(string) string, overrides map[string]string) func(string) string {
	return func(key string) string {
		if v := overrides[key]; v != "" {
			return v
		}
		return getenv(key)
	}
}

// Resolve fills unset file paths from DataDir and expands ~
func (c *Config) Resolve() {
	c.DataDir = expandHome(c.DataDir)
	if c.StockFile == "" {
		c.StockFile = filepath.Join(c.DataDir, "stock.txt")
	}
	if c.NotesDir == "" {
		c.NotesDir = filepath.Join(c.DataDir, "notes")
	}
	if c.CredentialsFile == "" {
		c.CredentialsFile = filepath.Join(c.DataDir, "passwords.txt")
	}
	if c.IndexFile == "" {
		c.IndexFile = filepath.Join(c.DataDir, "index.db")
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.DataDir, "prestito.log")
	}
	c.StockFile = expandHome(c.StockFile)
	c.NotesDir = expandHome(c.NotesDir)
	c.CredentialsFile = expandHome(c.CredentialsFile)
	c.IndexFile = expandHome(c.IndexFile)
	c.LogFile = expandHome(c.LogFile)
}

// Terms returns the lending terms for new notes
func (c *Config) Terms() domain.Terms {
	return domain.Terms{
		LoanPeriod: time.Duration(c.LoanDays) * 24 * time.Hour,
		FinePerDay: c.FinePerDay,
	}
}

// InvoiceHeader returns the issuer details printed on invoices
func (c *Config) InvoiceHeader() application.InvoiceHeader {
	return application.InvoiceHeader{
		LibraryName: c.LibraryName,
		Operator:    c.Operator,
		Currency:    c.Currency,
		FinePerDay:  c.FinePerDay,
	}
}

func currentUser(getenv func(string) string) string {
	if u := getenv("USER"); u != "" {
		return u
	}
	return "operator"
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}
