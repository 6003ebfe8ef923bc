package bootstrap

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prestito/internal/application/commands"
	"prestito/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg, err := config.LoadFrom(func(k string) string {
		switch k {
		case "PRESTITO_DATA_DIR":
			return dir
		case "PRESTITO_CURRENCY":
			return "USD"
		}
		return ""
	})
	require.NoError(t, err)
	return cfg
}

func TestOpen_EmptyDataDir(t *testing.T) {
	cfg := testConfig(t)

	lib, err := Open(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, lib.Catalog.Len())
	assert.Equal(t, "USD", lib.Coord.Header.Currency)
	assert.Equal(t, cfg.NotesDir, lib.Store.Dir())
}

func TestOpen_AddBookPersists(t *testing.T) {
	cfg := testConfig(t)

	lib, err := Open(cfg, nil)
	require.NoError(t, err)
	_, err = commands.NewAddBookCommand(lib.Catalog, "B1", "Dune", "Frank Herbert", "Chilton", "1965", "2", "5").
		Execute(context.Background())
	require.NoError(t, err)

	reopened, err := Open(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Catalog.Len())
}

func TestOpenIndex(t *testing.T) {
	lib, err := Open(testConfig(t), nil)
	require.NoError(t, err)

	idx, err := lib.OpenIndex()
	require.NoError(t, err)
	defer idx.Close()

	stats, err := idx.SyncFull(lib.Store)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.FilesScanned)
}

func TestOpenLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "prestito.log")

	f, err := OpenLogFile(path)
	require.NoError(t, err)
	NewLogger(f, slog.LevelInfo).Info("hello", "who", "grace")
	require.NoError(t, f.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(content), "who=grace"))
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)
	logger.Info("quiet")
	logger.Warn("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}
