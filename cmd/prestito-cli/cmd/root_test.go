package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with args against dir and returns stdout
func run(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	out = &stdout
	t.Cleanup(func() { out = os.Stdout })

	rootCmd.SetArgs(append([]string{"--data-dir", dir}, args...))
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	err := rootCmd.Execute()
	return stdout.String(), err
}

func TestCLI_LendingRoundTrip(t *testing.T) {
	dir := t.TempDir()

	stdout, err := run(t, dir, "", "books", "add",
		"--id", "B1", "--name", "Dune", "--author", "Frank Herbert",
		"--publisher", "Chilton", "--year", "1965", "--total", "1", "--price", "5")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Added B1 Dune")

	stdout, err = run(t, dir, "", "borrow", "-b", "Ada Lovelace", "B1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created note ada-lovelace-")

	stdout, err = run(t, dir, "", "books", "list", "--available")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No books.")

	stdout, err = run(t, dir, "", "notes", "open", "Ada Lovelace")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1. ada-lovelace-")

	stdout, err = run(t, dir, "n\n", "return", "--borrower", "Ada Lovelace")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Not returned.")

	stdout, err = run(t, dir, "", "return", "--borrower", "Ada Lovelace", "--yes")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Returned note ada-lovelace-")

	_, err = run(t, dir, "", "return", "--borrower", "Ada Lovelace", "--yes")
	assert.Error(t, err)
}

func TestConfirm(t *testing.T) {
	var buf bytes.Buffer
	out = &buf
	defer func() { out = os.Stdout }()

	tests := []struct {
		answer string
		want   bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		got, err := confirm(strings.NewReader(tt.answer), "Return?")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "answer %q", tt.answer)
	}
}
