package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"prestito/internal/bootstrap"
	"prestito/internal/config"
)

var (
	dataDir   string
	stockFile string
	notesDir  string
	operator  string
	jsonOut   bool
	verbose   bool

	lib *bootstrap.Library
	out io.Writer = os.Stdout
)

var rootCmd = &cobra.Command{
	Use:   "prestito-cli",
	Short: "CLI for a small lending library",
	Long: `prestito-cli manages a lending library's catalog and borrow notes.

Books live in a comma-separated stock file. Every loan writes a note:
an append-only ledger plus a rendered invoice, closed when the books
come back.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		cfg, err := config.LoadFrom(config.Overlay(os.Getenv, map[string]string{
			"PRESTITO_DATA_DIR":   dataDir,
			"PRESTITO_STOCK_FILE": stockFile,
			"PRESTITO_NOTES_DIR":  notesDir,
			"PRESTITO_OPERATOR":   operator,
		}))
		if err != nil {
			return err
		}

		level := slog.LevelWarn
		if verbose {
			level = cfg.LogLevel
		}
		lib, err = bootstrap.Open(cfg, bootstrap.NewLogger(os.Stderr, level))
		return err
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&dataDir, "data-dir", "d", "", "library data directory (default $PRESTITO_DATA_DIR or "+config.DefaultDataDir+")")
	pf.StringVar(&stockFile, "stock-file", "", "stock file (default <data-dir>/stock.txt)")
	pf.StringVar(&notesDir, "notes-dir", "", "notes directory (default <data-dir>/notes)")
	pf.StringVar(&operator, "operator", "", "name printed as the invoice sender")
	pf.BoolVar(&jsonOut, "json", false, "print results as JSON")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log at $PRESTITO_LOG_LEVEL instead of warnings only")
}

// GetLibrary returns the wired library
func GetLibrary() *bootstrap.Library {
	return lib
}
