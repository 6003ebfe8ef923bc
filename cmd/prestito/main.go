package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"prestito/internal/adapters/editor"
	"prestito/internal/adapters/tui"
	"prestito/internal/bootstrap"
	"prestito/internal/config"
	"prestito/internal/ports"
)

func main() {
	dataDir := flag.String("data-dir", "", "library data directory (default $PRESTITO_DATA_DIR)")
	noLogin := flag.Bool("no-login", false, "skip the operator login")
	flag.Parse()

	if err := run(*dataDir, *noLogin); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(dataDir string, noLogin bool) error {
	cfg, err := config.LoadFrom(config.Overlay(os.Getenv, map[string]string{
		"PRESTITO_DATA_DIR": dataDir,
	}))
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal, so logs go to a file
	logFile, err := bootstrap.OpenLogFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := bootstrap.NewLogger(logFile, cfg.LogLevel)

	lib, err := bootstrap.Open(cfg, logger)
	if err != nil {
		return err
	}

	var creds ports.CredentialStore = lib.Credentials
	if noLogin {
		creds = nil
	} else {
		users, err := lib.Credentials.Users()
		if err != nil {
			return err
		}
		if len(users) == 0 {
			return fmt.Errorf("no operators in %s; add one with: prestito-cli operator add %s",
				cfg.CredentialsFile, cfg.Operator)
		}
	}

	app := tui.NewApp(lib.Coord, creds, editor.NewOpener(), cfg.Operator)
	logger.Info("tui started", "data_dir", cfg.DataDir, "books", lib.Catalog.Len())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	// Stock changes are saved as they happen; this catches a failed save
	if err := lib.Catalog.Save(); err != nil {
		logger.Error("final save failed", "err", err)
		return err
	}
	return nil
}
