package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "prestito/internal/adapters/mcp"
	"prestito/internal/bootstrap"
	"prestito/internal/config"
)

func main() {
	dataDir := flag.String("data-dir", "", "library data directory (default $PRESTITO_DATA_DIR)")
	noIndex := flag.Bool("no-index", false, "do not open the note index; disables the report tool")
	flag.Parse()

	cfg, err := config.LoadFrom(config.Overlay(os.Getenv, map[string]string{
		"PRESTITO_DATA_DIR": *dataDir,
	}))
	if err != nil {
		log.Fatalf("prestito-mcp: %v", err)
	}

	// stdout carries the protocol
	logger := bootstrap.NewLogger(os.Stderr, cfg.LogLevel)

	lib, err := bootstrap.Open(cfg, logger)
	if err != nil {
		log.Fatalf("prestito-mcp: %v", err)
	}

	tools := mcpadapter.NewLibrary(lib.Coord, nil)
	if !*noIndex {
		idx, err := lib.OpenIndex()
		if err != nil {
			logger.Warn("note index unavailable", "err", err)
		} else {
			defer idx.Close()
			tools.Index = idx
		}
	}

	mcpServer := server.NewMCPServer(
		"prestito-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, tools)
	mcpadapter.RegisterWriteTools(mcpServer, tools)

	logger.Info("serving", "data_dir", cfg.DataDir, "books", lib.Catalog.Len())
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
