package mcp

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"prestito/internal/application"
	"prestito/internal/application/commands"
	"prestito/internal/domain"
	"prestito/internal/ports"
)

// Library is the state the tools operate on. Tool calls are serialized
// because the catalog is not safe for concurrent use.
type Library struct {
	Coord *commands.Coordinator
	Index ports.NoteIndex // Optional; report is unavailable without it

	mu sync.Mutex
}

// NewLibrary creates a Library over coord. index may be nil.
func NewLibrary(coord *commands.Coordinator, index ports.NoteIndex) *Library {
	return &Library{Coord: coord, Index: index}
}

func (l *Library) handle(h server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		l.mu.Lock()
		defer l.mu.Unlock()
		return h(ctx, req)
	}
}

// RegisterReadTools adds all read-only library tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, lib *Library) {
	s.AddTool(listBooksTool(), lib.handle(listBooksHandler(lib)))
	s.AddTool(searchBooksTool(), lib.handle(searchBooksHandler(lib)))
	s.AddTool(searchNotesTool(), lib.handle(searchNotesHandler(lib)))
	s.AddTool(readNoteTool(), lib.handle(readNoteHandler(lib)))
	if lib.Index != nil {
		s.AddTool(reportTool(), lib.handle(reportHandler(lib)))
	}
}

// --- list_books ---

func listBooksTool() mcp.Tool {
	return mcp.NewTool("list_books",
		mcp.WithDescription("List the catalog in stock file order with remaining and total copies."),
		mcp.WithBoolean("available_only",
			mcp.Description("Only list books with at least one copy on the shelf"),
		),
	)
}

func listBooksHandler(lib *Library) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewListBooksCommand(lib.Coord.Catalog, req.GetBool("available_only", false))
		books, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(books, formatBook)
	}
}

// --- search_books ---

func searchBooksTool() mcp.Tool {
	return mcp.NewTool("search_books",
		mcp.WithDescription("Fuzzy search the catalog by ID, name or author. Best matches first."),
		mcp.WithString("query",
			mcp.Description("Search query, at least two characters"),
			mcp.Required(),
		),
	)
}

func searchBooksHandler(lib *Library) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return toolError(fmt.Errorf("query is required"))
		}

		matches, err := commands.NewSearchBooksCommand(lib.Coord.Catalog, query).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(matches) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}

		var sb strings.Builder
		for _, m := range matches {
			fmt.Fprintf(&sb, "%s  (score %d)\n", formatBook(m.Book), m.Score)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- search_notes ---

func searchNotesTool() mcp.Tool {
	return mcp.NewTool("search_notes",
		mcp.WithDescription("Find note IDs containing a keyword, usually part of a borrower name."),
		mcp.WithString("keyword",
			mcp.Description("Case-sensitive substring of the note ID"),
			mcp.Required(),
		),
		mcp.WithBoolean("open_only",
			mcp.Description("Only list notes whose books are still out"),
		),
	)
}

func searchNotesHandler(lib *Library) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		keyword := req.GetString("keyword", "")
		if keyword == "" {
			return toolError(fmt.Errorf("keyword is required"))
		}

		listings, err := lib.Coord.SearchNotes(ctx, keyword, req.GetBool("open_only", false))
		if err != nil {
			return toolError(err)
		}
		return formatEntities(listings, formatListing)
	}
}

// --- read_note ---

func readNoteTool() mcp.Tool {
	return mcp.NewTool("read_note",
		mcp.WithDescription("Render a note as an invoice, with the fine and total once it is returned."),
		mcp.WithString("id",
			mcp.Description("Note ID (e.g. grace-hopper-1718000000)"),
			mcp.Required(),
		),
		mcp.WithString("format",
			mcp.Description("text (default) or markdown"),
			mcp.Enum("text", "markdown"),
		),
	)
}

func readNoteHandler(lib *Library) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		if id == "" {
			return toolError(fmt.Errorf("id is required"))
		}

		view, err := lib.Coord.PrintNote(ctx, id)
		if err != nil {
			return toolError(err)
		}
		if req.GetString("format", "text") == "markdown" {
			return mcp.NewToolResultText(view.Markdown), nil
		}
		return mcp.NewToolResultText(view.Invoice), nil
	}
}

// --- report ---

func reportTool() mcp.Tool {
	return mcp.NewTool("report",
		mcp.WithDescription("List notes from the index: outstanding, overdue as of a date, or one borrower's history."),
		mcp.WithString("kind",
			mcp.Description("outstanding, overdue or history"),
			mcp.Enum("outstanding", "overdue", "history"),
			mcp.Required(),
		),
		mcp.WithString("borrower",
			mcp.Description("Borrower name, required for history"),
		),
		mcp.WithString("as_of",
			mcp.Description("Date for overdue as YYYY-MM-DD. Defaults to today."),
		),
	)
}

func reportHandler(lib *Library) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kind, err := commands.ParseReportKind(req.GetString("kind", ""))
		if err != nil {
			return toolError(err)
		}

		cmd := commands.NewReportCommand(lib.Index, lib.Coord.Store, lib.Coord.Logger, kind)
		cmd.Borrower = req.GetString("borrower", "")
		if asOf := req.GetString("as_of", ""); asOf != "" {
			t, err := time.ParseInLocation("2006-01-02", asOf, time.Local)
			if err != nil {
				return toolError(fmt.Errorf("as_of must be YYYY-MM-DD: %w", err))
			}
			cmd.AsOf = t.Add(24*time.Hour - time.Nanosecond)
		}

		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(result.Notes, func(n domain.NoteSummary) string {
			return formatSummary(n, lib.Coord.Header.Currency)
		})
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatBook(b *domain.Book) string {
	return fmt.Sprintf("%s  %s  %s  %d/%d  %s", b.ID, b.Name, b.Author, b.Remaining, b.Total, b.Price.StringFixed(2))
}

func formatListing(l commands.NoteListing) string {
	state := "open"
	if l.Closed {
		state = "returned"
	}
	if l.BorrowedAt == "" {
		return fmt.Sprintf("%s  %s", l.ID, state)
	}
	return fmt.Sprintf("%s  %s  %s  %s", l.ID, l.Borrower, l.BorrowedAt, state)
}

func formatSummary(n domain.NoteSummary, currency string) string {
	if n.Returned {
		return fmt.Sprintf("%s  %s  %d books  returned %s  %s", n.ID, n.Borrower, n.BookCount,
			n.ReturnedDate.Format("2006-01-02"), application.FormatMoney(n.FinalCost, currency))
	}
	return fmt.Sprintf("%s  %s  %d books  due %s", n.ID, n.Borrower, n.BookCount, n.DueDate.Format("2006-01-02"))
}
