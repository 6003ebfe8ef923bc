package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"prestito/internal/application"
	"prestito/internal/application/commands"
)

// RegisterWriteTools adds the tools that change the catalog or the notes.
func RegisterWriteTools(s *server.MCPServer, lib *Library) {
	s.AddTool(borrowTool(), lib.handle(borrowHandler(lib)))
	s.AddTool(returnTool(), lib.handle(returnHandler(lib)))
	s.AddTool(addBookTool(), lib.handle(addBookHandler(lib)))
	s.AddTool(removeBookTool(), lib.handle(removeBookHandler(lib)))
}

// --- borrow ---

func borrowTool() mcp.Tool {
	return mcp.NewTool("borrow",
		mcp.WithDescription("Lend books to one borrower and write a note. Each book is looked up by ID, then exact name, then similar name. Similar-name matches are skipped unless accept_suggestions is set."),
		mcp.WithString("borrower",
			mcp.Description("Borrower full name"),
			mcp.Required(),
		),
		mcp.WithString("books",
			mcp.Description("Comma-separated book IDs or names"),
			mcp.Required(),
		),
		mcp.WithBoolean("accept_suggestions",
			mcp.Description("Borrow the suggested book when a name only matches approximately"),
		),
	)
}

func borrowHandler(lib *Library) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		borrower := req.GetString("borrower", "")
		books := strings.Split(req.GetString("books", ""), ",")

		cmd := commands.NewBorrowCommand(lib.Coord, borrower, books, req.GetBool("accept_suggestions", false))
		result, err := cmd.Execute(ctx)
		if result == nil {
			return toolError(err)
		}

		var sb strings.Builder
		for _, line := range result.Lines {
			switch {
			case line.Err != nil && line.Book == nil:
				fmt.Fprintf(&sb, "%s: %v\n", line.Query, line.Err)
			case line.Err != nil:
				fmt.Fprintf(&sb, "%s: %s (%v)\n", line.Book.Name, line.Outcome, line.Err)
			default:
				fmt.Fprintf(&sb, "%s: %s\n", line.Book.Name, line.Outcome)
			}
		}
		if err != nil {
			if errors.Is(err, application.ErrEmptySession) {
				sb.WriteString("No books borrowed; no note written.\n")
			}
			return mcp.NewToolResultError(sb.String() + err.Error()), nil
		}

		sb.WriteString(result.Receipt.Message)
		sb.WriteString("\n\n")
		sb.WriteString(result.Receipt.Invoice)
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- return ---

func returnTool() mcp.Tool {
	return mcp.NewTool("return",
		mcp.WithDescription("Close a note: put its books back on the shelf and compute the fine. Nothing changes unless confirm is true."),
		mcp.WithString("id",
			mcp.Description("Note ID"),
			mcp.Required(),
		),
		mcp.WithBoolean("confirm",
			mcp.Description("Set to true to perform the return"),
		),
	)
}

func returnHandler(lib *Library) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		if id == "" {
			return toolError(fmt.Errorf("id is required"))
		}

		if !req.GetBool("confirm", false) {
			view, err := lib.Coord.PrintNote(ctx, id)
			if err != nil {
				return toolError(err)
			}
			return mcp.NewToolResultText("Not returned. Call again with confirm=true to close this note.\n\n" + view.Invoice), nil
		}

		receipt, err := lib.Coord.Return(ctx, id, true)
		if receipt == nil {
			return toolError(err)
		}

		var sb strings.Builder
		sb.WriteString(receipt.Message)
		sb.WriteByte('\n')
		for _, b := range receipt.Books {
			if b.Outcome != commands.ReturnRestocked {
				fmt.Fprintf(&sb, "%s: %s\n", b.Book.Name, b.Outcome)
			}
		}
		if err != nil {
			fmt.Fprintf(&sb, "warning: %v\n", err)
		}
		sb.WriteByte('\n')
		sb.WriteString(receipt.Invoice)
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- add_book ---

func addBookTool() mcp.Tool {
	return mcp.NewTool("add_book",
		mcp.WithDescription("Add a book to the catalog with all copies on the shelf."),
		mcp.WithString("id", mcp.Description("Unique library ID"), mcp.Required()),
		mcp.WithString("name", mcp.Description("Title, no commas"), mcp.Required()),
		mcp.WithString("author", mcp.Description("Author, no commas"), mcp.Required()),
		mcp.WithString("publisher", mcp.Description("Publisher, no commas"), mcp.Required()),
		mcp.WithString("pub_date", mcp.Description("Publication year"), mcp.Required()),
		mcp.WithString("total", mcp.Description("Number of copies"), mcp.Required()),
		mcp.WithString("price", mcp.Description("Borrowing price per loan period"), mcp.Required()),
	)
}

func addBookHandler(lib *Library) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewAddBookCommand(lib.Coord.Catalog,
			req.GetString("id", ""),
			req.GetString("name", ""),
			req.GetString("author", ""),
			req.GetString("publisher", ""),
			req.GetString("pub_date", ""),
			req.GetString("total", ""),
			req.GetString("price", ""),
		)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- remove_book ---

func removeBookTool() mcp.Tool {
	return mcp.NewTool("remove_book",
		mcp.WithDescription("Remove a book from the catalog by ID or name. Outstanding notes keep the book."),
		mcp.WithString("query",
			mcp.Description("Book ID or name"),
			mcp.Required(),
		),
		mcp.WithBoolean("accept_suggestion",
			mcp.Description("Remove the suggested book when the name only matches approximately"),
		),
	)
}

func removeBookHandler(lib *Library) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewRemoveBookCommand(lib.Coord.Catalog,
			req.GetString("query", ""),
			req.GetBool("accept_suggestion", false),
		)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}
