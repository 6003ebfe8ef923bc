package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"prestito/internal/application/commands"
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Manage the catalog",
	Long: `List, search, add and remove catalog books.

Examples:
  prestito-cli books list
  prestito-cli books list --available
  prestito-cli books search tolkien
  prestito-cli books add --id B9 --name Beloved --author "Toni Morrison" \
      --publisher Knopf --year 1987 --total 3 --price 4
  prestito-cli books remove "The Hobbit"`,
}

var availableOnly bool

var booksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List books in stock file order",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		books, err := commands.NewListBooksCommand(GetLibrary().Catalog, availableOnly).Execute(ctx)
		if err != nil {
			return err
		}
		return printBooks(books)
	},
}

var booksSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy search by ID, name or author",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		query := strings.Join(args, " ")
		matches, err := commands.NewSearchBooksCommand(GetLibrary().Catalog, query).Execute(ctx)
		if err != nil {
			return err
		}

		if jsonOut {
			views := make([]bookJSON, 0, len(matches))
			for _, m := range matches {
				v := toBookJSON(m.Book)
				v.Score = m.Score
				views = append(views, v)
			}
			return printJSON(views)
		}
		if len(matches) == 0 {
			fmt.Fprintln(out, "No results found.")
			return nil
		}
		for _, m := range matches {
			fmt.Fprintf(out, "%-6s %-30s %s\n", m.Book.ID, m.Book.Name, m.Book.Author)
		}
		return nil
	},
}

var newBook struct {
	id, name, author, publisher, year, total, price string
}

var booksAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a book with all copies on the shelf",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		addCmd := commands.NewAddBookCommand(GetLibrary().Catalog,
			newBook.id, newBook.name, newBook.author, newBook.publisher,
			newBook.year, newBook.total, newBook.price)
		result, err := addCmd.Execute(ctx)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(toBookJSON(result.Book))
		}
		fmt.Fprintln(out, result.Message)
		return nil
	},
}

var acceptSuggestion bool

var booksRemoveCmd = &cobra.Command{
	Use:   "remove <id-or-name>",
	Short: "Remove a book from the catalog",
	Long: `Remove a book found by ID, exact name or similar name.

A similar-name match is only removed with --accept-suggestion.
Outstanding notes keep their copy of the book and still return cleanly.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		removeCmd := commands.NewRemoveBookCommand(GetLibrary().Catalog, strings.Join(args, " "), acceptSuggestion)
		result, err := removeCmd.Execute(ctx)
		var sugg *commands.SuggestionError
		if errors.As(err, &sugg) {
			return fmt.Errorf("%w\nrun again with --accept-suggestion to remove %q", err, sugg.Suggestion.Name)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(out, result.Message)
		return nil
	},
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Rewrite the stock file from the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		msg, err := commands.NewSaveCatalogCommand(GetLibrary().Catalog).Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, msg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(booksCmd)
	booksCmd.AddCommand(booksListCmd)
	booksCmd.AddCommand(booksSearchCmd)
	booksCmd.AddCommand(booksAddCmd)
	booksCmd.AddCommand(booksRemoveCmd)
	booksCmd.AddCommand(saveCmd)

	booksListCmd.Flags().BoolVarP(&availableOnly, "available", "a", false, "only books with a copy on the shelf")
	booksRemoveCmd.Flags().BoolVar(&acceptSuggestion, "accept-suggestion", false, "remove the suggested book on a similar-name match")

	f := booksAddCmd.Flags()
	f.StringVar(&newBook.id, "id", "", "unique library ID")
	f.StringVar(&newBook.name, "name", "", "title")
	f.StringVar(&newBook.author, "author", "", "author")
	f.StringVar(&newBook.publisher, "publisher", "", "publisher")
	f.StringVar(&newBook.year, "year", "", "publication year")
	f.StringVar(&newBook.total, "total", "", "number of copies")
	f.StringVar(&newBook.price, "price", "", "borrowing price per loan period")
	for _, name := range []string{"id", "name", "author", "publisher", "year", "total", "price"} {
		_ = booksAddCmd.MarkFlagRequired(name)
	}
}
