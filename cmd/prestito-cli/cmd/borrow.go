package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"prestito/internal/application/commands"
)

var (
	borrower          string
	acceptSuggestions bool
)

var borrowCmd = &cobra.Command{
	Use:   "borrow <book>...",
	Short: "Lend books to a borrower",
	Long: `Lend one or more books to a borrower and write a note.

Each book is looked up by ID, then exact name, then similar name.
Similar-name matches are skipped unless --accept-suggestions is set.
Books that are out of stock or listed twice are reported and skipped.

Examples:
  prestito-cli borrow -b "Ada Lovelace" B1 "The Hobbit"
  prestito-cli borrow -b "Ada Lovelace" --accept-suggestions "The Hobit"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		borrowCmd := commands.NewBorrowCommand(GetLibrary().Coord, borrower, args, acceptSuggestions)
		result, err := borrowCmd.Execute(ctx)
		if result == nil {
			return err
		}

		for _, line := range result.Lines {
			switch {
			case line.Err != nil && line.Book == nil:
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", line.Query, line.Err)
			case line.Err != nil:
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s, %v\n", line.Book.Name, line.Outcome, line.Err)
			case line.Outcome != commands.AddBorrowed:
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", line.Book.Name, line.Outcome)
			}
		}
		if err != nil {
			return err
		}

		if jsonOut {
			return printJSON(toNoteJSON(result.Receipt.ID, result.Receipt.Note))
		}
		fmt.Fprintln(out, result.Receipt.Invoice)
		fmt.Fprintln(out, result.Receipt.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(borrowCmd)
	borrowCmd.Flags().StringVarP(&borrower, "borrower", "b", "", "borrower full name")
	borrowCmd.Flags().BoolVar(&acceptSuggestions, "accept-suggestions", false, "borrow the suggested book on a similar-name match")
	_ = borrowCmd.MarkFlagRequired("borrower")
}
