package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"prestito/internal/application"
	"prestito/internal/application/commands"
)

var (
	returnBorrower string
	assumeYes      bool
)

var returnCmd = &cobra.Command{
	Use:   "return [note-id]",
	Short: "Close a note and put its books back",
	Long: `Close a note: restock its books and compute any late fine.

Pass the note ID, or --borrower to pick the borrower's only open note.
The invoice is shown and the return must be confirmed unless --yes is set.

Examples:
  prestito-cli return ada-lovelace-1704101400
  prestito-cli return --borrower "Ada Lovelace" --yes`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		coord := GetLibrary().Coord

		var id string
		switch {
		case len(args) == 1:
			id = args[0]
		case returnBorrower != "":
			open, err := coord.OpenNotes(ctx, returnBorrower)
			if err != nil {
				return err
			}
			switch len(open) {
			case 0:
				return &application.NotFoundError{Kind: "open note", Query: returnBorrower}
			case 1:
				id = open[0].ID
			default:
				var sb strings.Builder
				for _, n := range open {
					fmt.Fprintf(&sb, "\n  %s  borrowed %s", n.ID, n.BorrowedAt.Format(timeLayout))
				}
				return fmt.Errorf("%s has %d open notes, pass one of:%s", returnBorrower, len(open), sb.String())
			}
		default:
			return fmt.Errorf("pass a note ID or --borrower")
		}

		confirmed := assumeYes
		if !confirmed {
			view, err := coord.PrintNote(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, view.Invoice)
			confirmed, err = confirm(cmd.InOrStdin(), fmt.Sprintf("Return note %s?", id))
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Fprintln(out, "Not returned.")
				return nil
			}
		}

		receipt, err := coord.Return(ctx, id, confirmed)
		if receipt == nil {
			return err
		}
		for _, b := range receipt.Books {
			if b.Outcome != commands.ReturnRestocked {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", b.Book.Name, b.Outcome)
			}
		}

		if jsonOut {
			if perr := printJSON(toNoteJSON(receipt.ID, receipt.Note)); perr != nil {
				return perr
			}
		} else {
			fmt.Fprintln(out, receipt.Invoice)
			fmt.Fprintln(out, receipt.Message)
		}
		return err
	},
}

// confirm asks a yes/no question on out and reads the answer from in
func confirm(in io.Reader, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func init() {
	rootCmd.AddCommand(returnCmd)
	returnCmd.Flags().StringVarP(&returnBorrower, "borrower", "b", "", "return the borrower's only open note")
	returnCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "return without asking")
}
