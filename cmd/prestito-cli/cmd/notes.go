package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"prestito/internal/adapters/editor"
)

var notesCmd = &cobra.Command{
	Use:     "notes",
	Aliases: []string{"note"},
	Short:   "Find and print borrow notes",
	Long: `Find and print borrow notes.

Examples:
  prestito-cli notes search ada
  prestito-cli notes search ada --open
  prestito-cli notes open "Ada Lovelace"
  prestito-cli note print ada-lovelace-1704101400
  prestito-cli note print ada-lovelace-1704101400 --plain`,
}

var openOnly bool

var notesSearchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "List note IDs containing keyword",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		listings, err := GetLibrary().Coord.SearchNotes(ctx, args[0], openOnly)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(listings)
		}
		if len(listings) == 0 {
			fmt.Fprintln(out, "No notes found.")
			return nil
		}
		for _, l := range listings {
			state := "open"
			if l.Closed {
				state = "returned"
			}
			fmt.Fprintf(out, "%-36s %-16s %s\n", l.ID, l.BorrowedAt, state)
		}
		return nil
	},
}

var notesOpenCmd = &cobra.Command{
	Use:   "open <borrower>",
	Short: "List a borrower's open notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		notes, err := GetLibrary().Coord.OpenNotes(ctx, args[0])
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(notes)
		}
		if len(notes) == 0 {
			fmt.Fprintf(out, "%s has no open notes.\n", args[0])
			return nil
		}
		for i, n := range notes {
			fmt.Fprintf(out, "%d. %s  borrowed %s\n", i+1, n.ID, n.BorrowedAt.Format(timeLayout))
		}
		return nil
	},
}

var (
	plainNote bool
	editNote  bool
)

var notesPrintCmd = &cobra.Command{
	Use:   "print <note-id>",
	Short: "Print a note's invoice, open or returned",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		view, err := GetLibrary().Coord.PrintNote(ctx, args[0])
		if err != nil {
			return err
		}

		if editNote {
			if view.Path == "" {
				return fmt.Errorf("note %s has no stored invoice", view.ID)
			}
			return editor.NewOpener().OpenFile(view.Path)
		}

		switch {
		case jsonOut:
			return printJSON(toNoteJSON(view.ID, view.Note))
		case plainNote:
			fmt.Fprintln(out, view.Invoice)
			return nil
		}

		rendered, err := glamour.Render(view.Markdown, "auto")
		if err != nil {
			GetLibrary().Logger.Warn("markdown render failed", "err", err)
			fmt.Fprintln(out, view.Invoice)
			return nil
		}
		fmt.Fprint(out, rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(notesCmd)
	notesCmd.AddCommand(notesSearchCmd)
	notesCmd.AddCommand(notesOpenCmd)
	notesCmd.AddCommand(notesPrintCmd)

	notesSearchCmd.Flags().BoolVar(&openOnly, "open", false, "skip returned notes")
	notesPrintCmd.Flags().BoolVar(&plainNote, "plain", false, "print the fixed-width invoice instead of rendered markdown")
	notesPrintCmd.Flags().BoolVarP(&editNote, "edit", "e", false, "open the stored invoice in $EDITOR")
}
