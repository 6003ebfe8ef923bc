package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"prestito/internal/application"
	"prestito/internal/application/commands"
)

var (
	reportAsOf     string
	reportBorrower string
)

var reportCmd = &cobra.Command{
	Use:       "report <outstanding|overdue|history>",
	Short:     "Report notes from the index",
	ValidArgs: []string{"outstanding", "overdue", "history"},
	Long: `Sync the note index from the notes directory and list notes.

  outstanding  every open note, earliest due first
  overdue      open notes past due at --as-of (default now)
  history      every note of --borrower, newest first

Examples:
  prestito-cli report overdue
  prestito-cli report overdue --as-of 2024-02-01
  prestito-cli report history --borrower "Ada Lovelace"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		l := GetLibrary()

		kind, err := commands.ParseReportKind(args[0])
		if err != nil {
			return err
		}

		idx, err := l.OpenIndex()
		if err != nil {
			return err
		}
		defer idx.Close()

		reportCmd := commands.NewReportCommand(idx, l.Store, l.Logger, kind)
		reportCmd.Borrower = reportBorrower
		if reportAsOf != "" {
			t, err := time.ParseInLocation("2006-01-02", reportAsOf, time.Local)
			if err != nil {
				return fmt.Errorf("--as-of must be YYYY-MM-DD: %w", err)
			}
			reportCmd.AsOf = t.Add(24*time.Hour - time.Nanosecond)
		}

		result, err := reportCmd.Execute(ctx)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(result.Notes)
		}

		if len(result.Notes) == 0 {
			fmt.Fprintln(out, "No notes.")
			return nil
		}
		for _, n := range result.Notes {
			if n.Returned {
				fmt.Fprintf(out, "%-36s %-20s %2d books  returned %s  %s\n",
					n.ID, n.Borrower, n.BookCount, n.ReturnedDate.Format("2006-01-02"),
					application.FormatMoney(n.FinalCost, l.Config.Currency))
				continue
			}
			fmt.Fprintf(out, "%-36s %-20s %2d books  due %s\n",
				n.ID, n.Borrower, n.BookCount, n.DueDate.Format("2006-01-02"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportAsOf, "as-of", "", "date for the overdue report (YYYY-MM-DD)")
	reportCmd.Flags().StringVarP(&reportBorrower, "borrower", "b", "", "borrower for the history report")
}
