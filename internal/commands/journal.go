package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/journal"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

func newJournalCommand(opts *globalOptions) *cobra.Command {
	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Show, replace and export a fiscal year's journal",
	}
	journalCmd.AddCommand(
		newJournalShowCommand(opts),
		newJournalReplaceCommand(opts),
		newJournalExportCommand(opts),
	)
	return journalCmd
}

func newJournalShowCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <fy-id>",
		Short: "Print the journal entries of a fiscal year",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			listing, err := a.journal.List(ctx, a.owner, id)
			if err != nil {
				return err
			}
			return a.report(cmd, listing, func(w io.Writer) error {
				fmt.Fprintf(w, "%s (%s)\n", listing.FiscalYear.Name, listing.FiscalYear.Status)
				tw := newTable(w)
				fmt.Fprintln(tw, "ID\tDATE\tDEBITED\tCREDITED\tAMOUNT\tDESCRIPTION")
				for _, e := range listing.Entries {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
						e.ID, e.Date.Format(model.DateFormat), e.Debited, e.Credited, e.Amount.String(), e.Description)
				}
				fmt.Fprintf(tw, "\t\t\tTOTAL\t%s\t\n", listing.Total.String())
				return tw.Flush()
			})
		}),
	}
}

func newJournalReplaceCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "replace <fy-id> <file.csv|file.json|->",
		Short: "Replace the whole journal with the entries in a CSV or JSON file",
		Long: `Replace the fiscal year's journal with a new batch of entries.

The batch is validated in full before anything is written; the first invalid
entry aborts the replace and the journal stays as it was. Files ending in
.json hold an array of entry objects, anything else is read as CSV with the
header ` + journal.Header + `. Use - to read CSV from stdin.`,
		Args: cobra.ExactArgs(2),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			drafts, err := readDrafts(cmd, args[1])
			if err != nil {
				return err
			}
			outcome, err := a.journal.Replace(ctx, a.owner, id, drafts)
			if err != nil {
				return err
			}
			return a.reportOutcome(cmd, outcome, fmt.Sprintf("replaced journal with %d entries", len(drafts)))
		}),
	}
}

func readDrafts(cmd *cobra.Command, path string) ([]journal.Draft, error) {
	formats := journal.DefaultFormats()
	if path == "-" {
		return formats.ForPath(path).Decode(cmd.InOrStdin())
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening batch: %w", err)
	}
	defer f.Close()

	return formats.ForPath(path).Decode(f)
}

func newJournalExportCommand(opts *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <fy-id>",
		Short: "Write the journal as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			listing, err := a.journal.List(ctx, a.owner, id)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, func(w io.Writer) error {
				return journal.WriteEntries(w, listing.Entries)
			})
		}),
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")

	return cmd
}

// writeOutput sends write's output to path, or to stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
