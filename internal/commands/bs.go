package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/balancesheet"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

func newBalanceSheetCommand(opts *globalOptions) *cobra.Command {
	bsCmd := &cobra.Command{
		Use:     "bs",
		Aliases: []string{"balance-sheet"},
		Short:   "Classify accounts and build the balance sheet",
	}
	bsCmd.AddCommand(
		newClassifyCommand(opts),
		newBalanceSheetShowCommand(opts),
		newBalanceSheetExportCommand(opts),
	)
	return bsCmd
}

func newClassifyCommand(opts *globalOptions) *cobra.Command {
	var req accounts.Request

	cmd := &cobra.Command{
		Use:   "classify <fy-id> <account>",
		Short: "Place an account on the balance sheet (type nota removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			req.Account = args[1]
			res, err := a.accounts.Classify(ctx, a.owner, id, req)
			if err != nil {
				return err
			}
			if a.opts.json {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			msg := fmt.Sprintf("removed classification of %q", req.Account)
			if res.Classification != nil {
				msg = fmt.Sprintf("classified %q as %s", req.Account, classificationLabel(res.Classification))
			}
			return a.reportOutcome(cmd, res.Outcome, msg)
		}),
	}

	cmd.Flags().StringVar(&req.Type, "type", "", "asset, liability or nota (required)")
	cmd.Flags().StringVar(&req.Subtype, "subtype", "", "current, noncurrent or equity (liabilities only)")
	cmd.Flags().StringVar(&req.Operation, "operation", "add", "add or less")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func newBalanceSheetShowCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <fy-id>",
		Short: "Build and print the balance sheet",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			sheet, err := a.sheets.Build(ctx, a.owner, id)
			if err != nil {
				return err
			}
			return a.report(cmd, sheet, func(w io.Writer) error {
				return printSheet(w, sheet)
			})
		}),
	}
}

func newBalanceSheetExportCommand(opts *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <fy-id>",
		Short: "Write the account classifications as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			classes, err := a.accounts.List(ctx, a.owner, id)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, func(w io.Writer) error {
				return accounts.WriteClassifications(w, classes)
			})
		}),
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")

	return cmd
}

func printSheet(w io.Writer, sheet balancesheet.Sheet) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "BALANCE SHEET\t%s\n", sheet.FiscalYear.Name)

	a := sheet.Assets
	fmt.Fprintln(tw, "ASSETS\t")
	printSection(tw, "Current", a.Current, a.CurrentTotal)
	printSection(tw, "Noncurrent", a.Noncurrent, a.NoncurrentTotal)
	fmt.Fprintf(tw, "Total assets\t%s\n", a.Total.String())

	l := sheet.Liabilities
	fmt.Fprintln(tw, "LIABILITIES\t")
	printSection(tw, "Current", l.Current, l.CurrentTotal)
	printSection(tw, "Noncurrent", l.Noncurrent, l.NoncurrentTotal)
	printSection(tw, "Equity", l.Equity, l.EquityTotal)
	fmt.Fprintf(tw, "Total liabilities\t%s\n", l.Total.String())

	if !sheet.Balanced() {
		fmt.Fprintf(tw, "Difference\t%s\n", a.Total.Sub(l.Total).String())
	}
	return tw.Flush()
}

func printSection(w io.Writer, title string, items []balancesheet.Item, total decimal.Decimal) {
	fmt.Fprintf(w, "  %s\t\n", title)
	for _, it := range items {
		amount := it.Amount.String()
		if it.Operation == model.OperationLess {
			amount = "(" + amount + ")"
		}
		fmt.Fprintf(w, "    %s\t%s\n", it.Account, amount)
	}
	fmt.Fprintf(w, "  %s total\t%s\n", title, total.String())
}
