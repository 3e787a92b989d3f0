package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

func newLedgerCommand(opts *globalOptions) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Account balances, T-accounts and account maintenance",
	}

	ledgerCmd.AddCommand(
		&cobra.Command{
			Use:   "accounts <fy-id>",
			Short: "List every account with its balance and classification",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				summaries, err := a.ledger.Accounts(ctx, a.owner, id)
				if err != nil {
					return err
				}
				return a.report(cmd, summaries, func(w io.Writer) error {
					tw := newTable(w)
					fmt.Fprintln(tw, "ACCOUNT\tDEBIT\tCREDIT\tBALANCE\tSIDE\tCLASSIFICATION")
					for _, s := range summaries {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
							s.Account,
							s.Balance.Debit.String(),
							s.Balance.Credit.String(),
							s.Balance.Net.Abs().String(),
							sideLabel(s.Balance.Side()),
							classificationLabel(s.Classification))
					}
					return tw.Flush()
				})
			}),
		},
		&cobra.Command{
			Use:   "show <fy-id> <account>",
			Short: "Print the T-account of one account",
			Args:  cobra.ExactArgs(2),
			RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				al, err := a.ledger.Account(ctx, a.owner, id, args[1])
				if err != nil {
					return err
				}
				return a.report(cmd, al, func(w io.Writer) error {
					return printAccountLedger(w, al)
				})
			}),
		},
		&cobra.Command{
			Use:   "rename <fy-id> <old> <new>",
			Short: "Rename an account, merging it if the new name is already used",
			Args:  cobra.ExactArgs(3),
			RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				res, err := a.ledger.Rename(ctx, a.owner, id, args[1], args[2])
				if err != nil {
					return err
				}
				if a.opts.json {
					return writeJSON(cmd.OutOrStdout(), res)
				}
				msg := fmt.Sprintf("renamed %q to %q", args[1], args[2])
				if res.Act == ledger.ActRemove {
					msg = fmt.Sprintf("merged %q into %q", args[1], args[2])
				}
				return a.reportOutcome(cmd, res.Outcome, msg)
			}),
		},
		&cobra.Command{
			Use:   "delete <fy-id> <account>",
			Short: "Delete every journal entry that uses an account",
			Args:  cobra.ExactArgs(2),
			RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				outcome, err := a.ledger.Delete(ctx, a.owner, id, args[1])
				if err != nil {
					return err
				}
				return a.reportOutcome(cmd, outcome, fmt.Sprintf("deleted account %q", args[1]))
			}),
		},
	)

	return ledgerCmd
}

func printAccountLedger(w io.Writer, al ledger.AccountLedger) error {
	fmt.Fprintf(w, "%s\n", al.Account)
	tw := newTable(w)
	fmt.Fprintln(tw, "DR\tDATE\tACCOUNT\tAMOUNT\t|\tCR\tDATE\tACCOUNT\tAMOUNT")
	rows := max(len(al.DebitSide), len(al.CreditSide))
	for i := 0; i < rows; i++ {
		fmt.Fprintf(tw, "%s\t|\t%s\n", postingCells(al.DebitSide, i), postingCells(al.CreditSide, i))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	side := "balanced"
	if al.Side != model.SideNone {
		side = string(al.Side)
	}
	_, err := fmt.Fprintf(w, "balance %s (%s), total %s\n", al.Balance.String(), side, al.Total.String())
	return err
}

func postingCells(postings []ledger.Posting, i int) string {
	if i >= len(postings) {
		return "\t\t\t"
	}
	p := postings[i]
	return fmt.Sprintf("%d\t%s\t%s\t%s", p.EntryID, p.Date.Format(model.DateFormat), p.Account, p.Amount.String())
}
