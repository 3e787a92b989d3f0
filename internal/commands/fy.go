package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newFiscalYearCommand(opts *globalOptions) *cobra.Command {
	fyCmd := &cobra.Command{
		Use:     "fy",
		Aliases: []string{"fiscal-year"},
		Short:   "Manage fiscal years",
	}

	fyCmd.AddCommand(
		&cobra.Command{
			Use:   "create <name>",
			Short: "Open a new fiscal year",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
				fy, err := a.fiscal.Create(ctx, a.owner, args[0])
				if err != nil {
					return err
				}
				return a.report(cmd, fy, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "created fiscal year %d %q\n", fy.ID, fy.Name)
					return err
				})
			}),
		},
		&cobra.Command{
			Use:   "list",
			Short: "List fiscal years",
			Args:  cobra.NoArgs,
			RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
				years, err := a.fiscal.List(ctx, a.owner)
				if err != nil {
					return err
				}
				return a.report(cmd, years, func(w io.Writer) error {
					tw := newTable(w)
					fmt.Fprintln(tw, "ID\tNAME\tSTATUS")
					for _, fy := range years {
						fmt.Fprintf(tw, "%d\t%s\t%s\n", fy.ID, fy.Name, fy.Status)
					}
					return tw.Flush()
				})
			}),
		},
		&cobra.Command{
			Use:   "rename <id> <name>",
			Short: "Rename a fiscal year",
			Args:  cobra.ExactArgs(2),
			RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				fy, err := a.fiscal.Rename(ctx, a.owner, id, args[1])
				if err != nil {
					return err
				}
				return a.report(cmd, fy, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "renamed fiscal year %d to %q\n", fy.ID, fy.Name)
					return err
				})
			}),
		},
		&cobra.Command{
			Use:   "toggle <id>",
			Short: "Close an open fiscal year or reopen a closed one",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				status, err := a.fiscal.Toggle(ctx, a.owner, id)
				if err != nil {
					return err
				}
				result := map[string]any{"id": id, "status": status}
				return a.report(cmd, result, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "fiscal year %d is now %s\n", id, status)
					return err
				})
			}),
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a fiscal year with its journal and classifications",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := a.fiscal.Delete(ctx, a.owner, id); err != nil {
					return err
				}
				return a.report(cmd, map[string]int64{"deleted": id}, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "deleted fiscal year %d\n", id)
					return err
				})
			}),
		},
	)

	return fyCmd
}
