package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

// report prints v as JSON under --json and calls text otherwise.
func (a *app) report(cmd *cobra.Command, v any, text func(w io.Writer) error) error {
	if a.opts.json {
		return writeJSON(cmd.OutOrStdout(), v)
	}
	return text(cmd.OutOrStdout())
}

// reportOutcome prints the result of a mutation. Skipped writes get the
// closed-state notice; applied and unchanged ones get msg.
func (a *app) reportOutcome(cmd *cobra.Command, outcome model.Outcome, msg string) error {
	return a.report(cmd, map[string]model.Outcome{"outcome": outcome}, func(w io.Writer) error {
		switch outcome {
		case model.OutcomeSkipped:
			msg = skippedMessage
		case model.OutcomeUnchanged:
			msg = "no changes"
		}
		_, err := fmt.Fprintln(w, msg)
		return err
	})
}

func classificationLabel(c *model.Classification) string {
	if c == nil {
		return "-"
	}
	return fmt.Sprintf("%s/%s/%s", c.Type, c.Subtype, c.Operation)
}

func sideLabel(s model.BalanceSide) string {
	if s == model.SideNone {
		return "-"
	}
	return string(s)
}
