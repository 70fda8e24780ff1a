package cli

import (
	"fmt"
	"strings"

	"agesync/internal/tui/theme"

	"github.com/spf13/cobra"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify every record parses and has an age line in the document",
		Long: `check validates the record file and the document without writing.
It fails when a record is missing a name or birth date, a birth date
cannot be parsed, or a record has no "- <Name> (Age: ...)" line.
Document lines without a record are reported but do not fail the check.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			u, err := newUpdater(opts)
			if err != nil {
				return err
			}
			plan, err := u.Plan(cmd.Context())
			if err != nil {
				fmt.Fprintln(out, theme.Error.Render("✗ "+err.Error()))
				return errReported
			}

			fmt.Fprintln(out, theme.Ok.Render(fmt.Sprintf("✓ %d records parsed", len(plan.Entries))))
			if plan.Document.TimestampUpdated {
				fmt.Fprintln(out, theme.Ok.Render("✓ timestamp block found"))
			} else {
				fmt.Fprintln(out, theme.Warn.Render("! no \"> Updates Ages :\" block"))
			}
			for _, name := range plan.Orphans {
				fmt.Fprintln(out, theme.Muted.Render(fmt.Sprintf("! %s is listed in the document but has no record", name)))
			}
			for _, m := range plan.Missing {
				line := fmt.Sprintf("✗ %s has no age line", m.Name)
				if len(m.Suggestions) > 0 {
					line += fmt.Sprintf(" (did you mean %s?)", strings.Join(m.Suggestions, ", "))
				}
				fmt.Fprintln(out, theme.Error.Render(line))
			}
			if len(plan.Missing) > 0 {
				return errReported
			}
			return nil
		},
	}
}
