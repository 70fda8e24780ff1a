package cli

import (
	"fmt"

	"agesync/internal/tui"
	"agesync/internal/updater"

	"github.com/spf13/cobra"
)

func newShowCmd(opts *options) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current ages without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := newUpdater(opts)
			if err != nil {
				return err
			}
			plan, err := u.Plan(cmd.Context())
			if err != nil {
				return err
			}

			if category != "" {
				if plan.Collection.Category(category) == nil {
					return fmt.Errorf("unknown category %q", category)
				}
				var entries []updater.Entry
				for _, e := range plan.Entries {
					if e.Category == category {
						entries = append(entries, e)
					}
				}
				plan.Entries = entries
			}

			fmt.Fprintln(cmd.OutOrStdout(), tui.AgeTable(plan))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "only show records in this category")
	return cmd
}
