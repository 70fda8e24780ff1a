package cli

import (
	"fmt"

	"agesync/internal/logs"
	"agesync/internal/tui"
	"agesync/internal/updater"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

func runUpdate(cmd *cobra.Command, opts *options) error {
	logs.Logger.Info("starting age update")
	defer logs.Logger.Info("finished age update")

	u, err := newUpdater(opts)
	if err != nil {
		return fail(opts, fmt.Errorf("load config: %w", err))
	}

	plan, err := u.Plan(cmd.Context())
	if err != nil {
		return fail(opts, err)
	}

	if opts.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), tui.Summary(plan))
		return nil
	}

	if opts.interactive {
		ok, err := opts.confirm(plan)
		if err != nil {
			return fail(opts, fmt.Errorf("preview: %w", err))
		}
		if !ok {
			logs.Logger.Info("update cancelled, nothing written")
			return nil
		}
	}

	if err := u.Apply(cmd.Context(), plan); err != nil {
		return fail(opts, err)
	}
	logs.Logger.Infow("updated ages", "records", len(plan.Entries), "changes", len(plan.Document.Changes))
	return nil
}

// fail logs err with the stage it came from. Failures only change the exit
// status with --strict, so scheduled runs keep succeeding.
func fail(opts *options, err error) error {
	for _, e := range multierr.Errors(err) {
		stages := updater.Stages(e)
		if len(stages) > 0 {
			logs.Logger.Errorw("age update failed", "stage", string(stages[0]), "error", e)
		} else {
			logs.Logger.Errorw("age update failed", "error", e)
		}
	}
	if opts.strict {
		return fmt.Errorf("%w: %v", errReported, err)
	}
	return nil
}

func confirmPlan(plan *updater.Plan) (bool, error) {
	return tui.Confirm(plan)
}
