package cli

import (
	"context"
	"errors"
	"time"

	"agesync/internal/config"
	"agesync/internal/logs"
	"agesync/internal/updater"

	"github.com/spf13/cobra"
)

// errReported marks an error that has already been logged or printed
var errReported = errors.New("reported")

type options struct {
	flags       config.CLIFlags
	dryRun      bool
	interactive bool
	strict      bool
	verbose     bool

	now     func() time.Time
	confirm func(*updater.Plan) (bool, error)
}

// NewRootCmd builds the agesync command tree
func NewRootCmd() *cobra.Command {
	opts := &options{now: time.Now, confirm: confirmPlan}
	return newRootCmd(opts)
}

func newRootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "agesync",
		Short: "Recompute ages from birth dates and patch them into a markdown document",
		Long: `agesync reads a record file of names and birth dates, recomputes every
age, writes the ages back into the record file and rewrites the matching
"- <Name> (Age: ...)" lines and the "> Updates Ages :" timestamp block of a
markdown document.

Run without arguments to update ages.json and README.md in the current
directory.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logDir := opts.flags.LogDir
			if logDir == "" {
				if cfg, err := config.Load(opts.flags); err == nil {
					logDir = cfg.LogDir
				}
			}
			return logs.Initialize(logDir, opts.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.flags.DataFile, "data", "", "record file (default ages.json)")
	pf.StringVar(&opts.flags.DocFile, "doc", "", "document to patch (default README.md)")
	pf.StringVar(&opts.flags.TimeZone, "tz", "", "time zone for dates and the timestamp (default Asia/Makassar)")
	pf.StringVar(&opts.flags.Label, "label", "", "label appended to the timestamp")
	pf.StringVar(&opts.flags.LogDir, "log-dir", "", "also write JSON logs to this directory")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logs")

	f := root.Flags()
	f.BoolVar(&opts.dryRun, "dry-run", false, "print the changes without writing files")
	f.BoolVarP(&opts.interactive, "interactive", "i", false, "preview the changes and confirm before writing")
	f.BoolVar(&opts.strict, "strict", false, "exit with status 1 when the update fails")

	root.AddCommand(newShowCmd(opts), newCheckCmd(opts))
	return root
}

// Execute runs the command line and returns the process exit code
func Execute(ctx context.Context, args []string) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return execute(ctx, cmd)
}

func execute(ctx context.Context, cmd *cobra.Command) int {
	defer logs.Close()

	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			logs.Logger.Error(err)
		}
		return 1
	}
	return 0
}

func newUpdater(opts *options) (*updater.Updater, error) {
	cfg, err := config.Load(opts.flags)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &updater.Updater{
		DataPath: cfg.DataFile,
		DocPath:  cfg.DocFile,
		Location: loc,
		Label:    cfg.Label,
		Now:      opts.now,
	}, nil
}
