package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/devsync/internal/config"
	"github.com/alexisbeaulieu97/devsync/internal/diff"
	"github.com/alexisbeaulieu97/devsync/internal/engine"
	"github.com/alexisbeaulieu97/devsync/internal/execx"
	"github.com/alexisbeaulieu97/devsync/internal/model"
	"github.com/alexisbeaulieu97/devsync/internal/probe"
	"github.com/alexisbeaulieu97/devsync/internal/tui"
)

type syncOptions struct {
	Dir     string
	Verbose bool
	// Prompter answers plan confirmations; OfferPrompter is handed to the
	// executor for its offers and stays nil when prompts are suppressed.
	Prompter      engine.Prompter
	OfferPrompter engine.Prompter
	Out           io.Writer
}

var (
	syncCmdRunner = runSync

	// newRunner is swapped in command tests for a scripted fake.
	newRunner = func() execx.Runner { return execx.NewSystem() }
)

func newSyncCmd(root *rootFlags) *cobra.Command {
	opts := syncOptions{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the machine against the manifest",
		Long: `Sync probes the machine, diffs it against devsync.yaml, and applies the
remediation plan. Failed steps are collected, not fatal; the run continues
so one broken tool cannot block the rest of the environment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Dir = "."
			opts.Verbose = root.verbose
			opts.Prompter = selectPrompter(root)
			opts.OfferPrompter = offerPrompter(root)
			opts.Out = cmd.OutOrStdout()

			return syncCmdRunner(opts)
		},
	}

	return cmd
}

func runSync(opts syncOptions) error {
	ctx, log, err := appContext(opts.Verbose)
	if err != nil {
		return err
	}

	manifest, err := config.Load(manifestPath(opts.Dir))
	if err != nil {
		return err
	}

	runner := newRunner()
	snap, err := probe.New(runner, opts.Dir).Collect(ctx, manifest)
	if err != nil {
		return err
	}

	records := diff.Diff(manifest, snap)
	fmt.Fprintln(opts.Out, tui.RenderDiff(manifest.Project.Name, records))

	plan := engine.BuildPlan(manifest, records)
	if !plan.Empty() {
		ok, err := opts.Prompter.Confirm(fmt.Sprintf("Apply %d steps?", len(plan.Steps)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(opts.Out, "sync cancelled, nothing changed")
			return nil
		}
	}

	result := engine.NewExecutor(runner, opts.OfferPrompter, opts.Dir).Execute(ctx, manifest, snap, plan)
	fmt.Fprintln(opts.Out, tui.RenderRun(result, log.Verbose()))

	if result.Status == model.StatusFailed {
		return fmt.Errorf("sync finished with failed steps")
	}
	return nil
}
