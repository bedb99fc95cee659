package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/devsync/internal/config"
	"github.com/alexisbeaulieu97/devsync/internal/diff"
	"github.com/alexisbeaulieu97/devsync/internal/probe"
	"github.com/alexisbeaulieu97/devsync/internal/tui"
)

type diffOptions struct {
	Dir     string
	Verbose bool
	Out     io.Writer
}

var diffCmdRunner = runDiff

func newDiffCmd(root *rootFlags) *cobra.Command {
	opts := diffOptions{}

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show discrepancies without changing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Dir = "."
			opts.Verbose = root.verbose
			opts.Out = cmd.OutOrStdout()

			return diffCmdRunner(opts)
		},
	}

	return cmd
}

func runDiff(opts diffOptions) error {
	ctx, _, err := appContext(opts.Verbose)
	if err != nil {
		return err
	}

	manifest, err := config.Load(manifestPath(opts.Dir))
	if err != nil {
		return err
	}

	snap, err := probe.New(newRunner(), opts.Dir).Collect(ctx, manifest)
	if err != nil {
		return err
	}

	// Render only: diff never mutates and never fails the process over
	// what it finds; acting on discrepancies is sync's job.
	records := diff.Diff(manifest, snap)
	fmt.Fprintln(opts.Out, tui.RenderDiff(manifest.Project.Name, records))
	return nil
}
