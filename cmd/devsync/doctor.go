package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/devsync/internal/config"
	"github.com/alexisbeaulieu97/devsync/internal/health"
	"github.com/alexisbeaulieu97/devsync/internal/probe"
	"github.com/alexisbeaulieu97/devsync/internal/tui"
)

type doctorOptions struct {
	Dir     string
	Verbose bool
	Out     io.Writer
}

var doctorCmdRunner = runDoctor

func newDoctorCmd(root *rootFlags) *cobra.Command {
	opts := doctorOptions{}

	cmd := &cobra.Command{
		Use:     "doctor",
		Aliases: []string{"try", "check"},
		Short:   "Score the environment's health from 0 to 100",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Dir = "."
			opts.Verbose = root.verbose
			opts.Out = cmd.OutOrStdout()

			return doctorCmdRunner(opts)
		},
	}

	return cmd
}

func runDoctor(opts doctorOptions) error {
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

	report := health.Score(manifest, snap)
	fmt.Fprintln(opts.Out, tui.RenderHealth(manifest.Project.Name, report))

	if !report.Healthy() {
		return fmt.Errorf("environment needs attention (%d/100), run 'devsync sync'", report.Score)
	}
	return nil
}
