package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/devsync/internal/project"
)

type cleanOptions struct {
	Dir     string
	Verbose bool
	Out     io.Writer
}

var cleanCmdRunner = runClean

func newCleanCmd(root *rootFlags) *cobra.Command {
	opts := cleanOptions{}

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove node_modules and verify the npm cache",
		Long: `Clean removes the project's node_modules directory and asks npm to verify
its cache. It refuses to run while the git worktree has uncommitted changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Dir = "."
			opts.Verbose = root.verbose
			opts.Out = cmd.OutOrStdout()

			return cleanCmdRunner(opts)
		},
	}

	return cmd
}

func runClean(opts cleanOptions) error {
	ctx, _, err := appContext(opts.Verbose)
	if err != nil {
		return err
	}

	if err := project.Clean(ctx, opts.Dir, newRunner()); err != nil {
		return err
	}

	fmt.Fprintln(opts.Out, "workspace cleaned")
	return nil
}
