package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/devsync/internal/config"
	"github.com/alexisbeaulieu97/devsync/internal/project"
	"github.com/alexisbeaulieu97/devsync/internal/tui"
)

type initOptions struct {
	Dir     string
	Force   bool
	Verbose bool
	Out     io.Writer
}

var (
	initCmdRunner = runInit

	// wizardRunner is swapped in tests for canned answers.
	wizardRunner = tui.RunWizard
)

func newInitCmd(root *rootFlags) *cobra.Command {
	opts := initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create devsync.yaml through an interactive wizard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Dir = "."
			opts.Verbose = root.verbose
			opts.Out = cmd.OutOrStdout()

			return initCmdRunner(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite an existing manifest")

	return cmd
}

func runInit(opts initOptions) error {
	path := manifestPath(opts.Dir)
	if _, err := os.Stat(path); err == nil && !opts.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", config.DefaultManifestName)
	}

	if !isTerminal() {
		return fmt.Errorf("init needs a terminal for its wizard")
	}

	answers, err := wizardRunner()
	if err != nil {
		return err
	}
	if answers.Cancelled {
		fmt.Fprintln(opts.Out, "init cancelled, nothing written")
		return nil
	}

	manifest := manifestFromAnswers(answers)
	if err := config.Validate(manifest); err != nil {
		return err
	}
	if err := config.Save(path, manifest); err != nil {
		return err
	}

	fmt.Fprintf(opts.Out, "wrote %s for %s (node %s)\n", config.DefaultManifestName, manifest.Project.Name, manifest.Runtime.Node)
	return nil
}

func manifestFromAnswers(answers tui.WizardAnswers) *config.Manifest {
	node := answers.NodeVersion
	if node == "" {
		node = project.DefaultNodeFor(answers.AngularVersion)
	}

	pm := answers.PackageManager
	if pm == "" {
		pm = "npm"
	}

	return &config.Manifest{
		Project: config.Project{
			Name:           answers.ProjectName,
			Type:           config.ProjectTypeAngular,
			AngularVersion: answers.AngularVersion,
		},
		Runtime: config.Runtime{
			Node:           node,
			PackageManager: pm,
		},
		Dependencies: config.Dependencies{Global: answers.GlobalTools},
		Extensions:   config.Extensions{VSCode: answers.Extensions},
	}
}
