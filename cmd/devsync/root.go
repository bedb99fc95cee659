package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose bool
	yes     bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "devsync",
		Short:         "devsync reconciles a Node/Angular workstation against devsync.yaml",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().BoolVarP(&flags.yes, "yes", "y", false, "Assume yes for every prompt")

	cmd.AddCommand(newInitCmd(flags))
	cmd.AddCommand(newSyncCmd(flags))
	cmd.AddCommand(newDiffCmd(flags))
	cmd.AddCommand(newDoctorCmd(flags))
	cmd.AddCommand(newUpdateCmd(flags))
	cmd.AddCommand(newCleanCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
