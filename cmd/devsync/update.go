package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/devsync/internal/config"
	"github.com/alexisbeaulieu97/devsync/internal/engine"
	"github.com/alexisbeaulieu97/devsync/internal/probe"
	"github.com/alexisbeaulieu97/devsync/internal/tui"
	"github.com/alexisbeaulieu97/devsync/pkg/diff"
)

type updateOptions struct {
	Dir           string
	Verbose       bool
	Prompter      engine.Prompter
	OfferPrompter engine.Prompter
	Out           io.Writer
}

var updateCmdRunner = runUpdate

func newUpdateCmd(root *rootFlags) *cobra.Command {
	opts := updateOptions{}

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Rewrite the manifest from the machine's observed state",
		Long: `Update re-probes the machine and proposes a manifest rewrite recording
what is actually installed. Declared tools that are missing stay declared;
update records observed versions, it never drops intent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Dir = "."
			opts.Verbose = root.verbose
			opts.Prompter = selectPrompter(root)
			opts.OfferPrompter = offerPrompter(root)
			opts.Out = cmd.OutOrStdout()

			return updateCmdRunner(opts)
		},
	}

	return cmd
}

func runUpdate(opts updateOptions) error {
	ctx, _, err := appContext(opts.Verbose)
	if err != nil {
		return err
	}

	path := manifestPath(opts.Dir)
	manifest, err := config.Load(path)
	if err != nil {
		return err
	}

	snap, err := probe.New(newRunner(), opts.Dir).Collect(ctx, manifest)
	if err != nil {
		return err
	}

	proposed := rewriteFromSnapshot(manifest, snap)

	current, err := config.Encode(manifest)
	if err != nil {
		return err
	}
	next, err := config.Encode(proposed)
	if err != nil {
		return err
	}

	preview := diff.Unified(current, next, config.DefaultManifestName, "observed")
	fmt.Fprintln(opts.Out, tui.RenderDelta(preview))
	if preview == "" {
		return nil
	}

	ok, err := opts.Prompter.Confirm("Rewrite " + config.DefaultManifestName + " with the observed state?")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(opts.Out, "update cancelled, manifest unchanged")
		return nil
	}

	if err := config.Save(path, proposed); err != nil {
		return err
	}
	fmt.Fprintln(opts.Out, "manifest updated")

	ok, err = opts.Prompter.Confirm("Run sync against the updated manifest now?")
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return syncCmdRunner(syncOptions{
		Dir:           opts.Dir,
		Verbose:       opts.Verbose,
		Prompter:      opts.Prompter,
		OfferPrompter: opts.OfferPrompter,
		Out:           opts.Out,
	})
}

// rewriteFromSnapshot copies the manifest with observed versions folded in.
// Absent components keep their declared values so a later sync can still
// install them.
func rewriteFromSnapshot(manifest *config.Manifest, snap *probe.Snapshot) *config.Manifest {
	proposed := *manifest

	if snap.NodeVersion != "" {
		proposed.Runtime.Node = snap.NodeVersion
	}

	if snap.PackageManagerVersion != "" {
		name := manifest.Runtime.PackageManagerSpec().Name
		proposed.Runtime.PackageManager = name + "@" + snap.PackageManagerVersion
	}

	var tools []string
	for _, spec := range manifest.GlobalToolSpecs() {
		obs := snap.Tool(spec.Name)
		if obs.Present && obs.Version != "" {
			tools = append(tools, spec.Name+"@"+obs.Version)
		} else {
			tools = append(tools, spec.String())
		}
	}
	proposed.Dependencies = config.Dependencies{Global: tools}

	return &proposed
}
