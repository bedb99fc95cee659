package main

import (
	"context"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/alexisbeaulieu97/devsync/internal/config"
	"github.com/alexisbeaulieu97/devsync/internal/engine"
	"github.com/alexisbeaulieu97/devsync/internal/logger"
	"github.com/alexisbeaulieu97/devsync/internal/tui"
)

// isTerminal is swapped in tests to force non-interactive behaviour.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// appContext returns a background context carrying a logger configured for
// the requested verbosity.
func appContext(verbose bool) (context.Context, *logger.Logger, error) {
	level := "info"
	if verbose {
		level = "debug"
	}

	log, err := logger.New(logger.Options{Level: level, HumanReadable: true})
	if err != nil {
		return nil, nil, err
	}
	return logger.WithContext(context.Background(), log), log, nil
}

// manifestPath resolves the manifest location inside the working directory.
func manifestPath(dir string) string {
	return filepath.Join(dir, config.DefaultManifestName)
}

// autoPrompter answers yes to every question. It backs --yes and
// non-terminal runs, where blocking on input would hang the pipeline.
type autoPrompter struct{}

func (autoPrompter) Confirm(string) (bool, error) { return true, nil }

// selectPrompter picks the prompter for plan confirmations: the
// interactive bubbletea prompter when a human is attached, automatic
// consent when prompts were suppressed.
func selectPrompter(flags *rootFlags) engine.Prompter {
	if flags.yes || !isTerminal() {
		return autoPrompter{}
	}
	return tui.NewConfirmPrompter()
}

// offerPrompter picks the interactive capability handed to the executor.
// Suppressed prompts (--yes, no terminal) yield nil: executor offers such
// as installing nvm are opt-in side installs, and silence declines them —
// the step then fails with its directive message instead of consenting to
// a network install nobody approved.
func offerPrompter(flags *rootFlags) engine.Prompter {
	if flags.yes || !isTerminal() {
		return nil
	}
	return tui.NewConfirmPrompter()
}
