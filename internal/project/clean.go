package project

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v5"

	"github.com/alexisbeaulieu97/devsync/internal/execx"
	"github.com/alexisbeaulieu97/devsync/internal/logger"
)

// ErrDirtyWorktree stops housekeeping while uncommitted changes exist.
var ErrDirtyWorktree = errors.New("worktree has uncommitted changes")

// Clean removes the project's node_modules directory and verifies the npm
// cache. When the project sits inside a git repository with uncommitted
// changes the whole operation is refused, so a stray `devsync clean` can
// never race a half-finished change.
func Clean(ctx context.Context, dir string, runner execx.Runner) error {
	log := logger.FromContext(ctx)

	if err := ensureCleanWorktree(dir); err != nil {
		return err
	}

	target := filepath.Join(dir, "node_modules")
	if _, err := os.Stat(target); err == nil {
		log.WithFields(map[string]any{"path": target}).Info("removing node_modules")
		if err := os.RemoveAll(target); err != nil {
			return fmt.Errorf("remove node_modules: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	log.Debug("verifying npm cache")
	if _, err := runner.Run(ctx, "npm", []string{"cache", "verify"}, execx.Options{Timeout: 2 * time.Minute, Dir: dir}); err != nil {
		// Cache verification is best effort; a broken npm cache is exactly
		// what a later sync repairs.
		log.Warn(fmt.Sprintf("npm cache verify failed: %v", err))
	}

	return nil
}

func ensureCleanWorktree(dir string) error {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil
		}
		return err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return err
	}

	status, err := worktree.Status()
	if err != nil {
		return err
	}

	if !status.IsClean() {
		return fmt.Errorf("%w: commit or stash before cleaning", ErrDirtyWorktree)
	}
	return nil
}
