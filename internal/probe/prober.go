// Package probe runs the read-only machine queries the pipeline is built
// on. Every probe treats absence as a normal observed value, never as an
// error; a probe that cannot distinguish transient failure from absence
// reports absence (a documented ambiguity, not silently corrected).
package probe

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexisbeaulieu97/devsync/internal/config"
	"github.com/alexisbeaulieu97/devsync/internal/execx"
	"github.com/alexisbeaulieu97/devsync/internal/logger"
	"github.com/alexisbeaulieu97/devsync/internal/project"
)

// presenceTimeout bounds the short read-only checks. Installs elsewhere
// run long or unbounded; mere presence never should.
const presenceTimeout = 10 * time.Second

// Prober collects machine state through the injected runner.
type Prober struct {
	runner execx.Runner
	dir    string
}

// New creates a Prober rooted at the project directory.
func New(runner execx.Runner, dir string) *Prober {
	return &Prober{runner: runner, dir: dir}
}

// Collect gathers every observation the manifest calls for. Probes run
// sequentially; the differ re-emits results in its own fixed order, so a
// future parallel collector would not change any output.
func (p *Prober) Collect(ctx context.Context, manifest *config.Manifest) (*Snapshot, error) {
	log := logger.FromContext(ctx)

	snap := &Snapshot{
		Tools:      make(map[string]ToolObservation),
		Extensions: make(map[string]bool),
	}

	snap.NodeVersion = p.nodeVersion(ctx)
	snap.VersionManager = p.versionManager()

	pin, err := project.ReadPinFile(p.dir)
	if err != nil {
		return nil, err
	}
	snap.PinVersion = pin

	pm := manifest.Runtime.PackageManagerSpec()
	snap.PackageManagerVersion = p.commandVersion(ctx, pm.Name)

	for _, spec := range manifest.GlobalToolSpecs() {
		snap.Tools[spec.Name] = p.globalTool(ctx, spec.Name)
	}

	if len(manifest.Extensions.VSCode) > 0 {
		snap.ExtensionHost = p.hasExtensionHost()
		installed := p.installedExtensions(ctx)
		for _, id := range manifest.Extensions.VSCode {
			snap.Extensions[id] = installed[strings.ToLower(id)]
		}
	}

	snap.PackageJSON = p.fileExists("package.json")
	snap.AngularJSON = p.fileExists("angular.json")
	snap.NodeModules = p.fileExists("node_modules")

	log.WithFields(map[string]any{
		"node":            snap.NodeVersion,
		"version_manager": snap.VersionManager,
		"package_manager": snap.PackageManagerVersion,
	}).Debug("probe snapshot collected")

	return snap, nil
}

func (p *Prober) nodeVersion(ctx context.Context) string {
	res, err := p.runner.Run(ctx, "node", []string{"--version"}, execx.Options{Timeout: presenceTimeout})
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.TrimSpace(res.Stdout), "v")
}

// versionManager detects nvm. nvm is a shell function rather than a
// binary, so the canonical signal is $NVM_DIR/nvm.sh; a PATH entry (some
// wrappers install one) also counts.
func (p *Prober) versionManager() bool {
	if dir := os.Getenv("NVM_DIR"); dir != "" {
		if _, err := os.Stat(filepath.Join(dir, "nvm.sh")); err == nil {
			return true
		}
	}
	if _, err := p.runner.LookPath("nvm"); err == nil {
		return true
	}
	return false
}

func (p *Prober) commandVersion(ctx context.Context, name string) string {
	res, err := p.runner.Run(ctx, name, []string{"--version"}, execx.Options{Timeout: presenceTimeout})
	if err != nil {
		return ""
	}
	return strings.TrimSpace(res.Stdout)
}

// globalTool asks npm whether the tool is linked into the global prefix.
// A non-zero exit means not installed; the version is scraped from the
// tree line npm prints for the package.
func (p *Prober) globalTool(ctx context.Context, base string) ToolObservation {
	res, err := p.runner.Run(ctx, "npm", []string{"ls", "-g", "--depth=0", base}, execx.Options{Timeout: presenceTimeout})
	if err != nil {
		return ToolObservation{}
	}
	return ToolObservation{Present: true, Version: scrapeVersion(res.Stdout, base)}
}

func scrapeVersion(output, base string) string {
	marker := base + "@"
	for _, line := range strings.Split(output, "\n") {
		idx := strings.Index(line, marker)
		if idx < 0 {
			continue
		}
		version := line[idx+len(marker):]
		if end := strings.IndexAny(version, " \t"); end >= 0 {
			version = version[:end]
		}
		if version != "" {
			return version
		}
	}
	return ""
}

func (p *Prober) hasExtensionHost() bool {
	_, err := p.runner.LookPath("code")
	return err == nil
}

// installedExtensions lists the host's extensions once per run; ids are
// compared case-insensitively because the marketplace treats them so.
func (p *Prober) installedExtensions(ctx context.Context) map[string]bool {
	installed := make(map[string]bool)

	res, err := p.runner.Run(ctx, "code", []string{"--list-extensions"}, execx.Options{Timeout: presenceTimeout})
	if err != nil {
		return installed
	}

	for _, line := range strings.Split(res.Stdout, "\n") {
		id := strings.ToLower(strings.TrimSpace(line))
		if id != "" {
			installed[id] = true
		}
	}
	return installed
}

func (p *Prober) fileExists(name string) bool {
	_, err := os.Stat(filepath.Join(p.dir, name))
	return err == nil
}
