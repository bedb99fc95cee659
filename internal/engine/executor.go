package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexisbeaulieu97/devsync/internal/config"
	"github.com/alexisbeaulieu97/devsync/internal/execx"
	"github.com/alexisbeaulieu97/devsync/internal/logger"
	"github.com/alexisbeaulieu97/devsync/internal/model"
	"github.com/alexisbeaulieu97/devsync/internal/probe"
	"github.com/alexisbeaulieu97/devsync/internal/project"
	devsyncerrors "github.com/alexisbeaulieu97/devsync/pkg/errors"
)

// installTimeout bounds package and extension installs. nvm installs run
// unbounded: compiling Node from source on old machines can exceed any
// sensible limit.
const (
	installTimeout = 10 * time.Minute
	scriptTimeout  = 10 * time.Minute
	checkTimeout   = 30 * time.Second
)

// nonFatalMaintenance lists command prefixes whose failing exit downgrades
// to warned. These are housekeeping commands a sync should survive.
var nonFatalMaintenance = []string{
	"npm cache",
	"npm audit",
	"npm prune",
}

// Prompter is the interactive capability the executor may consult. A nil
// prompter (non-interactive run) declines every offer.
type Prompter interface {
	Confirm(question string) (bool, error)
}

// Executor runs remediation plans sequentially. Every external command
// goes through the injected runner; internal faults convert to a failed
// step outcome at the step boundary and never abort the run.
type Executor struct {
	runner   execx.Runner
	prompter Prompter
	dir      string
}

// NewExecutor creates an executor rooted at the project directory.
func NewExecutor(runner execx.Runner, prompter Prompter, dir string) *Executor {
	return &Executor{runner: runner, prompter: prompter, dir: dir}
}

// Execute runs every step in plan order and returns the aggregated result.
// A failed step never blocks the remaining steps; outcomes are collected
// and folded into the overall status at the end. The one early exit is the
// accepted nvm-install offer, which requires a shell restart before any
// further work can succeed.
func (e *Executor) Execute(ctx context.Context, manifest *config.Manifest, snap *probe.Snapshot, plan *Plan) *model.RunResult {
	log := logger.FromContext(ctx)

	var results []model.StepResult
	endedEarly := false

	for _, step := range plan.Steps {
		if endedEarly {
			results = append(results, model.StepResult{
				StepID:  step.ID,
				Kind:    step.Kind,
				Status:  model.StatusSkipped,
				Message: "run ended early; re-run after restarting your shell",
			})
			continue
		}

		log.WithFields(map[string]any{"step": step.ID, "status": model.StatusRunning}).Debug("executing step")
		start := time.Now()

		var res model.StepResult
		switch step.Kind {
		case model.ActionRuntime:
			res, endedEarly = e.runRuntime(ctx, step, snap)
		case model.ActionPackageManager:
			res = e.runInstall(ctx, step, "package manager")
		case model.ActionTool:
			res = e.runInstall(ctx, step, "tool")
		case model.ActionExtension:
			res = e.runExtension(ctx, step, snap)
		case model.ActionPreScript, model.ActionPostScript:
			res = e.runScript(ctx, step)
		default:
			res = model.StepResult{
				StepID:  step.ID,
				Status:  model.StatusFailed,
				Message: fmt.Sprintf("unknown action kind %q", step.Kind),
			}
		}

		res.StepID = step.ID
		res.Kind = step.Kind
		res.Duration = time.Since(start)

		// Faults convert to a step error at the step boundary; the raw
		// cause stays reachable through Unwrap.
		if res.Error != nil {
			res.Error = devsyncerrors.NewStepError(step.ID, res.Error)
		}

		if res.Status == model.StatusFailed {
			log.WithFields(map[string]any{"step": step.ID}).Error(res.Error, res.Message)
		} else {
			log.WithFields(map[string]any{"step": step.ID, "status": res.Status}).Debug(res.Message)
		}

		results = append(results, res)
	}

	return &model.RunResult{
		Steps:  results,
		Status: model.AggregateStatus(results, hasRecommended(plan.Unaddressed)),
	}
}

// runRuntime converges the Node version through nvm. nvm is a shell
// function, so every subcommand runs as `bash -lc "nvm …"`. The second
// return value reports that the run must end early (accepted offer to
// install nvm itself).
func (e *Executor) runRuntime(ctx context.Context, step model.Step, snap *probe.Snapshot) (model.StepResult, bool) {
	desired := step.Target

	if !snap.VersionManager {
		if e.prompter != nil {
			accepted, err := e.prompter.Confirm("nvm is not installed. Install it now?")
			if err == nil && accepted {
				if res := e.installVersionManager(ctx); res != nil {
					return *res, false
				}
				return model.StepResult{
					Status:  model.StatusWarned,
					Message: "nvm installed; restart your shell and re-run devsync sync",
				}, true
			}
		}
		return model.StepResult{
			Status: model.StatusFailed,
			Error:  fmt.Errorf("nvm not available"),
			Message: fmt.Sprintf(
				"Node %s cannot be installed automatically: nvm is missing. Install nvm, restart your shell, and re-run devsync sync.",
				desired),
		}, false
	}

	if snap.NodeVersion != desired {
		if !e.nvmHasVersion(ctx, desired) {
			if res, err := e.nvm(ctx, "install "+desired, 0); err != nil {
				return model.StepResult{
					Status:  model.StatusFailed,
					Error:   err,
					Message: fmt.Sprintf("nvm install %s failed: %s", desired, firstLine(res.PrimaryOutput())),
				}, false
			}
		}

		if res, err := e.nvm(ctx, "alias default "+desired, checkTimeout); err != nil {
			return model.StepResult{
				Status:  model.StatusFailed,
				Error:   err,
				Message: fmt.Sprintf("activating Node %s failed: %s", desired, firstLine(res.PrimaryOutput())),
			}, false
		}
	}

	if err := project.WritePinFile(e.dir, desired); err != nil {
		return model.StepResult{
			Status:  model.StatusFailed,
			Error:   err,
			Message: fmt.Sprintf("writing .nvmrc failed: %v", err),
		}, false
	}

	return model.StepResult{
		Status:  model.StatusSuccess,
		Message: fmt.Sprintf("Node %s active and pinned in .nvmrc", desired),
	}, false
}

func (e *Executor) nvmHasVersion(ctx context.Context, version string) bool {
	res, err := e.nvm(ctx, "ls "+version, checkTimeout)
	if err != nil {
		return false
	}
	return strings.Contains(res.Stdout, version)
}

func (e *Executor) nvm(ctx context.Context, subcommand string, timeout time.Duration) (execx.Result, error) {
	return e.runner.Run(ctx, "bash", []string{"-lc", "nvm " + subcommand}, execx.Options{Timeout: timeout})
}

// installVersionManager runs the upstream nvm install script interactively.
// A nil return means success; otherwise the failed step result.
func (e *Executor) installVersionManager(ctx context.Context) *model.StepResult {
	script := "curl -o- https://raw.githubusercontent.com/nvm-sh/nvm/v0.40.1/install.sh | bash"
	res, err := e.runner.Run(ctx, "bash", []string{"-lc", script}, execx.Options{Interactive: true})
	if err != nil {
		return &model.StepResult{
			Status:  model.StatusFailed,
			Error:   err,
			Message: fmt.Sprintf("nvm install script failed: %s", firstLine(res.PrimaryOutput())),
		}
	}
	return nil
}

// runInstall installs a package manager or global tool with npm. The
// install deliberately uses whatever npm the currently active runtime
// provides, even when an earlier runtime step just failed: an
// inconsistency window the tool accepts in exchange for not blocking
// unrelated remediations.
func (e *Executor) runInstall(ctx context.Context, step model.Step, what string) model.StepResult {
	res, err := e.runner.Run(ctx, "npm", []string{"install", "-g", step.Target}, execx.Options{Timeout: installTimeout})
	if err != nil {
		return model.StepResult{
			Status:  model.StatusFailed,
			Error:   err,
			Message: fmt.Sprintf("installing %s %s failed: %s", what, step.Target, firstLine(res.PrimaryOutput())),
		}
	}
	return model.StepResult{
		Status:  model.StatusSuccess,
		Message: fmt.Sprintf("installed %s %s", what, step.Target),
	}
}

func (e *Executor) runExtension(ctx context.Context, step model.Step, snap *probe.Snapshot) model.StepResult {
	if !snap.ExtensionHost {
		return model.StepResult{
			Status:  model.StatusFailed,
			Error:   fmt.Errorf("code CLI not available"),
			Message: fmt.Sprintf("cannot install %s: the 'code' CLI is not on PATH", step.Target),
		}
	}

	res, err := e.runner.Run(ctx, "code", []string{"--install-extension", step.Target}, execx.Options{Timeout: installTimeout})
	if err != nil {
		return model.StepResult{
			Status:  model.StatusFailed,
			Error:   err,
			Message: fmt.Sprintf("installing extension %s failed: %s", step.Target, firstLine(res.PrimaryOutput())),
		}
	}
	return model.StepResult{
		Status:  model.StatusSuccess,
		Message: fmt.Sprintf("installed extension %s", step.Target),
	}
}

// runScript executes one lifecycle command. The command splits on
// whitespace only; quoting is not supported.
func (e *Executor) runScript(ctx context.Context, step model.Step) model.StepResult {
	command := config.Command(step.Target)
	prog, args := command.Split()
	if prog == "" {
		return model.StepResult{
			Status:  model.StatusSkipped,
			Message: "empty command",
		}
	}

	if isHuskyInstall(prog, args) && !e.huskyDeclared() {
		return model.StepResult{
			Status:  model.StatusSkipped,
			Message: "husky is not declared in package.json; skipping hook install",
		}
	}

	res, err := e.runner.Run(ctx, prog, args, execx.Options{Timeout: scriptTimeout, Dir: e.dir})
	if err != nil {
		if isNonFatalMaintenance(step.Target) {
			return model.StepResult{
				Status:  model.StatusWarned,
				Error:   err,
				Message: fmt.Sprintf("%s failed (non-fatal): %s", step.Target, firstLine(res.PrimaryOutput())),
			}
		}
		return model.StepResult{
			Status:  model.StatusFailed,
			Error:   err,
			Message: fmt.Sprintf("%s failed: %s", step.Target, firstLine(res.PrimaryOutput())),
		}
	}

	return model.StepResult{
		Status:  model.StatusSuccess,
		Message: step.Target,
	}
}

func (e *Executor) huskyDeclared() bool {
	pkg, err := project.ReadPackageJSON(e.dir)
	if err != nil {
		return false
	}
	return pkg.HasDependency("husky")
}

func isHuskyInstall(prog string, args []string) bool {
	if prog == "husky" {
		return true
	}
	return prog == "npx" && len(args) > 0 && args[0] == "husky"
}

func isNonFatalMaintenance(command string) bool {
	for _, prefix := range nonFatalMaintenance {
		if strings.HasPrefix(command, prefix) {
			return true
		}
	}
	return false
}

func hasRecommended(records []model.Discrepancy) bool {
	for _, rec := range records {
		if rec.Severity == model.SeverityRecommended {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	if s == "" {
		return "no output"
	}
	return s
}
