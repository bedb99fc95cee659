package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/devsync/internal/config"
	"github.com/alexisbeaulieu97/devsync/internal/execx"
	"github.com/alexisbeaulieu97/devsync/internal/model"
	"github.com/alexisbeaulieu97/devsync/internal/probe"
	devsyncerrors "github.com/alexisbeaulieu97/devsync/pkg/errors"
)

type fakePrompter struct {
	accept bool
	asked  []string
}

func (p *fakePrompter) Confirm(question string) (bool, error) {
	p.asked = append(p.asked, question)
	return p.accept, nil
}

func statuses(result *model.RunResult) map[string]string {
	out := make(map[string]string, len(result.Steps))
	for _, res := range result.Steps {
		out[res.StepID] = res.Status
	}
	return out
}

func TestExecuteEmptyPlanSucceedsWithZeroSteps(t *testing.T) {
	t.Parallel()

	exec := NewExecutor(execx.NewFakeRunner(), nil, t.TempDir())
	result := exec.Execute(context.Background(), manifestFixture(), &probe.Snapshot{}, &Plan{})

	require.Empty(t, result.Steps)
	require.Equal(t, model.StatusSuccess, result.Status)
}

func TestExecuteRuntimeWithoutVersionManagerFailsButContinues(t *testing.T) {
	t.Parallel()

	// Desired 20.11.1, observed 18.19.0, no nvm: the runtime step fails
	// with a directive message and every later step still runs.
	manifest := manifestFixture()
	manifest.Scripts = config.Scripts{}

	snap := &probe.Snapshot{NodeVersion: "18.19.0", ExtensionHost: true}

	records := []model.Discrepancy{
		{Key: model.CheckRuntime, Severity: model.SeverityBlocking},
		{Key: model.ToolCheck("toolA"), Severity: model.SeverityRecommended},
		{Key: model.ExtensionCheck("angular.ng-template"), Severity: model.SeverityInformational},
	}
	plan := BuildPlan(manifest, records)

	fake := execx.NewFakeRunner()
	fake.ScriptOutput("npm install -g toolA@1.0.0", "added 1 package")
	fake.ScriptOutput("code --install-extension angular.ng-template", "installed")

	result := NewExecutor(fake, nil, t.TempDir()).Execute(context.Background(), manifest, snap, plan)

	got := statuses(result)
	require.Equal(t, model.StatusFailed, got["runtime"])
	require.Equal(t, model.StatusSuccess, got["tool:toolA"])
	require.Equal(t, model.StatusSuccess, got["extension:angular.ng-template"])
	require.Equal(t, model.StatusFailed, result.Status)

	require.Contains(t, result.Steps[0].Message, "nvm is missing")
	require.Zero(t, fake.CallCount("bash -lc nvm install 20.11.1"), "no install attempt without nvm")
}

func TestExecuteRuntimeInstallsActivatesAndPins(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	manifest := manifestFixture()
	manifest.Scripts = config.Scripts{}

	snap := &probe.Snapshot{NodeVersion: "18.19.0", VersionManager: true}
	plan := BuildPlan(manifest, []model.Discrepancy{
		{Key: model.CheckRuntime, Severity: model.SeverityBlocking},
	})

	fake := execx.NewFakeRunner()
	fake.ScriptFailure("bash -lc nvm ls 20.11.1", "N/A")
	fake.ScriptOutput("bash -lc nvm install 20.11.1", "Now using node v20.11.1")
	fake.ScriptOutput("bash -lc nvm alias default 20.11.1", "default -> 20.11.1")

	result := NewExecutor(fake, nil, dir).Execute(context.Background(), manifest, snap, plan)

	require.Equal(t, model.StatusSuccess, result.Status)
	require.Equal(t, 1, fake.CallCount("bash -lc nvm install 20.11.1"))
	require.Equal(t, 1, fake.CallCount("bash -lc nvm alias default 20.11.1"))

	pin, err := os.ReadFile(filepath.Join(dir, ".nvmrc"))
	require.NoError(t, err)
	require.Equal(t, "20.11.1\n", string(pin))
}

func TestExecuteRuntimeSkipsInstallWhenRegistered(t *testing.T) {
	t.Parallel()

	manifest := manifestFixture()
	manifest.Scripts = config.Scripts{}

	snap := &probe.Snapshot{NodeVersion: "18.19.0", VersionManager: true}
	plan := BuildPlan(manifest, []model.Discrepancy{
		{Key: model.CheckRuntime, Severity: model.SeverityBlocking},
	})

	fake := execx.NewFakeRunner()
	fake.ScriptOutput("bash -lc nvm ls 20.11.1", "       v20.11.1")
	fake.ScriptOutput("bash -lc nvm alias default 20.11.1", "default -> 20.11.1")

	result := NewExecutor(fake, nil, t.TempDir()).Execute(context.Background(), manifest, snap, plan)

	require.Equal(t, model.StatusSuccess, result.Status)
	require.Zero(t, fake.CallCount("bash -lc nvm install 20.11.1"))
}

func TestExecuteRuntimeInstallFailureDoesNotBlockRest(t *testing.T) {
	t.Parallel()

	manifest := manifestFixture()
	manifest.Scripts = config.Scripts{}

	snap := &probe.Snapshot{NodeVersion: "18.19.0", VersionManager: true}
	plan := BuildPlan(manifest, []model.Discrepancy{
		{Key: model.CheckRuntime, Severity: model.SeverityBlocking},
		{Key: model.ToolCheck("toolA"), Severity: model.SeverityRecommended},
	})

	fake := execx.NewFakeRunner()
	fake.ScriptFailure("bash -lc nvm ls 20.11.1", "N/A")
	fake.ScriptFailure("bash -lc nvm install 20.11.1", "download failed")
	fake.ScriptOutput("npm install -g toolA@1.0.0", "added 1 package")

	result := NewExecutor(fake, nil, t.TempDir()).Execute(context.Background(), manifest, snap, plan)

	got := statuses(result)
	require.Equal(t, model.StatusFailed, got["runtime"])
	require.Equal(t, model.StatusSuccess, got["tool:toolA"])
	require.Equal(t, model.StatusFailed, result.Status)
}

func TestExecuteRuntimePinOnlyDriftRewritesPin(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".nvmrc"), []byte("18.19.0\n"), 0o644))

	manifest := manifestFixture()
	manifest.Scripts = config.Scripts{}

	// Node already matches; only the pin file drifted. No nvm calls needed.
	snap := &probe.Snapshot{NodeVersion: "20.11.1", VersionManager: true, PinVersion: "18.19.0"}
	plan := BuildPlan(manifest, []model.Discrepancy{
		{Key: model.CheckPinFile, Severity: model.SeverityRecommended},
	})

	fake := execx.NewFakeRunner()
	result := NewExecutor(fake, nil, dir).Execute(context.Background(), manifest, snap, plan)

	require.Equal(t, model.StatusSuccess, result.Status)
	require.Empty(t, fake.Calls())

	pin, err := os.ReadFile(filepath.Join(dir, ".nvmrc"))
	require.NoError(t, err)
	require.Equal(t, "20.11.1\n", string(pin))
}

func TestExecuteToolFailureIsCollectedNotFatalToOthers(t *testing.T) {
	t.Parallel()

	// toolA absent, toolB present: exactly one install attempt, and its
	// failure must not touch toolB or the extension step.
	manifest := manifestFixture()
	manifest.Scripts = config.Scripts{}

	snap := &probe.Snapshot{NodeVersion: "20.11.1", VersionManager: true, ExtensionHost: true}
	records := []model.Discrepancy{
		{Key: model.ToolCheck("toolA"), Severity: model.SeverityRecommended},
		{Key: model.ExtensionCheck("angular.ng-template"), Severity: model.SeverityInformational},
	}
	plan := BuildPlan(manifest, records)

	fake := execx.NewFakeRunner()
	fake.ScriptFailure("npm install -g toolA@1.0.0", "E404 not found")
	fake.ScriptOutput("code --install-extension angular.ng-template", "installed")

	result := NewExecutor(fake, nil, t.TempDir()).Execute(context.Background(), manifest, snap, plan)

	got := statuses(result)
	require.Equal(t, model.StatusFailed, got["tool:toolA"])
	require.Equal(t, model.StatusSuccess, got["extension:angular.ng-template"])

	require.Equal(t, 1, fake.CallCount("npm install -g toolA@1.0.0"))
	require.Zero(t, fake.CallCount("npm install -g toolB"), "present tool must not be reinstalled")
}

func TestExecuteFailedStepErrorCarriesStepIdentity(t *testing.T) {
	t.Parallel()

	manifest := manifestFixture()
	manifest.Scripts = config.Scripts{}

	snap := &probe.Snapshot{NodeVersion: "20.11.1", VersionManager: true}
	plan := BuildPlan(manifest, []model.Discrepancy{
		{Key: model.ToolCheck("toolA"), Severity: model.SeverityRecommended},
	})

	fake := execx.NewFakeRunner()
	fake.ScriptFailure("npm install -g toolA@1.0.0", "E404 not found")

	result := NewExecutor(fake, nil, t.TempDir()).Execute(context.Background(), manifest, snap, plan)

	require.Len(t, result.Steps, 1)
	require.Equal(t, model.StatusFailed, result.Steps[0].Status)

	var stepErr *devsyncerrors.StepError
	require.ErrorAs(t, result.Steps[0].Error, &stepErr)
	require.Equal(t, "tool:toolA", stepErr.StepID)
	require.NotNil(t, stepErr.Unwrap())
}

func TestExecuteExtensionWithoutHostFails(t *testing.T) {
	t.Parallel()

	manifest := manifestFixture()
	manifest.Scripts = config.Scripts{}

	snap := &probe.Snapshot{NodeVersion: "20.11.1", VersionManager: true, ExtensionHost: false}
	plan := BuildPlan(manifest, []model.Discrepancy{
		{Key: model.ExtensionCheck("angular.ng-template"), Severity: model.SeverityInformational},
	})

	fake := execx.NewFakeRunner()
	result := NewExecutor(fake, nil, t.TempDir()).Execute(context.Background(), manifest, snap, plan)

	require.Equal(t, model.StatusFailed, result.Status)
	require.Contains(t, result.Steps[0].Message, "'code' CLI is not on PATH")
	require.Empty(t, fake.Calls())
}

func TestExecuteScriptOutcomes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		command    config.Command
		script     func(*execx.FakeRunner)
		packageDef string
		wantStatus string
	}{
		{
			name:       "plain script succeeds",
			command:    "git pull --ff-only",
			script:     func(f *execx.FakeRunner) { f.ScriptOutput("git pull --ff-only", "Already up to date.") },
			wantStatus: model.StatusSuccess,
		},
		{
			name:       "failing script fails the step",
			command:    "git pull --ff-only",
			script:     func(f *execx.FakeRunner) { f.ScriptFailure("git pull --ff-only", "divergent branches") },
			wantStatus: model.StatusFailed,
		},
		{
			name:       "maintenance allow-list downgrades to warned",
			command:    "npm cache clean --force",
			script:     func(f *execx.FakeRunner) { f.ScriptFailure("npm cache clean --force", "EACCES") },
			wantStatus: model.StatusWarned,
		},
		{
			name:       "husky skipped when undeclared",
			command:    "npx husky install",
			script:     func(f *execx.FakeRunner) {},
			packageDef: `{"name":"storefront","devDependencies":{}}`,
			wantStatus: model.StatusSkipped,
		},
		{
			name:       "husky runs when declared",
			command:    "npx husky install",
			script:     func(f *execx.FakeRunner) { f.ScriptOutput("npx husky install", "husky - Git hooks installed") },
			packageDef: `{"name":"storefront","devDependencies":{"husky":"^9.0.0"}}`,
			wantStatus: model.StatusSuccess,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			if tc.packageDef != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(tc.packageDef), 0o644))
			}

			manifest := manifestFixture()
			manifest.Scripts = config.Scripts{PostSync: []config.Command{tc.command}}

			snap := &probe.Snapshot{NodeVersion: "18.19.0", VersionManager: true}
			plan := BuildPlan(manifest, []model.Discrepancy{
				{Key: model.CheckRuntime, Severity: model.SeverityBlocking},
			})

			fake := execx.NewFakeRunner()
			fake.ScriptOutput("bash -lc nvm ls 20.11.1", "v20.11.1")
			fake.ScriptOutput("bash -lc nvm alias default 20.11.1", "default -> 20.11.1")
			tc.script(fake)

			result := NewExecutor(fake, nil, dir).Execute(context.Background(), manifest, snap, plan)
			require.Equal(t, tc.wantStatus, statuses(result)["post-script:1"])
		})
	}
}

func TestExecuteAcceptedNvmOfferEndsRunEarly(t *testing.T) {
	t.Parallel()

	manifest := manifestFixture()
	manifest.Scripts = config.Scripts{}

	snap := &probe.Snapshot{NodeVersion: "18.19.0"}
	plan := BuildPlan(manifest, []model.Discrepancy{
		{Key: model.CheckRuntime, Severity: model.SeverityBlocking},
		{Key: model.ToolCheck("toolA"), Severity: model.SeverityRecommended},
	})

	fake := execx.NewFakeRunner()
	fake.ScriptOutput("bash -lc curl -o- https://raw.githubusercontent.com/nvm-sh/nvm/v0.40.1/install.sh | bash", "=> nvm installed")

	prompter := &fakePrompter{accept: true}
	result := NewExecutor(fake, prompter, t.TempDir()).Execute(context.Background(), manifest, snap, plan)

	require.Len(t, prompter.asked, 1)

	got := statuses(result)
	require.Equal(t, model.StatusWarned, got["runtime"])
	require.Equal(t, model.StatusSkipped, got["tool:toolA"])
	require.Equal(t, model.StatusWarned, result.Status)
	require.Zero(t, fake.CallCount("npm install -g toolA@1.0.0"))
}

func TestExecuteDeclinedNvmOfferFailsStepAndContinues(t *testing.T) {
	t.Parallel()

	manifest := manifestFixture()
	manifest.Scripts = config.Scripts{}

	snap := &probe.Snapshot{NodeVersion: "18.19.0"}
	plan := BuildPlan(manifest, []model.Discrepancy{
		{Key: model.CheckRuntime, Severity: model.SeverityBlocking},
		{Key: model.ToolCheck("toolA"), Severity: model.SeverityRecommended},
	})

	fake := execx.NewFakeRunner()
	fake.ScriptOutput("npm install -g toolA@1.0.0", "added 1 package")

	prompter := &fakePrompter{accept: false}
	result := NewExecutor(fake, prompter, t.TempDir()).Execute(context.Background(), manifest, snap, plan)

	got := statuses(result)
	require.Equal(t, model.StatusFailed, got["runtime"])
	require.Equal(t, model.StatusSuccess, got["tool:toolA"])
}

func TestExecuteUnaddressedRecommendedWarnsCleanRun(t *testing.T) {
	t.Parallel()

	manifest := manifestFixture()
	manifest.Scripts = config.Scripts{}

	snap := &probe.Snapshot{NodeVersion: "20.11.1", VersionManager: true}
	plan := BuildPlan(manifest, []model.Discrepancy{
		{Key: model.ToolCheck("toolA"), Severity: model.SeverityRecommended},
		{Key: model.CheckNodeModules, Severity: model.SeverityRecommended},
	})

	fake := execx.NewFakeRunner()
	fake.ScriptOutput("npm install -g toolA@1.0.0", "added 1 package")

	result := NewExecutor(fake, nil, t.TempDir()).Execute(context.Background(), manifest, snap, plan)

	require.Equal(t, model.StatusSuccess, statuses(result)["tool:toolA"])
	require.Equal(t, model.StatusWarned, result.Status)
}
