package diff

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/devsync/internal/config"
	"github.com/alexisbeaulieu97/devsync/internal/model"
	"github.com/alexisbeaulieu97/devsync/internal/probe"
)

func manifestFixture() *config.Manifest {
	return &config.Manifest{
		Project: config.Project{Name: "storefront", Type: config.ProjectTypeAngular},
		Runtime: config.Runtime{Node: "20.11.1", PackageManager: "npm"},
		Dependencies: config.Dependencies{
			Global: []string{"@angular/cli@17.3.0", "typescript"},
		},
		Extensions: config.Extensions{
			VSCode: []string{"angular.ng-template", "dbaeumer.vscode-eslint"},
		},
	}
}

func healthySnapshot() *probe.Snapshot {
	return &probe.Snapshot{
		NodeVersion:           "20.11.1",
		VersionManager:        true,
		PinVersion:            "20.11.1",
		PackageManagerVersion: "10.2.4",
		Tools: map[string]probe.ToolObservation{
			"@angular/cli": {Present: true, Version: "17.3.0"},
			"typescript":   {Present: true, Version: "5.4.2"},
		},
		ExtensionHost: true,
		Extensions: map[string]bool{
			"angular.ng-template":    true,
			"dbaeumer.vscode-eslint": true,
		},
		PackageJSON: true,
		AngularJSON: true,
		NodeModules: true,
	}
}

func TestDiffHealthyMachineIsEmpty(t *testing.T) {
	t.Parallel()

	require.Empty(t, Diff(manifestFixture(), healthySnapshot()))
}

func TestDiffIsDeterministicAndOrderStable(t *testing.T) {
	t.Parallel()

	manifest := manifestFixture()
	snap := &probe.Snapshot{} // everything absent

	first := Diff(manifest, snap)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Diff(manifest, snap))
	}

	keys := make([]model.CheckKey, 0, len(first))
	for _, rec := range first {
		keys = append(keys, rec.Key)
	}
	require.Equal(t, []model.CheckKey{
		model.CheckRuntime,
		model.CheckVersionManager,
		model.CheckPinFile,
		model.CheckPackageManager,
		model.ToolCheck("@angular/cli"),
		model.ToolCheck("typescript"),
		model.CheckExtensionHost,
		model.ExtensionCheck("angular.ng-template"),
		model.ExtensionCheck("dbaeumer.vscode-eslint"),
		model.CheckPackageJSON,
		model.CheckAngularJSON,
		model.CheckNodeModules,
	}, keys)
}

func TestDiffDoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	manifest := manifestFixture()
	snap := healthySnapshot()
	snap.NodeVersion = "18.19.0"

	before := *manifest
	Diff(manifest, snap)
	require.Equal(t, before, *manifest)
	require.Equal(t, "18.19.0", snap.NodeVersion)
}

func TestDiffRuntimeMismatchIsBlocking(t *testing.T) {
	t.Parallel()

	snap := healthySnapshot()
	snap.NodeVersion = "18.19.0"
	snap.VersionManager = false

	records := Diff(manifestFixture(), snap)
	require.Len(t, records, 2)

	require.Equal(t, model.CheckRuntime, records[0].Key)
	require.Equal(t, model.SeverityBlocking, records[0].Severity)
	require.Equal(t, "20.11.1", records[0].Expected)
	require.Equal(t, "18.19.0", records[0].Observed)

	require.Equal(t, model.CheckVersionManager, records[1].Key)
	require.Equal(t, model.SeverityRecommended, records[1].Severity)
}

func TestDiffOmitsUndeclaredChecks(t *testing.T) {
	t.Parallel()

	manifest := manifestFixture()
	manifest.Dependencies.Global = nil
	manifest.Extensions.VSCode = nil

	snap := healthySnapshot()
	snap.ExtensionHost = false
	snap.Tools = nil
	snap.Extensions = nil

	// No tools or extensions declared: no tool, extension, or
	// extension-host records, vacuous or otherwise.
	require.Empty(t, Diff(manifest, snap))
}

func TestDiffAbsentNodeIsReportedAsAbsent(t *testing.T) {
	t.Parallel()

	snap := healthySnapshot()
	snap.NodeVersion = ""

	records := Diff(manifestFixture(), snap)
	require.Equal(t, model.CheckRuntime, records[0].Key)
	require.Equal(t, "absent", records[0].Observed)
}

func TestDiffToolVersionComparisons(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		observed probe.ToolObservation
		declared string
		wantDiff bool
	}{
		{"absent tool", probe.ToolObservation{}, "typescript@5.4.2", true},
		{"exact version match", probe.ToolObservation{Present: true, Version: "5.4.2"}, "typescript@5.4.2", false},
		{"exact version mismatch", probe.ToolObservation{Present: true, Version: "5.3.0"}, "typescript@5.4.2", true},
		{"dist tag never mismatches", probe.ToolObservation{Present: true, Version: "5.3.0"}, "typescript@latest", false},
		{"unversioned only needs presence", probe.ToolObservation{Present: true, Version: "5.3.0"}, "typescript", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			manifest := manifestFixture()
			manifest.Dependencies.Global = []string{tc.declared}
			manifest.Extensions.VSCode = nil

			snap := healthySnapshot()
			snap.Tools = map[string]probe.ToolObservation{"typescript": tc.observed}

			records := Diff(manifest, snap)
			if tc.wantDiff {
				require.Len(t, records, 1)
				require.Equal(t, model.ToolCheck("typescript"), records[0].Key)
				require.Equal(t, model.SeverityRecommended, records[0].Severity)
			} else {
				require.Empty(t, records)
			}
		})
	}
}

func TestDiffPackageManagerTag(t *testing.T) {
	t.Parallel()

	manifest := manifestFixture()
	manifest.Runtime.PackageManager = "yarn@1.22.19"
	manifest.Dependencies.Global = nil
	manifest.Extensions.VSCode = nil

	snap := healthySnapshot()
	snap.PackageManagerVersion = "1.21.0"

	records := Diff(manifest, snap)
	require.Len(t, records, 1)
	require.Equal(t, model.CheckPackageManager, records[0].Key)
	require.Equal(t, "yarn@1.22.19", records[0].Expected)
	require.Equal(t, "yarn@1.21.0", records[0].Observed)
}
