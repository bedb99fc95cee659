package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckKeyHelpers(t *testing.T) {
	t.Parallel()

	require.Equal(t, CheckKey("tool:@angular/cli"), ToolCheck("@angular/cli"))
	require.Equal(t, CheckKey("extension:dbaeumer.vscode-eslint"), ExtensionCheck("dbaeumer.vscode-eslint"))
}

func TestActionKindRankOrdering(t *testing.T) {
	t.Parallel()

	ordered := []ActionKind{
		ActionPreScript,
		ActionRuntime,
		ActionPackageManager,
		ActionTool,
		ActionExtension,
		ActionPostScript,
	}

	for i := 1; i < len(ordered); i++ {
		require.Less(t, ordered[i-1].Rank(), ordered[i].Rank(),
			"%s must order before %s", ordered[i-1], ordered[i])
	}
}

func TestAggregateStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name                  string
		statuses              []string
		unresolvedRecommended bool
		want                  string
	}{
		{"all succeeded", []string{StatusSuccess, StatusSuccess}, false, StatusSuccess},
		{"empty run succeeds", nil, false, StatusSuccess},
		{"any failure wins", []string{StatusSuccess, StatusFailed, StatusWarned}, false, StatusFailed},
		{"warned without failure", []string{StatusSuccess, StatusWarned}, false, StatusWarned},
		{"skipped steps do not warn", []string{StatusSkipped, StatusSuccess}, false, StatusSuccess},
		{"unresolved recommended discrepancy warns", []string{StatusSuccess}, true, StatusWarned},
		{"failure outranks unresolved recommended", []string{StatusFailed}, true, StatusFailed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			steps := make([]StepResult, 0, len(tc.statuses))
			for _, s := range tc.statuses {
				steps = append(steps, StepResult{Status: s})
			}
			require.Equal(t, tc.want, AggregateStatus(steps, tc.unresolvedRecommended))
		})
	}
}

func TestProbeResultMatched(t *testing.T) {
	t.Parallel()

	require.True(t, ProbeResult{Classification: ClassMatch}.Matched())
	require.False(t, ProbeResult{Classification: ClassMismatch}.Matched())
	require.False(t, ProbeResult{Classification: ClassAbsent}.Matched())
}

func TestHealthReportHealthy(t *testing.T) {
	t.Parallel()

	require.True(t, HealthReport{Band: BandExcellent}.Healthy())
	require.True(t, HealthReport{Band: BandGood}.Healthy())
	require.False(t, HealthReport{Band: BandNeedsAttention}.Healthy())
}
