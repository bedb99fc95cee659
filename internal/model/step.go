package model

import (
	"time"
)

const (
	// StatusRunning indicates a step is actively executing.
	StatusRunning = "running"
	// StatusSuccess marks a successful step execution.
	StatusSuccess = "succeeded"
	// StatusSkipped indicates the executor skipped the step.
	StatusSkipped = "skipped"
	// StatusFailed marks a failure during step execution.
	StatusFailed = "failed"
	// StatusWarned marks a non-fatal failure; the step ran, its command
	// failed, and the failure was downgraded by policy.
	StatusWarned = "warned"
)

// ActionKind names the remediation a step performs. The kind also fixes the
// step's position in the global plan order.
type ActionKind string

const (
	// ActionPreScript runs a declared pre-sync command.
	ActionPreScript ActionKind = "pre-script"
	// ActionRuntime installs and activates the desired Node version.
	ActionRuntime ActionKind = "runtime"
	// ActionPackageManager installs the declared package manager.
	ActionPackageManager ActionKind = "package-manager"
	// ActionTool installs one declared global tool.
	ActionTool ActionKind = "tool"
	// ActionExtension installs one declared editor extension.
	ActionExtension ActionKind = "extension"
	// ActionPostScript runs a declared post-sync command.
	ActionPostScript ActionKind = "post-script"
)

// Rank returns the kind's position in the fixed global ordering. Later
// steps may assume earlier steps' correctness: tool installs depend on the
// active runtime, extensions come last before post-scripts.
func (k ActionKind) Rank() int {
	switch k {
	case ActionPreScript:
		return 0
	case ActionRuntime:
		return 1
	case ActionPackageManager:
		return 2
	case ActionTool:
		return 3
	case ActionExtension:
		return 4
	case ActionPostScript:
		return 5
	}
	return 6
}

// Step is one corrective action in a remediation plan. Every step except
// lifecycle scripts is designed idempotent and safe to re-run.
type Step struct {
	ID     string
	Kind   ActionKind
	Target string
	Rank   int
}

// StepResult captures the outcome of executing a single step.
type StepResult struct {
	StepID   string
	Kind     ActionKind
	Status   string
	Message  string
	Error    error
	Duration time.Duration
}

// RunResult aggregates ordered step outcomes for one reconciliation run.
type RunResult struct {
	Steps  []StepResult
	Status string
}

// AggregateStatus folds step outcomes into an overall run status: failed if
// any step failed, else warned if any step warned or a recommended
// discrepancy remains unaddressed, else succeeded.
func AggregateStatus(steps []StepResult, unresolvedRecommended bool) string {
	status := StatusSuccess
	for _, res := range steps {
		switch res.Status {
		case StatusFailed:
			return StatusFailed
		case StatusWarned:
			status = StatusWarned
		}
	}
	if status == StatusSuccess && unresolvedRecommended {
		status = StatusWarned
	}
	return status
}
