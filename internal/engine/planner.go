// Package engine plans and executes remediation. The planner turns
// discrepancy records into an ordered plan; the executor runs the plan
// sequentially through the injected command runner, tolerating per-step
// failure without aborting the run.
package engine

import (
	"fmt"
	"sort"

	"github.com/alexisbeaulieu97/devsync/internal/config"
	"github.com/alexisbeaulieu97/devsync/internal/model"
)

// Plan is an ordered list of remediation steps plus the discrepancies the
// plan cannot address (they surface as warnings on the aggregate status).
type Plan struct {
	Steps       []model.Step
	Unaddressed []model.Discrepancy
}

// Empty reports whether the plan has nothing to execute.
func (p *Plan) Empty() bool {
	return len(p.Steps) == 0
}

// BuildPlan maps discrepancies onto remediation steps in the fixed global
// order: pre-sync scripts, runtime, package manager, global tools in
// manifest order, extensions in manifest order, post-sync scripts. Later
// steps may assume earlier steps' correctness, which is why the order is a
// total one and not configurable.
//
// An empty discrepancy list produces an empty plan: lifecycle scripts wrap
// actual remediation and do not run on an already-converged machine.
func BuildPlan(manifest *config.Manifest, records []model.Discrepancy) *Plan {
	plan := &Plan{}

	addressed := make(map[model.CheckKey]bool)
	add := func(step model.Step) {
		step.Rank = step.Kind.Rank()
		plan.Steps = append(plan.Steps, step)
	}

	needsRuntime := false
	for _, rec := range records {
		switch rec.Key {
		case model.CheckRuntime, model.CheckPinFile:
			// A pin-file drift alone still routes through the runtime step,
			// which rewrites the pin after confirming the active version.
			needsRuntime = true
		}
	}
	if needsRuntime {
		add(model.Step{
			ID:     "runtime",
			Kind:   model.ActionRuntime,
			Target: manifest.Runtime.Node,
		})
		addressed[model.CheckRuntime] = true
		addressed[model.CheckPinFile] = true
	}

	for _, rec := range records {
		if rec.Key != model.CheckPackageManager {
			continue
		}
		add(model.Step{
			ID:     "package-manager",
			Kind:   model.ActionPackageManager,
			Target: manifest.Runtime.PackageManagerSpec().String(),
		})
		addressed[model.CheckPackageManager] = true
	}

	for _, spec := range manifest.GlobalToolSpecs() {
		key := model.ToolCheck(spec.Name)
		if !hasRecord(records, key) {
			continue
		}
		add(model.Step{
			ID:     string(key),
			Kind:   model.ActionTool,
			Target: spec.String(),
		})
		addressed[key] = true
	}

	for _, id := range manifest.Extensions.VSCode {
		key := model.ExtensionCheck(id)
		if !hasRecord(records, key) {
			continue
		}
		add(model.Step{
			ID:     string(key),
			Kind:   model.ActionExtension,
			Target: id,
		})
		addressed[key] = true
	}

	if len(plan.Steps) > 0 {
		for i, cmd := range manifest.Scripts.PreSync {
			add(model.Step{
				ID:     fmt.Sprintf("pre-script:%d", i+1),
				Kind:   model.ActionPreScript,
				Target: string(cmd),
			})
		}
		for i, cmd := range manifest.Scripts.PostSync {
			add(model.Step{
				ID:     fmt.Sprintf("post-script:%d", i+1),
				Kind:   model.ActionPostScript,
				Target: string(cmd),
			})
		}
	}

	sort.SliceStable(plan.Steps, func(i, j int) bool {
		return plan.Steps[i].Rank < plan.Steps[j].Rank
	})

	for _, rec := range records {
		if !addressed[rec.Key] {
			plan.Unaddressed = append(plan.Unaddressed, rec)
		}
	}

	return plan
}

func hasRecord(records []model.Discrepancy, key model.CheckKey) bool {
	for _, rec := range records {
		if rec.Key == key {
			return true
		}
	}
	return false
}
