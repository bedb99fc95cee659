// Package health computes the weighted 0-100 environment score. The scorer
// encodes its own check weights rather than reusing the differ's severity
// policy; the two tables overlap on purpose so either can evolve without
// dragging the other along.
package health

import (
	"fmt"

	"github.com/alexisbeaulieu97/devsync/internal/config"
	"github.com/alexisbeaulieu97/devsync/internal/model"
	"github.com/alexisbeaulieu97/devsync/internal/probe"
)

const (
	weightRuntimeMismatch      = 20
	weightVersionManagerAbsent = 5
	weightPinFileMissing       = 5
	weightPackageManagerAbsent = 15
	weightToolMissing          = 10
	weightExtensionMissing     = 3
	weightNodeModulesAbsent    = 10
	weightPackageJSONAbsent    = 20
	weightAngularJSONAbsent    = 15
)

// Score starts at 100, subtracts a fixed weight per failing check, and
// clamps at 0. Adding a failing check can never raise the score; removing
// one can never lower it.
func Score(manifest *config.Manifest, snap *probe.Snapshot) model.HealthReport {
	var deductions []model.Deduction

	deduct := func(key model.CheckKey, weight int, reason string) {
		deductions = append(deductions, model.Deduction{Key: key, Weight: weight, Reason: reason})
	}

	if snap.NodeVersion != manifest.Runtime.Node {
		deduct(model.CheckRuntime, weightRuntimeMismatch,
			fmt.Sprintf("node %s desired, %s installed", manifest.Runtime.Node, orAbsent(snap.NodeVersion)))
	}

	if !snap.VersionManager {
		deduct(model.CheckVersionManager, weightVersionManagerAbsent, "nvm not found")
	} else if snap.PinVersion == "" {
		// A missing pin file only matters when nvm is around to read it.
		deduct(model.CheckPinFile, weightPinFileMissing, ".nvmrc missing")
	}

	if snap.PackageManagerVersion == "" {
		deduct(model.CheckPackageManager, weightPackageManagerAbsent,
			fmt.Sprintf("%s not installed", manifest.Runtime.PackageManagerSpec().Name))
	}

	for _, spec := range manifest.GlobalToolSpecs() {
		if !snap.Tool(spec.Name).Present {
			deduct(model.ToolCheck(spec.Name), weightToolMissing, spec.Name+" not installed")
		}
	}

	for _, id := range manifest.Extensions.VSCode {
		if !snap.Extension(id) {
			deduct(model.ExtensionCheck(id), weightExtensionMissing, id+" not installed")
		}
	}

	if !snap.NodeModules {
		deduct(model.CheckNodeModules, weightNodeModulesAbsent, "node_modules missing")
	}
	if !snap.PackageJSON {
		deduct(model.CheckPackageJSON, weightPackageJSONAbsent, "package.json missing")
	}
	if !snap.AngularJSON {
		deduct(model.CheckAngularJSON, weightAngularJSONAbsent, "angular.json missing")
	}

	score := 100
	for _, d := range deductions {
		score -= d.Weight
	}
	if score < 0 {
		score = 0
	}

	return model.HealthReport{
		Score:      score,
		Band:       bandFor(score),
		Deductions: deductions,
	}
}

func bandFor(score int) model.Band {
	switch {
	case score >= 90:
		return model.BandExcellent
	case score >= 70:
		return model.BandGood
	default:
		return model.BandNeedsAttention
	}
}

func orAbsent(v string) string {
	if v == "" {
		return "absent"
	}
	return v
}
