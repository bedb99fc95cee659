// Package diff derives discrepancy records from the desired-state manifest
// and a probe snapshot. Diff is pure and order-stable: identical inputs
// produce identical output, in one fixed check sequence, every time.
package diff

import (
	"regexp"

	"github.com/alexisbeaulieu97/devsync/internal/config"
	"github.com/alexisbeaulieu97/devsync/internal/model"
	"github.com/alexisbeaulieu97/devsync/internal/probe"
)

const observedAbsent = "absent"

var exactVersionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Diff evaluates every declared check in the fixed sequence — runtime,
// version manager, pin file, package manager, global tools in manifest
// order, extension host, extensions in manifest order, workspace artifacts
// — and returns one record per discrepancy. Each check first classifies
// into a probe result (match, mismatch, or absent); matches are dropped and
// the rest convert through the severity policy table. Checks whose
// desired-state field is absent are omitted entirely, never emitted as
// vacuous matches. Neither input is mutated.
func Diff(manifest *config.Manifest, snap *probe.Snapshot) []model.Discrepancy {
	var out []model.Discrepancy

	out = appendRuntime(out, manifest, snap)
	out = appendVersionManager(out, snap)
	out = appendPinFile(out, manifest, snap)
	out = appendPackageManager(out, manifest, snap)
	out = appendTools(out, manifest, snap)
	out = appendExtensions(out, manifest, snap)
	out = appendWorkspace(out, snap)

	return out
}

// record converts a non-matching probe result into a discrepancy. Matched
// results emit nothing; absent observations render as "absent".
func record(out []model.Discrepancy, res model.ProbeResult, severity model.Severity, suggested string) []model.Discrepancy {
	if res.Matched() {
		return out
	}

	observed := res.Observed
	if res.Classification == model.ClassAbsent {
		observed = observedAbsent
	}

	return append(out, model.Discrepancy{
		Key:       res.Key,
		Expected:  res.Expected,
		Observed:  observed,
		Severity:  severity,
		Suggested: suggested,
	})
}

// classifyValue compares a desired value against an observed one, treating
// an empty observation as absence.
func classifyValue(expected, observed string) model.Classification {
	switch {
	case observed == "":
		return model.ClassAbsent
	case observed == expected:
		return model.ClassMatch
	default:
		return model.ClassMismatch
	}
}

// presenceResult classifies a boolean presence check. The description
// doubles as the observed value so a satisfied check reads as a match.
func presenceResult(key model.CheckKey, description string, present bool) model.ProbeResult {
	res := model.ProbeResult{Key: key, Expected: description, Classification: model.ClassAbsent}
	if present {
		res.Observed = description
		res.Classification = model.ClassMatch
	}
	return res
}

func appendRuntime(out []model.Discrepancy, manifest *config.Manifest, snap *probe.Snapshot) []model.Discrepancy {
	desired := manifest.Runtime.Node
	res := model.ProbeResult{
		Key:            model.CheckRuntime,
		Expected:       desired,
		Observed:       snap.NodeVersion,
		Classification: classifyValue(desired, snap.NodeVersion),
	}
	return record(out, res, severityPolicy[model.CheckRuntime], suggestedRuntime(desired))
}

func appendVersionManager(out []model.Discrepancy, snap *probe.Snapshot) []model.Discrepancy {
	res := presenceResult(model.CheckVersionManager, "nvm available", snap.VersionManager)
	return record(out, res, severityPolicy[model.CheckVersionManager], suggestedVersionManager())
}

func appendPinFile(out []model.Discrepancy, manifest *config.Manifest, snap *probe.Snapshot) []model.Discrepancy {
	desired := manifest.Runtime.Node
	res := model.ProbeResult{
		Key:            model.CheckPinFile,
		Expected:       desired,
		Observed:       snap.PinVersion,
		Classification: classifyValue(desired, snap.PinVersion),
	}
	return record(out, res, severityPolicy[model.CheckPinFile], suggestedPinFile(desired))
}

func appendPackageManager(out []model.Discrepancy, manifest *config.Manifest, snap *probe.Snapshot) []model.Discrepancy {
	spec := manifest.Runtime.PackageManagerSpec()
	res := specResult(model.CheckPackageManager, spec.String(), spec.Name, spec.Version, snap.PackageManagerVersion)
	return record(out, res, severityPolicy[model.CheckPackageManager], suggestedPackageManager(spec.String()))
}

func appendTools(out []model.Discrepancy, manifest *config.Manifest, snap *probe.Snapshot) []model.Discrepancy {
	for _, spec := range manifest.GlobalToolSpecs() {
		obs := snap.Tool(spec.Name)

		observed := ""
		if obs.Present {
			observed = obs.Version
		}
		res := specResult(model.ToolCheck(spec.Name), spec.String(), spec.Name, spec.Version, observed)
		if obs.Present && res.Classification == model.ClassAbsent {
			// Installed but with an unreadable version still counts as
			// satisfied; only a true absence or a pinned mismatch records.
			res.Classification = model.ClassMatch
		}
		out = record(out, res, severityTool, suggestedTool(spec.String()))
	}
	return out
}

// specResult classifies a name@tag specifier against an observed version.
// Only exact X.Y.Z tags are comparable; dist-tags like latest or next have
// no stable observed counterpart and never mismatch.
func specResult(key model.CheckKey, expected, name, desiredVersion, observedVersion string) model.ProbeResult {
	res := model.ProbeResult{Key: key, Expected: expected}
	switch {
	case observedVersion == "":
		res.Classification = model.ClassAbsent
	case versionMismatch(desiredVersion, observedVersion):
		res.Observed = name + "@" + observedVersion
		res.Classification = model.ClassMismatch
	default:
		res.Observed = name + "@" + observedVersion
		res.Classification = model.ClassMatch
	}
	return res
}

func appendExtensions(out []model.Discrepancy, manifest *config.Manifest, snap *probe.Snapshot) []model.Discrepancy {
	if len(manifest.Extensions.VSCode) == 0 {
		return out
	}

	host := presenceResult(model.CheckExtensionHost, "code CLI available", snap.ExtensionHost)
	out = record(out, host, severityPolicy[model.CheckExtensionHost], suggestedExtensionHost())

	for _, id := range manifest.Extensions.VSCode {
		res := presenceResult(model.ExtensionCheck(id), id, snap.Extension(id))
		out = record(out, res, severityExtension, suggestedExtension(id))
	}
	return out
}

func appendWorkspace(out []model.Discrepancy, snap *probe.Snapshot) []model.Discrepancy {
	checks := []struct {
		key     model.CheckKey
		present bool
		desired string
	}{
		{model.CheckPackageJSON, snap.PackageJSON, "package.json present"},
		{model.CheckAngularJSON, snap.AngularJSON, "angular.json present"},
		{model.CheckNodeModules, snap.NodeModules, "dependencies installed"},
	}

	for _, check := range checks {
		res := presenceResult(check.key, check.desired, check.present)
		out = record(out, res, severityPolicy[check.key], suggestedWorkspace(check.key))
	}
	return out
}

func versionMismatch(desired, observed string) bool {
	if desired == "" || observed == "" {
		return false
	}
	if !exactVersionPattern.MatchString(desired) {
		return false
	}
	return desired != observed
}
