package model

// CheckKey identifies one environment check. Tool and extension checks are
// parameterized by the declared name; everything else is a fixed key.
type CheckKey string

const (
	// CheckRuntime compares the installed Node version to the manifest.
	CheckRuntime CheckKey = "runtime"
	// CheckVersionManager probes for nvm.
	CheckVersionManager CheckKey = "version-manager"
	// CheckPinFile probes the project's .nvmrc.
	CheckPinFile CheckKey = "pin-file"
	// CheckPackageManager probes the declared package manager.
	CheckPackageManager CheckKey = "package-manager"
	// CheckExtensionHost probes for the VS Code CLI.
	CheckExtensionHost CheckKey = "extension-host"
	// CheckNodeModules probes the dependency-install marker.
	CheckNodeModules CheckKey = "workspace:node_modules"
	// CheckPackageJSON probes the project manifest file.
	CheckPackageJSON CheckKey = "workspace:package.json"
	// CheckAngularJSON probes the framework config file.
	CheckAngularJSON CheckKey = "workspace:angular.json"
)

// ToolCheck returns the check key for a declared global tool.
func ToolCheck(base string) CheckKey {
	return CheckKey("tool:" + base)
}

// ExtensionCheck returns the check key for a declared editor extension.
func ExtensionCheck(id string) CheckKey {
	return CheckKey("extension:" + id)
}

// Classification describes how an observation relates to the desired state.
type Classification string

const (
	// ClassMatch means the observed value satisfies the desired value.
	ClassMatch Classification = "match"
	// ClassMismatch means something is present but not what was desired.
	ClassMismatch Classification = "mismatch"
	// ClassAbsent means nothing was observed. Absence is a normal value,
	// not a probe failure.
	ClassAbsent Classification = "absent"
)

// ProbeResult is the outcome of one read-only machine query. Results live
// for a single invocation and are never persisted.
type ProbeResult struct {
	Key            CheckKey
	Expected       string
	Observed       string
	Classification Classification
}

// Matched reports whether the probe satisfied its desired value.
func (p ProbeResult) Matched() bool {
	return p.Classification == ClassMatch
}
