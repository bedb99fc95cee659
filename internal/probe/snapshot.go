package probe

// ToolObservation records whether a global tool is installed and, when it
// is, the version the package manager reports.
type ToolObservation struct {
	Present bool
	Version string
}

// Snapshot holds every observation gathered for a single invocation.
// Snapshots are never persisted; each run re-probes the machine from
// scratch so the tool always reasons about fresh state.
type Snapshot struct {
	// NodeVersion is the installed runtime version without the leading v,
	// or "" when node is not on PATH.
	NodeVersion string
	// VersionManager reports whether nvm is available.
	VersionManager bool
	// PinVersion is the .nvmrc content, or "" when the file is absent.
	PinVersion string
	// PackageManagerVersion is the declared package manager's reported
	// version, or "" when the binary is absent.
	PackageManagerVersion string
	// Tools maps declared tool base names to their observation.
	Tools map[string]ToolObservation
	// ExtensionHost reports whether the VS Code CLI is on PATH.
	ExtensionHost bool
	// Extensions maps declared extension ids to installed state.
	Extensions map[string]bool
	// PackageJSON, AngularJSON, and NodeModules report workspace artifacts.
	PackageJSON bool
	AngularJSON bool
	NodeModules bool
}

// Tool returns the observation for a declared tool base name.
func (s *Snapshot) Tool(base string) ToolObservation {
	if s.Tools == nil {
		return ToolObservation{}
	}
	return s.Tools[base]
}

// Extension returns the installed state for a declared extension id.
func (s *Snapshot) Extension(id string) bool {
	if s.Extensions == nil {
		return false
	}
	return s.Extensions[id]
}
