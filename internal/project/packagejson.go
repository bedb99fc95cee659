// Package project reads and edits the workspace files that sit next to the
// manifest: package.json, the .nvmrc pin file, and housekeeping targets.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// PackageJSON is the subset of the project manifest this tool consults.
type PackageJSON struct {
	Name            string            `json:"name"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// ReadPackageJSON loads package.json from the project root. A missing file
// returns (nil, nil): absence is a normal observation, not an error.
func ReadPackageJSON(dir string) (*PackageJSON, error) {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// HasDependency reports whether the package declares the dependency in
// either dependencies or devDependencies.
func (p *PackageJSON) HasDependency(name string) bool {
	if p == nil {
		return false
	}
	if _, ok := p.Dependencies[name]; ok {
		return true
	}
	_, ok := p.DevDependencies[name]
	return ok
}
