package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	devsyncerrors "github.com/alexisbeaulieu97/devsync/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// Load reads the manifest from disk, validates it, and returns the
// resulting immutable value. A missing manifest or a project type this
// tool does not manage is a precondition failure and aborts before any
// probing happens.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, devsyncerrors.NewPreconditionError(
				fmt.Sprintf("manifest %s not found (run 'devsync init' first)", path), err)
		}
		return nil, devsyncerrors.NewParseError(path, 0, err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, devsyncerrors.NewParseError(path, extractLine(err), err)
	}

	if err := Validate(&manifest); err != nil {
		return nil, err
	}

	return &manifest, nil
}

// Save writes the manifest to disk in canonical YAML form.
func Save(path string, manifest *Manifest) error {
	data, err := Encode(manifest)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Encode marshals the manifest to canonical YAML bytes, used both for
// writing and for rendering rewrite previews.
func Encode(manifest *Manifest) ([]byte, error) {
	return yaml.Marshal(manifest)
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}

	return line
}
