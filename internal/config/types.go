package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/devsync/pkg/specifier"
)

// DefaultManifestName is the manifest filename looked up in the project root.
const DefaultManifestName = "devsync.yaml"

// PinFileName is the sibling pin file mirroring runtime.node verbatim so
// other tools (nvm, direnv) can auto-detect the desired version.
const PinFileName = ".nvmrc"

// ProjectTypeAngular is the only project type this tool manages.
const ProjectTypeAngular = "angular"

// Manifest is the parsed declarative target environment. It is constructed
// once per run and treated as an immutable value from then on.
type Manifest struct {
	Project      Project      `yaml:"project" validate:"required"`
	Runtime      Runtime      `yaml:"runtime" validate:"required"`
	Dependencies Dependencies `yaml:"dependencies,omitempty"`
	Extensions   Extensions   `yaml:"extensions,omitempty"`
	Scripts      Scripts      `yaml:"scripts,omitempty"`
}

// Project identifies the workspace the manifest belongs to.
type Project struct {
	Name           string `yaml:"name" validate:"required,min=1,max=100"`
	Type           string `yaml:"type" validate:"required"`
	AngularVersion string `yaml:"angularVersion,omitempty" validate:"omitempty,semver"`
}

// Runtime declares the Node version and package manager for the project.
type Runtime struct {
	Node           string `yaml:"node" validate:"required,nodeversion"`
	PackageManager string `yaml:"packageManager" validate:"required,pmspec"`
}

// PackageManagerSpec splits runtime.packageManager into name and tag.
func (r Runtime) PackageManagerSpec() specifier.Spec {
	return specifier.Parse(r.PackageManager)
}

// Dependencies lists global tools the team expects installed.
type Dependencies struct {
	Global []string `yaml:"global,omitempty" validate:"omitempty,dive,toolspec"`
}

// Extensions lists editor extensions by opaque marketplace id.
type Extensions struct {
	VSCode []string `yaml:"vscode,omitempty" validate:"omitempty,dive,min=1"`
}

// Scripts holds lifecycle commands run around a sync.
type Scripts struct {
	PreSync  []Command `yaml:"pre-sync,omitempty"`
	PostSync []Command `yaml:"post-sync,omitempty"`
}

// Command is one lifecycle shell command. Upstream documents accept either
// a plain string or, through a YAML quirk, a single-key mapping when the
// command contains an unquoted colon; both normalize to one string here so
// the reconciler never sees the ambiguous shape.
type Command string

// UnmarshalYAML normalizes the two accepted shapes. A single-key mapping
// {k: v} reconstructs to "k v" joined with one space: the colon is treated
// as YAML punctuation, not command text.
func (c *Command) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*c = Command(strings.TrimSpace(s))
		return nil
	case yaml.MappingNode:
		if len(value.Content) == 2 &&
			value.Content[0].Kind == yaml.ScalarNode &&
			value.Content[1].Kind == yaml.ScalarNode {
			key := strings.TrimSpace(value.Content[0].Value)
			val := strings.TrimSpace(value.Content[1].Value)
			if val == "" {
				*c = Command(key)
			} else {
				*c = Command(key + " " + val)
			}
			return nil
		}
		return fmt.Errorf("line %d: script entry must be a string or a single-key mapping", value.Line)
	default:
		return fmt.Errorf("line %d: script entry must be a string", value.Line)
	}
}

// Split breaks the command into program and arguments on whitespace.
// Quoting is not supported.
func (c Command) Split() (string, []string) {
	fields := strings.Fields(string(c))
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}

// GlobalToolSpecs returns the declared global tools parsed into specifiers,
// preserving manifest order.
func (m *Manifest) GlobalToolSpecs() []specifier.Spec {
	specs := make([]specifier.Spec, 0, len(m.Dependencies.Global))
	for _, raw := range m.Dependencies.Global {
		specs = append(specs, specifier.Parse(raw))
	}
	return specs
}
