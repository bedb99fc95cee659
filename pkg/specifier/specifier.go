// Package specifier parses npm-style package specifiers of the form
// name, name@tag, @scope/name, or @scope/name@tag.
package specifier

import (
	"strings"
)

// Spec is a parsed package specifier. Version is empty when the specifier
// carries no version tag.
type Spec struct {
	Name    string
	Version string
}

// Parse splits a possibly-scoped, possibly-versioned specifier into its
// base name and version tag. A scoped specifier keeps the scope as part of
// the base name, so "@angular/cli@17.0.0" parses to ("@angular/cli",
// "17.0.0") and "@angular/cli" parses to ("@angular/cli", "").
func Parse(raw string) Spec {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "@") {
		// The leading @ marks a scope, not a version separator.
		rest := s[1:]
		if idx := strings.Index(rest, "@"); idx >= 0 {
			return Spec{Name: "@" + rest[:idx], Version: rest[idx+1:]}
		}
		return Spec{Name: s}
	}

	if idx := strings.Index(s, "@"); idx >= 0 {
		return Spec{Name: s[:idx], Version: s[idx+1:]}
	}
	return Spec{Name: s}
}

// String reassembles the specifier in canonical name@version form.
func (s Spec) String() string {
	if s.Version == "" {
		return s.Name
	}
	return s.Name + "@" + s.Version
}
