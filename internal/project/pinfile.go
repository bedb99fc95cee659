package project

import (
	"os"
	"path/filepath"
	"strings"
)

const pinFileName = ".nvmrc"

// ReadPinFile returns the pinned Node version from .nvmrc, or "" when the
// file is absent.
func ReadPinFile(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, pinFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// WritePinFile pins the version in .nvmrc, mirroring runtime.node verbatim.
// Writing is idempotent: an already-correct pin file is left untouched.
func WritePinFile(dir, version string) error {
	current, err := ReadPinFile(dir)
	if err != nil {
		return err
	}
	if current == version {
		return nil
	}
	return os.WriteFile(filepath.Join(dir, pinFileName), []byte(version+"\n"), 0o644)
}
