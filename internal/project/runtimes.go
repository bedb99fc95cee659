package project

import (
	"strconv"
	"strings"
)

// nodeDefaults maps an Angular major version to the Node LTS release the
// framework supports. Used only by init to seed manifest defaults; sync
// never consults it.
var nodeDefaults = map[int]string{
	14: "14.20.0",
	15: "16.20.2",
	16: "18.19.0",
	17: "18.19.1",
	18: "20.11.1",
	19: "20.18.1",
	20: "22.12.0",
}

// fallbackNode seeds manifests for unknown or unstated Angular versions.
const fallbackNode = "20.11.1"

// DefaultNodeFor returns the Node version to seed for an Angular version
// string such as "17.3.0". Unknown majors fall back to the current LTS.
func DefaultNodeFor(angularVersion string) string {
	major, ok := majorOf(angularVersion)
	if !ok {
		return fallbackNode
	}
	if node, ok := nodeDefaults[major]; ok {
		return node
	}
	return fallbackNode
}

func majorOf(version string) (int, bool) {
	head, _, _ := strings.Cut(strings.TrimSpace(version), ".")
	major, err := strconv.Atoi(head)
	if err != nil || major <= 0 {
		return 0, false
	}
	return major, true
}
