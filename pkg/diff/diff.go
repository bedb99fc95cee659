// Package diff produces unified-diff previews of proposed manifest
// rewrites.
package diff

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const maxPreviewLines = 2000

// Unified renders a unified diff from current to proposed. Identical
// content yields an empty string. Very large previews are truncated
// with a marker line.
func Unified(current, proposed []byte, currentLabel, proposedLabel string) string {
	if bytes.Equal(current, proposed) {
		return ""
	}

	dmp := diffmatchpatch.New()
	records := dmp.DiffCleanupSemantic(dmp.DiffMain(string(current), string(proposed), false))

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "--- %s\n", currentLabel)
	fmt.Fprintf(&buf, "+++ %s\n", proposedLabel)
	fmt.Fprintf(&buf, "@@ -1,%d +1,%d @@\n", countLines(current), countLines(proposed))

	for _, rec := range records {
		prefix := " "
		switch rec.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range splitLines(rec.Text) {
			buf.WriteString(prefix)
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}

	return truncate(buf.String())
}

func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	return len(splitLines(string(content)))
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" && strings.HasSuffix(text, "\n") {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func truncate(preview string) string {
	lines := strings.Split(preview, "\n")
	if len(lines) <= maxPreviewLines {
		return preview
	}
	kept := strings.Join(lines[:maxPreviewLines], "\n")
	return kept + fmt.Sprintf("\n... (preview truncated after %d lines) ...\n", maxPreviewLines)
}
