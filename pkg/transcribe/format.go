// File: pkg/transcribe/format.go
package transcribe

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// separatorWidth fixes the width of the line that opens every entry.
const separatorWidth = 80

var separator = strings.Repeat("-", separatorWidth)

// formatEntry renders one transcription entry: the separator line, the
// file's relative path, then its content with exactly one trailing newline.
// An empty file contributes no content line.
func formatEntry(relPath, content string) string {
	var b strings.Builder
	b.Grow(len(separator) + len(relPath) + len(content) + 2)
	b.WriteString(separator)
	b.WriteByte('\n')
	b.WriteString(relPath)
	b.WriteByte('\n')
	b.WriteString(content)
	return b.String()
}

// writeArtifact writes the formatted entries to path in the given order.
// Any failure here is fatal to the run: a partial artifact must not be
// swapped into place.
func writeArtifact(path string, entries []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, entry := range entries {
		if _, err := w.WriteString(entry); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

// writeErrorReport persists the per-file failures in a readable report.
func writeErrorReport(path string, errors []Error) error {
	var b strings.Builder
	b.WriteString("TRANSCRIPTION ERRORS REPORT:\n")
	b.WriteString(strings.Repeat("=", separatorWidth) + "\n")
	for _, e := range errors {
		b.WriteString("FILE: " + e.RelPath + "\n")
		b.WriteString("ERROR: " + e.Message + "\n")
		b.WriteString(separator + "\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write error report: %w", err)
	}
	return nil
}

// writeLines writes text lines joined with newlines, for the tree artifact.
func writeLines(path string, lines []string) error {
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
