// File: pkg/transcribe/minify.go
package transcribe

import (
	"path"
	"regexp"
	"strings"
	"unicode"
)

// Comment syntax is decided per file from its extension. Extensions with no
// known syntax still get whitespace trimming and blank-line collapsing.
var (
	hashCommentPattern  = regexp.MustCompile(`#.*`)
	slashCommentPattern = regexp.MustCompile(`//.*`)
)

var hashCommentExtensions = map[string]bool{
	".py": true, ".yaml": true, ".yml": true, ".sh": true, ".bash": true,
}

var slashCommentExtensions = map[string]bool{
	".js": true, ".ts": true, ".jsx": true, ".tsx": true, ".java": true,
	".c": true, ".cpp": true, ".h": true, ".hpp": true, ".cs": true, ".go": true,
}

// minifier strips line comments and trailing whitespace and collapses runs
// of blank lines down to a single one, cutting token spend without changing
// the code's meaning. It is stateful across the lines of one file and must
// not be shared between files.
type minifier struct {
	comment *regexp.Regexp // nil when the extension has no known line-comment syntax
	blanks  int
}

func newMinifier(filePath string) *minifier {
	ext := strings.ToLower(path.Ext(filePath))
	m := &minifier{}
	switch {
	case hashCommentExtensions[ext]:
		m.comment = hashCommentPattern
	case slashCommentExtensions[ext]:
		m.comment = slashCommentPattern
	}
	return m
}

// Line transforms one line and reports whether it should be emitted.
// A line reduced to nothing counts toward the current blank run; only the
// first blank of a run survives, as an empty line.
func (m *minifier) Line(line string) (string, bool) {
	if m.comment != nil {
		line = m.comment.ReplaceAllString(line, "")
	}
	line = strings.TrimRightFunc(line, unicode.IsSpace)

	if line == "" {
		m.blanks++
		return "", m.blanks == 1
	}
	m.blanks = 0
	return line, true
}
