// Package filter compiles inclusion/exclusion rules and classifies candidate
// paths for the transcription pipeline. Rules are layered: ignore-file
// patterns (gitignore semantics) exclude first, explicit exclude globs next,
// and when any include glob is configured a file must match one to survive.
// A path matching both an include and an exclude is always excluded.
package filter

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
	"go.uber.org/zap"
)

// Rules holds the raw filtering configuration before compilation.
type Rules struct {
	Include     []string // Doublestar globs a file must match when non-empty.
	Exclude     []string // Doublestar globs that exclude a file.
	IgnoreFiles []string // Paths to gitignore-syntax pattern files. Missing files are skipped.
	Root        string   // Base directory for ignore-file semantics.
}

// Decision is the outcome of evaluating a path against a compiled rule set.
type Decision int

const (
	Included Decision = iota
	ExcludedByIgnoreFile
	ExcludedByPattern
	ExcludedByInclude
)

// Include reports whether the decision keeps the path in the pipeline.
func (d Decision) Include() bool {
	return d == Included
}

func (d Decision) String() string {
	switch d {
	case Included:
		return "included"
	case ExcludedByIgnoreFile:
		return "excluded (ignore file)"
	case ExcludedByPattern:
		return "excluded (pattern)"
	case ExcludedByInclude:
		return "excluded (no include match)"
	}
	return "unknown"
}

// RuleSet is an immutable, compiled set of filtering rules.
// Decide is a pure function of the compiled state and its arguments.
type RuleSet struct {
	include     []string
	exclude     []string
	ignores     []gitignore.GitIgnore
	ignoreLines []string // raw pattern lines, preserved for fingerprinting
}

// Compile validates the glob patterns and loads the ignore files.
// Absent ignore files are not an error; invalid globs are.
func Compile(rules Rules, logger *zap.Logger) (*RuleSet, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, pattern := range append(append([]string{}, rules.Include...), rules.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}

	rs := &RuleSet{
		include: append([]string{}, rules.Include...),
		exclude: append([]string{}, rules.Exclude...),
	}

	for _, ignorePath := range rules.IgnoreFiles {
		gi, lines, err := loadIgnoreFile(ignorePath, rules.Root)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Debug("Ignore file not found, skipping", zap.String("path", ignorePath))
				continue
			}
			return nil, fmt.Errorf("failed to load ignore file %s: %w", ignorePath, err)
		}
		rs.ignores = append(rs.ignores, gi)
		rs.ignoreLines = append(rs.ignoreLines, lines...)
		logger.Debug("Loaded ignore file", zap.String("path", ignorePath), zap.Int("lines", len(lines)))
	}

	logger.Debug("Compiled rule set",
		zap.Int("includeGlobs", len(rs.include)),
		zap.Int("excludeGlobs", len(rs.exclude)),
		zap.Int("ignoreFiles", len(rs.ignores)))
	return rs, nil
}

// Decide classifies relPath (forward slashes, relative to the root) as
// included or excluded. Layering order: ignore files, exclude globs,
// include globs. Directories are never rejected by include globs so that
// traversal can still reach matching files beneath them.
func (rs *RuleSet) Decide(relPath string, isDir bool) Decision {
	relPath = strings.TrimPrefix(relPath, "./")

	for _, gi := range rs.ignores {
		// Relative() does not require the file to exist on disk.
		if match := gi.Relative(relPath, isDir); match != nil && match.Ignore() {
			return ExcludedByIgnoreFile
		}
	}

	for _, pattern := range rs.exclude {
		if matchGlob(pattern, relPath) {
			return ExcludedByPattern
		}
	}

	if len(rs.include) > 0 && !isDir {
		for _, pattern := range rs.include {
			if matchGlob(pattern, relPath) {
				return Included
			}
		}
		return ExcludedByInclude
	}

	return Included
}

// IgnoreLines returns the raw pattern lines loaded from all ignore files,
// in load order. Used to build the configuration fingerprint.
func (rs *RuleSet) IgnoreLines() []string {
	return rs.ignoreLines
}

// matchGlob matches a doublestar pattern against the relative path and,
// for basename-style patterns, against the final path element.
func matchGlob(pattern, relPath string) bool {
	if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
		return true
	}
	if !strings.Contains(pattern, "/") {
		if ok, err := doublestar.Match(pattern, path.Base(relPath)); err == nil && ok {
			return true
		}
	}
	return false
}

// loadIgnoreFile reads a gitignore-syntax file and returns its matcher plus
// the raw pattern lines (comments and blanks stripped).
func loadIgnoreFile(filePath, baseDir string) (gitignore.GitIgnore, []string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, err
	}

	gi := gitignore.New(bytes.NewReader(content), baseDir, nil)

	var lines []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return gi, lines, nil
}
