// File: pkg/filter/classify.go
package filter

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Class annotates a candidate for downstream processing-depth decisions.
// Classification never excludes a file by itself.
type Class int

const (
	ClassModule Class = iota
	ClassTest
	ClassResource
)

func (c Class) String() string {
	switch c {
	case ClassTest:
		return "test"
	case ClassResource:
		return "resource"
	}
	return "module"
}

// testNamePattern covers polyglot test naming conventions: Python (test_*),
// Java/C# (Test*/*Test), JS/TS (*.spec/*.test), Go (*_test), and e2e suites.
var testNamePattern = regexp.MustCompile(
	`(?i)^(test_.*|.*_test|Test.*|.*Test|.*Tests|.*TestCase|.*\.spec|.*\.test|.*\.e2e|.*\.cy)` +
		`\.(py|js|ts|jsx|tsx|java|kt|go|rs|cs|cpp|c|h|hpp|swift|php)$`)

// resourceExtensions lists non-code extensions treated as project resources.
var resourceExtensions = map[string]bool{
	".md": true, ".markdown": true, ".rst": true, ".txt": true,
	".json": true, ".yaml": true, ".yml": true, ".toml": true, ".xml": true,
	".csv": true, ".ini": true, ".cfg": true, ".conf": true, ".properties": true,
	".dockerignore": true, ".editorconfig": true, ".css": true, ".env": true,
}

// resourceFilenames lists well-known resource files matched by exact name.
var resourceFilenames = map[string]bool{
	"Dockerfile": true, "Makefile": true, "LICENSE": true, "CHANGELOG": true,
	"README": true, "Gemfile": true, "Procfile": true,
	".dockerignore": true, ".editorconfig": true, ".env": true, ".gitignore": true,
}

// Classify tags a filename as module, test, or resource using naming
// heuristics. The tag only routes processing depth; it never filters.
func Classify(fileName string) Class {
	if testNamePattern.MatchString(fileName) {
		return ClassTest
	}
	if resourceFilenames[fileName] {
		return ClassResource
	}
	if resourceExtensions[strings.ToLower(filepath.Ext(fileName))] {
		return ClassResource
	}
	return ClassModule
}
