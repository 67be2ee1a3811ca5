package filter

import (
	"os"
	"path/filepath"
	"testing"
)

func mustCompile(t *testing.T, rules Rules) *RuleSet {
	t.Helper()
	rs, err := Compile(rules, nil)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	return rs
}

func Test_Decide_DefaultInclusion(t *testing.T) {
	rs := mustCompile(t, Rules{})

	if d := rs.Decide("src/main.go", false); !d.Include() {
		t.Errorf("expected inclusion by default, got %s", d)
	}
}

func Test_Decide_IsPure(t *testing.T) {
	rs := mustCompile(t, Rules{Include: []string{"**/*.go"}, Exclude: []string{"vendor"}})

	paths := []string{"src/main.go", "vendor/lib.go", "README.md"}
	for _, p := range paths {
		first := rs.Decide(p, false)
		for i := 0; i < 5; i++ {
			if got := rs.Decide(p, false); got != first {
				t.Fatalf("Decide(%q) not stable: %s then %s", p, first, got)
			}
		}
	}
}

func Test_Decide_ExcludeWins(t *testing.T) {
	rs := mustCompile(t, Rules{
		Include: []string{"**/*.go"},
		Exclude: []string{"**/*.go"},
	})

	if d := rs.Decide("src/main.go", false); d != ExcludedByPattern {
		t.Errorf("expected exclude to win over include, got %s", d)
	}
}

func Test_Decide_IncludeWhitelist(t *testing.T) {
	rs := mustCompile(t, Rules{Include: []string{"**/*.py"}})

	if d := rs.Decide("app/main.py", false); !d.Include() {
		t.Errorf("expected .py file to be included, got %s", d)
	}
	if d := rs.Decide("app/main.go", false); d != ExcludedByInclude {
		t.Errorf("expected .go file to miss the whitelist, got %s", d)
	}
}

func Test_Decide_IncludeNeverRejectsDirectories(t *testing.T) {
	rs := mustCompile(t, Rules{Include: []string{"**/*.py"}})

	if d := rs.Decide("app", true); !d.Include() {
		t.Errorf("directories must pass the include stage for traversal, got %s", d)
	}
}

func Test_Decide_BasenamePattern(t *testing.T) {
	rs := mustCompile(t, Rules{Exclude: []string{"node_modules"}})

	if d := rs.Decide("web/node_modules", true); d != ExcludedByPattern {
		t.Errorf("expected nested node_modules to be excluded, got %s", d)
	}
	if d := rs.Decide("web/src/app.js", false); !d.Include() {
		t.Errorf("expected unrelated path to be included, got %s", d)
	}
}

func Test_Decide_IgnoreFilePatterns(t *testing.T) {
	tmpDir := t.TempDir()
	ignorePath := filepath.Join(tmpDir, ".gitignore")
	if err := os.WriteFile(ignorePath, []byte("*.log\nsecret/\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rs := mustCompile(t, Rules{IgnoreFiles: []string{ignorePath}, Root: tmpDir})

	if d := rs.Decide("debug.log", false); d != ExcludedByIgnoreFile {
		t.Errorf("expected *.log to be excluded by ignore file, got %s", d)
	}
	if d := rs.Decide("secret", true); d != ExcludedByIgnoreFile {
		t.Errorf("expected secret/ directory to be excluded, got %s", d)
	}
	if d := rs.Decide("main.go", false); !d.Include() {
		t.Errorf("expected main.go to be included, got %s", d)
	}
}

func Test_Decide_IgnoreFileNegation(t *testing.T) {
	tmpDir := t.TempDir()
	ignorePath := filepath.Join(tmpDir, ".gitignore")
	if err := os.WriteFile(ignorePath, []byte("*.log\n!keep.log\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rs := mustCompile(t, Rules{IgnoreFiles: []string{ignorePath}, Root: tmpDir})

	if d := rs.Decide("debug.log", false); d != ExcludedByIgnoreFile {
		t.Errorf("expected debug.log excluded, got %s", d)
	}
	if d := rs.Decide("keep.log", false); !d.Include() {
		t.Errorf("expected negated keep.log included, got %s", d)
	}
}

func Test_Compile_MissingIgnoreFileIsNotAnError(t *testing.T) {
	tmpDir := t.TempDir()
	rs, err := Compile(Rules{
		IgnoreFiles: []string{filepath.Join(tmpDir, ".gitignore")},
		Root:        tmpDir,
	}, nil)
	if err != nil {
		t.Fatalf("missing ignore file must not fail compilation: %v", err)
	}
	if len(rs.IgnoreLines()) != 0 {
		t.Errorf("expected no ignore lines, got %d", len(rs.IgnoreLines()))
	}
}

func Test_Compile_InvalidGlobFails(t *testing.T) {
	if _, err := Compile(Rules{Include: []string{"[unclosed"}}, nil); err == nil {
		t.Error("expected invalid glob pattern to fail compilation")
	}
}

func Test_Compile_IgnoreLinesSkipCommentsAndBlanks(t *testing.T) {
	tmpDir := t.TempDir()
	ignorePath := filepath.Join(tmpDir, ".gitignore")
	content := "# build output\n\ndist/\n*.tmp\n"
	if err := os.WriteFile(ignorePath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rs := mustCompile(t, Rules{IgnoreFiles: []string{ignorePath}, Root: tmpDir})

	lines := rs.IgnoreLines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 pattern lines, got %d: %v", len(lines), lines)
	}
	if lines[0] != "dist/" || lines[1] != "*.tmp" {
		t.Errorf("unexpected pattern lines: %v", lines)
	}
}

func Test_DefaultExcludes_CoverCommonNoise(t *testing.T) {
	rs := mustCompile(t, Rules{Exclude: DefaultExcludes})

	for _, dir := range []string{".git", "node_modules", "__pycache__", ".venv"} {
		if d := rs.Decide(dir, true); d.Include() {
			t.Errorf("expected default excludes to cover %s", dir)
		}
	}
	if d := rs.Decide("cmd/root.go", false); !d.Include() {
		t.Errorf("expected source file to survive default excludes, got %s", d)
	}
}
