package filter

// DefaultExcludes contains patterns that are never useful in a transcription
// artifact. Bare names match any path element, so ignored directories are
// pruned wherever they appear in the tree. Applied unless the caller
// replaces them explicitly.
var DefaultExcludes = []string{
	// Version control
	".git", ".svn", ".hg",

	// Dependencies
	"node_modules", "bower_components", ".yarn", ".npm",

	// Build output
	"dist", "build", "target", "obj",

	// Caches and environments
	"__pycache__", "*.pyc",
	".venv", "venv",
	".idea", ".vscode", ".vs",
	".cache", "coverage", ".nyc_output", "htmlcov",

	// OS noise
	".DS_Store", "Thumbs.db", "desktop.ini",

	// Editor leftovers
	"*.swp", "*.swo", "*~",
}
