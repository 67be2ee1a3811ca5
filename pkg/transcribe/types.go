// File: pkg/transcribe/types.go
package transcribe

// Arguments holds the configuration options for a transcription run.
type Arguments struct {
	Directory        string   // Project root to process.
	OutputDir        string   // Destination directory for all artifacts. Defaults to <Directory>/transcription.
	Prefix           string   // Filename prefix for generated artifacts.
	IncludePatterns  []string // Doublestar globs a file must match when non-empty.
	ExcludePatterns  []string // Additional exclude globs layered over the defaults.
	IgnoreFile       string   // Optional extra gitignore-syntax pattern file.
	RespectGitignore bool     // Load <Directory>/.gitignore when present.
	MaxFileSizeKB    int      // Files larger than this are skipped during the scan.
	MaxWorkers       int      // Worker pool size; <= 0 selects available parallelism.
	GenerateTree     bool     // Emit the directory tree artifact alongside the context file.
	ProcessTests     bool     // Transcribe files classified as tests.
	ProcessResources bool     // Transcribe files classified as resources.
	Sanitize         bool     // Redact secrets, emails, and IPs from transcribed content.
	Minify           bool     // Strip line comments and collapse blank runs to cut token spend.
	Overwrite        bool     // Allow replacing existing output artifacts.
	DryRun           bool     // Resolve paths and scan, but write nothing.
	NoCache          bool     // Disable the content-hash cache for this run.
}

// Error records a recoverable per-file failure. Immutable once created.
type Error struct {
	RelPath string // File path relative to the input root.
	Message string // Description of the failure.
}

// PipelineResult is the contract exposed to CLI callers. It is finalized
// once, after all workers complete, and read-only thereafter.
type PipelineResult struct {
	Processed   int     // Files transcribed with fresh token estimation.
	Skipped     int     // Files credited from the cache (content unchanged).
	Filtered    int     // Candidates dropped by processing-depth flags.
	TotalTokens int     // Sum of fresh and cached token counts.
	Errors      []Error // Per-file failures, ordered by relative path.

	Candidates   int    // Total candidates produced by the scan.
	Estimator    string // Token strategy identity used for the whole run.
	OutputPath   string // Final context artifact location.
	TreePath     string // Directory tree artifact, "" when disabled.
	ErrorLogPath string // Errors report, "" when no errors were recorded.
	DryRun       bool
}
