// File: cmd/transcribe.go
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"transcriptor/pkg/logging"
	"transcriptor/pkg/transcribe"
	"transcriptor/pkg/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var transcribeArgs transcribe.Arguments

// transcribeCmd runs the scan-filter-transcribe pipeline.
var transcribeCmd = &cobra.Command{
	Use:   "run",
	Short: "Transcribe a project directory into a single context file",
	Long: `Walk the target directory, filter files through glob and gitignore rules,
estimate token usage, and concatenate the selected files into one context
artifact. Files whose content is unchanged since the previous run are
credited from the cache instead of being re-estimated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := rootLogger

		debug, err := cmd.Flags().GetBool("debug")
		if err != nil {
			return fmt.Errorf("error reading flags: %w", err)
		}
		if debug {
			if err := logging.Setup(true, "Transcriptor", version.Get().Version); err != nil {
				logger.Warn("Failed to switch to debug logging", zap.Error(err))
			} else {
				logger = logging.Logger
			}
		}

		// Interrupt drops queued candidates; in-flight files finish so the
		// staged artifact is never torn.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		result, err := transcribe.Run(ctx, &transcribeArgs, logger)
		if err != nil {
			return err
		}

		if result.DryRun {
			fmt.Printf("Dry run: %d candidate files, output would be written to %s\n",
				result.Candidates, result.OutputPath)
			return nil
		}

		fmt.Printf("Transcribed %d files (%d cached, %d filtered), ~%d tokens (%s)\n",
			result.Processed, result.Skipped, result.Filtered, result.TotalTokens, result.Estimator)
		fmt.Printf("Output: %s\n", result.OutputPath)
		if result.TreePath != "" {
			fmt.Printf("Tree:   %s\n", result.TreePath)
		}
		if len(result.Errors) > 0 {
			fmt.Printf("%d files failed, see %s\n", len(result.Errors), result.ErrorLogPath)
		}
		return nil
	},
}

func init() {
	f := transcribeCmd.Flags()

	f.StringVarP(&transcribeArgs.Directory, "directory", "d", ".", "Project directory to transcribe")
	f.StringVarP(&transcribeArgs.OutputDir, "out-dir", "o", "", "Output directory (default <directory>/transcription)")
	f.StringVar(&transcribeArgs.Prefix, "prefix", "transcription", "Filename prefix for generated artifacts")
	f.StringArrayVarP(&transcribeArgs.IncludePatterns, "include", "i", nil, "Glob a file must match to be transcribed (repeatable)")
	f.StringArrayVarP(&transcribeArgs.ExcludePatterns, "exclude", "e", nil, "Glob that excludes files (repeatable)")
	f.StringVar(&transcribeArgs.IgnoreFile, "ignore-file", "", "Extra gitignore-syntax pattern file")
	f.BoolVar(&transcribeArgs.RespectGitignore, "respect-gitignore", true, "Apply the project's .gitignore")
	f.IntVar(&transcribeArgs.MaxFileSizeKB, "max-file-size", 1024, "Maximum file size to transcribe, in KB")
	f.IntVarP(&transcribeArgs.MaxWorkers, "workers", "w", 0, "Worker pool size (0 = number of CPUs)")
	f.BoolVar(&transcribeArgs.GenerateTree, "tree", false, "Also write a directory tree artifact")
	f.BoolVar(&transcribeArgs.ProcessTests, "tests", true, "Transcribe files classified as tests")
	f.BoolVar(&transcribeArgs.ProcessResources, "resources", true, "Transcribe files classified as resources")
	f.BoolVar(&transcribeArgs.Sanitize, "sanitize", false, "Redact secrets, emails, and IPs from content")
	f.BoolVar(&transcribeArgs.Minify, "minify", false, "Strip line comments and collapse blank lines to reduce token usage")
	f.BoolVar(&transcribeArgs.Overwrite, "overwrite", false, "Replace existing output artifacts")
	f.BoolVar(&transcribeArgs.DryRun, "dry-run", false, "Resolve paths and scan without writing anything")
	f.BoolVar(&transcribeArgs.NoCache, "no-cache", false, "Disable the content-hash cache for this run")

	RootCmd.AddCommand(transcribeCmd)
}
