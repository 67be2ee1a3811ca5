// File: pkg/transcribe/setup.go
package transcribe

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// cacheFileName is the hidden cache store kept next to the artifacts.
// It is never part of collision detection.
const cacheFileName = ".transcriptor_cache.json"

// environment holds the resolved filesystem state for one run. The core
// writes only to staging paths; finished artifacts are renamed into place
// on success so a failed run never leaves a torn output file.
type environment struct {
	inputDir  string
	outputDir string

	outputPath   string // final context artifact
	treePath     string // "" when tree generation is disabled
	errorLogPath string
	cachePath    string
}

// staging returns the temporary path the core writes to for a final path.
func (e *environment) staging(finalPath string) string {
	return finalPath + ".tmp"
}

// prepareEnvironment normalizes paths, validates the input directory,
// detects collisions with existing artifacts, and creates the output
// directory. Failures here are fatal: no work has started yet.
func prepareEnvironment(args *Arguments, logger *zap.Logger) (*environment, error) {
	inputDir, err := filepath.Abs(args.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve input directory: %w", err)
	}
	info, err := os.Stat(inputDir)
	if err != nil {
		return nil, fmt.Errorf("input directory is not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input path is not a directory: %s", inputDir)
	}

	outputDir := args.OutputDir
	if outputDir == "" {
		outputDir = filepath.Join(inputDir, "transcription")
	}
	outputDir, err = filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}

	prefix := strings.TrimSpace(args.Prefix)
	if prefix == "" {
		prefix = "transcription"
	}

	env := &environment{
		inputDir:     inputDir,
		outputDir:    outputDir,
		outputPath:   filepath.Join(outputDir, prefix+"_context.txt"),
		errorLogPath: filepath.Join(outputDir, prefix+"_errors.txt"),
		cachePath:    filepath.Join(outputDir, cacheFileName),
	}
	if args.GenerateTree {
		env.treePath = filepath.Join(outputDir, prefix+"_tree.txt")
	}

	// Collision detection: refuse to clobber prior artifacts unless allowed.
	if !args.Overwrite && !args.DryRun {
		var existing []string
		for _, p := range []string{env.outputPath, env.treePath, env.errorLogPath} {
			if p == "" {
				continue
			}
			if _, statErr := os.Stat(p); statErr == nil {
				existing = append(existing, filepath.Base(p))
			}
		}
		if len(existing) > 0 {
			return nil, fmt.Errorf("output files already exist and overwrite is disabled: %s",
				strings.Join(existing, ", "))
		}
	}

	if !args.DryRun {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}

	logger.Debug("Prepared environment",
		zap.String("inputDir", inputDir),
		zap.String("outputDir", outputDir))
	return env, nil
}

// commit atomically swaps each staged artifact into its final location.
func (e *environment) commit(finalPaths []string) error {
	for _, finalPath := range finalPaths {
		if finalPath == "" {
			continue
		}
		if err := os.Rename(e.staging(finalPath), finalPath); err != nil {
			return fmt.Errorf("failed to finalize artifact %s: %w", finalPath, err)
		}
	}
	return nil
}

// cleanup removes any staging leftovers after a failed run.
func (e *environment) cleanup() {
	for _, finalPath := range []string{e.outputPath, e.treePath, e.errorLogPath} {
		if finalPath == "" {
			continue
		}
		os.Remove(e.staging(finalPath))
	}
}

// relativeOutputDir returns the output directory relative to the input
// directory when it is nested inside it, so the scanner can exclude the
// pipeline's own artifacts. Returns "" otherwise.
func (e *environment) relativeOutputDir() string {
	rel, err := filepath.Rel(e.inputDir, e.outputDir)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	return filepath.ToSlash(rel)
}
