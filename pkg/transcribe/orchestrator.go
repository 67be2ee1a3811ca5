// Package transcribe orchestrates the concurrent scan-filter-transcribe
// pipeline: it prepares the output environment, compiles filtering rules,
// scans the project tree, partitions the work list across a bounded worker
// pool, and assembles the final context artifact in deterministic order.
package transcribe

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"transcriptor/pkg/cache"
	"transcriptor/pkg/filter"
	"transcriptor/pkg/scanner"
	"transcriptor/pkg/tokens"
	"transcriptor/pkg/tree"

	"go.uber.org/zap"
)

// runState tracks the orchestrator lifecycle. FailedFatal is reachable only
// before any worker has been dispatched.
type runState int

const (
	stateInit runState = iota
	stateDispatching
	stateAwaitingWorkers
	stateAggregating
	stateDone
	stateFailedFatal
)

func (s runState) String() string {
	switch s {
	case stateInit:
		return "INIT"
	case stateDispatching:
		return "DISPATCHING"
	case stateAwaitingWorkers:
		return "AWAITING_WORKERS"
	case stateAggregating:
		return "AGGREGATING"
	case stateDone:
		return "DONE"
	case stateFailedFatal:
		return "FAILED_FATAL"
	}
	return "UNKNOWN"
}

// Run executes the full pipeline. Per-file failures are recorded in the
// result and never abort the run; setup failures and output write failures
// are fatal and returned as a single error with no partial counts.
func Run(ctx context.Context, args *Arguments, logger *zap.Logger) (*PipelineResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return run(ctx, args, tokens.Select(logger), logger)
}

// run is Run with an injected estimator, so tests can pin the strategy.
func run(ctx context.Context, args *Arguments, estimator tokens.Estimator, logger *zap.Logger) (*PipelineResult, error) {
	startTime := time.Now()
	state := stateInit
	logger.Debug("Pipeline state", zap.String("state", state.String()))

	// --- INIT: environment, rules, fingerprint, cache ---

	env, err := prepareEnvironment(args, logger)
	if err != nil {
		state = stateFailedFatal
		logger.Error("Pipeline setup failed", zap.String("state", state.String()), zap.Error(err))
		return nil, fmt.Errorf("pipeline setup failed: %w", err)
	}

	excludes := append(append([]string{}, filter.DefaultExcludes...), args.ExcludePatterns...)
	if relOut := env.relativeOutputDir(); relOut != "" {
		excludes = append(excludes, relOut)
	}

	var ignoreFiles []string
	if args.RespectGitignore {
		ignoreFiles = append(ignoreFiles, filepath.Join(env.inputDir, ".gitignore"))
	}
	if args.IgnoreFile != "" {
		ignoreFiles = append(ignoreFiles, args.IgnoreFile)
	}

	rules, err := filter.Compile(filter.Rules{
		Include:     args.IncludePatterns,
		Exclude:     excludes,
		IgnoreFiles: ignoreFiles,
		Root:        env.inputDir,
	}, logger)
	if err != nil {
		state = stateFailedFatal
		logger.Error("Pipeline setup failed", zap.String("state", state.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to compile filtering rules: %w", err)
	}

	fingerprint := cache.Fingerprint(fingerprintParts(args, rules, estimator))

	var fileCache *cache.Cache
	if !args.NoCache && !args.DryRun {
		fileCache = cache.Load(env.cachePath, fingerprint, logger)
	}

	// --- Scan: deterministic work list ---

	candidates, issues, err := scanner.Scan(env.inputDir, rules, scanner.Options{
		MaxFileSizeKB: args.MaxFileSizeKB,
	}, logger)
	if err != nil {
		state = stateFailedFatal
		logger.Error("Pipeline scan failed", zap.String("state", state.String()), zap.Error(err))
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	result := &PipelineResult{
		Candidates: len(candidates),
		Estimator:  estimator.Name(),
		OutputPath: env.outputPath,
		TreePath:   env.treePath,
		DryRun:     args.DryRun,
	}
	for _, issue := range issues {
		result.Errors = append(result.Errors, Error{RelPath: issue.RelPath, Message: issue.Message})
	}

	if args.DryRun {
		logger.Info("Dry run complete",
			zap.Int("candidates", len(candidates)),
			zap.String("outputPath", env.outputPath))
		return result, nil
	}

	// Processing-depth routing: the classification tags annotate, the flags
	// decide. Dropped candidates are neither errors nor cache skips.
	work := make([]scanner.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		switch candidate.Class {
		case filter.ClassTest:
			if !args.ProcessTests {
				result.Filtered++
				continue
			}
		case filter.ClassResource:
			if !args.ProcessResources {
				result.Filtered++
				continue
			}
		}
		work = append(work, candidate)
	}

	// --- DISPATCHING / AWAITING_WORKERS ---

	maxWorkers := args.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	state = stateDispatching
	logger.Debug("Pipeline state", zap.String("state", state.String()),
		zap.Int("workers", maxWorkers), zap.Int("files", len(work)))

	entries, workerErrs := runWorkers(ctx, work, maxWorkers, estimator, fileCache, args.Sanitize, args.Minify, logger)
	state = stateAwaitingWorkers
	logger.Debug("Pipeline state", zap.String("state", state.String()))
	result.Errors = append(result.Errors, workerErrs...)

	// --- AGGREGATING: ordered write, tree, error report, cache flush ---

	state = stateAggregating
	logger.Debug("Pipeline state", zap.String("state", state.String()))

	ordered := make([]string, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			continue // failed or dropped by cancellation
		}
		ordered = append(ordered, e.text)
		result.TotalTokens += e.tokens
		if e.cached {
			result.Skipped++
		} else {
			result.Processed++
		}
	}

	if err := writeArtifact(env.staging(env.outputPath), ordered); err != nil {
		env.cleanup()
		logger.Error("Fatal write failure", zap.Error(err))
		return nil, err
	}

	finalPaths := []string{env.outputPath}

	if env.treePath != "" {
		relPaths := make([]string, len(candidates))
		for i, candidate := range candidates {
			relPaths[i] = candidate.RelPath
		}
		treeLines := tree.Render(tree.Build(filepath.Base(env.inputDir), relPaths))
		if err := writeLines(env.staging(env.treePath), treeLines); err != nil {
			env.cleanup()
			return nil, err
		}
		finalPaths = append(finalPaths, env.treePath)
	}

	sort.Slice(result.Errors, func(i, j int) bool {
		return result.Errors[i].RelPath < result.Errors[j].RelPath
	})
	if len(result.Errors) > 0 {
		if err := writeErrorReport(env.staging(env.errorLogPath), result.Errors); err != nil {
			env.cleanup()
			return nil, err
		}
		finalPaths = append(finalPaths, env.errorLogPath)
		result.ErrorLogPath = env.errorLogPath
	}

	if err := env.commit(finalPaths); err != nil {
		env.cleanup()
		return nil, err
	}

	if fileCache != nil {
		if err := fileCache.Flush(); err != nil {
			// A stale cache only costs re-estimation next run.
			logger.Warn("Failed to persist cache", zap.Error(err))
		}
	}

	state = stateDone
	logger.Info("Transcription complete",
		zap.String("state", state.String()),
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
		zap.Int("filtered", result.Filtered),
		zap.Int("errors", len(result.Errors)),
		zap.Int("totalTokens", result.TotalTokens),
		zap.String("outputPath", result.OutputPath),
		zap.Duration("elapsed", time.Since(startTime)))
	return result, nil
}

// fingerprintParts canonicalizes the active configuration. Any change to
// the filtering rules or the token strategy yields a new fingerprint and
// forces full reprocessing regardless of per-file hashes.
func fingerprintParts(args *Arguments, rules *filter.RuleSet, estimator tokens.Estimator) []string {
	return []string{
		"include:" + strings.Join(args.IncludePatterns, ","),
		"exclude:" + strings.Join(args.ExcludePatterns, ","),
		"ignore:" + strings.Join(rules.IgnoreLines(), ","),
		fmt.Sprintf("tests:%t resources:%t sanitize:%t minify:%t",
			args.ProcessTests, args.ProcessResources, args.Sanitize, args.Minify),
		"estimator:" + estimator.Name(),
	}
}
