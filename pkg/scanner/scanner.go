// Package scanner walks a project tree in deterministic order and produces
// the work list for the transcription pipeline. Unreadable entries are
// recorded, never fatal; only an inaccessible root aborts the scan.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"transcriptor/pkg/filter"

	"go.uber.org/zap"
)

// Candidate is a file selected for possible transcription.
// Immutable; consumed once by a single worker.
type Candidate struct {
	AbsPath string       // Absolute filesystem path.
	RelPath string       // Path relative to the scan root, forward slashes.
	Class   filter.Class // module / test / resource annotation.
}

// Issue records a directory entry that could not be read during the scan.
type Issue struct {
	RelPath string
	Message string
}

// Options bounds the scan.
type Options struct {
	MaxFileSizeKB int // Files larger than this are skipped. <= 0 means 1024.
}

// Scan walks root depth-first with filepath.WalkDir, which visits entries in
// lexical order, so repeated scans of an unchanged tree yield an identical
// candidate ordering. Ignored directories are pruned; files are filtered
// through the compiled rule set and annotated with their classification.
func Scan(root string, rules *filter.RuleSet, opts Options, logger *zap.Logger) ([]Candidate, []Issue, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve scan root: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("scan root is not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("scan root is not a directory: %s", absRoot)
	}

	maxSize := int64(opts.MaxFileSizeKB) * 1024
	if opts.MaxFileSizeKB <= 0 {
		maxSize = 1024 * 1024
	}

	var candidates []Candidate
	var issues []Issue

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		relPath, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		if err != nil {
			logger.Warn("Error accessing path during scan", zap.String("path", path), zap.Error(err))
			issues = append(issues, Issue{RelPath: relPath, Message: err.Error()})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path == absRoot {
			return nil
		}

		if d.IsDir() {
			if !rules.Decide(relPath, true).Include() {
				logger.Debug("Pruning ignored directory", zap.String("path", relPath))
				return filepath.SkipDir
			}
			return nil
		}

		decision := rules.Decide(relPath, false)
		if !decision.Include() {
			logger.Debug("Skipping file", zap.String("path", relPath), zap.String("reason", decision.String()))
			return nil
		}

		fileInfo, infoErr := d.Info()
		if infoErr != nil {
			logger.Warn("Failed to stat file during scan", zap.String("path", relPath), zap.Error(infoErr))
			issues = append(issues, Issue{RelPath: relPath, Message: infoErr.Error()})
			return nil
		}
		if !fileInfo.Mode().IsRegular() {
			if fileInfo.Mode()&fs.ModeSymlink != 0 {
				// A dangling link is a real failure, not a quiet skip.
				if _, statErr := os.Stat(path); statErr != nil {
					logger.Warn("Broken symlink during scan", zap.String("path", relPath), zap.Error(statErr))
					issues = append(issues, Issue{RelPath: relPath, Message: statErr.Error()})
					return nil
				}
			}
			logger.Debug("Skipping non-regular file", zap.String("path", relPath))
			return nil
		}
		if fileInfo.Size() > maxSize {
			logger.Debug("Skipping file over size limit",
				zap.String("path", relPath),
				zap.Int64("sizeBytes", fileInfo.Size()))
			return nil
		}

		candidates = append(candidates, Candidate{
			AbsPath: path,
			RelPath: relPath,
			Class:   filter.Classify(filepath.Base(path)),
		})
		return nil
	})
	if walkErr != nil {
		return nil, nil, fmt.Errorf("scan failed: %w", walkErr)
	}

	logger.Debug("Scan complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("issues", len(issues)))
	return candidates, issues, nil
}
