// File: pkg/transcribe/worker.go
package transcribe

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"

	"transcriptor/pkg/cache"
	"transcriptor/pkg/scanner"
	"transcriptor/pkg/stream"
	"transcriptor/pkg/tokens"

	"go.uber.org/zap"
)

// entry is one formatted transcription unit, buffered until the ordered
// write stage. Workers fill disjoint slots of a shared slice, so entries
// need no locking; only the error collector is a shared resource.
type entry struct {
	relPath string
	text    string // fully formatted entry, separator included
	tokens  int
	cached  bool
}

type job struct {
	index     int
	candidate scanner.Candidate
}

// runWorkers distributes candidates across a fixed-size pool sharing one
// job channel. Completion order is irrelevant: each worker stores its
// result at the candidate's scan index, and the caller writes the slice in
// that order. On cancellation, queued candidates are dropped without being
// marked as errors while in-flight candidates finish.
func runWorkers(
	ctx context.Context,
	candidates []scanner.Candidate,
	maxWorkers int,
	estimator tokens.Estimator,
	fileCache *cache.Cache,
	sanitize, minify bool,
	logger *zap.Logger,
) ([]*entry, []Error) {
	entries := make([]*entry, len(candidates))
	jobs := make(chan job)
	failures := make(chan Error)

	var wg sync.WaitGroup
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		workerLogger := logger.With(zap.Int("workerID", w))
		go func() {
			defer wg.Done()
			for jb := range jobs {
				result, failure := processCandidate(jb.candidate, estimator, fileCache, sanitize, minify)
				if failure != nil {
					workerLogger.Warn("Failed to process file",
						zap.String("path", failure.RelPath),
						zap.String("error", failure.Message))
					failures <- *failure
					continue
				}
				entries[jb.index] = result
			}
		}()
	}

	// Single collector goroutine owns the error list; workers only send.
	var errs []Error
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for failure := range failures {
			errs = append(errs, failure)
		}
	}()

dispatch:
	for i, candidate := range candidates {
		// Checked before the blocking send: when a cancel and a free worker
		// are both ready, the cancel must win.
		if ctx.Err() != nil {
			logger.Info("Dispatch cancelled, dropping remaining candidates",
				zap.Int("remaining", len(candidates)-i))
			break dispatch
		}
		select {
		case <-ctx.Done():
			logger.Info("Dispatch cancelled, dropping remaining candidates",
				zap.Int("remaining", len(candidates)-i))
			break dispatch
		case jobs <- job{index: i, candidate: candidate}:
		}
	}
	close(jobs)

	wg.Wait()
	close(failures)
	<-collectorDone

	return entries, errs
}

// processCandidate executes the full lifecycle for a single file: read raw
// bytes, hash them, consult the cache, decode resiliently, optionally
// sanitize and minify, and estimate tokens. A cache hit still yields the
// formatted entry (the bytes are already in hand from hashing) but credits
// the cached token count instead of re-estimating.
func processCandidate(
	candidate scanner.Candidate,
	estimator tokens.Estimator,
	fileCache *cache.Cache,
	sanitize, minify bool,
) (*entry, *Error) {
	raw, err := os.ReadFile(candidate.AbsPath)
	if err != nil {
		return nil, &Error{RelPath: candidate.RelPath, Message: err.Error()}
	}

	hash := cache.HashBytes(raw)

	var min *minifier
	if minify {
		min = newMinifier(candidate.RelPath)
	}

	sc := stream.NewScanner(bytes.NewReader(raw))
	var b strings.Builder
	b.Grow(len(raw))
	for sc.Scan() {
		line := sc.Text()
		if sanitize {
			line = SanitizeLine(line)
		}
		if min != nil {
			var keep bool
			if line, keep = min.Line(line); !keep {
				continue
			}
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if scanErr := sc.Err(); scanErr != nil {
		return nil, &Error{RelPath: candidate.RelPath, Message: scanErr.Error()}
	}
	content := b.String()

	result := &entry{
		relPath: candidate.RelPath,
		text:    formatEntry(candidate.RelPath, content),
	}

	if fileCache != nil && !fileCache.ShouldProcess(candidate.RelPath, hash) {
		result.tokens = fileCache.Tokens(candidate.RelPath)
		result.cached = true
		return result, nil
	}

	result.tokens = estimator.Estimate(content)
	if fileCache != nil {
		fileCache.Record(candidate.RelPath, hash, result.tokens)
	}
	return result, nil
}
