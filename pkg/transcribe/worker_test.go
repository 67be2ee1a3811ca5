package transcribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"transcriptor/pkg/scanner"
	"transcriptor/pkg/tokens"

	"go.uber.org/zap"
)

func Test_RunWorkers_PreCancelledDispatchesNothing(t *testing.T) {
	dir := t.TempDir()
	candidates := make([]scanner.Candidate, 20)
	for i := range candidates {
		name := fmt.Sprintf("f%02d.py", i)
		absPath := filepath.Join(dir, name)
		if err := os.WriteFile(absPath, []byte("x = 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		candidates[i] = scanner.Candidate{AbsPath: absPath, RelPath: name}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// An already-cancelled context must never hand out work, even when
	// workers are sitting idle ready to receive.
	for i := 0; i < 50; i++ {
		entries, errs := runWorkers(ctx, candidates, 4, tokens.Heuristic{}, nil, false, false, zap.NewNop())
		for idx, e := range entries {
			if e != nil {
				t.Fatalf("iteration %d: candidate %d was dispatched after cancellation", i, idx)
			}
		}
		if len(errs) != 0 {
			t.Fatalf("iteration %d: dropped candidates must not be errors: %v", i, errs)
		}
	}
}
