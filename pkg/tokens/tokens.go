// Package tokens estimates how many language-model tokens a piece of text
// would consume. Two strategies exist: a byte-pair-encoding strategy backed
// by tiktoken, and a character-ratio heuristic used when the BPE tables are
// unavailable. The strategy is probed once at startup and fixed for the
// whole run, so all estimates within one execution are comparable.
package tokens

import (
	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"
)

// CharsPerToken is the heuristic ratio of characters to tokens for English
// text and source code. The heuristic is a bound, never an exact count.
const CharsPerToken = 4

// encodingName selects the BPE table used by the precise strategy.
const encodingName = "cl100k_base"

// Estimator estimates a token count for a text body.
type Estimator interface {
	// Name identifies the strategy; it participates in the configuration
	// fingerprint so a strategy switch invalidates cached counts.
	Name() string
	Estimate(text string) int
}

// Heuristic estimates tokens from character density.
type Heuristic struct{}

func (Heuristic) Name() string { return "heuristic" }

// Estimate returns the ceiling of len(text) / CharsPerToken.
func (Heuristic) Estimate(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + CharsPerToken - 1) / CharsPerToken
}

// BPE estimates tokens with a real byte-pair encoding.
type BPE struct {
	encoding *tiktoken.Tiktoken
}

func (b *BPE) Name() string { return "bpe/" + encodingName }

func (b *BPE) Estimate(text string) int {
	if text == "" {
		return 0
	}
	return len(b.encoding.Encode(text, nil, nil))
}

// Select probes for the BPE tables once and returns the most precise
// available estimator. Called at pipeline startup; the returned strategy is
// fixed for the run.
func Select(logger *zap.Logger) Estimator {
	if logger == nil {
		logger = zap.NewNop()
	}

	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		logger.Warn("BPE encoding unavailable, falling back to heuristic estimation",
			zap.String("encoding", encodingName),
			zap.Error(err))
		return Heuristic{}
	}

	logger.Debug("Selected BPE token estimator", zap.String("encoding", encodingName))
	return &BPE{encoding: encoding}
}
