package game

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"wordbridge/internal/constants"
	util "wordbridge/internal/util"
)

// PuzzleProvider is the external generation collaborator. Implementations
// return a candidate puzzle without an ID; content validation happens here.
type PuzzleProvider interface {
	GeneratePuzzle(ctx context.Context, difficulty Difficulty, language Language) (*Puzzle, error)
}

// RetryPolicy bounds how many provider attempts a single Generate may spend.
type RetryPolicy struct {
	MaxAttempts int
}

const DefaultMaxAttempts = 3

// Generator wraps the provider with content validation, a bounded retry
// budget and a pacing limiter so background refills cannot burst the
// provider.
type Generator struct {
	provider PuzzleProvider
	retry    RetryPolicy
	limiter  *rate.Limiter
}

// NewGenerator builds a Generator. rps <= 0 disables pacing.
func NewGenerator(provider PuzzleProvider, retry RetryPolicy, rps int) *Generator {
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = DefaultMaxAttempts
	}
	limit := rate.Inf
	burst := 1
	if rps > 0 {
		limit = rate.Limit(rps)
		burst = rps
	}
	return &Generator{
		provider: provider,
		retry:    retry,
		limiter:  rate.NewLimiter(limit, burst),
	}
}

// Generate obtains one validated puzzle. Provider transport errors,
// malformed payloads and content-rule violations each consume an attempt;
// once the budget is spent the call fails with ErrGenerationExhausted.
// Context cancellation is passed through untouched so a torn-down session
// is not reported as exhaustion.
func (g *Generator) Generate(ctx context.Context, difficulty Difficulty, language Language) (*Puzzle, error) {
	reqID, _ := ctx.Value(constants.RequestIDKey).(string)

	var lastErr error
	for attempt := 1; attempt <= g.retry.MaxAttempts; attempt++ {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		p, err := g.provider.GeneratePuzzle(ctx, difficulty, language)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if reqID != "" {
				util.LogWarn("[request_id=%v] Puzzle generation attempt %d/%d failed: %v", reqID, attempt, g.retry.MaxAttempts, err)
			} else {
				util.LogWarn("Puzzle generation attempt %d/%d failed: %v", attempt, g.retry.MaxAttempts, err)
			}
			lastErr = err
			continue
		}

		p.ID = newPuzzleID()
		p.Difficulty = difficulty
		p.Language = language
		p.CreatedAt = time.Now()

		if err := ValidateContent(p); err != nil {
			if reqID != "" {
				util.LogWarn("[request_id=%v] Puzzle rejected on attempt %d/%d: %v", reqID, attempt, g.retry.MaxAttempts, err)
			} else {
				util.LogWarn("Puzzle rejected on attempt %d/%d: %v", attempt, g.retry.MaxAttempts, err)
			}
			lastErr = err
			continue
		}
		return p, nil
	}
	return nil, fmt.Errorf("%w after %d attempts: %v", ErrGenerationExhausted, g.retry.MaxAttempts, lastErr)
}

func newPuzzleID() string {
	return fmt.Sprintf("puzzle_%d_%s", time.Now().Unix(), uuid.NewString()[:8])
}
