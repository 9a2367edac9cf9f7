package game

import (
	"context"
	"time"

	"wordbridge/internal/constants"
	util "wordbridge/internal/util"
)

type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchSemantic MatchType = "semantic"
)

// Outcome is the verdict for one answer submission. CorrectAnswer is always
// populated so the caller can reveal it uniformly.
type Outcome struct {
	Correct       bool      `json:"correct"`
	MatchType     MatchType `json:"matchType"`
	CorrectAnswer string    `json:"correctAnswer"`
	Explanation   string    `json:"explanation,omitempty"`
}

// Verdict is what the semantic-judgment collaborator returns.
type Verdict struct {
	Correct bool
	Reason  string
}

// JudgeProvider is the external semantic-judgment collaborator.
type JudgeProvider interface {
	JudgeAnswer(ctx context.Context, p *Puzzle, answer string) (Verdict, error)
}

const semanticUnavailableMessage = "verification service unavailable, only the exact answer is accepted"

const DefaultJudgeTimeout = 60 * time.Second

// AnswerValidator judges a free-form answer in two stages: a deterministic
// exact match first, then the semantic provider. Provider failures degrade
// to an incorrect verdict instead of propagating an error.
type AnswerValidator struct {
	judge   JudgeProvider
	timeout time.Duration
}

func NewAnswerValidator(judge JudgeProvider, timeout time.Duration) *AnswerValidator {
	if timeout <= 0 {
		timeout = DefaultJudgeTimeout
	}
	return &AnswerValidator{judge: judge, timeout: timeout}
}

// Validate returns the outcome for rawAnswer against p. The exact-match path
// never touches the provider.
func (v *AnswerValidator) Validate(ctx context.Context, p *Puzzle, rawAnswer string) Outcome {
	if normalizeToken(rawAnswer) == normalizeToken(p.Answer) {
		return Outcome{
			Correct:       true,
			MatchType:     MatchExact,
			CorrectAnswer: p.Answer,
		}
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	verdict, err := v.judge.JudgeAnswer(ctx, p, rawAnswer)
	if err != nil {
		if reqID, _ := ctx.Value(constants.RequestIDKey).(string); reqID != "" {
			util.LogWarn("[request_id=%v] Semantic judgment failed for puzzle %s: %v", reqID, p.ID, err)
		} else {
			util.LogWarn("Semantic judgment failed for puzzle %s: %v", p.ID, err)
		}
		return Outcome{
			Correct:       false,
			MatchType:     MatchSemantic,
			CorrectAnswer: p.Answer,
			Explanation:   semanticUnavailableMessage,
		}
	}
	return Outcome{
		Correct:       verdict.Correct,
		MatchType:     MatchSemantic,
		CorrectAnswer: p.Answer,
		Explanation:   verdict.Reason,
	}
}
