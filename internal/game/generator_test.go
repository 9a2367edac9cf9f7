package game

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"wordbridge/internal/constants"
)

func TestGenerateAssignsIdentity(t *testing.T) {
	gen := NewGenerator(alwaysValidProvider(), RetryPolicy{MaxAttempts: 3}, 0)

	p, err := gen.Generate(context.Background(), DifficultyEasy, LanguageChinese)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if p.ID == "" || p.CreatedAt.IsZero() {
		t.Errorf("Generated puzzle missing identity: %+v", p)
	}
	if p.Difficulty != DifficultyEasy || p.Language != LanguageChinese {
		t.Errorf("Generated puzzle has wrong labels: %+v", p)
	}
}

func TestGenerateRetriesInvalidCandidates(t *testing.T) {
	attempts := 0
	stub := &stubProvider{fn: func(_ context.Context, _ Difficulty, _ Language) (*Puzzle, error) {
		attempts++
		if attempts < 3 {
			p := validChinesePuzzle()
			p.Answer = p.Char1
			return p, nil
		}
		return validChinesePuzzle(), nil
	}}
	gen := NewGenerator(stub, RetryPolicy{MaxAttempts: 3}, 0)

	p, err := gen.Generate(context.Background(), DifficultyMedium, LanguageChinese)
	if err != nil {
		t.Fatalf("Expected success on the third attempt, got %v", err)
	}
	if stub.calls() != 3 {
		t.Errorf("Expected 3 provider calls, got %d", stub.calls())
	}
	if err := ValidateContent(p); err != nil {
		t.Errorf("Returned puzzle fails validation: %v", err)
	}
}

func TestGenerateExhaustsAttemptBudget(t *testing.T) {
	stub := &stubProvider{fn: func(_ context.Context, _ Difficulty, _ Language) (*Puzzle, error) {
		p := validChinesePuzzle()
		p.Answer = p.Char1
		return p, nil
	}}
	gen := NewGenerator(stub, RetryPolicy{MaxAttempts: 3}, 0)

	_, err := gen.Generate(context.Background(), DifficultyEasy, LanguageChinese)
	if !errors.Is(err, ErrGenerationExhausted) {
		t.Fatalf("Expected ErrGenerationExhausted, got %v", err)
	}
	if stub.calls() != 3 {
		t.Errorf("Expected exactly 3 attempts, got %d", stub.calls())
	}
}

func TestGenerateTransportErrorsCountAsAttempts(t *testing.T) {
	stub := &stubProvider{fn: func(_ context.Context, _ Difficulty, _ Language) (*Puzzle, error) {
		return nil, errors.New("provider timeout")
	}}
	gen := NewGenerator(stub, RetryPolicy{MaxAttempts: 3}, 0)

	_, err := gen.Generate(context.Background(), DifficultyEasy, LanguageEnglish)
	if !errors.Is(err, ErrGenerationExhausted) {
		t.Fatalf("Expected ErrGenerationExhausted, got %v", err)
	}
	if stub.calls() != 3 {
		t.Errorf("Expected 3 attempts, got %d", stub.calls())
	}
}

func TestGenerateFailureLogsCarryRequestID(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	stub := &stubProvider{fn: func(_ context.Context, _ Difficulty, _ Language) (*Puzzle, error) {
		return nil, errors.New("provider timeout")
	}}
	gen := NewGenerator(stub, RetryPolicy{MaxAttempts: 2}, 0)

	ctx := context.WithValue(context.Background(), constants.RequestIDKey, "req-abc123")
	if _, err := gen.Generate(ctx, DifficultyEasy, LanguageChinese); !errors.Is(err, ErrGenerationExhausted) {
		t.Fatalf("Expected ErrGenerationExhausted, got %v", err)
	}
	if !strings.Contains(buf.String(), "[request_id=req-abc123]") {
		t.Errorf("Expected attempt warnings to carry the request id, got logs: %s", buf.String())
	}
}

func TestGenerateCancellationIsNotExhaustion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stub := &stubProvider{fn: func(ctx context.Context, _ Difficulty, _ Language) (*Puzzle, error) {
		cancel()
		return nil, ctx.Err()
	}}
	gen := NewGenerator(stub, RetryPolicy{MaxAttempts: 3}, 0)

	_, err := gen.Generate(ctx, DifficultyEasy, LanguageChinese)
	if errors.Is(err, ErrGenerationExhausted) {
		t.Fatalf("Cancellation must not be reported as exhaustion: %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}
