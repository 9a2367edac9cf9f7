package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

type Difficulty string

const (
	DifficultyEasy         Difficulty = "easy"
	DifficultyMedium       Difficulty = "medium"
	DifficultyHard         Difficulty = "hard"
	DifficultyProfessional Difficulty = "professional"
)

type Language string

const (
	LanguageChinese Language = "zh"
	LanguageEnglish Language = "en"
)

func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case DifficultyEasy:
		return DifficultyEasy, true
	case DifficultyMedium:
		return DifficultyMedium, true
	case DifficultyHard:
		return DifficultyHard, true
	case DifficultyProfessional:
		return DifficultyProfessional, true
	}
	return "", false
}

func ParseLanguage(s string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LanguageChinese:
		return LanguageChinese, true
	case LanguageEnglish:
		return LanguageEnglish, true
	}
	return "", false
}

// Puzzle is a single bridge-word question. Chinese puzzles use the 2+1 shape
// (Char1, Char2, Answer); English puzzles use 3+1 (Word1..Word3, Answer).
// A puzzle is immutable once it passed content validation.
type Puzzle struct {
	ID          string     `json:"puzzleId"`
	Language    Language   `json:"language"`
	Difficulty  Difficulty `json:"difficulty"`
	Char1       string     `json:"char1,omitempty"`
	Char2       string     `json:"char2,omitempty"`
	Word1       string     `json:"word1,omitempty"`
	Word2       string     `json:"word2,omitempty"`
	Word3       string     `json:"word3,omitempty"`
	Answer      string     `json:"answer"`
	Pattern     int        `json:"pattern,omitempty"`
	Phrases     []string   `json:"phrases,omitempty"`
	Explanation string     `json:"explanation,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Tokens returns the seed tokens the player bridges.
func (p *Puzzle) Tokens() []string {
	if p.Language == LanguageChinese {
		return []string{p.Char1, p.Char2}
	}
	return []string{p.Word1, p.Word2, p.Word3}
}

func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidateContent is the single source of truth for "valid puzzle". It
// reports ErrMalformedPuzzle when required fields are missing and
// ErrInvalidPuzzle when the answer collides with a seed token or the seed
// tokens are not pairwise distinct. Comparison is case-insensitive and
// whitespace-trimmed.
func ValidateContent(p *Puzzle) error {
	if p == nil {
		return fmt.Errorf("%w: nil puzzle", ErrMalformedPuzzle)
	}
	switch p.Language {
	case LanguageChinese, LanguageEnglish:
	default:
		return fmt.Errorf("%w: unknown language %q", ErrMalformedPuzzle, p.Language)
	}

	tokens := lo.Map(p.Tokens(), func(t string, _ int) string {
		return normalizeToken(t)
	})
	answer := normalizeToken(p.Answer)

	if answer == "" || lo.Contains(tokens, "") {
		return fmt.Errorf("%w: missing token or answer", ErrMalformedPuzzle)
	}
	if len(lo.Uniq(tokens)) != len(tokens) {
		return fmt.Errorf("%w: seed tokens %v are not pairwise distinct", ErrInvalidPuzzle, p.Tokens())
	}
	if lo.Contains(tokens, answer) {
		return fmt.Errorf("%w: answer %q repeats a seed token", ErrInvalidPuzzle, p.Answer)
	}
	return nil
}

// PuzzleView is the client-facing projection of a puzzle. It never carries
// the answer, the explanation, or the compound phrases that embed the answer.
type PuzzleView struct {
	PuzzleID   string     `json:"puzzle_id"`
	Language   Language   `json:"language"`
	Difficulty Difficulty `json:"difficulty"`
	Char1      string     `json:"char1,omitempty"`
	Char2      string     `json:"char2,omitempty"`
	Word1      string     `json:"word1,omitempty"`
	Word2      string     `json:"word2,omitempty"`
	Word3      string     `json:"word3,omitempty"`
	Pattern    int        `json:"pattern,omitempty"`
	CreatedAt  int64      `json:"created_at"`
}

func (p *Puzzle) View() PuzzleView {
	v := PuzzleView{
		PuzzleID:   p.ID,
		Language:   p.Language,
		Difficulty: p.Difficulty,
		CreatedAt:  p.CreatedAt.Unix(),
	}
	if p.Language == LanguageChinese {
		v.Char1 = p.Char1
		v.Char2 = p.Char2
		v.Pattern = p.Pattern
	} else {
		v.Word1 = p.Word1
		v.Word2 = p.Word2
		v.Word3 = p.Word3
	}
	return v
}
