package game

import (
	"context"
	"sync"
)

// stubProvider counts calls and delegates to fn, standing in for the
// external generation provider.
type stubProvider struct {
	mu    sync.Mutex
	count int
	fn    func(ctx context.Context, d Difficulty, l Language) (*Puzzle, error)
}

func (s *stubProvider) GeneratePuzzle(ctx context.Context, d Difficulty, l Language) (*Puzzle, error) {
	s.mu.Lock()
	s.count++
	s.mu.Unlock()
	return s.fn(ctx, d, l)
}

func (s *stubProvider) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func validChinesePuzzle() *Puzzle {
	return &Puzzle{
		Language: LanguageChinese,
		Char1:    "高",
		Char2:    "地",
		Answer:   "山",
		Pattern:  1,
	}
}

func validEnglishPuzzle() *Puzzle {
	return &Puzzle{
		Language: LanguageEnglish,
		Word1:    "sun",
		Word2:    "moon",
		Word3:    "candle",
		Answer:   "light",
	}
}

func alwaysValidProvider() *stubProvider {
	return &stubProvider{fn: func(_ context.Context, _ Difficulty, l Language) (*Puzzle, error) {
		if l == LanguageEnglish {
			return validEnglishPuzzle(), nil
		}
		return validChinesePuzzle(), nil
	}}
}
