package game

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidateContentChinese(t *testing.T) {
	p := validChinesePuzzle()
	if err := ValidateContent(p); err != nil {
		t.Errorf("Expected valid puzzle, got %v", err)
	}

	p = validChinesePuzzle()
	p.Answer = p.Char1
	if err := ValidateContent(p); !errors.Is(err, ErrInvalidPuzzle) {
		t.Errorf("Expected ErrInvalidPuzzle for answer==char1, got %v", err)
	}

	p = validChinesePuzzle()
	p.Char2 = p.Char1
	if err := ValidateContent(p); !errors.Is(err, ErrInvalidPuzzle) {
		t.Errorf("Expected ErrInvalidPuzzle for char1==char2, got %v", err)
	}

	p = validChinesePuzzle()
	p.Answer = ""
	if err := ValidateContent(p); !errors.Is(err, ErrMalformedPuzzle) {
		t.Errorf("Expected ErrMalformedPuzzle for missing answer, got %v", err)
	}
}

func TestValidateContentEnglish(t *testing.T) {
	p := validEnglishPuzzle()
	if err := ValidateContent(p); err != nil {
		t.Errorf("Expected valid puzzle, got %v", err)
	}

	p = validEnglishPuzzle()
	p.Word3 = p.Word1
	if err := ValidateContent(p); !errors.Is(err, ErrInvalidPuzzle) {
		t.Errorf("Expected ErrInvalidPuzzle for duplicate words, got %v", err)
	}

	// Comparison is case-insensitive and whitespace-trimmed.
	p = validEnglishPuzzle()
	p.Answer = "  " + strings.ToUpper(p.Word2) + " "
	if err := ValidateContent(p); !errors.Is(err, ErrInvalidPuzzle) {
		t.Errorf("Expected ErrInvalidPuzzle for answer matching a word, got %v", err)
	}

	p = validEnglishPuzzle()
	p.Word2 = ""
	if err := ValidateContent(p); !errors.Is(err, ErrMalformedPuzzle) {
		t.Errorf("Expected ErrMalformedPuzzle for missing word, got %v", err)
	}

	if err := ValidateContent(nil); !errors.Is(err, ErrMalformedPuzzle) {
		t.Errorf("Expected ErrMalformedPuzzle for nil puzzle, got %v", err)
	}

	p = validEnglishPuzzle()
	p.Language = "fr"
	if err := ValidateContent(p); !errors.Is(err, ErrMalformedPuzzle) {
		t.Errorf("Expected ErrMalformedPuzzle for unknown language, got %v", err)
	}
}

func TestViewNeverExposesAnswer(t *testing.T) {
	for _, p := range []*Puzzle{validChinesePuzzle(), validEnglishPuzzle()} {
		p.ID = "puzzle_test_1"
		p.Answer = "secret"
		p.Explanation = "secret explanation"
		p.Phrases = []string{"secret phrase"}
		p.CreatedAt = time.Now()

		data, err := json.Marshal(p.View())
		if err != nil {
			t.Fatalf("Failed to marshal view: %v", err)
		}
		body := string(data)
		if strings.Contains(body, "secret") {
			t.Errorf("View for %s leaked the answer: %s", p.Language, body)
		}
		if !strings.Contains(body, "puzzle_test_1") {
			t.Errorf("View missing puzzle id: %s", body)
		}
	}
}

func TestViewFieldsPerLanguage(t *testing.T) {
	zh := validChinesePuzzle().View()
	if zh.Char1 == "" || zh.Char2 == "" || zh.Pattern != 1 {
		t.Errorf("Chinese view missing fields: %+v", zh)
	}
	if zh.Word1 != "" || zh.Word2 != "" || zh.Word3 != "" {
		t.Errorf("Chinese view carries English fields: %+v", zh)
	}

	en := validEnglishPuzzle().View()
	if en.Word1 == "" || en.Word2 == "" || en.Word3 == "" {
		t.Errorf("English view missing fields: %+v", en)
	}
	if en.Char1 != "" || en.Char2 != "" {
		t.Errorf("English view carries Chinese fields: %+v", en)
	}
}

func TestParseDifficultyAndLanguage(t *testing.T) {
	if d, ok := ParseDifficulty(" Professional "); !ok || d != DifficultyProfessional {
		t.Errorf("ParseDifficulty failed: %v %v", d, ok)
	}
	if _, ok := ParseDifficulty("impossible"); ok {
		t.Error("Expected unknown difficulty to be rejected")
	}
	if l, ok := ParseLanguage("ZH"); !ok || l != LanguageChinese {
		t.Errorf("ParseLanguage failed: %v %v", l, ok)
	}
	if _, ok := ParseLanguage("fr"); ok {
		t.Error("Expected unknown language to be rejected")
	}
}
