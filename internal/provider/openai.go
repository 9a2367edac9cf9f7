package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	openai "github.com/sashabaranov/go-openai"

	game "wordbridge/internal/game"
	util "wordbridge/internal/util"
)

// ErrMalformedPayload marks a provider response that could not be parsed
// into the expected schema. The generator treats it as a failed, retriable
// attempt.
var ErrMalformedPayload = errors.New("malformed provider payload")

const (
	DefaultBaseURL         = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	DefaultGenerationModel = "qwen-plus"
	DefaultJudgmentModel   = "qwen-turbo"
	DefaultTimeout         = 60 * time.Second

	generationTemperature = 0.9
	judgmentTemperature   = 0.1
	generationMaxTokens   = 2000
	judgmentMaxTokens     = 500
)

type Config struct {
	APIKey          string
	BaseURL         string
	GenerationModel string
	JudgmentModel   string
	Timeout         time.Duration
}

// Client talks to an OpenAI-compatible chat-completion endpoint. It serves
// both collaborator roles: puzzle generation and semantic judgment.
type Client struct {
	api *openai.Client
	cfg Config
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.GenerationModel == "" {
		cfg.GenerationModel = DefaultGenerationModel
	}
	if cfg.JudgmentModel == "" {
		cfg.JudgmentModel = DefaultJudgmentModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = cfg.BaseURL
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	util.LogInfo("Provider client initialized (generation=%s, judgment=%s)", cfg.GenerationModel, cfg.JudgmentModel)
	return &Client{api: openai.NewClientWithConfig(apiCfg), cfg: cfg}
}

// GeneratePuzzle implements game.PuzzleProvider.
func (c *Client) GeneratePuzzle(ctx context.Context, difficulty game.Difficulty, language game.Language) (*game.Puzzle, error) {
	var systemPrompt string
	pattern := 0
	if language == game.LanguageChinese {
		systemPrompt = generateSystemPromptChinese
		pattern = rand.IntN(3) + 1
	} else {
		systemPrompt = generateSystemPromptEnglish
	}

	content, err := c.chatCompletion(ctx, c.cfg.GenerationModel, generationTemperature, generationMaxTokens,
		[]openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: generateUserPrompt(difficulty, language, pattern)},
		})
	if err != nil {
		return nil, err
	}

	return parseGeneratedPuzzle(content, language, pattern)
}

// JudgeAnswer implements game.JudgeProvider.
func (c *Client) JudgeAnswer(ctx context.Context, p *game.Puzzle, answer string) (game.Verdict, error) {
	content, err := c.chatCompletion(ctx, c.cfg.JudgmentModel, judgmentTemperature, judgmentMaxTokens,
		[]openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: judgePrompt(p, answer)},
		})
	if err != nil {
		return game.Verdict{}, err
	}

	var payload struct {
		Correct bool   `json:"correct"`
		Reason  string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(extractJSON(content)), &payload); err != nil {
		return game.Verdict{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return game.Verdict{Correct: payload.Correct, Reason: payload.Reason}, nil
}

func (c *Client) chatCompletion(ctx context.Context, model string, temperature float32, maxTokens int, messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrMalformedPayload)
	}
	return resp.Choices[0].Message.Content, nil
}

// flexInt tolerates models returning pattern as either a JSON number or a
// quoted string.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexInt(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

type generatedPayload struct {
	Char1       string  `json:"char1"`
	Char2       string  `json:"char2"`
	Word1       string  `json:"word1"`
	Word2       string  `json:"word2"`
	Word3       string  `json:"word3"`
	Answer      string  `json:"answer"`
	Phrase1     string  `json:"phrase1"`
	Phrase2     string  `json:"phrase2"`
	Phrase3     string  `json:"phrase3"`
	Pattern     flexInt `json:"pattern"`
	Explanation string  `json:"explanation"`
}

func parseGeneratedPuzzle(content string, language game.Language, requestedPattern int) (*game.Puzzle, error) {
	var payload generatedPayload
	if err := json.Unmarshal([]byte(extractJSON(content)), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	p := &game.Puzzle{
		Language:    language,
		Answer:      payload.Answer,
		Explanation: payload.Explanation,
	}
	if language == game.LanguageChinese {
		if payload.Char1 == "" || payload.Char2 == "" || payload.Answer == "" {
			return nil, fmt.Errorf("%w: missing char1/char2/answer", ErrMalformedPayload)
		}
		p.Char1 = payload.Char1
		p.Char2 = payload.Char2
		p.Pattern = int(payload.Pattern)
		if p.Pattern < 1 || p.Pattern > 3 {
			p.Pattern = requestedPattern
		}
		// word1/word2 are the compounds the answer forms with each seed
		// character.
		p.Phrases = []string{payload.Word1, payload.Word2}
	} else {
		if payload.Word1 == "" || payload.Word2 == "" || payload.Word3 == "" || payload.Answer == "" {
			return nil, fmt.Errorf("%w: missing word1/word2/word3/answer", ErrMalformedPayload)
		}
		p.Word1 = payload.Word1
		p.Word2 = payload.Word2
		p.Word3 = payload.Word3
		p.Phrases = []string{payload.Phrase1, payload.Phrase2, payload.Phrase3}
	}
	return p, nil
}
