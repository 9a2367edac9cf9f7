package handlers

import (
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	game "wordbridge/internal/game"
	store "wordbridge/internal/store"
	util "wordbridge/internal/util"
)

// Server bundles the collaborators the API handlers need.
type Server struct {
	Registry     *game.Registry
	Answers      *game.AnswerValidator
	Generator    *game.Generator
	Scores       store.ScoreStore
	IsProduction bool
	StartTime    time.Time
}

type startSessionRequest struct {
	SessionID  string `json:"sessionId" binding:"required"`
	Difficulty string `json:"difficulty" binding:"required"`
	Language   string `json:"language" binding:"required"`
}

type sessionRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

type validateRequest struct {
	PuzzleID string `json:"puzzleId" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

type revealRequest struct {
	PuzzleID string `json:"puzzleId" binding:"required"`
}

type submitScoreRequest struct {
	SessionID    string  `json:"sessionId" binding:"required"`
	Nickname     string  `json:"nickname" binding:"required"`
	School       string  `json:"school"`
	Difficulty   string  `json:"difficulty" binding:"required"`
	Language     string  `json:"language" binding:"required"`
	CorrectCount int     `json:"correctCount"`
	TotalScore   int     `json:"totalScore"`
	TotalTime    float64 `json:"totalTime"`
}

// StartSession creates a session, returns the first puzzle immediately and
// leaves the background refill to fill the queue.
func (s *Server) StartSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	difficulty, ok := game.ParseDifficulty(req.Difficulty)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown difficulty: " + req.Difficulty})
		return
	}
	language, ok := game.ParseLanguage(req.Language)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown language: " + req.Language})
		return
	}

	first, err := s.Registry.StartSession(c.Request.Context(), req.SessionID, difficulty, language)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrDuplicateSession):
			c.JSON(http.StatusConflict, gin.H{"error": "session already active"})
		case errors.Is(err, game.ErrGenerationExhausted):
			c.JSON(http.StatusBadGateway, gin.H{"error": "puzzle generation unavailable, please retry"})
		default:
			util.LogWarn("Failed to start session %s: %v", req.SessionID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":      "success",
		"message":     "Game session started",
		"firstPuzzle": first.View(),
	})
}

// NextPuzzle dequeues the next prefetched puzzle, degrading to a synchronous
// generation when the queue is empty.
func (s *Server) NextPuzzle(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := s.Registry.NextPuzzle(c.Request.Context(), req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found, start a game first"})
		case errors.Is(err, game.ErrGenerationExhausted):
			c.JSON(http.StatusBadGateway, gin.H{"error": "puzzle generation unavailable, please retry"})
		default:
			util.LogWarn("Failed to get next puzzle for session %s: %v", req.SessionID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get next puzzle"})
		}
		return
	}
	c.JSON(http.StatusOK, p.View())
}

// ValidateAnswer runs the two-stage answer validation.
func (s *Server) ValidateAnswer(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := s.Registry.LookupPuzzle(req.PuzzleID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "puzzle not found or expired"})
		return
	}
	c.JSON(http.StatusOK, s.Answers.Validate(c.Request.Context(), p, req.Answer))
}

// RevealAnswer returns the correct answer, used by the skip action.
func (s *Server) RevealAnswer(c *gin.Context) {
	var req revealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := s.Registry.LookupPuzzle(req.PuzzleID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "puzzle not found or expired"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"correctAnswer": p.Answer})
}

// ClearSession tears a session down. Clearing an unknown session is not an
// error.
func (s *Server) ClearSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.Registry.ClearSession(req.SessionID)
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Session cleared"})
}

// DemoPuzzle returns a full puzzle including the answer. Development only.
func (s *Server) DemoPuzzle(c *gin.Context) {
	if s.IsProduction {
		c.JSON(http.StatusForbidden, gin.H{"error": "demo endpoint is disabled in production"})
		return
	}
	difficulty, ok := game.ParseDifficulty(c.DefaultQuery("difficulty", "easy"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown difficulty"})
		return
	}
	language, ok := game.ParseLanguage(c.DefaultQuery("language", "zh"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown language"})
		return
	}

	p, err := s.Generator.Generate(c.Request.Context(), difficulty, language)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "puzzle generation unavailable"})
		return
	}
	util.LogWarn("Demo endpoint accessed, answer revealed for puzzle %s", p.ID)
	c.JSON(http.StatusOK, p)
}

// SubmitScore records a finished game through the score-store boundary.
func (s *Server) SubmitScore(c *gin.Context) {
	var req submitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TotalScore != req.CorrectCount*2 {
		util.LogWarn("Score mismatch for session %s: correct=%d score=%d", req.SessionID, req.CorrectCount, req.TotalScore)
		c.JSON(http.StatusBadRequest, gin.H{"error": "score calculation mismatch"})
		return
	}

	rec := store.ScoreRecord{
		SessionID:    req.SessionID,
		Nickname:     req.Nickname,
		School:       req.School,
		Difficulty:   req.Difficulty,
		Language:     req.Language,
		CorrectCount: req.CorrectCount,
		TotalScore:   req.TotalScore,
		TotalTime:    req.TotalTime,
		CompletedAt:  time.Now().UTC(),
	}
	if err := s.Scores.Record(c.Request.Context(), rec); err != nil {
		util.LogWarn("Failed to record score for session %s: %v", req.SessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save score"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "message": "Score submitted"})
}

// Healthz reports a process snapshot.
func (s *Server) Healthz(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"env":             map[bool]string{true: "production", false: "development"}[s.IsProduction],
		"active_sessions": s.Registry.SessionCount(),
		"cached_puzzles":  s.Registry.PuzzleCount(),
		"memory_alloc_mb": m.Alloc / 1024 / 1024,
		"memory_sys_mb":   m.Sys / 1024 / 1024,
		"memory_gc_count": m.NumGC,
		"uptime":          util.FormatUptime(time.Since(s.StartTime)),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}
