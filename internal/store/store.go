package store

import (
	"context"
	"sync"
	"time"
)

// ScoreRecord is one finished game submitted to the leaderboard store.
type ScoreRecord struct {
	SessionID    string    `json:"sessionId"`
	Nickname     string    `json:"nickname"`
	School       string    `json:"school,omitempty"`
	Difficulty   string    `json:"difficulty"`
	Language     string    `json:"language"`
	CorrectCount int       `json:"correctCount"`
	TotalScore   int       `json:"totalScore"`
	TotalTime    float64   `json:"totalTime"`
	CompletedAt  time.Time `json:"completedAt"`
}

// ScoreStore is the persistence boundary. Ranking and aggregation live
// behind it, outside this service.
type ScoreStore interface {
	Record(ctx context.Context, rec ScoreRecord) error
}

// MemoryStore keeps submitted scores in memory. It stands in for the real
// persistence collaborator in development and tests.
type MemoryStore struct {
	mu      sync.Mutex
	records []ScoreRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Record(_ context.Context, rec ScoreRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
