package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRecord(t *testing.T) {
	m := NewMemoryStore()
	require.Equal(t, 0, m.Len())

	err := m.Record(context.Background(), ScoreRecord{
		SessionID:    "s1",
		Nickname:     "amy",
		Difficulty:   "easy",
		Language:     "zh",
		CorrectCount: 5,
		TotalScore:   10,
		TotalTime:    93.5,
		CompletedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())
}

func TestMemoryStoreConcurrentRecord(t *testing.T) {
	m := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Record(context.Background(), ScoreRecord{SessionID: "s", Nickname: "n"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, m.Len())
}
