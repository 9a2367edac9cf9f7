package game

import (
	"context"
	"sync"
	"time"

	"wordbridge/internal/constants"
	util "wordbridge/internal/util"
)

// Config holds the pipeline knobs. Zero values fall back to the defaults
// below.
type Config struct {
	TargetSize    int
	LowWatermark  int
	SessionTTL    time.Duration
	SweepInterval time.Duration
	PuzzleTTL     time.Duration
}

const (
	DefaultTargetSize    = 6
	DefaultLowWatermark  = 3
	DefaultSessionTTL    = 10 * time.Minute
	DefaultSweepInterval = time.Minute
)

func (c Config) withDefaults() Config {
	if c.TargetSize <= 0 {
		c.TargetSize = DefaultTargetSize
	}
	if c.LowWatermark <= 0 {
		c.LowWatermark = DefaultLowWatermark
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = DefaultSessionTTL
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = DefaultSweepInterval
	}
	if c.PuzzleTTL <= 0 {
		c.PuzzleTTL = c.SessionTTL
	}
	return c
}

// session is the per-player pipeline state. queue, refillInFlight and
// draining are guarded by mu; the lock is never held across a provider call.
type session struct {
	id         string
	difficulty Difficulty
	language   Language

	mu             sync.Mutex
	queue          []*Puzzle
	refillInFlight bool
	draining       bool
	cancelRefill   context.CancelFunc
	createdAt      time.Time
	lastActive     time.Time
}

// Registry owns every active session and the cache of generated puzzles.
// Its own lock is distinct from the per-session locks so the sweep never
// races request handling.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*session

	puzzleMu sync.RWMutex
	puzzles  map[string]*Puzzle

	gen    *Generator
	cfg    Config
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRegistry(gen *Generator, cfg Config) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		sessions: make(map[string]*session),
		puzzles:  make(map[string]*Puzzle),
		gen:      gen,
		cfg:      cfg.withDefaults(),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start launches the idle-session sweep.
func (r *Registry) Start() {
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-ticker.C:
				r.sweepExpired(time.Now())
			}
		}
	}()
	util.LogInfo("Started session sweep (interval %v, TTL %v)", r.cfg.SweepInterval, r.cfg.SessionTTL)
}

// Shutdown cancels every in-flight refill job and stops the sweep.
func (r *Registry) Shutdown() {
	r.cancel()
	<-r.done
	util.LogInfo("Session registry shut down")
}

// StartSession creates a new session, synchronously obtains the first
// puzzle and schedules a background refill up to the target size. The caller
// never waits for the refill.
func (r *Registry) StartSession(ctx context.Context, id string, difficulty Difficulty, language Language) (*Puzzle, error) {
	now := time.Now()
	s := &session{
		id:         id,
		difficulty: difficulty,
		language:   language,
		createdAt:  now,
		lastActive: now,
	}

	r.mu.Lock()
	if _, exists := r.sessions[id]; exists {
		r.mu.Unlock()
		return nil, ErrDuplicateSession
	}
	r.sessions[id] = s
	r.mu.Unlock()

	first, err := r.gen.Generate(ctx, difficulty, language)
	if err != nil {
		// The session is unusable without a first puzzle; roll it back so
		// the client can retry with the same id.
		r.ClearSession(id)
		return nil, err
	}
	r.cachePuzzle(first)

	r.maybeRefill(s)
	util.LogInfo("Session started: %s (difficulty=%s, language=%s, first puzzle %s)", id, difficulty, language, first.ID)
	return first, nil
}

// NextPuzzle pops the head of the session queue. An empty queue degrades to
// one synchronous generation so the caller is never blocked on the refill.
// Dropping below the low watermark re-triggers a refill. A session caught
// mid-teardown is reported as not found.
func (r *Registry) NextPuzzle(ctx context.Context, id string) (*Puzzle, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	s.lastActive = time.Now()
	var p *Puzzle
	if len(s.queue) > 0 {
		p = s.queue[0]
		s.queue = s.queue[1:]
	}
	s.mu.Unlock()

	if p == nil {
		if reqID, _ := ctx.Value(constants.RequestIDKey).(string); reqID != "" {
			util.LogWarn("[request_id=%v] Queue underrun for session %s, generating synchronously", reqID, id)
		} else {
			util.LogWarn("Queue underrun for session %s, generating synchronously", id)
		}
		generated, err := r.gen.Generate(ctx, s.difficulty, s.language)
		if err != nil {
			return nil, err
		}
		r.cachePuzzle(generated)
		p = generated
	}

	r.maybeRefill(s)
	return p, nil
}

// maybeRefill transitions the session to RefillInFlight when the queue sits
// below the low watermark and no job is already running. The flag and the
// queue length are checked under the same lock that the refill job releases
// the flag under, so duplicate jobs and above-target overshoot are both
// impossible.
func (r *Registry) maybeRefill(s *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draining || s.refillInFlight || len(s.queue) >= r.cfg.LowWatermark {
		return
	}
	ctx, cancel := context.WithCancel(r.ctx)
	s.refillInFlight = true
	s.cancelRefill = cancel
	go r.refill(ctx, s)
}

// refill tops the queue up to the target size. It runs unlocked around every
// provider call and releases the in-flight flag on every exit path,
// including cancellation and generation exhaustion.
func (r *Registry) refill(ctx context.Context, s *session) {
	defer func() {
		s.mu.Lock()
		s.refillInFlight = false
		s.cancelRefill = nil
		s.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		s.mu.Lock()
		if s.draining || len(s.queue) >= r.cfg.TargetSize {
			s.mu.Unlock()
			return
		}
		difficulty, language := s.difficulty, s.language
		s.mu.Unlock()

		p, err := r.gen.Generate(ctx, difficulty, language)
		if err != nil {
			if ctx.Err() != nil {
				util.LogInfo("Refill cancelled for session %s", s.id)
			} else {
				util.LogWarn("Refill for session %s stopped short: %v", s.id, err)
			}
			return
		}

		s.mu.Lock()
		if s.draining {
			s.mu.Unlock()
			return
		}
		if len(s.queue) < r.cfg.TargetSize {
			s.queue = append(s.queue, p)
		}
		filled := len(s.queue)
		s.mu.Unlock()

		r.cachePuzzle(p)
		util.LogInfo("Refilled session %s: queue at %d/%d", s.id, filled, r.cfg.TargetSize)
	}
}

// ClearSession tears a session down: marks it draining, cancels any
// in-flight refill and discards the queue. Clearing an unknown or
// already-cleared id is a no-op.
func (r *Registry) ClearSession(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return
	}

	s.mu.Lock()
	s.draining = true
	s.queue = nil
	cancel := s.cancelRefill
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	util.LogInfo("Session cleared: %s", id)
}

// LookupPuzzle resolves a generated puzzle by id for answer validation and
// reveal. Puzzles expire from the cache on the TTL sweep.
func (r *Registry) LookupPuzzle(id string) (*Puzzle, error) {
	r.puzzleMu.RLock()
	p, ok := r.puzzles[id]
	r.puzzleMu.RUnlock()
	if !ok {
		return nil, ErrPuzzleNotFound
	}
	return p, nil
}

func (r *Registry) cachePuzzle(p *Puzzle) {
	r.puzzleMu.Lock()
	r.puzzles[p.ID] = p
	r.puzzleMu.Unlock()
}

// sweepExpired evicts sessions idle beyond the TTL and puzzles older than
// the puzzle TTL. It snapshots ids under the registry lock and tears each
// session down through ClearSession so a stale refill cannot re-insert into
// a destroyed session.
func (r *Registry) sweepExpired(now time.Time) int {
	sessionCutoff := now.Add(-r.cfg.SessionTTL)

	r.mu.RLock()
	var expired []string
	for id, s := range r.sessions {
		s.mu.Lock()
		idle := s.lastActive.Before(sessionCutoff)
		s.mu.Unlock()
		if idle {
			expired = append(expired, id)
		}
	}
	r.mu.RUnlock()

	for _, id := range expired {
		r.ClearSession(id)
	}

	puzzleCutoff := now.Add(-r.cfg.PuzzleTTL)
	removedPuzzles := 0
	r.puzzleMu.Lock()
	for id, p := range r.puzzles {
		if p.CreatedAt.Before(puzzleCutoff) {
			delete(r.puzzles, id)
			removedPuzzles++
		}
	}
	r.puzzleMu.Unlock()

	if len(expired) > 0 || removedPuzzles > 0 {
		util.LogInfo("Sweep removed %d idle sessions and %d expired puzzles", len(expired), removedPuzzles)
	}
	return len(expired)
}

// SessionCount reports the number of active sessions.
func (r *Registry) SessionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// PuzzleCount reports the number of cached puzzles.
func (r *Registry) PuzzleCount() int {
	r.puzzleMu.RLock()
	defer r.puzzleMu.RUnlock()
	return len(r.puzzles)
}
