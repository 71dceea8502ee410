package session

import (
	"context"
	"sync"

	"github.com/albitskyd51/qa-interview-bot/internal/quiz"
)

// MemoryCache keeps sessions in process memory, the default backend for
// single-instance deployments. State survives restarts only through the
// database tier.
type MemoryCache struct {
	mu       sync.RWMutex
	sessions map[int64]*State
}

// NewMemoryCache creates an empty in-memory session cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{sessions: make(map[int64]*State)}
}

// Get returns a copy of the cached session, or nil, nil on a miss.
func (c *MemoryCache) Get(_ context.Context, userID int64) (*State, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	state, ok := c.sessions[userID]
	if !ok {
		return nil, nil
	}
	return cloneState(state), nil
}

// Set stores a copy of the session so later mutations of the caller's
// value only become visible through another Set.
func (c *MemoryCache) Set(_ context.Context, userID int64, state *State) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sessions[userID] = cloneState(state)
	return nil
}

// Delete removes the session, if any.
func (c *MemoryCache) Delete(_ context.Context, userID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.sessions, userID)
	return nil
}

func cloneState(state *State) *State {
	out := *state
	out.Questions = append([]quiz.Question(nil), state.Questions...)
	return &out
}
