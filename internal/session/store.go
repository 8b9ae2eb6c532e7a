// Package session scopes section lists to individual users.
// Sessions share nothing; the store map is the only common structure.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/docket/internal/sections"
)

// ErrNotFound is returned for an unknown or expired session.
var ErrNotFound = errors.New("session not found")

// Session owns one section list.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	list       *sections.List
	lastAccess time.Time
	now        func() time.Time
}

// Do runs fn with exclusive access to the session's list.
func (s *Session) Do(fn func(*sections.List) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccess = s.now()
	return fn(s.list)
}

// LastAccess returns when the session was last used.
func (s *Session) LastAccess() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}

// Store tracks live sessions.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create starts a session with an empty list.
func (st *Store) Create() *Session {
	now := st.now()
	s := &Session{
		ID:         uuid.New().String(),
		CreatedAt:  now,
		list:       sections.New(),
		lastAccess: now,
		now:        st.now,
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get returns the session with the given id.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete ends a session. Deleting an unknown session returns ErrNotFound.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(st.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// IDs returns live session ids in sorted order.
func (st *Store) IDs() []string {
	st.mu.Lock()
	defer st.mu.Unlock()
	ids := make([]string, 0, len(st.sessions))
	for id := range st.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Sweep removes sessions idle for longer than maxIdle and returns how many
// were removed.
func (st *Store) Sweep(maxIdle time.Duration) int {
	cutoff := st.now().Add(-maxIdle)

	st.mu.Lock()
	candidates := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		candidates = append(candidates, s)
	}
	st.mu.Unlock()

	removed := 0
	for _, s := range candidates {
		if !s.LastAccess().Before(cutoff) {
			continue
		}
		st.mu.Lock()
		if cur, ok := st.sessions[s.ID]; ok && cur == s {
			delete(st.sessions, s.ID)
			removed++
		}
		st.mu.Unlock()
	}
	return removed
}

// Run sweeps idle sessions every interval until ctx is done.
func (st *Store) Run(ctx context.Context, interval, maxIdle time.Duration, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(maxIdle); n > 0 {
				logger.Info("expired idle sessions", "removed", n, "remaining", st.Len())
			}
		}
	}
}
