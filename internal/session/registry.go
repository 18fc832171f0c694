package session

import (
	"sync"
	"time"
)

// Registry keeps live sessions by token in process memory.
type Registry struct {
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]Session
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{ttl: ttl, now: time.Now, sessions: make(map[string]Session)}
}

// Open registers a new session for the token, replacing any earlier one.
func (r *Registry) Open(token string, s Session) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	s.Token = token
	s.CreatedAt = now
	s.ExpiresAt = now.Add(r.ttl)
	r.sessions[token] = s
	return s, nil
}

// Get returns the session for token unless it is missing or expired.
func (r *Registry) Get(token string) (Session, bool) {
	if token == "" {
		return Session{}, false
	}
	r.mu.RLock()
	s, ok := r.sessions[token]
	r.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if s.Expired(r.now()) {
		r.Close(token)
		return Session{}, false
	}
	return s, true
}

func (r *Registry) Close(token string) {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
}

// Sweep drops expired sessions and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	n := 0
	for tok, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, tok)
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
