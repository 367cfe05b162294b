package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var ErrAlreadyExists = errors.New("session already exists")

// Registry maps owner and session id to live sessions. An empty owner on lookup searches every
// owner.
type Registry struct {
	mu      sync.RWMutex
	byOwner map[string]map[string]*Session
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byOwner: make(map[string]map[string]*Session)}
}

// Add inserts s under s.Owner. Session ids are unique across owners.
func (r *Registry) Add(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, _, ok := r.find("", s.ID); ok {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, s.ID)
	}

	sessions, ok := r.byOwner[s.Owner]
	if !ok {
		sessions = make(map[string]*Session)
		r.byOwner[s.Owner] = sessions
	}
	sessions[s.ID] = s

	return nil
}

// Get returns the session id owned by owner, or by anyone when owner is empty.
func (r *Registry) Get(owner, id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, _, ok := r.find(owner, id)
	return s, ok
}

// Remove deletes and returns the session. Only one concurrent caller gets ok=true for a given id.
func (r *Registry) Remove(owner, id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, foundOwner, ok := r.find(owner, id)
	if !ok {
		return nil, false
	}

	delete(r.byOwner[foundOwner], id)
	if len(r.byOwner[foundOwner]) == 0 {
		delete(r.byOwner, foundOwner)
	}

	return s, true
}

// List returns the sessions of owner, or of every owner when owner is empty, oldest first.
func (r *Registry) List(owner string) []*Session {
	r.mu.RLock()

	var out []*Session
	for o, sessions := range r.byOwner {
		if owner != "" && o != owner {
			continue
		}
		for _, s := range sessions {
			out = append(out, s)
		}
	}

	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	return out
}

// Len returns the number of sessions across owners.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, sessions := range r.byOwner {
		n += len(sessions)
	}
	return n
}

// find must be called with r.mu held.
func (r *Registry) find(owner, id string) (*Session, string, bool) {
	if owner != "" {
		s, ok := r.byOwner[owner][id]
		return s, owner, ok
	}

	for o, sessions := range r.byOwner {
		if s, ok := sessions[id]; ok {
			return s, o, true
		}
	}

	return nil, "", false
}
