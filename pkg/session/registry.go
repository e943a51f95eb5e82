package session

import (
	"sync"
	"time"
)

// Registry keeps sessions by ID in memory.
type Registry struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]*entry
}

type entry struct {
	sess  *Session
	value any
}

// NewRegistry creates a registry expiring sessions idle longer than ttl.
// A zero ttl keeps sessions forever.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{ttl: ttl, sessions: make(map[string]*entry)}
}

// Add stores sess together with an opaque host value, typically the
// controller driving it.
func (r *Registry) Add(sess *Session, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sess.ID] = &entry{sess: sess, value: value}
}

// Get returns the session and its host value. It returns ErrNotFound for
// unknown IDs and ErrExpired (removing the session) for idle ones.
func (r *Registry) Get(id string) (*Session, any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, nil, ErrNotFound
	}
	if e.sess.IsExpired(r.ttl) {
		delete(r.sessions, id)
		return nil, nil, ErrExpired
	}
	e.sess.Touch()
	return e.sess, e.value, nil
}

// Delete removes a session.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Cleanup removes expired sessions and returns how many were removed.
func (r *Registry) Cleanup() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.sessions {
		if e.sess.IsExpired(r.ttl) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Range calls fn for every live session until fn returns false.
func (r *Registry) Range(fn func(sess *Session, value any) bool) {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.sessions))
	for _, e := range r.sessions {
		entries = append(entries, e)
	}
	r.mu.RUnlock()
	for _, e := range entries {
		if !fn(e.sess, e.value) {
			return
		}
	}
}
