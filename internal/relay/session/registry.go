package session

import (
	"sync"
)

// Session tracks one connected player for the lifetime of one connection.
type Session struct {
	// ID is the engine-assigned session identifier, stable for the
	// connection's lifetime.
	ID string
	// DisplayName is the client-supplied name shown to other players.
	DisplayName string
	// Outbox is the delivery channel for payloads addressed to this session.
	Outbox *Outbox
}

// Registry maps session identifiers to connected players.
// All methods are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty session Registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Register records a session under the given ID. Re-registration under
// an existing ID overwrites silently; the displaced session's outbox is
// closed so its write loop terminates.
//
// Precondition: id must be non-empty; outbox must be non-nil.
// Postcondition: Returns the registered Session.
func (r *Registry) Register(id, displayName string, outbox *Outbox) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.sessions[id]; ok {
		_ = prev.Outbox.Close()
	}

	sess := &Session{
		ID:          id,
		DisplayName: displayName,
		Outbox:      outbox,
	}
	r.sessions[id] = sess
	return sess
}

// Lookup returns the session for the given ID. A miss is a normal
// outcome (e.g. messaging a player who has disconnected).
//
// Postcondition: Returns (session, true) if found, or (nil, false) otherwise.
func (r *Registry) Lookup(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[id]
	return sess, ok
}

// Remove deletes a session and closes its outbox. Removing an absent
// ID is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	if !ok {
		return
	}
	_ = sess.Outbox.Close()
	delete(r.sessions, id)
}

// DisplayName resolves the display name for the given session ID.
//
// Postcondition: Returns (name, true) if the session exists, or
// ("", false) otherwise.
func (r *Registry) DisplayName(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[id]
	if !ok {
		return "", false
	}
	return sess.DisplayName, true
}

// AllIDs returns the IDs of every connected session, for global broadcast.
//
// Postcondition: Returns a slice of session IDs (may be empty).
func (r *Registry) AllIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the total number of connected sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
