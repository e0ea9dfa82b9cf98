// Package lobby provides the lobby roster: the default broadcast pool
// of all registered sessions.
package lobby

import "sync"

// Roster is an ordered collection of session IDs with no duplicates.
// Insertion order is preserved but carries no delivery semantics.
// All methods are safe for concurrent use.
type Roster struct {
	mu      sync.Mutex
	members []string
}

// NewRoster creates an empty lobby Roster.
func NewRoster() *Roster {
	return &Roster{}
}

// Enter appends playerID to the roster if absent. Idempotent.
func (r *Roster) Enter(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.members {
		if id == playerID {
			return
		}
	}
	r.members = append(r.members, playerID)
}

// Leave removes every occurrence of playerID from the roster.
func (r *Roster) Leave(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.members[:0]
	for _, id := range r.members {
		if id != playerID {
			out = append(out, id)
		}
	}
	r.members = out
}

// All returns the roster's session IDs in insertion order.
func (r *Roster) All() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.members))
	copy(out, r.members)
	return out
}

// Len returns the number of sessions in the lobby.
func (r *Roster) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}
