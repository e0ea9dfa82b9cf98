// Package mute provides the per-player mute table: a directed relation
// from a listener to the senders whose messages it suppresses.
package mute

import "sync"

// Table tracks which senders each listener has muted.
// The relation is directed: A muting B does not imply B muting A.
// All methods are safe for concurrent use.
type Table struct {
	mu    sync.RWMutex
	muted map[string]map[string]bool // muterID → set of muted sender IDs
}

// NewTable creates an empty mute Table.
func NewTable() *Table {
	return &Table{
		muted: make(map[string]map[string]bool),
	}
}

// Mute adds targetID to muterID's muted set. Idempotent.
//
// Precondition: muterID and targetID must be non-empty.
func (t *Table) Mute(muterID, targetID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.muted[muterID] == nil {
		t.muted[muterID] = make(map[string]bool)
	}
	t.muted[muterID][targetID] = true
}

// Unmute removes targetID from muterID's muted set. Idempotent;
// unmuting an absent entry is a no-op.
func (t *Table) Unmute(muterID, targetID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if set, ok := t.muted[muterID]; ok {
		delete(set, targetID)
	}
}

// IsMuted reports whether listenerID has muted senderID.
// A listener with no entry has muted nobody.
func (t *Table) IsMuted(listenerID, senderID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.muted[listenerID][senderID]
}
