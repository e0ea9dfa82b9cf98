// Package party provides the party directory: named, creator-initiated
// member sets used for group messaging.
package party

import "sync"

// CreateOutcome is the result of a Create call.
type CreateOutcome int

const (
	// Created means the party did not exist and was created.
	Created CreateOutcome = iota
	// AlreadyExists means a party with that ID already exists; the
	// call had no effect. First creator wins.
	AlreadyExists
)

// JoinOutcome is the result of a Join call.
type JoinOutcome int

const (
	// Joined means the player is now a member (or already was).
	Joined JoinOutcome = iota
	// PartyNotFound means no party with that ID exists; no state changed.
	PartyNotFound
)

// NameResolver resolves a session ID to a display name.
// The session registry satisfies this interface.
type NameResolver interface {
	DisplayName(id string) (string, bool)
}

// Directory maps party IDs to their member sets. Members are kept in
// join order; set semantics are enforced (duplicate joins are no-ops).
// All methods are safe for concurrent use.
type Directory struct {
	mu      sync.Mutex
	parties map[string][]string // partyID → member session IDs, join order
	names   NameResolver
}

// NewDirectory creates an empty party Directory.
//
// Precondition: names must be non-nil.
func NewDirectory(names NameResolver) *Directory {
	return &Directory{
		parties: make(map[string][]string),
		names:   names,
	}
}

// Create creates a party with creatorID as its sole member.
// If the party already exists the call has no effect.
//
// Postcondition: Returns Created or AlreadyExists.
func (d *Directory) Create(partyID, creatorID string) CreateOutcome {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.parties[partyID]; exists {
		return AlreadyExists
	}
	d.parties[partyID] = []string{creatorID}
	return Created
}

// Join adds playerID to the party's member set. Joining twice is
// idempotent.
//
// Postcondition: Returns Joined, or PartyNotFound if the party is absent.
func (d *Directory) Join(partyID, playerID string) JoinOutcome {
	d.mu.Lock()
	defer d.mu.Unlock()

	members, exists := d.parties[partyID]
	if !exists {
		return PartyNotFound
	}
	if !contains(members, playerID) {
		d.parties[partyID] = append(members, playerID)
	}
	return Joined
}

// Leave removes playerID from the party. No-op if the party or the
// membership is absent.
func (d *Directory) Leave(partyID, playerID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	members, exists := d.parties[partyID]
	if !exists {
		return
	}
	d.parties[partyID] = remove(members, playerID)
}

// MemberIDs returns the session IDs of the party's members in join
// order, or an empty slice if the party is absent.
func (d *Directory) MemberIDs(partyID string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	members := d.parties[partyID]
	out := make([]string, len(members))
	copy(out, members)
	return out
}

// Members returns the display names of the party's members in join
// order, resolved through the name resolver. A member whose identity
// has been removed is silently skipped. Returns an empty slice if the
// party is absent.
func (d *Directory) Members(partyID string) []string {
	ids := d.MemberIDs(partyID)

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := d.names.DisplayName(id); ok {
			names = append(names, name)
		}
	}
	return names
}

// Empty replaces the party's member set with an empty set and returns
// the prior members. Capture and clear happen in one critical section
// so the returned list can never include a member who joined after the
// clear. The party persists as an empty, rejoinable entry.
//
// Postcondition: Returns (prior members, true), or (nil, false) if the
// party is absent.
func (d *Directory) Empty(partyID string) ([]string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	members, exists := d.parties[partyID]
	if !exists {
		return nil, false
	}
	prior := make([]string, len(members))
	copy(prior, members)
	d.parties[partyID] = []string{}
	return prior, true
}

// RemoveAll removes playerID from every party. Used on disconnect.
// Cost is O(parties), acceptable at the expected scale.
func (d *Directory) RemoveAll(playerID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for partyID, members := range d.parties {
		d.parties[partyID] = remove(members, playerID)
	}
}

// Count returns the number of parties, including emptied ones.
func (d *Directory) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.parties)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
