// Package session provides connected-player identity tracking and
// per-session outbound delivery for the relay.
package session

import (
	"fmt"
	"sync"
)

// Outbox buffers outbound payloads for one session, bridging the
// routing engine to the transport's write loop.
type Outbox struct {
	sessionID string
	payloads  chan any
	mu        sync.Mutex
	closed    bool
}

// NewOutbox creates an Outbox for the given session ID.
//
// Precondition: sessionID must be non-empty.
// Postcondition: Returns an Outbox with an open payloads channel.
func NewOutbox(sessionID string, bufferSize int) *Outbox {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &Outbox{
		sessionID: sessionID,
		payloads:  make(chan any, bufferSize),
	}
}

// SessionID returns the owning session's identifier.
func (o *Outbox) SessionID() string {
	return o.sessionID
}

// Push enqueues a payload for delivery. Delivery is best-effort:
// a full buffer returns an error rather than blocking the caller.
//
// Postcondition: The payload is enqueued, or an error if the outbox
// is closed or full.
func (o *Outbox) Push(payload any) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return fmt.Errorf("outbox %s is closed", o.sessionID)
	}
	select {
	case o.payloads <- payload:
		return nil
	default:
		return fmt.Errorf("outbox %s buffer full", o.sessionID)
	}
}

// Payloads returns the read-only payload channel.
// The transport's write loop drains this channel to serialize and
// send payloads to the client.
func (o *Outbox) Payloads() <-chan any {
	return o.payloads
}

// Close marks the outbox as closed and closes the payloads channel.
//
// Postcondition: The payloads channel is closed. Further Push calls
// return an error. Close is idempotent.
func (o *Outbox) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.closed {
		o.closed = true
		close(o.payloads)
	}
	return nil
}

// IsClosed reports whether the outbox has been closed.
func (o *Outbox) IsClosed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed
}
