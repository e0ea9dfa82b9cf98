// Package engine provides the routing engine: it dispatches decoded
// inbound events to the session, party, lobby, and mute stores and
// computes the outbound fan-out for each event.
package engine

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/relay/internal/relay/event"
	"github.com/cory-johannsen/relay/internal/relay/lobby"
	"github.com/cory-johannsen/relay/internal/relay/mute"
	"github.com/cory-johannsen/relay/internal/relay/party"
	"github.com/cory-johannsen/relay/internal/relay/session"
)

const defaultOutboxBuffer = 64

// Engine routes inbound events to store mutations and outbound
// deliveries. It owns no state of its own; it holds references to the
// four stores for the lifetime of the process.
type Engine struct {
	sessions *session.Registry
	parties  *party.Directory
	lobby    *lobby.Roster
	mutes    *mute.Table
	logger   *zap.Logger
}

// New creates an Engine over the given stores.
//
// Precondition: all arguments must be non-nil.
func New(sessions *session.Registry, parties *party.Directory, roster *lobby.Roster, mutes *mute.Table, logger *zap.Logger) *Engine {
	return &Engine{
		sessions: sessions,
		parties:  parties,
		lobby:    roster,
		mutes:    mutes,
		logger:   logger,
	}
}

// Connect assigns a fresh session ID, registers the session, enters it
// into the lobby, and sends the connection acknowledgment through the
// session's outbox.
//
// Postcondition: Returns the registered Session.
func (e *Engine) Connect(displayName string) *session.Session {
	id := uuid.NewString()
	outbox := session.NewOutbox(id, defaultOutboxBuffer)
	sess := e.sessions.Register(id, displayName, outbox)
	e.lobby.Enter(id)

	e.logger.Info("session connected",
		zap.String("session_id", id),
		zap.String("display_name", displayName),
	)

	e.deliver(id, event.NewRegistered(id))
	return sess
}

// Disconnect removes the session from every store that references it.
// The session ID must be resolved by the transport before this call,
// since registry removal destroys the lookup. Mute entries are left
// untouched; dangling references are inert.
func (e *Engine) Disconnect(sessionID string) {
	e.sessions.Remove(sessionID)
	e.lobby.Leave(sessionID)
	e.parties.RemoveAll(sessionID)

	e.logger.Info("session disconnected",
		zap.String("session_id", sessionID),
	)
}

// Dispatch routes one decoded inbound event. senderID is the session
// bound to the connection that produced the event, never a
// client-supplied field. Referential misses and logic conflicts are
// logged and absorbed; Dispatch never fails.
func (e *Engine) Dispatch(senderID string, ev event.Event) {
	switch ev := ev.(type) {
	case event.CreateParty:
		if e.parties.Create(ev.PartyID, senderID) == party.AlreadyExists {
			e.logger.Info("party already exists",
				zap.String("party_id", ev.PartyID),
				zap.String("session_id", senderID),
			)
		}

	case event.JoinParty:
		if e.parties.Join(ev.PartyID, senderID) == party.PartyNotFound {
			e.logger.Info("party not found",
				zap.String("party_id", ev.PartyID),
				zap.String("session_id", senderID),
			)
		}

	case event.LeaveParty:
		e.parties.Leave(ev.PartyID, senderID)

	case event.GetPartyMembers:
		members := e.parties.Members(ev.PartyID)
		e.deliver(senderID, event.NewPartyMembers(ev.PartyID, members))

	case event.EmptyParty:
		prior, found := e.parties.Empty(ev.PartyID)
		if !found {
			e.logger.Info("party not found",
				zap.String("party_id", ev.PartyID),
				zap.String("session_id", senderID),
			)
			return
		}
		for _, id := range prior {
			e.deliver(id, event.NewPartyEmpty(ev.PartyID))
		}

	case event.PrivateMessage:
		if e.mutes.IsMuted(ev.To, senderID) {
			return
		}
		e.deliver(ev.To, event.NewPrivateChat(senderID, ev.To, ev.Text))

	case event.PartyMessage:
		payload := event.NewPartyChat(senderID, ev.PartyID, ev.Text)
		for _, id := range e.parties.MemberIDs(ev.PartyID) {
			if id == senderID || e.mutes.IsMuted(id, senderID) {
				continue
			}
			e.deliver(id, payload)
		}

	case event.GlobalMessage:
		// Global broadcast bypasses mute filtering.
		payload := event.NewGlobalChat(senderID, ev.Text)
		for _, id := range e.sessions.AllIDs() {
			e.deliver(id, payload)
		}

	case event.LobbyMessage:
		payload := event.NewLobbyChat(senderID, ev.Text)
		for _, id := range e.lobby.All() {
			if e.mutes.IsMuted(id, senderID) {
				continue
			}
			e.deliver(id, payload)
		}

	case event.MutePlayer:
		e.mutes.Mute(senderID, ev.Target)

	case event.UnmutePlayer:
		e.mutes.Unmute(senderID, ev.Target)

	case event.Unknown:
		e.logger.Warn("unknown message type",
			zap.String("type", ev.Type),
			zap.String("session_id", senderID),
		)

	default:
		e.logger.Warn("unhandled event variant",
			zap.String("kind", string(ev.Kind())),
			zap.String("session_id", senderID),
		)
	}
}

// deliver hands one payload to the recipient's outbox. Delivery to an
// absent session is a silent no-op; a full outbox drops the payload.
func (e *Engine) deliver(recipientID string, payload any) {
	sess, ok := e.sessions.Lookup(recipientID)
	if !ok {
		return
	}
	if err := sess.Outbox.Push(payload); err != nil {
		e.logger.Debug("dropping payload",
			zap.String("session_id", recipientID),
			zap.Error(err),
		)
	}
}
