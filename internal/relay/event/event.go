// Package event defines the closed set of inbound client events and
// the outbound payloads the relay delivers. Events are decoded once at
// the transport boundary; the routing engine only ever sees typed
// variants, never raw bytes.
package event

import (
	"encoding/json"
	"fmt"
)

// Kind identifies an inbound event variant.
type Kind string

const (
	KindCreateParty     Kind = "createParty"
	KindJoinParty       Kind = "joinParty"
	KindLeaveParty      Kind = "leaveParty"
	KindGetPartyMembers Kind = "getPartyMembers"
	KindEmptyParty      Kind = "emptyParty"
	KindPrivateMessage  Kind = "privateMessage"
	KindPartyMessage    Kind = "partyMessage"
	KindGlobalMessage   Kind = "globalMessage"
	KindLobbyMessage    Kind = "lobbyMessage"
	KindMutePlayer      Kind = "mutePlayer"
	KindUnmutePlayer    Kind = "unmutePlayer"
)

// Event is one decoded inbound client event. The sender's identity is
// never part of the event; it is derived from the connection binding.
type Event interface {
	Kind() Kind
}

// CreateParty requests creation of a party with the sender as sole member.
type CreateParty struct {
	PartyID string
}

func (CreateParty) Kind() Kind { return KindCreateParty }

// JoinParty requests membership in an existing party.
type JoinParty struct {
	PartyID string
}

func (JoinParty) Kind() Kind { return KindJoinParty }

// LeaveParty withdraws the sender from a party.
type LeaveParty struct {
	PartyID string
}

func (LeaveParty) Kind() Kind { return KindLeaveParty }

// GetPartyMembers requests the party's member listing.
type GetPartyMembers struct {
	PartyID string
}

func (GetPartyMembers) Kind() Kind { return KindGetPartyMembers }

// EmptyParty clears a party's member set, notifying prior members.
type EmptyParty struct {
	PartyID string
}

func (EmptyParty) Kind() Kind { return KindEmptyParty }

// PrivateMessage carries a direct message to one recipient.
type PrivateMessage struct {
	To   string
	Text string
}

func (PrivateMessage) Kind() Kind { return KindPrivateMessage }

// PartyMessage carries a message to every member of a party.
type PartyMessage struct {
	PartyID string
	Text    string
}

func (PartyMessage) Kind() Kind { return KindPartyMessage }

// GlobalMessage carries a message to every connected session.
type GlobalMessage struct {
	Text string
}

func (GlobalMessage) Kind() Kind { return KindGlobalMessage }

// LobbyMessage carries a message to every lobby member.
type LobbyMessage struct {
	Text string
}

func (LobbyMessage) Kind() Kind { return KindLobbyMessage }

// MutePlayer suppresses future messages from the target to the sender.
type MutePlayer struct {
	Target string
}

func (MutePlayer) Kind() Kind { return KindMutePlayer }

// UnmutePlayer lifts a previously established mute.
type UnmutePlayer struct {
	Target string
}

func (UnmutePlayer) Kind() Kind { return KindUnmutePlayer }

// Unknown is the explicit variant for a type tag outside the closed
// set. The engine logs it and changes no state.
type Unknown struct {
	Type string
}

func (u Unknown) Kind() Kind { return Kind(u.Type) }

// envelope is the wire shape of every inbound event. Which fields are
// meaningful depends on the type tag.
type envelope struct {
	Type    string `json:"type"`
	PartyID string `json:"partyId"`
	To      string `json:"to"`
	Target  string `json:"target"`
	Text    string `json:"text"`
}

// Decode parses one inbound JSON frame into its typed variant.
//
// Postcondition: Returns a typed Event, or an error for undecodable
// input. A well-formed frame with an unrecognized type tag decodes to
// Unknown, not an error.
func Decode(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decoding event: %w", err)
	}

	switch Kind(env.Type) {
	case KindCreateParty:
		return CreateParty{PartyID: env.PartyID}, nil
	case KindJoinParty:
		return JoinParty{PartyID: env.PartyID}, nil
	case KindLeaveParty:
		return LeaveParty{PartyID: env.PartyID}, nil
	case KindGetPartyMembers:
		return GetPartyMembers{PartyID: env.PartyID}, nil
	case KindEmptyParty:
		return EmptyParty{PartyID: env.PartyID}, nil
	case KindPrivateMessage:
		return PrivateMessage{To: env.To, Text: env.Text}, nil
	case KindPartyMessage:
		return PartyMessage{PartyID: env.PartyID, Text: env.Text}, nil
	case KindGlobalMessage:
		return GlobalMessage{Text: env.Text}, nil
	case KindLobbyMessage:
		return LobbyMessage{Text: env.Text}, nil
	case KindMutePlayer:
		return MutePlayer{Target: env.Target}, nil
	case KindUnmutePlayer:
		return UnmutePlayer{Target: env.Target}, nil
	default:
		return Unknown{Type: env.Type}, nil
	}
}
