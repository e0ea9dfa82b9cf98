package event

// Outbound payload type tags.
const (
	TypeRegistered     = "registered"
	TypePartyMembers   = "partyMembers"
	TypePartyEmpty     = "partyEmpty"
	TypePrivateMessage = "privateMessage"
	TypePartyMessage   = "partyMessage"
	TypeGlobalMessage  = "globalMessage"
	TypeLobbyMessage   = "lobbyMessage"
)

// Registered is the connection acknowledgment carrying the assigned
// session ID.
type Registered struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
}

// NewRegistered builds the connection acknowledgment payload.
func NewRegistered(sessionID string) Registered {
	return Registered{Type: TypeRegistered, SessionID: sessionID}
}

// PartyMembers is the unicast reply to a member-listing request.
type PartyMembers struct {
	Type    string   `json:"type"`
	PartyID string   `json:"partyId"`
	Members []string `json:"members"`
}

// NewPartyMembers builds a member-listing reply payload.
func NewPartyMembers(partyID string, members []string) PartyMembers {
	return PartyMembers{Type: TypePartyMembers, PartyID: partyID, Members: members}
}

// PartyEmpty notifies a prior member that the party has been cleared.
type PartyEmpty struct {
	Type    string `json:"type"`
	PartyID string `json:"partyId"`
}

// NewPartyEmpty builds a party-cleared notification payload.
func NewPartyEmpty(partyID string) PartyEmpty {
	return PartyEmpty{Type: TypePartyEmpty, PartyID: partyID}
}

// PrivateChat is a direct message delivery.
type PrivateChat struct {
	Type string `json:"type"`
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
}

// NewPrivateChat builds a direct message payload.
func NewPrivateChat(from, to, text string) PrivateChat {
	return PrivateChat{Type: TypePrivateMessage, From: from, To: to, Text: text}
}

// PartyChat is a party-scoped message delivery.
type PartyChat struct {
	Type    string `json:"type"`
	From    string `json:"from"`
	PartyID string `json:"partyId"`
	Text    string `json:"text"`
}

// NewPartyChat builds a party message payload.
func NewPartyChat(from, partyID, text string) PartyChat {
	return PartyChat{Type: TypePartyMessage, From: from, PartyID: partyID, Text: text}
}

// GlobalChat is a server-wide message delivery.
type GlobalChat struct {
	Type string `json:"type"`
	From string `json:"from"`
	Text string `json:"text"`
}

// NewGlobalChat builds a global message payload.
func NewGlobalChat(from, text string) GlobalChat {
	return GlobalChat{Type: TypeGlobalMessage, From: from, Text: text}
}

// LobbyChat is a lobby-scoped message delivery.
type LobbyChat struct {
	Type string `json:"type"`
	From string `json:"from"`
	Text string `json:"text"`
}

// NewLobbyChat builds a lobby message payload.
func NewLobbyChat(from, text string) LobbyChat {
	return LobbyChat{Type: TypeLobbyMessage, From: from, Text: text}
}
