package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/relay/internal/relay/event"
	"github.com/cory-johannsen/relay/internal/relay/lobby"
	"github.com/cory-johannsen/relay/internal/relay/mute"
	"github.com/cory-johannsen/relay/internal/relay/party"
	"github.com/cory-johannsen/relay/internal/relay/session"
)

type fixture struct {
	engine   *Engine
	sessions *session.Registry
	parties  *party.Directory
	lobby    *lobby.Roster
	mutes    *mute.Table
}

func newFixture() *fixture {
	sessions := session.NewRegistry()
	parties := party.NewDirectory(sessions)
	roster := lobby.NewRoster()
	mutes := mute.NewTable()
	return &fixture{
		engine:   New(sessions, parties, roster, mutes, zap.NewNop()),
		sessions: sessions,
		parties:  parties,
		lobby:    roster,
		mutes:    mutes,
	}
}

// connect registers a session and drains its connection acknowledgment.
func (f *fixture) connect(t *testing.T, name string) *session.Session {
	t.Helper()
	sess := f.engine.Connect(name)

	ack, ok := <-sess.Outbox.Payloads()
	require.True(t, ok)
	reg, isReg := ack.(event.Registered)
	require.True(t, isReg, "first payload must be the connection acknowledgment")
	require.Equal(t, sess.ID, reg.SessionID)
	return sess
}

// drain collects every payload currently buffered in the outbox.
func drain(o *session.Outbox) []any {
	var out []any
	for {
		select {
		case p, ok := <-o.Payloads():
			if !ok {
				return out
			}
			out = append(out, p)
		default:
			return out
		}
	}
}

func TestConnect_RegistersAndEntersLobby(t *testing.T) {
	f := newFixture()
	sess := f.connect(t, "Alice")

	got, ok := f.sessions.Lookup(sess.ID)
	require.True(t, ok)
	assert.Equal(t, "Alice", got.DisplayName)
	assert.Contains(t, f.lobby.All(), sess.ID)
}

func TestConnect_AssignsDistinctIDs(t *testing.T) {
	f := newFixture()
	a := f.connect(t, "Alice")
	b := f.connect(t, "Bob")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestDispatch_PartyScenario(t *testing.T) {
	f := newFixture()
	a := f.connect(t, "Alice")
	b := f.connect(t, "Bob")

	f.engine.Dispatch(a.ID, event.CreateParty{PartyID: "p1"})
	f.engine.Dispatch(b.ID, event.JoinParty{PartyID: "p1"})

	f.engine.Dispatch(a.ID, event.GetPartyMembers{PartyID: "p1"})
	payloads := drain(a.Outbox)
	require.Len(t, payloads, 1)
	listing, ok := payloads[0].(event.PartyMembers)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"Alice", "Bob"}, listing.Members)

	f.engine.Dispatch(a.ID, event.PartyMessage{PartyID: "p1", Text: "hi"})
	assert.Equal(t, []any{event.NewPartyChat(a.ID, "p1", "hi")}, drain(b.Outbox))
	assert.Empty(t, drain(a.Outbox), "sender must not receive its own party message")
}

func TestDispatch_CreatePartyDuplicateHasNoEffect(t *testing.T) {
	f := newFixture()
	a := f.connect(t, "Alice")
	b := f.connect(t, "Bob")

	f.engine.Dispatch(a.ID, event.CreateParty{PartyID: "p1"})
	f.engine.Dispatch(b.ID, event.CreateParty{PartyID: "p1"})

	assert.Equal(t, []string{a.ID}, f.parties.MemberIDs("p1"))
}

func TestDispatch_JoinGhostPartyMutatesNothing(t *testing.T) {
	f := newFixture()
	a := f.connect(t, "Alice")

	f.engine.Dispatch(a.ID, event.JoinParty{PartyID: "ghost"})

	assert.Equal(t, 0, f.parties.Count())
	assert.Empty(t, drain(a.Outbox))
}

func TestDispatch_MuteScenario(t *testing.T) {
	f := newFixture()
	a := f.connect(t, "Alice")
	b := f.connect(t, "Bob")

	f.engine.Dispatch(a.ID, event.MutePlayer{Target: b.ID})
	f.engine.Dispatch(b.ID, event.PrivateMessage{To: a.ID, Text: "hello?"})
	assert.Empty(t, drain(a.Outbox), "muted sender's message must be suppressed")

	f.engine.Dispatch(a.ID, event.UnmutePlayer{Target: b.ID})
	f.engine.Dispatch(b.ID, event.PrivateMessage{To: a.ID, Text: "hello again"})
	assert.Equal(t, []any{event.NewPrivateChat(b.ID, a.ID, "hello again")}, drain(a.Outbox))
}

func TestDispatch_PrivateMessageToAbsentRecipientIsNoop(t *testing.T) {
	f := newFixture()
	a := f.connect(t, "Alice")

	f.engine.Dispatch(a.ID, event.PrivateMessage{To: "gone", Text: "anyone?"})
	assert.Empty(t, drain(a.Outbox))
}

func TestDispatch_GlobalMessageReachesEveryoneAndBypassesMute(t *testing.T) {
	f := newFixture()
	a := f.connect(t, "Alice")
	b := f.connect(t, "Bob")
	c := f.connect(t, "Carol")

	// Alice mutes Bob, then Bob shouts; global delivery ignores the mute.
	f.engine.Dispatch(a.ID, event.MutePlayer{Target: b.ID})
	f.engine.Dispatch(b.ID, event.GlobalMessage{Text: "hear ye"})

	want := event.NewGlobalChat(b.ID, "hear ye")
	assert.Equal(t, []any{want}, drain(a.Outbox))
	assert.Equal(t, []any{want}, drain(b.Outbox))
	assert.Equal(t, []any{want}, drain(c.Outbox))
}

func TestDispatch_LobbyMessageFiltersMutedSender(t *testing.T) {
	f := newFixture()
	a := f.connect(t, "Alice")
	b := f.connect(t, "Bob")
	c := f.connect(t, "Carol")

	f.engine.Dispatch(a.ID, event.MutePlayer{Target: b.ID})
	f.engine.Dispatch(b.ID, event.LobbyMessage{Text: "lobby folks"})

	want := event.NewLobbyChat(b.ID, "lobby folks")
	assert.Empty(t, drain(a.Outbox), "listener who muted the sender receives nothing")
	assert.Equal(t, []any{want}, drain(b.Outbox))
	assert.Equal(t, []any{want}, drain(c.Outbox))
}

func TestDispatch_PartyMessageFiltersPerRecipient(t *testing.T) {
	f := newFixture()
	a := f.connect(t, "Alice")
	b := f.connect(t, "Bob")
	c := f.connect(t, "Carol")

	f.engine.Dispatch(a.ID, event.CreateParty{PartyID: "p1"})
	f.engine.Dispatch(b.ID, event.JoinParty{PartyID: "p1"})
	f.engine.Dispatch(c.ID, event.JoinParty{PartyID: "p1"})

	f.engine.Dispatch(b.ID, event.MutePlayer{Target: a.ID})
	f.engine.Dispatch(a.ID, event.PartyMessage{PartyID: "p1", Text: "onward"})

	assert.Empty(t, drain(b.Outbox))
	assert.Equal(t, []any{event.NewPartyChat(a.ID, "p1", "onward")}, drain(c.Outbox))
}

func TestDispatch_EmptyParty(t *testing.T) {
	f := newFixture()
	a := f.connect(t, "Alice")
	b := f.connect(t, "Bob")
	c := f.connect(t, "Carol")
	d := f.connect(t, "Dave")

	f.engine.Dispatch(a.ID, event.CreateParty{PartyID: "p1"})
	f.engine.Dispatch(b.ID, event.JoinParty{PartyID: "p1"})
	f.engine.Dispatch(c.ID, event.JoinParty{PartyID: "p1"})

	f.engine.Dispatch(a.ID, event.EmptyParty{PartyID: "p1"})

	want := []any{event.NewPartyEmpty("p1")}
	assert.Equal(t, want, drain(a.Outbox))
	assert.Equal(t, want, drain(b.Outbox))
	assert.Equal(t, want, drain(c.Outbox))
	assert.Empty(t, drain(d.Outbox), "non-members receive nothing")
	assert.Empty(t, f.parties.MemberIDs("p1"))
}

func TestDispatch_EmptyAbsentPartyIsNoop(t *testing.T) {
	f := newFixture()
	a := f.connect(t, "Alice")

	f.engine.Dispatch(a.ID, event.EmptyParty{PartyID: "ghost"})
	assert.Empty(t, drain(a.Outbox))
}

func TestDispatch_GetMembersOfAbsentPartyRepliesEmpty(t *testing.T) {
	f := newFixture()
	a := f.connect(t, "Alice")

	f.engine.Dispatch(a.ID, event.GetPartyMembers{PartyID: "ghost"})
	payloads := drain(a.Outbox)
	require.Len(t, payloads, 1)
	listing, ok := payloads[0].(event.PartyMembers)
	require.True(t, ok)
	assert.Empty(t, listing.Members)
}

func TestDispatch_UnknownTypeIsNonFatal(t *testing.T) {
	f := newFixture()
	a := f.connect(t, "Alice")

	f.engine.Dispatch(a.ID, event.Unknown{Type: "teleport"})

	assert.Equal(t, 1, f.sessions.Count())
	assert.Equal(t, 0, f.parties.Count())
	assert.Empty(t, drain(a.Outbox))
}

func TestDisconnect_CleansEveryStore(t *testing.T) {
	f := newFixture()
	a := f.connect(t, "Alice")
	b := f.connect(t, "Bob")

	f.engine.Dispatch(a.ID, event.CreateParty{PartyID: "p1"})
	f.engine.Dispatch(a.ID, event.CreateParty{PartyID: "p2"})
	f.engine.Dispatch(b.ID, event.JoinParty{PartyID: "p1"})
	f.engine.Dispatch(b.ID, event.MutePlayer{Target: a.ID})

	f.engine.Disconnect(a.ID)

	_, ok := f.sessions.Lookup(a.ID)
	assert.False(t, ok)
	assert.NotContains(t, f.lobby.All(), a.ID)
	assert.Empty(t, f.parties.MemberIDs("p2"))
	assert.Equal(t, []string{b.ID}, f.parties.MemberIDs("p1"))

	// Mute entries referencing the departed session stay behind, inert.
	assert.True(t, f.mutes.IsMuted(b.ID, a.ID))
}

func TestDisconnect_MessageToDepartedSessionIsSilentNoop(t *testing.T) {
	f := newFixture()
	a := f.connect(t, "Alice")
	b := f.connect(t, "Bob")

	f.engine.Disconnect(b.ID)
	f.engine.Dispatch(a.ID, event.PrivateMessage{To: b.ID, Text: "still there?"})
	assert.Empty(t, drain(a.Outbox))
}

func TestDispatch_PartyMembersSkipsDepartedIdentity(t *testing.T) {
	f := newFixture()
	a := f.connect(t, "Alice")
	b := f.connect(t, "Bob")

	f.engine.Dispatch(a.ID, event.CreateParty{PartyID: "p1"})
	f.engine.Dispatch(b.ID, event.JoinParty{PartyID: "p1"})

	// Remove Bob from the registry only; his party membership lingers
	// until disconnect cleanup runs.
	f.sessions.Remove(b.ID)

	f.engine.Dispatch(a.ID, event.GetPartyMembers{PartyID: "p1"})
	payloads := drain(a.Outbox)
	require.Len(t, payloads, 1)
	listing := payloads[0].(event.PartyMembers)
	assert.Equal(t, []string{"Alice"}, listing.Members)
}
