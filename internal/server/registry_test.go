package server

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liarsbar/internal/game"
	"liarsbar/internal/randutil"
	"liarsbar/internal/sessionid"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestRegistry() *Registry {
	return NewRegistry(game.DefaultConfig(), randutil.New(42), testLogger())
}

func TestRegistryJoinCreatesSession(t *testing.T) {
	r := newTestRegistry()

	sessionID, events, err := r.Join("room-1", "conn-a", "alice")
	require.NoError(t, err)
	assert.Equal(t, "room-1", sessionID)
	assert.Equal(t, 1, r.Count())
	require.Len(t, events, 1)

	lobby, ok := events[0].(game.LobbyUpdateEvent)
	require.True(t, ok, "expected a LobbyUpdateEvent, got %T", events[0])
	assert.Equal(t, "conn-a", lobby.HostID)
}

func TestRegistryJoinGeneratesSessionID(t *testing.T) {
	r := newTestRegistry()

	sessionID, _, err := r.Join("", "conn-a", "alice")
	require.NoError(t, err)
	require.NoError(t, sessionid.Validate(sessionID))

	// A second joiner naming the generated ID lands in the same session.
	got, _, err := r.Join(sessionID, "conn-b", "bob")
	require.NoError(t, err)
	assert.Equal(t, sessionID, got)
	assert.Equal(t, 1, r.Count())
}

func TestRegistryJoinRequiresName(t *testing.T) {
	r := newTestRegistry()

	_, _, err := r.Join("room-1", "conn-a", "")
	assert.ErrorIs(t, err, ErrNameRequired)
	assert.Equal(t, 0, r.Count())
}

func TestRegistryJoinFullSession(t *testing.T) {
	r := newTestRegistry()
	for i, name := range []string{"a", "b", "c", "d"} {
		_, _, err := r.Join("room-1", string(rune('1'+i)), name)
		require.NoError(t, err)
	}

	_, _, err := r.Join("room-1", "conn-e", "eve")
	assert.ErrorIs(t, err, game.ErrSessionFull)
}

func TestRegistryLeave(t *testing.T) {
	r := newTestRegistry()
	_, _, err := r.Join("room-1", "conn-a", "alice")
	require.NoError(t, err)
	_, _, err = r.Join("room-1", "conn-b", "bob")
	require.NoError(t, err)

	events, err := r.Leave("room-1", "conn-a")
	require.NoError(t, err)
	require.Len(t, events, 1)
	lobby := events[0].(game.LobbyUpdateEvent)
	assert.Equal(t, "conn-b", lobby.HostID, "host should pass to the remaining player")
	assert.Equal(t, 1, r.Count())

	_, err = r.Leave("room-1", "conn-b")
	require.NoError(t, err)
	assert.Equal(t, 0, r.Count(), "empty session should be removed")
}

func TestRegistryLeaveMidGameRemovesAbandonedSession(t *testing.T) {
	r := newTestRegistry()
	_, _, err := r.Join("room-1", "conn-a", "alice")
	require.NoError(t, err)
	_, _, err = r.Join("room-1", "conn-b", "bob")
	require.NoError(t, err)
	_, err = r.Start("room-1", "conn-a")
	require.NoError(t, err)

	events, err := r.Leave("room-1", "conn-a")
	require.NoError(t, err)
	require.NotEmpty(t, events)
	over, ok := events[0].(game.GameOverEvent)
	require.True(t, ok, "expected GameOverEvent, got %T", events[0])
	assert.Equal(t, "conn-b", over.WinnerID)
	assert.Equal(t, 1, r.Count(), "winner is still connected")

	_, err = r.Leave("room-1", "conn-b")
	require.NoError(t, err)
	assert.Equal(t, 0, r.Count(), "abandoned session should be removed")
}

func TestRegistryUnknownSession(t *testing.T) {
	r := newTestRegistry()

	_, err := r.Start("nope", "conn-a")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = r.PlayCards("nope", "conn-a", []int{0}, 1)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = r.CallLiar("nope", "conn-a", "conn-b")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = r.PullTrigger("nope", "conn-a")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = r.Leave("nope", "conn-a")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRegistryIsolatesSessions(t *testing.T) {
	r := newTestRegistry()
	_, _, err := r.Join("room-1", "conn-a", "alice")
	require.NoError(t, err)
	_, _, err = r.Join("room-2", "conn-b", "bob")
	require.NoError(t, err)

	assert.Equal(t, 2, r.Count())

	// conn-b never joined room-1
	_, err = r.Start("room-1", "conn-b")
	assert.Error(t, err)
}
