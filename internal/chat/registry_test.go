package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	return NewRegistry("general", "random", "tech")
}

// roomsContaining returns every room whose member set holds connID.
func roomsContaining(r *Registry, connID string) []string {
	var rooms []string
	for _, name := range r.RoomNames() {
		for _, id := range r.Members(name) {
			if id == connID {
				rooms = append(rooms, name)
			}
		}
	}
	return rooms
}

func TestRoomNamesDefaultRooms(t *testing.T) {
	r := newTestRegistry()
	assert.Equal(t, []string{"general", "random", "tech"}, r.RoomNames())
}

func TestCreateRoom(t *testing.T) {
	r := newTestRegistry()

	names, err := r.CreateRoom("gophers")
	require.NoError(t, err)
	assert.Equal(t, []string{"general", "random", "tech", "gophers"}, names)

	_, err = r.CreateRoom("gophers")
	assert.ErrorIs(t, err, ErrRoomExists)
	assert.Len(t, r.RoomNames(), 4, "duplicate create must leave the list unchanged")

	_, err = r.CreateRoom("")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestJoinRecordsSessionAndMembership(t *testing.T) {
	r := newTestRegistry()

	sess, members, err := r.Join("c1", "alice", "general")
	require.NoError(t, err)
	assert.Equal(t, Session{ConnID: "c1", Username: "alice", Room: "general"}, sess)
	assert.Equal(t, []string{"c1"}, members)

	got, ok := r.SessionOf("c1")
	require.True(t, ok)
	assert.Equal(t, sess, got)
	assert.Equal(t, []string{"general"}, roomsContaining(r, "c1"))
}

func TestJoinValidatesInput(t *testing.T) {
	r := newTestRegistry()

	_, _, err := r.Join("c1", "", "general")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = r.Join("c1", "alice", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, ok := r.SessionOf("c1")
	assert.False(t, ok, "failed join must not create a session")
}

func TestJoinCreatesRoomImplicitly(t *testing.T) {
	r := newTestRegistry()

	_, _, err := r.Join("c1", "alice", "secret-club")
	require.NoError(t, err)
	assert.Contains(t, r.RoomNames(), "secret-club")
}

func TestRejoinMovesMembership(t *testing.T) {
	r := newTestRegistry()

	_, _, err := r.Join("c1", "alice", "general")
	require.NoError(t, err)
	_, _, err = r.Join("c1", "alice2", "random")
	require.NoError(t, err)

	assert.Equal(t, []string{"random"}, roomsContaining(r, "c1"))
	sess, _ := r.SessionOf("c1")
	assert.Equal(t, "alice2", sess.Username)
}

func TestSwitchRoom(t *testing.T) {
	r := newTestRegistry()

	_, _, err := r.Join("c1", "alice", "general")
	require.NoError(t, err)
	_, _, err = r.Join("c2", "bob", "general")
	require.NoError(t, err)

	prev, cur, oldMembers, newMembers, err := r.Switch("c1", "tech")
	require.NoError(t, err)
	assert.Equal(t, "general", prev.Room)
	assert.Equal(t, "tech", cur.Room)
	assert.Equal(t, "alice", cur.Username, "username survives the switch")
	assert.Equal(t, []string{"c2"}, oldMembers)
	assert.Equal(t, []string{"c1"}, newMembers)
	assert.Equal(t, []string{"tech"}, roomsContaining(r, "c1"))
}

func TestSwitchRequiresSession(t *testing.T) {
	r := newTestRegistry()

	_, _, _, _, err := r.Switch("ghost", "tech")
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestSwitchSequenceKeepsSingleMembership(t *testing.T) {
	r := newTestRegistry()

	_, _, err := r.Join("c1", "alice", "general")
	require.NoError(t, err)
	for _, room := range []string{"random", "tech", "general", "den"} {
		_, _, _, _, err := r.Switch("c1", room)
		require.NoError(t, err)
		assert.Equal(t, []string{room}, roomsContaining(r, "c1"))
	}
}

func TestLeave(t *testing.T) {
	r := newTestRegistry()

	_, _, err := r.Join("c1", "alice", "general")
	require.NoError(t, err)
	_, _, err = r.Join("c2", "bob", "general")
	require.NoError(t, err)

	sess, remaining, ok := r.Leave("c1")
	require.True(t, ok)
	assert.Equal(t, "alice", sess.Username)
	assert.Equal(t, []string{"c2"}, remaining)
	assert.Empty(t, roomsContaining(r, "c1"))

	_, _, ok = r.Leave("c1")
	assert.False(t, ok, "leave is idempotent")
}

func TestLeaveWithoutSession(t *testing.T) {
	r := newTestRegistry()

	_, _, ok := r.Leave("never-joined")
	assert.False(t, ok)
}

func TestEmptyRoomIsRetained(t *testing.T) {
	r := newTestRegistry()

	_, _, err := r.Join("c1", "alice", "pop-up")
	require.NoError(t, err)
	_, _, ok := r.Leave("c1")
	require.True(t, ok)

	assert.Contains(t, r.RoomNames(), "pop-up")
	assert.Empty(t, r.Members("pop-up"))
}

func TestConnByUsername(t *testing.T) {
	r := newTestRegistry()

	_, _, err := r.Join("c1", "alice", "general")
	require.NoError(t, err)
	_, _, err = r.Join("c2", "bob", "tech")
	require.NoError(t, err)

	id, ok := r.ConnByUsername("bob")
	require.True(t, ok)
	assert.Equal(t, "c2", id, "lookup is global, not room-scoped")

	_, ok = r.ConnByUsername("carol")
	assert.False(t, ok)
}

func TestMembersUnknownRoom(t *testing.T) {
	r := newTestRegistry()
	assert.Empty(t, r.Members("nowhere"))
}
