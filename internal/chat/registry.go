package chat

import (
	"errors"
	"sync"
)

// Session is the (username, room) binding currently active for one
// connection. A connection that has never joined a room has no session.
type Session struct {
	ConnID   string `json:"connectionId"`
	Username string `json:"username"`
	Room     string `json:"currentRoom"`
}

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNoActiveSession = errors.New("no active session")
	ErrRoomExists      = errors.New("room already exists")
	ErrTargetNotFound  = errors.New("target not found")
)

// Registry owns every room and session record. All mutation goes through
// its methods under one lock, so a connection can never be observed as a
// member of two rooms at once. Mutating calls return the membership
// snapshots the caller needs for fan-out, taken under the same lock
// acquisition as the mutation itself.
type Registry struct {
	mu        sync.RWMutex
	roomNames []string                       // insertion order, never shrinks
	members   map[string]map[string]struct{} // room name -> set of connIDs
	sessions  map[string]Session             // connID -> session
}

func NewRegistry(defaultRooms ...string) *Registry {
	r := &Registry{
		members:  make(map[string]map[string]struct{}),
		sessions: make(map[string]Session),
	}
	for _, name := range defaultRooms {
		r.ensureRoom(name)
	}
	return r
}

// ensureRoom registers a room name if absent and returns whether it was
// created. Both implicit creation (join/switch) and explicit create_room
// funnel through here. Caller must hold mu.
func (r *Registry) ensureRoom(name string) bool {
	if _, ok := r.members[name]; ok {
		return false
	}
	r.members[name] = make(map[string]struct{})
	r.roomNames = append(r.roomNames, name)
	return true
}

// RoomNames returns every known room name, default rooms first, then
// created rooms in creation order.
func (r *Registry) RoomNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.roomNames))
	copy(names, r.roomNames)
	return names
}

// CreateRoom registers a new empty room. Returns the refreshed name list on
// success; ErrRoomExists when the name is already taken, ErrInvalidInput
// when it is empty.
func (r *Registry) CreateRoom(name string) ([]string, error) {
	if name == "" {
		return nil, ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.ensureRoom(name) {
		return nil, ErrRoomExists
	}
	names := make([]string, len(r.roomNames))
	copy(names, r.roomNames)
	return names, nil
}

// Join binds a connection to a room, creating the room implicitly when
// needed. A prior session for the same connection is treated as a move:
// the old membership is dropped first, so the connID ends up in exactly
// one member set. Returns the new session and the room's membership after
// the join.
func (r *Registry) Join(connID, username, roomName string) (Session, []string, error) {
	if connID == "" || username == "" || roomName == "" {
		return Session{}, nil, ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.sessions[connID]; ok {
		delete(r.members[prev.Room], connID)
	}
	r.ensureRoom(roomName)
	r.members[roomName][connID] = struct{}{}

	sess := Session{ConnID: connID, Username: username, Room: roomName}
	r.sessions[connID] = sess
	return sess, r.memberSnapshot(roomName), nil
}

// Switch moves an existing session to another room, creating it when
// absent. Returns the prior session, the old room's remaining members and
// the new room's members, all captured atomically with the move.
func (r *Registry) Switch(connID, newRoom string) (prev Session, cur Session, oldMembers, newMembers []string, err error) {
	if newRoom == "" {
		return Session{}, Session{}, nil, nil, ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.sessions[connID]
	if !ok {
		return Session{}, Session{}, nil, nil, ErrNoActiveSession
	}

	delete(r.members[prev.Room], connID)
	r.ensureRoom(newRoom)
	r.members[newRoom][connID] = struct{}{}

	cur = Session{ConnID: connID, Username: prev.Username, Room: newRoom}
	r.sessions[connID] = cur
	return prev, cur, r.memberSnapshot(prev.Room), r.memberSnapshot(newRoom), nil
}

// Leave removes the session and its room membership. Safe to call for a
// connection that never joined, or twice for the same connection; the
// second return reports whether a session existed. On removal the
// remaining members of the departed room are returned for the farewell
// broadcast.
func (r *Registry) Leave(connID string) (Session, []string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[connID]
	if !ok {
		return Session{}, nil, false
	}
	delete(r.members[sess.Room], connID)
	delete(r.sessions, connID)
	return sess, r.memberSnapshot(sess.Room), true
}

func (r *Registry) SessionOf(connID string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.sessions[connID]
	return sess, ok
}

// Members returns a snapshot of a room's member connIDs. Unknown rooms
// yield an empty slice.
func (r *Registry) Members(roomName string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.memberSnapshot(roomName)
}

// ConnByUsername resolves a username to a connection across every room.
// Usernames are not enforced unique; with duplicates the match is
// arbitrary.
func (r *Registry) ConnByUsername(username string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, sess := range r.sessions {
		if sess.Username == username {
			return id, true
		}
	}
	return "", false
}

// memberSnapshot copies a room's member set. Caller must hold mu.
func (r *Registry) memberSnapshot(roomName string) []string {
	set := r.members[roomName]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
