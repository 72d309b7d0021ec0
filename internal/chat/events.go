package chat

// Outbound event names pushed to clients.
const (
	EventRoomList       = "room_list"
	EventUserJoined     = "user_joined"
	EventUserLeft       = "user_left"
	EventReceiveMessage = "receive_message"
	EventPrivateMessage = "private_message"
	EventUserTyping     = "user_typing"
	EventJoinedRoom     = "joined_room"
)

// Notifier is the transport capability the chat service emits through.
// The ws hub implements it; tests substitute a recorder.
type Notifier interface {
	// Send delivers one event to a single connection.
	Send(connID, event string, body any)
	// Broadcast delivers one event to a fixed membership snapshot.
	Broadcast(connIDs []string, event string, body any)
	// BroadcastAll delivers one event to every live connection.
	BroadcastAll(event string, body any)
}

// Presence is the body of user_joined / user_left.
type Presence struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// RoomMessage is the body of receive_message.
type RoomMessage struct {
	Username string `json:"username"`
	Message  string `json:"message"`
	Time     string `json:"time"`
}

// DirectMessage is the body of private_message.
type DirectMessage struct {
	From    string `json:"from"`
	Message string `json:"message"`
	Time    string `json:"time"`
}

// TypingState is the body of user_typing.
type TypingState struct {
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}
