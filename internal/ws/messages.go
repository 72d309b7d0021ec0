package ws

import "encoding/json"

// Envelope wraps every inbound WS frame.
type Envelope struct {
	Event string          `json:"event"`          // e.g. "join_room"
	Body  json.RawMessage `json:"body,omitempty"` // arbitrary JSON value
}

// outEnvelope is the outbound counterpart; Body is marshalled on the way
// out rather than kept raw.
type outEnvelope struct {
	Event string `json:"event"`
	Body  any    `json:"body,omitempty"`
}

// ──────────────────────────── Request DTOs ──────────────────────────────

// JoinRoomRequest is the body for "join_room".
type JoinRoomRequest struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

// SwitchRoomRequest is the body for "switch_room".
type SwitchRoomRequest struct {
	NewRoom string `json:"newRoom"`
}

// PrivateMessageRequest is the body for "private_message".
type PrivateMessageRequest struct {
	TargetUsername string `json:"targetUsername"`
	Message        string `json:"message"`
}

// "create_room" carries a bare room-name string, "send_message" a bare
// text string and "typing" a bare bool; those decode straight into their
// Go counterparts.
