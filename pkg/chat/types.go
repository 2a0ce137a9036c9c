package chat

import "encoding/json"

// UserInfo is the identity snapshot attached to a live connection. It is
// resolved once at connect time and never mutated afterwards.
type UserInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// Envelope is the frame format spoken on both websocket endpoints:
// {"type": "...", "data": {...}}. Data is kept raw so each relay can decode
// the payload shape it expects.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Event is the outbound counterpart of Envelope.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Outbound event types.
const (
	EventUserJoined       = "user_joined"
	EventUserLeft         = "user_left"
	EventChatMessage      = "chat_message"
	EventVoiceUsersUpdate = "voice_users_update"
	EventError            = "error"
)

// Inbound message types. Anything else is ignored for forward compatibility.
const (
	TypeChatMessage = "chat_message"
	SignalOffer     = "offer"
	SignalAnswer    = "answer"
	SignalCandidate = "ice-candidate"
)

type ChatMessagePayload struct {
	Content string `json:"content"`
}
