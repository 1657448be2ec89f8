package types

import "encoding/json"

// MessageType represents different types of messages
type MessageType string

const (
	// Client -> Server
	MsgTypePointer MessageType = "pointer"

	// Server -> Client
	MsgTypeSession MessageType = "session"
	MsgTypeFrame   MessageType = "frame"
	MsgTypeError   MessageType = "error"
)

// Message is the JSON envelope used on text websocket frames
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// PointerPayload carries the viewer's pointer position in world units
type PointerPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ErrorPayload for error messages
type ErrorPayload struct {
	Message string `json:"message"`
}
