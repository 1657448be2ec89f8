package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/besuhoff/collision-demo-go/internal/types"
)

// MarshalJSON encodes msg as a {"type", "payload"} envelope
func MarshalJSON(msg *GameMessage) ([]byte, error) {
	if _, ok := wireTypeByMessageType[msg.Type]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, msg.Type)
	}
	payload := msg.payload()
	if payload == nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingPayload, msg.Type)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s payload: %w", msg.Type, err)
	}
	return json.Marshal(types.Message{Type: msg.Type, Payload: raw})
}

// UnmarshalJSON decodes a {"type", "payload"} envelope into msg
func UnmarshalJSON(data []byte, msg *GameMessage) error {
	var envelope types.Message
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("unmarshaling JSON message: %w", err)
	}
	if _, ok := wireTypeByMessageType[envelope.Type]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMessageType, envelope.Type)
	}
	if len(envelope.Payload) == 0 || string(envelope.Payload) == "null" {
		return fmt.Errorf("%w: %q", ErrMissingPayload, envelope.Type)
	}

	*msg = GameMessage{Type: envelope.Type}

	var target interface{}
	switch envelope.Type {
	case types.MsgTypePointer:
		msg.Pointer = &types.PointerPayload{}
		target = msg.Pointer
	case types.MsgTypeSession:
		msg.Session = &types.SessionInfo{}
		target = msg.Session
	case types.MsgTypeFrame:
		msg.Frame = &types.FrameState{}
		target = msg.Frame
	case types.MsgTypeError:
		msg.Error = &types.ErrorPayload{}
		target = msg.Error
	}

	if err := json.Unmarshal(envelope.Payload, target); err != nil {
		return fmt.Errorf("unmarshaling %s payload: %w", envelope.Type, err)
	}
	return nil
}
