package protocol

import (
	"errors"

	"github.com/besuhoff/collision-demo-go/internal/types"
)

var (
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrMissingPayload     = errors.New("message payload missing")
)

// GameMessage is the decoded form of one websocket message. Exactly one
// payload field is set, matching Type.
type GameMessage struct {
	Type    types.MessageType
	Pointer *types.PointerPayload
	Session *types.SessionInfo
	Frame   *types.FrameState
	Error   *types.ErrorPayload
}

// Enum values of MessageType in frame.proto
const (
	wireTypeUnknown uint64 = iota
	wireTypePointer
	wireTypeSession
	wireTypeFrame
	wireTypeError
)

var wireTypeByMessageType = map[types.MessageType]uint64{
	types.MsgTypePointer: wireTypePointer,
	types.MsgTypeSession: wireTypeSession,
	types.MsgTypeFrame:   wireTypeFrame,
	types.MsgTypeError:   wireTypeError,
}

var messageTypeByWireType = map[uint64]types.MessageType{
	wireTypePointer: types.MsgTypePointer,
	wireTypeSession: types.MsgTypeSession,
	wireTypeFrame:   types.MsgTypeFrame,
	wireTypeError:   types.MsgTypeError,
}

func NewPointerMessage(x, y float64) *GameMessage {
	return &GameMessage{
		Type:    types.MsgTypePointer,
		Pointer: &types.PointerPayload{X: x, Y: y},
	}
}

func NewSessionMessage(info *types.SessionInfo) *GameMessage {
	return &GameMessage{Type: types.MsgTypeSession, Session: info}
}

func NewFrameMessage(frame *types.FrameState) *GameMessage {
	return &GameMessage{Type: types.MsgTypeFrame, Frame: frame}
}

func NewErrorMessage(text string) *GameMessage {
	return &GameMessage{
		Type:  types.MsgTypeError,
		Error: &types.ErrorPayload{Message: text},
	}
}

// payload returns the field matching Type, or nil
func (m *GameMessage) payload() interface{} {
	switch m.Type {
	case types.MsgTypePointer:
		if m.Pointer != nil {
			return m.Pointer
		}
	case types.MsgTypeSession:
		if m.Session != nil {
			return m.Session
		}
	case types.MsgTypeFrame:
		if m.Frame != nil {
			return m.Frame
		}
	case types.MsgTypeError:
		if m.Error != nil {
			return m.Error
		}
	}
	return nil
}
