package protocol

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/besuhoff/collision-demo-go/internal/types"
)

// Field numbers from frame.proto
const (
	fieldMessageType    protowire.Number = 1
	fieldMessagePointer protowire.Number = 2
	fieldMessageSession protowire.Number = 3
	fieldMessageFrame   protowire.Number = 4
	fieldMessageError   protowire.Number = 5
)

// MarshalBinary encodes msg as a GameMessage in protobuf wire format
func MarshalBinary(msg *GameMessage) ([]byte, error) {
	wireType, ok := wireTypeByMessageType[msg.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, msg.Type)
	}
	if msg.payload() == nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingPayload, msg.Type)
	}

	b := appendVarintField(nil, fieldMessageType, wireType)
	switch msg.Type {
	case types.MsgTypePointer:
		b = appendMessageField(b, fieldMessagePointer, appendVector(nil, msg.Pointer.X, msg.Pointer.Y))
	case types.MsgTypeSession:
		b = appendMessageField(b, fieldMessageSession, appendSessionInfo(nil, msg.Session))
	case types.MsgTypeFrame:
		b = appendMessageField(b, fieldMessageFrame, appendFrame(nil, msg.Frame))
	case types.MsgTypeError:
		b = appendMessageField(b, fieldMessageError, appendStringField(nil, 1, msg.Error.Message))
	}
	return b, nil
}

// UnmarshalBinary decodes a protobuf wire GameMessage into msg
func UnmarshalBinary(data []byte, msg *GameMessage) error {
	var wireType uint64
	decoded := GameMessage{}

	err := consumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case fieldMessageType:
			return consumeVarint(typ, b, &wireType), nil
		case fieldMessagePointer:
			return consumeMessage(typ, b, func(m []byte) error {
				p, err := decodePointer(m)
				decoded.Pointer = p
				return err
			})
		case fieldMessageSession:
			return consumeMessage(typ, b, func(m []byte) error {
				s, err := decodeSessionInfo(m)
				decoded.Session = s
				return err
			})
		case fieldMessageFrame:
			return consumeMessage(typ, b, func(m []byte) error {
				f, err := decodeFrame(m)
				decoded.Frame = f
				return err
			})
		case fieldMessageError:
			return consumeMessage(typ, b, func(m []byte) error {
				e := &types.ErrorPayload{}
				decoded.Error = e
				return consumeFields(m, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
					if num == 1 {
						return consumeString(typ, b, &e.Message), nil
					}
					return 0, nil
				})
			})
		}
		return 0, nil
	})
	if err != nil {
		return fmt.Errorf("unmarshaling binary message: %w", err)
	}

	msgType, ok := messageTypeByWireType[wireType]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMessageType, wireType)
	}
	decoded.Type = msgType
	if decoded.payload() == nil {
		return fmt.Errorf("%w: %q", ErrMissingPayload, msgType)
	}

	*msg = decoded
	return nil
}

func appendFrame(b []byte, f *types.FrameState) []byte {
	b = appendStringField(b, 1, f.SessionID)
	b = appendVarintField(b, 2, f.Frame)
	b = appendMessageField(b, 3, appendVector(nil, f.World.Width, f.World.Height))
	b = appendVarintField(b, 4, f.Collisions)
	for i := range f.Particles {
		b = appendMessageField(b, 5, appendParticle(nil, &f.Particles[i]))
	}
	b = appendVarintField(b, 6, uint64(f.Timestamp))
	return b
}

func appendParticle(b []byte, p *types.ParticleState) []byte {
	b = appendVarintField(b, 1, uint64(p.ID))
	b = appendDoubleField(b, 2, p.X)
	b = appendDoubleField(b, 3, p.Y)
	b = appendDoubleField(b, 4, p.Radius)
	b = protowire.AppendTag(b, 5, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, types.PackRGB(p.Color))
	b = appendDoubleField(b, 6, p.Opacity)
	return b
}

func appendSessionInfo(b []byte, s *types.SessionInfo) []byte {
	b = appendStringField(b, 1, s.ID)
	b = appendStringField(b, 2, s.Name)
	b = appendMessageField(b, 3, appendVector(nil, s.World.Width, s.World.Height))
	b = appendVarintField(b, 4, uint64(s.ParticleCount))
	b = appendVarintField(b, 5, uint64(s.Viewers))

	var stats []byte
	stats = appendVarintField(stats, 1, s.Stats.Frames)
	stats = appendVarintField(stats, 2, s.Stats.Collisions)
	stats = appendVarintField(stats, 3, s.Stats.WallBounces)
	return appendMessageField(b, 6, stats)
}

// appendVector encodes Vector2 and World, which share field layout
func appendVector(b []byte, x, y float64) []byte {
	b = appendDoubleField(b, 1, x)
	return appendDoubleField(b, 2, y)
}

func decodeFrame(b []byte) (*types.FrameState, error) {
	f := &types.FrameState{}
	var timestamp uint64

	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &f.SessionID), nil
		case 2:
			return consumeVarint(typ, b, &f.Frame), nil
		case 3:
			return consumeMessage(typ, b, func(m []byte) error {
				return decodeVector(m, &f.World.Width, &f.World.Height)
			})
		case 4:
			return consumeVarint(typ, b, &f.Collisions), nil
		case 5:
			return consumeMessage(typ, b, func(m []byte) error {
				p, err := decodeParticle(m)
				if err == nil {
					f.Particles = append(f.Particles, p)
				}
				return err
			})
		case 6:
			return consumeVarint(typ, b, &timestamp), nil
		}
		return 0, nil
	})
	f.Timestamp = int64(timestamp)
	return f, err
}

func decodeParticle(b []byte) (types.ParticleState, error) {
	var p types.ParticleState
	var id uint64

	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeVarint(typ, b, &id), nil
		case 2:
			return consumeDouble(typ, b, &p.X), nil
		case 3:
			return consumeDouble(typ, b, &p.Y), nil
		case 4:
			return consumeDouble(typ, b, &p.Radius), nil
		case 5:
			if typ != protowire.Fixed32Type {
				return 0, nil
			}
			v, n := protowire.ConsumeFixed32(b)
			if n >= 0 {
				p.Color = types.UnpackRGB(v)
			}
			return n, nil
		case 6:
			return consumeDouble(typ, b, &p.Opacity), nil
		}
		return 0, nil
	})
	p.ID = int(id)
	return p, err
}

func decodeSessionInfo(b []byte) (*types.SessionInfo, error) {
	s := &types.SessionInfo{}
	var particles, viewers uint64

	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &s.ID), nil
		case 2:
			return consumeString(typ, b, &s.Name), nil
		case 3:
			return consumeMessage(typ, b, func(m []byte) error {
				return decodeVector(m, &s.World.Width, &s.World.Height)
			})
		case 4:
			return consumeVarint(typ, b, &particles), nil
		case 5:
			return consumeVarint(typ, b, &viewers), nil
		case 6:
			return consumeMessage(typ, b, func(m []byte) error {
				return consumeFields(m, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
					switch num {
					case 1:
						return consumeVarint(typ, b, &s.Stats.Frames), nil
					case 2:
						return consumeVarint(typ, b, &s.Stats.Collisions), nil
					case 3:
						return consumeVarint(typ, b, &s.Stats.WallBounces), nil
					}
					return 0, nil
				})
			})
		}
		return 0, nil
	})
	s.ParticleCount = int(particles)
	s.Viewers = int(viewers)
	return s, err
}

func decodePointer(b []byte) (*types.PointerPayload, error) {
	p := &types.PointerPayload{}
	return p, decodeVector(b, &p.X, &p.Y)
}

func decodeVector(b []byte, x, y *float64) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeDouble(typ, b, x), nil
		case 2:
			return consumeDouble(typ, b, y), nil
		}
		return 0, nil
	})
}
