// Package packet implements nRF RPC packet framing.
//
// Every packet is a fixed 5-byte header followed by an optional payload:
//
//	byte 0: type, or 0x80|source context id for commands
//	byte 1: command id
//	byte 2: destination context id
//	byte 3: source group id
//	byte 4: destination group id
package packet

import (
	"fmt"

	"github.com/danmuck/nrfrpc/internal/protocol"
)

const HeaderSize = 5

// Type is the packet type carried in header byte 0.
type Type uint8

const (
	TypeEvent       Type = 0x00
	TypeResponse    Type = 0x01
	TypeEventAck    Type = 0x02
	TypeErrorReport Type = 0x03
	TypeInit        Type = 0x04
	TypeCommand     Type = 0x80
)

const (
	// ContextMask selects the source context id bits of a command type byte.
	ContextMask uint8 = 0x7F

	// UnknownContext and UnknownGroup are sent when the peer id is not yet known.
	UnknownContext uint8 = 0xFF
	UnknownGroup   uint8 = 0xFF

	// ProtocolVersion is the single version byte this client writes after the
	// init header. Peers reply with a max and a min version byte.
	ProtocolVersion uint8 = 0x00
)

func (t Type) String() string {
	switch t {
	case TypeEvent:
		return "event"
	case TypeResponse:
		return "response"
	case TypeEventAck:
		return "event_ack"
	case TypeErrorReport:
		return "error_report"
	case TypeInit:
		return "init"
	case TypeCommand:
		return "command"
	default:
		return fmt.Sprintf("type(0x%02x)", uint8(t))
	}
}

// Header is the decoded fixed packet header. SrcCtx is only carried on the
// wire for command packets.
type Header struct {
	Type      Type
	SrcCtx    uint8
	CommandID uint8
	DstCtx    uint8
	SrcGroup  uint8
	DstGroup  uint8
}

func (h Header) Encode() []byte {
	buf := make([]byte, HeaderSize)
	h.put(buf)
	return buf
}

func (h Header) put(buf []byte) {
	if h.Type == TypeCommand {
		buf[0] = uint8(TypeCommand) | (h.SrcCtx & ContextMask)
	} else {
		buf[0] = uint8(h.Type)
	}
	buf[1] = h.CommandID
	buf[2] = h.DstCtx
	buf[3] = h.SrcGroup
	buf[4] = h.DstGroup
}

// DecodeHeader parses the first HeaderSize bytes of b.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: packet of %d bytes is shorter than header", protocol.ErrInvalidResponse, len(b))
	}
	h := Header{
		Type:      Type(b[0]),
		CommandID: b[1],
		DstCtx:    b[2],
		SrcGroup:  b[3],
		DstGroup:  b[4],
	}
	if b[0]&uint8(TypeCommand) != 0 {
		h.Type = TypeCommand
		h.SrcCtx = b[0] & ContextMask
	}
	return h, nil
}

// EncodeInit writes an init packet registering groupName under srcGroup.
// The group name has no length prefix or terminator; its end is the end of the packet.
func EncodeInit(buf *Buffer, srcGroup uint8, groupName string) error {
	need := HeaderSize + 1 + len(groupName)
	if buf.Available() < need {
		return protocol.NewCodecError("init", fmt.Errorf("init %q needs %d bytes, %d available: %w",
			groupName, need, buf.Available(), protocol.ErrBufferTooSmall))
	}
	h := Header{
		Type:      TypeInit,
		CommandID: 0x00,
		DstCtx:    UnknownContext,
		SrcGroup:  srcGroup,
		DstGroup:  UnknownGroup,
	}
	_, _ = buf.Write(h.Encode())
	_ = buf.WriteByte(ProtocolVersion)
	_, _ = buf.Write([]byte(groupName))
	return nil
}

// EncodeCommand writes a command header. srcCtx is truncated to 7 bits.
func EncodeCommand(buf *Buffer, srcCtx, commandID, dstCtx, srcGroup, dstGroup uint8) error {
	h := Header{
		Type:      TypeCommand,
		SrcCtx:    srcCtx,
		CommandID: commandID,
		DstCtx:    dstCtx,
		SrcGroup:  srcGroup,
		DstGroup:  dstGroup,
	}
	if _, err := buf.Write(h.Encode()); err != nil {
		return protocol.NewCodecError("command header", err)
	}
	return nil
}
