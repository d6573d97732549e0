package packet

import (
	"encoding/binary"
	"fmt"

	"github.com/danmuck/nrfrpc/internal/protocol"
)

const errorReportSize = 4

// Init is the payload of an init packet.
type Init struct {
	MaxVersion uint8
	MinVersion uint8
	GroupName  string
}

// ParseInit splits an init payload (bytes after the header). This client sends a
// single version byte, so a one-byte payload parses with MinVersion == MaxVersion.
func ParseInit(payload []byte) (Init, error) {
	switch len(payload) {
	case 0:
		return Init{}, fmt.Errorf("%w: empty init payload", protocol.ErrInvalidResponse)
	case 1:
		return Init{MaxVersion: payload[0], MinVersion: payload[0]}, nil
	}
	return Init{
		MaxVersion: payload[0],
		MinVersion: payload[1],
		GroupName:  string(payload[2:]),
	}, nil
}

// DecodeErrorReport returns the little-endian signed error code of an error report payload.
func DecodeErrorReport(payload []byte) (int32, error) {
	if len(payload) < errorReportSize {
		return 0, fmt.Errorf("%w: error report payload of %d bytes", protocol.ErrInvalidResponse, len(payload))
	}
	return int32(binary.LittleEndian.Uint32(payload[:errorReportSize])), nil
}

// InitNames reports whether payload is an init payload naming group, with either
// the two-byte version range or the single version byte this client sends.
// versions is the number of version bytes that precede the name.
func InitNames(payload []byte, group string) (versions int, ok bool) {
	for _, v := range []int{2, 1} {
		if len(payload) >= v+len(group) && string(payload[v:v+len(group)]) == group {
			return v, true
		}
	}
	return 0, false
}

// SplitInit cuts the init reply for group off the front of b. Byte-stream
// transports may deliver several back-to-back init replies in one read; the
// reply ends where the expected group name ends and the next init header
// starts. When no such boundary is found the whole of b is returned as one
// packet.
func SplitInit(b []byte, group string) (pkt, rest []byte) {
	if len(b) < HeaderSize || Type(b[0]) != TypeInit || group == "" {
		return b, nil
	}
	for _, v := range []int{2, 1} {
		end := HeaderSize + v + len(group)
		if len(b) < end || string(b[HeaderSize+v:end]) != group {
			continue
		}
		if len(b) == end || Type(b[end]) == TypeInit {
			return b[:end], b[end:]
		}
	}
	return b, nil
}
