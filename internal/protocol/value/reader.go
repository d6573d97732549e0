package value

import (
	"fmt"
	"math"
	"math/big"

	"github.com/danmuck/nrfrpc/internal/protocol"
)

// Reader walks a sequence of values in a response or event payload.
type Reader struct {
	rest []byte
}

func NewReader(payload []byte) *Reader {
	return &Reader{rest: payload}
}

// Remaining reports the number of undecoded bytes.
func (r *Reader) Remaining() int {
	return len(r.rest)
}

// IsNull reports whether the next item is null without consuming it.
func (r *Reader) IsNull() bool {
	return len(r.rest) > 0 && r.rest[0] == NullByte
}

// Next decodes one item as uint64, int64, []byte, string or nil.
func (r *Reader) Next() (any, error) {
	if len(r.rest) == 0 {
		return nil, fmt.Errorf("%w: no value left in payload", protocol.ErrInvalidResponse)
	}
	var v any
	rest, err := decMode.UnmarshalFirst(r.rest, &v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", protocol.ErrInvalidResponse, err)
	}
	r.rest = rest
	return v, nil
}

func (r *Reader) Uint() (uint64, error) {
	v, err := r.Next()
	if err != nil {
		return 0, err
	}
	u, ok := v.(uint64)
	if !ok {
		return 0, mismatch("unsigned integer", v)
	}
	return u, nil
}

// Int accepts both unsigned and negative integer items that fit in int64.
func (r *Reader) Int() (int64, error) {
	v, err := r.Next()
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%w: integer %d overflows int64", protocol.ErrInvalidResponse, n)
		}
		return int64(n), nil
	case int64:
		return n, nil
	case big.Int:
		return 0, fmt.Errorf("%w: integer %s overflows int64", protocol.ErrInvalidResponse, n.String())
	default:
		return 0, mismatch("integer", v)
	}
}

func (r *Reader) Int32() (int32, error) {
	n, err := r.Int()
	if err != nil {
		return 0, err
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: integer %d overflows int32", protocol.ErrInvalidResponse, n)
	}
	return int32(n), nil
}

func (r *Reader) Bytes() ([]byte, error) {
	v, err := r.Next()
	if err != nil {
		return nil, err
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, mismatch("byte string", v)
	}
	return b, nil
}

func (r *Reader) Text() (string, error) {
	v, err := r.Next()
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", mismatch("text string", v)
	}
	return s, nil
}

func (r *Reader) Null() error {
	v, err := r.Next()
	if err != nil {
		return err
	}
	if v != nil {
		return mismatch("null", v)
	}
	return nil
}

// DecodeInt32 decodes the single integer return value at the start of payload.
func DecodeInt32(payload []byte) (int32, error) {
	return NewReader(payload).Int32()
}

func mismatch(want string, got any) error {
	if got == nil {
		return fmt.Errorf("%w: want %s, got null", protocol.ErrInvalidResponse, want)
	}
	return fmt.Errorf("%w: want %s, got %T", protocol.ErrInvalidResponse, want, got)
}
