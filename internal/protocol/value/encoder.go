package value

import (
	"io"

	"github.com/danmuck/nrfrpc/internal/protocol"
)

// Encoder appends values to w. The first failure is sticky: later calls are
// no-ops and Err reports it.
type Encoder struct {
	w   io.Writer
	err error
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) Uint(v uint64) {
	e.encode("uint", v)
}

func (e *Encoder) Int(v int64) {
	e.encode("int", v)
}

func (e *Encoder) Bytes(v []byte) {
	if v == nil {
		// nil slices would otherwise encode as null.
		v = []byte{}
	}
	e.encode("bytes", v)
}

func (e *Encoder) Text(v string) {
	e.encode("text", v)
}

func (e *Encoder) Null() {
	e.encode("null", nil)
}

func (e *Encoder) Err() error {
	return e.err
}

func (e *Encoder) encode(op string, v any) {
	if e.err != nil {
		return
	}
	b, err := encMode.Marshal(v)
	if err != nil {
		e.err = protocol.NewCodecError(op, err)
		return
	}
	if _, err := e.w.Write(b); err != nil {
		e.err = protocol.NewCodecError(op, err)
	}
}

// Append encodes v onto dst with no capacity bound.
func Append(dst []byte, v any) ([]byte, error) {
	if b, ok := v.([]byte); ok && b == nil {
		v = []byte{}
	}
	b, err := encMode.Marshal(v)
	if err != nil {
		return dst, protocol.NewCodecError("append", err)
	}
	return append(dst, b...), nil
}
