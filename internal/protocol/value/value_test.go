package value

import (
	"bytes"
	"testing"

	"github.com/danmuck/nrfrpc/internal/protocol"
	"github.com/danmuck/nrfrpc/internal/protocol/packet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, fn func(*Encoder)) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	fn(enc)
	require.NoError(t, enc.Err())
	return buf.Bytes()
}

func TestUintMinimalLength(t *testing.T) {
	tests := []struct {
		in   uint64
		want []byte
	}{
		{0, []byte{0x00}},
		{3, []byte{0x03}},
		{23, []byte{0x17}},
		{24, []byte{0x18, 0x18}},
		{28, []byte{0x18, 0x1C}},
		{160, []byte{0x18, 0xA0}},
		{255, []byte{0x18, 0xFF}},
		{256, []byte{0x19, 0x01, 0x00}},
		{65535, []byte{0x19, 0xFF, 0xFF}},
		{65536, []byte{0x1A, 0x00, 0x01, 0x00, 0x00}},
		{1 << 32, []byte{0x1B, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00}},
	}
	for _, tt := range tests {
		got := encode(t, func(e *Encoder) { e.Uint(tt.in) })
		assert.Equal(t, tt.want, got, "uint(%d)", tt.in)

		back, err := NewReader(got).Uint()
		require.NoError(t, err)
		assert.Equal(t, tt.in, back)
	}
}

func TestIntSignedEncoding(t *testing.T) {
	tests := []struct {
		in   int64
		want []byte
	}{
		{0, []byte{0x00}},
		{10, []byte{0x0A}},
		{-1, []byte{0x20}},
		{-24, []byte{0x37}},
		{-25, []byte{0x38, 0x18}},
		{-256, []byte{0x38, 0xFF}},
		{-257, []byte{0x39, 0x01, 0x00}},
		{-22, []byte{0x35}},
	}
	for _, tt := range tests {
		got := encode(t, func(e *Encoder) { e.Int(tt.in) })
		assert.Equal(t, tt.want, got, "int(%d)", tt.in)

		back, err := NewReader(got).Int()
		require.NoError(t, err)
		assert.Equal(t, tt.in, back)
	}
}

func TestStringsAndNull(t *testing.T) {
	got := encode(t, func(e *Encoder) {
		e.Uint(100)
		e.Text("bar")
		e.Bytes([]byte{0x06})
		e.Bytes(nil)
		e.Null()
	})
	want := []byte{0x18, 0x64, 0x63, 'b', 'a', 'r', 0x41, 0x06, 0x40, 0xF6}
	assert.Equal(t, want, got)

	r := NewReader(got)
	n, err := r.Uint()
	require.NoError(t, err)
	assert.EqualValues(t, 100, n)
	s, err := r.Text()
	require.NoError(t, err)
	assert.Equal(t, "bar", s)
	b, err := r.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x06}, b)
	empty, err := r.Bytes()
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.True(t, r.IsNull())
	require.NoError(t, r.Null())
	assert.Zero(t, r.Remaining())

	_, err = r.Next()
	assert.ErrorIs(t, err, protocol.ErrInvalidResponse)
}

func TestEncoderBufferTooSmallIsSticky(t *testing.T) {
	buf := packet.NewBuffer(3)
	enc := NewEncoder(buf)
	enc.Uint(28)
	enc.Uint(28)
	enc.Null()

	err := enc.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, protocol.ErrBufferTooSmall)
	var ce *protocol.CodecError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "uint", ce.Op)
	assert.Equal(t, []byte{0x18, 0x1C}, buf.Bytes(), "overflowing item must not be partially written")
}

func TestAppend(t *testing.T) {
	out, err := Append(nil, uint64(24))
	require.NoError(t, err)
	out, err = Append(out, []byte(nil))
	require.NoError(t, err)
	out, err = Append(out, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x18, 0x18, 0x40, 0xF6}, out)
}

func TestDecodeInt32(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    int32
		wantErr bool
	}{
		{name: "zero", payload: []byte{0x00, 0xF6}, want: 0},
		{name: "negative errno", payload: []byte{0x38, 0x0B}, want: -12},
		{name: "max int32", payload: []byte{0x1A, 0x7F, 0xFF, 0xFF, 0xFF}, want: 2147483647},
		{name: "min int32", payload: []byte{0x3A, 0x7F, 0xFF, 0xFF, 0xFF}, want: -2147483648},
		{name: "overflow", payload: []byte{0x1A, 0x80, 0x00, 0x00, 0x00}, wantErr: true},
		{name: "null", payload: []byte{0xF6}, wantErr: true},
		{name: "text", payload: []byte{0x61, 'a'}, wantErr: true},
		{name: "empty", payload: nil, wantErr: true},
		{name: "truncated", payload: []byte{0x19, 0x01}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeInt32(tt.payload)
			if tt.wantErr {
				assert.ErrorIs(t, err, protocol.ErrInvalidResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReaderTypeMismatch(t *testing.T) {
	_, err := NewReader([]byte{0x20}).Uint()
	assert.ErrorIs(t, err, protocol.ErrInvalidResponse)
	_, err = NewReader([]byte{0x01}).Text()
	assert.ErrorIs(t, err, protocol.ErrInvalidResponse)
	_, err = NewReader([]byte{0x60}).Bytes()
	assert.ErrorIs(t, err, protocol.ErrInvalidResponse)
	err = NewReader([]byte{0x00}).Null()
	assert.ErrorIs(t, err, protocol.ErrInvalidResponse)
	_, err = NewReader([]byte{0x1B, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}).Int()
	assert.ErrorIs(t, err, protocol.ErrInvalidResponse)
}
