// Package scratchpad computes the scratch buffer size a peer reserves before
// dispatching a call with variable-length arguments.
//
// The peer copies each variable-length argument into its scratchpad at a 4-byte
// aligned offset, so both ends must compute the same total from the same
// arguments. The size is sent as the first value of the command payload.
package scratchpad

const Alignment = 4

// Align rounds n up to the next multiple of Alignment.
func Align(n int) int {
	return (n + Alignment - 1) &^ (Alignment - 1)
}

// Sizer accumulates the scratchpad footprint of one call.
type Sizer struct {
	size int
}

// AddItem accounts for one variable-length item: its fixed header struct and its data.
func (s *Sizer) AddItem(headerSize, dataLen int) {
	s.size += Align(headerSize) + Align(dataLen)
}

// AddStruct accounts for an optional fixed-size struct passed by pointer.
func (s *Sizer) AddStruct(size int) {
	s.size += Align(size)
}

func (s *Sizer) Size() int {
	return s.size
}

// ItemsSize is the scratchpad footprint of a list of items sharing one header size.
func ItemsSize(headerSize int, dataLens ...int) int {
	var s Sizer
	for _, n := range dataLens {
		s.AddItem(headerSize, n)
	}
	return s.Size()
}
