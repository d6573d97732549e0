// Package value encodes and decodes RPC arguments and return values.
//
// Values are single CBOR (RFC 8949) data items in their shortest form: unsigned
// and negative integers, byte strings, text strings and null. Argument lists are
// a plain sequence of items terminated by null.
package value

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// NullByte is the encoded CBOR null item.
const NullByte = 0xF6

var (
	encMode = mustEncMode()
	decMode = mustDecMode()
)

func mustEncMode() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("value: cbor encode mode: %v", err))
	}
	return em
}

func mustDecMode() cbor.DecMode {
	dm, err := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("value: cbor decode mode: %v", err))
	}
	return dm
}
