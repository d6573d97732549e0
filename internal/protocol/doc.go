// Package protocol owns the nRF RPC wire contract shared by the client layers.
//
// Ownership boundary:
// - error kinds shared by every protocol layer
// - packet header framing (packet)
// - CBOR argument/return value encoding (value)
// - cross-processor scratchpad sizing (scratchpad)
package protocol
