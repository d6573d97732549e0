// Package rpc owns the client side of one nRF RPC conversation.
//
// Ownership boundary:
// - group registration handshake and positional group id correlation
// - lock-step command/response exchange with context id 0
// - client state machine (uninitialized, awaiting registrations, ready, faulted)
//
// Packet bytes are built by internal/protocol/packet and internal/protocol/value;
// moving bytes is the job of internal/transport.
package rpc
