package rpc

import "fmt"

type State uint8

const (
	StateUninitialized State = iota
	StateAwaitingGroupRegistrations
	StateReady
	// StateFaulted is terminal: the stream position is unknown after a transport failure.
	StateFaulted
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateAwaitingGroupRegistrations:
		return "awaiting_group_registrations"
	case StateReady:
		return "ready"
	case StateFaulted:
		return "faulted"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}
