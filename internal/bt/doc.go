// Package bt encodes the Bluetooth LE GAP commands this client can issue over nRF
// RPC and wraps an rpc.Client to send them.
package bt
