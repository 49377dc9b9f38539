// Package kex implements the key-exchange half of the secure channel: both
// sides derive the same session secret, so the two peers' results are
// byte-for-byte comparable in tests. Curve25519 returns the raw DH output
// with no KDF step; Hybrid is the one exchange that hashes its two secrets
// together with SHA-256.
package kex

import (
	"errors"

	"github.com/catshadow/packetconn/wire"
)

// Mode distinguishes the two sides of a handshake. Curve25519 ignores it.
// Hybrid uses it to assign the KEM roles (Server generates the KEM keypair,
// Client encapsulates), and the legacy variant uses it to pick the active
// (Client) and passive (Server) side, so the two peers must use opposite
// modes with those exchanges.
type Mode int

const (
	Client Mode = iota
	Server
)

var (
	// ErrHandshakeCommunication wraps a failure to Send/Receive the
	// handshake messages themselves.
	ErrHandshakeCommunication = errors.New("packetconn/kex: handshake communication failure")
	// ErrHandshakeProtocol wraps a structurally invalid handshake message
	// (wrong size, rejected point, etc).
	ErrHandshakeProtocol = errors.New("packetconn/kex: handshake protocol failure")
)

// KeyExchange performs a mutual handshake over conn and returns the shared
// session secret. Implementations send and receive exactly the messages
// their protocol defines; conn is otherwise unused afterward.
type KeyExchange interface {
	Handshake(conn wire.Connection, mode Mode) ([]byte, error)
}
