package kex

import (
	"crypto/rand"
	"fmt"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/curve25519"

	"github.com/catshadow/packetconn/wire"
)

const publicKeySize = 32

// Curve25519 is a plain ephemeral X25519 Diffie-Hellman exchange: each side
// sends its public key, receives the other's, and both arrive at the same
// 32-byte point. Mode is unused, the exchange is fully symmetric.
type Curve25519 struct{}

var _ KeyExchange = Curve25519{}

// Handshake runs the exchange over conn and returns the 32-byte shared
// point. The ephemeral private key is held in a memguard.LockedBuffer for
// the duration of the call and destroyed before returning.
func (Curve25519) Handshake(conn wire.Connection, _ Mode) ([]byte, error) {
	privateBuf, err := memguard.NewBufferFromReader(rand.Reader, publicKeySize)
	if err != nil {
		return nil, fmt.Errorf("%w: generating ephemeral key: %v", ErrHandshakeProtocol, err)
	}
	defer privateBuf.Destroy()

	var public [publicKeySize]byte
	curve25519.ScalarBaseMult(&public, privateBuf.ByteArray32())

	if err := conn.Send(public[:]); err != nil {
		return nil, fmt.Errorf("%w: sending public key: %v", ErrHandshakeCommunication, err)
	}

	peerData, err := conn.Receive()
	if err != nil {
		return nil, fmt.Errorf("%w: receiving peer public key: %v", ErrHandshakeCommunication, err)
	}
	if len(peerData) != publicKeySize {
		return nil, fmt.Errorf("%w: peer public key is %d bytes, want %d", ErrHandshakeProtocol, len(peerData), publicKeySize)
	}

	var peerPublic [publicKeySize]byte
	copy(peerPublic[:], peerData)

	var shared [publicKeySize]byte
	curve25519.ScalarMult(&shared, privateBuf.ByteArray32(), &peerPublic)

	out := make([]byte, publicKeySize)
	copy(out, shared[:])
	return out, nil
}
