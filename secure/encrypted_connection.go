// Package secure layers authenticated encryption over a wire.Connection: a
// handshake establishes a shared secret once, and every Send/Receive after
// that encrypts or decrypts the framed payload transparently.
package secure

import (
	"errors"
	"fmt"

	"github.com/catshadow/packetconn/crypto/aead"
	"github.com/catshadow/packetconn/crypto/kex"
	"github.com/catshadow/packetconn/wire"
)

var (
	// ErrHandshake wraps a failed key exchange.
	ErrHandshake = errors.New("packetconn/secure: handshake failed")
	// ErrCryptoInit wraps a failure constructing the cipher from the
	// negotiated secret.
	ErrCryptoInit = errors.New("packetconn/secure: cipher initialization failed")
)

// CipherFactory builds an aead.Encryption from a handshake secret. Each kex
// implementation pairs with a CipherFactory whose key size it produces.
type CipherFactory func(secret []byte) (aead.Encryption, error)

// EncryptedConnection decorates a wire.Connection, encrypting every Send
// and decrypting every Receive with a cipher keyed by a prior handshake.
type EncryptedConnection struct {
	connection wire.Connection
	crypto     aead.Encryption
}

var _ wire.Connection = (*EncryptedConnection)(nil)

// WithHandshake runs exchange over connection, builds a cipher from the
// resulting secret via newCipher, and returns an EncryptedConnection ready
// for use. connection must not be used directly afterward.
func WithHandshake(connection wire.Connection, exchange kex.KeyExchange, mode kex.Mode, newCipher CipherFactory) (*EncryptedConnection, error) {
	secret, err := exchange.Handshake(connection, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHandshake, err)
	}

	crypto, err := newCipher(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoInit, err)
	}

	return &EncryptedConnection{connection: connection, crypto: crypto}, nil
}

// Send encrypts data and forwards it over the underlying connection.
func (e *EncryptedConnection) Send(data []byte) error {
	encrypted, err := e.crypto.Encrypt(data)
	if err != nil {
		return fmt.Errorf("packetconn/secure: encrypting message: %w", err)
	}
	if err := e.connection.Send(encrypted); err != nil {
		return fmt.Errorf("packetconn/secure: transmitting message: %w", err)
	}
	return nil
}

// Receive reads one packet from the underlying connection and decrypts it.
func (e *EncryptedConnection) Receive() ([]byte, error) {
	packet, err := e.connection.Receive()
	if err != nil {
		return nil, fmt.Errorf("packetconn/secure: receiving message: %w", err)
	}
	plaintext, err := e.crypto.Decrypt(packet)
	if err != nil {
		return nil, fmt.Errorf("packetconn/secure: decrypting message: %w", err)
	}
	return plaintext, nil
}

// Shutdown forwards to the underlying connection.
func (e *EncryptedConnection) Shutdown(how wire.How) error {
	return e.connection.Shutdown(how)
}

// AES256GCMCipher is a CipherFactory for aead.AES256GCM, the default
// pairing for kex.Curve25519 and kex.Hybrid (both produce exactly the
// 32-byte key it requires; a secret of any other length is rejected).
func AES256GCMCipher(secret []byte) (aead.Encryption, error) {
	return aead.NewAES256GCM(secret)
}

// ChaCha20Poly1305Cipher is a CipherFactory for aead.ChaCha20Poly1305.
func ChaCha20Poly1305Cipher(secret []byte) (aead.Encryption, error) {
	return aead.NewChaCha20Poly1305(secret)
}
