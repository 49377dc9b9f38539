// Package aead implements the authenticated-encryption half of the secure
// channel. Every cipher here uses the same wire format: ciphertext and tag,
// followed by the nonce appended at the tail, so decrypt only needs to know
// the nonce's fixed size to split the two back apart.
package aead

import "errors"

// ErrEncryption wraps a seal/open failure: a short ciphertext, a failed
// authentication check, or an underlying cipher construction error.
var ErrEncryption = errors.New("packetconn/aead: encryption failure")

// Encryption seals and opens messages under a fixed key established once by
// a prior key exchange. Implementations are not safe for concurrent use
// from multiple goroutines without external synchronization, matching the
// single-actor-per-direction assumption the rest of this module makes.
type Encryption interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}
