package aead

import (
	"crypto/rand"
	"fmt"

	"github.com/katzenpost/chacha20poly1305"
)

// ChaCha20Poly1305 is an alternative cipher to AES256GCM for deployments
// that prefer to avoid AES, using katzenpost's own fork of the standard
// construction. Same wire format as AES256GCM: ciphertext||tag||nonce.
type ChaCha20Poly1305 struct {
	aead cipherAEAD
}

// cipherAEAD is the subset of cipher.AEAD this file needs; declared
// locally so this file doesn't need to import crypto/cipher just for the
// interface name.
type cipherAEAD interface {
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
}

var _ Encryption = (*ChaCha20Poly1305)(nil)

// NewChaCha20Poly1305 constructs a ChaCha20Poly1305 from a 32-byte key.
func NewChaCha20Poly1305(key []byte) (*ChaCha20Poly1305, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: key is %d bytes, want 32", ErrEncryption, len(key))
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("%w: building ChaCha20-Poly1305: %v", ErrEncryption, err)
	}
	return &ChaCha20Poly1305{aead: aead}, nil
}

// Encrypt seals plaintext and returns ciphertext||tag||nonce.
func (c *ChaCha20Poly1305) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("%w: generating nonce: %v", ErrEncryption, err)
	}
	sealed := c.aead.Seal(nil, nonce, plaintext, nil)
	return append(sealed, nonce...), nil
}

// Decrypt splits the trailing nonce off data and opens the remainder.
func (c *ChaCha20Poly1305) Decrypt(data []byte) ([]byte, error) {
	if len(data) < NonceSize {
		return nil, fmt.Errorf("%w: message does not contain a nonce", ErrEncryption)
	}
	nonceStart := len(data) - NonceSize
	nonce := data[nonceStart:]
	ciphertext := data[:nonceStart]

	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryption, err)
	}
	return plaintext, nil
}
