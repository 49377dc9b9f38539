package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
)

// NonceSize is the length, in bytes, of the random nonce appended after
// each ciphertext on the wire.
const NonceSize = 12

// AES256GCM is AES-256 in GCM mode with a fresh random nonce per message.
type AES256GCM struct {
	aead cipher.AEAD
}

var _ Encryption = (*AES256GCM)(nil)

// NewAES256GCM constructs an AES256GCM from a 32-byte key.
func NewAES256GCM(key []byte) (*AES256GCM, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: key is %d bytes, want 32", ErrEncryption, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: building AES cipher: %v", ErrEncryption, err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, NonceSize)
	if err != nil {
		return nil, fmt.Errorf("%w: building GCM mode: %v", ErrEncryption, err)
	}
	return &AES256GCM{aead: gcm}, nil
}

// Encrypt seals plaintext and returns ciphertext||tag||nonce.
func (c *AES256GCM) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("%w: generating nonce: %v", ErrEncryption, err)
	}
	sealed := c.aead.Seal(nil, nonce, plaintext, nil)
	return append(sealed, nonce...), nil
}

// Decrypt splits the trailing nonce off data and opens the remainder.
func (c *AES256GCM) Decrypt(data []byte) ([]byte, error) {
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
