// Package legacy preserves an earlier handshake design: ephemeral X25519 key
// agreement followed by an explicit AES-256-CBC confirmation exchange, kept
// around for interoperability testing against peers that still speak it. It
// is never selected by secure.EncryptedConnection's default configuration.
package legacy

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/curve25519"

	"github.com/catshadow/packetconn/crypto/kex"
	"github.com/catshadow/packetconn/wire"
)

const (
	publicKeySize = 32
	ivSize        = 16
	blockSize     = 16
)

// handshakeConfirmation is the fixed plaintext the passive side proves
// knowledge of the shared secret with.
var handshakeConfirmation = []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}

// Curve25519AES256 implements the historical handshake. The active side
// (mode kex.Client) verifies the confirmation block and reports failure by
// returning an error; the passive side (kex.Server) always succeeds once
// the exchange completes, matching the original's asymmetric trust model.
type Curve25519AES256 struct{}

var _ kex.KeyExchange = Curve25519AES256{}

// Handshake returns the raw shared DH secret on success. Callers that need
// the original boolean "did confirmation match" semantics should treat any
// non-nil error as false.
func (Curve25519AES256) Handshake(conn wire.Connection, mode kex.Mode) ([]byte, error) {
	if mode == kex.Server {
		return handshakePassive(conn)
	}
	return handshakeActive(conn)
}

func handshakeActive(conn wire.Connection) ([]byte, error) {
	var privateKey, publicKey [publicKeySize]byte
	if _, err := rand.Read(privateKey[:]); err != nil {
		return nil, fmt.Errorf("%w: generating ephemeral key: %v", kex.ErrHandshakeProtocol, err)
	}
	curve25519.ScalarBaseMult(&publicKey, &privateKey)

	if err := conn.Send(publicKey[:]); err != nil {
		return nil, fmt.Errorf("%w: sending public key: %v", kex.ErrHandshakeCommunication, err)
	}

	peerData, err := conn.Receive()
	if err != nil {
		return nil, fmt.Errorf("%w: receiving peer public key: %v", kex.ErrHandshakeCommunication, err)
	}
	if len(peerData) != publicKeySize {
		return nil, fmt.Errorf("%w: peer public key is %d bytes, want %d", kex.ErrHandshakeProtocol, len(peerData), publicKeySize)
	}
	var peerPublic [publicKeySize]byte
	copy(peerPublic[:], peerData)

	var shared [publicKeySize]byte
	curve25519.ScalarMult(&shared, &privateKey, &peerPublic)

	var nonce [ivSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("%w: generating nonce: %v", kex.ErrHandshakeProtocol, err)
	}
	if err := conn.Send(nonce[:]); err != nil {
		return nil, fmt.Errorf("%w: sending nonce: %v", kex.ErrHandshakeCommunication, err)
	}

	confirmationBlock, err := conn.Receive()
	if err != nil {
		return nil, fmt.Errorf("%w: receiving confirmation: %v", kex.ErrHandshakeCommunication, err)
	}
	if len(confirmationBlock) != 2*blockSize {
		return nil, fmt.Errorf("%w: confirmation block is %d bytes, want %d", kex.ErrHandshakeProtocol, len(confirmationBlock), 2*blockSize)
	}

	block, err := aes.NewCipher(shared[:])
	if err != nil {
		return nil, fmt.Errorf("%w: building cipher: %v", kex.ErrHandshakeProtocol, err)
	}
	plaintext := make([]byte, len(confirmationBlock))
	cipher.NewCBCDecrypter(block, nonce[:]).CryptBlocks(plaintext, confirmationBlock)
	plaintext, err = pkcs7Unpad(plaintext, blockSize)
	if err != nil {
		return nil, fmt.Errorf("%w: unpadding confirmation: %v", kex.ErrHandshakeProtocol, err)
	}

	if !bytes.Equal(plaintext, handshakeConfirmation) {
		return nil, fmt.Errorf("%w: handshake confirmation mismatch", kex.ErrHandshakeProtocol)
	}

	out := make([]byte, publicKeySize)
	copy(out, shared[:])
	return out, nil
}

func handshakePassive(conn wire.Connection) ([]byte, error) {
	var privateKey, publicKey [publicKeySize]byte
	if _, err := rand.Read(privateKey[:]); err != nil {
		return nil, fmt.Errorf("%w: generating ephemeral key: %v", kex.ErrHandshakeProtocol, err)
	}
	curve25519.ScalarBaseMult(&publicKey, &privateKey)

	peerData, err := conn.Receive()
	if err != nil {
		return nil, fmt.Errorf("%w: receiving peer public key: %v", kex.ErrHandshakeCommunication, err)
	}
	if len(peerData) != publicKeySize {
		return nil, fmt.Errorf("%w: peer public key is %d bytes, want %d", kex.ErrHandshakeProtocol, len(peerData), publicKeySize)
	}
	var peerPublic [publicKeySize]byte
	copy(peerPublic[:], peerData)

	if err := conn.Send(publicKey[:]); err != nil {
		return nil, fmt.Errorf("%w: sending public key: %v", kex.ErrHandshakeCommunication, err)
	}

	var shared [publicKeySize]byte
	curve25519.ScalarMult(&shared, &privateKey, &peerPublic)

	nonce, err := conn.Receive()
	if err != nil {
		return nil, fmt.Errorf("%w: receiving nonce: %v", kex.ErrHandshakeCommunication, err)
	}
	if len(nonce) != ivSize {
		return nil, fmt.Errorf("%w: nonce is %d bytes, want %d", kex.ErrHandshakeProtocol, len(nonce), ivSize)
	}

	block, err := aes.NewCipher(shared[:])
	if err != nil {
		return nil, fmt.Errorf("%w: building cipher: %v", kex.ErrHandshakeProtocol, err)
	}
	padded := pkcs7Pad(handshakeConfirmation, blockSize)
	confirmationBlock := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, nonce).CryptBlocks(confirmationBlock, padded)

	if err := conn.Send(confirmationBlock); err != nil {
		return nil, fmt.Errorf("%w: sending confirmation: %v", kex.ErrHandshakeCommunication, err)
	}

	out := make([]byte, publicKeySize)
	copy(out, shared[:])
	return out, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padding := bytes.Repeat([]byte{byte(padLen)}, padLen)
	return append(append([]byte{}, data...), padding...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	n := len(data)
	if n == 0 || n%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length %d", n)
	}
	padLen := int(data[n-1])
	if padLen == 0 || padLen > blockSize || padLen > n {
		return nil, fmt.Errorf("invalid padding length %d", padLen)
	}
	for _, b := range data[n-padLen:] {
		if int(b) != padLen {
			return nil, fmt.Errorf("invalid padding bytes")
		}
	}
	return data[:n-padLen], nil
}
