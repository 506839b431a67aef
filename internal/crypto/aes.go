package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

// SealAES encrypts plaintext with AES-256-GCM under a fresh nonce read from r
// (crypto/rand when nil). aad is authenticated but not encrypted.
// Returns: nonce (12 bytes) || ciphertext || tag (16 bytes)
func SealAES(key, plaintext, aad []byte, r io.Reader) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if r == nil {
		r = rand.Reader
	}
	nonce := make([]byte, AESNonceSize, AESNonceSize+len(plaintext)+AESTagSize)
	if _, err := io.ReadFull(r, nonce); err != nil {
		return nil, fmt.Errorf("read nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, aad), nil
}

// OpenAES reverses SealAES. Any authentication failure, including a wrong
// key or altered aad, is reported as ErrDecryptionFailed.
func OpenAES(key, sealed, aad []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(sealed) < AESNonceSize+AESTagSize {
		return nil, fmt.Errorf("%w: sealed data too short", ErrDecryptionFailed)
	}

	plaintext, err := gcm.Open(nil, sealed[:AESNonceSize], sealed[AESNonceSize:], aad)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != AESKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), AESKeySize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return gcm, nil
}
