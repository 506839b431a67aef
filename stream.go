package cryptographer

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/cryptographer/cryptographer-go/internal/crypto"
)

// StreamKey is a random key for byte-wise additive encryption. Byte i of the
// plaintext is added to byte i of the key modulo 256, so the key must be at
// least as long as anything it encrypts. Reusing a key across messages leaks
// their difference.
type StreamKey struct {
	key []byte
}

// GenerateStreamKey returns a random key of length bytes.
func GenerateStreamKey(length int, opts ...StreamOption) (*StreamKey, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: length must be positive, got %d", ErrInvalidKeySize, length)
	}
	cfg := newStreamConfig(opts)

	key := make([]byte, length)
	if _, err := io.ReadFull(cfg.rand, key); err != nil {
		return nil, fmt.Errorf("generate stream key: %w", err)
	}
	return &StreamKey{key: key}, nil
}

// NewStreamKey returns a StreamKey over a copy of key.
func NewStreamKey(key []byte) (*StreamKey, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: empty stream key", ErrInvalidKeySize)
	}
	return &StreamKey{key: bytes.Clone(key)}, nil
}

// DeriveStreamKey expands secret and salt into a key of length bytes with
// HKDF-SHA-512. The same inputs always give the same key.
func DeriveStreamKey(secret, salt []byte, length int) (*StreamKey, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: length must be positive, got %d", ErrInvalidKeySize, length)
	}
	key, err := crypto.DeriveStreamKey(secret, salt, length)
	if err != nil {
		return nil, err
	}
	return &StreamKey{key: key}, nil
}

// Len returns the key length in bytes.
func (s *StreamKey) Len() int {
	return len(s.key)
}

// Bytes returns a copy of the key.
func (s *StreamKey) Bytes() []byte {
	return bytes.Clone(s.key)
}

// Copy returns an independent copy of s.
func (s *StreamKey) Copy() *StreamKey {
	return &StreamKey{key: bytes.Clone(s.key)}
}

// Encrypt adds the key to plaintext and returns the result hex-encoded.
func (s *StreamKey) Encrypt(plaintext []byte) (string, error) {
	if err := s.checkLength(len(plaintext)); err != nil {
		return "", err
	}

	out := make([]byte, len(plaintext))
	for i, b := range plaintext {
		out[i] = b + s.key[i]
	}
	return hex.EncodeToString(out), nil
}

// EncryptString is Encrypt for the UTF-8 bytes of plaintext.
func (s *StreamKey) EncryptString(plaintext string) (string, error) {
	return s.Encrypt([]byte(plaintext))
}

// Decrypt decodes hex ciphertext produced by Encrypt and subtracts the key.
func (s *StreamKey) Decrypt(ciphertext string) ([]byte, error) {
	raw, err := hex.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid hex: %w", ErrDecryptionFailed, err)
	}
	return s.DecryptBytes(raw)
}

// DecryptBytes subtracts the key from raw ciphertext bytes.
func (s *StreamKey) DecryptBytes(ciphertext []byte) ([]byte, error) {
	if err := s.checkLength(len(ciphertext)); err != nil {
		return nil, err
	}

	out := make([]byte, len(ciphertext))
	for i, b := range ciphertext {
		out[i] = b - s.key[i]
	}
	return out, nil
}

func (s *StreamKey) String() string {
	return fmt.Sprintf("<StreamKey length=%d>", len(s.key))
}

func (s *StreamKey) checkLength(n int) error {
	if n > len(s.key) {
		return fmt.Errorf("%w: %d bytes of data, %d bytes of key", ErrStreamKeyTooShort, n, len(s.key))
	}
	return nil
}
