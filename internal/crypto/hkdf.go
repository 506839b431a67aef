package crypto

import (
	"crypto/sha512"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// DeriveStreamKey expands secret into length bytes of stream key material
// with HKDF-SHA-512 under HKDFContext. An empty salt is replaced by a
// zero-filled one.
func DeriveStreamKey(secret, salt []byte, length int) ([]byte, error) {
	if length < 0 || length > MaxDerivedKeySize {
		return nil, fmt.Errorf("%w: cannot derive %d bytes, limit is %d", ErrInvalidKeySize, length, MaxDerivedKeySize)
	}
	if len(salt) == 0 {
		salt = make([]byte, sha512.Size)
	}

	reader := hkdf.New(sha512.New, secret, salt, []byte(HKDFContext))
	key := make([]byte, length)

	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	return key, nil
}
