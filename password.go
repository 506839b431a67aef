package cryptographer

import (
	"bytes"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/cryptographer/cryptographer-go/internal/crypto"
)

// PasswordHash is a salted PBKDF2-HMAC-SHA256 digest of a password.
type PasswordHash struct {
	// Salt is the random salt the digest was derived with.
	Salt []byte `json:"salt"`
	// Hash is the hex-encoded digest.
	Hash string `json:"hash"`
	// Iterations is the PBKDF2 iteration count.
	Iterations int `json:"iterations"`
}

// HashPassword derives a digest of password under a new random salt, or the
// salt given with WithSalt.
func HashPassword(password []byte, opts ...PasswordOption) (*PasswordHash, error) {
	cfg := newPasswordConfig(opts)
	if cfg.iterations <= 0 {
		return nil, fmt.Errorf("iterations must be positive, got %d", cfg.iterations)
	}

	salt := cfg.salt
	if salt == nil {
		if cfg.saltLength <= 0 {
			return nil, fmt.Errorf("salt length must be positive, got %d", cfg.saltLength)
		}
		salt = make([]byte, cfg.saltLength)
		if _, err := io.ReadFull(cfg.rand, salt); err != nil {
			return nil, fmt.Errorf("generate salt: %w", err)
		}
	}

	return &PasswordHash{
		Salt:       salt,
		Hash:       digest(password, salt, cfg.iterations),
		Iterations: cfg.iterations,
	}, nil
}

// HashPasswordString is HashPassword for the UTF-8 bytes of password.
func HashPasswordString(password string, opts ...PasswordOption) (*PasswordHash, error) {
	return HashPassword([]byte(password), opts...)
}

// Check reports whether password matches the hash. The digests are compared
// in constant time.
func (h *PasswordHash) Check(password []byte) bool {
	if h.Iterations <= 0 {
		return false
	}
	candidate := digest(password, h.Salt, h.Iterations)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(h.Hash)) == 1
}

// Verify is Check returning ErrPasswordMismatch on a mismatch.
func (h *PasswordHash) Verify(password []byte) error {
	if !h.Check(password) {
		return ErrPasswordMismatch
	}
	return nil
}

// Equal reports whether h and other hold the same salt and digest.
func (h *PasswordHash) Equal(other *PasswordHash) bool {
	if h == nil || other == nil {
		return h == other
	}
	return bytes.Equal(h.Salt, other.Salt) &&
		subtle.ConstantTimeCompare([]byte(h.Hash), []byte(other.Hash)) == 1
}

// Copy returns an independent copy of h.
func (h *PasswordHash) Copy() *PasswordHash {
	return &PasswordHash{
		Salt:       bytes.Clone(h.Salt),
		Hash:       h.Hash,
		Iterations: h.Iterations,
	}
}

func (h *PasswordHash) String() string {
	return fmt.Sprintf("<PasswordHash salt=%s hash=%s iterations=%d>",
		truncate(hex.EncodeToString(h.Salt)), truncate(h.Hash), h.Iterations)
}

func digest(password, salt []byte, iterations int) string {
	return hex.EncodeToString(crypto.DerivePasswordKey(password, salt, iterations, crypto.PasswordDigestSize))
}
