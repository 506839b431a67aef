package crypto

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKeyMaterial is returned when exponents or modulus cannot form
	// a usable key, including a modulus too small to hold one byte per chunk.
	ErrInvalidKeyMaterial = errors.New("invalid key material")

	// ErrInsufficientKeyDomain is returned when key generation cannot find
	// primes or a private exponent within the configured bound and attempts.
	ErrInsufficientKeyDomain = errors.New("insufficient key domain")

	// ErrChunkLengthMismatch is returned when a ciphertext length is not a
	// multiple of the cipher block length.
	ErrChunkLengthMismatch = errors.New("ciphertext length is not a multiple of the block length")

	// ErrNoInverseExists is returned when a modular inverse is undefined.
	ErrNoInverseExists = errors.New("modular inverse does not exist")

	// ErrDecryptionFailed is returned when a block or sealed payload does not
	// decrypt to a well-formed plaintext.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidKeySize is returned when a symmetric key has the wrong size.
	ErrInvalidKeySize = errors.New("invalid key size")
)

// Key generation stages reported by StageError.
const (
	StagePrimes    = "primes"
	StageExponent  = "exponent"
	StageInverse   = "inverse"
	StageSelfCheck = "self-check"
)

// StageError records the key generation stage that failed and how many
// candidates were drawn before giving up.
type StageError struct {
	Stage    string
	Attempts int
	Err      error
}

func (e *StageError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("key generation failed at %s after %d attempts: %v", e.Stage, e.Attempts, e.Err)
	}
	return fmt.Sprintf("key generation failed at %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error {
	return e.Err
}
