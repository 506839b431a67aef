package cryptographer

import (
	"errors"
	"fmt"

	"github.com/cryptographer/cryptographer-go/internal/crypto"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrInvalidKeyMaterial is returned when exponents or modulus cannot form
	// a usable key.
	ErrInvalidKeyMaterial = crypto.ErrInvalidKeyMaterial

	// ErrInsufficientKeyDomain is returned when key generation exhausts its
	// attempt budget before finding primes or a private exponent.
	ErrInsufficientKeyDomain = crypto.ErrInsufficientKeyDomain

	// ErrChunkLengthMismatch is returned when a ciphertext length is not a
	// multiple of the block length.
	ErrChunkLengthMismatch = crypto.ErrChunkLengthMismatch

	// ErrNoInverseExists is returned when a modular inverse is undefined.
	ErrNoInverseExists = crypto.ErrNoInverseExists

	// ErrDecryptionFailed is returned when ciphertext or a sealed key cannot
	// be decrypted.
	ErrDecryptionFailed = crypto.ErrDecryptionFailed

	// ErrInvalidKeySize is returned when a stream key length is out of range.
	ErrInvalidKeySize = crypto.ErrInvalidKeySize

	// ErrMissingKeyHalf is returned when an operation needs a key half the
	// container does not hold.
	ErrMissingKeyHalf = errors.New("key half is not set")

	// ErrInvalidImportData is returned when exported key data is invalid.
	ErrInvalidImportData = errors.New("invalid import data")

	// ErrStreamKeyTooShort is returned when a stream key is shorter than the
	// data it is applied to.
	ErrStreamKeyTooShort = errors.New("stream key is shorter than data")

	// ErrPasswordMismatch is returned when a password does not match a hash.
	ErrPasswordMismatch = errors.New("password does not match")
)

// CryptographerError is implemented by all typed errors of this package.
type CryptographerError interface {
	error
	CryptographerError() // marker method
}

// KeyGenerationError reports the key generation stage that failed.
type KeyGenerationError struct {
	Stage    string // "primes", "exponent", "inverse", "self-check"
	Attempts int
	Err      error
}

func (e *KeyGenerationError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("key generation failed at %s after %d attempts: %v", e.Stage, e.Attempts, e.Err)
	}
	return fmt.Sprintf("key generation failed at %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *KeyGenerationError) Unwrap() error {
	return e.Err
}

// CryptographerError implements the CryptographerError interface.
func (e *KeyGenerationError) CryptographerError() {}

// CodecError reports a block codec failure during encryption or decryption.
type CodecError struct {
	Op          string // "encrypt", "decrypt"
	Length      int    // input length in bytes
	BlockLength int    // cipher block length of the key, 0 if unknown
	Err         error
}

func (e *CodecError) Error() string {
	if e.BlockLength > 0 {
		return fmt.Sprintf("%s of %d bytes (block length %d) failed: %v", e.Op, e.Length, e.BlockLength, e.Err)
	}
	return fmt.Sprintf("%s of %d bytes failed: %v", e.Op, e.Length, e.Err)
}

// Unwrap returns the underlying error.
func (e *CodecError) Unwrap() error {
	return e.Err
}

// CryptographerError implements the CryptographerError interface.
func (e *CodecError) CryptographerError() {}

// wrapError converts internal errors to public errors.
// Sentinels pass through unchanged so errors.Is() keeps working.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var stageErr *crypto.StageError
	if errors.As(err, &stageErr) {
		return &KeyGenerationError{
			Stage:    stageErr.Stage,
			Attempts: stageErr.Attempts,
			Err:      stageErr.Err,
		}
	}

	return err
}

// codecError wraps a codec failure for op, leaving a nil error untouched.
func codecError(op string, length, blockLength int, err error) error {
	if err == nil {
		return nil
	}
	return &CodecError{Op: op, Length: length, BlockLength: blockLength, Err: err}
}
