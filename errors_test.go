package cryptographer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cryptographer/cryptographer-go/internal/crypto"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		public   error
		internal error
	}{
		{"ErrInvalidKeyMaterial", ErrInvalidKeyMaterial, crypto.ErrInvalidKeyMaterial},
		{"ErrInsufficientKeyDomain", ErrInsufficientKeyDomain, crypto.ErrInsufficientKeyDomain},
		{"ErrChunkLengthMismatch", ErrChunkLengthMismatch, crypto.ErrChunkLengthMismatch},
		{"ErrNoInverseExists", ErrNoInverseExists, crypto.ErrNoInverseExists},
		{"ErrDecryptionFailed", ErrDecryptionFailed, crypto.ErrDecryptionFailed},
		{"ErrInvalidKeySize", ErrInvalidKeySize, crypto.ErrInvalidKeySize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.internal, tt.public) {
				t.Errorf("%s should match its internal counterpart", tt.name)
			}
		})
	}
}

func TestKeyGenerationError(t *testing.T) {
	tests := []struct {
		name string
		err  *KeyGenerationError
		want string
	}{
		{
			name: "with attempts",
			err:  &KeyGenerationError{Stage: "primes", Attempts: 10, Err: ErrInsufficientKeyDomain},
			want: "key generation failed at primes after 10 attempts: insufficient key domain",
		},
		{
			name: "without attempts",
			err:  &KeyGenerationError{Stage: "self-check", Err: ErrInvalidKeyMaterial},
			want: "key generation failed at self-check: invalid key material",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, tt.err.Err) {
				t.Error("errors.Is should match the wrapped error")
			}
		})
	}
}

func TestCodecError(t *testing.T) {
	err := &CodecError{Op: "decrypt", Length: 13, BlockLength: 7, Err: ErrChunkLengthMismatch}

	want := "decrypt of 13 bytes (block length 7) failed: ciphertext length is not a multiple of the block length"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrChunkLengthMismatch) {
		t.Error("errors.Is should match ErrChunkLengthMismatch")
	}

	short := &CodecError{Op: "decrypt", Length: 2, Err: ErrDecryptionFailed}
	if short.Error() != "decrypt of 2 bytes failed: decryption failed" {
		t.Errorf("Error() = %q", short.Error())
	}
}

func TestCryptographerErrorInterface(t *testing.T) {
	var _ CryptographerError = (*KeyGenerationError)(nil)
	var _ CryptographerError = (*CodecError)(nil)

	var target CryptographerError
	err := fmt.Errorf("outer: %w", &CodecError{Op: "decrypt", Err: ErrDecryptionFailed})
	if !errors.As(err, &target) {
		t.Error("errors.As should find a CryptographerError")
	}
}

func TestWrapError(t *testing.T) {
	if wrapError(nil) != nil {
		t.Error("wrapError(nil) should be nil")
	}

	plain := errors.New("plain")
	if wrapError(plain) != plain {
		t.Error("wrapError should pass unrelated errors through")
	}

	stageErr := &crypto.StageError{Stage: crypto.StageExponent, Attempts: 4, Err: context.Canceled}
	wrapped := wrapError(fmt.Errorf("generate: %w", stageErr))

	var genErr *KeyGenerationError
	if !errors.As(wrapped, &genErr) {
		t.Fatalf("wrapError() = %T, want *KeyGenerationError", wrapped)
	}
	if genErr.Stage != "exponent" || genErr.Attempts != 4 {
		t.Errorf("KeyGenerationError = %+v", genErr)
	}
	if !errors.Is(wrapped, context.Canceled) {
		t.Error("errors.Is should reach the stage cause")
	}
}

func TestCodecErrorHelper(t *testing.T) {
	if codecError("decrypt", 1, 2, nil) != nil {
		t.Error("codecError with a nil error should be nil")
	}
}
