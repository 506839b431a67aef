package cryptographer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cryptographer/cryptographer-go/internal/crypto"
)

const (
	// SealedKeyVersion is the current sealed key format version.
	SealedKeyVersion = 1

	sealedKeyAAD = "cryptographer:sealed-key:v1"
	sealSaltSize = 16
)

// SealedKey is an exported key encrypted under a password. The password is
// stretched with PBKDF2-HMAC-SHA256 and the export is sealed with
// AES-256-GCM.
type SealedKey struct {
	// Version is the sealed format version. MUST be 1.
	Version int `json:"version"`
	// Iterations is the PBKDF2 iteration count.
	Iterations int `json:"iterations"`
	// Salt is the PBKDF2 salt (base64url).
	Salt string `json:"salt"`
	// Ciphertext is nonce || ciphertext || tag (base64url).
	Ciphertext string `json:"ciphertext"`
}

// Seal exports the key and encrypts the export under password.
func (k *Key) Seal(password []byte, opts ...SealOption) (*SealedKey, error) {
	cfg := newSealConfig(opts)
	if cfg.iterations <= 0 {
		return nil, fmt.Errorf("seal iterations must be positive, got %d", cfg.iterations)
	}

	plaintext, err := json.Marshal(k.Export())
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}

	salt := make([]byte, sealSaltSize)
	if _, err := io.ReadFull(cfg.rand, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	aesKey := crypto.DerivePasswordKey(password, salt, cfg.iterations, crypto.AESKeySize)
	sealed, err := crypto.SealAES(aesKey, plaintext, []byte(sealedKeyAAD), cfg.rand)
	if err != nil {
		return nil, err
	}

	return &SealedKey{
		Version:    SealedKeyVersion,
		Iterations: cfg.iterations,
		Salt:       crypto.ToBase64URL(salt),
		Ciphertext: crypto.ToBase64URL(sealed),
	}, nil
}

// OpenSealedKey decrypts sealed with password and imports the key. A wrong
// password returns ErrDecryptionFailed.
func OpenSealedKey(sealed *SealedKey, password []byte) (*Key, error) {
	if sealed == nil {
		return nil, fmt.Errorf("%w: no data", ErrInvalidImportData)
	}
	if sealed.Version != SealedKeyVersion {
		return nil, fmt.Errorf("%w: unsupported sealed version %d, expected %d", ErrInvalidImportData, sealed.Version, SealedKeyVersion)
	}
	if sealed.Iterations <= 0 {
		return nil, fmt.Errorf("%w: iterations must be positive", ErrInvalidImportData)
	}

	salt, err := crypto.FromBase64URL(sealed.Salt)
	if err != nil || len(salt) == 0 {
		return nil, fmt.Errorf("%w: invalid salt encoding", ErrInvalidImportData)
	}
	ciphertext, err := crypto.FromBase64URL(sealed.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid ciphertext encoding", ErrInvalidImportData)
	}

	aesKey := crypto.DerivePasswordKey(password, salt, sealed.Iterations, crypto.AESKeySize)
	plaintext, err := crypto.OpenAES(aesKey, ciphertext, []byte(sealedKeyAAD))
	if err != nil {
		return nil, err
	}

	var exported ExportedKey
	if err := json.Unmarshal(plaintext, &exported); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImportData, err)
	}
	return ImportKey(&exported)
}
