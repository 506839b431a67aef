package cryptographer

import (
	"fmt"
	"math/big"
	"time"

	"github.com/cryptographer/cryptographer-go/internal/crypto"
)

// ExportVersion is the current export format version.
const ExportVersion = 1

// ExportedKey contains all data needed to restore a key.
// WARNING: when PrivateExponent is set this is secret key material - handle securely.
//
// Integers are unpadded base64url encodings of their big-endian bytes. A key
// holding one half omits the other exponent.
type ExportedKey struct {
	// Version is the export format version. MUST be 1.
	Version int `json:"version"`
	// PublicExponent is the public exponent. Empty for private-only keys.
	PublicExponent string `json:"publicExponent,omitempty"`
	// PrivateExponent is the private exponent. Empty for public-only keys.
	PrivateExponent string `json:"privateExponent,omitempty"`
	// Modulus is the modulus of the public half, or of the private half
	// for private-only keys.
	Modulus string `json:"modulus"`
	// PrivateModulus is the modulus of the private half when it differs
	// from Modulus.
	PrivateModulus string `json:"privateModulus,omitempty"`
	// ExportedAt is the export timestamp. Informational only.
	ExportedAt time.Time `json:"exportedAt"`
}

// Validate checks that the exported data can be imported.
func (e *ExportedKey) Validate() error {
	_, err := e.material()
	return err
}

// material decodes e into key material.
func (e *ExportedKey) material() (KeyMaterial, error) {
	if e.Version != ExportVersion {
		return KeyMaterial{}, fmt.Errorf("%w: unsupported version %d, expected %d", ErrInvalidImportData, e.Version, ExportVersion)
	}

	if e.PublicExponent == "" && e.PrivateExponent == "" {
		return KeyMaterial{}, fmt.Errorf("%w: publicExponent or privateExponent is required", ErrInvalidImportData)
	}
	if e.Modulus == "" {
		return KeyMaterial{}, fmt.Errorf("%w: modulus is required", ErrInvalidImportData)
	}
	if e.PrivateModulus != "" && (e.PublicExponent == "" || e.PrivateExponent == "") {
		return KeyMaterial{}, fmt.Errorf("%w: privateModulus requires both exponents", ErrInvalidImportData)
	}

	var m KeyMaterial
	var err error
	if m.Modulus, err = decodeInt("modulus", e.Modulus); err != nil {
		return KeyMaterial{}, err
	}
	if e.PublicExponent != "" {
		if m.PublicExponent, err = decodeInt("publicExponent", e.PublicExponent); err != nil {
			return KeyMaterial{}, err
		}
	}
	if e.PrivateExponent != "" {
		if m.PrivateExponent, err = decodeInt("privateExponent", e.PrivateExponent); err != nil {
			return KeyMaterial{}, err
		}
	}
	if e.PrivateModulus != "" {
		if m.PrivateModulus, err = decodeInt("privateModulus", e.PrivateModulus); err != nil {
			return KeyMaterial{}, err
		}
	}

	for _, modulus := range []*big.Int{m.Modulus, m.PrivateModulus} {
		if modulus != nil && crypto.ChunkLength(modulus) == 0 {
			return KeyMaterial{}, fmt.Errorf("%w: modulus %s is too small", ErrInvalidImportData, modulus)
		}
	}

	return m, nil
}

// Export returns the key's values in serializable form.
func (k *Key) Export() *ExportedKey {
	m := k.Snapshot()

	exported := &ExportedKey{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC(),
	}
	if m.Modulus != nil {
		exported.Modulus = crypto.ToBase64URL(m.Modulus.Bytes())
	}
	if m.PublicExponent != nil {
		exported.PublicExponent = crypto.ToBase64URL(m.PublicExponent.Bytes())
	}
	if m.PrivateExponent != nil {
		exported.PrivateExponent = crypto.ToBase64URL(m.PrivateExponent.Bytes())
	}
	if m.PrivateModulus != nil {
		exported.PrivateModulus = crypto.ToBase64URL(m.PrivateModulus.Bytes())
	}
	return exported
}

// ImportKey restores a key from exported data.
func ImportKey(data *ExportedKey) (*Key, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: no data", ErrInvalidImportData)
	}

	m, err := data.material()
	if err != nil {
		return nil, err
	}

	k, err := Restore(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImportData, err)
	}
	return k, nil
}

func decodeInt(field, s string) (*big.Int, error) {
	raw, err := crypto.FromBase64URL(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s encoding", ErrInvalidImportData, field)
	}

	n := new(big.Int).SetBytes(raw)
	if n.Sign() == 0 {
		return nil, fmt.Errorf("%w: %s must be positive", ErrInvalidImportData, field)
	}
	return n, nil
}
