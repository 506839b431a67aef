package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// PasswordDigestSize is the PBKDF2-HMAC-SHA256 output length in bytes.
const PasswordDigestSize = sha256.Size

// DerivePasswordKey runs PBKDF2-HMAC-SHA256 over password and salt.
func DerivePasswordKey(password, salt []byte, iterations, length int) []byte {
	return pbkdf2.Key(password, salt, iterations, length, sha256.New)
}
