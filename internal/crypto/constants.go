package crypto

const (
	// DefaultPrimalityRounds is the number of Miller-Rabin rounds used when
	// the caller does not choose one. A composite survives with probability
	// at most 4^-30.
	DefaultPrimalityRounds = 30

	// DefaultBound is the default upper limit for prime candidates.
	DefaultBound = 100_000_000

	// DefaultMaxPrimeAttempts is the default number of candidates drawn for
	// each prime before key generation gives up.
	DefaultMaxPrimeAttempts = 10_000

	// DefaultMaxExponentAttempts is the default number of private exponent
	// candidates drawn before key generation gives up.
	DefaultMaxExponentAttempts = 10_000

	// SelfCheckProbe is the value encrypted and decrypted with every freshly
	// generated key before it is returned.
	SelfCheckProbe = 1234567

	// AESKeySize is the size of an AES-256 key in bytes.
	AESKeySize = 32
	// AESNonceSize is the size of an AES-GCM nonce in bytes.
	AESNonceSize = 12
	// AESTagSize is the size of an AES-GCM authentication tag in bytes.
	AESTagSize = 16

	// HKDFContext is the info string used when deriving stream keys.
	HKDFContext = "cryptographer:stream:v1"

	// MaxDerivedKeySize is the largest output HKDF-SHA-512 can produce.
	MaxDerivedKeySize = 255 * 64
)
