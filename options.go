package cryptographer

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/sirupsen/logrus"

	"github.com/cryptographer/cryptographer-go/internal/crypto"
)

const (
	// DefaultBound is the default upper limit for prime candidates.
	DefaultBound = crypto.DefaultBound

	// DefaultPasswordIterations is the default PBKDF2 iteration count for
	// password hashes.
	DefaultPasswordIterations = 1_000_000

	// DefaultSaltLength is the default password salt length in bytes.
	DefaultSaltLength = 4096

	// DefaultStreamKeyLength is the default length of a generated stream key.
	DefaultStreamKeyLength = 4096

	// DefaultSealIterations is the default PBKDF2 iteration count used to
	// derive the key that seals an exported key.
	DefaultSealIterations = 600_000
)

// keyConfig holds configuration for key generation.
type keyConfig struct {
	bound               *big.Int
	rounds              int
	maxPrimeAttempts    int
	maxExponentAttempts int
	distinctPrimes      bool
	rand                io.Reader
	logger              logrus.FieldLogger
}

// passwordConfig holds configuration for password hashing.
type passwordConfig struct {
	salt       []byte
	saltLength int
	iterations int
	rand       io.Reader
}

// streamConfig holds configuration for stream key generation.
type streamConfig struct {
	rand io.Reader
}

// sealConfig holds configuration for sealing an exported key.
type sealConfig struct {
	iterations int
	rand       io.Reader
}

// Option configures key generation.
type Option func(*keyConfig)

// PasswordOption configures password hashing.
type PasswordOption func(*passwordConfig)

// StreamOption configures stream key generation.
type StreamOption func(*streamConfig)

// SealOption configures key sealing.
type SealOption func(*sealConfig)

func newKeyConfig(opts []Option) *keyConfig {
	cfg := &keyConfig{
		bound:               big.NewInt(DefaultBound),
		rounds:              crypto.DefaultPrimalityRounds,
		maxPrimeAttempts:    crypto.DefaultMaxPrimeAttempts,
		maxExponentAttempts: crypto.DefaultMaxExponentAttempts,
		distinctPrimes:      true,
		rand:                rand.Reader,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *keyConfig) keyGenConfig() crypto.KeyGenConfig {
	return crypto.KeyGenConfig{
		Bound:               c.bound,
		Rounds:              c.rounds,
		MaxPrimeAttempts:    c.maxPrimeAttempts,
		MaxExponentAttempts: c.maxExponentAttempts,
		DistinctPrimes:      c.distinctPrimes,
		Rand:                c.rand,
		Logger:              c.logger,
	}
}

func newPasswordConfig(opts []PasswordOption) *passwordConfig {
	cfg := &passwordConfig{
		saltLength: DefaultSaltLength,
		iterations: DefaultPasswordIterations,
		rand:       rand.Reader,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func newStreamConfig(opts []StreamOption) *streamConfig {
	cfg := &streamConfig{rand: rand.Reader}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func newSealConfig(opts []SealOption) *sealConfig {
	cfg := &sealConfig{
		iterations: DefaultSealIterations,
		rand:       rand.Reader,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithBound sets the inclusive upper limit for prime candidates.
// The bound limits candidate magnitude; it is not a key size in bits.
// Default: 100000000
func WithBound(bound *big.Int) Option {
	return func(c *keyConfig) {
		c.bound = new(big.Int).Set(bound)
	}
}

// WithBoundInt64 is WithBound for bounds that fit in an int64.
func WithBoundInt64(bound int64) Option {
	return func(c *keyConfig) {
		c.bound = big.NewInt(bound)
	}
}

// WithPrimalityRounds sets the number of Miller-Rabin rounds per candidate.
// Default: 30
func WithPrimalityRounds(rounds int) Option {
	return func(c *keyConfig) {
		c.rounds = rounds
	}
}

// WithMaxPrimeAttempts caps the candidates drawn for each prime.
// Default: 10000
func WithMaxPrimeAttempts(n int) Option {
	return func(c *keyConfig) {
		c.maxPrimeAttempts = n
	}
}

// WithMaxExponentAttempts caps the private exponent candidates.
// Default: 10000
func WithMaxExponentAttempts(n int) Option {
	return func(c *keyConfig) {
		c.maxExponentAttempts = n
	}
}

// WithDistinctPrimes controls whether the two primes must differ. Equal
// primes give a modulus whose totient is not (p-1)^2, so disabling this
// usually makes generation fail its self-check.
// Default: true
func WithDistinctPrimes(distinct bool) Option {
	return func(c *keyConfig) {
		c.distinctPrimes = distinct
	}
}

// WithRandReader sets the random source for every draw made during key
// generation. Only tests should pass anything other than crypto/rand.
func WithRandReader(r io.Reader) Option {
	return func(c *keyConfig) {
		c.rand = r
	}
}

// WithLogger sets the logger that receives key generation progress at debug
// level. Key material is never logged.
// Default: discard
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *keyConfig) {
		c.logger = logger
	}
}

// WithSalt sets an explicit salt instead of generating one.
func WithSalt(salt []byte) PasswordOption {
	return func(c *passwordConfig) {
		c.salt = append([]byte(nil), salt...)
	}
}

// WithSaltLength sets the length of generated salts.
// Default: 4096
func WithSaltLength(n int) PasswordOption {
	return func(c *passwordConfig) {
		c.saltLength = n
	}
}

// WithIterations sets the PBKDF2 iteration count.
// Default: 1000000
func WithIterations(n int) PasswordOption {
	return func(c *passwordConfig) {
		c.iterations = n
	}
}

// WithPasswordRandReader sets the source used to generate salts.
func WithPasswordRandReader(r io.Reader) PasswordOption {
	return func(c *passwordConfig) {
		c.rand = r
	}
}

// WithStreamRandReader sets the source used to generate stream keys.
func WithStreamRandReader(r io.Reader) StreamOption {
	return func(c *streamConfig) {
		c.rand = r
	}
}

// WithSealIterations sets the PBKDF2 iteration count for sealing.
// Default: 600000
func WithSealIterations(n int) SealOption {
	return func(c *sealConfig) {
		c.iterations = n
	}
}

// WithSealRandReader sets the source for the seal salt and nonce.
func WithSealRandReader(r io.Reader) SealOption {
	return func(c *sealConfig) {
		c.rand = r
	}
}
