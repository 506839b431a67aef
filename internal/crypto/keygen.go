package crypto

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/sirupsen/logrus"
)

// KeyMaterial is the exponent pair and modulus of a generated key. The primes
// and totient it was derived from are not retained.
type KeyMaterial struct {
	PublicExponent  *big.Int
	PrivateExponent *big.Int
	Modulus         *big.Int
}

// KeyGenConfig controls GenerateKeyMaterial. Zero values select defaults.
type KeyGenConfig struct {
	// Bound is the inclusive upper limit for prime candidates. It is not a
	// bit length: primes may be anywhere in [2, Bound].
	Bound *big.Int
	// Rounds is the number of Miller-Rabin rounds per candidate.
	Rounds int
	// MaxPrimeAttempts caps the candidates drawn for each prime.
	MaxPrimeAttempts int
	// MaxExponentAttempts caps the private exponent candidates.
	MaxExponentAttempts int
	// DistinctPrimes rejects a second prime equal to the first.
	DistinctPrimes bool
	// Rand is the source for every random draw. Nil selects crypto/rand.
	Rand io.Reader
	// Logger receives debug progress. Nil discards it.
	Logger logrus.FieldLogger
}

func (c KeyGenConfig) withDefaults() KeyGenConfig {
	if c.Bound == nil {
		c.Bound = big.NewInt(DefaultBound)
	}
	if c.Rounds <= 0 {
		c.Rounds = DefaultPrimalityRounds
	}
	if c.MaxPrimeAttempts <= 0 {
		c.MaxPrimeAttempts = DefaultMaxPrimeAttempts
	}
	if c.MaxExponentAttempts <= 0 {
		c.MaxExponentAttempts = DefaultMaxExponentAttempts
	}
	if c.Rand == nil {
		c.Rand = rand.Reader
	}
	if c.Logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		c.Logger = logger
	}
	return c
}

// GenerateKeyMaterial draws two probable primes from [1, Bound], derives the
// modulus and totient, samples a private exponent coprime to the totient and
// inverts it to obtain the public exponent. The result is checked before it
// is returned.
//
// Sampling is rejection based, so the running time is not fixed. Each stage
// is capped by its attempt budget and ctx is checked before every draw.
func GenerateKeyMaterial(ctx context.Context, cfg KeyGenConfig) (*KeyMaterial, error) {
	cfg = cfg.withDefaults()
	log := cfg.Logger.WithField("bound_bits", cfg.Bound.BitLen())

	if cfg.Bound.Cmp(two) < 0 {
		return nil, &StageError{
			Stage: StagePrimes,
			Err:   fmt.Errorf("%w: bound must be at least 2", ErrInsufficientKeyDomain),
		}
	}

	p1, attempts, err := drawPrime(ctx, cfg, nil)
	if err != nil {
		return nil, &StageError{Stage: StagePrimes, Attempts: attempts, Err: err}
	}
	log.WithFields(logrus.Fields{"stage": StagePrimes, "attempts": attempts}).Debug("first prime accepted")

	p2, attempts, err := drawPrime(ctx, cfg, p1)
	if err != nil {
		return nil, &StageError{Stage: StagePrimes, Attempts: attempts, Err: err}
	}
	log.WithFields(logrus.Fields{"stage": StagePrimes, "attempts": attempts}).Debug("second prime accepted")

	modulus := new(big.Int).Mul(p1, p2)
	totient := new(big.Int).Mul(new(big.Int).Sub(p1, one), new(big.Int).Sub(p2, one))

	private, attempts, err := drawExponent(ctx, cfg, totient)
	if err != nil {
		return nil, &StageError{Stage: StageExponent, Attempts: attempts, Err: err}
	}
	log.WithFields(logrus.Fields{"stage": StageExponent, "attempts": attempts}).Debug("private exponent accepted")

	public, err := ModInverse(totient, private)
	if err != nil {
		return nil, &StageError{Stage: StageInverse, Err: fmt.Errorf("%w: %w", ErrInvalidKeyMaterial, err)}
	}

	material := &KeyMaterial{
		PublicExponent:  public,
		PrivateExponent: private,
		Modulus:         modulus,
	}
	if err := selfCheck(material, totient); err != nil {
		return nil, &StageError{Stage: StageSelfCheck, Err: err}
	}

	log.WithFields(logrus.Fields{"stage": StageSelfCheck, "modulus_bits": modulus.BitLen()}).Debug("key material generated")
	return material, nil
}

// drawPrime samples [1, Bound] until a candidate passes the primality test.
// When first is set, candidates that would give a totient below 2, or equal
// first while DistinctPrimes is on, are rejected.
func drawPrime(ctx context.Context, cfg KeyGenConfig, first *big.Int) (*big.Int, int, error) {
	for attempt := 1; attempt <= cfg.MaxPrimeAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, attempt - 1, err
		}

		candidate, err := randomInRange(cfg.Rand, cfg.Bound)
		if err != nil {
			return nil, attempt, err
		}

		if first != nil && candidate.Cmp(first) == 0 &&
			(cfg.DistinctPrimes || candidate.Cmp(two) == 0) {
			continue
		}

		ok, err := IsProbablePrime(cfg.Rand, candidate, cfg.Rounds)
		if err != nil {
			return nil, attempt, err
		}
		if ok {
			return candidate, attempt, nil
		}
	}

	return nil, cfg.MaxPrimeAttempts, fmt.Errorf("%w: no usable prime below %s", ErrInsufficientKeyDomain, cfg.Bound)
}

// drawExponent samples [1, totient] until a candidate is coprime to totient.
func drawExponent(ctx context.Context, cfg KeyGenConfig, totient *big.Int) (*big.Int, int, error) {
	gcd := new(big.Int)
	for attempt := 1; attempt <= cfg.MaxExponentAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, attempt - 1, err
		}

		candidate, err := randomInRange(cfg.Rand, totient)
		if err != nil {
			return nil, attempt, err
		}

		if gcd.GCD(nil, nil, candidate, totient).Cmp(one) == 0 {
			return candidate, attempt, nil
		}
	}

	return nil, cfg.MaxExponentAttempts, fmt.Errorf("%w: no exponent coprime to the totient", ErrInsufficientKeyDomain)
}

// selfCheck verifies e*d ≡ 1 (mod totient) and that the probe survives an
// encrypt/decrypt round trip under the modulus.
func selfCheck(m *KeyMaterial, totient *big.Int) error {
	product := new(big.Int).Mul(m.PublicExponent, m.PrivateExponent)
	if product.Mod(product, totient).Cmp(one) != 0 {
		return fmt.Errorf("%w: exponents are not inverse modulo the totient", ErrInvalidKeyMaterial)
	}

	probe := new(big.Int).Mod(big.NewInt(SelfCheckProbe), m.Modulus)
	roundTrip := new(big.Int).Exp(probe, m.PublicExponent, m.Modulus)
	roundTrip.Exp(roundTrip, m.PrivateExponent, m.Modulus)
	if roundTrip.Cmp(probe) != 0 {
		return fmt.Errorf("%w: probe did not survive a round trip", ErrInvalidKeyMaterial)
	}

	return nil
}

// randomInRange returns a uniform value in [1, upper].
func randomInRange(r io.Reader, upper *big.Int) (*big.Int, error) {
	n, err := rand.Int(r, upper)
	if err != nil {
		return nil, fmt.Errorf("read random source: %w", err)
	}
	return n.Add(n, one), nil
}
