package crypto

import (
	"fmt"
	"math/big"
)

// ModInverse returns x in [0, modulus) such that value*x ≡ 1 (mod modulus),
// computed with the extended Euclidean algorithm. It fails with
// ErrNoInverseExists when modulus is not positive or gcd(value, modulus) != 1.
func ModInverse(modulus, value *big.Int) (*big.Int, error) {
	if modulus.Sign() <= 0 {
		return nil, fmt.Errorf("%w: modulus must be positive", ErrNoInverseExists)
	}

	// Invariant: value*t ≡ r (mod modulus) for both (oldT, oldR) and (t, r).
	oldR, r := new(big.Int).Set(modulus), new(big.Int).Mod(value, modulus)
	oldT, t := new(big.Int), big.NewInt(1)

	for r.Sign() != 0 {
		q := new(big.Int).Quo(oldR, r)
		oldR, r = r, new(big.Int).Sub(oldR, new(big.Int).Mul(q, r))
		oldT, t = t, new(big.Int).Sub(oldT, new(big.Int).Mul(q, t))
	}

	if oldR.Cmp(one) != 0 {
		return nil, fmt.Errorf("%w: operands share a common factor", ErrNoInverseExists)
	}

	return oldT.Mod(oldT, modulus), nil
}
