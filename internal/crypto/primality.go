package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// IsProbablePrime reports whether n passes the given number of Miller-Rabin
// rounds, drawing witnesses from r. A composite is accepted with probability
// at most 4^-rounds. rounds <= 0 selects DefaultPrimalityRounds and a nil
// reader selects crypto/rand.
//
// The only error is a failure of the random source.
func IsProbablePrime(r io.Reader, n *big.Int, rounds int) (bool, error) {
	if n.Cmp(three) <= 0 {
		return n.Cmp(two) == 0 || n.Cmp(three) == 0, nil
	}
	if n.Bit(0) == 0 {
		return false, nil
	}
	if rounds <= 0 {
		rounds = DefaultPrimalityRounds
	}
	if r == nil {
		r = rand.Reader
	}

	// n-1 = 2^s * d with d odd
	nMinusOne := new(big.Int).Sub(n, one)
	s := nMinusOne.TrailingZeroBits()
	d := new(big.Int).Rsh(nMinusOne, s)

	// witnesses come from [2, n-1)
	span := new(big.Int).Sub(n, three)
	x := new(big.Int)

	for i := 0; i < rounds; i++ {
		a, err := rand.Int(r, span)
		if err != nil {
			return false, fmt.Errorf("draw witness: %w", err)
		}
		a.Add(a, two)

		x.Exp(a, d, n)
		if x.Cmp(one) == 0 || x.Cmp(nMinusOne) == 0 {
			continue
		}
		if !squaresToMinusOne(x, n, nMinusOne, s) {
			return false, nil
		}
	}

	return true, nil
}

// squaresToMinusOne squares x modulo n up to s-1 times and reports whether
// n-1 shows up. Reaching 1 first means x is a non-trivial square root of 1.
func squaresToMinusOne(x, n, nMinusOne *big.Int, s uint) bool {
	for j := uint(1); j < s; j++ {
		x.Mul(x, x)
		x.Mod(x, n)
		if x.Cmp(one) == 0 {
			return false
		}
		if x.Cmp(nMinusOne) == 0 {
			return true
		}
	}
	return false
}
