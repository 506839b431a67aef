package crypto

import (
	"context"
	"errors"
	"io"
	"math/big"
	mathrand "math/rand/v2"
	"testing"
)

// seededReader returns a deterministic random source for reproducible tests.
func seededReader(seed byte) io.Reader {
	var s [32]byte
	s[0] = seed
	return mathrand.NewChaCha8(s)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy unavailable")
}

func testKeyMaterial(t testing.TB, seed byte) *KeyMaterial {
	t.Helper()

	m, err := GenerateKeyMaterial(context.Background(), KeyGenConfig{
		Bound:          big.NewInt(DefaultBound),
		DistinctPrimes: true,
		Rand:           seededReader(seed),
	})
	if err != nil {
		t.Fatalf("GenerateKeyMaterial() error = %v", err)
	}
	return m
}
