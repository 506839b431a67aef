package cryptographer

import (
	"context"
	"errors"
	"io"
	"math/big"
	"math/rand/v2"
	"testing"
)

// seededReader returns a deterministic random source for tests.
func seededReader(seed byte) io.Reader {
	return rand.NewChaCha8([32]byte{seed})
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("random source unavailable")
}

// testKey generates a key from a seeded source.
func testKey(t testing.TB, seed byte) *Key {
	t.Helper()
	key, err := GenerateKey(context.Background(), WithRandReader(seededReader(seed)))
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	return key
}

// smallKey is the n=3233, e=17, d=2753 key with a one-byte chunk length.
func smallKey(t testing.TB) *Key {
	t.Helper()
	key, err := NewKey(KeyMaterial{
		PublicExponent:  big.NewInt(17),
		PrivateExponent: big.NewInt(2753),
		Modulus:         big.NewInt(3233),
	})
	if err != nil {
		t.Fatalf("NewKey() error = %v", err)
	}
	return key
}

// payload returns n bytes that never end in a zero byte.
func payload(n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(i*7 + 1)
		if p[i] == 0 {
			p[i] = 1
		}
	}
	return p
}
