package crypto

import (
	"math/big"
	"testing"
)

func TestIsProbablePrime(t *testing.T) {
	tests := []struct {
		n    int64
		want bool
	}{
		{-7, false},
		{0, false},
		{1, false},
		{2, true},
		{3, true},
		{4, false},
		{5, true},
		{9, false},
		{97, true},
		{100, false},
		{561, false}, // Carmichael
		{1001, false},
		{41041, false}, // Carmichael
		{104729, true},
		{2147483647, true},
		{2305843009213693951, true}, // 2^61 - 1
		{2305843009213693953, false},
	}

	for _, tt := range tests {
		t.Run(big.NewInt(tt.n).String(), func(t *testing.T) {
			got, err := IsProbablePrime(seededReader(1), big.NewInt(tt.n), 0)
			if err != nil {
				t.Fatalf("IsProbablePrime() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsProbablePrime(%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}

func TestIsProbablePrime_LargePrime(t *testing.T) {
	// 2^127 - 1
	n := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))

	got, err := IsProbablePrime(nil, n, 10)
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Error("2^127-1 reported composite")
	}

	composite := new(big.Int).Mul(n, big.NewInt(3))
	got, err = IsProbablePrime(nil, composite, 10)
	if err != nil {
		t.Fatal(err)
	}
	if got {
		t.Error("3*(2^127-1) reported prime")
	}
}

func TestIsProbablePrime_AgreesWithStdlib(t *testing.T) {
	for n := int64(0); n < 2000; n++ {
		v := big.NewInt(n)
		got, err := IsProbablePrime(seededReader(2), v, 0)
		if err != nil {
			t.Fatal(err)
		}
		if want := v.ProbablyPrime(20); got != want {
			t.Errorf("IsProbablePrime(%d) = %v, want %v", n, got, want)
		}
	}
}

func TestIsProbablePrime_RandomSourceFailure(t *testing.T) {
	_, err := IsProbablePrime(failingReader{}, big.NewInt(104729), 5)
	if err == nil {
		t.Error("expected error from failing random source")
	}
}

func TestIsProbablePrime_SmallValuesNeedNoRandomness(t *testing.T) {
	for _, n := range []int64{1, 2, 3, 4, 100} {
		if _, err := IsProbablePrime(failingReader{}, big.NewInt(n), 5); err != nil {
			t.Errorf("IsProbablePrime(%d) error = %v", n, err)
		}
	}
}

func BenchmarkIsProbablePrime(b *testing.B) {
	n := big.NewInt(2305843009213693951)
	r := seededReader(3)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = IsProbablePrime(r, n, DefaultPrimalityRounds)
	}
}
