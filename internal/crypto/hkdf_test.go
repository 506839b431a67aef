package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func TestDeriveStreamKey(t *testing.T) {
	secret := []byte("shared secret")

	a, err := DeriveStreamKey(secret, []byte("salt"), 4096)
	if err != nil {
		t.Fatalf("DeriveStreamKey() error = %v", err)
	}
	if len(a) != 4096 {
		t.Errorf("len = %d, want 4096", len(a))
	}

	b, err := DeriveStreamKey(secret, []byte("salt"), 4096)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("same inputs produced different keys")
	}

	c, err := DeriveStreamKey(secret, []byte("other salt"), 4096)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a, c) {
		t.Error("different salts produced the same key")
	}

	// a shorter key is a prefix of a longer one
	short, err := DeriveStreamKey(secret, []byte("salt"), 32)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(short, a[:32]) {
		t.Error("short key is not a prefix of the long key")
	}
}

func TestDeriveStreamKey_EmptySalt(t *testing.T) {
	a, err := DeriveStreamKey([]byte("secret"), nil, 64)
	if err != nil {
		t.Fatal(err)
	}
	b, err := DeriveStreamKey([]byte("secret"), make([]byte, 64), 64)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("empty salt is not equivalent to a zero-filled salt")
	}
}

func TestDeriveStreamKey_InvalidLength(t *testing.T) {
	for _, n := range []int{-1, MaxDerivedKeySize + 1} {
		if _, err := DeriveStreamKey([]byte("secret"), nil, n); !errors.Is(err, ErrInvalidKeySize) {
			t.Errorf("DeriveStreamKey(%d): expected ErrInvalidKeySize, got %v", n, err)
		}
	}
}
