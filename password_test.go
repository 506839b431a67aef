package cryptographer

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestHashPassword_KnownVectors(t *testing.T) {
	tests := []struct {
		iterations int
		want       string
	}{
		{1, "120fb6cffcf8b32c43e7225256c4f837a86548c92ccc35480805987cb70be17b"},
		{2, "ae4d0c95af6b46d32d0adff928f06dd02a303f8ef3c251dfd6e2d85a95474c43"},
	}

	for _, tt := range tests {
		hash, err := HashPasswordString("password", WithSalt([]byte("salt")), WithIterations(tt.iterations))
		if err != nil {
			t.Fatalf("HashPasswordString() error = %v", err)
		}
		if hash.Hash != tt.want {
			t.Errorf("Hash(c=%d) = %s, want %s", tt.iterations, hash.Hash, tt.want)
		}
		if hash.Iterations != tt.iterations {
			t.Errorf("Iterations = %d, want %d", hash.Iterations, tt.iterations)
		}
	}
}

func TestPasswordHash_Check(t *testing.T) {
	hash, err := HashPassword([]byte("secret"), WithIterations(10), WithSaltLength(16))
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if !hash.Check([]byte("secret")) {
		t.Error("Check() should accept the right password")
	}
	if hash.Check([]byte("password")) {
		t.Error("Check() should reject a wrong password")
	}
	if err := hash.Verify([]byte("secret")); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
	if err := hash.Verify([]byte("Secret")); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("Verify() error = %v, want ErrPasswordMismatch", err)
	}

	broken := hash.Copy()
	broken.Iterations = 0
	if broken.Check([]byte("secret")) {
		t.Error("Check() should reject a hash with no iterations")
	}
}

func TestHashPassword_Salt(t *testing.T) {
	a, _ := HashPassword([]byte("pw"), WithIterations(1))
	if len(a.Salt) != DefaultSaltLength {
		t.Errorf("len(Salt) = %d, want %d", len(a.Salt), DefaultSaltLength)
	}

	b, _ := HashPassword([]byte("pw"), WithIterations(1))
	if bytes.Equal(a.Salt, b.Salt) || a.Hash == b.Hash {
		t.Error("two hashes of the same password should use different salts")
	}

	c, _ := HashPassword([]byte("pw"), WithIterations(1), WithSaltLength(8), WithPasswordRandReader(seededReader(1)))
	d, _ := HashPassword([]byte("pw"), WithIterations(1), WithSaltLength(8), WithPasswordRandReader(seededReader(1)))
	if !c.Equal(d) {
		t.Error("hashes from the same seeded source should be equal")
	}
}

func TestHashPassword_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts []PasswordOption
	}{
		{"zero iterations", []PasswordOption{WithIterations(0)}},
		{"zero salt length", []PasswordOption{WithIterations(1), WithSaltLength(0)}},
		{"random failure", []PasswordOption{WithIterations(1), WithPasswordRandReader(failingReader{})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := HashPassword([]byte("pw"), tt.opts...); err == nil {
				t.Error("HashPassword() should fail")
			}
		})
	}
}

func TestPasswordHash_EqualAndCopy(t *testing.T) {
	hash, _ := HashPassword([]byte("pw"), WithIterations(1), WithSaltLength(8))
	dup := hash.Copy()

	if !hash.Equal(dup) {
		t.Error("a copy should be equal to the original")
	}

	dup.Salt[0] ^= 0xff
	if hash.Equal(dup) {
		t.Error("changing the copy's salt should break equality")
	}
	if !hash.Check([]byte("pw")) {
		t.Error("changing the copy should not affect the original")
	}

	var nilHash *PasswordHash
	if hash.Equal(nil) || !nilHash.Equal(nil) {
		t.Error("Equal() mishandles nil")
	}
}

func TestPasswordHash_String(t *testing.T) {
	hash, _ := HashPassword([]byte("pw"), WithIterations(3), WithSaltLength(64))

	s := hash.String()
	if strings.Contains(s, hash.Hash) {
		t.Errorf("String() = %q should truncate the digest", s)
	}
	if !strings.Contains(s, "iterations=3") {
		t.Errorf("String() = %q should show the iteration count", s)
	}
}

func BenchmarkHashPassword(b *testing.B) {
	salt := bytes.Repeat([]byte{1}, 16)
	for b.Loop() {
		HashPassword([]byte("password"), WithSalt(salt), WithIterations(10_000))
	}
}
