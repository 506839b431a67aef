package cryptographer

import (
	"context"
	"fmt"
	"iter"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/cryptographer/cryptographer-go/internal/crypto"
)

// KeyMaterial is the value triple a Key is built from. Either exponent may be
// nil for a key that holds only one half.
type KeyMaterial struct {
	PublicExponent  *big.Int
	PrivateExponent *big.Int
	Modulus         *big.Int
	// PrivateModulus is set only when the private half was paired with a
	// public half of a different modulus.
	PrivateModulus *big.Int
}

// HalfKey is one exponent together with the modulus it applies to.
type HalfKey struct {
	Exponent *big.Int
	Modulus  *big.Int
}

// half is an immutable key half with its codec.
type half struct {
	exponent *big.Int
	modulus  *big.Int
	codec    *crypto.Codec
}

func newHalf(h HalfKey) (*half, error) {
	codec, err := crypto.NewCodec(h.Exponent, h.Modulus)
	if err != nil {
		return nil, err
	}
	return &half{
		exponent: new(big.Int).Set(h.Exponent),
		modulus:  new(big.Int).Set(h.Modulus),
		codec:    codec,
	}, nil
}

func (h *half) halfKey() HalfKey {
	return HalfKey{
		Exponent: new(big.Int).Set(h.exponent),
		Modulus:  new(big.Int).Set(h.modulus),
	}
}

// Key holds the public half, the private half or both. Encryption uses the
// public half and decryption the private half. The halves are replaced
// independently and no check is made that they belong together.
//
// A Key is safe for concurrent use.
type Key struct {
	mu      sync.RWMutex
	public  *half
	private *half
}

// GenerateKey generates new key material and returns a Key holding both
// halves. Generation may take a while for large bounds; it stops early when
// ctx is canceled.
func GenerateKey(ctx context.Context, opts ...Option) (*Key, error) {
	cfg := newKeyConfig(opts)

	material, err := crypto.GenerateKeyMaterial(ctx, cfg.keyGenConfig())
	if err != nil {
		return nil, wrapError(err)
	}

	return NewKey(KeyMaterial{
		PublicExponent:  material.PublicExponent,
		PrivateExponent: material.PrivateExponent,
		Modulus:         material.Modulus,
	})
}

// NewKey returns a Key holding both halves of m.
func NewKey(m KeyMaterial) (*Key, error) {
	if m.PublicExponent == nil || m.PrivateExponent == nil {
		return nil, fmt.Errorf("%w: both exponents are required", ErrInvalidKeyMaterial)
	}
	return Restore(m)
}

// NewPublicKey returns a Key holding only a public half.
func NewPublicKey(h HalfKey) (*Key, error) {
	pub, err := newHalf(h)
	if err != nil {
		return nil, err
	}
	return &Key{public: pub}, nil
}

// NewPrivateKey returns a Key holding only a private half.
func NewPrivateKey(h HalfKey) (*Key, error) {
	priv, err := newHalf(h)
	if err != nil {
		return nil, err
	}
	return &Key{private: priv}, nil
}

// Restore rebuilds a Key from a snapshot. It accepts snapshots of keys that
// hold only one half.
func Restore(m KeyMaterial) (*Key, error) {
	if m.PublicExponent == nil && m.PrivateExponent == nil {
		return nil, fmt.Errorf("%w: no exponent present", ErrInvalidKeyMaterial)
	}

	k := &Key{}
	if m.PublicExponent != nil {
		pub, err := newHalf(HalfKey{Exponent: m.PublicExponent, Modulus: m.Modulus})
		if err != nil {
			return nil, err
		}
		k.public = pub
	}
	if m.PrivateExponent != nil {
		modulus := m.Modulus
		if m.PrivateModulus != nil {
			modulus = m.PrivateModulus
		}
		priv, err := newHalf(HalfKey{Exponent: m.PrivateExponent, Modulus: modulus})
		if err != nil {
			return nil, err
		}
		k.private = priv
	}
	return k, nil
}

// Snapshot returns copies of the key's values. Restore(k.Snapshot())
// produces an equivalent key.
func (k *Key) Snapshot() KeyMaterial {
	pub, priv := k.halves()

	var m KeyMaterial
	if pub != nil {
		m.PublicExponent = new(big.Int).Set(pub.exponent)
		m.Modulus = new(big.Int).Set(pub.modulus)
	}
	if priv != nil {
		m.PrivateExponent = new(big.Int).Set(priv.exponent)
		if m.Modulus == nil {
			m.Modulus = new(big.Int).Set(priv.modulus)
		} else if m.Modulus.Cmp(priv.modulus) != 0 {
			m.PrivateModulus = new(big.Int).Set(priv.modulus)
		}
	}
	return m
}

// Copy returns an independent Key with the same halves.
func (k *Key) Copy() *Key {
	pub, priv := k.halves()
	return &Key{public: pub, private: priv}
}

// PublicHalf returns the public exponent and its modulus.
func (k *Key) PublicHalf() (HalfKey, error) {
	pub, _ := k.halves()
	if pub == nil {
		return HalfKey{}, fmt.Errorf("%w: public", ErrMissingKeyHalf)
	}
	return pub.halfKey(), nil
}

// PrivateHalf returns the private exponent and its modulus.
func (k *Key) PrivateHalf() (HalfKey, error) {
	_, priv := k.halves()
	if priv == nil {
		return HalfKey{}, fmt.Errorf("%w: private", ErrMissingKeyHalf)
	}
	return priv.halfKey(), nil
}

// SetPublicHalf replaces the public half.
func (k *Key) SetPublicHalf(h HalfKey) error {
	pub, err := newHalf(h)
	if err != nil {
		return err
	}
	k.mu.Lock()
	k.public = pub
	k.mu.Unlock()
	return nil
}

// SetPrivateHalf replaces the private half.
func (k *Key) SetPrivateHalf(h HalfKey) error {
	priv, err := newHalf(h)
	if err != nil {
		return err
	}
	k.mu.Lock()
	k.private = priv
	k.mu.Unlock()
	return nil
}

// HasPublicHalf reports whether the key can encrypt.
func (k *Key) HasPublicHalf() bool {
	pub, _ := k.halves()
	return pub != nil
}

// HasPrivateHalf reports whether the key can decrypt.
func (k *Key) HasPrivateHalf() bool {
	_, priv := k.halves()
	return priv != nil
}

// ChunkLength returns the number of plaintext bytes per cipher block. It
// uses the public half when present and returns 0 for an empty key.
func (k *Key) ChunkLength() int {
	pub, priv := k.halves()
	switch {
	case pub != nil:
		return pub.codec.ChunkLength()
	case priv != nil:
		return priv.codec.ChunkLength()
	default:
		return 0
	}
}

// Encrypt encrypts plaintext with the public half. Encryption is
// deterministic. A plaintext ending in zero bytes does not survive a round
// trip intact because Decrypt strips them.
func (k *Key) Encrypt(plaintext []byte) ([]byte, error) {
	codec, err := k.encryptCodec()
	if err != nil {
		return nil, err
	}
	return codec.Encrypt(plaintext), nil
}

// EncryptString encrypts the UTF-8 bytes of s.
func (k *Key) EncryptString(s string) ([]byte, error) {
	return k.Encrypt([]byte(s))
}

// Decrypt decrypts ciphertext with the private half and strips trailing
// zero bytes from the result.
func (k *Key) Decrypt(ciphertext []byte) ([]byte, error) {
	codec, err := k.decryptCodec()
	if err != nil {
		return nil, err
	}

	plaintext, err := codec.Decrypt(ciphertext)
	if err != nil {
		return nil, codecError("decrypt", len(ciphertext), codec.BlockLength(), err)
	}
	return plaintext, nil
}

// EncryptLazy returns a sequence yielding one cipher block at a time. The
// sequence can be ranged over once; later ranges yield nothing.
func (k *Key) EncryptLazy(plaintext []byte) (iter.Seq[[]byte], error) {
	codec, err := k.encryptCodec()
	if err != nil {
		return nil, err
	}
	return singlePass(codec.EncryptSeq(plaintext)), nil
}

// DecryptLazy returns a sequence yielding one decrypted chunk at a time,
// each with its trailing zero bytes stripped. The ciphertext length is
// checked up front. The sequence can be ranged over once.
func (k *Key) DecryptLazy(ciphertext []byte) (iter.Seq2[[]byte, error], error) {
	codec, err := k.decryptCodec()
	if err != nil {
		return nil, err
	}

	seq, err := codec.DecryptSeq(ciphertext)
	if err != nil {
		return nil, codecError("decrypt", len(ciphertext), codec.BlockLength(), err)
	}

	length, block := len(ciphertext), codec.BlockLength()
	var wrapped iter.Seq2[[]byte, error] = func(yield func([]byte, error) bool) {
		for chunk, err := range seq {
			if !yield(chunk, codecError("decrypt", length, block, err)) {
				return
			}
		}
	}
	return singlePass2(wrapped), nil
}

// String describes the key without revealing the private exponent.
func (k *Key) String() string {
	pub, priv := k.halves()

	publicPart, modulus := "absent", "absent"
	if pub != nil {
		publicPart = truncate(pub.exponent.Text(16))
		modulus = truncate(pub.modulus.Text(16))
	} else if priv != nil {
		modulus = truncate(priv.modulus.Text(16))
	}

	privatePart := "absent"
	if priv != nil {
		privatePart = "set"
	}

	return fmt.Sprintf("<Key modulus=%s public=%s private=%s>", modulus, publicPart, privatePart)
}

func (k *Key) halves() (*half, *half) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.public, k.private
}

func (k *Key) encryptCodec() (*crypto.Codec, error) {
	pub, _ := k.halves()
	if pub == nil {
		return nil, fmt.Errorf("%w: public half is needed to encrypt", ErrMissingKeyHalf)
	}
	return pub.codec, nil
}

func (k *Key) decryptCodec() (*crypto.Codec, error) {
	_, priv := k.halves()
	if priv == nil {
		return nil, fmt.Errorf("%w: private half is needed to decrypt", ErrMissingKeyHalf)
	}
	return priv.codec, nil
}

// singlePass makes seq yield nothing after its first range.
func singlePass[V any](seq iter.Seq[V]) iter.Seq[V] {
	var used atomic.Bool
	return func(yield func(V) bool) {
		if used.Swap(true) {
			return
		}
		seq(yield)
	}
}

func singlePass2[K, V any](seq iter.Seq2[K, V]) iter.Seq2[K, V] {
	var used atomic.Bool
	return func(yield func(K, V) bool) {
		if used.Swap(true) {
			return
		}
		seq(yield)
	}
}
