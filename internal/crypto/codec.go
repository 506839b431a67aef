package crypto

import (
	"bytes"
	"fmt"
	"iter"
	"math/big"
)

// ChunkLength returns floor(log256(modulus)), the number of plaintext bytes
// that always encode to an integer below modulus. It is 0 for moduli below
// 256 and for non-positive values.
func ChunkLength(modulus *big.Int) int {
	if modulus == nil || modulus.Sign() <= 0 {
		return 0
	}
	return (modulus.BitLen() - 1) / 8
}

// Codec applies one exponent to fixed-size chunks of a byte stream. An
// encrypting codec holds the public exponent and a decrypting codec the
// private one. Codecs are immutable and safe for concurrent use.
type Codec struct {
	exponent *big.Int
	modulus  *big.Int
	chunkLen int
}

// NewCodec returns a codec for exponent and modulus. The modulus must be at
// least 256 so that every chunk carries at least one byte.
func NewCodec(exponent, modulus *big.Int) (*Codec, error) {
	if exponent == nil || modulus == nil {
		return nil, fmt.Errorf("%w: exponent and modulus are required", ErrInvalidKeyMaterial)
	}
	if exponent.Sign() <= 0 || modulus.Sign() <= 0 {
		return nil, fmt.Errorf("%w: exponent and modulus must be positive", ErrInvalidKeyMaterial)
	}

	chunkLen := ChunkLength(modulus)
	if chunkLen == 0 {
		return nil, fmt.Errorf("%w: modulus below 256 cannot hold a chunk", ErrInvalidKeyMaterial)
	}

	return &Codec{
		exponent: new(big.Int).Set(exponent),
		modulus:  new(big.Int).Set(modulus),
		chunkLen: chunkLen,
	}, nil
}

// ChunkLength returns the plaintext chunk size L in bytes.
func (c *Codec) ChunkLength() int {
	return c.chunkLen
}

// BlockLength returns the cipher block size L+1 in bytes.
func (c *Codec) BlockLength() int {
	return c.chunkLen + 1
}

// EncryptedLength returns the ciphertext length for n plaintext bytes.
func (c *Codec) EncryptedLength(n int) int {
	return (n + c.chunkLen - 1) / c.chunkLen * c.BlockLength()
}

// Encrypt encodes plaintext as consecutive cipher blocks. The final chunk is
// padded on the right with zero bytes.
func (c *Codec) Encrypt(plaintext []byte) []byte {
	out := make([]byte, c.EncryptedLength(len(plaintext)))
	block := c.BlockLength()

	for i, j := 0, 0; i < len(plaintext); i, j = i+c.chunkLen, j+block {
		c.encryptChunk(out[j:j+block], plaintext[i:min(i+c.chunkLen, len(plaintext))])
	}

	return out
}

// EncryptSeq yields the cipher blocks of plaintext one at a time. The
// plaintext is copied, so later changes by the caller have no effect.
func (c *Codec) EncryptSeq(plaintext []byte) iter.Seq[[]byte] {
	data := bytes.Clone(plaintext)
	return func(yield func([]byte) bool) {
		for i := 0; i < len(data); i += c.chunkLen {
			block := make([]byte, c.BlockLength())
			c.encryptChunk(block, data[i:min(i+c.chunkLen, len(data))])
			if !yield(block) {
				return
			}
		}
	}
}

// Decrypt decodes every block of ciphertext and strips trailing zero bytes
// from the reassembled plaintext. A plaintext that really ended in zero
// bytes loses them.
func (c *Codec) Decrypt(ciphertext []byte) ([]byte, error) {
	if err := c.checkLength(len(ciphertext)); err != nil {
		return nil, err
	}

	block := c.BlockLength()
	count := len(ciphertext) / block
	out := make([]byte, count*c.chunkLen)

	for i := 0; i < count; i++ {
		if err := c.decryptBlock(out[i*c.chunkLen:(i+1)*c.chunkLen], ciphertext[i*block:(i+1)*block]); err != nil {
			return nil, err
		}
	}

	return bytes.TrimRight(out, "\x00"), nil
}

// DecryptSeq validates the ciphertext length and returns a sequence of
// decoded chunks, each with its own trailing zero bytes stripped. A block
// that fails to decode ends the sequence with an error.
func (c *Codec) DecryptSeq(ciphertext []byte) (iter.Seq2[[]byte, error], error) {
	if err := c.checkLength(len(ciphertext)); err != nil {
		return nil, err
	}

	data := bytes.Clone(ciphertext)
	block := c.BlockLength()

	return func(yield func([]byte, error) bool) {
		for i := 0; i < len(data); i += block {
			chunk := make([]byte, c.chunkLen)
			if err := c.decryptBlock(chunk, data[i:i+block]); err != nil {
				yield(nil, err)
				return
			}
			if !yield(bytes.TrimRight(chunk, "\x00"), nil) {
				return
			}
		}
	}, nil
}

func (c *Codec) checkLength(n int) error {
	if n%c.BlockLength() != 0 {
		return fmt.Errorf("%w: got %d bytes, block length is %d", ErrChunkLengthMismatch, n, c.BlockLength())
	}
	return nil
}

// encryptChunk writes chunk^e mod n into dst, which must be BlockLength
// bytes. chunk may be shorter than ChunkLength.
func (c *Codec) encryptChunk(dst, chunk []byte) {
	if len(chunk) < c.chunkLen {
		padded := make([]byte, c.chunkLen)
		copy(padded, chunk)
		chunk = padded
	}

	m := new(big.Int).SetBytes(chunk)
	m.Exp(m, c.exponent, c.modulus)
	m.FillBytes(dst)
}

// decryptBlock writes block^d mod n into dst, which must be ChunkLength
// bytes. A value wider than dst means the block was not produced by the
// matching public half.
func (c *Codec) decryptBlock(dst, block []byte) error {
	m := new(big.Int).SetBytes(block)
	m.Exp(m, c.exponent, c.modulus)

	if (m.BitLen()+7)/8 > len(dst) {
		return fmt.Errorf("%w: block decodes to more than %d bytes", ErrDecryptionFailed, len(dst))
	}

	m.FillBytes(dst)
	return nil
}
