// Package crypto provides the arithmetic behind the cryptographer key
// container: probabilistic primality testing, modular inversion, key
// material generation and the fixed-block codec, plus the symmetric helpers
// used by the password, stream and sealed-export collaborators.
//
// # Key Generation
//
// [GenerateKeyMaterial] draws two probable primes from [1, Bound] with
// [IsProbablePrime], samples a private exponent coprime to the totient and
// inverts it with [ModInverse]. Both sampling loops are capped by attempt
// budgets in [KeyGenConfig] and fail with [ErrInsufficientKeyDomain] when the
// budget runs out. Every random draw reads from the configured reader.
//
// Bound limits candidate magnitude, not key size. The resulting modulus is
// whatever two primes are found first, so Bound does not control strength.
//
// # Block Codec
//
// A [Codec] splits plaintext into chunks of L = floor(log256(n)) bytes,
// zero-pads the last one and emits each m^e mod n as an L+1 byte big-endian
// block. Decryption reverses this and strips trailing zero bytes, so a
// plaintext ending in 0x00 does not survive a round trip.
//
// There is no padding scheme. Encryption is deterministic and malleable;
// this is textbook RSA.
//
// # Symmetric Helpers
//
//   - [SealAES]/[OpenAES]: AES-256-GCM used for password-sealed key exports.
//   - [DerivePasswordKey]: PBKDF2-HMAC-SHA256.
//   - [DeriveStreamKey]: HKDF-SHA-512 expansion for stream cipher keys.
//   - [ToBase64URL]/[FromBase64URL]: the encoding of exported integers.
package crypto
