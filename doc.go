// Package cryptographer provides textbook RSA key generation and a
// fixed-block cipher, plus a salted password hasher and an additive stream
// key.
//
// The block cipher has no padding and is deterministic. It is suited to
// teaching and experimentation, not to protecting real secrets.
//
// Basic usage:
//
//	key, err := cryptographer.GenerateKey(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ciphertext, err := key.EncryptString("hello world")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	plaintext, err := key.Decrypt(ciphertext)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(string(plaintext))
//
// Only the public half is needed to encrypt:
//
//	public, _ := key.PublicHalf()
//	sender, err := cryptographer.NewPublicKey(public)
//
// Keys survive a round trip through Export and ImportKey, or through Seal and
// OpenSealedKey when the export must be protected by a password.
package cryptographer
