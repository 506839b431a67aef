package cryptographer_test

import (
	"context"
	"fmt"
	"log"
	"math/big"

	cryptographer "github.com/cryptographer/cryptographer-go"
)

func ExampleNewKey() {
	key, err := cryptographer.NewKey(cryptographer.KeyMaterial{
		PublicExponent:  big.NewInt(17),
		PrivateExponent: big.NewInt(2753),
		Modulus:         big.NewInt(3233),
	})
	if err != nil {
		log.Fatal(err)
	}

	ciphertext, _ := key.EncryptString("Hi")
	plaintext, _ := key.Decrypt(ciphertext)

	fmt.Printf("%x\n", ciphertext)
	fmt.Println(string(plaintext))
	// Output:
	// 0bb80c6b
	// Hi
}

func ExampleGenerateKey() {
	key, err := cryptographer.GenerateKey(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	public, _ := key.PublicHalf()
	sender, _ := cryptographer.NewPublicKey(public)

	ciphertext, _ := sender.EncryptString("attack at dawn")
	plaintext, _ := key.Decrypt(ciphertext)

	fmt.Println(string(plaintext))
	// Output: attack at dawn
}

func ExampleKey_DecryptLazy() {
	key, _ := cryptographer.NewKey(cryptographer.KeyMaterial{
		PublicExponent:  big.NewInt(17),
		PrivateExponent: big.NewInt(2753),
		Modulus:         big.NewInt(3233),
	})

	ciphertext, _ := key.EncryptString("abc")
	seq, _ := key.DecryptLazy(ciphertext)
	for chunk, err := range seq {
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s ", chunk)
	}
	fmt.Println()
	// Output: a b c
}

func ExampleHashPasswordString() {
	hash, _ := cryptographer.HashPasswordString("password",
		cryptographer.WithSalt([]byte("salt")),
		cryptographer.WithIterations(1))

	fmt.Println(hash.Hash)
	fmt.Println(hash.Check([]byte("password")))
	// Output:
	// 120fb6cffcf8b32c43e7225256c4f837a86548c92ccc35480805987cb70be17b
	// true
}

func ExampleStreamKey() {
	key, _ := cryptographer.NewStreamKey([]byte{1, 2, 3})

	ciphertext, _ := key.EncryptString("abc")
	plaintext, _ := key.Decrypt(ciphertext)

	fmt.Println(ciphertext)
	fmt.Println(string(plaintext))
	// Output:
	// 626466
	// abc
}
