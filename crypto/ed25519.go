package crypto

import (
	"github.com/iov-one/custody"
	"golang.org/x/crypto/ed25519"
)

// GenPrivKeyEd25519 returns a random new private key.
func GenPrivKeyEd25519() ed25519.PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return priv
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) ed25519.PrivateKey {
	return ed25519.NewKeyFromSeed(seed)
}

// Address returns the address controlled by given key.
func Address(key ed25519.PrivateKey) custody.Address {
	return custody.AddressFromPubKey(key.Public().(ed25519.PublicKey))
}
