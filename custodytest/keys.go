package custodytest

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
	"golang.org/x/crypto/ed25519"
)

// NewKey returns a fresh ed25519 private key.
func NewKey() ed25519.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// KeyAddress returns the address of the holder of given key.
func KeyAddress(key ed25519.PrivateKey) custody.Address {
	return crypto.Address(key)
}

// NewAddress returns the address of a freshly generated key.
func NewAddress() custody.Address {
	return KeyAddress(NewKey())
}

// ParseAddress decodes given address or panics.
func ParseAddress(enc string) custody.Address {
	a, err := custody.ParseAddress(enc)
	if err != nil {
		panic(err)
	}
	return a
}
