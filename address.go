package custody

import (
	"encoding/hex"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/custody/crypto/bech32"
	"github.com/iov-one/custody/errors"
	"golang.org/x/crypto/ed25519"
)

// AddressHRP is the human readable part used for the bech32 notation.
const AddressHRP = "cust"

// Address is a 32 byte identity. It is either the public key of a signer or a
// program derived address that has no private key at all (escrow records,
// vaults, associated token accounts).
//
// The default text representation is base58.
type Address = solana.PublicKey

// AddressFromPubKey returns the identity of the holder of given ed25519 key.
func AddressFromPubKey(pub ed25519.PublicKey) Address {
	return solana.PublicKeyFromBytes(pub)
}

// ValidateAddress returns an error if the address is the zero value.
func ValidateAddress(a Address) error {
	if a.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "address")
	}
	return nil
}

// ParseAddress decodes a textual representation of an address.
//
// If the encoded string starts with a prefix, cut it off and use specified
// decoding method instead of default one. Supported prefixes are "hex:" and
// "bech32:", base58 is used otherwise.
func ParseAddress(enc string) (Address, error) {
	chunks := strings.SplitN(enc, ":", 2)
	format := "base58"
	if len(chunks) == 2 {
		format, enc = chunks[0], chunks[1]
	}
	if len(enc) == 0 {
		return Address{}, errors.Wrap(errors.ErrEmpty, "address")
	}

	var raw []byte
	switch format {
	case "base58":
		a, err := solana.PublicKeyFromBase58(enc)
		if err != nil {
			return Address{}, errors.Wrapf(errors.ErrInput, "base58: %s", err)
		}
		return a, nil
	case "hex":
		val, err := hex.DecodeString(enc)
		if err != nil {
			return Address{}, errors.Wrapf(errors.ErrInput, "cannot decode hex: %s", err)
		}
		raw = val
	case "bech32":
		_, payload, err := bech32.Decode(enc)
		if err != nil {
			return Address{}, errors.Wrap(err, "deserialize bech32")
		}
		raw = payload
	default:
		return Address{}, errors.Wrapf(errors.ErrType, "unknown format %q", format)
	}
	if len(raw) != solana.PublicKeyLength {
		return Address{}, errors.Wrapf(errors.ErrInput, "address must be %d bytes, got %d", solana.PublicKeyLength, len(raw))
	}
	return solana.PublicKeyFromBytes(raw), nil
}

// Bech32Address returns the bech32 notation of given address.
func Bech32Address(a Address) (string, error) {
	raw, err := bech32.Encode(AddressHRP, a.Bytes())
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
