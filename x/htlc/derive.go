package htlc

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

const (
	// SeedNative prefixes the derivation of native value escrows.
	SeedNative = "escrow_sol"
	// SeedToken prefixes the derivation of token escrows.
	SeedToken = "escrow_spl"

	seedVault = "vault"
)

// CommitmentSize is the length of a commitment in bytes.
const CommitmentSize = sha256.Size

// Commitment is the SHA-256 hash of a secret.
type Commitment [CommitmentSize]byte

// Commit returns the commitment to given secret.
func Commit(secret []byte) Commitment {
	return sha256.Sum256(secret)
}

// ParseCommitment decodes the hex representation of a commitment.
func ParseCommitment(enc string) (Commitment, error) {
	var c Commitment
	raw, err := hex.DecodeString(enc)
	if err != nil {
		return c, errors.Wrapf(errors.ErrInput, "commitment: %s", err)
	}
	if len(raw) != CommitmentSize {
		return c, errors.Wrapf(errors.ErrInput, "commitment must be %d bytes, got %d", CommitmentSize, len(raw))
	}
	copy(c[:], raw)
	return c, nil
}

// Matches returns true if secret is the preimage of this commitment.
func (c Commitment) Matches(secret []byte) bool {
	return Commit(secret) == c
}

func (c Commitment) IsZero() bool {
	return c == Commitment{}
}

func (c Commitment) String() string {
	return hex.EncodeToString(c[:])
}

func seeds(holder custody.Address, commitment Commitment, token bool) [][]byte {
	prefix := SeedNative
	if token {
		prefix = SeedToken
	}
	return [][]byte{[]byte(prefix), holder.Bytes(), commitment[:]}
}

// DeriveEscrow returns the record address of an escrow created by holder
// under given commitment, together with the canonical nonce of that
// derivation. Native and token escrows of the same holder and commitment
// live at different addresses.
func DeriveEscrow(program, holder custody.Address, commitment Commitment, token bool) (custody.Address, uint8, error) {
	addr, nonce, err := solana.FindProgramAddress(seeds(holder, commitment, token), program)
	if err != nil {
		return custody.Address{}, 0, errors.Wrapf(errors.ErrInput, "derive escrow: %s", err)
	}
	return addr, nonce, nil
}

// Authority is the capability to move value out of the vault of a single
// escrow. It has no key and is never stored. The only way to get one is
// VerifyEscrow.
type Authority struct {
	program custody.Address
	escrow  custody.Address
}

// VerifyEscrow recomputes the derivation of a record from its content and
// returns the authority over its vault if the derivation yields key.
func VerifyEscrow(program, key custody.Address, e *Escrow) (Authority, error) {
	s := append(seeds(e.Holder, e.Commitment, e.Mint != nil), []byte{e.Nonce})
	addr, err := solana.CreateProgramAddress(s, program)
	if err != nil {
		return Authority{}, errors.Wrapf(errors.ErrState, "escrow derivation: %s", err)
	}
	if !addr.Equals(key) {
		return Authority{}, errors.Wrapf(errors.ErrUnauthorized, "escrow %s does not match its derivation", key)
	}
	return Authority{program: program, escrow: key}, nil
}

// Escrow returns the record address this authority was derived for.
func (a Authority) Escrow() custody.Address {
	return a.escrow
}

func (a Authority) validate() error {
	if a.escrow.IsZero() || a.program.IsZero() {
		return errors.Wrap(errors.ErrUnauthorized, "vault authority not derived")
	}
	return nil
}

// NativeVault returns the address holding the native value of given escrow.
func NativeVault(program, escrow custody.Address) (custody.Address, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{[]byte(seedVault), escrow.Bytes()}, program)
	if err != nil {
		return custody.Address{}, errors.Wrapf(errors.ErrInput, "derive vault: %s", err)
	}
	return addr, nil
}
