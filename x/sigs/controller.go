package sigs

import (
	"bytes"
	"crypto/sha512"

	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"golang.org/x/crypto/ed25519"
)

// SignCodeV1 prefixes every signed payload.
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignatures verifies every signature of tx and advances the
// sequence of each signer. It returns the signers in signature order, an
// unsigned transaction has none.
func VerifyTxSignatures(db custody.KVStore, tx SignedTx, chainID string) ([]custody.Address, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	sigs := tx.GetSignatures()
	signers := make([]custody.Address, len(sigs))
	for i, sig := range sigs {
		if signers[i], err = VerifySignature(db, sig, payload, chainID); err != nil {
			return nil, err
		}
	}
	return signers, nil
}

// VerifySignature checks sig over payload for chainID. The signature must
// carry the next sequence of its signer, which is then advanced.
func VerifySignature(db custody.KVStore, sig *StdSignature, payload []byte, chainID string) (custody.Address, error) {
	if err := sig.Validate(); err != nil {
		return custody.Address{}, err
	}
	msg, err := BuildSignBytes(payload, chainID, sig.Sequence)
	if err != nil {
		return custody.Address{}, err
	}
	if !ed25519.Verify(sig.Pubkey, msg, sig.Signature) {
		return custody.Address{}, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}

	bucket := NewBucket()
	obj, err := bucket.GetOrCreate(db, sig.Pubkey)
	if err != nil {
		return custody.Address{}, err
	}
	user := AsUser(obj)
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return custody.Address{}, err
	}
	if err := bucket.Save(db, obj); err != nil {
		return custody.Address{}, err
	}
	return custody.AddressFromPubKey(user.Pubkey), nil
}

// BuildSignBytes returns the digest signed for payload. The digest is the
// SHA-512 of
//
//	SignCodeV1 | len(chainID) uint8 | chainID | seq int64 big endian | payload
func BuildSignBytes(payload []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !custody.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	var buf bytes.Buffer
	enc := bin.NewBinEncoder(&buf)
	for _, write := range []func() error{
		func() error { return enc.WriteBytes(SignCodeV1, false) },
		func() error { return enc.WriteUint8(uint8(len(chainID))) },
		func() error { return enc.WriteBytes([]byte(chainID), false) },
		func() error { return enc.WriteInt64(seq, bin.BE) },
		func() error { return enc.WriteBytes(payload, false) },
	} {
		if err := write(); err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "sign bytes: %s", err)
		}
	}
	digest := sha512.Sum512(buf.Bytes())
	return digest[:], nil
}

// BuildSignBytesTx returns the digest signed for tx.
func BuildSignBytesTx(tx SignedTx, chainID string, seq int64) ([]byte, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	return BuildSignBytes(payload, chainID, seq)
}

// SignTx signs tx for chainID with the given sequence of signer.
func SignTx(signer ed25519.PrivateKey, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	digest, err := BuildSignBytesTx(tx, chainID, seq)
	if err != nil {
		return nil, err
	}
	return &StdSignature{
		Pubkey:    signer.Public().(ed25519.PublicKey),
		Signature: ed25519.Sign(signer, digest),
		Sequence:  seq,
	}, nil
}

// NextNonce returns the sequence the next signature of given address must
// carry.
func NextNonce(db custody.ReadOnlyKVStore, addr custody.Address) (int64, error) {
	obj, err := NewBucket().Get(db, addr.Bytes())
	if err != nil {
		return 0, err
	}
	if obj == nil {
		return 0, nil
	}
	return AsUser(obj).Sequence, nil
}
