package app

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/sigs"
	"golang.org/x/crypto/ed25519"
)

// Msg is a message that has a canonical binary form to sign.
type Msg interface {
	custody.Msg
	custody.Marshaller
}

// Tx carries a single message and the signatures authorizing it.
type Tx struct {
	Msg        Msg
	Signatures []*sigs.StdSignature
}

var _ custody.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// NewTx returns an unsigned transaction of given message.
func NewTx(msg Msg) *Tx {
	return &Tx{Msg: msg}
}

// GetMsg returns the message of the transaction.
func (tx *Tx) GetMsg() (custody.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrInput, "no message")
	}
	return tx.Msg, nil
}

// GetSignBytes returns the message path followed by a zero byte and the
// serialized message. Signatures are not part of it.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrInput, "no message")
	}
	raw, err := tx.Msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal message")
	}
	out := make([]byte, 0, len(tx.Msg.Path())+1+len(raw))
	out = append(out, tx.Msg.Path()...)
	out = append(out, 0)
	return append(out, raw...), nil
}

// GetSignatures returns all signatures of the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// Sign appends the signature of given key, bound to the chain and the
// signer sequence.
func (tx *Tx) Sign(key ed25519.PrivateKey, chainID string, seq int64) error {
	sig, err := sigs.SignTx(key, tx, chainID, seq)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}
