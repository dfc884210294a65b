package htlc

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

const (
	pathCreate = "htlc/create"
	pathRedeem = "htlc/redeem"
	pathRefund = "htlc/refund"

	maxSecretSize = 256
)

var _ custody.Msg = (*CreateMsg)(nil)
var _ custody.Msg = (*RedeemMsg)(nil)
var _ custody.Msg = (*RefundMsg)(nil)

// CreateMsg locks Amount of the holder value under Commitment until
// Expiration. A zero Mint locks native value, otherwise tokens of Mint with
// given Decimals precision are locked.
type CreateMsg struct {
	Holder     custody.Address
	Amount     uint64
	Expiration custody.UnixTime
	Commitment Commitment
	Mint       custody.Address
	Decimals   uint8
}

func (CreateMsg) Path() string {
	return pathCreate
}

func (m CreateMsg) Validate() error {
	if err := custody.ValidateAddress(m.Holder); err != nil {
		return errors.Wrap(err, "holder")
	}
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "amount must be positive")
	}
	if m.Expiration == 0 {
		// Zero is a valid time that dates to 1970-01-01. Most likely
		// value was not provided and a zero value remained.
		return errors.Wrap(errors.ErrInput, "expiration is required")
	}
	if m.Commitment.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "commitment")
	}
	if m.Mint.IsZero() && m.Decimals != 0 {
		return errors.Wrap(errors.ErrInput, "decimals of native value")
	}
	return nil
}

// Marshal returns the canonical binary form used for signing.
func (m CreateMsg) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	return marshal(&buf, []func() error{
		func() error { return enc.WriteBytes(m.Holder.Bytes(), false) },
		func() error { return enc.WriteUint64(m.Amount, bin.LE) },
		func() error { return enc.WriteInt64(int64(m.Expiration), bin.LE) },
		func() error { return enc.WriteBytes(m.Commitment[:], false) },
		func() error { return enc.WriteBytes(m.Mint.Bytes(), false) },
		func() error { return enc.WriteUint8(m.Decimals) },
	})
}

// RedeemMsg releases the escrow to Claimant, who must sign. Mint must be
// the mint of a token escrow and zero for a native one.
type RedeemMsg struct {
	Escrow   custody.Address
	Claimant custody.Address
	Secret   []byte
	Mint     custody.Address
}

func (RedeemMsg) Path() string {
	return pathRedeem
}

func (m RedeemMsg) Validate() error {
	if err := custody.ValidateAddress(m.Escrow); err != nil {
		return errors.Wrap(err, "escrow")
	}
	if err := custody.ValidateAddress(m.Claimant); err != nil {
		return errors.Wrap(err, "claimant")
	}
	return validateSecret(m.Secret)
}

// Marshal returns the canonical binary form used for signing.
func (m RedeemMsg) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	return marshal(&buf, []func() error{
		func() error { return enc.WriteBytes(m.Escrow.Bytes(), false) },
		func() error { return enc.WriteBytes(m.Claimant.Bytes(), false) },
		func() error { return enc.WriteBytes(m.Secret, true) },
		func() error { return enc.WriteBytes(m.Mint.Bytes(), false) },
	})
}

// RefundMsg returns an expired escrow to its holder. Anyone may submit it.
type RefundMsg struct {
	Escrow custody.Address
	Secret []byte
	Mint   custody.Address
}

func (RefundMsg) Path() string {
	return pathRefund
}

func (m RefundMsg) Validate() error {
	if err := custody.ValidateAddress(m.Escrow); err != nil {
		return errors.Wrap(err, "escrow")
	}
	return validateSecret(m.Secret)
}

// Marshal returns the canonical binary form used for signing.
func (m RefundMsg) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	return marshal(&buf, []func() error{
		func() error { return enc.WriteBytes(m.Escrow.Bytes(), false) },
		func() error { return enc.WriteBytes(m.Secret, true) },
		func() error { return enc.WriteBytes(m.Mint.Bytes(), false) },
	})
}

func validateSecret(secret []byte) error {
	if len(secret) == 0 {
		return errors.Wrap(errors.ErrEmpty, "secret")
	}
	if len(secret) > maxSecretSize {
		return errors.Wrapf(errors.ErrInput, "secret longer than %d bytes", maxSecretSize)
	}
	return nil
}

func marshal(buf *bytes.Buffer, writes []func() error) ([]byte, error) {
	for _, write := range writes {
		if err := write(); err != nil {
			return nil, errors.Wrap(errors.ErrMsg, err.Error())
		}
	}
	return buf.Bytes(), nil
}
