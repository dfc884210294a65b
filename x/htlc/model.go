package htlc

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// BucketName is where the escrow records are stored.
const BucketName = "htlc"

const (
	nativeRecordSize = 32 + 8 + 8 + 1 + CommitmentSize + 1
	tokenRecordSize  = nativeRecordSize + 32
)

// Escrow is the record of a single locked transfer.
type Escrow struct {
	// Holder funded the escrow and receives the refund.
	Holder custody.Address
	// Amount is the locked value. It never changes.
	Amount uint64
	// Expiration is the time after which the escrow can be refunded.
	Expiration custody.UnixTime
	Redeemed   bool
	// Mint of the locked token or nil for native value.
	Mint       *custody.Address
	Commitment Commitment
	// Nonce completes the derivation of the record address.
	Nonce uint8
}

var _ orm.Model = (*Escrow)(nil)

// Validate ensures the escrow record is sensible.
func (e *Escrow) Validate() error {
	if err := custody.ValidateAddress(e.Holder); err != nil {
		return errors.Wrap(err, "holder")
	}
	if e.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "amount")
	}
	if e.Expiration == 0 {
		return errors.Wrap(errors.ErrInput, "expiration is required")
	}
	if e.Mint != nil {
		if err := custody.ValidateAddress(*e.Mint); err != nil {
			return errors.Wrap(err, "mint")
		}
	}
	if e.Commitment.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "commitment")
	}
	return nil
}

// Copy makes a new escrow with the same content.
func (e *Escrow) Copy() orm.CloneableData {
	cp := *e
	if e.Mint != nil {
		m := *e.Mint
		cp.Mint = &m
	}
	return &cp
}

// IsToken returns true if the escrow locks tokens rather than native value.
func (e *Escrow) IsToken() bool {
	return e.Mint != nil
}

// Marshal serializes the record as
//
//	holder(32) amount(8) expiration(8) redeemed(1) [mint(32)] commitment(32) nonce(1)
//
// with integers in little endian. The mint is present for token escrows only.
func (e *Escrow) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	writes := []func() error{
		func() error { return enc.WriteBytes(e.Holder.Bytes(), false) },
		func() error { return enc.WriteUint64(e.Amount, bin.LE) },
		func() error { return enc.WriteInt64(int64(e.Expiration), bin.LE) },
		func() error { return enc.WriteBool(e.Redeemed) },
	}
	if e.Mint != nil {
		writes = append(writes, func() error { return enc.WriteBytes(e.Mint.Bytes(), false) })
	}
	writes = append(writes,
		func() error { return enc.WriteBytes(e.Commitment[:], false) },
		func() error { return enc.WriteUint8(e.Nonce) },
	)
	for _, write := range writes {
		if err := write(); err != nil {
			return nil, errors.Wrapf(errors.ErrModel, "escrow: %s", err)
		}
	}
	return buf.Bytes(), nil
}

// Unmarshal loads a record serialized with Marshal. The asset kind is
// recognized by the record length.
func (e *Escrow) Unmarshal(raw []byte) error {
	if len(raw) != nativeRecordSize && len(raw) != tokenRecordSize {
		return errors.Wrapf(errors.ErrState, "escrow record of %d bytes", len(raw))
	}
	dec := bin.NewBorshDecoder(raw)
	var (
		res Escrow
		err error
	)
	if res.Holder, err = readAddress(dec); err != nil {
		return err
	}
	if res.Amount, err = dec.ReadUint64(bin.LE); err != nil {
		return errors.Wrapf(errors.ErrState, "amount: %s", err)
	}
	exp, err := dec.ReadInt64(bin.LE)
	if err != nil {
		return errors.Wrapf(errors.ErrState, "expiration: %s", err)
	}
	res.Expiration = custody.UnixTime(exp)
	if res.Redeemed, err = dec.ReadBool(); err != nil {
		return errors.Wrapf(errors.ErrState, "redeemed: %s", err)
	}
	if len(raw) == tokenRecordSize {
		mint, err := readAddress(dec)
		if err != nil {
			return err
		}
		res.Mint = &mint
	}
	commitment, err := dec.ReadNBytes(CommitmentSize)
	if err != nil {
		return errors.Wrapf(errors.ErrState, "commitment: %s", err)
	}
	copy(res.Commitment[:], commitment)
	if res.Nonce, err = dec.ReadUint8(); err != nil {
		return errors.Wrapf(errors.ErrState, "nonce: %s", err)
	}
	*e = res
	return nil
}

func readAddress(dec *bin.Decoder) (custody.Address, error) {
	raw, err := dec.ReadNBytes(32)
	if err != nil {
		return custody.Address{}, errors.Wrapf(errors.ErrState, "address: %s", err)
	}
	return custody.Address(raw), nil
}

// Bucket stores escrow records by their derived address.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket returns a bucket for escrow records.
func NewBucket() Bucket {
	return Bucket{ModelBucket: orm.NewModelBucket(BucketName, &Escrow{})}
}

// GetEscrow returns the record stored under given address. ErrNotFound is
// returned when there is no such escrow, including one already settled.
func (b Bucket) GetEscrow(db custody.ReadOnlyKVStore, key custody.Address) (*Escrow, error) {
	var e Escrow
	if err := b.One(db, key.Bytes(), &e); err != nil {
		return nil, errors.Wrapf(err, "escrow %s", key)
	}
	return &e, nil
}
