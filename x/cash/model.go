package cash

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet is the native balance of a single address.
type Wallet struct {
	Lamports uint64
}

var _ orm.Model = (*Wallet)(nil)

// Validate is always successful, any balance is a valid state.
func (w *Wallet) Validate() error {
	return nil
}

// Copy makes a new wallet with the same balance
func (w *Wallet) Copy() orm.CloneableData {
	return &Wallet{Lamports: w.Lamports}
}

// Marshal serializes the balance as a little endian uint64.
func (w *Wallet) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := bin.NewBorshEncoder(&buf).WriteUint64(w.Lamports, bin.LE); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal loads the balance serialized with Marshal.
func (w *Wallet) Unmarshal(raw []byte) error {
	if len(raw) != 8 {
		return errors.Wrapf(errors.ErrState, "wallet must be 8 bytes, got %d", len(raw))
	}
	n, err := bin.NewBorshDecoder(raw).ReadUint64(bin.LE)
	if err != nil {
		return errors.Wrap(errors.ErrState, err.Error())
	}
	w.Lamports = n
	return nil
}

// Bucket is a type-safe wrapper around orm.ModelBucket, keyed by the
// owner address.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket initializes a cash.Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &Wallet{}),
	}
}

// GetWallet returns the wallet of given address or nil if none exists.
func (b Bucket) GetWallet(db custody.ReadOnlyKVStore, addr custody.Address) (*Wallet, error) {
	var w Wallet
	switch err := b.One(db, addr.Bytes(), &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

// GetOrCreate returns the wallet of given address or an empty one.
func (b Bucket) GetOrCreate(db custody.ReadOnlyKVStore, addr custody.Address) (*Wallet, error) {
	w, err := b.GetWallet(db, addr)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = &Wallet{}
	}
	return w, nil
}

// Save writes the wallet of given address.
func (b Bucket) Save(db custody.KVStore, addr custody.Address, w *Wallet) error {
	return b.Put(db, addr.Bytes(), w)
}
