package token

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	spl "github.com/gagliardetto/solana-go/programs/token"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

const (
	// MintBucketName is where the mints are stored.
	MintBucketName = "mint"
	// AccountBucketName is where the token accounts are stored.
	AccountBucketName = "tokacct"
)

// AssociatedAddress returns the canonical token account address of given
// owner for given mint. The owner may be a program derived address.
func AssociatedAddress(owner, mint custody.Address) (custody.Address, error) {
	addr, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return custody.Address{}, errors.Wrapf(errors.ErrInput, "associated address: %s", err)
	}
	return addr, nil
}

// Mint describes a token kind.
type Mint struct {
	spl.Mint
}

var _ orm.Model = (*Mint)(nil)

// Validate ensures the mint was initialized.
func (m *Mint) Validate() error {
	if !m.IsInitialized {
		return errors.Wrap(errors.ErrModel, "mint not initialized")
	}
	return nil
}

// Copy returns a deep copy of the mint.
func (m *Mint) Copy() orm.CloneableData {
	cp := &Mint{Mint: m.Mint}
	cp.MintAuthority = copyAddress(m.MintAuthority)
	cp.FreezeAuthority = copyAddress(m.FreezeAuthority)
	return cp
}

// Marshal serializes the mint using the SPL layout.
func (m *Mint) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := bin.NewBinEncoder(&buf).Encode(&m.Mint); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "mint: %s", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal loads a mint stored with the SPL layout.
func (m *Mint) Unmarshal(raw []byte) error {
	var v spl.Mint
	if err := bin.NewBinDecoder(raw).Decode(&v); err != nil {
		return errors.Wrapf(errors.ErrState, "mint: %s", err)
	}
	m.Mint = v
	return nil
}

// Account is a token balance of one owner for one mint.
type Account struct {
	spl.Account
}

var _ orm.Model = (*Account)(nil)

// Validate ensures the account is usable.
func (a *Account) Validate() error {
	if a.State == spl.Uninitialized {
		return errors.Wrap(errors.ErrModel, "account not initialized")
	}
	if err := custody.ValidateAddress(a.Mint); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := custody.ValidateAddress(a.Owner); err != nil {
		return errors.Wrap(err, "owner")
	}
	return nil
}

// Copy returns a deep copy of the account.
func (a *Account) Copy() orm.CloneableData {
	cp := &Account{Account: a.Account}
	cp.Delegate = copyAddress(a.Delegate)
	cp.CloseAuthority = copyAddress(a.CloseAuthority)
	if a.IsNative != nil {
		n := *a.IsNative
		cp.IsNative = &n
	}
	return cp
}

// Marshal serializes the account using the SPL layout.
func (a *Account) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := bin.NewBinEncoder(&buf).Encode(&a.Account); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "account: %s", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal loads an account stored with the SPL layout.
func (a *Account) Unmarshal(raw []byte) error {
	var v spl.Account
	if err := bin.NewBinDecoder(raw).Decode(&v); err != nil {
		return errors.Wrapf(errors.ErrState, "account: %s", err)
	}
	a.Account = v
	return nil
}

func copyAddress(a *solana.PublicKey) *solana.PublicKey {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

// MintBucket stores mints by their address.
type MintBucket struct {
	orm.ModelBucket
}

// NewMintBucket returns a bucket for mints.
func NewMintBucket() MintBucket {
	return MintBucket{ModelBucket: orm.NewModelBucket(MintBucketName, &Mint{})}
}

// GetMint returns the mint stored under given address or ErrNotFound.
func (b MintBucket) GetMint(db custody.ReadOnlyKVStore, addr custody.Address) (*Mint, error) {
	var m Mint
	if err := b.One(db, addr.Bytes(), &m); err != nil {
		return nil, errors.Wrapf(err, "mint %s", addr)
	}
	return &m, nil
}

// AccountBucket stores token accounts by their address.
type AccountBucket struct {
	orm.ModelBucket
}

// NewAccountBucket returns a bucket for token accounts.
func NewAccountBucket() AccountBucket {
	return AccountBucket{ModelBucket: orm.NewModelBucket(AccountBucketName, &Account{})}
}

// GetAccount returns the account stored under given address or ErrNotFound.
func (b AccountBucket) GetAccount(db custody.ReadOnlyKVStore, addr custody.Address) (*Account, error) {
	var a Account
	if err := b.One(db, addr.Bytes(), &a); err != nil {
		return nil, errors.Wrapf(err, "token account %s", addr)
	}
	return &a, nil
}
