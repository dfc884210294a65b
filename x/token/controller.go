package token

import (
	spl "github.com/gagliardetto/solana-go/programs/token"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
)

// Controller is the token ledger used by the escrow token adapter and by the
// genesis loader.
//
// Controller methods do not authenticate. Whoever calls a method passing an
// owner or authority address vouches that this address authorized the
// operation.
type Controller interface {
	// CreateMint initializes a new token kind under given address.
	CreateMint(db custody.KVStore, mint, authority custody.Address, decimals uint8) error
	// Mint returns the mint stored under given address.
	Mint(db custody.ReadOnlyKVStore, mint custody.Address) (*Mint, error)
	// MintTo issues new tokens into given token account.
	MintTo(db custody.KVStore, mint, dest, authority custody.Address, amount uint64) error
	// CreateAccount creates the associated token account of owner for
	// mint, taking the storage deposit from payer.
	CreateAccount(db custody.KVStore, payer, owner, mint custody.Address, rent uint64) (custody.Address, error)
	// Account returns the token account stored under given address.
	Account(db custody.ReadOnlyKVStore, addr custody.Address) (*Account, error)
	// Balance returns the token amount of given account.
	Balance(db custody.ReadOnlyKVStore, addr custody.Address) (uint64, error)
	// TransferChecked moves tokens between two accounts of the same mint,
	// verifying the mint and its decimal precision.
	TransferChecked(db custody.KVStore, src, mint, dest, owner custody.Address, amount uint64, decimals uint8) error
	// Close removes an empty token account and releases its deposit.
	Close(db custody.KVStore, acct, dest, owner custody.Address) error
}

// BaseController keeps mints and accounts in buckets and deposits on the
// native ledger.
type BaseController struct {
	mints    MintBucket
	accounts AccountBucket
	cash     cash.Controller
}

var _ Controller = BaseController{}

// NewController returns a token ledger moving deposits with given native
// ledger.
func NewController(cashctrl cash.Controller) BaseController {
	return BaseController{
		mints:    NewMintBucket(),
		accounts: NewAccountBucket(),
		cash:     cashctrl,
	}
}

// CreateMint initializes a new token kind under given address.
func (c BaseController) CreateMint(db custody.KVStore, mint, authority custody.Address, decimals uint8) error {
	if err := custody.ValidateAddress(mint); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := custody.ValidateAddress(authority); err != nil {
		return errors.Wrap(err, "authority")
	}
	m := &Mint{Mint: spl.Mint{
		MintAuthority: &authority,
		Decimals:      decimals,
		IsInitialized: true,
	}}
	return c.mints.Create(db, mint.Bytes(), m)
}

// Mint returns the mint stored under given address.
func (c BaseController) Mint(db custody.ReadOnlyKVStore, mint custody.Address) (*Mint, error) {
	return c.mints.GetMint(db, mint)
}

// MintTo issues new tokens into given token account.
func (c BaseController) MintTo(db custody.KVStore, mint, dest, authority custody.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero value")
	}
	m, err := c.mints.GetMint(db, mint)
	if err != nil {
		return err
	}
	if m.MintAuthority == nil || !m.MintAuthority.Equals(authority) {
		return errors.Wrap(errors.ErrUnauthorized, "mint authority")
	}
	acct, err := c.accounts.GetAccount(db, dest)
	if err != nil {
		return err
	}
	if !acct.Mint.Equals(mint) {
		return errors.Wrapf(errors.ErrAssetMismatch, "account of mint %s", acct.Mint)
	}
	if m.Supply+amount < m.Supply || acct.Amount+amount < acct.Amount {
		return errors.Wrap(errors.ErrOverflow, "supply")
	}
	m.Supply += amount
	acct.Amount += amount
	if err := c.mints.Put(db, mint.Bytes(), m); err != nil {
		return err
	}
	return c.accounts.Put(db, dest.Bytes(), acct)
}

// CreateAccount creates the associated token account of owner for mint. The
// payer funds the storage deposit. Creating an account that already exists
// fails with ErrDuplicate.
func (c BaseController) CreateAccount(db custody.KVStore, payer, owner, mint custody.Address, rent uint64) (custody.Address, error) {
	if err := custody.ValidateAddress(owner); err != nil {
		return custody.Address{}, errors.Wrap(err, "owner")
	}
	if _, err := c.mints.GetMint(db, mint); err != nil {
		return custody.Address{}, err
	}
	addr, err := AssociatedAddress(owner, mint)
	if err != nil {
		return custody.Address{}, err
	}
	acct := &Account{Account: spl.Account{
		Mint:  mint,
		Owner: owner,
		State: spl.Initialized,
	}}
	if err := c.accounts.Create(db, addr.Bytes(), acct); err != nil {
		return custody.Address{}, err
	}
	if rent > 0 {
		if err := c.cash.MoveCoins(db, payer, addr, rent); err != nil {
			return custody.Address{}, errors.Wrap(err, "token account deposit")
		}
	}
	return addr, nil
}

// Account returns the token account stored under given address.
func (c BaseController) Account(db custody.ReadOnlyKVStore, addr custody.Address) (*Account, error) {
	return c.accounts.GetAccount(db, addr)
}

// Balance returns the token amount of given account.
func (c BaseController) Balance(db custody.ReadOnlyKVStore, addr custody.Address) (uint64, error) {
	acct, err := c.accounts.GetAccount(db, addr)
	if err != nil {
		return 0, err
	}
	return acct.Amount, nil
}

// TransferChecked moves tokens between two accounts of the same mint. Both
// accounts must exist and hold tokens of given mint, and decimals must match
// the mint precision.
func (c BaseController) TransferChecked(db custody.KVStore, src, mint, dest, owner custody.Address, amount uint64, decimals uint8) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero value")
	}
	m, err := c.mints.GetMint(db, mint)
	if err != nil {
		return err
	}
	if m.Decimals != decimals {
		return errors.Wrapf(errors.ErrAssetMismatch, "mint has %d decimals, got %d", m.Decimals, decimals)
	}
	from, err := c.accounts.GetAccount(db, src)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	to, err := c.accounts.GetAccount(db, dest)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !from.Mint.Equals(mint) {
		return errors.Wrapf(errors.ErrAssetMismatch, "source account of mint %s", from.Mint)
	}
	if !to.Mint.Equals(mint) {
		return errors.Wrapf(errors.ErrAssetMismatch, "destination account of mint %s", to.Mint)
	}
	if from.State == spl.Frozen || to.State == spl.Frozen {
		return errors.Wrap(errors.ErrState, "account frozen")
	}
	if !from.Owner.Equals(owner) {
		return errors.Wrap(errors.ErrUnauthorized, "source account owner")
	}
	if from.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%d available, %d required", from.Amount, amount)
	}
	if src.Equals(dest) {
		return nil
	}
	if to.Amount+amount < to.Amount {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}
	from.Amount -= amount
	to.Amount += amount
	if err := c.accounts.Put(db, src.Bytes(), from); err != nil {
		return err
	}
	return c.accounts.Put(db, dest.Bytes(), to)
}

// Close removes a token account. Only an account without tokens can be
// closed. All lamports held by the account are moved to dest.
func (c BaseController) Close(db custody.KVStore, acct, dest, owner custody.Address) error {
	a, err := c.accounts.GetAccount(db, acct)
	if err != nil {
		return err
	}
	authority := a.Owner
	if a.CloseAuthority != nil {
		authority = *a.CloseAuthority
	}
	if !authority.Equals(owner) {
		return errors.Wrap(errors.ErrUnauthorized, "close authority")
	}
	if a.Amount != 0 {
		return errors.Wrapf(errors.ErrState, "account holds %d tokens", a.Amount)
	}
	if _, err := c.cash.Drain(db, acct, dest); err != nil {
		return errors.Wrap(err, "release deposit")
	}
	return c.accounts.Delete(db, acct.Bytes())
}
