package htlc

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/token"
)

// Adapter moves one kind of asset in and out of escrow vaults. Both
// variants report failures using the same error kinds.
type Adapter interface {
	// Vault returns the address holding the escrowed value.
	Vault(auth Authority) (custody.Address, error)
	// Lock moves amount from payer into the vault, creating the vault
	// when the asset requires it.
	Lock(db custody.KVStore, auth Authority, payer custody.Address, amount uint64) error
	// Release moves amount from the vault to the account of dest.
	Release(db custody.KVStore, auth Authority, dest custody.Address, amount uint64) error
	// Teardown removes the vault. Whatever the vault still holds,
	// including its storage deposit, goes to refundTo.
	Teardown(db custody.KVStore, auth Authority, refundTo custody.Address) error
	// Held returns the value currently held by the vault.
	Held(db custody.ReadOnlyKVStore, auth Authority) (uint64, error)
}

// NativeAdapter keeps the escrowed value on the native ledger.
type NativeAdapter struct {
	cash cash.Controller
}

var _ Adapter = NativeAdapter{}

// NewNativeAdapter returns an adapter for native value.
func NewNativeAdapter(ctrl cash.Controller) NativeAdapter {
	return NativeAdapter{cash: ctrl}
}

func (a NativeAdapter) Vault(auth Authority) (custody.Address, error) {
	if err := auth.validate(); err != nil {
		return custody.Address{}, err
	}
	return NativeVault(auth.program, auth.escrow)
}

func (a NativeAdapter) Lock(db custody.KVStore, auth Authority, payer custody.Address, amount uint64) error {
	vault, err := a.Vault(auth)
	if err != nil {
		return err
	}
	// Value already sent to the vault address stays there and returns to
	// the holder on teardown.
	return a.cash.MoveCoins(db, payer, vault, amount)
}

func (a NativeAdapter) Release(db custody.KVStore, auth Authority, dest custody.Address, amount uint64) error {
	vault, err := a.Vault(auth)
	if err != nil {
		return err
	}
	return a.cash.MoveCoins(db, vault, dest, amount)
}

func (a NativeAdapter) Teardown(db custody.KVStore, auth Authority, refundTo custody.Address) error {
	vault, err := a.Vault(auth)
	if err != nil {
		return err
	}
	_, err = a.cash.Drain(db, vault, refundTo)
	return err
}

func (a NativeAdapter) Held(db custody.ReadOnlyKVStore, auth Authority) (uint64, error) {
	vault, err := a.Vault(auth)
	if err != nil {
		return 0, err
	}
	return a.cash.Balance(db, vault)
}

// TokenAdapter keeps the escrowed tokens of a single mint on the associated
// token account of the escrow record.
type TokenAdapter struct {
	tokens   token.Controller
	mint     custody.Address
	decimals uint8
	// rent is the deposit of a newly created token account.
	rent uint64
}

var _ Adapter = TokenAdapter{}

// NewTokenAdapter returns an adapter for tokens of given mint. Every token
// movement is checked against decimals. Token accounts created by the
// adapter are funded with rent lamports.
func NewTokenAdapter(tokens token.Controller, mint custody.Address, decimals uint8, rent uint64) TokenAdapter {
	return TokenAdapter{
		tokens:   tokens,
		mint:     mint,
		decimals: decimals,
		rent:     rent,
	}
}

func (a TokenAdapter) Vault(auth Authority) (custody.Address, error) {
	if err := auth.validate(); err != nil {
		return custody.Address{}, err
	}
	return token.AssociatedAddress(auth.escrow, a.mint)
}

// Lock creates the vault token account, paid by payer, and transfers amount
// from the associated token account of payer.
func (a TokenAdapter) Lock(db custody.KVStore, auth Authority, payer custody.Address, amount uint64) error {
	if err := auth.validate(); err != nil {
		return err
	}
	vault, err := a.tokens.CreateAccount(db, payer, auth.escrow, a.mint, a.rent)
	if err != nil {
		return errors.Wrap(err, "vault")
	}
	src, err := token.AssociatedAddress(payer, a.mint)
	if err != nil {
		return err
	}
	return a.tokens.TransferChecked(db, src, a.mint, vault, payer, amount, a.decimals)
}

// Release transfers amount to the associated token account of dest. A
// missing destination account is created first, at the expense of dest.
func (a TokenAdapter) Release(db custody.KVStore, auth Authority, dest custody.Address, amount uint64) error {
	vault, err := a.Vault(auth)
	if err != nil {
		return err
	}
	to, err := token.AssociatedAddress(dest, a.mint)
	if err != nil {
		return err
	}
	switch _, err := a.tokens.Account(db, to); {
	case errors.ErrNotFound.Is(err):
		if _, err := a.tokens.CreateAccount(db, dest, dest, a.mint, a.rent); err != nil {
			return errors.Wrap(err, "destination token account")
		}
	case err != nil:
		return err
	}
	return a.tokens.TransferChecked(db, vault, a.mint, to, auth.escrow, amount, a.decimals)
}

// Teardown closes the vault token account.
func (a TokenAdapter) Teardown(db custody.KVStore, auth Authority, refundTo custody.Address) error {
	vault, err := a.Vault(auth)
	if err != nil {
		return err
	}
	return a.tokens.Close(db, vault, refundTo, auth.escrow)
}

func (a TokenAdapter) Held(db custody.ReadOnlyKVStore, auth Authority) (uint64, error) {
	vault, err := a.Vault(auth)
	if err != nil {
		return 0, err
	}
	return a.tokens.Balance(db, vault)
}
