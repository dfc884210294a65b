package token

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
)

const optKey = "token"

// GenesisMint declares a token kind.
type GenesisMint struct {
	Address   custody.Address `json:"address"`
	Authority custody.Address `json:"authority"`
	Decimals  uint8           `json:"decimals"`
}

// GenesisAccount declares an initial token balance, kept on the associated
// token account of the owner.
type GenesisAccount struct {
	Owner  custody.Address `json:"owner"`
	Mint   custody.Address `json:"mint"`
	Amount uint64          `json:"amount"`
}

// Genesis is the state of the token ledger declared in the genesis file.
type Genesis struct {
	Mints    []GenesisMint    `json:"mints"`
	Accounts []GenesisAccount `json:"accounts"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis creates all declared mints and accounts. Genesis accounts do
// not carry a storage deposit.
func (Initializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return errors.Wrapf(errors.ErrInput, "token genesis: %s", err)
	}
	ctrl := NewController(cash.NewController(cash.NewBucket()))
	for _, m := range gen.Mints {
		if err := ctrl.CreateMint(db, m.Address, m.Authority, m.Decimals); err != nil {
			return errors.Wrapf(err, "genesis mint %s", m.Address)
		}
	}
	for _, a := range gen.Accounts {
		mint, err := ctrl.Mint(db, a.Mint)
		if err != nil {
			return errors.Wrap(err, "genesis account")
		}
		addr, err := ctrl.CreateAccount(db, custody.Address{}, a.Owner, a.Mint, 0)
		if err != nil {
			return errors.Wrapf(err, "genesis account of %s", a.Owner)
		}
		if a.Amount == 0 {
			continue
		}
		if err := ctrl.MintTo(db, a.Mint, addr, *mint.MintAuthority, a.Amount); err != nil {
			return errors.Wrapf(err, "genesis account of %s", a.Owner)
		}
	}
	return nil
}
