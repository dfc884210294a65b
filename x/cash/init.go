package cash

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file.
// Addresses are base58 encoded.
type GenesisAccount struct {
	Address  custody.Address `json:"address"`
	Lamports uint64          `json:"lamports"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts custody.Options, kv custody.KVStore) error {
	accts := []GenesisAccount{}
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrapf(errors.ErrInput, "cash genesis: %s", err)
	}
	controller := NewController(NewBucket())
	for _, acct := range accts {
		if err := custody.ValidateAddress(acct.Address); err != nil {
			return errors.Wrap(err, "genesis account")
		}
		if acct.Lamports == 0 {
			continue
		}
		if err := controller.IssueCoins(kv, acct.Address, acct.Lamports); err != nil {
			return errors.Wrapf(err, "genesis account %s", acct.Address)
		}
	}
	return nil
}
