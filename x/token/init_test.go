package token

import (
	"fmt"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesis(t *testing.T) {
	mint := custodytest.NewAddress()
	authority := custodytest.NewAddress()
	owner := custodytest.NewAddress()

	raw := fmt.Sprintf(`{
		"mints": [{"address": %q, "authority": %q, "decimals": 2}],
		"accounts": [{"owner": %q, "mint": %q, "amount": 500}]
	}`, mint, authority, owner, mint)

	db := store.MemStore()
	err := Initializer{}.FromGenesis(custody.Options{"token": []byte(raw)}, db)
	require.NoError(t, err)

	ctrl := NewController(cash.NewController(cash.NewBucket()))
	addr, err := AssociatedAddress(owner, mint)
	require.NoError(t, err)
	bal, err := ctrl.Balance(db, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), bal)

	m, err := ctrl.Mint(db, mint)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), m.Supply)
	assert.Equal(t, uint8(2), m.Decimals)
}

func TestGenesisErrors(t *testing.T) {
	mint := custodytest.NewAddress()

	cases := map[string]struct {
		raw     string
		wantErr *errors.Error
	}{
		"malformed": {
			raw:     `{"mints": 7}`,
			wantErr: errors.ErrInput,
		},
		"account of unknown mint": {
			raw:     fmt.Sprintf(`{"accounts": [{"owner": %q, "mint": %q, "amount": 1}]}`, custodytest.NewAddress(), mint),
			wantErr: errors.ErrNotFound,
		},
		"mint without authority": {
			raw:     fmt.Sprintf(`{"mints": [{"address": %q}]}`, mint),
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := Initializer{}.FromGenesis(custody.Options{"token": []byte(tc.raw)}, store.MemStore())
			assert.True(t, tc.wantErr.Is(err), "%+v", err)
		})
	}
}
