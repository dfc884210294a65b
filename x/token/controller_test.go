package token

import (
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db        custody.KVStore
	cash      cash.BaseController
	ctrl      BaseController
	mint      custody.Address
	authority custody.Address
}

func newFixture(t testing.TB) fixture {
	t.Helper()
	f := fixture{
		db:        store.MemStore(),
		cash:      cash.NewController(cash.NewBucket()),
		mint:      custodytest.NewAddress(),
		authority: custodytest.NewAddress(),
	}
	f.ctrl = NewController(f.cash)
	require.NoError(t, f.ctrl.CreateMint(f.db, f.mint, f.authority, 6))
	return f
}

func (f fixture) account(t testing.TB, owner custody.Address, amount uint64) custody.Address {
	t.Helper()
	addr, err := f.ctrl.CreateAccount(f.db, custody.Address{}, owner, f.mint, 0)
	require.NoError(t, err)
	if amount > 0 {
		require.NoError(t, f.ctrl.MintTo(f.db, f.mint, addr, f.authority, amount))
	}
	return addr
}

func TestCreateMint(t *testing.T) {
	f := newFixture(t)

	m, err := f.ctrl.Mint(f.db, f.mint)
	require.NoError(t, err)
	assert.Equal(t, uint8(6), m.Decimals)
	assert.Equal(t, uint64(0), m.Supply)
	require.NotNil(t, m.MintAuthority)
	assert.True(t, m.MintAuthority.Equals(f.authority))

	err = f.ctrl.CreateMint(f.db, f.mint, f.authority, 2)
	assert.True(t, errors.ErrDuplicate.Is(err), "%+v", err)

	_, err = f.ctrl.Mint(f.db, custodytest.NewAddress())
	assert.True(t, errors.ErrNotFound.Is(err), "%+v", err)
}

func TestCreateAccount(t *testing.T) {
	f := newFixture(t)
	payer := custodytest.NewAddress()
	owner := custodytest.NewAddress()
	require.NoError(t, f.cash.IssueCoins(f.db, payer, 5000))

	addr, err := f.ctrl.CreateAccount(f.db, payer, owner, f.mint, 2039)
	require.NoError(t, err)
	want, err := AssociatedAddress(owner, f.mint)
	require.NoError(t, err)
	assert.Equal(t, want, addr)

	acct, err := f.ctrl.Account(f.db, addr)
	require.NoError(t, err)
	assert.True(t, acct.Owner.Equals(owner))
	assert.True(t, acct.Mint.Equals(f.mint))
	assert.Equal(t, uint64(0), acct.Amount)

	deposit, err := f.cash.Balance(f.db, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(2039), deposit)
	left, err := f.cash.Balance(f.db, payer)
	require.NoError(t, err)
	assert.Equal(t, uint64(5000-2039), left)

	_, err = f.ctrl.CreateAccount(f.db, payer, owner, f.mint, 2039)
	assert.True(t, errors.ErrDuplicate.Is(err), "%+v", err)

	_, err = f.ctrl.CreateAccount(f.db, payer, owner, custodytest.NewAddress(), 0)
	assert.True(t, errors.ErrNotFound.Is(err), "%+v", err)

	poor := custodytest.NewAddress()
	_, err = f.ctrl.CreateAccount(f.db, poor, custodytest.NewAddress(), f.mint, 2039)
	assert.True(t, errors.ErrInsufficientAmount.Is(err), "%+v", err)
}

func TestMintTo(t *testing.T) {
	f := newFixture(t)
	acct := f.account(t, custodytest.NewAddress(), 0)

	err := f.ctrl.MintTo(f.db, f.mint, acct, custodytest.NewAddress(), 10)
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)
	err = f.ctrl.MintTo(f.db, f.mint, acct, f.authority, 0)
	assert.True(t, errors.ErrAmount.Is(err), "%+v", err)

	require.NoError(t, f.ctrl.MintTo(f.db, f.mint, acct, f.authority, 10))
	require.NoError(t, f.ctrl.MintTo(f.db, f.mint, acct, f.authority, 5))

	bal, err := f.ctrl.Balance(f.db, acct)
	require.NoError(t, err)
	assert.Equal(t, uint64(15), bal)
	m, err := f.ctrl.Mint(f.db, f.mint)
	require.NoError(t, err)
	assert.Equal(t, uint64(15), m.Supply)
}

func TestTransferChecked(t *testing.T) {
	owner := custodytest.NewAddress()

	cases := map[string]struct {
		owner     custody.Address
		amount    uint64
		decimals  uint8
		otherMint bool
		wantErr   *errors.Error
		wantSrc   uint64
		wantDest  uint64
	}{
		"transfer part": {
			owner:    owner,
			amount:   40,
			decimals: 6,
			wantSrc:  60,
			wantDest: 40,
		},
		"transfer all": {
			owner:    owner,
			amount:   100,
			decimals: 6,
			wantSrc:  0,
			wantDest: 100,
		},
		"insufficient": {
			owner:    owner,
			amount:   101,
			decimals: 6,
			wantErr:  errors.ErrInsufficientAmount,
			wantSrc:  100,
		},
		"wrong decimals": {
			owner:    owner,
			amount:   1,
			decimals: 9,
			wantErr:  errors.ErrAssetMismatch,
			wantSrc:  100,
		},
		"not the owner": {
			owner:    custodytest.NewAddress(),
			amount:   1,
			decimals: 6,
			wantErr:  errors.ErrUnauthorized,
			wantSrc:  100,
		},
		"destination of another mint": {
			owner:     owner,
			amount:    1,
			decimals:  6,
			otherMint: true,
			wantErr:   errors.ErrAssetMismatch,
			wantSrc:   100,
		},
		"zero": {
			owner:    owner,
			decimals: 6,
			wantErr:  errors.ErrAmount,
			wantSrc:  100,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			src := f.account(t, owner, 100)

			var dest custody.Address
			if tc.otherMint {
				other := custodytest.NewAddress()
				require.NoError(t, f.ctrl.CreateMint(f.db, other, f.authority, 6))
				var err error
				dest, err = f.ctrl.CreateAccount(f.db, custody.Address{}, custodytest.NewAddress(), other, 0)
				require.NoError(t, err)
			} else {
				dest = f.account(t, custodytest.NewAddress(), 0)
			}

			err := f.ctrl.TransferChecked(f.db, src, f.mint, dest, tc.owner, tc.amount, tc.decimals)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "%+v", err)
			} else {
				require.NoError(t, err)
			}

			bal, err := f.ctrl.Balance(f.db, src)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSrc, bal)
			bal, err = f.ctrl.Balance(f.db, dest)
			require.NoError(t, err)
			assert.Equal(t, tc.wantDest, bal)
		})
	}
}

func TestClose(t *testing.T) {
	f := newFixture(t)
	payer := custodytest.NewAddress()
	owner := custodytest.NewAddress()
	dest := custodytest.NewAddress()
	require.NoError(t, f.cash.IssueCoins(f.db, payer, 3000))

	acct, err := f.ctrl.CreateAccount(f.db, payer, owner, f.mint, 2039)
	require.NoError(t, err)
	require.NoError(t, f.ctrl.MintTo(f.db, f.mint, acct, f.authority, 1))

	err = f.ctrl.Close(f.db, acct, dest, custodytest.NewAddress())
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)
	err = f.ctrl.Close(f.db, acct, dest, owner)
	assert.True(t, errors.ErrState.Is(err), "%+v", err)

	other := f.account(t, custodytest.NewAddress(), 0)
	require.NoError(t, f.ctrl.TransferChecked(f.db, acct, f.mint, other, owner, 1, 6))
	require.NoError(t, f.ctrl.Close(f.db, acct, dest, owner))

	_, err = f.ctrl.Account(f.db, acct)
	assert.True(t, errors.ErrNotFound.Is(err), "%+v", err)
	got, err := f.cash.Balance(f.db, dest)
	require.NoError(t, err)
	assert.Equal(t, uint64(2039), got)
	got, err = f.cash.Balance(f.db, acct)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got)

	err = f.ctrl.Close(f.db, acct, dest, owner)
	assert.True(t, errors.ErrNotFound.Is(err), "%+v", err)
}

func TestModelSerialization(t *testing.T) {
	f := newFixture(t)
	owner := custodytest.NewAddress()
	addr := f.account(t, owner, 77)

	raw, err := f.db.Get(append([]byte(AccountBucketName+":"), addr.Bytes()...))
	require.NoError(t, err)
	// SPL token account layout.
	assert.Equal(t, 165, len(raw))

	var a Account
	require.NoError(t, a.Unmarshal(raw))
	assert.Equal(t, uint64(77), a.Amount)
	assert.True(t, a.Owner.Equals(owner))

	raw, err = f.db.Get(append([]byte(MintBucketName+":"), f.mint.Bytes()...))
	require.NoError(t, err)
	// SPL mint layout.
	assert.Equal(t, 82, len(raw))
}
