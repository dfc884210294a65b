package app

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/htlc"
	"github.com/iov-one/custody/x/sigs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxSignBytes(t *testing.T) {
	msg := &cash.SendMsg{Source: custodytest.NewAddress(), Destination: custodytest.NewAddress(), Amount: 5}
	tx := NewTx(msg)

	raw, err := tx.GetSignBytes()
	require.NoError(t, err)
	body, err := msg.Marshal()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("cash/send\x00")))
	assert.Equal(t, body, raw[len("cash/send\x00"):])

	// Signatures are not part of the signed content.
	require.NoError(t, tx.Sign(custodytest.NewKey(), "test-chain", 0))
	raw2, err := tx.GetSignBytes()
	require.NoError(t, err)
	assert.Equal(t, raw, raw2)

	_, err = (&Tx{}).GetMsg()
	assert.True(t, errors.ErrInput.Is(err))
}

func newApplication(t *testing.T, holder, claimant custody.Address) *app.Engine {
	t.Helper()
	engine, err := Application("", nil)
	require.NoError(t, err)

	gen := app.Genesis{
		ChainID: "test-chain",
		AppOptions: custody.Options{
			"cash": []byte(`[{"address": "` + holder.String() + `", "lamports": 5000}, {"address": "` + claimant.String() + `", "lamports": 10}]`),
			"conf": []byte(`{"htlc": {"program_id": "` + custodytest.NewAddress().String() + `", "record_rent": 100}}`),
		},
	}
	require.NoError(t, engine.InitChain(gen, Initializers()))
	return engine
}

func deliver(t *testing.T, e *app.Engine, now custody.UnixTime, key []byte, seq int64, msg Msg) (*custody.DeliverResult, error) {
	t.Helper()
	tx := NewTx(msg)
	if key != nil {
		require.NoError(t, tx.Sign(key, e.ChainID(), seq))
	}
	return e.Deliver(context.Background(), now.Time(), tx)
}

func TestApplicationEscrow(t *testing.T) {
	holderKey, claimantKey := custodytest.NewKey(), custodytest.NewKey()
	holder, claimant := custodytest.KeyAddress(holderKey), custodytest.KeyAddress(claimantKey)
	e := newApplication(t, holder, claimant)

	const expiration custody.UnixTime = 1700000000
	create := &htlc.CreateMsg{Holder: holder, Amount: 1000, Expiration: expiration, Commitment: htlc.Commit([]byte("swordfish"))}

	// Unsigned and foreign signed transactions are rejected.
	_, err := deliver(t, e, expiration-10, nil, 0, create)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	_, err = deliver(t, e, expiration-10, claimantKey, 0, create)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	res, err := deliver(t, e, expiration-10, holderKey, 0, create)
	require.NoError(t, err)
	var escrow custody.Address
	copy(escrow[:], res.Data)

	// A replayed signature is rejected.
	_, err = deliver(t, e, expiration-10, holderKey, 0, &cash.SendMsg{Source: holder, Destination: claimant, Amount: 1})
	assert.True(t, sigs.ErrInvalidSequence.Is(err))

	redeem := &htlc.RedeemMsg{Escrow: escrow, Claimant: claimant, Secret: []byte("swordfish")}
	_, err = deliver(t, e, expiration-5, claimantKey, 0, redeem)
	require.NoError(t, err)
	_, err = deliver(t, e, expiration-5, claimantKey, 1, redeem)
	assert.True(t, errors.ErrNotFound.Is(err))

	err = e.View(func(db custody.ReadOnlyKVStore) error {
		ctrl := cash.NewController(cash.NewBucket())
		n, err := ctrl.Balance(db, claimant)
		require.NoError(t, err)
		assert.Equal(t, uint64(1010), n)
		n, err = ctrl.Balance(db, holder)
		require.NoError(t, err)
		assert.Equal(t, uint64(4000), n)
		return nil
	})
	require.NoError(t, err)
}

func TestApplicationUnknownPath(t *testing.T) {
	e, err := Application("", nil)
	require.NoError(t, err)
	require.NoError(t, e.InitChain(app.Genesis{ChainID: "test-chain", AppOptions: custody.Options{
		"conf": []byte(`{"htlc": {"program_id": "` + custodytest.NewAddress().String() + `"}}`),
	}}, Initializers()))

	_, err = e.Deliver(context.Background(), time.Now(), &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "unknown/path"}})
	assert.True(t, errors.ErrNotFound.Is(err))
}
