package app

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store/iavl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, h custody.Handler) (*Engine, *iavl.CommitStore) {
	t.Helper()
	db := iavl.NewMemCommitStore()
	e, err := NewEngine(db, h, nil)
	require.NoError(t, err)
	require.NoError(t, e.InitChain(Genesis{ChainID: "test-chain"}, ChainInitializers()))
	return e, db
}

func get(t *testing.T, e *Engine, key string) []byte {
	t.Helper()
	var val []byte
	err := e.View(func(db custody.ReadOnlyKVStore) error {
		var err error
		val, err = db.Get([]byte(key))
		return err
	})
	require.NoError(t, err)
	return val
}

func TestEngineDeliver(t *testing.T) {
	now := time.Now()
	tx := &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "test/write"}}

	cases := map[string]struct {
		handler   *custodytest.Handler
		wantErr   *errors.Error
		wantValue []byte
	}{
		"success is written": {
			handler:   &custodytest.Handler{Key: []byte("k"), Value: []byte("v")},
			wantValue: []byte("v"),
		},
		"failure is discarded": {
			handler: &custodytest.Handler{Key: []byte("k"), Value: []byte("v"), DeliverErr: errors.ErrState},
			wantErr: errors.ErrState,
		},
		"panic is recovered and discarded": {
			handler: &custodytest.Handler{Panic: "boom"},
			wantErr: errors.ErrPanic,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			e, _ := newTestEngine(t, tc.handler)
			_, err := e.Deliver(context.Background(), now, tx)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "%+v", err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.wantValue, get(t, e, "k"))
		})
	}
}

func TestEngineCheckDiscards(t *testing.T) {
	h := &custodytest.Handler{Key: []byte("k"), Value: []byte("v")}
	e, _ := newTestEngine(t, h)
	tx := &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "test/write"}}

	_, err := e.Check(context.Background(), time.Now(), tx)
	require.NoError(t, err)
	assert.Equal(t, 1, h.CheckCallCount())
	assert.Nil(t, get(t, e, "k"))

	h.CheckErr = errors.ErrInput
	_, err = e.Check(context.Background(), time.Now(), tx)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestEngineRequiresChain(t *testing.T) {
	h := &custodytest.Handler{}
	e, err := NewEngine(iavl.NewMemCommitStore(), h, nil)
	require.NoError(t, err)
	assert.Equal(t, "", e.ChainID())

	tx := &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "test/noop"}}
	_, err = e.Deliver(context.Background(), time.Now(), tx)
	assert.True(t, errors.ErrState.Is(err))

	require.NoError(t, e.InitChain(Genesis{ChainID: "test-chain"}, ChainInitializers()))
	assert.Equal(t, "test-chain", e.ChainID())
	err = e.InitChain(Genesis{ChainID: "test-chain"}, ChainInitializers())
	assert.True(t, errors.ErrState.Is(err))

	_, err = e.Deliver(context.Background(), time.Time{}, tx)
	assert.True(t, errors.ErrInput.Is(err))
	assert.Equal(t, 0, h.CallCount())
}

func TestEngineFailedGenesisLeavesNoState(t *testing.T) {
	e, err := NewEngine(iavl.NewMemCommitStore(), &custodytest.Handler{}, nil)
	require.NoError(t, err)

	gen := Genesis{
		ChainID:    "test-chain",
		AppOptions: custody.Options{dummyKey: []byte(`17`)},
	}
	err = e.InitChain(gen, dummyInit{})
	assert.True(t, errors.ErrInput.Is(err))
	assert.Equal(t, "", e.ChainID())
	assert.Nil(t, get(t, e, chainIDKey))
}

func TestEngineCommit(t *testing.T) {
	h := &custodytest.Handler{Key: []byte("k"), Value: []byte("v")}
	e, db := newTestEngine(t, h)
	tx := &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "test/write"}}

	_, err := e.Deliver(context.Background(), time.Now(), tx)
	require.NoError(t, err)
	id, err := e.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)

	val, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)

	// a new engine on the same store finds the chain id
	e2, err := NewEngine(db, h, nil)
	require.NoError(t, err)
	assert.Equal(t, "test-chain", e2.ChainID())
}

func TestEngineReopen(t *testing.T) {
	dir := t.TempDir()
	h := &custodytest.Handler{Key: []byte("k"), Value: []byte("v")}

	db, err := iavl.NewCommitStore(dir, "state")
	require.NoError(t, err)
	e, err := NewEngine(db, h, nil)
	require.NoError(t, err)
	require.NoError(t, e.InitChain(Genesis{ChainID: "test-chain"}, ChainInitializers()))
	_, err = e.Deliver(context.Background(), time.Now(), &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "test/write"}})
	require.NoError(t, err)
	_, err = e.Commit()
	require.NoError(t, err)
	require.NoError(t, e.Close())

	db, err = iavl.NewCommitStore(dir, "state")
	require.NoError(t, err)
	e, err = NewEngine(db, h, nil)
	require.NoError(t, err)
	defer e.Close()
	assert.Equal(t, "test-chain", e.ChainID())
	assert.Equal(t, []byte("v"), get(t, e, "k"))
}
