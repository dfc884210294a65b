package app

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Engine executes transactions against a committing store.
//
// Transactions are executed one at a time. Each runs on its own cache wrap
// of the state: when the handler succeeds all its writes are applied, any
// failure or panic discards all of them. Two transactions racing for the
// same state are therefore serialized and the second one observes the result
// of the first.
type Engine struct {
	mu      sync.Mutex
	store   custody.CommitKVStore
	handler custody.Handler
	logger  log.Logger
	chainID string
	debug   bool
}

// NewEngine returns an engine running handler against store. The store is
// loaded at its latest version.
func NewEngine(store custody.CommitKVStore, handler custody.Handler, logger log.Logger) (*Engine, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	e := &Engine{
		store:   store,
		handler: handler,
		logger:  logger,
	}
	view := store.CacheWrap()
	defer view.Discard()
	chainID, err := loadChainID(view)
	if err != nil {
		return nil, err
	}
	e.chainID = chainID
	return e, nil
}

// WithDebug makes the logs of failed transactions carry full error details.
func (e *Engine) WithDebug(debug bool) *Engine {
	e.debug = debug
	return e
}

// ChainID returns the chain id set at genesis, or an empty string when the
// chain was not initialized.
func (e *Engine) ChainID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.chainID
}

// InitChain stores the chain id and runs the initializer with the genesis
// options. It is all or nothing and can be done only once.
func (e *Engine) InitChain(gen Genesis, init custody.Initializer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.chainID != "" {
		return errors.Wrapf(errors.ErrState, "chain %q already initialized", e.chainID)
	}
	cache := e.store.CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return err
	}
	if err := init.FromGenesis(gen.AppOptions, cache); err != nil {
		cache.Discard()
		return errors.Wrap(err, "genesis")
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	e.chainID = gen.ChainID
	e.logger.Info("chain initialized", "chain_id", gen.ChainID)
	return nil
}

// Deliver executes the transaction at given block time. State changes are
// kept only if execution succeeds.
func (e *Engine) Deliver(ctx context.Context, now time.Time, tx custody.Tx) (*custody.DeliverResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, err := e.context(ctx, now, "deliver_tx", tx)
	if err != nil {
		return nil, err
	}
	cache := e.store.CacheWrap()
	res, err := deliver(ctx, e.handler, cache, tx)
	if err != nil {
		cache.Discard()
		e.logFailure(ctx, err)
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if res == nil {
		res = &custody.DeliverResult{}
	}
	custody.GetLogger(ctx).Debug("transaction delivered", "log", res.Log)
	return res, nil
}

// Check validates the transaction at given block time. State is never
// modified.
func (e *Engine) Check(ctx context.Context, now time.Time, tx custody.Tx) (*custody.CheckResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, err := e.context(ctx, now, "check_tx", tx)
	if err != nil {
		return nil, err
	}
	cache := e.store.CacheWrap()
	defer cache.Discard()
	res, err := check(ctx, e.handler, cache, tx)
	if err != nil {
		e.logFailure(ctx, err)
		return nil, err
	}
	return res, nil
}

// View runs fn against the latest state. Any write done by fn is dropped.
func (e *Engine) View(fn func(db custody.ReadOnlyKVStore) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cache := e.store.CacheWrap()
	defer cache.Discard()
	return fn(cache)
}

// Commit persists all delivered transactions as a new version.
func (e *Engine) Commit() (custody.CommitID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id, err := e.store.Commit()
	if err != nil {
		return id, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	e.logger.Info("state committed", "version", id.Version)
	return id, nil
}

// Close releases the store when it holds resources. The engine must not be
// used afterwards.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if c, ok := e.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (e *Engine) context(ctx context.Context, now time.Time, call string, tx custody.Tx) (context.Context, error) {
	if e.chainID == "" {
		return nil, errors.Wrap(errors.ErrState, "chain not initialized")
	}
	if now.IsZero() {
		return nil, errors.Wrap(errors.ErrInput, "block time is required")
	}
	ctx = custody.WithChainID(ctx, e.chainID)
	ctx = custody.WithBlockTime(ctx, now)
	ctx = custody.WithLogger(ctx, e.logger)
	return custody.WithLogInfo(ctx, "call", call, "path", custody.GetPath(tx)), nil
}

func (e *Engine) logFailure(ctx context.Context, err error) {
	code, msg := errors.ABCIInfo(err, e.debug)
	custody.GetLogger(ctx).Info("transaction failed", "code", code, "err", msg)
}

func deliver(ctx context.Context, h custody.Handler, db custody.KVStore, tx custody.Tx) (res *custody.DeliverResult, err error) {
	defer errors.Recover(&err)
	return h.Deliver(ctx, db, tx)
}

func check(ctx context.Context, h custody.Handler, db custody.KVStore, tx custody.Tx) (res *custody.CheckResult, err error) {
	defer errors.Recover(&err)
	return h.Check(ctx, db, tx)
}
