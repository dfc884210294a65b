/*
Package app links together all the various components
to construct the custodyd application.
*/
package app

import (
	"path/filepath"
	"strings"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store/iavl"
	"github.com/iov-one/custody/x"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/htlc"
	"github.com/iov-one/custody/x/sigs"
	"github.com/iov-one/custody/x/token"
	"github.com/tendermint/tendermint/libs/log"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle recovery and
// authentication
func Chain() app.Decorators {
	return app.ChainDecorators(
		app.NewRecovery(),
		sigs.NewDecorator(),
	)
}

// Router returns a router dispatching native transfers and escrow
// operations.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	cashctrl := cash.NewController(cash.NewBucket())
	cash.RegisterRoutes(r, authFn, cashctrl)
	htlc.RegisterRoutes(r, authFn, cashctrl, token.NewController(cashctrl))
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into an Engine.
func Stack() custody.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn))
}

// Initializers returns the genesis loaders of all extensions.
func Initializers() custody.Initializer {
	return app.ChainInitializers(
		cash.Initializer{},
		token.Initializer{},
		htlc.Initializer{},
	)
}

// Application returns an engine running the standard stack over the state
// persisted at dbPath. An empty path keeps the state in memory.
func Application(dbPath string, logger log.Logger) (*app.Engine, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return nil, err
	}
	return app.NewEngine(kv, Stack(), logger)
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (custody.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", path)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name)
}
