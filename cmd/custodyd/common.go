package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	custodyd "github.com/iov-one/custody/cmd/custodyd/app"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/x/sigs"
	"github.com/tendermint/tendermint/libs/log"
	"golang.org/x/crypto/ed25519"
)

func flHome(fl *flag.FlagSet) *string {
	return fl.String("home", env("CUSTODYD_HOME", os.Getenv("HOME")+"/.custodyd"),
		"Directory holding the state. You can use CUSTODYD_HOME environment variable to set it.")
}

func flKeyPath(fl *flag.FlagSet) *string {
	return fl.String("key", env("CUSTODYD_PRIV_KEY", os.Getenv("HOME")+"/.custodyd.priv.key"),
		"Path to the private key file that transaction should be signed with. You can use CUSTODYD_PRIV_KEY environment variable to set it.")
}

func flVerbose(fl *flag.FlagSet) *bool {
	return fl.Bool("v", false, "Log processing details to stderr.")
}

func logger(verbose bool) log.Logger {
	l := log.NewTMLogger(log.NewSyncWriter(os.Stderr)).With("module", "custodyd")
	if verbose {
		return log.NewFilter(l, log.AllowDebug())
	}
	return log.NewFilter(l, log.AllowError())
}

// openEngine returns the engine running over the state kept in home. It
// must be closed after use.
func openEngine(home string, verbose bool) (*app.Engine, error) {
	if err := os.MkdirAll(home, 0700); err != nil {
		return nil, fmt.Errorf("cannot create home directory: %s", err)
	}
	engine, err := custodyd.Application(filepath.Join(home, "state"), logger(verbose))
	if err != nil {
		return nil, fmt.Errorf("cannot open state: %s", err)
	}
	return engine.WithDebug(verbose), nil
}

// view runs fn against the latest committed state kept in home.
func view(home string, fn func(db custody.ReadOnlyKVStore) error) error {
	engine, err := openEngine(home, false)
	if err != nil {
		return err
	}
	defer engine.Close()
	return engine.View(fn)
}

// submit signs msg with key, delivers it at given block time and commits
// the result.
func submit(home string, verbose bool, key ed25519.PrivateKey, now time.Time, msg custodyd.Msg) (*custody.DeliverResult, error) {
	engine, err := openEngine(home, verbose)
	if err != nil {
		return nil, err
	}
	defer engine.Close()

	chainID := engine.ChainID()
	if chainID == "" {
		return nil, fmt.Errorf("state in %q is not initialized, run init first", home)
	}
	var seq int64
	err = engine.View(func(db custody.ReadOnlyKVStore) error {
		var err error
		seq, err = sigs.NextNonce(db, crypto.Address(key))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("cannot read sequence: %s", err)
	}

	tx := custodyd.NewTx(msg)
	if err := tx.Sign(key, chainID, seq); err != nil {
		return nil, fmt.Errorf("cannot sign transaction: %s", err)
	}
	res, err := engine.Deliver(context.Background(), now, tx)
	if err != nil {
		return nil, err
	}
	if _, err := engine.Commit(); err != nil {
		return nil, fmt.Errorf("cannot commit: %s", err)
	}
	return res, nil
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "\t")
	return enc.Encode(v)
}
