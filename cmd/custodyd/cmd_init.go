package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/custody/app"
	custodyd "github.com/iov-one/custody/cmd/custodyd/app"
)

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Initialize the state from a genesis file.

The genesis file declares the chain id and the initial state of every
extension, for example:

	{
	  "chain_id": "local-custody",
	  "app_options": {
	    "cash": [{"address": "<base58>", "lamports": 100000000}],
	    "token": {"mints": [], "accounts": []},
	    "conf": {"htlc": {"program_id": "<base58>", "record_rent": 1461600, "token_account_rent": 2039280}}
	  }
	}

A state can be initialized only once.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = flHome(fl)
		verboseFl = flVerbose(fl)
		genesisFl = fl.String("genesis", "genesis.json", "Path to the genesis file.")
	)
	fl.Parse(args)

	gen, err := app.LoadGenesis(*genesisFl)
	if err != nil {
		return err
	}
	engine, err := openEngine(*homeFl, *verboseFl)
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.InitChain(*gen, custodyd.Initializers()); err != nil {
		return fmt.Errorf("cannot initialize: %s", err)
	}
	id, err := engine.Commit()
	if err != nil {
		return fmt.Errorf("cannot commit: %s", err)
	}
	_, err = fmt.Fprintf(output, "%s initialized at version %d\n", gen.ChainID, id.Version)
	return err
}
