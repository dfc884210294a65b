package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/custody/crypto"
)

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key.

When successful a new file with binary content containing private key is
created. This command fails if the private key file already exists.
`)
		fl.PrintDefaults()
	}
	keyPathFl := flKeyPath(fl)
	fl.Parse(args)

	// Do not allow to overwrite already existing private key. User must
	// manually delete it first.
	if err := crypto.SaveKey(*keyPathFl, crypto.GenPrivKeyEd25519()); err != nil {
		return fmt.Errorf("cannot save private key: %s", err)
	}
	return nil
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the base58 address associated with your private key.
`)
		fl.PrintDefaults()
	}
	keyPathFl := flKeyPath(fl)
	fl.Parse(args)

	key, err := crypto.LoadKey(*keyPathFl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, crypto.Address(key))
	return err
}
