package main

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/token"
)

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the native balance of an address, or its token balance when a mint
is given. Without -addr the address of the private key is used.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = flHome(fl)
		keyPathFl = flKeyPath(fl)
		addrFl    = flAddress(fl, "addr", "", "Address to print the balance of.")
		mintFl    = flAddress(fl, "mint", "", "Mint of the token balance.")
	)
	fl.Parse(args)

	addr := *addrFl
	if addr.IsZero() {
		key, err := crypto.LoadKey(*keyPathFl)
		if err != nil {
			return err
		}
		addr = crypto.Address(key)
	}

	cashctrl := cash.NewController(cash.NewBucket())
	var amount uint64
	err := view(*homeFl, func(db custody.ReadOnlyKVStore) error {
		if mintFl.IsZero() {
			var err error
			amount, err = cashctrl.Balance(db, addr)
			return err
		}
		ata, err := token.AssociatedAddress(addr, *mintFl)
		if err != nil {
			return err
		}
		switch n, err := token.NewController(cashctrl).Balance(db, ata); {
		case errors.ErrNotFound.Is(err):
			return nil
		case err != nil:
			return err
		default:
			amount = n
			return nil
		}
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, amount)
	return err
}

func cmdSend(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Move native value of the key owner to another address.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = flHome(fl)
		keyPathFl = flKeyPath(fl)
		verboseFl = flVerbose(fl)
		nowFl     = flTime(fl, "now", time.Now, "Block time of the transaction.")
		toFl      = flAddress(fl, "to", "", "Destination address.")
		amountFl  = fl.Uint64("amount", 0, "Lamports to send.")
		memoFl    = fl.String("memo", "", "Short text attached to the transfer.")
	)
	fl.Parse(args)

	key, err := crypto.LoadKey(*keyPathFl)
	if err != nil {
		return err
	}
	msg := &cash.SendMsg{
		Source:      crypto.Address(key),
		Destination: *toFl,
		Amount:      *amountFl,
		Memo:        *memoFl,
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	if _, err := submit(*homeFl, *verboseFl, key, nowFl.Time(), msg); err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "sent %d to %s\n", msg.Amount, msg.Destination)
	return err
}
