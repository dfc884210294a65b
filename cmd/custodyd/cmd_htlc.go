package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/htlc"
	"github.com/iov-one/custody/x/token"
)

// parseSecret returns the secret bytes. A "hex:" prefix marks a hex encoded
// secret, anything else is taken as is.
func parseSecret(raw string) ([]byte, error) {
	if enc := strings.TrimPrefix(raw, "hex:"); enc != raw {
		b, err := hex.DecodeString(enc)
		if err != nil {
			return nil, fmt.Errorf("cannot decode hex secret: %s", err)
		}
		return b, nil
	}
	return []byte(raw), nil
}

func cmdCommit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the hex encoded commitment to a secret.
`)
		fl.PrintDefaults()
	}
	secretFl := fl.String("secret", "", `Secret to commit to. Use "hex:" prefix for binary secrets.`)
	fl.Parse(args)

	secret, err := parseSecret(*secretFl)
	if err != nil {
		return err
	}
	if len(secret) == 0 {
		return fmt.Errorf("secret is required")
	}
	_, err = fmt.Fprintln(output, htlc.Commit(secret))
	return err
}

func cmdAddress(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the address of the escrow a holder creates under a commitment.

The program identity is read from the state unless given.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl       = flHome(fl)
		programFl    = flAddress(fl, "program", "", "Program identity the escrow is derived for.")
		holderFl     = flAddress(fl, "holder", "", "Address of the escrow holder.")
		commitmentFl = fl.String("commitment", "", "Hex encoded commitment.")
		tokenFl      = fl.Bool("token", false, "Derive the address of a token escrow.")
	)
	fl.Parse(args)

	commitment, err := htlc.ParseCommitment(*commitmentFl)
	if err != nil {
		return err
	}
	if err := custody.ValidateAddress(*holderFl); err != nil {
		return fmt.Errorf("holder: %s", err)
	}
	program := *programFl
	if program.IsZero() {
		err := view(*homeFl, func(db custody.ReadOnlyKVStore) error {
			conf, err := htlc.LoadConfiguration(db)
			if err != nil {
				return err
			}
			program = conf.ProgramID
			return nil
		})
		if err != nil {
			return fmt.Errorf("cannot read program identity: %s", err)
		}
	}
	addr, nonce, err := htlc.DeriveEscrow(program, *holderFl, commitment, *tokenFl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "%s %d\n", addr, nonce)
	return err
}

func cmdCreate(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Lock value of the key owner in a new escrow.

The escrow can be redeemed by anyone presenting the secret of the commitment.
After the expiration time it can be refunded to its holder. Without -mint
native value is locked. When successful the escrow address is printed.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl       = flHome(fl)
		keyPathFl    = flKeyPath(fl)
		verboseFl    = flVerbose(fl)
		nowFl        = flTime(fl, "now", time.Now, "Block time of the transaction.")
		amountFl     = fl.Uint64("amount", 0, "Value to lock, in lamports or in the smallest token unit.")
		expirationFl = flTime(fl, "expiration", nil, "Time after which the escrow can be refunded.")
		commitmentFl = fl.String("commitment", "", "Hex encoded commitment.")
		mintFl       = flAddress(fl, "mint", "", "Mint of the locked tokens.")
		decimalsFl   = fl.Int("decimals", -1, "Precision of the mint. Read from the state when not given.")
	)
	fl.Parse(args)

	key, err := crypto.LoadKey(*keyPathFl)
	if err != nil {
		return err
	}
	commitment, err := htlc.ParseCommitment(*commitmentFl)
	if err != nil {
		return err
	}
	msg := &htlc.CreateMsg{
		Holder:     crypto.Address(key),
		Amount:     *amountFl,
		Expiration: *expirationFl,
		Commitment: commitment,
		Mint:       *mintFl,
	}
	if !msg.Mint.IsZero() {
		decimals, err := mintDecimals(*homeFl, msg.Mint, *decimalsFl)
		if err != nil {
			return err
		}
		msg.Decimals = decimals
	}
	if err := msg.Validate(); err != nil {
		return err
	}

	res, err := submit(*homeFl, *verboseFl, key, nowFl.Time(), msg)
	if err != nil {
		return err
	}
	var escrow custody.Address
	copy(escrow[:], res.Data)
	_, err = fmt.Fprintln(output, escrow)
	return err
}

func mintDecimals(home string, mint custody.Address, given int) (uint8, error) {
	if given >= 0 {
		if given > 255 {
			return 0, fmt.Errorf("invalid decimals: %d", given)
		}
		return uint8(given), nil
	}
	var decimals uint8
	err := view(home, func(db custody.ReadOnlyKVStore) error {
		m, err := token.NewController(cash.NewController(cash.NewBucket())).Mint(db, mint)
		if err != nil {
			return err
		}
		decimals = m.Decimals
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("cannot read mint: %s", err)
	}
	return decimals, nil
}

func cmdRedeem(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Release an escrow to the key owner by presenting its secret.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = flHome(fl)
		keyPathFl = flKeyPath(fl)
		verboseFl = flVerbose(fl)
		nowFl     = flTime(fl, "now", time.Now, "Block time of the transaction.")
		escrowFl  = flAddress(fl, "escrow", "", "Address of the escrow.")
		secretFl  = fl.String("secret", "", `Secret of the escrow commitment. Use "hex:" prefix for binary secrets.`)
		mintFl    = flAddress(fl, "mint", "", "Mint of a token escrow.")
	)
	fl.Parse(args)

	key, err := crypto.LoadKey(*keyPathFl)
	if err != nil {
		return err
	}
	secret, err := parseSecret(*secretFl)
	if err != nil {
		return err
	}
	msg := &htlc.RedeemMsg{
		Escrow:   *escrowFl,
		Claimant: crypto.Address(key),
		Secret:   secret,
		Mint:     *mintFl,
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	if _, err := submit(*homeFl, *verboseFl, key, nowFl.Time(), msg); err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "escrow %s redeemed\n", msg.Escrow)
	return err
}

func cmdRefund(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Return an expired escrow to its holder. Any key can sign a refund.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = flHome(fl)
		keyPathFl = flKeyPath(fl)
		verboseFl = flVerbose(fl)
		nowFl     = flTime(fl, "now", time.Now, "Block time of the transaction.")
		escrowFl  = flAddress(fl, "escrow", "", "Address of the escrow.")
		secretFl  = fl.String("secret", "", `Secret of the escrow commitment. Use "hex:" prefix for binary secrets.`)
		mintFl    = flAddress(fl, "mint", "", "Mint of a token escrow.")
	)
	fl.Parse(args)

	key, err := crypto.LoadKey(*keyPathFl)
	if err != nil {
		return err
	}
	secret, err := parseSecret(*secretFl)
	if err != nil {
		return err
	}
	msg := &htlc.RefundMsg{
		Escrow: *escrowFl,
		Secret: secret,
		Mint:   *mintFl,
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	if _, err := submit(*homeFl, *verboseFl, key, nowFl.Time(), msg); err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "escrow %s refunded\n", msg.Escrow)
	return err
}

// escrowView is the printable form of an escrow record.
type escrowView struct {
	Address    custody.Address  `json:"address"`
	Holder     custody.Address  `json:"holder"`
	Amount     uint64           `json:"amount"`
	Expiration string           `json:"expiration"`
	Redeemed   bool             `json:"redeemed"`
	Mint       *custody.Address `json:"mint,omitempty"`
	Commitment string           `json:"commitment"`
	Nonce      uint8            `json:"nonce"`
}

func cmdShow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the record of an escrow in JSON format.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl   = flHome(fl)
		escrowFl = flAddress(fl, "escrow", "", "Address of the escrow.")
	)
	fl.Parse(args)

	var e *htlc.Escrow
	err := view(*homeFl, func(db custody.ReadOnlyKVStore) error {
		var err error
		e, err = htlc.NewBucket().GetEscrow(db, *escrowFl)
		return err
	})
	if err != nil {
		return err
	}
	return writeJSON(output, escrowView{
		Address:    *escrowFl,
		Holder:     e.Holder,
		Amount:     e.Amount,
		Expiration: e.Expiration.String(),
		Redeemed:   e.Redeemed,
		Mint:       e.Mint,
		Commitment: e.Commitment.String(),
		Nonce:      e.Nonce,
	})
}
