package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// commands is a register of all available commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// A command function is given stdin, stdout and the command line arguments
// without the program name and the command name. It parses the arguments
// with the flag package and reads and writes only to provided input and
// output. In the special case of an invalid argument a message to os.Stderr
// and os.Exit(2) call are allowed.
//
// Commands changing the state sign the transaction with a local key,
// deliver it against the state kept in the home directory and commit a new
// version:
//
//	$ custodyd init -genesis genesis.json
//	$ custodyd create -amount 1000 -commitment $(custodyd commit -secret swordfish) \
//	    -expiration 2024-01-01T00:00:00Z
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"address": cmdAddress,
	"balance": cmdBalance,
	"commit":  cmdCommit,
	"create":  cmdCreate,
	"init":    cmdInit,
	"keyaddr": cmdKeyaddr,
	"keygen":  cmdKeygen,
	"redeem":  cmdRedeem,
	"refund":  cmdRefund,
	"send":    cmdSend,
	"show":    cmdShow,
	"version": cmdVersion,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s runs hashed timelock escrows against a local state.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	// Skip two first arguments. Second argument is the command name that
	// we just consumed.
	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	fmt.Fprintln(out, gitHash)
	return nil
}

// gitHash is set during the compilation time.
var gitHash string = "dev"
