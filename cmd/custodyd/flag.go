package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/iov-one/custody"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *custody.Address {
	var a flagaddr
	if defaultVal != "" {
		if err := a.Set(defaultVal); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&a, name, usage)
	return (*custody.Address)(&a)
}

type flagaddr custody.Address

func (a flagaddr) String() string {
	if custody.Address(a).IsZero() {
		return ""
	}
	return custody.Address(a).String()
}

func (a *flagaddr) Set(raw string) error {
	val, err := custody.ParseAddress(raw)
	if err != nil {
		return err
	}
	*a = flagaddr(val)
	return nil
}

// flTime returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. Time can
// be given in RFC 3339 format or as a number of seconds since epoch. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flTime(fl *flag.FlagSet, name string, defaultVal func() time.Time, usage string) *custody.UnixTime {
	var t flagtime
	if defaultVal != nil {
		t = flagtime(custody.AsUnixTime(defaultVal()))
	}
	fl.Var(&t, name, usage)
	return (*custody.UnixTime)(&t)
}

type flagtime custody.UnixTime

func (t flagtime) String() string {
	if t == 0 {
		return ""
	}
	return custody.UnixTime(t).Time().UTC().Format(time.RFC3339)
}

func (t *flagtime) Set(raw string) error {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*t = flagtime(n)
		return nil
	}
	val, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("time must be in RFC 3339 format or a unix timestamp: %s", err)
	}
	*t = flagtime(custody.AsUnixTime(val))
	return nil
}
