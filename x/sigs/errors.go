package sigs

import "github.com/iov-one/custody/errors"

// x/sigs reserves 20 ~ 29.
var (
	// ErrInvalidSequence is returned when a signature was created for a
	// sequence that is not the next expected one.
	ErrInvalidSequence = errors.Register(20, "invalid sequence number")
)
