package htlc

import "github.com/iov-one/custody/errors"

// Lifecycle failures. Creation conflicts, missing records, insufficient
// balances and asset mismatches are reported with the generic errors.ErrDuplicate,
// errors.ErrNotFound, errors.ErrInsufficientAmount and errors.ErrAssetMismatch.
var (
	ErrAlreadyRedeemed = errors.Register(100, "funds already redeemed")
	ErrNotExpired      = errors.Register(101, "escrow not expired")
	ErrInvalidSecret   = errors.Register(102, "invalid secret")
)
