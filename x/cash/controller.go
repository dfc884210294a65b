package cash

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Controller is the functionality needed by cash.Handler and by any other
// extension moving native value (escrows, token account deposits).
type Controller interface {
	// Balance returns the lamports owned by given address. A missing
	// account has a zero balance.
	Balance(db custody.ReadOnlyKVStore, addr custody.Address) (uint64, error)
	// MoveCoins moves the given amount from src to dest. If src doesn't
	// exist, or doesn't have sufficient coins, it fails.
	MoveCoins(db custody.KVStore, src, dest custody.Address, amount uint64) error
	// IssueCoins adds the given amount to the destination address.
	IssueCoins(db custody.KVStore, dest custody.Address, amount uint64) error
	// Drain moves the whole balance of src to dest and removes the src
	// account. It returns the amount moved.
	Drain(db custody.KVStore, src, dest custody.Address) (uint64, error)
}

// BaseController is a simple implementation of the Controller. It
// should be used in any situation where a Controller is required,
// unless there is a good reason not to.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a base controller implementation.
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the lamports owned by given address.
func (c BaseController) Balance(db custody.ReadOnlyKVStore, addr custody.Address) (uint64, error) {
	w, err := c.bucket.GetWallet(db, addr)
	if err != nil || w == nil {
		return 0, err
	}
	return w.Lamports, nil
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(db custody.KVStore, src, dest custody.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero value")
	}

	sender, err := c.bucket.GetWallet(db, src)
	if err != nil {
		return err
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrInsufficientAmount, "empty account %s", src)
	}
	if sender.Lamports < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%d lamports available, %d required", sender.Lamports, amount)
	}
	if src.Equals(dest) {
		return nil
	}

	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if recipient.Lamports+amount < recipient.Lamports {
		return errors.Wrap(errors.ErrOverflow, "recipient balance")
	}
	sender.Lamports -= amount
	recipient.Lamports += amount

	if err := c.bucket.Save(db, src, sender); err != nil {
		return err
	}
	return c.bucket.Save(db, dest, recipient)
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
func (c BaseController) IssueCoins(db custody.KVStore, dest custody.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero value")
	}
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if recipient.Lamports+amount < recipient.Lamports {
		return errors.Wrap(errors.ErrOverflow, "recipient balance")
	}
	recipient.Lamports += amount
	return c.bucket.Save(db, dest, recipient)
}

// Drain moves everything src owns to dest and deletes the src account.
// Draining a missing account is a no-op.
func (c BaseController) Drain(db custody.KVStore, src, dest custody.Address) (uint64, error) {
	sender, err := c.bucket.GetWallet(db, src)
	if err != nil || sender == nil {
		return 0, err
	}
	amount := sender.Lamports
	if amount > 0 {
		if err := c.MoveCoins(db, src, dest, amount); err != nil {
			return 0, err
		}
	}
	if err := c.bucket.Delete(db, src.Bytes()); err != nil {
		return 0, err
	}
	return amount, nil
}
