package cash

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Ensure we implement the Msg interface
var _ custody.Msg = (*SendMsg)(nil)

const maxMemoSize int = 128

// SendMsg moves native value between two addresses. Source must sign.
type SendMsg struct {
	Source      custody.Address
	Destination custody.Address
	Amount      uint64
	Memo        string
}

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (m SendMsg) Validate() error {
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "non-positive SendMsg")
	}
	if err := custody.ValidateAddress(m.Source); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := custody.ValidateAddress(m.Destination); err != nil {
		return errors.Wrap(err, "destination")
	}
	if len(m.Memo) > maxMemoSize {
		return errors.Wrap(errors.ErrState, "memo too long")
	}
	return nil
}

// Marshal returns the canonical binary form used for signing.
func (m SendMsg) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	for _, write := range []func() error{
		func() error { return enc.WriteBytes(m.Source.Bytes(), false) },
		func() error { return enc.WriteBytes(m.Destination.Bytes(), false) },
		func() error { return enc.WriteUint64(m.Amount, bin.LE) },
		func() error { return enc.WriteBytes([]byte(m.Memo), true) },
	} {
		if err := write(); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
