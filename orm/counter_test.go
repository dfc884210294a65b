package orm

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/custody/errors"
)

// Counter is a minimal model used to exercise buckets.
type Counter struct {
	Count int64
}

var _ CloneableData = (*Counter)(nil)

func (c *Counter) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := bin.NewBorshEncoder(&buf).WriteInt64(c.Count, bin.LE); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Counter) Unmarshal(raw []byte) error {
	dec := bin.NewBorshDecoder(raw)
	n, err := dec.ReadInt64(bin.LE)
	if err != nil {
		return errors.Wrapf(errors.ErrState, "counter: %s", err)
	}
	if dec.Remaining() != 0 {
		return errors.Wrap(errors.ErrState, "counter: trailing bytes")
	}
	c.Count = n
	return nil
}

func (c *Counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrModel, "negative count")
	}
	return nil
}

func (c *Counter) Copy() CloneableData {
	return &Counter{Count: c.Count}
}
