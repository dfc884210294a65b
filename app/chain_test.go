package app

import (
	"context"
	"testing"

	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
)

func TestChain(t *testing.T) {
	c1 := &custodytest.Decorator{}
	c2 := &custodytest.Decorator{}
	h := &custodytest.Handler{}

	stack := ChainDecorators(
		c1,
		NewRecovery(),
		nil,
		c2,
	).WithHandler(h)

	bg := context.Background()

	_, err := stack.Check(bg, nil, nil)
	assert.NoError(t, err)
	_, err = stack.Deliver(bg, nil, nil)
	assert.NoError(t, err)

	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 2, h.CallCount())

	// a failing decorator stops the chain
	c2.DeliverErr = errors.ErrUnauthorized
	_, err = stack.Deliver(bg, nil, nil)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Equal(t, 3, c1.CallCount())
	assert.Equal(t, 3, c2.CallCount())
	assert.Equal(t, 2, h.CallCount())
}

func TestRecovery(t *testing.T) {
	h := &custodytest.Handler{Panic: "boom"}
	stack := ChainDecorators(NewRecovery()).WithHandler(h)

	_, err := stack.Check(context.Background(), nil, nil)
	assert.True(t, errors.ErrPanic.Is(err), "%+v", err)
	_, err = stack.Deliver(context.Background(), nil, nil)
	assert.True(t, errors.ErrPanic.Is(err), "%+v", err)
}
