package app_test

import (
	"testing"

	"github.com/iov-one/flow/app"
	"github.com/iov-one/flow/errors"
	"github.com/iov-one/flow/flowtest"
	"github.com/iov-one/flow/flowtest/assert"
	"github.com/iov-one/flow/store"
)

func TestChain(t *testing.T) {
	var nilDecorator *flowtest.Decorator
	first := &flowtest.Decorator{}
	second := &flowtest.Decorator{}
	h := &flowtest.Handler{}

	stack := app.ChainDecorators(first, nil, nilDecorator).Chain(second).WithHandler(h)

	db := store.MemStore()
	tx := &flowtest.Tx{}
	_, err := stack.Check(nil, db, tx)
	assert.Nil(t, err)
	_, err = stack.Deliver(nil, db, tx)
	assert.Nil(t, err)
	assert.Equal(t, 2, first.CallCount())
	assert.Equal(t, 2, second.CallCount())
	assert.Equal(t, 2, h.CallCount())

	// a failing decorator stops the chain
	second.DeliverErr = errors.ErrUnauthorized
	_, err = stack.Deliver(nil, db, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, 3, first.CallCount())
	assert.Equal(t, 2, h.CallCount())
}
