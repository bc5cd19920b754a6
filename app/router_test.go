package app_test

import (
	"testing"

	"github.com/iov-one/flow/app"
	"github.com/iov-one/flow/errors"
	"github.com/iov-one/flow/flowtest"
	"github.com/iov-one/flow/flowtest/assert"
)

func TestRouter(t *testing.T) {
	r := app.NewRouter()

	good := &flowtest.Handler{}
	r.Handle(&flowtest.Msg{RoutePath: "good"}, good)
	r.Handle(&flowtest.Msg{RoutePath: "bad"}, &flowtest.Handler{
		CheckErr:   errors.ErrUnauthorized,
		DeliverErr: errors.ErrUnauthorized,
	})

	// invalid registrations panic
	assert.Panics(t, func() { r.Handle(&flowtest.Msg{RoutePath: "good"}, good) })
	assert.Panics(t, func() { r.Handle(&flowtest.Msg{RoutePath: "l:7"}, good) })

	goodTx := &flowtest.Tx{Msg: &flowtest.Msg{RoutePath: "good"}}
	_, err := r.Check(nil, nil, goodTx)
	assert.Nil(t, err)
	_, err = r.Deliver(nil, nil, goodTx)
	assert.Nil(t, err)
	assert.Equal(t, 1, good.CheckCallCount())
	assert.Equal(t, 1, good.DeliverCallCount())

	_, err = r.Deliver(nil, nil, &flowtest.Tx{Msg: &flowtest.Msg{RoutePath: "bad"}})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	missing := &flowtest.Tx{Msg: &flowtest.Msg{RoutePath: "missing"}}
	_, err = r.Check(nil, nil, missing)
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = r.Deliver(nil, nil, missing)
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = r.Deliver(nil, nil, &flowtest.Tx{})
	assert.IsErr(t, errors.ErrState, err)

	_, err = r.Deliver(nil, nil, &flowtest.Tx{Err: errors.ErrInput})
	assert.IsErr(t, errors.ErrInput, err)

	assert.Equal(t, 2, good.CallCount())
}
