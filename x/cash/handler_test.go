package cash

import (
	"context"
	"testing"

	"github.com/iov-one/flow"
	"github.com/iov-one/flow/coin"
	"github.com/iov-one/flow/errors"
	"github.com/iov-one/flow/flowtest"
	"github.com/iov-one/flow/flowtest/assert"
	"github.com/iov-one/flow/store"
)

func TestSendHandler(t *testing.T) {
	perm := flowtest.NewCondition()
	perm2 := flowtest.NewCondition()
	foo := coin.NewCoin(100, "FOO")

	cases := map[string]struct {
		signers     []flow.Condition
		msg         flow.Msg
		wantCheck   *errors.Error
		wantDeliver *errors.Error
	}{
		"wrong message type": {
			signers:     []flow.Condition{perm},
			msg:         &flowtest.Msg{RoutePath: "foo/bar"},
			wantCheck:   errors.ErrType,
			wantDeliver: errors.ErrType,
		},
		"invalid message": {
			signers:     []flow.Condition{perm},
			msg:         &SendMsg{Source: perm.Address()},
			wantCheck:   errors.ErrAmount,
			wantDeliver: errors.ErrAmount,
		},
		"source did not sign": {
			signers:     []flow.Condition{perm2},
			msg:         &SendMsg{Source: perm.Address(), Destination: perm2.Address(), Amount: &foo},
			wantCheck:   errors.ErrUnauthorized,
			wantDeliver: errors.ErrUnauthorized,
		},
		"no funds": {
			signers:     []flow.Condition{perm2},
			msg:         &SendMsg{Source: perm2.Address(), Destination: perm.Address(), Amount: &foo},
			wantDeliver: errors.ErrEmpty,
		},
		"valid send": {
			signers: []flow.Condition{perm},
			msg:     &SendMsg{Source: perm.Address(), Destination: perm2.Address(), Amount: &foo},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			auth := &flowtest.Auth{Signers: tc.signers}
			controller := NewController(NewBucket())
			h := NewSendHandler(auth, controller)

			kv := store.MemStore()
			assert.Nil(t, controller.IssueCoins(kv, perm.Address(), coin.NewCoin(250, "FOO")))

			tx := &flowtest.Tx{Msg: tc.msg}
			_, err := h.Check(context.Background(), kv, tx)
			assert.IsErr(t, tc.wantCheck, err)
			_, err = h.Deliver(context.Background(), kv, tx)
			assert.IsErr(t, tc.wantDeliver, err)
		})
	}
}

func TestSendMsgValidate(t *testing.T) {
	a := flowtest.NewCondition().Address()
	b := flowtest.NewCondition().Address()
	foo := coin.NewCoin(1, "FOO")

	assert.Nil(t, (&SendMsg{Source: a, Destination: b, Amount: &foo}).Validate())
	assert.IsErr(t, errors.ErrInput, (&SendMsg{Source: a, Amount: &foo}).Validate())
	long := make([]byte, maxMemoSize+1)
	assert.IsErr(t, errors.ErrInput, (&SendMsg{Source: a, Destination: b, Amount: &foo, Memo: string(long)}).Validate())

	msg := &SendMsg{Source: a, Destination: b, Amount: &foo, Memo: "rent"}
	raw, err := msg.Marshal()
	assert.Nil(t, err)
	var got SendMsg
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, msg, &got)
}
