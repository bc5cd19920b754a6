package utils

import (
	"github.com/tendermint/tendermint/libs/common"

	"github.com/iov-one/flow"
)

// ActionKey is the tag key under which the message path is reported.
const ActionKey = "action"

// ActionTagger tags every successfully delivered transaction with
// action=<message path>, so that clients can subscribe to stream events.
type ActionTagger struct{}

var _ flow.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx flow.Context, db flow.KVStore, tx flow.Tx, next flow.Checker) (*flow.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver fails before calling next when the message cannot be read.
func (ActionTagger) Deliver(ctx flow.Context, db flow.KVStore, tx flow.Tx, next flow.Deliverer) (*flow.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	tag := common.KVPair{Key: []byte(ActionKey), Value: []byte(msg.Path())}
	res.Tags = append(res.Tags, tag)
	return res, nil
}
