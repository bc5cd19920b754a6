package stream

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/coin"
	"github.com/iov-one/flow/errors"
)

// Bank moves value between accounts. A transfer is atomic, the whole amount
// is moved or nothing at all. cash.BaseController is the default
// implementation.
type Bank interface {
	MoveCoins(db flow.KVStore, src, dst flow.Address, amount coin.Coin) error
}

// Escrow returns the address of the account holding the funds of the stream
// with the given id. No key controls it, only this extension moves funds
// out of it.
func Escrow(id uint64) flow.Address {
	return flow.NewCondition("stream", "seq", idKey(id)).Address()
}

// Controller gives access to streams and the funds they escrow.
type Controller struct {
	registry Registry
	bank     Bank
}

// NewController returns a controller moving funds with the given bank.
func NewController(bank Bank) Controller {
	return Controller{
		registry: NewRegistry(),
		bank:     bank,
	}
}

// GetStream returns the terms and the ledger of a stream.
func (c Controller) GetStream(db flow.ReadOnlyKVStore, id uint64) (*Stream, *StreamData, error) {
	return c.registry.Get(db, id)
}

// Deposit moves the whole stream amount from the payer into the escrow of
// the stream with the given id.
func (c Controller) Deposit(db flow.KVStore, id uint64, s *Stream) error {
	return c.transfer(db, s.From, Escrow(id), s.Coin())
}

// Release moves funds out of the escrow of a stream to the given
// destination.
func (c Controller) Release(db flow.KVStore, id uint64, dst flow.Address, amount coin.Coin) error {
	return c.transfer(db, Escrow(id), dst, amount)
}

// transfer is a no-op for a zero amount.
func (c Controller) transfer(db flow.KVStore, src, dst flow.Address, amount coin.Coin) error {
	if amount.IsZero() {
		return nil
	}
	if err := c.bank.MoveCoins(db, src, dst, amount); err != nil {
		return errors.Wrapf(err, "transfer %s", amount)
	}
	return nil
}
