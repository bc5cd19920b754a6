package cash

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/coin"
	"github.com/iov-one/flow/errors"
)

// Controller is what the send handler needs from the wallet store.
type Controller interface {
	CoinMover
	Balance(flow.ReadOnlyKVStore, flow.Address) (coin.Coins, error)
}

// CoinMover transfers funds between addresses. A transfer moves the whole
// amount or fails without changes.
type CoinMover interface {
	MoveCoins(db flow.KVStore, src, dst flow.Address, amount coin.Coin) error
}

// CoinIssuer creates funds out of nothing, used by genesis and tests.
type CoinIssuer interface {
	IssueCoins(db flow.KVStore, dst flow.Address, amount coin.Coin) error
}

// BaseController keeps balances in a wallet bucket.
type BaseController struct {
	wallets Bucket
}

var (
	_ Controller = BaseController{}
	_ CoinIssuer = BaseController{}
)

func NewController(wallets Bucket) BaseController {
	return BaseController{wallets: wallets}
}

// Balance fails with ErrNotFound for an address without a wallet.
func (c BaseController) Balance(db flow.ReadOnlyKVStore, addr flow.Address) (coin.Coins, error) {
	w, err := c.wallets.Get(db, addr)
	if err != nil {
		return nil, errors.Wrap(err, "load wallet")
	}
	if w == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "wallet %s", addr)
	}
	return w.Coins(), nil
}

// MoveCoins debits src and credits dst with a positive amount. Moving to
// the same address leaves the balance unchanged.
func (c BaseController) MoveCoins(db flow.KVStore, src, dst flow.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "transfer of %s", amount)
	}
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}

	from, err := c.wallets.Get(db, src)
	if err != nil {
		return errors.Wrap(err, "load source")
	}
	if from == nil {
		return errors.Wrapf(errors.ErrEmpty, "no wallet %s", src)
	}
	if !from.Coins().Contains(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s holds less than %s", src, amount)
	}
	if err := from.Subtract(amount); err != nil {
		return err
	}
	if err := c.wallets.Save(db, from); err != nil {
		return errors.Wrap(err, "save source")
	}

	// read after the debit is stored, so src == dst round trips
	to, err := c.wallets.GetOrCreate(db, dst)
	if err != nil {
		return errors.Wrap(err, "load destination")
	}
	if err := to.Add(amount); err != nil {
		return err
	}
	return c.wallets.Save(db, to)
}

// IssueCoins credits dst with amount, which may be negative to burn funds.
func (c BaseController) IssueCoins(db flow.KVStore, dst flow.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	to, err := c.wallets.GetOrCreate(db, dst)
	if err != nil {
		return err
	}
	if err := to.Add(amount); err != nil {
		return err
	}
	return c.wallets.Save(db, to)
}
