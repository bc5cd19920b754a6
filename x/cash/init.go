package cash

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/coin"
	"github.com/iov-one/flow/errors"
)

const optKey = "cash"

// GenesisAccount is one entry of the "cash" genesis list. The address is
// written in any form flow.ParseAddress accepts.
type GenesisAccount struct {
	Address flow.Address `json:"address"`
	Coins   coin.Coins   `json:"coins"`
}

// Initializer funds the genesis accounts.
type Initializer struct{}

var _ flow.Initializer = Initializer{}

func (Initializer) FromGenesis(opts flow.Options, db flow.KVStore) error {
	var accounts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accounts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	wallets := NewBucket()
	for i, a := range accounts {
		if err := a.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		w, err := FundedWallet(a.Address, a.Coins...)
		if err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if err := wallets.Save(db, w); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
