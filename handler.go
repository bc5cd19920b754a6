package flow

import (
	"encoding/json"
)

// Checker validates a transaction cheaply, without committing to it.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer executes a transaction that made it into a block.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Handler processes the messages of one or a few paths, for example
// creating or withdrawing from a stream.
type Handler interface {
	Checker
	Deliverer
}

// Decorator runs around the next handler of a chain. It may change the
// context or the store it passes on, or refuse to call next at all.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds message types to their handler.
type Registry interface {
	Handle(m Msg, h Handler)
}

// Options is the app_state of the genesis file, one raw JSON section per
// key.
type Options map[string]json.RawMessage

// ReadOptions decodes the section key into obj. A missing section leaves
// obj untouched and is not an error.
func (o Options) ReadOptions(key string, obj interface{}) error {
	if raw := o[key]; len(raw) != 0 {
		return json.Unmarshal(raw, obj)
	}
	return nil
}

// Initializer loads the genesis state of an extension.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// ChainInitializers runs its members in order and stops at the first
// error.
type ChainInitializers []Initializer

var _ Initializer = ChainInitializers{}

func (c ChainInitializers) FromGenesis(opts Options, db KVStore) error {
	for _, init := range c {
		if err := init.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}
