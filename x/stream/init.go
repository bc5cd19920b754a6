package stream

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/errors"
	"github.com/iov-one/flow/gconf"
)

// Initializer fulfils the Initializer interface to load the stream
// configuration from the "conf" section of the genesis file. Without it the
// defaults apply.
type Initializer struct{}

var _ flow.Initializer = Initializer{}

// FromGenesis saves the stream configuration, if present.
func (Initializer) FromGenesis(opts flow.Options, db flow.KVStore) error {
	var conf Configuration
	err := gconf.InitConfig(db, opts, confName, &conf)
	if err != nil && !errors.ErrNotFound.Is(err) {
		return err
	}
	return nil
}
