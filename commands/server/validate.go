package server

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/app"
	"github.com/iov-one/flow/errors"
	"github.com/iov-one/flow/store"
)

// ValidateGenesis loads the app_state of every given genesis file into an
// in memory store and returns the first error found.
func ValidateGenesis(ini flow.Initializer, genesisPaths []string) error {
	if len(genesisPaths) == 0 {
		return errors.Wrap(errors.ErrInput, "no genesis file given")
	}
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini flow.Initializer, genesisPath string) error {
	gen, err := app.LoadGenesis(genesisPath)
	if err != nil {
		return err
	}
	if !flow.IsValidChainID(gen.ChainID) {
		return errors.Wrapf(errors.ErrInput, "invalid chain id %q", gen.ChainID)
	}

	// Use in memory store because we want to discard the result.
	db := store.MemStore()
	if err := ini.FromGenesis(gen.AppState, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}
