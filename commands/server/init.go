package server

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/flow/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagOverwrite = "i"
)

// GenOptions can parse command line arguments to generate default
// app_state for the genesis file. This is application specific.
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

// InitCmd adds app_state to the genesis file created by `tendermint init`
// in the given home directory. An existing app_state is kept unless -i is
// given.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	var overwrite bool
	initFlags := flag.NewFlagSet("init", flag.ContinueOnError)
	initFlags.BoolVar(&overwrite, flagOverwrite, false, "overwrite an existing app_state")
	if err := initFlags.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	genFile := filepath.Join(home, "config", "genesis.json")
	doc, err := readGenesis(genFile)
	if err != nil {
		return err
	}
	if state, ok := doc["app_state"]; ok && len(state) > 0 && string(state) != "null" && !overwrite {
		return errors.Wrapf(errors.ErrDuplicate, "app_state already set in %s, use -i to overwrite", genFile)
	}

	options, err := gen(initFlags.Args())
	if err != nil {
		return err
	}
	if !json.Valid(options) {
		return errors.Wrap(errors.ErrInput, "generated app_state is not valid JSON")
	}
	doc["app_state"] = options

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := ioutil.WriteFile(genFile, out, 0600); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	logger.Info("App state written to genesis", "path", genFile)
	return nil
}

func readGenesis(genFile string) (GenesisDoc, error) {
	bz, err := ioutil.ReadFile(genFile)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrNotFound,
			fmt.Sprintf("%s does not exist, run `tendermint init` first", genFile))
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid genesis file: %s", err)
	}
	return doc, nil
}
