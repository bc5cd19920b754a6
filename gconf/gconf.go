package gconf

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/errors"
)

// ReadStore is the part of a flow.ReadOnlyKVStore that Load needs.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is the part of a flow.KVStore that Save needs.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

type ValidMarshaler interface {
	Marshal() ([]byte, error)
	Validate() error
}

type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Configuration is implemented by the configuration model of an extension.
type Configuration interface {
	ValidMarshaler
	Unmarshaler
}

const keyPrefix = "_c:"

func dbKey(pkg string) []byte {
	return append([]byte(keyPrefix), pkg...)
}

// Save writes src as the configuration of pkg. Invalid values are refused.
func Save(db Store, pkg string, src ValidMarshaler) error {
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "configuration %q", pkg)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal configuration %q", pkg)
	}
	return db.Set(dbKey(pkg), raw)
}

// Load reads the configuration of pkg into dst. ErrNotFound means nothing
// was saved for pkg.
func Load(db ReadStore, pkg string, dst Unmarshaler) error {
	raw, err := db.Get(dbKey(pkg))
	switch {
	case err != nil:
		return err
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "configuration %q", pkg)
	}
	return errors.Wrapf(dst.Unmarshal(raw), "unmarshal configuration %q", pkg)
}

// InitConfig decodes the genesis section conf.<pkg> into conf and saves it.
// ErrNotFound is returned when the section is absent so that callers can
// fall back to defaults.
func InitConfig(db Store, opts flow.Options, pkg string, conf Configuration) error {
	var sections flow.Options
	if err := opts.ReadOptions("conf", &sections); err != nil {
		return errors.Wrapf(errors.ErrInput, "conf section: %s", err)
	}
	if len(sections[pkg]) == 0 {
		return errors.Wrapf(errors.ErrNotFound, "genesis has no %q configuration", pkg)
	}
	if err := sections.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(errors.ErrInput, "%q configuration: %s", pkg, err)
	}
	return Save(db, pkg, conf)
}
