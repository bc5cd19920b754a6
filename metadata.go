package flow

import (
	"github.com/iov-one/flow/codec"
	"github.com/iov-one/flow/errors"
)

// Metadata is embedded in every persisted model. The schema version allows
// a later release to recognize and migrate old records. It also guarantees
// that a serialized model is never empty, even if all its other fields hold
// zero values.
type Metadata struct {
	Schema uint32 `json:"schema"`
}

// Copy returns a copy of this object.
func (m *Metadata) Copy() *Metadata {
	cpy := *m
	return &cpy
}

// Validate requires a schema version to be declared.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMetadata, "missing")
	}
	if m.Schema < 1 {
		return errors.Wrap(errors.ErrMetadata, "schema version must be declared")
	}
	return nil
}

func (m *Metadata) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Uint64(1, uint64(m.Schema))
	return e.Result()
}

func (m *Metadata) Unmarshal(raw []byte) error {
	*m = Metadata{}
	return codec.Decode(raw, func(f codec.Field) error {
		if f.Num != 1 {
			return nil
		}
		v, err := f.Uint64()
		m.Schema = uint32(v)
		return err
	})
}
