package orm

import (
	"github.com/iov-one/flow/codec"
	"github.com/iov-one/flow/errors"
)

// counter is a minimal model used across the orm tests.
type counter struct {
	Owner []byte
	Count int64
}

func (c *counter) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Bytes(1, c.Owner)
	e.Int64(2, c.Count)
	return e.Result()
}

func (c *counter) Unmarshal(raw []byte) error {
	*c = counter{}
	return codec.Decode(raw, func(f codec.Field) error {
		var err error
		switch f.Num {
		case 1:
			c.Owner, err = f.Bytes()
		case 2:
			c.Count, err = f.Int64()
		}
		return err
	})
}

func (c *counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrModel, "negative count")
	}
	return nil
}

func newCounter(key string, owner string, count int64) Object {
	var o []byte
	if owner != "" {
		o = []byte(owner)
	}
	return NewSimpleObj([]byte(key), &counter{Owner: o, Count: count})
}

func ownerIndexer(obj Object) ([]byte, error) {
	c, ok := obj.Value().(*counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return c.Owner, nil
}
