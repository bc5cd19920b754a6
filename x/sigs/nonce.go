package sigs

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/codec"
	"github.com/iov-one/flow/errors"
	"github.com/iov-one/flow/orm"
)

// NonceBucketName is where the instruction nonces are stored, keyed by
// identity address.
const NonceBucketName = "nonce"

// Nonce is the replay protection counter of a single identity. It holds the
// value that the next delegated instruction of that identity must carry.
type Nonce struct {
	Value int64
}

var _ orm.Model = (*Nonce)(nil)

func (n *Nonce) Validate() error {
	if n.Value < 0 || n.Value > maxSequenceValue {
		return errors.Field("Value", errors.ErrOverflow, "nonce out of range")
	}
	return nil
}

func (n *Nonce) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Int64(1, n.Value)
	return e.Result()
}

func (n *Nonce) Unmarshal(raw []byte) error {
	*n = Nonce{}
	return codec.Decode(raw, func(f codec.Field) (err error) {
		if f.Num == 1 {
			n.Value, err = f.Int64()
		}
		return err
	})
}

// NonceBucket stores a Nonce per identity.
type NonceBucket struct {
	orm.Bucket
}

// NewNonceBucket returns a bucket for managing instruction nonces.
func NewNonceBucket() NonceBucket {
	return NonceBucket{
		Bucket: orm.NewBucket(NonceBucketName, orm.NewSimpleObj(nil, &Nonce{})),
	}
}

// Current returns the nonce expected from the next delegated instruction of
// the given identity. Unknown identities start at zero.
func (b NonceBucket) Current(db flow.ReadOnlyKVStore, id flow.Address) (int64, error) {
	obj, err := b.Get(db, id)
	if err != nil {
		return 0, errors.Wrap(err, "bucket get")
	}
	if obj == nil {
		return 0, nil
	}
	return obj.Value().(*Nonce).Value, nil
}

// CheckAndIncrement consumes the nonce of the given identity. It fails with
// ErrIncorrectNonce and leaves the store untouched unless nonce is exactly
// the stored value.
func (b NonceBucket) CheckAndIncrement(db flow.KVStore, id flow.Address, nonce int64) error {
	current, err := b.Current(db, id)
	if err != nil {
		return err
	}
	if nonce != current {
		return errors.Wrapf(ErrIncorrectNonce, "expected %d, got %d", current, nonce)
	}
	next := current + 1
	if next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "nonce out of range")
	}
	obj := orm.NewSimpleObj(id, &Nonce{Value: next})
	if err := b.Save(db, obj); err != nil {
		return errors.Wrap(err, "save nonce")
	}
	return nil
}

// NextNonce returns the numeric nonce value that should be used when signing
// the next delegated instruction of the given identity.
func NextNonce(db flow.ReadOnlyKVStore, id flow.Address) (int64, error) {
	return NewNonceBucket().Current(db, id)
}
