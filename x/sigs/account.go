package sigs

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/codec"
	"github.com/iov-one/flow/crypto"
	"github.com/iov-one/flow/errors"
	"github.com/iov-one/flow/orm"
)

// BucketName prefixes the signing accounts, keyed by public key address.
const BucketName = "sigs"

// maxSequenceValue keeps sequences and nonces within the integer range a
// javascript client represents exactly (2^53 - 1).
const maxSequenceValue = (1 << 53) - 1

// UserData is the signing account of a public key. Sequence counts the
// transactions it has signed.
type UserData struct {
	Pubkey   *crypto.PublicKey
	Sequence int64
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Validate() error {
	switch {
	case u.Sequence < 0:
		return errors.Field("Sequence", ErrInvalidSequence, "negative")
	case u.Sequence > 0 && u.Pubkey == nil:
		return errors.Field("Sequence", ErrInvalidSequence, "needs Pubkey")
	}
	return nil
}

func (u *UserData) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, u.Pubkey)
	e.Int64(2, u.Sequence)
	return e.Result()
}

func (u *UserData) Unmarshal(raw []byte) error {
	*u = UserData{}
	return codec.Decode(raw, func(f codec.Field) (err error) {
		switch f.Num {
		case 1:
			u.Pubkey = new(crypto.PublicKey)
			err = f.Message(u.Pubkey)
		case 2:
			u.Sequence, err = f.Int64()
		}
		return err
	})
}

// CheckAndIncrementSequence advances the sequence when it equals expected.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "want %d, got %d", u.Sequence, expected)
	}
	if u.Sequence >= maxSequenceValue {
		return errors.Wrapf(errors.ErrOverflow, "sequence %d", u.Sequence)
	}
	u.Sequence++
	return nil
}

// AsUser returns the account held by obj, or nil.
func AsUser(obj orm.Object) *UserData {
	if obj == nil {
		return nil
	}
	u, _ := obj.Value().(*UserData)
	return u
}

// NewUser returns a fresh account object of pubkey. A nil pubkey gives the
// prototype used by the bucket.
func NewUser(pubkey *crypto.PublicKey) orm.Object {
	var addr flow.Address
	if pubkey != nil {
		addr = pubkey.Address()
	}
	return orm.NewSimpleObj(addr, &UserData{Pubkey: pubkey})
}

// Bucket stores signing accounts.
type Bucket struct {
	orm.Bucket
}

func NewBucket() Bucket {
	return Bucket{Bucket: orm.NewBucket(BucketName, NewUser(nil))}
}

// GetOrCreate loads the account of pubkey, or returns a new one at
// sequence 0 that is not stored yet.
func (b Bucket) GetOrCreate(db flow.ReadOnlyKVStore, pubkey *crypto.PublicKey) (orm.Object, error) {
	obj, err := b.Get(db, pubkey.Address())
	if err != nil {
		return nil, err
	}
	if obj == nil {
		obj = NewUser(pubkey)
	}
	return obj, nil
}

// NextSequence is the sequence the next transaction signed by signer must
// carry. Unknown signers start at 0.
func NextSequence(db flow.ReadOnlyKVStore, signer flow.Address) (int64, error) {
	obj, err := NewBucket().Get(db, signer)
	if err != nil {
		return 0, errors.Wrap(err, "load account")
	}
	if u := AsUser(obj); u != nil {
		return u.Sequence, nil
	}
	return 0, nil
}
