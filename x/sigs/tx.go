package sigs

import (
	"github.com/iov-one/flow/codec"
	"github.com/iov-one/flow/crypto"
	"github.com/iov-one/flow/errors"
)

// SignedTx is a transaction carrying transaction level signatures.
type SignedTx interface {
	// GetSignBytes is the payload every signature covers, usually the
	// serialized message.
	GetSignBytes() ([]byte, error)
	GetSignatures() []*StdSignature
}

// StdSignature signs the payload of a transaction for one sequence of the
// signer's account.
type StdSignature struct {
	Sequence  int64
	Pubkey    *crypto.PublicKey
	Signature *crypto.Signature
}

func (s *StdSignature) Validate() error {
	switch {
	case s.Sequence < 0:
		return errors.Wrapf(ErrInvalidSequence, "sequence %d", s.Sequence)
	case s.Pubkey == nil:
		return errors.Wrap(errors.ErrUnauthorized, "no public key")
	case s.Signature == nil:
		return errors.Wrap(errors.ErrUnauthorized, "no signature")
	}
	return nil
}

func (s *StdSignature) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Int64(1, s.Sequence)
	e.Message(2, s.Pubkey)
	e.Message(4, s.Signature)
	return e.Result()
}

func (s *StdSignature) Unmarshal(raw []byte) error {
	*s = StdSignature{}
	return codec.Decode(raw, func(f codec.Field) (err error) {
		switch f.Num {
		case 1:
			s.Sequence, err = f.Int64()
		case 2:
			s.Pubkey = &crypto.PublicKey{}
			err = f.Message(s.Pubkey)
		case 4:
			s.Signature = &crypto.Signature{}
			err = f.Message(s.Signature)
		}
		return err
	})
}
