package sigs

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/codec"
	"github.com/iov-one/flow/crypto"
	"github.com/iov-one/flow/errors"
)

// Credential authorizes a single instruction. Exactly one of the two forms
// must be set.
//
// Invoker is a self-authorized credential, naming the address that must be
// among the authenticated transaction signers.
//
// Delegated carries a signature created by the owner of the public key over
// the instruction, allowing anyone to submit it on their behalf.
type Credential struct {
	Invoker   flow.Address
	Delegated *Delegated
}

// Delegated is a third-party signed credential.
type Delegated struct {
	Pubkey    *crypto.PublicKey
	Signature *crypto.Signature
}

// NewInvoker returns a self-authorized credential for the given address.
func NewInvoker(addr flow.Address) *Credential {
	return &Credential{Invoker: addr}
}

// NewDelegated signs the instruction identified by tag and payload for the
// given nonce and returns a credential carrying that signature.
func NewDelegated(signer crypto.Signer, tag, chainID string, nonce int64, payload []byte) (*Credential, error) {
	bz, err := BuildInstructionSignBytes(tag, chainID, nonce, payload)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(bz)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return &Credential{
		Delegated: &Delegated{
			Pubkey:    signer.PublicKey(),
			Signature: sig,
		},
	}, nil
}

// IsInvoker returns true for a self-authorized credential.
func (c *Credential) IsInvoker() bool {
	return c != nil && c.Delegated == nil
}

// Identity returns the address on whose behalf the instruction is executed.
func (c *Credential) Identity() flow.Address {
	if c == nil {
		return nil
	}
	if c.Delegated != nil {
		return c.Delegated.Pubkey.Address()
	}
	return c.Invoker
}

// Validate ensures exactly one credential form is present and well formed.
func (c *Credential) Validate() error {
	if c == nil {
		return errors.Wrap(errors.ErrEmpty, "credential")
	}
	switch {
	case c.Delegated != nil && len(c.Invoker) != 0:
		return errors.Wrap(errors.ErrInput, "invoker and delegated are exclusive")
	case c.Delegated != nil:
		return c.Delegated.Validate()
	default:
		return errors.AppendField(nil, "Invoker", c.Invoker.Validate())
	}
}

func (c *Credential) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Bytes(1, c.Invoker)
	e.Message(2, c.Delegated)
	return e.Result()
}

func (c *Credential) Unmarshal(raw []byte) error {
	*c = Credential{}
	return codec.Decode(raw, func(f codec.Field) (err error) {
		switch f.Num {
		case 1:
			var b []byte
			b, err = f.Bytes()
			c.Invoker = b
		case 2:
			c.Delegated = &Delegated{}
			err = f.Message(c.Delegated)
		}
		return err
	})
}

// Validate checks that both the key and the signature are present.
func (d *Delegated) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Pubkey", d.Pubkey.Validate())
	errs = errors.AppendField(errs, "Signature", d.Signature.Validate())
	return errs
}

func (d *Delegated) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, d.Pubkey)
	e.Message(2, d.Signature)
	return e.Result()
}

func (d *Delegated) Unmarshal(raw []byte) error {
	*d = Delegated{}
	return codec.Decode(raw, func(f codec.Field) (err error) {
		switch f.Num {
		case 1:
			d.Pubkey = &crypto.PublicKey{}
			err = f.Message(d.Pubkey)
		case 2:
			d.Signature = &crypto.Signature{}
			err = f.Message(d.Signature)
		}
		return err
	})
}

// BuildInstructionSignBytes returns the bytes a Delegated credential signs.
// The instruction tag is prefixed to the payload, separated by a zero byte,
// and the result is framed the same way as transaction sign bytes.
func BuildInstructionSignBytes(tag, chainID string, nonce int64, payload []byte) ([]byte, error) {
	if tag == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "tag")
	}
	msg := make([]byte, 0, len(tag)+1+len(payload))
	msg = append(msg, tag...)
	msg = append(msg, 0)
	msg = append(msg, payload...)
	return BuildSignBytes(msg, chainID, nonce)
}
