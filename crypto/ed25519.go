package crypto

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/codec"
	"github.com/iov-one/flow/errors"
	"golang.org/x/crypto/ed25519"
)

// PublicKey is a serializable public key. Ed25519 is the only supported
// algorithm.
type PublicKey struct {
	Ed25519 []byte
}

// PrivateKey is a serializable private key.
type PrivateKey struct {
	Ed25519 []byte
}

// Signature is a serializable signature.
type Signature struct {
	Ed25519 []byte
}

var _ PubKey = (*PublicKey)(nil)

// Verify verifies the signature was created with this message and public key
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	if p == nil || sig == nil || len(p.Ed25519) != ed25519.PublicKeySize {
		return false
	}
	if len(sig.Ed25519) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, sig.Ed25519)
}

// Condition encodes the public key into a flow condition
func (p *PublicKey) Condition() flow.Condition {
	if p == nil || len(p.Ed25519) == 0 {
		return nil
	}
	return flow.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address returns the identity controlled by this key.
func (p *PublicKey) Address() flow.Address {
	return p.Condition().Address()
}

// Validate checks the key length.
func (p *PublicKey) Validate() error {
	if p == nil || len(p.Ed25519) == 0 {
		return errors.Wrap(errors.ErrEmpty, "public key")
	}
	if len(p.Ed25519) != ed25519.PublicKeySize {
		return errors.Wrapf(errors.ErrInput, "public key must be %d bytes", ed25519.PublicKeySize)
	}
	return nil
}

func (p *PublicKey) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Bytes(1, p.Ed25519)
	return e.Result()
}

func (p *PublicKey) Unmarshal(raw []byte) error {
	*p = PublicKey{}
	return codec.Decode(raw, func(f codec.Field) (err error) {
		if f.Num == 1 {
			p.Ed25519, err = f.Bytes()
		}
		return err
	})
}

var _ Signer = (*PrivateKey)(nil)

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	if len(p.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrState, "invalid private key")
	}
	bz := ed25519.Sign(ed25519.PrivateKey(p.Ed25519), message)
	return &Signature{Ed25519: bz}, nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := ed25519.PrivateKey(p.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

func (p *PrivateKey) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Bytes(1, p.Ed25519)
	return e.Result()
}

func (p *PrivateKey) Unmarshal(raw []byte) error {
	*p = PrivateKey{}
	return codec.Decode(raw, func(f codec.Field) (err error) {
		if f.Num == 1 {
			p.Ed25519, err = f.Bytes()
		}
		return err
	})
}

// Validate checks the signature length.
func (s *Signature) Validate() error {
	if s == nil || len(s.Ed25519) == 0 {
		return errors.Wrap(errors.ErrEmpty, "signature")
	}
	if len(s.Ed25519) != ed25519.SignatureSize {
		return errors.Wrapf(errors.ErrInput, "signature must be %d bytes", ed25519.SignatureSize)
	}
	return nil
}

func (s *Signature) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Bytes(1, s.Ed25519)
	return e.Result()
}

func (s *Signature) Unmarshal(raw []byte) error {
	*s = Signature{}
	return codec.Decode(raw, func(f codec.Field) (err error) {
		if f.Num == 1 {
			s.Ed25519, err = f.Bytes()
		}
		return err
	})
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	priv := ed25519.NewKeyFromSeed(seed)
	return &PrivateKey{Ed25519: priv}
}
