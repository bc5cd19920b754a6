// Package crypto holds the key material used to authenticate stream
// operations. Keys and signatures serialize with the module codec so they
// can be embedded in messages and stored on chain.
package crypto

import "github.com/iov-one/flow"

// ExtensionName is the extension of the conditions derived from public
// keys, as in "sigs/ed25519/<key>".
const ExtensionName = "sigs"

// Signer produces signatures without exposing its private key, so that a
// hardware device can stand in for a PrivateKey.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PubKey verifies signatures and names the condition they satisfy.
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() flow.Condition
	Address() flow.Address
}
