package flowtest

import (
	"encoding/binary"

	"github.com/iov-one/flow"
	"github.com/iov-one/flow/crypto"
)

// NewKey returns a fresh random private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the condition of a fresh random key.
func NewCondition() flow.Condition {
	return NewKey().PublicKey().Condition()
}

// SequenceID returns an 8 byte big endian representation of n, the format
// used by orm sequences.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
