package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/flow"
	"github.com/iov-one/flow/crypto"
	"github.com/iov-one/flow/errors"
)

// SignCodeV1 opens every signed message. Changing the framing requires a
// new code.
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// BuildSignBytes frames payload for signing and returns its sha512 digest:
//
//   SignCodeV1 | uint8 len(chainID) | chainID | int64 seq, big endian | payload
//
// Binding the chain id and the sequence makes a signature worthless on any
// other chain and at any other position of the signer's history. The
// digest has a fixed size, which hardware signers require.
func BuildSignBytes(payload []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrapf(ErrInvalidSequence, "negative sequence %d", seq)
	}
	if !flow.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}

	msg := make([]byte, 0, len(SignCodeV1)+1+len(chainID)+8+len(payload))
	msg = append(msg, SignCodeV1...)
	msg = append(msg, byte(len(chainID)))
	msg = append(msg, chainID...)
	var seqBytes [8]byte
	binary.BigEndian.PutUint64(seqBytes[:], uint64(seq))
	msg = append(msg, seqBytes[:]...)
	msg = append(msg, payload...)

	digest := sha512.Sum512(msg)
	return digest[:], nil
}

// BuildSignBytesTx is BuildSignBytes over the sign bytes of tx.
func BuildSignBytesTx(tx SignedTx, chainID string, seq int64) ([]byte, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	return BuildSignBytes(payload, chainID, seq)
}

// SignTx signs tx as the seq-th transaction of signer.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	msg, err := BuildSignBytesTx(tx, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(msg)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return &StdSignature{Pubkey: signer.PublicKey(), Signature: sig, Sequence: seq}, nil
}

// VerifyTxSignatures verifies every signature of tx and advances the
// sequence of each signer. It returns the signer conditions in signature
// order, an unsigned tx yields none. One bad signature fails all of them.
func VerifyTxSignatures(db flow.KVStore, tx SignedTx, chainID string) ([]flow.Condition, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	all := tx.GetSignatures()
	signers := make([]flow.Condition, 0, len(all))
	for i, sig := range all {
		signer, err := VerifySignature(db, sig, payload, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// VerifySignature checks sig over payload and, on success, stores the
// incremented sequence of the signer. The signer account is created on its
// first signature.
func VerifySignature(db flow.KVStore, sig *StdSignature, payload []byte, chainID string) (flow.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	msg, err := BuildSignBytes(payload, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}

	users := NewBucket()
	obj, err := users.GetOrCreate(db, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	user := AsUser(obj)
	if !user.Pubkey.Verify(msg, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "signature does not verify")
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := users.Save(db, obj); err != nil {
		return nil, err
	}
	return user.Pubkey.Condition(), nil
}
