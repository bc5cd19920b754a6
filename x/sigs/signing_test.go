package sigs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/flow/crypto"
	"github.com/iov-one/flow/errors"
	"github.com/iov-one/flow/store"
)

func TestBuildSignBytes(t *testing.T) {
	const chainID = "flow-sign-test"
	payload := []byte("create stream 7")

	base, err := BuildSignBytes(payload, chainID, 3)
	require.NoError(t, err)
	fromTx, err := BuildSignBytesTx(NewStdTx(payload), chainID, 3)
	require.NoError(t, err)
	assert.Equal(t, base, fromTx)
	assert.Len(t, base, 64)

	variants := map[string]struct {
		payload []byte
		chainID string
		seq     int64
	}{
		"other payload": {payload: []byte("create stream 8"), chainID: chainID, seq: 3},
		"other chain":   {payload: payload, chainID: chainID + "x", seq: 3},
		"other seq":     {payload: payload, chainID: chainID, seq: 4},
	}
	for name, v := range variants {
		t.Run(name, func(t *testing.T) {
			got, err := BuildSignBytes(v.payload, v.chainID, v.seq)
			require.NoError(t, err)
			assert.NotEqual(t, base, got)
		})
	}

	_, err = BuildSignBytes(payload, chainID, -1)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = BuildSignBytes(payload, "x", 1)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestVerifySignature(t *testing.T) {
	const chainID = "flow-verify-test"
	db := store.MemStore()
	key := crypto.GenPrivKeyEd25519()
	payload := []byte("withdraw 50 IOV")
	tx := NewStdTx(payload)

	first, err := SignTx(key, tx, chainID, 0)
	require.NoError(t, err)
	second, err := SignTx(key, tx, chainID, 1)
	require.NoError(t, err)

	cases := []struct {
		name    string
		sig     *StdSignature
		payload []byte
		chainID string
		wantErr *errors.Error
	}{
		{"empty signature", new(StdSignature), payload, chainID, errors.ErrUnauthorized},
		{"signed for another chain", first, payload, "other-chain", errors.ErrUnauthorized},
		{"sequence from the future", second, payload, chainID, ErrInvalidSequence},
		{"first use", first, payload, chainID, nil},
		{"replay", first, payload, chainID, ErrInvalidSequence},
		{"tampered payload", second, []byte("withdraw 5000 IOV"), chainID, errors.ErrUnauthorized},
		{"next in line", second, payload, chainID, nil},
	}
	// steps share the store and run in order
	for _, tc := range cases {
		signer, err := VerifySignature(db, tc.sig, tc.payload, tc.chainID)
		if !tc.wantErr.Is(err) {
			t.Fatalf("%s: want %v, got %+v", tc.name, tc.wantErr, err)
		}
		if err == nil {
			assert.Equal(t, key.PublicKey().Condition(), signer, tc.name)
		}
	}

	next, err := NextSequence(db, key.PublicKey().Address())
	require.NoError(t, err)
	assert.EqualValues(t, 2, next)
}

func TestVerifyTxSignatures(t *testing.T) {
	const chainID = "flow-multisig-test"
	db := store.MemStore()
	alice := crypto.GenPrivKeyEd25519()
	bobby := crypto.GenPrivKeyEd25519()
	tx := NewStdTx([]byte("cancel stream 2"))

	signers, err := VerifyTxSignatures(db, tx, chainID)
	require.NoError(t, err)
	assert.Empty(t, signers)

	a0, err := SignTx(alice, tx, chainID, 0)
	require.NoError(t, err)
	b0, err := SignTx(bobby, tx, chainID, 0)
	require.NoError(t, err)
	tx.Signatures = []*StdSignature{a0, b0}

	signers, err = VerifyTxSignatures(db, tx, chainID)
	require.NoError(t, err)
	require.Len(t, signers, 2)
	assert.Equal(t, alice.PublicKey().Condition(), signers[0])
	assert.Equal(t, bobby.PublicKey().Condition(), signers[1])

	// bobby replays sequence 0, so the whole tx is rejected
	a1, err := SignTx(alice, tx, chainID, 1)
	require.NoError(t, err)
	tx.Signatures = []*StdSignature{a1, b0}
	_, err = VerifyTxSignatures(db, tx, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))
}
