package app

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/iov-one/flow"
	flowapp "github.com/iov-one/flow/app"
	"github.com/iov-one/flow/coin"
	"github.com/iov-one/flow/crypto"
	"github.com/iov-one/flow/errors"
	"github.com/iov-one/flow/flowtest"
	"github.com/iov-one/flow/flowtest/assert"
	"github.com/iov-one/flow/store"
	"github.com/iov-one/flow/x/cash"
	"github.com/iov-one/flow/x/sigs"
	"github.com/iov-one/flow/x/stream"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const chainID = "flow-test-chain"

func TestStreamLifecycle(t *testing.T) {
	payer := flowtest.NewKey()
	payee := flowtest.NewKey()
	payerAddr := payer.PublicKey().Address()
	payeeAddr := payee.PublicKey().Address()

	application, err := GenerateApp("", log.NewNopLogger(), true, prometheus.NewRegistry())
	assert.Nil(t, err)
	runner := flowtest.NewRunner(t, application, chainID, time.Unix(1000, 0))
	runner.InitChain(genesis(payerAddr, 100))

	wallets := cash.NewController(cash.NewBucket())
	balance := func(addr flow.Address) int64 {
		t.Helper()
		coins, err := wallets.Balance(runner, addr)
		if errors.ErrNotFound.Is(err) {
			return 0
		}
		assert.Nil(t, err)
		var total int64
		for _, c := range coins {
			total += c.Amount
		}
		return total
	}
	assert.Equal(t, int64(100), balance(payerAddr))

	terms := &stream.Stream{
		Metadata:    &flow.Metadata{Schema: 1},
		From:        payerAddr,
		To:          payeeAddr,
		Amount:      100,
		StartTime:   1100,
		EndTime:     1200,
		TickTime:    10,
		Asset:       "IOV",
		Cancellable: true,
	}

	var id uint64
	runner.InBlock(func(a flowtest.BlockApp) error {
		data, err := a.DeliverTx(signedTx(t, payer, 0, &stream.CreateMsg{
			Credential: sigs.NewInvoker(payerAddr),
			Stream:     terms,
		}))
		if err != nil {
			return err
		}
		id, err = stream.DecodeID(data)
		return err
	})
	assert.Equal(t, uint64(0), id)
	assert.Equal(t, int64(0), balance(payerAddr))
	assert.Equal(t, int64(100), balance(stream.Escrow(id)))

	idKey := flowtest.SequenceID(id)
	withdraw := &stream.WithdrawMsg{
		Credential: delegated(t, payee, "w_stream", 0, idKey),
		StreamID:   id,
	}
	runner.InBlockAt(time.Unix(1150, 0), func(a flowtest.BlockApp) error {
		// Anyone can relay a delegated instruction.
		if _, err := a.DeliverTx(unsignedTx(t, withdraw)); err != nil {
			return err
		}
		_, err := a.DeliverTx(unsignedTx(t, withdraw))
		assert.IsErr(t, sigs.ErrIncorrectNonce, err)
		return nil
	})
	assert.Equal(t, int64(50), balance(payeeAddr))
	assert.Equal(t, int64(50), balance(stream.Escrow(id)))

	runner.InBlockAt(time.Unix(1160, 0), func(a flowtest.BlockApp) error {
		_, err := a.DeliverTx(signedTx(t, payer, 1, &stream.CancelMsg{
			Credential: sigs.NewInvoker(payerAddr),
			StreamID:   id,
		}))
		return err
	})
	assert.Equal(t, int64(50), balance(payerAddr))
	assert.Equal(t, int64(50), balance(payeeAddr))
	assert.Equal(t, int64(0), balance(stream.Escrow(id)))

	runner.InBlockAt(time.Unix(1300, 0), func(a flowtest.BlockApp) error {
		_, err := a.DeliverTx(unsignedTx(t, &stream.WithdrawMsg{
			Credential: delegated(t, payee, "w_stream", 1, idKey),
			StreamID:   id,
		}))
		assert.IsErr(t, stream.ErrStreamCancelled, err)
		return nil
	})

	// The failed withdraw did not consume the nonce.
	nonce, err := sigs.NextNonce(runner, payeeAddr)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), nonce)

	res := application.Query(abci.RequestQuery{Path: "/streams/payer", Data: payerAddr})
	assert.Equal(t, uint32(0), res.Code)
	var keys flowapp.ResultSet
	assert.Nil(t, keys.Unmarshal(res.Key))
	assert.Equal(t, [][]byte{append([]byte("stream:"), idKey...)}, keys.Results)

	res = application.Query(abci.RequestQuery{Path: "/streamdata", Data: idKey})
	var ledger stream.StreamData
	assert.Nil(t, flowapp.UnmarshalOneResult(res.Value, &ledger))
	assert.Equal(t, int64(50), ledger.Withdrawn)
	assert.Equal(t, int64(50), ledger.Refunded)
	assert.Equal(t, true, ledger.Cancelled)
}

func TestCheckTxDoesNotChangeState(t *testing.T) {
	payer := flowtest.NewKey()
	payerAddr := payer.PublicKey().Address()

	application, err := GenerateApp("", log.NewNopLogger(), false, nil)
	assert.Nil(t, err)
	runner := flowtest.NewRunner(t, application, chainID, time.Unix(1000, 0))
	runner.InitChain(genesis(payerAddr, 10))

	create := signedTx(t, payer, 0, &stream.CreateMsg{
		Credential: sigs.NewInvoker(payerAddr),
		Stream: &stream.Stream{
			Metadata:  &flow.Metadata{Schema: 1},
			From:      payerAddr,
			To:        flowtest.NewCondition().Address(),
			Amount:    10,
			StartTime: 1100,
			EndTime:   1200,
			TickTime:  10,
			Asset:     "IOV",
		},
	})
	changed := runner.InBlock(func(a flowtest.BlockApp) error {
		return a.CheckTx(create)
	})
	if changed {
		t.Fatal("check must not change the committed state")
	}

	// A message carrying a credential that no transaction signer backs is
	// refused.
	runner.InBlock(func(a flowtest.BlockApp) error {
		_, err := a.DeliverTx(unsignedTx(t, &stream.CancelMsg{
			Credential: sigs.NewInvoker(payerAddr),
			StreamID:   0,
		}))
		assert.IsErr(t, stream.ErrStreamNotExist, err)

		_, err = a.DeliverTx(unsignedTx(t, &stream.CreateMsg{
			Credential: sigs.NewInvoker(payerAddr),
			Stream:     create.CreateStreamMsg.Stream,
		}))
		assert.IsErr(t, errors.ErrUnauthorized, err)
		return nil
	})
}

func TestFailedDelegatedCreateRollsBack(t *testing.T) {
	payer := flowtest.NewKey()
	payerAddr := payer.PublicKey().Address()

	application, err := GenerateApp("", log.NewNopLogger(), false, nil)
	assert.Nil(t, err)
	runner := flowtest.NewRunner(t, application, chainID, time.Unix(1000, 0))
	runner.InitChain(genesis(payerAddr, 10))

	terms := &stream.Stream{
		Metadata:  &flow.Metadata{Schema: 1},
		From:      payerAddr,
		To:        flowtest.NewCondition().Address(),
		Amount:    100,
		StartTime: 1100,
		EndTime:   1200,
		TickTime:  10,
		Asset:     "IOV",
	}
	payload, err := terms.Marshal()
	assert.Nil(t, err)

	// The nonce is consumed before the payer turns out to be underfunded.
	runner.InBlock(func(a flowtest.BlockApp) error {
		_, err := a.DeliverTx(unsignedTx(t, &stream.CreateMsg{
			Credential: delegated(t, payer, "c_stream", 0, payload),
			Stream:     terms,
		}))
		assert.IsErr(t, errors.ErrInsufficientAmount, err)
		return nil
	})

	nonce, err := sigs.NextNonce(runner, payerAddr)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), nonce)
	next, err := stream.NewRegistry().NextID(runner)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), next)
	coins, err := cash.NewController(cash.NewBucket()).Balance(runner, payerAddr)
	assert.Nil(t, err)
	assert.Equal(t, coin.Coins{&coin.Coin{Ticker: "IOV", Amount: 10}}, coins)
}

func TestTxRequiresSingleMessage(t *testing.T) {
	_, err := (&Tx{}).GetMsg()
	assert.IsErr(t, errors.ErrState, err)

	tx := &Tx{
		SendMsg:         &cash.SendMsg{},
		CancelStreamMsg: &stream.CancelMsg{},
	}
	_, err = tx.GetMsg()
	assert.IsErr(t, errors.ErrMsg, err)

	_, err = NewTx(&flowtest.Msg{})
	assert.IsErr(t, errors.ErrType, err)
}

func TestTxSignBytesIgnoreSignatures(t *testing.T) {
	key := flowtest.NewKey()
	tx := signedTx(t, key, 3, &stream.CancelMsg{
		Credential: sigs.NewInvoker(key.PublicKey().Address()),
		StreamID:   7,
	})
	withSigs, err := tx.GetSignBytes()
	assert.Nil(t, err)

	bare := *tx
	bare.Signatures = nil
	raw, err := bare.Marshal()
	assert.Nil(t, err)
	assert.Equal(t, raw, withSigs)
	assert.Equal(t, 1, len(tx.Signatures))

	raw, err = tx.Marshal()
	assert.Nil(t, err)
	decoded, err := TxDecoder(raw)
	assert.Nil(t, err)
	assert.Equal(t, tx, decoded)
}

func TestGenInitOptions(t *testing.T) {
	addr := flowtest.NewCondition().Address()
	raw, err := GenInitOptions([]string{"ETH", addr.String()})
	assert.Nil(t, err)

	db := store.MemStore()
	var opts flow.Options
	assert.Nil(t, json.Unmarshal(raw, &opts))
	assert.Nil(t, Initializers().FromGenesis(opts, db))

	coins, err := cash.NewController(cash.NewBucket()).Balance(db, addr)
	assert.Nil(t, err)
	assert.Equal(t, coin.Coins{&coin.Coin{Ticker: "ETH", Amount: 123456789}}, coins)

	_, err = GenInitOptions([]string{"eth"})
	assert.IsErr(t, errors.ErrCurrency, err)
}

func genesis(rich flow.Address, amount int64) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{
		"cash": [{"address": %q, "coins": ["%d IOV"]}],
		"conf": {"stream": {"metadata": {"schema": 1}, "max_ticks": 1000}}
	}`, rich.String(), amount))
}

func signedTx(t testing.TB, key crypto.Signer, seq int64, msg flow.Msg) *Tx {
	t.Helper()
	tx, err := NewTx(msg)
	assert.Nil(t, err)
	sig, err := sigs.SignTx(key, tx, chainID, seq)
	assert.Nil(t, err)
	tx.Signatures = append(tx.Signatures, sig)
	return tx
}

func unsignedTx(t testing.TB, msg flow.Msg) *Tx {
	t.Helper()
	tx, err := NewTx(msg)
	assert.Nil(t, err)
	return tx
}

func delegated(t testing.TB, key crypto.Signer, tag string, nonce int64, payload []byte) *sigs.Credential {
	t.Helper()
	cred, err := sigs.NewDelegated(key, tag, chainID, nonce, payload)
	assert.Nil(t, err)
	return cred
}
