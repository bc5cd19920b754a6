package app

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/codec"
	"github.com/iov-one/flow/errors"
	"github.com/iov-one/flow/x/cash"
	"github.com/iov-one/flow/x/sigs"
	"github.com/iov-one/flow/x/stream"
)

// Tx carries exactly one message together with the transaction level
// signatures.
type Tx struct {
	Signatures []*sigs.StdSignature

	SendMsg           *cash.SendMsg
	CreateStreamMsg   *stream.CreateMsg
	WithdrawStreamMsg *stream.WithdrawMsg
	CancelStreamMsg   *stream.CancelMsg
}

// make sure tx fulfills all interfaces
var _ flow.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (flow.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return tx, nil
}

// NewTx wraps a message into a transaction.
func NewTx(msg flow.Msg) (*Tx, error) {
	switch m := msg.(type) {
	case *cash.SendMsg:
		return &Tx{SendMsg: m}, nil
	case *stream.CreateMsg:
		return &Tx{CreateStreamMsg: m}, nil
	case *stream.WithdrawMsg:
		return &Tx{WithdrawStreamMsg: m}, nil
	case *stream.CancelMsg:
		return &Tx{CancelStreamMsg: m}, nil
	}
	return nil, errors.WithType(errors.ErrType, msg)
}

// GetMsg returns the single message set on the transaction.
func (tx *Tx) GetMsg() (flow.Msg, error) {
	var msgs []flow.Msg
	if tx.SendMsg != nil {
		msgs = append(msgs, tx.SendMsg)
	}
	if tx.CreateStreamMsg != nil {
		msgs = append(msgs, tx.CreateStreamMsg)
	}
	if tx.WithdrawStreamMsg != nil {
		msgs = append(msgs, tx.WithdrawStreamMsg)
	}
	if tx.CancelStreamMsg != nil {
		msgs = append(msgs, tx.CancelStreamMsg)
	}
	switch len(msgs) {
	case 0:
		return nil, errors.Wrap(errors.ErrState, "no message")
	case 1:
		return msgs[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrMsg, "%d messages in one transaction", len(msgs))
	}
}

// GetSignatures returns all signatures
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign. They only come from the data
// itself, not previous signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	signatures := tx.Signatures
	tx.Signatures = nil
	bz, err := tx.Marshal()
	tx.Signatures = signatures
	return bz, err
}

func (tx *Tx) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	for _, s := range tx.Signatures {
		e.Message(1, s)
	}
	e.Message(2, tx.SendMsg)
	e.Message(3, tx.CreateStreamMsg)
	e.Message(4, tx.WithdrawStreamMsg)
	e.Message(5, tx.CancelStreamMsg)
	return e.Result()
}

func (tx *Tx) Unmarshal(raw []byte) error {
	*tx = Tx{}
	return codec.Decode(raw, func(f codec.Field) (err error) {
		switch f.Num {
		case 1:
			var s sigs.StdSignature
			if err = f.Message(&s); err == nil {
				tx.Signatures = append(tx.Signatures, &s)
			}
		case 2:
			tx.SendMsg = &cash.SendMsg{}
			err = f.Message(tx.SendMsg)
		case 3:
			tx.CreateStreamMsg = &stream.CreateMsg{}
			err = f.Message(tx.CreateStreamMsg)
		case 4:
			tx.WithdrawStreamMsg = &stream.WithdrawMsg{}
			err = f.Message(tx.WithdrawStreamMsg)
		case 5:
			tx.CancelStreamMsg = &stream.CancelMsg{}
			err = f.Message(tx.CancelStreamMsg)
		}
		return err
	})
}
