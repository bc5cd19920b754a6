package cash

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/codec"
	"github.com/iov-one/flow/coin"
	"github.com/iov-one/flow/errors"
)

const (
	pathSendMsg = "cash/send"

	sendTxCost int64 = 100

	maxMemoSize int = 128
)

// SendMsg moves coins between two wallets. The source must sign the
// transaction.
type SendMsg struct {
	Source      flow.Address
	Destination flow.Address
	Amount      *coin.Coin
	Memo        string
}

var _ flow.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure that this is sensible
func (s *SendMsg) Validate() error {
	var errs error
	if coin.IsEmpty(s.Amount) || !s.Amount.IsPositive() {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	} else {
		errs = errors.AppendField(errs, "Amount", s.Amount.Validate())
	}
	errs = errors.AppendField(errs, "Source", s.Source.Validate())
	errs = errors.AppendField(errs, "Destination", s.Destination.Validate())
	if len(s.Memo) > maxMemoSize {
		errs = errors.Append(errs, errors.Field("Memo", errors.ErrInput, "memo too long"))
	}
	return errs
}

func (s *SendMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Bytes(1, s.Source)
	e.Bytes(2, s.Destination)
	e.Message(3, s.Amount)
	e.String(4, s.Memo)
	return e.Result()
}

func (s *SendMsg) Unmarshal(raw []byte) error {
	*s = SendMsg{}
	return codec.Decode(raw, func(f codec.Field) (err error) {
		switch f.Num {
		case 1:
			s.Source, err = f.Bytes()
		case 2:
			s.Destination, err = f.Bytes()
		case 3:
			s.Amount = &coin.Coin{}
			err = f.Message(s.Amount)
		case 4:
			s.Memo, err = f.String()
		}
		return err
	})
}
