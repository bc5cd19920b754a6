package stream

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/codec"
	"github.com/iov-one/flow/errors"
	"github.com/iov-one/flow/x/sigs"
)

const (
	pathCreateMsg   = "stream/create"
	pathWithdrawMsg = "stream/withdraw"
	pathCancelMsg   = "stream/cancel"
)

// CreateMsg opens a new stream on behalf of the credential identity, which
// must be the payer.
type CreateMsg struct {
	Credential *sigs.Credential
	Nonce      int64
	Stream     *Stream
}

var _ flow.Msg = (*CreateMsg)(nil)

// Path returns the routing path for this message
func (CreateMsg) Path() string {
	return pathCreateMsg
}

func (m *CreateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Credential", m.Credential.Validate())
	if m.Nonce < 0 {
		errs = errors.Append(errs, errors.Field("Nonce", sigs.ErrIncorrectNonce, "must not be negative"))
	}
	if m.Stream == nil {
		errs = errors.Append(errs, errors.Field("Stream", errors.ErrEmpty, "required"))
	} else {
		errs = errors.AppendField(errs, "Stream", m.Stream.Validate())
	}
	return errs
}

func (m *CreateMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, m.Credential)
	e.Int64(2, m.Nonce)
	e.Message(3, m.Stream)
	return e.Result()
}

func (m *CreateMsg) Unmarshal(raw []byte) error {
	*m = CreateMsg{}
	return codec.Decode(raw, func(f codec.Field) (err error) {
		switch f.Num {
		case 1:
			m.Credential = &sigs.Credential{}
			err = f.Message(m.Credential)
		case 2:
			m.Nonce, err = f.Int64()
		case 3:
			m.Stream = &Stream{}
			err = f.Message(m.Stream)
		}
		return err
	})
}

// WithdrawMsg pays out everything vested and not yet withdrawn to the payee.
type WithdrawMsg struct {
	Credential *sigs.Credential
	Nonce      int64
	StreamID   uint64
}

var _ flow.Msg = (*WithdrawMsg)(nil)

// Path returns the routing path for this message
func (WithdrawMsg) Path() string {
	return pathWithdrawMsg
}

func (m *WithdrawMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Credential", m.Credential.Validate())
	if m.Nonce < 0 {
		errs = errors.Append(errs, errors.Field("Nonce", sigs.ErrIncorrectNonce, "must not be negative"))
	}
	return errs
}

func (m *WithdrawMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, m.Credential)
	e.Int64(2, m.Nonce)
	e.Uint64(3, m.StreamID)
	return e.Result()
}

func (m *WithdrawMsg) Unmarshal(raw []byte) error {
	*m = WithdrawMsg{}
	return codec.Decode(raw, func(f codec.Field) (err error) {
		switch f.Num {
		case 1:
			m.Credential = &sigs.Credential{}
			err = f.Message(m.Credential)
		case 2:
			m.Nonce, err = f.Int64()
		case 3:
			m.StreamID, err = f.Uint64()
		}
		return err
	})
}

// CancelMsg stops a cancellable stream and refunds the payer.
type CancelMsg struct {
	Credential *sigs.Credential
	StreamID   uint64
}

var _ flow.Msg = (*CancelMsg)(nil)

// Path returns the routing path for this message
func (CancelMsg) Path() string {
	return pathCancelMsg
}

func (m *CancelMsg) Validate() error {
	return errors.AppendField(nil, "Credential", m.Credential.Validate())
}

func (m *CancelMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, m.Credential)
	e.Uint64(2, m.StreamID)
	return e.Result()
}

func (m *CancelMsg) Unmarshal(raw []byte) error {
	*m = CancelMsg{}
	return codec.Decode(raw, func(f codec.Field) (err error) {
		switch f.Num {
		case 1:
			m.Credential = &sigs.Credential{}
			err = f.Message(m.Credential)
		case 2:
			m.StreamID, err = f.Uint64()
		}
		return err
	})
}
