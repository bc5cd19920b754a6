package flow

import (
	"reflect"

	"github.com/iov-one/flow/errors"
)

// Marshaller serializes itself. It may refuse invalid content.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent can also be loaded back. Unmarshal replaces the whole content
// of the receiver.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Msg is a single requested state transition. It carries no proof of who
// asked for it beyond an optional credential of its own. The signatures
// live in the enclosing Tx.
type Msg interface {
	Persistent

	// Path routes the message to its handler. It matches
	// [0-9A-Za-z_\-/]+ and is conventionally "<extension>/<action>".
	Path() string

	// Validate checks the message on its own, without reading state.
	Validate() error
}

// Tx is what a client submits: one message plus whatever the decorators
// need to authorize it.
type Tx interface {
	Persistent
	GetMsg() (Msg, error)
}

// TxDecoder parses a transaction received over ABCI.
type TxDecoder func(raw []byte) (Tx, error)

// GetPath is the path of the message of tx, used for logging. A tx without
// a readable message gives "(missing)".
func GetPath(tx Tx) string {
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg validates the message of tx and copies it into dst, which must
// be a pointer of the same type as the message.
func LoadMsg(tx Tx, dst interface{}) error {
	msg, err := tx.GetMsg()
	switch {
	case err != nil:
		return errors.Wrap(err, "read message")
	case msg == nil:
		return errors.Wrap(errors.ErrState, "no message")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	src := reflect.ValueOf(msg)
	if src.Type() != reflect.TypeOf(dst) {
		return errors.Wrapf(errors.ErrType, "%T is not %T", msg, dst)
	}
	reflect.ValueOf(dst).Elem().Set(src.Elem())
	return nil
}
