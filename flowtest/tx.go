package flowtest

import "github.com/iov-one/flow"

// Tx carries Msg. A set Err is returned by GetMsg.
type Tx struct {
	Msg flow.Msg
	Err error
}

var _ flow.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (flow.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Marshal() ([]byte, error) {
	panic("flowtest.Tx is not serializable")
}

func (tx *Tx) Unmarshal([]byte) error {
	panic("flowtest.Tx is not serializable")
}

// Msg routes to RoutePath and serializes as Serialized. A set Err fails
// validation and serialization.
type Msg struct {
	RoutePath  string
	Serialized []byte
	Err        error
}

var _ flow.Msg = (*Msg)(nil)

func (m *Msg) Path() string    { return m.RoutePath }
func (m *Msg) Validate() error { return m.Err }

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}

func (m *Msg) Unmarshal(raw []byte) error {
	m.Serialized = raw
	return m.Err
}
