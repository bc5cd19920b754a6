package flowtest

import "github.com/iov-one/flow"

// calls counts the Check and Deliver calls of a mock.
type calls struct {
	checks   int
	delivers int
}

func (c *calls) CheckCallCount() int   { return c.checks }
func (c *calls) DeliverCallCount() int { return c.delivers }
func (c *calls) CallCount() int        { return c.checks + c.delivers }

// Handler returns CheckResult and DeliverResult, or the matching error
// when one is set.
type Handler struct {
	calls
	CheckResult   flow.CheckResult
	CheckErr      error
	DeliverResult flow.DeliverResult
	DeliverErr    error
}

var _ flow.Handler = (*Handler)(nil)

func (h *Handler) Check(flow.Context, flow.KVStore, flow.Tx) (*flow.CheckResult, error) {
	h.checks++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(flow.Context, flow.KVStore, flow.Tx) (*flow.DeliverResult, error) {
	h.delivers++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

// WriteHandler writes Key/Value to the store before returning Err. It lets
// tests observe whether writes of a failed call survived.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ flow.Handler = (*WriteHandler)(nil)

func (h *WriteHandler) Check(ctx flow.Context, db flow.KVStore, tx flow.Tx) (*flow.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &flow.CheckResult{}, nil
}

func (h *WriteHandler) Deliver(ctx flow.Context, db flow.KVStore, tx flow.Tx) (*flow.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &flow.DeliverResult{}, nil
}

// PanicHandler panics on every call.
type PanicHandler struct {
	Msg string
}

var _ flow.Handler = PanicHandler{}

func (h PanicHandler) Check(flow.Context, flow.KVStore, flow.Tx) (*flow.CheckResult, error) {
	panic(h.Msg)
}

func (h PanicHandler) Deliver(flow.Context, flow.KVStore, flow.Tx) (*flow.DeliverResult, error) {
	panic(h.Msg)
}
