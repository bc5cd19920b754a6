package stream

import "github.com/iov-one/flow/errors"

// x/stream reserves 1100 ~ 1109.
var (
	ErrStreamNotExist       = errors.Register(1100, "stream does not exist")
	ErrStreamCancelled      = errors.Register(1101, "stream cancelled")
	ErrStreamNotCancellable = errors.Register(1102, "stream not cancellable")
	ErrStreamDone           = errors.Register(1103, "stream done")
	ErrSchedule             = errors.Register(1104, "invalid schedule")
)
