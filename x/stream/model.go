package stream

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/codec"
	"github.com/iov-one/flow/coin"
	"github.com/iov-one/flow/errors"
	"github.com/iov-one/flow/orm"
)

// Stream holds the terms of a stream. It is written once on creation and
// never modified.
type Stream struct {
	Metadata *flow.Metadata `json:"metadata"`
	// From is the payer. The escrowed amount is taken from and refunded to
	// this address.
	From flow.Address `json:"from"`
	// To is the payee, the only address that can withdraw.
	To     flow.Address `json:"to"`
	Amount int64        `json:"amount"`
	// Vesting starts at StartTime and is complete at EndTime.
	StartTime flow.UnixTime `json:"start_time"`
	EndTime   flow.UnixTime `json:"end_time"`
	// TickTime is the length of a single tick in seconds.
	TickTime int64 `json:"tick_time"`
	// Asset is the ticker of the streamed currency.
	Asset string `json:"asset"`
	// Cancellable declares if the payer can stop the stream.
	Cancellable bool `json:"cancellable"`
}

var _ orm.Model = (*Stream)(nil)

// Validate ensures the terms describe a schedule that can be executed.
func (s *Stream) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", s.Metadata.Validate())
	errs = errors.AppendField(errs, "From", s.From.Validate())
	errs = errors.AppendField(errs, "To", s.To.Validate())
	if s.Amount < 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must not be negative"))
	}
	if !coin.IsCC(s.Asset) {
		errs = errors.Append(errs, errors.Field("Asset", errors.ErrCurrency, "invalid ticker %q", s.Asset))
	}
	errs = errors.AppendField(errs, "StartTime", s.StartTime.Validate())
	if s.EndTime <= s.StartTime {
		errs = errors.Append(errs, errors.Field("EndTime", ErrSchedule, "must be after start time"))
	}
	if s.TickTime <= 0 {
		errs = errors.Append(errs, errors.Field("TickTime", ErrSchedule, "must be positive"))
	}
	return errs
}

// Coin returns the escrowed amount.
func (s *Stream) Coin() coin.Coin {
	return coin.NewCoin(s.Amount, s.Asset)
}

func (s *Stream) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, s.Metadata)
	e.Bytes(2, s.From)
	e.Bytes(3, s.To)
	e.Int64(4, s.Amount)
	e.Int64(5, int64(s.StartTime))
	e.Int64(6, int64(s.EndTime))
	e.Int64(7, s.TickTime)
	e.String(8, s.Asset)
	e.Bool(9, s.Cancellable)
	return e.Result()
}

func (s *Stream) Unmarshal(raw []byte) error {
	*s = Stream{}
	return codec.Decode(raw, func(f codec.Field) (err error) {
		switch f.Num {
		case 1:
			s.Metadata = &flow.Metadata{}
			err = f.Message(s.Metadata)
		case 2:
			s.From, err = f.Bytes()
		case 3:
			s.To, err = f.Bytes()
		case 4:
			s.Amount, err = f.Int64()
		case 5:
			var v int64
			v, err = f.Int64()
			s.StartTime = flow.UnixTime(v)
		case 6:
			var v int64
			v, err = f.Int64()
			s.EndTime = flow.UnixTime(v)
		case 7:
			s.TickTime, err = f.Int64()
		case 8:
			s.Asset, err = f.String()
		case 9:
			s.Cancellable, err = f.Bool()
		}
		return err
	})
}

// StreamData is the withdrawal ledger of a stream.
type StreamData struct {
	Metadata *flow.Metadata `json:"metadata"`
	// Withdrawn is the cumulative amount paid out to the payee. It never
	// decreases, not even on cancellation.
	Withdrawn int64 `json:"withdrawn"`
	Cancelled bool  `json:"cancelled"`
	// Refunded is the amount returned to the payer on cancellation.
	Refunded int64 `json:"refunded"`
	// CancelledAt is the block time of the cancellation.
	CancelledAt flow.UnixTime `json:"cancelled_at"`
}

var _ orm.Model = (*StreamData)(nil)

func (d *StreamData) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", d.Metadata.Validate())
	if d.Withdrawn < 0 {
		errs = errors.Append(errs, errors.Field("Withdrawn", errors.ErrAmount, "must not be negative"))
	}
	if d.Refunded < 0 {
		errs = errors.Append(errs, errors.Field("Refunded", errors.ErrAmount, "must not be negative"))
	}
	if !d.Cancelled && (d.Refunded != 0 || !d.CancelledAt.IsZero()) {
		errs = errors.Append(errs, errors.Field("Cancelled", errors.ErrState, "refund recorded for an active stream"))
	}
	return errs
}

// Done returns true when the whole amount of the stream was withdrawn.
func (d *StreamData) Done(s *Stream) bool {
	return d.Withdrawn == s.Amount
}

func (d *StreamData) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, d.Metadata)
	e.Int64(2, d.Withdrawn)
	e.Bool(3, d.Cancelled)
	e.Int64(4, d.Refunded)
	e.Int64(5, int64(d.CancelledAt))
	return e.Result()
}

func (d *StreamData) Unmarshal(raw []byte) error {
	*d = StreamData{}
	return codec.Decode(raw, func(f codec.Field) (err error) {
		switch f.Num {
		case 1:
			d.Metadata = &flow.Metadata{}
			err = f.Message(d.Metadata)
		case 2:
			d.Withdrawn, err = f.Int64()
		case 3:
			d.Cancelled, err = f.Bool()
		case 4:
			d.Refunded, err = f.Int64()
		case 5:
			var v int64
			v, err = f.Int64()
			d.CancelledAt = flow.UnixTime(v)
		}
		return err
	})
}
