package flow

import (
	"encoding/json"
	"time"

	"github.com/iov-one/flow/errors"
)

// UnixTime is a point in time with a precision of one second, stored as the
// number of seconds since the epoch. Stream schedules and the ledger clock
// are both expressed in it.
type UnixTime int64

// AsUnixTime truncates t to the second.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

// Time returns the same moment as a time.Time.
func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0)
}

// IsZero is true for the epoch, used as the unset value.
func (t UnixTime) IsZero() bool {
	return t == 0
}

// Add returns t moved by d. Fractions of a second are dropped.
func (t UnixTime) Add(d time.Duration) UnixTime {
	return t + UnixTime(d/time.Second)
}

// Validate rejects moments before the epoch.
func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrState, "negative value")
	}
	return nil
}

// String formats t in UTC.
func (t UnixTime) String() string {
	return t.Time().UTC().String()
}

// UnmarshalJSON accepts a number of seconds as well as an RFC 3339 string,
// which reads better in a genesis file.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var unix int64
	if err := json.Unmarshal(raw, &unix); err != nil {
		var std time.Time
		if err := json.Unmarshal(raw, &std); err != nil {
			return errors.Wrap(errors.ErrInput, "invalid time format")
		}
		unix = std.Unix()
	}
	if unix < 0 {
		return errors.Wrap(errors.ErrInput, "time before epoch")
	}
	*t = UnixTime(unix)
	return nil
}
