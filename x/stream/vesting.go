package stream

import "github.com/iov-one/flow"

// TotalTicks returns the number of ticks in the schedule. A trailing partial
// tick counts as a whole one.
func TotalTicks(s *Stream) int64 {
	duration := int64(s.EndTime - s.StartTime)
	ticks := duration / s.TickTime
	if duration%s.TickTime != 0 {
		ticks++
	}
	return ticks
}

// Entitled returns the cumulative amount vested at the given time.
//
// Each completed tick vests Amount / TotalTicks. The remainder of that
// division vests only at EndTime, when the whole Amount becomes available.
// Nothing is vested before StartTime.
func Entitled(s *Stream, now flow.UnixTime) int64 {
	if now >= s.EndTime {
		return s.Amount
	}
	if now < s.StartTime {
		return 0
	}
	perTick := s.Amount / TotalTicks(s)
	elapsed := int64(now-s.StartTime) / s.TickTime
	return perTick * elapsed
}

// Available returns the amount the payee can withdraw at the given time.
func Available(s *Stream, d *StreamData, now flow.UnixTime) int64 {
	if d.Cancelled {
		return 0
	}
	avail := Entitled(s, now) - d.Withdrawn
	if avail < 0 {
		return 0
	}
	return avail
}
