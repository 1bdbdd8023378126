// Package period converts absolute timestamps into the period indices all
// accrual math operates on.
package period

import "time"

// Clock maps timestamps to period indices:
//
//	index = floor((unix - NegativeOffset) / LengthSeconds)
//
// NegativeOffset shifts the period boundary so a "day" can roll over at a
// local business-day cutoff instead of midnight UTC. Timestamps before the
// offset epoch clamp to period 0.
type Clock struct {
	LengthSeconds  int64
	NegativeOffset int64
}

// NewClock builds a clock; a non-positive length falls back to one day.
func NewClock(lengthSeconds, negativeOffset int64) Clock {
	if lengthSeconds <= 0 {
		lengthSeconds = 24 * 60 * 60
	}
	return Clock{LengthSeconds: lengthSeconds, NegativeOffset: negativeOffset}
}

// Index returns the period index for t.
func (c Clock) Index(t time.Time) uint64 {
	shifted := t.Unix() - c.NegativeOffset
	if shifted <= 0 {
		return 0
	}
	return uint64(shifted / c.LengthSeconds)
}
