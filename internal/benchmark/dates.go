package benchmark

import (
	"sync/atomic"
	"time"
)

// BaseDate is the first date handed out by a new DateSequence.
var BaseDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// DateSequence hands out a new day on every call so that each update
// writes a value different from the stored one. It is safe for concurrent use.
type DateSequence struct {
	base time.Time
	n    atomic.Int64
}

// NewDateSequence returns a sequence starting at base.
func NewDateSequence(base time.Time) *DateSequence {
	return &DateSequence{base: base}
}

// Next returns base plus the number of dates handed out so far, in days.
func (s *DateSequence) Next() time.Time {
	n := s.n.Add(1) - 1
	return s.base.AddDate(0, 0, int(n))
}
