// Package aging converts a waiting entry's static base priority into a
// time-sensitive effective priority, so long-waiting low-priority
// requesters eventually outrank recent high-priority ones.
package aging

import (
	"time"

	"roomly/pkg/model"
)

type Config struct {
	// MaxWaitHours is the wait after which a lowest-priority entry has
	// gained the full priority span.
	MaxWaitHours float64
	PriorityHigh int
	PriorityLow  int
}

func Default() Config {
	return Config{
		MaxWaitHours: 48,
		PriorityHigh: 5,
		PriorityLow:  1,
	}
}

// Factor is the number of waiting hours required to raise the effective
// priority by one full unit.
func (c Config) Factor() float64 {
	span := c.PriorityHigh - c.PriorityLow
	if span < 0 {
		span = -span
	}
	if span < 1 {
		span = 1
	}
	return c.MaxWaitHours / float64(span)
}

// Score computes the entry's effective priority at the given instant. For
// a fixed entry the result is monotonically non-decreasing in now; callers
// ranking several entries must pass the same now to every call.
func (c Config) Score(e *model.WaitingEntry, now time.Time) float64 {
	waited := now.Sub(e.CreatedAt).Hours()
	if waited < 0 {
		waited = 0
	}
	return float64(e.BasePriority) + waited/c.Factor()
}
