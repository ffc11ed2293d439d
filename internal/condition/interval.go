package condition

import (
	"context"
	"time"
)

// IntervalCondition fires once every Interval has elapsed since it last
// fired, grounded on condition::interval_cond::IntervalCondition.
type IntervalCondition struct {
	Base
	Interval time.Duration

	lastChecked time.Time
}

// NewIntervalCondition builds an interval condition ticking every d.
func NewIntervalCondition(name string, d time.Duration) *IntervalCondition {
	return &IntervalCondition{Base: NewBase(name), Interval: d, lastChecked: time.Now()}
}

func (c *IntervalCondition) Type() string { return "interval" }

func (c *IntervalCondition) Check(ctx context.Context) (*bool, error) {
	now := time.Now()
	elapsed := now.Sub(c.lastChecked)
	satisfied := elapsed >= c.Interval
	if satisfied {
		c.lastChecked = now
	}
	return &satisfied, nil
}
