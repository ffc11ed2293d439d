package condition

import (
	"context"
	"time"
)

// IdleSource reports how long the host has been idle, satisfied by
// sysinfo.IdleSeconds or sysinfo.LastInputTracker.IdleSeconds.
type IdleSource func() (float64, error)

// IdleCondition fires once idle time crosses Threshold, edge-triggered:
// it does not re-fire on every tick while the host stays idle, only on
// the transition, grounded on condition::idle_cond::IdleCondition.
type IdleCondition struct {
	Base
	Threshold time.Duration
	Source    IdleSource

	verified bool
}

// NewIdleCondition builds an idle condition using source to read idle
// time, firing once idle time reaches threshold.
func NewIdleCondition(name string, threshold time.Duration, source IdleSource) *IdleCondition {
	return &IdleCondition{Base: NewBase(name), Threshold: threshold, Source: source}
}

func (c *IdleCondition) Type() string { return "idle" }

func (c *IdleCondition) Check(ctx context.Context) (*bool, error) {
	secs, err := c.Source()
	if err != nil {
		return nil, err
	}
	idle := time.Duration(secs * float64(time.Second))

	past := idle >= c.Threshold
	fired := past && !c.verified
	c.verified = past

	return &fired, nil
}
