package condition

import (
	"context"

	"github.com/almostearthling/whenever-sub000/internal/event"
)

// BucketCondition fires when one or more events have queued its name
// into the shared execution bucket since it was last ticked, removing
// its name on every check and leaving names queued for other
// conditions in the bucket. This is the Go realization of the
// spec's "bucket" condition variant: the single point where the
// single-threaded event reactor hands off into the regular
// tick-scheduled condition population.
type BucketCondition struct {
	Base
	Bucket *event.Bucket
}

// NewBucketCondition builds a bucket condition reading from bucket. The
// bucket condition is always recurring: its entire purpose is draining
// the shared event bucket on every tick, so a one-shot instance would
// defeat the reactor hand-off it exists for.
func NewBucketCondition(name string, bucket *event.Bucket) *BucketCondition {
	c := &BucketCondition{Base: NewBase(name), Bucket: bucket}
	c.SetRecurring(true)
	return c
}

func (c *BucketCondition) Type() string { return "bucket" }

func (c *BucketCondition) Check(ctx context.Context) (*bool, error) {
	fired := false
	for _, n := range c.Bucket.Drain() {
		if n == c.Name() {
			fired = true
		} else {
			c.Bucket.Add(n)
		}
	}
	return &fired, nil
}
