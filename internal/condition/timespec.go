package condition

import (
	"context"
	"fmt"
	"time"
)

// TimeSpec is one partial date/time specification: any nil field is a
// wildcard, matching every value, grounded on
// condition::time_cond::TimeSpecification.
type TimeSpec struct {
	Year    *int
	Month   *int
	Day     *int
	Weekday *time.Weekday
	Hour    *int
	Minute  *int
	Second  *int
}

// Matches reports whether t satisfies every non-wildcard field of s.
func (s TimeSpec) Matches(t time.Time) bool {
	if s.Year != nil && *s.Year != t.Year() {
		return false
	}
	if s.Month != nil && *s.Month != int(t.Month()) {
		return false
	}
	if s.Day != nil && *s.Day != t.Day() {
		return false
	}
	if s.Weekday != nil && *s.Weekday != t.Weekday() {
		return false
	}
	if s.Hour != nil && *s.Hour != t.Hour() {
		return false
	}
	if s.Minute != nil && *s.Minute != t.Minute() {
		return false
	}
	if s.Second != nil && *s.Second != t.Second() {
		return false
	}
	return true
}

// TimeCondition fires when a check falls within a second matching any of
// its Specs, at most once per matching second: it remembers the last
// second it fired in. A matching second during which no check runs is
// missed; there is no window extending a match past that second.
// Grounded on condition::time_cond::TimeCondition.
type TimeCondition struct {
	Base
	Specs []TimeSpec

	lastFired string
}

// NewTimeCondition builds a time-specifications condition.
func NewTimeCondition(name string, specs ...TimeSpec) *TimeCondition {
	return &TimeCondition{Base: NewBase(name), Specs: specs}
}

func (c *TimeCondition) Type() string { return "time" }

func (c *TimeCondition) Check(ctx context.Context) (*bool, error) {
	now := time.Now()
	key := fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), now.Second())
	if key == c.lastFired {
		no := false
		return &no, nil
	}
	for _, spec := range c.Specs {
		if spec.Matches(now) {
			c.lastFired = key
			yes := true
			return &yes, nil
		}
	}
	no := false
	return &no, nil
}
