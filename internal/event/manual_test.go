package event

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualEventFireFeedsBucket(t *testing.T) {
	bucket := NewBucket()
	reg := NewRegistry()
	m := NewManualEvent("operator-trigger", "target-condition")
	require.NoError(t, reg.Add(m))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- reg.Listen(ctx, bucket) }()

	// give the reactor a moment to install and enter its select loop
	time.Sleep(20 * time.Millisecond)
	m.Fire()

	require.Eventually(t, func() bool { return bucket.Len() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"target-condition"}, bucket.Drain())

	cancel()
	<-done
}

func TestRegistryGetUnknownName(t *testing.T) {
	reg := NewRegistry()
	_, ok := reg.Get("nope")
	assert.False(t, ok)
}

func TestRegistryAddDuplicateNameFails(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Add(NewManualEvent("dup", "c")))
	assert.Error(t, reg.Add(NewManualEvent("dup", "c")))
}

func TestRegistryTriggerUnknownNamePanics(t *testing.T) {
	reg := NewRegistry()
	assert.Panics(t, func() { reg.Trigger("ghost") })
}

func TestRegistryTriggerManualEventFeedsBucket(t *testing.T) {
	bucket := NewBucket()
	reg := NewRegistry()
	m := NewManualEvent("operator-trigger", "target-condition")
	require.NoError(t, reg.Add(m))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- reg.Listen(ctx, bucket) }()

	time.Sleep(20 * time.Millisecond)
	assert.True(t, reg.Trigger("operator-trigger"))

	require.Eventually(t, func() bool { return bucket.Len() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestRegistryTriggerNonTriggerableReportsFalse(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Add(&fixedNameEvent{name: "inert"}))
	assert.False(t, reg.Trigger("inert"))
}

// fixedNameEvent is a minimal Event with no Fire method, used to exercise
// Registry.Trigger's not-manually-triggerable path.
type fixedNameEvent struct {
	name string
	id   int64
	ch   chan struct{}
}

func (e *fixedNameEvent) Name() string                          { return e.name }
func (e *fixedNameEvent) ID() int64                              { return e.id }
func (e *fixedNameEvent) SetID(id int64)                         { e.id = id }
func (e *fixedNameEvent) Type() string                           { return "fixed" }
func (e *fixedNameEvent) ConditionName() string                  { return "" }
func (e *fixedNameEvent) InitialSetup(ctx context.Context) error { return nil }
func (e *fixedNameEvent) Chan() <-chan struct{} {
	if e.ch == nil {
		e.ch = make(chan struct{})
	}
	return e.ch
}
func (e *fixedNameEvent) Close() error { return nil }
