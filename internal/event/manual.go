package event

import "context"

// ManualEvent fires whenever the stdin command protocol's "trigger"
// verb names it, grounded on the original implementation's manual/CMD
// event source used to let an operator fire a condition on demand.
type ManualEvent struct {
	Base
	ch chan struct{}
}

// NewManualEvent builds a manual event feeding conditionName.
func NewManualEvent(name, conditionName string) *ManualEvent {
	return &ManualEvent{Base: NewBase(name, conditionName), ch: make(chan struct{}, 8)}
}

func (e *ManualEvent) Type() string { return "manual" }

func (e *ManualEvent) InitialSetup(ctx context.Context) error { return nil }

func (e *ManualEvent) Chan() <-chan struct{} { return e.ch }

func (e *ManualEvent) Close() error {
	close(e.ch)
	return nil
}

// Fire is called by the stdin command interpreter's "trigger <name>"
// verb to signal this event.
func (e *ManualEvent) Fire() {
	select {
	case e.ch <- struct{}{}:
	default:
	}
}
