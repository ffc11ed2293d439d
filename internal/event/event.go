// Package event defines the Event contract, the execution bucket, and the
// single-threaded listener reactor that multiplexes every registered
// event source into it, grounded on the original implementation's
// event::registry::EventRegistry (a dedicated-thread loop built around
// Rust's select!/select_all over each event's own future).
package event

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/almostearthling/whenever-sub000/internal/logging"
	"github.com/almostearthling/whenever-sub000/internal/wres"
)

const logEmitterEvent = "EVENT"

// Event is the interface every event source (filesystem-notify,
// bus-signal, manual/stdin trigger) implements. Chan delivers one value
// per firing; the listener reactor selects over every registered event's
// channel in a single goroutine rather than spawning one goroutine per
// source, matching the original's single dedicated-thread reactor.
type Event interface {
	Name() string
	ID() int64
	SetID(id int64)
	Type() string

	// ConditionName names the condition (typically a bucket condition)
	// this event feeds when it fires.
	ConditionName() string

	// InitialSetup performs one-time installation (opening a watch,
	// subscribing to a bus match) before the reactor starts selecting on
	// Chan.
	InitialSetup(ctx context.Context) error

	// Chan returns the channel the reactor selects on; it must remain
	// valid for the event's lifetime.
	Chan() <-chan struct{}

	// Close releases whatever resources InitialSetup acquired.
	Close() error
}

// Registry owns the population of registered events.
type Registry struct {
	mu     sync.RWMutex
	items  map[string]Event
	nextID int64
}

// NewRegistry builds an empty event registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Event)}
}

// Add registers a new event, assigning it a monotone ID.
func (r *Registry) Add(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[e.Name()]; exists {
		return wres.New(wres.KindFailed, "could not add event to the registry: name already present")
	}
	id := atomic.AddInt64(&r.nextID, 1)
	e.SetID(id)
	r.items[e.Name()] = e
	return nil
}

// Remove unregisters an event by name, closing its resources.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[name]
	if !ok {
		return wres.New(wres.KindEmpty, "could not pull event out from the registry")
	}
	_ = e.Close()
	e.SetID(0)
	delete(r.items, name)
	return nil
}

// Get returns the named event, if registered.
func (r *Registry) Get(name string) (Event, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.items[name]
	return e, ok
}

// Names returns every registered event name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.items))
	for n := range r.items {
		out = append(out, n)
	}
	return out
}

// Trigger fires the named event. It panics if name is not registered —
// that is a programming error, not an operational one, so any caller
// fed an untrusted name (the stdin command protocol) must confirm
// existence via Get before calling Trigger. It reports false, without
// panicking, when the named event exists but does not support manual
// firing.
func (r *Registry) Trigger(name string) bool {
	e, ok := r.Get(name)
	if !ok {
		panic("event " + name + " not registered")
	}
	m, ok := e.(interface{ Fire() })
	if !ok {
		return false
	}
	m.Fire()
	return true
}

// snapshot returns the current events under the read lock, then releases
// it before the caller does anything blocking — the listener loop never
// holds the registry lock while selecting.
func (r *Registry) snapshot() []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Event, 0, len(r.items))
	for _, e := range r.items {
		out = append(out, e)
	}
	return out
}

// Listen runs the single-threaded cooperative reactor: it performs
// InitialSetup for every registered event, then repeatedly selects over
// every event's Chan(), pushing ConditionName() into bucket on each
// firing, until ctx is cancelled. Matches
// event::registry::EventRegistry::run_event_listener.
func (r *Registry) Listen(ctx context.Context, bucket *Bucket) error {
	events := r.snapshot()
	for _, e := range events {
		if err := e.InitialSetup(ctx); err != nil {
			logging.Record(logging.Warn, logEmitterEvent, "install", &logging.Item{Name: e.Name(), ID: e.ID()}, "INIT", "ERR", err.Error())
			continue
		}
		logging.Record(logging.Debug, logEmitterEvent, "install", &logging.Item{Name: e.Name(), ID: e.ID()}, "INIT", "OK", "event installed")
	}

	return selectLoop(ctx, events, bucket)
}
