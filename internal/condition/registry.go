package condition

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/almostearthling/whenever-sub000/internal/logging"
	"github.com/almostearthling/whenever-sub000/internal/task"
	"github.com/almostearthling/whenever-sub000/internal/wres"
)

const logEmitterConditionRegistry = "CONDITION_REGISTRY"

// Registry owns the population of registered conditions, deferring
// mutation while any condition is mid-tick the same way task.Registry
// does, grounded on the concurrency discipline described for
// condition registries alongside task::registry::TaskRegistry.
type Registry struct {
	mu     sync.RWMutex
	items  map[string]Condition
	nextID int64

	sessionMu     sync.Mutex
	busy          map[string]bool
	pendingAdd    []Condition
	pendingRemove []string

	tasks *task.Registry
}

// NewRegistry builds an empty condition registry bound to the task
// registry its conditions will dispatch into.
func NewRegistry(tasks *task.Registry) *Registry {
	return &Registry{items: make(map[string]Condition), busy: make(map[string]bool), tasks: tasks}
}

func (r *Registry) anyBusy() bool {
	r.sessionMu.Lock()
	defer r.sessionMu.Unlock()
	return len(r.busy) > 0
}

// Add registers a new condition, assigning it a monotone ID.
func (r *Registry) Add(c Condition) error {
	if r.anyBusy() {
		r.sessionMu.Lock()
		r.pendingAdd = append(r.pendingAdd, c)
		r.sessionMu.Unlock()
		return nil
	}
	return r.applyAdd(c)
}

func (r *Registry) applyAdd(c Condition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[c.Name()]; exists {
		return wres.New(wres.KindFailed, "could not add condition to the registry: name already present")
	}
	id := atomic.AddInt64(&r.nextID, 1)
	c.SetID(id)
	r.items[c.Name()] = c
	logging.Record(logging.Debug, logEmitterConditionRegistry, "new", &logging.Item{Name: c.Name(), ID: id}, "INIT", "OK", "condition added to registry")
	return nil
}

// Remove unregisters a condition by name.
func (r *Registry) Remove(name string) error {
	if r.anyBusy() {
		r.sessionMu.Lock()
		r.pendingRemove = append(r.pendingRemove, name)
		r.sessionMu.Unlock()
		return nil
	}
	return r.applyRemove(name)
}

func (r *Registry) applyRemove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[name]
	if !ok {
		return wres.New(wres.KindEmpty, "could not pull condition out from the registry")
	}
	c.SetID(0)
	delete(r.items, name)
	return nil
}

// Get returns the named condition, if registered.
func (r *Registry) Get(name string) (Condition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[name]
	return c, ok
}

// Names returns every registered condition name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.items))
	for n := range r.items {
		names = append(names, n)
	}
	return names
}

func (r *Registry) drainIfIdle() {
	r.sessionMu.Lock()
	if len(r.busy) != 0 {
		r.sessionMu.Unlock()
		return
	}
	removes, adds := r.pendingRemove, r.pendingAdd
	r.pendingRemove, r.pendingAdd = nil, nil
	r.sessionMu.Unlock()

	for _, name := range removes {
		_ = r.applyRemove(name)
	}
	for _, c := range adds {
		_ = r.applyAdd(c)
	}
}

// Tick evaluates the named condition and, if satisfied, runs its tasks.
// A condition already mid-tick is refused with a Busy error rather than
// re-entered. Ticking a name that is not registered at all is a
// programming error and panics, matching condition.Tick and
// task.Run — the scheduler that calls Tick only ever does so with names
// taken from this same registry.
func (r *Registry) Tick(ctx context.Context, name string) (*bool, error) {
	r.sessionMu.Lock()
	if r.busy[name] {
		r.sessionMu.Unlock()
		return nil, wres.New(wres.KindBusy, "attempt to tick condition while busy: "+name)
	}
	r.busy[name] = true
	r.sessionMu.Unlock()

	defer func() {
		r.sessionMu.Lock()
		delete(r.busy, name)
		r.sessionMu.Unlock()
		r.drainIfIdle()
	}()

	c, ok := r.Get(name)
	if !ok {
		panic("condition " + name + " not registered")
	}
	return Tick(ctx, c, r.tasks)
}

// withNotBusy runs fn against the named condition, refusing with a Busy
// error while it is mid-tick and with an Empty error when it is not
// registered at all — unlike Tick, these admin operations are reachable
// from the stdin command protocol on operator-supplied names, so an
// unknown name is reported rather than treated as a programming error.
func (r *Registry) withNotBusy(name string, fn func(Condition)) error {
	r.sessionMu.Lock()
	busy := r.busy[name]
	r.sessionMu.Unlock()
	if busy {
		return wres.New(wres.KindBusy, "attempt to modify condition while busy: "+name)
	}

	c, ok := r.Get(name)
	if !ok {
		return wres.New(wres.KindEmpty, "condition not found: "+name)
	}
	fn(c)
	return nil
}

// Reset reinitializes the named condition's check state (clears the
// success latch and checked/succeeded timestamps, restores the retry
// budget), refusing while the condition is mid-tick.
func (r *Registry) Reset(name string) error {
	return r.withNotBusy(name, func(c Condition) { c.Reset() })
}

// Suspend suspends the named condition, refusing while it is mid-tick.
func (r *Registry) Suspend(name string) error {
	return r.withNotBusy(name, func(c Condition) { c.Suspend() })
}

// Resume un-suspends the named condition, refusing while it is mid-tick.
func (r *Registry) Resume(name string) error {
	return r.withNotBusy(name, func(c Condition) { c.Resume() })
}
