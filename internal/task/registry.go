package task

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/almostearthling/whenever-sub000/internal/logging"
	"github.com/almostearthling/whenever-sub000/internal/wres"
)

const logEmitterTaskRegistry = "TASK_REGISTRY"

// Registry owns the population of registered tasks and serializes
// mutation against in-flight task runs, grounded on
// task::registry::TaskRegistry: while one or more run sessions are in
// progress, Add/Remove are deferred into queues and only applied once the
// last session ends, removals always draining before additions so a name
// can be atomically replaced without a stale entry lingering.
type Registry struct {
	mu     sync.RWMutex
	items  map[string]Task
	nextID int64

	sessionMu    sync.Mutex
	sessionCount int
	pendingAdd   []Task
	pendingRemove []string
}

// NewRegistry builds an empty task registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Task)}
}

// Result pairs a task name with the outcome of one run.
type Result struct {
	Name    string
	Outcome *bool
	Err     error
}

func (r *Registry) inSession() bool {
	r.sessionMu.Lock()
	defer r.sessionMu.Unlock()
	return r.sessionCount > 0
}

// Add registers a new task, assigning it a monotone, non-zero ID. If a
// run session is in progress the mutation is deferred until the session
// ends.
func (r *Registry) Add(t Task) error {
	if r.inSession() {
		r.sessionMu.Lock()
		r.pendingAdd = append(r.pendingAdd, t)
		r.sessionMu.Unlock()
		return nil
	}
	return r.applyAdd(t)
}

func (r *Registry) applyAdd(t Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[t.Name()]; exists {
		return wres.New(wres.KindFailed, "could not add task to the registry: name already present")
	}
	id := atomic.AddInt64(&r.nextID, 1)
	t.SetID(id)
	r.items[t.Name()] = t
	logging.Record(logging.Debug, logEmitterTaskRegistry, "new", &logging.Item{Name: t.Name(), ID: id}, "INIT", "OK", "task added to registry")
	return nil
}

// Remove unregisters a task by name. Deferred the same way as Add when a
// session is in progress.
func (r *Registry) Remove(name string) error {
	if r.inSession() {
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
	t, ok := r.items[name]
	if !ok {
		return wres.New(wres.KindEmpty, "could not pull task out from the registry")
	}
	t.SetID(0)
	delete(r.items, name)
	return nil
}

// Get returns the named task, if registered.
func (r *Registry) Get(name string) (Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.items[name]
	return t, ok
}

// Names returns every registered task name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.items))
	for n := range r.items {
		names = append(names, n)
	}
	return names
}

func (r *Registry) beginSession() {
	r.sessionMu.Lock()
	r.sessionCount++
	r.sessionMu.Unlock()
}

func (r *Registry) endSession() {
	r.sessionMu.Lock()
	r.sessionCount--
	drain := r.sessionCount == 0
	var removes []string
	var adds []Task
	if drain {
		removes, r.pendingRemove = r.pendingRemove, nil
		adds, r.pendingAdd = r.pendingAdd, nil
	}
	r.sessionMu.Unlock()

	if !drain {
		return
	}
	for _, name := range removes {
		_ = r.applyRemove(name)
	}
	for _, t := range adds {
		_ = r.applyAdd(t)
	}
}

// RunSequential runs the named tasks one after another in order,
// optionally breaking early on the first success or first failure,
// grounded on TaskRegistry::run_tasks_seq.
func (r *Registry) RunSequential(ctx context.Context, names []string, triggerName string, breakOnSuccess, breakOnFailure bool) []Result {
	r.beginSession()
	defer r.endSession()

	results := make([]Result, 0, len(names))
	for _, name := range names {
		t, ok := r.Get(name)
		if !ok {
			panic("task " + name + " not registered")
		}
		outcome, err := Run(ctx, t, triggerName)
		results = append(results, Result{Name: name, Outcome: outcome, Err: err})
		if err != nil {
			if breakOnFailure {
				break
			}
			continue
		}
		if outcome != nil {
			if *outcome && breakOnSuccess {
				break
			}
			if !*outcome && breakOnFailure {
				break
			}
		}
	}
	return results
}

// RunParallel runs the named tasks concurrently, one goroutine per task,
// and collects every outcome before returning, grounded on
// TaskRegistry::run_tasks_par.
func (r *Registry) RunParallel(ctx context.Context, names []string, triggerName string) []Result {
	r.beginSession()
	defer r.endSession()

	results := make([]Result, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			t, ok := r.Get(name)
			if !ok {
				panic("task " + name + " not registered")
			}
			outcome, err := Run(ctx, t, triggerName)
			results[i] = Result{Name: name, Outcome: outcome, Err: err}
		}(i, name)
	}
	wg.Wait()
	return results
}
