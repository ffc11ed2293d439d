package task

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/almostearthling/whenever-sub000/internal/wres"
)

// VerbRunner executes one internal verb (a built-in command distinct from
// spawning an external process, such as "pause", "resume" or a registry
// mutation) and reports success. Exactly one runner may be installed at a
// time, matching task::internal_task's package-level CommandRunner.
type VerbRunner func(verb string) (bool, error)

var (
	verbRunnerMu sync.Mutex
	verbRunner   VerbRunner
)

// SetVerbRunner installs the process-wide internal verb runner. Intended
// to be called once during startup wiring (cmd/whenever), after the
// condition/event registries it closes over have been constructed.
func SetVerbRunner(fn VerbRunner) {
	verbRunnerMu.Lock()
	defer verbRunnerMu.Unlock()
	verbRunner = fn
}

func currentVerbRunner() VerbRunner {
	verbRunnerMu.Lock()
	defer verbRunnerMu.Unlock()
	return verbRunner
}

// InternalTask invokes a named built-in verb through the installed
// VerbRunner, grounded on task::internal_task::InternalTask.
type InternalTask struct {
	name string
	id   int64
	Verb string
}

// NewInternalTask builds an internal-verb task.
func NewInternalTask(name, verb string) *InternalTask {
	return &InternalTask{name: name, Verb: verb}
}

func (t *InternalTask) Name() string   { return t.name }
func (t *InternalTask) ID() int64      { return t.id }
func (t *InternalTask) SetID(id int64) { t.id = id }

func (t *InternalTask) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(t.name))
	_, _ = h.Write([]byte(t.Verb))
	return h.Sum64()
}

func (t *InternalTask) Execute(ctx context.Context, triggerName string) (*bool, error) {
	runner := currentVerbRunner()
	if runner == nil {
		return nil, wres.New(wres.KindUnavailable, "no internal verb runner installed")
	}
	ok, err := runner(t.Verb)
	if err != nil {
		return nil, err
	}
	return &ok, nil
}
