// Package condition defines the Condition contract, its registry, and the
// variant implementations (interval, time-specifications, idle,
// command-probe, script-probe, bus-method-probe, management-query-probe,
// bucket), grounded on the original implementation's
// condition::base::Condition trait and its per-variant modules.
package condition

import (
	"context"
	"time"

	"github.com/almostearthling/whenever-sub000/internal/logging"
	"github.com/almostearthling/whenever-sub000/internal/task"
	"github.com/almostearthling/whenever-sub000/internal/wres"
)

const logEmitterCondition = "CONDITION"

// Condition is the interface every condition variant implements. Check
// performs the variant-specific test and reports the same trichotomy as
// a Task's outcome: nil means "not yet determined", non-nil reports
// satisfied/not-satisfied.
type Condition interface {
	Name() string
	ID() int64
	SetID(id int64)
	Type() string

	// Recurring reports whether this condition may fire again after a
	// successful check (vs. running its tasks once and then staying
	// dormant).
	Recurring() bool

	Suspended() bool
	SetSuspended(bool)

	Tasks() []string
	AddTask(name string) error

	ExecSequential() bool
	BreakOnSuccess() bool
	BreakOnFailure() bool

	Check(ctx context.Context) (*bool, error)

	// HasSucceeded reports whether the most recent check was a success,
	// the latch that keeps a non-recurring condition from firing again.
	HasSucceeded() bool
	// SetChecked records that a check cycle has just started.
	SetChecked()
	// SetSucceeded latches the most recent check as a success.
	SetSucceeded()
	// ResetSucceeded clears the success latch ahead of a new check.
	ResetSucceeded()
	// Verify is the single-use latch peek: it reports whether the most
	// recently completed check cycle succeeded, and consumes that
	// answer so a second call before the next check reports false.
	Verify() bool

	// Reset fully reinitializes the condition's check state: clears the
	// success latch and the checked/succeeded timestamps, and restores
	// the retry budget.
	Reset()
	// Start marks the condition as freshly activated.
	Start()
	// Suspend suspends the condition, reporting whether this call
	// actually changed its state.
	Suspend() bool
	// Resume un-suspends the condition, reporting whether this call
	// actually changed its state.
	Resume() bool

	// LeftRetries reports the remaining retry budget, or nil when the
	// configured retry budget is unlimited.
	LeftRetries() *int64
	// SetRetried consumes one unit of the retry budget.
	SetRetried()
	// TasksFailed reports whether the most recent task run left a
	// failure behind.
	TasksFailed() bool
	// SetTasksFailed records the outcome of the most recent task run.
	SetTasksFailed(failed bool)
}

// NoDelayTypes lists the condition types exempted from tick jitter
// (spec §4 / original main.rs NO_DELAY_CONDITIONS): conditions whose own
// timing already carries meaning should not be further smeared by random
// scheduling jitter.
var NoDelayTypes = map[string]bool{
	"interval": true,
	"time":     true,
	"idle":     true,
}

func logItem(c Condition) *logging.Item { return &logging.Item{Name: c.Name(), ID: c.ID()} }

// Tick runs one evaluation cycle of a condition: the skip checks, the
// check itself, latch management, and — on a positive outcome — running
// its bound tasks through reg (sequentially or in parallel per
// ExecSequential), grounded on condition::base::Condition::test plus the
// default run_tasks implementation.
//
// Panics if c has not been registered (ID() == 0): ticking an
// unregistered condition is a programming error, not an operational one.
func Tick(ctx context.Context, c Condition, reg *task.Registry) (*bool, error) {
	if c.ID() == 0 {
		panic("condition " + c.Name() + " not registered")
	}

	if len(c.Tasks()) == 0 {
		logging.Record(logging.Debug, logEmitterCondition, "active", logItem(c), "PROC", "MSG", "skipping check: condition has no associated tasks")
		return nil, nil
	}
	if c.Suspended() {
		logging.Record(logging.Debug, logEmitterCondition, "active", logItem(c), "PROC", "MSG", "skipping check: condition is suspended")
		return nil, nil
	}
	if c.HasSucceeded() && !c.Recurring() {
		logging.Record(logging.Debug, logEmitterCondition, "active", logItem(c), "PROC", "MSG", "skipping check: condition is not recurring")
		return nil, nil
	}

	c.ResetSucceeded()
	c.SetChecked()

	outcome, err := c.Check(ctx)
	if err != nil {
		logging.Record(logging.Warn, logEmitterCondition, "active", logItem(c), "PROC", "ERR", err.Error())
		return nil, err
	}
	if outcome == nil {
		logging.Record(logging.Warn, logEmitterCondition, "active", logItem(c), "PROC", "FAIL", "exiting: condition provided no outcome")
		return nil, nil
	}
	if !*outcome {
		logging.Record(logging.Info, logEmitterCondition, "active", logItem(c), "PROC", "OK", "failure: condition checked with negative outcome")
		return outcome, nil
	}

	c.SetSucceeded()
	logging.Record(logging.Info, logEmitterCondition, "active", logItem(c), "PROC", "OK", "success: condition checked with positive outcome, running tasks")

	names := c.Tasks()
	var results []task.Result
	if c.ExecSequential() {
		results = reg.RunSequential(ctx, names, c.Name(), c.BreakOnSuccess(), c.BreakOnFailure())
	} else {
		results = reg.RunParallel(ctx, names, c.Name())
	}

	failed := false
	for _, res := range results {
		if res.Err != nil || res.Outcome == nil || !*res.Outcome {
			failed = true
			break
		}
	}
	c.SetTasksFailed(failed)
	if failed {
		c.SetRetried()
	}

	return outcome, nil
}

// ErrTaskNotAdded mirrors ERR_COND_TASK_NOT_ADDED.
var ErrTaskNotAdded = wres.New(wres.KindFailed, "condition could not add task")

// Base is an embeddable struct carrying the fields and trivial accessors
// shared by every condition variant, analogous to the common fields
// every Rust variant struct repeats (name, id, tasks, exec_sequence,
// break_on_*, suspended).
type Base struct {
	name string
	id   int64

	taskNames      []string
	execSequential bool
	breakOnSuccess bool
	breakOnFailure bool
	suspended      bool

	recurring  bool
	maxRetries int64

	hasSucceeded  bool
	lastTested    time.Time
	lastSucceeded time.Time
	startupTime   time.Time
	leftRetries   int64
	tasksFailed   bool
}

// NewBase builds a Base with the given name.
func NewBase(name string) Base { return Base{name: name} }

func (b *Base) Name() string   { return b.name }
func (b *Base) ID() int64      { return b.id }
func (b *Base) SetID(id int64) { b.id = id }

func (b *Base) Tasks() []string { return append([]string(nil), b.taskNames...) }

func (b *Base) AddTask(name string) error {
	for _, n := range b.taskNames {
		if n == name {
			return ErrTaskNotAdded
		}
	}
	b.taskNames = append(b.taskNames, name)
	return nil
}

func (b *Base) ExecSequential() bool { return b.execSequential }
func (b *Base) BreakOnSuccess() bool { return b.breakOnSuccess }
func (b *Base) BreakOnFailure() bool { return b.breakOnFailure }
func (b *Base) Suspended() bool      { return b.suspended }
func (b *Base) SetSuspended(s bool)  { b.suspended = s }

// SetExecSequential configures sequential (vs. parallel) task execution.
func (b *Base) SetExecSequential(v bool) { b.execSequential = v }

// SetBreakOnSuccess configures early-exit-on-success for sequential runs.
func (b *Base) SetBreakOnSuccess(v bool) { b.breakOnSuccess = v }

// SetBreakOnFailure configures early-exit-on-failure for sequential runs.
func (b *Base) SetBreakOnFailure(v bool) { b.breakOnFailure = v }

func (b *Base) Recurring() bool     { return b.recurring }
func (b *Base) SetRecurring(v bool) { b.recurring = v }

// MaxRetries is the configured retry budget; -1 means unlimited.
func (b *Base) MaxRetries() int64     { return b.maxRetries }
func (b *Base) SetMaxRetries(n int64) { b.maxRetries = n }

func (b *Base) HasSucceeded() bool       { return b.hasSucceeded }
func (b *Base) LastTested() time.Time    { return b.lastTested }
func (b *Base) LastSucceeded() time.Time { return b.lastSucceeded }
func (b *Base) StartupTime() time.Time   { return b.startupTime }

func (b *Base) SetChecked() { b.lastTested = time.Now() }

func (b *Base) SetSucceeded() {
	b.lastSucceeded = b.lastTested
	b.hasSucceeded = true
}

func (b *Base) ResetSucceeded() {
	b.lastSucceeded = time.Time{}
	b.hasSucceeded = false
}

// Verify reports whether the most recently completed check succeeded,
// and consumes that answer: a second call before the next check reports
// false. Grounded on condition::base::Condition::verify.
func (b *Base) Verify() bool {
	if b.lastTested.IsZero() || b.lastSucceeded.IsZero() {
		return false
	}
	res := b.lastSucceeded.Equal(b.lastTested)
	b.ResetSucceeded()
	return res
}

// Reset fully reinitializes the condition's check state, grounded on
// condition::base::Condition::reset.
func (b *Base) Reset() {
	b.lastTested = time.Time{}
	b.lastSucceeded = time.Time{}
	b.hasSucceeded = false
	b.leftRetries = b.maxRetries + 1
	b.tasksFailed = true
}

// Start marks the condition as freshly activated: clears suspension,
// restores the retry budget, and records the activation time. The
// tasks_failed flag is set because no task has run yet, which for
// retry-counting purposes is equivalent to a failure.
func (b *Base) Start() {
	b.suspended = false
	b.leftRetries = b.maxRetries + 1
	b.startupTime = time.Now()
	b.tasksFailed = true
}

// Suspend suspends the condition, reporting whether this call actually
// changed its state.
func (b *Base) Suspend() bool {
	if b.suspended {
		return false
	}
	b.suspended = true
	return true
}

// Resume un-suspends the condition, reporting whether this call
// actually changed its state.
func (b *Base) Resume() bool {
	if !b.suspended {
		return false
	}
	b.suspended = false
	return true
}

// LeftRetries reports the remaining retry budget, or nil when
// MaxRetries is unlimited (-1).
func (b *Base) LeftRetries() *int64 {
	if b.maxRetries == -1 {
		return nil
	}
	n := b.leftRetries
	return &n
}

// SetRetried consumes one unit of the retry budget, if any remains.
func (b *Base) SetRetried() {
	if b.leftRetries > 0 {
		b.leftRetries--
	}
}

func (b *Base) TasksFailed() bool          { return b.tasksFailed }
func (b *Base) SetTasksFailed(failed bool) { b.tasksFailed = failed }
