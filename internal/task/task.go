// Package task defines the Task contract and its registry, grounded on
// the original implementation's task::base::Task trait and
// task::registry::TaskRegistry.
package task

import (
	"context"
	"fmt"

	"github.com/almostearthling/whenever-sub000/internal/logging"
	"github.com/almostearthling/whenever-sub000/internal/wres"
)

const logEmitterTask = "TASK"

// Task is the interface every task variant (process, script,
// internal-verb) implements. A zero ID marks a task as not yet
// registered; Run must only be called on a registered task.
type Task interface {
	Name() string
	ID() int64
	SetID(id int64)
	Hash() uint64

	// Execute performs the task's effect and reports its outcome: nil
	// means indefinite (the caller should not treat this as success or
	// failure), a non-nil *bool reports success/failure.
	Execute(ctx context.Context, triggerName string) (*bool, error)
}

// Run wraps Execute with the history logging the original implementation
// produces from task::base::Task::run: a START record before execution
// and an END record classifying the outcome as OK/FAIL/IND/ERR.
func Run(ctx context.Context, t Task, triggerName string) (*bool, error) {
	if t.ID() == 0 {
		panic(fmt.Sprintf("task %s not registered", t.Name()))
	}

	item := &logging.Item{Name: t.Name(), ID: t.ID()}
	logging.Record(logging.Trace, logEmitterTask, "active", item, "HIST", "START",
		fmt.Sprintf("OK/trigger:%s starting task", triggerName))

	outcome, err := t.Execute(ctx, triggerName)

	switch {
	case err != nil:
		logging.Record(logging.Trace, logEmitterTask, "active", item, "HIST", "END",
			fmt.Sprintf("ERR/trigger:%s error: %v", triggerName, err))
	case outcome == nil:
		logging.Record(logging.Trace, logEmitterTask, "active", item, "HIST", "END",
			fmt.Sprintf("IND/trigger:%s no outcome", triggerName))
	case *outcome:
		logging.Record(logging.Trace, logEmitterTask, "active", item, "HIST", "END",
			fmt.Sprintf("OK/trigger:%s task succeeded", triggerName))
	default:
		logging.Record(logging.Trace, logEmitterTask, "active", item, "HIST", "END",
			fmt.Sprintf("FAIL/trigger:%s task failed", triggerName))
	}

	return outcome, err
}

// ErrTaskNotAdded mirrors ERR_TASKREG_TASK_NOT_ADDED.
var ErrTaskNotAdded = wres.New(wres.KindFailed, "could not add task to the registry")
