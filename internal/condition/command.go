package condition

import (
	"context"
	"time"

	"github.com/almostearthling/whenever-sub000/internal/classify"
	"github.com/almostearthling/whenever-sub000/internal/spawn"
)

// CommandProbeCondition runs an external command and classifies its
// outcome the same way a process task does, firing when the
// classification succeeds, grounded on
// condition::command_cond::CommandCondition.
type CommandProbeCondition struct {
	Base

	Command string
	Args    []string
	Dir     string
	Env     []string
	Timeout time.Duration

	Criteria classify.Criteria

	// CheckAfter throttles re-checking: the probe is skipped (reporting
	// indefinite) until this much time has passed since the last actual
	// check, mirroring check_after/check_last.
	CheckAfter time.Duration
	// RecurAfterFailedCheck, when false, suppresses CheckAfter throttling
	// after a failed check so a failing probe is retried every tick.
	RecurAfterFailedCheck bool

	lastChecked   time.Time
	lastCheckFailed bool
}

// NewCommandProbeCondition builds a command-probe condition.
func NewCommandProbeCondition(name, command string, args ...string) *CommandProbeCondition {
	return &CommandProbeCondition{Base: NewBase(name), Command: command, Args: args}
}

func (c *CommandProbeCondition) Type() string { return "command" }

func (c *CommandProbeCondition) Check(ctx context.Context) (*bool, error) {
	if c.CheckAfter > 0 && !c.lastChecked.IsZero() {
		if c.lastCheckFailed && !c.RecurAfterFailedCheck {
			// failed checks are retried every tick regardless of
			// CheckAfter, matching recur_after_failed_check semantics.
		} else if time.Since(c.lastChecked) < c.CheckAfter {
			return nil, nil
		}
	}

	res, err := spawn.Run(ctx, spawn.Options{
		Command: c.Command,
		Args:    c.Args,
		Dir:     c.Dir,
		Env:     c.Env,
		Timeout: c.Timeout,
	})
	c.lastChecked = time.Now()
	if err != nil {
		c.lastCheckFailed = true
		return nil, err
	}

	outcome := classify.Classify(res, c.Criteria)
	c.lastCheckFailed = outcome.Success == nil || !*outcome.Success
	return outcome.Success, nil
}
