package task

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/almostearthling/whenever-sub000/internal/classify"
	"github.com/almostearthling/whenever-sub000/internal/spawn"
)

// ProcessTask spawns an external command and classifies its outcome,
// grounded on task::command_task::CommandTask.
type ProcessTask struct {
	name string
	id   int64

	Command string
	Args    []string
	Dir     string
	Env     []string
	Timeout time.Duration

	Criteria classify.Criteria
}

// NewProcessTask builds a process task with the given name and command.
func NewProcessTask(name, command string, args ...string) *ProcessTask {
	return &ProcessTask{name: name, Command: command, Args: args}
}

func (p *ProcessTask) Name() string    { return p.name }
func (p *ProcessTask) ID() int64       { return p.id }
func (p *ProcessTask) SetID(id int64)  { p.id = id }

func (p *ProcessTask) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(p.name))
	_, _ = h.Write([]byte(p.Command))
	for _, a := range p.Args {
		_, _ = h.Write([]byte(a))
	}
	return h.Sum64()
}

func (p *ProcessTask) Execute(ctx context.Context, triggerName string) (*bool, error) {
	res, err := spawn.Run(ctx, spawn.Options{
		Command: p.Command,
		Args:    p.Args,
		Dir:     p.Dir,
		Env:     p.Env,
		Timeout: p.Timeout,
	})
	if err != nil {
		return nil, err
	}
	outcome := classify.Classify(res, p.Criteria)
	return outcome.Success, nil
}
