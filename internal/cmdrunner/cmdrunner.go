// Package cmdrunner implements the stdin command protocol (spec §6) and
// serves as the internal-verb task runner, grounded on the original
// implementation's main::interpret_commands.
package cmdrunner

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/almostearthling/whenever-sub000/internal/condition"
	"github.com/almostearthling/whenever-sub000/internal/event"
	"github.com/almostearthling/whenever-sub000/internal/logging"
	"github.com/almostearthling/whenever-sub000/internal/scheduler"
)

const logEmitterMain = "MAIN"

// Scheduler is the subset of scheduler.Scheduler the interpreter drives.
type Scheduler interface {
	Pause()
	Resume()
	Paused() bool
}

var _ Scheduler = (*scheduler.Scheduler)(nil)

// Interpreter reads newline-delimited verbs from an input stream and
// applies them to the engine's registries, matching the verbs documented
// in spec §6 (pause, resume, quit/exit, reset <name>, trigger <name>).
type Interpreter struct {
	Scheduler  Scheduler
	Conditions *condition.Registry
	Events     *event.Registry

	mustExit atomic.Bool
}

// MustExit reports whether a "quit"/"exit" verb (or external signal) has
// requested shutdown.
func (in *Interpreter) MustExit() bool { return in.mustExit.Load() }

// RequestExit sets the must-exit flag, used both by the "quit" verb and
// by OS signal handling in cmd/whenever.
func (in *Interpreter) RequestExit() { in.mustExit.Store(true) }

// Run reads verbs from r until EOF, MustExit becomes true, or w fails.
func (in *Interpreter) Run(r io.Reader, w io.Writer) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if in.MustExit() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		reply := in.Dispatch(line)
		if _, err := fmt.Fprintln(w, reply); err != nil {
			return
		}
	}
}

// Dispatch applies one command line and returns the protocol reply.
func (in *Interpreter) Dispatch(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "ERR empty command"
	}
	verb := strings.ToLower(fields[0])
	args := fields[1:]

	switch verb {
	case "pause":
		if in.Scheduler.Paused() {
			return "WARN already paused"
		}
		in.Scheduler.Pause()
		logging.Record(logging.Info, logEmitterMain, "pause", nil, "PAUSE", "OK", "scheduler paused")
		return "OK"

	case "resume":
		// With one argument this resumes a single suspended condition
		// rather than the scheduler as a whole.
		if len(args) == 1 {
			if err := in.Conditions.Resume(args[0]); err != nil {
				return "ERR " + err.Error()
			}
			return "OK"
		}
		if len(args) != 0 {
			return "ERR resume takes at most one condition name"
		}
		if !in.Scheduler.Paused() {
			return "WARN already running"
		}
		in.Scheduler.Resume()
		logging.Record(logging.Info, logEmitterMain, "pause", nil, "PAUSE", "OK", "scheduler resumed")
		return "OK"

	case "quit", "exit":
		in.RequestExit()
		return "OK"

	case "reset":
		if len(args) != 1 {
			return "ERR reset requires exactly one condition name"
		}
		if err := in.Conditions.Reset(args[0]); err != nil {
			return "ERR " + err.Error()
		}
		return "OK"

	case "suspend":
		if len(args) != 1 {
			return "ERR suspend requires exactly one condition name"
		}
		if err := in.Conditions.Suspend(args[0]); err != nil {
			return "ERR " + err.Error()
		}
		return "OK"

	case "trigger":
		if len(args) != 1 {
			return "ERR trigger requires exactly one event name"
		}
		return in.trigger(args[0])

	default:
		return "ERR unknown command: " + verb
	}
}

// trigger fires the named event. Events.Trigger panics on an
// unregistered name (a programming error), so the existence check here
// is what keeps an operator's typo from crashing the process — the
// stdin protocol must never let that panic escape.
func (in *Interpreter) trigger(name string) string {
	if _, ok := in.Events.Get(name); !ok {
		return "ERR unknown event: " + name
	}
	if !in.Events.Trigger(name) {
		return "ERR event is not manually triggerable: " + name
	}
	return "OK"
}
