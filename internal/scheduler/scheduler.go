// Package scheduler drives the periodic condition tick, grounded on the
// original implementation's main::sched_tick, realized on top of
// robfig/cron's ticker instead of a hand-rolled time.Ticker loop
// (SPEC_FULL.md §6.6).
package scheduler

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/almostearthling/whenever-sub000/internal/condition"
	"github.com/almostearthling/whenever-sub000/internal/logging"
)

const logEmitterMain = "MAIN"

// Scheduler dispatches one condition.Registry.Tick per registered
// condition name on every heartbeat, applying jitter to conditions whose
// type is not in condition.NoDelayTypes.
type Scheduler struct {
	cron        *cron.Cron
	tickSeconds int
	registry    *condition.Registry
	paused      atomic.Bool
	randomize   bool
}

// New builds a scheduler that ticks every tickSeconds, dispatching one
// goroutine per registered condition on each heartbeat.
func New(registry *condition.Registry, tickSeconds int, randomize bool) *Scheduler {
	return &Scheduler{
		cron:        cron.New(cron.WithSeconds()),
		tickSeconds: tickSeconds,
		registry:    registry,
		randomize:   randomize,
	}
}

// Pause suspends dispatch; Resume re-enables it. Mirrors the original's
// APPLICATION_IS_PAUSED global.
func (s *Scheduler) Pause()  { s.paused.Store(true) }
func (s *Scheduler) Resume() { s.paused.Store(false) }
func (s *Scheduler) Paused() bool { return s.paused.Load() }

// Start installs the cron entry and begins dispatching ticks.
func (s *Scheduler) Start(ctx context.Context) error {
	spec := cronEverySeconds(s.tickSeconds)
	_, err := s.cron.AddFunc(spec, func() { s.tick(ctx) })
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts dispatch and waits for any in-flight job to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
}

func cronEverySeconds(n int) string {
	if n <= 0 {
		n = 1
	}
	return fmt.Sprintf("@every %ds", n)
}

// tick reproduces main::sched_tick: when not paused, spawn one goroutine
// per registered condition, jittering the dispatch unless the condition's
// type is in the no-delay allow-list.
func (s *Scheduler) tick(ctx context.Context) {
	if s.paused.Load() {
		return
	}
	names := s.registry.Names()
	for _, name := range names {
		name := name
		go func() {
			if s.randomize {
				cond, ok := s.registry.Get(name)
				noDelay := ok && condition.NoDelayTypes[cond.Type()]
				if !noDelay && s.tickSeconds > 0 {
					delay := time.Duration(rand.Intn(s.tickSeconds*1000)) * time.Millisecond
					time.Sleep(delay)
				}
			}
			outcome, err := s.registry.Tick(ctx, name)
			switch {
			case err != nil:
				logging.Record(logging.Trace, logEmitterMain, "tick", &logging.Item{Name: name}, "PROC", "ERR", err.Error())
			case outcome == nil:
				logging.Record(logging.Trace, logEmitterMain, "tick", &logging.Item{Name: name}, "PROC", "MSG", "indefinite")
			case *outcome:
				logging.Record(logging.Trace, logEmitterMain, "tick", &logging.Item{Name: name}, "PROC", "OK", "satisfied")
			default:
				logging.Record(logging.Trace, logEmitterMain, "tick", &logging.Item{Name: name}, "PROC", "MSG", "not satisfied")
			}
		}()
	}
}
