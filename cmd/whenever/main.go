// Command whenever runs the background automation engine: a population
// of conditions, each owning tasks, evaluated on a jittered tick and by
// a cooperative event-listener reactor, grounded on the original
// implementation's main.rs wiring.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/almostearthling/whenever-sub000/internal/cmdrunner"
	"github.com/almostearthling/whenever-sub000/internal/condition"
	"github.com/almostearthling/whenever-sub000/internal/config"
	"github.com/almostearthling/whenever-sub000/internal/dbusx"
	"github.com/almostearthling/whenever-sub000/internal/event"
	"github.com/almostearthling/whenever-sub000/internal/logging"
	"github.com/almostearthling/whenever-sub000/internal/metrics"
	"github.com/almostearthling/whenever-sub000/internal/scheduler"
	"github.com/almostearthling/whenever-sub000/internal/singleinstance"
	"github.com/almostearthling/whenever-sub000/internal/task"
)

const (
	exitOK    = 0
	exitFatal = 2
)

var (
	flagConfig      string
	flagLogLevel    string
	flagLogFile     string
	flagTickSeconds int
	flagRandomize   bool
	flagMetricsAddr string
)

func main() {
	root := &cobra.Command{
		Use:   "whenever",
		Short: "Background condition/task automation engine",
		RunE:  run,
	}
	root.Flags().StringVar(&flagConfig, "config", "whenever.toml", "path to the configuration file")
	root.Flags().StringVar(&flagLogLevel, "log-level", "info", "log level (trace|debug|info|warn|error)")
	root.Flags().StringVar(&flagLogFile, "log-file", "stdout", "log output (stdout|stderr|path)")
	root.Flags().IntVar(&flagTickSeconds, "tick-seconds", 0, "override the scheduler tick interval in seconds")
	root.Flags().BoolVar(&flagRandomize, "randomize", true, "apply jitter to condition dispatch")
	root.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "address to serve /metrics on (empty disables)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFatal)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if err := logging.Init(logging.Config{Level: flagLogLevel, Format: "text", Output: flagLogFile}); err != nil {
		fmt.Fprintln(os.Stderr, "could not initialize logger:", err)
		os.Exit(exitFatal)
	}

	lock, err := singleinstance.Acquire("whenever")
	if err != nil {
		logging.Record(logging.Error, "MAIN", "new", nil, "INIT", "ERR", err.Error())
		os.Exit(exitFatal)
	}
	defer lock.Release()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		logging.Record(logging.Error, "MAIN", "new", nil, "INIT", "ERR", err.Error())
		os.Exit(exitFatal)
	}
	tickSeconds := cfg.Scheduler.TickSeconds
	if flagTickSeconds > 0 {
		tickSeconds = flagTickSeconds
	}

	taskRegistry := task.NewRegistry()
	conditionRegistry := condition.NewRegistry(taskRegistry)
	eventRegistry := event.NewRegistry()
	bucket := event.NewBucket()

	var busClient *dbusx.Client
	if b, err := dbusx.Dial(false); err == nil {
		busClient = b
	} else {
		logging.Record(logging.Warn, "MAIN", "new", nil, "INIT", "MSG", "bus unavailable, bus-backed items will fail to install: "+err.Error())
	}

	for _, m := range cfg.Tasks {
		t, err := config.BuildTask(m)
		if err != nil {
			logging.Record(logging.Error, "MAIN", "new", nil, "INIT", "ERR", err.Error())
			os.Exit(exitFatal)
		}
		if err := taskRegistry.Add(t); err != nil {
			logging.Record(logging.Error, "MAIN", "new", nil, "INIT", "ERR", err.Error())
			os.Exit(exitFatal)
		}
	}

	bucketCond := condition.NewBucketCondition("__bucket__", bucket)
	if err := conditionRegistry.Add(bucketCond); err != nil {
		logging.Record(logging.Error, "MAIN", "new", nil, "INIT", "ERR", err.Error())
		os.Exit(exitFatal)
	}
	for _, m := range cfg.Conditions {
		c, err := config.BuildCondition(m, bucket, busClient)
		if err != nil {
			logging.Record(logging.Error, "MAIN", "new", nil, "INIT", "ERR", err.Error())
			os.Exit(exitFatal)
		}
		if err := conditionRegistry.Add(c); err != nil {
			logging.Record(logging.Error, "MAIN", "new", nil, "INIT", "ERR", err.Error())
			os.Exit(exitFatal)
		}
	}
	for _, m := range cfg.Events {
		e, err := config.BuildEvent(m, busClient)
		if err != nil {
			logging.Record(logging.Error, "MAIN", "new", nil, "INIT", "ERR", err.Error())
			os.Exit(exitFatal)
		}
		if err := eventRegistry.Add(e); err != nil {
			logging.Record(logging.Error, "MAIN", "new", nil, "INIT", "ERR", err.Error())
			os.Exit(exitFatal)
		}
	}

	sched := scheduler.New(conditionRegistry, tickSeconds, flagRandomize && cfg.Scheduler.Randomize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if flagMetricsAddr != "" {
		go func() {
			if err := metrics.Serve(flagMetricsAddr); err != nil {
				logging.Record(logging.Warn, "MAIN", "new", nil, "START", "ERR", err.Error())
			}
		}()
	}

	if err := sched.Start(ctx); err != nil {
		logging.Record(logging.Error, "MAIN", "new", nil, "INIT", "ERR", err.Error())
		os.Exit(exitFatal)
	}
	defer sched.Stop()

	go func() {
		if err := eventRegistry.Listen(ctx, bucket); err != nil && ctx.Err() == nil {
			logging.Record(logging.Warn, "MAIN", "new", nil, "START", "ERR", err.Error())
		}
	}()

	interpreter := &cmdrunner.Interpreter{
		Scheduler:  sched,
		Conditions: conditionRegistry,
		Events:     eventRegistry,
	}
	task.SetVerbRunner(func(verb string) (bool, error) {
		reply := interpreter.Dispatch(verb)
		return !strings.HasPrefix(reply, "ERR"), nil
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		interpreter.RequestExit()
		cancel()
	}()

	go interpreter.Run(os.Stdin, os.Stdout)

	// "quit"/"exit" (from stdin or an internal task) only sets the
	// must-exit flag; this turns it into the same shutdown as a signal.
	go func() {
		for !interpreter.MustExit() {
			time.Sleep(time.Second)
		}
		cancel()
	}()

	<-ctx.Done()
	logging.Record(logging.Info, "MAIN", "new", nil, "END", "OK", "shutting down")
	return nil
}
