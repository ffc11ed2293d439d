// Package logging provides the engine's structured logger, a thin wrapper
// around logrus in the style of the teacher's pkg/logger package, extended
// with the emitter/action/item/when/status log-record shape the original
// implementation's common::logging module uses throughout the codebase.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Severity mirrors the original implementation's LogType enum.
type Severity int

const (
	Trace Severity = iota
	Debug
	Info
	Warn
	Error
)

// Config configures the process-wide logger, analogous to the teacher's
// LoggingConfig (level/format/output).
type Config struct {
	Level  string // trace|debug|info|warn|error
	Format string // text|json
	Output string // stdout|stderr|path to a file (a path logs to the file and to stdout)
}

var std = logrus.New()

// Init configures the package-level logger singleton. Call once at
// startup; safe to call again in tests.
func Init(cfg Config) error {
	lvl, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	std.SetLevel(lvl)

	switch strings.ToLower(cfg.Format) {
	case "json":
		std.SetFormatter(&logrus.JSONFormatter{})
	default:
		std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	var out io.Writer
	switch cfg.Output {
	case "", "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	default:
		f, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		out = io.MultiWriter(os.Stdout, f)
	}
	std.SetOutput(out)
	return nil
}

// Logger returns the shared logrus logger for components that need direct
// field-based logging outside the Record helper below.
func Logger() *logrus.Logger { return std }

func toLevel(s Severity) logrus.Level {
	switch s {
	case Trace:
		return logrus.TraceLevel
	case Debug:
		return logrus.DebugLevel
	case Info:
		return logrus.InfoLevel
	case Warn:
		return logrus.WarnLevel
	default:
		return logrus.ErrorLevel
	}
}

// Item optionally names the subject of a log record (a task, condition or
// event name plus its registry ID); zero value omits the item entirely.
type Item struct {
	Name string
	ID   int64
}

// Record emits one engine-wide log record shaped after the original
// implementation's common::logging::log: an emitter/action identify the
// subsystem and operation, an optional item names the subject, and
// when/status/message describe the outcome.
//
// The message is logged with emitter, action, when, status (and item and
// id, when an item is given) attached as logrus fields; the rendered line
// is whatever the configured logrus formatter (text or JSON) produces.
// No "context: [WHEN/STATUS] message" style line is composed here.
func Record(sev Severity, emitter, action string, item *Item, when, status, message string) {
	entry := std.WithFields(logrus.Fields{
		"emitter": emitter,
		"action":  action,
		"when":    when,
		"status":  status,
	})
	if item != nil {
		entry = entry.WithFields(logrus.Fields{"item": item.Name, "id": item.ID})
	}
	entry.Log(toLevel(sev), message)
}
