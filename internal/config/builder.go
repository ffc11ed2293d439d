package config

import (
	"time"

	"github.com/almostearthling/whenever-sub000/internal/condition"
	"github.com/almostearthling/whenever-sub000/internal/dbusx"
	"github.com/almostearthling/whenever-sub000/internal/event"
	"github.com/almostearthling/whenever-sub000/internal/script"
	"github.com/almostearthling/whenever-sub000/internal/sysinfo"
	"github.com/almostearthling/whenever-sub000/internal/task"
	"github.com/almostearthling/whenever-sub000/internal/wres"
)

// BuildTask constructs a concrete task.Task from one cfgmap entry,
// dispatching on its "type" key, mirroring every task variant's own
// load_cfgmap in the original implementation.
func BuildTask(m CfgMap) (task.Task, error) {
	typ, err := m.GetString("type", true)
	if err != nil {
		return nil, err
	}
	name, err := m.GetString("name", true)
	if err != nil {
		return nil, err
	}

	switch typ {
	case "process":
		command, err := m.GetString("command", true)
		if err != nil {
			return nil, err
		}
		args := m.GetStringSlice("args")
		t := task.NewProcessTask(name, command, args...)
		if dir, _ := m.GetString("startup_path", false); dir != "" {
			t.Dir = dir
		}
		if secs, _ := m.GetInt("timeout_seconds", false); secs > 0 {
			t.Timeout = time.Duration(secs) * time.Second
		}
		return t, nil

	case "internal":
		verb, err := m.GetString("command", true)
		if err != nil {
			return nil, err
		}
		return task.NewInternalTask(name, verb), nil

	case "script":
		source, err := m.GetString("script", true)
		if err != nil {
			return nil, err
		}
		return task.NewScriptTask(name, script.NewEngine(), source), nil

	default:
		return nil, wres.New(wres.KindInvalid, "task type invalid or mismatched: "+typ)
	}
}

// BuildCondition constructs a concrete condition.Condition from one
// cfgmap entry, mirroring every condition variant's own load_cfgmap.
func BuildCondition(m CfgMap, bucket *event.Bucket, busClient *dbusx.Client) (condition.Condition, error) {
	typ, err := m.GetString("type", true)
	if err != nil {
		return nil, err
	}
	name, err := m.GetString("name", true)
	if err != nil {
		return nil, err
	}

	var c condition.Condition
	switch typ {
	case "interval":
		secs, err := m.GetInt("interval_seconds", true)
		if err != nil {
			return nil, err
		}
		c = condition.NewIntervalCondition(name, time.Duration(secs)*time.Second)

	case "idle":
		secs, err := m.GetInt("idle_seconds", true)
		if err != nil {
			return nil, err
		}
		tracker := sysinfo.NewLastInputTracker()
		c = condition.NewIdleCondition(name, time.Duration(secs)*time.Second, func() (float64, error) {
			return tracker.IdleSeconds(), nil
		})

	case "command":
		cmd, err := m.GetString("command", true)
		if err != nil {
			return nil, err
		}
		args := m.GetStringSlice("args")
		c = condition.NewCommandProbeCondition(name, cmd, args...)

	case "script":
		source, err := m.GetString("script", true)
		if err != nil {
			return nil, err
		}
		c = condition.NewScriptProbeCondition(name, script.NewEngine(), source)

	case "bus":
		service, err := m.GetString("bus_service", true)
		if err != nil {
			return nil, err
		}
		objectPath, err := m.GetString("bus_object_path", true)
		if err != nil {
			return nil, err
		}
		iface, err := m.GetString("bus_interface", true)
		if err != nil {
			return nil, err
		}
		method, err := m.GetString("bus_method", true)
		if err != nil {
			return nil, err
		}
		c = condition.NewBusMethodProbeCondition(name, busClient, service, objectPath, iface, method)

	case "wmi":
		kind, err := m.GetString("query", true)
		if err != nil {
			return nil, err
		}
		c = condition.NewManagementQueryProbeCondition(name, kind)

	case "bucket":
		c = condition.NewBucketCondition(name, bucket)

	default:
		return nil, wres.New(wres.KindInvalid, "condition type invalid or mismatched: "+typ)
	}

	if base, ok := c.(interface{ SetExecSequential(bool) }); ok {
		base.SetExecSequential(m.GetBool("execute_sequence", false))
	}
	if base, ok := c.(interface{ SetBreakOnSuccess(bool) }); ok {
		base.SetBreakOnSuccess(m.GetBool("break_on_success", false))
	}
	if base, ok := c.(interface{ SetBreakOnFailure(bool) }); ok {
		base.SetBreakOnFailure(m.GetBool("break_on_failure", false))
	}
	if base, ok := c.(interface{ SetSuspended(bool) }); ok {
		base.SetSuspended(m.GetBool("suspended", false))
	}
	// The bucket condition is unconditionally recurring (its purpose is
	// draining the event bucket on every tick) and not configurable.
	if typ != "bucket" {
		if base, ok := c.(interface{ SetRecurring(bool) }); ok {
			base.SetRecurring(m.GetBool("recurring", false))
		}
	}
	if base, ok := c.(interface{ SetMaxRetries(int64) }); ok {
		retries, _ := m.GetInt("max_tasks_retries", false)
		base.SetMaxRetries(int64(retries))
	}
	for _, taskName := range m.GetStringSlice("tasks") {
		if base, ok := c.(interface{ AddTask(string) error }); ok {
			_ = base.AddTask(taskName)
		}
	}

	return c, nil
}

// BuildEvent constructs a concrete event.Event from one cfgmap entry.
func BuildEvent(m CfgMap, busClient *dbusx.Client) (event.Event, error) {
	typ, err := m.GetString("type", true)
	if err != nil {
		return nil, err
	}
	name, err := m.GetString("name", true)
	if err != nil {
		return nil, err
	}
	condName, err := m.GetString("condition", true)
	if err != nil {
		return nil, err
	}

	switch typ {
	case "fschange":
		paths := m.GetStringSlice("watch")
		return event.NewFsWatchEvent(name, condName, paths), nil

	case "dbus":
		iface, _ := m.GetString("bus_interface", false)
		member, _ := m.GetString("bus_member", false)
		return event.NewBusSignalEvent(name, condName, busClient, iface, member), nil

	case "manual":
		return event.NewManualEvent(name, condName), nil

	default:
		return nil, wres.New(wres.KindInvalid, "event type invalid or mismatched: "+typ)
	}
}
