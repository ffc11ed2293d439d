// Package sysinfo provides the management-facility probes
// (SPEC_FULL.md §6.3/§6.4): host idle-time detection for the idle
// condition, and host/load/process record queries for the
// management-query-probe condition, backed by gopsutil/v3.
package sysinfo

import (
	"encoding/json"
	"os/exec"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/tidwall/gjson"

	"github.com/almostearthling/whenever-sub000/internal/wres"
)

// IdleSeconds returns the host uptime in seconds, per gopsutil's host
// facilities, as a best-effort stand-in for idle time: gopsutil does not
// expose a cross-platform idle-time reading, and no user-input counter
// is read here. The value is monotone, not an absolute idle measure.
func IdleSeconds() (float64, error) {
	uptime, err := host.Uptime()
	if err != nil {
		return 0, wres.Wrap(wres.KindUnavailable, wres.OriginNative, "could not read host uptime", err)
	}
	return float64(uptime), nil
}

// Query runs one of the built-in record facilities ("host", "load",
// "process") or, for kind "external:<command>", executes an external
// command expected to emit newline-delimited JSON objects on stdout and
// parses each line into a generic record via gjson, grounded on
// SPEC_FULL.md §6.3.
func Query(kind string) ([]map[string]interface{}, error) {
	switch {
	case kind == "host":
		info, err := host.Info()
		if err != nil {
			return nil, wres.Wrap(wres.KindUnavailable, wres.OriginNative, "host query failed", err)
		}
		return []map[string]interface{}{toRecord(info)}, nil

	case kind == "load":
		avg, err := load.Avg()
		if err != nil {
			return nil, wres.Wrap(wres.KindUnavailable, wres.OriginNative, "load query failed", err)
		}
		return []map[string]interface{}{toRecord(avg)}, nil

	case kind == "process":
		procs, err := process.Processes()
		if err != nil {
			return nil, wres.Wrap(wres.KindUnavailable, wres.OriginNative, "process query failed", err)
		}
		records := make([]map[string]interface{}, 0, len(procs))
		for _, p := range procs {
			name, _ := p.Name()
			records = append(records, map[string]interface{}{
				"pid":  float64(p.Pid),
				"name": name,
			})
		}
		return records, nil

	case strings.HasPrefix(kind, "external:"):
		command := strings.TrimPrefix(kind, "external:")
		return externalQuery(command)

	default:
		return nil, wres.New(wres.KindInvalid, "unknown management query kind: "+kind)
	}
}

func externalQuery(command string) ([]map[string]interface{}, error) {
	out, err := exec.Command("/bin/sh", "-c", command).Output()
	if err != nil {
		return nil, wres.Wrap(wres.KindFailed, wres.OriginProcess, "external management query failed", err)
	}
	var records []map[string]interface{}
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		val := gjson.Parse(line).Value()
		rec, ok := val.(map[string]interface{})
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func toRecord(v interface{}) map[string]interface{} {
	b, err := json.Marshal(v)
	if err != nil {
		return map[string]interface{}{}
	}
	var m map[string]interface{}
	_ = json.Unmarshal(b, &m)
	return m
}

// LastInputTracker offers a simple, process-local idle clock for
// platforms/builds where host-level idle detection is unavailable: it
// reports the time elapsed since it was created or since the last call
// to Reset. It observes no user input by itself and logs nothing.
type LastInputTracker struct {
	last time.Time
}

// NewLastInputTracker starts a tracker considering "now" the last input.
func NewLastInputTracker() *LastInputTracker {
	return &LastInputTracker{last: time.Now()}
}

// Reset marks the current instant as the last user input.
func (t *LastInputTracker) Reset() { t.last = time.Now() }

// IdleSeconds returns elapsed seconds since the last Reset.
func (t *LastInputTracker) IdleSeconds() float64 {
	return time.Since(t.last).Seconds()
}
