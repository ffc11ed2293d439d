package condition

import (
	"context"
	"time"

	"github.com/almostearthling/whenever-sub000/internal/sysinfo"
	"github.com/almostearthling/whenever-sub000/internal/valuetest"
)

// ManagementQueryProbeCondition runs a system management facility query
// (host/load/process/external) and tests the resulting records, grounded
// on condition::wmi_cond::WmiQueryCondition, generalized from
// Windows-only WMI to the cross-platform gopsutil/external-command
// facilities described in SPEC_FULL.md §6.3.
type ManagementQueryProbeCondition struct {
	Base

	Kind string // "host", "load", "process", or "external:<command>"

	Tests     []valuetest.Test
	ExpectAll bool
	// RecordIndex, when >= 0, restricts testing to one row of the query
	// result instead of aggregating over every row; an index past the
	// last row leaves the condition unsatisfied.
	RecordIndex int

	CheckAfter            time.Duration
	RecurAfterFailedCheck bool
	lastChecked           time.Time
	lastCheckFailed       bool
}

// NewManagementQueryProbeCondition builds a management-query-probe
// condition for the given query kind.
func NewManagementQueryProbeCondition(name, kind string) *ManagementQueryProbeCondition {
	return &ManagementQueryProbeCondition{Base: NewBase(name), Kind: kind, RecordIndex: -1}
}

func (c *ManagementQueryProbeCondition) Type() string { return "wmi" }

func (c *ManagementQueryProbeCondition) Check(ctx context.Context) (*bool, error) {
	if c.CheckAfter > 0 && !c.lastChecked.IsZero() {
		if !(c.lastCheckFailed && !c.RecurAfterFailedCheck) && time.Since(c.lastChecked) < c.CheckAfter {
			return nil, nil
		}
	}

	records, err := sysinfo.Query(c.Kind)
	c.lastChecked = time.Now()
	if err != nil {
		c.lastCheckFailed = true
		return nil, err
	}

	agg := valuetest.Any
	if c.ExpectAll {
		agg = valuetest.All
	}

	var ok bool
	if c.RecordIndex >= 0 {
		if c.RecordIndex < len(records) {
			ok = valuetest.EvalAll(toGeneric(records[c.RecordIndex]), c.Tests, agg)
		}
	} else {
		for _, rec := range records {
			rowOK := valuetest.EvalAll(toGeneric(rec), c.Tests, agg)
			if rowOK {
				ok = true
				if agg == valuetest.Any {
					break
				}
			} else if agg == valuetest.All {
				ok = false
				break
			}
		}
	}

	c.lastCheckFailed = !ok
	return &ok, nil
}

func toGeneric(rec map[string]interface{}) interface{} {
	out := make(map[string]interface{}, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
