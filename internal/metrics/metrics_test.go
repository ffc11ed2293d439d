package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersAreRegisteredAndIncrementable(t *testing.T) {
	before := testutil.ToFloat64(TicksDispatched)
	TicksDispatched.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(TicksDispatched))

	TasksRun.WithLabelValues("success").Inc()
	assert.Equal(t, float64(1), testutil.ToFloat64(TasksRun.WithLabelValues("success")))
}
