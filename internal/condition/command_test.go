package condition

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almostearthling/whenever-sub000/internal/classify"
)

func TestCommandProbeConditionUsesPlainExitCode(t *testing.T) {
	c := NewCommandProbeCondition("probe-ok", "/bin/sh", "-c", "exit 0")
	fired, err := c.Check(context.Background())
	require.NoError(t, err)
	require.NotNil(t, fired)
	assert.True(t, *fired)
}

func TestCommandProbeConditionHonorsFailureStatus(t *testing.T) {
	failStatus := 7
	c := NewCommandProbeCondition("probe-fail", "/bin/sh", "-c", "exit 7")
	c.Criteria = classify.Criteria{FailureStatus: &failStatus}

	fired, err := c.Check(context.Background())
	require.NoError(t, err)
	require.NotNil(t, fired)
	assert.False(t, *fired)
}

func TestCommandProbeConditionCheckAfterThrottles(t *testing.T) {
	c := NewCommandProbeCondition("probe-throttled", "/bin/sh", "-c", "exit 0")
	c.CheckAfter = time.Hour

	_, err := c.Check(context.Background())
	require.NoError(t, err)

	result, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.Nil(t, result)
}
