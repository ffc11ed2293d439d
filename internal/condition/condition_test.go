package condition

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almostearthling/whenever-sub000/internal/task"
)

func TestTickUnregisteredConditionPanics(t *testing.T) {
	c := NewIntervalCondition("never-added", 0)
	assert.Panics(t, func() { Tick(context.Background(), c, task.NewRegistry()) })
}

func TestTickSkipsNonRecurringAfterSuccess(t *testing.T) {
	tasks := task.NewRegistry()
	require.NoError(t, tasks.Add(task.NewProcessTask("noop", "/bin/sh", "-c", "exit 0")))

	c := NewIntervalCondition("once", 0)
	c.SetID(1)
	require.NoError(t, c.AddTask("noop"))

	first, err := Tick(context.Background(), c, tasks)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.True(t, *first)
	assert.True(t, c.HasSucceeded())

	second, err := Tick(context.Background(), c, tasks)
	require.NoError(t, err)
	assert.Nil(t, second, "a non-recurring condition must not be re-checked once it has succeeded")
}

func TestTickRecurringConditionChecksAgainAfterSuccess(t *testing.T) {
	tasks := task.NewRegistry()
	require.NoError(t, tasks.Add(task.NewProcessTask("noop", "/bin/sh", "-c", "exit 0")))

	c := NewIntervalCondition("again", 0)
	c.SetID(1)
	c.SetRecurring(true)
	require.NoError(t, c.AddTask("noop"))

	first, err := Tick(context.Background(), c, tasks)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.True(t, *first)

	second, err := Tick(context.Background(), c, tasks)
	require.NoError(t, err)
	assert.NotNil(t, second, "a recurring condition keeps being checked after success")
}
