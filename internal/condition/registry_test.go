package condition

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almostearthling/whenever-sub000/internal/event"
	"github.com/almostearthling/whenever-sub000/internal/task"
)

func TestRegistryTickRunsBoundTasks(t *testing.T) {
	tasks := task.NewRegistry()
	conds := NewRegistry(tasks)

	require.NoError(t, tasks.Add(task.NewProcessTask("noop", "/bin/sh", "-c", "exit 0")))

	c := NewIntervalCondition("immediate", 0)
	require.NoError(t, c.AddTask("noop"))
	require.NoError(t, conds.Add(c))

	outcome, err := conds.Tick(context.Background(), "immediate")
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.True(t, *outcome)
}

func TestRegistryTickUnknownConditionPanics(t *testing.T) {
	conds := NewRegistry(task.NewRegistry())
	assert.Panics(t, func() { conds.Tick(context.Background(), "missing") })
}

func TestRegistryResetSuspendResume(t *testing.T) {
	tasks := task.NewRegistry()
	conds := NewRegistry(tasks)

	require.NoError(t, tasks.Add(task.NewProcessTask("noop", "/bin/sh", "-c", "exit 0")))

	c := NewIntervalCondition("mine", 0)
	require.NoError(t, conds.Add(c))

	require.NoError(t, conds.Suspend("mine"))
	assert.True(t, c.Suspended())

	require.NoError(t, conds.Resume("mine"))
	assert.False(t, c.Suspended())

	require.NoError(t, c.AddTask("noop"))
	_, _ = conds.Tick(context.Background(), "mine")
	assert.True(t, c.HasSucceeded())

	require.NoError(t, conds.Reset("mine"))
	assert.False(t, c.HasSucceeded())
	assert.True(t, c.TasksFailed())
}

func TestRegistryAdminOpsUnknownCondition(t *testing.T) {
	conds := NewRegistry(task.NewRegistry())
	assert.Error(t, conds.Reset("ghost"))
	assert.Error(t, conds.Suspend("ghost"))
	assert.Error(t, conds.Resume("ghost"))
}

func TestBucketConditionDrainsOnCheck(t *testing.T) {
	bucket := event.NewBucket()
	c := NewBucketCondition("bucket", bucket)

	idle, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.False(t, *idle)

	bucket.Add("bucket")
	fired, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, *fired)
	assert.Equal(t, 0, bucket.Len())
}

func TestSuspendedConditionSkipsTick(t *testing.T) {
	tasks := task.NewRegistry()
	conds := NewRegistry(tasks)

	require.NoError(t, tasks.Add(task.NewProcessTask("noop", "/bin/sh", "-c", "exit 0")))

	c := NewIntervalCondition("suspended-one", 0)
	require.NoError(t, c.AddTask("noop"))
	c.SetSuspended(true)
	require.NoError(t, conds.Add(c))

	outcome, err := conds.Tick(context.Background(), "suspended-one")
	require.NoError(t, err)
	assert.Nil(t, outcome)
}
