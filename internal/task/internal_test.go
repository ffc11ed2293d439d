package task

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternalTaskInvokesInstalledRunner(t *testing.T) {
	var seenVerb string
	SetVerbRunner(func(verb string) (bool, error) {
		seenVerb = verb
		return true, nil
	})
	defer SetVerbRunner(nil)

	it := NewInternalTask("pause-verb", "pause")
	it.SetID(1)

	outcome, err := it.Execute(context.Background(), "manual")
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.True(t, *outcome)
	assert.Equal(t, "pause", seenVerb)
}

func TestInternalTaskNoRunnerInstalled(t *testing.T) {
	SetVerbRunner(nil)
	it := NewInternalTask("orphan", "resume")
	it.SetID(1)

	_, err := it.Execute(context.Background(), "manual")
	assert.Error(t, err)
}
