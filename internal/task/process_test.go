package task

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessTaskClassifiesPlainExitCode(t *testing.T) {
	pt := NewProcessTask("echo-ok", "/bin/sh", "-c", "exit 0")
	pt.SetID(1)

	outcome, err := pt.Execute(context.Background(), "manual")
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.True(t, *outcome)
}

func TestProcessTaskFailureExitCode(t *testing.T) {
	pt := NewProcessTask("echo-fail", "/bin/sh", "-c", "exit 1")
	outcome, err := pt.Execute(context.Background(), "manual")
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.False(t, *outcome)
}
