package spawn

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCapturesStdoutAndExitCode(t *testing.T) {
	res, err := Run(context.Background(), Options{
		Command: "/bin/sh",
		Args:    []string{"-c", "echo hello; exit 3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Stdout, "hello")
	assert.False(t, res.TimedOut)
}

func TestRunTimesOut(t *testing.T) {
	res, err := Run(context.Background(), Options{
		Command:      "/bin/sh",
		Args:         []string{"-c", "sleep 5"},
		Timeout:      20 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.True(t, res.TimedOut)
}
