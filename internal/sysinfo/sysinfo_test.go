package sysinfo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastInputTrackerReportsElapsedSeconds(t *testing.T) {
	tr := NewLastInputTracker()
	time.Sleep(10 * time.Millisecond)
	assert.Greater(t, tr.IdleSeconds(), 0.0)

	tr.Reset()
	assert.Less(t, tr.IdleSeconds(), 0.01)
}

func TestQueryExternalParsesJSONLines(t *testing.T) {
	records, err := Query(`external:printf '{"pid":1,"name":"init"}\n{"pid":2,"name":"sh"}\n'`)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.EqualValues(t, 1, records[0]["pid"])
	assert.Equal(t, "init", records[0]["name"])
}

func TestQueryUnknownKindFails(t *testing.T) {
	_, err := Query("nonsense")
	assert.Error(t, err)
}
