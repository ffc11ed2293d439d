package condition

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almostearthling/whenever-sub000/internal/valuetest"
)

func TestManagementQueryProbeConditionMatchesExternalRecord(t *testing.T) {
	c := NewManagementQueryProbeCondition("mem-high", `external:printf '{"used_percent":92}\n'`)
	c.Tests = []valuetest.Test{
		{Path: []valuetest.Index{valuetest.StrIndex("used_percent")}, Operator: valuetest.OpGreaterEq, Expected: 90.0},
	}

	fired, err := c.Check(context.Background())
	require.NoError(t, err)
	require.NotNil(t, fired)
	assert.True(t, *fired)
}

func TestManagementQueryProbeConditionExpectAllRequiresEveryRow(t *testing.T) {
	c := NewManagementQueryProbeCondition("all-busy", "external:printf '{\"pid\":1}\\n{\"pid\":2}\\n'")
	c.ExpectAll = true
	c.Tests = []valuetest.Test{
		{Path: []valuetest.Index{valuetest.StrIndex("pid")}, Operator: valuetest.OpGreater, Expected: 0.0},
	}

	fired, err := c.Check(context.Background())
	require.NoError(t, err)
	require.NotNil(t, fired)
	assert.True(t, *fired)
}

func TestManagementQueryProbeConditionUnknownKindErrors(t *testing.T) {
	c := NewManagementQueryProbeCondition("bogus", "not-a-real-kind")
	_, err := c.Check(context.Background())
	assert.Error(t, err)
}
