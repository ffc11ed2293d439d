package valuetest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkNestedMapAndSlice(t *testing.T) {
	root := map[string]interface{}{
		"records": []interface{}{
			map[string]interface{}{"name": "alpha", "count": 3.0},
			map[string]interface{}{"name": "beta", "count": 7.0},
		},
	}

	val, err := Walk(root, []Index{StrIndex("records"), IntIndex(1), StrIndex("name")})
	require.NoError(t, err)
	assert.Equal(t, "beta", val)
}

func TestWalkOutOfRange(t *testing.T) {
	root := []interface{}{1, 2}
	_, err := Walk(root, []Index{IntIndex(5)})
	assert.Error(t, err)
}

func TestEvalOperators(t *testing.T) {
	root := map[string]interface{}{"status": "ready", "load": 4.5}

	ok, err := Eval(root, Test{Path: []Index{StrIndex("status")}, Operator: OpEqual, Expected: "ready"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Eval(root, Test{Path: []Index{StrIndex("load")}, Operator: OpGreater, Expected: 4.0})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Eval(root, Test{Path: []Index{StrIndex("status")}, Operator: OpMatch, Expected: "^re"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvalAllAggregation(t *testing.T) {
	root := map[string]interface{}{"a": 1.0, "b": 2.0}
	tests := []Test{
		{Path: []Index{StrIndex("a")}, Operator: OpEqual, Expected: 1.0},
		{Path: []Index{StrIndex("b")}, Operator: OpEqual, Expected: 999.0},
	}

	assert.False(t, EvalAll(root, tests, All))
	assert.True(t, EvalAll(root, tests, Any))
}
