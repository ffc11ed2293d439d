package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCfgMapGetStringRequired(t *testing.T) {
	m := CfgMap{"name": "probe-one"}
	v, err := m.GetString("name", true)
	require.NoError(t, err)
	assert.Equal(t, "probe-one", v)

	_, err = m.GetString("missing", true)
	assert.Error(t, err)
}

func TestCfgMapGetIntAcceptsNumericKinds(t *testing.T) {
	m := CfgMap{"a": 1, "b": int64(2), "c": float64(3)}
	a, err := m.GetInt("a", true)
	require.NoError(t, err)
	assert.Equal(t, 1, a)

	b, err := m.GetInt("b", true)
	require.NoError(t, err)
	assert.Equal(t, 2, b)

	c, err := m.GetInt("c", true)
	require.NoError(t, err)
	assert.Equal(t, 3, c)
}

func TestCfgMapGetBoolFallsBackToDefault(t *testing.T) {
	m := CfgMap{"flag": true}
	assert.True(t, m.GetBool("flag", false))
	assert.False(t, m.GetBool("absent", false))
	assert.True(t, m.GetBool("absent", true))
}

func TestCfgMapGetStringSliceFiltersNonStrings(t *testing.T) {
	m := CfgMap{"tasks": []interface{}{"a", "b", 3}}
	assert.Equal(t, []string{"a", "b"}, m.GetStringSlice("tasks"))
}
