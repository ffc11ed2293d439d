package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteExposesSetVars(t *testing.T) {
	e := NewEngine("result")
	res, err := e.Execute(`var result = input * 2;`, map[string]interface{}{"input": int64(21)})
	require.NoError(t, err)
	assert.EqualValues(t, 42, res.Variables["result"])
}

func TestExecuteReportsScriptError(t *testing.T) {
	e := NewEngine()
	_, err := e.Execute(`this is not valid javascript {{{`, nil)
	assert.Error(t, err)
}
