package condition

import (
	"context"

	"github.com/almostearthling/whenever-sub000/internal/script"
	"github.com/almostearthling/whenever-sub000/internal/valuetest"
)

// ScriptProbeCondition executes an embedded script and tests its
// resulting variables, grounded on condition::lua_cond::LuaCondition,
// generalized to the goja-backed engine.
type ScriptProbeCondition struct {
	Base

	Engine  *script.Engine
	Source  string
	SetVars map[string]interface{}

	Tests     []valuetest.Test
	ExpectAll bool
}

// NewScriptProbeCondition builds a script-probe condition.
func NewScriptProbeCondition(name string, engine *script.Engine, source string) *ScriptProbeCondition {
	return &ScriptProbeCondition{Base: NewBase(name), Engine: engine, Source: source}
}

func (c *ScriptProbeCondition) Type() string { return "script" }

func (c *ScriptProbeCondition) Check(ctx context.Context) (*bool, error) {
	res, err := c.Engine.Execute(c.Source, c.SetVars)
	if err != nil {
		return nil, err
	}
	agg := valuetest.Any
	if c.ExpectAll {
		agg = valuetest.All
	}
	ok := valuetest.EvalAll(res.Variables, c.Tests, agg)
	return &ok, nil
}
