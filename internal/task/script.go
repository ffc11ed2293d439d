package task

import (
	"context"
	"hash/fnv"

	"github.com/almostearthling/whenever-sub000/internal/script"
	"github.com/almostearthling/whenever-sub000/internal/valuetest"
)

// ScriptTask runs an embedded script for effect, grounded on
// task::lua_task::LuaTask, generalized to the goja-backed script engine
// (see SPEC_FULL.md §6.1).
type ScriptTask struct {
	name string
	id   int64

	Engine    *script.Engine
	Source    string
	SetVars   map[string]interface{}
	Expected  []valuetest.Test
	ExpectAll bool
}

// NewScriptTask builds a script task running source on engine.
func NewScriptTask(name string, engine *script.Engine, source string) *ScriptTask {
	return &ScriptTask{name: name, Engine: engine, Source: source}
}

func (s *ScriptTask) Name() string   { return s.name }
func (s *ScriptTask) ID() int64      { return s.id }
func (s *ScriptTask) SetID(id int64) { s.id = id }

func (s *ScriptTask) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s.name))
	_, _ = h.Write([]byte(s.Source))
	return h.Sum64()
}

func (s *ScriptTask) Execute(ctx context.Context, triggerName string) (*bool, error) {
	res, err := s.Engine.Execute(s.Source, s.SetVars)
	if err != nil {
		return nil, err
	}
	if len(s.Expected) == 0 {
		return nil, nil
	}
	agg := valuetest.Any
	if s.ExpectAll {
		agg = valuetest.All
	}
	ok := valuetest.EvalAll(res.Variables, s.Expected, agg)
	return &ok, nil
}
