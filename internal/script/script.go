// Package script wraps a goja JavaScript runtime as the engine's embedded
// script interpreter capability (SPEC_FULL.md §6.1), standing in for the
// original implementation's embedded Lua interpreter (task::lua_task,
// condition::lua_cond) — the spec treats the interpreter as a
// replaceable capability, not a Lua-specific requirement.
package script

import (
	"github.com/dop251/goja"

	"github.com/almostearthling/whenever-sub000/internal/wres"
)

// Result exposes the variables a script run left behind.
type Result struct {
	Variables map[string]interface{}
}

// Engine runs scripts against a fresh goja runtime per execution, so that
// concurrent probes/tasks never share interpreter state.
type Engine struct {
	// ReadVars lists the variable names read back into Result after
	// execution; if empty, every global set during the run is returned.
	ReadVars []string
}

// NewEngine builds a script engine.
func NewEngine(readVars ...string) *Engine {
	return &Engine{ReadVars: readVars}
}

// Execute runs source with setVars pre-populated as globals, then
// collects the requested variables.
func (e *Engine) Execute(source string, setVars map[string]interface{}) (Result, error) {
	vm := goja.New()
	for k, v := range setVars {
		if err := vm.Set(k, v); err != nil {
			return Result{}, wres.FromScriptError("failed to set script variable "+k, err)
		}
	}

	if _, err := vm.RunString(source); err != nil {
		return Result{}, wres.FromScriptError("script execution failed", err)
	}

	vars := make(map[string]interface{})
	if len(e.ReadVars) > 0 {
		for _, name := range e.ReadVars {
			vars[name] = vm.Get(name).Export()
		}
	} else {
		for _, name := range vm.GlobalObject().Keys() {
			vars[name] = vm.Get(name).Export()
		}
	}
	return Result{Variables: vars}, nil
}
