package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almostearthling/whenever-sub000/internal/spawn"
)

func TestClassifyPlainExitCode(t *testing.T) {
	ok := Classify(spawn.Result{ExitCode: 0}, Criteria{})
	assert.NotNil(t, ok.Success)
	assert.True(t, *ok.Success)

	fail := Classify(spawn.Result{ExitCode: 1}, Criteria{})
	assert.NotNil(t, fail.Success)
	assert.False(t, *fail.Success)
}

func TestClassifyTimeout(t *testing.T) {
	out := Classify(spawn.Result{TimedOut: true}, Criteria{})
	assert.NotNil(t, out.Success)
	assert.False(t, *out.Success)
}

func TestClassifyMatchedSuccessPredicateDoesNotShortCircuit(t *testing.T) {
	// A matching success_stdout predicate must not return success
	// immediately; the chain still has to clear failure_stdout before
	// the outcome is decided.
	c := Criteria{
		SuccessStdout: Predicate{Set: true, Text: "done", CaseSensitive: true},
		FailureStdout: Predicate{Set: true, Text: "error", CaseSensitive: true},
	}
	res := spawn.Result{ExitCode: 0, Stdout: "done, with a trailing error note"}
	out := Classify(res, c)
	assert.NotNil(t, out.Success)
	assert.False(t, *out.Success, "a later matching failure_stdout predicate must still override an earlier matched success_stdout predicate")
}

func TestClassifySuccessPredicateAloneReachesSuccess(t *testing.T) {
	c := Criteria{
		SuccessStdout: Predicate{Set: true, Text: "done", CaseSensitive: true},
	}
	res := spawn.Result{ExitCode: 0, Stdout: "done, with a trailing error note"}
	out := Classify(res, c)
	assert.NotNil(t, out.Success)
	assert.True(t, *out.Success)
}

func TestClassifyStatusShortCircuit(t *testing.T) {
	fs := 7
	c := Criteria{FailureStatus: &fs}
	res := spawn.Result{ExitCode: 7, Stdout: "done"}
	c.SuccessStdout = Predicate{Set: true, Text: "done", CaseSensitive: true}
	out := Classify(res, c)
	assert.NotNil(t, out.Success)
	assert.False(t, *out.Success, "failure_status must outrank a matching success_stdout predicate")
}

func TestClassifyUnmatchedSuccessPredicateIsFailure(t *testing.T) {
	// A configured success predicate that fails to match is a failure,
	// not an indefinite outcome.
	c := Criteria{
		SuccessStdout: Predicate{Set: true, Text: "ready", CaseSensitive: true},
	}
	res := spawn.Result{ExitCode: 0, Stdout: "still warming up"}
	out := Classify(res, c)
	require.NotNil(t, out.Success)
	assert.False(t, *out.Success)
}

func TestClassifyIndefiniteWhenStatusConfiguredButUnmatched(t *testing.T) {
	// With no text predicates and a success_status that never matched,
	// there is nothing to decide the outcome either way.
	ss := 0
	c := Criteria{SuccessStatus: &ss}
	res := spawn.Result{ExitCode: 3}
	out := Classify(res, c)
	assert.Nil(t, out.Success)
}

func TestClassifyRegexCaseInsensitive(t *testing.T) {
	c := Criteria{
		SuccessStdout: Predicate{Set: true, Text: "^OK", Mode: Regexp, CaseSensitive: false},
	}
	res := spawn.Result{ExitCode: 0, Stdout: "ok, proceeding"}
	out := Classify(res, c)
	assert.NotNil(t, out.Success)
	assert.True(t, *out.Success)
}
