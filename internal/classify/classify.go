// Package classify implements the command outcome classifier shared by
// process tasks and command-probe conditions (spec §4.6), grounded on the
// original implementation's common::cmditem::check_process_outcome: a
// process's exit status and captured stdout/stderr are reduced to a
// trichotomy (success / failure / indefinite) by checking a fixed
// priority chain of optional predicates.
package classify

import (
	"regexp"
	"strings"

	"github.com/almostearthling/whenever-sub000/internal/spawn"
)

// MatchMode selects literal-substring vs regular-expression matching.
type MatchMode int

const (
	Exact MatchMode = iota
	Regexp
)

// Predicate is one optional text check against stdout or stderr.
type Predicate struct {
	Set           bool
	Text          string
	Mode          MatchMode
	CaseSensitive bool
}

// Criteria bundles every optional classification input, mirroring the
// parameter list of check_process_outcome.
type Criteria struct {
	SuccessStatus *int
	FailureStatus *int
	SuccessStdout Predicate
	SuccessStderr Predicate
	FailureStdout Predicate
	FailureStderr Predicate
}

// Outcome is the trichotomy the classifier produces: nil means
// indefinite (the caller should not treat the command as having
// succeeded or failed), matching the Option<bool> of the original.
type Outcome struct {
	Success *bool
	Reason  string
}

func boolPtr(b bool) *bool { return &b }

// Classify reduces a spawn.Result to an Outcome by the same strict
// priority chain as the original: exit status short-circuits
// (success_status/failure_status) are checked first, then, if the
// process neither timed out nor matched a status rule, the text
// predicates are checked in the fixed order success_stdout,
// success_stderr, failure_stdout, failure_stderr. A configured success
// predicate that fails to match is itself a failure; it does not leave
// the outcome indefinite. A success predicate that DOES match does not
// short-circuit — it only clears the way for the next predicate in the
// chain, so a later failure predicate still gets its say. Only once
// every configured predicate has been satisfied is the outcome success.
// With nothing configured at all a plain exit-code rule applies (zero
// is success); with only status rules configured and none of them
// matched, the outcome is indefinite.
func Classify(res spawn.Result, c Criteria) Outcome {
	if res.TimedOut {
		return Outcome{Success: boolPtr(false), Reason: "timeout reached"}
	}

	if c.FailureStatus != nil && res.ExitCode == *c.FailureStatus {
		return Outcome{Success: boolPtr(false), Reason: "matched failure exit status"}
	}
	if c.SuccessStatus != nil && res.ExitCode == *c.SuccessStatus {
		return Outcome{Success: boolPtr(true), Reason: "matched success exit status"}
	}

	anyTextPredicate := c.SuccessStdout.Set || c.SuccessStderr.Set || c.FailureStdout.Set || c.FailureStderr.Set

	if c.SuccessStdout.Set && !matches(c.SuccessStdout, res.Stdout) {
		return Outcome{Success: boolPtr(false), Reason: "did not match success stdout pattern"}
	}
	if c.SuccessStderr.Set && !matches(c.SuccessStderr, res.Stderr) {
		return Outcome{Success: boolPtr(false), Reason: "did not match success stderr pattern"}
	}
	if c.FailureStdout.Set && matches(c.FailureStdout, res.Stdout) {
		return Outcome{Success: boolPtr(false), Reason: "matched failure stdout pattern"}
	}
	if c.FailureStderr.Set && matches(c.FailureStderr, res.Stderr) {
		return Outcome{Success: boolPtr(false), Reason: "matched failure stderr pattern"}
	}

	// Fall back to a plain exit-code rule only when nothing at all was
	// configured, so a bare command probe is usable without any
	// success/failure configuration.
	if c.SuccessStatus == nil && c.FailureStatus == nil && !anyTextPredicate {
		if res.ExitCode == 0 {
			return Outcome{Success: boolPtr(true), Reason: "zero exit status"}
		}
		return Outcome{Success: boolPtr(false), Reason: "non-zero exit status"}
	}

	if anyTextPredicate {
		return Outcome{Success: boolPtr(true), Reason: "every configured predicate matched"}
	}

	return Outcome{Success: nil, Reason: "no configured predicate matched"}
}

func matches(p Predicate, text string) bool {
	if !p.Set {
		return false
	}
	haystack := text
	needle := p.Text
	if !p.CaseSensitive {
		haystack = strings.ToLower(haystack)
		needle = strings.ToLower(needle)
	}
	switch p.Mode {
	case Regexp:
		flags := ""
		if !p.CaseSensitive {
			flags = "(?i)"
		}
		re, err := regexp.Compile(flags + p.Text)
		if err != nil {
			return false
		}
		return re.MatchString(text)
	default:
		return strings.Contains(haystack, needle)
	}
}
