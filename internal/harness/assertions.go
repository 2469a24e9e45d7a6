package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when a scenario assertion fails.
// It includes the full trace to help debug the failure.
type AssertionError struct {
	Type     string  // Assertion type for categorization
	Expected string  // Human-readable expected outcome
	Actual   string  // Human-readable actual outcome
	Trace    []Event // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s %s %s\n", event.Seq, event.File, event.Path, collapseSpace(event.Args))
	}
	return buf.String()
}

// Verify checks the scenario's error expectation and every assertion
// against the result. All failures are collected, not just the first.
func (s *Scenario) Verify(result *Result) []error {
	var failures []error

	if s.ExpectError == "" && result.ErrCode != "" {
		failures = append(failures, &AssertionError{
			Type:     "expect_error",
			Expected: "successful expansion",
			Actual:   fmt.Sprintf("%s: %v", result.ErrCode, result.Err),
			Trace:    result.Trace,
		})
	}
	if s.ExpectError != "" && result.ErrCode != s.ExpectError {
		failures = append(failures, &AssertionError{
			Type:     "expect_error",
			Expected: s.ExpectError,
			Actual:   fmt.Sprintf("code %q (err: %v)", result.ErrCode, result.Err),
			Trace:    result.Trace,
		})
	}

	for _, assertion := range s.Assertions {
		var err error
		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		default:
			err = fmt.Errorf("unknown assertion type %q", assertion.Type)
		}
		if err != nil {
			failures = append(failures, err)
		}
	}
	return failures
}

// assertTraceContains checks that some invocation matches the given path
// and, if specified, carries the expected payload fragment. Payload
// comparison collapses whitespace, since snapshot formatting is not part of
// the contract.
func assertTraceContains(trace []Event, assertion Assertion) error {
	for _, event := range trace {
		if event.Path != assertion.Path {
			continue
		}
		if assertion.Payload == "" {
			return nil
		}
		payload := collapseSpace(event.Args + " " + event.Item)
		if strings.Contains(payload, collapseSpace(assertion.Payload)) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("invocation of %s with payload %q", assertion.Path, assertion.Payload),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that first occurrences of the given paths appear
// in the given order. Paths need not be consecutive.
func assertTraceOrder(trace []Event, assertion Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		if _, seen := positions[event.Path]; !seen {
			positions[event.Path] = i + 1
		}
	}

	for _, path := range assertion.Paths {
		if positions[path] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all paths present: %v", assertion.Paths),
				Actual:   fmt.Sprintf("missing path: %s", path),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(assertion.Paths); i++ {
		prev, next := assertion.Paths[i-1], assertion.Paths[i]
		if positions[prev] > positions[next] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("%s before %s", prev, next),
				Actual:   fmt.Sprintf("%s at %d, %s at %d", prev, positions[prev], next, positions[next]),
				Trace:    trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks that a path fired exactly the expected number of
// times.
func assertTraceCount(trace []Event, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Path == assertion.Path {
			count++
		}
	}
	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d invocation(s) of %s", assertion.Count, assertion.Path),
			Actual:   fmt.Sprintf("%d invocation(s)", count),
			Trace:    trace,
		}
	}
	return nil
}

// collapseSpace folds runs of whitespace into single spaces so payload
// matching ignores formatter layout.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
