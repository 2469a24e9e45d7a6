package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTrace() []Event {
	return []Event{
		{Seq: 1, File: "a.cue", Mode: "function-like", Path: "check", Args: "1+1 == 2"},
		{Seq: 2, File: "a.cue", Mode: "function-like", Path: "check", Args: `false, "boom"`},
		{Seq: 3, File: "b.cue", Mode: "function-like", Path: "lib.gen", Args: "true"},
	}
}

func TestAssertTraceContainsMatch(t *testing.T) {
	err := assertTraceContains(sampleTrace(), Assertion{
		Type: AssertTraceContains, Path: "check", Payload: "1+1 == 2",
	})
	assert.NoError(t, err)
}

func TestAssertTraceContainsIgnoresWhitespace(t *testing.T) {
	err := assertTraceContains(sampleTrace(), Assertion{
		Type: AssertTraceContains, Path: "check", Payload: "1+1   ==   2",
	})
	assert.NoError(t, err)
}

func TestAssertTraceContainsNoMatch(t *testing.T) {
	err := assertTraceContains(sampleTrace(), Assertion{
		Type: AssertTraceContains, Path: "check", Payload: "never written",
	})
	require.Error(t, err)

	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, AssertTraceContains, ae.Type)
	assert.Contains(t, ae.Error(), "Full trace")
}

func TestAssertTraceOrderPass(t *testing.T) {
	err := assertTraceOrder(sampleTrace(), Assertion{
		Type: AssertTraceOrder, Paths: []string{"check", "lib.gen"},
	})
	assert.NoError(t, err)
}

func TestAssertTraceOrderViolation(t *testing.T) {
	err := assertTraceOrder(sampleTrace(), Assertion{
		Type: AssertTraceOrder, Paths: []string{"lib.gen", "check"},
	})
	require.Error(t, err)
}

func TestAssertTraceOrderMissingPath(t *testing.T) {
	err := assertTraceOrder(sampleTrace(), Assertion{
		Type: AssertTraceOrder, Paths: []string{"check", "absent"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing path")
}

func TestAssertTraceCountExact(t *testing.T) {
	err := assertTraceCount(sampleTrace(), Assertion{
		Type: AssertTraceCount, Path: "check", Count: 2,
	})
	assert.NoError(t, err)

	err = assertTraceCount(sampleTrace(), Assertion{
		Type: AssertTraceCount, Path: "check", Count: 3,
	})
	require.Error(t, err)
}

func TestAssertTraceCountZero(t *testing.T) {
	err := assertTraceCount(sampleTrace(), Assertion{
		Type: AssertTraceCount, Path: "unregistered", Count: 0,
	})
	assert.NoError(t, err)
}
