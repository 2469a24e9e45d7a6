// Package harness provides conformance testing for the genexpand dispatcher.
//
// The harness loads YAML scenarios, expands every CUE file in the scenario's
// source archive through the dispatcher with recording callbacks, and
// validates the resulting invocation trace by inline assertions, by golden
// file comparison, or both.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: functionlike_basic
//	description: "Two check invocations expand in document order"
//	mode: function-like
//	archive: archives/functionlike_basic.txtar
//	targets:
//	  - check
//	panic_on: "fail_me"
//	expect_error: INVOCATION_FAILURE
//	assertions:
//	  - type: trace_count
//	    path: check
//	    count: 2
//	  - type: trace_order
//	    paths: [check, lib.gen]
//	  - type: trace_contains
//	    path: check
//	    payload: "1+1==2"
//
// The archive is a txtar file holding one or more CUE sources, expanded in
// archive order. mode selects the dispatcher entry point; targets lists the
// registered generator paths, all bound to recording callbacks. If panic_on
// is set, a callback whose payload contains that substring panics, which is
// how scenarios exercise the failure-isolation boundary; expect_error then
// names the error code the run must produce.
//
// # Golden Files
//
// RunWithGolden serializes the trace as canonical JSON and compares it
// against testdata/golden/{name}.golden via goldie. Regenerate with:
//
//	go test ./internal/harness -update
package harness
