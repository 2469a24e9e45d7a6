package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario and compares its invocation trace
// against a golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// The run token is excluded from the snapshot; everything else in the
// trace is deterministic for a fixed archive.
func RunWithGolden(t *testing.T, runner *Runner, scenario *Scenario) error {
	t.Helper()

	result, err := runner.Run(scenario)
	if err != nil {
		return err
	}
	if failures := scenario.Verify(result); len(failures) > 0 {
		for _, failure := range failures {
			t.Error(failure)
		}
	}

	traceJSON, err := marshalCanonical(snapshotMap(scenario, result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)
	return nil
}

// snapshotMap converts a result to a map[string]any for canonical JSON
// serialization.
func snapshotMap(scenario *Scenario, result *Result) map[string]any {
	traceList := make([]any, len(result.Trace))
	for i, event := range result.Trace {
		eventMap := map[string]any{
			"seq":  event.Seq,
			"file": event.File,
			"mode": event.Mode,
			"path": event.Path,
		}
		if event.Args != "" {
			eventMap["args"] = event.Args
		}
		if event.Item != "" {
			eventMap["item"] = event.Item
		}
		traceList[i] = eventMap
	}

	snapshot := map[string]any{
		"scenario_name": scenario.Name,
		"mode":          scenario.Mode,
		"trace":         traceList,
	}
	if result.ErrCode != "" {
		snapshot["error_code"] = result.ErrCode
	}
	return snapshot
}
