package harness

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRunner() *Runner {
	return &Runner{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", name))
	require.NoError(t, err)
	return scenario
}

func TestScenarioFunctionLikeGolden(t *testing.T) {
	scenario := loadTestScenario(t, "functionlike_basic.yaml")
	require.NoError(t, RunWithGolden(t, testRunner(), scenario))
}

func TestScenarioFunctionLikeTrace(t *testing.T) {
	scenario := loadTestScenario(t, "functionlike_basic.yaml")

	result, err := testRunner().Run(scenario)
	require.NoError(t, err)
	require.Empty(t, scenario.Verify(result))

	require.Len(t, result.Trace, 3)
	assert.Equal(t, "check", result.Trace[0].Path)
	assert.Equal(t, "42", result.Trace[0].Args)
	assert.Equal(t, "checks.cue", result.Trace[0].File)
	assert.Equal(t, `"boom"`, result.Trace[1].Args)
	assert.Equal(t, "lib.gen", result.Trace[2].Path)
	assert.Equal(t, "more.cue", result.Trace[2].File)
	assert.NotEmpty(t, result.RunToken)
}

func TestScenarioDerive(t *testing.T) {
	scenario := loadTestScenario(t, "derive_pod.yaml")

	result, err := testRunner().Run(scenario)
	require.NoError(t, err)
	require.Empty(t, scenario.Verify(result))

	require.Len(t, result.Trace, 2)
	// The first site's snapshot includes the unrelated Debug derive.
	assert.Contains(t, result.Trace[0].Item, "@derive(Debug, Pod)")
	assert.Contains(t, result.Trace[1].Item, "other")
}

func TestScenarioAttribute(t *testing.T) {
	scenario := loadTestScenario(t, "attribute_refcount.yaml")

	result, err := testRunner().Run(scenario)
	require.NoError(t, err)
	require.Empty(t, scenario.Verify(result))

	require.Len(t, result.Trace, 1)
	assert.Equal(t, "limit=3", result.Trace[0].Args)
	assert.Contains(t, result.Trace[0].Item, "values")
}

func TestScenarioPanicMidway(t *testing.T) {
	scenario := loadTestScenario(t, "panic_midway.yaml")

	result, err := testRunner().Run(scenario)
	require.NoError(t, err)
	require.Empty(t, scenario.Verify(result))

	// Only the site before the failing one completed.
	require.Len(t, result.Trace, 1)
	assert.Equal(t, "1", result.Trace[0].Args)
	assert.Equal(t, "INVOCATION_FAILURE", result.ErrCode)
	require.Error(t, result.Err)
}

func TestRunMissingArchive(t *testing.T) {
	scenario := &Scenario{
		Name:    "missing",
		Mode:    ModeNameFunctionLike,
		Archive: "does-not-exist.txtar",
		Targets: []string{"check"},
		dir:     t.TempDir(),
	}

	_, err := testRunner().Run(scenario)
	require.Error(t, err)
}

func TestVerifyReportsUnexpectedError(t *testing.T) {
	scenario := loadTestScenario(t, "functionlike_basic.yaml")
	result := &Result{ErrCode: "SYNTAX_FAILURE"}

	failures := scenario.Verify(result)
	require.NotEmpty(t, failures)
	assert.Contains(t, failures[0].Error(), "SYNTAX_FAILURE")
}

func TestLoadScenariosSortedByFilename(t *testing.T) {
	scenarios, err := LoadScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	require.Len(t, scenarios, 4)

	assert.Equal(t, "attribute_refcount", scenarios[0].Name)
	assert.Equal(t, "derive_pod", scenarios[1].Name)
	assert.Equal(t, "functionlike_basic", scenarios[2].Name)
	assert.Equal(t, "panic_midway", scenarios[3].Name)
}
