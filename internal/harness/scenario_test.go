package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, `
name: test_scenario
description: "Validates scenario loading"
mode: function-like
archive: archives/test.txtar
targets:
  - check
  - lib.gen
panic_on: fail_me
expect_error: INVOCATION_FAILURE
assertions:
  - type: trace_count
    path: check
    count: 2
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Validates scenario loading", scenario.Description)
	assert.Equal(t, ModeNameFunctionLike, scenario.Mode)
	assert.Equal(t, []string{"check", "lib.gen"}, scenario.Targets)
	assert.Equal(t, "fail_me", scenario.PanicOn)
	assert.Equal(t, "INVOCATION_FAILURE", scenario.ExpectError)
	require.Len(t, scenario.Assertions, 1)
	assert.Equal(t, AssertTraceCount, scenario.Assertions[0].Type)
	assert.Equal(t, 2, scenario.Assertions[0].Count)
}

func TestLoadScenario_ResolvesArchiveRelativeToFile(t *testing.T) {
	path := writeScenario(t, `
name: rel
mode: derive
archive: archives/test.txtar
targets: [Pod]
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "archives", "test.txtar"), scenario.archivePath())
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadScenario_InvalidYAML(t *testing.T) {
	path := writeScenario(t, "name: [unclosed")
	_, err := LoadScenario(path)
	require.Error(t, err)
}

func TestLoadScenario_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: "mode: derive\narchive: a.txtar\ntargets: [Pod]",
			wantErr: "name is required",
		},
		{
			name:    "bad mode",
			content: "name: x\nmode: procmacro\narchive: a.txtar\ntargets: [Pod]",
			wantErr: "invalid mode",
		},
		{
			name:    "missing archive",
			content: "name: x\nmode: derive\ntargets: [Pod]",
			wantErr: "archive is required",
		},
		{
			name:    "no targets",
			content: "name: x\nmode: derive\narchive: a.txtar",
			wantErr: "at least one target",
		},
		{
			name:    "assertion missing path",
			content: "name: x\nmode: derive\narchive: a.txtar\ntargets: [Pod]\nassertions:\n  - type: trace_count\n    count: 1",
			wantErr: "path is required",
		},
		{
			name:    "unknown assertion",
			content: "name: x\nmode: derive\narchive: a.txtar\ntargets: [Pod]\nassertions:\n  - type: trace_magic",
			wantErr: "unknown type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
