package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance scenario for the dispatcher.
// Scenarios expand a fixed corpus of CUE sources with recording callbacks
// and assert on the resulting invocation trace.
type Scenario struct {
	// Name uniquely identifies this scenario; it also names the golden
	// file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Mode selects the dispatcher entry point:
	// "function-like", "derive", or "attribute".
	Mode string `yaml:"mode"`

	// Archive is the path to a txtar archive of CUE sources, relative to
	// the scenario file location. Files expand in archive order.
	Archive string `yaml:"archive"`

	// Targets lists the generator paths to register, in order. Every
	// target is bound to a recording callback.
	Targets []string `yaml:"targets"`

	// PanicOn, if non-empty, makes a callback panic whenever its payload
	// contains this substring. Used to exercise the failure-isolation
	// boundary.
	PanicOn string `yaml:"panic_on,omitempty"`

	// ExpectError names the error code the run must produce
	// ("IO_FAILURE", "SYNTAX_FAILURE", "INVOCATION_FAILURE").
	// Empty means the run must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Assertions validate the invocation trace.
	// Supported types: trace_contains, trace_order, trace_count.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// dir is the directory the scenario was loaded from; archive paths
	// resolve against it.
	dir string
}

// Assertion validates the invocation trace.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": a matching invocation appears in the trace
	// - "trace_order": paths appear in the given order
	// - "trace_count": a path appears exactly N times
	Type string `yaml:"type"`

	// Path is the generator path (trace_contains, trace_count).
	Path string `yaml:"path,omitempty"`

	// Payload is an expected payload fragment, compared with whitespace
	// collapsed (trace_contains).
	Payload string `yaml:"payload,omitempty"`

	// Count is the expected number of occurrences (trace_count).
	Count int `yaml:"count,omitempty"`

	// Paths is the expected invocation order (trace_order).
	Paths []string `yaml:"paths,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
)

// Valid scenario modes.
const (
	ModeNameFunctionLike = "function-like"
	ModeNameDerive       = "derive"
	ModeNameAttribute    = "attribute"
)

// LoadScenario reads and validates a single scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	scenario.dir = filepath.Dir(path)

	if err := scenario.validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml scenario under dir, sorted by filename
// for deterministic test ordering.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading scenario dir %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ext := filepath.Ext(entry.Name()); ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		scenario, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	switch s.Mode {
	case ModeNameFunctionLike, ModeNameDerive, ModeNameAttribute:
	default:
		return fmt.Errorf("invalid mode %q", s.Mode)
	}
	if s.Archive == "" {
		return fmt.Errorf("archive is required")
	}
	if len(s.Targets) == 0 {
		return fmt.Errorf("at least one target is required")
	}
	for i, assertion := range s.Assertions {
		switch assertion.Type {
		case AssertTraceContains, AssertTraceCount:
			if assertion.Path == "" {
				return fmt.Errorf("assertion %d: path is required for %s", i, assertion.Type)
			}
		case AssertTraceOrder:
			if len(assertion.Paths) == 0 {
				return fmt.Errorf("assertion %d: paths is required for trace_order", i)
			}
		default:
			return fmt.Errorf("assertion %d: unknown type %q", i, assertion.Type)
		}
	}
	return nil
}

// archivePath resolves the scenario's archive relative to its own location.
func (s *Scenario) archivePath() string {
	if filepath.IsAbs(s.Archive) {
		return s.Archive
	}
	return filepath.Join(s.dir, s.Archive)
}
