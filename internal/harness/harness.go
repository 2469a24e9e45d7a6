package harness

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/tools/txtar"

	"github.com/roach88/genexpand"
)

// Result holds the outcome of one scenario run.
type Result struct {
	// RunToken uniquely identifies this run in logs.
	RunToken string

	// Trace is the recorded invocation sequence across all archive files.
	Trace []Event

	// ErrCode is the expansion error code the run produced, or empty on
	// success.
	ErrCode string

	// Err is the underlying expansion error, if any.
	Err error
}

// Event records one generator invocation observed during a run.
type Event struct {
	// Seq is the 1-based invocation sequence number across the run.
	Seq int

	// File is the archive file being expanded.
	File string

	// Mode is the dispatcher mode name.
	Mode string

	// Path is the registered path whose callback fired.
	Path string

	// Args holds the argument payload (function-like and attribute
	// modes).
	Args string

	// Item holds the declaration snapshot payload (derive and attribute
	// modes).
	Item string
}

// Runner executes scenarios. The zero value is usable; Logger defaults to
// a discard handler.
type Runner struct {
	Logger *slog.Logger
}

// namedReader gives an in-memory source a file name so parser positions
// point at the archive entry.
type namedReader struct {
	io.Reader
	name string
}

func (r namedReader) Name() string { return r.name }

// Run expands every CUE file in the scenario's archive, in archive order,
// recording each invocation. An expansion failure stops the run at that
// file and is recorded in the result; whether it was expected is Verify's
// concern. The returned error reports harness-level problems only (missing
// archive, empty archive).
func (r *Runner) Run(scenario *Scenario) (*Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	data, err := os.ReadFile(scenario.archivePath())
	if err != nil {
		return nil, fmt.Errorf("reading archive for scenario %s: %w", scenario.Name, err)
	}
	archive := txtar.Parse(data)
	if len(archive.Files) == 0 {
		return nil, fmt.Errorf("scenario %s: archive %s holds no files", scenario.Name, scenario.Archive)
	}

	result := &Result{RunToken: uuid.Must(uuid.NewV7()).String()}
	logger = logger.With("scenario", scenario.Name, "run", result.RunToken)
	logger.Info("running scenario", "mode", scenario.Mode, "files", len(archive.Files))

	for _, file := range archive.Files {
		err := r.expandFile(scenario, file, result)
		if err != nil {
			result.Err = err
			result.ErrCode = errCode(err)
			logger.Info("expansion failed", "file", file.Name, "code", result.ErrCode)
			break
		}
		logger.Debug("expanded file", "file", file.Name, "invocations", len(result.Trace))
	}
	return result, nil
}

// expandFile runs the dispatcher once over a single archive file with
// recording callbacks, appending to the result's trace.
func (r *Runner) expandFile(scenario *Scenario, file txtar.File, result *Result) error {
	record := func(path string, args, item genexpand.Tokens) {
		payload := args.String()
		if payload == "" {
			payload = item.String()
		}
		if scenario.PanicOn != "" && strings.Contains(payload, scenario.PanicOn) {
			panic(fmt.Sprintf("scenario %s: refusing payload", scenario.Name))
		}
		result.Trace = append(result.Trace, Event{
			Seq:  len(result.Trace) + 1,
			File: file.Name,
			Mode: scenario.Mode,
			Path: path,
			Args: args.String(),
			Item: item.String(),
		})
	}

	src := namedReader{Reader: bytes.NewReader(file.Data), name: file.Name}

	switch scenario.Mode {
	case ModeNameFunctionLike:
		targets := make([]genexpand.FunctionLikeTarget, len(scenario.Targets))
		for i, path := range scenario.Targets {
			path := path
			targets[i] = genexpand.FunctionLikeTarget{Path: path, Expand: func(args genexpand.Tokens) genexpand.Tokens {
				record(path, args, genexpand.Tokens{})
				return genexpand.Tokens{}
			}}
		}
		return genexpand.ExpandFunctionLike(src, targets)

	case ModeNameDerive:
		targets := make([]genexpand.DeriveTarget, len(scenario.Targets))
		for i, path := range scenario.Targets {
			path := path
			targets[i] = genexpand.DeriveTarget{Path: path, Expand: func(item genexpand.Tokens) genexpand.Tokens {
				record(path, genexpand.Tokens{}, item)
				return genexpand.Tokens{}
			}}
		}
		return genexpand.ExpandDerive(src, targets)

	case ModeNameAttribute:
		targets := make([]genexpand.AttributeTarget, len(scenario.Targets))
		for i, path := range scenario.Targets {
			path := path
			targets[i] = genexpand.AttributeTarget{Path: path, Expand: func(args, item genexpand.Tokens) genexpand.Tokens {
				record(path, args, item)
				return genexpand.Tokens{}
			}}
		}
		return genexpand.ExpandAttribute(src, targets)
	}
	return fmt.Errorf("scenario %s: invalid mode %q", scenario.Name, scenario.Mode)
}

// errCode extracts the expansion error code, if err carries one.
func errCode(err error) string {
	var ee *genexpand.ExpansionError
	if errors.As(err, &ee) {
		return string(ee.Code)
	}
	return "UNKNOWN"
}
