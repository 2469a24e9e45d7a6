package genexpand

import (
	"io"
	"strings"

	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/parser"
	"cuelang.org/go/cue/token"

	cueerrors "cuelang.org/go/cue/errors"
)

// Mode selects which invocation style a traversal recognizes.
type Mode int

const (
	// ModeFunctionLike recognizes call expressions such as pkg.gen(args).
	ModeFunctionLike Mode = iota

	// ModeDerive recognizes fields annotated with @derive(Name, ...).
	ModeDerive

	// ModeAttribute recognizes fields annotated with @name(args).
	ModeAttribute
)

// deriveAttr is the attribute key that carries derive-style generator names.
const deriveAttr = "derive"

// String returns the mode's human-readable name.
func (m Mode) String() string {
	switch m {
	case ModeFunctionLike:
		return "function-like"
	case ModeDerive:
		return "derive"
	case ModeAttribute:
		return "attribute"
	}
	return "unknown"
}

// Site describes one candidate invocation site found during a traversal.
// Sites carry owned token snapshots, never views into the parsed tree.
type Site struct {
	// Mode is the invocation style this site was found under.
	Mode Mode

	// Path is the generator path exactly as spelled at the site.
	Path Path

	// Pos is the site's source position.
	Pos token.Pos

	// Args holds the invocation's argument tokens. Set for function-like
	// sites (the call's arguments) and attribute sites (the attribute's
	// argument tokens); empty for derive sites.
	Args Tokens

	// Item holds a snapshot of the annotated declaration, re-serialized
	// as tokens. Set for derive and attribute sites; empty for
	// function-like sites.
	Item Tokens
}

// Sites parses src and returns every candidate invocation site for the
// given mode, in document order, without invoking anything. This is the
// inspection form of the traversal the Expand entry points perform.
func Sites(src io.Reader, mode Mode) ([]Site, error) {
	f, err := parseSource(src)
	if err != nil {
		return nil, err
	}
	return collectSites(f, mode)
}

// parseSource reads src to completion and hands it to the grammar parser.
// If src exposes a Name method (as *os.File does), the name seeds source
// positions.
func parseSource(src io.Reader) (*ast.File, error) {
	filename := "source.cue"
	if named, ok := src.(interface{ Name() string }); ok && named.Name() != "" {
		filename = named.Name()
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, newIOError("cannot read source", err)
	}

	f, err := parser.ParseFile(filename, data, parser.ParseComments)
	if err != nil {
		pos := token.NoPos
		if positions := cueerrors.Positions(err); len(positions) > 0 {
			pos = positions[0]
		}
		return nil, newSyntaxError("cannot parse source", pos, err)
	}
	return f, nil
}

// collectSites walks the tree once, depth-first in document order, and
// returns every candidate site for the given mode.
//
// Declarations are visited generically: any field carrying an attribute
// list is a candidate container, whatever kind of value it declares. New
// grammar-level declaration shapes therefore need no dispatcher change.
func collectSites(f *ast.File, mode Mode) ([]Site, error) {
	var sites []Site
	var firstErr error

	ast.Walk(f, func(n ast.Node) bool {
		if firstErr != nil {
			return false
		}
		switch mode {
		case ModeFunctionLike:
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			segments, ok := pathSegments(call.Fun)
			if !ok {
				// Not a plain path call (builtin shorthand, indexed
				// expression); never a generator invocation.
				return true
			}
			args, err := tokensFromArgs(call.Args)
			if err != nil {
				firstErr = err
				return false
			}
			sites = append(sites, Site{
				Mode: mode,
				Path: Path{segments: segments},
				Pos:  call.Pos(),
				Args: args,
			})

		case ModeDerive, ModeAttribute:
			field, ok := n.(*ast.Field)
			if !ok || len(field.Attrs) == 0 {
				return true
			}
			fieldSites, err := attributeSites(field, mode)
			if err != nil {
				firstErr = err
				return false
			}
			sites = append(sites, fieldSites...)
		}
		return true
	}, nil)

	if firstErr != nil {
		return nil, firstErr
	}
	return sites, nil
}

// attributeSites extracts the derive or attribute sites one annotated field
// contributes. The item snapshot covers the whole declaration, including
// attributes unrelated to any given match.
func attributeSites(field *ast.Field, mode Mode) ([]Site, error) {
	item, err := tokensFromNode(field)
	if err != nil {
		return nil, err
	}

	var sites []Site
	for _, attr := range field.Attrs {
		key, body := attr.Split()
		if mode == ModeDerive {
			if key != deriveAttr {
				continue
			}
			for _, name := range splitAttrBody(body) {
				path, err := ParsePath(name)
				if err != nil {
					// A derive entry that is not a path can never match
					// a registration; skip it like any other non-match.
					continue
				}
				sites = append(sites, Site{
					Mode: mode,
					Path: path,
					Pos:  attr.At,
					Item: item,
				})
			}
			continue
		}

		path, err := ParsePath(key)
		if err != nil {
			continue
		}
		sites = append(sites, Site{
			Mode: mode,
			Path: path,
			Pos:  attr.At,
			Args: TokensFromString(body),
			Item: item,
		})
	}
	return sites, nil
}

// splitAttrBody splits an attribute body on top-level commas, respecting
// quotes and bracket nesting, and trims surrounding whitespace. Empty
// entries are dropped.
func splitAttrBody(body string) []string {
	var (
		parts []string
		start int
		depth int
		quote rune
	)
	flush := func(end int) {
		part := strings.TrimSpace(body[start:end])
		if part != "" {
			parts = append(parts, part)
		}
		start = end + 1
	}
	for i, r := range body {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			depth--
		case r == ',' && depth == 0:
			flush(i)
		}
	}
	flush(len(body))
	return parts
}
