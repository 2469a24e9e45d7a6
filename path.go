package genexpand

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/parser"
	"cuelang.org/go/cue/token"
)

// Path is a resolved symbolic generator path: an ordered, non-empty sequence
// of identifier segments, such as "check" or "lib.codec.pod".
//
// Equality is structural, segment by segment. No normalization is applied
// beyond what the CUE parser itself does, and no alias or import resolution
// is ever performed: "lib.check" and "check" are distinct paths even when
// both spellings denote the same generator.
type Path struct {
	segments []string
}

// ParsePath resolves a textual generator path into a Path.
//
// The text must be a bare identifier or a dot-separated selector chain of
// identifiers. Anything else (including the empty string) fails with a
// syntax error before any traversal starts.
func ParsePath(text string) (Path, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Path{}, newSyntaxError("generator path is empty", token.NoPos, nil)
	}

	expr, err := parser.ParseExpr("path", trimmed)
	if err != nil {
		return Path{}, newSyntaxError(fmt.Sprintf("invalid generator path %q", text), token.NoPos, err)
	}

	segments, ok := pathSegments(expr)
	if !ok {
		return Path{}, newSyntaxError(fmt.Sprintf("invalid generator path %q: not an identifier chain", text), token.NoPos, nil)
	}
	return Path{segments: segments}, nil
}

// pathSegments flattens an identifier or selector chain into its segments.
// Returns false for any other expression shape (calls, literals, indexing,
// string-labeled selectors).
func pathSegments(expr ast.Expr) ([]string, bool) {
	switch x := expr.(type) {
	case *ast.Ident:
		return []string{x.Name}, true
	case *ast.SelectorExpr:
		base, ok := pathSegments(x.X)
		if !ok {
			return nil, false
		}
		name, isIdent, err := ast.LabelName(x.Sel)
		if err != nil || !isIdent {
			return nil, false
		}
		return append(base, name), true
	}
	return nil, false
}

// Segments returns a copy of the path's segments in order.
func (p Path) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

// String renders the path in its canonical dotted spelling.
func (p Path) String() string {
	return strings.Join(p.segments, ".")
}

// Equal reports whether two paths have identical segment sequences.
func (p Path) Equal(other Path) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i, seg := range p.segments {
		if seg != other.segments[i] {
			return false
		}
	}
	return true
}

// IsZero reports whether the path is the zero value (no segments).
func (p Path) IsZero() bool {
	return len(p.segments) == 0
}
