package genexpand

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/format"
	"cuelang.org/go/cue/parser"
	"cuelang.org/go/cue/token"
)

// Tokens is an opaque, owned snapshot of a CUE token sequence: a generator
// invocation's arguments, or a serialized declaration. A Tokens value is
// independent of the tree it was extracted from, so a callback may retain
// or discard it freely.
//
// The snapshot is re-playable: ParseExpr, ParseArgs, and ParseDecls hand the
// same tokens back to the grammar parser, which is how generator callbacks
// typically consume their payload.
type Tokens struct {
	text string
}

// TokensFromString wraps raw CUE source text as a token payload. Intended
// for generator callbacks constructing output and for tests; no parsing or
// validation is performed.
func TokensFromString(src string) Tokens {
	return Tokens{text: src}
}

// tokensFromNode re-serializes an arbitrary node into an owned snapshot.
func tokensFromNode(node ast.Node) (Tokens, error) {
	b, err := format.Node(node)
	if err != nil {
		return Tokens{}, newSyntaxError("cannot serialize declaration", node.Pos(), err)
	}
	return Tokens{text: strings.TrimSpace(string(b))}, nil
}

// tokensFromArgs re-serializes a call's argument list into one owned,
// comma-separated snapshot.
func tokensFromArgs(args []ast.Expr) (Tokens, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		b, err := format.Node(arg)
		if err != nil {
			return Tokens{}, newSyntaxError("cannot serialize argument", arg.Pos(), err)
		}
		parts[i] = strings.TrimSpace(string(b))
	}
	return Tokens{text: strings.Join(parts, ", ")}, nil
}

// String returns the snapshot as CUE source text.
func (t Tokens) String() string {
	return t.text
}

// IsEmpty reports whether the snapshot contains no tokens.
func (t Tokens) IsEmpty() bool {
	return strings.TrimSpace(t.text) == ""
}

// ParseExpr re-parses the snapshot as a single CUE expression.
func (t Tokens) ParseExpr() (ast.Expr, error) {
	expr, err := parser.ParseExpr("tokens", t.text)
	if err != nil {
		return nil, newSyntaxError("token payload is not an expression", token.NoPos, err)
	}
	return expr, nil
}

// ParseArgs re-parses the snapshot as a comma-separated argument list,
// returning one expression per argument. An empty payload yields an empty
// slice.
func (t Tokens) ParseArgs() ([]ast.Expr, error) {
	if t.IsEmpty() {
		return nil, nil
	}
	expr, err := parser.ParseExpr("tokens", fmt.Sprintf("[%s]", t.text))
	if err != nil {
		return nil, newSyntaxError("token payload is not an argument list", token.NoPos, err)
	}
	list, ok := expr.(*ast.ListLit)
	if !ok {
		return nil, newSyntaxError("token payload is not an argument list", token.NoPos, nil)
	}
	return list.Elts, nil
}

// ParseDecls re-parses the snapshot as a sequence of declarations, the form
// derive and attribute payloads take.
func (t Tokens) ParseDecls() ([]ast.Decl, error) {
	f, err := parser.ParseFile("tokens", t.text, parser.ParseComments)
	if err != nil {
		return nil, newSyntaxError("token payload is not a declaration", token.NoPos, err)
	}
	return f.Decls, nil
}
