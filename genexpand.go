package genexpand

import (
	"io"
)

// FunctionLikeFunc is a function-like generator under test. It receives the
// invocation's raw argument tokens; its return value is discarded.
type FunctionLikeFunc func(args Tokens) Tokens

// DeriveFunc is a derive-style generator under test. It receives an owned
// snapshot of the whole annotated declaration; its return value is
// discarded.
type DeriveFunc func(item Tokens) Tokens

// AttributeFunc is an attribute-style generator under test. It receives the
// attribute's argument tokens and an owned snapshot of the annotated
// declaration; its return value is discarded.
type AttributeFunc func(args, item Tokens) Tokens

// FunctionLikeTarget registers a function-like generator under a symbolic
// path.
type FunctionLikeTarget struct {
	Path   string
	Expand FunctionLikeFunc
}

// DeriveTarget registers a derive-style generator under a symbolic path.
type DeriveTarget struct {
	Path   string
	Expand DeriveFunc
}

// AttributeTarget registers an attribute-style generator under a symbolic
// path.
type AttributeTarget struct {
	Path   string
	Expand AttributeFunc
}

// ExpandFunctionLike reads a CUE source file from src and, for every call
// expression whose path exactly matches a registered target, invokes that
// target's generator with the call's argument tokens.
//
// Targets form an ordered list, not a mapping: several targets may share
// one path, and every target matching a site is invoked, in registration
// order. Sites are visited in document order. Matching is exact and
// structural; no alias or import resolution is performed.
//
// IO and syntax failures (including a malformed target path) are returned
// before any site is visited. A generator panic anywhere during the
// traversal is caught once, converted into a single INVOCATION_FAILURE,
// and aborts all remaining sites; the failing site's identity is not
// retained.
//
// Each call owns its parsed tree and resolved paths; nothing is shared
// between calls, so distinct calls are safe to run concurrently as long as
// the supplied generators are.
func ExpandFunctionLike(src io.Reader, targets []FunctionLikeTarget) error {
	paths, err := resolveTargetPaths(len(targets), func(i int) string { return targets[i].Path })
	if err != nil {
		return err
	}
	sites, err := scan(src, ModeFunctionLike)
	if err != nil {
		return err
	}
	return invokeGuarded(func() {
		for _, site := range sites {
			for i, path := range paths {
				if path.Equal(site.Path) {
					targets[i].Expand(site.Args)
				}
			}
		}
	})
}

// ExpandDerive reads a CUE source file from src and, for every declaration
// carrying a @derive(...) attribute, iterates the names listed inside it;
// each name exactly matching a registered target invokes that target's
// generator with a snapshot of the entire declaration, unrelated sibling
// derive names included.
//
// Ordering, matching, and failure semantics are those of
// ExpandFunctionLike.
func ExpandDerive(src io.Reader, targets []DeriveTarget) error {
	paths, err := resolveTargetPaths(len(targets), func(i int) string { return targets[i].Path })
	if err != nil {
		return err
	}
	sites, err := scan(src, ModeDerive)
	if err != nil {
		return err
	}
	return invokeGuarded(func() {
		for _, site := range sites {
			for i, path := range paths {
				if path.Equal(site.Path) {
					targets[i].Expand(site.Item)
				}
			}
		}
	})
}

// ExpandAttribute reads a CUE source file from src and, for every
// declaration carrying an attribute whose key exactly matches a registered
// target, invokes that target's generator with the attribute's argument
// tokens and a snapshot of the annotated declaration.
//
// CUE attribute keys are single identifiers, so a multi-segment registered
// path can never match in this mode; like aliased spellings, such sites
// are silently skipped.
//
// Ordering, matching, and failure semantics are those of
// ExpandFunctionLike.
func ExpandAttribute(src io.Reader, targets []AttributeTarget) error {
	paths, err := resolveTargetPaths(len(targets), func(i int) string { return targets[i].Path })
	if err != nil {
		return err
	}
	sites, err := scan(src, ModeAttribute)
	if err != nil {
		return err
	}
	return invokeGuarded(func() {
		for _, site := range sites {
			for i, path := range paths {
				if path.Equal(site.Path) {
					targets[i].Expand(site.Args, site.Item)
				}
			}
		}
	})
}

// MustExpandFunctionLike is the historical non-fallible form of
// ExpandFunctionLike: any failure aborts the caller by panicking with the
// underlying *ExpansionError.
//
// Deprecated: use ExpandFunctionLike and inspect the returned error.
func MustExpandFunctionLike(src io.Reader, targets []FunctionLikeTarget) {
	if err := ExpandFunctionLike(src, targets); err != nil {
		panic(err)
	}
}

// resolveTargetPaths parses every registered path string up front, so a
// malformed registration fails fast before the source is even read.
func resolveTargetPaths(n int, pathAt func(int) string) ([]Path, error) {
	paths := make([]Path, n)
	for i := range paths {
		path, err := ParsePath(pathAt(i))
		if err != nil {
			return nil, err
		}
		paths[i] = path
	}
	return paths, nil
}

// scan performs the read-and-collect half of an expansion call: everything
// that can produce an IO or syntax failure happens here, before any
// generator runs.
func scan(src io.Reader, mode Mode) ([]Site, error) {
	f, err := parseSource(src)
	if err != nil {
		return nil, err
	}
	return collectSites(f, mode)
}

// invokeGuarded bounds one full traversal with a single recoverable-failure
// boundary. A generator panic anywhere inside run is caught exactly once
// and converted into an INVOCATION_FAILURE; sites not yet visited are
// skipped.
func invokeGuarded(run func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newInvocationError(r)
		}
	}()
	run()
	return nil
}
