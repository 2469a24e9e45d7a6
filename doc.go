// Package genexpand emulates the expansion of CUE source generators at run
// time so that coverage tooling can observe which lines of a generator
// actually execute. Real generator expansion happens during code generation,
// before `go test -cover` can instrument anything; this package drives the
// generator function directly, exactly as the generation pipeline would,
// without rewriting the source or producing output artifacts.
//
// # Usage
//
// Add a test to the package that implements the generator, open a CUE file
// that invokes it, and call the entry point matching the invocation style:
//
//	func TestGeneratorCoverage(t *testing.T) {
//		f, err := os.Open("testdata/checks.cue")
//		require.NoError(t, err)
//		defer f.Close()
//
//		err = genexpand.ExpandFunctionLike(f, []genexpand.FunctionLikeTarget{
//			{Path: "check", Expand: Generate},
//		})
//		require.NoError(t, err)
//	}
//
// Any coverage tool that works with the package's tests will then report on
// the generator's own code paths. The generator's return value is discarded;
// only the fact that its code ran matters.
//
// # Invocation Styles
//
// Three entry points mirror the three ways a generator can be invoked in
// CUE source:
//
//   - ExpandFunctionLike: call expressions such as pkg.gen(args).
//   - ExpandDerive: fields annotated with @derive(Name, ...), one
//     invocation per registered name listed.
//   - ExpandAttribute: fields annotated with @name(args) where the
//     attribute key matches a registered path.
//
// # Limitations
//
// Matching is purely textual and structural. The scanner only sees CUE
// syntax, so it cannot resolve package aliases or re-exports: a generator
// registered as "check" is not found at a site spelled "lib.check", even if
// both names denote the same generator. Sites reached through a different
// spelling are silently skipped and their coverage is underestimated.
//
// A callback that never returns blocks the calling goroutine indefinitely;
// the harness imposes no timeout.
package genexpand
