package genexpand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePathSingleSegment(t *testing.T) {
	p, err := ParsePath("check")
	require.NoError(t, err)

	assert.Equal(t, []string{"check"}, p.Segments())
	assert.Equal(t, "check", p.String())
}

func TestParsePathMultiSegment(t *testing.T) {
	p, err := ParsePath("lib.codec.pod")
	require.NoError(t, err)

	assert.Equal(t, []string{"lib", "codec", "pod"}, p.Segments())
	assert.Equal(t, "lib.codec.pod", p.String())
}

func TestParsePathTrimsWhitespace(t *testing.T) {
	p, err := ParsePath("  check \n")
	require.NoError(t, err)
	assert.Equal(t, "check", p.String())
}

func TestParsePathRoundTrip(t *testing.T) {
	// Resolving a path and rendering it back must denote the same segment
	// sequence.
	for _, text := range []string{"check", "a.b", "lib.codec.pod"} {
		p, err := ParsePath(text)
		require.NoError(t, err)

		again, err := ParsePath(p.String())
		require.NoError(t, err)
		assert.True(t, p.Equal(again), "round trip changed %q", text)
		assert.Equal(t, p.Segments(), again.Segments())
	}
}

func TestParsePathRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"call expression", "check(1)"},
		{"literal", "42"},
		{"string literal", `"check"`},
		{"trailing dot", "a.b."},
		{"index expression", "a[0]"},
		{"string selector", `a."b c"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePath(tt.text)
			require.Error(t, err)
			assert.True(t, IsSyntaxError(err), "expected syntax failure for %q, got %v", tt.text, err)
		})
	}
}

func TestPathEqualIsStructural(t *testing.T) {
	a, err := ParsePath("lib.check")
	require.NoError(t, err)
	b, err := ParsePath("lib.check")
	require.NoError(t, err)
	c, err := ParsePath("check")
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, c.Equal(a))
}

func TestPathSegmentsReturnsCopy(t *testing.T) {
	p, err := ParsePath("a.b")
	require.NoError(t, err)

	segs := p.Segments()
	segs[0] = "mutated"

	assert.Equal(t, []string{"a", "b"}, p.Segments())
}

func TestPathIsZero(t *testing.T) {
	assert.True(t, Path{}.IsZero())

	p, err := ParsePath("check")
	require.NoError(t, err)
	assert.False(t, p.IsZero())
}
