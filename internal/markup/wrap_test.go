package markup

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_AllMatches(t *testing.T) {
	got := Wrap("a b a b a", "a", Wrapper{Before: "[", After: "]"}, "g")
	assert.Equal(t, "[a] b [a] b [a]", got)
}

func TestWrap_DefaultFlagsAreGlobal(t *testing.T) {
	got := Wrap("x-x", "x", Wrapper{Before: "<", After: ">"}, "")
	assert.Equal(t, "<x>-<x>", got)
}

func TestWrap_MatchCountPreserved(t *testing.T) {
	text := "one fish two fish red fish blue fish"
	w := Wrapper{Before: "«", After: "»"}

	tests := []struct {
		name  string
		flags string
		want  int
	}{
		{"global", "g", 4},
		{"first only", "u", 1},
		{"case-insensitive first only", "i", 1},
		{"global case-insensitive", "gi", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Wrap(text, "fish", w, tt.flags)
			assert.Equal(t, tt.want, strings.Count(out, w.Before))
			assert.Equal(t, tt.want, strings.Count(out, w.After))
		})
	}
}

func TestWrap_NoMatchReturnsInput(t *testing.T) {
	text := "<p>nothing here</p>"
	assert.Equal(t, text, Wrap(text, "absent", Wrapper{Before: "<b>", After: "</b>"}, "g"))
	assert.Equal(t, text, Wrap(text, "absent", Wrapper{Before: "<b>", After: "</b>"}, "u"))
}

func TestWrap_MalformedPatternFailsOpen(t *testing.T) {
	patterns := []string{"[", "(", "a{2,1}", `(?<=x`}
	for _, p := range patterns {
		t.Run(p, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, "<p>x</p>", Wrap("<p>x</p>", p, Wrapper{Before: "!"}, "g"))
			})
		})
	}
}

func TestWrap_InvalidFlagsFailOpen(t *testing.T) {
	for _, flags := range []string{"gy", "gg", "z", "ii"} {
		t.Run(flags, func(t *testing.T) {
			assert.Equal(t, "abc", Wrap("abc", "b", Wrapper{Before: "["}, flags))
		})
	}
}

func TestWrap_KeepsMatchedText(t *testing.T) {
	got := Wrap("Foo foo FOO", "foo", Wrapper{Before: "<", After: ">"}, "gi")
	assert.Equal(t, "<Foo> <foo> <FOO>", got)
}

func TestWrap_ReplacementIsLiteral(t *testing.T) {
	got := Wrap("cost", "(cost)", Wrapper{Before: "$1", After: "${1}"}, "g")
	assert.Equal(t, "$1cost${1}", got)
}

func TestWrap_UnsetWrapperIsNoop(t *testing.T) {
	assert.Equal(t, "abc", Wrap("abc", "b", Wrapper{}, "g"))
}

func TestWrap_MultilineAndDotAll(t *testing.T) {
	text := "alpha\nbeta"
	assert.Equal(t, "alpha\n[beta]", Wrap(text, "^beta$", Wrapper{Before: "[", After: "]"}, "gm"))
	assert.Equal(t, text, Wrap(text, "^beta$", Wrapper{Before: "[", After: "]"}, "g"))
	assert.Equal(t, "[alpha\nbeta]", Wrap(text, "alpha.beta", Wrapper{Before: "[", After: "]"}, "gs"))
}

func TestWrap_Lookaround(t *testing.T) {
	w := Wrapper{Before: "[", After: "]"}
	assert.Equal(t, "Fig 1 and [Fig] 2", Wrap("Fig 1 and Fig 2", "Fig(?= 2)", w, "g"))
	assert.Equal(t, "[Fig] 1 and Fig 2", Wrap("Fig 1 and Fig 2", "Fig(?! 2)", w, "g"))
	assert.Equal(t, "Fig [1] and Fig 2", Wrap("Fig 1 and Fig 2", `(?<=Fig )1`, w, "g"))
	assert.Equal(t, "Fig 1 and Tab [2]", Wrap("Fig 1 and Tab 2", `(?<!Fig )\d`, w, "g"))
}

func TestWrap_Backreference(t *testing.T) {
	w := Wrapper{Before: "<", After: ">"}
	assert.Equal(t, "<aa> b", Wrap("aa b", `(a)\1`, w, "g"))
	assert.Equal(t, "<abab> ab", Wrap("abab ab", `(?<pair>ab)\k<pair>`, w, "g"))
}

func TestWrap_InlineOptions(t *testing.T) {
	assert.Equal(t, "[ABC]", Wrap("ABC", "(?i)abc", Wrapper{Before: "[", After: "]"}, "g"))
}

func TestWrap_UnescapedMetacharactersAreInterpreted(t *testing.T) {
	// "." is a metacharacter; callers escape it when they mean a literal dot.
	text := "Fig. 2 and Figx 2"
	assert.Equal(t, "[Fig.] 2 and [Figx] 2", Wrap(text, "Fig.", Wrapper{Before: "[", After: "]"}, "g"))
	assert.Equal(t, "[Fig.] 2 and Figx 2", Wrap(text, Escape("Fig."), Wrapper{Before: "[", After: "]"}, "g"))
}

func TestAnnotator_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	a := NewAnnotator(logger)

	out := a.Wrap("<p>x</p>", "[", Wrapper{Before: "!"}, "g")
	assert.Equal(t, "<p>x</p>", out)
	assert.Contains(t, buf.String(), "pattern substitution failed")
	assert.Contains(t, buf.String(), "component=markup")
}

func TestCheckPattern(t *testing.T) {
	require.NoError(t, CheckPattern("a+b", "gi"))
	require.NoError(t, CheckPattern(`(?<=x)y`, "g"))
	require.Error(t, CheckPattern("[", "g"))

	err := CheckPattern("a", "gx")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidFlags))
}

func BenchmarkWrap(b *testing.B) {
	text := strings.Repeat(`<p class="body">Lorem ipsum dolor sit amet.</p>`, 64)
	w := Wrapper{Before: "<em>", After: "</em>"}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Wrap(text, "ipsum", w, "g")
	}
}
