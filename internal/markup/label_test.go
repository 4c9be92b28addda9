package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddLabel_Defaults(t *testing.T) {
	got := AddLabel("Hello world", LabelSpec{Target: "world", Label: "planet"})
	assert.Equal(t, `Hello <span role="document" aria-label="planet">world</span>`, got)
}

func TestAddLabel_RoleAndAttributes(t *testing.T) {
	got := AddLabel("<h2>Intro</h2>", LabelSpec{
		Target:     "Intro",
		Label:      "Introduction",
		Role:       "heading",
		Attributes: []string{`aria-level="2"`, `tabindex="0"`},
	})
	assert.Equal(t, `<h2><span role="heading" aria-label="Introduction" aria-level="2" tabindex="0">Intro</span></h2>`, got)
}

func TestAddLabel_EmptyLabel(t *testing.T) {
	got := AddLabel("x", LabelSpec{Target: "x"})
	assert.Equal(t, `<span role="document" aria-label="">x</span>`, got)
}

func TestAddLabel_EmptyAttributesKeepSeparator(t *testing.T) {
	got := AddLabel("x", LabelSpec{Target: "x", Label: "x", Attributes: []string{}})
	assert.Equal(t, `<span role="document" aria-label="x" >x</span>`, got)

	got = AddLabel("x", LabelSpec{Target: "x", Label: "x"})
	assert.Equal(t, `<span role="document" aria-label="x">x</span>`, got)
}

func TestAddLabel_AbsentTargetIsSkipped(t *testing.T) {
	texts := []string{"", "plain", `<div class="a">body</div>`}
	for _, text := range texts {
		assert.Equal(t, text, AddLabel(text, LabelSpec{Label: "ignored", Role: "note"}))
	}
}

func TestAddLabel_NoSpecs(t *testing.T) {
	assert.Equal(t, "unchanged", AddLabel("unchanged"))
}

func TestAddLabel_SequentialComposition(t *testing.T) {
	text := "alpha and beta"
	a := LabelSpec{Target: "alpha", Label: "A"}
	b := LabelSpec{Target: "beta", Label: "B"}

	assert.Equal(t, AddLabel(AddLabel(text, a), b), AddLabel(text, a, b))
}

func TestAddLabel_NestedAnnotation(t *testing.T) {
	got := AddLabel("chapter one",
		LabelSpec{Target: "chapter one", Label: "c1"},
		LabelSpec{Target: "one", Label: "n"},
	)
	want := `<span role="document" aria-label="c1">chapter <span role="document" aria-label="n">one</span></span>`
	assert.Equal(t, want, got)
}

func TestAddLabel_FailedSpecDoesNotAbortLaterSpecs(t *testing.T) {
	got := AddLabel("<p>x</p>",
		LabelSpec{Target: "[", Label: "broken"},
		LabelSpec{Target: "x", Label: "ok"},
	)
	assert.Equal(t, `<p><span role="document" aria-label="ok">x</span></p>`, got)
}

func TestAddLabel_NotIdempotent(t *testing.T) {
	spec := LabelSpec{Target: "word", Label: "w"}
	twice := AddLabel(AddLabel("word", spec), spec)
	assert.Equal(t, 2, strings.Count(twice, "<span "))
}

func TestAddLabel_FirstMatchOnly(t *testing.T) {
	got := AddLabel("a a", LabelSpec{Target: "a", Label: "L", Flags: "u"})
	assert.Equal(t, `<span role="document" aria-label="L">a</span> a`, got)
}

func TestLabelSpec_Normalize(t *testing.T) {
	s := LabelSpec{Target: "x"}.Normalize()
	assert.Equal(t, DefaultRole, s.Role)
	assert.Equal(t, DefaultFlags, s.Flags)

	custom := LabelSpec{Target: "x", Role: "img", Flags: "i"}.Normalize()
	assert.Equal(t, "img", custom.Role)
	assert.Equal(t, "i", custom.Flags)
}

func BenchmarkAddLabel(b *testing.B) {
	text := strings.Repeat("<p>Chapter 1. Figure 2. Table 3.</p>", 32)
	specs := []LabelSpec{
		{Target: "Chapter 1", Label: "chapter one", Role: "heading"},
		{Target: Escape("Figure 2."), Label: "figure two", Role: "img"},
		{Target: "Table 3", Label: "table three"},
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = AddLabel(text, specs...)
	}
}
