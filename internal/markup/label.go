package markup

import "strings"

// DefaultRole is used when a LabelSpec has no Role.
const DefaultRole = "document"

// LabelSpec describes one label annotation.
// A spec with an empty Target is skipped.
type LabelSpec struct {
	Target     string   `json:"target" yaml:"target" toml:"target"`
	Label      string   `json:"label" yaml:"label" toml:"label"`
	Role       string   `json:"role,omitempty" yaml:"role,omitempty" toml:"role"`
	Flags      string   `json:"flags,omitempty" yaml:"flags,omitempty" toml:"flags"`
	Attributes []string `json:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes"`
}

// Normalize returns the spec with defaults applied.
func (s LabelSpec) Normalize() LabelSpec {
	if s.Role == "" {
		s.Role = DefaultRole
	}
	if s.Flags == "" {
		s.Flags = DefaultFlags
	}
	return s
}

func (s LabelSpec) wrapper() Wrapper {
	var b strings.Builder
	b.WriteString(`<span role="`)
	b.WriteString(s.Role)
	b.WriteString(`" aria-label="`)
	b.WriteString(s.Label)
	b.WriteString(`"`)
	if s.Attributes != nil {
		b.WriteString(" ")
		b.WriteString(strings.Join(s.Attributes, " "))
	}
	b.WriteString(">")
	return Wrapper{Before: b.String(), After: "</span>"}
}

// AddLabel wraps each spec's Target in a span carrying role and aria-label.
// Specs are applied in order, each to the output of the previous one. Applying
// the same spec twice wraps twice.
func (a *Annotator) AddLabel(text string, specs ...LabelSpec) string {
	out := text
	for _, spec := range specs {
		if spec.Target == "" {
			continue
		}
		spec = spec.Normalize()
		out = a.Wrap(out, spec.Target, spec.wrapper(), spec.Flags)
	}
	return out
}

// AddLabel is Annotator.AddLabel using slog.Default().
func AddLabel(text string, specs ...LabelSpec) string {
	return NewAnnotator(nil).AddLabel(text, specs...)
}
