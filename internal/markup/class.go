package markup

// ClassAttributeSpec appends Attr="Value" after every class="Class" marker.
// A spec with an empty Class is skipped.
type ClassAttributeSpec struct {
	Class string `json:"class" yaml:"class" toml:"class"`
	Attr  string `json:"attr" yaml:"attr" toml:"attr"`
	Value string `json:"value" yaml:"value" toml:"value"`
	Flags string `json:"flags,omitempty" yaml:"flags,omitempty" toml:"flags"`
}

// ClassTextSpec appends the literal Text after the class markers of every class in Classes.
type ClassTextSpec struct {
	Classes []string `json:"classes" yaml:"classes" toml:"classes"`
	Text    string   `json:"text" yaml:"text" toml:"text"`
}

func classPattern(class string) string {
	return `class="` + class + `"`
}

// AddClassAttribute applies specs in order. The attribute is padded with a space
// on both sides: `class="a"` becomes `class="a" data-x="1" `.
func (a *Annotator) AddClassAttribute(text string, specs ...ClassAttributeSpec) string {
	out := text
	for _, spec := range specs {
		if spec.Class == "" {
			continue
		}
		w := Wrapper{After: " " + spec.Attr + `="` + spec.Value + `" `}
		out = a.Wrap(out, classPattern(spec.Class), w, spec.Flags)
	}
	return out
}

// AddClassAttributeAsText appends " "+attrText after the marker of each class.
func (a *Annotator) AddClassAttributeAsText(text string, classes []string, attrText string) string {
	out := text
	w := Wrapper{After: " " + attrText}
	for _, class := range classes {
		if class == "" {
			continue
		}
		out = a.Wrap(out, classPattern(class), w, DefaultFlags)
	}
	return out
}

// AddClassAttribute is Annotator.AddClassAttribute using slog.Default().
func AddClassAttribute(text string, specs ...ClassAttributeSpec) string {
	return NewAnnotator(nil).AddClassAttribute(text, specs...)
}

// AddClassAttributeAsText is Annotator.AddClassAttributeAsText using slog.Default().
func AddClassAttributeAsText(text string, classes []string, attrText string) string {
	return NewAnnotator(nil).AddClassAttributeAsText(text, classes, attrText)
}
