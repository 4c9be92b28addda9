package markup

import (
	"errors"
	"fmt"
)

// Ruleset is a declarative bundle of annotations, usually loaded from config.
// Apply runs Labels, then Classes, then ClassTexts, each in slice order.
type Ruleset struct {
	Labels     []LabelSpec          `json:"labels,omitempty" yaml:"labels,omitempty" toml:"labels"`
	Classes    []ClassAttributeSpec `json:"classes,omitempty" yaml:"classes,omitempty" toml:"classes"`
	ClassTexts []ClassTextSpec      `json:"class_texts,omitempty" yaml:"class_texts,omitempty" toml:"class_texts"`
}

// Empty reports whether the ruleset has no rules.
func (r Ruleset) Empty() bool {
	return len(r.Labels) == 0 && len(r.Classes) == 0 && len(r.ClassTexts) == 0
}

// Validate compiles every pattern up front. Apply stays fail-open regardless;
// this lets config loading reject a broken rule file before it is used.
func (r Ruleset) Validate() error {
	var errs []error
	for i, l := range r.Labels {
		if l.Target == "" {
			continue
		}
		if err := CheckPattern(l.Target, l.Flags); err != nil {
			errs = append(errs, fmt.Errorf("labels[%d]: %w", i, err))
		}
	}
	for i, c := range r.Classes {
		if c.Class == "" {
			continue
		}
		if c.Attr == "" {
			errs = append(errs, fmt.Errorf("classes[%d]: attr is required", i))
		}
		if err := CheckPattern(classPattern(c.Class), c.Flags); err != nil {
			errs = append(errs, fmt.Errorf("classes[%d]: %w", i, err))
		}
	}
	for i, ct := range r.ClassTexts {
		if ct.Text == "" {
			errs = append(errs, fmt.Errorf("class_texts[%d]: text is required", i))
		}
		for _, class := range ct.Classes {
			if err := CheckPattern(classPattern(class), DefaultFlags); err != nil {
				errs = append(errs, fmt.Errorf("class_texts[%d]: %w", i, err))
			}
		}
	}
	return errors.Join(errs...)
}

// ApplyRules runs every rule of r over text.
func (a *Annotator) ApplyRules(text string, r Ruleset) string {
	out := a.AddLabel(text, r.Labels...)
	out = a.AddClassAttribute(out, r.Classes...)
	for _, ct := range r.ClassTexts {
		out = a.AddClassAttributeAsText(out, ct.Classes, ct.Text)
	}
	return out
}

// Apply is Annotator.ApplyRules using slog.Default().
func (r Ruleset) Apply(text string) string {
	return NewAnnotator(nil).ApplyRules(text, r)
}
