// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/a11yx/internal/config"
	"github.com/comalice/a11yx/internal/markup"
)

// GenFragment creates markup with n paragraphs, each holding a chapter heading
// and a note class marker.
func GenFragment(n int) string {
	if n < 1 {
		n = 1
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `<h2>Chapter %d</h2><p class="note">Note %d, see Fig. %d.</p>`, i, i, i)
	}
	return b.String()
}

// GenRuleset creates n label rules plus one class rule per ten labels.
func GenRuleset(n int) markup.Ruleset {
	if n < 1 {
		n = 1
	}
	var r markup.Ruleset
	for i := 0; i < n; i++ {
		r.Labels = append(r.Labels, markup.LabelSpec{
			Target: fmt.Sprintf(`Chapter %d\b`, i),
			Label:  fmt.Sprintf("Chapter %d", i),
			Role:   "heading",
		})
		if i%10 == 0 {
			r.Classes = append(r.Classes, markup.ClassAttributeSpec{Class: "note", Attr: fmt.Sprintf("data-n%d", i), Value: "1"})
		}
	}
	return r
}

// GenConfigYAML renders a config document holding GenRuleset(n).
func GenConfigYAML(n int) ([]byte, error) {
	doc := map[string]any{
		"options":     map[string]any{"logLevel": 0},
		"coordinator": config.CoordinatorConfig{QueueSize: 64},
		"focus":       map[string]any{"post_delay": "50ms"},
		"rules":       GenRuleset(n),
	}
	return yaml.Marshal(doc)
}
