package benchmarks

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/comalice/a11yx/internal/config"
	"github.com/comalice/a11yx/internal/markup"
)

func BenchmarkApplyRules(b *testing.B) {
	a := markup.NewAnnotator(slog.New(slog.NewTextHandler(io.Discard, nil)))
	for _, size := range []int{1, 10, 50} {
		rules := GenRuleset(size)
		text := GenFragment(size)
		b.Run(fmt.Sprintf("rules=%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = a.ApplyRules(text, rules)
			}
		})
	}
}

func BenchmarkInspect(b *testing.B) {
	text := GenRuleset(20).Apply(GenFragment(20))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := markup.Inspect(text); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkConfigParse(b *testing.B) {
	doc, err := GenConfigYAML(50)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := config.Parse(".yaml", doc); err != nil {
			b.Fatal(err)
		}
	}
}

func TestGeneratedConfigLoads(t *testing.T) {
	doc, err := GenConfigYAML(12)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Parse(".yaml", doc)
	if err != nil {
		t.Fatalf("generated config rejected: %v", err)
	}
	if len(cfg.Rules.Labels) != 12 || len(cfg.Rules.Classes) != 2 {
		t.Errorf("unexpected rules: %d labels, %d classes", len(cfg.Rules.Labels), len(cfg.Rules.Classes))
	}
}
