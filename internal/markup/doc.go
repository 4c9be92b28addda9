// Package markup injects ARIA annotations into markup fragments.
//
// Every function takes a string and returns a new string. Patterns are regular
// expressions and are NOT escaped; use Escape to match literal text. When a
// pattern cannot be compiled or applied the failure is logged and the input is
// returned unchanged, so one bad rule never blocks the rest of the fragment.
//
//	out := markup.AddLabel(html,
//		markup.LabelSpec{Target: "Chapter 1", Label: "First chapter", Role: "heading"},
//		markup.LabelSpec{Target: "Fig\\. 2", Label: "Figure two"},
//	)
package markup
