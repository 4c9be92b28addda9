package production

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/comalice/a11yx/internal/core"
	"github.com/comalice/a11yx/internal/primitives"
)

// noScreen labels the node for the state before any navigation.
const noScreen = "(none)"

// Edge is a screen change observed between two snapshots.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// NavigationGraph records screen changes as they are published.
// It is a core.Publisher; export it as Graphviz DOT or JSON.
type NavigationGraph struct {
	mu      sync.Mutex
	screens map[string]primitives.Status
	edges   map[[3]string]int
	current string
	order   []string
}

// NewNavigationGraph creates an empty graph.
func NewNavigationGraph() *NavigationGraph {
	return &NavigationGraph{
		screens: make(map[string]primitives.Status),
		edges:   make(map[[3]string]int),
		current: noScreen,
	}
}

func (g *NavigationGraph) Publish(ctx context.Context, event primitives.Event, snapshot primitives.Snapshot, t core.Transition) error {
	to := snapshot.State.Screen
	if to == "" {
		to = noScreen
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.touch(g.current)
	g.touch(to)
	g.screens[to] = snapshot.State.Status
	if to != g.current {
		g.edges[[3]string{g.current, to, t.Event}]++
	}
	g.current = to
	return nil
}

func (g *NavigationGraph) Close() error { return nil }

func (g *NavigationGraph) touch(screen string) {
	if _, ok := g.screens[screen]; !ok {
		g.screens[screen] = ""
		g.order = append(g.order, screen)
	}
}

// Edges returns the recorded screen changes sorted by from, to, label.
func (g *NavigationGraph) Edges() []Edge {
	g.mu.Lock()
	defer g.mu.Unlock()

	edges := make([]Edge, 0, len(g.edges))
	for k, n := range g.edges {
		edges = append(edges, Edge{From: k[0], To: k[1], Label: k[2], Count: n})
	}
	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.Label < b.Label
	})
	return edges
}

// ExportDOT generates Graphviz DOT source. The current screen is filled green,
// screens last seen in ERROR are filled red.
func (g *NavigationGraph) ExportDOT() string {
	edges := g.Edges()

	g.mu.Lock()
	defer g.mu.Unlock()

	var buf bytes.Buffer
	buf.WriteString(`digraph Navigation {
  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)
	for _, screen := range g.order {
		style := ""
		switch {
		case screen == g.current:
			style = ` style=filled fillcolor=lightgreen`
		case g.screens[screen] == primitives.StatusError:
			style = ` style=filled fillcolor=salmon`
		}
		fmt.Fprintf(&buf, "  %q [label=%q%s];\n", screen, screen, style)
	}
	for _, e := range edges {
		label := e.Label
		if e.Count > 1 {
			label = fmt.Sprintf("%s x%d", e.Label, e.Count)
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, label)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes the current screen and edges to JSON.
func (g *NavigationGraph) ExportJSON() ([]byte, error) {
	edges := g.Edges()
	g.mu.Lock()
	current := g.current
	g.mu.Unlock()

	return json.MarshalIndent(struct {
		Current string `json:"current"`
		Edges   []Edge `json:"edges"`
	}{current, edges}, "", "  ")
}
