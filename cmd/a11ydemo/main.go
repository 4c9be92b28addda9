package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/comalice/a11yx"
	"github.com/comalice/a11yx/internal/config"
	"github.com/comalice/a11yx/internal/production"
)

const fragment = `<h1>Chapter 1</h1>
<p class="note">Read the glossary first.</p>
<aside class="sidebar">See Fig. 2 for the map.</aside>`

var (
	cyan   = color.New(color.FgCyan)
	gray   = color.New(color.FgHiBlack)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
)

func main() {
	configPath := flag.String("config", "", "path to a YAML or TOML config file")
	watch := flag.Bool("watch", false, "reload rules when the config file changes (requires -config)")
	dot := flag.Bool("dot", false, "print the navigation graph as Graphviz DOT")
	flag.Parse()

	if err := run(*configPath, *watch, *dot); err != nil {
		red.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, watch, dot bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	graph := production.NewNavigationGraph()
	focusTarget := a11yx.FocusFunc(func(ctx context.Context, id string) error {
		yellow.Printf("  focus -> %s\n", id)
		return nil
	})

	rt, err := a11yx.NewRuntime(cfg,
		a11yx.WithPublisher(graph),
		a11yx.WithFocusTarget(focusTarget),
	)
	if err != nil {
		return err
	}
	if err := rt.Start(ctx); err != nil {
		return err
	}
	defer rt.Stop()

	cyan.Println("Annotated fragment")
	out := rt.Annotate(fragment)
	fmt.Println(out)
	printAnnotations(out)

	cyan.Println("\nState pipeline")
	if err := rt.Init(ctx, nil); err != nil {
		return err
	}
	printState(rt, "init")

	for _, screen := range []string{"toc", "chapter-1", "glossary", "chapter-1"} {
		if err := rt.Navigate(ctx, screen, ""); err != nil {
			return err
		}
		printState(rt, "navigate")
		if err := <-rt.PostFocus(ctx, screen+"-heading"); err != nil {
			return err
		}
	}

	if dot {
		cyan.Println("\nNavigation graph")
		fmt.Print(graph.ExportDOT())
	}

	if !watch {
		return nil
	}
	if configPath == "" {
		return fmt.Errorf("-watch requires -config")
	}
	return watchRules(ctx, rt, configPath)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg := config.Default()
	cfg.Options = map[string]any{"logLevel": 1}
	cfg.Rules = a11yx.Ruleset{
		Labels: []a11yx.LabelSpec{
			{Target: `Chapter \d+`, Label: "Chapter heading", Role: "heading", Attributes: []string{`aria-level="1"`}},
			{Target: a11yx.Escape("Fig. 2"), Label: "Figure two", Role: "img"},
		},
		Classes: []a11yx.ClassAttributeSpec{
			{Class: "note", Attr: "role", Value: "note"},
		},
		ClassTexts: []a11yx.ClassTextSpec{
			{Classes: []string{"sidebar"}, Text: `role="complementary"`},
		},
	}
	return cfg, nil
}

func printAnnotations(text string) {
	anns, err := a11yx.Inspect(text)
	if err != nil {
		red.Printf("inspect: %v\n", err)
		return
	}
	for _, a := range anns {
		gray.Printf("  <%s>", a.Tag)
		green.Printf(" role=%s", a.Role)
		if a.Label != "" {
			fmt.Printf(" label=%q", a.Label)
		}
		fmt.Println()
	}
}

func printState(rt *a11yx.Runtime, step string) {
	snap := rt.Snapshot()
	screen := snap.State.Screen
	if screen == "" {
		screen = "-"
	}
	gray.Printf("  v%-3d %-9s", snap.Version, step)
	fmt.Printf(" screen=%s status=%s focus=%s\n", screen, statusColor(snap.State.Status), snap.State.FocusTarget)
}

func statusColor(s a11yx.Status) string {
	switch s {
	case a11yx.StatusReady:
		return green.Sprint(s)
	case a11yx.StatusError:
		return red.Sprint(s)
	case a11yx.StatusLoading:
		return yellow.Sprint(s)
	default:
		return string(s)
	}
}

func watchRules(ctx context.Context, rt *a11yx.Runtime, path string) error {
	w, err := config.NewWatcher(path, rt.Logger())
	if err != nil {
		return err
	}
	w.OnChange(func(cfg *config.Config) {
		if err := rt.Reload(cfg); err != nil {
			red.Printf("reload: %v\n", err)
			return
		}
		cyan.Println("\nRules reloaded")
		out := rt.Annotate(fragment)
		fmt.Println(out)
		printAnnotations(out)
	})
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Close()

	gray.Printf("watching %s, Ctrl+C to exit\n", path)
	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nShutting down gracefully...")
			return nil
		case err := <-w.Errors():
			red.Printf("config: %v\n", err)
		}
	}
}
