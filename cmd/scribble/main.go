// Package main provides the CLI entry point for scribble.
//
// Usage:
//
//	scribble parse input.md
//	scribble edit input.md 7 14 "new text"
//	scribble project input.md
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/scribble-md/scribble/config"
	"github.com/scribble-md/scribble/core"
	"github.com/scribble-md/scribble/iterator"
	"github.com/scribble-md/scribble/minimark"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "parse":
		err = runParse(os.Args[2:])
	case "edit":
		err = runEdit(os.Args[2:])
	case "project":
		err = runProject(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		printVersion()
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`scribble - incremental memoizing markup parser

Usage:
  scribble parse [--grammar path.toml] [--projection path.yaml] <input.md>
  scribble edit [--grammar path.toml] [--projection path.yaml] <input.md> <rawLo> <rawHi> <replacement>
  scribble project [--grammar path.toml] [--projection path.yaml] <input.md>

Flags must come before the positional arguments.
  scribble help
  scribble version

Commands:
  parse     Parse input.md and print its compact tree and visible projection
  edit      Apply one raw-range replacement and print the minimal edited range
  project   Dump the replacement intervals computed over input.md
  help      Show this help message
  version   Show version information`)
}

func printVersion() {
	fmt.Println("scribble version 0.1.0")
}

// minimarkStartRuleName is what a ".grammar.toml" file's start_rule must
// name to describe this build's grammar: minimark.Grammar's rule graph is
// Go code, not something a config file could reconstruct (spec §9 models
// grammar as a DAG, not data), so grammarMetaPath is only ever checked
// against it, never used to build the rule graph itself.
const minimarkStartRuleName = "document"

func loadGrammar(projectionOverride, grammarMetaPath string) (core.Grammar, error) {
	start, subs := minimark.Grammar()
	if grammarMetaPath != "" {
		meta, err := config.LoadGrammarMeta(grammarMetaPath)
		if err != nil {
			return core.Grammar{}, err
		}
		if meta.StartRule != minimarkStartRuleName {
			return core.Grammar{}, fmt.Errorf("config: grammar metadata %s declares start rule %q, this build only has %q",
				grammarMetaPath, meta.StartRule, minimarkStartRuleName)
		}
	}
	if projectionOverride != "" {
		loaded, err := config.LoadProjection(projectionOverride)
		if err != nil {
			return core.Grammar{}, err
		}
		subs = loaded
	}
	return core.Grammar{Start: start, Substitutions: subs}, nil
}

func readInput(fs *flag.FlagSet) (path, text string, err error) {
	if fs.NArg() < 1 {
		return "", "", fmt.Errorf("missing input file")
	}
	path = fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("cannot read %s: %w", path, err)
	}
	return path, string(data), nil
}

func runParse(args []string) error {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	projectionPath := fs.String("projection", "", "Override projection map (.projection.yaml)")
	grammarMetaPath := fs.String("grammar", "", "Validate against grammar metadata (.grammar.toml)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path, text, err := readInput(fs)
	if err != nil {
		return err
	}

	g, err := loadGrammar(*projectionPath, *grammarMetaPath)
	if err != nil {
		return err
	}

	ps, err := core.New(text, g)
	if ps == nil {
		return fmt.Errorf("cannot parse %s: %w", path, err)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	fmt.Println(ps.Tree().CompactStructure())
	fmt.Println(ps.String())
	fmt.Printf("visible cursor width: %d graphemes (%d bytes)\n",
		iterator.GraphemeWidth(ps.String()), len(ps.String()))
	return nil
}

func runEdit(args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	projectionPath := fs.String("projection", "", "Override projection map (.projection.yaml)")
	grammarMetaPath := fs.String("grammar", "", "Validate against grammar metadata (.grammar.toml)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 4 {
		return fmt.Errorf("usage: scribble edit <input.md> <rawLo> <rawHi> <replacement>")
	}
	path := fs.Arg(0)
	rawLo, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("invalid rawLo: %w", err)
	}
	rawHi, err := strconv.Atoi(fs.Arg(2))
	if err != nil {
		return fmt.Errorf("invalid rawHi: %w", err)
	}
	replacement := fs.Arg(3)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	g, err := loadGrammar(*projectionPath, *grammarMetaPath)
	if err != nil {
		return err
	}

	ps, err := core.New(string(data), g)
	if ps == nil {
		return fmt.Errorf("cannot parse %s: %w", path, err)
	}

	var recorder rangeRecorder
	ps.Subscribe(&recorder)

	if err := ps.ReplaceCharacters(rawLo, rawHi, replacement); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	fmt.Printf("edited visible range [%d, %d), change in length %d\n",
		recorder.last.VisibleRange[0], recorder.last.VisibleRange[1], recorder.last.ChangeInLength)
	fmt.Println(ps.Tree().CompactStructure())
	fmt.Println(ps.String())
	return nil
}

func runProject(args []string) error {
	fs := flag.NewFlagSet("project", flag.ExitOnError)
	projectionPath := fs.String("projection", "", "Override projection map (.projection.yaml)")
	grammarMetaPath := fs.String("grammar", "", "Validate against grammar metadata (.grammar.toml)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	_, text, err := readInput(fs)
	if err != nil {
		return err
	}

	g, err := loadGrammar(*projectionPath, *grammarMetaPath)
	if err != nil {
		return err
	}

	ps, err := core.New(text, g)
	if ps == nil {
		return fmt.Errorf("cannot parse: %w", err)
	}

	for _, iv := range ps.Projection().Intervals() {
		fmt.Printf("[%d, %d) -> %q\n", iv.RawStart, iv.RawEnd, iv.Visible)
	}
	return nil
}

// rangeRecorder captures the most recent DidProcessEditing notification, the
// way a real editor frontend would capture it to invalidate a text view's
// displayed range.
type rangeRecorder struct {
	last core.EditNotification
}

func (r *rangeRecorder) WillProcessEditing(core.EditNotification) {}
func (r *rangeRecorder) DidProcessEditing(n core.EditNotification) { r.last = n }
