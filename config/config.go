// Package config loads the two external collaborators spec §6 describes as
// unmodeled by the core itself — a "Grammar provider" and a "Replacement
// function" registered by NodeType — concretely, from TOML and YAML files,
// for consumers like cmd/scribble that need a real instance of each to run
// from a command line.
//
// Grounded on eval/fileops.go's toml()/yaml() document loaders: same two
// libraries (github.com/BurntSushi/toml, gopkg.in/yaml.v3), repurposed from
// "load a Typst data file at evaluation time" to "load this repo's grammar
// metadata and projection map at CLI startup".
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/scribble-md/scribble/projection"
	"github.com/scribble-md/scribble/tree"
)

// GrammarMeta is a grammar's static metadata: the start rule's name (which
// cmd/scribble checks against the grammar it was built with — the rule
// graph itself is still Go code,
// since spec §9 models rules as a DAG rather than data a config file could
// reconstruct) and the full set of node types the grammar can produce.
type GrammarMeta struct {
	Name      string   `toml:"name"`
	StartRule string   `toml:"start_rule"`
	NodeTypes []string `toml:"node_types"`
}

// LoadGrammarMeta reads a ".grammar.toml" file describing a grammar
// instance (e.g. minimark's), the way eval/fileops.go's tomlNative reads a
// document and decodes it into a Go value.
func LoadGrammarMeta(path string) (*GrammarMeta, error) {
	var meta GrammarMeta
	if _, err := toml.DecodeFile(path, &meta); err != nil {
		return nil, fmt.Errorf("config: decode grammar metadata %s: %w", path, err)
	}
	if meta.StartRule == "" {
		return nil, fmt.Errorf("config: grammar metadata %s has no start_rule", path)
	}
	return &meta, nil
}

// projectionFile is the on-disk shape of a ".projection.yaml" file: a flat
// mapping from node type name to a substitution template.
type projectionFile map[string]string

// LoadProjection reads a ".projection.yaml" file and builds the
// projection.SubstitutionMap it describes — the concrete realization of
// spec §6's "Replacement function" external collaborator, registered by
// NodeType instead of constructed in Go.
//
// Each value is either a literal replacement string, used verbatim
// (mirroring minimark's SoftTab -> "\t"), or a template containing the
// placeholder "{length}", which is substituted with the decimal length of
// the node's matched text at substitution time (mirroring minimark's
// HeaderDelimiter -> "H" + len(text), expressed here as the template
// "H{length}").
func LoadProjection(path string) (projection.SubstitutionMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read projection map %s: %w", path, err)
	}
	var raw projectionFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: decode projection map %s: %w", path, err)
	}

	subs := make(projection.SubstitutionMap, len(raw))
	for name, template := range raw {
		subs[tree.NodeType(name)] = substitutionFor(template)
	}
	return subs, nil
}

const lengthPlaceholder = "{length}"

func substitutionFor(template string) projection.Substitution {
	if !strings.Contains(template, lengthPlaceholder) {
		return projection.Literal(template)
	}
	return func(n *tree.Node, _ int) string {
		return strings.ReplaceAll(template, lengthPlaceholder, strconv.Itoa(len(n.Text())))
	}
}
