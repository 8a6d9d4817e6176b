package detectors

import (
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/sopsguard/sopsguard/internal/extract"
)

// ConstructKind tags the variants of secret-bearing constructs the walker
// can locate.
type ConstructKind int

const (
	// KubernetesSecret is a mapping with kind: Secret.
	KubernetesSecret ConstructKind = iota
	// GeneratorLiteral is a literals entry of a kustomize secretGenerator.
	GeneratorLiteral
	// GeneratorFile is a files entry of a kustomize secretGenerator.
	GeneratorFile
)

// Construct is a located secret-bearing node. Line is the absolute 1-based
// line in the originating file. A Construct references but never owns the
// Document it was found in.
type Construct struct {
	Kind ConstructKind
	Line int

	// KubernetesSecret only.
	Sops        *yaml.Node // SOPS metadata mapping, nil when absent
	DataPresent bool       // data/stringData carries at least one non-empty value

	// GeneratorLiteral / GeneratorFile only: the literal entry ("key=value")
	// or the referenced filename.
	Value string
}

// maxEmbedDepth bounds re-extraction of YAML embedded in string scalars
// (kustomize patch bodies). Patches nesting patches deeper than this are
// not a realistic input.
const maxEmbedDepth = 2

// Collect walks a Document depth-first and returns every secret-bearing
// construct in traversal order, so reported violations follow the order
// they occur in the file. String scalars that look like embedded YAML
// (inline patches) are re-extracted and walked with their line numbers
// rebased onto the outer file.
func Collect(doc extract.Document) []Construct {
	return collect(doc, 0)
}

func collect(doc extract.Document, depth int) []Construct {
	var out []Construct
	var walk func(n *yaml.Node)
	walk = func(n *yaml.Node) {
		switch n.Kind {
		case yaml.DocumentNode, yaml.SequenceNode:
			for _, c := range n.Content {
				walk(c)
			}
		case yaml.MappingNode:
			if isKsopsGenerator(n) {
				// ksops generators reference files that are themselves
				// SOPS-encrypted; those files are validated when scanned.
				return
			}
			if k, _ := mappingEntry(n, "kind"); k != nil && mappingString(n, "kind") == "Secret" {
				out = append(out, secretConstruct(doc, n, k))
			}
			for i := 0; i+1 < len(n.Content); i += 2 {
				k, v := n.Content[i], n.Content[i+1]
				if k.Value == "secretGenerator" {
					out = append(out, generatorConstructs(doc, v)...)
				}
				walk(v)
			}
		case yaml.ScalarNode:
			if depth < maxEmbedDepth && looksEmbedded(n.Value) {
				for _, sub := range extract.Extract([]byte(n.Value)) {
					sub.Offset += embedOffset(doc, n)
					out = append(out, collect(sub, depth+1)...)
				}
			}
		}
	}
	walk(doc.Root)
	return out
}

func secretConstruct(doc extract.Document, m, kindKey *yaml.Node) Construct {
	c := Construct{Kind: KubernetesSecret, Line: doc.Line(kindKey)}
	// SOPS writes its metadata mapping at the document top level; some
	// pipelines nest it under metadata. Accept either location.
	if md := mappingValue(m, "metadata"); md != nil && md.Kind == yaml.MappingNode {
		if s := mappingValue(md, "sops"); s != nil && s.Kind == yaml.MappingNode {
			c.Sops = s
		}
	}
	if c.Sops == nil {
		if s := mappingValue(m, "sops"); s != nil && s.Kind == yaml.MappingNode {
			c.Sops = s
		}
	}
	c.DataPresent = hasNonEmpty(mappingValue(m, "data")) || hasNonEmpty(mappingValue(m, "stringData"))
	return c
}

// generatorConstructs handles both generator shapes: the canonical sequence
// of generator entries and a bare mapping carrying literals/files directly.
func generatorConstructs(doc extract.Document, n *yaml.Node) []Construct {
	switch n.Kind {
	case yaml.SequenceNode:
		var out []Construct
		for _, el := range n.Content {
			if el.Kind == yaml.MappingNode {
				out = append(out, generatorEntry(doc, el)...)
			}
		}
		return out
	case yaml.MappingNode:
		return generatorEntry(doc, n)
	}
	return nil
}

func generatorEntry(doc extract.Document, el *yaml.Node) []Construct {
	var out []Construct
	if lits := mappingValue(el, "literals"); lits != nil && lits.Kind == yaml.SequenceNode {
		for _, item := range lits.Content {
			out = append(out, Construct{Kind: GeneratorLiteral, Line: doc.Line(item), Value: item.Value})
		}
	}
	if files := mappingValue(el, "files"); files != nil && files.Kind == yaml.SequenceNode {
		for _, item := range files.Content {
			out = append(out, Construct{Kind: GeneratorFile, Line: doc.Line(item), Value: item.Value})
		}
	}
	return out
}

func isKsopsGenerator(n *yaml.Node) bool {
	return mappingString(n, "kind") == "ksops" &&
		strings.HasPrefix(mappingString(n, "apiVersion"), "viaduct.ai/")
}

// looksEmbedded is a cheap gate before handing a string scalar back to the
// extractor: it must span lines and mention a secret-bearing construct.
func looksEmbedded(s string) bool {
	return strings.Contains(s, "\n") &&
		(strings.Contains(s, "secretGenerator") || strings.Contains(s, "kind: Secret"))
}

// embedOffset maps line 1 of an embedded scalar onto its absolute file
// line. Block scalars (|, >) begin their content on the line after the
// indicator; for other styles the mapping is best effort.
func embedOffset(doc extract.Document, n *yaml.Node) int {
	if n.Style == yaml.LiteralStyle || n.Style == yaml.FoldedStyle {
		return doc.Line(n)
	}
	return doc.Line(n) - 1
}

// mappingEntry returns the key and value nodes for key within mapping n.
func mappingEntry(n *yaml.Node, key string) (*yaml.Node, *yaml.Node) {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i], n.Content[i+1]
		}
	}
	return nil, nil
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	_, v := mappingEntry(n, key)
	return v
}

func mappingString(n *yaml.Node, key string) string {
	if v := mappingValue(n, key); v != nil && v.Kind == yaml.ScalarNode {
		return v.Value
	}
	return ""
}

// hasNonEmpty reports whether a data/stringData value holds anything worth
// protecting: a non-empty scalar, or a mapping/sequence with at least one
// non-empty member.
func hasNonEmpty(n *yaml.Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case yaml.ScalarNode:
		return strings.TrimSpace(n.Value) != "" && n.Tag != "!!null"
	case yaml.MappingNode:
		for i := 1; i < len(n.Content); i += 2 {
			if hasNonEmpty(n.Content[i]) {
				return true
			}
		}
	case yaml.SequenceNode:
		for _, c := range n.Content {
			if hasNonEmpty(c) {
				return true
			}
		}
	}
	return false
}
