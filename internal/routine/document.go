package routine

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Document is a parsed routine file: a generic YAML tree of mapping,
// sequence and scalar nodes. It is never modified after parsing.
type Document struct {
	root *yaml.Node // nil for an empty stream
}

// ParseDocument parses data as exactly one YAML document. Streams holding
// more than one document are rejected.
func ParseDocument(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Document{}, nil
		}
		return nil, err
	}

	var next yaml.Node
	switch err := dec.Decode(&next); {
	case errors.Is(err, io.EOF):
	case err != nil:
		return nil, err
	default:
		return nil, fmt.Errorf("expected a single document in the stream, found another at line %d", next.Line)
	}

	if err := checkExpansion(&doc); err != nil {
		return nil, err
	}

	d := &Document{root: &doc}
	if doc.Kind == yaml.DocumentNode {
		d.root = nil
		if len(doc.Content) > 0 {
			d.root = doc.Content[0]
		}
	}
	return d, nil
}

// Root returns the top-level node with aliases resolved, or nil when the
// document is empty.
func (d *Document) Root() *yaml.Node {
	if d == nil {
		return nil
	}
	return resolve(d.root)
}

// resolve follows alias nodes to their anchored target.
func resolve(n *yaml.Node) *yaml.Node {
	for i := 0; n != nil && n.Kind == yaml.AliasNode && i < maxDepth; i++ {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

// Aliases may expand a document to at most aliasExpansionRatio times the
// nodes written in it, plus aliasExpansionFloor.
const (
	aliasExpansionRatio = 10
	aliasExpansionFloor = 10000
)

var errExcessiveAliasing = errors.New("document contains excessive aliasing")

// checkExpansion rejects documents whose aliases expand to far more nodes
// than the file holds, such as nested anchors that each repeat the last.
func checkExpansion(root *yaml.Node) error {
	limit := countWritten(root)*aliasExpansionRatio + aliasExpansionFloor
	visited := 0
	var walk func(n *yaml.Node) bool
	walk = func(n *yaml.Node) bool {
		if n == nil {
			return true
		}
		visited++
		if visited > limit {
			return false
		}
		if n.Kind == yaml.AliasNode {
			return walk(n.Alias)
		}
		for _, c := range n.Content {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	if !walk(root) {
		return errExcessiveAliasing
	}
	return nil
}

func countWritten(n *yaml.Node) int {
	if n == nil || n.Kind == yaml.AliasNode {
		return 1
	}
	count := 1
	for _, c := range n.Content {
		count += countWritten(c)
	}
	return count
}

// entry is one effective key/value pair of a mapping.
type entry struct {
	key   string
	value *yaml.Node
}

// entries flattens a mapping node into its effective pairs in document
// order, expanding merge keys (<<) in place. Keys written directly in the
// mapping override merged ones. A repeated key keeps its first position
// with the last value.
func entries(m *yaml.Node) []entry {
	return collectEntries(m, 0)
}

func collectEntries(m *yaml.Node, depth int) []entry {
	explicit := map[string]bool{}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if !isMergeKey(m.Content[i]) {
			explicit[keyString(m.Content[i])] = true
		}
	}

	var out []entry
	pos := map[string]int{}
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		if isMergeKey(k) {
			// Among merged mappings the first to define a key wins.
			for _, e := range mergeSources(v, depth) {
				if _, dup := pos[e.key]; dup || explicit[e.key] {
					continue
				}
				pos[e.key] = len(out)
				out = append(out, e)
			}
			continue
		}
		key := keyString(k)
		if p, dup := pos[key]; dup {
			out[p].value = v
			continue
		}
		pos[key] = len(out)
		out = append(out, entry{key: key, value: v})
	}
	return out
}

// mergeSources returns the pairs contributed by a merge key's value: a
// mapping or a sequence of mappings. Anything else contributes nothing.
func mergeSources(v *yaml.Node, depth int) []entry {
	if depth >= maxDepth {
		return nil
	}
	v = resolve(v)
	if v == nil {
		return nil
	}
	switch v.Kind {
	case yaml.MappingNode:
		return collectEntries(v, depth+1)
	case yaml.SequenceNode:
		var out []entry
		for _, item := range v.Content {
			if item = resolve(item); item != nil && item.Kind == yaml.MappingNode {
				out = append(out, collectEntries(item, depth+1)...)
			}
		}
		return out
	}
	return nil
}

// isMergeKey reports whether k is a plain << key. A quoted "<<" is an
// ordinary string key.
func isMergeKey(k *yaml.Node) bool {
	k = resolve(k)
	return k != nil && k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge"
}

// keyString renders a mapping key as text. Non-scalar keys use their JSON
// encoding.
func keyString(k *yaml.Node) string {
	k = resolve(k)
	if k != nil && k.Kind == yaml.ScalarNode {
		return k.Value
	}
	var kb bytes.Buffer
	if err := appendNodeJSON(&kb, k, 1); err != nil {
		return ""
	}
	return kb.String()
}

// lookup returns the resolved value of key among a mapping's entries.
func lookup(es []entry, key string) (*yaml.Node, bool) {
	for _, e := range es {
		if e.key == key {
			return resolve(e.value), true
		}
	}
	return nil, false
}

func kindName(n *yaml.Node) string {
	if n == nil {
		return "null"
	}
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		if isNull(n) {
			return "null"
		}
		return "scalar"
	default:
		return "unknown"
	}
}
