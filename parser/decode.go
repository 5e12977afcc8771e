package parser

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/erraggy/oasref/document"
	"github.com/erraggy/oasref/oaserrors"
	"go.yaml.in/yaml/v4"
)

// yamlErrorPosition extracts the position the YAML library reports in its
// error text ("yaml: line 3: ..." or "line 3, column 7: ...").
var yamlErrorPosition = regexp.MustCompile(`line (\d+)(?:, column (\d+))?`)

// decode turns YAML or JSON source into a document tree. JSON is decoded by
// the YAML parser; every JSON text is also a YAML 1.2 text.
func decode(data []byte, name string) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		perr := &oaserrors.ParseError{Path: name, Message: "invalid document", Cause: err}
		if m := yamlErrorPosition.FindStringSubmatch(err.Error()); m != nil {
			perr.Line, _ = strconv.Atoi(m[1])
			if m[2] != "" {
				perr.Column, _ = strconv.Atoi(m[2])
			}
		}
		return nil, perr
	}
	if root.Kind == 0 || (root.Kind == yaml.DocumentNode && len(root.Content) == 0) {
		return nil, &oaserrors.ParseError{Path: name, Message: "empty document"}
	}

	d := &decoder{name: name, anchors: make(map[*yaml.Node]any)}
	return d.node(&root)
}

// decoder converts yaml nodes into document values. Anchored containers are
// memoized by node so that every alias yields the same *document.Object or
// slice, which keeps shared subtrees shared in the result.
type decoder struct {
	name    string
	anchors map[*yaml.Node]any
}

func (d *decoder) errorAt(n *yaml.Node, format string, args ...any) error {
	return &oaserrors.ParseError{
		Path:    d.name,
		Line:    n.Line,
		Column:  n.Column,
		Message: fmt.Sprintf(format, args...),
	}
}

func (d *decoder) node(n *yaml.Node) (any, error) {
	if v, ok := d.anchors[n]; ok {
		return v, nil
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.node(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, d.errorAt(n, "unknown anchor %q", n.Value)
		}
		return d.node(n.Alias)
	case yaml.MappingNode:
		return d.mapping(n)
	case yaml.SequenceNode:
		return d.sequence(n)
	case yaml.ScalarNode:
		return d.scalar(n)
	default:
		return nil, d.errorAt(n, "unsupported node kind %v", n.Kind)
	}
}

func (d *decoder) mapping(n *yaml.Node) (any, error) {
	obj := document.NewObject(len(n.Content) / 2)
	if n.Anchor != "" {
		d.anchors[n] = obj
	}

	var merges []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valNode := n.Content[i], n.Content[i+1]
		if keyNode.Kind == yaml.AliasNode && keyNode.Alias != nil {
			keyNode = keyNode.Alias
		}
		if keyNode.Kind != yaml.ScalarNode {
			return nil, d.errorAt(keyNode, "mapping keys must be scalars")
		}
		if keyNode.ShortTag() == "!!merge" {
			merges = append(merges, valNode)
			continue
		}
		key := keyNode.Value
		if obj.Has(key) {
			return nil, d.errorAt(keyNode, "duplicate key %q", key)
		}
		v, err := d.node(valNode)
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}

	// Explicit keys win over merged ones; earlier merge sources win over later.
	for _, m := range merges {
		if err := d.merge(obj, m); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

func (d *decoder) merge(obj *document.Object, n *yaml.Node) error {
	if n.Kind == yaml.SequenceNode {
		for _, item := range n.Content {
			if err := d.merge(obj, item); err != nil {
				return err
			}
		}
		return nil
	}
	v, err := d.node(n)
	if err != nil {
		return err
	}
	src, ok := document.AsObject(v)
	if !ok {
		return d.errorAt(n, "merge value must be a mapping")
	}
	for k, child := range src.All() {
		if !obj.Has(k) {
			obj.Set(k, child)
		}
	}
	return nil
}

func (d *decoder) sequence(n *yaml.Node) (any, error) {
	out := make([]any, len(n.Content))
	if n.Anchor != "" {
		d.anchors[n] = out
	}
	for i, item := range n.Content {
		v, err := d.node(item)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// scalar resolves a scalar by its tag. Integers are int64, or uint64 when
// they do not fit; floats are float64. Timestamps and custom tags keep their
// source text.
func (d *decoder) scalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, d.errorAt(n, "invalid boolean %q", n.Value)
		}
		return b, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return i, nil
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return u, nil
		}
		var f float64
		if err := n.Decode(&f); err == nil {
			return f, nil
		}
		return nil, d.errorAt(n, "invalid integer %q", n.Value)
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, d.errorAt(n, "invalid number %q", n.Value)
		}
		return f, nil
	default:
		return n.Value, nil
	}
}
