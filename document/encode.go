package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/erraggy/oasref/internal/pathutil"
	"github.com/erraggy/oasref/oaserrors"
	"go.yaml.in/yaml/v4"
)

// Format is a serialization format for documents.
type Format string

const (
	// FormatJSON serializes documents as JSON
	FormatJSON Format = "json"
	// FormatYAML serializes documents as YAML
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name. An empty name selects YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", &oaserrors.ConfigError{
			Option:  "outputFormat",
			Value:   name,
			Message: `must be "json" or "yaml"`,
		}
	}
}

// FormatForPath guesses the format from a file extension, defaulting to YAML.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Encode serializes v in the given format. JSON output is indented with two spaces.
func Encode(v any, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return EncodeJSON(v, "  ")
	case FormatYAML, "":
		return EncodeYAML(v)
	default:
		return nil, fmt.Errorf("document: unsupported format %q", format)
	}
}

// EncodeJSON serializes v as JSON, keeping object key order. A non-empty
// indent produces indented output.
func EncodeJSON(v any, indent string) ([]byte, error) {
	e := newEncoder()
	defer pathutil.Put(e.path)

	var buf bytes.Buffer
	if err := e.writeJSON(&buf, v); err != nil {
		return nil, err
	}
	if indent == "" {
		return buf.Bytes(), nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// EncodeYAML serializes v as YAML, keeping object key order.
func EncodeYAML(v any) ([]byte, error) {
	e := newEncoder()
	defer pathutil.Put(e.path)

	node, err := e.toNode(v)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}

// encoder tracks the containers on the current encoding stack so that a
// cycle is written as a $ref to the container's first location.
type encoder struct {
	path    *pathutil.PathBuilder
	objects map[*Object]string
	arrays  map[sliceID]string
	scratch bytes.Buffer
	enc     *json.Encoder
}

func newEncoder() *encoder {
	e := &encoder{
		path:    pathutil.Get(),
		objects: make(map[*Object]string),
		arrays:  make(map[sliceID]string),
	}
	e.enc = json.NewEncoder(&e.scratch)
	e.enc.SetEscapeHTML(false)
	return e
}

func (e *encoder) writeJSON(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case *Object:
		if val == nil {
			buf.WriteString("null")
			return nil
		}
		if at, ok := e.objects[val]; ok {
			return e.writeRefJSON(buf, at)
		}
		e.objects[val] = e.path.String()
		defer delete(e.objects, val)

		buf.WriteByte('{')
		first := true
		for k, child := range val.All() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err := e.writeScalarJSON(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			e.path.Push(k)
			err := e.writeJSON(buf, child)
			e.path.Pop()
			if err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	case []any:
		if len(val) > 0 {
			id := idOf(val)
			if at, ok := e.arrays[id]; ok {
				return e.writeRefJSON(buf, at)
			}
			e.arrays[id] = e.path.String()
			defer delete(e.arrays, id)
		}
		buf.WriteByte('[')
		for i, child := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			e.path.PushIndex(i)
			err := e.writeJSON(buf, child)
			e.path.Pop()
			if err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	default:
		return e.writeScalarJSON(buf, v)
	}
}

func (e *encoder) writeRefJSON(buf *bytes.Buffer, pointer string) error {
	buf.WriteString(`{"$ref":`)
	if err := e.writeScalarJSON(buf, pointer); err != nil {
		return err
	}
	buf.WriteByte('}')
	return nil
}

func (e *encoder) writeScalarJSON(buf *bytes.Buffer, v any) error {
	e.scratch.Reset()
	if err := e.enc.Encode(v); err != nil {
		return fmt.Errorf("document: cannot encode %T at %s: %w", v, e.path.String(), err)
	}
	buf.Write(bytes.TrimRight(e.scratch.Bytes(), "\n"))
	return nil
}

func (e *encoder) toNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case *Object:
		if val == nil {
			return scalarNode("!!null", "null"), nil
		}
		if at, ok := e.objects[val]; ok {
			return refNode(at), nil
		}
		e.objects[val] = e.path.String()
		defer delete(e.objects, val)

		node := &yaml.Node{Kind: yaml.MappingNode, Content: make([]*yaml.Node, 0, 2*val.Len())}
		for k, child := range val.All() {
			e.path.Push(k)
			childNode, err := e.toNode(child)
			e.path.Pop()
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, scalarNode("!!str", k), childNode)
		}
		return node, nil

	case []any:
		if len(val) > 0 {
			id := idOf(val)
			if at, ok := e.arrays[id]; ok {
				return refNode(at), nil
			}
			e.arrays[id] = e.path.String()
			defer delete(e.arrays, id)
		}
		node := &yaml.Node{Kind: yaml.SequenceNode, Content: make([]*yaml.Node, 0, len(val))}
		for i, child := range val {
			e.path.PushIndex(i)
			childNode, err := e.toNode(child)
			e.path.Pop()
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, childNode)
		}
		return node, nil

	case nil:
		return scalarNode("!!null", "null"), nil
	case bool:
		return scalarNode("!!bool", strconv.FormatBool(val)), nil
	case string:
		return scalarNode("!!str", val), nil
	case int:
		return scalarNode("!!int", strconv.Itoa(val)), nil
	case int64:
		return scalarNode("!!int", strconv.FormatInt(val, 10)), nil
	case uint64:
		return scalarNode("!!int", strconv.FormatUint(val, 10)), nil
	case float64:
		return floatNode(val), nil
	default:
		return nil, fmt.Errorf("document: cannot encode %T at %s", v, e.path.String())
	}
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func refNode(pointer string) *yaml.Node {
	return &yaml.Node{
		Kind:    yaml.MappingNode,
		Content: []*yaml.Node{scalarNode("!!str", KeyRef), scalarNode("!!str", pointer)},
	}
}

func floatNode(f float64) *yaml.Node {
	switch {
	case math.IsInf(f, 1):
		return scalarNode("!!float", ".inf")
	case math.IsInf(f, -1):
		return scalarNode("!!float", "-.inf")
	case math.IsNaN(f):
		return scalarNode("!!float", ".nan")
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return scalarNode("!!float", s)
}
