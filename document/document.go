// Package document parses comment-tolerant configuration resources and
// provides typed, validated access to their fields.
//
// Resources are JSON objects as written by vehicle data files. Line (//) and
// block (/* */) comments and trailing commas are accepted. Every accessor takes a field path, one segment per nested
// object key, and fails with a *SchemaError naming the full dotted path.
package document

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// Discriminator field names.
const (
	FieldKind     = "kind"
	FieldTemplate = "template"
	FieldName     = "name"
)

// fieldAliases lists alternate spellings accepted for a key. Vehicle data
// files in the wild capitalise the discriminator block.
var fieldAliases = map[string][]string{
	FieldKind:     {"Type"},
	FieldTemplate: {"Template"},
	FieldName:     {"Name"},
}

// Document is a parsed configuration resource, or an object nested inside one.
type Document struct {
	resource string
	node     *yaml.Node
	prefix   []string
}

// Load reads and parses the resource at path. The file handle is released
// before Load returns on every path.
func Load(path string) (*Document, error) {
	raw, err := readFile(path)
	if err != nil {
		return nil, &IOError{Resource: path, Err: err}
	}
	d, err := parse(path, raw)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// Parse parses raw document text.
func Parse(raw []byte) (*Document, error) {
	return parse("", raw)
}

func parse(resource string, raw []byte) (*Document, error) {
	std, err := standardize(raw)
	if err != nil {
		return nil, &ParseError{Resource: resource, Err: err}
	}
	var root yaml.Node
	if err := yaml.Unmarshal(std, &root); err != nil {
		return nil, &ParseError{Resource: resource, Err: err}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, &ParseError{Resource: resource, Err: errors.New("empty document")}
	}
	top := resolve(root.Content[0])
	if top.Kind != yaml.MappingNode {
		return nil, &SchemaError{
			Resource: resource,
			Line:     top.Line,
			Msg:      fmt.Sprintf("expected object, got %s", describe(top)),
		}
	}
	return &Document{resource: resource, node: top}, nil
}

// Resource returns the name the document was loaded from, or "" if it was
// parsed from memory.
func (d *Document) Resource() string { return d.resource }

// Path returns the dotted path of this object within its resource.
func (d *Document) Path() string { return strings.Join(d.prefix, ".") }

// Has reports whether the field at path exists.
func (d *Document) Has(path ...string) bool {
	n, _ := d.lookup(path)
	return n != nil
}

// Keys returns the keys of this object in source order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.node.Content)/2)
	for i := 0; i+1 < len(d.node.Content); i += 2 {
		keys = append(keys, d.node.Content[i].Value)
	}
	return keys
}

// FieldError builds a *SchemaError for the field at path, carrying its line
// when the field exists.
func (d *Document) FieldError(msg string, path ...string) *SchemaError {
	e := &SchemaError{Resource: d.resource, Path: d.join(path), Msg: msg}
	if n, _ := d.lookup(path); n != nil {
		e.Line = n.Line
	}
	return e
}

// RequireString returns the string field at path.
func (d *Document) RequireString(path ...string) (string, error) {
	n, err := d.require(path)
	if err != nil {
		return "", err
	}
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" {
		return "", d.typeError(path, n, "string")
	}
	return n.Value, nil
}

// RequireNumber returns the finite numeric field at path.
func (d *Document) RequireNumber(path ...string) (float64, error) {
	n, err := d.require(path)
	if err != nil {
		return 0, err
	}
	return d.number(path, n)
}

// RequireVector3 returns the field at path, which must be an array of exactly
// three numbers.
func (d *Document) RequireVector3(path ...string) (r3.Vec, error) {
	n, err := d.require(path)
	if err != nil {
		return r3.Vec{}, err
	}
	vals, err := d.numbers(path, n, 3)
	if err != nil {
		return r3.Vec{}, err
	}
	return r3.Vec{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

// RequireObject returns the object at path as a nested Document. Errors from
// the nested document report paths relative to the resource root.
func (d *Document) RequireObject(path ...string) (*Document, error) {
	n, err := d.require(path)
	if err != nil {
		return nil, err
	}
	if n.Kind != yaml.MappingNode {
		return nil, d.typeError(path, n, "object")
	}
	prefix := make([]string, 0, len(d.prefix)+len(path))
	prefix = append(prefix, d.prefix...)
	prefix = append(prefix, path...)
	return &Document{resource: d.resource, node: n, prefix: prefix}, nil
}

// RequireRows returns the field at path as a non-empty array of rows, each an
// array of exactly cols numbers.
func (d *Document) RequireRows(cols int, path ...string) ([][]float64, error) {
	n, err := d.require(path)
	if err != nil {
		return nil, err
	}
	if n.Kind != yaml.SequenceNode {
		return nil, d.typeError(path, n, "array")
	}
	if len(n.Content) == 0 {
		return nil, d.FieldError("expected at least one row", path...)
	}
	rows := make([][]float64, len(n.Content))
	for i, item := range n.Content {
		rowPath := append(append([]string(nil), path...), fmt.Sprintf("%d", i))
		row, err := d.numbers(rowPath, resolve(item), cols)
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}
	return rows, nil
}

// CheckKind confirms the discriminator block: "kind" must equal kind and
// "template" must name a variant. It returns the template.
func (d *Document) CheckKind(kind string) (string, error) {
	got, err := d.RequireString(FieldKind)
	if err != nil {
		return "", err
	}
	if got != kind {
		return "", d.FieldError(fmt.Sprintf("expected %q, got %q", kind, got), FieldKind)
	}
	template, err := d.RequireString(FieldTemplate)
	if err != nil {
		return "", err
	}
	if template == "" {
		return "", d.FieldError("must not be empty", FieldTemplate)
	}
	return template, nil
}

func (d *Document) require(path []string) (*yaml.Node, error) {
	n, missing := d.lookup(path)
	if n == nil {
		return nil, &SchemaError{
			Resource: d.resource,
			Path:     d.join(path[:missing+1]),
			Msg:      "required field is missing",
		}
	}
	return n, nil
}

// lookup walks path from this object. On failure it returns nil and the index
// of the first segment that could not be found.
func (d *Document) lookup(path []string) (*yaml.Node, int) {
	cur := d.node
	for i, key := range path {
		if cur.Kind != yaml.MappingNode {
			return nil, i
		}
		next := child(cur, key)
		if next == nil {
			for _, alias := range fieldAliases[key] {
				if next = child(cur, alias); next != nil {
					break
				}
			}
		}
		if next == nil {
			return nil, i
		}
		cur = next
	}
	return cur, -1
}

// child returns the value for key. A repeated key resolves to its last
// occurrence, as in encoding/json.
func child(m *yaml.Node, key string) *yaml.Node {
	for i := len(m.Content) - 2; i >= 0; i -= 2 {
		if m.Content[i].Value == key {
			return resolve(m.Content[i+1])
		}
	}
	return nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func (d *Document) number(path []string, n *yaml.Node) (float64, error) {
	if n.Kind != yaml.ScalarNode {
		return 0, d.typeError(path, n, "number")
	}
	switch n.ShortTag() {
	case "!!int", "!!float":
	default:
		return 0, d.typeError(path, n, "number")
	}
	var v float64
	if err := n.Decode(&v); err != nil {
		return 0, &SchemaError{Resource: d.resource, Path: d.join(path), Line: n.Line, Msg: err.Error()}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &SchemaError{Resource: d.resource, Path: d.join(path), Line: n.Line, Msg: "number must be finite"}
	}
	return v, nil
}

func (d *Document) numbers(path []string, n *yaml.Node, count int) ([]float64, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, d.typeError(path, n, fmt.Sprintf("array of %d numbers", count))
	}
	if len(n.Content) != count {
		return nil, &SchemaError{
			Resource: d.resource,
			Path:     d.join(path),
			Line:     n.Line,
			Msg:      fmt.Sprintf("expected %d components, got %d", count, len(n.Content)),
		}
	}
	vals := make([]float64, count)
	for i, item := range n.Content {
		itemPath := append(append([]string(nil), path...), fmt.Sprintf("%d", i))
		v, err := d.number(itemPath, resolve(item))
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func (d *Document) typeError(path []string, n *yaml.Node, want string) *SchemaError {
	return &SchemaError{
		Resource: d.resource,
		Path:     d.join(path),
		Line:     n.Line,
		Msg:      fmt.Sprintf("expected %s, got %s", want, describe(n)),
	}
}

func (d *Document) join(path []string) string {
	if len(d.prefix) == 0 {
		return strings.Join(path, ".")
	}
	full := make([]string, 0, len(d.prefix)+len(path))
	full = append(full, d.prefix...)
	full = append(full, path...)
	return strings.Join(full, ".")
}

func describe(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "object"
	case yaml.SequenceNode:
		return "array"
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!str":
			return "string"
		case "!!int", "!!float":
			return "number"
		case "!!bool":
			return "bool"
		case "!!null":
			return "null"
		}
		return n.ShortTag()
	}
	return "unknown"
}
