// Package card provides null-safe read access to a model-card JSON document.
//
// Every lookup returns a Value; a missing key, a JSON null, an index out of
// range or a leaf of the wrong type all resolve to an Absent Value instead of
// an error. The only failure the package reports is input that is not a JSON
// object at all (ErrMalformedInput).
package card

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/valyala/fastjson"
)

// ErrMalformedInput is returned when a document is not a well-formed JSON
// object.
var ErrMalformedInput = errors.New("malformed model card")

// Document is a parsed model card. It is read-only after Parse.
type Document struct {
	Node
}

// Parse parses data as a model-card document.
func Parse(data []byte) (*Document, error) {
	var p fastjson.Parser
	root, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if root.Type() != fastjson.TypeObject {
		return nil, fmt.Errorf("%w: top-level value is %s, want object", ErrMalformedInput, root.Type())
	}
	return &Document{Node{v: root}}, nil
}

// ParseFile reads and parses the document at path. Read failures are returned
// as-is (wrapped) so callers can tell them apart from ErrMalformedInput.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model card: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Node is a position inside a document. The zero Node is valid and behaves
// like an empty object: every lookup on it is Absent.
type Node struct {
	v *fastjson.Value
}

// Member is one key of an object node, in document order.
type Member struct {
	Key  string
	Node Node
}

// SplitPath turns a dotted/indexed path such as "feature_inventory[0].name"
// into structured keys. Array indexes become decimal keys.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	var keys []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			keys = append(keys, cur.String())
			cur.Reset()
		}
	}
	for _, r := range path {
		switch r {
		case '.', '[', ']':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return keys
}

func (n Node) lookup(keys []string) *fastjson.Value {
	if n.v == nil {
		return nil
	}
	if len(keys) == 0 {
		return n.v
	}
	return n.v.Get(keys...)
}

// Get resolves a dotted/indexed path.
func (n Node) Get(path string) Value {
	return lift(n.lookup(SplitPath(path)))
}

// Lookup resolves structured keys. Use it when a key itself contains dots.
func (n Node) Lookup(keys ...string) Value {
	return lift(n.lookup(keys))
}

// Number returns the value at path when it is a number, Absent otherwise.
func (n Node) Number(path string) Value { return n.typed(path, Number) }

// Text returns the value at path when it is a string, Absent otherwise.
func (n Node) Text(path string) Value { return n.typed(path, Text) }

// Bool returns the value at path when it is a boolean, Absent otherwise.
func (n Node) Bool(path string) Value { return n.typed(path, Boolean) }

// List returns the value at path when it is an array, Absent otherwise.
func (n Node) List(path string) Value { return n.typed(path, List) }

func (n Node) typed(path string, k Kind) Value {
	v := n.Get(path)
	if v.Kind() != k {
		return Value{}
	}
	return v
}

// Child returns the node at path. A missing path yields the zero Node.
func (n Node) Child(path string) Node {
	return Node{v: n.lookup(SplitPath(path))}
}

// Value lifts the node itself.
func (n Node) Value() Value { return lift(n.v) }

// IsObject reports whether the node is a JSON object.
func (n Node) IsObject() bool {
	return n.v != nil && n.v.Type() == fastjson.TypeObject
}

// Present reports whether the node holds data: a non-empty object or a
// non-empty array.
func (n Node) Present() bool {
	if n.v == nil {
		return false
	}
	switch n.v.Type() {
	case fastjson.TypeObject:
		o, _ := n.v.Object()
		return o.Len() > 0
	case fastjson.TypeArray:
		a, _ := n.v.Array()
		return len(a) > 0
	}
	return false
}

// Members returns the keys of the object at path in document order. Anything
// other than an object yields nil.
func (n Node) Members(path string) []Member {
	fv := n.lookup(SplitPath(path))
	if fv == nil || fv.Type() != fastjson.TypeObject {
		return nil
	}
	o, _ := fv.Object()
	members := make([]Member, 0, o.Len())
	o.Visit(func(key []byte, v *fastjson.Value) {
		members = append(members, Member{Key: string(key), Node: Node{v: v}})
	})
	return members
}

// Elements returns the items of the array at path as nodes.
func (n Node) Elements(path string) []Node {
	fv := n.lookup(SplitPath(path))
	if fv == nil || fv.Type() != fastjson.TypeArray {
		return nil
	}
	arr, _ := fv.Array()
	nodes := make([]Node, len(arr))
	for i, el := range arr {
		nodes[i] = Node{v: el}
	}
	return nodes
}

// Len returns the length of the array at path, 0 for anything else.
func (n Node) Len(path string) int {
	return len(n.Elements(path))
}
