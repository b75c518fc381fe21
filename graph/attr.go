// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"fmt"
	"strconv"
	"strings"

	"cogentcore.org/core/base/keylist"
	"cogentcore.org/core/math32"
)

// Kinds are the value kinds of attributes.
type Kinds int32

const (
	// Float is a float32 scalar.
	Float Kinds = iota

	// Bool is a boolean.
	Bool

	// String is a string.
	String

	// Enum is an integer enumeration value.
	Enum

	// Matrix is a [math32.Matrix4].
	Matrix

	// Compound is an attribute with named child attributes.
	Compound

	// Array is an attribute with index-contiguous element attributes,
	// all of the same element kind.
	Array
)

// Attr is one attribute on a node. Do not construct directly; use
// [Graph.AddAttr] and [Graph.AddArrayElem].
type Attr struct {
	// Name is the attribute name, unique among its siblings.
	// Array elements have their index expression ("[2]") as their name.
	Name string

	// Kind is the value kind of this attribute.
	Kind Kinds

	// Elem is the element kind, for [Array] attributes.
	Elem Kinds

	// Value is the literal value, or nil if unset. An attribute holds
	// either a literal or a connection, never both: connecting the
	// attribute clears the literal.
	Value any

	// Locked marks the attribute as rejecting writes and new connections.
	Locked bool

	// Keyable marks the attribute as animatable by the host.
	Keyable bool

	// Children are the child attributes, for [Compound] attributes.
	Children keylist.List[string, *Attr]

	// Elems are the element attributes, for [Array] attributes.
	Elems []*Attr
}

// addAttr adds a plain top-level attribute, for built-in node kinds.
func (n *Node) addAttr(name string, kind Kinds) *Attr {
	a := &Attr{Name: name, Kind: kind}
	n.Attrs.Set(name, a)
	return a
}

// Path addresses one attribute in the graph: a node plus an attribute
// path on it, such as "xforms[2].worldMatrix".
type Path struct {
	// Node is the node the attribute lives on.
	Node NodeID

	// Attr is the dotted, indexed attribute path on the node.
	Attr string
}

// At returns the [Path] for the given node and attribute path.
func At(n NodeID, attr string) Path {
	return Path{Node: n, Attr: attr}
}

// IsZero reports whether this is the zero Path.
func (p Path) IsZero() bool {
	return p.Node == 0 && p.Attr == ""
}

func (p Path) String() string {
	return fmt.Sprintf("%d.%s", p.Node, p.Attr)
}

// Child returns the path for the given child of this compound path.
func (p Path) Child(name string) Path {
	return Path{Node: p.Node, Attr: p.Attr + "." + name}
}

// Index returns the path for the given element of this array path.
func (p Path) Index(i int) Path {
	return Path{Node: p.Node, Attr: p.Attr + "[" + strconv.Itoa(i) + "]"}
}

// pathSeg is one parsed segment of an attribute path.
type pathSeg struct {
	name  string
	index int // -1 if no index expression
}

// parsePath splits an attribute path into segments.
func parsePath(attr string) ([]pathSeg, error) {
	if attr == "" {
		return nil, fmt.Errorf("graph: empty attribute path")
	}
	var segs []pathSeg
	for _, part := range strings.Split(attr, ".") {
		name := part
		idx := -1
		if bi := strings.IndexByte(part, '['); bi >= 0 {
			if !strings.HasSuffix(part, "]") {
				return nil, fmt.Errorf("graph: malformed index in attribute path %q", attr)
			}
			var err error
			idx, err = strconv.Atoi(part[bi+1 : len(part)-1])
			if err != nil || idx < 0 {
				return nil, fmt.Errorf("graph: malformed index in attribute path %q", attr)
			}
			name = part[:bi]
		}
		if name == "" {
			return nil, fmt.Errorf("graph: empty segment in attribute path %q", attr)
		}
		segs = append(segs, pathSeg{name: name, index: idx})
	}
	return segs, nil
}

// Attr resolves the given path to its attribute. Published group aliases
// resolve to the published member attribute.
func (g *Graph) Attr(p Path) (*Attr, error) {
	p = g.canonical(p)
	n := g.Node(p.Node)
	if n == nil {
		return nil, fmt.Errorf("graph.Attr: no node %d for path %v", p.Node, p)
	}
	segs, err := parsePath(p.Attr)
	if err != nil {
		return nil, err
	}
	var cur *Attr
	for si, seg := range segs {
		var next *Attr
		if si == 0 {
			next = n.Attrs.At(seg.name)
		} else if cur.Kind == Compound {
			next = cur.Children.At(seg.name)
		}
		if next == nil {
			return nil, fmt.Errorf("graph.Attr: no attribute %q on node %q (path %q)", seg.name, n.Name, p.Attr)
		}
		if seg.index >= 0 {
			if next.Kind != Array {
				return nil, fmt.Errorf("graph.Attr: attribute %q on node %q is not an array", seg.name, n.Name)
			}
			if seg.index >= len(next.Elems) {
				return nil, fmt.Errorf("graph.Attr: index %d out of range of %q on node %q", seg.index, seg.name, n.Name)
			}
			next = next.Elems[seg.index]
		}
		cur = next
	}
	return cur, nil
}

// HasAttr reports whether the given path resolves to an attribute.
func (g *Graph) HasAttr(p Path) bool {
	a, err := g.Attr(p)
	return err == nil && a != nil
}

// AddAttr creates a new attribute of the given kind on the given node.
// The parent path selects a compound (or compound array element) to add
// the child to; an empty parent adds a top-level attribute. The parent
// must already exist: compound and array parents are created before
// their children.
func (g *Graph) AddAttr(id NodeID, parent, name string, kind Kinds) (*Attr, error) {
	n := g.Node(id)
	if n == nil {
		return nil, fmt.Errorf("graph.AddAttr: no node %d", id)
	}
	if name == "" || strings.ContainsAny(name, ".[]") {
		return nil, fmt.Errorf("graph.AddAttr: invalid attribute name %q", name)
	}
	a := &Attr{Name: name, Kind: kind}
	if parent == "" {
		if n.Attrs.At(name) != nil {
			return nil, fmt.Errorf("graph.AddAttr: attribute %q already exists on node %q", name, n.Name)
		}
		n.Attrs.Set(name, a)
		return a, nil
	}
	pa, err := g.Attr(At(id, parent))
	if err != nil {
		return nil, fmt.Errorf("graph.AddAttr: parent %q of %q: %w", parent, name, err)
	}
	if pa.Kind != Compound {
		return nil, fmt.Errorf("graph.AddAttr: parent %q of %q on node %q is not a compound", parent, name, n.Name)
	}
	if pa.Children.At(name) != nil {
		return nil, fmt.Errorf("graph.AddAttr: attribute %q already exists under %q on node %q", name, parent, n.Name)
	}
	pa.Children.Set(name, a)
	return a, nil
}

// SetElemKind sets the element kind of the given array attribute.
// It can only be called before any elements have been added.
func (g *Graph) SetElemKind(p Path, elem Kinds) error {
	a, err := g.Attr(p)
	if err != nil {
		return err
	}
	if a.Kind != Array {
		return fmt.Errorf("graph.SetElemKind: %v is not an array", p)
	}
	if len(a.Elems) > 0 {
		return fmt.Errorf("graph.SetElemKind: %v already has elements", p)
	}
	a.Elem = elem
	return nil
}

// AddArrayElem appends a new element to the given array attribute,
// returning the element and its index. Elements are index-contiguous:
// they can only be appended, never inserted or removed.
func (g *Graph) AddArrayElem(p Path) (*Attr, int, error) {
	a, err := g.Attr(p)
	if err != nil {
		return nil, 0, err
	}
	if a.Kind != Array {
		return nil, 0, fmt.Errorf("graph.AddArrayElem: %v is not an array", p)
	}
	i := len(a.Elems)
	e := &Attr{Name: "[" + strconv.Itoa(i) + "]", Kind: a.Elem}
	a.Elems = append(a.Elems, e)
	return e, i, nil
}

// ArrayLen returns the number of elements of the given array attribute,
// and 0 for a path that does not resolve to an array.
func (g *Graph) ArrayLen(p Path) int {
	a, err := g.Attr(p)
	if err != nil || a.Kind != Array {
		return 0
	}
	return len(a.Elems)
}

// SetValue sets the literal value of the given attribute. It is an error
// if the attribute is locked or has an incoming connection: an attribute
// holds a literal or a connection, never both.
func (g *Graph) SetValue(p Path, v any) error {
	p = g.canonical(p)
	a, err := g.Attr(p)
	if err != nil {
		return err
	}
	if a.Locked {
		return fmt.Errorf("graph.SetValue: attribute %v is locked", p)
	}
	if _, ok := g.source[p]; ok {
		return fmt.Errorf("graph.SetValue: attribute %v has an incoming connection", p)
	}
	if err := checkValueKind(a.Kind, v); err != nil {
		return fmt.Errorf("graph.SetValue: %v: %w", p, err)
	}
	a.Value = v
	return nil
}

// checkValueKind verifies that the value matches the attribute kind.
func checkValueKind(kind Kinds, v any) error {
	if v == nil {
		return nil
	}
	ok := false
	switch kind {
	case Float:
		_, ok = v.(float32)
	case Bool:
		_, ok = v.(bool)
	case String:
		_, ok = v.(string)
	case Enum:
		_, ok = v.(int)
	case Matrix:
		_, ok = v.(math32.Matrix4)
	case Compound, Array:
		return fmt.Errorf("compound and array attributes hold no direct value")
	}
	if !ok {
		return fmt.Errorf("value %T does not match attribute kind %d", v, kind)
	}
	return nil
}

// SetLocked sets the locked state of the given attribute. Locking itself
// is always allowed; writes and new connections to a locked attribute fail.
func (g *Graph) SetLocked(p Path, locked bool) error {
	a, err := g.Attr(p)
	if err != nil {
		return err
	}
	a.Locked = locked
	return nil
}

// SetKeyable sets the keyable flag of the given attribute.
func (g *Graph) SetKeyable(p Path, keyable bool) error {
	a, err := g.Attr(p)
	if err != nil {
		return err
	}
	a.Keyable = keyable
	return nil
}
