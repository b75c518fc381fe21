// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rig

import (
	"cogentcore.org/core/base/keylist"
	"cogentcore.org/rig/graph"
)

// Attr is one declarative attribute descriptor in a [Schema]: an
// attribute to create on a component node, with an optional default
// value or source connection, publishing to the grouping node, and
// locked / keyable flags. Attr values are immutable once added to a
// schema; overriding replaces the whole descriptor.
type Attr struct {
	// Name is the attribute name, unique under its parent.
	Name string

	// Kind is the value kind of the attribute.
	Kind graph.Kinds

	// Elem is the element kind, for [graph.Array] attributes.
	Elem graph.Kinds

	// Default is the literal default value, or nil. Mutually exclusive
	// with Source. Defaults are set before locking.
	Default any

	// Source is an attribute to connect this one from, if non-zero.
	Source graph.Path

	// Publish exposes the attribute on the owning grouping node.
	Publish bool

	// Alias is the published alias; the attribute name if empty.
	Alias string

	// Locked marks the materialized attribute as rejecting writes.
	Locked bool

	// Keyable marks the materialized attribute as animatable.
	Keyable bool

	// Parent is the path of the compound parent this attribute is
	// created under; empty for a top-level attribute. The parent must
	// be declared before its children.
	Parent string

	// Options holds extra per-attribute options, such as how the
	// attribute is remapped when mirroring (see [MirrorOption]).
	Options map[string]any
}

// MirrorOption is the [Attr.Options] key controlling how an attribute
// is remapped onto a mirror twin.
const MirrorOption = "mirror"

const (
	// MirrorOpposite remaps the attribute value through the enum's
	// opposite-value table ([Side.Opposite], [Axis.Opposite]).
	MirrorOpposite = "opposite"

	// MirrorConnect connects the twin's attribute directly from the
	// source component's attribute, sharing the value.
	MirrorConnect = "connect"
)

// Path returns the full attribute path of this descriptor on its node.
func (a *Attr) Path() string {
	if a.Parent == "" {
		return a.Name
	}
	return a.Parent + "." + a.Name
}

// Schema is an ordered, path-unique collection of attribute
// descriptors for one component node. A component type's schema is its
// embedded base's schema merged with its own additions and overrides
// (see [Schema.Merge]).
type Schema struct {
	keylist.List[string, Attr]
}

// NewSchema returns a new empty [Schema].
func NewSchema() *Schema {
	return &Schema{}
}

// Add appends the given attribute descriptors, replacing in place any
// existing descriptor with the same path.
func (s *Schema) Add(attrs ...Attr) *Schema {
	for _, a := range attrs {
		s.Set(a.Path(), a)
	}
	return s
}

// Merge merges the given overriding schema into this one: descriptors
// with new paths are appended in order, and descriptors with existing
// paths replace the existing ones in place, preserving their position.
func (s *Schema) Merge(over *Schema) *Schema {
	if over == nil {
		return s
	}
	for i, a := range over.Values {
		s.Set(over.Keys[i], a)
	}
	return s
}

// enumValue converts typed enum defaults to the int values that
// [graph.Enum] attributes hold.
func enumValue(v any) any {
	switch ev := v.(type) {
	case Side:
		return int(ev)
	case Axis:
		return int(ev)
	}
	return v
}

// Materialize creates the attributes declared by the schema on the
// given node, in declaration order. Compound and array parents must be
// declared before their children; a child referencing an undeclared
// parent is a fatal [ErrSchema]. Literal defaults are set before
// locking. Published attributes are exposed on the given grouping node
// under their alias, which requires the node to be a member of the
// group. All failures wrap [ErrSchema].
func Materialize(g *graph.Graph, node, group graph.NodeID, s *Schema) error {
	for _, a := range s.Values {
		if _, err := g.AddAttr(node, a.Parent, a.Name, a.Kind); err != nil {
			return schemaErr("materialize %q: %v", a.Path(), err)
		}
		p := graph.At(node, a.Path())
		if a.Kind == graph.Array {
			if err := g.SetElemKind(p, a.Elem); err != nil {
				return schemaErr("materialize %q: %v", a.Path(), err)
			}
		}
		if a.Default != nil {
			if err := g.SetValue(p, enumValue(a.Default)); err != nil {
				return schemaErr("materialize %q: default: %v", a.Path(), err)
			}
		}
		if !a.Source.IsZero() {
			if err := g.Connect(a.Source, p, false); err != nil {
				return schemaErr("materialize %q: source: %v", a.Path(), err)
			}
		}
		if a.Keyable {
			g.SetKeyable(p, true)
		}
		if a.Publish {
			alias := a.Alias
			if alias == "" {
				alias = a.Name
			}
			if err := g.Publish(group, alias, p); err != nil {
				return schemaErr("materialize %q: publish: %v", a.Path(), err)
			}
		}
		if a.Locked {
			g.SetLocked(p, true)
		}
	}
	return nil
}
