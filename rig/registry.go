// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rig

import (
	"log/slog"
	"reflect"

	"cogentcore.org/core/base/keylist"
	"cogentcore.org/rig/graph"
)

// Class describes a registered component class. The class tag is
// written as a locked string attribute on every grouping node of the
// class, so the concrete component wrapper is reconstructible from the
// node alone (see [FromNode]).
type Class struct {
	// Tag is the unique class tag, such as "setup".
	Tag string

	// Suffix is the class suffix token of the component scope name.
	Suffix string

	// NameFormat overrides [Settings.NameFormat] for this class,
	// when non-empty.
	NameFormat string

	// MinXforms and MaxXforms bound the xform chain length for
	// hierarchy classes. Zero MaxXforms means unbounded.
	MinXforms, MaxXforms int

	// RootTransform creates a root transform node for components of
	// this class, parented under the nearest ancestor component's root.
	RootTransform bool

	// Instance is an instance of the component type.
	Instance Component
}

func (cl *Class) String() string {
	return cl.Tag
}

var (
	classes     keylist.List[string, *Class]
	classByType = map[reflect.Type]*Class{}
)

// RegisterClass registers the given component class, keyed both by its
// tag and by its instance type, and returns it. A duplicate tag is
// logged and replaces the previous registration.
func RegisterClass(cl *Class) *Class {
	if _, ok := classes.AtTry(cl.Tag); ok {
		slog.Error("rig.RegisterClass: class tag already registered", "tag", cl.Tag)
	}
	classes.Set(cl.Tag, cl)
	classByType[reflect.TypeOf(cl.Instance).Elem()] = cl
	return cl
}

// ClassByTag returns the class registered under the given tag, or nil.
func ClassByTag(tag string) *Class {
	return classes.At(tag)
}

// ClassFor returns the class registered for the concrete type of the
// given component, or nil if its type was never registered.
func ClassFor(c Component) *Class {
	return classByType[reflect.TypeOf(c).Elem()]
}

// typeFor returns the struct type of the given component pointer type.
func typeFor[T Component]() reflect.Type {
	return reflect.TypeFor[T]().Elem()
}

// NewOfClass returns a new unbuilt component of the given class.
func NewOfClass(cl *Class) Component {
	return reflect.New(reflect.TypeOf(cl.Instance).Elem()).Interface().(Component)
}

// FromNode reconstructs the component wrapper for the given grouping
// node. If the node belongs to a live component in the rig, that
// component is returned; otherwise the concrete wrapper type is
// resolved from the node's locked class tag attribute and bound to the
// existing nodes.
func FromNode(r *Rig, id graph.NodeID) (Component, error) {
	if c := r.ComponentForNode(id); c != nil {
		return c, nil
	}
	n := r.Graph.Node(id)
	if n == nil || n.Kind != graph.Group {
		return nil, structErr("FromNode: node %d is not a grouping node", id)
	}
	tag, err := r.Graph.StringValue(graph.At(id, "class"))
	if err != nil || tag == "" {
		return nil, structErr("FromNode: node %q carries no class tag", n.Name)
	}
	cl := ClassByTag(tag)
	if cl == nil {
		return nil, structErr("FromNode: class tag %q of node %q is not registered", tag, n.Name)
	}
	c := NewOfClass(cl)
	cb := c.AsComponent()
	initComponent(c)
	cb.Class = cl
	cb.Group = id
	cb.scope = n.Scope
	cb.Name, _ = r.Graph.StringValue(graph.At(id, "name"))
	if sv, err := r.Graph.Value(graph.At(id, "side")); err == nil {
		if iv, ok := sv.(int); ok {
			cb.Side = Side(iv)
		}
	}
	for _, mid := range n.Members {
		m := r.Graph.Node(mid)
		if m == nil {
			continue
		}
		switch m.Name {
		case "input":
			cb.Input = mid
		case "output":
			cb.Output = mid
		case "root":
			cb.RootTransform = mid
		}
	}
	cb.State = PostBuilt
	r.register(c)
	r.registerNode(cb.Group, c)
	r.registerNode(cb.Input, c)
	r.registerNode(cb.Output, c)
	r.registerNode(cb.RootTransform, c)
	return c, nil
}
