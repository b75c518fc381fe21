// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rig

import (
	"log/slog"

	"cogentcore.org/rig/graph"
)

// NewComponent creates a component of the given type with the given
// instance name under the given parent (nil for a root component) and
// drives its full lifecycle; see [Rig.Create]. It is a generic helper
// in the style of tree.New.
func NewComponent[T Component](r *Rig, name string, parent Component, kw map[string]any) (T, error) {
	var zero T
	cl := classByType[typeFor[T]()]
	if cl == nil {
		return zero, structErr("NewComponent: component type %v is not registered", typeFor[T]())
	}
	c := NewOfClass(cl).(T)
	if err := r.Create(c, name, parent, kw); err != nil {
		return zero, err
	}
	return c, nil
}

// Create drives the component lifecycle Unbuilt -> PreBuilt -> Built ->
// PostBuilt on the given freshly constructed component:
//   - pre-build materializes the grouping, input, and output nodes from
//     the component's schemas (if unbacked), appends it to the parent's
//     child list, parents transform-bearing nodes, and allocates a
//     unique name scope;
//   - build runs [Component.OverrideBuild];
//   - post-build re-materializes names and runs [Component.OnPostBuild]
//     (for hierarchies: output back-fill and validation).
//
// State only advances after a stage fully succeeds; on error the
// component stays in its last completed state and prior sibling
// operations are left intact. After pre-build, remaining constructor
// arguments whose name matches an input attribute set that attribute's
// value; arguments never consumed by any stage are warned about, not
// failed on.
func (r *Rig) Create(c Component, name string, parent Component, kw map[string]any) error {
	cb := c.AsComponent()
	if cb.State != Unbuilt {
		return structErr("Create: component %q is already %v", cb.Name, cb.State)
	}
	initComponent(c)
	cl := ClassFor(c)
	if cl == nil {
		return structErr("Create: component type %T is not registered", c)
	}
	cb.Class = cl
	if name == "" {
		name = cl.Tag
	}
	cb.Name = name
	args := NewArgs(kw)
	cb.args = args
	if v, ok := args.Value("side"); ok {
		switch sv := v.(type) {
		case Side:
			cb.Side = sv
		case string:
			if err := cb.Side.SetString(sv); err != nil {
				return structErr("Create: side argument: %v", err)
			}
		default:
			return structErr("Create: invalid side argument %v", v)
		}
	}
	r.register(c)
	if err := r.preBuild(c, parent); err != nil {
		return err
	}
	if err := c.OnPreBuild(args); err != nil {
		return err
	}
	if err := r.applyAttrArgs(c, args); err != nil {
		return err
	}
	cb.State = PreBuilt
	if err := c.OverrideBuild(args); err != nil {
		return err
	}
	cb.State = Built
	if err := cb.RenameNodes(); err != nil {
		return err
	}
	if err := c.OnPostBuild(); err != nil {
		return err
	}
	cb.State = PostBuilt
	if un := args.Unused(); len(un) > 0 {
		slog.Warn("rig.Create: unused constructor arguments", "component", cb.scope, "args", un)
	}
	return nil
}

// applyAttrArgs sets input attributes from any remaining constructor
// arguments whose name matches an input schema path, so callers can
// set simple attributes without touching the graph directly.
func (r *Rig) applyAttrArgs(c Component, args *Args) error {
	cb := c.AsComponent()
	if cb.Input == 0 {
		return nil
	}
	is := c.InputSchema()
	if is == nil {
		return nil
	}
	for _, name := range args.Unused() {
		a, ok := is.AtTry(name)
		if !ok {
			continue
		}
		v, _ := args.Value(name)
		if err := r.Graph.SetValue(graph.At(cb.Input, a.Path()), enumValue(v)); err != nil {
			return schemaErr("Create: attribute argument %q: %v", name, err)
		}
	}
	return nil
}

// preBuild attaches the component to its parent and materializes its
// nodes from schema, unless it is already graph-backed.
func (r *Rig) preBuild(c Component, parent Component) error {
	cb := c.AsComponent()
	g := r.Graph
	if parent != nil {
		pb := parent.AsComponent()
		if pb.Group == 0 {
			return structErr("Create: parent %q has no grouping node; parents must be pre-built first", pb.Name)
		}
		pb.addChild(c)
	}
	if cb.Group != 0 { // already backed
		return nil
	}
	cb.scope = cb.allocScope()
	grp, err := g.NewNode(graph.Group, cb.scope, "group")
	if err != nil {
		return structErr("Create: %v", err)
	}
	cb.Group = grp.ID
	r.registerNode(cb.Group, c)
	tags := NewSchema().Add(
		Attr{Name: "class", Kind: graph.String, Default: cb.Class.Tag, Locked: true},
		Attr{Name: "name", Kind: graph.String, Default: cb.Name},
		Attr{Name: "side", Kind: graph.Enum, Default: cb.Side},
	)
	if err := Materialize(g, cb.Group, cb.Group, tags); err != nil {
		return err
	}
	if is := c.InputSchema(); is != nil {
		in, err := g.NewNode(graph.Plain, cb.scope, "input")
		if err != nil {
			return structErr("Create: %v", err)
		}
		cb.Input = in.ID
		r.registerNode(cb.Input, c)
		g.AddMember(cb.Group, cb.Input)
		if err := Materialize(g, cb.Input, cb.Group, is); err != nil {
			return err
		}
	}
	if os := c.OutputSchema(); os != nil {
		out, err := g.NewNode(graph.Plain, cb.scope, "output")
		if err != nil {
			return structErr("Create: %v", err)
		}
		cb.Output = out.ID
		r.registerNode(cb.Output, c)
		g.AddMember(cb.Group, cb.Output)
		if err := Materialize(g, cb.Output, cb.Group, os); err != nil {
			return err
		}
	}
	if cb.Class.RootTransform {
		rt, err := g.NewNode(graph.Transform, cb.scope, "root")
		if err != nil {
			return structErr("Create: %v", err)
		}
		cb.RootTransform = rt.ID
		r.registerNode(cb.RootTransform, c)
		g.AddMember(cb.Group, cb.RootTransform)
		for p := cb.Parent(); p != nil; p = p.AsComponent().Parent() {
			if prt := p.AsComponent().RootTransform; prt != 0 {
				g.SetTransformParent(cb.RootTransform, prt)
				break
			}
		}
	}
	return nil
}
