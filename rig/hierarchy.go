// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rig

import (
	"strconv"

	"cogentcore.org/core/math32"
	"cogentcore.org/rig/graph"
)

// xformFields are the six fields of one xform frame, in declaration
// order; the matrix fields are all of [graph.Matrix] kind.
var xformFields = []struct {
	name string
	kind graph.Kinds
}{
	{"name", graph.String},
	{"initMatrix", graph.Matrix},
	{"initInverse", graph.Matrix},
	{"worldMatrix", graph.Matrix},
	{"worldInverse", graph.Matrix},
	{"localMatrix", graph.Matrix},
}

// hierParentFields are the three fields of a chain attachment frame.
var hierParentFields = []string{"worldMatrix", "worldInverse", "initInverse"}

// XformRef is a validated reference to the six attributes of one xform
// frame: a chain slot on a hierarchy node, or the standard frame
// attributes of a raw transform node. Build one only through
// [XformRefAt] or [TransformRef], which check the frame shape.
type XformRef struct {
	// Node is the node carrying the frame.
	Node graph.NodeID

	// Index is the chain slot index, or -1 for a raw transform frame.
	Index int

	Name         graph.Path
	InitMatrix   graph.Path
	InitInverse  graph.Path
	WorldMatrix  graph.Path
	WorldInverse graph.Path
	LocalMatrix  graph.Path
}

// XformRefAt returns a validated [XformRef] for slot i of the "xforms"
// chain on the given node, checking that all six fields exist.
func XformRefAt(g *graph.Graph, node graph.NodeID, i int) (XformRef, error) {
	base := graph.At(node, "xforms").Index(i)
	x := XformRef{Node: node, Index: i}
	for fi, f := range xformFields {
		p := base.Child(f.name)
		if !g.HasAttr(p) {
			return XformRef{}, structErr("xform %d on node %d is missing field %q", i, node, f.name)
		}
		*x.field(fi) = p
	}
	return x, nil
}

// TransformRef returns a validated [XformRef] over the standard frame
// attributes of a raw [graph.Transform] node.
func TransformRef(g *graph.Graph, node graph.NodeID) (XformRef, error) {
	n := g.Node(node)
	if n == nil || n.Kind != graph.Transform {
		return XformRef{}, structErr("node %d is not a transform", node)
	}
	x := XformRef{Node: node, Index: -1}
	for fi, f := range xformFields {
		*x.field(fi) = graph.At(node, f.name)
	}
	return x, nil
}

// field returns the path field at the given [xformFields] index.
func (x *XformRef) field(i int) *graph.Path {
	return [...]*graph.Path{&x.Name, &x.InitMatrix, &x.InitInverse, &x.WorldMatrix, &x.WorldInverse, &x.LocalMatrix}[i]
}

// pairedField returns the paired matrix path of the given frame field
// name (worldMatrix <-> worldInverse, initMatrix <-> initInverse),
// and false for unpaired fields.
func (x *XformRef) pairedField(name string) (graph.Path, bool) {
	switch name {
	case "worldMatrix":
		return x.WorldInverse, true
	case "worldInverse":
		return x.WorldMatrix, true
	case "initMatrix":
		return x.InitInverse, true
	case "initInverse":
		return x.InitMatrix, true
	}
	return graph.Path{}, false
}

// HierParentRef is a validated reference to the three attributes of a
// chain attachment frame: the parent world matrix, its inverse, and
// the parent init inverse. Build one only through [HierParentRefAt].
type HierParentRef struct {
	// Node is the node carrying the "hierParent" compound.
	Node graph.NodeID

	WorldMatrix  graph.Path
	WorldInverse graph.Path
	InitInverse  graph.Path
}

// HierParentRefAt returns a validated [HierParentRef] for the
// "hierParent" compound on the given node, checking its shape.
func HierParentRefAt(g *graph.Graph, node graph.NodeID) (HierParentRef, error) {
	hp := HierParentRef{Node: node}
	ps := [...]*graph.Path{&hp.WorldMatrix, &hp.WorldInverse, &hp.InitInverse}
	for i, f := range hierParentFields {
		p := graph.At(node, "hierParent").Child(f)
		if !g.HasAttr(p) {
			return HierParentRef{}, structErr("node %d carries no attachment frame field %q", node, f)
		}
		*ps[i] = p
	}
	return hp, nil
}

// paths returns the three field paths in [hierParentFields] order.
func (hp *HierParentRef) paths() [3]graph.Path {
	return [3]graph.Path{hp.WorldMatrix, hp.WorldInverse, hp.InitInverse}
}

// XformData is the evaluated (or to-be-set) value of one xform frame.
// Nil matrix fields and an empty name are unset.
type XformData struct {
	Name         string
	InitMatrix   *math32.Matrix4
	InitInverse  *math32.Matrix4
	WorldMatrix  *math32.Matrix4
	WorldInverse *math32.Matrix4
	LocalMatrix  *math32.Matrix4
}

// NewXform returns an [XformData] for a frame with the given name at
// the given world matrix, with the init matrix at the same pose and
// the inverses computed. The local matrix is left unset.
func NewXform(name string, world math32.Matrix4) XformData {
	inv, _ := world.Inverse()
	w := world
	iw := world
	return XformData{Name: name, InitMatrix: &iw, InitInverse: inv, WorldMatrix: &w, WorldInverse: inv}
}

// Hierarchy is the base for components carrying a chain of coordinate
// frames: an index-contiguous sequence of input xforms fed from a
// source component, an output sequence at least as long, and exactly
// one attachment frame (hierParent) the chain hangs from. It adopts
// frames from a source during pre-build, back-fills unset outputs
// after build, and supports hooking and mirroring.
type Hierarchy struct {
	ComponentBase
}

// Hierer is implemented by all components embedding [Hierarchy].
type Hierer interface {
	Component

	// AsHierarchy returns the [Hierarchy] of this component.
	AsHierarchy() *Hierarchy
}

// AsHierarchy returns the [Hierarchy] of this component.
func (h *Hierarchy) AsHierarchy() *Hierarchy {
	return h
}

// AsHierarchy returns the [Hierarchy] of the given component,
// or nil if it is not one.
func AsHierarchy(c Component) *Hierarchy {
	if hr, ok := c.(Hierer); ok {
		return hr.AsHierarchy()
	}
	return nil
}

func (h *Hierarchy) InputSchema() *Schema {
	s := h.ComponentBase.InputSchema()
	s.Add(
		Attr{Name: "xforms", Kind: graph.Array, Elem: graph.Compound},
		Attr{Name: "hierParent", Kind: graph.Compound},
		Attr{Name: "worldMatrix", Kind: graph.Matrix, Parent: "hierParent"},
		Attr{Name: "worldInverse", Kind: graph.Matrix, Parent: "hierParent"},
		Attr{Name: "initInverse", Kind: graph.Matrix, Parent: "hierParent"},
		Attr{Name: "hasParent", Kind: graph.Bool, Default: false, Publish: true},
		Attr{Name: "primaryAxis", Kind: graph.Enum, Default: XAxis, Publish: true,
			Options: map[string]any{MirrorOption: MirrorOpposite, "enum": "axis"}},
		Attr{Name: "secondaryAxis", Kind: graph.Enum, Default: YAxis, Publish: true,
			Options: map[string]any{MirrorOption: MirrorOpposite, "enum": "axis"}},
	)
	return s
}

func (h *Hierarchy) OutputSchema() *Schema {
	return NewSchema().Add(
		Attr{Name: "xforms", Kind: graph.Array, Elem: graph.Compound},
	)
}

// chainNode returns the node carrying the given chain end.
func (h *Hierarchy) chainNode(io IO) graph.NodeID {
	if io == In {
		return h.Input
	}
	return h.Output
}

// NumXforms returns the number of xform slots of the given chain end.
func (h *Hierarchy) NumXforms(io IO) int {
	return h.Rig.Graph.ArrayLen(graph.At(h.chainNode(io), "xforms"))
}

// XformRef returns the validated reference to the given chain slot.
func (h *Hierarchy) XformRef(io IO, i int) (XformRef, error) {
	return XformRefAt(h.Rig.Graph, h.chainNode(io), i)
}

// HierParent returns the validated reference to the chain's
// attachment frame.
func (h *Hierarchy) HierParent() (HierParentRef, error) {
	return HierParentRefAt(h.Rig.Graph, h.Input)
}

// addXformSlot appends a new xform slot to the given chain end,
// creating its six fields, and returns its index.
func (h *Hierarchy) addXformSlot(io IO) (int, error) {
	g := h.Rig.Graph
	node := h.chainNode(io)
	_, i, err := g.AddArrayElem(graph.At(node, "xforms"))
	if err != nil {
		return 0, structErr("addXformSlot: %v", err)
	}
	parent := "xforms[" + strconv.Itoa(i) + "]"
	for _, f := range xformFields {
		if _, err := g.AddAttr(node, parent, f.name, f.kind); err != nil {
			return 0, structErr("addXformSlot: %v", err)
		}
	}
	return i, nil
}

// Xform returns the evaluated value of the given chain slot.
func (h *Hierarchy) Xform(io IO, i int) (XformData, error) {
	g := h.Rig.Graph
	x, err := h.XformRef(io, i)
	if err != nil {
		return XformData{}, err
	}
	var d XformData
	d.Name, err = g.StringValue(x.Name)
	if err != nil {
		return XformData{}, err
	}
	for _, fv := range []struct {
		p graph.Path
		m **math32.Matrix4
	}{
		{x.InitMatrix, &d.InitMatrix}, {x.InitInverse, &d.InitInverse},
		{x.WorldMatrix, &d.WorldMatrix}, {x.WorldInverse, &d.WorldInverse},
		{x.LocalMatrix, &d.LocalMatrix},
	} {
		m, err := g.Matrix(fv.p)
		if err != nil {
			return XformData{}, err
		}
		*fv.m = m
	}
	return d, nil
}

// SetXform writes the set fields of the given data as literal values
// of the given chain slot. Writing a field that has an incoming
// connection is a structural error; unset fields are left alone.
func (h *Hierarchy) SetXform(io IO, i int, d XformData) error {
	g := h.Rig.Graph
	x, err := h.XformRef(io, i)
	if err != nil {
		return err
	}
	set := func(p graph.Path, v any) error {
		if g.Connected(p) {
			return structErr("SetXform: field %v of %s xform %d is connected", p, io, i)
		}
		if err := g.SetValue(p, v); err != nil {
			return structErr("SetXform: %v", err)
		}
		return nil
	}
	if d.Name != "" {
		if err := set(x.Name, d.Name); err != nil {
			return err
		}
	}
	for _, fv := range []struct {
		p graph.Path
		m *math32.Matrix4
	}{
		{x.InitMatrix, d.InitMatrix}, {x.InitInverse, d.InitInverse},
		{x.WorldMatrix, d.WorldMatrix}, {x.WorldInverse, d.WorldInverse},
		{x.LocalMatrix, d.LocalMatrix},
	} {
		if fv.m == nil {
			continue
		}
		if err := set(fv.p, *fv.m); err != nil {
			return err
		}
	}
	return nil
}

// OnPreBuild initializes the xform chain: the input slot count comes
// from an explicit xform list ("xforms"), a count ("count"), or the
// adopted source's length ("source"), clamped to the class bounds.
// Output slots ("outputs", default the input count) are pre-seeded
// with placeholder names. If a source is given, its frames are adopted
// into the inputs (see [Hierarchy.AdoptSource]).
func (h *Hierarchy) OnPreBuild(args *Args) error {
	g := h.Rig.Graph
	var xfs []XformData
	if v, ok := args.Value("xforms"); ok {
		lx, ok := v.([]XformData)
		if !ok {
			return structErr("OnPreBuild: xforms argument is %T, not []XformData", v)
		}
		xfs = lx
	}
	var src *Hierarchy
	if v, ok := args.Value("source"); ok {
		if c, ok := v.(Component); ok {
			src = AsHierarchy(c)
		}
		if src == nil {
			return structErr("OnPreBuild: source argument %v is not a hierarchy component", v)
		}
	}
	n := len(xfs)
	if n == 0 {
		n = args.Int("count", 0)
	}
	if n == 0 && src != nil {
		n = src.NumXforms(src.asSourceIO(h))
	}
	if n < h.Class.MinXforms {
		n = h.Class.MinXforms
	}
	if h.Class.MaxXforms > 0 && n > h.Class.MaxXforms {
		n = h.Class.MaxXforms
	}
	for i := range n {
		if _, err := h.addXformSlot(In); err != nil {
			return err
		}
		if i < len(xfs) {
			if err := h.SetXform(In, i, xfs[i]); err != nil {
				return err
			}
		}
	}
	nOut := args.Int("outputs", n)
	if nOut < n {
		return structErr("OnPreBuild: %d outputs declared for %d inputs; outputs must not be fewer", nOut, n)
	}
	for i := range nOut {
		if _, err := h.addXformSlot(Out); err != nil {
			return err
		}
		// placeholder, replaced by name back-fill where possible
		x, _ := h.XformRef(Out, i)
		g.SetValue(x.Name, h.Name+strconv.Itoa(i+1))
	}
	if src != nil {
		if err := h.AdoptSource(src, args.Bool("adoptParent", true), args.Bool("adoptAxes", true)); err != nil {
			return err
		}
	}
	return nil
}

// asSourceIO returns which chain end this hierarchy exposes when
// acting as the source for the given destination component: its inputs
// when the destination is above it in the composition tree, and its
// outputs otherwise.
func (h *Hierarchy) asSourceIO(dst Component) IO {
	dcb := dst.AsComponent()
	found := false
	h.WalkUp(func(c Component) bool {
		if c.AsComponent().ID == dcb.ID {
			found = true
			return Break
		}
		return Continue
	})
	if found {
		return In
	}
	return Out
}

// AdoptSource connects the source's as-source xforms into this
// component's input slots, truncated to this chain's declared length.
// If adoptParent is set, the source's attachment frame fields and
// has-parent flag are also connected; if adoptAxes is set, so are the
// orientation basis axes.
func (h *Hierarchy) AdoptSource(src *Hierarchy, adoptParent, adoptAxes bool) error {
	g := h.Rig.Graph
	io := src.asSourceIO(h.This)
	n := min(h.NumXforms(In), src.NumXforms(io))
	for i := range n {
		sx, err := src.XformRef(io, i)
		if err != nil {
			return err
		}
		dx, err := h.XformRef(In, i)
		if err != nil {
			return err
		}
		for fi := range xformFields {
			if err := g.Connect(*sx.field(fi), *dx.field(fi), true); err != nil {
				return structErr("AdoptSource: %v", err)
			}
		}
	}
	if adoptParent {
		shp, err := src.HierParent()
		if err != nil {
			return err
		}
		dhp, err := h.HierParent()
		if err != nil {
			return err
		}
		sp, dp := shp.paths(), dhp.paths()
		for i := range sp {
			if err := g.Connect(sp[i], dp[i], true); err != nil {
				return structErr("AdoptSource: %v", err)
			}
		}
		if err := g.Connect(graph.At(src.Input, "hasParent"), graph.At(h.Input, "hasParent"), true); err != nil {
			return structErr("AdoptSource: %v", err)
		}
	}
	if adoptAxes {
		for _, ax := range []string{"primaryAxis", "secondaryAxis"} {
			if err := g.Connect(graph.At(src.Input, ax), graph.At(h.Input, ax), true); err != nil {
				return structErr("AdoptSource: %v", err)
			}
		}
	}
	return nil
}

// OnPostBuild back-fills any still-unset output xform fields and
// validates the chain, degrading derivation gaps to warnings.
func (h *Hierarchy) OnPostBuild() error {
	if err := h.backfill(); err != nil {
		return err
	}
	h.validate()
	return nil
}

// PrimaryAxis returns the chain's primary orientation axis.
func (h *Hierarchy) PrimaryAxis() Axis {
	return h.axis("primaryAxis")
}

// SecondaryAxis returns the chain's secondary orientation axis.
func (h *Hierarchy) SecondaryAxis() Axis {
	return h.axis("secondaryAxis")
}

func (h *Hierarchy) axis(attr string) Axis {
	v, err := h.Rig.Graph.Value(graph.At(h.Input, attr))
	if err != nil || v == nil {
		return XAxis
	}
	return Axis(v.(int))
}
