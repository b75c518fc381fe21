// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rig

import (
	"slices"

	"cogentcore.org/rig/graph"
)

// Component is the interface all rig components satisfy. The core
// functionality is defined on [ComponentBase], which all higher-level
// component types must embed; this interface only contains what
// component types may need to override. Call [Component.AsComponent]
// to access the core functionality.
type Component interface {

	// AsComponent returns the [ComponentBase] of this component.
	AsComponent() *ComponentBase

	// InputSchema returns the attribute schema of the component's
	// input node. Overriding types merge their additions into the
	// embedded type's schema with [Schema.Merge]. A nil schema means
	// the component has no input node.
	InputSchema() *Schema

	// OutputSchema returns the attribute schema of the component's
	// output node. A nil schema means the component has no output node.
	OutputSchema() *Schema

	// OnPreBuild runs at the end of pre-build, after the component's
	// nodes are materialized and it is attached to its parent.
	// [Hierarchy] uses it to initialize and adopt its xform chain.
	OnPreBuild(args *Args) error

	// OverrideBuild is the type-specific build stage. Auxiliary nodes
	// created here must be registered into the grouping node with
	// [ComponentBase.RegisterNode]. It does nothing by default.
	OverrideBuild(args *Args) error

	// OnPostBuild runs during post-build, after names have been
	// re-materialized. [Hierarchy] uses it to back-fill unset outputs
	// and validate the chain.
	OnPostBuild() error
}

// ComponentBase implements the [Component] interface and provides the
// core rig component functionality. You must use ComponentBase as an
// embedded struct in all higher-level component types.
//
// A component wraps one grouping node in the graph, plus input and
// output nodes materialized from the component's schemas, all living in
// the component's name scope. Parent/child composition links and the
// mirror linkage are arena [CompID]s owned by the [Rig].
type ComponentBase struct {

	// Name is the instance name of this component. Together with the
	// side token and class suffix it forms the component's scope level;
	// it can change during scope collision disambiguation.
	Name string `copier:"-"`

	// Side is the side of the character this component is on.
	Side Side `copier:"-"`

	// This is the component as its true underlying type, enabling
	// methods defined on base types to call overridden methods.
	// It is set to nil when the component is destroyed.
	This Component `copier:"-"`

	// Rig is the rig this component belongs to.
	Rig *Rig `copier:"-"`

	// ID is the arena identifier of this component.
	ID CompID `copier:"-"`

	// Class is the registered class of this component.
	Class *Class `copier:"-"`

	// State is the lifecycle state. It only ever advances.
	State States `copier:"-"`

	// Group is the grouping node owning all of the component's nodes.
	Group graph.NodeID `copier:"-"`

	// Input is the logical input node, carrying the input schema.
	Input graph.NodeID `copier:"-"`

	// Output is the output node, carrying the output schema.
	// Zero if the component has no output schema.
	Output graph.NodeID `copier:"-"`

	// RootTransform is the root transform node, for components that
	// carry one. It is parented under the nearest ancestor component's
	// root transform during pre-build. Zero if absent.
	RootTransform graph.NodeID `copier:"-"`

	// parent is the parent component; composition links are arena IDs.
	parent CompID

	// children are the child components, in registration order.
	children []CompID

	// index is this component's index in its parent's child list,
	// recorded when it is appended.
	index int

	// mirrorSrc and mirrorDest are the mirror linkage: if a is
	// mirrored to b, then a.mirrorDest == b and b.mirrorSrc == a,
	// maintained symmetrically on every mutation.
	mirrorSrc, mirrorDest CompID

	// scope is the name scope holding the component's nodes.
	scope string

	// args are the constructor arguments, kept for building twins.
	args *Args
}

func (cb *ComponentBase) String() string {
	if cb == nil {
		return "nil"
	}
	return cb.scope
}

// AsComponent returns the [ComponentBase] of this component.
func (cb *ComponentBase) AsComponent() *ComponentBase {
	return cb
}

// InputSchema returns the base input schema, which is empty.
func (cb *ComponentBase) InputSchema() *Schema {
	return NewSchema()
}

// OutputSchema returns the base output schema: nil, meaning no output node.
func (cb *ComponentBase) OutputSchema() *Schema {
	return nil
}

// OnPreBuild is a placeholder implementation that does nothing.
func (cb *ComponentBase) OnPreBuild(args *Args) error { return nil }

// OverrideBuild is a placeholder implementation that does nothing.
func (cb *ComponentBase) OverrideBuild(args *Args) error { return nil }

// OnPostBuild is a placeholder implementation that does nothing.
func (cb *ComponentBase) OnPostBuild() error { return nil }

// initComponent ensures the component's This is set.
func initComponent(c Component) {
	cb := c.AsComponent()
	if cb.This != c {
		cb.This = c
	}
}

// Scope returns the name scope holding the component's nodes.
func (cb *ComponentBase) Scope() string {
	return cb.scope
}

// Parent returns the parent component, or nil for a root component.
func (cb *ComponentBase) Parent() Component {
	if cb.Rig == nil {
		return nil
	}
	return cb.Rig.Component(cb.parent)
}

// ChildComponents returns the child components registered during their
// pre-build, in registration order.
func (cb *ComponentBase) ChildComponents() []Component {
	cs := make([]Component, 0, len(cb.children))
	for _, id := range cb.children {
		if c := cb.Rig.Component(id); c != nil {
			cs = append(cs, c)
		}
	}
	return cs
}

// NumChildren returns the number of child components.
func (cb *ComponentBase) NumChildren() int {
	return len(cb.children)
}

// Child returns the child component at the given index,
// or nil if the index is out of range.
func (cb *ComponentBase) Child(i int) Component {
	if i < 0 || i >= len(cb.children) {
		return nil
	}
	return cb.Rig.Component(cb.children[i])
}

// IndexInParent returns this component's index within its parent's
// child list, and -1 for a root component.
func (cb *ComponentBase) IndexInParent() int {
	if cb.parent == 0 {
		return -1
	}
	return cb.index
}

// addChild appends the given component to the child list,
// recording its index.
func (cb *ComponentBase) addChild(c Component) {
	ccb := c.AsComponent()
	ccb.parent = cb.ID
	ccb.index = len(cb.children)
	cb.children = append(cb.children, ccb.ID)
}

// Tree walking:

const (
	// Continue can be returned from walking functions to continue
	// processing down the tree.
	Continue = true

	// Break can be returned from walking functions to stop processing
	// this branch of the tree.
	Break = false
)

// WalkUp calls the given function on the component and all of its
// parents, stopping if it returns [Break].
func (cb *ComponentBase) WalkUp(fun func(c Component) bool) bool {
	cur := cb.This
	for cur != nil {
		if !fun(cur) {
			return false
		}
		cur = cur.AsComponent().Parent()
	}
	return true
}

// Root returns the top-level ancestor of this component.
func (cb *ComponentBase) Root() Component {
	cur := cb.This
	for {
		p := cur.AsComponent().Parent()
		if p == nil {
			return cur
		}
		cur = p
	}
}

// WalkDown calls the given function on the component and all of its
// descendants in depth-first order, not descending into a branch if it
// returns [Break].
func (cb *ComponentBase) WalkDown(fun func(c Component) bool) {
	if cb.This == nil {
		return
	}
	if !fun(cb.This) {
		return
	}
	for _, c := range cb.ChildComponents() {
		c.AsComponent().WalkDown(fun)
	}
}

// Descendants returns the strict descendants of this component with
// the given class tag, in depth-first order. An empty tag matches all.
func (cb *ComponentBase) Descendants(tag string) []Component {
	var ds []Component
	cb.WalkDown(func(c Component) bool {
		if c.AsComponent() != cb && (tag == "" || c.AsComponent().Class.Tag == tag) {
			ds = append(ds, c)
		}
		return Continue
	})
	return ds
}

// RegisterNode registers an auxiliary node created during build into
// the component's grouping node, so it is owned, renamed, and destroyed
// with the component.
func (cb *ComponentBase) RegisterNode(id graph.NodeID) error {
	return cb.Rig.Graph.AddMember(cb.Group, id)
}

// Destroy destroys the component: children first, leaf to root, then
// the component's own attributes are unpublished and disconnected and
// its nodes and scope deleted. The component is removed from its
// parent's child list and from the rig arena.
func (cb *ComponentBase) Destroy() {
	if cb.This == nil || cb.Rig == nil || cb.ID == 0 {
		return
	}
	r := cb.Rig
	g := r.Graph
	for _, cid := range slices.Clone(cb.children) {
		if c := r.Component(cid); c != nil {
			c.AsComponent().Destroy()
		}
	}
	if t := r.Component(cb.mirrorDest); t != nil {
		t.AsComponent().mirrorSrc = 0
	}
	if t := r.Component(cb.mirrorSrc); t != nil {
		t.AsComponent().mirrorDest = 0
	}
	if gn := g.Node(cb.Group); gn != nil {
		for _, mid := range slices.Clone(gn.Members) {
			g.RemoveMember(cb.Group, mid)
			g.DeleteNode(mid)
		}
		g.DeleteNode(cb.Group)
	}
	if p := r.Component(cb.parent); p != nil {
		pb := p.AsComponent()
		if i := slices.Index(pb.children, cb.ID); i >= 0 {
			pb.children = slices.Delete(pb.children, i, i+1)
			for j := i; j < len(pb.children); j++ {
				if c := r.Component(pb.children[j]); c != nil {
					c.AsComponent().index = j
				}
			}
		}
	}
	if cb.scope != "" && g.ScopeEmpty(cb.scope) {
		g.DeleteScope(cb.scope)
	}
	r.unregister(cb.This)
	cb.This = nil
}
