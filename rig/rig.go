// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rig implements a procedural character-rigging framework:
// reusable components are composed into trees that build a data-flow
// graph computing a character skeleton's runtime pose.
//
// The core functionality of a component is defined on [ComponentBase],
// which all higher-level component types must embed, mirroring the
// Cogent Core tree system. A component wraps a grouping node in the
// underlying [graph.Graph], together with input and output nodes
// materialized from declarative attribute [Schema]s. Components are
// created with [NewComponent] (or [Rig.Create]), which drives the
// full Unbuilt -> PreBuilt -> Built -> PostBuilt lifecycle.
//
// [Hierarchy] components carry a chain of coordinate frames ([XformRef]s)
// plus the parent frame ([HierParentRef]) the chain attaches to, and
// support adopting frames from a source component, automatic back-fill
// of unset outputs after build, rebinding the attachment frame to a new
// source ([Hierarchy.Hook]), and structural mirroring
// ([ComponentBase.Mirror]).
package rig

import (
	"errors"
	"fmt"

	"cogentcore.org/rig/graph"
)

// ErrSchema is wrapped by all fatal errors arising from a malformed or
// unresolvable attribute schema; test with [errors.Is].
var ErrSchema = errors.New("schema error")

// ErrStructural is wrapped by all fatal errors arising from structural
// violations: would-be connection cycles, required length mismatches,
// or hooking through a malformed frame; test with [errors.Is].
var ErrStructural = errors.New("structural error")

// schemaErr returns a [ErrSchema] error with the given format and args.
func schemaErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSchema, fmt.Sprintf(format, args...))
}

// structErr returns a [ErrStructural] error with the given format and args.
func structErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStructural, fmt.Sprintf(format, args...))
}

// CompID is a stable arena identifier for a component record in a [Rig].
// The zero value is not a valid component. IDs are never reused, so a
// dangling CompID resolves to a nil component rather than an unrelated one.
type CompID int64

// Rig owns the graph and the arena of component records built on it.
// Cross-references between components (parent/child, mirror pairs) are
// arena IDs, not pointers, so cyclic linkage carries no ownership.
type Rig struct {
	// Graph is the node / attribute dependency graph the rig is built on.
	Graph *graph.Graph

	comps  map[CompID]Component
	nextID CompID

	// byNode resolves a component from any of its grouping, input,
	// output, or root transform nodes.
	byNode map[graph.NodeID]CompID
}

// NewRig returns a new [Rig] with a fresh graph.
func NewRig() *Rig {
	return &Rig{
		Graph:  graph.New(),
		comps:  map[CompID]Component{},
		byNode: map[graph.NodeID]CompID{},
	}
}

// Component returns the component with the given ID,
// or nil if it does not exist or has been destroyed.
func (r *Rig) Component(id CompID) Component {
	if id == 0 {
		return nil
	}
	return r.comps[id]
}

// ComponentForNode returns the component owning the given graph node
// (its grouping, input, output, or root transform node), or nil.
func (r *Rig) ComponentForNode(id graph.NodeID) Component {
	return r.Component(r.byNode[id])
}

// register adds the component to the arena, assigning its ID.
func (r *Rig) register(c Component) {
	cb := c.AsComponent()
	r.nextID++
	cb.ID = r.nextID
	cb.Rig = r
	r.comps[cb.ID] = c
}

// registerNode records the given graph node as owned by the component.
func (r *Rig) registerNode(id graph.NodeID, c Component) {
	if id != 0 {
		r.byNode[id] = c.AsComponent().ID
	}
}

// unregister removes the component and its node records from the arena.
func (r *Rig) unregister(c Component) {
	cb := c.AsComponent()
	for _, nid := range []graph.NodeID{cb.Group, cb.Input, cb.Output, cb.RootTransform} {
		if nid != 0 {
			delete(r.byNode, nid)
		}
	}
	delete(r.comps, cb.ID)
}
