// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package graph provides the in-memory node / attribute dependency graph
// that the rig component system is built on. It has typed nodes holding
// typed attributes (scalar, string, enum, matrix, compound, array),
// directed data-flow connections between attributes with a single source
// per sink, grouping nodes that own member nodes and publish selected
// member attributes under aliases, and hierarchical name scopes.
//
// The graph is an arena: nodes are addressed by stable [NodeID] values
// that are never reused, and attributes are addressed by a [Path]
// combining a NodeID with a dotted, indexed attribute path such as
// "xforms[2].worldMatrix". Structural invariants (single source per sink,
// no connection cycles, literal-or-connection exclusivity) are enforced
// at mutation time, not by convention.
package graph

import (
	"fmt"
	"strings"

	"cogentcore.org/core/base/keylist"
)

// NodeID is a stable arena identifier for a node. The zero value is
// not a valid node. IDs are never reused, so a dangling NodeID resolves
// to a nil node rather than to an unrelated one.
type NodeID int64

// NodeKinds are the kinds of nodes in the graph.
type NodeKinds int32

const (
	// Plain is a node with no built-in attributes or behavior.
	Plain NodeKinds = iota

	// Transform is a frame-bearing node. It is created with the standard
	// frame attributes: name, initMatrix, initInverse, worldMatrix,
	// worldInverse, and localMatrix. Transforms can be parented under
	// other transforms with [Graph.SetTransformParent].
	Transform

	// Group is a grouping node that owns member nodes and can publish
	// selected member attributes as its own, under an alias.
	Group

	// Inverse is a computation node deriving output = inverse(input),
	// for matrix attributes.
	Inverse

	// Multiply is a computation node deriving output = a * b,
	// for matrix attributes.
	Multiply
)

// Node is one node in the graph. Do not construct directly;
// use [Graph.NewNode].
type Node struct {
	// ID is the stable arena identifier of this node.
	ID NodeID

	// Name is the node name, unique within its scope.
	Name string

	// Scope is the name scope this node lives in (such as "char:l_arm"),
	// with ":" separating levels. Empty is the root scope.
	Scope string

	// Kind is the node kind.
	Kind NodeKinds

	// Attrs are the top-level attributes of this node, in creation order.
	Attrs keylist.List[string, *Attr]

	// TransformParent is the transform this node is parented under,
	// for [Transform] nodes. Zero means unparented.
	TransformParent NodeID

	// Group is the grouping node this node is a member of. Zero means none.
	// A node can be a member of at most one group.
	Group NodeID

	// Members are the member nodes, for [Group] nodes, in addition order.
	Members []NodeID

	// Published are the published attribute aliases, for [Group] nodes:
	// alias name to member attribute path.
	Published keylist.List[string, Path]
}

// nameKey identifies a node by scope and name.
type nameKey struct {
	scope, name string
}

// Graph is an arena-owned attribute dependency graph.
// The zero value is not usable; use [New].
type Graph struct {
	nodes  map[NodeID]*Node
	nextID NodeID

	// source maps each connected sink attribute to its single source.
	source map[Path]Path

	// dests maps each source attribute to its sinks, in connection order.
	dests map[Path][]Path

	// scopes are the declared name scopes.
	scopes map[string]bool

	// byName resolves a node from its scope and name.
	byName map[nameKey]NodeID
}

// New returns a new empty [Graph].
func New() *Graph {
	return &Graph{
		nodes:  map[NodeID]*Node{},
		source: map[Path]Path{},
		dests:  map[Path][]Path{},
		scopes: map[string]bool{},
		byName: map[nameKey]NodeID{},
	}
}

// Node returns the node with the given ID, or nil if it does not exist
// or has been deleted.
func (g *Graph) Node(id NodeID) *Node {
	return g.nodes[id]
}

// FindNode returns the node with the given name in the given scope,
// or nil if there is none.
func (g *Graph) FindNode(scope, name string) *Node {
	return g.nodes[g.byName[nameKey{scope, name}]]
}

// NumNodes returns the number of live nodes in the graph.
func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

// NewNode creates a new node of the given kind with the given name in the
// given scope, declaring the scope if needed. Node names must be unique
// within their scope and must not contain the scope separator.
func (g *Graph) NewNode(kind NodeKinds, scope, name string) (*Node, error) {
	if name == "" || strings.Contains(name, ":") {
		return nil, fmt.Errorf("graph.NewNode: invalid node name %q", name)
	}
	if g.byName[nameKey{scope, name}] != 0 {
		return nil, fmt.Errorf("graph.NewNode: node %q already exists in scope %q", name, scope)
	}
	g.AddScope(scope)
	g.nextID++
	n := &Node{ID: g.nextID, Name: name, Scope: scope, Kind: kind}
	g.nodes[n.ID] = n
	g.byName[nameKey{scope, name}] = n.ID
	if kind == Transform {
		g.addFrameAttrs(n)
	}
	if kind == Inverse {
		n.addAttr("input", Matrix)
		n.addAttr("output", Matrix)
	}
	if kind == Multiply {
		n.addAttr("a", Matrix)
		n.addAttr("b", Matrix)
		n.addAttr("output", Matrix)
	}
	return n, nil
}

// addFrameAttrs adds the standard frame attributes of a [Transform] node.
func (g *Graph) addFrameAttrs(n *Node) {
	na := n.addAttr("name", String)
	na.Value = n.Name
	for _, nm := range []string{"initMatrix", "initInverse", "worldMatrix", "worldInverse", "localMatrix"} {
		n.addAttr(nm, Matrix)
	}
}

// SetTransformParent parents the given transform node under the given
// parent transform. A zero parent unparents it.
func (g *Graph) SetTransformParent(child, parent NodeID) error {
	cn := g.Node(child)
	if cn == nil || cn.Kind != Transform {
		return fmt.Errorf("graph.SetTransformParent: node %d is not a transform", child)
	}
	if parent != 0 {
		pn := g.Node(parent)
		if pn == nil || pn.Kind != Transform {
			return fmt.Errorf("graph.SetTransformParent: parent %d is not a transform", parent)
		}
	}
	cn.TransformParent = parent
	return nil
}

// DeleteNode deletes the given node, first disconnecting all of its
// connections, removing any published aliases referring to it, and
// removing it from its group and scope. Deleting a group that still has
// members is an error; members must be deleted or removed first.
func (g *Graph) DeleteNode(id NodeID) error {
	n := g.Node(id)
	if n == nil {
		return nil
	}
	if n.Kind == Group && len(n.Members) > 0 {
		return fmt.Errorf("graph.DeleteNode: group %q still has %d members", n.Name, len(n.Members))
	}
	var dead []Path
	for dst, src := range g.source {
		if dst.Node == id || src.Node == id {
			dead = append(dead, dst)
		}
	}
	for _, dst := range dead {
		g.disconnect(dst)
	}
	if n.Group != 0 {
		g.RemoveMember(n.Group, id)
	}
	delete(g.byName, nameKey{n.Scope, n.Name})
	delete(g.nodes, id)
	return nil
}

// RenameNode renames the given node within its scope.
func (g *Graph) RenameNode(id NodeID, name string) error {
	n := g.Node(id)
	if n == nil {
		return fmt.Errorf("graph.RenameNode: no node %d", id)
	}
	if name == n.Name {
		return nil
	}
	if name == "" || strings.Contains(name, ":") {
		return fmt.Errorf("graph.RenameNode: invalid node name %q", name)
	}
	if g.byName[nameKey{n.Scope, name}] != 0 {
		return fmt.Errorf("graph.RenameNode: node %q already exists in scope %q", name, n.Scope)
	}
	delete(g.byName, nameKey{n.Scope, n.Name})
	n.Name = name
	g.byName[nameKey{n.Scope, name}] = id
	return nil
}
