// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"fmt"
	"strings"
)

// Name scopes are hierarchical namespaces with ":" separating levels,
// such as "char:l_arm:ik". Every node lives in exactly one scope; the
// empty string is the always-present root scope.

// ScopeSep is the scope level separator.
const ScopeSep = ":"

// JoinScope joins scope levels, skipping empty ones.
func JoinScope(levels ...string) string {
	var b strings.Builder
	for _, l := range levels {
		if l == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(ScopeSep)
		}
		b.WriteString(l)
	}
	return b.String()
}

// inScope reports whether the given scope is the given base scope
// or nested anywhere under it.
func inScope(scope, base string) bool {
	if base == "" {
		return true
	}
	return scope == base || strings.HasPrefix(scope, base+ScopeSep)
}

// AddScope declares the given scope and all of its parent scopes.
// Declaring an existing scope is a no-op.
func (g *Graph) AddScope(scope string) {
	for scope != "" {
		if g.scopes[scope] {
			return
		}
		g.scopes[scope] = true
		li := strings.LastIndex(scope, ScopeSep)
		if li < 0 {
			return
		}
		scope = scope[:li]
	}
}

// ScopeExists reports whether the given scope has been declared
// or contains any node.
func (g *Graph) ScopeExists(scope string) bool {
	if scope == "" {
		return true
	}
	if g.scopes[scope] {
		return true
	}
	for _, n := range g.nodes {
		if inScope(n.Scope, scope) {
			return true
		}
	}
	return false
}

// ScopeEmpty reports whether the given scope and all scopes nested
// under it contain no nodes.
func (g *Graph) ScopeEmpty(scope string) bool {
	for _, n := range g.nodes {
		if inScope(n.Scope, scope) {
			return false
		}
	}
	return true
}

// NodesInScope returns the nodes living directly in the given scope
// (not in nested scopes), in no particular order.
func (g *Graph) NodesInScope(scope string) []*Node {
	var ns []*Node
	for _, n := range g.nodes {
		if n.Scope == scope {
			ns = append(ns, n)
		}
	}
	return ns
}

// SetNodeScope moves the given node into the given scope,
// declaring the scope if needed.
func (g *Graph) SetNodeScope(id NodeID, scope string) error {
	n := g.Node(id)
	if n == nil {
		return fmt.Errorf("graph.SetNodeScope: no node %d", id)
	}
	if n.Scope == scope {
		return nil
	}
	if g.byName[nameKey{scope, n.Name}] != 0 {
		return fmt.Errorf("graph.SetNodeScope: node %q already exists in scope %q", n.Name, scope)
	}
	g.AddScope(scope)
	delete(g.byName, nameKey{n.Scope, n.Name})
	n.Scope = scope
	g.byName[nameKey{scope, n.Name}] = id
	return nil
}

// RenameScope renames the given scope, moving every node in it and in
// scopes nested under it. Renaming a scope to itself is a no-op, so the
// operation is idempotent. The new scope must not already exist.
func (g *Graph) RenameScope(old, new string) error {
	if old == new {
		return nil
	}
	if old == "" || new == "" {
		return fmt.Errorf("graph.RenameScope: cannot rename the root scope")
	}
	if g.ScopeExists(new) {
		return fmt.Errorf("graph.RenameScope: scope %q already exists", new)
	}
	for _, n := range g.nodes {
		if !inScope(n.Scope, old) {
			continue
		}
		ns := new + n.Scope[len(old):]
		delete(g.byName, nameKey{n.Scope, n.Name})
		n.Scope = ns
		g.byName[nameKey{ns, n.Name}] = n.ID
	}
	var moved []string
	for s := range g.scopes {
		if inScope(s, old) {
			moved = append(moved, s)
		}
	}
	for _, s := range moved {
		delete(g.scopes, s)
		g.scopes[new+s[len(old):]] = true
	}
	g.AddScope(new)
	return nil
}

// DeleteScope removes the given scope declaration and those of all
// scopes nested under it. The scope must be empty of nodes.
func (g *Graph) DeleteScope(scope string) error {
	if scope == "" {
		return fmt.Errorf("graph.DeleteScope: cannot delete the root scope")
	}
	if !g.ScopeEmpty(scope) {
		return fmt.Errorf("graph.DeleteScope: scope %q is not empty", scope)
	}
	for s := range g.scopes {
		if inScope(s, scope) {
			delete(g.scopes, s)
		}
	}
	return nil
}
