// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rig

import (
	"strconv"
	"strings"

	"cogentcore.org/rig/graph"
)

// computeScope returns the scope path for the component's current
// name, side, and parent: the parent scope plus one level combining
// the side token, instance name, and class suffix through the class
// name format.
func (cb *ComponentBase) computeScope() string {
	parent := ""
	if p := cb.Parent(); p != nil {
		parent = p.AsComponent().scope
	}
	format := cb.Class.NameFormat
	if format == "" {
		format = Settings.NameFormat
	}
	leaf := renderScopeLeaf(format, Settings.SideToken(cb.Side), cb.Name, cb.Class.Suffix)
	return graph.JoinScope(parent, leaf)
}

// allocScope returns a free scope path for the component, keeping its
// current scope if the computed one matches it. On a collision with a
// different existing scope, the instance name is disambiguated by
// stripping trailing digits and appending the smallest free integer.
func (cb *ComponentBase) allocScope() string {
	g := cb.Rig.Graph
	s := cb.computeScope()
	if s == cb.scope || !g.ScopeExists(s) {
		return s
	}
	base := strings.TrimRight(cb.Name, "0123456789")
	for i := 1; ; i++ {
		cb.Name = base + strconv.Itoa(i)
		s = cb.computeScope()
		if s == cb.scope || !g.ScopeExists(s) {
			return s
		}
	}
}

// RenameNodes re-materializes the component's names: it moves the
// grouping node and every owned member node to the scope computed from
// the current name, side, and parent, recurses into children, and
// deletes the old scope if left empty. It is idempotent absent
// structural change.
func (cb *ComponentBase) RenameNodes() error {
	if cb.Rig == nil || cb.Group == 0 {
		return nil
	}
	g := cb.Rig.Graph
	s := cb.allocScope()
	if s != cb.scope {
		old := cb.scope
		if err := g.RenameScope(old, s); err != nil {
			return structErr("RenameNodes: %v", err)
		}
		// fix the recorded scopes of this component and all descendants,
		// whose nodes just moved with the scope rename
		cb.WalkDown(func(c Component) bool {
			ccb := c.AsComponent()
			if ccb.scope == old || strings.HasPrefix(ccb.scope, old+graph.ScopeSep) {
				ccb.scope = s + ccb.scope[len(old):]
			}
			return Continue
		})
		g.SetValue(graph.At(cb.Group, "name"), cb.Name)
	}
	for _, c := range cb.ChildComponents() {
		if err := c.AsComponent().RenameNodes(); err != nil {
			return err
		}
	}
	return nil
}
