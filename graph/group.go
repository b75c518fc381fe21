// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"fmt"
	"slices"
)

// AddMember adds the given node as a member of the given group.
// A node is a member of at most one group at a time.
func (g *Graph) AddMember(group, id NodeID) error {
	gn := g.Node(group)
	if gn == nil || gn.Kind != Group {
		return fmt.Errorf("graph.AddMember: node %d is not a group", group)
	}
	n := g.Node(id)
	if n == nil {
		return fmt.Errorf("graph.AddMember: no node %d", id)
	}
	if n.Group == group {
		return nil
	}
	if n.Group != 0 {
		return fmt.Errorf("graph.AddMember: node %q is already a member of group %d", n.Name, n.Group)
	}
	n.Group = group
	gn.Members = append(gn.Members, id)
	return nil
}

// RemoveMember removes the given node from the given group, together
// with any attributes published from it.
func (g *Graph) RemoveMember(group, id NodeID) error {
	gn := g.Node(group)
	if gn == nil || gn.Kind != Group {
		return fmt.Errorf("graph.RemoveMember: node %d is not a group", group)
	}
	n := g.Node(id)
	if n == nil || n.Group != group {
		return fmt.Errorf("graph.RemoveMember: node %d is not a member of group %q", id, gn.Name)
	}
	n.Group = 0
	if i := slices.Index(gn.Members, id); i >= 0 {
		gn.Members = slices.Delete(gn.Members, i, i+1)
	}
	for i := gn.Published.Len() - 1; i >= 0; i-- {
		if gn.Published.Values[i].Node == id {
			gn.Published.DeleteByIndex(i, i+1)
		}
	}
	return nil
}

// IsMember reports whether the given node is a member of the given group.
func (g *Graph) IsMember(group, id NodeID) bool {
	n := g.Node(id)
	return n != nil && n.Group == group
}

// Publish exposes the given member attribute on the group under the
// given alias, so the group can be addressed at [Path]{group, alias}.
// The attribute must live on a member of the group.
func (g *Graph) Publish(group NodeID, alias string, member Path) error {
	gn := g.Node(group)
	if gn == nil || gn.Kind != Group {
		return fmt.Errorf("graph.Publish: node %d is not a group", group)
	}
	if alias == "" {
		return fmt.Errorf("graph.Publish: empty alias on group %q", gn.Name)
	}
	if !g.IsMember(group, member.Node) {
		return fmt.Errorf("graph.Publish: node %d of %v is not a member of group %q", member.Node, member, gn.Name)
	}
	if _, err := g.Attr(member); err != nil {
		return fmt.Errorf("graph.Publish: %w", err)
	}
	if cur, ok := gn.Published.AtTry(alias); ok && cur != member {
		return fmt.Errorf("graph.Publish: alias %q on group %q already publishes %v", alias, gn.Name, cur)
	}
	gn.Published.Set(alias, member)
	return nil
}

// Unpublish removes the given published alias from the group,
// reporting whether it was published.
func (g *Graph) Unpublish(group NodeID, alias string) bool {
	gn := g.Node(group)
	if gn == nil || gn.Kind != Group {
		return false
	}
	return gn.Published.DeleteByKey(alias)
}

// PublishedSource returns the member attribute published on the given
// group under the given alias, and false if there is none.
func (g *Graph) PublishedSource(group NodeID, alias string) (Path, bool) {
	gn := g.Node(group)
	if gn == nil || gn.Kind != Group {
		return Path{}, false
	}
	return gn.Published.AtTry(alias)
}

// canonical resolves published group aliases to the member attribute
// they publish, so connections and values address the real attribute.
func (g *Graph) canonical(p Path) Path {
	for range 16 { // alias chains are short; bound against malformed publishing
		n := g.Node(p.Node)
		if n == nil || n.Kind != Group {
			return p
		}
		m, ok := n.Published.AtTry(p.Attr)
		if !ok {
			return p
		}
		p = m
	}
	return p
}
