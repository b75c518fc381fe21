// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"fmt"
	"slices"

	"cogentcore.org/core/math32"
)

// Connect connects the source attribute to the destination attribute,
// so that reading the destination reads through to the source. Each sink
// has at most one source: connecting an already-connected destination is
// an error unless force is set, which first disconnects it. Connecting
// clears any literal value on the destination. A connection that would
// close a data-flow cycle is rejected.
func (g *Graph) Connect(src, dst Path, force bool) error {
	src = g.canonical(src)
	dst = g.canonical(dst)
	sa, err := g.Attr(src)
	if err != nil {
		return fmt.Errorf("graph.Connect: source: %w", err)
	}
	da, err := g.Attr(dst)
	if err != nil {
		return fmt.Errorf("graph.Connect: destination: %w", err)
	}
	if sa.Kind == Compound || sa.Kind == Array {
		return fmt.Errorf("graph.Connect: cannot connect compound or array attribute %v", src)
	}
	if sa.Kind != da.Kind {
		return fmt.Errorf("graph.Connect: kind mismatch: %v is %d, %v is %d", src, sa.Kind, dst, da.Kind)
	}
	if da.Locked {
		return fmt.Errorf("graph.Connect: destination %v is locked", dst)
	}
	if cur, ok := g.source[dst]; ok {
		if cur == src {
			return nil
		}
		if !force {
			return fmt.Errorf("graph.Connect: destination %v already has source %v", dst, cur)
		}
		g.disconnect(dst)
	}
	if g.reaches(dst, src) {
		return fmt.Errorf("graph.Connect: %v -> %v would close a cycle", src, dst)
	}
	g.source[dst] = src
	g.dests[src] = append(g.dests[src], dst)
	da.Value = nil
	return nil
}

// reaches reports whether data flowing out of from can reach to,
// following connections and the input -> output dependency inside
// computation nodes.
func (g *Graph) reaches(from, to Path) bool {
	if from == to {
		return true
	}
	seen := map[Path]bool{}
	stack := []Path{from}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[p] {
			continue
		}
		seen[p] = true
		if p == to {
			return true
		}
		stack = append(stack, g.dests[p]...)
		if n := g.Node(p.Node); n != nil && (n.Kind == Inverse || n.Kind == Multiply) && p.Attr != "output" {
			stack = append(stack, At(p.Node, "output"))
		}
	}
	return false
}

// Disconnect removes the incoming connection of the given attribute,
// reporting whether there was one. Disconnecting an unconnected
// attribute is a no-op.
func (g *Graph) Disconnect(dst Path) bool {
	return g.disconnect(g.canonical(dst))
}

func (g *Graph) disconnect(dst Path) bool {
	src, ok := g.source[dst]
	if !ok {
		return false
	}
	delete(g.source, dst)
	ds := g.dests[src]
	if i := slices.Index(ds, dst); i >= 0 {
		ds = slices.Delete(ds, i, i+1)
	}
	if len(ds) == 0 {
		delete(g.dests, src)
	} else {
		g.dests[src] = ds
	}
	return true
}

// Source returns the source attribute of the given sink,
// and false if it has no incoming connection.
func (g *Graph) Source(dst Path) (Path, bool) {
	src, ok := g.source[g.canonical(dst)]
	return src, ok
}

// Connected reports whether the given attribute has an incoming connection.
func (g *Graph) Connected(p Path) bool {
	_, ok := g.source[g.canonical(p)]
	return ok
}

// Dests returns the sinks connected from the given source attribute,
// in connection order.
func (g *Graph) Dests(src Path) []Path {
	return g.dests[g.canonical(src)]
}

// Value returns the evaluated value of the given attribute: the value of
// its source if connected, the computed output for computation nodes,
// and otherwise its literal value. An unset attribute yields nil.
func (g *Graph) Value(p Path) (any, error) {
	p = g.canonical(p)
	a, err := g.Attr(p)
	if err != nil {
		return nil, err
	}
	if src, ok := g.source[p]; ok {
		return g.Value(src)
	}
	if n := g.Node(p.Node); n != nil && p.Attr == "output" {
		switch n.Kind {
		case Inverse:
			in, err := g.Matrix(At(p.Node, "input"))
			if err != nil || in == nil {
				return nil, err
			}
			inv, err := in.Inverse()
			if err != nil {
				return nil, fmt.Errorf("graph.Value: inverse node %q: %w", n.Name, err)
			}
			return *inv, nil
		case Multiply:
			ma, err := g.Matrix(At(p.Node, "a"))
			if err != nil || ma == nil {
				return nil, err
			}
			mb, err := g.Matrix(At(p.Node, "b"))
			if err != nil || mb == nil {
				return nil, err
			}
			var out math32.Matrix4
			out.MulMatrices(ma, mb)
			return out, nil
		}
	}
	return a.Value, nil
}

// Matrix returns the evaluated matrix value of the given attribute,
// or nil if it is unset.
func (g *Graph) Matrix(p Path) (*math32.Matrix4, error) {
	v, err := g.Value(p)
	if err != nil || v == nil {
		return nil, err
	}
	m, ok := v.(math32.Matrix4)
	if !ok {
		return nil, fmt.Errorf("graph.Matrix: %v is not a matrix attribute", p)
	}
	return &m, nil
}

// StringValue returns the evaluated string value of the given attribute,
// or "" if it is unset.
func (g *Graph) StringValue(p Path) (string, error) {
	v, err := g.Value(p)
	if err != nil || v == nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("graph.StringValue: %v is not a string attribute", p)
	}
	return s, nil
}
