// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rig

import (
	"log/slog"
	"strconv"
	"strings"

	"cogentcore.org/rig/graph"
)

// matrixPairs are the frame fields derived from each other in the
// paired back-fill pass.
var matrixPairs = [][2]string{
	{"initMatrix", "initInverse"},
	{"worldMatrix", "worldInverse"},
}

// isSet reports whether the attribute is driven: connected, or
// carrying a literal value. A connection whose upstream is currently
// unset still counts, as back-fill must never shadow a live edge.
func (h *Hierarchy) isSet(p graph.Path) bool {
	g := h.Rig.Graph
	if g.Connected(p) {
		return true
	}
	v, err := g.Value(p)
	return err == nil && v != nil
}

// siblingPath returns the path of the given sibling field next to p:
// the field sharing p's parent attribute (or p's node, for top-level
// frame fields on transform nodes).
func siblingPath(p graph.Path, field string) graph.Path {
	if i := strings.LastIndex(p.Attr, "."); i >= 0 {
		return graph.Path{Node: p.Node, Attr: p.Attr[:i+1] + field}
	}
	return graph.At(p.Node, field)
}

// backfill fills any still-unset output xform fields from the inputs
// and from what is already connected, in three idempotent passes:
// names, matrix pairs, then local matrices. Each pass only ever
// touches unset fields, so re-running after further wiring is safe.
func (h *Hierarchy) backfill() error {
	nOut := h.NumXforms(Out)
	for i := range nOut {
		if err := h.backfillName(i); err != nil {
			return err
		}
	}
	for i := range nOut {
		if err := h.backfillPairs(i); err != nil {
			return err
		}
	}
	for i := range nOut {
		if err := h.backfillLocal(i); err != nil {
			return err
		}
	}
	return nil
}

// backfillName fills output slot i's name: from the matching input
// slot when the chain lengths agree, else borrowed from the frame
// feeding the output world matrix. The placeholder literal seeded at
// pre-build does not block this, as connecting clears it.
func (h *Hierarchy) backfillName(i int) error {
	g := h.Rig.Graph
	out, err := h.XformRef(Out, i)
	if err != nil {
		return err
	}
	if g.Connected(out.Name) {
		return nil
	}
	if h.NumXforms(In) == h.NumXforms(Out) {
		in, err := h.XformRef(In, i)
		if err != nil {
			return err
		}
		if h.isSet(in.Name) {
			return g.Connect(in.Name, out.Name, false)
		}
	}
	src, ok := g.Source(out.WorldMatrix)
	if !ok {
		return nil
	}
	name := siblingPath(src, "name")
	if g.HasAttr(name) {
		return g.Connect(name, out.Name, false)
	}
	return nil
}

// backfillPairs fills the unset half of each matrix pair of output
// slot i. A connected half is mirrored from its source frame when the
// source carries the paired field, else through an inverse math node
// (reused if one already hangs off the source). A literal half is
// inverted in place. When neither half is driven and the chain
// lengths agree, both halves are wired from the matching input slot.
func (h *Hierarchy) backfillPairs(i int) error {
	g := h.Rig.Graph
	out, err := h.XformRef(Out, i)
	if err != nil {
		return err
	}
	for _, pair := range matrixPairs {
		a := siblingPath(out.WorldMatrix, pair[0])
		b := siblingPath(out.WorldMatrix, pair[1])
		aSet, bSet := h.isSet(a), h.isSet(b)
		switch {
		case aSet && bSet:
		case aSet:
			if err := h.deriveInverse(a, b, pair[1]); err != nil {
				return err
			}
		case bSet:
			if err := h.deriveInverse(b, a, pair[0]); err != nil {
				return err
			}
		default:
			if h.NumXforms(In) != h.NumXforms(Out) {
				continue
			}
			in, err := h.XformRef(In, i)
			if err != nil {
				return err
			}
			for _, f := range pair {
				ip, op := siblingPath(in.WorldMatrix, f), siblingPath(out.WorldMatrix, f)
				if !h.isSet(ip) || h.isSet(op) {
					continue
				}
				if err := g.Connect(ip, op, false); err != nil {
					return structErr("backfill: %v", err)
				}
			}
		}
	}
	return nil
}

// deriveInverse drives dst with the inverse of the driven field at
// from. dstField is the frame field name of dst, used to locate the
// paired field on a frame-bearing source.
func (h *Hierarchy) deriveInverse(from, dst graph.Path, dstField string) error {
	g := h.Rig.Graph
	if src, ok := g.Source(from); ok {
		if paired := siblingPath(src, dstField); g.HasAttr(paired) {
			return g.Connect(paired, dst, false)
		}
		return h.connectInverseNode(src, dst)
	}
	// literal, invert in place
	m, err := g.Matrix(from)
	if err != nil || m == nil {
		return err
	}
	inv, err := m.Inverse()
	if err != nil {
		return structErr("backfill: singular matrix at %v: %v", from, err)
	}
	return g.SetValue(dst, *inv)
}

// connectInverseNode drives dst with an inverse math node fed from
// src, reusing an existing inverse already hanging off src.
func (h *Hierarchy) connectInverseNode(src, dst graph.Path) error {
	g := h.Rig.Graph
	for _, d := range g.Dests(src) {
		n := g.Node(d.Node)
		if n != nil && n.Kind == graph.Inverse && d.Attr == "input" {
			return g.Connect(graph.At(d.Node, "output"), dst, false)
		}
	}
	inv, err := g.NewNode(graph.Inverse, h.Scope(), h.mathNodeName("inverse"))
	if err != nil {
		return structErr("backfill: %v", err)
	}
	if err := h.RegisterNode(inv.ID); err != nil {
		return structErr("backfill: %v", err)
	}
	if err := g.Connect(src, graph.At(inv.ID, "input"), false); err != nil {
		return structErr("backfill: %v", err)
	}
	return g.Connect(graph.At(inv.ID, "output"), dst, false)
}

// backfillLocal fills output slot i's local matrix as predecessor
// world inverse times own world matrix, through a multiply math node.
// The predecessor is the previous output slot, or the attachment frame
// for the first slot. An unresolvable predecessor skips the slot.
func (h *Hierarchy) backfillLocal(i int) error {
	g := h.Rig.Graph
	out, err := h.XformRef(Out, i)
	if err != nil {
		return err
	}
	if h.isSet(out.LocalMatrix) || !h.isSet(out.WorldMatrix) {
		return nil
	}
	var predInv graph.Path
	if i > 0 {
		prev, err := h.XformRef(Out, i-1)
		if err != nil {
			return err
		}
		predInv = prev.WorldInverse
	} else {
		hp, err := h.HierParent()
		if err != nil {
			return err
		}
		predInv = hp.WorldInverse
	}
	if !h.isSet(predInv) {
		return nil
	}
	for _, d := range g.Dests(out.WorldMatrix) {
		n := g.Node(d.Node)
		if n == nil || n.Kind != graph.Multiply || d.Attr != "b" {
			continue
		}
		if a, ok := g.Source(graph.At(d.Node, "a")); ok && a == predInv {
			return g.Connect(graph.At(d.Node, "output"), out.LocalMatrix, false)
		}
	}
	mul, err := g.NewNode(graph.Multiply, h.Scope(), h.mathNodeName("local"))
	if err != nil {
		return structErr("backfill: %v", err)
	}
	if err := h.RegisterNode(mul.ID); err != nil {
		return structErr("backfill: %v", err)
	}
	if err := g.Connect(predInv, graph.At(mul.ID, "a"), false); err != nil {
		return structErr("backfill: %v", err)
	}
	if err := g.Connect(out.WorldMatrix, graph.At(mul.ID, "b"), false); err != nil {
		return structErr("backfill: %v", err)
	}
	return g.Connect(graph.At(mul.ID, "output"), out.LocalMatrix, false)
}

// mathNodeName returns the first free node name of the form base1,
// base2, ... in the component's scope.
func (h *Hierarchy) mathNodeName(base string) string {
	g := h.Rig.Graph
	for i := 1; ; i++ {
		name := base + strconv.Itoa(i)
		if g.FindNode(h.Scope(), name) == nil {
			return name
		}
	}
}

// validate warns about derivation gaps left after back-fill: an empty
// chain, more inputs than outputs, unnamed output slots, and undriven
// matrix fields. Gaps never fail the build.
func (h *Hierarchy) validate() {
	g := h.Rig.Graph
	nIn, nOut := h.NumXforms(In), h.NumXforms(Out)
	if nOut == 0 {
		slog.Warn("hierarchy has no output xforms", "component", h.Name, "scope", h.Scope())
		return
	}
	if nIn > nOut {
		slog.Warn("hierarchy has more inputs than outputs", "component", h.Name, "scope", h.Scope(), "inputs", nIn, "outputs", nOut)
	}
	for i := range nOut {
		out, err := h.XformRef(Out, i)
		if err != nil {
			slog.Warn("malformed output xform", "component", h.Name, "index", i, "err", err)
			continue
		}
		if name, _ := g.StringValue(out.Name); name == "" {
			slog.Warn("output xform has no name", "component", h.Name, "scope", h.Scope(), "index", i)
		}
		for _, pair := range matrixPairs {
			for _, f := range pair {
				if p := siblingPath(out.WorldMatrix, f); !h.isSet(p) {
					slog.Warn("output xform field is not driven", "component", h.Name, "scope", h.Scope(), "index", i, "field", f)
				}
			}
		}
	}
}
