// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rig

import (
	"strings"

	"cogentcore.org/rig/graph"
)

// HookSource is a normalized attachment source: the three paths a
// chain's attachment frame is driven from. Produce one with
// [NormalizeHookSource].
type HookSource struct {
	WorldMatrix  graph.Path
	WorldInverse graph.Path
	InitInverse  graph.Path
}

// HookSlotXformer is implemented by components that designate one
// specific frame as their attachment point for incoming hooks,
// overriding the default of the last output xform.
type HookSlotXformer interface {
	Hierer

	// HookSlotXform returns the frame other components hook onto.
	HookSlotXform() (XformRef, error)
}

// NormalizeHookSource resolves any of the accepted hook source forms
// to the three attachment paths:
//   - [HookSource]: passed through.
//   - [HierParentRef]: the frame's own three fields.
//   - [XformRef]: world matrix, world inverse, and init inverse.
//   - [graph.NodeID] of a transform node: its standard frame fields.
//   - [graph.Path] of a frame's world matrix: siblings supply the rest.
//   - [HookSlotXformer]: its designated slot.
//   - any other [Hierer]: the terminal frame reached by walking the
//     chain forward from its last output xform (see [HookXform]).
func NormalizeHookSource(r *Rig, src any) (HookSource, error) {
	switch s := src.(type) {
	case HookSource:
		return s, nil
	case HierParentRef:
		return HookSource{s.WorldMatrix, s.WorldInverse, s.InitInverse}, nil
	case XformRef:
		return HookSource{s.WorldMatrix, s.WorldInverse, s.InitInverse}, nil
	case graph.NodeID:
		x, err := TransformRef(r.Graph, s)
		if err != nil {
			return HookSource{}, err
		}
		return NormalizeHookSource(r, x)
	case graph.Path:
		hs := HookSource{s, siblingPath(s, "worldInverse"), siblingPath(s, "initInverse")}
		for _, p := range []graph.Path{hs.WorldMatrix, hs.WorldInverse, hs.InitInverse} {
			if !r.Graph.HasAttr(p) {
				return HookSource{}, structErr("hook source %v is not part of a frame", s)
			}
		}
		return hs, nil
	case HookSlotXformer:
		x, err := s.HookSlotXform()
		if err != nil {
			return HookSource{}, err
		}
		return NormalizeHookSource(r, x)
	case Hierer:
		h := s.AsHierarchy()
		n := h.NumXforms(Out)
		if n == 0 {
			return HookSource{}, structErr("hook source %q has no output xforms", h.Name)
		}
		x, err := h.XformRef(Out, n-1)
		if err != nil {
			return HookSource{}, err
		}
		return NormalizeHookSource(r, HookXform(r, x, h.This))
	}
	return HookSource{}, structErr("cannot hook onto %T", src)
}

// HookXform walks the chain forward from the given frame to the
// terminal frame actually carrying its pose: within a component whose
// chain ends match in length, an input slot advances to the output
// slot at the same index; an output frame advances to the downstream
// input slot consuming its world matrix. The walk stops at a frame
// with no continuation, or before re-entering the subtree rooted at
// origin (nil to disable the re-entry check).
func HookXform(r *Rig, x XformRef, origin Component) XformRef {
	seen := map[graph.Path]bool{}
	for !seen[x.WorldMatrix] {
		seen[x.WorldMatrix] = true
		next, ok := hookStep(r, x, origin)
		if !ok {
			break
		}
		x = next
	}
	return x
}

// hookStep advances one frame along the chain, or reports false at a
// terminal frame.
func hookStep(r *Rig, x XformRef, origin Component) (XformRef, bool) {
	g := r.Graph
	if c := r.ComponentForNode(x.Node); c != nil && x.Index >= 0 {
		cb := c.AsComponent()
		if h := AsHierarchy(c); h != nil && x.Node == cb.Input && h.NumXforms(In) == h.NumXforms(Out) {
			if out, err := h.XformRef(Out, x.Index); err == nil {
				return out, true
			}
		}
	}
	for _, d := range g.Dests(x.WorldMatrix) {
		c := r.ComponentForNode(d.Node)
		if c == nil || d.Node != c.AsComponent().Input {
			continue
		}
		if !strings.HasPrefix(d.Attr, "xforms[") || !strings.HasSuffix(d.Attr, "].worldMatrix") {
			continue
		}
		if origin != nil && inSubtree(c, origin) {
			continue
		}
		h := AsHierarchy(c)
		if h == nil {
			continue
		}
		base := graph.At(d.Node, "xforms")
		for i := range h.NumXforms(In) {
			if base.Index(i).Child("worldMatrix") == d {
				if in, err := h.XformRef(In, i); err == nil {
					return in, true
				}
			}
		}
	}
	return XformRef{}, false
}

// inSubtree reports whether c lies in the composition subtree rooted
// at root.
func inSubtree(c, root Component) bool {
	found := false
	c.AsComponent().WalkUp(func(p Component) bool {
		if p.AsComponent().ID == root.AsComponent().ID {
			found = true
			return Break
		}
		return Continue
	})
	return found
}

// hookFrontier returns the hierarchy whose attachment frame an
// incoming hook must actually drive: the highest component this one's
// attachment frame is adopted from, reached by following attachment
// edges upward.
func (h *Hierarchy) hookFrontier() *Hierarchy {
	g := h.Rig.Graph
	cur := h
	for {
		hp, err := cur.HierParent()
		if err != nil {
			return cur
		}
		src, ok := g.Source(hp.WorldMatrix)
		if !ok || src.Attr != "hierParent.worldMatrix" {
			return cur
		}
		c := h.Rig.ComponentForNode(src.Node)
		up := AsHierarchy(c)
		if up == nil || up == cur {
			return cur
		}
		cur = up
	}
}

// Hook attaches this component's chain under the given source,
// driving the attachment frame at the hook frontier and marking the
// chain as parented. An existing hook is replaced. With mirror set,
// the mirror counterparts of this component and (when the source is a
// component) of the source are hooked the same way; a missing
// counterpart makes the mirrored half a no-op.
func (h *Hierarchy) Hook(src any, mirror bool) error {
	g := h.Rig.Graph
	hs, err := NormalizeHookSource(h.Rig, src)
	if err != nil {
		return err
	}
	f := h.hookFrontier()
	hp, err := f.HierParent()
	if err != nil {
		return err
	}
	from := [3]graph.Path{hs.WorldMatrix, hs.WorldInverse, hs.InitInverse}
	to := hp.paths()
	for i := range from {
		if err := g.Connect(from[i], to[i], true); err != nil {
			return structErr("Hook: %v", err)
		}
	}
	has := graph.At(f.Input, "hasParent")
	if !g.Connected(has) {
		if err := g.SetValue(has, true); err != nil {
			return structErr("Hook: %v", err)
		}
	}
	if mirror {
		if mc := h.MirrorComponent(); mc != nil {
			msrc := src
			if sc, ok := src.(Component); ok {
				msrc = sc.AsComponent().MirrorComponent()
			}
			if mh := AsHierarchy(mc); mh != nil && msrc != nil {
				if err := mh.Hook(msrc, false); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Unhook detaches the chain: the attachment frame fields at the hook
// frontier are disconnected and the parented flag cleared. Unhooking a
// never-hooked chain is a no-op. With mirror set, the mirror
// counterpart is unhooked too when present.
func (h *Hierarchy) Unhook(mirror bool) error {
	g := h.Rig.Graph
	f := h.hookFrontier()
	hp, err := f.HierParent()
	if err != nil {
		return err
	}
	for _, p := range hp.paths() {
		g.Disconnect(p)
	}
	has := graph.At(f.Input, "hasParent")
	if !g.Connected(has) {
		if err := g.SetValue(has, false); err != nil {
			return structErr("Unhook: %v", err)
		}
	}
	if mirror {
		if mh := AsHierarchy(h.MirrorComponent()); mh != nil {
			return mh.Unhook(false)
		}
	}
	return nil
}
