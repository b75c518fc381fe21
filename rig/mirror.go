// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rig

import (
	"github.com/jinzhu/copier"

	"cogentcore.org/rig/graph"
)

// Mirror builds (or returns) the mirror twin of this component: a
// component of the same class, name, and parent on the opposite side,
// created by replaying this component's creation arguments with the
// side flipped and any component-valued arguments resolved to their
// own mirror counterparts. Child components are twinned recursively.
// The twin and this component are directly linked; recursively twinned
// children are not, and find each other structurally (see
// [ComponentBase.MirrorComponent]). Only sided components can be
// mirrored.
func (cb *ComponentBase) Mirror() (Component, error) {
	if m := cb.MirrorComponent(); m != nil && m != cb.This {
		return m, nil
	}
	if cb.Side != Left && cb.Side != Right {
		return nil, structErr("Mirror: component %q has side %v, not left or right", cb.Name, cb.Side)
	}
	return cb.buildTwin(cb.Parent(), true)
}

// buildTwin creates the opposite-side twin of this component under
// the given parent, linking the two directly only when link is set.
func (cb *ComponentBase) buildTwin(parent Component, link bool) (Component, error) {
	nc := NewOfClass(cb.Class)
	if err := copier.Copy(nc, cb.This); err != nil {
		return nil, structErr("Mirror: %v", err)
	}
	kw := map[string]any{}
	if cb.args != nil {
		for k, v := range cb.args.Raw() {
			if c, ok := v.(Component); ok {
				if m := c.AsComponent().MirrorComponent(); m != nil {
					v = m
				}
			}
			kw[k] = v
		}
	}
	kw["side"] = cb.Side.Opposite()
	if err := cb.Rig.Create(nc, cb.Name, parent, kw); err != nil {
		return nil, err
	}
	ncb := nc.AsComponent()
	if link {
		cb.mirrorDest = ncb.ID
		ncb.mirrorSrc = cb.ID
	}
	if err := cb.remapMirrorAttrs(nc); err != nil {
		return nil, err
	}
	for _, ch := range cb.ChildComponents() {
		if _, err := ch.AsComponent().buildTwin(nc, false); err != nil {
			return nil, err
		}
	}
	return nc, nil
}

// remapMirrorAttrs applies the mirror options of the input schema to
// the twin: "opposite" attributes get the flipped value of this
// component's current one, and "connect" attributes are driven from
// this component's. Attributes the twin adopted from elsewhere are
// left alone.
func (cb *ComponentBase) remapMirrorAttrs(twin Component) error {
	g := cb.Rig.Graph
	tcb := twin.AsComponent()
	for _, a := range twin.InputSchema().Values {
		mode, ok := a.Options[MirrorOption].(string)
		if !ok {
			continue
		}
		src := graph.Path{Node: cb.Input, Attr: a.Path()}
		dst := graph.Path{Node: tcb.Input, Attr: a.Path()}
		switch mode {
		case MirrorConnect:
			if err := g.Connect(src, dst, true); err != nil {
				return structErr("Mirror: %v", err)
			}
		case MirrorOpposite:
			if g.Connected(dst) {
				continue
			}
			v, err := g.Value(src)
			if err != nil || v == nil {
				continue
			}
			iv, ok := v.(int)
			if !ok {
				continue
			}
			var fv int
			if a.Options["enum"] == "side" {
				fv = int(Side(iv).Opposite())
			} else {
				fv = int(Axis(iv).Opposite())
			}
			if err := g.SetValue(dst, fv); err != nil {
				return structErr("Mirror: %v", err)
			}
		}
	}
	return nil
}

// MirrorComponent returns this component's mirror counterpart, or nil
// if there is none. A directly linked twin is returned as is; an
// unsided component is its own counterpart. Otherwise the counterpart
// is found structurally: walk up to the nearest directly linked
// ancestor, then walk the same route down the twin's subtree, matching
// levels by child index when the sibling counts agree and by sideless
// scope name when they do not.
func (cb *ComponentBase) MirrorComponent() Component {
	r := cb.Rig
	if r == nil {
		return nil
	}
	if t := r.Component(cb.mirrorDest); t != nil {
		return t
	}
	if t := r.Component(cb.mirrorSrc); t != nil {
		return t
	}
	if cb.Side != Left && cb.Side != Right {
		return cb.This
	}
	type level struct {
		siblings int
		index    int
		short    string
	}
	var route []level
	cur := cb
	var linked Component
	for linked == nil {
		p := cur.Parent()
		if p == nil {
			return nil
		}
		pcb := p.AsComponent()
		route = append(route, level{pcb.NumChildren(), cur.IndexInParent(), cur.shortScopeName()})
		if t := r.Component(pcb.mirrorDest); t != nil {
			linked = t
		} else if t := r.Component(pcb.mirrorSrc); t != nil {
			linked = t
		} else {
			cur = pcb
		}
	}
	node := linked
	for i := len(route) - 1; i >= 0; i-- {
		lv := route[i]
		ncb := node.AsComponent()
		var next Component
		if ncb.NumChildren() == lv.siblings && lv.index >= 0 {
			next = ncb.Child(lv.index)
		} else {
			for _, ch := range ncb.ChildComponents() {
				if ch.AsComponent().shortScopeName() == lv.short {
					next = ch
					break
				}
			}
		}
		if next == nil {
			return nil
		}
		node = next
	}
	return node
}

// shortScopeName renders this component's scope leaf without its side
// token, for side-independent structural matching.
func (cb *ComponentBase) shortScopeName() string {
	format := cb.Class.NameFormat
	if format == "" {
		format = Settings.NameFormat
	}
	return renderScopeLeaf(format, "", cb.Name, cb.Class.Suffix)
}
