// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rig

import (
	"strconv"

	"cogentcore.org/rig/graph"
)

func init() {
	RegisterClass(&Class{Tag: "setup", Suffix: "setup", MinXforms: 1, RootTransform: true, Instance: &Setup{}})
	RegisterClass(&Class{Tag: "motion", Suffix: "motion", MinXforms: 1, Instance: &Motion{}})
	RegisterClass(&Class{Tag: "control", Suffix: "ctl", MinXforms: 1, MaxXforms: 1, Instance: &Control{}})
}

// Setup is the skeleton setup component: it materializes one transform
// node per input xform, chained under the component root transform,
// and exposes their live frames as its output chain. It is typically
// the source other chains adopt from.
type Setup struct {
	Hierarchy

	// Joints are the created transform nodes, in chain order.
	Joints []graph.NodeID `copier:"-"`
}

func (s *Setup) OverrideBuild(args *Args) error {
	g := s.Rig.Graph
	prev := s.RootTransform
	n := s.NumXforms(In)
	s.Joints = make([]graph.NodeID, 0, n)
	for i := range n {
		in, err := s.XformRef(In, i)
		if err != nil {
			return err
		}
		name, _ := g.StringValue(in.Name)
		if name == "" {
			name = s.Name + strconv.Itoa(i+1)
		}
		t, err := g.NewNode(graph.Transform, s.Scope(), name)
		if err != nil {
			return structErr("setup: %v", err)
		}
		if err := s.RegisterNode(t.ID); err != nil {
			return err
		}
		if err := g.SetTransformParent(t.ID, prev); err != nil {
			return structErr("setup: %v", err)
		}
		for _, f := range []string{"initMatrix", "initInverse", "worldMatrix", "worldInverse"} {
			ip := siblingPath(in.WorldMatrix, f)
			if s.isSet(ip) {
				if err := g.Connect(ip, graph.At(t.ID, f), false); err != nil {
					return structErr("setup: %v", err)
				}
			}
		}
		out, err := s.XformRef(Out, i)
		if err != nil {
			return err
		}
		if err := g.Connect(graph.At(t.ID, "worldMatrix"), out.WorldMatrix, false); err != nil {
			return structErr("setup: %v", err)
		}
		if err := g.Connect(graph.At(t.ID, "initMatrix"), out.InitMatrix, false); err != nil {
			return structErr("setup: %v", err)
		}
		s.Joints = append(s.Joints, t.ID)
		prev = t.ID
	}
	return nil
}

// Motion is the motion-system base: a pass-through chain that adopts
// its frames from a source hierarchy (given as the "source" creation
// argument) and republishes them as outputs, giving motion setups a
// stable frame surface to build on.
type Motion struct {
	Hierarchy
}

func (m *Motion) OnPreBuild(args *Args) error {
	if !args.Has("source") {
		return structErr("motion %q needs a source hierarchy", m.Name)
	}
	return m.Hierarchy.OnPreBuild(args)
}

// Control is a single-frame animation control. Its transform node is
// the designated hook slot, so chains hooked onto a control follow
// the animated pose rather than the control's own input.
type Control struct {
	Hierarchy

	// Ctl is the control's transform node.
	Ctl graph.NodeID `copier:"-"`
}

func (c *Control) OverrideBuild(args *Args) error {
	g := c.Rig.Graph
	in, err := c.XformRef(In, 0)
	if err != nil {
		return err
	}
	name, _ := g.StringValue(in.Name)
	if name == "" {
		name = c.Name
	}
	t, err := g.NewNode(graph.Transform, c.Scope(), name)
	if err != nil {
		return structErr("control: %v", err)
	}
	if err := c.RegisterNode(t.ID); err != nil {
		return err
	}
	c.Ctl = t.ID
	for _, f := range []string{"initMatrix", "initInverse", "worldMatrix", "worldInverse"} {
		ip := siblingPath(in.WorldMatrix, f)
		if c.isSet(ip) {
			if err := g.Connect(ip, graph.At(t.ID, f), false); err != nil {
				return structErr("control: %v", err)
			}
		}
	}
	out, err := c.XformRef(Out, 0)
	if err != nil {
		return err
	}
	return g.Connect(graph.At(t.ID, "worldMatrix"), out.WorldMatrix, false)
}

func (c *Control) HookSlotXform() (XformRef, error) {
	return TransformRef(c.Rig.Graph, c.Ctl)
}
