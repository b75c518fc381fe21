// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/core/math32"
	"cogentcore.org/rig/graph"
)

// translate returns a pure translation matrix.
func translate(x, y, z float32) math32.Matrix4 {
	var q math32.Quat
	q.SetIdentity()
	var m math32.Matrix4
	m.SetTransform(math32.Vec3(x, y, z), q, math32.Vec3(1, 1, 1))
	return m
}

// assertPos asserts that the matrix maps the origin to the given point.
func assertPos(t *testing.T, m *math32.Matrix4, x, y, z float32) {
	t.Helper()
	require.NotNil(t, m)
	p := math32.Vec3(0, 0, 0).MulMatrix4(m)
	tol := float64(Settings.Tolerance)
	assert.InDelta(t, float64(x), float64(p.X), tol)
	assert.InDelta(t, float64(y), float64(p.Y), tol)
	assert.InDelta(t, float64(z), float64(p.Z), tol)
}

// spineXforms is a three-frame chain along the Y axis.
func spineXforms() []XformData {
	return []XformData{
		NewXform("hips", translate(0, 1, 0)),
		NewXform("chest", translate(0, 2, 0)),
		NewXform("head", translate(0, 3, 0)),
	}
}

func TestLifecycle(t *testing.T) {
	r := NewRig()
	s, err := NewComponent[*Setup](r, "spine", nil, map[string]any{
		"side": Center, "xforms": spineXforms(),
	})
	require.NoError(t, err)
	assert.Equal(t, PostBuilt, s.State)
	assert.Equal(t, "spine", s.Name)
	assert.Equal(t, Center, s.Side)
	assert.Equal(t, "m_spine_setup", s.Scope())
	assert.NotZero(t, s.Group)
	assert.NotZero(t, s.Input)
	assert.NotZero(t, s.Output)
	assert.NotZero(t, s.RootTransform)

	// grouping node carries the locked class tag
	tag, err := r.Graph.StringValue(graph.At(s.Group, "class"))
	require.NoError(t, err)
	assert.Equal(t, "setup", tag)
	assert.Error(t, r.Graph.SetValue(graph.At(s.Group, "class"), "other"))

	// node ownership resolves back to the component
	assert.Equal(t, Component(s), r.ComponentForNode(s.Input))
	c, err := FromNode(r, s.Group)
	require.NoError(t, err)
	assert.Equal(t, Component(s), c)
}

func TestCreateDefaultsNameToTag(t *testing.T) {
	r := NewRig()
	s, err := NewComponent[*Setup](r, "", nil, map[string]any{"count": 1})
	require.NoError(t, err)
	assert.Equal(t, "setup", s.Name)
	assert.Equal(t, "setup_setup", s.Scope())
}

func TestCreateRejectsRebuild(t *testing.T) {
	r := NewRig()
	s, err := NewComponent[*Setup](r, "spine", nil, map[string]any{"count": 1})
	require.NoError(t, err)
	err = r.Create(s, "spine", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructural)
}

func TestCreateRejectsBadSide(t *testing.T) {
	r := NewRig()
	_, err := NewComponent[*Setup](r, "spine", nil, map[string]any{"side": "west", "count": 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructural)
}

func TestScopeCollisionDisambiguation(t *testing.T) {
	r := NewRig()
	a, err := NewComponent[*Setup](r, "arm", nil, map[string]any{"side": Left, "count": 1})
	require.NoError(t, err)
	b, err := NewComponent[*Setup](r, "arm", nil, map[string]any{"side": Left, "count": 1})
	require.NoError(t, err)
	assert.Equal(t, "l_arm_setup", a.Scope())
	assert.Equal(t, "arm1", b.Name)
	assert.Equal(t, "l_arm1_setup", b.Scope())

	// the stripped numeric tail keeps numbering dense
	c, err := NewComponent[*Setup](r, "arm1", nil, map[string]any{"side": Left, "count": 1})
	require.NoError(t, err)
	assert.Equal(t, "arm2", c.Name)
}

func TestChildComposition(t *testing.T) {
	r := NewRig()
	s, err := NewComponent[*Setup](r, "spine", nil, map[string]any{"side": Center, "xforms": spineXforms()})
	require.NoError(t, err)
	var ctls []*Control
	for _, name := range []string{"hips", "chest", "head"} {
		c, err := NewComponent[*Control](r, name, s, map[string]any{"side": Center})
		require.NoError(t, err)
		ctls = append(ctls, c)
	}
	assert.Equal(t, 3, s.NumChildren())
	assert.Equal(t, Component(ctls[1]), s.Child(1))
	assert.Equal(t, 1, ctls[1].IndexInParent())
	assert.Equal(t, Component(s), ctls[2].Parent())
	assert.Equal(t, Component(s), ctls[2].Root())
	assert.Len(t, s.Descendants("control"), 3)
	assert.Empty(t, s.Descendants("motion"))
	assert.Equal(t, "m_spine_setup:m_chest_ctl", ctls[1].Scope())
}

func TestRenameNodes(t *testing.T) {
	r := NewRig()
	s, err := NewComponent[*Setup](r, "spine", nil, map[string]any{"side": Center, "xforms": spineXforms()})
	require.NoError(t, err)
	c, err := NewComponent[*Control](r, "hips", s, map[string]any{"side": Center})
	require.NoError(t, err)

	s.Name = "torso"
	require.NoError(t, s.RenameNodes())
	assert.Equal(t, "m_torso_setup", s.Scope())
	assert.Equal(t, "m_torso_setup:m_hips_ctl", c.Scope())
	assert.False(t, r.Graph.ScopeExists("m_spine_setup"))
	assert.NotNil(t, r.Graph.FindNode("m_torso_setup", "group"))
	assert.NotNil(t, r.Graph.FindNode("m_torso_setup:m_hips_ctl", "input"))

	// name tag follows the rename
	name, err := r.Graph.StringValue(graph.At(s.Group, "name"))
	require.NoError(t, err)
	assert.Equal(t, "torso", name)

	// renaming again without change is a no-op
	require.NoError(t, s.RenameNodes())
	assert.Equal(t, "m_torso_setup", s.Scope())
}

func TestDestroy(t *testing.T) {
	r := NewRig()
	s, err := NewComponent[*Setup](r, "spine", nil, map[string]any{"side": Center, "xforms": spineXforms()})
	require.NoError(t, err)
	c, err := NewComponent[*Control](r, "hips", s, map[string]any{"side": Center})
	require.NoError(t, err)
	cid := c.ID

	c.Destroy()
	assert.Nil(t, r.Component(cid))
	assert.Equal(t, 0, s.NumChildren())
	assert.False(t, r.Graph.ScopeExists("m_spine_setup:m_hips_ctl"))
	assert.True(t, r.Graph.ScopeExists("m_spine_setup"))

	n := r.Graph.NumNodes()
	sid := s.ID
	s.Destroy()
	assert.Nil(t, r.Component(sid))
	assert.Less(t, r.Graph.NumNodes(), n)
	assert.Equal(t, 0, r.Graph.NumNodes())
}

func TestFromNodeErrors(t *testing.T) {
	r := NewRig()
	n, err := r.Graph.NewNode(graph.Plain, "", "loose")
	require.NoError(t, err)
	_, err = FromNode(r, n.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructural)
}
