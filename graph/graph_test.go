// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// translate returns a translation matrix for testing.
func translate(x, y, z float32) math32.Matrix4 {
	var q math32.Quat
	q.SetIdentity()
	var m math32.Matrix4
	m.SetTransform(math32.Vec3(x, y, z), q, math32.Vec3(1, 1, 1))
	return m
}

func TestNewNode(t *testing.T) {
	g := New()
	n, err := g.NewNode(Plain, "char", "ctl")
	require.NoError(t, err)
	assert.Equal(t, "ctl", n.Name)
	assert.Equal(t, "char", n.Scope)
	assert.Same(t, n, g.Node(n.ID))
	assert.Same(t, n, g.FindNode("char", "ctl"))

	_, err = g.NewNode(Plain, "char", "ctl")
	assert.Error(t, err)

	_, err = g.NewNode(Plain, "char", "a:b")
	assert.Error(t, err)
}

func TestTransformFrameAttrs(t *testing.T) {
	g := New()
	n, err := g.NewNode(Transform, "", "joint")
	require.NoError(t, err)
	for _, attr := range []string{"name", "initMatrix", "initInverse", "worldMatrix", "worldInverse", "localMatrix"} {
		assert.True(t, g.HasAttr(At(n.ID, attr)), attr)
	}
	nm, err := g.StringValue(At(n.ID, "name"))
	require.NoError(t, err)
	assert.Equal(t, "joint", nm)
}

func TestAttrCompoundArray(t *testing.T) {
	g := New()
	n, err := g.NewNode(Plain, "", "io")
	require.NoError(t, err)

	_, err = g.AddAttr(n.ID, "", "xforms", Array)
	require.NoError(t, err)
	require.NoError(t, g.SetElemKind(At(n.ID, "xforms"), Compound))

	// children of an undeclared parent must fail
	_, err = g.AddAttr(n.ID, "missing", "worldMatrix", Matrix)
	assert.Error(t, err)

	e, i, err := g.AddArrayElem(At(n.ID, "xforms"))
	require.NoError(t, err)
	assert.Equal(t, 0, i)
	assert.Equal(t, Compound, e.Kind)

	_, err = g.AddAttr(n.ID, "xforms[0]", "worldMatrix", Matrix)
	require.NoError(t, err)
	assert.True(t, g.HasAttr(At(n.ID, "xforms[0].worldMatrix")))
	assert.False(t, g.HasAttr(At(n.ID, "xforms[1].worldMatrix")))
	assert.Equal(t, 1, g.ArrayLen(At(n.ID, "xforms")))

	m := translate(1, 2, 3)
	require.NoError(t, g.SetValue(At(n.ID, "xforms[0].worldMatrix"), m))
	got, err := g.Matrix(At(n.ID, "xforms[0].worldMatrix"))
	require.NoError(t, err)
	assert.Equal(t, m, *got)
}

func TestAttrLocked(t *testing.T) {
	g := New()
	n, _ := g.NewNode(Plain, "", "n")
	_, err := g.AddAttr(n.ID, "", "tag", String)
	require.NoError(t, err)
	require.NoError(t, g.SetValue(At(n.ID, "tag"), "setup"))
	require.NoError(t, g.SetLocked(At(n.ID, "tag"), true))

	assert.Error(t, g.SetValue(At(n.ID, "tag"), "other"))
	s, err := g.StringValue(At(n.ID, "tag"))
	require.NoError(t, err)
	assert.Equal(t, "setup", s)
}

func TestConnectSingleSource(t *testing.T) {
	g := New()
	a, _ := g.NewNode(Transform, "", "a")
	b, _ := g.NewNode(Transform, "", "b")
	c, _ := g.NewNode(Transform, "", "c")

	require.NoError(t, g.Connect(At(a.ID, "worldMatrix"), At(c.ID, "worldMatrix"), false))
	assert.True(t, g.Connected(At(c.ID, "worldMatrix")))
	src, ok := g.Source(At(c.ID, "worldMatrix"))
	assert.True(t, ok)
	assert.Equal(t, At(a.ID, "worldMatrix"), src)

	// second source without force fails, with force replaces
	err := g.Connect(At(b.ID, "worldMatrix"), At(c.ID, "worldMatrix"), false)
	assert.Error(t, err)
	require.NoError(t, g.Connect(At(b.ID, "worldMatrix"), At(c.ID, "worldMatrix"), true))
	src, _ = g.Source(At(c.ID, "worldMatrix"))
	assert.Equal(t, At(b.ID, "worldMatrix"), src)
	assert.Empty(t, g.Dests(At(a.ID, "worldMatrix")))

	// kind mismatch
	assert.Error(t, g.Connect(At(a.ID, "name"), At(c.ID, "worldMatrix"), false))
}

func TestConnectClearsLiteral(t *testing.T) {
	g := New()
	a, _ := g.NewNode(Transform, "", "a")
	b, _ := g.NewNode(Transform, "", "b")
	require.NoError(t, g.SetValue(At(b.ID, "worldMatrix"), translate(5, 0, 0)))
	require.NoError(t, g.SetValue(At(a.ID, "worldMatrix"), translate(1, 0, 0)))
	require.NoError(t, g.Connect(At(a.ID, "worldMatrix"), At(b.ID, "worldMatrix"), false))

	// value reads through to the source; literal writes are rejected
	m, err := g.Matrix(At(b.ID, "worldMatrix"))
	require.NoError(t, err)
	assert.Equal(t, translate(1, 0, 0), *m)
	assert.Error(t, g.SetValue(At(b.ID, "worldMatrix"), translate(9, 0, 0)))

	assert.True(t, g.Disconnect(At(b.ID, "worldMatrix")))
	assert.False(t, g.Disconnect(At(b.ID, "worldMatrix"))) // no-op when unconnected
	m, err = g.Matrix(At(b.ID, "worldMatrix"))
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestConnectCycle(t *testing.T) {
	g := New()
	a, _ := g.NewNode(Transform, "", "a")
	b, _ := g.NewNode(Transform, "", "b")
	require.NoError(t, g.Connect(At(a.ID, "worldMatrix"), At(b.ID, "worldMatrix"), false))
	err := g.Connect(At(b.ID, "worldMatrix"), At(a.ID, "worldMatrix"), false)
	assert.Error(t, err)

	// a cycle through a computation node is also rejected
	inv, _ := g.NewNode(Inverse, "", "inv")
	require.NoError(t, g.Connect(At(a.ID, "worldMatrix"), At(inv.ID, "input"), false))
	assert.Error(t, g.Connect(At(inv.ID, "output"), At(a.ID, "worldMatrix"), false))
}

func TestInverseMultiplyEval(t *testing.T) {
	g := New()
	a, _ := g.NewNode(Transform, "", "a")
	require.NoError(t, g.SetValue(At(a.ID, "worldMatrix"), translate(2, -1, 4)))

	inv, _ := g.NewNode(Inverse, "", "inv")
	require.NoError(t, g.Connect(At(a.ID, "worldMatrix"), At(inv.ID, "input"), false))

	mul, _ := g.NewNode(Multiply, "", "mul")
	require.NoError(t, g.Connect(At(a.ID, "worldMatrix"), At(mul.ID, "a"), false))
	require.NoError(t, g.Connect(At(inv.ID, "output"), At(mul.ID, "b"), false))

	out, err := g.Matrix(At(mul.ID, "output"))
	require.NoError(t, err)
	require.NotNil(t, out)
	// m * inverse(m) moves nothing
	pt := math32.Vec3(3, 7, -2).MulMatrix4(out)
	assert.InDelta(t, 3, pt.X, 1e-5)
	assert.InDelta(t, 7, pt.Y, 1e-5)
	assert.InDelta(t, -2, pt.Z, 1e-5)
}

func TestGroupPublish(t *testing.T) {
	g := New()
	grp, _ := g.NewNode(Group, "c", "cmpt")
	in, _ := g.NewNode(Plain, "c", "input")
	out, _ := g.NewNode(Plain, "c", "output")
	_, err := g.AddAttr(in.ID, "", "primaryAxis", Enum)
	require.NoError(t, err)

	// publishing a non-member fails
	assert.Error(t, g.Publish(grp.ID, "primaryAxis", At(in.ID, "primaryAxis")))

	require.NoError(t, g.AddMember(grp.ID, in.ID))
	require.NoError(t, g.AddMember(grp.ID, out.ID))
	require.NoError(t, g.Publish(grp.ID, "primaryAxis", At(in.ID, "primaryAxis")))

	// published aliases read and write through to the member attribute
	require.NoError(t, g.SetValue(At(grp.ID, "primaryAxis"), 2))
	v, err := g.Value(At(in.ID, "primaryAxis"))
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	src, ok := g.PublishedSource(grp.ID, "primaryAxis")
	assert.True(t, ok)
	assert.Equal(t, At(in.ID, "primaryAxis"), src)

	// removing the member unpublishes its aliases
	require.NoError(t, g.RemoveMember(grp.ID, in.ID))
	_, ok = g.PublishedSource(grp.ID, "primaryAxis")
	assert.False(t, ok)
}

func TestDeleteNode(t *testing.T) {
	g := New()
	grp, _ := g.NewNode(Group, "c", "cmpt")
	a, _ := g.NewNode(Transform, "c", "a")
	b, _ := g.NewNode(Transform, "c", "b")
	require.NoError(t, g.AddMember(grp.ID, a.ID))
	require.NoError(t, g.Connect(At(a.ID, "worldMatrix"), At(b.ID, "worldMatrix"), false))

	// groups with members refuse deletion
	assert.Error(t, g.DeleteNode(grp.ID))

	require.NoError(t, g.DeleteNode(a.ID))
	assert.Nil(t, g.Node(a.ID))
	assert.False(t, g.Connected(At(b.ID, "worldMatrix")))
	assert.Empty(t, g.Node(grp.ID).Members)
	require.NoError(t, g.DeleteNode(grp.ID))
}
