// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/rig/graph"
)

func TestSchemaMergeOverride(t *testing.T) {
	base := NewSchema().Add(
		Attr{Name: "a", Kind: graph.Float},
		Attr{Name: "b", Kind: graph.Float, Default: float32(1)},
		Attr{Name: "c", Kind: graph.String},
	)
	over := NewSchema().Add(
		Attr{Name: "b", Kind: graph.Float, Default: float32(2)},
		Attr{Name: "d", Kind: graph.Bool},
	)
	base.Merge(over)
	assert.Equal(t, []string{"a", "b", "c", "d"}, base.Keys)
	b, ok := base.AtTry("b")
	require.True(t, ok)
	assert.Equal(t, float32(2), b.Default)
}

func TestSchemaMergeNil(t *testing.T) {
	s := NewSchema().Add(Attr{Name: "a", Kind: graph.Float})
	s.Merge(nil)
	assert.Equal(t, 1, s.Len())
}

func newMaterializeTarget(t *testing.T) (*graph.Graph, graph.NodeID, graph.NodeID) {
	t.Helper()
	g := graph.New()
	grp, err := g.NewNode(graph.Group, "test", "group")
	require.NoError(t, err)
	n, err := g.NewNode(graph.Plain, "test", "input")
	require.NoError(t, err)
	require.NoError(t, g.AddMember(grp.ID, n.ID))
	return g, n.ID, grp.ID
}

func TestMaterialize(t *testing.T) {
	g, node, grp := newMaterializeTarget(t)
	s := NewSchema().Add(
		Attr{Name: "settings", Kind: graph.Compound},
		Attr{Name: "stretch", Kind: graph.Bool, Parent: "settings", Default: true, Publish: true},
		Attr{Name: "side", Kind: graph.Enum, Default: Left, Locked: true},
		Attr{Name: "label", Kind: graph.String, Publish: true, Alias: "displayName"},
	)
	require.NoError(t, Materialize(g, node, grp, s))

	assert.True(t, g.HasAttr(graph.At(node, "settings.stretch")))
	v, err := g.Value(graph.At(node, "settings.stretch"))
	require.NoError(t, err)
	assert.Equal(t, true, v)

	// enum defaults materialize as their int value
	v, err = g.Value(graph.At(node, "side"))
	require.NoError(t, err)
	assert.Equal(t, int(Left), v)

	// locked after defaulting: further writes are rejected
	assert.Error(t, g.SetValue(graph.At(node, "side"), int(Right)))

	// published attributes read through the grouping node alias
	v, err = g.Value(graph.At(grp, "stretch"))
	require.NoError(t, err)
	assert.Equal(t, true, v)
	src, ok := g.PublishedSource(grp, "displayName")
	assert.True(t, ok)
	assert.Equal(t, graph.At(node, "label"), src)
}

func TestMaterializeUndeclaredParent(t *testing.T) {
	g, node, grp := newMaterializeTarget(t)
	s := NewSchema().Add(
		Attr{Name: "orphan", Kind: graph.Float, Parent: "missing"},
	)
	err := Materialize(g, node, grp, s)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchema)
}

func TestMaterializeOrderIndependentOfAddOrder(t *testing.T) {
	// overriding an already-added descriptor keeps its position, so a
	// parent stays ahead of its children no matter when it is refined
	g, node, grp := newMaterializeTarget(t)
	s := NewSchema().Add(
		Attr{Name: "pose", Kind: graph.Compound},
		Attr{Name: "blend", Kind: graph.Float, Parent: "pose", Default: float32(0)},
	)
	s.Add(Attr{Name: "pose", Kind: graph.Compound})
	require.NoError(t, Materialize(g, node, grp, s))
	assert.True(t, g.HasAttr(graph.At(node, "pose.blend")))
}
