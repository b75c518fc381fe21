// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinScope(t *testing.T) {
	assert.Equal(t, "char:l_arm:ik", JoinScope("char", "l_arm", "ik"))
	assert.Equal(t, "char:arm", JoinScope("char", "", "arm"))
	assert.Equal(t, "", JoinScope("", ""))
}

func TestScopeExistsEmpty(t *testing.T) {
	g := New()
	assert.True(t, g.ScopeExists(""))
	assert.False(t, g.ScopeExists("char"))

	_, err := g.NewNode(Plain, "char:l_arm", "ctl")
	require.NoError(t, err)
	assert.True(t, g.ScopeExists("char"))
	assert.True(t, g.ScopeExists("char:l_arm"))
	assert.False(t, g.ScopeEmpty("char"))
	assert.False(t, g.ScopeEmpty("char:l_arm"))
	assert.True(t, g.ScopeEmpty("char:r_arm"))

	g.AddScope("char:r_arm")
	assert.True(t, g.ScopeExists("char:r_arm"))
	assert.True(t, g.ScopeEmpty("char:r_arm"))
}

func TestRenameScope(t *testing.T) {
	g := New()
	n, err := g.NewNode(Plain, "char:arm", "ctl")
	require.NoError(t, err)
	sub, err := g.NewNode(Plain, "char:arm:ik", "solver")
	require.NoError(t, err)

	require.NoError(t, g.RenameScope("char:arm", "char:arm1"))
	assert.Equal(t, "char:arm1", n.Scope)
	assert.Equal(t, "char:arm1:ik", sub.Scope)
	assert.Same(t, n, g.FindNode("char:arm1", "ctl"))
	assert.Same(t, sub, g.FindNode("char:arm1:ik", "solver"))
	assert.False(t, g.ScopeExists("char:arm"))

	// renaming to itself is a no-op
	require.NoError(t, g.RenameScope("char:arm1", "char:arm1"))
	assert.Equal(t, "char:arm1", n.Scope)

	// renaming onto an existing scope fails
	_, err = g.NewNode(Plain, "char:leg", "ctl")
	require.NoError(t, err)
	assert.Error(t, g.RenameScope("char:arm1", "char:leg"))
}

func TestDeleteScope(t *testing.T) {
	g := New()
	n, err := g.NewNode(Plain, "char:arm", "ctl")
	require.NoError(t, err)
	assert.Error(t, g.DeleteScope("char:arm"))

	require.NoError(t, g.DeleteNode(n.ID))
	require.NoError(t, g.DeleteScope("char:arm"))
	assert.False(t, g.ScopeExists("char:arm"))
	assert.True(t, g.ScopeExists("char")) // parent declaration remains
}
