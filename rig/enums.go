// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rig

import "fmt"

// Side is the side of the character a component belongs to.
// It contributes the side token of the component's name scope
// and is remapped to its opposite when mirroring.
type Side int32

const (
	// NoSide is a component with no side; it contributes no side token.
	NoSide Side = iota

	// Left is the character's left side.
	Left

	// Right is the character's right side.
	Right

	// Center is on the character's center line; it is its own opposite.
	Center
)

var sideNames = map[Side]string{NoSide: "none", Left: "left", Right: "right", Center: "center"}

func (s Side) String() string {
	if n, ok := sideNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Side(%d)", int32(s))
}

// SetString sets the side from its string representation.
func (s *Side) SetString(str string) error {
	for v, n := range sideNames {
		if n == str {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("rig.Side: invalid side %q", str)
}

// Opposite returns the mirrored side: Left <-> Right, with NoSide and
// Center mapping to themselves.
func (s Side) Opposite() Side {
	switch s {
	case Left:
		return Right
	case Right:
		return Left
	}
	return s
}

// Axis is a signed orientation basis axis, used for the primary and
// secondary orientation of a hierarchy chain. It is remapped to its
// opposite when mirroring.
type Axis int32

const (
	XAxis Axis = iota
	YAxis
	ZAxis
	NegXAxis
	NegYAxis
	NegZAxis
)

var axisNames = map[Axis]string{
	XAxis: "x", YAxis: "y", ZAxis: "z",
	NegXAxis: "-x", NegYAxis: "-y", NegZAxis: "-z",
}

func (a Axis) String() string {
	if n, ok := axisNames[a]; ok {
		return n
	}
	return fmt.Sprintf("Axis(%d)", int32(a))
}

// SetString sets the axis from its string representation.
func (a *Axis) SetString(str string) error {
	for v, n := range axisNames {
		if n == str {
			*a = v
			return nil
		}
	}
	return fmt.Errorf("rig.Axis: invalid axis %q", str)
}

// Opposite returns the sign-flipped axis: X <-> -X, Y <-> -Y, Z <-> -Z.
func (a Axis) Opposite() Axis {
	switch a {
	case XAxis, YAxis, ZAxis:
		return a + NegXAxis
	case NegXAxis, NegYAxis, NegZAxis:
		return a - NegXAxis
	}
	return a
}

// States are the lifecycle states of a component. State only ever
// advances, atomically per stage, and PostBuilt is terminal.
type States int32

const (
	// Unbuilt is a freshly constructed component with no graph backing.
	Unbuilt States = iota

	// PreBuilt has its grouping, input, and output nodes materialized
	// from schema and is attached to its parent.
	PreBuilt

	// Built has run its type-specific build.
	Built

	// PostBuilt has derived remaining outputs and been validated.
	// It is the terminal state.
	PostBuilt
)

var stateNames = map[States]string{Unbuilt: "unbuilt", PreBuilt: "pre-built", Built: "built", PostBuilt: "post-built"}

func (s States) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("States(%d)", int32(s))
}

// IO selects the input or output end of a hierarchy xform chain.
type IO int32

const (
	// In is the input xform chain.
	In IO = iota

	// Out is the output xform chain.
	Out
)

func (io IO) String() string {
	if io == In {
		return "input"
	}
	return "output"
}
