// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rig

import (
	"slices"
)

// Args are the constructor keyword arguments of a component, tracking
// which ones were consumed. Arguments left unconsumed after build are
// non-fatal warnings, so component schemas can drift without breaking
// existing callers.
type Args struct {
	vals map[string]any
	used map[string]bool
}

// NewArgs returns [Args] over the given keyword map, which may be nil.
func NewArgs(kw map[string]any) *Args {
	return &Args{vals: kw, used: map[string]bool{}}
}

// Value returns the argument with the given name, marking it consumed.
func (a *Args) Value(name string) (any, bool) {
	v, ok := a.vals[name]
	if ok {
		a.used[name] = true
	}
	return v, ok
}

// Has reports whether the argument is present, without consuming it.
func (a *Args) Has(name string) bool {
	_, ok := a.vals[name]
	return ok
}

// Int returns the named int argument, or the given default.
func (a *Args) Int(name string, def int) int {
	if v, ok := a.Value(name); ok {
		if i, ok := v.(int); ok {
			return i
		}
	}
	return def
}

// Bool returns the named bool argument, or the given default.
func (a *Args) Bool(name string, def bool) bool {
	if v, ok := a.Value(name); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// String returns the named string argument, or the given default.
func (a *Args) String(name string, def string) string {
	if v, ok := a.Value(name); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Unused returns the names of arguments never consumed, sorted.
func (a *Args) Unused() []string {
	var un []string
	for name := range a.vals {
		if !a.used[name] {
			un = append(un, name)
		}
	}
	slices.Sort(un)
	return un
}

// Raw returns the underlying keyword map, for rebuilding a structural
// twin with the same arguments.
func (a *Args) Raw() map[string]any {
	return a.vals
}
