// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rig

import (
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// SettingsData holds the rig naming and tolerance settings.
type SettingsData struct {
	// NameFormat is the default template combining the side token,
	// instance name, and class suffix into one scope level. Classes can
	// override it with [Class.NameFormat].
	NameFormat string `toml:"name-format"`

	// SideTokens are the scope name tokens per side, keyed by the
	// [Side] string name. [NoSide] has no token.
	SideTokens map[string]string `toml:"side-tokens"`

	// Tolerance is the absolute tolerance for matrix comparisons.
	Tolerance float32 `toml:"tolerance"`
}

// Settings are the active rig settings. They apply to naming of
// components created after any change.
var Settings = SettingsData{
	NameFormat: "{side}_{name}_{suffix}",
	SideTokens: map[string]string{"left": "l", "right": "r", "center": "m"},
	Tolerance:  1.0e-5,
}

// SideToken returns the scope name token for the given side,
// which is empty for [NoSide].
func (sd *SettingsData) SideToken(s Side) string {
	if s == NoSide {
		return ""
	}
	return sd.SideTokens[s.String()]
}

// OpenSettings reads [Settings] from the given TOML file.
func OpenSettings(filename string) error {
	b, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return toml.Unmarshal(b, &Settings)
}

// SaveSettings writes [Settings] to the given TOML file.
func SaveSettings(filename string) error {
	b, err := toml.Marshal(&Settings)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0666)
}

// renderScopeLeaf renders one scope level from the given format,
// substituting {side}, {name}, and {suffix} and collapsing the
// separators left by empty tokens.
func renderScopeLeaf(format, side, name, suffix string) string {
	leaf := strings.NewReplacer("{side}", side, "{name}", name, "{suffix}", suffix).Replace(format)
	for strings.Contains(leaf, "__") {
		leaf = strings.ReplaceAll(leaf, "__", "_")
	}
	return strings.Trim(leaf, "_")
}
