// SPDX-FileCopyrightText : © 2022 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package settings

import (
	"path/filepath"
	"testing"
)

// TestOpenMissingUsesDefaults: an absent file yields defaults.
func TestOpenMissingUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "settings.yaml"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := store.Current(); got != Defaults() {
		t.Fatalf("Current() = %+v, want defaults %+v", got, Defaults())
	}
}

// TestRoundTrip: a settings write then read yields an identical semantic
// struct, so a scanlines toggle survives a process restart.
func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	want := store.Current()
	want.Effects.Scanlines = 0.5
	want.DisplayMode = ModernTV
	want.AudioOutput = HDMI
	want.MasterVolume = 42
	if err := store.Set(want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := reopened.Current(); got != want {
		t.Fatalf("reopened = %+v, want %+v", got, want)
	}
}

// TestEffectsClamp: intensities are forced into [0,1] on load and set.
func TestEffectsClamp(t *testing.T) {
	e := Effects{Scanlines: -1, Warmth: 2, Glow: 0.5}
	e.Clamp()
	if e.Scanlines != 0 || e.Warmth != 1 || e.Glow != 0.5 {
		t.Fatalf("Clamp() = %+v", e)
	}
}
