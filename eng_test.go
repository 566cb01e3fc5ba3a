// Copyright © 2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kiosk

import (
	"path/filepath"
	"testing"

	"github.com/fadeframe/kiosk/settings"
	"github.com/fadeframe/kiosk/uistate"
)

// menuEngine builds just enough engine state to exercise the menu tree
// without claiming a display.
func menuEngine(t *testing.T) *Engine {
	t.Helper()
	store, err := settings.Open(filepath.Join(t.TempDir(), "settings.yaml"))
	if err != nil {
		t.Fatalf("settings: %s", err)
	}
	return &Engine{store: store, bezels: []string{"bezel0.png"}}
}

// menu labels are functions of live state: changing a setting must change
// the label without any other bookkeeping.
func TestMenuLabelsTrackState(t *testing.T) {
	eng := menuEngine(t)
	labels := eng.menuLabels(uistate.SectionDisplay)
	if labels[0] != "Mode: crt_native" {
		t.Errorf("mode label %q", labels[0])
	}

	s := eng.store.Current()
	s.DisplayMode = settings.ModernTV
	s.Effects.Scanlines = 1
	if err := eng.store.Set(s); err != nil {
		t.Fatalf("set: %s", err)
	}
	labels = eng.menuLabels(uistate.SectionDisplay)
	if labels[0] != "Mode: modern_tv" {
		t.Errorf("mode label after toggle %q", labels[0])
	}
	if labels[2] != "Scanlines: high" {
		t.Errorf("scanlines label %q", labels[2])
	}
}

// every section reports a stable entry count with a trailing Back/Close.
func TestMenuEntryCounts(t *testing.T) {
	eng := menuEngine(t)
	counts := map[uistate.Section]int{
		uistate.SectionRoot:    5,
		uistate.SectionDisplay: 10,
		uistate.SectionAudio:   3,
		uistate.SectionInfo:    1,
	}
	for section, want := range counts {
		if got := eng.menuEntryCount(section); got != want {
			t.Errorf("section %d count %d, want %d", section, got, want)
		}
	}
}

// intensity cycling walks off -> low -> medium -> high -> off.
func TestCycleIntensity(t *testing.T) {
	steps := []float64{0, 0.25, 0.5, 1, 0}
	v := 0.0
	for i := 1; i < len(steps); i++ {
		v = cycleIntensity(v)
		if v != steps[i] {
			t.Fatalf("step %d: got %f want %f", i, v, steps[i])
		}
	}
}

func TestClock(t *testing.T) {
	if got := clock(83.4); got != "1:23" {
		t.Errorf("clock(83.4) = %q", got)
	}
	if got := clock(-5); got != "0:00" {
		t.Errorf("clock(-5) = %q", got)
	}
}
