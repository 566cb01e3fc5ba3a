// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package crt

import "testing"

// intensities are clamped on the way in.
func TestIntensityClamp(t *testing.T) {
	p := NewPass(nil, 640, 480)
	p.SetIntensities(Intensities{Scanlines: 1.7, Warmth: -0.3, Bloom: 0.5})
	if p.in.Scanlines != 1 || p.in.Warmth != 0 || p.in.Bloom != 0.5 {
		t.Errorf("clamp produced %+v", p.in)
	}
}

// the pass is skipped entirely when every intensity is zero: Begin must
// not touch the renderer at all (a nil renderer proves it).
func TestZeroIntensitiesSkipPass(t *testing.T) {
	p := NewPass(nil, 640, 480)
	if p.Active() {
		t.Fatalf("all-zero pass reported active")
	}
	if p.Begin() {
		t.Fatalf("all-zero pass captured the frame")
	}
	p.End() // must be a no-op after a non-capturing Begin.
}

// the operator scanline toggle forces scanlines to zero without touching
// the stored intensity; a pass that was only scanlines becomes inactive.
func TestScanlinesToggle(t *testing.T) {
	p := NewPass(nil, 640, 480)
	p.SetIntensities(Intensities{Scanlines: 0.8})
	if !p.Active() {
		t.Fatalf("scanlines-only pass should be active")
	}
	p.SetScanlinesEnabled(false)
	if p.Active() {
		t.Fatalf("disabled scanlines should deactivate a scanlines-only pass")
	}
	if p.in.Scanlines != 0.8 {
		t.Errorf("toggle clobbered the stored intensity: %f", p.in.Scanlines)
	}
	p.SetScanlinesEnabled(true)
	if !p.Active() {
		t.Fatalf("re-enabling scanlines should reactivate the pass")
	}
}
