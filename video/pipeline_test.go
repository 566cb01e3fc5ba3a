// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package video

import (
	"testing"
)

// the single-slot buffer drops offered frames while full and hands the
// main thread at most one frame per take.
func TestFrameSlotDropOnFull(t *testing.T) {
	s := &frameSlot{}
	a := &Frame{PTS: 1}
	b := &Frame{PTS: 2}
	if !s.put(a) {
		t.Fatalf("empty slot refused a frame")
	}
	if s.put(b) {
		t.Fatalf("full slot accepted a second frame")
	}
	if got := s.take(); got != a {
		t.Fatalf("take returned %v, want the first frame", got)
	}
	if got := s.take(); got != nil {
		t.Fatalf("empty slot returned %v", got)
	}
	if !s.put(b) {
		t.Fatalf("drained slot refused a frame")
	}
	s.drain()
	if got := s.take(); got != nil {
		t.Fatalf("drained slot still held %v", got)
	}
}

// timing scalars round-trip through their atomic encoding.
func TestPlayStateAtomics(t *testing.T) {
	ps := &playState{}
	ps.setPosition(12.25)
	ps.setDuration(30.5)
	if ps.Position() != 12.25 || ps.Duration() != 30.5 {
		t.Errorf("position/duration %f/%f", ps.Position(), ps.Duration())
	}
	ps.setError("PIPELINE_ERROR: decode failed")
	if ps.lastError() == "" {
		t.Errorf("error flag lost")
	}
	ps.reset()
	if ps.Position() != 0 || ps.Duration() != 0 || ps.playing.Load() {
		t.Errorf("reset left state dirty")
	}
}

// the mock pipeline honors the stop-then-load contract: position zero and
// a positive duration once loaded.
func TestNoVideoStopLoad(t *testing.T) {
	n := &NoVideo{Dur: 30}
	if !n.Load("a.mp4", 0, 0, false) {
		t.Fatalf("load refused")
	}
	n.Advance(12)
	n.Stop()
	if n.Position() != 0 || n.Duration() != 0 || n.Active() {
		t.Errorf("stop did not idle the pipeline")
	}
	if !n.Load("b.mp4", 0, 0, false) {
		t.Fatalf("reload refused")
	}
	if n.Position() != 0 || n.Duration() != 30 || !n.Active() {
		t.Errorf("load state position=%f duration=%f active=%t",
			n.Position(), n.Duration(), n.Active())
	}
}
