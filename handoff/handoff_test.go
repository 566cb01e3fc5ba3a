// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package handoff

import (
	"errors"
	"testing"
)

type fakeDisplay struct {
	dropErr    error
	reclaimErr error
	drops      int
	reclaims   int
	failUntil  int // reclaim fails until this many attempts have happened.
}

func (f *fakeDisplay) DropMaster() error {
	f.drops++
	return f.dropErr
}
func (f *fakeDisplay) ReclaimMaster() error {
	f.reclaims++
	if f.failUntil > 0 && f.reclaims <= f.failUntil {
		return errors.New("busy")
	}
	return f.reclaimErr
}

type fakeStopper struct{ stops int }

func (f *fakeStopper) Stop() { f.stops++ }

type fakeResetter struct{ resets int }

func (f *fakeResetter) ResetGL() { f.resets++ }

// a failed drop aborts the handoff before the emulator starts and leaves
// GL state untouched.
func TestDropFailureAborts(t *testing.T) {
	d := &fakeDisplay{dropErr: errors.New("denied")}
	s := &fakeStopper{}
	g := &fakeResetter{}
	r := NewRunner(d, s, g)
	r.Command = "/bin/true"
	if err := r.Run("rom.bin", ""); err == nil {
		t.Fatalf("expected drop failure to abort")
	}
	if s.stops != 1 {
		t.Errorf("pipeline not stopped before drop")
	}
	if d.reclaims != 0 || g.resets != 0 {
		t.Errorf("recovery ran after an aborted handoff")
	}
}

// a complete run stops the pipeline, leases the display, and resets every
// GL owner exactly once. The emulator's exit code is informational only.
func TestRunRecovers(t *testing.T) {
	d := &fakeDisplay{}
	s := &fakeStopper{}
	g1, g2 := &fakeResetter{}, &fakeResetter{}
	r := NewRunner(d, s, g1, g2)
	r.Command = "/bin/false" // nonzero exit is non-fatal.
	if err := r.Run("rom.bin", "bezel.png"); err != nil {
		t.Fatalf("run failed: %s", err)
	}
	if d.drops != 1 || d.reclaims != 1 {
		t.Errorf("drop/reclaim counts %d/%d", d.drops, d.reclaims)
	}
	if g1.resets != 1 || g2.resets != 1 {
		t.Errorf("GL resets %d/%d", g1.resets, g2.resets)
	}
}

// reclaim retries up to three times before surfacing display loss.
func TestReclaimRetries(t *testing.T) {
	d := &fakeDisplay{failUntil: 2}
	r := NewRunner(d, &fakeStopper{})
	r.Command = "/bin/true"
	if err := r.Run("rom.bin", ""); err != nil {
		t.Fatalf("expected third reclaim attempt to succeed: %s", err)
	}
	if d.reclaims != 3 {
		t.Errorf("expected 3 reclaim attempts, got %d", d.reclaims)
	}

	d = &fakeDisplay{failUntil: 99}
	r = NewRunner(d, &fakeStopper{})
	r.Command = "/bin/true"
	err := r.Run("rom.bin", "")
	if !errors.Is(err, ErrDisplayLost) {
		t.Fatalf("expected ErrDisplayLost, got %v", err)
	}
	if d.reclaims != 3 {
		t.Errorf("expected exactly 3 reclaim attempts, got %d", d.reclaims)
	}
}
