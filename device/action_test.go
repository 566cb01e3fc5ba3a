// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package device

import (
	"testing"
	"time"
)

// actions drain in arrival order, even for bursts far larger than one
// tick would normally see.
func TestQueueOrder(t *testing.T) {
	q := NewActionQueue()
	want := make([]Action, 0, 1000)
	for i := 0; i < 1000; i++ {
		a := NavNext
		if i%2 == 0 {
			a = NavPrev
		}
		q.Push(a)
		want = append(want, a)
	}
	got := q.Drain()
	if len(got) != len(want) {
		t.Fatalf("drained %d of %d actions", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order broken at %d", i)
		}
	}
	if len(q.Drain()) != 0 {
		t.Errorf("second drain not empty")
	}
}

// NoAction pushes are dropped.
func TestNoActionDropped(t *testing.T) {
	q := NewActionQueue()
	q.Push(NoAction)
	if len(q.Drain()) != 0 {
		t.Errorf("NoAction was queued")
	}
}

// keymap presses fire once on the initial press tick, not while held.
func TestKeymapFiresOnPressOnly(t *testing.T) {
	q := NewActionQueue()
	now := time.Now()
	q.FeedKeymap(map[string]int{"Ra": 1}, DefaultKeymap, now)
	q.FeedKeymap(map[string]int{"Ra": 5}, DefaultKeymap, now)
	got := q.Drain()
	if len(got) != 1 || got[0] != NavNext {
		t.Fatalf("expected one NavNext, got %v", got)
	}
}

// the 4 key is tap/long-press gated: a release inside the threshold is
// the settings tap, holding past it consumes the press silently.
func TestTapHoldThreshold(t *testing.T) {
	q := NewActionQueue()
	start := time.Now()

	// tap: press then release 100ms later.
	q.FeedKeymap(map[string]int{"4": 1}, DefaultKeymap, start)
	q.FeedKeymap(map[string]int{"4": -999}, DefaultKeymap, start.Add(100*time.Millisecond))
	got := q.Drain()
	if len(got) != 1 || got[0] != Settings {
		t.Fatalf("tap should fire Settings, got %v", got)
	}

	// hold: press, held past the threshold, then release.
	q.FeedKeymap(map[string]int{"4": 1}, DefaultKeymap, start)
	q.FeedKeymap(map[string]int{"4": 10}, DefaultKeymap, start.Add(400*time.Millisecond))
	q.FeedKeymap(map[string]int{"4": -999}, DefaultKeymap, start.Add(500*time.Millisecond))
	if got := q.Drain(); len(got) != 0 {
		t.Fatalf("hold should not fire Settings, got %v", got)
	}
}
