// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package device

import "time"

// Action is the small alphabet of abstract actions raw device events are
// translated into. Navigation, selection, playback, and volume intents are
// expressed here so the rest of the engine never sees physical key codes.
// Skip is accepted only while the intro video is running.
type Action int

const (
	NoAction Action = iota
	NavPrev
	NavNext
	Select
	Back
	PlayToggle
	SeekBackShort
	SeekBackLong
	SeekFwdShort
	SeekFwdLong
	Settings
	VolumeUp
	VolumeDown
	Quit
	Skip
)

// LongPressThreshold is the duration distinguishing a tap from a long
// press.
const LongPressThreshold = 300 * time.Millisecond

// DefaultKeymap is the development keyboard mapping: arrows navigate,
// Enter/Space select, 1/2/3 drive prev/play-toggle/next, the 4 key opens
// settings on tap (long press is reserved for the sample-content mode used
// on demo units), and Q/Esc quit.
var DefaultKeymap = map[string]Action{
	"La":  NavPrev,
	"Ra":  NavNext,
	"Ret": Select,
	"Sp":  Select,
	"1":   NavPrev,
	"2":   PlayToggle,
	"3":   NavNext,
	"Q":   Quit,
	"Esc": Quit,
}

// tapHoldKey is the physical key gated behind the tap/long-press threshold (the
// default keymap's "4" key).
const tapHoldKey = "4"

// ActionQueue accumulates abstract actions across the frame in
// input-receive order and is drained once per tick by the main loop.
type ActionQueue struct {
	pending    []Action
	heldSince  map[string]time.Time
	fired      map[string]bool
}

// NewActionQueue returns an empty queue.
func NewActionQueue() *ActionQueue {
	return &ActionQueue{heldSince: map[string]time.Time{}, fired: map[string]bool{}}
}

// Push appends an already-resolved action, preserving arrival order.
func (q *ActionQueue) Push(a Action) {
	if a == NoAction {
		return
	}
	q.pending = append(q.pending, a)
}

// Drain returns and clears all actions queued since the last Drain, in
// arrival order. A simple FIFO with no dropping: an event burst within one
// tick is processed completely, in order, before the frame renders.
func (q *ActionQueue) Drain() []Action {
	out := q.pending
	q.pending = nil
	return out
}

// FeedKeymap converts a raw keyboard Pressed.Down map into abstract actions
// using keymap, applying the tap/long-press split for tapHoldKey. now is
// passed in (rather than using time.Now in a library used for
// record/replay-style testing) so tests can simulate elapsed hold time.
func (q *ActionQueue) FeedKeymap(down map[string]int, keymap map[string]Action, now time.Time) {
	for key, ticks := range down {
		if key == tapHoldKey {
			q.feedTapHold(key, ticks, now)
			continue
		}
		if ticks != 1 {
			continue // a fresh press is first observed at one tick, held keys count up.
		}
		if a, ok := keymap[key]; ok {
			q.Push(a)
		}
	}
}

// feedTapHold implements the tap/long-press debounce for the 4 key: a
// release before the threshold fires Settings; holding past the threshold
// is recognized once and consumed without an engine action (the demo-unit
// sample mode is handled outside the engine).
func (q *ActionQueue) feedTapHold(key string, ticks int, now time.Time) {
	if ticks == 1 { // first observation of the press.
		q.heldSince[key] = now
		q.fired[key] = false
		return
	}
	if ticks < 0 { // released
		if start, ok := q.heldSince[key]; ok && !q.fired[key] {
			if now.Sub(start) < LongPressThreshold {
				q.Push(Settings)
			}
		}
		delete(q.heldSince, key)
		delete(q.fired, key)
		return
	}
	if start, ok := q.heldSince[key]; ok && !q.fired[key] {
		if now.Sub(start) >= LongPressThreshold {
			q.fired[key] = true
			// long-press recognized; base spec leaves this as SAMPLE_MODE
			// with no defined engine action, so nothing is pushed here.
		}
	}
}
