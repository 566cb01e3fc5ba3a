// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package playback

import (
	"testing"

	"github.com/fadeframe/kiosk/playlist"
)

// fakePipeline is a scriptable no-op Pipeline fake, in the spirit of the
// audio.NoAudio pattern (a fake built from the same interface production
// code uses).
type fakePipeline struct {
	loadOK     map[string]bool
	position   float64
	duration   float64
	paused     bool
	active     bool
	lastErr    string
	loadedPath string
}

func newFakePipeline() *fakePipeline {
	return &fakePipeline{loadOK: map[string]bool{}}
}

func (f *fakePipeline) Load(path string, startS, endS float64, loop bool) bool {
	f.loadedPath = path
	ok, known := f.loadOK[path]
	if !known {
		ok = true
	}
	if !ok {
		f.lastErr = "file not found: " + path
		return false
	}
	f.position, f.duration, f.active = 0, 30, false
	return true
}
func (f *fakePipeline) Stop()                        { f.position, f.duration, f.active = 0, 0, false }
func (f *fakePipeline) SeekAbsolute(s float64)        { f.position = s }
func (f *fakePipeline) SeekRelative(d float64)        { f.position += d }
func (f *fakePipeline) TogglePause()                  { f.paused = !f.paused }
func (f *fakePipeline) SetVolume(percent int)         {}
func (f *fakePipeline) Position() float64             { return f.position }
func (f *fakePipeline) Duration() float64             { return f.duration }
func (f *fakePipeline) Paused() bool                   { return f.paused }
func (f *fakePipeline) Active() bool                   { return f.active }
func (f *fakePipeline) LastError() string              { return f.lastErr }

func twoItemPlaylist(loop bool) playlist.Playlist {
	return playlist.Playlist{
		Title: "Two",
		Loop:  loop,
		Items: []playlist.Item{
			{Title: "A", SourceType: playlist.Local, Path: "a.mp4"},
			{Title: "B", SourceType: playlist.Local, Path: "b.mp4"},
		},
	}
}

func TestLoadItemSuccess(t *testing.T) {
	p := newFakePipeline()
	c := NewController(p)
	c.SetPlaylist(twoItemPlaylist(false), "/media")
	if !c.LoadItem(0) {
		t.Fatalf("LoadItem(0) failed")
	}
	if c.State().CurrentItemIndex != 0 {
		t.Fatalf("CurrentItemIndex = %d, want 0", c.State().CurrentItemIndex)
	}
}

// TestAutoAdvanceFiresOnce: auto-advance fires at most once per
// (current_item_index, duration) pair.
func TestAutoAdvanceFiresOnce(t *testing.T) {
	p := newFakePipeline()
	c := NewController(p)
	c.SetPlaylist(twoItemPlaylist(false), "/media")
	c.LoadItem(0)
	p.duration = 30
	p.active = true
	p.position = 29.8 // within 0.5s of duration

	c.UpdateState(0.02)
	if c.State().CurrentItemIndex != 1 {
		t.Fatalf("expected auto-advance to item 1, got %d", c.State().CurrentItemIndex)
	}

	// simulate the loaded item B's state without ever reaching EOS again;
	// a second UpdateState at the same duration must not re-advance.
	p.active = true
	p.position = 0
	c.UpdateState(0.02)
	if c.State().CurrentItemIndex != 1 {
		t.Fatalf("spurious second advance: CurrentItemIndex = %d", c.State().CurrentItemIndex)
	}
}

// TestAutoAdvanceEndReturnsToMenu covers scenario 3's second half: a
// non-looping playlist stops with current_item_index == -1 at the end.
func TestAutoAdvanceEndReturnsToMenu(t *testing.T) {
	p := newFakePipeline()
	c := NewController(p)
	c.SetPlaylist(twoItemPlaylist(false), "/media")
	ended := false
	c.OnAdvanceEnd = func() { ended = true }
	c.LoadItem(1) // last item
	p.duration = 45
	p.active = true
	p.position = 44.9
	c.UpdateState(0.02)
	if c.State().CurrentItemIndex != -1 {
		t.Fatalf("CurrentItemIndex = %d, want -1 at playlist end", c.State().CurrentItemIndex)
	}
	if !ended {
		t.Fatalf("OnAdvanceEnd was not invoked")
	}
}

// TestLoopWrapsToFirstItem: a looping playlist at EOS
// wraps to item 0".
func TestLoopWrapsToFirstItem(t *testing.T) {
	p := newFakePipeline()
	c := NewController(p)
	c.SetPlaylist(twoItemPlaylist(true), "/media")
	c.LoadItem(1)
	p.duration = 45
	p.active = true
	p.position = 44.9
	c.UpdateState(0.02)
	if c.State().CurrentItemIndex != 0 {
		t.Fatalf("CurrentItemIndex = %d, want 0 after loop wrap", c.State().CurrentItemIndex)
	}
}

// TestBrokenItemSkip: a broken item is skipped and the
// next item loads.
func TestBrokenItemSkip(t *testing.T) {
	p := newFakePipeline()
	p.loadOK["b.mp4"] = false
	c := NewController(p)
	pl := twoItemPlaylist(false)
	pl.Items = append(pl.Items, playlist.Item{Title: "C", SourceType: playlist.Local, Path: "c.mp4"})
	c.SetPlaylist(pl, "")
	if !c.LoadItem(0) {
		t.Fatalf("LoadItem(0) failed")
	}
	// advance to the broken item; it should skip straight through to item 2.
	if !c.NextItem() {
		t.Fatalf("NextItem() should land on item 2 after skipping the broken item 1")
	}
	if c.State().CurrentItemIndex != 2 {
		t.Fatalf("CurrentItemIndex = %d, want 2", c.State().CurrentItemIndex)
	}
	if c.Status.Text == "" {
		t.Fatalf("expected a status-line skip message")
	}
}

// TestIsSwitchingPlaylistSuppressesUpdate checks the is_switching_playlist
// latch through the real load path: LoadItem leaves it set, UpdateState
// holds the previous state while the pipeline is still spinning up, and
// clears it only once the new item reports active.
func TestIsSwitchingPlaylistSuppressesUpdate(t *testing.T) {
	p := newFakePipeline()
	c := NewController(p)
	c.SetPlaylist(twoItemPlaylist(false), "")
	c.LoadItem(0)
	if !c.State().IsSwitchingPlaylist {
		t.Fatalf("LoadItem should leave the switching latch set")
	}

	// the freshly loaded pipeline has not produced frames yet; ticks must
	// not observe its idle state.
	p.active = false
	c.UpdateState(0.02)
	if !c.State().IsSwitchingPlaylist {
		t.Fatalf("latch cleared before the new item became active")
	}

	p.active = true
	c.UpdateState(0.02)
	if c.State().IsSwitchingPlaylist {
		t.Fatalf("latch should clear once the new item is active")
	}
	if !c.State().VideoActive {
		t.Fatalf("VideoActive should reflect the now-active pipeline")
	}
}

// TestActivationTimeoutSkips: a load that returns true but never
// produces an active video is skipped after the activation timeout.
func TestActivationTimeoutSkips(t *testing.T) {
	p := newFakePipeline() // Load succeeds but active stays false.
	c := NewController(p)
	c.SetPlaylist(twoItemPlaylist(false), "")
	c.LoadItem(0)
	for i := 0; i < 25; i++ { // 2.5s of ticks.
		c.UpdateState(0.1)
	}
	if c.State().CurrentItemIndex != 1 {
		t.Fatalf("expected skip to item 1, got %d", c.State().CurrentItemIndex)
	}
	if c.Status.Text == "" {
		t.Fatalf("expected a status-line skip message")
	}
}

// TestAutoAdvanceKeepsLatch: a mid-playlist auto-advance must not expose
// a video_active=false gap between items; the UI stays on the playback
// screen until item B reports active.
func TestAutoAdvanceKeepsLatch(t *testing.T) {
	p := newFakePipeline()
	c := NewController(p)
	c.SetPlaylist(twoItemPlaylist(false), "/media")
	c.LoadItem(0)
	p.duration = 30
	p.active = true
	c.UpdateState(0.02) // clears the load latch, item 0 active.

	p.position = 29.8 // within 0.5s of duration: advance fires.
	c.UpdateState(0.02)
	if c.State().CurrentItemIndex != 1 {
		t.Fatalf("expected advance to item 1, got %d", c.State().CurrentItemIndex)
	}
	if !c.State().IsSwitchingPlaylist {
		t.Fatalf("advance should leave the switching latch set")
	}

	// item 1 still loading: ticks must hold the latch rather than treat
	// the idle pipeline as playback having ended.
	c.UpdateState(0.02)
	c.UpdateState(0.02)
	if !c.State().IsSwitchingPlaylist {
		t.Fatalf("latch lost while item 1 was loading")
	}

	// item 1 becomes active: the latch clears and state flows again.
	p.active = true
	p.position = 0
	c.UpdateState(0.02)
	if c.State().IsSwitchingPlaylist {
		t.Fatalf("latch should clear once item 1 is active")
	}
}
