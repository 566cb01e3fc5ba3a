// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package playback mediates between UI intents and the video pipeline,
// and maintains the playlist cursor: load/seek/pause/stop, auto-advance
// at end of item, and the broken-item skip policy.
//
// Package playback is provided as part of the fadeframe kiosk engine.
package playback

import (
	"log/slog"

	"github.com/fadeframe/kiosk/playlist"
)

// Pipeline is the subset of the video pipeline the controller drives.
// video.Pipeline implements this; declared here rather than imported from
// video so playback has no dependency on GL/cgo concerns.
type Pipeline interface {
	Load(path string, startS, endS float64, loop bool) bool
	Stop()
	SeekAbsolute(seconds float64)
	SeekRelative(deltaSeconds float64)
	TogglePause()
	SetVolume(percent int)
	Position() float64
	Duration() float64
	Paused() bool
	Active() bool // true once duration>0 and frames are being produced
	LastError() string
}

// State is the playback state the renderer and transition machine read:
// position/duration bookkeeping, the playlist cursor, and the
// auto-advance/retry latches.
type State struct {
	CurrentPlaylistIndex int
	CurrentItemIndex     int // -1 when nothing is loaded
	PositionSeconds      float64
	DurationSeconds      float64
	Paused               bool
	VideoActive          bool
	OriginalVolume       int
	LastAdvancedItem     int
	LastAdvancedDuration float64
	IsSwitchingPlaylist  bool

	consecutiveFailures int
}

// NewState returns a State with no item loaded. CurrentItemIndex is
// either -1 or a valid index within the current playlist.
func NewState() *State {
	return &State{CurrentItemIndex: -1, LastAdvancedItem: -1}
}

// StatusMessage is the transient status-line text surface used for
// load-failure skip messages.
type StatusMessage struct {
	Text string
}

// switchTimeout is how long a successful load may take to report an
// active video before the item is treated as broken and skipped.
const switchTimeout = 2.0

// Controller mediates between UI intents and the Pipeline.
type Controller struct {
	pipeline  Pipeline
	state     *State
	playlist  playlist.Playlist
	baseDir   string
	switching float64 // seconds spent waiting for a loaded item to activate.
	Status    StatusMessage

	// OnAdvanceEnd fires when the playlist is exhausted without loop,
	// signalling the transition machine to return to the menu.
	OnAdvanceEnd func()
}

// NewController wires a Pipeline implementation to a fresh playback State.
func NewController(pipeline Pipeline) *Controller {
	return &Controller{pipeline: pipeline, state: NewState()}
}

// State exposes the current Playback State for the renderer and transition
// orchestrator to read.
func (c *Controller) State() *State { return c.state }

// CurrentItem returns the loaded playlist item, nil when nothing is
// loaded. Read by the playback UI for title and artist display.
func (c *Controller) CurrentItem() *playlist.Item {
	if c.state.CurrentItemIndex < 0 || c.state.CurrentItemIndex >= len(c.playlist.Items) {
		return nil
	}
	return &c.playlist.Items[c.state.CurrentItemIndex]
}

// SetPlaylist installs the playlist the controller will traverse; it does
// not itself start playback.
func (c *Controller) SetPlaylist(p playlist.Playlist, baseDir string) {
	c.playlist = p
	c.baseDir = baseDir
	c.state.CurrentPlaylistIndex = 0
}

// LoadItem starts playback of the indexed item. On failure it skips one
// broken item and tries the next; on two consecutive failures it stops
// and surfaces an error on the status line.
func (c *Controller) LoadItem(index int) bool {
	if index < 0 || index >= len(c.playlist.Items) {
		c.state.CurrentItemIndex = -1
		c.state.IsSwitchingPlaylist = false // nothing is coming; stop latching.
		return false
	}

	// latched until UpdateState observes the new item active, so the
	// stopped pipeline below never reads as "playback ended".
	c.state.IsSwitchingPlaylist = true
	c.switching = 0

	c.pipeline.Stop()
	item := c.playlist.Items[index]
	start, end := 0.0, 0.0
	if item.Start != nil {
		start = *item.Start
	}
	if item.End != nil {
		end = *item.End
	}
	path := item.ResolvedPath(c.baseDir)
	if item.SourceType == playlist.RemoteStream {
		path = item.URL
	}
	ok := c.pipeline.Load(path, start, end, false)
	if !ok {
		slog.Warn("playback: load failed, skipping item", "title", item.Title, "err", c.pipeline.LastError())
		c.Status.Text = "skipped: " + item.Title
		c.state.consecutiveFailures++
		if c.state.consecutiveFailures >= 2 {
			c.state.consecutiveFailures = 0
			c.state.CurrentItemIndex = -1
			c.state.IsSwitchingPlaylist = false
			return false
		}
		return c.LoadItem(index + 1)
	}
	c.state.consecutiveFailures = 0
	c.state.CurrentItemIndex = index
	c.state.LastAdvancedItem = -1
	c.state.LastAdvancedDuration = 0
	c.state.PositionSeconds = 0
	c.state.DurationSeconds = 0
	c.state.VideoActive = false
	return true
}

// NextItem implements `next_item`, honoring the playlist's loop flag.
func (c *Controller) NextItem() bool {
	next := c.state.CurrentItemIndex + 1
	if next >= len(c.playlist.Items) {
		if c.playlist.Loop {
			next = 0
		} else {
			c.Stop()
			if c.OnAdvanceEnd != nil {
				c.OnAdvanceEnd()
			}
			return false
		}
	}
	return c.LoadItem(next)
}

// PreviousItem implements `previous_item`.
func (c *Controller) PreviousItem() bool {
	prev := c.state.CurrentItemIndex - 1
	if prev < 0 {
		if c.playlist.Loop {
			prev = len(c.playlist.Items) - 1
		} else {
			prev = 0
		}
	}
	return c.LoadItem(prev)
}

// TogglePause implements `toggle_pause`.
func (c *Controller) TogglePause() {
	c.pipeline.TogglePause()
	c.state.Paused = c.pipeline.Paused()
}

// Seek implements `seek(+-s)`. Positive deltaSeconds seeks forward.
func (c *Controller) Seek(deltaSeconds float64) {
	c.pipeline.SeekRelative(deltaSeconds)
}

// SetVolume sets playback volume in percent.
func (c *Controller) SetVolume(percent int) {
	c.pipeline.SetVolume(percent)
}

// Stop forces playback to idle and zeroes position/duration.
func (c *Controller) Stop() {
	c.pipeline.Stop()
	c.state.PositionSeconds = 0
	c.state.DurationSeconds = 0
	c.state.VideoActive = false
	c.state.CurrentItemIndex = -1
	c.state.IsSwitchingPlaylist = false
}

// UpdateState pulls position/duration into the playback state and
// applies the auto-advance policy: when video is active, position has
// reached within half a second of the duration, and this
// (item, duration) pair has not already advanced, move to the next item.
func (c *Controller) UpdateState(dt float64) {
	if c.state.IsSwitchingPlaylist {
		// spurious video_active=false readings during a swap must not
		// flip the UI back to the menu prematurely: hold the previous
		// state until the newly loaded item reports active.
		if !c.pipeline.Active() || c.pipeline.Duration() <= 0 {
			c.switching += dt
			if c.switching < switchTimeout {
				return
			}
			// loaded but never activated: treat it like a load failure.
			item := c.CurrentItem()
			title := "item"
			if item != nil {
				title = item.Title
			}
			slog.Warn("playback: item never became active, skipping", "title", title)
			c.Status.Text = "skipped: " + title
			c.state.IsSwitchingPlaylist = false
			c.state.consecutiveFailures++
			if c.state.consecutiveFailures >= 2 {
				c.state.consecutiveFailures = 0
				c.Stop()
				return
			}
			c.NextItem()
			return
		}
		c.state.IsSwitchingPlaylist = false
	}
	c.state.PositionSeconds = c.pipeline.Position()
	c.state.DurationSeconds = c.pipeline.Duration()
	c.state.Paused = c.pipeline.Paused()
	c.state.VideoActive = c.pipeline.Active() && c.state.DurationSeconds > 0

	if !c.state.VideoActive {
		return
	}
	alreadyAdvanced := c.state.LastAdvancedItem == c.state.CurrentItemIndex &&
		c.state.LastAdvancedDuration == c.state.DurationSeconds
	if c.state.PositionSeconds >= c.state.DurationSeconds-0.5 && !alreadyAdvanced {
		c.state.LastAdvancedItem = c.state.CurrentItemIndex
		c.state.LastAdvancedDuration = c.state.DurationSeconds
		c.NextItem()
	}
}
