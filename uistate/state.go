// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package uistate is a small, deterministic store for everything the
// renderer reads: playlist selection, menu stack, virtual keyboard,
// volume overlay, fade record, and status line. It exposes pure
// mutators; labels are produced as functions of current state rather
// than stored strings, so store and display share one source of truth.
//
// Package uistate is provided as part of the fadeframe kiosk engine.
package uistate

import "fmt"

// FadeRecord is the single fade record that drives all UI alphas; there
// is no per-widget animation state. It is owned here as data;
// transition.Orchestrator is the only component that mutates it.
type FadeRecord struct {
	IsFading     bool
	FadeStart    float64 // game time seconds when the fade began
	FadeDuration float64
	TargetVisible bool
	Alpha        float64 // current computed alpha, 0..1
}

// IntroState tracks the cold-start intro video overlay.
type IntroState struct {
	ShowingIntro  bool
	IntroReady    bool
	IntroFadingOut bool
	IntroComplete bool
}

// LoadingState tracks the "Loading..." overlay.
type LoadingState struct {
	IsLoadingGame bool
}

// State is the UI state record.
type State struct {
	SelectedPlaylistIndex int
	UIVisibleWhenPlaying  bool

	Fade    FadeRecord
	Intro   IntroState
	Loading LoadingState

	VolumeOverlayVisible bool
	MasterVolume         int // 0-100

	StatusLine string // transient status-line surface

	Menu     *MenuManager
	Keyboard *Keyboard
}

// New returns a State with the intro showing and the menu at its root.
func New(playlistCount int) *State {
	return &State{
		UIVisibleWhenPlaying: true,
		MasterVolume:         80,
		Intro:                IntroState{ShowingIntro: true},
		Menu:                 NewMenuManager(playlistCount),
		Keyboard:             NewKeyboard(),
	}
}

// SelectNextPlaylist / SelectPreviousPlaylist implement playlist selection
// cursor movement for the main (media) menu, wrapping per playlistCount.
func (s *State) SelectNextPlaylist(playlistCount int) {
	if playlistCount == 0 {
		return
	}
	s.SelectedPlaylistIndex = (s.SelectedPlaylistIndex + 1) % playlistCount
}

func (s *State) SelectPreviousPlaylist(playlistCount int) {
	if playlistCount == 0 {
		return
	}
	s.SelectedPlaylistIndex = (s.SelectedPlaylistIndex - 1 + playlistCount) % playlistCount
}

// ShowVolumeOverlay / HideVolumeOverlay toggle the transient volume HUD.
func (s *State) ShowVolumeOverlay()  { s.VolumeOverlayVisible = true }
func (s *State) HideVolumeOverlay()  { s.VolumeOverlayVisible = false }

// AdjustVolume changes MasterVolume by delta, clamped to [0,100], and
// shows the volume overlay.
func (s *State) AdjustVolume(delta int) {
	s.MasterVolume += delta
	if s.MasterVolume < 0 {
		s.MasterVolume = 0
	}
	if s.MasterVolume > 100 {
		s.MasterVolume = 100
	}
	s.ShowVolumeOverlay()
}

// SetStatus sets the transient status-line message.
func (s *State) SetStatus(format string, args ...interface{}) {
	s.StatusLine = fmt.Sprintf(format, args...)
}

// ClearStatus clears the status line.
func (s *State) ClearStatus() { s.StatusLine = "" }
