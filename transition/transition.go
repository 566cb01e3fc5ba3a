// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package transition is the central state machine governing what is
// drawn each frame: the three-phase menu / video-with-UI / clean-video
// fade cycle, the cold-start intro overlay, the loading spinner, and the
// volume dip that keeps menu audio cues from competing with playback.
//
// Package transition is provided as part of the fadeframe kiosk engine.
package transition

import (
	"github.com/fadeframe/kiosk/playback"
	"github.com/fadeframe/kiosk/uistate"
)

// State is one of the eight mutually exclusive screens; exactly one is
// current on every tick. The settings overlay is deliberately not one of
// these values: it draws whatever was under it plus a panel, so it is
// tracked as an overlay flag on top of the base state (see
// Orchestrator.SettingsOpen), not as a competing member of this enum.
type State int

const (
	Intro State = iota
	IntroFadeOut
	Menu
	Load
	PlayUI
	PlayClean
	Handoff
	Recovery
)

func (s State) String() string {
	switch s {
	case Intro:
		return "INTRO"
	case IntroFadeOut:
		return "INTRO_FADE_OUT"
	case Menu:
		return "MENU"
	case Load:
		return "LOAD"
	case PlayUI:
		return "PLAY_UI"
	case PlayClean:
		return "PLAY_CLEAN"
	case Handoff:
		return "HANDOFF"
	case Recovery:
		return "RECOVERY"
	default:
		return "UNKNOWN"
	}
}

// introFadeOutDuration is the 300ms black-overlay ramp ending the intro.
const introFadeOutDuration = 0.3

// DefaultFadeDuration is the fade length used when none is configured.
const DefaultFadeDuration = 1.0

// dipGain dips playback volume while the UI is composed over the video
// so menu dialogue-like audio cues don't compete with the video.
const dipGain = 0.75

// Orchestrator drives the screen state machine. It never holds GL/OS
// handles directly; it only mutates plain state in uistate.State and
// playback.State, and signals other components through callbacks.
type Orchestrator struct {
	state       State
	gameTime    float64 // seconds, advanced by Tick's dt
	SettingsOpen bool
	settingsUnder State // the state SETTINGS_OVERLAY was entered over

	fadeEpsilon float64

	// original volume capture, idempotent per playback session.
	volumeCaptured bool
	originalVolume int

	// ScanlinesEnabled is the operator-visible scanline toggle: scanlines
	// run whenever the CRT pass runs by default.
	ScanlinesEnabled bool
}

// New creates an Orchestrator starting in INTRO for the cold-start
// sequence.
func New() *Orchestrator {
	return &Orchestrator{state: Intro, fadeEpsilon: 0.001, ScanlinesEnabled: true}
}

// Current returns the base state (excluding the SETTINGS_OVERLAY flag).
func (o *Orchestrator) Current() State { return o.state }

// IntroFrameArrived marks the first intro frame's arrival; until then
// the screen stays black rather than flashing an empty frame.
func (o *Orchestrator) IntroFrameArrived(ui *uistate.State) {
	ui.Intro.IntroReady = true
}

// IntroEnded transitions INTRO -> INTRO_FADE_OUT on intro end-of-stream.
func (o *Orchestrator) IntroEnded(ui *uistate.State) {
	if o.state != Intro {
		return
	}
	o.state = IntroFadeOut
	ui.Intro.IntroFadingOut = true
}

// Skip ends the intro early. Accepted only during INTRO/INTRO_FADE_OUT;
// it forces an immediate transition to MENU.
func (o *Orchestrator) Skip(ui *uistate.State) {
	if o.state != Intro && o.state != IntroFadeOut {
		return
	}
	o.enterMenu(ui)
}

// enterMenu transitions to MENU and marks the intro sequence complete.
func (o *Orchestrator) enterMenu(ui *uistate.State) {
	o.state = Menu
	ui.Intro.ShowingIntro = false
	ui.Intro.IntroFadingOut = false
	ui.Intro.IntroComplete = true
	ui.Fade.Alpha = 1
	ui.Fade.IsFading = false
}

// SelectMediaItem transitions MENU -> LOAD when the user selects a media
// item. currentVolume is captured as the session's original volume
// exactly once; re-entering playback within the same session keeps the
// first capture.
func (o *Orchestrator) SelectMediaItem(ui *uistate.State, pb *playback.State, currentVolume int) {
	if o.state != Menu {
		return
	}
	o.state = Load
	ui.Loading.IsLoadingGame = false // LOAD here means "loading a media item", not a game.
	if !o.volumeCaptured {
		pb.OriginalVolume = currentVolume
		o.originalVolume = currentVolume
		o.volumeCaptured = true
	}
}

// SelectGame transitions any playable/menu state into HANDOFF for an
// emulator launch.
func (o *Orchestrator) SelectGame(ui *uistate.State) {
	o.state = Handoff
	ui.Loading.IsLoadingGame = true
}

// RecoverFromHandoff transitions HANDOFF -> RECOVERY once the emulator
// has exited. RECOVERY is observable by callers that check Current()
// between this call and CompleteRecovery, which finishes the transition
// after GL resources are rebuilt.
func (o *Orchestrator) RecoverFromHandoff() {
	if o.state == Handoff {
		o.state = Recovery
	}
}

// CompleteRecovery finishes RECOVERY -> MENU after GL resources have been
// rebuilt by the caller.
func (o *Orchestrator) CompleteRecovery(ui *uistate.State) {
	if o.state != Recovery {
		return
	}
	ui.Loading.IsLoadingGame = false
	o.enterMenu(ui)
}

// OpenSettings raises the settings overlay. Accepted from any state
// except the intro sequence.
func (o *Orchestrator) OpenSettings() {
	if o.state == Intro || o.state == IntroFadeOut {
		return
	}
	if !o.SettingsOpen {
		o.settingsUnder = o.state
		o.SettingsOpen = true
	}
}

// CloseSettings returns to whatever state was under the settings panel.
func (o *Orchestrator) CloseSettings() {
	o.SettingsOpen = false
}

// ToggleUIVisibility is the PLAY_UI <-> PLAY_CLEAN SELECT toggle.
// Starting a new fade mid-fade takes the new target and resets progress.
func (o *Orchestrator) ToggleUIVisibility(ui *uistate.State, duration float64, volumeSetter func(percent int)) {
	if o.state != PlayUI && o.state != PlayClean {
		return
	}
	if duration <= 0 {
		duration = DefaultFadeDuration
	}
	target := o.state == PlayUI // fading *to* clean means target visible=false
	ui.Fade.IsFading = true
	ui.Fade.FadeStart = o.gameTime
	ui.Fade.FadeDuration = duration
	ui.Fade.TargetVisible = !target
	if o.state == PlayUI {
		o.state = PlayClean
		volumeSetter(o.originalVolume)
	} else {
		o.state = PlayUI
		o.applyDip(volumeSetter)
	}
}

// Tick advances game time and reacts to the current playback state,
// implementing the LOAD -> PLAY_UI transition ("video becomes active and
// ui_visible_when_playing=true") and driving the fade/volume/loading
// bookkeeping every frame. dt is seconds since the previous Tick.
func (o *Orchestrator) Tick(dt float64, ui *uistate.State, pb *playback.State, volumeSetter func(percent int)) {
	o.gameTime += dt

	switch o.state {
	case IntroFadeOut:
		o.updateIntroFade(ui)
	case Load:
		if pb.VideoActive {
			o.state = PlayUI
			ui.Loading.IsLoadingGame = false
			o.applyDip(volumeSetter)
		} else if !pb.IsSwitchingPlaylist {
			// nothing is loading any more: stopped, or the load gave up.
			o.state = Menu
			o.restoreVolume(pb, volumeSetter)
		}
	case PlayUI:
		if !pb.VideoActive && !pb.IsSwitchingPlaylist {
			o.state = Menu
			o.restoreVolume(pb, volumeSetter)
		}
	case PlayClean:
		if !pb.VideoActive && !pb.IsSwitchingPlaylist {
			o.state = Menu
			o.restoreVolume(pb, volumeSetter)
		}
	}

	o.updateFade(ui)
}

// updateIntroFade advances the black-overlay ramp and transitions to
// MENU once it is fully opaque.
func (o *Orchestrator) updateIntroFade(ui *uistate.State) {
	elapsed := o.gameTime - o.introFadeStart(ui)
	alpha := elapsed / introFadeOutDuration
	if alpha >= 1 {
		o.enterMenu(ui)
		return
	}
}

// introFadeStart lazily records when INTRO_FADE_OUT began using the fade
// record's FadeStart field (reused rather than adding a parallel field,
// since only one of the two fade concepts is ever active at a time).
func (o *Orchestrator) introFadeStart(ui *uistate.State) float64 {
	if ui.Fade.FadeStart == 0 && ui.Intro.IntroFadingOut {
		ui.Fade.FadeStart = o.gameTime
	}
	return ui.Fade.FadeStart
}

// updateFade computes ui.Fade.Alpha from the single fade record that
// drives all UI alphas; there is no per-widget animation state.
func (o *Orchestrator) updateFade(ui *uistate.State) {
	if !ui.Fade.IsFading {
		return
	}
	elapsed := o.gameTime - ui.Fade.FadeStart
	duration := ui.Fade.FadeDuration
	if duration <= 0 {
		duration = DefaultFadeDuration
	}
	progress := elapsed / duration
	if progress >= 1 {
		progress = 1
		ui.Fade.IsFading = false
	}
	if ui.Fade.TargetVisible {
		ui.Fade.Alpha = progress
	} else {
		ui.Fade.Alpha = 1 - progress
	}
	if ui.Fade.Alpha < o.fadeEpsilon {
		ui.Fade.Alpha = 0
	}
}

// IntroFadeAlpha returns the black overlay strength while the intro fades
// out: 0 before the fade starts, ramping to 1 as the fade completes.
func (o *Orchestrator) IntroFadeAlpha(ui *uistate.State) float64 {
	if o.state != IntroFadeOut {
		return 0
	}
	alpha := (o.gameTime - o.introFadeStart(ui)) / introFadeOutDuration
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return alpha
}

// UIAlpha returns the alpha to multiply every UI draw by this frame.
// Whenever video is not active the UI is fully opaque.
func (o *Orchestrator) UIAlpha(ui *uistate.State, videoActive bool) float64 {
	if !videoActive {
		return 1
	}
	if ui.Fade.IsFading || o.state == PlayUI || o.state == PlayClean {
		return ui.Fade.Alpha
	}
	return 1
}

func (o *Orchestrator) applyDip(setter func(int)) {
	setter(int(float64(o.originalVolume) * dipGain))
}

func (o *Orchestrator) restoreVolume(pb *playback.State, setter func(int)) {
	o.volumeCaptured = false
	setter(pb.OriginalVolume)
}
