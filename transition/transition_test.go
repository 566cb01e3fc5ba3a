// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package transition

import (
	"testing"

	"github.com/fadeframe/kiosk/playback"
	"github.com/fadeframe/kiosk/uistate"
)

func noopVolume(int) {}

// TestColdStartIntroToMenu walks boot -> intro -> menu and the "exactly one state"
// invariant through the INTRO -> INTRO_FADE_OUT -> MENU sequence.
func TestColdStartIntroToMenu(t *testing.T) {
	o := New()
	ui := uistate.New(3)
	pb := playback.NewState()

	if o.Current() != Intro {
		t.Fatalf("initial state = %v, want INTRO", o.Current())
	}
	o.IntroFrameArrived(ui)
	if !ui.Intro.IntroReady {
		t.Fatalf("IntroReady should be true after first frame")
	}
	o.IntroEnded(ui)
	if o.Current() != IntroFadeOut {
		t.Fatalf("state = %v, want INTRO_FADE_OUT", o.Current())
	}

	// drive the 300ms fade to completion.
	for i := 0; i < 20; i++ {
		o.Tick(0.02, ui, pb, noopVolume)
		if o.Current() == Menu {
			break
		}
	}
	if o.Current() != Menu {
		t.Fatalf("state = %v, want MENU after intro fade completes", o.Current())
	}
	if !ui.Intro.IntroComplete {
		t.Fatalf("IntroComplete should be true")
	}
}

// TestPlayFadeCleanAndBack: SELECT drops the UI over
// 1.0s to alpha 0, volume stays at 100 while clean, and a second SELECT
// brings it back with a volume dip to ~75%.
func TestPlayFadeCleanAndBack(t *testing.T) {
	o := New()
	ui := uistate.New(1)
	pb := playback.NewState()
	o.enterMenu(ui) // media selection is only accepted from MENU.

	o.SelectMediaItem(ui, pb, 100)
	if o.Current() != Load {
		t.Fatalf("state = %v, want LOAD", o.Current())
	}

	pb.VideoActive = true
	o.Tick(0.02, ui, pb, noopVolume)
	if o.Current() != PlayUI {
		t.Fatalf("state = %v, want PLAY_UI once video_active", o.Current())
	}

	var lastVolume int
	setter := func(v int) { lastVolume = v }
	o.ToggleUIVisibility(ui, 1.0, setter)
	if o.Current() != PlayClean {
		t.Fatalf("state = %v, want PLAY_CLEAN", o.Current())
	}
	if lastVolume != 100 {
		t.Fatalf("volume = %d, want 100 on PLAY_CLEAN", lastVolume)
	}

	// fade fully to 0 over the configured duration.
	for i := 0; i < 60; i++ {
		o.Tick(0.02, ui, pb, noopVolume)
	}
	if ui.Fade.Alpha != 0 {
		t.Fatalf("Fade.Alpha = %v, want 0 once fully faded to clean", ui.Fade.Alpha)
	}

	o.ToggleUIVisibility(ui, 1.0, setter)
	if o.Current() != PlayUI {
		t.Fatalf("state = %v, want PLAY_UI after second toggle", o.Current())
	}
	if lastVolume != 75 {
		t.Fatalf("volume = %d, want 75 on PLAY_UI dip", lastVolume)
	}
}

// TestUIAlphaInvariant: for all frames 0 <= ui_alpha <= 1, and when
// video_active=false, ui_alpha=1.
func TestUIAlphaInvariant(t *testing.T) {
	o := New()
	ui := uistate.New(1)
	if got := o.UIAlpha(ui, false); got != 1 {
		t.Fatalf("UIAlpha with video inactive = %v, want 1", got)
	}
	ui.Fade.Alpha = 0.4
	if got := o.UIAlpha(ui, true); got < 0 || got > 1 {
		t.Fatalf("UIAlpha out of range: %v", got)
	}
}

// TestMidFadeRetarget: if a new transition starts mid-fade, the new
// target is taken and progress resets.
func TestMidFadeRetarget(t *testing.T) {
	o := New()
	ui := uistate.New(1)
	pb := playback.NewState()
	o.enterMenu(ui) // media selection is only accepted from MENU.
	o.SelectMediaItem(ui, pb, 100)
	pb.VideoActive = true
	o.Tick(0.02, ui, pb, noopVolume)

	o.ToggleUIVisibility(ui, 1.0, noopVolume) // start fading to clean
	o.Tick(0.3, ui, pb, noopVolume)
	midAlpha := ui.Fade.Alpha
	if midAlpha <= 0 || midAlpha >= 1 {
		t.Fatalf("expected a partial fade, got alpha %v", midAlpha)
	}

	o.ToggleUIVisibility(ui, 1.0, noopVolume) // retarget back to visible mid-fade
	if ui.Fade.FadeStart != o.gameTime {
		t.Fatalf("fade progress should reset on retarget")
	}
}

// TestSettingsOverlayDoesNotReplaceBaseState covers the SETTINGS_OVERLAY
// design decision: it layers over the current state rather than competing
// with the 8-value State enum.
func TestSettingsOverlayDoesNotReplaceBaseState(t *testing.T) {
	o := New()
	o.enterMenu(uistate.New(1)) // settings are rejected during the intro.
	base := o.Current()
	o.OpenSettings()
	if o.Current() != base {
		t.Fatalf("Current() changed to %v after OpenSettings; base state must be preserved", o.Current())
	}
	if !o.SettingsOpen {
		t.Fatalf("SettingsOpen should be true")
	}
	o.CloseSettings()
	if o.SettingsOpen {
		t.Fatalf("SettingsOpen should be false after close")
	}
}

// TestSettingsBlockedDuringIntro: SETTINGS is accepted in any state
// except the intro sequence.
func TestSettingsBlockedDuringIntro(t *testing.T) {
	o := New()
	o.OpenSettings()
	if o.SettingsOpen {
		t.Fatalf("SETTINGS should be rejected during INTRO")
	}
}

// TestHandoffRecoverySequence checks the game-launch screen sequence:
// HANDOFF, then RECOVERY, then back to MENU.
func TestHandoffRecoverySequence(t *testing.T) {
	o := New()
	ui := uistate.New(1)
	o.enterMenu(ui) // simulate having already passed the intro.
	o.SelectGame(ui)
	if o.Current() != Handoff {
		t.Fatalf("state = %v, want HANDOFF", o.Current())
	}
	o.RecoverFromHandoff()
	if o.Current() != Recovery {
		t.Fatalf("state = %v, want RECOVERY", o.Current())
	}
	o.CompleteRecovery(ui)
	if o.Current() != Menu {
		t.Fatalf("state = %v, want MENU after recovery", o.Current())
	}
}
