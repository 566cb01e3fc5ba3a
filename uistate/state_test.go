// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package uistate

import "testing"

func TestSelectedPlaylistWraps(t *testing.T) {
	s := New(3)
	s.SelectNextPlaylist(3)
	s.SelectNextPlaylist(3)
	s.SelectNextPlaylist(3)
	if s.SelectedPlaylistIndex != 0 {
		t.Fatalf("SelectedPlaylistIndex = %d, want 0 after wrapping", s.SelectedPlaylistIndex)
	}
	s.SelectPreviousPlaylist(3)
	if s.SelectedPlaylistIndex != 2 {
		t.Fatalf("SelectedPlaylistIndex = %d, want 2 after wrapping backward", s.SelectedPlaylistIndex)
	}
}

func TestAdjustVolumeClamps(t *testing.T) {
	s := New(0)
	s.MasterVolume = 95
	s.AdjustVolume(20)
	if s.MasterVolume != 100 {
		t.Fatalf("MasterVolume = %d, want clamped to 100", s.MasterVolume)
	}
	if !s.VolumeOverlayVisible {
		t.Fatalf("expected volume overlay to be shown")
	}
	s.MasterVolume = 5
	s.AdjustVolume(-20)
	if s.MasterVolume != 0 {
		t.Fatalf("MasterVolume = %d, want clamped to 0", s.MasterVolume)
	}
}

func TestMenuNavigateWraps(t *testing.T) {
	m := NewMenuManager(0)
	m.Navigate(-1, 4)
	if m.Selection() != 3 {
		t.Fatalf("Selection() = %d, want 3 after wrapping backward", m.Selection())
	}
}

func TestMenuBackAtRootIsNoOp(t *testing.T) {
	m := NewMenuManager(0)
	if m.Back() {
		t.Fatalf("Back() at root should return false")
	}
	if m.Current() != SectionRoot {
		t.Fatalf("Current() = %v, want SectionRoot", m.Current())
	}
}

func TestMenuEnterAndBack(t *testing.T) {
	m := NewMenuManager(0)
	m.Enter(SectionDisplay)
	if m.Current() != SectionDisplay {
		t.Fatalf("Current() = %v, want SectionDisplay", m.Current())
	}
	if !m.Back() {
		t.Fatalf("Back() should succeed from a pushed section")
	}
	if m.Current() != SectionRoot {
		t.Fatalf("Current() = %v, want SectionRoot after Back", m.Current())
	}
}

func TestGameBrowserBackEntryAlwaysPresent(t *testing.T) {
	count := GameBrowserEntryCount(3)
	if count != 4 {
		t.Fatalf("GameBrowserEntryCount(3) = %d, want 4", count)
	}
	if !IsBackEntry(3, 3) {
		t.Fatalf("index 3 of 3 items should be the trailing Back entry")
	}
	if IsBackEntry(2, 3) {
		t.Fatalf("index 2 of 3 items should not be the Back entry")
	}
}

func TestKeyboardCommitFlow(t *testing.T) {
	k := NewKeyboard()
	var committed string
	k.Open("", func(text string) { committed = text }, nil)
	if !k.Active {
		t.Fatalf("keyboard should be active after Open")
	}
	k.SelectChar() // row 0 col 0 -> '1'
	k.MoveCursor(1, 0)
	k.SelectChar() // row 1 col 0 -> 'Q'
	k.Commit()
	if k.Active {
		t.Fatalf("keyboard should deactivate after Commit")
	}
	if committed != "1Q" {
		t.Fatalf("committed = %q, want \"1Q\"", committed)
	}
}

func TestKeyboardCancelDoesNotCommit(t *testing.T) {
	k := NewKeyboard()
	committed := false
	canceled := false
	k.Open("x", func(string) { committed = true }, func() { canceled = true })
	k.Cancel()
	if committed {
		t.Fatalf("OnCommit should not fire on Cancel")
	}
	if !canceled {
		t.Fatalf("OnCancel should fire on Cancel")
	}
	if k.Active {
		t.Fatalf("keyboard should deactivate after Cancel")
	}
}
