// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package playlist

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const mediaYAML = `
title: Saturday Night
curator: ops
loop: true
items:
  - title: Intro Reel
    artist: ""
    source_type: local
    path: intro.mp4
  - title: Stream
    artist: Someone
    source_type: remote_stream
    url: https://example.test/stream.m3u8
`

const gameYAML = `
title: Arcade Picks
curator: ops
loop: false
items:
  - title: Game One
    artist: ""
    source_type: emulated_game
    path: roms/one.bin
    emulator_core: mame
    emulator_system: arcade
`

func TestParseMediaPlaylist(t *testing.T) {
	p, err := Parse([]byte(mediaYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.IsGamePlaylist() {
		t.Fatalf("media playlist misclassified as game playlist")
	}
	if len(p.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(p.Items))
	}
}

func TestParseGamePlaylist(t *testing.T) {
	p, err := Parse([]byte(gameYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !p.IsGamePlaylist() {
		t.Fatalf("game playlist misclassified as media playlist")
	}
}

// TestEmptyPlaylistIsNotGame pins the categorization edge: a game playlist
// requires every item to be emulated_game, which is vacuously false for zero
// items in this engine's convention (an empty playlist is media by default).
func TestEmptyPlaylistIsNotGame(t *testing.T) {
	p := Playlist{Title: "Empty"}
	if p.IsGamePlaylist() {
		t.Fatalf("empty playlist should not categorize as a game playlist")
	}
}

func TestParseRejectsMissingRequiredField(t *testing.T) {
	bad := `
title: Bad
curator: ops
items:
  - title: No Path
    artist: ""
    source_type: local
`
	if _, err := Parse([]byte(bad)); err == nil {
		t.Fatalf("expected validation error for missing path")
	}
}

func TestWatcherReloadsOnMtimeChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "saturday.yaml")
	if err := os.WriteFile(file, []byte(mediaYAML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w := NewWatcher(dir, time.Millisecond)
	changed, err := w.ScanOnce()
	if err != nil {
		t.Fatalf("ScanOnce: %v", err)
	}
	if !changed {
		t.Fatalf("first scan should report changed=true")
	}
	if len(w.Set().Media()) != 1 {
		t.Fatalf("expected 1 media playlist loaded")
	}

	changed, err = w.ScanOnce()
	if err != nil {
		t.Fatalf("ScanOnce: %v", err)
	}
	if changed {
		t.Fatalf("unchanged directory should report changed=false")
	}

	// bump the mtime to simulate an edit by the admin HTTP API.
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(file, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	changed, err = w.ScanOnce()
	if err != nil {
		t.Fatalf("ScanOnce: %v", err)
	}
	if !changed {
		t.Fatalf("mtime bump should trigger a reload")
	}
}

func TestResolvedPathJoinsBaseDir(t *testing.T) {
	it := Item{Path: "roms/one.bin"}
	got := it.ResolvedPath("/media/games")
	want := filepath.Join("/media/games", "roms/one.bin")
	if got != want {
		t.Fatalf("ResolvedPath() = %q, want %q", got, want)
	}
}
