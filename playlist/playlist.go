// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package playlist parses the on-disk playlist files and watches their
// directory for changes, reloading on mtime change. The file system is
// the only interface to the out-of-process web admin: it writes playlist
// files, this package notices and swaps the in-memory set.
//
// Package playlist is provided as part of the fadeframe kiosk engine.
package playlist

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// SourceType is the playlist item's media/game discriminator.
type SourceType string

const (
	Local         SourceType = "local"
	RemoteStream  SourceType = "remote_stream"
	EmulatedGame  SourceType = "emulated_game"
)

// Item is one playlist entry. Immutable after load;
// replaced wholesale when the owning playlist file changes on disk.
type Item struct {
	Title          string     `yaml:"title"`
	Artist         string     `yaml:"artist"`
	SourceType     SourceType `yaml:"source_type"`
	Path           string     `yaml:"path,omitempty"`
	URL            string     `yaml:"url,omitempty"`
	Start          *float64   `yaml:"start,omitempty"`
	End            *float64   `yaml:"end,omitempty"`
	Tags           []string   `yaml:"tags,omitempty"`
	EmulatorCore   string     `yaml:"emulator_core,omitempty"`
	EmulatorSystem string     `yaml:"emulator_system,omitempty"`
}

// Validate checks the per-source-type required fields.
func (it Item) Validate() error {
	if it.SourceType == "" {
		return fmt.Errorf("playlist item %q: source_type is required", it.Title)
	}
	switch it.SourceType {
	case Local:
		if it.Path == "" {
			return fmt.Errorf("playlist item %q: path required for local", it.Title)
		}
	case RemoteStream:
		if it.URL == "" {
			return fmt.Errorf("playlist item %q: url required for remote_stream", it.Title)
		}
	case EmulatedGame:
		if it.Path == "" {
			return fmt.Errorf("playlist item %q: path required for emulated_game", it.Title)
		}
		if it.EmulatorCore == "" || it.EmulatorSystem == "" {
			return fmt.Errorf("playlist item %q: emulator_core and emulator_system required", it.Title)
		}
	default:
		return fmt.Errorf("playlist item %q: unknown source_type %q", it.Title, it.SourceType)
	}
	return nil
}

// ResolvedPath returns the item's local file path joined to baseDir when the
// item's own path is relative, matching load/locator.go's directory-join
// convention.
func (it Item) ResolvedPath(baseDir string) string {
	if it.Path == "" || filepath.IsAbs(it.Path) {
		return it.Path
	}
	return filepath.Join(baseDir, it.Path)
}

// Playlist is one parsed playlist file.
type Playlist struct {
	Title       string `yaml:"title"`
	Curator     string `yaml:"curator"`
	Description string `yaml:"description,omitempty"`
	Loop        bool   `yaml:"loop"`
	Items       []Item `yaml:"items"`

	// File is the absolute source path, not part of the on-disk schema.
	File string `yaml:"-"`
}

// IsGamePlaylist reports whether every item is an emulated game. Game
// playlists appear only in the settings menu's game browser; everything
// else drives the main UI. Categorization is derived on demand, never
// stored, so it can not drift from the items.
func (p Playlist) IsGamePlaylist() bool {
	if len(p.Items) == 0 {
		return false
	}
	for _, it := range p.Items {
		if it.SourceType != EmulatedGame {
			return false
		}
	}
	return true
}

// Parse decodes one playlist file's YAML bytes. Field order is not
// significant.
func Parse(data []byte) (Playlist, error) {
	var p Playlist
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Playlist{}, err
	}
	for i, it := range p.Items {
		if err := it.Validate(); err != nil {
			return Playlist{}, err
		}
		_ = i
	}
	return p, nil
}

// Set is the in-memory collection of loaded playlists, swapped atomically
// whenever the watched directory changes.
type Set struct {
	mu        sync.RWMutex
	playlists []Playlist
}

// Playlists returns a snapshot slice of the currently loaded playlists.
func (s *Set) Playlists() []Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Playlist, len(s.playlists))
	copy(out, s.playlists)
	return out
}

// Media returns only the media (non-game) playlists, which drive the
// main UI.
func (s *Set) Media() []Playlist {
	var out []Playlist
	for _, p := range s.Playlists() {
		if !p.IsGamePlaylist() {
			out = append(out, p)
		}
	}
	return out
}

// Games returns only the game playlists, shown in the settings menu's
// game browser.
func (s *Set) Games() []Playlist {
	var out []Playlist
	for _, p := range s.Playlists() {
		if p.IsGamePlaylist() {
			out = append(out, p)
		}
	}
	return out
}

func (s *Set) replace(playlists []Playlist) {
	s.mu.Lock()
	s.playlists = playlists
	s.mu.Unlock()
}

// Watcher polls a directory of playlist files for mtime changes and
// atomically swaps the in-memory playlist set when something changed. It
// holds no lock during a scan; only the final Set.replace is
// synchronized, so the admin's atomic write-then-rename is always
// observed as a complete file.
type Watcher struct {
	dir      string
	interval time.Duration
	set      *Set
	mtimes   map[string]time.Time
}

// NewWatcher creates a watcher over dir. A zero interval defaults to the
// 1.5s cadence the admin boundary assumes.
func NewWatcher(dir string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 1500 * time.Millisecond
	}
	return &Watcher{dir: dir, interval: interval, set: &Set{}, mtimes: map[string]time.Time{}}
}

// Set returns the watcher's backing Set for read access by the rest of the
// engine.
func (w *Watcher) Set() *Set { return w.set }

// ScanOnce performs a single directory scan, reloading any file whose
// mtime changed or that is new, and dropping files that disappeared.
// Malformed files are skipped with a logged reason; other files continue
// to load.
func (w *Watcher) ScanOnce() (changed bool, err error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return false, err
	}
	seen := map[string]bool{}
	var playlists []Playlist
	for _, entry := range entries {
		if entry.IsDir() || !isPlaylistFile(entry.Name()) {
			continue
		}
		full := filepath.Join(w.dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}
		seen[full] = true
		mtime := info.ModTime()
		if prev, ok := w.mtimes[full]; ok && prev.Equal(mtime) {
			// unchanged: still need its content for the atomic swap below,
			// but no re-read is required for reload detection.
		} else {
			changed = true
		}
		w.mtimes[full] = mtime

		data, err := os.ReadFile(full)
		if err != nil {
			slog.Warn("playlist: read failed, skipping file", "file", full, "err", err)
			continue
		}
		p, err := Parse(data)
		if err != nil {
			slog.Warn("playlist: parse failed, skipping file", "file", full, "err", err)
			continue
		}
		p.File = full
		playlists = append(playlists, p)
	}
	for full := range w.mtimes {
		if !seen[full] {
			delete(w.mtimes, full)
			changed = true
		}
	}
	if changed {
		w.set.replace(playlists)
	}
	return changed, nil
}

// Run polls ScanOnce every interval until ctx-like stop channel closes.
// Kept separate from ScanOnce so callers (tests, or a single-threaded main
// loop) can drive scans deterministically instead.
func (w *Watcher) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if _, err := w.ScanOnce(); err != nil {
				slog.Warn("playlist: directory scan failed", "dir", w.dir, "err", err)
			}
		}
	}
}

func isPlaylistFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
