// SPDX-FileCopyrightText : © 2022 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

// Package settings persists the operator-editable kiosk configuration:
// CRT display mode, bezel selection, per-effect intensities, audio
// output, and volume.
//
// Package settings is provided as part of the fadeframe kiosk engine.
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DisplayMode selects between a CRT-accurate native resolution/refresh
// and a modern-TV friendly mode.
type DisplayMode int

const (
	CRTNative DisplayMode = iota
	ModernTV
)

func (m DisplayMode) String() string {
	if m == ModernTV {
		return "modern_tv"
	}
	return "crt_native"
}

func (m DisplayMode) MarshalYAML() (interface{}, error) { return m.String(), nil }

func (m *DisplayMode) UnmarshalYAML(n *yaml.Node) error {
	switch n.Value {
	case "modern_tv":
		*m = ModernTV
	default:
		*m = CRTNative
	}
	return nil
}

// AudioOutput selects the host audio sink device.
type AudioOutput int

const (
	AutoOutput AudioOutput = iota
	HDMI
	Headphone
)

func (o AudioOutput) String() string {
	switch o {
	case HDMI:
		return "hdmi"
	case Headphone:
		return "headphone"
	default:
		return "auto"
	}
}

func (o AudioOutput) MarshalYAML() (interface{}, error) { return o.String(), nil }

func (o *AudioOutput) UnmarshalYAML(n *yaml.Node) error {
	switch n.Value {
	case "hdmi":
		*o = HDMI
	case "headphone":
		*o = Headphone
	default:
		*o = AutoOutput
	}
	return nil
}

// Effects are the seven CRT post-process intensities, each clamped to
// [0,1].
type Effects struct {
	Scanlines float64 `yaml:"scanlines"`
	Warmth    float64 `yaml:"warmth"`
	Glow      float64 `yaml:"glow"`
	RGBMask   float64 `yaml:"rgb_mask"`
	Bloom     float64 `yaml:"bloom"`
	Interlace float64 `yaml:"interlace"`
	Flicker   float64 `yaml:"flicker"`
}

// Clamp forces every intensity into [0,1].
func (e *Effects) Clamp() {
	clamp := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return v
	}
	e.Scanlines = clamp(e.Scanlines)
	e.Warmth = clamp(e.Warmth)
	e.Glow = clamp(e.Glow)
	e.RGBMask = clamp(e.RGBMask)
	e.Bloom = clamp(e.Bloom)
	e.Interlace = clamp(e.Interlace)
	e.Flicker = clamp(e.Flicker)
}

// Settings is the single persisted settings document.
type Settings struct {
	DisplayMode     DisplayMode `yaml:"display_mode"`
	BezelIndex      int         `yaml:"bezel_index"` // -1 = none
	Effects         Effects     `yaml:"effects"`
	AudioOutput     AudioOutput `yaml:"audio_output"`
	GameVolumeOffdB float64     `yaml:"game_volume_offset_db"`
	MasterVolume    int         `yaml:"master_volume"` // 0-100
}

// Defaults returns the settings used when no file is present on disk.
func Defaults() Settings {
	return Settings{
		DisplayMode:  CRTNative,
		BezelIndex:   -1,
		Effects:      Effects{Scanlines: 0.5, Warmth: 0.2, Glow: 0.15},
		AudioOutput:  AutoOutput,
		MasterVolume: 80,
	}
}

// Store reads and writes Settings atomically to a single on-disk path.
type Store struct {
	path string
	cur  Settings
}

// Open loads settings from path, falling back to Defaults() when the
// file does not exist.
func Open(path string) (*Store, error) {
	s := &Store{path: path, cur: Defaults()}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	loaded := Defaults()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("settings: parse %s: %w", path, err)
	}
	loaded.Effects.Clamp()
	s.cur = loaded
	return s, nil
}

// Current returns a copy of the in-memory settings.
func (s *Store) Current() Settings { return s.cur }

// Set replaces the in-memory settings and writes them to disk
// atomically. Every operator toggle goes through Set.
func (s *Store) Set(next Settings) error {
	next.Effects.Clamp()
	s.cur = next
	return s.write()
}

// write is the temp-file-then-rename atomic writer. The admin's polling
// file watcher must only ever observe fully written files.
func (s *Store) write() error {
	data, err := yaml.Marshal(s.cur)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".settings-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, s.path)
}
