// SPDX-FileCopyrightText : © 2022 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package kiosk

// config.go reduces the New API footprint using functional options.
// See: http://dave.cheney.net/2014/10/17/functional-options-for-friendly-apis
//      https://commandcenter.blogspot.ca/2014/01/self-referential-functions-and-design.html

import "time"

// Config contains configuration attributes that can be set before running
// the engine loop. Persistent operator-editable settings (display mode,
// effect intensities, volume) are a separate concern handled by the
// settings store; Config covers the wiring the appliance image bakes in.
type Config struct {
	playlistDir  string        // directory scanned for playlist files.
	settingsPath string        // persisted settings document.
	introPath    string        // intro video, empty to boot straight to menu.
	emulatorCmd  string        // external emulator binary for game items.
	displayFont  string        // truetype file for titles.
	bodyFont     string        // truetype file for body text.
	adminURL     string        // URL shown as a QR code in the info panel.
	fadeDuration float64       // UI fade length in seconds.
	pollInterval time.Duration // playlist directory mtime poll cadence.

	// display default background color
	r, g, b, a float32 // red, green, blue, alpha: range 0-1
}

// configDefaults provides reasonable defaults so the kiosk runs even if
// no configuration attributes are set.
var configDefaults = Config{
	playlistDir:  "playlists",
	settingsPath: "settings.yaml",
	introPath:    "/media/intro.mp4",
	emulatorCmd:  "",
	displayFont:  "display.ttf",
	bodyFont:     "body.ttf",
	adminURL:     "",
	fadeDuration: 1.0,
	pollInterval: 1500 * time.Millisecond,
	r:            0.04, // default near-black theme
	g:            0.04,
	b:            0.06,
	a:            1.0,
}

// Attr defines optional application attributes that can be used to
// configure the engine.
//
//	eng, err := kiosk.New(
//	   kiosk.PlaylistDir("/media/playlists"),
//	   kiosk.Emulator("/usr/bin/retroarch"),
//	)
type Attr func(*Config) // type for attribute overrides

// PlaylistDir sets the directory scanned and watched for playlist files.
func PlaylistDir(dir string) Attr {
	return func(c *Config) { c.playlistDir = dir }
}

// SettingsPath sets the persisted settings document location.
func SettingsPath(path string) Attr {
	return func(c *Config) { c.settingsPath = path }
}

// Intro sets the cold-start intro video. An empty path, or a missing
// file, boots straight to the menu.
func Intro(path string) Attr {
	return func(c *Config) { c.introPath = path }
}

// Emulator sets the external binary invoked for game items with the ROM
// path as its first argument.
func Emulator(cmd string) Attr {
	return func(c *Config) { c.emulatorCmd = cmd }
}

// Fonts sets the display (titles) and body truetype files, resolved
// through the asset locator's font directory convention.
func Fonts(display, body string) Attr {
	return func(c *Config) { c.displayFont = display; c.bodyFont = body }
}

// AdminURL sets the web admin address rendered as a QR code in the info
// panel. Empty hides the QR pane.
func AdminURL(url string) Attr {
	return func(c *Config) { c.adminURL = url }
}

// FadeDuration overrides the UI fade length in seconds.
func FadeDuration(seconds float64) Attr {
	return func(c *Config) {
		if seconds > 0 {
			c.fadeDuration = seconds
		}
	}
}

// Background display clear color.
func Background(r, g, b, a float32) Attr {
	return func(c *Config) { c.r = r; c.g = g; c.b = b; c.a = a }
}
