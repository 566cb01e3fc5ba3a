// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// The kiosk command boots the fadeframe display engine on the appliance.
// It owns process-level concerns only: flags, logging, and exit codes.
// Exit codes: 0 clean shutdown, 1 initialization failure, 2 fatal display
// loss after recovery attempts.
package main

import (
	"flag"
	"log/slog"
	"os"

	kiosk "github.com/fadeframe/kiosk"
)

func main() {
	playlists := flag.String("playlists", "playlists", "directory of playlist YAML files")
	settingsPath := flag.String("settings", "settings.yaml", "persisted settings file")
	intro := flag.String("intro", "/media/intro.mp4", "intro video, empty to skip")
	emulator := flag.String("emulator", "", "emulator binary for game items")
	admin := flag.String("admin-url", "", "web admin URL shown as a QR code")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	eng, err := kiosk.New(
		kiosk.PlaylistDir(*playlists),
		kiosk.SettingsPath(*settingsPath),
		kiosk.Intro(*intro),
		kiosk.Emulator(*emulator),
		kiosk.AdminURL(*admin),
	)
	if err != nil {
		slog.Error("kiosk: initialization failed", "err", err)
		os.Exit(kiosk.ExitInitFailure)
	}
	code := eng.Run()
	eng.Shutdown()
	os.Exit(code)
}
