// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package kiosk drives a retro media appliance on a kernel-mode-setting
// display. It wraps the subsystems — display surface, input, 2D/text
// rendering, CRT post-processing, video decode, playback control, and
// emulator handoff — into a single cooperative input→update→render loop
// paced by the display's vertical sync:
//    • One playlist-driven video stream composited under a 2D UI.
//    • Timed fades between menu, video-with-UI, and clean video screens.
//    • Display handoff to an external emulator process and safe recovery.
//    • File-system interfaces only: playlists and settings are YAML files
//      written by an out-of-process admin and picked up by mtime polling.
//
// Kiosk dependencies are:
//    • DRM/GBM/EGL for display ownership.       See package kiosk/device.
//    • OpenGL ES for graphics card access.      See package kiosk/render.
//    • FFmpeg for demux/decode.                 See package kiosk/video.
//    • OpenAL for sound card access.            See package kiosk/audio.
package kiosk

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fadeframe/kiosk/audio"
	"github.com/fadeframe/kiosk/crt"
	"github.com/fadeframe/kiosk/device"
	"github.com/fadeframe/kiosk/handoff"
	"github.com/fadeframe/kiosk/internal/qr"
	"github.com/fadeframe/kiosk/load"
	"github.com/fadeframe/kiosk/playback"
	"github.com/fadeframe/kiosk/playlist"
	"github.com/fadeframe/kiosk/render"
	"github.com/fadeframe/kiosk/settings"
	"github.com/fadeframe/kiosk/transition"
	"github.com/fadeframe/kiosk/ui2d"
	"github.com/fadeframe/kiosk/uistate"
	"github.com/fadeframe/kiosk/video"
)

// Process exit codes. Initialization failures exit 1 from main; a display
// that cannot be recovered after handoff exits 2.
const (
	ExitClean       = 0
	ExitInitFailure = 1
	ExitDisplayLost = 2
)

// statusDuration is how long a transient status line message stays up.
const statusDuration = 3.0

// Engine is where everything starts. It owns the main loop and wires the
// subsystems together; each OS/GPU resource stays owned by exactly one
// subsystem and the engine only sequences them.
type Engine struct {
	cfg Config

	dev      device.Device
	gc       render.Renderer
	sink     audio.Sink
	draw     *ui2d.Draw
	crt      *crt.Pass
	screen   *video.Screen
	pipeline video.Pipeline
	ctrl     *playback.Controller
	ui       *uistate.State
	orch     *transition.Orchestrator
	watcher  *playlist.Watcher
	store    *settings.Store
	actions  *device.ActionQueue
	runner   *handoff.Runner
	locator  load.Locator

	width, height int
	bezels        []string // registered bezel image names, in index order.
	qrMatrix      [][]bool // generated once per admin URL.

	gameTime    float64 // seconds since engine start.
	pollTimer   float64 // counts up to the playlist poll interval.
	statusTimer float64 // counts down while a status message shows.
	introUp     bool    // intro pipeline has reported frames.

	quit     bool
	exitCode int
}

// New creates the engine and claims the display. The expected usage is:
//      eng, err := kiosk.New(kiosk.PlaylistDir("/media/playlists"))
//      if err != nil {
//          log.Printf("Failed to initialize engine %s", err)
//          os.Exit(kiosk.ExitInitFailure)
//      }
//      code := eng.Run()
//      eng.Shutdown()
//      os.Exit(code)
func New(attrs ...Attr) (eng *Engine, err error) {
	cfg := configDefaults
	for _, attr := range attrs {
		attr(&cfg)
	}
	eng = &Engine{cfg: cfg}

	// claim the display and create the GLES context.
	eng.dev = device.New()
	if !eng.dev.IsAlive() {
		return nil, fmt.Errorf("display unavailable")
	}
	_, _, eng.width, eng.height = eng.dev.Size()

	// initialize the graphics layer.
	eng.gc = render.New()
	if err = eng.gc.Init(); err != nil {
		eng.Shutdown()
		return nil, err
	}
	eng.gc.Color(cfg.r, cfg.g, cfg.b, cfg.a)
	eng.gc.Viewport(eng.width, eng.height)

	// initialize the audio layer. Falling back to the silent sink keeps
	// the appliance usable when no audio device is present.
	eng.sink = audio.New()
	if err = eng.sink.Init(); err != nil {
		slog.Warn("engine: audio unavailable, continuing silent", "err", err)
		eng.sink = &audio.NoAudio{}
	}

	// fonts are fatal: a kiosk that cannot draw text is unusable.
	eng.locator = load.NewLocator()
	displayTTF, err := load.LoadTtf(eng.locator, cfg.displayFont)
	if err != nil {
		eng.Shutdown()
		return nil, fmt.Errorf("display font: %w", err)
	}
	bodyTTF, err := load.LoadTtf(eng.locator, cfg.bodyFont)
	if err != nil {
		eng.Shutdown()
		return nil, fmt.Errorf("body font: %w", err)
	}
	if eng.draw, err = ui2d.NewDraw(eng.gc, displayTTF, bodyTTF); err != nil {
		eng.Shutdown()
		return nil, err
	}
	eng.draw.SetScreenSize(eng.width, eng.height)

	// persistent settings, defaults when the file is absent.
	if eng.store, err = settings.Open(cfg.settingsPath); err != nil {
		eng.Shutdown()
		return nil, err
	}

	eng.crt = crt.NewPass(eng.gc, eng.width, eng.height)
	eng.screen = video.NewScreen(eng.gc)
	eng.pipeline = video.NewPipeline(eng.sink.(video.AudioSink))
	eng.ctrl = playback.NewController(eng.pipeline)

	eng.watcher = playlist.NewWatcher(cfg.playlistDir, cfg.pollInterval)
	if _, err := eng.watcher.ScanOnce(); err != nil {
		slog.Warn("engine: initial playlist scan failed", "dir", cfg.playlistDir, "err", err)
	}

	eng.ui = uistate.New(len(eng.watcher.Set().Media()))
	eng.ui.MasterVolume = eng.store.Current().MasterVolume
	eng.orch = transition.New()
	eng.actions = device.NewActionQueue()

	eng.runner = handoff.NewRunner(eng.dev, eng.pipeline, eng.draw, eng.crt, eng.screen)
	eng.runner.Command = cfg.emulatorCmd

	eng.applyStoredSettings()
	eng.loadBezels()
	if cfg.adminURL != "" {
		if eng.qrMatrix, err = qr.Encode(cfg.adminURL); err != nil {
			slog.Warn("engine: admin URL QR generation failed", "err", err)
		}
	}
	return eng, nil
}

// Shutdown stops the engine and frees up any allocated resources.
func (eng *Engine) Shutdown() {
	if eng.pipeline != nil {
		eng.pipeline.Stop()
	}
	if eng.sink != nil {
		eng.sink.Dispose()
		eng.sink = nil
	}
	if eng.locator != nil {
		eng.locator.Dispose()
	}
	if eng.dev != nil {
		eng.dev.Dispose()
		eng.dev = nil
	}
}

// Run is the main update/render loop: pump input, update state, render one
// frame, swap. The swap blocks on the display's vertical sync which paces
// the loop; no additional sleep is inserted. Returns the process exit code.
func (eng *Engine) Run() int {
	eng.startIntro()
	lastTime := time.Now()
	for eng.dev != nil && eng.dev.IsAlive() && !eng.quit {
		dt := time.Since(lastTime).Seconds()
		lastTime = time.Now()
		if dt > 0.2 {
			dt = 0.2 // a stalled frame (handoff return) must not warp fades.
		}
		eng.gameTime += dt

		eng.pumpInput(eng.dev.Update())
		eng.update(dt)
		eng.renderFrame()
		eng.dev.SwapBuffers()
	}
	if eng.dev != nil && !eng.dev.IsAlive() && eng.exitCode == ExitClean {
		eng.exitCode = ExitDisplayLost
	}
	return eng.exitCode
}

// update advances every per-tick concern in a fixed order: playlist
// polling, playback state, the transition machine, intro bookkeeping, and
// the newest decoded frame.
func (eng *Engine) update(dt float64) {
	// playlist directory mtime polling.
	eng.pollTimer += dt
	if eng.pollTimer >= eng.cfg.pollInterval.Seconds() {
		eng.pollTimer = 0
		if changed, err := eng.watcher.ScanOnce(); err == nil && changed {
			media := eng.watcher.Set().Media()
			if eng.ui.SelectedPlaylistIndex >= len(media) {
				eng.ui.SelectedPlaylistIndex = 0
			}
			slog.Info("engine: playlists reloaded", "media", len(media))
		}
	}

	// status line decay.
	if eng.statusTimer > 0 {
		eng.statusTimer -= dt
		if eng.statusTimer <= 0 {
			eng.ui.ClearStatus()
		}
	}
	if msg := eng.ctrl.Status.Text; msg != "" {
		eng.ctrl.Status.Text = ""
		eng.status(msg)
	}

	// playback position/duration and auto-advance.
	eng.ctrl.UpdateState(dt)
	eng.orch.Tick(dt, eng.ui, eng.ctrl.State(), eng.setVolume)

	// intro end-of-stream detection happens here on the main thread, never
	// from the decoder side.
	state := eng.orch.Current()
	if state == transition.Intro && eng.introUp && !eng.pipeline.Active() {
		eng.orch.IntroEnded(eng.ui)
	}

	// newest decoded frame, pulled non-blocking.
	if frame := eng.pipeline.Frame(); frame != nil {
		eng.screen.Upload(frame)
		if state == transition.Intro && !eng.ui.Intro.IntroReady {
			eng.orch.IntroFrameArrived(eng.ui)
		}
	}
}

// startIntro loads the intro video when configured and present, otherwise
// boots straight to the menu.
func (eng *Engine) startIntro() {
	if eng.cfg.introPath != "" {
		if _, err := os.Stat(eng.cfg.introPath); err == nil {
			if eng.pipeline.Load(eng.cfg.introPath, 0, 0, false) {
				eng.introUp = true
				return
			}
			slog.Warn("engine: intro load failed", "err", eng.pipeline.LastError())
		}
	}
	eng.orch.Skip(eng.ui)
}

// status shows a transient status-line message.
func (eng *Engine) status(format string, args ...interface{}) {
	eng.ui.SetStatus(format, args...)
	eng.statusTimer = statusDuration
}

// launchGame hands the display to the emulator for one ROM and recovers.
// The screen is blanked and swapped before the fork so the user never
// stares at a frozen menu frame.
func (eng *Engine) launchGame(item playlist.Item) {
	if eng.cfg.emulatorCmd == "" {
		eng.status("no emulator configured")
		return
	}
	eng.orch.SelectGame(eng.ui)
	eng.orch.CloseSettings()

	eng.gc.Clear()
	eng.dev.SwapBuffers()

	rom := item.ResolvedPath(eng.cfg.playlistDir)
	err := eng.runner.Run(rom, eng.bezelPath())
	if err != nil {
		if errors.Is(err, handoff.ErrDisplayLost) {
			slog.Error("engine: display lost after handoff", "err", err)
			eng.exitCode = ExitDisplayLost
			eng.quit = true
			return
		}
		eng.status("game launch failed: %s", item.Title)
		slog.Warn("engine: handoff failed", "rom", rom, "err", err)
	}

	// the runner reset every GL owner; re-assert renderer state and
	// re-register image assets before the next frame draws.
	eng.gc.ResetState()
	eng.gc.Viewport(eng.width, eng.height)
	eng.loadBezels()
	eng.orch.RecoverFromHandoff()
	eng.orch.CompleteRecovery(eng.ui)
}

// bezelPath returns the selected bezel's asset name, empty for none.
func (eng *Engine) bezelPath() string {
	idx := eng.store.Current().BezelIndex
	if idx < 0 || idx >= len(eng.bezels) {
		return ""
	}
	return eng.bezels[idx]
}

// loadBezels registers the bezel overlay images found through the asset
// locator. Called at startup and again after handoff recovery since the
// reset dropped the textures.
func (eng *Engine) loadBezels() {
	eng.bezels = eng.bezels[:0]
	for i := 0; ; i++ {
		name := fmt.Sprintf("bezel%d.png", i)
		img, err := load.LoadPng(eng.locator, name)
		if err != nil {
			break // bezels are numbered contiguously from zero.
		}
		eng.draw.Image(name, img)
		eng.bezels = append(eng.bezels, name)
	}
}

// applyStoredSettings pushes the persisted settings into the subsystems
// that consume them.
func (eng *Engine) applyStoredSettings() {
	s := eng.store.Current()
	eng.crt.SetIntensities(crt.Intensities{
		Scanlines: s.Effects.Scanlines,
		Warmth:    s.Effects.Warmth,
		Glow:      s.Effects.Glow,
		RGBMask:   s.Effects.RGBMask,
		Bloom:     s.Effects.Bloom,
		Interlace: s.Effects.Interlace,
		Flicker:   s.Effects.Flicker,
	})
	eng.applyAudioOutput(s.AudioOutput)
}

// applyAudioOutput resolves the output setting to a host device name and
// reopens the sink on it. Output changes stop playback first: the stream
// is reloaded rather than migrated so the device switch is always clean.
func (eng *Engine) applyAudioOutput(out settings.AudioOutput) {
	if out == settings.AutoOutput {
		return // the sink's default device already tracks the system.
	}
	want := "hdmi"
	if out == settings.Headphone {
		want = "analog"
	}
	for _, name := range eng.sink.Outputs() {
		if containsFold(name, want) {
			eng.ctrl.Stop()
			if err := eng.sink.SetOutput(name); err != nil {
				slog.Warn("engine: audio output switch failed", "device", name, "err", err)
			}
			return
		}
	}
	slog.Warn("engine: no matching audio output", "wanted", want)
}

// saveSettings persists new settings and re-applies the live effects.
func (eng *Engine) saveSettings(s settings.Settings) {
	if err := eng.store.Set(s); err != nil {
		slog.Warn("engine: settings write failed", "err", err)
	}
	eng.applyStoredSettings()
}

// containsFold is a case-insensitive substring test for device names.
func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
