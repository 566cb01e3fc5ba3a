// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kiosk

// screens.go draws one frame for whatever screen the transition machine
// says is current. Everything renders through the 2D layer under the CRT
// effect pass; the decoded video frame, when present, goes underneath.

import (
	"fmt"
	"math"

	"github.com/fadeframe/kiosk/form"
	"github.com/fadeframe/kiosk/settings"
	"github.com/fadeframe/kiosk/transition"
	"github.com/fadeframe/kiosk/ui2d"
	"github.com/fadeframe/kiosk/uistate"
)

// theme colours, 0-1 RGB.
var (
	themeAccent = [3]float64{0.95, 0.55, 0.15}
	themeText   = [3]float64{0.92, 0.92, 0.90}
	themeDim    = [3]float64{0.55, 0.55, 0.58}

	// per-section accent bar colours for the settings panel.
	sectionColors = map[uistate.Section][3]float64{
		uistate.SectionRoot:    {0.95, 0.55, 0.15},
		uistate.SectionDisplay: {0.30, 0.70, 0.95},
		uistate.SectionAudio:   {0.45, 0.85, 0.45},
		uistate.SectionGames:   {0.85, 0.40, 0.85},
		uistate.SectionInfo:    {0.95, 0.85, 0.30},
	}
)

// text sizes used throughout the UI.
const (
	sizeTitle  = 48
	sizeHeader = 32
	sizeBody   = 22
	sizeSmall  = 18
	sizeTiny   = 14
)

// renderFrame draws exactly one frame for the current state.
func (eng *Engine) renderFrame() {
	state := eng.orch.Current()
	videoActive := eng.ctrl.State().VideoActive ||
		state == transition.Intro || state == transition.IntroFadeOut

	captured := eng.crt.Begin()
	if !captured {
		eng.gc.Clear()
	}

	switch state {
	case transition.Intro, transition.IntroFadeOut:
		eng.drawVideo(1)
		if a := eng.orch.IntroFadeAlpha(eng.ui); a > 0 {
			eng.draw.SetAlpha(1)
			eng.draw.FillRect(0, 0, float64(eng.width), float64(eng.height), 0, 0, 0, a)
		}
	case transition.Handoff, transition.Recovery:
		// black; the emulator owns the display between these states.
	default:
		eng.drawComposedFrame(state, videoActive)
	}

	eng.crt.End()
}

// drawComposedFrame renders the menu/playback screens plus every overlay.
func (eng *Engine) drawComposedFrame(state transition.State, videoActive bool) {
	alpha := eng.orch.UIAlpha(eng.ui, videoActive)
	if videoActive && state != transition.Load {
		eng.drawVideo(1)
		if alpha > 0 && state == transition.PlayUI {
			// darkener between video and UI so text stays readable.
			eng.draw.SetAlpha(1)
			eng.draw.FillRect(0, 0, float64(eng.width), float64(eng.height), 0, 0, 0, 0.5*alpha)
		}
	}
	eng.drawBezel()

	// the UI block is skipped entirely once faded out; the CRT pass
	// still runs over the bare video.
	eng.draw.SetAlpha(alpha)
	if alpha > 0 {
		switch state {
		case transition.Menu:
			eng.drawMenu()
		case transition.Load:
			eng.drawMenu()
			eng.drawLoading()
		case transition.PlayUI, transition.PlayClean:
			eng.drawPlaybackUI()
			if eng.ctrl.State().IsSwitchingPlaylist || !videoActive {
				eng.drawLoading()
			}
		}
		if eng.orch.SettingsOpen {
			eng.drawSettingsPanel()
		}
		if eng.ui.Keyboard.Active {
			eng.drawKeyboard()
		}
		eng.drawVolumeOverlay()
		eng.drawStatusLine()
	}
}

// contentRect returns the centered 4:3 content viewport within the
// display, used for video placement and bezel alignment.
func (eng *Engine) contentRect() (x, y, w, h float64) {
	sw, sh := float64(eng.width), float64(eng.height)
	w = sh * 4 / 3
	h = sh
	if w > sw {
		w = sw
		h = sw * 3 / 4
	}
	return (sw - w) / 2, (sh - h) / 2, w, h
}

// drawVideo draws the newest decoded frame into the content viewport.
func (eng *Engine) drawVideo(alpha float64) {
	x, y, w, h := eng.contentRect()
	eng.screen.Draw(x, y, w, h, eng.width, eng.height, alpha)
}

// drawBezel overlays the selected bezel art around the content area.
func (eng *Engine) drawBezel() {
	name := eng.bezelPath()
	if name == "" {
		return
	}
	eng.draw.SetAlpha(1)
	eng.draw.DrawImage(name, 0, 0, float64(eng.width), float64(eng.height), 1)
}

// drawMenu renders the media playlist chooser.
func (eng *Engine) drawMenu() {
	d := eng.draw
	media := eng.watcher.Set().Media()
	left := 80.0
	top := 90.0

	d.Text(ui2d.Display, sizeTitle, left, top, themeAccent[0], themeAccent[1], themeAccent[2], 1, "FADEFRAME")
	d.Line(left, top+16, float64(eng.width)-left, top+16,
		themeAccent[0], themeAccent[1], themeAccent[2], 0.6)

	if len(media) == 0 {
		d.Text(ui2d.Body, sizeBody, left, top+80, themeDim[0], themeDim[1], themeDim[2], 1,
			"no playlists found")
		return
	}

	rowH := float64(d.LineHeight(ui2d.Body, sizeHeader)) + 18
	y := top + 90
	for i, p := range media {
		selected := i == eng.ui.SelectedPlaylistIndex
		r, g, b := themeDim[0], themeDim[1], themeDim[2]
		if selected {
			r, g, b = themeText[0], themeText[1], themeText[2]
			d.FillRect(left-20, y-float64(sizeHeader), float64(eng.width)-2*left+40, rowH,
				themeAccent[0], themeAccent[1], themeAccent[2], 0.15)
			d.FillRect(left-20, y-float64(sizeHeader), 6, rowH,
				themeAccent[0], themeAccent[1], themeAccent[2], 1)
		}
		d.Text(ui2d.Body, sizeHeader, left, y, r, g, b, 1, p.Title)
		if selected && p.Curator != "" {
			w := d.TextWidth(ui2d.Body, sizeHeader, p.Title)
			d.Text(ui2d.Body, sizeSmall, left+float64(w)+24, y,
				themeDim[0], themeDim[1], themeDim[2], 1, "curated by "+p.Curator)
		}
		y += rowH
	}

	if sel := eng.ui.SelectedPlaylistIndex; sel < len(media) && media[sel].Description != "" {
		d.Text(ui2d.Body, sizeSmall, left, float64(eng.height)-70,
			themeDim[0], themeDim[1], themeDim[2], 1, media[sel].Description)
	}
}

// drawPlaybackUI renders the over-video playback controls and item info.
func (eng *Engine) drawPlaybackUI() {
	d := eng.draw
	pb := eng.ctrl.State()
	item := eng.ctrl.CurrentItem()
	left := 80.0
	base := float64(eng.height) - 130

	if item != nil {
		d.Text(ui2d.Display, sizeHeader, left, base, themeText[0], themeText[1], themeText[2], 1, item.Title)
		if item.Artist != "" {
			d.Text(ui2d.Body, sizeSmall, left, base+32, themeDim[0], themeDim[1], themeDim[2], 1, item.Artist)
		}
	}

	// position bar with time readouts.
	barY := base + 56.0
	barW := float64(eng.width) - 2*left
	d.FillRect(left, barY, barW, 6, themeDim[0], themeDim[1], themeDim[2], 0.5)
	if pb.DurationSeconds > 0 {
		frac := pb.PositionSeconds / pb.DurationSeconds
		if frac > 1 {
			frac = 1
		}
		d.FillRect(left, barY, barW*frac, 6, themeAccent[0], themeAccent[1], themeAccent[2], 1)
	}
	d.Text(ui2d.Body, sizeTiny, left, barY+26, themeDim[0], themeDim[1], themeDim[2], 1,
		clock(pb.PositionSeconds)+" / "+clock(pb.DurationSeconds))
	if pb.Paused {
		d.Text(ui2d.Body, sizeTiny, left+barW-60, barY+26,
			themeAccent[0], themeAccent[1], themeAccent[2], 1, "PAUSED")
	}
}

// drawLoading renders the pulsing loading text with its slowly rotating
// square spinner.
func (eng *Engine) drawLoading() {
	d := eng.draw
	cx, cy := float64(eng.width)/2, float64(eng.height)/2
	pulse := 0.55 + 0.45*math.Sin(eng.gameTime*4)

	// rotated square outline, one revolution every eight seconds.
	angle := eng.gameTime * math.Pi / 4
	const radius = 34.0
	var px, py [4]float64
	for i := 0; i < 4; i++ {
		a := angle + float64(i)*math.Pi/2
		px[i] = cx + radius*math.Cos(a)
		py[i] = cy - 60 + radius*math.Sin(a)
	}
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		d.Line(px[i], py[i], px[j], py[j],
			themeAccent[0], themeAccent[1], themeAccent[2], pulse)
	}

	label := "Loading..."
	w := d.TextWidth(ui2d.Body, sizeBody, label)
	d.Text(ui2d.Body, sizeBody, cx-float64(w)/2, cy+20,
		themeText[0], themeText[1], themeText[2], pulse, label)
}

// drawStatusLine renders the transient one-line message surface.
func (eng *Engine) drawStatusLine() {
	if eng.ui.StatusLine == "" {
		return
	}
	d := eng.draw
	d.FillRect(0, float64(eng.height)-34, float64(eng.width), 34, 0, 0, 0, 0.7)
	d.Text(ui2d.Body, sizeSmall, 20, float64(eng.height)-12,
		themeText[0], themeText[1], themeText[2], 1, eng.ui.StatusLine)
}

// drawVolumeOverlay renders the transient master volume HUD.
func (eng *Engine) drawVolumeOverlay() {
	if !eng.ui.VolumeOverlayVisible {
		return
	}
	d := eng.draw
	w, h := 260.0, 56.0
	x := float64(eng.width) - w - 40
	y := 40.0
	d.FillRect(x, y, w, h, 0, 0, 0, 0.7)
	d.Text(ui2d.Body, sizeSmall, x+14, y+24, themeText[0], themeText[1], themeText[2], 1, "Volume")
	frac := float64(eng.ui.MasterVolume) / 100
	d.FillRect(x+14, y+34, w-28, 8, themeDim[0], themeDim[1], themeDim[2], 0.5)
	d.FillRect(x+14, y+34, (w-28)*frac, 8, themeAccent[0], themeAccent[1], themeAccent[2], 1)
}

// drawSettingsPanel renders the right-half overlay with its section
// coloured accent bar, laid out with a form: header, list, and
// footer hint row.
func (eng *Engine) drawSettingsPanel() {
	d := eng.draw
	panelW := float64(eng.width) / 2
	panelX := float64(eng.width) - panelW
	section := eng.ui.Menu.Current()
	accent := sectionColors[section]

	d.FillRect(panelX, 0, panelW, float64(eng.height), 0.05, 0.05, 0.08, 0.92)
	d.FillRect(panelX, 0, 8, float64(eng.height), accent[0], accent[1], accent[2], 1)

	f := form.New([]string{"h", "l", "f"}, int(panelW), eng.height,
		"graby 1", "pad 30 20 40 30")
	hx, hy := sectionTop(f, "h")
	d.Text(ui2d.Display, sizeHeader, panelX+hx, hy+44, accent[0], accent[1], accent[2], 1,
		sectionTitle(section))

	lx, ly := sectionTop(f, "l")
	if section == uistate.SectionGames {
		eng.drawGameBrowser(panelX+lx, ly+40)
	} else if section == uistate.SectionInfo {
		eng.drawInfoPane(panelX+lx, ly+40)
	} else {
		eng.drawMenuRows(panelX+lx, ly+40)
	}

	fx, fy := sectionTop(f, "f")
	_, fsh := f.Section("f").Size()
	d.Text(ui2d.Body, sizeTiny, panelX+fx, fy+fsh-10,
		themeDim[0], themeDim[1], themeDim[2], 1,
		"select: choose   back: up   settings: close")
}

// sectionTop converts a form section's centered bounds to a top-left
// anchor in the panel's local pixel space. Forms measure y upward from
// the bottom edge, the screen measures downward from the top.
func sectionTop(f form.Form, label string) (x, y float64) {
	s := f.Section(label)
	cx, cy := s.At()
	w, h := s.Size()
	_, _, _, fh := panelBounds(f)
	return cx - w/2, (fh - cy) - h/2
}

// panelBounds recovers the form's overall size from its sections.
func panelBounds(f form.Form) (x, y, w, h float64) {
	for _, s := range f.Sections() {
		cx, cy := s.At()
		sw, sh := s.Size()
		if r := cx + sw/2; r > w {
			w = r
		}
		if t := cy + sh/2; t > h {
			h = t
		}
	}
	return 0, 0, w, h
}

// drawMenuRows renders the current section's entries with live labels.
func (eng *Engine) drawMenuRows(x, y float64) {
	d := eng.draw
	labels := eng.menuLabels(eng.ui.Menu.Current())
	sel := eng.ui.Menu.Selection()
	rowH := float64(d.LineHeight(ui2d.Body, sizeBody)) + 12
	for i, label := range labels {
		r, g, b := themeDim[0], themeDim[1], themeDim[2]
		if i == sel {
			r, g, b = themeText[0], themeText[1], themeText[2]
			d.Text(ui2d.Body, sizeBody, x-26, y, themeAccent[0], themeAccent[1], themeAccent[2], 1, ">")
		}
		d.Text(ui2d.Body, sizeBody, x, y, r, g, b, 1, label)
		y += rowH
	}
}

// drawGameBrowser renders the two-level game playlist drill-down with the
// always-present trailing Back entry.
func (eng *Engine) drawGameBrowser(x, y float64) {
	d := eng.draw
	games := eng.watcher.Set().Games()
	gb := eng.ui.Menu.GameBrowser()
	sel := eng.ui.Menu.Selection()
	rowH := float64(d.LineHeight(ui2d.Body, sizeBody)) + 12

	var labels []string
	switch gb.Level {
	case uistate.GameBrowserPlaylists:
		for _, p := range games {
			labels = append(labels, fmt.Sprintf("%s (%d games)", p.Title, len(p.Items)))
		}
	case uistate.GameBrowserItems:
		if gb.SelectedPlaylist < len(games) {
			for _, it := range games[gb.SelectedPlaylist].Items {
				labels = append(labels, it.Title)
			}
		}
	}
	labels = append(labels, "Back")

	for i, label := range labels {
		r, g, b := themeDim[0], themeDim[1], themeDim[2]
		if i == sel {
			r, g, b = themeText[0], themeText[1], themeText[2]
			d.Text(ui2d.Body, sizeBody, x-26, y, themeAccent[0], themeAccent[1], themeAccent[2], 1, ">")
		}
		d.Text(ui2d.Body, sizeBody, x, y, r, g, b, 1, label)
		y += rowH
	}
}

// drawInfoPane renders the QR code linking to the web admin.
func (eng *Engine) drawInfoPane(x, y float64) {
	d := eng.draw
	if len(eng.qrMatrix) == 0 {
		d.Text(ui2d.Body, sizeBody, x, y, themeDim[0], themeDim[1], themeDim[2], 1,
			"no admin address configured")
		return
	}
	d.Text(ui2d.Body, sizeBody, x, y, themeText[0], themeText[1], themeText[2], 1,
		"scan to open the admin page")
	d.QR(eng.qrMatrix, x, y+24, 220)
	d.Text(ui2d.Body, sizeTiny, x, y+24+220+28,
		themeDim[0], themeDim[1], themeDim[2], 1, eng.cfg.adminURL)
}

// drawKeyboard renders the modal virtual keyboard grid and its buffer.
func (eng *Engine) drawKeyboard() {
	d := eng.draw
	rows := uistate.Rows()
	cell := 54.0
	gridW := cell * 10
	x0 := (float64(eng.width) - gridW) / 2
	y0 := float64(eng.height)/2 - 80

	d.FillRect(x0-30, y0-90, gridW+60, cell*float64(len(rows))+150, 0, 0, 0, 0.85)
	d.Text(ui2d.Body, sizeBody, x0, y0-40,
		themeText[0], themeText[1], themeText[2], 1, string(eng.ui.Keyboard.Buffer)+"_")

	for r, row := range rows {
		rowX := x0 + (gridW-cell*float64(len(row)))/2
		for c, key := range row {
			kx := rowX + cell*float64(c)
			ky := y0 + cell*float64(r)
			if r == eng.ui.Keyboard.Row && c == eng.ui.Keyboard.Col {
				d.FillRect(kx+2, ky+2, cell-4, cell-4,
					themeAccent[0], themeAccent[1], themeAccent[2], 0.35)
			}
			d.Text(ui2d.Body, sizeBody, kx+18, ky+34,
				themeText[0], themeText[1], themeText[2], 1, string(key))
		}
	}
}

// =============================================================================
// menu tree: fixed structure, labels computed from live state.

// sectionTitle names the settings panel header per section.
func sectionTitle(s uistate.Section) string {
	switch s {
	case uistate.SectionDisplay:
		return "Display"
	case uistate.SectionAudio:
		return "Audio"
	case uistate.SectionGames:
		return "Games"
	case uistate.SectionInfo:
		return "Info"
	default:
		return "Settings"
	}
}

// menuEntryCount sizes the cursor range per section.
func (eng *Engine) menuEntryCount(s uistate.Section) int {
	return len(eng.menuLabels(s))
}

// menuLabels builds the current labels for a section. Labels embed the
// live setting values so the list never drifts from the store.
func (eng *Engine) menuLabels(s uistate.Section) []string {
	cur := eng.store.Current()
	switch s {
	case uistate.SectionRoot:
		return []string{"Display", "Audio", "Games", "Info", "Close"}
	case uistate.SectionDisplay:
		bezel := "none"
		if cur.BezelIndex >= 0 && cur.BezelIndex < len(eng.bezels) {
			bezel = fmt.Sprintf("%d", cur.BezelIndex)
		}
		return []string{
			"Mode: " + cur.DisplayMode.String(),
			"Bezel: " + bezel,
			effectLabel("Scanlines", cur.Effects.Scanlines),
			effectLabel("Warmth", cur.Effects.Warmth),
			effectLabel("Glow", cur.Effects.Glow),
			effectLabel("RGB mask", cur.Effects.RGBMask),
			effectLabel("Bloom", cur.Effects.Bloom),
			effectLabel("Interlace", cur.Effects.Interlace),
			effectLabel("Flicker", cur.Effects.Flicker),
			"Back",
		}
	case uistate.SectionAudio:
		return []string{
			"Output: " + cur.AudioOutput.String(),
			fmt.Sprintf("Game volume: %+.0f dB", cur.GameVolumeOffdB),
			"Back",
		}
	case uistate.SectionInfo:
		return []string{"Back"}
	}
	return nil
}

// effectLabel formats one CRT effect's intensity as off/low/medium/high.
func effectLabel(name string, v float64) string {
	level := "off"
	switch {
	case v > 0.75:
		level = "high"
	case v > 0.4:
		level = "medium"
	case v > 0:
		level = "low"
	}
	return name + ": " + level
}

// menuSelect activates the highlighted entry of the current section.
func (eng *Engine) menuSelect() {
	menu := eng.ui.Menu
	sel := menu.Selection()
	switch menu.Current() {
	case uistate.SectionRoot:
		switch sel {
		case 0:
			menu.Enter(uistate.SectionDisplay)
		case 1:
			menu.Enter(uistate.SectionAudio)
		case 2:
			menu.ResetGameBrowser()
			menu.Enter(uistate.SectionGames)
		case 3:
			menu.Enter(uistate.SectionInfo)
		default:
			eng.orch.CloseSettings()
		}
	case uistate.SectionDisplay:
		eng.selectDisplayEntry(sel)
	case uistate.SectionAudio:
		eng.selectAudioEntry(sel)
	case uistate.SectionInfo:
		menu.Back()
	}
}

// selectDisplayEntry toggles or cycles one display setting.
func (eng *Engine) selectDisplayEntry(sel int) {
	s := eng.store.Current()
	switch sel {
	case 0:
		if s.DisplayMode == settings.CRTNative {
			s.DisplayMode = settings.ModernTV
		} else {
			s.DisplayMode = settings.CRTNative
		}
	case 1:
		s.BezelIndex++
		if s.BezelIndex >= len(eng.bezels) {
			s.BezelIndex = -1
		}
	case 2:
		s.Effects.Scanlines = cycleIntensity(s.Effects.Scanlines)
	case 3:
		s.Effects.Warmth = cycleIntensity(s.Effects.Warmth)
	case 4:
		s.Effects.Glow = cycleIntensity(s.Effects.Glow)
	case 5:
		s.Effects.RGBMask = cycleIntensity(s.Effects.RGBMask)
	case 6:
		s.Effects.Bloom = cycleIntensity(s.Effects.Bloom)
	case 7:
		s.Effects.Interlace = cycleIntensity(s.Effects.Interlace)
	case 8:
		s.Effects.Flicker = cycleIntensity(s.Effects.Flicker)
	default:
		eng.ui.Menu.Back()
		return
	}
	eng.saveSettings(s)
}

// selectAudioEntry cycles one audio setting.
func (eng *Engine) selectAudioEntry(sel int) {
	s := eng.store.Current()
	switch sel {
	case 0:
		switch s.AudioOutput {
		case settings.AutoOutput:
			s.AudioOutput = settings.HDMI
		case settings.HDMI:
			s.AudioOutput = settings.Headphone
		default:
			s.AudioOutput = settings.AutoOutput
		}
	case 1:
		// -6 .. +6 dB in 3 dB steps, wrapping.
		s.GameVolumeOffdB += 3
		if s.GameVolumeOffdB > 6 {
			s.GameVolumeOffdB = -6
		}
	default:
		eng.ui.Menu.Back()
		return
	}
	eng.saveSettings(s)
}

// cycleIntensity steps an effect off -> low -> medium -> high -> off.
func cycleIntensity(v float64) float64 {
	switch {
	case v == 0:
		return 0.25
	case v <= 0.25:
		return 0.5
	case v <= 0.5:
		return 1
	default:
		return 0
	}
}

// clock formats seconds as m:ss.
func clock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	s := int(seconds)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
