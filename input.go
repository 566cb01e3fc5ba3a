// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kiosk

import (
	"time"

	"github.com/fadeframe/kiosk/device"
	"github.com/fadeframe/kiosk/playlist"
	"github.com/fadeframe/kiosk/transition"
	"github.com/fadeframe/kiosk/uistate"
)

// seek distances in seconds for the short and long seek actions.
const (
	seekShort = 10
	seekLong  = 60
)

// pumpInput converts the device's pressed state into abstract actions and
// applies them in arrival order. Exactly one drain per tick: a burst of
// events within a tick is processed completely before the frame renders.
func (eng *Engine) pumpInput(pressed *device.Pressed) {
	eng.actions.FeedKeymap(pressed.Down, device.DefaultKeymap, time.Now())
	for _, action := range eng.actions.Drain() {
		eng.apply(action)
	}
}

// apply routes one action based on the current modal state: the virtual
// keyboard captures everything while active, then the settings overlay,
// then the base screen state.
func (eng *Engine) apply(action device.Action) {
	if action == device.Quit {
		eng.quit = true
		return
	}
	if eng.ui.Keyboard.Active {
		eng.applyKeyboard(action)
		return
	}
	state := eng.orch.Current()
	if state == transition.Intro || state == transition.IntroFadeOut {
		if action == device.Skip || action == device.Select {
			eng.pipeline.Stop()
			eng.orch.Skip(eng.ui)
		}
		return
	}
	if eng.orch.SettingsOpen {
		eng.applySettings(action)
		return
	}
	switch state {
	case transition.Menu:
		eng.applyMenu(action)
	case transition.Load, transition.PlayUI, transition.PlayClean:
		eng.applyPlayback(action)
	}
}

// applyKeyboard drives the virtual keyboard's grid cursor. The keyboard
// is modal: nothing else sees input until commit or cancel.
func (eng *Engine) applyKeyboard(action device.Action) {
	kb := eng.ui.Keyboard
	switch action {
	case device.NavPrev:
		kb.MoveCursor(0, -1)
	case device.NavNext:
		kb.MoveCursor(0, 1)
	case device.VolumeUp:
		kb.MoveCursor(-1, 0)
	case device.VolumeDown:
		kb.MoveCursor(1, 0)
	case device.Select:
		kb.SelectChar()
	case device.Back:
		kb.Backspace()
	case device.PlayToggle:
		kb.Commit()
	case device.Settings:
		kb.Cancel()
	}
}

// applyMenu handles the main playlist chooser.
func (eng *Engine) applyMenu(action device.Action) {
	media := eng.watcher.Set().Media()
	switch action {
	case device.NavPrev:
		eng.ui.SelectPreviousPlaylist(len(media))
	case device.NavNext:
		eng.ui.SelectNextPlaylist(len(media))
	case device.Select:
		eng.startSelectedPlaylist(media)
	case device.Settings:
		eng.ui.Menu.ResetGameBrowser()
		eng.orch.OpenSettings()
	case device.VolumeUp:
		eng.adjustVolume(5)
	case device.VolumeDown:
		eng.adjustVolume(-5)
	}
}

// startSelectedPlaylist begins playback of the highlighted media playlist.
// SELECT on an empty playlist set is a no-op.
func (eng *Engine) startSelectedPlaylist(media []playlist.Playlist) {
	idx := eng.ui.SelectedPlaylistIndex
	if idx < 0 || idx >= len(media) || len(media[idx].Items) == 0 {
		return
	}
	eng.orch.SelectMediaItem(eng.ui, eng.ctrl.State(), eng.ui.MasterVolume)
	eng.ctrl.SetPlaylist(media[idx], eng.cfg.playlistDir)
	eng.ctrl.State().CurrentPlaylistIndex = idx
	eng.ctrl.LoadItem(0)
}

// applyPlayback handles actions while a media item is loading or playing.
func (eng *Engine) applyPlayback(action device.Action) {
	switch action {
	case device.Select:
		if eng.orch.Current() != transition.Load {
			eng.orch.ToggleUIVisibility(eng.ui, eng.cfg.fadeDuration, eng.setVolume)
		}
	case device.PlayToggle:
		eng.ctrl.TogglePause()
	case device.NavPrev:
		eng.ctrl.PreviousItem()
	case device.NavNext:
		eng.ctrl.NextItem()
	case device.SeekBackShort:
		eng.ctrl.Seek(-seekShort)
	case device.SeekFwdShort:
		eng.ctrl.Seek(seekShort)
	case device.SeekBackLong:
		eng.ctrl.Seek(-seekLong)
	case device.SeekFwdLong:
		eng.ctrl.Seek(seekLong)
	case device.Back:
		eng.ctrl.Stop() // the orchestrator returns to menu on the next tick.
	case device.Settings:
		eng.ui.Menu.ResetGameBrowser()
		eng.orch.OpenSettings()
	case device.VolumeUp:
		eng.adjustVolume(5)
	case device.VolumeDown:
		eng.adjustVolume(-5)
	}
}

// applySettings handles the settings overlay menu tree, including the
// two-level game browser.
func (eng *Engine) applySettings(action device.Action) {
	menu := eng.ui.Menu
	if menu.Current() == uistate.SectionGames {
		eng.applyGameBrowser(action)
		return
	}
	switch action {
	case device.NavPrev:
		menu.Navigate(-1, eng.menuEntryCount(menu.Current()))
	case device.NavNext:
		menu.Navigate(1, eng.menuEntryCount(menu.Current()))
	case device.Select:
		eng.menuSelect()
	case device.Back:
		if !menu.Back() {
			eng.orch.CloseSettings()
		}
	case device.Settings:
		eng.orch.CloseSettings()
	}
}

// applyGameBrowser drills through game playlists to a ROM selection. The
// trailing Back pseudo-entry is always present at both levels.
func (eng *Engine) applyGameBrowser(action device.Action) {
	menu := eng.ui.Menu
	games := eng.watcher.Set().Games()
	gb := menu.GameBrowser()

	count := uistate.GameBrowserEntryCount(len(games))
	if gb.Level == uistate.GameBrowserItems {
		if gb.SelectedPlaylist < len(games) {
			count = uistate.GameBrowserEntryCount(len(games[gb.SelectedPlaylist].Items))
		}
	}

	switch action {
	case device.NavPrev:
		menu.Navigate(-1, count)
	case device.NavNext:
		menu.Navigate(1, count)
	case device.Back:
		if gb.Level == uistate.GameBrowserItems {
			menu.BackFromGameItems()
		} else {
			menu.Back()
		}
	case device.Settings:
		eng.orch.CloseSettings()
	case device.Select:
		sel := menu.Selection()
		switch gb.Level {
		case uistate.GameBrowserPlaylists:
			if uistate.IsBackEntry(sel, len(games)) {
				menu.Back()
				return
			}
			menu.EnterGamePlaylist(sel)
			menu.Navigate(-menu.Selection(), 1) // reset cursor to the top.
		case uistate.GameBrowserItems:
			if gb.SelectedPlaylist >= len(games) {
				menu.BackFromGameItems()
				return
			}
			items := games[gb.SelectedPlaylist].Items
			if uistate.IsBackEntry(sel, len(items)) {
				menu.BackFromGameItems()
				return
			}
			eng.launchGame(items[sel])
		}
	}
}

// adjustVolume changes the master volume and pushes it to the pipeline.
func (eng *Engine) adjustVolume(delta int) {
	eng.ui.AdjustVolume(delta)
	eng.setVolume(eng.ui.MasterVolume)
	s := eng.store.Current()
	s.MasterVolume = eng.ui.MasterVolume
	eng.saveSettings(s)
}

// setVolume is the orchestrator's volume hook.
func (eng *Engine) setVolume(percent int) {
	eng.ctrl.SetVolume(percent)
}
