// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package uistate

// Section identifies one node of the menu tree. The tree is fixed in
// structure but dynamic in labels.
type Section int

const (
	SectionRoot Section = iota
	SectionDisplay
	SectionAudio
	SectionGames
	SectionInfo
)

// LabelFunc produces a menu entry's current label as a function of
// state, avoiding stored strings that can drift out of sync with the
// real setting.
type LabelFunc func() string

// Entry is one row in the current menu section. Label is computed lazily by
// the caller via LabelFunc rather than cached, so it always reflects live
// state.
type Entry struct {
	Section Section // target section when this entry is a sub-menu link, else -1
	Label   LabelFunc
	IsBack  bool // trailing pseudo-entry, always present in the game browser
}

// GameBrowserLevel distinguishes the two drill-down levels of the game
// browser: the list of game playlists, then the items in the chosen one.
type GameBrowserLevel int

const (
	GameBrowserPlaylists GameBrowserLevel = iota
	GameBrowserItems
)

// GameBrowserState is the menu manager's own sub-state for the game
// browser drill-down.
type GameBrowserState struct {
	Level             GameBrowserLevel
	SelectedPlaylist  int
	SelectedItemIndex int
}

// MenuManager owns the menu stack: a current section, a selection index
// per level, and the game-browser sub-state.
type MenuManager struct {
	stack       []Section
	selection   map[Section]int
	gameBrowser GameBrowserState

	// OnAction is invoked when SELECT activates a leaf entry that is not
	// a sub-menu link or Back pseudo-entry; the menu tree itself stays
	// dumb about what an action does.
	OnAction func(section Section, index int)
}

// NewMenuManager creates a manager positioned at the root with a sane
// initial selection, independent of playlistCount (kept only for parity
// with the public constructor signature other components expect).
func NewMenuManager(playlistCount int) *MenuManager {
	return &MenuManager{
		stack:     []Section{SectionRoot},
		selection: map[Section]int{},
	}
}

// Current returns the section currently displayed.
func (m *MenuManager) Current() Section { return m.stack[len(m.stack)-1] }

// Selection returns the selection index for the current section.
func (m *MenuManager) Selection() int { return m.selection[m.Current()] }

// Navigate moves the selection cursor within the current section by delta
// (NAV_PREV/NAV_NEXT), wrapping within [0, count).
func (m *MenuManager) Navigate(delta, count int) {
	if count <= 0 {
		return
	}
	cur := m.Current()
	sel := m.selection[cur] + delta
	sel = ((sel % count) + count) % count
	m.selection[cur] = sel
}

// Enter pushes a sub-menu section onto the stack (SELECT on a sub-menu
// link).
func (m *MenuManager) Enter(s Section) {
	m.stack = append(m.stack, s)
}

// Back pops the current section, a no-op at the root (BACK action).
func (m *MenuManager) Back() bool {
	if len(m.stack) <= 1 {
		return false
	}
	m.stack = m.stack[:len(m.stack)-1]
	return true
}

// Depth reports how many levels deep the stack is; 1 means at the root.
func (m *MenuManager) Depth() int { return len(m.stack) }

// GameBrowser returns the current game-browser sub-state.
func (m *MenuManager) GameBrowser() GameBrowserState { return m.gameBrowser }

// EnterGamePlaylist drills into a chosen game playlist's item list.
func (m *MenuManager) EnterGamePlaylist(playlistIndex int) {
	m.gameBrowser.Level = GameBrowserItems
	m.gameBrowser.SelectedPlaylist = playlistIndex
	m.gameBrowser.SelectedItemIndex = 0
}

// BackFromGameItems returns to the playlist list level, or does nothing if
// already there (mirrors the trailing Back pseudo-entry's effect).
func (m *MenuManager) BackFromGameItems() {
	m.gameBrowser.Level = GameBrowserPlaylists
}

// ResetGameBrowser returns the browser to its top level, used when SETTINGS
// is re-entered.
func (m *MenuManager) ResetGameBrowser() {
	m.gameBrowser = GameBrowserState{}
}

// GameBrowserEntryCount is the current level's entry count including the
// trailing Back pseudo-entry that is always present.
func GameBrowserEntryCount(itemCount int) int { return itemCount + 1 }

// IsBackEntry reports whether the given index (within a list sized by
// GameBrowserEntryCount) is the trailing Back pseudo-entry.
func IsBackEntry(index, itemCount int) bool { return index == itemCount }
