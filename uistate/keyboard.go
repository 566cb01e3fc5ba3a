// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package uistate

// keyboardRows is the fixed QWERTY-ish grid the virtual keyboard cursor
// moves over.
var keyboardRows = [][]rune{
	[]rune("1234567890"),
	[]rune("QWERTYUIOP"),
	[]rune("ASDFGHJKL"),
	[]rune("ZXCVBNM"),
}

// Keyboard is the virtual keyboard modal. While active it captures all
// input, runs a grid cursor, invokes a success or cancel callback on
// commit, and then deactivates.
type Keyboard struct {
	Active bool
	Buffer []rune
	Row    int
	Col    int

	OnCommit func(text string)
	OnCancel func()
}

// NewKeyboard returns an inactive Keyboard.
func NewKeyboard() *Keyboard { return &Keyboard{} }

// Open activates the keyboard with an initial buffer and commit/cancel
// callbacks, capturing all subsequent input until Commit or Cancel.
func (k *Keyboard) Open(initial string, onCommit func(string), onCancel func()) {
	k.Active = true
	k.Buffer = []rune(initial)
	k.Row, k.Col = 0, 0
	k.OnCommit = onCommit
	k.OnCancel = onCancel
}

// MoveCursor moves the grid cursor by (dRow, dCol), clamped to the grid and
// to the current row's length.
func (k *Keyboard) MoveCursor(dRow, dCol int) {
	k.Row += dRow
	if k.Row < 0 {
		k.Row = 0
	}
	if k.Row >= len(keyboardRows) {
		k.Row = len(keyboardRows) - 1
	}
	rowLen := len(keyboardRows[k.Row])
	k.Col += dCol
	if k.Col < 0 {
		k.Col = 0
	}
	if k.Col >= rowLen {
		k.Col = rowLen - 1
	}
}

// SelectChar appends the character under the cursor to the buffer.
func (k *Keyboard) SelectChar() {
	row := keyboardRows[k.Row]
	if k.Col < len(row) {
		k.Buffer = append(k.Buffer, row[k.Col])
	}
}

// Backspace removes the last buffered rune, if any.
func (k *Keyboard) Backspace() {
	if len(k.Buffer) > 0 {
		k.Buffer = k.Buffer[:len(k.Buffer)-1]
	}
}

// Commit invokes OnCommit with the current buffer text and deactivates.
func (k *Keyboard) Commit() {
	text := string(k.Buffer)
	cb := k.OnCommit
	k.deactivate()
	if cb != nil {
		cb(text)
	}
}

// Cancel invokes OnCancel and deactivates without committing.
func (k *Keyboard) Cancel() {
	cb := k.OnCancel
	k.deactivate()
	if cb != nil {
		cb()
	}
}

func (k *Keyboard) deactivate() {
	k.Active = false
	k.Buffer = nil
	k.OnCommit = nil
	k.OnCancel = nil
}

// Rows exposes the fixed keyboard grid for the renderer to draw.
func Rows() [][]rune { return keyboardRows }
