// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package device

// Input events come from the kernel evdev layer rather than a window
// system event queue. Every /dev/input/event* device present at startup
// gets its own reader goroutine feeding the shared input event channel;
// non-key events from pointer devices are ignored at the type switch.
// Dedicated GPIO buttons are polled from the sysfs gpio value files.

import (
	"encoding/binary"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// GPIOButtons maps GPIO pin numbers to key names for boards with dedicated
// navigation buttons. Pins are exported and configured outside the engine;
// the engine only reads /sys/class/gpio/gpio<pin>/value. Buttons are
// active low. Empty by default: set before device.New() on GPIO boards.
var GPIOButtons = map[int]string{}

// evdev event types and values consumed below. From linux/input-event-codes.h.
const (
	evKey = 0x01

	keyPress   = 1
	keyRelease = 0
	keyRepeat  = 2
)

// evdevEventSize is sizeof(struct input_event) on 64-bit Linux:
// two 8-byte timeval words, u16 type, u16 code, s32 value.
const evdevEventSize = 24

// evdevNames maps evdev key codes to the key names used by the keymaps in
// action.go. Codes not present are unknown and silently dropped.
var evdevNames = map[uint16]string{
	1:   "Esc",
	2:   "1",
	3:   "2",
	4:   "3",
	5:   "4",
	6:   "5",
	7:   "6",
	8:   "7",
	9:   "8",
	10:  "9",
	11:  "0",
	14:  "Del",
	16:  "Q",
	17:  "W",
	18:  "E",
	19:  "R",
	20:  "T",
	21:  "Y",
	22:  "U",
	23:  "I",
	24:  "O",
	25:  "P",
	28:  "Ret",
	30:  "A",
	31:  "S",
	32:  "D",
	33:  "F",
	34:  "G",
	35:  "H",
	36:  "J",
	37:  "K",
	38:  "L",
	44:  "Z",
	45:  "X",
	46:  "C",
	47:  "V",
	48:  "B",
	49:  "N",
	50:  "M",
	57:  "Sp",
	103: "Ua",
	105: "La",
	106: "Ra",
	108: "Da",

	// Gamepad buttons map onto the same key names the keymap understands.
	0x130: "Ret", // BTN_SOUTH: select.
	0x131: "Esc", // BTN_EAST: quit, like Esc.
	0x13b: "Ret", // BTN_START.
	0x13a: "4",   // BTN_SELECT: settings tap/hold key.
	0x220: "Ua",  // BTN_DPAD_UP.
	0x221: "Da",  // BTN_DPAD_DOWN.
	0x222: "La",  // BTN_DPAD_LEFT.
	0x223: "Ra",  // BTN_DPAD_RIGHT.
}

// openInputSources enumerates the evdev devices present at startup and
// starts one reader goroutine per device, plus the GPIO poller when pins
// are configured. Devices that cannot be opened (permissions, races with
// hot-unplug) are logged and skipped.
func openInputSources(i *input) {
	matches, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(matches) == 0 {
		log.Printf("kiosk/device: no evdev devices found")
	}
	for _, path := range matches {
		f, err := os.Open(path)
		if err != nil {
			log.Printf("kiosk/device: skipping %s: %s", path, err)
			continue
		}
		go readEvdev(f, i.events)
	}
	if len(GPIOButtons) > 0 {
		go pollGPIO(GPIOButtons, i.events)
	}
}

// readEvdev turns one device's event stream into key press/release events.
// Runs until the device read fails (unplugged) and then exits quietly.
func readEvdev(f *os.File, events chan<- *userInput) {
	defer f.Close()
	buf := make([]byte, evdevEventSize*32)
	for {
		n, err := f.Read(buf)
		if err != nil {
			return
		}
		for off := 0; off+evdevEventSize <= n; off += evdevEventSize {
			etype := binary.LittleEndian.Uint16(buf[off+16 : off+18])
			code := binary.LittleEndian.Uint16(buf[off+18 : off+20])
			value := int32(binary.LittleEndian.Uint32(buf[off+20 : off+24]))
			if etype != evKey {
				continue
			}
			name, ok := evdevNames[code]
			if !ok {
				continue // unknown codes are silently dropped.
			}
			switch value {
			case keyPress:
				events <- &userInput{id: pressedKey, key: name}
			case keyRelease:
				events <- &userInput{id: releasedKey, key: name}
			case keyRepeat:
				// held keys are tracked by tick counting, not repeats.
			}
		}
	}
}

// pollGPIO watches exported sysfs GPIO value files for dedicated buttons.
// Buttons are active low; a 1 -> 0 transition is a press. Polling at 10ms
// is well under the debounce window of any physical button.
func pollGPIO(pins map[int]string, events chan<- *userInput) {
	state := map[int]bool{} // true while pressed.
	buf := make([]byte, 4)
	for {
		for pin, name := range pins {
			path := fmt.Sprintf("/sys/class/gpio/gpio%d/value", pin)
			fd, err := unix.Open(path, unix.O_RDONLY, 0)
			if err != nil {
				continue
			}
			n, err := unix.Read(fd, buf)
			unix.Close(fd)
			if err != nil || n < 1 {
				continue
			}
			pressed := buf[0] == '0'
			if pressed != state[pin] {
				state[pin] = pressed
				if pressed {
					events <- &userInput{id: pressedKey, key: name}
				} else {
					events <- &userInput{id: releasedKey, key: name}
				}
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
}
