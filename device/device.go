// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package device provides minimal platform access to a full-screen
// rendering context and user input on a kernel-mode-setting display.
// There is no window system underneath: the package claims the first
// connected DRM connector directly, scans out page-flipped GBM buffers,
// and reads user input from evdev devices and optional GPIO buttons.
// Access to user input is provided through the Update method and Pressed
// structure; raw key states are translated to abstract kiosk actions by
// the ActionQueue in action.go.
//
// Package device is provided as part of the fadeframe kiosk engine.
package device

// Device wraps the kernel display and input functionality. The expected
// usage is:
//     dev := device.New()
//     // Application initialization code.
//     for dev.IsAlive() {
//         pressed := dev.Update()
//         // Application update and render code.
//         dev.SwapBuffers()
//     }
//     dev.Dispose()
type Device interface {
	Dispose() // Restore the display and release kernel resources.

	// IsAlive returns true as long as the display is usable. Fatal display
	// loss (mode-set failure after handoff recovery) makes this false.
	IsAlive() bool

	// Size returns the scanout dimensions. x, y are always 0: there is no
	// window, the surface covers the whole display.
	Size() (x, y, width, height int)

	// SwapBuffers exchanges the graphic drawing buffers and page-flips the
	// result onto the display. Blocks until vertical sync, which is the
	// main loop's frame pacing.
	SwapBuffers()

	// Update returns the current pressed state. The calling application
	// is expected to:
	//    1. Treat the pressed information as read only.
	//    2. Call this method every update loop.
	Update() *Pressed

	// DropMaster releases control of the display so a foreign process can
	// claim it; ReclaimMaster takes control back and restores the mode.
	// Between the two calls SwapBuffers must not be called.
	DropMaster() error
	ReclaimMaster() error
}

// Pressed is used to communicate current user input. Input consists of
// the list of keys that are currently being pressed and how long they have
// been pressed (measured in update ticks).
// A positive duration means the key is still being held down.
// A negative duration means that the key has been released since
// the last poll. The total pressed duration prior to release can be
// determined using the difference with KEY_RELEASED.
type Pressed struct {
	Down  map[string]int // Pressed keys and pressed duration.
	Focus bool           // Starts true; no input source reports focus changes, so it stays true during a handoff.
}

// Device interfaces
// ===========================================================================
// device provides default Device implementation.

// New provides a newly initialized Device that has claimed the display and
// created a graphics context, with input devices opened and polling.
func New() Device { return newDevice() }

// Design note: the layers in this package are:
//     device : simplification layer tying display and input together.
//     input  : turn user input event stream into pollable structure.
//     native : single point of entry into the native display layer.
//     os_linux    : DRM/GBM/EGL native layer.
//     evdev_linux : evdev keyboards/joysticks and GPIO button sources.
//     action      : raw key names to abstract kiosk actions.

// device provides a simplification layer over the more raw native and
// input layers.
type device struct {
	os    *nativeOs // Native display layer wrapper.
	input *input    // User input handler.
}

// newDevice initializes the display with a valid render context and
// starts the input sources.
func newDevice() *device {
	d := &device{}
	d.os = newNativeOs()
	d.os.createDisplay()
	d.os.createShell()
	d.os.createContext()
	d.input = newInput()
	openInputSources(d.input)
	return d
}

// Access the device specific information in a consistent manner.
func (d *device) Dispose()                        { d.os.dispose() }
func (d *device) IsAlive() bool                   { return d.os.isAlive() }
func (d *device) Size() (x, y, width, height int) { return d.os.size() }
func (d *device) SwapBuffers()                    { d.os.swapBuffers() }
func (d *device) DropMaster() error               { return d.os.dropMaster() }
func (d *device) ReclaimMaster() error            { return d.os.reclaimMaster() }
func (d *device) Update() *Pressed {
	return d.input.latest()
}
