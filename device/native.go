// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package device

import (
	"log"
)

// native specifies the methods the native display layer must implement.
// The native layer is a CGO wrapper over the kernel display stack: DRM/KMS
// for mode setting, GBM for scanout buffers, and EGL for the GLES context.
//
// Native code is separated in platform specific files as per
//      http://golang.org/pkg/go/build/
// The kiosk targets a single platform:
//      lin: os_linux.go wraps libdrm, libgbm, and libEGL.
// User input is not part of this interface: evdev devices deliver events
// on their own file descriptors (see evdev_linux.go) instead of through a
// window system event queue.
type native interface {

	// display opens the DRM device, picks the first connected connector
	// with its preferred mode, and claims a CRTC. The returned value is a
	// reference to the underlying native structure, 0 on failure.
	display() int64

	// displayDispose restores the saved CRTC and releases all display,
	// buffer, and context resources.
	displayDispose(r *nrefs)

	// shell creates the GBM scanout surface at the chosen mode's
	// resolution on the given display. Returns 0 on failure.
	shell(r *nrefs) int64

	// shellAlive returns true while the display is usable. A display lost
	// during handoff recovery makes this false, ending the main loop.
	shellAlive(r *nrefs) bool

	// size returns the active mode dimensions. x,y are always 0 for a
	// full-screen scanout surface.
	size(r *nrefs) (x, y, w, h int)

	// context creates a double-buffered GLES 3.0 EGL context against the
	// GBM surface and makes it current. Returns 0 on failure.
	context(r *nrefs) int64

	// swapBuffers ends a frame: swap the EGL buffers, then page-flip the
	// new front buffer onto the CRTC. Blocks until the flip completes,
	// which paces the main loop to the display's vertical sync.
	swapBuffers(r *nrefs)

	// dropMaster releases DRM master so a foreign process can claim the
	// display. No rendering may happen until reclaimMaster succeeds.
	dropMaster(r *nrefs) error

	// reclaimMaster re-acquires DRM master after a foreign process exits
	// and re-applies the mode if the foreign process changed it.
	reclaimMaster(r *nrefs) error
}

// native
// ===========================================================================
// nativeOs wraps a native implementation.

// nativeOs exposes just enough of the native display layer to get a
// scanout surface with a graphics context up and running. Native is
// expected to be used indirectly through Device.
type nativeOs struct {
	nl native // native layer support
	nr *nrefs // references to native layer objects.
}

// nrefs keeps and passes pointers/handles to the native layer display,
// shell, and drawing context objects. The different native calls need one
// or more of the references depending on the call.
type nrefs struct {
	display int64 // native display (DRM device + connector + CRTC).
	shell   int64 // native shell (GBM scanout surface).
	context int64 // native EGL/GLES context.
}

// newNativeOs creates and returns a structure that interfaces with the
// native layer.
func newNativeOs() *nativeOs {
	os := &nativeOs{}
	os.nl = nativeLayer() // provided by the platform os_*.go file.
	os.nr = &nrefs{}
	return os
}

// createDisplay makes and initializes a new native display instance.
// This claims the physical display so the call is expected to be
// performed once at startup.
func (os *nativeOs) createDisplay() {
	os.nr.display = os.nl.display()
	if os.nr.display == 0 {
		log.Printf("kiosk/device.native:createDisplay failed.")
	}
}

// dispose releases the display and any resources used by the application.
func (os *nativeOs) dispose() { os.nl.displayDispose(os.nr) }

// createShell makes and initializes the underlying scanout surface.
func (os *nativeOs) createShell() {
	os.nr.shell = os.nl.shell(os.nr)
	if os.nr.shell == 0 {
		log.Printf("kiosk/device.native:createShell failed.")
	}
}

// isAlive returns true as long as the display remains usable.
func (os *nativeOs) isAlive() bool { return os.nl.shellAlive(os.nr) }

// size returns the current dimensions of the drawing area.
func (os *nativeOs) size() (x, y, w, h int) { return os.nl.size(os.nr) }

// createContext makes and initializes the GLES context.
func (os *nativeOs) createContext() {
	os.nr.context = os.nl.context(os.nr)
	if os.nr.context == 0 {
		log.Printf("kiosk/device.native:createContext failed.")
	}
}

// swapBuffers flips the front and back buffers. All drawing is done
// in the back buffer. This is expected to be called each pass through
// the main loop to display the most recent drawing.
func (os *nativeOs) swapBuffers() { os.nl.swapBuffers(os.nr) }

// dropMaster and reclaimMaster lease the display to a foreign process
// and take it back.
func (os *nativeOs) dropMaster() error    { return os.nl.dropMaster(os.nr) }
func (os *nativeOs) reclaimMaster() error { return os.nl.reclaimMaster(os.nr) }
