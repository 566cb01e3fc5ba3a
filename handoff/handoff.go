// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package handoff temporarily cedes the display to a third-party emulator
// process and recovers cleanly afterwards. The sequence is deliberate:
// stop the media pipeline, release DRM master, run the emulator to
// completion while inheriting stdio for diagnostics, reclaim master, then
// signal every GL-owning component to forget its handles so they re-create
// lazily. The emulator blocks the main thread by design: it is the user's
// foreground task until they exit it.
//
// Package handoff is provided as part of the fadeframe kiosk engine.
package handoff

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// ErrDisplayLost reports that the display could not be reclaimed after the
// emulator exited, even with retries. The engine exits cleanly on it.
var ErrDisplayLost = errors.New("display lost after handoff recovery attempts")

// Display is the subset of the device layer the handoff drives.
type Display interface {
	DropMaster() error
	ReclaimMaster() error
}

// Stopper halts media playback before the display is released.
type Stopper interface {
	Stop()
}

// GLResetter is implemented by every component owning GL handles. After a
// foreign process has had the GPU, no handle created before the handoff
// may be used again without a reset.
type GLResetter interface {
	ResetGL()
}

// reclaim retry policy.
const (
	reclaimAttempts = 3
	reclaimBackoff  = 250 * time.Millisecond
)

// Runner executes emulator handoffs. It holds no GL or kernel handles
// itself; it only sequences the components that do.
type Runner struct {
	display   Display
	pipeline  Stopper
	resetters []GLResetter

	// Command is the emulator binary to invoke with the ROM path as its
	// first argument and an optional bezel image path as its second.
	Command string
}

// NewRunner wires a handoff runner to the display owner, the media
// pipeline, and the GL-owning components to reset on recovery.
func NewRunner(display Display, pipeline Stopper, resetters ...GLResetter) *Runner {
	return &Runner{display: display, pipeline: pipeline, resetters: resetters}
}

// Run performs one complete handoff: emulator launch, blocking wait, and
// display recovery. A nonzero emulator exit is logged but non-fatal; an
// error return means the handoff never started or the display could not
// be recovered.
func (r *Runner) Run(romPath, bezelPath string) error {
	if r.Command == "" {
		return fmt.Errorf("no emulator command configured")
	}
	r.pipeline.Stop() // waits for pipeline state to settle.

	if err := r.display.DropMaster(); err != nil {
		// the display was never released, nothing to recover.
		return fmt.Errorf("handoff aborted: %w", err)
	}

	args := []string{romPath}
	if bezelPath != "" {
		args = append(args, bezelPath)
	}
	cmd := exec.Command(r.Command, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	slog.Info("handoff: starting emulator", "cmd", r.Command, "rom", romPath)
	if err := cmd.Run(); err != nil {
		// exit status is informational only; recovery proceeds regardless.
		slog.Warn("handoff: emulator exited abnormally", "err", err)
	}

	if err := r.recoverDisplay(); err != nil {
		return err
	}
	for _, c := range r.resetters {
		c.ResetGL()
	}
	return nil
}

// recoverDisplay reclaims DRM master, retrying with a short backoff since
// some drivers need a beat after the foreign process closes its handle.
func (r *Runner) recoverDisplay() error {
	var err error
	for attempt := 1; attempt <= reclaimAttempts; attempt++ {
		if err = r.display.ReclaimMaster(); err == nil {
			return nil
		}
		slog.Warn("handoff: reclaim failed", "attempt", attempt, "err", err)
		time.Sleep(reclaimBackoff)
	}
	return fmt.Errorf("%w: %s", ErrDisplayLost, err)
}
