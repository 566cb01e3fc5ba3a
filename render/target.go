// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package render

import (
	"fmt"

	"github.com/fadeframe/kiosk/render/gl"
)

// Target is an offscreen render destination backed by a texture. The scene
// is drawn between Begin and End, after which Texture returns the captured
// frame for use as shader input. Used by the CRT effect pass to capture
// everything drawn so far before running the full-screen effect shader.
type Target interface {
	Begin()           // Redirect subsequent draws into the target.
	End()             // Restore drawing to the display surface.
	Texture() Texture // The captured scene as a texture.
	Size() (w, h int) // Target dimensions in pixels.
	Dispose()         // Release the framebuffer and its texture.
}

// NewTarget creates a width x height offscreen target, or an error when the
// driver rejects the framebuffer configuration.
func (gc *opengl) NewTarget(width, height int) (Target, error) {
	t := &target{gc: gc, w: width, h: height}
	t.tex = newTexture("target")

	gl.GenTextures(1, &t.tex.tid)
	gl.BindTexture(gl.TEXTURE_2D, t.tex.tid)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, 0)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)

	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.tex.tid, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		t.Dispose()
		return nil, fmt.Errorf("offscreen target incomplete %X", status)
	}
	return t, nil
}

// target implements Target over a GL framebuffer object.
type target struct {
	gc  *opengl
	fbo uint32
	tex *texture
	w   int
	h   int
}

func (t *target) Begin() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.Viewport(0, 0, int32(t.w), int32(t.h))
}

func (t *target) End() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func (t *target) Texture() Texture { return t.tex }
func (t *target) Size() (w, h int) { return t.w, t.h }

func (t *target) Dispose() {
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
	if t.tex.tid != 0 {
		gl.DeleteTextures(1, &t.tex.tid)
		t.tex.tid = 0
	}
}
