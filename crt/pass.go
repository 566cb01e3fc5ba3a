// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package crt post-processes the rendered frame with the CRT effect
// stack: scanlines, warmth, glow, RGB mask, bloom, interlace, and flicker
// composite in one full-screen fragment shader pass. The frame is first
// captured into an offscreen texture; when every intensity is zero the
// capture and the pass are skipped entirely and drawing goes straight to
// the display surface.
//
// Package crt is provided as part of the fadeframe kiosk engine.
package crt

import (
	"github.com/fadeframe/kiosk/render"
)

// Intensities are the seven effect strengths, each in [0,1]. Zero is a
// per-effect no-op.
type Intensities struct {
	Scanlines float64
	Warmth    float64
	Glow      float64
	RGBMask   float64
	Bloom     float64
	Interlace float64
	Flicker   float64
}

// clamp forces every intensity into [0,1].
func (in *Intensities) clamp() {
	c := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return v
	}
	in.Scanlines = c(in.Scanlines)
	in.Warmth = c(in.Warmth)
	in.Glow = c(in.Glow)
	in.RGBMask = c(in.RGBMask)
	in.Bloom = c(in.Bloom)
	in.Interlace = c(in.Interlace)
	in.Flicker = c(in.Flicker)
}

// zero reports whether every effect is off.
func (in *Intensities) zero() bool {
	return in.Scanlines == 0 && in.Warmth == 0 && in.Glow == 0 &&
		in.RGBMask == 0 && in.Bloom == 0 && in.Interlace == 0 && in.Flicker == 0
}

// Pass owns the offscreen capture target and the effect shader model.
// GL resources are created lazily on the first active frame and dropped
// by ResetGL.
type Pass struct {
	gc   render.Renderer
	w, h int

	in                Intensities
	scanlinesEnabled  bool // operator toggle: false forces scanlines to 0.
	capturing         bool // true between a successful Begin and End.

	target render.Target
	model  render.Model
}

// NewPass creates an effect pass for a width x height display surface.
func NewPass(gc render.Renderer, width, height int) *Pass {
	return &Pass{gc: gc, w: width, h: height, scanlinesEnabled: true}
}

// SetIntensities replaces the effect strengths, clamped to [0,1].
func (p *Pass) SetIntensities(in Intensities) {
	in.clamp()
	p.in = in
}

// SetScanlinesEnabled is the operator toggle for the scanline effect. When
// false scanlines are forced to zero regardless of their intensity so video
// is never darkened against the operator's wishes.
func (p *Pass) SetScanlinesEnabled(on bool) { p.scanlinesEnabled = on }

// effective returns the intensities actually applied this frame.
func (p *Pass) effective() Intensities {
	in := p.in
	if !p.scanlinesEnabled {
		in.Scanlines = 0
	}
	return in
}

// Active reports whether the pass will run this frame.
func (p *Pass) Active() bool {
	in := p.effective()
	return !in.zero()
}

// Begin redirects the frame's drawing into the capture target. Returns
// false, leaving drawing untouched, when the pass is inactive or the
// target cannot be built.
func (p *Pass) Begin() bool {
	if !p.Active() {
		return false
	}
	if p.target == nil {
		t, err := p.gc.NewTarget(p.w, p.h)
		if err != nil {
			return false
		}
		p.target = t
	}
	p.target.Begin()
	p.gc.Clear()
	p.capturing = true
	return true
}

// End restores drawing to the display surface and composites the captured
// frame through the effect shader. A no-op when Begin did not capture.
func (p *Pass) End() {
	if !p.capturing {
		return
	}
	p.capturing = false
	p.target.End()
	p.gc.Viewport(p.w, p.h)
	p.ensureModel()

	in := p.effective()
	p.model.SetScreenSize(float32(p.w), float32(p.h))
	p.model.SetUniform("scanlines", []float32{float32(in.Scanlines)})
	p.model.SetUniform("warmth", []float32{float32(in.Warmth)})
	p.model.SetUniform("glow", []float32{float32(in.Glow)})
	p.model.SetUniform("rgbMask", []float32{float32(in.RGBMask)})
	p.model.SetUniform("bloom", []float32{float32(in.Bloom)})
	p.model.SetUniform("interlace", []float32{float32(in.Interlace)})
	p.model.SetUniform("flicker", []float32{float32(in.Flicker)})
	p.gc.Render(p.model)
}

// ensureModel builds the full-screen quad model on first use.
func (p *Pass) ensureModel() {
	if p.model != nil {
		return
	}
	shd := p.gc.NewShader("crt")
	shd.SetSource(shd.Lib())
	p.model = p.gc.NewModel(shd)
	m := p.gc.NewMesh("crtquad")
	m.InitData(0, 3, render.STATIC, false)
	m.InitData(2, 2, render.STATIC, false)
	m.InitFaces(render.STATIC)

	// Clip-space quad; UV (0,0) sits at the bottom-left corner, matching the
	// capture texture's origin, so the captured frame lands upright.
	m.SetData(0, []float32{
		-1, -1, 0,
		1, -1, 0,
		1, 1, 0,
		-1, 1, 0,
	})
	m.SetData(2, []float32{0, 0, 1, 0, 1, 1, 0, 1})
	m.SetFaces([]uint16{0, 1, 3, 1, 2, 3})
	p.model.SetMesh(m)
	p.model.AddTexture(p.target.Texture())
}

// ResetGL forgets the capture target and shader model so both re-create
// lazily on the next active frame. Stale names are not deleted: a foreign
// process had the GPU and may have recycled them.
func (p *Pass) ResetGL() {
	p.target = nil
	p.model = nil
	p.capturing = false
}
