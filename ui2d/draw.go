// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package ui2d draws the entire kiosk interface with one textured-quad
// primitive: flat fills, lines, baseline-aligned text, bezel images, and
// the QR info grid. Everything renders through a single shader pair that
// maps pixel coordinates to clip space with a screenSize uniform; a
// useTexture flag selects between sampling and flat colour. All draws use
// standard alpha blending and the frame's global UI alpha multiplier.
//
// Package ui2d is provided as part of the fadeframe kiosk engine.
package ui2d

import (
	"fmt"
	"image"

	"github.com/fadeframe/kiosk/render"
)

// Face selects one of the two loaded font faces.
type Face int

const (
	Display Face = iota // Titles and the logo fallback.
	Body                // Everything else.
)

// Draw is the 2D drawing context. It owns the GL-side resources for UI
// rendering: the quad/line models, the glyph textures, and any cached
// image textures. It is not safe for concurrent use; the single-threaded
// render loop is the only caller.
type Draw struct {
	gc     render.Renderer
	fonts  map[Face]*Font
	images map[string]render.Texture // cached decoded images by name.

	screenW, screenH float32
	alpha            float64 // global UI alpha multiplier for the frame.

	// Lazily created GL resources, dropped by ResetGL.
	quad  render.Model // textured/flat quad, re-used for every rect draw.
	line  render.Model // two-point line model.
	white render.Texture
}

// NewDraw creates a drawing context with the display and body truetype
// faces parsed from their raw bytes. GL resources are created lazily on
// first draw so NewDraw itself needs no current context.
func NewDraw(gc render.Renderer, displayTTF, bodyTTF []byte) (*Draw, error) {
	display, err := NewFont(displayTTF)
	if err != nil {
		return nil, fmt.Errorf("display face: %w", err)
	}
	body, err := NewFont(bodyTTF)
	if err != nil {
		return nil, fmt.Errorf("body face: %w", err)
	}
	return &Draw{
		gc:     gc,
		fonts:  map[Face]*Font{Display: display, Body: body},
		images: map[string]render.Texture{},
		alpha:  1,
	}, nil
}

// SetScreenSize updates the pixel dimensions mapped by the shader.
func (d *Draw) SetScreenSize(w, h int) {
	d.screenW, d.screenH = float32(w), float32(h)
}

// SetAlpha sets the frame's global UI alpha multiplier, clamped to [0,1].
// Every subsequent draw this frame is multiplied by it.
func (d *Draw) SetAlpha(a float64) {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	d.alpha = a
}

// Alpha returns the current global UI alpha multiplier.
func (d *Draw) Alpha() float64 { return d.alpha }

// ensure creates the shared GL models on first use or after a reset.
func (d *Draw) ensure() {
	if d.quad != nil {
		return
	}

	// 1x1 white texture keeps the texture sampler satisfied on flat draws.
	px := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	px.Pix[0], px.Pix[1], px.Pix[2], px.Pix[3] = 255, 255, 255, 255
	d.white = d.gc.NewTexture("white")
	d.white.Set(px)

	shd := d.gc.NewShader("ui2d")
	shd.SetSource(shd.Lib())
	d.quad = d.gc.NewModel(shd)
	qm := d.gc.NewMesh("quad")
	qm.InitData(0, 3, render.DYNAMIC, false)
	qm.InitData(2, 2, render.DYNAMIC, false)
	qm.InitFaces(render.STATIC)
	qm.SetFaces([]uint16{0, 1, 3, 1, 2, 3})
	qm.SetData(2, []float32{0, 0, 1, 0, 1, 1, 0, 1})
	d.quad.SetMesh(qm)
	d.quad.AddTexture(d.white)

	lshd := d.gc.NewShader("ui2d")
	lshd.SetSource(lshd.Lib())
	d.line = d.gc.NewModel(lshd)
	lm := d.gc.NewMesh("line")
	lm.InitData(0, 3, render.DYNAMIC, false)
	lm.InitData(2, 2, render.DYNAMIC, false)
	lm.InitFaces(render.STATIC)
	lm.SetFaces([]uint16{0, 1})
	lm.SetData(2, []float32{0, 0, 1, 1})
	d.line.SetMesh(lm)
	d.line.SetDrawMode(render.LINES)
	d.line.AddTexture(d.white)
}

// quadAt updates the shared quad mesh to cover the given pixel rectangle.
func (d *Draw) quadAt(x, y, w, h float64) {
	fx, fy, fw, fh := float32(x), float32(y), float32(w), float32(h)
	d.quad.Mesh().SetData(0, []float32{
		fx, fy, 0, // top left
		fx + fw, fy, 0, // top right
		fx + fw, fy + fh, 0, // bottom right
		fx, fy + fh, 0, // bottom left
	})
}

// render pushes the shared uniforms and draws one model.
func (d *Draw) render(m render.Model, r, g, b float64, a float64, useTexture bool) {
	ut := float32(0)
	if useTexture {
		ut = 1
	}
	m.SetScreenSize(d.screenW, d.screenH)
	m.SetUniform("kd", []float32{float32(r), float32(g), float32(b)})
	m.SetUniform("useTexture", []float32{ut})
	m.SetAlpha(a * d.alpha)
	d.gc.Render(m)
}

// FillRect draws a flat-coloured rectangle. Coordinates are pixels with
// (0,0) at the top left.
func (d *Draw) FillRect(x, y, w, h float64, r, g, b, a float64) {
	if d.alpha == 0 {
		return
	}
	d.ensure()
	d.quad.UseTexture(d.white, 0)
	d.quadAt(x, y, w, h)
	d.render(d.quad, r, g, b, a, false)
}

// Line draws a one-pixel line between two points.
func (d *Draw) Line(x1, y1, x2, y2 float64, r, g, b, a float64) {
	if d.alpha == 0 {
		return
	}
	d.ensure()
	d.line.Mesh().SetData(0, []float32{
		float32(x1), float32(y1), 0,
		float32(x2), float32(y2), 0,
	})
	d.render(d.line, r, g, b, a, false)
}

// Image caches a decoded image under name for DrawImage. Re-registering
// the same name replaces the texture.
func (d *Draw) Image(name string, img image.Image) {
	d.ensure()
	tex := d.gc.NewTexture(name)
	tex.Set(img)
	d.images[name] = tex
}

// DrawImage draws a previously registered image stretched into the given
// rectangle. Unknown names draw nothing.
func (d *Draw) DrawImage(name string, x, y, w, h float64, a float64) {
	if d.alpha == 0 {
		return
	}
	tex, ok := d.images[name]
	if !ok {
		return
	}
	d.ensure()
	d.quad.UseTexture(tex, 0)
	d.quadAt(x, y, w, h)
	d.render(d.quad, 1, 1, 1, a, true)
}

// DrawTexture draws an externally owned texture (a decoded video frame, an
// offscreen capture) into the given rectangle.
func (d *Draw) DrawTexture(tex render.Texture, x, y, w, h float64, a float64) {
	d.ensure()
	d.quad.UseTexture(tex, 0)
	d.quadAt(x, y, w, h)
	d.render(d.quad, 1, 1, 1, a, true)
}

// Text draws a string baseline-aligned at pen position x,y. Newlines
// advance by the face's size-proportional line height and return the pen
// to x. Returns the widest line's advance in pixels.
func (d *Draw) Text(face Face, size int, x, y float64, r, g, b, a float64, text string) (width int) {
	if d.alpha == 0 {
		return d.TextWidth(face, size, text)
	}
	d.ensure()
	f := d.fonts[face]
	penX, penY := x, y
	lineWidth := 0
	for _, rn := range text {
		if rn == '\n' {
			if lineWidth > width {
				width = lineWidth
			}
			lineWidth = 0
			penX = x
			penY += float64(f.LineHeight(size))
			continue
		}
		g2 := f.glyph(d.gc, rn, size)
		if g2 == nil {
			continue
		}
		if g2.tex != nil {
			gx := penX + float64(g2.bearing)
			gy := penY + float64(g2.yoff)
			d.quad.UseTexture(g2.tex, 0)
			d.quadAt(gx, gy, float64(g2.w), float64(g2.h))
			d.render(d.quad, r, g, b, a, true)
		}
		penX += float64(g2.advance)
		lineWidth += g2.advance
	}
	if lineWidth > width {
		width = lineWidth
	}
	return width
}

// TextWidth measures a single line's advance without drawing.
func (d *Draw) TextWidth(face Face, size int, text string) (width int) {
	f := d.fonts[face]
	for _, rn := range text {
		if rn == '\n' {
			break
		}
		if g := f.glyph(d.gc, rn, size); g != nil {
			width += g.advance
		}
	}
	return width
}

// LineHeight exposes the face line advance for layout code.
func (d *Draw) LineHeight(face Face, size int) int {
	return d.fonts[face].LineHeight(size)
}

// QR draws a QR matrix as a grid of black squares on a white background.
// The matrix is drawn inside a square of the given pixel size at x,y with
// a one-module quiet border.
func (d *Draw) QR(matrix [][]bool, x, y, size float64) {
	if len(matrix) == 0 || d.alpha == 0 {
		return
	}
	modules := float64(len(matrix) + 2) // quiet border module on each side.
	cell := size / modules
	d.FillRect(x, y, size, size, 1, 1, 1, 1)
	for row := range matrix {
		for col := range matrix[row] {
			if matrix[row][col] {
				d.FillRect(
					x+cell*float64(col+1),
					y+cell*float64(row+1),
					cell, cell, 0, 0, 0, 1)
			}
		}
	}
}
