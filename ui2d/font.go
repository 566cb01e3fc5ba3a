// SPDX-FileCopyrightText : © 2024-2025 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package ui2d

// font.go rasterizes truetype glyphs on demand. Unlike an up-front atlas
// there is no fixed rune set or size: each (codepoint,size) pair gets its
// own small texture on first use and is retained until the next GL reset. The
// parsed font outline data survives a GL reset so re-rasterization after
// display handoff only costs a glyph draw, not a font parse.

import (
	"fmt"
	"image"
	"image/draw"
	"log/slog"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/fadeframe/kiosk/render"
)

// Font wraps one parsed truetype face and its lazily built glyph cache.
type Font struct {
	otf   *opentype.Font      // Parsed outlines. Survives GL resets.
	faces map[int]font.Face   // One sized face per requested pixel size.
	cache map[glyphKey]*glyph // One texture per (codepoint,size) first use.
}

// glyphKey identifies one cached glyph rasterization.
type glyphKey struct {
	r    rune
	size int
}

// glyph is one rasterized codepoint at one size.
type glyph struct {
	tex     render.Texture // White RGB, alpha-in-A coverage. Nil for blanks.
	w, h    int            // Bitmap dimensions in pixels.
	bearing int            // Horizontal offset from pen to bitmap left.
	yoff    int            // Vertical offset from baseline to bitmap top.
	advance int            // Pen advance after this glyph.
}

// NewFont parses truetype bytes into a Font with an empty glyph cache.
func NewFont(ttfBytes []byte) (*Font, error) {
	otf, err := opentype.Parse(ttfBytes)
	if err != nil {
		return nil, fmt.Errorf("opentype parse: %w", err)
	}
	return &Font{
		otf:   otf,
		faces: map[int]font.Face{},
		cache: map[glyphKey]*glyph{},
	}, nil
}

// face returns the sized face for size, creating it on first use.
func (f *Font) face(size int) font.Face {
	if fc, ok := f.faces[size]; ok {
		return fc
	}
	fc, err := opentype.NewFace(f.otf, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		slog.Error("font: face creation failed", "size", size, "err", err)
		return nil
	}
	f.faces[size] = fc
	return fc
}

// LineHeight returns the size-proportional line advance for newline layout.
func (f *Font) LineHeight(size int) int {
	fc := f.face(size)
	if fc == nil {
		return size
	}
	return fc.Metrics().Height.Round()
}

// Ascent returns the baseline distance from the top of a line.
func (f *Font) Ascent(size int) int {
	fc := f.face(size)
	if fc == nil {
		return size
	}
	return fc.Metrics().Ascent.Round()
}

// Glyph returns the cached rasterization for r at size, rasterizing and
// uploading on first use. Returns nil for codepoints the face lacks.
func (f *Font) glyph(gc render.Renderer, r rune, size int) *glyph {
	key := glyphKey{r: r, size: size}
	if g, ok := f.cache[key]; ok {
		return g
	}
	g := f.rasterize(gc, r, size)
	f.cache[key] = g // nil is cached too: a missing rune stays missing.
	return g
}

// rasterize draws one glyph into a white-RGB alpha-coverage texture and
// records its layout metrics.
func (f *Font) rasterize(gc render.Renderer, r rune, size int) *glyph {
	fc := f.face(size)
	if fc == nil {
		return nil
	}
	bounds, advance, ok := fc.GlyphBounds(r)
	if !ok {
		slog.Debug("font: missing rune", "rune", string(r), "size", size)
		return nil
	}
	minX := bounds.Min.X.Floor()
	minY := bounds.Min.Y.Floor()
	maxX := bounds.Max.X.Ceil()
	maxY := bounds.Max.Y.Ceil()
	w := maxX - minX
	h := maxY - minY
	g := &glyph{
		w:       w,
		h:       h,
		bearing: minX,
		yoff:    minY, // negative above the baseline.
		advance: advance.Round(),
	}
	if w <= 0 || h <= 0 {
		return g // space and friends: advance only, nothing to draw.
	}

	// Draw the coverage mask into an image with white colour channels so
	// the shader's colour uniform multiplies through cleanly.
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dot:  fixed.P(-minX, -minY),
		Dst:  dst,
		Src:  image.White,
		Face: fc,
	}
	dr, mask, maskp, _, _ := d.Face.Glyph(d.Dot, r)
	draw.DrawMask(d.Dst, dr, d.Src, image.Point{}, mask, maskp, draw.Over)

	g.tex = gc.NewTexture(fmt.Sprintf("glyph-%d-%d", r, size))
	g.tex.Set(dst)
	return g
}

// reset forgets every glyph texture while keeping the parsed outlines and
// sized faces. Called after display handoff invalidates GPU state; glyphs
// re-rasterize lazily on next use.
func (f *Font) reset() {
	f.cache = map[glyphKey]*glyph{}
}
