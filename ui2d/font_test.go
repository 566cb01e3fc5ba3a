// SPDX-FileCopyrightText : © 2024-2025 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package ui2d

import (
	"image"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/fadeframe/kiosk/render"
)

// fakeGC counts texture creation without needing a GPU, built from the
// same Renderer interface production code uses.
type fakeGC struct{ textures int }

func (f *fakeGC) Init() error                               { return nil }
func (f *fakeGC) Clear()                                    {}
func (f *fakeGC) Color(r, g, b, a float32)                  {}
func (f *fakeGC) Enable(attr uint32, enable bool)           {}
func (f *fakeGC) Viewport(width, height int)                {}
func (f *fakeGC) NewModel(s render.Shader) render.Model     { return nil }
func (f *fakeGC) NewShader(name string) render.Shader       { return nil }
func (f *fakeGC) NewMesh(name string) render.Mesh           { return nil }
func (f *fakeGC) Render(m render.Model)                     {}
func (f *fakeGC) ResetState()                               {}
func (f *fakeGC) NewTarget(w, h int) (render.Target, error) { return nil, nil }
func (f *fakeGC) NewTexture(name string) render.Texture {
	f.textures++
	return &fakeTexture{}
}

type fakeTexture struct{ img image.Image }

func (t *fakeTexture) Name() string                               { return "" }
func (t *fakeTexture) Img() image.Image                           { return t.img }
func (t *fakeTexture) Set(img image.Image)                        { t.img = img }
func (t *fakeTexture) Bound() bool                                { return false }
func (t *fakeTexture) FreeImg()                                   { t.img = nil }
func (t *fakeTexture) SetRaw(pix []byte, w, h, stride, chans int) {}

// each (codepoint,size) pair rasterizes exactly once; the same pair
// reuses the cached texture.
func TestGlyphCacheReuse(t *testing.T) {
	f, err := NewFont(goregular.TTF)
	if err != nil {
		t.Fatalf("font parse: %s", err)
	}
	gc := &fakeGC{}
	sizes := []int{10, 14, 18, 22, 32, 48}
	for _, size := range sizes {
		g := f.glyph(gc, 'A', size)
		if g == nil || g.tex == nil {
			t.Fatalf("no glyph at size %d", size)
		}
	}
	if gc.textures != len(sizes) {
		t.Fatalf("expected one texture per size, got %d", gc.textures)
	}
	for _, size := range sizes {
		f.glyph(gc, 'A', size)
	}
	if gc.textures != len(sizes) {
		t.Errorf("cache miss on repeat lookups: %d textures", gc.textures)
	}
}

// spaces have advance but no texture.
func TestSpaceHasNoTexture(t *testing.T) {
	f, err := NewFont(goregular.TTF)
	if err != nil {
		t.Fatalf("font parse: %s", err)
	}
	gc := &fakeGC{}
	g := f.glyph(gc, ' ', 22)
	if g == nil {
		t.Fatalf("space glyph missing")
	}
	if g.tex != nil {
		t.Errorf("space should not rasterize")
	}
	if g.advance <= 0 {
		t.Errorf("space advance %d", g.advance)
	}
}

// a GL reset forgets textures but keeps parsed font data: the glyph
// rasterizes again without reparsing.
func TestResetRebuildsLazily(t *testing.T) {
	f, err := NewFont(goregular.TTF)
	if err != nil {
		t.Fatalf("font parse: %s", err)
	}
	gc := &fakeGC{}
	f.glyph(gc, 'Q', 32)
	before := gc.textures
	f.reset()
	f.glyph(gc, 'Q', 32)
	if gc.textures != before+1 {
		t.Errorf("expected one new texture after reset, got %d", gc.textures-before)
	}
}
