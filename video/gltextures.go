// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package video

// gltextures.go runs on the main thread only. It uploads the decoded
// frame taken from the pipeline into GL textures (one per plane, stride aware) and draws
// the frame quad with the shader matching the frame's pixel layout:
// packed RGBA samples directly, planar and semi-planar YUV 4:2:0 convert
// with BT.601 coefficients in the fragment shader.

import (
	"github.com/fadeframe/kiosk/render"
)

// shaderFor maps a frame format to its shader and plane layout.
var shaderFor = map[Format]struct {
	name   string
	planes int
}{
	FormatRGBA:   {name: "rgba", planes: 1},
	FormatYUV420: {name: "yuv420", planes: 3},
	FormatNV12:   {name: "nv12", planes: 2},
}

// Screen owns the GL resources that display decoded frames. One Screen
// instance serves both the intro player and normal playback; the model is
// rebuilt whenever the stream format changes.
type Screen struct {
	gc render.Renderer

	format Format
	model  render.Model
	valid  bool // a frame has been uploaded since creation/reset.
}

// NewScreen creates a Screen with no GL resources yet; they are created on
// the first uploaded frame.
func NewScreen(gc render.Renderer) *Screen {
	return &Screen{gc: gc}
}

// Upload pushes a decoded frame into plane textures, building the
// per-format model on first use or on format change.
func (s *Screen) Upload(f *Frame) {
	if f == nil {
		return
	}
	if s.model == nil || s.format != f.Format {
		s.build(f.Format)
	}
	cfg := shaderFor[f.Format]
	for i := 0; i < cfg.planes; i++ {
		w, h := f.Width, f.Height
		channels := 1
		switch {
		case f.Format == FormatRGBA:
			channels = 4
		case f.Format == FormatNV12 && i == 1:
			channels = 2
			w, h = (w+1)/2, (h+1)/2
		case f.Format == FormatYUV420 && i > 0:
			w, h = (w+1)/2, (h+1)/2
		}
		s.model.SetRaw(i, f.Planes[i].Data, w, h, f.Planes[i].Stride, channels)
	}
	s.valid = true
}

// HasFrame reports whether a frame is uploaded and drawable.
func (s *Screen) HasFrame() bool { return s.valid }

// Draw renders the current frame into the given pixel rectangle of a
// screenW x screenH display at the given alpha. Nothing is drawn until a
// frame has been uploaded.
func (s *Screen) Draw(x, y, w, h float64, screenW, screenH int, alpha float64) {
	if !s.valid || s.model == nil {
		return
	}
	s.model.SetScreenSize(float32(screenW), float32(screenH))
	s.model.SetAlpha(alpha)
	if s.format == FormatRGBA {
		// the rgba path shares the 2D UI shader, which needs its flat
		// colour controls neutralized.
		s.model.SetUniform("kd", []float32{1, 1, 1})
		s.model.SetUniform("useTexture", []float32{1})
	}
	fx, fy, fw, fh := float32(x), float32(y), float32(w), float32(h)
	s.model.Mesh().SetData(0, []float32{
		fx, fy, 0,
		fx + fw, fy, 0,
		fx + fw, fy + fh, 0,
		fx, fy + fh, 0,
	})
	s.gc.Render(s.model)
}

// build creates the quad model and empty plane textures for a format.
func (s *Screen) build(f Format) {
	cfg := shaderFor[f]
	shd := s.gc.NewShader(cfg.name)
	shd.SetSource(shd.Lib())
	s.model = s.gc.NewModel(shd)
	s.format = f
	s.valid = false

	m := s.gc.NewMesh("videoquad")
	m.InitData(0, 3, render.DYNAMIC, false)
	m.InitData(2, 2, render.STATIC, false)
	m.InitFaces(render.STATIC)
	m.SetData(2, []float32{0, 0, 1, 0, 1, 1, 0, 1})
	m.SetFaces([]uint16{0, 1, 3, 1, 2, 3})
	s.model.SetMesh(m)
	for i := 0; i < cfg.planes; i++ {
		tex := s.gc.NewTexture("plane")
		tex.SetRaw([]byte{0}, 1, 1, 1, 1)
		s.model.AddTexture(tex)
	}
}

// ResetGL forgets the model and its plane textures so the next uploaded
// frame rebuilds them. Stale names are not deleted; a foreign process had
// the GPU and may have recycled them.
func (s *Screen) ResetGL() {
	s.model = nil
	s.valid = false
}
