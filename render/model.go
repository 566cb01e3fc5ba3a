// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package render

import (
	"fmt"
	"image"
	"log"
	"time"
)

// Model supplies a shader with data. Model is initialized with a shader and
// provides methods for setting the data expected by the shader. A Model
// combines a Mesh (vertex data), zero or more Textures (image data, up to
// 4 planes for YUV video frames), and uniform values. Unlike a 3D engine's
// model there is no model-view-projection transform: the 2D and video
// shaders in this package expect pixel coordinates mapped to clip space by
// a screenSize uniform, and the CRT shader takes a clip-space quad directly,
// so Model only carries the 2D-relevant subset of that data.
type Model interface {
	Shader() Shader       // One shader must be set on creation.
	Dispose()             // Release all rendering resources.
	SetDrawMode(mode int) // Render directive: TRIANGLES, POINTS, or LINES.
	Gc() Renderer         // Renderer.

	// Shader uniforms are set using uniform specific methods and through
	// generic SetUniform which takes a uniform name and 1-4 float32 values.
	SetScreenSize(w, h float32)          // screenSize uniform, pixels.
	Alpha() (a float64)                  // Get or
	SetAlpha(a float64)                  // ...set alpha uniform value.
	Uniform(id string) (val []float32)   // Get or
	SetUniform(id string, val []float32) // ...set float32 uniform values.

	// Mesh data can be set from a mesh resource using SetMesh, or from
	// generated data rebuilt by the caller each frame (quad batches).
	Name() string            // Model name is the Mesh name, "" if no mesh.
	Mesh() Mesh              // Return existing mesh or nil if no mesh.
	SetMesh(mesh Mesh) Model // Set to given mesh resource.

	// A model may have 0 to 4 textures: a single atlas/bezel/video-RGBA
	// texture, or up to 3 planes (Y, U, V) for planar YUV video frames.
	Textures() []Texture               // Textures can be multiple per
	Texture(index int) Texture         // ...model and are indexed
	AddTexture(t Texture) (index int)  // ...when adding, or
	UseTexture(t Texture, index int)   // ...replacing, or
	RemTexture(index int)              // ...removing, or
	TexMode(index int, mode int)       // ...how they're drawn.
	SetImage(img image.Image, index int) // Directly set texture data.

	// SetRaw replaces a texture plane with decoded video frame bytes and
	// re-uploads it. Used once per frame per plane while video plays.
	SetRaw(index int, pix []byte, w, h, stride, channels int)

	// Verify the availability of the data expected by the shader.
	Verify() error // Return an error if the shader is missing data.
}

// Render implementation independent constants.
const (
	// Draw mode types for vertex data rendering.
	TRIANGLES = iota // Triangles are the default for quads.
	POINTS           // Points, unused but kept for Enable(POINT_SIZE) parity.
	LINES            // Lines are used for wireframe/debug overlays.

	// Texture rendering modes. Default is CLAMP.
	REPEAT // Textures repeat with UV values greater than 1.
)

// ============================================================================

// model implements Model. It uses render specific knowledge while conforming
// to the generic Model interface. It holds and provides the data needed by
// the shaders: screen size, alpha, time, and a handful of textures.
type model struct {
	gc   graphicsContext // Graphics context injected on creation.
	shd  *shader         // Pipeline renderer for this model.
	msh  *mesh           // Vertex buffer data.
	tex  []*texture      // Texture data, up to 4 planes.
	mode int             // How to draw the vertex data.

	screenW, screenH float32   // Pixel dimensions of the render target.
	alpha            float32   // Shaders alpha value.
	start            time.Time // For shaders that need elapsed time.

	// Application defined shader uniform values.
	uniforms map[string][]float32                 // Caller supplied values.
	common   map[string]func(m *model, ref int32) // Model defined.
}

// newModel creates a new model. It needs to be associated with a shader
// that will give the model its program and uniform layout.
func newModel(gc Renderer, s Shader) Model {
	m := &model{}
	m.gc = gc.(graphicsContext)
	m.tex = []*texture{}
	m.uniforms = map[string][]float32{}
	m.start = time.Now()
	m.alpha = 1
	m.setShader(s)

	// Provide the common shader uniforms needed by every 2D/CRT/video shader.
	m.common = map[string]func(m *model, ref int32){
		"screenSize": func(m *model, ref int32) { m.gc.bindUniform(ref, f2, 1, m.screenW, m.screenH) },
		"alpha":      func(m *model, ref int32) { m.gc.bindUniform(ref, f1, 1, m.alpha) },
		"time":       func(m *model, ref int32) { m.gc.bindUniform(ref, f1, 1, float32(time.Since(m.start).Seconds())) },

		"uv":  func(m *model, ref int32) { m.gc.useTexture(ref, 0, m.tex[0]) },
		"uv0": func(m *model, ref int32) { m.gc.useTexture(ref, 0, m.tex[0]) },
		"uv1": func(m *model, ref int32) { m.gc.useTexture(ref, 1, m.tex[1]) },
		"uv2": func(m *model, ref int32) { m.gc.useTexture(ref, 2, m.tex[2]) },
		"uv3": func(m *model, ref int32) { m.gc.useTexture(ref, 3, m.tex[3]) },
	}
	return m
}

// Model implementation.
func (m *model) SetAlpha(a float64)                    { m.alpha = float32(a) }
func (m *model) Alpha() (a float64)                    { return float64(m.alpha) }
func (m *model) SetUniform(id string, value []float32) { m.uniforms[id] = value }
func (m *model) Uniform(id string) (value []float32)   { return m.uniforms[id] }
func (m *model) Gc() Renderer                          { return m.gc }
func (m *model) SetScreenSize(w, h float32)            { m.screenW, m.screenH = w, h }

// Model implementation.
func (m *model) AddTexture(tex Texture) (index int) {
	t := tex.(*texture)
	if !t.Bound() {
		if err := m.gc.bindTexture(t); err == nil {
			t.FreeImg()
		} else {
			log.Printf("model.AddTexture: could not bind %s %s", tex.Name(), err)
		}
	}
	t.refs++
	m.tex = append(m.tex, t)
	return len(m.tex) - 1
}

// Model implementation.
func (m *model) UseTexture(t Texture, index int) {
	newt := t.(*texture)
	if !newt.Bound() {
		if err := m.gc.bindTexture(newt); err == nil {
			newt.FreeImg()
		} else {
			log.Printf("model.UseTexture: could not bind %s %s", newt.Name(), err)
		}
	}
	if index < len(m.tex) {
		if old := m.tex[index]; old != nil {
			old.refs--
		}
	} else {
		for len(m.tex) <= index {
			m.tex = append(m.tex, nil)
		}
	}
	newt.refs++
	m.tex[index] = newt
}

// Model implementation.
func (m *model) RemTexture(index int) {
	if index < len(m.tex) {
		if t := m.tex[index]; t != nil {
			t.refs--
			if t.refs <= 0 {
				m.gc.deleteTexture(t.tid)
				t.tid = 0
			}
			m.tex[index] = nil
		}
	}
}
func (m *model) TexMode(index int, mode int) {
	if index < len(m.tex) {
		if t := m.tex[index]; t != nil {
			if mode == REPEAT {
				t.SetRepeat(true)
			}
			m.gc.updateTextureMode(t)
		}
	}
}

// Model implementation.
func (m *model) Texture(index int) Texture {
	if index < len(m.tex) {
		return m.tex[index]
	}
	return nil // explicitly return nil for nil interface.
}

// Model implementation.
func (m *model) Textures() []Texture {
	textures := []Texture{}
	for _, t := range m.tex {
		if t != nil {
			textures = append(textures, t)
		}
	}
	return textures
}

// Model implementation.
func (m *model) SetImage(img image.Image, index int) {
	if index < len(m.tex) && m.tex[index] != nil {
		tex := m.tex[index]
		tex.Set(img)
		if err := m.gc.bindTexture(tex); err == nil {
			tex.FreeImg()
		} else {
			log.Printf("model.SetImage: could not bind %s %s", tex.Name(), err)
		}
	}
}

// Model implementation.
func (m *model) SetRaw(index int, pix []byte, w, h, stride, channels int) {
	if index < len(m.tex) && m.tex[index] != nil {
		tex := m.tex[index]
		tex.SetRaw(pix, w, h, stride, channels)
		if err := m.gc.bindTexture(tex); err != nil {
			log.Printf("model.SetRaw: could not bind %s %s", tex.Name(), err)
		}
	}
}

// setShader is called once on model creation.
func (m *model) setShader(s Shader) {
	if m.shd = s.(*shader); m.shd != nil {
		if !m.shd.Bound() {
			if err := m.gc.bindShader(s); err != nil {
				log.Printf("model.setShader could not bind %s %s", s.Name(), err)
			}
		}
		m.shd.refs++
	}
}

// Model implementation.
func (m *model) Shader() Shader {
	if m.shd != nil {
		return m.shd
	}
	return nil // explicitly return nil for nil interface.
}

// Model implementation.
func (m *model) Name() string {
	if m.msh != nil {
		return m.msh.Name()
	}
	return ""
}

// Model implementation.
func (m *model) SetMesh(modelMesh Mesh) Model {
	m.disposeMesh()
	m.msh = modelMesh.(*mesh)
	if !m.msh.Bound() {
		if err := m.gc.bindMesh(m.msh); err != nil {
			log.Printf("model.SetMesh could not bind %s %s", m.msh.Name(), err)
		}
	}
	m.msh.refs++
	return m
}

// Model implementation.
func (m *model) Mesh() Mesh {
	if m.msh == nil {
		return nil
	}
	return m.msh
}

// Model implementation.
func (m *model) SetDrawMode(mode int) {
	switch mode {
	case TRIANGLES, POINTS, LINES:
		m.mode = mode
	}
}

// Model implementation.
// Disposing a graphics asset means it needs to be rebound on next use.
func (m *model) Dispose() {
	m.disposeShader()
	m.disposeMesh()
	for index := range m.tex {
		m.RemTexture(index)
	}
}

// disposeShader releases the shader associated with this model.
func (m *model) disposeShader() {
	if m.shd != nil {
		m.shd.refs--
		if m.shd.refs <= 0 {
			m.gc.deleteShader(m.shd.program)
			m.shd.program = 0
			m.shd = nil
		}
	}
}

// disposeMesh releases the mesh data associated with this model.
func (m *model) disposeMesh() {
	if m.msh != nil {
		m.msh.refs--
		if m.msh.refs <= 0 {
			m.gc.deleteMesh(m.msh.vao)
			m.msh.vao = 0
			m.msh = nil
		}
	}
}

// bindUniforms links model data to the uniforms discovered in the model shader.
func (m *model) bindUniforms() {
	for key, ref := range m.shd.uniforms {
		if bindFunc, ok := m.common[key]; ok {
			bindFunc(m, ref)
		} else if floats, ok := m.uniforms[key]; ok {
			switch len(floats) {
			case 1:
				m.gc.bindUniform(ref, f1, 1, floats[0])
			case 2:
				m.gc.bindUniform(ref, f2, 1, floats[0], floats[1])
			case 3:
				m.gc.bindUniform(ref, f3, 1, floats[0], floats[1], floats[2])
			case 4:
				m.gc.bindUniform(ref, f4, 1, floats[0], floats[1], floats[2], floats[3])
			}
		} else {
			log.Printf("No uniform %s for mesh %s shader %s", key, m.msh.Name(), m.shd.Name())
		}
	}
}

// Model implementation.
func (m *model) Verify() error {
	if m.shd == nil {
		return fmt.Errorf("model.Verify: no shader")
	}
	for label := range m.shd.uniforms {
		if _, ok := m.common[label]; !ok {
			if _, ok := m.uniforms[label]; !ok {
				return fmt.Errorf("model.Verify: no uniform %s in shader %s", label, m.shd.name)
			}
		}
	}
	if m.msh == nil && len(m.shd.attributes) > 0 {
		return fmt.Errorf("model.Verify: expecting %d buffers for shader %s", len(m.shd.attributes), m.shd.name)
	}
	for label, key := range m.shd.attributes {
		if !m.msh.hasLocation(key) {
			return fmt.Errorf("model.Verify: no buffer for attribute %s in shader %s", label, m.shd.name)
		}
	}
	return nil
}
