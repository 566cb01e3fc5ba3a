// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package render provides access to 2D graphics over an EGL/GLES context.
// It makes data visible by sending vertex and texture data to the graphics
// card. The main steps involved are:
//     • Create a Renderer.
//     • Create one or more Models, each Model associated with a Shader.
//     • Populate the Models with Meshes, Textures, and other Shader data.
//     • Rapidly and forever, call Renderer.Render(m) for each Model m.
// Package render is provided as part of the fadeframe kiosk engine.
package render

// Renderer is used to draw textured quad/line/triangle models within a
// graphics context. The expected usage is along the lines of:
//     • Initialize the graphics layer.
//     • Create 2D models using combinations of graphics data.
//     • Loop, rendering the models many times a second.
type Renderer interface {
	Init() (err error)               // Call first, once at startup.
	Clear()                          // Clear all buffers before rendering.
	Color(r, g, b, a float32)        // Set the default render clear colour
	Enable(attr uint32, enable bool) // Enable or disable graphic state.
	Viewport(width int, height int)  // Set the available screen real estate.

	// Graphics data is encapsulated (combined and managed) in a Model.
	NewModel(s Shader) Model        // Model encapsulates the following:
	NewShader(name string) Shader   //    Shader program.
	NewMesh(name string) Mesh       //    Per vertex data.
	NewTexture(name string) Texture //    Image data.
	Render(m Model)                 // Render draws a Model.

	// NewTarget creates an offscreen capture texture used by the CRT
	// effect pass to post-process the rendered frame.
	NewTarget(width, height int) (Target, error)

	// ResetState re-asserts the GL state this renderer assumes after a
	// foreign process has had control of the GPU: blending on, dithering
	// off, texture unit zero active, no cached program.
	ResetState()
}

// New provides a default graphics implementation.
func New() Renderer { return newRenderer() }

// =============================================================================

// graphicsContext hides the existence of renderer methods that are local to
// this package. Internally classes that implement Renderer also implement
// graphicsContext.
type graphicsContext interface {
	Renderer // a graphicsContext is a Renderer

	// Binding data ensures the data is available on the graphics card.
	bindMesh(m Mesh) error
	bindShader(s Shader) error
	bindTexture(t Texture) error
	bindUniform(uniform int32, utype, num int, udata ...interface{})
	updateTextureMode(tex Texture)

	// Deleting frees up previous bound graphics card data. These are accessed
	// through the Model.Dispose methods.
	deleteMesh(mid uint32)
	deleteShader(sid uint32)
	deleteTexture(tid uint32)

	// useTexture makes the given bound texture t the active texture and
	// assigns it to the given texture unit (0-15). Sampler is the texture
	// sampler shader reference.
	useTexture(sampler, texUnit int32, t Texture)
}
