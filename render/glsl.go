// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package render

// glsl provides pre-made GLSL shaders used throughout the kiosk. Each
// shader is identified by a unique name and looked up through
// Shader.Lib(). Source omits the #version/precision prelude:
// render/gl.BindProgram adds it based on the driver's reported GLSL
// version, so the same source compiles under desktop GL and GLES3
// without change.
var glsl = map[string]func() (vsh, fsh []string){
	"ui2d":   ui2dShader,
	"crt":    crtShader,
	"yuv420": yuv420Shader,
	"nv12":   nv12Shader,
	"rgba":   rgbaShader,
}

// ui2dShader draws textured or flat-coloured quads/lines/triangles in pixel
// space. The vertex shader maps pixel coordinates to clip space using a
// screenSize uniform and flips Y so (0,0) is the top-left corner. The
// fragment shader multiplies a sampled texture by a uniform colour/alpha,
// or renders a flat fill when useTexture is false.
func ui2dShader() (vsh, fsh []string) {
	vsh = []string{
		"layout(location=0) in vec3 in_v;", // pixel-space x,y and a 0/1 z pad
		"layout(location=2) in vec2 in_t;", // texture coordinates
		"",
		"uniform vec2 screenSize;",
		"out     vec2 t_uv;",
		"void main() {",
		"   vec2 clip = vec2(",
		"      (in_v.x / screenSize.x) * 2.0 - 1.0,",
		"      1.0 - (in_v.y / screenSize.y) * 2.0);", // flip Y
		"   gl_Position = vec4(clip, 0.0, 1.0);",
		"   t_uv = in_t;",
		"}",
	}
	fsh = []string{
		"in      vec2      t_uv;",
		"uniform sampler2D uv;",
		"uniform vec3      kd;",         // flat fill / tint colour
		"uniform float     alpha;",      // transparency
		"uniform float     useTexture;", // 1.0 samples uv, 0.0 uses kd only
		"out     vec4      ffc;",
		"void main() {",
		"   vec4 texel = texture(uv, t_uv);",
		"   vec3 rgb = mix(kd, texel.rgb * kd, useTexture);",
		"   float a = mix(1.0, texel.a, useTexture) * alpha;",
		"   ffc = vec4(rgb, a);",
		"}",
	}
	return
}

// crtShader composites the seven CRT effects onto the already-rendered
// scene in one full-screen pass. Every intensity defaults to 0, which is a
// no-op per channel, so a fully zeroed uniform set reduces to a plain copy.
func crtShader() (vsh, fsh []string) {
	vsh = []string{
		"layout(location=0) in vec3 in_v;",
		"layout(location=2) in vec2 in_t;",
		"out     vec2 t_uv;",
		"void main() {",
		"   gl_Position = vec4(in_v.xy, 0.0, 1.0);", // already a clip-space quad
		"   t_uv = in_t;",
		"}",
	}
	fsh = []string{
		"in      vec2      t_uv;",
		"uniform sampler2D uv;", // the rendered scene
		"uniform vec2      screenSize;",
		"uniform float     time;",
		"uniform float     scanlines;", // darken
		"uniform float     warmth;",    // tint
		"uniform float     glow;",      // tint
		"uniform float     rgbMask;",   // darken
		"uniform float     bloom;",     // tint
		"uniform float     interlace;", // darken
		"uniform float     flicker;",   // darken
		"out     vec4      ffc;",
		"",
		"void main() {",
		"   vec3 c = texture(uv, t_uv).rgb;",
		"",
		"   // darken-category effects reduce local brightness.",
		"   float line = sin(t_uv.y * screenSize.y * 3.14159);",
		"   c *= mix(1.0, 0.5 + 0.5 * abs(line), scanlines);",
		"   float mask = mod(floor(t_uv.x * screenSize.x), 3.0);",
		"   vec3 maskColour = vec3(mask == 0.0, mask == 1.0, mask == 2.0);",
		"   c *= mix(vec3(1.0), maskColour * 1.5, rgbMask * 0.5);",
		"   float field = mod(floor(t_uv.y * screenSize.y) + floor(time * 60.0), 2.0);",
		"   c *= mix(1.0, 0.85 + 0.15 * field, interlace);",
		"   c *= mix(1.0, 0.9 + 0.1 * sin(time * 113.0), flicker);",
		"",
		"   // tint-category effects shift colour balance, never darken overall.",
		"   c = mix(c, c * vec3(1.08, 1.0, 0.92), warmth);", // warm colour cast
		"   c = mix(c, c + vec3(0.08) * glow, glow);",       // soft whitepoint lift
		"   vec3 bloomed = c + pow(max(c - 0.7, 0.0), vec3(1.0)) * 0.6;",
		"   c = mix(c, bloomed, bloom);",
		"",
		"   ffc = vec4(c, 1.0);",
		"}",
	}
	return
}

// yuv420Shader converts a planar YUV 4:2:0 frame (three independent
// single-channel textures, Y at full resolution, U/V at half) to RGB using
// the BT.601 coefficients, matching the colour space ordinary SD/HD video
// decoders emit.
func yuv420Shader() (vsh, fsh []string) {
	vsh, _ = ui2dShader()
	fsh = []string{
		"in      vec2      t_uv;",
		"uniform sampler2D uv0;", // Y plane
		"uniform sampler2D uv1;", // U plane
		"uniform sampler2D uv2;", // V plane
		"uniform float     alpha;",
		"out     vec4      ffc;",
		"void main() {",
		"   float y = texture(uv0, t_uv).r;",
		"   float u = texture(uv1, t_uv).r - 0.5;",
		"   float v = texture(uv2, t_uv).r - 0.5;",
		"   float r = y + 1.402 * v;",
		"   float g = y - 0.344136 * u - 0.714136 * v;",
		"   float b = y + 1.772 * u;",
		"   ffc = vec4(r, g, b, alpha);",
		"}",
	}
	return
}

// nv12Shader converts a semi-planar YUV 4:2:0 frame (Y plane plus an
// interleaved UV plane, the layout most hardware decoders emit directly)
// to RGB, again using BT.601 coefficients.
func nv12Shader() (vsh, fsh []string) {
	vsh, _ = ui2dShader()
	fsh = []string{
		"in      vec2      t_uv;",
		"uniform sampler2D uv0;", // Y plane, single channel
		"uniform sampler2D uv1;", // interleaved UV plane, two channels
		"uniform float     alpha;",
		"out     vec4      ffc;",
		"void main() {",
		"   float y = texture(uv0, t_uv).r;",
		"   vec2 uv = texture(uv1, t_uv).rg - vec2(0.5);",
		"   float r = y + 1.402 * uv.y;",
		"   float g = y - 0.344136 * uv.x - 0.714136 * uv.y;",
		"   float b = y + 1.772 * uv.x;",
		"   ffc = vec4(r, g, b, alpha);",
		"}",
	}
	return
}

// rgbaShader draws an already-decoded RGBA frame, used by the direct-GL
// player fallback path and by software-decoded frames swscale already
// converted to packed RGBA.
func rgbaShader() (vsh, fsh []string) {
	return ui2dShader()
}
