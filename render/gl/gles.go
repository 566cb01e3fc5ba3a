// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package gl provides golang bindings for OpenGL ES 3.0. The core GLES3
// entry points are exported directly by libGLESv2.so on Linux rather than
// resolved through a context-specific "get proc address" call, so binding
// is a straight dlopen/dlsym (see calls.go). The official OpenGL ES
// documentation for any of the constants or methods can be found online;
// just prepend "GL_" to the names in this package.
package gl

import (
	"fmt"
	"unsafe"
)

// Pointer mirrors the generated binding's type alias for raw buffer data.
type Pointer unsafe.Pointer

// Render implementation independent constants used by render/opengl.go.
// Values match the GLES3/GL core token values, which are identical across
// desktop GL and GLES for every token this kiosk uses.
const (
	FALSE = 0
	TRUE  = 1

	DEPTH_BUFFER_BIT   = 0x00000100
	COLOR_BUFFER_BIT   = 0x00004000
	POINTS             = 0x0000
	LINES              = 0x0001
	TRIANGLES          = 0x0004
	NO_ERROR           = 0
	CULL_FACE          = 0x0B44
	DEPTH_TEST         = 0x0B71
	DITHER             = 0x0BD0
	BLEND              = 0x0BE2
	PROGRAM_POINT_SIZE = 0x8642 // desktop-only; Enable passes it to the driver unchanged.

	SRC_ALPHA           = 0x0302
	ONE_MINUS_SRC_ALPHA = 0x0303

	TEXTURE_2D             = 0x0DE1
	TEXTURE0               = 0x84C0
	TEXTURE_MAG_FILTER     = 0x2800
	TEXTURE_MIN_FILTER     = 0x2801
	TEXTURE_WRAP_S         = 0x2802
	TEXTURE_WRAP_T         = 0x2803
	TEXTURE_MAX_LEVEL      = 0x813D
	NEAREST_MIPMAP_LINEAR  = 0x2702
	LINEAR                 = 0x2601
	CLAMP_TO_EDGE          = 0x812F
	REPEAT                 = 0x2901
	RGBA                   = 0x1908
	RGBA8                  = 0x8058
	RED                    = 0x1903
	R8                     = 0x8229
	RG                     = 0x8227
	RG8                    = 0x822B
	UNSIGNED_BYTE          = 0x1401
	UNSIGNED_SHORT         = 0x1403
	FLOAT                  = 0x1406
	UNPACK_ALIGNMENT       = 0x0CF5

	FRAMEBUFFER          = 0x8D40
	COLOR_ATTACHMENT0    = 0x8CE0
	FRAMEBUFFER_COMPLETE = 0x8CD5

	ARRAY_BUFFER         = 0x8892
	ELEMENT_ARRAY_BUFFER = 0x8893
	STATIC_DRAW          = 0x88E4
	DYNAMIC_DRAW         = 0x88E8

	FRAGMENT_SHADER             = 0x8B30
	VERTEX_SHADER               = 0x8B31
	COMPILE_STATUS              = 0x8B81
	LINK_STATUS                 = 0x8B82
	INFO_LOG_LENGTH             = 0x8B84
	ACTIVE_UNIFORMS             = 0x8B86
	ACTIVE_UNIFORM_MAX_LENGTH   = 0x8B87
	ACTIVE_ATTRIBUTES           = 0x8B89
	ACTIVE_ATTRIBUTE_MAX_LENGTH = 0x8B8A
	SHADING_LANGUAGE_VERSION    = 0x8B8C

	// Desktop-only polygon-mode tokens, kept so callers compile unchanged;
	// PolygonMode is a no-op under GLES (see below).
	FRONT_AND_BACK = 0x0408
	FILL           = 0x1B02
	LINE           = 0x1B01
)

// Init resolves every GLES3 entry point this package wraps. Must be called
// once after an EGL context is current on the calling OS thread.
func Init() {
	initBindings()
}

// BindingReport lists which GLES entry points resolved to a real symbol.
// Used by opengl.validate() to confirm the driver is new enough.
func BindingReport() (report []string) {
	for name, bound := range bound {
		inc := " "
		if bound {
			inc = "+"
		}
		report = append(report, fmt.Sprintf("   [%s] gl%s", inc, name))
	}
	return report
}

// GetError returns the next pending GL error, or NO_ERROR.
func GetError() uint32 { return callUintRet("GetError") }

// GetString returns a static driver string, e.g. SHADING_LANGUAGE_VERSION.
func GetString(name uint32) string {
	return callGetString(name)
}

// ClearColor, Clear, Viewport, Enable/Disable, BlendFunc map directly to
// their GLES3 equivalents.
func ClearColor(r, g, b, a float32) { callVoid4f("ClearColor", r, g, b, a) }
func Clear(mask uint32)             { callVoidU("Clear", mask) }
func Viewport(x, y, w, h int32)     { callVoid4i("Viewport", x, y, w, h) }
func Enable(cap uint32)             { callVoidU("Enable", cap) }
func Disable(cap uint32)            { callVoidU("Disable", cap) }
func BlendFunc(sfactor, dfactor uint32) {
	callVoidUU("BlendFunc", sfactor, dfactor)
}

// PolygonMode has no GLES3 equivalent (wide lines/wireframe fill modes are
// desktop-only). Debug/wireframe line rendering is therefore unavailable on
// the kiosk target; callers fall back to GL_LINES draw mode, which is.
func PolygonMode(face, mode uint32) {}

// Shader and program lifecycle.
func CreateProgram() uint32             { return callUintRet("CreateProgram") }
func CreateShader(kind uint32) uint32   { return callUintArgRet("CreateShader", kind) }
func DeleteShader(shader uint32)        { callVoidU("DeleteShader", shader) }
func DeleteProgram(program uint32)      { callVoidU("DeleteProgram", program) }
func AttachShader(program, shader uint32) {
	callVoidUU("AttachShader", program, shader)
}
func LinkProgram(program uint32) { callVoidU("LinkProgram", program) }
func UseProgram(program uint32)  { callVoidU("UseProgram", program) }

func ShaderSource(shader uint32, count int32, source []string, length *int32) {
	setShaderSource(shader, source)
}
func CompileShader(shader uint32) { callVoidU("CompileShader", shader) }

func GetShaderiv(shader uint32, pname uint32, params *int32) {
	*params = getParamI(shaderParamI, shader, pname)
}
func GetProgramiv(program uint32, pname uint32, params *int32) {
	*params = getParamI(programParamI, program, pname)
}
func GetShaderInfoLog(shader uint32, bufSize int32, length *int32, infoLog *byte) {
	copyLog(shaderInfoLog(shader), bufSize, length, infoLog)
}
func GetProgramInfoLog(program uint32, bufSize int32, length *int32, infoLog *byte) {
	copyLog(programInfoLog(program), bufSize, length, infoLog)
}

func GetUniformLocation(program uint32, name string) int32 {
	return uniformLocation(program, name)
}
func GetAttribLocation(program uint32, name string) int32 {
	return attribLocation(program, name)
}
func GetActiveUniform(program uint32, index uint32, bufSize int32, length, size *int32, kind *uint32, name *byte) {
	activeUniform(program, index, bufSize, length, size, kind, name)
}
func GetActiveAttrib(program uint32, index uint32, bufSize int32, length, size *int32, kind *uint32, name *byte) {
	activeAttrib(program, index, bufSize, length, size, kind, name)
}

// Vertex array and buffer objects.
func GenVertexArrays(n int32, arrays *uint32)    { genNames(vaoGen, n, arrays) }
func DeleteVertexArrays(n int32, arrays *uint32) { deleteNames(vaoDelete, n, arrays) }
func BindVertexArray(array uint32)               { callVoidU("BindVertexArray", array) }

func GenBuffers(n int32, buffers *uint32)    { genNames(bufGen, n, buffers) }
func DeleteBuffers(n int32, buffers *uint32) { deleteNames(bufDelete, n, buffers) }
func BindBuffer(target, buffer uint32)       { callVoidUU("BindBuffer", target, buffer) }
func BufferData(target uint32, size int64, data Pointer, usage uint32) {
	bufferData(target, size, data, usage)
}
func BufferSubData(target uint32, offset, size int64, data Pointer) {
	bufferSubData(target, offset, size, data)
}

func VertexAttribPointer(index uint32, size int32, kind uint32, normalized bool, stride int32, offset int64) {
	vertexAttribPointer(index, size, kind, normalized, stride, offset)
}
func EnableVertexAttribArray(index uint32) { callVoidU("EnableVertexAttribArray", index) }

func DrawArrays(mode uint32, first, count int32)               { drawArrays(mode, first, count) }
func DrawElements(mode uint32, count int32, kind uint32, offset int64) {
	drawElements(mode, count, kind, offset)
}

// Textures.
func GenTextures(n int32, textures *uint32)    { genNames(texGen, n, textures) }
func DeleteTextures(n int32, textures *uint32) { deleteNames(texDelete, n, textures) }
func BindTexture(target, texture uint32)       { callVoidUU("BindTexture", target, texture) }
func ActiveTexture(unit uint32)                { callVoidU("ActiveTexture", unit) }
func TexImage2D(target uint32, level, internalFormat int32, w, h, border int32, format, kind uint32, pixels Pointer) {
	texImage2D(target, level, internalFormat, w, h, border, format, kind, pixels)
}
func TexSubImage2D(target uint32, level, x, y, w, h int32, format, kind uint32, pixels Pointer) {
	texSubImage2D(target, level, x, y, w, h, format, kind, pixels)
}
func GenerateMipmap(target uint32)                    { callVoidU("GenerateMipmap", target) }
func TexParameteri(target, pname uint32, param int32) { texParameteri(target, pname, param) }

// PixelStorei controls the row alignment of client texture data. Video
// planes are uploaded with UNPACK_ALIGNMENT 1 since decoder strides are
// handled by per-row sub-image uploads, not by alignment padding.
func PixelStorei(pname uint32, param int32) { pixelStorei(pname, param) }

// Framebuffer objects. Used by the CRT post-process pass to capture the
// scene into a texture before the full-screen effect shader runs.
func GenFramebuffers(n int32, fbos *uint32)    { genNames(fboGen, n, fbos) }
func DeleteFramebuffers(n int32, fbos *uint32) { deleteNames(fboDelete, n, fbos) }
func BindFramebuffer(target, fbo uint32)       { callVoidUU("BindFramebuffer", target, fbo) }
func FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32) {
	framebufferTexture2D(target, attachment, textarget, texture, level)
}
func CheckFramebufferStatus(target uint32) uint32 {
	return callUintArgRet("CheckFramebufferStatus", target)
}

// Uniforms.
func Uniform1i(loc int32, v0 int32)                 { uniform1i(loc, v0) }
func Uniform1f(loc int32, v0 float32)                { uniform1f(loc, v0) }
func Uniform2f(loc int32, v0, v1 float32)            { uniform2f(loc, v0, v1) }
func Uniform3f(loc int32, v0, v1, v2 float32)        { uniform3f(loc, v0, v1, v2) }
func Uniform4f(loc int32, v0, v1, v2, v3 float32)    { uniform4f(loc, v0, v1, v2, v3) }
func UniformMatrix3fv(loc int32, count int32, transpose bool, v *float32) {
	uniformMatrix3fv(loc, count, transpose, v)
}
func UniformMatrix3x4fv(loc int32, count int32, transpose bool, v *float32) {
	uniformMatrix3x4fv(loc, count, transpose, v)
}
func UniformMatrix4fv(loc int32, count int32, transpose bool, v *float32) {
	uniformMatrix4fv(loc, count, transpose, v)
}
