// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package gl

// calls.go resolves and dispatches the GLES3 entry points wrapped by this
// package. Symbols are looked up once with dlsym and cached; each distinct
// C call signature gets one typed trampoline in the cgo preamble below.

// #cgo linux LDFLAGS: -lGLESv2 -ldl
//
// #include <stdlib.h>
// #include <dlfcn.h>
//
// typedef unsigned int  GLenum;
// typedef unsigned char GLboolean;
// typedef int           GLint;
// typedef int           GLsizei;
// typedef unsigned int  GLuint;
// typedef float         GLfloat;
// typedef long          GLsizeiptr;
// typedef long          GLintptr;
//
// static void* eslib = NULL;
//
// static void* bindMethod(const char* name) {
//    if (eslib == NULL) {
//       eslib = dlopen("libGLESv2.so.2", RTLD_LAZY);
//    }
//    if (eslib == NULL) {
//       eslib = dlopen("libGLESv2.so", RTLD_LAZY);
//    }
//    if (eslib == NULL) {
//       return NULL;
//    }
//    return dlsym(eslib, name);
// }
//
// static GLenum ret_E(void* fn) { return ((GLenum(*)(void))fn)(); }
// static GLuint retU_U(void* fn, GLuint a) { return ((GLuint(*)(GLuint))fn)(a); }
// static const char* retS_E(void* fn, GLenum a) { return (const char*)((const unsigned char*(*)(GLenum))fn)(a); }
// static GLint retI_US(void* fn, GLuint a, const char* b) { return ((GLint(*)(GLuint, const char*))fn)(a, b); }
//
// static void call_U(void* fn, GLuint a) { ((void(*)(GLuint))fn)(a); }
// static void call_UU(void* fn, GLuint a, GLuint b) { ((void(*)(GLuint, GLuint))fn)(a, b); }
// static void call_4f(void* fn, GLfloat a, GLfloat b, GLfloat c, GLfloat d) { ((void(*)(GLfloat, GLfloat, GLfloat, GLfloat))fn)(a, b, c, d); }
// static void call_4i(void* fn, GLint a, GLint b, GLint c, GLint d) { ((void(*)(GLint, GLint, GLint, GLint))fn)(a, b, c, d); }
// static void call_names(void* fn, GLsizei n, GLuint* names) { ((void(*)(GLsizei, GLuint*))fn)(n, names); }
// static void call_source(void* fn, GLuint s, GLsizei count, const char* const* src, const GLint* len) { ((void(*)(GLuint, GLsizei, const char* const*, const GLint*))fn)(s, count, src, len); }
// static void call_paramI(void* fn, GLuint id, GLenum pname, GLint* params) { ((void(*)(GLuint, GLenum, GLint*))fn)(id, pname, params); }
// static void call_infoLog(void* fn, GLuint id, GLsizei bufSize, GLsizei* length, char* log) { ((void(*)(GLuint, GLsizei, GLsizei*, char*))fn)(id, bufSize, length, log); }
// static void call_active(void* fn, GLuint p, GLuint index, GLsizei bufSize, GLsizei* length, GLint* size, GLenum* kind, char* name) { ((void(*)(GLuint, GLuint, GLsizei, GLsizei*, GLint*, GLenum*, char*))fn)(p, index, bufSize, length, size, kind, name); }
// static void call_bufferData(void* fn, GLenum target, GLsizeiptr size, const void* data, GLenum usage) { ((void(*)(GLenum, GLsizeiptr, const void*, GLenum))fn)(target, size, data, usage); }
// static void call_bufferSubData(void* fn, GLenum target, GLintptr offset, GLsizeiptr size, const void* data) { ((void(*)(GLenum, GLintptr, GLsizeiptr, const void*))fn)(target, offset, size, data); }
// static void call_vertexAttrib(void* fn, GLuint index, GLint size, GLenum kind, GLboolean norm, GLsizei stride, const void* offset) { ((void(*)(GLuint, GLint, GLenum, GLboolean, GLsizei, const void*))fn)(index, size, kind, norm, stride, offset); }
// static void call_drawArrays(void* fn, GLenum mode, GLint first, GLsizei count) { ((void(*)(GLenum, GLint, GLsizei))fn)(mode, first, count); }
// static void call_drawElements(void* fn, GLenum mode, GLsizei count, GLenum kind, const void* offset) { ((void(*)(GLenum, GLsizei, GLenum, const void*))fn)(mode, count, kind, offset); }
// static void call_texImage2D(void* fn, GLenum target, GLint level, GLint ifmt, GLsizei w, GLsizei h, GLint border, GLenum fmt, GLenum kind, const void* pix) { ((void(*)(GLenum, GLint, GLint, GLsizei, GLsizei, GLint, GLenum, GLenum, const void*))fn)(target, level, ifmt, w, h, border, fmt, kind, pix); }
// static void call_texSubImage2D(void* fn, GLenum target, GLint level, GLint x, GLint y, GLsizei w, GLsizei h, GLenum fmt, GLenum kind, const void* pix) { ((void(*)(GLenum, GLint, GLint, GLint, GLsizei, GLsizei, GLenum, GLenum, const void*))fn)(target, level, x, y, w, h, fmt, kind, pix); }
// static void call_texParameteri(void* fn, GLenum target, GLenum pname, GLint param) { ((void(*)(GLenum, GLenum, GLint))fn)(target, pname, param); }
// static void call_pixelStorei(void* fn, GLenum pname, GLint param) { ((void(*)(GLenum, GLint))fn)(pname, param); }
// static void call_fboTex2D(void* fn, GLenum target, GLenum attach, GLenum textarget, GLuint tex, GLint level) { ((void(*)(GLenum, GLenum, GLenum, GLuint, GLint))fn)(target, attach, textarget, tex, level); }
// static void call_uniform1i(void* fn, GLint loc, GLint v0) { ((void(*)(GLint, GLint))fn)(loc, v0); }
// static void call_uniform1f(void* fn, GLint loc, GLfloat v0) { ((void(*)(GLint, GLfloat))fn)(loc, v0); }
// static void call_uniform2f(void* fn, GLint loc, GLfloat v0, GLfloat v1) { ((void(*)(GLint, GLfloat, GLfloat))fn)(loc, v0, v1); }
// static void call_uniform3f(void* fn, GLint loc, GLfloat v0, GLfloat v1, GLfloat v2) { ((void(*)(GLint, GLfloat, GLfloat, GLfloat))fn)(loc, v0, v1, v2); }
// static void call_uniform4f(void* fn, GLint loc, GLfloat v0, GLfloat v1, GLfloat v2, GLfloat v3) { ((void(*)(GLint, GLfloat, GLfloat, GLfloat, GLfloat))fn)(loc, v0, v1, v2, v3); }
// static void call_uniformMatrix(void* fn, GLint loc, GLsizei count, GLboolean transpose, const GLfloat* v) { ((void(*)(GLint, GLsizei, GLboolean, const GLfloat*))fn)(loc, count, transpose, v); }
import "C"

import (
	"strings"
	"unsafe"
)

// Gen/delete dispatch keys. Using the entry point name keeps genNames and
// deleteNames generic over buffer, texture, vertex array, and framebuffer
// name allocation, which all share the (GLsizei, GLuint*) signature.
const (
	vaoGen    = "GenVertexArrays"
	vaoDelete = "DeleteVertexArrays"
	bufGen    = "GenBuffers"
	bufDelete = "DeleteBuffers"
	texGen    = "GenTextures"
	texDelete = "DeleteTextures"
	fboGen    = "GenFramebuffers"
	fboDelete = "DeleteFramebuffers"

	shaderParamI  = "GetShaderiv"
	programParamI = "GetProgramiv"
)

// fns caches resolved entry points; bound records which names resolved so
// BindingReport can list driver support.
var fns = map[string]unsafe.Pointer{}
var bound = map[string]bool{}

// entryPoints is every GLES3 function this package wraps. Resolved up
// front by Init so BindingReport is complete before the first draw.
var entryPoints = []string{
	"ActiveTexture", "AttachShader", "BindBuffer", "BindFramebuffer",
	"BindTexture", "BindVertexArray", "BlendFunc", "BufferData",
	"BufferSubData", "CheckFramebufferStatus", "Clear", "ClearColor",
	"CompileShader", "CreateProgram", "CreateShader", "DeleteBuffers",
	"DeleteFramebuffers", "DeleteProgram", "DeleteShader", "DeleteTextures",
	"DeleteVertexArrays", "Disable", "DrawArrays", "DrawElements", "Enable",
	"EnableVertexAttribArray", "FramebufferTexture2D", "GenBuffers",
	"GenFramebuffers", "GenTextures", "GenVertexArrays", "GenerateMipmap",
	"GetActiveAttrib", "GetActiveUniform", "GetAttribLocation", "GetError",
	"GetProgramInfoLog", "GetProgramiv", "GetShaderInfoLog", "GetShaderiv",
	"GetString", "GetUniformLocation", "LinkProgram", "PixelStorei",
	"ShaderSource", "TexImage2D", "TexParameteri", "TexSubImage2D",
	"Uniform1f", "Uniform1i", "Uniform2f", "Uniform3f", "Uniform4f",
	"UniformMatrix3fv", "UniformMatrix3x4fv", "UniformMatrix4fv", "UseProgram",
	"VertexAttribPointer", "Viewport",
}

// initBindings resolves every wrapped entry point.
func initBindings() {
	for _, name := range entryPoints {
		resolve(name)
	}
}

// resolve looks up one entry point, caching the result. Unresolved names
// cache a nil pointer; callers of an unbound function are a programming
// error surfaced through BindingReport/validate rather than a nil call.
func resolve(name string) unsafe.Pointer {
	if fn, ok := fns[name]; ok {
		return fn
	}
	cname := C.CString("gl" + name)
	fn := C.bindMethod(cname)
	C.free(unsafe.Pointer(cname))
	fns[name] = fn
	bound[name] = fn != nil
	return fn
}

// ============================================================================
// signature-shaped dispatch helpers used by gles.go.

func callVoidU(name string, a uint32) {
	if fn := resolve(name); fn != nil {
		C.call_U(fn, C.GLuint(a))
	}
}

func callVoidUU(name string, a, b uint32) {
	if fn := resolve(name); fn != nil {
		C.call_UU(fn, C.GLuint(a), C.GLuint(b))
	}
}

func callVoid4f(name string, a, b, c, d float32) {
	if fn := resolve(name); fn != nil {
		C.call_4f(fn, C.GLfloat(a), C.GLfloat(b), C.GLfloat(c), C.GLfloat(d))
	}
}

func callVoid4i(name string, a, b, c, d int32) {
	if fn := resolve(name); fn != nil {
		C.call_4i(fn, C.GLint(a), C.GLint(b), C.GLint(c), C.GLint(d))
	}
}

func callUintRet(name string) uint32 {
	if fn := resolve(name); fn != nil {
		return uint32(C.ret_E(fn))
	}
	return 0
}

func callUintArgRet(name string, a uint32) uint32 {
	if fn := resolve(name); fn != nil {
		return uint32(C.retU_U(fn, C.GLuint(a)))
	}
	return 0
}

func callGetString(name uint32) string {
	if fn := resolve("GetString"); fn != nil {
		if cstr := C.retS_E(fn, C.GLenum(name)); cstr != nil {
			return C.GoString(cstr)
		}
	}
	return ""
}

func genNames(name string, n int32, names *uint32) {
	if fn := resolve(name); fn != nil {
		C.call_names(fn, C.GLsizei(n), (*C.GLuint)(names))
	}
}

func deleteNames(name string, n int32, names *uint32) {
	if fn := resolve(name); fn != nil {
		C.call_names(fn, C.GLsizei(n), (*C.GLuint)(names))
	}
}

// setShaderSource concatenates the shader lines into one source string for
// the driver. Lines are expected to already be newline terminated.
func setShaderSource(shader uint32, source []string) {
	fn := resolve("ShaderSource")
	if fn == nil {
		return
	}
	src := C.CString(strings.Join(source, ""))
	defer C.free(unsafe.Pointer(src))
	length := C.GLint(-1) // null terminated.
	C.call_source(fn, C.GLuint(shader), 1, &src, &length)
}

func getParamI(name string, id uint32, pname uint32) int32 {
	var param C.GLint
	if fn := resolve(name); fn != nil {
		C.call_paramI(fn, C.GLuint(id), C.GLenum(pname), &param)
	}
	return int32(param)
}

func infoLog(name string, id uint32) string {
	fn := resolve(name)
	if fn == nil {
		return ""
	}
	logLen := getParamI(map[string]string{
		"GetShaderInfoLog":  shaderParamI,
		"GetProgramInfoLog": programParamI,
	}[name], id, INFO_LOG_LENGTH)
	if logLen <= 0 {
		return ""
	}
	buf := make([]byte, logLen)
	var written C.GLsizei
	C.call_infoLog(fn, C.GLuint(id), C.GLsizei(logLen), &written, (*C.char)(unsafe.Pointer(&buf[0])))
	return string(buf[:written])
}

func shaderInfoLog(shader uint32) string   { return infoLog("GetShaderInfoLog", shader) }
func programInfoLog(program uint32) string { return infoLog("GetProgramInfoLog", program) }

// copyLog copies an already-fetched info log into the caller supplied
// C-style buffer, preserving the raw glGet*InfoLog signature for callers.
func copyLog(log string, bufSize int32, length *int32, infoLog *byte) {
	n := len(log)
	if int32(n) > bufSize-1 {
		n = int(bufSize - 1)
	}
	dst := unsafe.Slice(infoLog, bufSize)
	copy(dst, log[:n])
	dst[n] = 0
	if length != nil {
		*length = int32(n)
	}
}

func uniformLocation(program uint32, name string) int32 {
	fn := resolve("GetUniformLocation")
	if fn == nil {
		return -1
	}
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return int32(C.retI_US(fn, C.GLuint(program), cname))
}

func attribLocation(program uint32, name string) int32 {
	fn := resolve("GetAttribLocation")
	if fn == nil {
		return -1
	}
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return int32(C.retI_US(fn, C.GLuint(program), cname))
}

func activeUniform(program uint32, index uint32, bufSize int32, length, size *int32, kind *uint32, name *byte) {
	if fn := resolve("GetActiveUniform"); fn != nil {
		C.call_active(fn, C.GLuint(program), C.GLuint(index), C.GLsizei(bufSize),
			(*C.GLsizei)(length), (*C.GLint)(size), (*C.GLenum)(kind),
			(*C.char)(unsafe.Pointer(name)))
	}
}

func activeAttrib(program uint32, index uint32, bufSize int32, length, size *int32, kind *uint32, name *byte) {
	if fn := resolve("GetActiveAttrib"); fn != nil {
		C.call_active(fn, C.GLuint(program), C.GLuint(index), C.GLsizei(bufSize),
			(*C.GLsizei)(length), (*C.GLint)(size), (*C.GLenum)(kind),
			(*C.char)(unsafe.Pointer(name)))
	}
}

func bufferData(target uint32, size int64, data Pointer, usage uint32) {
	if fn := resolve("BufferData"); fn != nil {
		C.call_bufferData(fn, C.GLenum(target), C.GLsizeiptr(size), unsafe.Pointer(data), C.GLenum(usage))
	}
}

func bufferSubData(target uint32, offset, size int64, data Pointer) {
	if fn := resolve("BufferSubData"); fn != nil {
		C.call_bufferSubData(fn, C.GLenum(target), C.GLintptr(offset), C.GLsizeiptr(size), unsafe.Pointer(data))
	}
}

func vertexAttribPointer(index uint32, size int32, kind uint32, normalized bool, stride int32, offset int64) {
	fn := resolve("VertexAttribPointer")
	if fn == nil {
		return
	}
	norm := C.GLboolean(FALSE)
	if normalized {
		norm = TRUE
	}
	C.call_vertexAttrib(fn, C.GLuint(index), C.GLint(size), C.GLenum(kind), norm,
		C.GLsizei(stride), unsafe.Pointer(uintptr(offset)))
}

func drawArrays(mode uint32, first, count int32) {
	if fn := resolve("DrawArrays"); fn != nil {
		C.call_drawArrays(fn, C.GLenum(mode), C.GLint(first), C.GLsizei(count))
	}
}

func drawElements(mode uint32, count int32, kind uint32, offset int64) {
	if fn := resolve("DrawElements"); fn != nil {
		C.call_drawElements(fn, C.GLenum(mode), C.GLsizei(count), C.GLenum(kind), unsafe.Pointer(uintptr(offset)))
	}
}

func texImage2D(target uint32, level, internalFormat int32, w, h, border int32, format, kind uint32, pixels Pointer) {
	if fn := resolve("TexImage2D"); fn != nil {
		C.call_texImage2D(fn, C.GLenum(target), C.GLint(level), C.GLint(internalFormat),
			C.GLsizei(w), C.GLsizei(h), C.GLint(border), C.GLenum(format), C.GLenum(kind),
			unsafe.Pointer(pixels))
	}
}

func texSubImage2D(target uint32, level, x, y, w, h int32, format, kind uint32, pixels Pointer) {
	if fn := resolve("TexSubImage2D"); fn != nil {
		C.call_texSubImage2D(fn, C.GLenum(target), C.GLint(level), C.GLint(x), C.GLint(y),
			C.GLsizei(w), C.GLsizei(h), C.GLenum(format), C.GLenum(kind), unsafe.Pointer(pixels))
	}
}

func texParameteri(target, pname uint32, param int32) {
	if fn := resolve("TexParameteri"); fn != nil {
		C.call_texParameteri(fn, C.GLenum(target), C.GLenum(pname), C.GLint(param))
	}
}

func pixelStorei(pname uint32, param int32) {
	if fn := resolve("PixelStorei"); fn != nil {
		C.call_pixelStorei(fn, C.GLenum(pname), C.GLint(param))
	}
}

func framebufferTexture2D(target, attachment, textarget, texture uint32, level int32) {
	if fn := resolve("FramebufferTexture2D"); fn != nil {
		C.call_fboTex2D(fn, C.GLenum(target), C.GLenum(attachment), C.GLenum(textarget),
			C.GLuint(texture), C.GLint(level))
	}
}

func uniform1i(loc int32, v0 int32) {
	if fn := resolve("Uniform1i"); fn != nil {
		C.call_uniform1i(fn, C.GLint(loc), C.GLint(v0))
	}
}

func uniform1f(loc int32, v0 float32) {
	if fn := resolve("Uniform1f"); fn != nil {
		C.call_uniform1f(fn, C.GLint(loc), C.GLfloat(v0))
	}
}

func uniform2f(loc int32, v0, v1 float32) {
	if fn := resolve("Uniform2f"); fn != nil {
		C.call_uniform2f(fn, C.GLint(loc), C.GLfloat(v0), C.GLfloat(v1))
	}
}

func uniform3f(loc int32, v0, v1, v2 float32) {
	if fn := resolve("Uniform3f"); fn != nil {
		C.call_uniform3f(fn, C.GLint(loc), C.GLfloat(v0), C.GLfloat(v1), C.GLfloat(v2))
	}
}

func uniform4f(loc int32, v0, v1, v2, v3 float32) {
	if fn := resolve("Uniform4f"); fn != nil {
		C.call_uniform4f(fn, C.GLint(loc), C.GLfloat(v0), C.GLfloat(v1), C.GLfloat(v2), C.GLfloat(v3))
	}
}

func uniformMatrix(name string, loc int32, count int32, transpose bool, v *float32) {
	fn := resolve(name)
	if fn == nil {
		return
	}
	tr := C.GLboolean(FALSE)
	if transpose {
		tr = TRUE
	}
	C.call_uniformMatrix(fn, C.GLint(loc), C.GLsizei(count), tr, (*C.GLfloat)(v))
}

func uniformMatrix3fv(loc int32, count int32, transpose bool, v *float32) {
	uniformMatrix("UniformMatrix3fv", loc, count, transpose, v)
}

func uniformMatrix3x4fv(loc int32, count int32, transpose bool, v *float32) {
	uniformMatrix("UniformMatrix3x4fv", loc, count, transpose, v)
}

func uniformMatrix4fv(loc int32, count int32, transpose bool, v *float32) {
	uniformMatrix("UniformMatrix4fv", loc, count, transpose, v)
}
