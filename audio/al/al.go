// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package al provides golang bindings for the subset of OpenAL the kiosk
// streams audio through: device/context lifecycle, one source, a rotating
// buffer queue, and gain. Symbols are resolved from the system library
// with dlopen/dlsym so the binary starts on machines without OpenAL and
// reports the missing functionality instead of failing to link.
// The official OpenAL documentation for the constants and methods can be
// found online; prepend "al" or "alc" to the names in this package.
package al

// #cgo linux LDFLAGS: -ldl
//
// #include <stdlib.h>
// #include <dlfcn.h>
//
// typedef int   ALenum;
// typedef int   ALint;
// typedef unsigned int ALuint;
// typedef int   ALsizei;
// typedef float ALfloat;
//
// static void* allib = NULL;
//
// static void* albind(const char* name) {
//    if (allib == NULL) {
//       allib = dlopen("libopenal.so.1", RTLD_LAZY);
//    }
//    if (allib == NULL) {
//       allib = dlopen("libopenal.so", RTLD_LAZY);
//    }
//    if (allib == NULL) {
//       return NULL;
//    }
//    return dlsym(allib, name);
// }
//
// static ALenum al_ret_e(void* fn) { return ((ALenum(*)(void))fn)(); }
// static void al_names(void* fn, ALsizei n, ALuint* names) { ((void(*)(ALsizei, ALuint*))fn)(n, names); }
// static void al_u(void* fn, ALuint a) { ((void(*)(ALuint))fn)(a); }
// static void al_ef(void* fn, ALenum p, ALfloat v) { ((void(*)(ALenum, ALfloat))fn)(p, v); }
// static void al_uep(void* fn, ALuint s, ALenum p, ALint* v) { ((void(*)(ALuint, ALenum, ALint*))fn)(s, p, v); }
// static void al_bufferData(void* fn, ALuint b, ALenum fmt, const void* data, ALsizei size, ALsizei freq) { ((void(*)(ALuint, ALenum, const void*, ALsizei, ALsizei))fn)(b, fmt, data, size, freq); }
// static void al_queue(void* fn, ALuint src, ALsizei n, ALuint* bufs) { ((void(*)(ALuint, ALsizei, ALuint*))fn)(src, n, bufs); }
// static void* alc_open(void* fn, const char* name) { return ((void*(*)(const char*))fn)(name); }
// static void* alc_create(void* fn, void* dev, ALint* attrs) { return ((void*(*)(void*, ALint*))fn)(dev, attrs); }
// static int alc_make(void* fn, void* ctx) { return ((int(*)(void*))fn)(ctx); }
// static void alc_vp(void* fn, void* p) { ((void(*)(void*))fn)(p); }
// static const char* alc_getString(void* fn, void* dev, ALenum param) { return ((const char*(*)(void*, ALenum))fn)(dev, param); }
import "C"

import (
	"fmt"
	"unsafe"
)

// Pointer mirrors the binding type alias for raw sample data.
type Pointer unsafe.Pointer

// Device and Context are opaque handles to the underlying ALC objects.
type Device uintptr
type Context uintptr

// AL and ALC constants used by this kiosk's audio path.
const (
	NO_ERROR = 0

	FORMAT_MONO16   = 0x1101
	FORMAT_STEREO16 = 0x1103

	GAIN              = 0x100A
	BUFFER            = 0x1009
	SOURCE_STATE      = 0x1010
	PLAYING           = 0x1012
	BUFFERS_QUEUED    = 0x1015
	BUFFERS_PROCESSED = 0x1016

	// ALC string queries for device enumeration.
	ALC_DEVICE_SPECIFIER     = 0x1005
	ALC_ALL_DEVICES_SPECIFIER = 0x1013
)

// entryPoints is every function this package wraps.
var entryPoints = []string{
	"alGetError", "alGenBuffers", "alDeleteBuffers", "alBufferData",
	"alGenSources", "alDeleteSources", "alSourcePlay", "alSourceStop",
	"alSourceQueueBuffers", "alSourceUnqueueBuffers", "alGetSourcei",
	"alListenerf",
	"alcOpenDevice", "alcCloseDevice", "alcCreateContext",
	"alcMakeContextCurrent", "alcDestroyContext", "alcGetString",
}

var fns = map[string]unsafe.Pointer{}
var bound = map[string]bool{}

// Init resolves the wrapped OpenAL entry points. Expected to be called
// once on startup before any other call in this package.
func Init() {
	for _, name := range entryPoints {
		resolve(name)
	}
}

func resolve(name string) unsafe.Pointer {
	if fn, ok := fns[name]; ok {
		return fn
	}
	cname := C.CString(name)
	fn := C.albind(cname)
	C.free(unsafe.Pointer(cname))
	fns[name] = fn
	bound[name] = fn != nil
	return fn
}

// BindingReport lists which entry points resolved to a real symbol.
// Bound functions are indicated with [+] and unbound with [-].
func BindingReport() (report []string) {
	for _, name := range entryPoints {
		inc := "-"
		if bound[name] {
			inc = "+"
		}
		report = append(report, fmt.Sprintf("   [%s] %s", inc, name))
	}
	return report
}

// Dump prints which OpenAL functions have been bound to an underlying
// implementation. This is not a guarantee that the bound functionality
// will work, but is an indication of what is supported.
func Dump() {
	Init()
	for _, line := range BindingReport() {
		fmt.Println(line)
	}
}

// GetError returns the next pending AL error, or NO_ERROR.
func GetError() int32 {
	if fn := resolve("alGetError"); fn != nil {
		return int32(C.al_ret_e(fn))
	}
	return NO_ERROR
}

// Buffer and source name management.
func GenBuffers(n int32, buffers *uint32) { alNames("alGenBuffers", n, buffers) }
func DeleteBuffers(n int32, buffers *uint32) {
	alNames("alDeleteBuffers", n, buffers)
}
func GenSources(n int32, sources *uint32) { alNames("alGenSources", n, sources) }
func DeleteSources(n int32, sources *uint32) {
	alNames("alDeleteSources", n, sources)
}

func alNames(name string, n int32, names *uint32) {
	if fn := resolve(name); fn != nil {
		C.al_names(fn, C.ALsizei(n), (*C.ALuint)(names))
	}
}

// BufferData copies sample bytes into an AL buffer.
func BufferData(buffer uint32, format int32, data Pointer, size, freq int32) {
	if fn := resolve("alBufferData"); fn != nil {
		C.al_bufferData(fn, C.ALuint(buffer), C.ALenum(format), unsafe.Pointer(data),
			C.ALsizei(size), C.ALsizei(freq))
	}
}

// Streaming source control.
func SourcePlay(source uint32) { alSource("alSourcePlay", source) }
func SourceStop(source uint32) { alSource("alSourceStop", source) }

func alSource(name string, source uint32) {
	if fn := resolve(name); fn != nil {
		C.al_u(fn, C.ALuint(source))
	}
}

func SourceQueueBuffers(source uint32, n int32, buffers *uint32) {
	if fn := resolve("alSourceQueueBuffers"); fn != nil {
		C.al_queue(fn, C.ALuint(source), C.ALsizei(n), (*C.ALuint)(buffers))
	}
}

func SourceUnqueueBuffers(source uint32, n int32, buffers *uint32) {
	if fn := resolve("alSourceUnqueueBuffers"); fn != nil {
		C.al_queue(fn, C.ALuint(source), C.ALsizei(n), (*C.ALuint)(buffers))
	}
}

func GetSourcei(source uint32, param int32, value *int32) {
	if fn := resolve("alGetSourcei"); fn != nil {
		C.al_uep(fn, C.ALuint(source), C.ALenum(param), (*C.ALint)(value))
	}
}

// Listenerf sets a listener parameter, the gain in this kiosk's case.
func Listenerf(param int32, value float32) {
	if fn := resolve("alListenerf"); fn != nil {
		C.al_ef(fn, C.ALenum(param), C.ALfloat(value))
	}
}

// Device and context lifecycle.
func OpenDevice(name string) Device {
	fn := resolve("alcOpenDevice")
	if fn == nil {
		return 0
	}
	var cname *C.char
	if name != "" {
		cname = C.CString(name)
		defer C.free(unsafe.Pointer(cname))
	}
	return Device(uintptr(C.alc_open(fn, cname)))
}

func CloseDevice(dev Device) {
	if fn := resolve("alcCloseDevice"); fn != nil {
		C.alc_vp(fn, unsafe.Pointer(uintptr(dev)))
	}
}

func CreateContext(dev Device, attrs *int32) Context {
	fn := resolve("alcCreateContext")
	if fn == nil {
		return 0
	}
	return Context(uintptr(C.alc_create(fn, unsafe.Pointer(uintptr(dev)), (*C.ALint)(attrs))))
}

func MakeContextCurrent(ctx Context) bool {
	fn := resolve("alcMakeContextCurrent")
	if fn == nil {
		return false
	}
	return C.alc_make(fn, unsafe.Pointer(uintptr(ctx))) != 0
}

func DestroyContext(ctx Context) {
	if fn := resolve("alcDestroyContext"); fn != nil {
		C.alc_vp(fn, unsafe.Pointer(uintptr(ctx)))
	}
}

// DeviceNames enumerates the playback devices the host exposes. The ALC
// specifier string packs names null-separated with a double null at the
// end.
func DeviceNames() (names []string) {
	fn := resolve("alcGetString")
	if fn == nil {
		return nil
	}
	cstr := C.alc_getString(fn, nil, ALC_ALL_DEVICES_SPECIFIER)
	if cstr == nil {
		cstr = C.alc_getString(fn, nil, ALC_DEVICE_SPECIFIER)
	}
	if cstr == nil {
		return nil
	}
	for {
		s := C.GoString(cstr)
		if s == "" {
			return names
		}
		names = append(names, s)
		cstr = (*C.char)(unsafe.Pointer(uintptr(unsafe.Pointer(cstr)) + uintptr(len(s)) + 1))
	}
}
