// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package device

// The Linux native layer claims the display through kernel mode setting.
// Startup follows the canonical DRM/GBM/EGL bring-up:
//     drmModeGetResources -> first connected connector -> preferred mode
//     -> encoder's CRTC -> gbm_surface -> eglCreateContext (GLES3)
// Each frame ends with eglSwapBuffers followed by a page flip of the new
// front buffer onto the CRTC; the flip event is waited on, which paces the
// caller to vertical sync.

// #cgo linux pkg-config: libdrm gbm egl
// #cgo linux LDFLAGS: -ldrm -lgbm -lEGL
//
// #include <errno.h>
// #include <fcntl.h>
// #include <poll.h>
// #include <stdio.h>
// #include <stdlib.h>
// #include <string.h>
// #include <unistd.h>
// #include <xf86drm.h>
// #include <xf86drmMode.h>
// #include <gbm.h>
// #include <EGL/egl.h>
//
// // kms bundles every native display resource. It is shared with Go as an
// // opaque handle.
// typedef struct {
//     int               fd;         // DRM device file descriptor.
//     uint32_t          conn_id;    // Connected connector.
//     uint32_t          crtc_id;    // CRTC driving the connector.
//     drmModeModeInfo   mode;       // Chosen (preferred) mode.
//     drmModeCrtc      *saved;      // CRTC state to restore on exit.
//     int               modeset;    // True once the first SetCrtc happened.
//     int               alive;      // Cleared on unrecoverable display loss.
//
//     struct gbm_device  *gbm;
//     struct gbm_surface *surface;
//
//     EGLDisplay egl_display;
//     EGLConfig  egl_config;
//     EGLContext egl_context;
//     EGLSurface egl_surface;
//
//     struct gbm_bo *bo;     // Current front buffer.
//     uint32_t       fb;     // Framebuffer id for bo.
// } kms;
//
// static const char *drm_card = "/dev/dri/card0";
//
// // kms_open opens the DRM device and picks connector, mode, and CRTC.
// // Returns NULL when no connector is connected or resources are missing.
// static kms* kms_open(void) {
//     kms *k = (kms*)calloc(1, sizeof(kms));
//     k->fd = open(drm_card, O_RDWR | O_CLOEXEC);
//     if (k->fd < 0) {
//         free(k);
//         return NULL;
//     }
//     drmModeRes *res = drmModeGetResources(k->fd);
//     if (res == NULL) {
//         close(k->fd);
//         free(k);
//         return NULL;
//     }
//     drmModeConnector *conn = NULL;
//     int i;
//     for (i = 0; i < res->count_connectors; i++) {
//         conn = drmModeGetConnector(k->fd, res->connectors[i]);
//         if (conn && conn->connection == DRM_MODE_CONNECTED && conn->count_modes > 0) {
//             break;
//         }
//         if (conn) {
//             drmModeFreeConnector(conn);
//             conn = NULL;
//         }
//     }
//     if (conn == NULL) {
//         drmModeFreeResources(res);
//         close(k->fd);
//         free(k);
//         return NULL; // DISPLAY_UNAVAILABLE: nothing connected.
//     }
//     k->conn_id = conn->connector_id;
//
//     // the preferred mode, falling back to the first listed.
//     k->mode = conn->modes[0];
//     for (i = 0; i < conn->count_modes; i++) {
//         if (conn->modes[i].type & DRM_MODE_TYPE_PREFERRED) {
//             k->mode = conn->modes[i];
//             break;
//         }
//     }
//
//     // CRTC from the current encoder, else the first one.
//     drmModeEncoder *enc = NULL;
//     if (conn->encoder_id) {
//         enc = drmModeGetEncoder(k->fd, conn->encoder_id);
//     }
//     if (enc && enc->crtc_id) {
//         k->crtc_id = enc->crtc_id;
//     } else if (res->count_crtcs > 0) {
//         k->crtc_id = res->crtcs[0];
//     }
//     if (enc) {
//         drmModeFreeEncoder(enc);
//     }
//     drmModeFreeConnector(conn);
//     drmModeFreeResources(res);
//     if (k->crtc_id == 0) {
//         close(k->fd);
//         free(k);
//         return NULL;
//     }
//     k->saved = drmModeGetCrtc(k->fd, k->crtc_id);
//     k->alive = 1;
//     return k;
// }
//
// // kms_surface creates the GBM scanout surface at the mode resolution.
// static int kms_surface(kms *k) {
//     k->gbm = gbm_create_device(k->fd);
//     if (k->gbm == NULL) {
//         return 0;
//     }
//     k->surface = gbm_surface_create(k->gbm, k->mode.hdisplay, k->mode.vdisplay,
//         GBM_FORMAT_XRGB8888, GBM_BO_USE_SCANOUT | GBM_BO_USE_RENDERING);
//     return k->surface != NULL;
// }
//
// // kms_context creates a double buffered GLES3 context on the GBM surface
// // and makes it current.
// static int kms_context(kms *k) {
//     k->egl_display = eglGetDisplay((EGLNativeDisplayType)k->gbm);
//     if (k->egl_display == EGL_NO_DISPLAY) {
//         return 0;
//     }
//     if (!eglInitialize(k->egl_display, NULL, NULL)) {
//         return 0;
//     }
//     if (!eglBindAPI(EGL_OPENGL_ES_API)) {
//         return 0;
//     }
//     static const EGLint cfg_attrs[] = {
//         EGL_SURFACE_TYPE,    EGL_WINDOW_BIT,
//         EGL_RED_SIZE,        8,
//         EGL_GREEN_SIZE,      8,
//         EGL_BLUE_SIZE,       8,
//         EGL_ALPHA_SIZE,      0,
//         EGL_RENDERABLE_TYPE, EGL_OPENGL_ES3_BIT,
//         EGL_NONE
//     };
//     EGLint count = 0;
//     if (!eglChooseConfig(k->egl_display, cfg_attrs, &k->egl_config, 1, &count) || count < 1) {
//         return 0;
//     }
//     static const EGLint ctx_attrs[] = {
//         EGL_CONTEXT_CLIENT_VERSION, 3,
//         EGL_NONE
//     };
//     k->egl_context = eglCreateContext(k->egl_display, k->egl_config, EGL_NO_CONTEXT, ctx_attrs);
//     if (k->egl_context == EGL_NO_CONTEXT) {
//         return 0;
//     }
//     k->egl_surface = eglCreateWindowSurface(k->egl_display, k->egl_config,
//         (EGLNativeWindowType)k->surface, NULL);
//     if (k->egl_surface == EGL_NO_SURFACE) {
//         return 0;
//     }
//     if (!eglMakeCurrent(k->egl_display, k->egl_surface, k->egl_surface, k->egl_context)) {
//         return 0;
//     }
//     eglSwapInterval(k->egl_display, 1);
//     return 1;
// }
//
// static void flip_handler(int fd, unsigned int frame, unsigned int sec,
//                          unsigned int usec, void *data) {
//     *(int*)data = 0;
// }
//
// // kms_swap presents the back buffer: swap EGL buffers, wrap the new front
// // buffer object in a DRM framebuffer, then mode-set (first frame) or page
// // flip (every other frame), waiting for the flip to complete.
// static int kms_swap(kms *k) {
//     if (!k->alive) {
//         return 0;
//     }
//     eglSwapBuffers(k->egl_display, k->egl_surface);
//     struct gbm_bo *bo = gbm_surface_lock_front_buffer(k->surface);
//     if (bo == NULL) {
//         return 0;
//     }
//     uint32_t fb = 0;
//     uint32_t handle = gbm_bo_get_handle(bo).u32;
//     uint32_t stride = gbm_bo_get_stride(bo);
//     if (drmModeAddFB(k->fd, k->mode.hdisplay, k->mode.vdisplay, 24, 32,
//                      stride, handle, &fb) != 0) {
//         gbm_surface_release_buffer(k->surface, bo);
//         return 0;
//     }
//     if (!k->modeset) {
//         if (drmModeSetCrtc(k->fd, k->crtc_id, fb, 0, 0, &k->conn_id, 1, &k->mode) != 0) {
//             drmModeRmFB(k->fd, fb);
//             gbm_surface_release_buffer(k->surface, bo);
//             return 0; // MODE_SET_FAILED.
//         }
//         k->modeset = 1;
//     } else {
//         int waiting = 1;
//         if (drmModePageFlip(k->fd, k->crtc_id, fb, DRM_MODE_PAGE_FLIP_EVENT, &waiting) != 0) {
//             drmModeRmFB(k->fd, fb);
//             gbm_surface_release_buffer(k->surface, bo);
//             return 0;
//         }
//         drmEventContext ev;
//         memset(&ev, 0, sizeof(ev));
//         ev.version = 2;
//         ev.page_flip_handler = flip_handler;
//         while (waiting) {
//             struct pollfd pfd = { .fd = k->fd, .events = POLLIN };
//             if (poll(&pfd, 1, 1000) <= 0) {
//                 break; // don't wedge the loop on a missed event.
//             }
//             drmHandleEvent(k->fd, &ev);
//         }
//     }
//
//     // the previous front buffer is free once the flip completed.
//     if (k->bo != NULL) {
//         drmModeRmFB(k->fd, k->fb);
//         gbm_surface_release_buffer(k->surface, k->bo);
//     }
//     k->bo = bo;
//     k->fb = fb;
//     return 1;
// }
//
// static int kms_drop_master(kms *k)  { return drmDropMaster(k->fd); }
// static int kms_set_master(kms *k)   { return drmSetMaster(k->fd); }
//
// // kms_restore_mode re-applies the chosen mode after a foreign process
// // may have changed it. Valid only while holding master with a current
// // front buffer.
// static int kms_restore_mode(kms *k) {
//     if (k->fb == 0) {
//         k->modeset = 0; // next swap performs the mode set.
//         return 0;
//     }
//     return drmModeSetCrtc(k->fd, k->crtc_id, k->fb, 0, 0, &k->conn_id, 1, &k->mode);
// }
//
// static void kms_mark_dead(kms *k) { k->alive = 0; }
// static int  kms_is_alive(kms *k)  { return k->alive; }
// static int  kms_width(kms *k)     { return k->mode.hdisplay; }
// static int  kms_height(kms *k)    { return k->mode.vdisplay; }
//
// static void kms_dispose(kms *k) {
//     if (k == NULL) {
//         return;
//     }
//     if (k->egl_display != EGL_NO_DISPLAY) {
//         eglMakeCurrent(k->egl_display, EGL_NO_SURFACE, EGL_NO_SURFACE, EGL_NO_CONTEXT);
//         if (k->egl_surface != EGL_NO_SURFACE) {
//             eglDestroySurface(k->egl_display, k->egl_surface);
//         }
//         if (k->egl_context != EGL_NO_CONTEXT) {
//             eglDestroyContext(k->egl_display, k->egl_context);
//         }
//         eglTerminate(k->egl_display);
//     }
//     if (k->bo != NULL) {
//         drmModeRmFB(k->fd, k->fb);
//         gbm_surface_release_buffer(k->surface, k->bo);
//     }
//     if (k->surface != NULL) {
//         gbm_surface_destroy(k->surface);
//     }
//     if (k->gbm != NULL) {
//         gbm_device_destroy(k->gbm);
//     }
//     if (k->saved != NULL) {
//         drmModeSetCrtc(k->fd, k->saved->crtc_id, k->saved->buffer_id,
//                        k->saved->x, k->saved->y, &k->conn_id, 1, &k->saved->mode);
//         drmModeFreeCrtc(k->saved);
//     }
//     if (k->fd >= 0) {
//         close(k->fd);
//     }
//     free(k);
// }
import "C"

import (
	"fmt"
	"log"
	"unsafe"
)

// nativeLayer gets a reference to the Linux native layer.
func nativeLayer() native { return &lin{} }

// lin is the Linux implementation of the native interface.
type lin struct{}

// refs recovers the C kms handle from the opaque display reference.
func (o *lin) refs(r *nrefs) *C.kms { return (*C.kms)(unsafe.Pointer(uintptr(r.display))) }

// display implements native: open the DRM device and claim the display.
func (o *lin) display() int64 {
	k := C.kms_open()
	if k == nil {
		return 0
	}
	return int64(uintptr(unsafe.Pointer(k)))
}

// displayDispose implements native: restore the CRTC and free everything.
func (o *lin) displayDispose(r *nrefs) {
	if r.display != 0 {
		C.kms_dispose(o.refs(r))
		r.display, r.shell, r.context = 0, 0, 0
	}
}

// shell implements native: GBM scanout surface at the mode resolution.
func (o *lin) shell(r *nrefs) int64 {
	if r.display == 0 || C.kms_surface(o.refs(r)) == 0 {
		return 0
	}
	return r.display // surface lives inside the kms handle.
}

// shellAlive implements native.
func (o *lin) shellAlive(r *nrefs) bool {
	return r.display != 0 && C.kms_is_alive(o.refs(r)) != 0
}

// size implements native.
func (o *lin) size(r *nrefs) (x, y, w, h int) {
	if r.display == 0 {
		return 0, 0, 0, 0
	}
	k := o.refs(r)
	return 0, 0, int(C.kms_width(k)), int(C.kms_height(k))
}

// context implements native: GLES3 EGL context, made current.
func (o *lin) context(r *nrefs) int64 {
	if r.shell == 0 || C.kms_context(o.refs(r)) == 0 {
		return 0
	}
	return r.display
}

// swapBuffers implements native: swap and page-flip, waiting for vsync.
func (o *lin) swapBuffers(r *nrefs) {
	if r.context == 0 {
		return
	}
	if C.kms_swap(o.refs(r)) == 0 {
		log.Printf("kiosk/device: buffer swap failed, display lost")
		C.kms_mark_dead(o.refs(r))
	}
}

// dropMaster implements native.
func (o *lin) dropMaster(r *nrefs) error {
	if r.display == 0 {
		return fmt.Errorf("no display")
	}
	if rc := C.kms_drop_master(o.refs(r)); rc != 0 {
		return fmt.Errorf("drop drm master: %d", int(rc))
	}
	return nil
}

// reclaimMaster implements native: take master back and re-apply the mode.
func (o *lin) reclaimMaster(r *nrefs) error {
	if r.display == 0 {
		return fmt.Errorf("no display")
	}
	k := o.refs(r)
	if rc := C.kms_set_master(k); rc != 0 {
		return fmt.Errorf("set drm master: %d", int(rc))
	}
	if rc := C.kms_restore_mode(k); rc != 0 {
		return fmt.Errorf("restore mode: %d", int(rc))
	}
	return nil
}
