// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package render

import (
	"image"
)

// Texture deals with 2D pictures that are mapped onto quads: glyph atlases,
// CRT bezel art, and decoded video frames. Texture data is copied to the
// graphics card and consumed by a Shader.
type Texture interface {
	Name() string        // Unique identifier set on creation.
	Img() image.Image    // Texture image.
	Set(img image.Image) // Set the loaded or generated texture data.
	Bound() bool         // True if the texture has a GPU reference.
	FreeImg()            // Used to release the image data after binding.

	// SetRaw sets unstructured pixel data: one decoded video plane with a
	// decoder supplied row stride. Channels is 1 (Y, U, or V plane),
	// 2 (interleaved UV), or 4 (packed RGBA). Raw textures are uploaded
	// without mipmaps and with linear filtering.
	SetRaw(pix []byte, w, h, stride, channels int)
}

// ============================================================================

// texture is the default implementation of Texture.
type texture struct {
	name   string      // Unique name of the texture.
	img    image.Image // Texture data. Released (set to nil) after GPU binding.
	tid    uint32      // Graphics card texture identifier.
	refs   uint32      // Number of Model references.
	repeat bool        // Repeat the texture when UV is greater than 1.

	// Raw pixel data for decoded video planes. When pix is non-nil the
	// texture is uploaded stride-aware without mipmaps.
	pix      []byte // Plane bytes, stride*h long. Not released after upload.
	w, h     int    // Plane dimensions in pixels.
	stride   int    // Bytes per row as supplied by the decoder.
	channels int    // 1, 2, or 4 bytes per pixel.

	// Only set when a single texture atlas covers multiple mesh faces,
	// as with the CRT bezel overlay mesh.
	f0, fn int32
}

// newTexture allocates space for a texture object.
func newTexture(name string) *texture { return &texture{name: name} }

// Implement Texture.
func (t *texture) Name() string        { return t.name }
func (t *texture) Img() image.Image    { return t.img }
func (t *texture) Set(img image.Image) { t.img = img; t.pix = nil }
func (t *texture) Bound() bool         { return t.tid != 0 }
func (t *texture) FreeImg()            { t.img = nil }
func (t *texture) SetRepeat(on bool)   { t.repeat = on }
func (t *texture) SetRaw(pix []byte, w, h, stride, channels int) {
	t.img = nil
	t.pix, t.w, t.h = pix, w, h
	t.stride, t.channels = stride, channels
}
func (t *texture) raw() bool { return t.pix != nil }
