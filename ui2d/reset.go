// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package ui2d

import "github.com/fadeframe/kiosk/render"

// ResetGL forgets every GPU-side resource this context owns: the shared
// quad/line models, cached image textures, and all glyph textures. Parsed
// font data and image pixels held by callers are untouched, so everything
// re-creates lazily on the next draw. Called after display handoff, when
// handles created before the foreign process ran must not be used again.
// The stale GL names are deliberately not deleted: the foreign process may
// have recycled them, making a delete as wrong as a use.
func (d *Draw) ResetGL() {
	d.quad = nil
	d.line = nil
	d.white = nil
	d.images = map[string]render.Texture{}
	for _, f := range d.fonts {
		f.reset()
	}
}
