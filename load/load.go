// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package load fetches disk based assets used by the kiosk UI. Data is
// loaded directly from disk for development builds and from a zip file
// attached to the binary for production builds.
//
// Data is returned in an intermediate format close to how it was stored
// on disk and is expected to populate render based assets:
//      Data                      File            Likely Used For
//     ------                    ------          ------------------
//    truetype font bytes      : binfile.ttf --> lazily rasterized glyphs
//    images                   : binfile.png --> bezel/logo textures
//
// Media files themselves are not loaded here: the video pipeline hands
// their paths straight to the demuxer.
//
// Package load is provided as part of the fadeframe kiosk engine.
package load

import (
	"fmt"
	"image"
	"io"

	"golang.org/x/image/font/opentype"
)

// Ttf reads and validates truetype font bytes. The parse result is
// discarded: callers keep the raw bytes so the font survives GL resets
// and rasterize on demand.
func Ttf(r io.Reader) (ttfBytes []byte, err error) {
	ttfBytes, err = io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ttf read: %w", err)
	}
	if _, err = opentype.Parse(ttfBytes); err != nil {
		return nil, fmt.Errorf("ttf parse: %w", err)
	}
	return ttfBytes, nil
}

// LoadTtf locates and reads a font by name using the given locator.
func LoadTtf(l Locator, name string) ([]byte, error) {
	file, err := l.GetResource(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Ttf(file)
}

// LoadPng locates and decodes an image by name using the given locator.
func LoadPng(l Locator, name string) (image.Image, error) {
	file, err := l.GetResource(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Png(file)
}
