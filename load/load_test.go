// Copyright © 2024 Galvanized Logic Inc.

package load

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// go test -run Png
func TestPng(t *testing.T) {
	// round-trip a generated image through the decoder.
	src := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for i := range src.Pix {
		src.Pix[i] = byte(i * 7)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encode: %s", err)
	}
	img, err := Png(&buf)
	if err != nil {
		t.Fatalf("png decode failed %s", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Errorf("invalid image bounds: %v", b)
	}
}

// go test -run Ttf
func TestTtfRejectsGarbage(t *testing.T) {
	if _, err := Ttf(bytes.NewReader([]byte("not a font"))); err == nil {
		t.Errorf("expected parse failure for non-font bytes")
	}
}

// go test -run Locator
func TestLocator(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "bezels"), 0o755); err != nil {
		t.Fatalf("mkdir: %s", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bezels", "crt.png"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %s", err)
	}
	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	os.Chdir(dir)

	l := NewLocator()
	defer l.Dispose()
	file, err := l.GetResource("crt.png")
	if err != nil {
		t.Fatalf("extension convention did not find bezels/crt.png: %s", err)
	}
	file.Close()

	// unmapped extensions resolve relative to the working directory.
	if _, err := l.GetResource("missing.mp4"); err == nil {
		t.Errorf("expected missing media file to error")
	}

	// Dir overrides the convention.
	l.Dir("PNG", ".")
	if _, err := l.GetResource("crt.png"); err == nil {
		t.Errorf("expected override to change the search directory")
	}
}
