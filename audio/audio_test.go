// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package audio

import (
	"testing"
)

// test that chunk layouts map to the expected AL formats and that
// unsupported layouts are refused.
func TestChunkFormat(t *testing.T) {
	d := &Data{Channels: 2, Frequency: 44100}
	if f, err := d.format(); err != nil || f != 0x1103 {
		t.Errorf("stereo S16 format %x : %s", f, err)
	}
	d.Channels = 1
	if f, err := d.format(); err != nil || f != 0x1101 {
		t.Errorf("mono S16 format %x : %s", f, err)
	}
	d.Channels = 6
	if _, err := d.format(); err == nil {
		t.Errorf("expected 6 channel chunks to be refused")
	}
}

// the mock sink stands in when audio hardware is unavailable; it must
// absorb the full Sink surface without side effects.
func TestNoAudio(t *testing.T) {
	var s Sink = &NoAudio{}
	if err := s.Init(); err != nil {
		t.Fatalf("NoAudio init %s", err)
	}
	s.Queue(make([]byte, 4096), 44100, 2)
	s.SetGain(0.75)
	s.Flush()
	if got := s.(*NoAudio).Gain; got != 0.75 {
		t.Errorf("gain not recorded, got %f", got)
	}
	s.Dispose()
}
