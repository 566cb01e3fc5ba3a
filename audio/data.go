// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package audio

import (
	"fmt"

	"github.com/fadeframe/kiosk/audio/al"
)

// Data describes one chunk of interleaved S16 PCM queued to the sink.
type Data struct {
	Samples   []byte // Raw interleaved S16 little-endian samples.
	Channels  int    // 1 or 2.
	Frequency int    // Samples per second, e.g. 44100, 48000.
}

// format maps the chunk layout to the matching AL buffer format. Sample
// width is fixed at 16 bits: the pipeline's resampler always emits S16.
func (d *Data) format() (format int32, err error) {
	switch d.Channels {
	case 1:
		return al.FORMAT_MONO16, nil
	case 2:
		return al.FORMAT_STEREO16, nil
	}
	return -1, fmt.Errorf("audio:format cannot recognize %d channel audio", d.Channels)
}
