// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package audio

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/fadeframe/kiosk/audio/al"
)

// openal provides sound support for the engine. It exposes the useful
// parts of the underlying OpenAL audio library: one streaming source fed
// by a rotating queue of sample buffers.
type openal struct {
	mu  sync.Mutex // Queue runs on the decode worker, the rest on main.
	dev al.Device  // created on initialization.
	ctx al.Context // created on initialization.
	src uint32     // the single streaming source.
}

// newSink gets a reference to the underlying audio wrapper.
func newSink() Sink { return &openal{} }

// Init runs the one time openal library initialization. It is expected to
// be called once by the engine on startup.
func (a *openal) Init() (err error) {
	al.Init()
	if err = a.validate(); err != nil {
		return
	}
	return a.open("")
}

// open creates a context on the named device, empty name meaning the
// system default.
func (a *openal) open(device string) error {
	if a.dev = al.OpenDevice(device); a.dev != 0 {
		if a.ctx = al.CreateContext(a.dev, nil); a.ctx != 0 {
			al.MakeContextCurrent(a.ctx)
			al.GenSources(1, &a.src)
			return nil // success
		}
	}
	return fmt.Errorf("openal audio init failed on %q", device)
}

// validate that OpenAL is available.
func (a *openal) validate() error {
	if report := al.BindingReport(); len(report) > 0 {
		for _, line := range report {
			if strings.Contains(line, "[-]") {
				return fmt.Errorf("OpenAL uninitialized")
			}
		}
	} else {
		return fmt.Errorf("OpenAL unavailable")
	}
	return nil
}

// Dispose closes down the openal library. This is expected
// to be called once by the engine when it is shutting down.
func (a *openal) Dispose() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.close()
}

// close releases the source, context, and device. Callers hold the lock.
func (a *openal) close() {
	if a.src != 0 {
		al.SourceStop(a.src)
		a.reclaim()
		al.DeleteSources(1, &a.src)
		a.src = 0
	}
	al.MakeContextCurrent(0)
	if a.ctx != 0 {
		al.DestroyContext(a.ctx)
		a.ctx = 0
	}
	if a.dev != 0 {
		al.CloseDevice(a.dev)
		a.dev = 0
	}
}

// SetGain sets the listener gain to a value between 0 and 1.
// Values outside the 0 to 1 range are ignored.
func (a *openal) SetGain(zeroToOne float64) {
	if zeroToOne >= 0 && zeroToOne <= 1 {
		al.Listenerf(al.GAIN, float32(zeroToOne))
	}
}

// Outputs lists the playback device names the host exposes.
func (a *openal) Outputs() []string {
	return al.DeviceNames()
}

// SetOutput reopens the context on the named device. Expected to be
// called with playback stopped; queued samples are discarded.
func (a *openal) SetOutput(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.close()
	return a.open(name)
}

// Queue appends one decoded sample chunk to the streaming source,
// recycling buffers the source has finished playing. If the source ran
// dry since the last chunk it is restarted.
func (a *openal) Queue(samples []byte, sampleRate, channels int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.src == 0 || len(samples) == 0 {
		return
	}
	if alerr := al.GetError(); alerr != al.NO_ERROR {
		log.Printf("audio.Queue need to find and fix prior error %X", alerr)
	}
	a.reclaim()

	d := &Data{Samples: samples, Channels: channels, Frequency: sampleRate}
	format, err := d.format()
	if err != nil {
		log.Printf("audio.Queue: %s", err)
		return
	}
	var buff uint32
	al.GenBuffers(1, &buff)
	al.BufferData(buff, format, al.Pointer(&samples[0]), int32(len(samples)), int32(sampleRate))
	al.SourceQueueBuffers(a.src, 1, &buff)
	if alerr := al.GetError(); alerr != al.NO_ERROR {
		log.Printf("audio.Queue failed binding chunk %X", alerr)
		return
	}

	var state int32
	al.GetSourcei(a.src, al.SOURCE_STATE, &state)
	if state != al.PLAYING {
		al.SourcePlay(a.src)
	}
}

// Flush drops queued but unplayed samples, leaving the source ready for
// the next stream.
func (a *openal) Flush() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.src == 0 {
		return
	}
	al.SourceStop(a.src)
	a.reclaim()
}

// reclaim deletes buffers the source has finished with. Callers hold the
// lock.
func (a *openal) reclaim() {
	var processed int32
	al.GetSourcei(a.src, al.BUFFERS_PROCESSED, &processed)
	for ; processed > 0; processed-- {
		var buff uint32
		al.SourceUnqueueBuffers(a.src, 1, &buff)
		al.DeleteBuffers(1, &buff)
	}
}
