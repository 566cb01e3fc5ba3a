// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package audio provides access to the host sound hardware. The kiosk
// plays exactly one stream: the decoded audio of the current media item,
// delivered as interleaved S16 sample chunks from the video pipeline's
// decode worker. The package wraps device selection (HDMI, headphone
// jack, or automatic), a streaming buffer queue, and gain control.
//
// Package audio is provided as part of the fadeframe kiosk engine.
package audio

// Sink interacts with the underlying audio layer which in turn interfaces
// to the sound drivers and hardware. A Sink must be initialized once
// before samples can be queued.
type Sink interface {
	Init() error          // Get the audio layer up and running.
	Dispose()             // Closes and cleans up the audio layer.
	SetGain(gain float64) // Volume control: valid values are 0->1.

	// Outputs lists the playback device names the host exposes, used to
	// resolve the HDMI/headphone/auto output setting.
	Outputs() []string

	// SetOutput closes the current device and reopens the named one.
	// Only valid while no stream is playing: callers stop playback and
	// reload the current item around an output change.
	SetOutput(name string) error

	// Queue appends interleaved S16 samples to the playback stream,
	// starting playback if the stream was drained. Called from the
	// decode worker; must not block for the duration of the samples.
	Queue(samples []byte, sampleRate, channels int)

	// Flush drops any queued but unplayed samples. Used on stop/seek.
	Flush()
}

// Audio
// ===========================================================================
// Provide native implementation.

// New provides a default audio sink implementation.
func New() Sink { return newSink() }

// ===========================================================================
// Provide mock implementation.

// NoAudio can be used to mock out audio when audio initialization fails.
type NoAudio struct {
	Gain float64 // Last gain set, readable by tests.
}

func (na *NoAudio) Init() error                                   { return nil }
func (na *NoAudio) Dispose()                                      {}
func (na *NoAudio) SetGain(gain float64)                          { na.Gain = gain }
func (na *NoAudio) Outputs() []string                             { return nil }
func (na *NoAudio) SetOutput(name string) error                   { return nil }
func (na *NoAudio) Queue(samples []byte, sampleRate, channels int) {}
func (na *NoAudio) Flush()                                        {}
