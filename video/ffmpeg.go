// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package video

// ffmpeg.go is the streaming-media Pipeline implementation. FFmpeg demuxes
// and decodes; decoders are chosen by promoting known hardware decoder
// names for the stream's codec before the software fallback. Decoded YUV
// planes are handed to the main thread as-is (the shaders do the colour
// conversion); anything else is converted to packed RGBA with swscale.
// Audio is decoded and resampled to interleaved S16 for the host sink.

// #cgo pkg-config: libavformat libavcodec libavutil libswscale libswresample
//
// #include <stdlib.h>
// #include <string.h>
// #include <libavformat/avformat.h>
// #include <libavcodec/avcodec.h>
// #include <libavutil/imgutils.h>
// #include <libavutil/opt.h>
// #include <libswscale/swscale.h>
// #include <libswresample/swresample.h>
//
// typedef struct {
//     AVFormatContext *fmt;
//     AVCodecContext  *vctx;
//     AVCodecContext  *actx;
//     struct SwsContext *sws;     // Only when converting to RGBA.
//     SwrContext      *swr;       // Audio resampler to interleaved S16.
//     AVFrame         *frame;     // Decoded video frame.
//     AVFrame         *rgba;      // RGBA conversion destination.
//     AVFrame         *aframe;    // Decoded audio frame.
//     AVPacket        *pkt;
//     uint8_t         *rgbabuf;
//     uint8_t         *audiobuf;  // Converted S16 samples.
//     int              audiolen;  // Bytes valid in audiobuf.
//     int              vstream;
//     int              astream;
//     int              out_fmt;   // 0 rgba, 1 yuv420, 2 nv12.
//     double           vpts;      // Seconds, current video frame.
//     int              arate;     // Audio sample rate out.
//     int              achans;    // Audio channels out (2).
// } kdec;
//
// // pick_decoder promotes hardware decoder names for the stream codec,
// // opening each candidate to prove it actually initializes before
// // settling on it. Returns an opened context or NULL.
// static AVCodecContext* pick_decoder(AVStream *st) {
//     const char *names[8];
//     int n = 0;
//     switch (st->codecpar->codec_id) {
//     case AV_CODEC_ID_HEVC:
//         names[n++] = "hevc_rkmpp";
//         names[n++] = "hevc_v4l2m2m";
//         names[n++] = "hevc_vaapi";
//         names[n++] = "hevc";
//         break;
//     case AV_CODEC_ID_H264:
//         names[n++] = "h264_rkmpp";
//         names[n++] = "h264_v4l2m2m";
//         names[n++] = "h264_vaapi";
//         names[n++] = "h264";
//         break;
//     case AV_CODEC_ID_VP9:
//         names[n++] = "vp9_v4l2m2m";
//         names[n++] = "vp9";
//         break;
//     case AV_CODEC_ID_VP8:
//         names[n++] = "vp8_v4l2m2m";
//         names[n++] = "vp8";
//         break;
//     case AV_CODEC_ID_MPEG2VIDEO:
//         names[n++] = "mpeg2_v4l2m2m";
//         names[n++] = "mpeg2video";
//         break;
//     default:
//         break;
//     }
//     int i;
//     for (i = 0; i < n; i++) {
//         const AVCodec *c = avcodec_find_decoder_by_name(names[i]);
//         if (c == NULL || c->id != st->codecpar->codec_id) {
//             continue;
//         }
//         AVCodecContext *ctx = avcodec_alloc_context3(c);
//         if (ctx == NULL) {
//             continue;
//         }
//         avcodec_parameters_to_context(ctx, st->codecpar);
//         ctx->thread_type = FF_THREAD_FRAME;
//         ctx->thread_count = 0;
//         if (avcodec_open2(ctx, c, NULL) == 0) {
//             return ctx;
//         }
//         avcodec_free_context(&ctx);
//     }
//     const AVCodec *c = avcodec_find_decoder(st->codecpar->codec_id);
//     if (c == NULL) {
//         return NULL;
//     }
//     AVCodecContext *ctx = avcodec_alloc_context3(c);
//     if (ctx == NULL) {
//         return NULL;
//     }
//     avcodec_parameters_to_context(ctx, st->codecpar);
//     ctx->thread_type = FF_THREAD_FRAME;
//     ctx->thread_count = 0;
//     if (avcodec_open2(ctx, c, NULL) != 0) {
//         avcodec_free_context(&ctx);
//         return NULL;
//     }
//     return ctx;
// }
//
// // kdec_open opens the container and both decoders. Error codes:
// // -1 open failed (missing file/unreachable url), -2 no stream info,
// // -3 no usable video decoder.
// static int kdec_open(const char *uri, kdec **out) {
//     av_log_set_level(AV_LOG_ERROR);
//     kdec *d = (kdec*)calloc(1, sizeof(kdec));
//     d->vstream = -1;
//     d->astream = -1;
//     if (avformat_open_input(&d->fmt, uri, NULL, NULL) != 0) {
//         free(d);
//         return -1;
//     }
//     if (avformat_find_stream_info(d->fmt, NULL) < 0) {
//         avformat_close_input(&d->fmt);
//         free(d);
//         return -2;
//     }
//     unsigned int i;
//     for (i = 0; i < d->fmt->nb_streams; i++) {
//         enum AVMediaType t = d->fmt->streams[i]->codecpar->codec_type;
//         if (t == AVMEDIA_TYPE_VIDEO && d->vstream < 0) {
//             d->vstream = (int)i;
//         } else if (t == AVMEDIA_TYPE_AUDIO && d->astream < 0) {
//             d->astream = (int)i;
//         }
//     }
//     if (d->vstream < 0) {
//         avformat_close_input(&d->fmt);
//         free(d);
//         return -3;
//     }
//     d->vctx = pick_decoder(d->fmt->streams[d->vstream]);
//     if (d->vctx == NULL) {
//         avformat_close_input(&d->fmt);
//         free(d);
//         return -3;
//     }
//     if (d->astream >= 0) {
//         const AVCodec *ac = avcodec_find_decoder(d->fmt->streams[d->astream]->codecpar->codec_id);
//         if (ac != NULL) {
//             d->actx = avcodec_alloc_context3(ac);
//             avcodec_parameters_to_context(d->actx, d->fmt->streams[d->astream]->codecpar);
//             if (avcodec_open2(d->actx, ac, NULL) != 0) {
//                 avcodec_free_context(&d->actx);
//                 d->actx = NULL;
//             }
//         }
//         if (d->actx != NULL) {
//             d->arate = d->actx->sample_rate;
//             d->achans = 2;
//             AVChannelLayout stereo = AV_CHANNEL_LAYOUT_STEREO;
//             swr_alloc_set_opts2(&d->swr,
//                 &stereo, AV_SAMPLE_FMT_S16, d->arate,
//                 &d->actx->ch_layout, d->actx->sample_fmt, d->actx->sample_rate,
//                 0, NULL);
//             if (d->swr == NULL || swr_init(d->swr) < 0) {
//                 avcodec_free_context(&d->actx);
//                 d->actx = NULL;
//             }
//         }
//     }
//     switch (d->vctx->pix_fmt) {
//     case AV_PIX_FMT_YUV420P:
//     case AV_PIX_FMT_YUVJ420P:
//         d->out_fmt = 1;
//         break;
//     case AV_PIX_FMT_NV12:
//         d->out_fmt = 2;
//         break;
//     default:
//         d->out_fmt = 0; // swscale to RGBA.
//     }
//     d->frame = av_frame_alloc();
//     d->aframe = av_frame_alloc();
//     d->pkt = av_packet_alloc();
//     if (d->out_fmt == 0) {
//         int w = d->vctx->width, h = d->vctx->height;
//         d->rgba = av_frame_alloc();
//         int nbytes = av_image_get_buffer_size(AV_PIX_FMT_RGBA, w, h, 1);
//         d->rgbabuf = (uint8_t*)av_malloc(nbytes);
//         av_image_fill_arrays(d->rgba->data, d->rgba->linesize, d->rgbabuf,
//                              AV_PIX_FMT_RGBA, w, h, 1);
//         d->sws = sws_getContext(w, h, d->vctx->pix_fmt, w, h,
//                                 AV_PIX_FMT_RGBA, SWS_BILINEAR, NULL, NULL, NULL);
//     }
//     d->audiobuf = (uint8_t*)av_malloc(192000 * 4);
//     *out = d;
//     return 0;
// }
//
// static double kdec_duration(kdec *d) {
//     if (d->fmt->duration <= 0) {
//         return 0;
//     }
//     return (double)d->fmt->duration / AV_TIME_BASE;
// }
//
// // kdec_seek snaps to the key frame at or before seconds and flushes.
// static int kdec_seek(kdec *d, double seconds) {
//     int64_t ts = (int64_t)(seconds * AV_TIME_BASE);
//     int rc = av_seek_frame(d->fmt, -1, ts, AVSEEK_FLAG_BACKWARD);
//     if (rc >= 0) {
//         avcodec_flush_buffers(d->vctx);
//         if (d->actx != NULL) {
//             avcodec_flush_buffers(d->actx);
//         }
//     }
//     return rc;
// }
//
// // kdec_next decodes until one frame of either stream is ready.
// // Returns 1 video frame ready, 2 audio samples ready, 0 EOF, <0 error.
// static int kdec_next(kdec *d) {
//     int rc;
//     // a decoder may already have buffered frames to drain.
//     rc = avcodec_receive_frame(d->vctx, d->frame);
//     if (rc == 0) {
//         goto video_ready;
//     }
//     while (av_read_frame(d->fmt, d->pkt) >= 0) {
//         if (d->pkt->stream_index == d->vstream) {
//             rc = avcodec_send_packet(d->vctx, d->pkt);
//             av_packet_unref(d->pkt);
//             if (rc < 0) {
//                 return -1;
//             }
//             rc = avcodec_receive_frame(d->vctx, d->frame);
//             if (rc == 0) {
//                 goto video_ready;
//             }
//             if (rc != AVERROR(EAGAIN)) {
//                 return -1;
//             }
//         } else if (d->actx != NULL && d->pkt->stream_index == d->astream) {
//             rc = avcodec_send_packet(d->actx, d->pkt);
//             av_packet_unref(d->pkt);
//             if (rc < 0) {
//                 continue; // transient audio errors are not fatal.
//             }
//             rc = avcodec_receive_frame(d->actx, d->aframe);
//             if (rc != 0) {
//                 continue;
//             }
//             uint8_t *out[1] = { d->audiobuf };
//             int max = 192000 * 4 / (2 * d->achans);
//             int got = swr_convert(d->swr, out, max,
//                 (const uint8_t**)d->aframe->data, d->aframe->nb_samples);
//             if (got > 0) {
//                 d->audiolen = got * 2 * d->achans;
//                 return 2;
//             }
//         } else {
//             av_packet_unref(d->pkt);
//         }
//     }
//     return 0; // EOF.
//
// video_ready:
//     if (d->frame->pts != AV_NOPTS_VALUE) {
//         AVRational tb = d->fmt->streams[d->vstream]->time_base;
//         d->vpts = (double)d->frame->pts * tb.num / tb.den;
//     }
//     if (d->out_fmt == 0) {
//         sws_scale(d->sws, (const uint8_t* const*)d->frame->data,
//                   d->frame->linesize, 0, d->vctx->height,
//                   d->rgba->data, d->rgba->linesize);
//     }
//     return 1;
// }
//
// static int      kdec_fmt(kdec *d)     { return d->out_fmt; }
// static int      kdec_width(kdec *d)   { return d->vctx->width; }
// static int      kdec_height(kdec *d)  { return d->vctx->height; }
// static double   kdec_pts(kdec *d)     { return d->vpts; }
// static uint8_t* kdec_plane(kdec *d, int i) {
//     if (d->out_fmt == 0) { return d->rgba->data[0]; }
//     return d->frame->data[i];
// }
// static int kdec_stride(kdec *d, int i) {
//     if (d->out_fmt == 0) { return d->rgba->linesize[0]; }
//     return d->frame->linesize[i];
// }
// static uint8_t* kdec_audio(kdec *d)     { return d->audiobuf; }
// static int      kdec_audiolen(kdec *d)  { return d->audiolen; }
// static int      kdec_audiorate(kdec *d) { return d->arate; }
// static int      kdec_audiochans(kdec *d){ return d->achans; }
//
// static void kdec_close(kdec *d) {
//     if (d == NULL) {
//         return;
//     }
//     if (d->sws != NULL)   { sws_freeContext(d->sws); }
//     if (d->swr != NULL)   { swr_free(&d->swr); }
//     if (d->rgbabuf != NULL) { av_free(d->rgbabuf); }
//     if (d->audiobuf != NULL) { av_free(d->audiobuf); }
//     if (d->rgba != NULL)  { av_frame_free(&d->rgba); }
//     if (d->frame != NULL) { av_frame_free(&d->frame); }
//     if (d->aframe != NULL) { av_frame_free(&d->aframe); }
//     if (d->pkt != NULL)   { av_packet_free(&d->pkt); }
//     if (d->vctx != NULL)  { avcodec_free_context(&d->vctx); }
//     if (d->actx != NULL)  { avcodec_free_context(&d->actx); }
//     if (d->fmt != NULL)   { avformat_close_input(&d->fmt); }
//     free(d);
// }
import "C"

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"
	"unsafe"
)

// AudioSink receives the pipeline's decoded, interleaved S16 samples.
// audio.Sink satisfies this; the indirection keeps this package free of a
// sound library dependency.
type AudioSink interface {
	Queue(samples []byte, sampleRate, channels int)
	SetGain(gain float64)
}

// pipeline is the FFmpeg-backed Pipeline.
type pipeline struct {
	sink  AudioSink
	state playState
	slot  frameSlot

	mu      sync.Mutex // guards the worker lifecycle fields below.
	dec     *C.kdec
	stop    chan struct{}
	done    chan struct{}
	seekReq chan float64

	startS, endS float64
	loop         bool
	volume       int
}

// NewPipeline returns the streaming-media Pipeline. The sink may be nil
// for silent operation.
func NewPipeline(sink AudioSink) Pipeline {
	return &pipeline{sink: sink, volume: 100}
}

// Load implements Pipeline. Any prior item is stopped first so a newer
// load always supersedes an in-flight one.
func (p *pipeline) Load(path string, startS, endS float64, loop bool) bool {
	p.Stop()
	p.mu.Lock()
	defer p.mu.Unlock()

	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	var dec *C.kdec
	switch rc := C.kdec_open(cpath, &dec); rc {
	case 0:
	case -1:
		p.state.setError(fmt.Sprintf("FILE_NOT_FOUND: %s", path))
		return false
	case -3:
		p.state.setError(fmt.Sprintf("DECODER_UNAVAILABLE: %s", path))
		return false
	default:
		p.state.setError(fmt.Sprintf("PIPELINE_ERROR: open %s: %d", path, int(rc)))
		return false
	}

	p.dec = dec
	p.startS, p.endS, p.loop = startS, endS, loop
	p.state.reset()
	dur := float64(C.kdec_duration(dec))
	if endS > 0 && endS < dur {
		dur = endS
	}
	p.state.setDuration(dur - startS)
	p.state.playing.Store(true)
	if p.sink != nil {
		p.sink.SetGain(float64(p.volume) / 100)
	}
	if startS > 0 {
		C.kdec_seek(dec, C.double(startS))
	}

	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	p.seekReq = make(chan float64, 1)
	go p.run(dec, p.stop, p.done, p.seekReq)
	return true
}

// Stop implements Pipeline: end the worker, waiting up to a second for it
// to settle, then zero position and duration.
func (p *pipeline) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dec == nil {
		return
	}
	close(p.stop)
	select {
	case <-p.done:
	case <-time.After(time.Second):
		slog.Warn("video: decode worker did not settle before timeout")
	}
	C.kdec_close(p.dec)
	p.dec = nil
	p.slot.drain()
	p.state.reset()
}

// run is the decode worker. It owns the decoder until stop closes and
// communicates only through the frame slot, the atomics, and the sink.
func (p *pipeline) run(dec *C.kdec, stop chan struct{}, done chan struct{}, seeks chan float64) {
	defer close(done)
	base := p.startS // stream position of wall clock zero.
	wall := time.Now()
	for {
		select {
		case <-stop:
			return
		case target := <-seeks:
			C.kdec_seek(dec, C.double(target))
			p.slot.drain()
			base = target
			wall = time.Now()
			p.state.setPosition(target - p.startS)
			continue
		default:
		}

		if p.state.paused.Load() {
			time.Sleep(10 * time.Millisecond)
			wall = wall.Add(10 * time.Millisecond) // hold stream position still.
			continue
		}

		switch rc := C.kdec_next(dec); rc {
		case 1: // video frame.
			pts := float64(C.kdec_pts(dec))
			if p.endS > 0 && pts >= p.endS {
				if p.atEOS(dec, &base, &wall, seeks) {
					return
				}
				continue
			}

			// pace to presentation time, then offer the frame. A full slot
			// drops the frame: bounded latency beats completeness.
			due := pts - base
			elapsed := time.Since(wall).Seconds()
			if due > elapsed {
				time.Sleep(time.Duration((due - elapsed) * float64(time.Second)))
			}
			p.slot.put(p.copyFrame(dec))
			p.state.setPosition(pts - p.startS)
		case 2: // audio samples.
			if p.sink != nil {
				n := int(C.kdec_audiolen(dec))
				samples := C.GoBytes(unsafe.Pointer(C.kdec_audio(dec)), C.int(n))
				p.sink.Queue(samples, int(C.kdec_audiorate(dec)), int(C.kdec_audiochans(dec)))
			}
		case 0: // end of stream.
			if p.atEOS(dec, &base, &wall, seeks) {
				return
			}
		default:
			p.state.setError("PIPELINE_ERROR: decode failed")
			p.state.playing.Store(false)
			return
		}
	}
}

// atEOS handles end-of-stream: restart for looping items, otherwise mark
// idle. Returns true when the worker should exit.
func (p *pipeline) atEOS(dec *C.kdec, base *float64, wall *time.Time, seeks chan float64) bool {
	if p.loop {
		C.kdec_seek(dec, C.double(p.startS))
		p.slot.drain()
		*base = p.startS
		*wall = time.Now()
		p.state.setPosition(0)
		return false
	}
	p.state.setPosition(p.state.Duration())
	p.state.playing.Store(false)
	return true
}

// copyFrame copies decoder-owned plane memory into a Frame the main thread
// can hold past the next decode.
func (p *pipeline) copyFrame(dec *C.kdec) *Frame {
	w := int(C.kdec_width(dec))
	h := int(C.kdec_height(dec))
	f := &Frame{Width: w, Height: h, PTS: float64(C.kdec_pts(dec))}
	copyPlane := func(i, rows int) Plane {
		stride := int(C.kdec_stride(dec, C.int(i)))
		data := C.GoBytes(unsafe.Pointer(C.kdec_plane(dec, C.int(i))), C.int(stride*rows))
		return Plane{Data: data, Stride: stride}
	}
	switch int(C.kdec_fmt(dec)) {
	case 1:
		f.Format = FormatYUV420
		f.Planes[0] = copyPlane(0, h)
		f.Planes[1] = copyPlane(1, (h+1)/2)
		f.Planes[2] = copyPlane(2, (h+1)/2)
	case 2:
		f.Format = FormatNV12
		f.Planes[0] = copyPlane(0, h)
		f.Planes[1] = copyPlane(1, (h+1)/2)
	default:
		f.Format = FormatRGBA
		f.Planes[0] = copyPlane(0, h)
	}
	return f
}

// SeekAbsolute implements Pipeline. The request is handed to the worker,
// which flushes and snaps to a key frame; a still-pending older request
// is replaced.
func (p *pipeline) SeekAbsolute(seconds float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dec == nil {
		return
	}
	target := p.startS + math.Max(0, seconds)
	select {
	case p.seekReq <- target:
		return
	default:
	}
	// replace the stale pending seek, never blocking: the worker may have
	// drained the channel between the two attempts.
	select {
	case <-p.seekReq:
	default:
	}
	select {
	case p.seekReq <- target:
	default:
	}
}

// SeekRelative implements Pipeline.
func (p *pipeline) SeekRelative(deltaSeconds float64) {
	p.SeekAbsolute(p.state.Position() + deltaSeconds)
}

// TogglePause implements Pipeline.
func (p *pipeline) TogglePause() {
	p.state.paused.Store(!p.state.paused.Load())
}

// SetVolume implements Pipeline, in percent.
func (p *pipeline) SetVolume(percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	p.volume = percent
	if p.sink != nil {
		p.sink.SetGain(float64(percent) / 100)
	}
}

// Pipeline state accessors.
func (p *pipeline) Position() float64 { return p.state.Position() }
func (p *pipeline) Duration() float64 { return p.state.Duration() }
func (p *pipeline) Paused() bool      { return p.state.paused.Load() }
func (p *pipeline) Active() bool      { return p.state.playing.Load() }
func (p *pipeline) Frame() *Frame     { return p.slot.take() }
func (p *pipeline) LastError() string { return p.state.lastError() }
