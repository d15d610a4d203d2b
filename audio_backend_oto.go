//go:build !headless

// audio_backend_oto.go - OTO v3 audio output implementation

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/ChipStream
License: GPLv3 or later
*/

package main

import (
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// OtoBackend streams a PCMSource to the default audio device.
type OtoBackend struct {
	ctx    *oto.Context
	player *oto.Player
	done   chan struct{}
	mutex  sync.Mutex
}

// NewAudioBackend opens the audio device for 16-bit stereo output at the
// given sample rate.
func NewAudioBackend(sampleRate int) (AudioBackend, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready
	return &OtoBackend{
		ctx:  ctx,
		done: make(chan struct{}),
	}, nil
}

type pcmReader struct {
	src  PCMSource
	done chan struct{}
	once sync.Once
}

func (r *pcmReader) Read(p []byte) (int, error) {
	n := r.src.DecodePCM(p)
	if n == 0 {
		r.once.Do(func() { close(r.done) })
		return 0, io.EOF
	}
	return n, nil
}

// Start begins draining src to the device.
func (b *OtoBackend) Start(src PCMSource) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.player != nil {
		b.player.Close()
	}
	b.player = b.ctx.NewPlayer(&pcmReader{src: src, done: b.done})
	b.player.Play()
	return nil
}

// Stop halts playback.
func (b *OtoBackend) Stop() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.player != nil {
		b.player.Close()
		b.player = nil
	}
}

// Close releases the backend.
func (b *OtoBackend) Close() {
	b.Stop()
}

// Done is closed when the source reaches end of stream.
func (b *OtoBackend) Done() <-chan struct{} {
	return b.done
}
