//go:build headless

// audio_backend_headless.go - No-device audio backend for headless builds.

package main

import "sync"

// HeadlessBackend drains a PCMSource without touching any audio device.
type HeadlessBackend struct {
	done    chan struct{}
	stop    chan struct{}
	mutex   sync.Mutex
	started bool
}

// NewAudioBackend returns a backend that discards the decoded stream.
func NewAudioBackend(sampleRate int) (AudioBackend, error) {
	return &HeadlessBackend{
		done: make(chan struct{}),
		stop: make(chan struct{}),
	}, nil
}

// Start drains src in the background.
func (b *HeadlessBackend) Start(src PCMSource) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.started {
		return nil
	}
	b.started = true
	go func() {
		buf := make([]byte, 4096)
		for {
			select {
			case <-b.stop:
				return
			default:
			}
			if src.DecodePCM(buf) == 0 {
				close(b.done)
				return
			}
		}
	}()
	return nil
}

// Stop halts draining.
func (b *HeadlessBackend) Stop() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.started {
		select {
		case <-b.stop:
		default:
			close(b.stop)
		}
	}
}

// Close releases the backend.
func (b *HeadlessBackend) Close() {
	b.Stop()
}

// Done is closed when the source reaches end of stream.
func (b *HeadlessBackend) Done() <-chan struct{} {
	return b.done
}
