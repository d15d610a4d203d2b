// music_interfaces.go - Common interfaces for music decoding and playback

package main

// MusicPlayer is implemented by playable music sessions.
// Provides a common interface for playback control.
type MusicPlayer interface {
	// Load loads a music file from the given path
	Load(path string) error
	// LoadData loads music data from a byte slice
	LoadData(data []byte) error
	// Play starts playback on the attached audio backend
	Play()
	// Stop stops playback
	Stop()
	// IsPlaying returns true if currently playing
	IsPlaying() bool
	// DurationSeconds returns the duration in seconds (0 if unknown)
	DurationSeconds() float64
	// DurationText returns a formatted duration string (e.g., "3:45")
	DurationText() string
}

// SampleChip is the pull surface shared by the emulated sound chips.
// GetSample advances the chip by one 44.1 kHz tick and returns one packed
// stereo sample: left channel in the low 16 bits, right in the high 16.
type SampleChip interface {
	Reset()
	GetSample() uint32
	SetVolume(volume uint8)
	SetSampleFrequency(frequency uint32)
}

// PCMSource produces interleaved little-endian s16 stereo frames.
// DecodePCM fills out with whole 4-byte frames and returns the number of
// bytes written; 0 means end of stream.
type PCMSource interface {
	DecodePCM(out []byte) int
}

// AudioBackend drains a PCMSource to an output device.
type AudioBackend interface {
	Start(src PCMSource) error
	Stop()
	Close()
	// Done is closed once the source has been drained to end of stream.
	Done() <-chan struct{}
}
