// chip_player.go - Format auto-detecting playback facade.
//
// ChipPlayer accepts a VGM, VGZ or NSF image and pulls interleaved s16
// stereo PCM from whichever player claimed it. Settings survive across
// Open calls so a player can be configured once and fed files.

package main

import (
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

var errInitFailed = errors.New("nsf init routine failed")

var (
	_ MusicPlayer = (*ChipPlayer)(nil)
	_ PCMSource   = (*ChipPlayer)(nil)
	_ SampleChip  = (*AY38910)(nil)
	_ SampleChip  = (*NesApu)(nil)
)

// ChipPlayer decodes chiptune images to PCM.
type ChipPlayer struct {
	mutex sync.Mutex

	vgm *VGMPlayer
	nsf *NSFPlayer

	sampleFreq uint32
	volume     uint8
	durationMs uint32

	backend AudioBackend
	playing bool
}

// NewChipPlayer creates a player with default settings: 44100 Hz output,
// volume 64, three-minute duration cap.
func NewChipPlayer() *ChipPlayer {
	return &ChipPlayer{
		sampleFreq: VGM_SAMPLE_RATE,
		volume:     DEFAULT_USER_VOLUME,
		durationMs: DEFAULT_MAX_DURATION_MS,
	}
}

// Open loads a music image, auto-detecting the format. It returns false
// when the image is neither a valid VGM/VGZ nor NSF.
func (p *ChipPlayer) Open(data []byte) bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.closeLocked()

	data, err := inflateVGZ(data)
	if err != nil {
		log.Debugf("open: gzip inflate failed: %v", err)
		return false
	}

	if hdr, err := parseVGMHeader(data); err == nil {
		p.vgm = newVGMPlayer(data, hdr)
		log.Debugf("open: vgm version %X.%02X, rate %d, data at 0x%X",
			hdr.Version>>8, hdr.Version&0xFF, hdr.Rate, hdr.DataStart)
		p.applySettingsLocked()
		return true
	}

	hdr, err := parseNSFHeader(data)
	if err != nil {
		log.Debugf("open: not vgm and not nsf: %v", err)
		return false
	}
	nsf, err := newNSFPlayer(data, hdr)
	if err != nil {
		log.Debugf("open: %v", err)
		return false
	}
	p.nsf = nsf
	log.Debugf("open: nsf %q, %d songs, play every %d us", hdr.Name, hdr.SongCount, hdr.NtscPlaySpeed)
	p.applySettingsLocked()
	return true
}

// Close releases the current session. The player stays usable.
func (p *ChipPlayer) Close() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.closeLocked()
}

func (p *ChipPlayer) closeLocked() {
	p.vgm = nil
	p.nsf = nil
	p.playing = false
}

func (p *ChipPlayer) applySettingsLocked() {
	if p.vgm != nil {
		p.vgm.SetSampleFrequency(p.sampleFreq)
		p.vgm.SetVolume(p.volume)
		p.vgm.SetMaxDuration(p.durationMs)
	}
	if p.nsf != nil {
		p.nsf.SetSampleFrequency(p.sampleFreq)
		p.nsf.SetVolume(p.volume)
		p.nsf.SetMaxDuration(p.durationMs)
	}
}

// TrackCount returns the number of tracks (always 1 for VGM).
func (p *ChipPlayer) TrackCount() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.nsf != nil {
		return p.nsf.TrackCount()
	}
	if p.vgm != nil {
		return 1
	}
	return 0
}

// SetTrack selects a track. VGM images accept only the no-op track 0.
func (p *ChipPlayer) SetTrack(track int) bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.vgm != nil {
		return true
	}
	if p.nsf != nil {
		return p.nsf.SetTrack(track)
	}
	return false
}

// Track returns the current zero-based track index.
func (p *ChipPlayer) Track() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.nsf != nil {
		return p.nsf.Track()
	}
	return 0
}

// SetVolume changes the output level (0..255, default 64).
func (p *ChipPlayer) SetVolume(volume uint16) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if volume > 255 {
		volume = 255
	}
	p.volume = uint8(volume)
	p.applySettingsLocked()
}

// SetSampleFrequency sets the output rate delivered to the caller. The
// chips keep rendering at 44100 Hz; the pump converts.
func (p *ChipPlayer) SetSampleFrequency(frequency uint32) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if frequency == 0 {
		return
	}
	p.sampleFreq = frequency
	p.applySettingsLocked()
}

// SetMaxDuration caps decoding at the given length in milliseconds.
func (p *ChipPlayer) SetMaxDuration(milliseconds uint32) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.durationMs = milliseconds
	p.applySettingsLocked()
}

// DecodePCM fills out with little-endian s16 stereo frames and returns the
// number of bytes written; 0 means end of stream or no open image.
func (p *ChipPlayer) DecodePCM(out []byte) int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.nsf != nil {
		return p.nsf.DecodePCM(out)
	}
	if p.vgm != nil {
		return p.vgm.DecodePCM(out)
	}
	return 0
}

// NSFInfo returns the NSF header when an NSF image is open.
func (p *ChipPlayer) NSFInfo() *NSFHeader {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.nsf != nil {
		return p.nsf.hdr
	}
	return nil
}

// AttachBackend wires an audio output for Play and Stop.
func (p *ChipPlayer) AttachBackend(backend AudioBackend) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.backend = backend
}

// Load implements MusicPlayer.
func (p *ChipPlayer) Load(path string) error {
	data, err := loadMusicData(path)
	if err != nil {
		return err
	}
	return p.LoadData(data)
}

// LoadData implements MusicPlayer.
func (p *ChipPlayer) LoadData(data []byte) error {
	if !p.Open(data) {
		return fmt.Errorf("unrecognised music image")
	}
	return nil
}

// Play implements MusicPlayer, starting the attached backend.
func (p *ChipPlayer) Play() {
	p.mutex.Lock()
	backend := p.backend
	p.mutex.Unlock()
	if backend == nil {
		return
	}
	if err := backend.Start(p); err != nil {
		log.Errorf("play: %v", err)
		return
	}
	p.mutex.Lock()
	p.playing = true
	p.mutex.Unlock()
}

// Stop implements MusicPlayer.
func (p *ChipPlayer) Stop() {
	p.mutex.Lock()
	backend := p.backend
	p.playing = false
	p.mutex.Unlock()
	if backend != nil {
		backend.Stop()
	}
}

// IsPlaying implements MusicPlayer.
func (p *ChipPlayer) IsPlaying() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.playing
}

// DurationSeconds implements MusicPlayer. NSF images carry no length, so
// only VGM reports one.
func (p *ChipPlayer) DurationSeconds() float64 {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.vgm != nil {
		return p.vgm.TotalSeconds()
	}
	return 0
}

// DurationText implements MusicPlayer.
func (p *ChipPlayer) DurationText() string {
	return formatDuration(p.DurationSeconds())
}
