// music_test_helpers_test.go - Builders for synthetic VGM and NSF images.

package main

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"testing"
)

type vgmOptions struct {
	version      uint32
	ayClock      uint32
	ayType       uint8
	nesClock     uint32
	totalSamples uint32
	loopSamples  uint32
	hasLoop      bool
	loopAt       int // command byte offset of the loop point
}

// buildVGM assembles a valid 0x80-byte-header VGM image around the given
// command stream.
func buildVGM(t *testing.T, commands []byte, opt vgmOptions) []byte {
	t.Helper()
	data := make([]byte, 0x80, 0x80+len(commands))
	data = append(data, commands...)

	binary.LittleEndian.PutUint32(data[0:], VGM_MAGIC)
	version := opt.version
	if version == 0 {
		version = 0x00000161
	}
	binary.LittleEndian.PutUint32(data[VGM_OFF_VERSION:], version)
	binary.LittleEndian.PutUint32(data[VGM_OFF_DATA:], 0x80-VGM_OFF_DATA)
	binary.LittleEndian.PutUint32(data[VGM_OFF_TOTAL:], opt.totalSamples)
	if opt.hasLoop {
		binary.LittleEndian.PutUint32(data[VGM_OFF_LOOP:], uint32(0x80+opt.loopAt-VGM_OFF_LOOP))
		binary.LittleEndian.PutUint32(data[VGM_OFF_LOOP_SAMPLES:], opt.loopSamples)
	}
	binary.LittleEndian.PutUint32(data[VGM_OFF_AY_CLOCK:], opt.ayClock)
	data[VGM_OFF_AY_TYPE] = opt.ayType
	binary.LittleEndian.PutUint32(data[VGM_OFF_NES_CLOCK:], opt.nesClock)
	binary.LittleEndian.PutUint32(data[VGM_OFF_EOF:], uint32(len(data)-4))
	return data
}

type nsfOptions struct {
	songs        uint8
	startingSong uint8
	speed        uint16
	banks        [8]uint8
}

// buildNSF assembles an NSF image with the given ROM payload.
func buildNSF(t *testing.T, rom []byte, loadAddr, initAddr, playAddr uint16, opt nsfOptions) []byte {
	t.Helper()
	hdr := make([]byte, NSF_HEADER_SIZE)
	binary.LittleEndian.PutUint32(hdr[0:], NSF_MAGIC)
	hdr[4] = 0x1A
	hdr[NSF_OFF_VERSION] = 1
	songs := opt.songs
	if songs == 0 {
		songs = 1
	}
	hdr[NSF_OFF_SONGS] = songs
	start := opt.startingSong
	if start == 0 {
		start = 1
	}
	hdr[NSF_OFF_START_SONG] = start
	binary.LittleEndian.PutUint16(hdr[NSF_OFF_LOAD:], loadAddr)
	binary.LittleEndian.PutUint16(hdr[NSF_OFF_INIT:], initAddr)
	binary.LittleEndian.PutUint16(hdr[NSF_OFF_PLAY:], playAddr)
	copy(hdr[NSF_OFF_NAME:], "test tune\x00")
	speed := opt.speed
	if speed == 0 {
		speed = 16666
	}
	binary.LittleEndian.PutUint16(hdr[NSF_OFF_NTSC_SPEED:], speed)
	copy(hdr[NSF_OFF_BANKS:], opt.banks[:])
	return append(hdr, rom...)
}

// gzipBytes compresses data the way a VGZ file is stored.
func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		t.Fatalf("gzip: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

// decodeAll drains a player into one buffer using a fixed chunk size.
func decodeAll(p PCMSource, chunk int) []byte {
	var pcm []byte
	buf := make([]byte, chunk)
	for {
		n := p.DecodePCM(buf)
		if n == 0 {
			return pcm
		}
		pcm = append(pcm, buf[:n]...)
	}
}
