// vgm_parser.go - VGM header parsing and validation.
//
// Only the header fields the engine acts on are decoded: timing, loop
// bookkeeping and the AY8910/NES APU chip declarations. Every other chip
// clock in the header is left to the command interpreter, which skips the
// corresponding write commands.

package main

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
)

// VGMHeader carries the decoded fields of a validated VGM image.
type VGMHeader struct {
	Version      uint32
	TotalSamples uint32
	LoopSamples  uint32
	Rate         uint32

	// Absolute offsets into the image, already rebased.
	DataStart int
	LoopStart int

	HeaderSize int

	AY8910Clock uint32
	AY8910Type  uint8
	AY8910Flags uint8
	NesApuClock uint32
}

// inflateVGZ returns the decompressed image when data is gzip'd, or data
// unchanged otherwise.
func inflateVGZ(data []byte) ([]byte, error) {
	if len(data) < 2 || data[0] != 0x1F || data[1] != 0x8B {
		return data, nil
	}
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gz.Close()
	return io.ReadAll(gz)
}

// parseVGMHeader validates the image and decodes its header. The magic,
// the end-of-file offset cross-check and the data offset bound are all
// mandatory; failing any of them rejects the file.
func parseVGMHeader(data []byte) (*VGMHeader, error) {
	if len(data) < 0x40 {
		return nil, fmt.Errorf("vgm too short: %d bytes", len(data))
	}
	if binary.LittleEndian.Uint32(data[0:4]) != VGM_MAGIC {
		return nil, fmt.Errorf("invalid vgm magic")
	}
	eofOffset := binary.LittleEndian.Uint32(data[VGM_OFF_EOF:])
	if int(eofOffset) != len(data)-4 {
		return nil, fmt.Errorf("vgm eof offset 0x%X does not match size %d", eofOffset, len(data))
	}

	hdr := &VGMHeader{
		Version:      binary.LittleEndian.Uint32(data[VGM_OFF_VERSION:]),
		TotalSamples: binary.LittleEndian.Uint32(data[VGM_OFF_TOTAL:]),
		LoopSamples:  binary.LittleEndian.Uint32(data[VGM_OFF_LOOP_SAMPLES:]),
		Rate:         binary.LittleEndian.Uint32(data[VGM_OFF_RATE:]),
	}
	if hdr.Rate == 0 {
		hdr.Rate = 50
	}

	hdr.HeaderSize = 64
	if hdr.Version >= 0x00000161 {
		hdr.HeaderSize = 128
	}

	hdr.DataStart = 0x40
	if hdr.Version >= 0x00000150 {
		if off := binary.LittleEndian.Uint32(data[VGM_OFF_DATA:]); off != 0 {
			hdr.DataStart = VGM_OFF_DATA + int(off)
		}
	}
	if hdr.DataStart > len(data) {
		return nil, fmt.Errorf("vgm data offset 0x%X out of range", hdr.DataStart)
	}

	if loopOff := binary.LittleEndian.Uint32(data[VGM_OFF_LOOP:]); loopOff != 0 {
		hdr.LoopStart = VGM_OFF_LOOP + int(loopOff)
		if hdr.LoopStart >= len(data) {
			return nil, fmt.Errorf("vgm loop offset 0x%X out of range", hdr.LoopStart)
		}
	}

	if len(data) >= 0x80 {
		hdr.AY8910Clock = binary.LittleEndian.Uint32(data[VGM_OFF_AY_CLOCK:])
		hdr.NesApuClock = binary.LittleEndian.Uint32(data[VGM_OFF_NES_CLOCK:])
		hdr.AY8910Type = data[VGM_OFF_AY_TYPE]
		hdr.AY8910Flags = data[VGM_OFF_AY_FLAGS]
	}

	return hdr, nil
}
