// nsf_parser.go - NSF header parsing.

package main

import (
	"encoding/binary"
	"fmt"
)

// NSFHeader carries the decoded fields of an NSF image's 128-byte header.
type NSFHeader struct {
	Version      uint8
	SongCount    uint8
	StartingSong uint8 // 1-based

	LoadAddr uint16
	InitAddr uint16
	PlayAddr uint16

	Name      string
	Artist    string
	Copyright string

	NtscPlaySpeed uint16 // microseconds between play calls
	BankSwitch    [8]uint8
}

func parseNSFHeader(data []byte) (*NSFHeader, error) {
	if len(data) < NSF_HEADER_SIZE {
		return nil, fmt.Errorf("nsf too short: %d bytes", len(data))
	}
	if binary.LittleEndian.Uint32(data[0:4]) != NSF_MAGIC {
		return nil, fmt.Errorf("invalid nsf magic")
	}

	hdr := &NSFHeader{
		Version:       data[NSF_OFF_VERSION],
		SongCount:     data[NSF_OFF_SONGS],
		StartingSong:  data[NSF_OFF_START_SONG],
		LoadAddr:      binary.LittleEndian.Uint16(data[NSF_OFF_LOAD:]),
		InitAddr:      binary.LittleEndian.Uint16(data[NSF_OFF_INIT:]),
		PlayAddr:      binary.LittleEndian.Uint16(data[NSF_OFF_PLAY:]),
		Name:          nulTerminated(data[NSF_OFF_NAME : NSF_OFF_NAME+32]),
		Artist:        nulTerminated(data[NSF_OFF_ARTIST : NSF_OFF_ARTIST+32]),
		Copyright:     nulTerminated(data[NSF_OFF_COPYRIGHT : NSF_OFF_COPYRIGHT+32]),
		NtscPlaySpeed: binary.LittleEndian.Uint16(data[NSF_OFF_NTSC_SPEED:]),
	}
	copy(hdr.BankSwitch[:], data[NSF_OFF_BANKS:NSF_OFF_BANKS+8])

	if hdr.SongCount == 0 {
		return nil, fmt.Errorf("nsf has no songs")
	}
	return hdr, nil
}
