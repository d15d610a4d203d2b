// music_constants.go - Shared constants for the VGM/NSF decoding engine.

package main

// All VGM timing is expressed in samples at this rate, and both chip
// emulators render at this rate internally. The sample pump converts to
// the caller's rate on output.
const VGM_SAMPLE_RATE = 44100

// PSG chip variants as encoded in the VGM header (offset 0x74).
const (
	CHIP_TYPE_AY8910  = 0x00
	CHIP_TYPE_AY8912  = 0x01
	CHIP_TYPE_AY8913  = 0x02
	CHIP_TYPE_AY8930  = 0x03
	CHIP_TYPE_AY8914  = 0x04
	CHIP_TYPE_YM2149  = 0x10
	CHIP_TYPE_YM3439  = 0x11
	CHIP_TYPE_YMZ284  = 0x12
	CHIP_TYPE_YMZ294  = 0x13
	CHIP_TYPE_YM2203  = 0x20
	CHIP_TYPE_YM2608  = 0x21
	CHIP_TYPE_YM2610  = 0x22
	CHIP_TYPE_YM2610B = 0x23
)

// Common master clocks.
const (
	PSG_CLOCK_DEFAULT     = 3579545
	PSG_CLOCK_ATARI_ST    = 2000000
	PSG_CLOCK_ZX_SPECTRUM = 1773400
	PSG_CLOCK_MSX         = 1789773

	NES_CPU_CLOCK = 1789773
)

// File format magics, little-endian as they appear in the image.
const (
	VGM_MAGIC = 0x206D6756 // "Vgm "
	NSF_MAGIC = 0x4D53454E // "NESM"
)

// VGM header field offsets.
const (
	VGM_OFF_EOF          = 0x04
	VGM_OFF_VERSION      = 0x08
	VGM_OFF_TOTAL        = 0x18
	VGM_OFF_LOOP         = 0x1C
	VGM_OFF_LOOP_SAMPLES = 0x20
	VGM_OFF_RATE         = 0x24
	VGM_OFF_DATA         = 0x34
	VGM_OFF_NES_CLOCK    = 0x78
	VGM_OFF_AY_CLOCK     = 0x7C
	VGM_OFF_AY_TYPE      = 0x74
	VGM_OFF_AY_FLAGS     = 0x75
)

// NSF header field offsets. The header is always 0x80 bytes.
const (
	NSF_HEADER_SIZE    = 0x80
	NSF_OFF_VERSION    = 0x05
	NSF_OFF_SONGS      = 0x06
	NSF_OFF_START_SONG = 0x07
	NSF_OFF_LOAD       = 0x08
	NSF_OFF_INIT       = 0x0A
	NSF_OFF_PLAY       = 0x0C
	NSF_OFF_NAME       = 0x0E
	NSF_OFF_ARTIST     = 0x2E
	NSF_OFF_COPYRIGHT  = 0x4E
	NSF_OFF_NTSC_SPEED = 0x6E
	NSF_OFF_BANKS      = 0x70
)

// NSF bank switching registers and geometry.
const (
	NSF_BANK_REG_BASE = 0x5FF8
	NSF_BANK_SIZE     = 0x1000
	NSF_BANK_WINDOW   = 0x8000
)

// Default playback limits.
const (
	DEFAULT_MAX_DURATION_MS = 3 * 60 * 1000
	DEFAULT_USER_VOLUME     = 64

	// Cycle budget for a single NSF init/play invocation. Roughly 11 ms
	// of virtual CPU time, enough for any sane player routine.
	NSF_CALL_CYCLE_LIMIT = 20000
)
