// psg_ay38910_test.go - Tone, level table and register file tests.

package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// measureToneHz counts rising edges of channel A over one second of
// samples. Idle channels hold the DAC floor level, so the mixed signal
// never reads zero; edges are detected against the midpoint instead.
func measureToneHz(psg *AY38910) int {
	const midpoint = 8192
	edges := 0
	prev := uint16(psg.GetSample())
	for range VGM_SAMPLE_RATE {
		cur := uint16(psg.GetSample())
		if prev < midpoint && cur >= midpoint {
			edges++
		}
		prev = cur
	}
	return edges
}

func TestPSGToneFrequency(t *testing.T) {
	psg := NewAY38910(CHIP_TYPE_AY8910, 0)
	psg.SetFrequency(1789773)
	psg.Write(0, 0xFE) // period 0x0FE
	psg.Write(1, 0x00)
	psg.Write(7, 0x3E) // tone A only
	psg.Write(8, 0x0F)

	// 1789773 / (16 * 0x0FE) = 440.4 Hz
	got := measureToneHz(psg)
	if got < 439 || got > 442 {
		t.Errorf("tone frequency = %d Hz, want 440 +/- 1", got)
	}
}

func TestPSGToneZeroPeriodActsAsOne(t *testing.T) {
	psg := NewAY38910(CHIP_TYPE_AY8910, 0)
	psg.Write(7, 0x3E)
	psg.Write(8, 0x0F)
	// Period 0 must not divide by zero or stall the channel.
	psg.Write(0, 0x00)
	psg.Write(1, 0x00)
	for range 1000 {
		psg.GetSample()
	}
}

func TestPSGLevelTables(t *testing.T) {
	for _, table := range [][]uint16{levelTableAY[:], levelTableYM[:], levelTableAY8930[:]} {
		if top := table[len(table)-1]; top != 0xFFFF {
			t.Errorf("table top = %d, want 65535", top)
		}
		for i := 1; i < len(table); i++ {
			if table[i] < table[i-1] {
				t.Errorf("table not monotonic at %d: %d < %d", i, table[i], table[i-1])
			}
		}
	}
	if len(levelTableAY8930) != 32 {
		t.Errorf("AY8930 table has %d entries, want 32", len(levelTableAY8930))
	}
}

func TestPSGRegisterMasks(t *testing.T) {
	psg := NewAY38910(CHIP_TYPE_AY8910, 0)
	tests := []struct {
		reg   uint8
		write uint8
		want  uint8
	}{
		{1, 0xFF, 0x0F},  // coarse period is 4 bits
		{6, 0xFF, 0x1F},  // noise period is 5 bits
		{8, 0xFF, 0x1F},  // amplitude + envelope bit
		{13, 0xFF, 0x0F}, // shape is 4 bits
		{0, 0xFF, 0xFF},
		{11, 0xFF, 0xFF},
	}
	for _, tt := range tests {
		psg.Write(tt.reg, tt.write)
		if got := psg.Read(tt.reg); got != tt.want {
			t.Errorf("R%d readback = 0x%02X, want 0x%02X", tt.reg, got, tt.want)
		}
	}
	// Writes outside the register window are ignored.
	psg.Write(16, 0xAA)
	if got := psg.Read(16); got != 0 {
		t.Errorf("out-of-window read = 0x%02X, want 0", got)
	}
}

func TestPSGResetState(t *testing.T) {
	psg := NewAY38910(CHIP_TYPE_AY8910, 0)
	psg.Write(0, 0x55)
	psg.Write(7, 0x00)
	psg.Write(8, 0x0F)
	psg.Reset()

	if psg.rng != 1 {
		t.Errorf("rng = %d after reset, want seed 1", psg.rng)
	}
	if got := psg.Read(7); got != 0x3F {
		t.Errorf("mixer = 0x%02X after reset, want 0x3F", got)
	}
	if got := psg.Read(0); got != 0 {
		t.Errorf("R0 = 0x%02X after reset, want 0", got)
	}
}

func TestPSGVolumeScaling(t *testing.T) {
	sampleAt := func(volume uint8) uint16 {
		psg := NewAY38910(CHIP_TYPE_AY8910, 0)
		psg.SetVolume(volume)
		psg.Write(7, 0x3E)
		psg.Write(8, 0x0F)
		psg.Write(0, 0x01)
		var peak uint16
		for range 256 {
			if s := uint16(psg.GetSample()); s > peak {
				peak = s
			}
		}
		return peak
	}
	half := sampleAt(64)
	full := sampleAt(128)
	if full < half*2-2 || full > half*2+2 {
		t.Errorf("volume 128 peak = %d, want about twice the volume 64 peak %d", full, half)
	}
}

func TestPSGStereoLanesMatch(t *testing.T) {
	psg := NewAY38910(CHIP_TYPE_AY8910, 0)
	psg.Write(7, 0x3E)
	psg.Write(8, 0x0F)
	psg.Write(0, 0x10)
	for range 100 {
		s := psg.GetSample()
		if uint16(s) != uint16(s>>16) {
			t.Fatalf("stereo lanes differ: %08X", s)
		}
	}
}

func TestPSGDeterminism(t *testing.T) {
	render := func() []uint32 {
		psg := NewAY38910(CHIP_TYPE_YM2149, 0)
		psg.SetFrequency(PSG_CLOCK_ATARI_ST)
		psg.Write(0, 0x34)
		psg.Write(1, 0x01)
		psg.Write(6, 0x0A)
		psg.Write(7, 0x2E) // tone A, noise A
		psg.Write(8, 0x10) // envelope driven
		psg.Write(11, 0x20)
		psg.Write(13, 0x0E)
		out := make([]uint32, 2000)
		for i := range out {
			out[i] = psg.GetSample()
		}
		return out
	}
	if diff := cmp.Diff(render(), render()); diff != "" {
		t.Errorf("identical write traces diverged (-a +b):\n%s", diff)
	}
}
