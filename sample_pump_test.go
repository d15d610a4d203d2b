// sample_pump_test.go - Rate conversion and peak preservation tests.

package main

import (
	"encoding/binary"
	"testing"
)

func pumpFrames(rate uint32, samples []uint32) []uint32 {
	pump := newSamplePump()
	pump.setRate(rate)
	var frames []uint32
	buf := make([]byte, 4)
	for _, s := range samples {
		pump.merge(s)
		pump.step()
		for pump.pending() {
			pump.emit(buf)
			frames = append(frames, binary.LittleEndian.Uint32(buf))
		}
	}
	return frames
}

func mono(v uint16) uint32 {
	return uint32(v) | uint32(v)<<16
}

func TestSamplePumpPassThrough(t *testing.T) {
	in := []uint32{mono(0), mono(100), mono(9000), mono(16000), mono(42)}
	out := pumpFrames(VGM_SAMPLE_RATE, in)
	if len(out) != len(in) {
		t.Fatalf("pass-through emitted %d frames for %d samples", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("frame %d = %08X, want %08X", i, out[i], in[i])
		}
	}
}

func TestSamplePumpPeakPreservation(t *testing.T) {
	// At half rate each output frame covers two input samples and keeps
	// the one that strays furthest from the 8192 midpoint.
	tests := []struct {
		name string
		a, b uint16
		want uint16
	}{
		{"rising above midpoint", 9000, 12000, 12000},
		{"falling below midpoint", 8000, 100, 100},
		{"first sample is the peak", 16000, 9000, 16000},
		{"upper half wins ties at the midpoint", 8191, 8192, 8192},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := pumpFrames(22050, []uint32{mono(tt.a), mono(tt.b)})
			if len(out) != 1 {
				t.Fatalf("emitted %d frames, want 1", len(out))
			}
			if got := uint16(out[0]); got != tt.want {
				t.Errorf("kept %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSamplePumpLanesIndependent(t *testing.T) {
	// Left rises while right falls; each lane keeps its own extreme.
	in := []uint32{
		uint32(9000) | uint32(8000)<<16,
		uint32(12000) | uint32(100)<<16,
	}
	out := pumpFrames(22050, in)
	if len(out) != 1 {
		t.Fatalf("emitted %d frames, want 1", len(out))
	}
	if left := uint16(out[0]); left != 12000 {
		t.Errorf("left lane = %d, want 12000", left)
	}
	if right := uint16(out[0] >> 16); right != 100 {
		t.Errorf("right lane = %d, want 100", right)
	}
}

func TestSamplePumpUpsamplingDuplicates(t *testing.T) {
	out := pumpFrames(2*VGM_SAMPLE_RATE, []uint32{mono(5), mono(6)})
	want := []uint32{mono(5), mono(5), mono(6), mono(6)}
	if len(out) != len(want) {
		t.Fatalf("emitted %d frames, want %d", len(out), len(want))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("frame %d = %08X, want %08X", i, out[i], want[i])
		}
	}
}

func TestSamplePumpDownsampleRatio(t *testing.T) {
	in := make([]uint32, 44100)
	out := pumpFrames(11025, in)
	if len(out) != 11025 {
		t.Errorf("emitted %d frames from one second, want 11025", len(out))
	}
}
