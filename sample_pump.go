// sample_pump.go - Chip-rate to host-rate sample pump.
//
// Chips render at 44100 Hz; the caller may want any rate. The pump folds
// consecutive chip samples into one output frame, per stereo lane keeping
// the value that strays furthest from the 8192 midpoint. Downsampling thus
// preserves transient peaks instead of averaging them away. When the host
// rate matches 44100 Hz the pump is an exact pass-through; above it, frames
// repeat (nearest-neighbour expansion).

package main

import "encoding/binary"

type samplePump struct {
	writeScaler    uint32
	writeCounter   uint32
	sampleSum      uint32
	sampleSumValid bool
}

func newSamplePump() samplePump {
	return samplePump{writeScaler: VGM_SAMPLE_RATE}
}

func (p *samplePump) setRate(frequency uint32) {
	if frequency == 0 {
		return
	}
	p.writeScaler = frequency
}

// merge folds one chip sample into the pending output frame.
func (p *samplePump) merge(next uint32) {
	if !p.sampleSumValid {
		p.sampleSum = next
		p.sampleSumValid = true
		return
	}
	nextL := uint16(next)
	nextR := uint16(next >> 16)
	sumL := uint16(p.sampleSum)
	sumR := uint16(p.sampleSum >> 16)
	if (nextL >= 8192 && nextL > sumL) || (nextL < 8192 && nextL < sumL) {
		sumL = nextL
	}
	if (nextR >= 8192 && nextR > sumR) || (nextR < 8192 && nextR < sumR) {
		sumR = nextR
	}
	p.sampleSum = uint32(sumL) | uint32(sumR)<<16
}

// step advances the output phase by one chip tick.
func (p *samplePump) step() {
	p.writeCounter += p.writeScaler
}

// pending reports whether an output frame is due. With a host rate above
// 44100 Hz several frames come due per chip tick and the held value
// repeats.
func (p *samplePump) pending() bool {
	return p.writeCounter >= VGM_SAMPLE_RATE
}

// emit writes the due frame as 4 bytes of little-endian stereo s16.
func (p *samplePump) emit(out []byte) {
	binary.LittleEndian.PutUint32(out, p.sampleSum)
	p.writeCounter -= VGM_SAMPLE_RATE
	p.sampleSumValid = false
}
