// vgm_player.go - VGM command interpreter and PCM render loop.

package main

import (
	"encoding/binary"

	log "github.com/sirupsen/logrus"
)

// VGMPlayer walks a VGM command stream, dispatching register writes to the
// declared chips and rendering PCM through the sample pump. The image is
// borrowed read-only for the life of the player.
type VGMPlayer struct {
	raw []byte
	hdr *VGMHeader

	dataPtr int
	loops   int

	waitSamples   uint32
	samplesPlayed uint64
	duration      uint64
	stopped       bool

	psg *AY38910
	apu *NesApu

	pump samplePump
}

func newVGMPlayer(data []byte, hdr *VGMHeader) *VGMPlayer {
	p := &VGMPlayer{
		raw:     data,
		hdr:     hdr,
		dataPtr: hdr.DataStart,
		loops:   1,
		pump:    newSamplePump(),
	}
	if hdr.LoopStart != 0 {
		p.loops = 2
	}
	if hdr.AY8910Clock != 0 {
		p.psg = NewAY38910(hdr.AY8910Type, hdr.AY8910Flags)
		p.psg.SetFrequency(hdr.AY8910Clock)
	} else if hdr.NesApuClock != 0 {
		p.apu = NewNesApu()
	}
	p.SetMaxDuration(DEFAULT_MAX_DURATION_MS)
	return p
}

// SetMaxDuration caps playback at the given length in milliseconds.
func (p *VGMPlayer) SetMaxDuration(milliseconds uint32) {
	p.duration = uint64(milliseconds) * VGM_SAMPLE_RATE / 1000
}

// SetSampleFrequency sets the host output rate in Hz.
func (p *VGMPlayer) SetSampleFrequency(frequency uint32) {
	p.pump.setRate(frequency)
	if p.psg != nil && p.psg.GetSampleFrequency() != VGM_SAMPLE_RATE {
		log.Warnf("vgm: psg must render at %d Hz, found %d", VGM_SAMPLE_RATE, p.psg.GetSampleFrequency())
	}
}

// SetVolume forwards the output level to the chips.
func (p *VGMPlayer) SetVolume(volume uint8) {
	if p.psg != nil {
		p.psg.SetVolume(volume)
	}
	if p.apu != nil {
		p.apu.SetVolume(volume)
	}
}

// need reports whether n more bytes exist at the cursor. Running off the
// end of the image stops playback cleanly.
func (p *VGMPlayer) need(n int) bool {
	if p.dataPtr+n > len(p.raw) {
		log.Warnf("vgm: truncated command 0x%02X at offset 0x%X", p.raw[p.dataPtr], p.dataPtr)
		return false
	}
	return true
}

// nextCommand consumes one command at the cursor. It returns false when the
// stream ends, loops are exhausted, or the command is unrecognised.
func (p *VGMPlayer) nextCommand() bool {
	if p.dataPtr >= len(p.raw) {
		return false
	}
	cmd := p.raw[p.dataPtr]
	switch {
	case cmd == 0x31, cmd == 0x4F, cmd == 0x50:
		// AY stereo mask and SN76489 writes: accepted, not rendered.
		if !p.need(2) {
			return false
		}
		p.dataPtr += 2
	case cmd == 0x30, cmd == 0x3F:
		// Dual chip prefixes for unsupported chips.
		if !p.need(2) {
			return false
		}
		p.dataPtr += 2
	case cmd >= 0x32 && cmd <= 0x3E:
		// One operand, reserved.
		if !p.need(2) {
			return false
		}
		p.dataPtr += 2
	case cmd >= 0x40 && cmd <= 0x4E:
		// Two operands, reserved (one operand until v1.60).
		if !p.need(3) {
			return false
		}
		p.dataPtr += 3
	case cmd >= 0x51 && cmd <= 0x5F:
		// FM chip writes (YM2413..YMF262): skipped.
		if !p.need(3) {
			return false
		}
		p.dataPtr += 3
	case cmd == 0x61:
		if !p.need(3) {
			return false
		}
		p.waitSamples = uint32(p.raw[p.dataPtr+1]) | uint32(p.raw[p.dataPtr+2])<<8
		p.waitSamples++
		p.dataPtr += 3
	case cmd == 0x62:
		p.waitSamples = 735
		p.dataPtr++
	case cmd == 0x63:
		p.waitSamples = 882
		p.dataPtr++
	case cmd == 0x66:
		if p.hdr.LoopStart != 0 && p.loops != 1 {
			p.dataPtr = p.hdr.LoopStart
			if p.loops > 0 {
				p.loops--
			}
			return true
		}
		return false
	case cmd == 0x67:
		if !p.need(7) {
			return false
		}
		blockType := p.raw[p.dataPtr+2]
		blockLen := int(binary.LittleEndian.Uint32(p.raw[p.dataPtr+3:]))
		if !p.need(7 + blockLen) {
			return false
		}
		if p.apu != nil {
			p.apu.SetDataBlock(blockType, p.raw[p.dataPtr+7:p.dataPtr+7+blockLen])
		}
		p.dataPtr += 7 + blockLen
	case cmd == 0x68:
		// PCM RAM write, fixed 12 bytes.
		if !p.need(12) {
			return false
		}
		p.dataPtr += 12
	case cmd >= 0x70 && cmd <= 0x7F:
		p.waitSamples = uint32(cmd&0x0F) + 1
		p.dataPtr++
	case cmd >= 0x80 && cmd <= 0x8F:
		// YM2612 DAC write plus wait; no YM2612 here, the wait is n.
		p.waitSamples = uint32(cmd & 0x0F)
		p.dataPtr++
	case cmd == 0x90, cmd == 0x91, cmd == 0x95:
		if !p.need(5) {
			return false
		}
		p.dataPtr += 5
	case cmd == 0x92:
		if !p.need(6) {
			return false
		}
		p.dataPtr += 6
	case cmd == 0x93:
		if !p.need(11) {
			return false
		}
		p.dataPtr += 11
	case cmd == 0x94:
		if !p.need(2) {
			return false
		}
		p.dataPtr += 2
	case cmd == 0xA0:
		if !p.need(3) {
			return false
		}
		if p.psg != nil {
			p.psg.Write(p.raw[p.dataPtr+1], p.raw[p.dataPtr+2])
		}
		p.dataPtr += 3
	case cmd == 0xB4:
		if !p.need(3) {
			return false
		}
		if p.apu != nil {
			p.apu.Write(uint16(p.raw[p.dataPtr+1]), p.raw[p.dataPtr+2])
		}
		p.dataPtr += 3
	case cmd >= 0xA1 && cmd <= 0xBF:
		// Other two-operand chip writes.
		if !p.need(3) {
			return false
		}
		p.dataPtr += 3
	case cmd >= 0xC0 && cmd <= 0xDF:
		// Three-operand chip writes and reserved ranges.
		if !p.need(4) {
			return false
		}
		p.dataPtr += 4
	case cmd >= 0xE0:
		// Four operands: seek and reserved ranges up to 0xFF.
		if !p.need(5) {
			return false
		}
		p.dataPtr += 5
	default:
		log.Warnf("vgm: unknown command 0x%02X at offset 0x%X", cmd, p.dataPtr)
		return false
	}
	return true
}

func (p *VGMPlayer) chipSample() uint32 {
	var sample uint32
	if p.psg != nil {
		sample = p.psg.GetSample()
	}
	if p.apu != nil {
		sample = p.apu.GetSample()
	}
	return sample
}

// DecodePCM renders stereo frames into out until the buffer is full, the
// stream ends, or the duration cap fires. It returns the bytes written.
func (p *VGMPlayer) DecodePCM(out []byte) int {
	if p.psg == nil && p.apu == nil {
		// Nothing declared in the header renders here.
		return 0
	}
	decoded := 0
	for decoded+4 <= len(out) {
		for p.waitSamples == 0 {
			if p.stopped {
				return decoded
			}
			if p.duration > 0 && p.samplesPlayed >= p.duration {
				return decoded
			}
			if !p.nextCommand() {
				p.stopped = true
				return decoded
			}
		}
		for p.waitSamples > 0 && decoded+4 <= len(out) {
			p.pump.merge(p.chipSample())
			p.samplesPlayed++
			p.waitSamples--
			p.pump.step()
			for p.pump.pending() && decoded+4 <= len(out) {
				p.pump.emit(out[decoded:])
				decoded += 4
			}
		}
	}
	return decoded
}

// TotalSeconds returns the header's declared length in seconds.
func (p *VGMPlayer) TotalSeconds() float64 {
	return float64(p.hdr.TotalSamples) / VGM_SAMPLE_RATE
}
