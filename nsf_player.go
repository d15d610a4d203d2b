// nsf_player.go - NSF bootstrap and play scheduling.
//
// An NSF image is a 6502 program: init(track) is called once, then play()
// fires on the cadence the header requests while the APU renders whatever
// the routines poke into it.

package main

import (
	log "github.com/sirupsen/logrus"
)

// NSFPlayer runs an NSF image through the emulated CPU and APU.
type NSFPlayer struct {
	hdr  *NSFHeader
	data []byte

	apu *NesApu
	bus *NesCpu

	track         int
	waitSamples   uint32
	samplesPlayed uint64
	duration      uint64
	stopped       bool

	pump samplePump
}

func newNSFPlayer(data []byte, hdr *NSFHeader) (*NSFPlayer, error) {
	p := &NSFPlayer{
		hdr:  hdr,
		data: data,
		apu:  NewNesApu(),
		pump: newSamplePump(),
	}
	p.bus = NewNesCpu(p.apu)
	p.SetMaxDuration(DEFAULT_MAX_DURATION_MS)

	start := int(hdr.StartingSong) - 1
	if start < 0 {
		start = 0
	}
	if !p.SetTrack(start) {
		return nil, errInitFailed
	}
	return p, nil
}

// SetMaxDuration caps playback at the given length in milliseconds.
func (p *NSFPlayer) SetMaxDuration(milliseconds uint32) {
	p.duration = uint64(milliseconds) * VGM_SAMPLE_RATE / 1000
}

// SetSampleFrequency sets the host output rate in Hz.
func (p *NSFPlayer) SetSampleFrequency(frequency uint32) {
	p.pump.setRate(frequency)
}

// SetVolume forwards the output level to the APU.
func (p *NSFPlayer) SetVolume(volume uint8) {
	p.apu.SetVolume(volume)
}

// TrackCount returns the number of songs in the image.
func (p *NSFPlayer) TrackCount() int {
	return int(p.hdr.SongCount)
}

// Track returns the current zero-based track index.
func (p *NSFPlayer) Track() int {
	return p.track
}

// SetTrack restarts playback on the given zero-based track: reset the APU,
// reload the ROM image, switch in the initial banks, scrub RAM and the APU
// registers, then run the image's init routine.
func (p *NSFPlayer) SetTrack(track int) bool {
	if track < 0 || track >= int(p.hdr.SongCount) {
		track = 0
	}

	p.apu.Reset()
	p.bus.LoadImage(p.hdr.LoadAddr, p.data[NSF_HEADER_SIZE:], p.hdr.BankSwitch)

	useBanks := false
	for _, b := range p.hdr.BankSwitch {
		if b != 0 {
			useBanks = true
			break
		}
	}
	if useBanks {
		for i, b := range p.hdr.BankSwitch {
			p.bus.StoreByte(uint16(NSF_BANK_REG_BASE+i), b)
		}
	}

	for addr := 0; addr <= 0x07FF; addr++ {
		p.apu.Mem[addr] = 0
	}
	for addr := uint16(0x4000); addr <= 0x4013; addr++ {
		p.bus.StoreByte(addr, 0)
	}
	// Disable everything, then enable the four analogue channels. The
	// order matters: the first write clears the length counters.
	p.bus.StoreByte(0x4015, 0x00)
	p.bus.StoreByte(0x4015, 0x0F)
	p.bus.StoreByte(0x4017, 0x40)

	reg := p.bus.Registers()
	reg.A = uint8(track)
	reg.X = 0 // NTSC
	reg.SP = 0xEF

	if p.bus.CallSubroutine(p.hdr.InitAddr, NSF_CALL_CYCLE_LIMIT) < 0 {
		log.Errorf("nsf: init routine at $%04X faulted", p.hdr.InitAddr)
		return false
	}

	p.track = track
	p.samplesPlayed = 0
	p.waitSamples = 0
	p.stopped = false
	return true
}

// DecodePCM renders stereo frames into out, invoking the play routine each
// time the wait window drains. It returns the bytes written; a CPU fault or
// a runaway play routine ends the stream with the partial buffer intact.
func (p *NSFPlayer) DecodePCM(out []byte) int {
	decoded := 0
	for decoded+4 <= len(out) {
		if p.stopped {
			break
		}
		if p.waitSamples == 0 {
			if p.duration > 0 && p.samplesPlayed >= p.duration {
				break
			}
			result := p.bus.CallSubroutine(p.hdr.PlayAddr, NSF_CALL_CYCLE_LIMIT)
			if result < 0 {
				log.Errorf("nsf: play routine at $%04X faulted, stopping", p.hdr.PlayAddr)
				p.stopped = true
				break
			}
			if result == 0 {
				log.Warnf("nsf: play routine at $%04X exceeded %d cycles, stopping", p.hdr.PlayAddr, NSF_CALL_CYCLE_LIMIT)
				p.stopped = true
				break
			}
			p.waitSamples = uint32(uint64(VGM_SAMPLE_RATE) * uint64(p.hdr.NtscPlaySpeed) / 1000000)
			if p.waitSamples == 0 {
				// A zero play speed would spin on the play routine.
				p.waitSamples = VGM_SAMPLE_RATE / 60
			}
		}
		for p.waitSamples > 0 && decoded+4 <= len(out) {
			p.pump.merge(p.apu.GetSample())
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
