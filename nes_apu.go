// nes_apu.go - NES APU (2A03, NTSC) register file, frame sequencer and mixer.
//
// The APU owns the 64 KiB CPU address space image so that the DMC can fetch
// sample bytes and so NSF images have somewhere to live. Register writes may
// arrive either as VGM register indexes (0x00..0x1F) or as full CPU
// addresses ($4000..$4017).

package main

// Frame sequencer step positions in CPU cycles (NTSC).
const (
	apuFrameQuarter1 = 7457
	apuFrameQuarter2 = 14913
	apuFrameQuarter3 = 22371
	apuFrameStep4    = 29829
	apuFrameStep5    = 37281
)

// NesApu emulates the 2A03 sound hardware at the NTSC clock.
type NesApu struct {
	Mem []byte

	clockHz    uint32
	sampleRate uint32
	cycleAcc   uint32

	pulse1   pulseChannel
	pulse2   pulseChannel
	triangle triangleChannel
	noise    noiseChannel
	dmc      dmcChannel

	frameMode      uint8
	frameInhibit   bool
	frameCycle     uint32
	frameInterrupt bool

	userVolume uint8
}

// NewNesApu creates an APU with a zeroed address space.
func NewNesApu() *NesApu {
	apu := &NesApu{
		Mem:        make([]byte, 0x10000),
		clockHz:    NES_CPU_CLOCK,
		sampleRate: VGM_SAMPLE_RATE,
		userVolume: DEFAULT_USER_VOLUME,
	}
	apu.Reset()
	return apu
}

// Reset puts every channel back in its power-on state. The address space
// image is left alone; callers that need clean RAM clear it themselves.
func (apu *NesApu) Reset() {
	apu.pulse1 = pulseChannel{onesComplement: true}
	apu.pulse2 = pulseChannel{}
	apu.triangle = triangleChannel{}
	apu.noise = noiseChannel{shift: 1, period: apuNoisePeriods[0]}
	apu.dmc = dmcChannel{
		period: apuDmcPeriods[0],
		readMem: func(addr uint16) uint8 {
			return apu.Mem[addr]
		},
	}
	apu.frameMode = 0
	apu.frameInhibit = false
	apu.frameCycle = 0
	apu.frameInterrupt = false
	apu.cycleAcc = 0
}

// SetFrequency sets the CPU/APU clock in Hz.
func (apu *NesApu) SetFrequency(frequency uint32) {
	if frequency == 0 {
		return
	}
	apu.clockHz = frequency
}

// SetSampleFrequency sets the output sample rate in Hz.
func (apu *NesApu) SetSampleFrequency(frequency uint32) {
	if frequency == 0 {
		return
	}
	apu.sampleRate = frequency
}

// GetSampleFrequency returns the configured output sample rate.
func (apu *NesApu) GetSampleFrequency() uint32 {
	return apu.sampleRate
}

// SetVolume changes the output level. The default is 64.
func (apu *NesApu) SetVolume(volume uint8) {
	apu.userVolume = volume
}

// Write dispatches a register write. reg may be a VGM register index
// (0x00..0x1F) or a full address; anything outside $4000..$4017 is ignored.
func (apu *NesApu) Write(reg uint16, value uint8) {
	addr := reg
	if addr < 0x20 {
		addr += 0x4000
	}
	switch addr {
	case 0x4000:
		apu.pulse1.writeControl(value)
	case 0x4001:
		apu.pulse1.writeSweep(value)
	case 0x4002:
		apu.pulse1.writeTimerLow(value)
	case 0x4003:
		apu.pulse1.writeTimerHigh(value)
	case 0x4004:
		apu.pulse2.writeControl(value)
	case 0x4005:
		apu.pulse2.writeSweep(value)
	case 0x4006:
		apu.pulse2.writeTimerLow(value)
	case 0x4007:
		apu.pulse2.writeTimerHigh(value)
	case 0x4008:
		apu.triangle.writeLinear(value)
	case 0x400A:
		apu.triangle.writeTimerLow(value)
	case 0x400B:
		apu.triangle.writeTimerHigh(value)
	case 0x400C:
		apu.noise.writeControl(value)
	case 0x400E:
		apu.noise.writeMode(value)
	case 0x400F:
		apu.noise.writeLength(value)
	case 0x4010:
		apu.dmc.writeControl(value)
	case 0x4011:
		apu.dmc.writeValue(value)
	case 0x4012:
		apu.dmc.writeAddr(value)
	case 0x4013:
		apu.dmc.writeLength(value)
	case 0x4015:
		apu.writeStatus(value)
	case 0x4017:
		apu.writeFrameCounter(value)
	}
}

func (apu *NesApu) writeStatus(value uint8) {
	apu.pulse1.setEnabled(value&0x01 != 0)
	apu.pulse2.setEnabled(value&0x02 != 0)
	apu.triangle.setEnabled(value&0x04 != 0)
	apu.noise.setEnabled(value&0x08 != 0)
	apu.dmc.setEnabled(value&0x10 != 0)
}

// ReadStatus returns the $4015 status byte and clears the frame interrupt
// flag.
func (apu *NesApu) ReadStatus() uint8 {
	var status uint8
	if apu.pulse1.lengthCounter > 0 {
		status |= 0x01
	}
	if apu.pulse2.lengthCounter > 0 {
		status |= 0x02
	}
	if apu.triangle.lengthCounter > 0 {
		status |= 0x04
	}
	if apu.noise.lengthCounter > 0 {
		status |= 0x08
	}
	if apu.dmc.bytesRemaining > 0 {
		status |= 0x10
	}
	if apu.frameInterrupt {
		status |= 0x40
	}
	apu.frameInterrupt = false
	return status
}

func (apu *NesApu) writeFrameCounter(value uint8) {
	apu.frameMode = value >> 7
	apu.frameInhibit = value&0x40 != 0
	apu.frameCycle = 0
	if apu.frameInhibit {
		apu.frameInterrupt = false
	}
	if apu.frameMode == 1 {
		// The five-step sequence clocks everything immediately.
		apu.clockQuarterFrame()
		apu.clockHalfFrame()
	}
}

// SetDataBlock loads a VGM data block. Only the NES APU RAM block type
// (0xC2) carries sample data: two little-endian bytes of base offset
// followed by the bytes to deposit at $C000+offset.
func (apu *NesApu) SetDataBlock(blockType uint8, data []byte) {
	if blockType != 0xC2 || len(data) < 2 {
		return
	}
	base := 0xC000 + int(uint16(data[0])|uint16(data[1])<<8)
	payload := data[2:]
	end := min(len(payload), len(apu.Mem)-base)
	if end <= 0 {
		return
	}
	copy(apu.Mem[base:], payload[:end])
}

// LoadAt copies a ROM image into the address space starting at addr,
// clipped at the top of memory.
func (apu *NesApu) LoadAt(addr uint16, data []byte) {
	end := min(len(data), len(apu.Mem)-int(addr))
	if end <= 0 {
		return
	}
	copy(apu.Mem[addr:], data[:end])
}

func (apu *NesApu) clockQuarterFrame() {
	apu.pulse1.env.clock()
	apu.pulse2.env.clock()
	apu.noise.env.clock()
	apu.triangle.clockLinear()
}

func (apu *NesApu) clockHalfFrame() {
	apu.pulse1.clockLength()
	apu.pulse2.clockLength()
	apu.triangle.clockLength()
	apu.noise.clockLength()
	apu.pulse1.clockSweep()
	apu.pulse2.clockSweep()
}

// tick advances the APU by one CPU cycle.
func (apu *NesApu) tick() {
	apu.frameCycle++
	if apu.frameMode == 0 {
		switch apu.frameCycle {
		case apuFrameQuarter1, apuFrameQuarter3:
			apu.clockQuarterFrame()
		case apuFrameQuarter2:
			apu.clockQuarterFrame()
			apu.clockHalfFrame()
		case apuFrameStep4:
			apu.clockQuarterFrame()
			apu.clockHalfFrame()
			if !apu.frameInhibit {
				apu.frameInterrupt = true
			}
			apu.frameCycle = 0
		}
	} else {
		switch apu.frameCycle {
		case apuFrameQuarter1, apuFrameQuarter3:
			apu.clockQuarterFrame()
		case apuFrameQuarter2:
			apu.clockQuarterFrame()
			apu.clockHalfFrame()
		case apuFrameStep5:
			apu.clockQuarterFrame()
			apu.clockHalfFrame()
			apu.frameCycle = 0
		}
	}

	apu.pulse1.clockTimer()
	apu.pulse2.clockTimer()
	apu.triangle.clockTimer()
	apu.noise.clockTimer()
	apu.dmc.clockTimer()
}

// GetSample runs the APU for one output sample's worth of CPU cycles and
// returns the mixed packed stereo sample.
func (apu *NesApu) GetSample() uint32 {
	apu.cycleAcc += apu.clockHz
	cycles := apu.cycleAcc / apu.sampleRate
	apu.cycleAcc -= cycles * apu.sampleRate

	var sumP1, sumP2, sumTri, sumNoise, sumDmc uint32
	for range cycles {
		apu.tick()
		sumP1 += uint32(apu.pulse1.output())
		sumP2 += uint32(apu.pulse2.output())
		sumTri += uint32(apu.triangle.output())
		sumNoise += uint32(apu.noise.output())
		sumDmc += uint32(apu.dmc.output())
	}
	if cycles == 0 {
		cycles = 1
	}

	n := float64(cycles)
	p := float64(sumP1+sumP2) / n
	tri := float64(sumTri) / n
	noise := float64(sumNoise) / n
	dmc := float64(sumDmc) / n

	var pulseOut, tndOut float64
	if p > 0 {
		pulseOut = 95.88 / (8128.0/p + 100.0)
	}
	tnd := tri/8227.0 + noise/12241.0 + dmc/22638.0
	if tnd > 0 {
		tndOut = 159.79 / (1.0/tnd + 100.0)
	}

	out := uint32((pulseOut+tndOut)*65535.0) * uint32(apu.userVolume) >> 8
	if out > 0xFFFF {
		out = 0xFFFF
	}
	return out | out<<16
}
