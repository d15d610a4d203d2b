// psg_ay38910.go - AY-3-8910 / YM2149 family PSG emulation.
//
// The chip renders one packed stereo sample per GetSample call at the
// configured sample frequency (44100 Hz for VGM playback). Tone, noise and
// envelope counters run in 24.8 fixed point so that pitch stays within
// a fraction of a hertz of the real divider chain.

package main

// AY38910 emulates the register file and sound generation of the AY/YM
// PSG family. The chip variant selects the DAC curve and the envelope
// step granularity (32 steps on the AY8930, 16 elsewhere).
type AY38910 struct {
	chipType uint8
	flags    uint8

	frequency       uint32
	sampleFrequency uint32

	// Per-sample counter increments, 8 fractional bits.
	toneScale  uint32
	noiseScale uint32
	envScale   uint32

	regs [16]uint8

	period        [3]uint32
	counter       [3]uint32
	amplitude     [3]uint8
	useEnvelope   [3]bool
	channelOutput [3]bool

	periodNoise  uint32
	counterNoise uint32
	noiseHigh    bool
	rng          uint32

	mixer uint8

	periodE    uint32
	counterEnv uint32
	envVolume  uint8
	holding    bool
	hold       bool
	attack     bool
	continue_  bool
	alternate  bool

	envStepMask uint8
	levelTable  []uint16
	userVolume  uint8
}

// NewAY38910 creates a PSG of the given variant. The default master clock
// is 3579545 Hz and the default sample frequency 44100 Hz.
func NewAY38910(chipType uint8, flags uint8) *AY38910 {
	psg := &AY38910{
		chipType:        chipType,
		flags:           flags,
		frequency:       PSG_CLOCK_DEFAULT,
		sampleFrequency: VGM_SAMPLE_RATE,
		userVolume:      DEFAULT_USER_VOLUME,
		envStepMask:     0x0F,
	}
	if chipType == CHIP_TYPE_AY8930 {
		psg.envStepMask = 0x1F
	}
	psg.levelTable = levelTableFor(chipType)
	psg.updateScales()
	psg.Reset()
	return psg
}

// Reset returns the chip to its power-on state: all generators stopped,
// every channel muted through the mixer, and the noise LFSR seeded to 1
// (zero is an absorbing state for the feedback polynomial).
func (psg *AY38910) Reset() {
	for ch := range 3 {
		psg.period[ch] = 0
		psg.counter[ch] = 0
		psg.amplitude[ch] = 0
		psg.useEnvelope[ch] = false
		psg.channelOutput[ch] = false
	}
	for reg := range psg.regs {
		psg.regs[reg] = 0
	}
	psg.periodNoise = 0
	psg.counterNoise = 0
	psg.noiseHigh = false
	psg.rng = 1
	psg.mixer = 0x3F
	psg.regs[7] = 0x3F
	psg.periodE = 0
	psg.counterEnv = 0
	psg.envVolume = 0
	psg.holding = true
	psg.hold = false
	psg.attack = false
	psg.continue_ = false
	psg.alternate = false
}

// SetFrequency sets the master clock in Hz.
func (psg *AY38910) SetFrequency(frequency uint32) {
	if frequency == 0 {
		return
	}
	psg.frequency = frequency
	psg.updateScales()
}

// SetSampleFrequency sets the output sample rate in Hz. Rates far below
// 44100 Hz degrade high tones; downsample the output instead.
func (psg *AY38910) SetSampleFrequency(frequency uint32) {
	if frequency == 0 {
		return
	}
	psg.sampleFrequency = frequency
	psg.updateScales()
}

// GetSampleFrequency returns the configured output sample rate.
func (psg *AY38910) GetSampleFrequency() uint32 {
	return psg.sampleFrequency
}

// SetVolume changes the output level. The default is 64.
func (psg *AY38910) SetVolume(volume uint8) {
	psg.userVolume = volume
}

func (psg *AY38910) updateScales() {
	clock := uint64(psg.frequency) << 8
	rate := uint64(psg.sampleFrequency)
	// The tone flip rate is clock/8 so a full square cycle comes out at
	// clock/(16*period). Noise shifts at clock/16 per period unit.
	psg.toneScale = uint32(clock / (8 * rate))
	psg.noiseScale = uint32(clock / (16 * rate))
	envDiv := uint64(16)
	if psg.envStepMask == 0x1F {
		// 32 envelope steps cover the same ramp time, so the step
		// clock doubles.
		envDiv = 8
	}
	psg.envScale = uint32(clock / (envDiv * rate))
}

// Write sets a PSG register. Writes outside the register window are ignored.
func (psg *AY38910) Write(reg uint8, value uint8) {
	if reg > 15 {
		return
	}
	switch reg {
	case 0, 2, 4:
		ch := int(reg) / 2
		psg.period[ch] = (psg.period[ch] & 0xF00) | uint32(value)
	case 1, 3, 5:
		ch := int(reg) / 2
		value &= 0x0F
		psg.period[ch] = (psg.period[ch] & 0x0FF) | uint32(value)<<8
	case 6:
		value &= 0x1F
		psg.periodNoise = uint32(value)
	case 7:
		psg.mixer = value
	case 8, 9, 10:
		ch := int(reg) - 8
		value &= 0x1F
		psg.amplitude[ch] = value & 0x0F
		psg.useEnvelope[ch] = value&0x10 != 0
	case 11:
		psg.periodE = (psg.periodE & 0xFF00) | uint32(value)
	case 12:
		psg.periodE = (psg.periodE & 0x00FF) | uint32(value)<<8
	case 13:
		value &= 0x0F
		psg.continue_ = value&0x08 != 0
		psg.attack = value&0x04 != 0
		psg.alternate = value&0x02 != 0
		psg.hold = value&0x01 != 0
		psg.holding = false
		psg.counterEnv = 0
		if psg.attack {
			psg.envVolume = 0
		} else {
			psg.envVolume = psg.envStepMask
		}
	}
	psg.regs[reg] = value
}

// Read returns the last written value of a register.
func (psg *AY38910) Read(reg uint8) uint8 {
	if reg > 15 {
		return 0
	}
	return psg.regs[reg]
}

// GetSample advances the chip by one sample tick and returns one packed
// stereo sample, left in the low 16 bits and right in the high 16.
func (psg *AY38910) GetSample() uint32 {
	psg.advanceTone()
	psg.advanceNoise()
	psg.advanceEnvelope()

	var sum uint32
	for ch := range 3 {
		toneDisabled := psg.mixer>>ch&1 != 0
		noiseDisabled := psg.mixer>>(3+ch)&1 != 0
		if (psg.channelOutput[ch] || toneDisabled) && (psg.noiseHigh || noiseDisabled) {
			sum += uint32(psg.levelTable[psg.levelIndex(ch)])
		}
	}
	if sum > 0xFFFF {
		sum = 0xFFFF
	}
	out := sum * uint32(psg.userVolume) >> 8
	if out > 0xFFFF {
		out = 0xFFFF
	}
	return out | out<<16
}

func (psg *AY38910) levelIndex(ch int) uint8 {
	if psg.useEnvelope[ch] {
		return psg.envVolume
	}
	if psg.envStepMask == 0x1F {
		// Map the 4-bit fixed level onto the 32-entry curve.
		return psg.amplitude[ch]*2 + 1
	}
	return psg.amplitude[ch]
}

func (psg *AY38910) advanceTone() {
	for ch := range 3 {
		period := psg.period[ch]
		if period == 0 {
			period = 1
		}
		limit := period << 8
		psg.counter[ch] += psg.toneScale
		if psg.counter[ch] >= limit {
			flips := psg.counter[ch] / limit
			psg.counter[ch] %= limit
			if flips&1 == 1 {
				psg.channelOutput[ch] = !psg.channelOutput[ch]
			}
		}
	}
}

func (psg *AY38910) advanceNoise() {
	period := psg.periodNoise
	if period == 0 {
		period = 1
	}
	limit := period << 8
	psg.counterNoise += psg.noiseScale
	for psg.counterNoise >= limit {
		psg.counterNoise -= limit
		// 17-bit LFSR, taps 0 and 3.
		bit := (psg.rng ^ (psg.rng >> 3)) & 1
		psg.rng = (psg.rng >> 1) | (bit << 16)
		psg.noiseHigh = psg.rng&1 != 0
	}
}

func (psg *AY38910) advanceEnvelope() {
	period := psg.periodE
	if period == 0 {
		period = 1
	}
	limit := period << 8
	psg.counterEnv += psg.envScale
	for psg.counterEnv >= limit {
		psg.counterEnv -= limit
		psg.envTick()
	}
}

func (psg *AY38910) envTick() {
	if psg.holding {
		return
	}
	atTop := psg.attack && psg.envVolume == psg.envStepMask
	atBottom := !psg.attack && psg.envVolume == 0
	if !atTop && !atBottom {
		if psg.attack {
			psg.envVolume++
		} else {
			psg.envVolume--
		}
		return
	}
	switch {
	case !psg.continue_:
		psg.envVolume = 0
		psg.holding = true
	case psg.hold:
		// Shapes 0x0B and 0x0D park at the top, 0x09 and 0x0F at the
		// bottom.
		if psg.alternate != psg.attack {
			psg.envVolume = psg.envStepMask
		} else {
			psg.envVolume = 0
		}
		psg.holding = true
	case psg.alternate:
		// The boundary value repeats for one step while the ramp
		// reverses, matching the 32-step triangle of the real part.
		psg.attack = !psg.attack
	default:
		// Sawtooth: restart from the ramp origin.
		if psg.attack {
			psg.envVolume = 0
		} else {
			psg.envVolume = psg.envStepMask
		}
	}
}
