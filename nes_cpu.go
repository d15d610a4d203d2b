// nes_cpu.go - 6502 bus glue for NSF playback.
//
// The CPU itself is beevik/go6502; this file provides the memory bus it
// executes against. The bus overlays the APU registers on $4000..$4017,
// routes NSF bank select writes at $5FF8..$5FFF, and exposes the
// CallSubroutine primitive the NSF driver uses to run init and play
// routines to their final RTS.

package main

import (
	"github.com/beevik/go6502/cpu"
)

// Documented opcodes. Hitting anything else aborts the subroutine call:
// a player routine that has jumped into garbage is never coming back.
var legalOpcodes [256]bool

func init() {
	documented := []uint8{
		0x00, 0x01, 0x05, 0x06, 0x08, 0x09, 0x0A, 0x0D, 0x0E,
		0x10, 0x11, 0x15, 0x16, 0x18, 0x19, 0x1D, 0x1E,
		0x20, 0x21, 0x24, 0x25, 0x26, 0x28, 0x29, 0x2A, 0x2C, 0x2D, 0x2E,
		0x30, 0x31, 0x35, 0x36, 0x38, 0x39, 0x3D, 0x3E,
		0x40, 0x41, 0x45, 0x46, 0x48, 0x49, 0x4A, 0x4C, 0x4D, 0x4E,
		0x50, 0x51, 0x55, 0x56, 0x58, 0x59, 0x5D, 0x5E,
		0x60, 0x61, 0x65, 0x66, 0x68, 0x69, 0x6A, 0x6C, 0x6D, 0x6E,
		0x70, 0x71, 0x75, 0x76, 0x78, 0x79, 0x7D, 0x7E,
		0x81, 0x84, 0x85, 0x86, 0x88, 0x8A, 0x8C, 0x8D, 0x8E,
		0x90, 0x91, 0x94, 0x95, 0x96, 0x98, 0x99, 0x9A, 0x9D,
		0xA0, 0xA1, 0xA2, 0xA4, 0xA5, 0xA6, 0xA8, 0xA9, 0xAA, 0xAC, 0xAD, 0xAE,
		0xB0, 0xB1, 0xB4, 0xB5, 0xB6, 0xB8, 0xB9, 0xBA, 0xBC, 0xBD, 0xBE,
		0xC0, 0xC1, 0xC4, 0xC5, 0xC6, 0xC8, 0xC9, 0xCA, 0xCC, 0xCD, 0xCE,
		0xD0, 0xD1, 0xD5, 0xD6, 0xD8, 0xD9, 0xDD, 0xDE,
		0xE0, 0xE1, 0xE4, 0xE5, 0xE6, 0xE8, 0xE9, 0xEA, 0xEC, 0xED, 0xEE,
		0xF0, 0xF1, 0xF5, 0xF6, 0xF8, 0xF9, 0xFD, 0xFE,
	}
	for _, op := range documented {
		legalOpcodes[op] = true
	}
}

// CallSubroutine leaves this address in PC once the routine's final RTS
// executes. The pushed return address is rtsSentinel-1 because RTS adds one.
const rtsSentinel = 0xFFFD

// NesCpu couples a go6502 core to the APU's address space.
type NesCpu struct {
	apu *NesApu
	cpu *cpu.CPU

	rom    []byte
	banked bool
}

// NewNesCpu creates a CPU wired to the given APU's memory.
func NewNesCpu(apu *NesApu) *NesCpu {
	bus := &NesCpu{apu: apu}
	bus.cpu = cpu.NewCPU(cpu.NMOS, bus)
	return bus
}

// Registers exposes the 6502 register file for bootstrap and tests.
func (n *NesCpu) Registers() *cpu.Registers {
	return &n.cpu.Reg
}

// LoadImage installs an NSF ROM image. The image is always copied linearly
// to loadAddr; when any bank byte is nonzero the image is also retained,
// padded to a 4 KiB boundary, for bank select writes to page in.
func (n *NesCpu) LoadImage(loadAddr uint16, data []byte, banks [8]uint8) {
	n.banked = false
	for _, b := range banks {
		if b != 0 {
			n.banked = true
			break
		}
	}
	n.apu.LoadAt(loadAddr, data)
	if n.banked {
		pad := int(loadAddr) & (NSF_BANK_SIZE - 1)
		n.rom = make([]byte, pad+len(data))
		copy(n.rom[pad:], data)
	} else {
		n.rom = nil
	}
}

func (n *NesCpu) switchBank(slot int, page uint8) {
	if n.rom == nil {
		return
	}
	base := NSF_BANK_WINDOW + slot*NSF_BANK_SIZE
	dst := n.apu.Mem[base : base+NSF_BANK_SIZE]
	clear(dst)
	off := int(page) * NSF_BANK_SIZE
	if off < len(n.rom) {
		copy(dst, n.rom[off:])
	}
}

// LoadByte implements the go6502 memory interface.
func (n *NesCpu) LoadByte(addr uint16) byte {
	if addr == 0x4015 {
		return n.apu.ReadStatus()
	}
	return n.apu.Mem[addr]
}

// LoadBytes implements the go6502 memory interface.
func (n *NesCpu) LoadBytes(addr uint16, b []byte) {
	for i := range b {
		b[i] = n.LoadByte(addr + uint16(i))
	}
}

// LoadAddress implements the go6502 memory interface, including the 6502's
// page-boundary wraparound on the high byte fetch.
func (n *NesCpu) LoadAddress(addr uint16) uint16 {
	if addr&0xFF == 0xFF {
		return uint16(n.LoadByte(addr)) | uint16(n.LoadByte(addr&0xFF00))<<8
	}
	return uint16(n.LoadByte(addr)) | uint16(n.LoadByte(addr+1))<<8
}

// StoreByte implements the go6502 memory interface. APU registers and NSF
// bank selects are intercepted; the raw byte is stored either way so that
// code reading its own writes back sees them.
func (n *NesCpu) StoreByte(addr uint16, v byte) {
	n.apu.Mem[addr] = v
	switch {
	case addr >= 0x4000 && addr <= 0x4017:
		n.apu.Write(addr, v)
	case addr >= NSF_BANK_REG_BASE && addr <= NSF_BANK_REG_BASE+7:
		n.switchBank(int(addr-NSF_BANK_REG_BASE), v)
	}
}

// StoreBytes implements the go6502 memory interface.
func (n *NesCpu) StoreBytes(addr uint16, b []byte) {
	for i, v := range b {
		n.StoreByte(addr+uint16(i), v)
	}
}

// StoreAddress implements the go6502 memory interface.
func (n *NesCpu) StoreAddress(addr uint16, v uint16) {
	n.StoreByte(addr, byte(v))
	if addr&0xFF == 0xFF {
		n.StoreByte(addr&0xFF00, byte(v>>8))
	} else {
		n.StoreByte(addr+1, byte(v>>8))
	}
}

// CallSubroutine pushes a sentinel return address, executes from addr until
// the matching RTS pops it, and returns the cycles consumed. It returns 0
// when maxCycles ran out before the routine returned and a negative value
// when execution hit an undocumented opcode.
func (n *NesCpu) CallSubroutine(addr uint16, maxCycles int) int {
	if maxCycles <= 0 {
		maxCycles = NSF_CALL_CYCLE_LIMIT
	}

	ret := uint16(rtsSentinel - 1)
	sp := n.cpu.Reg.SP
	n.apu.Mem[0x100+uint16(sp)] = byte(ret >> 8)
	sp--
	n.apu.Mem[0x100+uint16(sp)] = byte(ret)
	sp--
	n.cpu.Reg.SP = sp
	n.cpu.SetPC(addr)

	start := n.cpu.Cycles
	for n.cpu.Reg.PC != rtsSentinel {
		if n.cpu.Cycles-start >= uint64(maxCycles) {
			return 0
		}
		if !legalOpcodes[n.apu.Mem[n.cpu.Reg.PC]] {
			return -1
		}
		n.cpu.Step()
	}
	used := int(n.cpu.Cycles - start)
	if used <= 0 {
		used = 1
	}
	return used
}
