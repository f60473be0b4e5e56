// Package bus implements the NES system bus: CPU address decode, the 2KB
// internal RAM, OAM DMA, and the master clock that keeps the CPU, PPU, and
// APU in lockstep.
package bus

import (
	"famicore/internal/apu"
	"famicore/internal/cartridge"
	"famicore/internal/cpu"
	"famicore/internal/input"
	"famicore/internal/ppu"
)

// Bus owns the CPU, PPU, and APU and holds a non-owning reference to the
// externally loaded cartridge.
type Bus struct {
	CPU        *cpu.CPU
	PPU        *ppu.PPU
	APU        *apu.APU
	Controller *input.Controller

	cart *cartridge.Cartridge

	ram [0x0800]uint8

	cycles    uint64 // master (PPU dot) cycles
	cpuBudget uint64 // cycles left before the CPU runs its next instruction
	openBus   uint8
}

// New builds the machine and wires the components together. The cartridge
// is attached later via Connect.
func New() *Bus {
	b := &Bus{
		PPU:        ppu.New(),
		APU:        apu.New(),
		Controller: input.New(),
	}
	b.CPU = cpu.New(b)
	return b
}

// Connect attaches a cartridge to the CPU and PPU sides of the bus.
func (b *Bus) Connect(cart *cartridge.Cartridge) {
	b.cart = cart
	b.PPU.Connect(cart)
}

// ConnectAudio attaches the audio sink consuming APU samples.
func (b *Bus) ConnectAudio(sink apu.SampleSink) {
	b.APU.Connect(sink)
}

// Reset restores CPU/PPU/APU power-on state and re-reads the reset vector.
func (b *Bus) Reset() {
	b.CPU.Reset()
	b.PPU.Reset()
	b.APU.Reset()
	b.cycles = 0
	b.cpuBudget = 0
}

// Cycles returns the master cycle count since reset.
func (b *Bus) Cycles() uint64 {
	return b.cycles
}

// Clock advances the machine by one master tick (one PPU dot). Every third
// tick the CPU and APU advance one cycle. The PPU steps first so that an
// NMI raised at the vblank edge reaches the CPU before its next
// instruction.
func (b *Bus) Clock() {
	b.PPU.Step()

	if b.cycles%3 == 0 {
		if b.cpuBudget == 0 {
			// DMA triggered inside the instruction adds its stall to the
			// budget, so accumulate rather than assign.
			b.cpuBudget += b.CPU.Step()
		}
		b.cpuBudget--
		b.APU.Step()
	}

	if b.PPU.TakeNMI() {
		b.CPU.TriggerNMI()
	}
	if b.APU.TakeIRQ() {
		b.CPU.TriggerIRQ()
	}
	if b.cart != nil && b.cart.IRQPending() {
		b.CPU.TriggerIRQ()
	}

	b.cycles++
}

// StepInstruction clocks the machine until the CPU has executed exactly
// one more instruction and its cycle budget has elapsed. Used by the
// debugger; the PPU and APU stay in sync.
func (b *Bus) StepInstruction() {
	start := b.CPU.Cycles()
	for b.CPU.Cycles() == start || b.cpuBudget != 0 {
		b.Clock()
	}
	b.PPU.ClearFrameComplete()
}

// RunFrame clocks the machine until the PPU completes the current frame.
func (b *Bus) RunFrame() {
	for !b.PPU.FrameComplete() {
		b.Clock()
	}
	b.PPU.ClearFrameComplete()
}

// Read services a CPU read. Write-only and unmapped locations return 0
// (modeled open bus).
func (b *Bus) Read(address uint16) uint8 {
	var data uint8

	switch {
	case address < 0x2000:
		data = b.ram[address&0x07FF]

	case address < 0x4000:
		data = b.PPU.ReadRegister(0x2000 | (address & 0x0007))

	case address == 0x4015:
		data = b.APU.ReadStatus()

	case address == 0x4014:
		data = 0 // write-only

	case address == 0x4016:
		data = b.Controller.Read()

	case address == 0x4017:
		data = 0x40 // controller 2 not connected

	case address < 0x4020:
		data = 0 // APU registers are write-only; test registers read 0

	default:
		// $4020-$FFFF: cartridge space. The full address goes to the
		// mapper; it owns the $6000-$7FFF PRG RAM decode as well.
		if b.cart != nil {
			data = b.cart.ReadPRG(address)
		}
	}

	b.openBus = data
	return data
}

// Write services a CPU write.
func (b *Bus) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		b.ram[address&0x07FF] = value

	case address < 0x4000:
		b.PPU.WriteRegister(0x2000|(address&0x0007), value)

	case address == 0x4014:
		b.oamDMA(value)

	case address == 0x4016:
		b.Controller.Write(value)

	case address < 0x4018:
		b.APU.WriteRegister(address, value)

	case address < 0x4020:
		// APU test registers, ignored

	default:
		if b.cart != nil {
			b.cart.WritePRG(address, value)
		}
	}
}

// oamDMA copies the 256-byte page at page<<8 into PPU OAM through the CPU
// read port. The transfer is atomic from the core's point of view and
// stalls the CPU for 513 cycles.
func (b *Bus) oamDMA(page uint8) {
	base := uint16(page) << 8
	for i := uint16(0); i < 256; i++ {
		b.PPU.DMAWrite(b.Read(base + i))
	}
	b.cpuBudget += 513
}
