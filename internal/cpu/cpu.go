// Package cpu implements the 6502 CPU core used in the NES (2A03 variant,
// decimal mode disabled).
package cpu

import "fmt"

// AddressingMode selects how an instruction's operand is resolved.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

const (
	stackBase = 0x0100

	flagC = 0x01
	flagZ = 0x02
	flagI = 0x04
	flagD = 0x08
	flagB = 0x10
	flagU = 0x20
	flagV = 0x40
	flagN = 0x80

	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE
)

// Instruction describes one opcode: mnemonic, encoded length, base cycle
// cost, and addressing mode. Page-cross and branch penalties are added at
// execution time.
type Instruction struct {
	Name   string
	Bytes  uint8
	Cycles uint8
	Mode   AddressingMode
}

// Memory is the CPU's view of the system bus.
type Memory interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CPU holds the register file and interrupt lines of the 6502.
type CPU struct {
	A  uint8
	X  uint8
	Y  uint8
	SP uint8
	PC uint16

	// Status flags. B has no storage: it only exists on pushed copies of
	// the status byte.
	C bool
	Z bool
	I bool
	D bool
	V bool
	N bool

	memory Memory
	cycles uint64

	nmiPending bool
	irqPending bool
}

// New creates a CPU attached to the given memory. PC is undefined until
// Reset reads the reset vector.
func New(memory Memory) *CPU {
	return &CPU{
		memory: memory,
		SP:     0xFD,
	}
}

// Reset performs the power-on/reset sequence: registers cleared, SP=$FD,
// status=I|U, PC loaded from $FFFC/$FFFD. Costs 7 cycles.
func (c *CPU) Reset() {
	c.A = 0
	c.X = 0
	c.Y = 0
	c.SP = 0xFD

	c.C = false
	c.Z = false
	c.I = true
	c.D = false
	c.V = false
	c.N = false

	c.PC = c.readWord(resetVector)
	c.cycles += 7

	c.nmiPending = false
	c.irqPending = false
}

// Cycles returns the total cycle count since power-on.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// TriggerNMI latches a non-maskable interrupt. It is serviced before the
// next instruction.
func (c *CPU) TriggerNMI() {
	c.nmiPending = true
}

// TriggerIRQ latches a maskable interrupt request. It is serviced before
// the next instruction once the I flag allows it.
func (c *CPU) TriggerIRQ() {
	c.irqPending = true
}

// Step services any pending interrupt and then executes one complete
// instruction, returning the total cycles consumed. Instructions are atomic:
// no partial state is observable across Step boundaries.
func (c *CPU) Step() uint64 {
	start := c.cycles

	if c.nmiPending {
		c.nmiPending = false
		c.interrupt(nmiVector)
	} else if c.irqPending && !c.I {
		c.irqPending = false
		c.interrupt(irqVector)
	}

	opcode := c.memory.Read(c.PC)
	ins := opcodeTable[opcode]

	address, pageCrossed := c.operandAddress(ins.Mode)
	extra := c.execute(opcode, address, pageCrossed)

	if pageCrossed && pageCrossPenalty[opcode] {
		extra++
	}

	c.cycles += uint64(ins.Cycles + extra)
	return c.cycles - start
}

// interrupt runs the common NMI/IRQ sequence: push PC and status (B clear,
// U set), set I, load the vector. 7 cycles.
func (c *CPU) interrupt(vector uint16) {
	c.pushWord(c.PC)
	c.push(c.Status() &^ flagB)
	c.I = true
	c.PC = c.readWord(vector)
	c.cycles += 7
}

// operandAddress resolves the effective address for the addressing mode and
// advances PC past the instruction. The second result reports a page
// crossing for modes where that costs a cycle.
func (c *CPU) operandAddress(mode AddressingMode) (uint16, bool) {
	switch mode {
	case Implied, Accumulator:
		c.PC++
		return 0, false

	case Immediate:
		address := c.PC + 1
		c.PC += 2
		return address, false

	case ZeroPage:
		address := uint16(c.memory.Read(c.PC + 1))
		c.PC += 2
		return address, false

	case ZeroPageX:
		address := uint16(c.memory.Read(c.PC+1) + c.X) // wraps within page zero
		c.PC += 2
		return address, false

	case ZeroPageY:
		address := uint16(c.memory.Read(c.PC+1) + c.Y)
		c.PC += 2
		return address, false

	case Relative:
		offset := int8(c.memory.Read(c.PC + 1))
		next := c.PC + 2
		target := uint16(int32(next) + int32(offset))
		c.PC = next
		return target, (next & 0xFF00) != (target & 0xFF00)

	case Absolute:
		address := c.readWord(c.PC + 1)
		c.PC += 3
		return address, false

	case AbsoluteX:
		base := c.readWord(c.PC + 1)
		address := base + uint16(c.X)
		c.PC += 3
		return address, (base & 0xFF00) != (address & 0xFF00)

	case AbsoluteY:
		base := c.readWord(c.PC + 1)
		address := base + uint16(c.Y)
		c.PC += 3
		return address, (base & 0xFF00) != (address & 0xFF00)

	case Indirect:
		ptr := c.readWord(c.PC + 1)
		c.PC += 3
		return c.readWordBug(ptr), false

	case IndexedIndirect:
		zp := c.memory.Read(c.PC+1) + c.X
		lo := uint16(c.memory.Read(uint16(zp)))
		hi := uint16(c.memory.Read(uint16(zp + 1)))
		c.PC += 2
		return hi<<8 | lo, false

	case IndirectIndexed:
		zp := c.memory.Read(c.PC + 1)
		lo := uint16(c.memory.Read(uint16(zp)))
		hi := uint16(c.memory.Read(uint16(zp + 1)))
		base := hi<<8 | lo
		address := base + uint16(c.Y)
		c.PC += 2
		return address, (base & 0xFF00) != (address & 0xFF00)
	}
	return 0, false
}

func (c *CPU) readWord(address uint16) uint16 {
	lo := uint16(c.memory.Read(address))
	hi := uint16(c.memory.Read(address + 1))
	return hi<<8 | lo
}

// readWordBug replicates the JMP ($xxFF) hardware bug: the high byte is
// fetched from the start of the same page, not the next one.
func (c *CPU) readWordBug(address uint16) uint16 {
	lo := uint16(c.memory.Read(address))
	hiAddr := (address & 0xFF00) | uint16(uint8(address)+1)
	hi := uint16(c.memory.Read(hiAddr))
	return hi<<8 | lo
}

// Stack operations. Pushes decrement SP, pulls pre-increment.
func (c *CPU) push(value uint8) {
	c.memory.Write(stackBase+uint16(c.SP), value)
	c.SP--
}

func (c *CPU) pull() uint8 {
	c.SP++
	return c.memory.Read(stackBase + uint16(c.SP))
}

func (c *CPU) pushWord(value uint16) {
	c.push(uint8(value >> 8))
	c.push(uint8(value))
}

func (c *CPU) pullWord() uint16 {
	lo := uint16(c.pull())
	hi := uint16(c.pull())
	return hi<<8 | lo
}

// Status packs the flags into a byte. U is always set; B is always clear
// here and only set on copies pushed by PHP/BRK.
func (c *CPU) Status() uint8 {
	status := uint8(flagU)
	if c.C {
		status |= flagC
	}
	if c.Z {
		status |= flagZ
	}
	if c.I {
		status |= flagI
	}
	if c.D {
		status |= flagD
	}
	if c.V {
		status |= flagV
	}
	if c.N {
		status |= flagN
	}
	return status
}

// SetStatus unpacks a status byte into the flags. B and U have no storage
// and are ignored.
func (c *CPU) SetStatus(status uint8) {
	c.C = status&flagC != 0
	c.Z = status&flagZ != 0
	c.I = status&flagI != 0
	c.D = status&flagD != 0
	c.V = status&flagV != 0
	c.N = status&flagN != 0
}

// setZN updates Z and N from a result byte.
func (c *CPU) setZN(value uint8) {
	c.Z = value == 0
	c.N = value&0x80 != 0
}

// String formats the register file in one line for the debugger.
func (c *CPU) String() string {
	return fmt.Sprintf("A:%02X X:%02X Y:%02X P:%02X SP:%02X PC:%04X CYC:%d",
		c.A, c.X, c.Y, c.Status(), c.SP, c.PC, c.cycles)
}
