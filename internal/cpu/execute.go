package cpu

// Instruction implementations. Each returns any extra cycles beyond the
// table's base cost (branches only); page-cross penalties are applied by
// Step from the pageCrossPenalty table.

func (c *CPU) lda(address uint16) {
	c.A = c.memory.Read(address)
	c.setZN(c.A)
}

func (c *CPU) ldx(address uint16) {
	c.X = c.memory.Read(address)
	c.setZN(c.X)
}

func (c *CPU) ldy(address uint16) {
	c.Y = c.memory.Read(address)
	c.setZN(c.Y)
}

// adc adds memory plus carry into A. Binary only: D has no effect on this
// CPU variant.
func (c *CPU) adc(address uint16) {
	value := c.memory.Read(address)
	carry := uint16(0)
	if c.C {
		carry = 1
	}
	sum := uint16(c.A) + uint16(value) + carry

	c.V = (c.A^uint8(sum))&0x80 != 0 && (c.A^value)&0x80 == 0
	c.C = sum > 0xFF
	c.A = uint8(sum)
	c.setZN(c.A)
}

// sbc is adc with the operand inverted.
func (c *CPU) sbc(address uint16) {
	value := c.memory.Read(address) ^ 0xFF
	carry := uint16(0)
	if c.C {
		carry = 1
	}
	sum := uint16(c.A) + uint16(value) + carry

	c.V = (c.A^uint8(sum))&0x80 != 0 && (c.A^value)&0x80 == 0
	c.C = sum > 0xFF
	c.A = uint8(sum)
	c.setZN(c.A)
}

func (c *CPU) compare(register uint8, address uint16) {
	value := c.memory.Read(address)
	c.C = register >= value
	c.setZN(register - value)
}

// Read-modify-write helpers operating on memory.

func (c *CPU) aslMem(address uint16) uint8 {
	value := c.memory.Read(address)
	c.C = value&0x80 != 0
	value <<= 1
	c.memory.Write(address, value)
	c.setZN(value)
	return value
}

func (c *CPU) lsrMem(address uint16) uint8 {
	value := c.memory.Read(address)
	c.C = value&0x01 != 0
	value >>= 1
	c.memory.Write(address, value)
	c.setZN(value)
	return value
}

func (c *CPU) rolMem(address uint16) uint8 {
	value := c.memory.Read(address)
	carry := c.C
	c.C = value&0x80 != 0
	value <<= 1
	if carry {
		value |= 0x01
	}
	c.memory.Write(address, value)
	c.setZN(value)
	return value
}

func (c *CPU) rorMem(address uint16) uint8 {
	value := c.memory.Read(address)
	carry := c.C
	c.C = value&0x01 != 0
	value >>= 1
	if carry {
		value |= 0x80
	}
	c.memory.Write(address, value)
	c.setZN(value)
	return value
}

// branch applies a taken branch: +1 cycle, +2 when the target is on a
// different page than the instruction that follows the branch.
func (c *CPU) branch(taken bool, address uint16, pageCrossed bool) uint8 {
	if !taken {
		return 0
	}
	c.PC = address
	if pageCrossed {
		return 2
	}
	return 1
}

func (c *CPU) bit(address uint16) {
	value := c.memory.Read(address)
	c.N = value&0x80 != 0
	c.V = value&0x40 != 0
	c.Z = c.A&value == 0
}

// brk pushes PC (incremented past the padding byte) and status with B set,
// then vectors through $FFFE.
func (c *CPU) brk() {
	c.PC++
	c.pushWord(c.PC)
	c.push(c.Status() | flagB)
	c.I = true
	c.PC = c.readWord(irqVector)
}

// execute dispatches one decoded opcode. It returns extra cycles taken
// beyond the base cost (branch penalties).
func (c *CPU) execute(opcode uint8, address uint16, pageCrossed bool) uint8 {
	switch opcode {
	// Load/store
	case 0xA9, 0xA5, 0xB5, 0xAD, 0xBD, 0xB9, 0xA1, 0xB1: // LDA
		c.lda(address)
	case 0xA2, 0xA6, 0xB6, 0xAE, 0xBE: // LDX
		c.ldx(address)
	case 0xA0, 0xA4, 0xB4, 0xAC, 0xBC: // LDY
		c.ldy(address)
	case 0x85, 0x95, 0x8D, 0x9D, 0x99, 0x81, 0x91: // STA
		c.memory.Write(address, c.A)
	case 0x86, 0x96, 0x8E: // STX
		c.memory.Write(address, c.X)
	case 0x84, 0x94, 0x8C: // STY
		c.memory.Write(address, c.Y)

	// Arithmetic
	case 0x69, 0x65, 0x75, 0x6D, 0x7D, 0x79, 0x61, 0x71: // ADC
		c.adc(address)
	case 0xE9, 0xEB, 0xE5, 0xF5, 0xED, 0xFD, 0xF9, 0xE1, 0xF1: // SBC ($EB unofficial)
		c.sbc(address)

	// Logic
	case 0x29, 0x25, 0x35, 0x2D, 0x3D, 0x39, 0x21, 0x31: // AND
		c.A &= c.memory.Read(address)
		c.setZN(c.A)
	case 0x09, 0x05, 0x15, 0x0D, 0x1D, 0x19, 0x01, 0x11: // ORA
		c.A |= c.memory.Read(address)
		c.setZN(c.A)
	case 0x49, 0x45, 0x55, 0x4D, 0x5D, 0x59, 0x41, 0x51: // EOR
		c.A ^= c.memory.Read(address)
		c.setZN(c.A)

	// Shifts and rotates
	case 0x0A: // ASL A
		c.C = c.A&0x80 != 0
		c.A <<= 1
		c.setZN(c.A)
	case 0x06, 0x16, 0x0E, 0x1E: // ASL
		c.aslMem(address)
	case 0x4A: // LSR A
		c.C = c.A&0x01 != 0
		c.A >>= 1
		c.setZN(c.A)
	case 0x46, 0x56, 0x4E, 0x5E: // LSR
		c.lsrMem(address)
	case 0x2A: // ROL A
		carry := c.C
		c.C = c.A&0x80 != 0
		c.A <<= 1
		if carry {
			c.A |= 0x01
		}
		c.setZN(c.A)
	case 0x26, 0x36, 0x2E, 0x3E: // ROL
		c.rolMem(address)
	case 0x6A: // ROR A
		carry := c.C
		c.C = c.A&0x01 != 0
		c.A >>= 1
		if carry {
			c.A |= 0x80
		}
		c.setZN(c.A)
	case 0x66, 0x76, 0x6E, 0x7E: // ROR
		c.rorMem(address)

	// Compares
	case 0xC9, 0xC5, 0xD5, 0xCD, 0xDD, 0xD9, 0xC1, 0xD1: // CMP
		c.compare(c.A, address)
	case 0xE0, 0xE4, 0xEC: // CPX
		c.compare(c.X, address)
	case 0xC0, 0xC4, 0xCC: // CPY
		c.compare(c.Y, address)

	// Increments and decrements
	case 0xE6, 0xF6, 0xEE, 0xFE: // INC
		value := c.memory.Read(address) + 1
		c.memory.Write(address, value)
		c.setZN(value)
	case 0xC6, 0xD6, 0xCE, 0xDE: // DEC
		value := c.memory.Read(address) - 1
		c.memory.Write(address, value)
		c.setZN(value)
	case 0xE8: // INX
		c.X++
		c.setZN(c.X)
	case 0xCA: // DEX
		c.X--
		c.setZN(c.X)
	case 0xC8: // INY
		c.Y++
		c.setZN(c.Y)
	case 0x88: // DEY
		c.Y--
		c.setZN(c.Y)

	// Transfers
	case 0xAA: // TAX
		c.X = c.A
		c.setZN(c.X)
	case 0x8A: // TXA
		c.A = c.X
		c.setZN(c.A)
	case 0xA8: // TAY
		c.Y = c.A
		c.setZN(c.Y)
	case 0x98: // TYA
		c.A = c.Y
		c.setZN(c.A)
	case 0xBA: // TSX
		c.X = c.SP
		c.setZN(c.X)
	case 0x9A: // TXS
		c.SP = c.X

	// Stack
	case 0x48: // PHA
		c.push(c.A)
	case 0x68: // PLA
		c.A = c.pull()
		c.setZN(c.A)
	case 0x08: // PHP pushes with B and U set
		c.push(c.Status() | flagB)
	case 0x28: // PLP
		c.SetStatus(c.pull())

	// Flags
	case 0x18: // CLC
		c.C = false
	case 0x38: // SEC
		c.C = true
	case 0x58: // CLI
		c.I = false
	case 0x78: // SEI
		c.I = true
	case 0xB8: // CLV
		c.V = false
	case 0xD8: // CLD
		c.D = false
	case 0xF8: // SED
		c.D = true

	// Control flow
	case 0x4C, 0x6C: // JMP
		c.PC = address
	case 0x20: // JSR pushes the address of its own last byte
		c.pushWord(c.PC - 1)
		c.PC = address
	case 0x60: // RTS
		c.PC = c.pullWord() + 1
	case 0x40: // RTI
		c.SetStatus(c.pull())
		c.PC = c.pullWord()

	// Branches
	case 0x90: // BCC
		return c.branch(!c.C, address, pageCrossed)
	case 0xB0: // BCS
		return c.branch(c.C, address, pageCrossed)
	case 0xD0: // BNE
		return c.branch(!c.Z, address, pageCrossed)
	case 0xF0: // BEQ
		return c.branch(c.Z, address, pageCrossed)
	case 0x10: // BPL
		return c.branch(!c.N, address, pageCrossed)
	case 0x30: // BMI
		return c.branch(c.N, address, pageCrossed)
	case 0x50: // BVC
		return c.branch(!c.V, address, pageCrossed)
	case 0x70: // BVS
		return c.branch(c.V, address, pageCrossed)

	case 0x24, 0x2C: // BIT
		c.bit(address)
	case 0x00: // BRK
		c.brk()

	// Unofficial opcodes with stable, widely relied-on behavior
	case 0xA3, 0xA7, 0xAF, 0xB3, 0xB7, 0xBF: // LAX
		c.A = c.memory.Read(address)
		c.X = c.A
		c.setZN(c.A)
	case 0x83, 0x87, 0x8F, 0x97: // SAX
		c.memory.Write(address, c.A&c.X)
	case 0xC3, 0xC7, 0xCF, 0xD3, 0xD7, 0xDF, 0xDB: // DCP = DEC + CMP
		value := c.memory.Read(address) - 1
		c.memory.Write(address, value)
		c.C = c.A >= value
		c.setZN(c.A - value)
	case 0xE3, 0xE7, 0xEF, 0xF3, 0xF7, 0xFF, 0xFB: // ISB = INC + SBC
		c.memory.Write(address, c.memory.Read(address)+1)
		c.sbc(address)
	case 0x03, 0x07, 0x0F, 0x13, 0x17, 0x1F, 0x1B: // SLO = ASL + ORA
		c.A |= c.aslMem(address)
		c.setZN(c.A)
	case 0x23, 0x27, 0x2F, 0x33, 0x37, 0x3F, 0x3B: // RLA = ROL + AND
		c.A &= c.rolMem(address)
		c.setZN(c.A)
	case 0x43, 0x47, 0x4F, 0x53, 0x57, 0x5F, 0x5B: // SRE = LSR + EOR
		c.A ^= c.lsrMem(address)
		c.setZN(c.A)
	case 0x63, 0x67, 0x6F, 0x73, 0x77, 0x7F, 0x7B: // RRA = ROR + ADC
		c.rorMem(address)
		c.adc(address)

	default:
		// NOPs, official and unofficial, plus anything undecoded
	}
	return 0
}
