package cpu

import "fmt"

// Disassemble decodes the instruction at address using the supplied read
// function and returns its assembly text plus the address of the next
// instruction. Reads are plain bus reads; disassembling I/O registers has
// the usual side effects, so debuggers should read from a snapshot when
// that matters.
func Disassemble(read func(uint16) uint8, address uint16) (string, uint16) {
	opcode := read(address)
	ins := opcodeTable[opcode]

	var op8 uint8
	var op16 uint16
	switch ins.Bytes {
	case 2:
		op8 = read(address + 1)
	case 3:
		op16 = uint16(read(address+1)) | uint16(read(address+2))<<8
	}

	var operand string
	switch ins.Mode {
	case Implied:
		operand = ""
	case Accumulator:
		operand = "A"
	case Immediate:
		operand = fmt.Sprintf("#$%02X", op8)
	case ZeroPage:
		operand = fmt.Sprintf("$%02X", op8)
	case ZeroPageX:
		operand = fmt.Sprintf("$%02X,X", op8)
	case ZeroPageY:
		operand = fmt.Sprintf("$%02X,Y", op8)
	case Relative:
		target := address + 2 + uint16(int8(op8))
		operand = fmt.Sprintf("$%04X", target)
	case Absolute:
		operand = fmt.Sprintf("$%04X", op16)
	case AbsoluteX:
		operand = fmt.Sprintf("$%04X,X", op16)
	case AbsoluteY:
		operand = fmt.Sprintf("$%04X,Y", op16)
	case Indirect:
		operand = fmt.Sprintf("($%04X)", op16)
	case IndexedIndirect:
		operand = fmt.Sprintf("($%02X,X)", op8)
	case IndirectIndexed:
		operand = fmt.Sprintf("($%02X),Y", op8)
	}

	text := ins.Name
	if operand != "" {
		text += " " + operand
	}
	return text, address + uint16(ins.Bytes)
}
