package cpu

import "testing"

func TestDisassemble(t *testing.T) {
	mem := &testMemory{}
	read := mem.Read

	tests := []struct {
		bytes []uint8
		want  string
		next  uint16
	}{
		{[]uint8{0xA9, 0x42}, "LDA #$42", 2},
		{[]uint8{0x8D, 0x34, 0x12}, "STA $1234", 3},
		{[]uint8{0xB1, 0x20}, "LDA ($20),Y", 2},
		{[]uint8{0x6C, 0x00, 0x30}, "JMP ($3000)", 3},
		{[]uint8{0x0A}, "ASL A", 1},
		{[]uint8{0xEA}, "NOP", 1},
		{[]uint8{0xD0, 0xFE}, "BNE $0000", 2}, // -2 from the next PC
	}
	for _, tt := range tests {
		mem.load(0, tt.bytes...)
		text, next := Disassemble(read, 0)
		if text != tt.want {
			t.Errorf("disassembled %q, want %q", text, tt.want)
		}
		if next != tt.next {
			t.Errorf("%s: next = %d, want %d", tt.want, next, tt.next)
		}
	}
}

func TestOpcodeTableCoverage(t *testing.T) {
	// Every slot decodes to something executable with sane metadata
	for opcode := 0; opcode < 256; opcode++ {
		ins := Decode(uint8(opcode))
		if ins.Bytes < 1 || ins.Bytes > 3 {
			t.Errorf("opcode $%02X has byte count %d", opcode, ins.Bytes)
		}
		if ins.Cycles < 2 || ins.Cycles > 8 {
			t.Errorf("opcode $%02X has cycle count %d", opcode, ins.Cycles)
		}
	}
}
