// Package debugger implements the interactive text debugger: single
// stepping, breakpoints, memory and register inspection, and disassembly
// over the running machine.
package debugger

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"famicore/internal/bus"
	"famicore/internal/cpu"
)

// Debugger is a REPL over a bus. It owns no emulation state beyond the
// breakpoint set; all machine state is read and written through the bus.
type Debugger struct {
	bus         *bus.Bus
	breakpoints map[uint16]bool
	lastLine    string
	in          *bufio.Reader
	interactive bool
}

// New creates a debugger for the machine on b.
func New(b *bus.Bus) *Debugger {
	return &Debugger{
		bus:         b,
		breakpoints: make(map[uint16]bool),
		in:          bufio.NewReader(os.Stdin),
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
}

// Run enters the REPL. It returns true to resume emulation and false to
// quit the emulator.
func (d *Debugger) Run() bool {
	fmt.Println("entering debugger; 'h' for help, 'c' to resume")
	d.printRegisters()

	for {
		if d.interactive {
			fmt.Print("dbg> ")
		}
		line, err := d.in.ReadString('\n')
		if err != nil {
			return true
		}
		line = strings.TrimSpace(line)
		if line == "" {
			// Empty line repeats the previous command
			line = d.lastLine
		}
		if line == "" {
			continue
		}
		d.lastLine = line

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "h", "help":
			d.printHelp()
		case "s", "step":
			d.step(args)
		case "c", "continue":
			d.resume()
			return true
		case "r", "regs":
			d.printRegisters()
		case "d", "dis":
			d.disassemble(args)
		case "mr", "mem":
			d.memRead(args)
		case "mw":
			d.memWrite(args)
		case "b", "break":
			d.addBreakpoint(args)
		case "del":
			d.delBreakpoint(args)
		case "bl":
			d.listBreakpoints()
		case "st", "stack":
			d.printStack()
		case "ppu":
			d.printPPU()
		case "apu":
			d.printAPU()
		case "reset":
			d.bus.Reset()
			fmt.Printf("reset, PC=$%04X\n", d.bus.CPU.PC)
		case "q", "quit":
			return false
		default:
			fmt.Printf("unknown command %q, 'h' for help\n", cmd)
		}
	}
}

func (d *Debugger) printHelp() {
	fmt.Print(`commands:
  s [n]          step n instructions (default 1); empty line repeats
  c              continue until the next breakpoint
  r              show CPU registers
  d [addr] [n]   disassemble n instructions (default 16) from addr or PC
  mr addr [n]    dump n bytes of memory (default 64)
  mw addr val    write a byte
  b addr         set breakpoint        del addr   remove breakpoint
  bl             list breakpoints      st         dump stack
  ppu            PPU state             apu        APU channel state
  reset          reset the machine     q          quit the emulator
`)
}

func (d *Debugger) step(args []string) {
	count := 1
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
			count = n
		}
	}
	for i := 0; i < count; i++ {
		d.bus.StepInstruction()
	}
	d.printRegisters()
	text, _ := cpu.Disassemble(d.bus.Read, d.bus.CPU.PC)
	fmt.Printf("  next: $%04X  %s\n", d.bus.CPU.PC, text)
}

// resume runs until a breakpoint is hit. With no breakpoints set it
// returns immediately and the host loop resumes normal frame pacing.
func (d *Debugger) resume() {
	if len(d.breakpoints) == 0 {
		return
	}
	for {
		d.bus.StepInstruction()
		if d.breakpoints[d.bus.CPU.PC] {
			fmt.Printf("breakpoint at $%04X\n", d.bus.CPU.PC)
			d.printRegisters()
			return
		}
	}
}

func (d *Debugger) printRegisters() {
	fmt.Printf("  %s\n", d.bus.CPU)
}

func (d *Debugger) disassemble(args []string) {
	address := d.bus.CPU.PC
	count := 16
	if len(args) > 0 {
		if a, ok := parseAddress(args[0]); ok {
			address = a
		}
	}
	if len(args) > 1 {
		if n, err := strconv.Atoi(args[1]); err == nil && n > 0 {
			count = n
		}
	}
	for i := 0; i < count; i++ {
		text, next := cpu.Disassemble(d.bus.Read, address)
		marker := " "
		if address == d.bus.CPU.PC {
			marker = ">"
		}
		fmt.Printf("%s $%04X  %s\n", marker, address, text)
		address = next
	}
}

func (d *Debugger) memRead(args []string) {
	if len(args) == 0 {
		fmt.Println("usage: mr addr [count]")
		return
	}
	address, ok := parseAddress(args[0])
	if !ok {
		fmt.Printf("bad address %q\n", args[0])
		return
	}
	count := 64
	if len(args) > 1 {
		if n, err := strconv.Atoi(args[1]); err == nil && n > 0 {
			count = n
		}
	}
	for i := 0; i < count; i++ {
		if i%16 == 0 {
			fmt.Printf("\n$%04X: ", address+uint16(i))
		}
		fmt.Printf("%02X ", d.bus.Read(address+uint16(i)))
	}
	fmt.Println()
}

func (d *Debugger) memWrite(args []string) {
	if len(args) < 2 {
		fmt.Println("usage: mw addr value")
		return
	}
	address, ok := parseAddress(args[0])
	if !ok {
		fmt.Printf("bad address %q\n", args[0])
		return
	}
	value, err := strconv.ParseUint(strings.TrimPrefix(args[1], "$"), 16, 8)
	if err != nil {
		fmt.Printf("bad value %q\n", args[1])
		return
	}
	d.bus.Write(address, uint8(value))
}

func (d *Debugger) addBreakpoint(args []string) {
	if len(args) == 0 {
		fmt.Println("usage: b addr")
		return
	}
	if address, ok := parseAddress(args[0]); ok {
		d.breakpoints[address] = true
		fmt.Printf("breakpoint set at $%04X\n", address)
	}
}

func (d *Debugger) delBreakpoint(args []string) {
	if len(args) == 0 {
		fmt.Println("usage: del addr")
		return
	}
	if address, ok := parseAddress(args[0]); ok {
		delete(d.breakpoints, address)
	}
}

func (d *Debugger) listBreakpoints() {
	if len(d.breakpoints) == 0 {
		fmt.Println("no breakpoints")
		return
	}
	for address := range d.breakpoints {
		fmt.Printf("  $%04X\n", address)
	}
}

func (d *Debugger) printStack() {
	sp := d.bus.CPU.SP
	fmt.Printf("SP=$%02X\n", sp)
	for addr := 0x01FF; addr > 0x0100+int(sp); addr-- {
		fmt.Printf("  $%04X: %02X\n", addr, d.bus.Read(uint16(addr)))
	}
}

func (d *Debugger) printPPU() {
	p := d.bus.PPU
	fmt.Printf("scanline=%d cycle=%d frame=%d\n", p.Scanline(), p.Cycle(), p.Frames())
	oam := p.OAM()
	fmt.Println("first sprites (y tile attr x):")
	for i := 0; i < 4; i++ {
		fmt.Printf("  %d: %02X %02X %02X %02X\n", i, oam[i*4], oam[i*4+1], oam[i*4+2], oam[i*4+3])
	}
}

func (d *Debugger) printAPU() {
	names := [5]string{"pulse1", "pulse2", "triangle", "noise", "dmc"}
	for i, ch := range d.bus.APU.Snapshot() {
		fmt.Printf("  %-8s enabled=%-5t period=%4d length=%3d vol=%d\n",
			names[i], ch.Enabled, ch.Period, ch.Length, ch.Volume)
	}
}

// parseAddress accepts "$C000", "0xC000", or bare hex.
func parseAddress(s string) (uint16, bool) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "$"), "0x")
	value, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, false
	}
	return uint16(value), true
}
