package app

import (
	"famicore/internal/apu"
	"famicore/internal/bus"
	"famicore/internal/cartridge"
	"famicore/internal/debugger"
	"famicore/internal/ppu"
)

// Emulator glues the machine to a graphics backend: it is the
// graphics.Host that runs frames, forwards controller bytes, and suspends
// into the debugger.
type Emulator struct {
	Bus  *bus.Bus
	Cart *cartridge.Cartridge

	dbg          *debugger.Debugger
	debugPending bool
	quit         bool
}

// New builds a machine around the cartridge, attaches the audio sink, and
// resets it.
func New(cart *cartridge.Cartridge, sink apu.SampleSink) *Emulator {
	b := bus.New()
	b.Connect(cart)
	if sink != nil {
		b.ConnectAudio(sink)
	}
	b.Reset()

	e := &Emulator{Bus: b, Cart: cart}
	e.dbg = debugger.New(b)
	return e
}

// StepFrame implements graphics.Host: run to the next frame edge. When a
// debugger entry is pending it runs the debugger REPL first, on this same
// goroutine, so emulation state is never touched concurrently.
func (e *Emulator) StepFrame() *[ppu.Width * ppu.Height]uint32 {
	if e.debugPending {
		e.debugPending = false
		if !e.dbg.Run() {
			e.quit = true
		}
	}
	if !e.quit {
		e.Bus.RunFrame()
	}
	return e.Bus.PPU.Framebuffer()
}

// SetButtons implements graphics.Host.
func (e *Emulator) SetButtons(state uint8) {
	e.Bus.Controller.Set(state)
}

// EnterDebugger implements graphics.Host: the next StepFrame suspends into
// the debugger REPL.
func (e *Emulator) EnterDebugger() {
	e.debugPending = true
}

// Done implements graphics.Host: true once the debugger asked to quit.
func (e *Emulator) Done() bool {
	return e.quit
}
