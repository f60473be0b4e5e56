// Package graphics presents the emulator's framebuffer in a window or runs
// it headless. The core knows nothing about either; it exposes a frame and
// accepts a controller byte.
package graphics

import "famicore/internal/ppu"

// Host is the emulation side of the display loop: advance one frame,
// accept controller state, optionally drop into the debugger.
type Host interface {
	// StepFrame runs the machine until the next frame-complete edge and
	// returns the framebuffer.
	StepFrame() *[ppu.Width * ppu.Height]uint32

	// SetButtons supplies the controller state byte
	// (bit0=A ... bit7=Right).
	SetButtons(state uint8)

	// EnterDebugger suspends emulation in the interactive debugger. Only
	// invoked when the host was started with the debugger enabled.
	EnterDebugger()

	// Done reports that the host wants to stop (debugger quit).
	Done() bool
}

// Backend runs the display loop until the user quits or an error occurs.
type Backend interface {
	Run(host Host) error
}
