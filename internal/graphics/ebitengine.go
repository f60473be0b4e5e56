package graphics

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"famicore/internal/input"
	"famicore/internal/ppu"
)

// buttonKeys maps the keyboard onto the NES pad:
// Z=A, X=B, right shift=Select, Enter=Start, arrows=D-pad.
var buttonKeys = []struct {
	key    ebiten.Key
	button input.Button
}{
	{ebiten.KeyZ, input.ButtonA},
	{ebiten.KeyX, input.ButtonB},
	{ebiten.KeyShiftRight, input.ButtonSelect},
	{ebiten.KeyEnter, input.ButtonStart},
	{ebiten.KeyArrowUp, input.ButtonUp},
	{ebiten.KeyArrowDown, input.ButtonDown},
	{ebiten.KeyArrowLeft, input.ButtonLeft},
	{ebiten.KeyArrowRight, input.ButtonRight},
}

// Ebitengine is the windowed backend.
type Ebitengine struct {
	Title        string
	Scale        int
	VSync        bool
	AllowDebug   bool // Escape drops into the text debugger
	host         Host
	frameImage   *ebiten.Image
	pixels       []byte
}

// Run opens the window and drives the emulation at the display rate.
func (e *Ebitengine) Run(host Host) error {
	if e.Scale <= 0 {
		e.Scale = 3
	}
	e.host = host
	e.frameImage = ebiten.NewImage(ppu.Width, ppu.Height)
	e.pixels = make([]byte, ppu.Width*ppu.Height*4)

	ebiten.SetWindowTitle(e.Title)
	ebiten.SetWindowSize(ppu.Width*e.Scale, ppu.Height*e.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(e.VSync)

	return ebiten.RunGame(e)
}

// Update implements ebiten.Game: poll input, run one emulated frame.
func (e *Ebitengine) Update() error {
	if e.AllowDebug && inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		e.host.EnterDebugger()
	}

	var state uint8
	for _, bk := range buttonKeys {
		if ebiten.IsKeyPressed(bk.key) {
			state |= uint8(bk.button)
		}
	}
	e.host.SetButtons(state)

	frame := e.host.StepFrame()
	for i, argb := range frame {
		e.pixels[i*4+0] = uint8(argb >> 16) // R
		e.pixels[i*4+1] = uint8(argb >> 8)  // G
		e.pixels[i*4+2] = uint8(argb)       // B
		e.pixels[i*4+3] = uint8(argb >> 24) // A
	}
	e.frameImage.WritePixels(e.pixels)

	if e.host.Done() {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (e *Ebitengine) Draw(screen *ebiten.Image) {
	screen.DrawImage(e.frameImage, nil)
}

// Layout implements ebiten.Game: the logical screen is always the NES
// picture; ebiten scales it to the window.
func (e *Ebitengine) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ppu.Width, ppu.Height
}
