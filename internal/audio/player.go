package audio

import (
	"encoding/binary"
	"fmt"

	"github.com/ebitengine/oto/v3"
)

// Player streams ring samples to the host audio device through oto. The
// device pulls on its own callback goroutine; the ring is the boundary
// between that goroutine and the emulation thread.
type Player struct {
	ctx    *oto.Context
	player *oto.Player
	ring   *Ring
}

// NewPlayer opens the audio device for mono 16-bit output at the given
// sample rate, reading from ring.
func NewPlayer(ring *Ring, sampleRate int) (*Player, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("audio: opening device: %w", err)
	}
	<-ready

	p := &Player{ctx: ctx, ring: ring}
	p.player = ctx.NewPlayer(p)
	return p, nil
}

// Read implements io.Reader for oto: it drains the ring into the device
// buffer, padding with silence when the emulator falls behind.
func (p *Player) Read(buf []byte) (int, error) {
	samples := make([]int16, len(buf)/2)
	p.ring.Drain(samples)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return len(samples) * 2, nil
}

// Start begins playback.
func (p *Player) Start() {
	p.player.Play()
}

// Close stops playback and releases the device.
func (p *Player) Close() error {
	return p.player.Close()
}
