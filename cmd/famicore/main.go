// Command famicore runs the NES emulator: famicore [flags] rom.nes
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"famicore/internal/app"
	"famicore/internal/audio"
	"famicore/internal/cartridge"
	"famicore/internal/graphics"
	"famicore/internal/version"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to JSON config file")
		debug       = flag.Bool("debug", false, "enable the debugger (Escape to enter)")
		breakStart  = flag.Bool("break-on-start", false, "enter the debugger before the first frame")
		headless    = flag.Bool("headless", false, "run without a window")
		frames      = flag.Int("frames", 60, "frames to run in headless mode")
		scale       = flag.Int("scale", 0, "window scale override")
		recordWAV   = flag.String("record-wav", "", "capture audio to a WAV file")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("famicore %s\n", version.Version)
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] rom.nes\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	romPath := flag.Arg(0)

	config, err := app.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("famicore: %v", err)
	}
	if *scale > 0 {
		config.Window.Scale = *scale
	}

	cart, err := cartridge.LoadFromFile(romPath)
	if err != nil {
		log.Printf("famicore: %v", err)
		os.Exit(1)
	}
	log.Printf("famicore: loaded %s (mapper %d)", romPath, cart.MapperID())

	// Battery-backed saves live in a sidecar next to the ROM
	savePath := strings.TrimSuffix(romPath, ".nes") + ".sav"
	if cart.HasBattery() {
		if data, err := os.ReadFile(savePath); err == nil {
			cart.LoadSRAM(data)
			log.Printf("famicore: restored SRAM from %s", savePath)
		}
	}

	// Audio path: APU -> ring -> device, with an optional WAV tee
	var sink audio.Tee
	var player *audio.Player
	ring := audio.NewRing(config.Audio.RingSize)
	if config.Audio.Enabled && !*headless {
		if player, err = audio.NewPlayer(ring, config.Audio.SampleRate); err != nil {
			log.Printf("famicore: audio disabled: %v", err)
		} else {
			sink = append(sink, ring)
			player.Start()
		}
	}
	var recorder *audio.Recorder
	if *recordWAV != "" {
		recorder = audio.NewRecorder(*recordWAV, config.Audio.SampleRate)
		sink = append(sink, recorder)
	}

	emulator := app.New(cart, sink)
	if *breakStart {
		emulator.EnterDebugger()
	}

	var backend graphics.Backend
	if *headless {
		backend = &graphics.Headless{Frames: *frames}
	} else {
		backend = &graphics.Ebitengine{
			Title:      config.Window.Title,
			Scale:      config.Window.Scale,
			VSync:      config.Video.VSync,
			AllowDebug: *debug || *breakStart,
		}
	}

	runErr := backend.Run(emulator)

	if player != nil {
		player.Close()
	}
	if recorder != nil {
		if err := recorder.Close(); err != nil {
			log.Printf("famicore: %v", err)
		} else {
			log.Printf("famicore: wrote %s", *recordWAV)
		}
	}
	if cart.HasBattery() {
		if err := os.WriteFile(savePath, cart.SRAM(), 0o644); err != nil {
			log.Printf("famicore: saving SRAM: %v", err)
		}
	}

	if runErr != nil {
		log.Fatalf("famicore: %v", runErr)
	}
}
