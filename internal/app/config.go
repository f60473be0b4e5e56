// Package app wires the emulation core to the host: configuration, the
// frame loop, input, audio, and the debugger hook.
package app

import (
	"encoding/json"
	"fmt"
	"os"

	"famicore/internal/apu"
)

// Config holds host-side settings. All fields have working defaults; a
// missing config file is not an error.
type Config struct {
	Window WindowConfig `json:"window"`
	Video  VideoConfig  `json:"video"`
	Audio  AudioConfig  `json:"audio"`
}

// WindowConfig controls the display window.
type WindowConfig struct {
	Scale int    `json:"scale"` // NES resolution multiplier
	Title string `json:"title"`
}

// VideoConfig controls presentation.
type VideoConfig struct {
	Backend string `json:"backend"` // "ebitengine" or "headless"
	VSync   bool   `json:"vsync"`
}

// AudioConfig controls sound output.
type AudioConfig struct {
	Enabled    bool `json:"enabled"`
	SampleRate int  `json:"sample_rate"`
	RingSize   int  `json:"ring_size"` // buffered samples between core and device
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{Scale: 3, Title: "famicore"},
		Video:  VideoConfig{Backend: "ebitengine", VSync: true},
		Audio:  AudioConfig{Enabled: true, SampleRate: apu.SampleRate, RingSize: 8192},
	}
}

// LoadConfig reads settings from a JSON file, filling gaps with defaults.
// A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if config.Window.Scale <= 0 {
		config.Window.Scale = 3
	}
	if config.Audio.SampleRate <= 0 {
		config.Audio.SampleRate = apu.SampleRate
	}
	if config.Audio.RingSize <= 0 {
		config.Audio.RingSize = 8192
	}
	return config, nil
}
