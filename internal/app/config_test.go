package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMissingConfigYieldsDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing config treated as error: %v", err)
	}
	if config.Window.Scale != 3 || !config.Audio.Enabled {
		t.Error("defaults not applied for a missing file")
	}
}

func TestConfigOverridesAndGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"window": {"scale": 5}, "audio": {"enabled": false}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if config.Window.Scale != 5 {
		t.Errorf("scale = %d, want 5", config.Window.Scale)
	}
	if config.Audio.Enabled {
		t.Error("explicit false overridden")
	}
	if config.Audio.SampleRate != 44100 {
		t.Errorf("sample rate gap = %d, want default 44100", config.Audio.SampleRate)
	}
}

func TestMalformedConfigRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("malformed config accepted")
	}
}
