package audio

import (
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Recorder buffers the sample stream in memory and writes it to disk as a
// mono 16-bit WAV on Close. The whole stream is kept in memory, which is
// fine for capture sessions but not for unbounded recording.
type Recorder struct {
	filename   string
	sampleRate int
	samples    []int
}

// NewRecorder creates a recorder targeting filename.
func NewRecorder(filename string, sampleRate int) *Recorder {
	return &Recorder{
		filename:   filename,
		sampleRate: sampleRate,
	}
}

// Push implements apu.SampleSink.
func (r *Recorder) Push(sample float32) {
	r.samples = append(r.samples, int(convert(sample)))
}

// Close encodes the buffered samples to the WAV file.
func (r *Recorder) Close() error {
	f, err := os.Create(r.filename)
	if err != nil {
		return fmt.Errorf("audio: recording: %w", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, r.sampleRate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: r.sampleRate},
		Data:           r.samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("audio: encoding wav: %w", err)
	}
	return enc.Close()
}

// Tee fans samples out to several sinks, e.g. the playback ring and a
// recorder at the same time.
type Tee []Sink

// Sink matches apu.SampleSink without importing the apu package.
type Sink interface {
	Push(sample float32)
}

// Push implements apu.SampleSink.
func (t Tee) Push(sample float32) {
	for _, sink := range t {
		sink.Push(sample)
	}
}
