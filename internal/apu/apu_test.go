package apu

import (
	"math"
	"testing"
)

// countingSink records pushed samples.
type countingSink struct {
	samples []float32
}

func (s *countingSink) Push(sample float32) {
	s.samples = append(s.samples, sample)
}

func stepCycles(a *APU, n int) {
	for i := 0; i < n; i++ {
		a.Step()
	}
}

func TestLengthCounterLoadAndHalt(t *testing.T) {
	a := New()
	a.WriteRegister(0x4015, 0x01) // enable pulse 1
	a.WriteRegister(0x4000, 0x30) // halt set, constant volume 0
	a.WriteRegister(0x4003, 0x08) // length index 1 -> 254

	if a.pulse1.lengthCounter != 254 {
		t.Fatalf("length counter = %d, want 254", a.pulse1.lengthCounter)
	}

	// Run past the first half-frame clock; halt must freeze the counter
	stepCycles(a, 7460)
	if a.pulse1.lengthCounter != 254 {
		t.Errorf("halted length counter decremented to %d", a.pulse1.lengthCounter)
	}

	// Clearing halt lets the next half-frame clock decrement
	a.WriteRegister(0x4000, 0x10)
	stepCycles(a, 7460)
	if a.pulse1.lengthCounter != 253 {
		t.Errorf("length counter = %d after half-frame, want 253", a.pulse1.lengthCounter)
	}
}

func TestLengthLoadGatedByEnable(t *testing.T) {
	a := New()
	a.WriteRegister(0x4003, 0x08) // channel disabled
	if a.pulse1.lengthCounter != 0 {
		t.Error("length counter loaded while channel disabled")
	}
}

func TestDisableClearsLength(t *testing.T) {
	a := New()
	a.WriteRegister(0x4015, 0x01)
	a.WriteRegister(0x4003, 0x08)
	a.WriteRegister(0x4015, 0x00)
	if a.pulse1.lengthCounter != 0 {
		t.Error("disabling the channel did not clear its length counter")
	}
}

func TestFrameIRQFourStepOnly(t *testing.T) {
	a := New()

	// 4-step mode, inhibit clear: IRQ exactly at the end of the sequence
	stepCycles(a, 14914)
	if a.irqFlag {
		t.Error("IRQ raised before the sequence end")
	}
	stepCycles(a, 1)
	if !a.irqFlag {
		t.Error("IRQ not raised at cycle 14915")
	}
	if !a.TakeIRQ() {
		t.Error("IRQ edge not delivered")
	}
	if a.TakeIRQ() {
		t.Error("IRQ edge delivered twice for one sequence")
	}

	// The next sequence raises it again
	stepCycles(a, 14915)
	if !a.TakeIRQ() {
		t.Error("IRQ not raised on the second sequence")
	}
}

func TestFrameIRQInhibit(t *testing.T) {
	a := New()
	a.WriteRegister(0x4017, 0x40) // inhibit
	stepCycles(a, 20000)
	if a.irqFlag || a.TakeIRQ() {
		t.Error("IRQ raised despite inhibit")
	}

	// Setting inhibit also clears a pending flag
	b := New()
	stepCycles(b, 14915)
	if !b.irqFlag {
		t.Fatal("setup failed: no pending IRQ")
	}
	b.WriteRegister(0x4017, 0x40)
	if b.irqFlag {
		t.Error("inhibit did not clear the pending IRQ flag")
	}
}

func TestFrameIRQNotInFiveStep(t *testing.T) {
	a := New()
	a.WriteRegister(0x4017, 0x80)
	stepCycles(a, 40000)
	if a.irqFlag {
		t.Error("IRQ raised in 5-step mode")
	}
}

func TestStatusReadClearsIRQFlag(t *testing.T) {
	a := New()
	stepCycles(a, 14915)

	status := a.ReadStatus()
	if status&0x40 == 0 {
		t.Error("frame IRQ not visible in $4015")
	}
	if a.ReadStatus()&0x40 != 0 {
		t.Error("frame IRQ flag not cleared by $4015 read")
	}
}

func TestFiveStepImmediateClock(t *testing.T) {
	a := New()
	a.WriteRegister(0x4015, 0x01)
	a.WriteRegister(0x4000, 0x00) // halt clear
	a.WriteRegister(0x4003, 0x08) // length 254

	// Writing $4017 with bit 7 clocks the half-frame units immediately
	a.WriteRegister(0x4017, 0x80)
	if a.pulse1.lengthCounter != 253 {
		t.Errorf("length = %d after 5-step write, want 253", a.pulse1.lengthCounter)
	}
}

func TestNoiseLFSRNeverZero(t *testing.T) {
	a := New()
	a.WriteRegister(0x4015, 0x08)
	a.WriteRegister(0x400E, 0x00) // fastest period, mode 0

	for i := 0; i < 100000; i++ {
		a.Step()
		if a.noise.shiftRegister == 0 {
			t.Fatalf("LFSR reached zero after %d cycles", i)
		}
	}
}

func TestNoiseLFSRFeedbackModes(t *testing.T) {
	// Mode 0: bit0 XOR bit1
	ch := noiseChannel{shiftRegister: 0x0001, timerPeriod: 0}
	ch.clockTimer()
	if ch.shiftRegister != 0x4000 {
		t.Errorf("mode 0 shift = $%04X, want $4000", ch.shiftRegister)
	}

	// Mode 1: bit0 XOR bit6
	ch = noiseChannel{shiftRegister: 0x0001, timerPeriod: 0, mode: true}
	ch.clockTimer()
	if ch.shiftRegister != 0x4000 {
		t.Errorf("mode 1 shift = $%04X, want $4000", ch.shiftRegister)
	}
}

func TestPulseOutputGates(t *testing.T) {
	ch := pulseChannel{
		enabled:        true,
		duty:           2,
		sequencePos:    1, // duty 2 sequence is high here
		constantVolume: true,
		timerPeriod:    100,
		lengthCounter:  10,
	}
	ch.envelope.volume = 9

	if got := ch.output(); got != 9 {
		t.Fatalf("output = %d, want 9", got)
	}

	ultrasonic := ch
	ultrasonic.timerPeriod = 7
	if ultrasonic.output() != 0 {
		t.Error("timer period < 8 did not silence the channel")
	}

	expired := ch
	expired.lengthCounter = 0
	if expired.output() != 0 {
		t.Error("expired length counter did not silence the channel")
	}

	lowDuty := ch
	lowDuty.sequencePos = 0 // duty 2 sequence is low here
	if lowDuty.output() != 0 {
		t.Error("low duty step did not silence the channel")
	}
}

func TestTriangleGates(t *testing.T) {
	ch := triangleChannel{
		enabled:       true,
		timerPeriod:   100,
		lengthCounter: 10,
		linearCounter: 10,
	}
	if ch.output() != 15 { // sequence position 0
		t.Errorf("output = %d, want 15", ch.output())
	}

	ch.linearCounter = 0
	if ch.output() != 0 {
		t.Error("zero linear counter did not silence the triangle")
	}

	ch.linearCounter = 10
	ch.timerPeriod = 1
	if ch.output() != 0 {
		t.Error("ultrasonic period did not silence the triangle")
	}
}

func TestTriangleLinearCounterReload(t *testing.T) {
	a := New()
	a.WriteRegister(0x4015, 0x04)
	a.WriteRegister(0x4008, 0x85) // control set, reload value 5
	a.WriteRegister(0x400B, 0x08) // sets the reload flag

	a.clockQuarterFrame()
	if a.triangle.linearCounter != 5 {
		t.Errorf("linear counter = %d after reload, want 5", a.triangle.linearCounter)
	}
}

func TestDMCLevelStub(t *testing.T) {
	a := New()
	a.WriteRegister(0x4011, 0x55)
	if a.dmc.output() != 0 {
		t.Error("disabled DMC produced output")
	}
	a.WriteRegister(0x4015, 0x10)
	if a.dmc.output() != 0x55 {
		t.Errorf("DMC output = %d, want direct-load level", a.dmc.output())
	}
}

func TestMixerFormula(t *testing.T) {
	// Silence maps to the centered floor
	if got := mix(0, 0, 0, 0, 0); got != -1.0 {
		t.Errorf("silent mix = %f, want -1", got)
	}

	// Full pulse pair: 95.88 / (8128/30 + 100)
	want := 95.88/(8128.0/30.0+100.0)*2.0 - 1.0
	if got := float64(mix(15, 15, 0, 0, 0)); math.Abs(got-want) > 1e-6 {
		t.Errorf("pulse mix = %f, want %f", got, want)
	}

	// Mixed output stays within [-1, 1]
	if got := mix(15, 15, 15, 15, 127); got < -1 || got > 1 {
		t.Errorf("full mix %f out of range", got)
	}
}

func TestSampleCadence(t *testing.T) {
	a := New()
	sink := &countingSink{}
	a.Connect(sink)

	stepCycles(a, int(CPUClockRate))
	got := len(sink.samples)
	if got < SampleRate-2 || got > SampleRate+2 {
		t.Errorf("%d samples per emulated second, want ~%d", got, SampleRate)
	}
}
