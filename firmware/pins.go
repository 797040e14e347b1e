//go:build tinygo

package main

import (
	"machine"
	"time"

	"go-drummer/sequencer"
)

// Pin map. Outputs sit in bit order of sequencer.Output.
var (
	clockPin = machine.D2
	resetPin = machine.D8

	outputPins = [...]machine.Pin{
		machine.D3, // downbeat LED
		machine.D4, // kick
		machine.D5, // snare
		machine.D6, // hihat closed
		machine.D7, // hihat open
	}

	knobPins = [sequencer.NumKnobs]machine.Pin{
		sequencer.KnobKick:        machine.A0,
		sequencer.KnobSnare:       machine.A1,
		sequencer.KnobHihatClosed: machine.A2,
		sequencer.KnobHihatOpen:   machine.A3,
		sequencer.KnobIntensity:   machine.A4,
		sequencer.KnobShuffle:     machine.A5,
	}
)

// board adapts the pins to the sequencer hardware interfaces
type board struct {
	adcs  [sequencer.NumKnobs]machine.ADC
	start time.Time
}

func newBoard() *board {
	b := &board{start: time.Now()}

	machine.InitADC()
	for k, pin := range knobPins {
		b.adcs[k] = machine.ADC{Pin: pin}
		b.adcs[k].Configure(machine.ADCConfig{})
	}

	for _, pin := range outputPins {
		pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		pin.Low()
	}
	resetPin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	clockPin.Configure(machine.PinConfig{Mode: machine.PinInput})
	return b
}

// ReadAnalog scales the 16-bit ADC reading down to 0..1023
func (b *board) ReadAnalog(k sequencer.Knob) int {
	return int(b.adcs[k].Get() >> 6)
}

func (b *board) ReadDigital(p sequencer.Pin) bool {
	return resetPin.Get()
}

func (b *board) Assert(m sequencer.Output) {
	for i, pin := range outputPins {
		if m&(1<<i) != 0 {
			pin.High()
		}
	}
}

func (b *board) Deassert(m sequencer.Output) {
	for i, pin := range outputPins {
		if m&(1<<i) != 0 {
			pin.Low()
		}
	}
}

func (b *board) Now() time.Duration {
	return time.Since(b.start)
}

// seed mixes the low bits of every pot, which carry conversion noise
func (b *board) seed() int64 {
	var s int64 = 1
	for i := 0; i < 8; i++ {
		for k := range b.adcs {
			s = s*31 + int64(b.adcs[k].Get()&0x3f)
		}
	}
	return s
}
