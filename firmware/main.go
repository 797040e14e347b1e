//go:build tinygo

// Firmware for the drum trigger module.
package main

import (
	"machine"

	"go-drummer/debug"
	"go-drummer/sequencer"
)

func main() {
	debug.SetOutput(machine.Serial)

	b := newBoard()
	settings := sequencer.DefaultSettings()
	settings.ButtonActiveLow = true // pull-up, button to ground

	core, err := sequencer.New(sequencer.Hardware{
		Analog:  b,
		Digital: b,
		Outputs: b,
		Clock:   b,
		Random:  sequencer.NewRandom(b.seed()),
	}, nil, settings)
	if err != nil {
		// a stuck clock LED signals a bad build
		debug.Log("boot", "%v", err)
		b.Assert(sequencer.OutputDownbeat)
		select {}
	}

	err = clockPin.SetInterrupt(machine.PinRising, func(machine.Pin) {
		core.ClockEdge()
	})
	if err != nil {
		debug.Log("boot", "clock interrupt: %v", err)
	}

	for {
		core.Poll()
	}
}
