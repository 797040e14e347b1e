package sim

import (
	"sync/atomic"
	"time"

	"go-drummer/sequencer"
)

// Panel is a virtual front panel: six pots and the reset button.
// It is written from the UI goroutine and read by the control loop.
type Panel struct {
	knobs  [sequencer.NumKnobs]atomic.Int32
	button atomic.Bool
	rawMax int
}

// NewPanel creates a panel with the given initial pot positions
func NewPanel(rawMax int, knobs [sequencer.NumKnobs]int) *Panel {
	if rawMax <= 0 {
		rawMax = sequencer.RawMax
	}
	p := &Panel{rawMax: rawMax}
	for k, v := range knobs {
		p.SetKnob(sequencer.Knob(k), v)
	}
	return p
}

// ReadAnalog implements sequencer.Analog
func (p *Panel) ReadAnalog(k sequencer.Knob) int {
	if k < 0 || k >= sequencer.NumKnobs {
		return 0
	}
	return int(p.knobs[k].Load())
}

// ReadDigital implements sequencer.Digital. The button reads true while held.
func (p *Panel) ReadDigital(pin sequencer.Pin) bool {
	if pin != sequencer.PinReset {
		return false
	}
	return p.button.Load()
}

// Knob returns the current raw pot position
func (p *Panel) Knob(k sequencer.Knob) int {
	return p.ReadAnalog(k)
}

// SetKnob moves a pot, clamped to the ADC range
func (p *Panel) SetKnob(k sequencer.Knob, raw int) {
	if k < 0 || k >= sequencer.NumKnobs {
		return
	}
	if raw < 0 {
		raw = 0
	}
	if raw > p.rawMax {
		raw = p.rawMax
	}
	p.knobs[k].Store(int32(raw))
}

// Turn moves a pot by delta
func (p *Panel) Turn(k sequencer.Knob, delta int) {
	p.SetKnob(k, p.Knob(k)+delta)
}

// SelectOption centres a pot on option idx of options
func (p *Panel) SelectOption(k sequencer.Knob, idx, options int) {
	if options <= 0 {
		return
	}
	width := (p.rawMax + options - 1) / options
	p.SetKnob(k, idx*width+width/2)
}

// Hold sets the button level directly
func (p *Panel) Hold(down bool) {
	p.button.Store(down)
}

// Press holds the button for d and releases it in the background
func (p *Panel) Press(d time.Duration) {
	p.button.Store(true)
	time.AfterFunc(d, func() {
		p.button.Store(false)
	})
}

// Held reports whether the button is down
func (p *Panel) Held() bool {
	return p.button.Load()
}
