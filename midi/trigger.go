package midi

import (
	"fmt"
	"sync"

	"go-drummer/config"
	"go-drummer/debug"
	"go-drummer/sequencer"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// TriggerOut plays the drum outputs as notes on a MIDI port.
// The downbeat LED has no note.
type TriggerOut struct {
	mu       sync.Mutex
	send     func(msg gomidi.Message) error
	channel  uint8 // 0-15
	notes    [sequencer.NumChannels]uint8
	velocity uint8
	high     sequencer.Output
	errors   int
}

// NewTriggerOut wraps a send function
func NewTriggerOut(send func(msg gomidi.Message) error, cfg config.MIDIOutConfig) *TriggerOut {
	ch := cfg.Channel
	if ch >= 1 {
		ch--
	}
	vel := cfg.Velocity
	if vel == 0 || vel > 127 {
		vel = 100
	}
	return &TriggerOut{
		send:     send,
		channel:  ch & 0x0F,
		notes:    cfg.Notes,
		velocity: vel,
	}
}

// OpenTriggerOut opens port for sending
func OpenTriggerOut(port drivers.Out, cfg config.MIDIOutConfig) (*TriggerOut, error) {
	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", port.String(), err)
	}
	debug.Log("midi", "trigger out on %s ch=%d notes=%v", port.String(), cfg.Channel, cfg.Notes)
	return NewTriggerOut(send, cfg), nil
}

// Assert sends NoteOn for every drum output in m that is not already sounding
func (t *TriggerOut) Assert(m sequencer.Output) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for ch := sequencer.Channel(0); ch < sequencer.NumChannels; ch++ {
		bit := ch.Output()
		if m&bit == 0 || t.high&bit != 0 {
			continue
		}
		t.high |= bit
		t.emit(gomidi.NoteOn(t.channel, t.notes[ch], t.velocity))
	}
}

// Deassert sends NoteOff for every drum output in m that is sounding
func (t *TriggerOut) Deassert(m sequencer.Output) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for ch := sequencer.Channel(0); ch < sequencer.NumChannels; ch++ {
		bit := ch.Output()
		if m&bit == 0 || t.high&bit == 0 {
			continue
		}
		t.high &^= bit
		t.emit(gomidi.NoteOff(t.channel, t.notes[ch]))
	}
}

// Errors returns how many sends failed
func (t *TriggerOut) Errors() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.errors
}

// Close releases any sounding notes
func (t *TriggerOut) Close() error {
	t.Deassert(sequencer.OutputAll)
	return nil
}

func (t *TriggerOut) emit(msg gomidi.Message) {
	if t.send == nil {
		return
	}
	if err := t.send(msg); err != nil {
		t.errors++
		debug.LogEvery(100, "midi", "send %v: %v", msg, err)
	}
}
