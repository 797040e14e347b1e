package midi

import (
	"fmt"
	"sync"

	"go-drummer/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// PPQN is the MIDI timing clock rate: pulses per quarter note
const PPQN = 24

// ClockIn turns incoming MIDI timing clock into sequencer clock edges
type ClockIn struct {
	mu            sync.Mutex
	pulsesPerStep int
	pulses        int
	running       bool
	steps         uint64

	onEdge  func()
	onStart func()

	stopFunc func()
}

// NewClockIn creates a divider producing one edge every pulsesPerStep
// timing clock messages. 6 gives sixteenth notes.
func NewClockIn(pulsesPerStep int, onEdge func()) *ClockIn {
	if pulsesPerStep <= 0 {
		pulsesPerStep = PPQN / 4
	}
	return &ClockIn{
		pulsesPerStep: pulsesPerStep,
		running:       true, // some sources send clock without ever sending Start
		onEdge:        onEdge,
	}
}

// OnStart registers a callback for MIDI Start, used to line the pattern up
// with the source
func (c *ClockIn) OnStart(f func()) {
	c.mu.Lock()
	c.onStart = f
	c.mu.Unlock()
}

// Open starts listening on an input port
func (c *ClockIn) Open(port drivers.In) error {
	// rtmidi drops timing clock unless time code is requested
	stop, err := gomidi.ListenTo(port, func(msg gomidi.Message, timestampms int32) {
		c.handle(msg)
	}, gomidi.UseTimeCode())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", port.String(), err)
	}
	c.mu.Lock()
	c.stopFunc = stop
	c.mu.Unlock()
	debug.Log("midi", "clock in on %s, %d pulses per step", port.String(), c.pulsesPerStep)
	return nil
}

// Steps returns how many edges have been produced
func (c *ClockIn) Steps() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.steps
}

// Running reports whether the source is between Start/Continue and Stop
func (c *ClockIn) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *ClockIn) handle(msg gomidi.Message) {
	var edge, start func()

	c.mu.Lock()
	switch msg.Type() {
	case gomidi.TimingClockMsg:
		if !c.running {
			break
		}
		// the first pulse after Start is the downbeat
		if c.pulses%c.pulsesPerStep == 0 {
			edge = c.onEdge
			c.steps++
		}
		c.pulses++
	case gomidi.StartMsg:
		c.running = true
		c.pulses = 0
		start = c.onStart
	case gomidi.ContinueMsg:
		c.running = true
	case gomidi.StopMsg:
		c.running = false
	}
	c.mu.Unlock()

	if start != nil {
		debug.Log("midi", "start")
		start()
	}
	if edge != nil {
		edge()
	}
}

// Close stops listening
func (c *ClockIn) Close() error {
	c.mu.Lock()
	stop := c.stopFunc
	c.stopFunc = nil
	c.mu.Unlock()
	if stop != nil {
		stop()
	}
	return nil
}
