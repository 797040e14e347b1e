package midi

import (
	"errors"
	"testing"
	"time"

	"go-drummer/config"
	"go-drummer/sequencer"
	"go-drummer/sim"

	gomidi "gitlab.com/gomidi/midi/v2"
)

var (
	clockMsg    = gomidi.Message([]byte{0xF8})
	startMsg    = gomidi.Message([]byte{0xFA})
	continueMsg = gomidi.Message([]byte{0xFB})
	stopMsg     = gomidi.Message([]byte{0xFC})
)

func TestClockInDividesPulses(t *testing.T) {
	edges := 0
	c := NewClockIn(6, func() { edges++ })

	for i := 0; i < PPQN*2; i++ {
		c.handle(clockMsg)
	}
	if edges != 8 {
		t.Fatalf("two quarter notes gave %d edges, want 8", edges)
	}
	if c.Steps() != 8 {
		t.Fatalf("Steps() = %d", c.Steps())
	}
}

func TestClockInStartRealigns(t *testing.T) {
	edges, starts := 0, 0
	c := NewClockIn(6, func() { edges++ })
	c.OnStart(func() { starts++ })

	// partway into a step
	for i := 0; i < 4; i++ {
		c.handle(clockMsg)
	}
	edges = 0

	c.handle(startMsg)
	if starts != 1 {
		t.Fatalf("start callback ran %d times", starts)
	}
	c.handle(clockMsg)
	if edges != 1 {
		t.Fatalf("first pulse after Start should be an edge, got %d", edges)
	}
}

func TestClockInIgnoresPulsesWhileStopped(t *testing.T) {
	edges := 0
	c := NewClockIn(6, func() { edges++ })

	c.handle(stopMsg)
	for i := 0; i < 12; i++ {
		c.handle(clockMsg)
	}
	if edges != 0 || c.Running() {
		t.Fatalf("stopped clock produced %d edges", edges)
	}

	c.handle(continueMsg)
	for i := 0; i < 12; i++ {
		c.handle(clockMsg)
	}
	if edges != 2 {
		t.Fatalf("continued clock produced %d edges, want 2", edges)
	}
}

type stepClock struct {
	now time.Duration
}

func (c *stepClock) Now() time.Duration { return c.now }

// TestStartRealignsSequencer plays a source that starts over partway
// through the bar: its first pulse after Start must play step 0.
func TestStartRealignsSequencer(t *testing.T) {
	table := &sequencer.PatternTable{}
	for ch := sequencer.Channel(0); ch < sequencer.NumChannels; ch++ {
		table.Base[ch] = []sequencer.Steps{0}
		table.Overlay[ch] = make([]sequencer.Steps, sequencer.Levels)
	}
	table.Base[sequencer.Kick] = []sequencer.Steps{sequencer.StepsOf(1)}

	clock := &stepClock{now: time.Second}
	outputs := &sim.Recorder{}
	core, err := sequencer.New(sequencer.Hardware{
		Analog:  sim.NewPanel(sequencer.RawMax, [sequencer.NumKnobs]int{}),
		Digital: sim.NewPanel(sequencer.RawMax, [sequencer.NumKnobs]int{}),
		Outputs: outputs,
		Clock:   clock,
		Random:  sequencer.NewRandom(1),
	}, table, sequencer.DefaultSettings())
	if err != nil {
		t.Fatalf("sequencer.New: %v", err)
	}

	in := NewClockIn(6, core.ClockEdge)
	in.OnStart(core.Resync)

	// one pulse, then let a 24 PPQN pulse period pass at 120 BPM
	pulse := func(msg gomidi.Message) {
		in.handle(msg)
		core.Poll()
		for i := 0; i < 21; i++ {
			clock.now += time.Millisecond
			core.Poll()
		}
	}

	// five sixteenths in, the source restarts
	for i := 0; i < 5*6; i++ {
		pulse(clockMsg)
	}
	if step := core.Snapshot().Step; step != 5 {
		t.Fatalf("step %d before Start, want 5", step)
	}
	in.handle(stopMsg)
	in.handle(startMsg)

	var played []int
	for step := 0; step < 4; step++ {
		in.handle(clockMsg)
		core.Poll()
		if outputs.High().Has(sequencer.OutputKick) {
			played = append(played, step)
		}
		clock.now += 21 * time.Millisecond
		core.Poll()
		for i := 1; i < 6; i++ {
			pulse(clockMsg)
		}
	}
	if len(played) != 1 || played[0] != 0 {
		t.Fatalf("kick on source steps %v, want only the downbeat [0]", played)
	}
}

type sentNote struct {
	on       bool
	channel  uint8
	key      uint8
	velocity uint8
}

func recordSends(notes *[]sentNote, fail error) func(gomidi.Message) error {
	return func(msg gomidi.Message) error {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteOn(&ch, &key, &vel):
			*notes = append(*notes, sentNote{on: true, channel: ch, key: key, velocity: vel})
		case msg.GetNoteOff(&ch, &key, &vel):
			*notes = append(*notes, sentNote{channel: ch, key: key})
		}
		return fail
	}
}

func TestTriggerOutNotes(t *testing.T) {
	var sent []sentNote
	cfg := config.DefaultConfig().MIDIOut
	out := NewTriggerOut(recordSends(&sent, nil), cfg)

	out.Assert(sequencer.OutputKick | sequencer.OutputHihatClosed | sequencer.OutputDownbeat)
	if len(sent) != 2 {
		t.Fatalf("sent %+v, want two note ons", sent)
	}
	if sent[0] != (sentNote{on: true, channel: 9, key: 36, velocity: 100}) {
		t.Fatalf("kick note %+v", sent[0])
	}
	if sent[1].key != 42 {
		t.Fatalf("closed hat key %d", sent[1].key)
	}

	// already sounding
	out.Assert(sequencer.OutputKick)
	if len(sent) != 2 {
		t.Fatalf("repeat assert resent: %+v", sent)
	}

	out.Deassert(sequencer.OutputAll)
	out.Deassert(sequencer.OutputAll)
	if len(sent) != 4 {
		t.Fatalf("sent %+v, want two note offs", sent)
	}
	if sent[2].on || sent[3].on {
		t.Fatalf("expected note offs, got %+v", sent[2:])
	}
}

func TestTriggerOutCountsErrors(t *testing.T) {
	var sent []sentNote
	out := NewTriggerOut(recordSends(&sent, errors.New("port closed")), config.DefaultConfig().MIDIOut)
	out.Assert(sequencer.OutputSnare)
	out.Close()
	if out.Errors() != 2 {
		t.Fatalf("errors = %d, want 2", out.Errors())
	}
}

func TestMatchPort(t *testing.T) {
	names := []string{"Midi Through Port-0", "USB MIDI Interface MIDI 1", "usb midi"}
	tests := []struct {
		want string
		idx  int
	}{
		{"USB MIDI", 2},
		{"interface", 1},
		{"through", 0},
		{"launchpad", -1},
		{"", -1},
	}
	for _, tt := range tests {
		if got := MatchPort(names, tt.want); got != tt.idx {
			t.Errorf("MatchPort(%q) = %d, want %d", tt.want, got, tt.idx)
		}
	}
}

func TestPortManagerScan(t *testing.T) {
	ins := []string{"Clock A"}
	outs := []string{"Synth"}
	var listErr error
	pm := newPortManager(func() ([]string, []string, error) {
		return ins, outs, listErr
	})

	pm.scan()
	got := drain(pm)
	if len(got) != 2 || got[0] != (PortEvent{PortConnected, DirIn, "Clock A"}) || got[1] != (PortEvent{PortConnected, DirOut, "Synth"}) {
		t.Fatalf("first scan events %+v", got)
	}

	ins = []string{"Clock B"}
	pm.scan()
	got = drain(pm)
	if len(got) != 2 || got[0] != (PortEvent{PortConnected, DirIn, "Clock B"}) || got[1] != (PortEvent{PortDisconnected, DirIn, "Clock A"}) {
		t.Fatalf("second scan events %+v", got)
	}

	// a hung driver changes nothing
	listErr = ErrTimeout
	ins = nil
	pm.scan()
	if got := drain(pm); len(got) != 0 {
		t.Fatalf("failed scan produced %+v", got)
	}
	if names := pm.Inputs(); len(names) != 1 || names[0] != "Clock B" {
		t.Fatalf("inputs %v", names)
	}
}

func drain(pm *PortManager) []PortEvent {
	var events []PortEvent
	for {
		select {
		case ev := <-pm.events:
			events = append(events, ev)
		default:
			return events
		}
	}
}
