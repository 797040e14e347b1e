package sequencer

import (
	"testing"
	"time"
)

type manualClock struct {
	now time.Duration
}

func (c *manualClock) Now() time.Duration      { return c.now }
func (c *manualClock) Advance(d time.Duration) { c.now += d }

type fakePanel struct {
	knobs [NumKnobs]int
	down  bool
	reads [NumKnobs]int
}

func (p *fakePanel) ReadAnalog(k Knob) int {
	p.reads[k]++
	return p.knobs[k]
}

func (p *fakePanel) ReadDigital(pin Pin) bool { return p.down }

type outEvent struct {
	at   time.Duration
	mask Output
	on   bool
}

type recorder struct {
	clock  *manualClock
	high   Output
	events []outEvent
}

func (r *recorder) Assert(m Output) {
	r.high |= m
	r.events = append(r.events, outEvent{at: r.clock.now, mask: m, on: true})
}

func (r *recorder) Deassert(m Output) {
	r.high &^= m
	r.events = append(r.events, outEvent{at: r.clock.now, mask: m, on: false})
}

// asserted returns every non-empty mask passed to Assert
func (r *recorder) asserted() []Output {
	var out []Output
	for _, e := range r.events {
		if e.on && e.mask != 0 {
			out = append(out, e.mask)
		}
	}
	return out
}

// fixedRandom answers every draw with the same value and counts draws
type fixedRandom struct {
	value bool
	draws int
}

func (f *fixedRandom) Bit(p float64) bool {
	f.draws++
	return f.value
}

type rig struct {
	clock *manualClock
	panel *fakePanel
	out   *recorder
	rnd   *fixedRandom
	core  *Core
}

func newRig(t testing.TB, table *PatternTable, s Settings, knobs [NumKnobs]int) *rig {
	t.Helper()
	clock := &manualClock{now: time.Second}
	r := &rig{
		clock: clock,
		panel: &fakePanel{knobs: knobs},
		out:   &recorder{clock: clock},
		rnd:   &fixedRandom{},
	}
	core, err := New(Hardware{
		Analog:  r.panel,
		Digital: r.panel,
		Outputs: r.out,
		Clock:   clock,
		Random:  r.rnd,
	}, table, s)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.core = core
	return r
}

// edge delivers one clock edge, polls, then lets period pass in small polls
func (r *rig) edge(period time.Duration) {
	r.core.ClockEdge()
	r.core.Poll()
	r.wait(period)
}

// wait advances the clock in 1ms polls
func (r *rig) wait(d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += time.Millisecond {
		r.clock.Advance(time.Millisecond)
		r.core.Poll()
	}
}

// press holds the button for d and releases it
func (r *rig) press(d time.Duration) {
	r.panel.down = true
	r.core.Poll()
	r.wait(d)
	r.panel.down = false
	r.core.Poll()
}

// testTable has one base pattern per channel and a distinct overlay per level
func testTable(kick Steps) *PatternTable {
	t := &PatternTable{}
	for ch := Channel(0); ch < NumChannels; ch++ {
		t.Base[ch] = []Steps{0}
		t.Overlay[ch] = make([]Steps, Levels)
		for lvl := 1; lvl < Levels; lvl++ {
			// one eligible step per channel and level, never overlapping the kick pattern
			t.Overlay[ch][lvl] = StepsOf().Set(1 + int(ch)*4 + lvl%2*2)
		}
	}
	t.Base[Kick] = []Steps{kick}
	return t
}

// knobAt returns the raw reading that selects idx out of options
func knobAt(idx, options int) int {
	width := (RawMax + options - 1) / options
	return idx*width + width/2
}
