package sim

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go-drummer/sequencer"
)

func TestPanelClampsAndSelects(t *testing.T) {
	p := NewPanel(sequencer.RawMax, [sequencer.NumKnobs]int{sequencer.KnobShuffle: 5000})
	if got := p.Knob(sequencer.KnobShuffle); got != sequencer.RawMax {
		t.Fatalf("knob not clamped: %d", got)
	}
	p.Turn(sequencer.KnobShuffle, -2000)
	if got := p.Knob(sequencer.KnobShuffle); got != 0 {
		t.Fatalf("knob not clamped at zero: %d", got)
	}

	for idx := 0; idx < sequencer.Levels; idx++ {
		p.SelectOption(sequencer.KnobIntensity, idx, sequencer.Levels)
		raw := p.ReadAnalog(sequencer.KnobIntensity)
		if got := sequencer.MapKnob(sequencer.Levels, raw, sequencer.RawMax); got != idx {
			t.Fatalf("SelectOption(%d) gave raw %d which maps to %d", idx, raw, got)
		}
	}
}

func TestPanelPressReleases(t *testing.T) {
	p := NewPanel(0, [sequencer.NumKnobs]int{})
	p.Press(10 * time.Millisecond)
	if !p.ReadDigital(sequencer.PinReset) {
		t.Fatalf("button should read held right after Press")
	}
	deadline := time.Now().Add(time.Second)
	for p.Held() {
		if time.Now().After(deadline) {
			t.Fatalf("button never released")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRecorderCountsRisingEdges(t *testing.T) {
	var r Recorder
	r.Assert(sequencer.OutputKick | sequencer.OutputDownbeat)
	r.Assert(sequencer.OutputKick) // already high
	r.Deassert(sequencer.OutputAll)
	r.Assert(sequencer.OutputKick | sequencer.OutputSnare)

	counts := r.Counts()
	if counts[sequencer.Kick] != 2 || counts[sequencer.Snare] != 1 {
		t.Fatalf("counts %v, want kick=2 snare=1", counts)
	}
	if r.High() != sequencer.OutputKick|sequencer.OutputSnare {
		t.Fatalf("high %v", r.High())
	}
}

func TestSixteenthPeriod(t *testing.T) {
	if got := SixteenthPeriod(120); got != 125*time.Millisecond {
		t.Fatalf("120 bpm sixteenth = %v", got)
	}
}

func TestMetronomeOnlyPulsesWhileRunning(t *testing.T) {
	var edges atomic.Int32
	m := NewMetronome(MaxBPM, func() { edges.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	time.Sleep(120 * time.Millisecond)
	if n := edges.Load(); n != 0 {
		t.Fatalf("stopped metronome produced %d edges", n)
	}

	m.Start()
	deadline := time.Now().Add(2 * time.Second)
	for edges.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("running metronome produced %d edges", edges.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
	m.SetBPM(1000)
	if m.BPM() != MaxBPM {
		t.Fatalf("bpm not clamped: %d", m.BPM())
	}
}
