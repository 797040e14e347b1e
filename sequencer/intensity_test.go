package sequencer

import (
	"math"
	"math/rand"
	"testing"
)

func TestRollExtraNotesStaysInsideOverlay(t *testing.T) {
	rnd := NewRandom(42)
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		overlay := Steps(r.Intn(1 << 16))
		level := r.Intn(Levels)
		got := RollExtraNotes(overlay, level, Levels, rnd)
		if !got.Within(overlay) {
			t.Fatalf("overlay %v level %d: result %v escapes overlay", overlay, level, got)
		}
		if level == 0 && got != 0 {
			t.Fatalf("level 0 produced %v", got)
		}
	}
}

func TestRollExtraNotesLevelZeroDrawsNothing(t *testing.T) {
	rnd := &fixedRandom{value: true}
	if got := RollExtraNotes(0xFFFF, 0, Levels, rnd); got != 0 {
		t.Fatalf("level 0 result %v, want empty", got)
	}
	if rnd.draws != 0 {
		t.Fatalf("level 0 drew %d times", rnd.draws)
	}
}

func TestRollExtraNotesOneDrawPerEligibleStep(t *testing.T) {
	rnd := &fixedRandom{value: true}
	overlay := Steps(0b0001001001100101)
	if got := RollExtraNotes(overlay, 5, Levels, rnd); got != overlay {
		t.Fatalf("always-true draw gave %v, want %v", got, overlay)
	}
	if rnd.draws != overlay.Count() {
		t.Fatalf("draws = %d, want %d", rnd.draws, overlay.Count())
	}
}

func TestProbability(t *testing.T) {
	tests := []struct {
		level, levels int
		want          float64
	}{
		{0, 6, 0},
		{1, 6, 0.5},
		{3, 6, 0.7},
		{5, 6, 0.9},
		{9, 6, 0.9},
		{1, 2, 0.9},
		{1, 1, 0.9},
		{0, 2, 0},
	}
	for _, tt := range tests {
		if got := Probability(tt.level, tt.levels); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Probability(%d, %d) = %f, want %f", tt.level, tt.levels, got, tt.want)
		}
	}
}

func TestIntensityEngineRoundRobin(t *testing.T) {
	table := testTable(0)
	rnd := &fixedRandom{value: true}
	e := NewIntensityEngine(table, Levels, rnd)

	var extra [NumChannels]Steps
	e.RollAll(0, &extra)
	if extra != [NumChannels]Steps{} {
		t.Fatalf("level 0 start should be empty, got %v", extra)
	}
	if _, rolled := e.Step(0, &extra); rolled {
		t.Fatalf("no roll expected while level is unchanged")
	}

	for i := 0; i < NumChannels; i++ {
		ch, rolled := e.Step(2, &extra)
		if !rolled || ch != Channel(i) {
			t.Fatalf("call %d: rolled %s (%v), want %s", i, ch, rolled, Channel(i))
		}
		for later := ch + 1; later < NumChannels; later++ {
			if extra[later] != 0 {
				t.Fatalf("call %d: %s rolled ahead of its turn", i, later)
			}
		}
	}
	for ch := Channel(0); ch < NumChannels; ch++ {
		if extra[ch] != table.OverlayAt(ch, 2) {
			t.Fatalf("%s extra %v, want %v", ch, extra[ch], table.OverlayAt(ch, 2))
		}
	}
	if e.Pending(2) {
		t.Fatalf("round should be complete")
	}
}

func TestIntensityEngineRestartsOnLevelChange(t *testing.T) {
	table := testTable(0)
	e := NewIntensityEngine(table, Levels, &fixedRandom{value: true})
	var extra [NumChannels]Steps
	e.RollAll(1, &extra)

	e.Step(2, &extra)
	e.Step(2, &extra)
	// knob moves mid round
	ch, _ := e.Step(3, &extra)
	if ch != Kick {
		t.Fatalf("level change should restart at kick, got %s", ch)
	}
	for i := 1; i < NumChannels; i++ {
		e.Step(3, &extra)
	}
	for ch := Channel(0); ch < NumChannels; ch++ {
		if extra[ch] != table.OverlayAt(ch, 3) {
			t.Fatalf("%s extra %v, want level 3 overlay %v", ch, extra[ch], table.OverlayAt(ch, 3))
		}
	}
}

func TestIntensityEngineForce(t *testing.T) {
	table := testTable(0)
	rnd := &fixedRandom{}
	e := NewIntensityEngine(table, Levels, rnd)
	var extra [NumChannels]Steps
	e.RollAll(3, &extra)

	rnd.value = true
	e.Force()
	var order []Channel
	for e.Pending(3) {
		ch, _ := e.Step(3, &extra)
		order = append(order, ch)
	}
	if len(order) != NumChannels {
		t.Fatalf("forced round took %d steps, want %d", len(order), NumChannels)
	}
	for ch := Channel(0); ch < NumChannels; ch++ {
		if extra[ch] != table.OverlayAt(ch, 3) {
			t.Fatalf("%s not re-rolled", ch)
		}
	}
}
