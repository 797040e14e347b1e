package sequencer

import "go-drummer/debug"

const (
	probLower = 0.5
	probUpper = 0.9
)

// Probability returns the chance an eligible step fires at a level.
// It rises linearly from probLower at level 1 to probUpper at levels-1.
func Probability(level, levels int) float64 {
	if level <= 0 {
		return 0
	}
	// too few levels for a slope: every non-zero level is the top level
	if levels <= 2 {
		return probUpper
	}
	if level > levels-1 {
		level = levels - 1
	}
	return probLower + (probUpper-probLower)/float64(levels-2)*float64(level-1)
}

// RollExtraNotes draws a fresh set of extra notes from an overlay mask.
// Only overlay steps can be returned; level 0 returns nothing and draws nothing.
func RollExtraNotes(overlay Steps, level, levels int, rnd Random) Steps {
	if level <= 0 || overlay == 0 {
		return 0
	}
	p := Probability(level, levels)
	var out Steps
	for step := 0; step < NumSteps; step++ {
		if overlay.Has(step) && rnd.Bit(p) {
			out = out.Set(step)
		}
	}
	return out
}

// IntensityEngine keeps the per-channel extra notes in sync with the
// intensity level, re-rolling one channel per call.
type IntensityEngine struct {
	table  *PatternTable
	levels int
	rnd    Random

	applied int // level the extra notes currently reflect, -1 = stale
	target  int // level the running round rolls for
	next    Channel
	rolling bool
}

// NewIntensityEngine creates an engine over a validated table
func NewIntensityEngine(table *PatternTable, levels int, rnd Random) *IntensityEngine {
	return &IntensityEngine{
		table:   table,
		levels:  levels,
		rnd:     rnd,
		applied: -1,
		target:  -1,
	}
}

// RollAll rolls every channel at once. Used at startup only.
func (e *IntensityEngine) RollAll(level int, extra *[NumChannels]Steps) {
	for ch := Channel(0); ch < NumChannels; ch++ {
		extra[ch] = RollExtraNotes(e.table.OverlayAt(ch, level), level, e.levels, e.rnd)
	}
	e.applied = level
	e.target = level
	e.next = Kick
	e.rolling = false
}

// Force starts a new round even if the level did not change
func (e *IntensityEngine) Force() {
	e.applied = -1
	e.target = -1
	e.next = Kick
	e.rolling = false
}

// Pending reports whether the extra notes do not yet reflect level
func (e *IntensityEngine) Pending(level int) bool {
	return e.rolling || level != e.applied
}

// Step rolls at most one channel. It returns the channel it rolled and
// whether it rolled anything.
func (e *IntensityEngine) Step(level int, extra *[NumChannels]Steps) (Channel, bool) {
	if !e.Pending(level) {
		return 0, false
	}
	if level != e.target {
		// level moved mid round, start over so every channel matches
		e.target = level
		e.next = Kick
		e.rolling = true
	}

	ch := e.next
	extra[ch] = RollExtraNotes(e.table.OverlayAt(ch, level), level, e.levels, e.rnd)
	e.next++
	if e.next == NumChannels {
		e.next = Kick
		e.applied = level
		e.rolling = false
		debug.Log("intensity", "round complete level=%d extra=%v", level, *extra)
	}
	return ch, true
}
