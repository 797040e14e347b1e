package sequencer

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go-drummer/debug"
)

// State is the externally visible phase of the core. Resetting lasts for
// the loop pass that moved the cursor back to step 0.
type State int

const (
	Idle State = iota
	Triggering
	Resetting
)

func (s State) String() string {
	switch s {
	case Triggering:
		return "triggering"
	case Resetting:
		return "resetting"
	}
	return "idle"
}

// Snapshot is an immutable copy of the core state for other goroutines
type Snapshot struct {
	State       State
	Step        int // step the next clock edge will play
	Patterns    [NumChannels]int
	Counts      [NumChannels]int
	Base        [NumChannels]Steps
	Extra       [NumChannels]Steps
	Intensity   int
	Shuffle     int
	PulsePeriod time.Duration
	Outputs     Output
	Edges       uint64
	Resets      uint64
	AutoResets  uint64
}

// deferred is an output waiting for its shuffle delay to pass
type deferred struct {
	mask  Output
	due   time.Duration
	armed bool
}

// Core is the sequencer state machine. ClockEdge may be called from an
// interrupt or another goroutine; everything else runs on the loop.
type Core struct {
	hw       Hardware
	table    *PatternTable
	settings Settings

	clockEdge atomic.Bool
	resyncReq atomic.Bool
	snapshot  atomic.Pointer[Snapshot]

	state     State
	cursor    Cursor
	patterns  [NumChannels]int
	extra     [NumChannels]Steps
	intensity int
	shuffle   int

	engine  *IntensityEngine
	refresh refresher
	button  button

	pending     deferred
	outputs     Output // currently asserted
	triggerAt   time.Duration
	lastClock   time.Duration
	haveClock   bool
	pulsePeriod time.Duration
	watchdog    bool // armed by a clock edge, disarmed by an auto reset

	blinks    int // blink transitions left
	blinkNext time.Duration
	blinkOn   bool

	edges      uint64
	resets     uint64
	autoResets uint64
}

// New validates the configuration, samples every knob once and rolls
// the initial extra notes.
func New(hw Hardware, table *PatternTable, s Settings) (*Core, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("sequencer settings: %w", err)
	}
	if table == nil {
		table = DefaultPatterns()
	}
	if err := table.Validate(s.Levels); err != nil {
		return nil, fmt.Errorf("pattern table: %w", err)
	}
	if hw.Analog == nil || hw.Digital == nil || hw.Outputs == nil || hw.Clock == nil || hw.Random == nil {
		return nil, fmt.Errorf("sequencer: incomplete hardware %+v", hw)
	}

	c := &Core{
		hw:       hw,
		table:    table,
		settings: s,
		state:    Idle,
		cursor:   StartCursor,
		engine:   NewIntensityEngine(table, s.Levels, hw.Random),
	}
	c.refresh = newRefresher(c)

	now := hw.Clock.Now()
	c.refresh.all()
	c.engine.RollAll(c.intensity, &c.extra)
	c.button = newButton(s.Debounce, s.LongPress, c.buttonDown(), now)

	debug.Log("seq", "start patterns=%v intensity=%d shuffle=%d", c.patterns, c.intensity, c.shuffle)
	c.publish()
	return c, nil
}

// ClockEdge records that a clock pulse arrived. It only sets a flag and is
// safe to call from an interrupt handler.
func (c *Core) ClockEdge() {
	c.clockEdge.Store(true)
}

// Resync asks the loop to restart at step 0 before it handles the next
// clock edge. Unlike a reset press it keeps an edge that arrives with it,
// so a source's Start followed by its first pulse plays step 0. Safe to
// call from an interrupt handler.
func (c *Core) Resync() {
	c.resyncReq.Store(true)
}

// Snapshot returns the last published state
func (c *Core) Snapshot() Snapshot {
	return *c.snapshot.Load()
}

// Run polls until ctx is cancelled
func (c *Core) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			c.hw.Outputs.Deassert(OutputAll)
			return ctx.Err()
		default:
		}
		c.Poll()
		if c.settings.PollInterval > 0 {
			time.Sleep(c.settings.PollInterval)
		}
	}
}

// Poll runs one pass of the control loop. It never blocks.
func (c *Core) Poll() {
	now := c.hw.Clock.Now()
	changed := false

	if c.state == Resetting {
		c.state = Idle
		changed = true
	}

	switch c.button.update(c.buttonDown(), now) {
	case PressShort:
		debug.Log("seq", "short press at step %d", c.cursor.Index())
		c.reset()
		changed = true
	case PressLong:
		debug.Log("seq", "long press, forcing intensity re-roll at level %d", c.intensity)
		c.engine.Force()
		changed = true
	}

	if c.resyncReq.CompareAndSwap(true, false) {
		debug.Log("seq", "resync at step %d", c.cursor.Index())
		c.restart()
		changed = true
	}

	if c.clockEdge.CompareAndSwap(true, false) {
		c.onClock(now)
		changed = true
	}

	if c.pending.armed && now >= c.pending.due {
		c.fire(c.pending.mask, now)
		c.pending.armed = false
		changed = true
	}

	if c.state == Triggering && now-c.triggerAt >= c.settings.TriggerLength {
		c.hw.Outputs.Deassert(OutputAll)
		c.outputs = 0
		c.state = Idle
		changed = true
	}

	if c.checkWatchdog(now) {
		changed = true
	}
	if c.stepBlink(now) {
		changed = true
	}

	if changed {
		c.publish()
	}
}

// onClock handles one (possibly coalesced) clock edge
func (c *Core) onClock(now time.Duration) {
	// a shuffled step that has not gone out yet goes out now
	if c.pending.armed {
		c.fire(c.pending.mask, now)
		c.pending.armed = false
	}

	if c.haveClock {
		c.pulsePeriod = now - c.lastClock
	}
	c.lastClock = now
	c.haveClock = true
	c.watchdog = true
	c.edges++

	mask := c.compose()
	delay := time.Duration(0)
	if c.cursor.Odd() {
		delay = ShuffleDelay(c.pulsePeriod, c.settings.Resolution, c.shuffle)
	}
	if delay > 0 {
		c.pending = deferred{mask: mask, due: now + delay, armed: true}
	} else {
		c.fire(mask, now)
	}
	debug.LogEvery(NumSteps, "clock", "step=%d out=%v period=%v shuffle=%v", c.cursor.Index(), mask, c.pulsePeriod, delay)

	c.cursor = c.cursor.Advance()
	c.refresh.next()
	c.engine.Step(c.intensity, &c.extra)
}

// compose builds the output mask for the current step
func (c *Core) compose() Output {
	var mask Output
	step := c.cursor.Index()
	for ch := Channel(0); ch < NumChannels; ch++ {
		base := c.table.Pattern(ch, c.patterns[ch])
		if base.Has(step) || c.extra[ch].Has(step) {
			mask |= ch.Output()
		}
	}
	if c.cursor.In(Downbeats) {
		mask |= OutputDownbeat
	}
	return mask
}

// fire asserts a composed mask and starts the trigger timer
func (c *Core) fire(mask Output, now time.Duration) {
	if c.blinks > 0 {
		// a clock edge ends the acknowledgement blink
		c.blinks = 0
		c.blinkOn = false
	}
	if stale := c.outputs &^ mask; stale != 0 {
		c.hw.Outputs.Deassert(stale)
	}
	c.hw.Outputs.Assert(mask)
	c.outputs = mask
	c.triggerAt = now
	c.state = Triggering
}

// restart moves back to the first step without touching patterns or intensity
func (c *Core) restart() {
	c.cursor = StartCursor
	c.pending.armed = false
	c.resets++

	// an in-flight trigger finishes on its own timer
	if c.state != Triggering {
		c.state = Resetting
	}
}

// reset is the button action. It also drops an edge that has not been
// handled yet and the shuffle until the knob is read again.
func (c *Core) reset() {
	c.restart()
	c.shuffle = 0
	c.clockEdge.Store(false)
}

// checkWatchdog resets once after the clock has been silent long enough
func (c *Core) checkWatchdog(now time.Duration) bool {
	if !c.watchdog || !c.haveClock {
		return false
	}
	if now-c.lastClock <= c.settings.SilenceTimeout {
		return false
	}
	if c.cursor == StartCursor {
		return false
	}

	debug.Log("seq", "clock silent for %v, auto reset from step %d", now-c.lastClock, c.cursor.Index())
	c.watchdog = false
	c.reset()
	c.autoResets++
	c.startBlink(now)
	return true
}

func (c *Core) startBlink(now time.Duration) {
	if c.settings.BlinkCount == 0 {
		return
	}
	c.blinks = c.settings.BlinkCount * 2
	c.blinkNext = now
	c.blinkOn = false
}

// stepBlink advances the acknowledgement blink without blocking
func (c *Core) stepBlink(now time.Duration) bool {
	if c.blinks == 0 || now < c.blinkNext {
		return false
	}
	if c.blinkOn {
		c.hw.Outputs.Deassert(OutputDownbeat)
		c.outputs &^= OutputDownbeat
	} else {
		c.hw.Outputs.Assert(OutputDownbeat)
		c.outputs |= OutputDownbeat
	}
	c.blinkOn = !c.blinkOn
	c.blinks--
	c.blinkNext = now + c.settings.BlinkInterval
	return true
}

func (c *Core) buttonDown() bool {
	level := c.hw.Digital.ReadDigital(PinReset)
	if c.settings.ButtonActiveLow {
		return !level
	}
	return level
}

func (c *Core) publish() {
	s := &Snapshot{
		State:       c.state,
		Step:        c.cursor.Index(),
		Patterns:    c.patterns,
		Extra:       c.extra,
		Intensity:   c.intensity,
		Shuffle:     c.shuffle,
		PulsePeriod: c.pulsePeriod,
		Outputs:     c.outputs,
		Edges:       c.edges,
		Resets:      c.resets,
		AutoResets:  c.autoResets,
	}
	for ch := Channel(0); ch < NumChannels; ch++ {
		s.Counts[ch] = c.table.Count(ch)
		s.Base[ch] = c.table.Pattern(ch, c.patterns[ch])
	}
	c.snapshot.Store(s)
}
