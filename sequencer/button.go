package sequencer

import "time"

// Press is the outcome of a completed button press
type Press int

const (
	PressNone Press = iota
	PressShort
	PressLong
)

func (p Press) String() string {
	switch p {
	case PressShort:
		return "short"
	case PressLong:
		return "long"
	}
	return "none"
}

// button debounces the reset button and classifies presses on release
type button struct {
	debounce time.Duration
	long     time.Duration

	down      bool
	changedAt time.Duration
	pressedAt time.Duration
}

func newButton(debounce, long time.Duration, down bool, now time.Duration) button {
	return button{
		debounce:  debounce,
		long:      long,
		down:      down,
		changedAt: now,
		pressedAt: now,
	}
}

// update feeds the current level and returns a press when one completes
func (b *button) update(down bool, now time.Duration) Press {
	if down == b.down {
		return PressNone
	}
	if now-b.changedAt < b.debounce {
		return PressNone
	}
	b.down = down
	b.changedAt = now

	if down {
		b.pressedAt = now
		return PressNone
	}
	if now-b.pressedAt >= b.long {
		return PressLong
	}
	return PressShort
}
