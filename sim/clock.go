package sim

import "time"

// WallClock reports time since it was created
type WallClock struct {
	start time.Time
}

// NewWallClock starts a clock at zero
func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

// Now implements sequencer.Clock
func (c *WallClock) Now() time.Duration {
	return time.Since(c.start)
}
