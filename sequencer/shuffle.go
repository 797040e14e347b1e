package sequencer

import (
	"math"
	"time"
)

// Resolution is the number of shuffle knob positions
const Resolution = 20

// ShuffleDelay returns how long an off-eighth sixteenth is held back.
// The maximum amount pushes the step close to a triplet feel.
func ShuffleDelay(period time.Duration, resolution, amount int) time.Duration {
	if amount <= 0 || resolution <= 0 || period <= 0 {
		return 0
	}
	p := float64(period) / float64(time.Millisecond)
	ms := ((p/1.5 - p/100) / float64(resolution)) * float64(amount)
	return time.Duration(math.Round(ms)) * time.Millisecond
}
