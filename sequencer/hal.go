package sequencer

import (
	"math/rand"
	"strings"
	"time"
)

// Channel is one of the four trigger outputs
type Channel int

const (
	Kick Channel = iota
	Snare
	HihatClosed
	HihatOpen
)

// NumChannels is the number of drum channels
const NumChannels = 4

var channelNames = [NumChannels]string{"BD", "SN", "HC", "HO"}

func (c Channel) String() string {
	if c < 0 || c >= NumChannels {
		return "??"
	}
	return channelNames[c]
}

// Output returns the output bit driven by this channel
func (c Channel) Output() Output {
	return OutputKick << uint(c)
}

// Output is a bitset over the physical outputs
type Output uint8

const (
	OutputDownbeat Output = 1 << iota // clock LED, lit on every quarter note
	OutputKick
	OutputSnare
	OutputHihatClosed
	OutputHihatOpen

	// OutputChannels covers the four drum outputs
	OutputChannels = OutputKick | OutputSnare | OutputHihatClosed | OutputHihatOpen
	// OutputAll covers every output
	OutputAll = OutputDownbeat | OutputChannels
)

// Has reports whether every bit of o is set
func (m Output) Has(o Output) bool {
	return m&o == o
}

func (m Output) String() string {
	if m == 0 {
		return "-"
	}
	var parts []string
	if m.Has(OutputDownbeat) {
		parts = append(parts, "DB")
	}
	for ch := Channel(0); ch < NumChannels; ch++ {
		if m.Has(ch.Output()) {
			parts = append(parts, ch.String())
		}
	}
	return strings.Join(parts, "+")
}

// Knob identifies one of the analog controls
type Knob int

const (
	KnobKick Knob = iota
	KnobSnare
	KnobHihatClosed
	KnobHihatOpen
	KnobIntensity
	KnobShuffle
)

// NumKnobs is the number of analog controls
const NumKnobs = 6

var knobNames = [NumKnobs]string{"kick", "snare", "hihat closed", "hihat open", "intensity", "shuffle"}

func (k Knob) String() string {
	if k < 0 || k >= NumKnobs {
		return "unknown"
	}
	return knobNames[k]
}

// Pin identifies a digital input
type Pin int

const (
	PinReset Pin = iota
)

// Analog reads a knob position. Must not block.
type Analog interface {
	ReadAnalog(k Knob) int
}

// Digital reads a digital input level. Must not block.
type Digital interface {
	ReadDigital(p Pin) bool
}

// Outputs drives the output bank. Both calls must be idempotent.
type Outputs interface {
	Assert(m Output)
	Deassert(m Output)
}

// Clock is a monotonic time source, usually time since boot
type Clock interface {
	Now() time.Duration
}

// Random decides a single weighted coin flip
type Random interface {
	Bit(p float64) bool
}

// Hardware bundles the capabilities the core is driven by
type Hardware struct {
	Analog  Analog
	Digital Digital
	Outputs Outputs
	Clock   Clock
	Random  Random
}

// Fanout forwards to several output banks in order
type Fanout []Outputs

func (f Fanout) Assert(m Output) {
	for _, o := range f {
		if o != nil {
			o.Assert(m)
		}
	}
}

func (f Fanout) Deassert(m Output) {
	for _, o := range f {
		if o != nil {
			o.Deassert(m)
		}
	}
}

type mathRandom struct {
	r *rand.Rand
}

// NewRandom returns a Random backed by math/rand. Seed 0 picks a time based seed.
func NewRandom(seed int64) Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &mathRandom{r: rand.New(rand.NewSource(seed))}
}

func (m *mathRandom) Bit(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return m.r.Float64() < p
}
