package audio

import (
	"math"

	"go-drummer/sequencer"
)

// voice is one decaying drum sound
type voice struct {
	active bool
	t      float64 // seconds since trigger
	phase  float64
	hp     float32 // high-pass state for noise voices
	prev   float32
}

// Mixer synthesizes the four drum channels into mono float samples
type Mixer struct {
	rate   float64
	volume float32
	voices [sequencer.NumChannels]voice
	noise  uint32
}

// NewMixer creates a mixer at sampleRate
func NewMixer(sampleRate int, volume float64) *Mixer {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	return &Mixer{rate: float64(sampleRate), volume: float32(volume), noise: 0x2545F491}
}

// Trigger restarts the voice for ch
func (m *Mixer) Trigger(ch sequencer.Channel) {
	m.voices[ch] = voice{active: true}
	if ch == sequencer.HihatClosed {
		// closed hat chokes the open one
		m.voices[sequencer.HihatOpen].active = false
	}
}

// Active reports whether ch is still sounding
func (m *Mixer) Active(ch sequencer.Channel) bool {
	return m.voices[ch].active
}

// Render fills buf with the next samples
func (m *Mixer) Render(buf []float32) {
	dt := 1 / m.rate
	for i := range buf {
		var s float32
		for ch := sequencer.Channel(0); ch < sequencer.NumChannels; ch++ {
			v := &m.voices[ch]
			if !v.active {
				continue
			}
			s += m.sample(ch, v)
			v.t += dt
			if v.t > decayTime[ch] {
				v.active = false
			}
		}
		buf[i] = clip(s * m.volume)
	}
}

var decayTime = [sequencer.NumChannels]float64{
	sequencer.Kick:        0.45,
	sequencer.Snare:       0.25,
	sequencer.HihatClosed: 0.06,
	sequencer.HihatOpen:   0.35,
}

func (m *Mixer) sample(ch sequencer.Channel, v *voice) float32 {
	env := float32(math.Exp(-v.t * 5 / decayTime[ch]))
	switch ch {
	case sequencer.Kick:
		// pitch sweeps 150 Hz down to 45 Hz
		freq := 45 + 105*math.Exp(-v.t*30)
		v.phase += 2 * math.Pi * freq / m.rate
		return float32(math.Sin(v.phase)) * env
	case sequencer.Snare:
		v.phase += 2 * math.Pi * 190 / m.rate
		tone := float32(math.Sin(v.phase)) * 0.4
		return (tone + m.white()*0.7) * env
	default:
		// crude high-pass to keep only the sizzle
		n := m.white()
		v.hp = 0.8 * (v.hp + n - v.prev)
		v.prev = n
		return v.hp * 0.6 * env
	}
}

// white returns xorshift noise in [-1, 1)
func (m *Mixer) white() float32 {
	x := m.noise
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	m.noise = x
	return float32(x)/float32(1<<31) - 1
}

func clip(s float32) float32 {
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}
