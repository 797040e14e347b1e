package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"

	"go-drummer/config"
	"go-drummer/debug"
	"go-drummer/sequencer"
)

// Monitor makes the trigger outputs audible through the sound card.
// It implements sequencer.Outputs: a rising edge on a drum output strikes
// that drum.
type Monitor struct {
	mu        sync.Mutex
	mixer     *Mixer
	high      sequencer.Output
	hits      [sequencer.NumChannels]uint64
	sampleBuf []float32

	ctx    *oto.Context
	player *oto.Player
}

// NewMonitor opens the audio device and starts playback
func NewMonitor(cfg config.AudioConfig) (*Monitor, error) {
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = 44100
	}
	op := &oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("audio: %w", err)
	}
	<-ready

	m := newMonitor(NewMixer(rate, cfg.Volume))
	m.ctx = ctx
	m.player = ctx.NewPlayer(m)
	m.player.Play()
	debug.Log("audio", "monitor at %d Hz volume %.2f", rate, cfg.Volume)
	return m, nil
}

func newMonitor(mixer *Mixer) *Monitor {
	return &Monitor{
		mixer:     mixer,
		sampleBuf: make([]float32, 1024),
	}
}

// Assert strikes every drum in out that was low
func (m *Monitor) Assert(out sequencer.Output) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for ch := sequencer.Channel(0); ch < sequencer.NumChannels; ch++ {
		bit := ch.Output()
		if out&bit != 0 && m.high&bit == 0 {
			m.mixer.Trigger(ch)
			m.hits[ch]++
		}
	}
	m.high |= out
}

// Deassert lets the drums in out be struck again. Sounds ring out on
// their own envelope.
func (m *Monitor) Deassert(out sequencer.Output) {
	m.mu.Lock()
	m.high &^= out
	m.mu.Unlock()
}

// Hits returns how many times each drum was struck
func (m *Monitor) Hits() [sequencer.NumChannels]uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits
}

// Read renders float32 little-endian samples for the player
func (m *Monitor) Read(p []byte) (int, error) {
	numSamples := len(p) / 4

	m.mu.Lock()
	if len(m.sampleBuf) < numSamples {
		m.sampleBuf = make([]float32, numSamples)
	}
	samples := m.sampleBuf[:numSamples]
	m.mixer.Render(samples)
	m.mu.Unlock()

	for i, s := range samples {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	return numSamples * 4, nil
}

// Close stops playback
func (m *Monitor) Close() error {
	if m.player == nil {
		return nil
	}
	err := m.player.Close()
	m.player = nil
	return err
}
