package sim

import (
	"context"
	"sync/atomic"
	"time"

	"go-drummer/debug"
)

const (
	MinBPM = 20
	MaxBPM = 300
)

// SixteenthPeriod returns the time between sixteenth notes at bpm
func SixteenthPeriod(bpm int) time.Duration {
	if bpm <= 0 {
		bpm = MinBPM
	}
	return time.Minute / time.Duration(bpm*4)
}

// Metronome is an internal clock source producing sixteenth-note edges
type Metronome struct {
	bpm     atomic.Int32
	running atomic.Bool
	changed chan struct{}
	onEdge  func()
}

// NewMetronome creates a stopped metronome calling onEdge for every pulse
func NewMetronome(bpm int, onEdge func()) *Metronome {
	m := &Metronome{
		changed: make(chan struct{}, 1),
		onEdge:  onEdge,
	}
	m.SetBPM(bpm)
	return m
}

// SetBPM changes the tempo, clamped to MinBPM..MaxBPM
func (m *Metronome) SetBPM(bpm int) {
	if bpm < MinBPM {
		bpm = MinBPM
	}
	if bpm > MaxBPM {
		bpm = MaxBPM
	}
	m.bpm.Store(int32(bpm))
	m.notify()
}

// BPM returns the current tempo
func (m *Metronome) BPM() int {
	return int(m.bpm.Load())
}

// Start resumes pulses
func (m *Metronome) Start() {
	m.running.Store(true)
	m.notify()
}

// Stop pauses pulses. The sequencer sees silence, as with an unplugged cable.
func (m *Metronome) Stop() {
	m.running.Store(false)
	m.notify()
}

// Toggle flips between running and stopped
func (m *Metronome) Toggle() {
	if m.Running() {
		m.Stop()
	} else {
		m.Start()
	}
}

// Running reports whether pulses are being produced
func (m *Metronome) Running() bool {
	return m.running.Load()
}

func (m *Metronome) notify() {
	select {
	case m.changed <- struct{}{}:
	default:
	}
}

// Run produces pulses until ctx is cancelled (blocking - run in goroutine)
func (m *Metronome) Run(ctx context.Context) {
	bpm := m.BPM()
	ticker := time.NewTicker(SixteenthPeriod(bpm))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.changed:
			if now := m.BPM(); now != bpm {
				bpm = now
				ticker.Reset(SixteenthPeriod(bpm))
				debug.Log("clock", "internal clock %d bpm", bpm)
			}
		case <-ticker.C:
			if m.running.Load() && m.onEdge != nil {
				m.onEdge()
			}
		}
	}
}
