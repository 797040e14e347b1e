package sim

import (
	"sync"
	"sync/atomic"

	"go-drummer/sequencer"
)

// Recorder is an output bank that remembers what is lit, for the UI
type Recorder struct {
	high   atomic.Uint32
	mu     sync.Mutex
	counts [sequencer.NumChannels]uint64
}

// Assert implements sequencer.Outputs
func (r *Recorder) Assert(m sequencer.Output) {
	prev := sequencer.Output(r.high.Load())
	r.high.Store(uint32(prev | m))

	rising := m &^ prev
	if rising&sequencer.OutputChannels == 0 {
		return
	}
	r.mu.Lock()
	for ch := sequencer.Channel(0); ch < sequencer.NumChannels; ch++ {
		if rising.Has(ch.Output()) {
			r.counts[ch]++
		}
	}
	r.mu.Unlock()
}

// Deassert implements sequencer.Outputs
func (r *Recorder) Deassert(m sequencer.Output) {
	prev := sequencer.Output(r.high.Load())
	r.high.Store(uint32(prev &^ m))
}

// High returns the outputs currently lit
func (r *Recorder) High() sequencer.Output {
	return sequencer.Output(r.high.Load())
}

// Counts returns how many triggers each channel fired
func (r *Recorder) Counts() [sequencer.NumChannels]uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts
}
