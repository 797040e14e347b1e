package sequencer

// refreshTask reads one knob into the core
type refreshTask func()

// refresher hands out one knob read per clock edge so that a single step
// never pays for all the analog conversions.
type refresher struct {
	tasks []refreshTask
	idx   int
}

func newRefresher(c *Core) refresher {
	r := refresher{}
	for ch := Channel(0); ch < NumChannels; ch++ {
		ch := ch
		r.tasks = append(r.tasks, func() {
			c.patterns[ch] = c.sample(Knob(ch), c.table.Count(ch))
		})
	}
	r.tasks = append(r.tasks,
		func() { c.intensity = c.sample(KnobIntensity, c.settings.Levels) },
		func() { c.shuffle = c.sample(KnobShuffle, c.settings.Resolution) },
	)
	return r
}

// next runs the current task and moves to the following one
func (r *refresher) next() {
	if len(r.tasks) == 0 {
		return
	}
	r.tasks[r.idx]()
	r.idx = (r.idx + 1) % len(r.tasks)
}

// all runs every task once, used at startup only
func (r *refresher) all() {
	for _, t := range r.tasks {
		t()
	}
}

func (c *Core) sample(k Knob, options int) int {
	return MapKnob(options, c.hw.Analog.ReadAnalog(k), c.settings.RawMax)
}
