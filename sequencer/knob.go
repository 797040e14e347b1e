package sequencer

// RawMax is the highest value a 10-bit ADC reports
const RawMax = 1023

// MapKnob splits [0, rawMax] into options equal buckets and returns the
// bucket raw falls in. Out of range readings are clamped. options must be
// positive; configurations are validated before the core ever calls this.
func MapKnob(options, raw, rawMax int) int {
	if options <= 0 {
		panic("sequencer: MapKnob needs at least one option")
	}
	if rawMax <= 0 {
		rawMax = RawMax
	}
	if raw < 0 {
		raw = 0
	}
	if raw > rawMax {
		raw = rawMax
	}

	// ceil so the top reading still lands in the last bucket
	width := (rawMax + options - 1) / options
	if width == 0 {
		width = 1
	}
	idx := raw / width
	if idx >= options {
		idx = options - 1
	}
	return idx
}
