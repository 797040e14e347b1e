package sequencer

import (
	"errors"
	"fmt"
)

// Levels is the number of intensity levels in the factory table
const Levels = 6

var (
	// ErrNoPatterns is returned when a channel has no base pattern
	ErrNoPatterns = errors.New("channel has no base patterns")
	// ErrOverlayLevels is returned when a channel's overlay list does not match the level count
	ErrOverlayLevels = errors.New("overlay count does not match intensity levels")
)

// PatternTable is the compiled pattern library. Read only once built.
type PatternTable struct {
	// Base holds the selectable base patterns per channel
	Base [NumChannels][]Steps
	// Overlay holds one eligibility mask per intensity level; index 0 is empty
	Overlay [NumChannels][]Steps
}

// Count returns the number of base patterns for a channel
func (t *PatternTable) Count(ch Channel) int {
	return len(t.Base[ch])
}

// Pattern returns base pattern idx for a channel, clamped into range
func (t *PatternTable) Pattern(ch Channel, idx int) Steps {
	pats := t.Base[ch]
	if len(pats) == 0 {
		return 0
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(pats) {
		idx = len(pats) - 1
	}
	return pats[idx]
}

// OverlayAt returns the eligibility mask of a channel at an intensity level
func (t *PatternTable) OverlayAt(ch Channel, level int) Steps {
	if level <= 0 || level >= len(t.Overlay[ch]) {
		return 0
	}
	return t.Overlay[ch][level]
}

// Validate checks the table against the configured number of levels
func (t *PatternTable) Validate(levels int) error {
	for ch := Channel(0); ch < NumChannels; ch++ {
		if len(t.Base[ch]) == 0 {
			return fmt.Errorf("%s: %w", ch, ErrNoPatterns)
		}
		if len(t.Overlay[ch]) != levels {
			return fmt.Errorf("%s: %d overlays for %d levels: %w", ch, len(t.Overlay[ch]), levels, ErrOverlayLevels)
		}
		if t.Overlay[ch][0] != 0 {
			return fmt.Errorf("%s: level 0 overlay must be empty: %w", ch, ErrOverlayLevels)
		}
	}
	return nil
}

// DefaultPatterns returns the factory pattern library
func DefaultPatterns() *PatternTable {
	return &PatternTable{
		Base: [NumChannels][]Steps{
			Kick: {
				0b1000000000000000,
				0b1000000010000000,
				0b1000100010000000,
				0b1000100010001000,
				0b1010100010001000,
				0b1010100010101000,
				0b1010101010101000,
				0b1010101010101010,
			},
			Snare: {
				0b0000100000001000,
				0b0000100000001010,
			},
			HihatClosed: {
				0b1000000010000000,
				0b1000100010001000,
				0b0010001000100010,
				0b1010001010100010,
				0b1010101000101010,
				0b0010101010101010,
				0b1011101110111011,
				0b1101110111011101,
				0b1111111111111111,
			},
			HihatOpen: {
				0b0000000000000000,
			},
		},
		Overlay: [NumChannels][]Steps{
			Kick: {
				0b0000000000000000,
				0b0000000000000001,
				0b0001000000000001,
				0b0001001000000001,
				0b0001001000000101,
				0b0001001001100101,
			},
			Snare: {
				0b0000000000000000,
				0b0000000001000000,
				0b0000000001000001,
				0b0000001001000001,
				0b0000001001000001,
				0b0100001001000001,
			},
			HihatClosed: {
				0b0000000000000000,
				0b0100000000000000,
				0b0100000000000100,
				0b0100000000000101,
				0b0100010000000101,
				0b0100010010000101,
			},
			HihatOpen: {
				0b0000000000000000,
				0b0000000000000000,
				0b0000000000000000,
				0b0000000000000000,
				0b0000000000000000,
				0b0000000000000000,
			},
		},
	}
}
