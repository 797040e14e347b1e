package sequencer

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrIntensityLevels is returned when there are too few levels for the probability slope
	ErrIntensityLevels = errors.New("intensity levels must be greater than 2")
	// ErrResolution is returned for a non-positive shuffle resolution
	ErrResolution = errors.New("shuffle resolution must be positive")
	// ErrTiming is returned for a non-positive timing constant
	ErrTiming = errors.New("timing values must be positive")
)

// Settings are the fixed timing and range constants of the core.
// They are read once at startup and never change while running.
type Settings struct {
	TriggerLength   time.Duration `yaml:"triggerLength"`   // how long a trigger stays high
	Debounce        time.Duration `yaml:"debounce"`        // button changes inside this window are ignored
	LongPress       time.Duration `yaml:"longPress"`       // held at least this long = long press
	SilenceTimeout  time.Duration `yaml:"silenceTimeout"`  // no clock for this long = auto reset
	BlinkInterval   time.Duration `yaml:"blinkInterval"`
	BlinkCount      int           `yaml:"blinkCount"`
	Resolution      int           `yaml:"resolution"` // shuffle knob positions
	Levels          int           `yaml:"levels"`     // intensity knob positions
	RawMax          int           `yaml:"rawMax"`     // highest analog reading
	ButtonActiveLow bool          `yaml:"buttonActiveLow"`
	PollInterval    time.Duration `yaml:"pollInterval"` // sleep between loop passes, 0 = spin
}

// DefaultSettings returns the factory constants
func DefaultSettings() Settings {
	return Settings{
		TriggerLength:  50 * time.Millisecond,
		Debounce:       25 * time.Millisecond,
		LongPress:      750 * time.Millisecond,
		SilenceTimeout: 2 * time.Second,
		BlinkInterval:  50 * time.Millisecond,
		BlinkCount:     3,
		Resolution:     Resolution,
		Levels:         Levels,
		RawMax:         RawMax,
	}
}

// Validate reports configuration errors. A core is never built from
// settings that fail here.
func (s Settings) Validate() error {
	if s.Levels <= 2 {
		return fmt.Errorf("levels=%d: %w", s.Levels, ErrIntensityLevels)
	}
	if s.Resolution <= 0 {
		return fmt.Errorf("resolution=%d: %w", s.Resolution, ErrResolution)
	}
	if s.RawMax <= 0 {
		return fmt.Errorf("rawMax=%d: %w", s.RawMax, ErrTiming)
	}
	if s.TriggerLength <= 0 || s.LongPress <= 0 || s.SilenceTimeout <= 0 {
		return fmt.Errorf("triggerLength=%v longPress=%v silenceTimeout=%v: %w",
			s.TriggerLength, s.LongPress, s.SilenceTimeout, ErrTiming)
	}
	if s.Debounce < 0 || s.BlinkInterval < 0 || s.BlinkCount < 0 || s.PollInterval < 0 {
		return fmt.Errorf("negative debounce, blink or poll setting: %w", ErrTiming)
	}
	if s.LongPress <= s.Debounce {
		return fmt.Errorf("longPress=%v must exceed debounce=%v: %w", s.LongPress, s.Debounce, ErrTiming)
	}
	return nil
}
