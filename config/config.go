package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"go-drummer/sequencer"
)

// ClockSource identifies where clock edges come from
type ClockSource string

const (
	ClockInternal ClockSource = "internal" // simulator metronome
	ClockMIDI     ClockSource = "midi"     // MIDI timing clock from an input port
)

// ClockConfig selects and tunes the clock input
type ClockConfig struct {
	Source        ClockSource `yaml:"source"`
	BPM           int         `yaml:"bpm,omitempty"`
	Port          string      `yaml:"port,omitempty"`          // MIDI input port name
	PulsesPerStep int         `yaml:"pulsesPerStep,omitempty"` // 6 = sixteenths from 24 PPQN
	StartResets   bool        `yaml:"startResets"`             // MIDI Start restarts at step 0
}

// MIDIOutConfig sends triggers as notes to a MIDI output
type MIDIOutConfig struct {
	Port     string                       `yaml:"port,omitempty"`
	Channel  uint8                        `yaml:"channel,omitempty"` // 1-16
	Kit      string                       `yaml:"kit,omitempty"`     // overrides notes, see Kits
	Notes    [sequencer.NumChannels]uint8 `yaml:"notes"`
	Velocity uint8                        `yaml:"velocity,omitempty"`
}

// AudioConfig enables the built-in drum voices
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	SampleRate int     `yaml:"sampleRate,omitempty"`
	Volume     float64 `yaml:"volume,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Sequencer sequencer.Settings      `yaml:"sequencer"`
	Clock     ClockConfig             `yaml:"clock"`
	MIDIOut   MIDIOutConfig           `yaml:"midiOut"`
	Audio     AudioConfig             `yaml:"audio"`
	Knobs     [sequencer.NumKnobs]int `yaml:"knobs"` // initial simulator pot positions
	Seed      int64                   `yaml:"seed,omitempty"`
	Debug     bool                    `yaml:"debug,omitempty"`
	Palette   string                  `yaml:"palette,omitempty"`  // optional GIMP palette for the UI
	Patterns  string                  `yaml:"patterns,omitempty"` // optional pattern bank file
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	settings := sequencer.DefaultSettings()
	settings.PollInterval = time.Millisecond // the firmware spins, a desktop should not

	return &Config{
		Sequencer: settings,
		Clock: ClockConfig{
			Source:        ClockInternal,
			BPM:           120,
			PulsesPerStep: 6,
			StartResets:   true,
		},
		MIDIOut: MIDIOutConfig{
			Channel:  10,
			Notes:    Kits[DefaultKit].Notes,
			Velocity: 100,
		},
		Audio: AudioConfig{
			Enabled:    false,
			SampleRate: 44100,
			Volume:     0.5,
		},
		Knobs: [sequencer.NumKnobs]int{
			sequencer.KnobKick:        400,
			sequencer.KnobSnare:       0,
			sequencer.KnobHihatClosed: 300,
			sequencer.KnobHihatOpen:   0,
			sequencer.KnobIntensity:   0,
			sequencer.KnobShuffle:     0,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-drummer"), nil
}

// ConfigPath returns the full path to config.yaml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config from the default path, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a config file. Missing keys keep their default values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML on top of the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.MIDIOut.applyKit(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the sequencer cannot start with
func (c *Config) Validate() error {
	if err := c.Sequencer.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Clock.Source {
	case ClockInternal:
		if c.Clock.BPM <= 0 {
			return fmt.Errorf("config: clock bpm must be positive, got %d", c.Clock.BPM)
		}
	case ClockMIDI:
		if c.Clock.PulsesPerStep <= 0 {
			return fmt.Errorf("config: pulsesPerStep must be positive, got %d", c.Clock.PulsesPerStep)
		}
	default:
		return fmt.Errorf("config: unknown clock source %q", c.Clock.Source)
	}
	for ch, note := range c.MIDIOut.Notes {
		if note > 127 {
			return fmt.Errorf("config: %s note %d out of range", sequencer.Channel(ch), note)
		}
	}
	if c.MIDIOut.Port != "" && (c.MIDIOut.Channel < 1 || c.MIDIOut.Channel > 16) {
		return fmt.Errorf("config: midi channel must be 1-16, got %d", c.MIDIOut.Channel)
	}
	return nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
