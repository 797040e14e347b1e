package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"go-drummer/sequencer"
)

// channelBank lists one channel's patterns as "x...x..." strings
type channelBank struct {
	Patterns []string `yaml:"patterns"`
	Overlays []string `yaml:"overlays,flow"`
}

// PatternBank is the file form of a sequencer.PatternTable
type PatternBank struct {
	Name        string      `yaml:"name,omitempty"`
	Kick        channelBank `yaml:"kick"`
	Snare       channelBank `yaml:"snare"`
	HihatClosed channelBank `yaml:"hihatClosed"`
	HihatOpen   channelBank `yaml:"hihatOpen"`
}

func (b *PatternBank) channels() [sequencer.NumChannels]*channelBank {
	return [sequencer.NumChannels]*channelBank{&b.Kick, &b.Snare, &b.HihatClosed, &b.HihatOpen}
}

// PatternsDir returns the directory for pattern bank files
func PatternsDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "patterns"), nil
}

// ResolvePatterns turns a bare bank name into a path in PatternsDir.
// Anything that looks like a path is returned unchanged.
func ResolvePatterns(name string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) || filepath.Ext(name) != "" {
		return name, nil
	}
	dir, err := PatternsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name+".yaml"), nil
}

// LoadPatterns reads a bank file and validates it for levels
func LoadPatterns(path string, levels int) (*sequencer.PatternTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	table, err := ParsePatterns(data, levels)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// ParsePatterns decodes a bank
func ParsePatterns(data []byte, levels int) (*sequencer.PatternTable, error) {
	var bank PatternBank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("parse patterns: %w", err)
	}

	table := &sequencer.PatternTable{}
	for ch, cb := range bank.channels() {
		for i, str := range cb.Patterns {
			s, err := sequencer.ParseSteps(str)
			if err != nil {
				return nil, fmt.Errorf("%s pattern %d: %w", sequencer.Channel(ch), i, err)
			}
			table.Base[ch] = append(table.Base[ch], s)
		}
		for i, str := range cb.Overlays {
			s, err := sequencer.ParseSteps(str)
			if err != nil {
				return nil, fmt.Errorf("%s overlay %d: %w", sequencer.Channel(ch), i, err)
			}
			table.Overlay[ch] = append(table.Overlay[ch], s)
		}
	}

	if err := table.Validate(levels); err != nil {
		return nil, err
	}
	return table, nil
}

// NewPatternBank converts a table to its file form
func NewPatternBank(name string, table *sequencer.PatternTable) *PatternBank {
	bank := &PatternBank{Name: name}
	for ch, cb := range bank.channels() {
		for _, s := range table.Base[ch] {
			cb.Patterns = append(cb.Patterns, s.String())
		}
		for _, s := range table.Overlay[ch] {
			cb.Overlays = append(cb.Overlays, s.String())
		}
	}
	return bank
}

// SavePatterns writes table as a bank file, creating its directory
func SavePatterns(path, name string, table *sequencer.PatternTable) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(NewPatternBank(name, table))
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
