package config

import (
	"fmt"
	"sort"

	"go-drummer/sequencer"
)

// DrumKit maps the four trigger channels to the notes a drum machine
// listens on
type DrumKit struct {
	Name  string
	Notes [sequencer.NumChannels]uint8 // kick, snare, closed hat, open hat
}

// Kits contains all available drum kit mappings
var Kits = map[string]DrumKit{
	"gm":   {Name: "General MIDI", Notes: [sequencer.NumChannels]uint8{36, 38, 42, 46}},
	"rd8":  {Name: "Behringer RD-8", Notes: [sequencer.NumChannels]uint8{36, 40, 42, 46}}, // RD-8 snare is 40, not 38
	"tr8s": {Name: "Roland TR-8S", Notes: [sequencer.NumChannels]uint8{36, 38, 42, 46}},
	"er1":  {Name: "Korg ER-1", Notes: [sequencer.NumChannels]uint8{36, 38, 42, 46}},
}

// DefaultKit is the default kit name
const DefaultKit = "gm"

// KitNames returns the available kit names, sorted
func KitNames() []string {
	names := make([]string, 0, len(Kits))
	for name := range Kits {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// applyKit replaces the note map with the named kit
func (m *MIDIOutConfig) applyKit() error {
	if m.Kit == "" {
		return nil
	}
	kit, ok := Kits[m.Kit]
	if !ok {
		return fmt.Errorf("config: unknown drum kit %q (have %v)", m.Kit, KitNames())
	}
	m.Notes = kit.Notes
	return nil
}
