package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"go-drummer/sequencer"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	StepEmpty    rune // · no hit
	StepBase     rune // ● pattern hit
	StepExtra    rune // ◆ intensity hit
	StepPlayhead rune // ▼ marker above the next step

	LEDOn  rune // ●
	LEDOff rune // ○

	KnobFill  rune // █
	KnobEmpty rune // ░
}

// New builds a theme on palette, or on the built-in one when nil
func New(palette *Palette) *Theme {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			StepEmpty:    '·',
			StepBase:     '●',
			StepExtra:    '◆',
			StepPlayhead: '▼',

			LEDOn:  '●',
			LEDOff: '○',

			KnobFill:  '█',
			KnobEmpty: '░',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0
	RoleMuted   = 0.2
	RoleFG      = 0.45
	RoleAccent  = 0.55
	RoleActive  = 0.7
	RoleWarning = 0.8
	RoleSuccess = 1.0
)

// channel colors, spread over the warm end of the palette
var channelRoles = [sequencer.NumChannels]float64{
	sequencer.Kick:        0.6,
	sequencer.Snare:       0.75,
	sequencer.HihatClosed: 0.9,
	sequencer.HihatOpen:   1.0,
}

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleBG))
}

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Active() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleActive))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleWarning))
}

func (t *Theme) Success() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSuccess))
}

// Channel returns the color used for a drum channel
func (t *Theme) Channel(ch sequencer.Channel) lipgloss.Color {
	if ch < 0 || ch >= sequencer.NumChannels {
		return t.FG()
	}
	return rgbToLipgloss(t.Palette.Lookup(channelRoles[ch]))
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
