package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StepGlyphs are the characters used by RenderStepRow
type StepGlyphs struct {
	Empty, Base, Extra, Playhead rune
}

// RenderStepRow renders 16 steps. base and extra are indexed by step
// (true = hit); playhead marks the step about to play, -1 for none.
func RenderStepRow(label string, base, extra []bool, playhead int, g StepGlyphs, on, dim lipgloss.Color) string {
	onStyle := lipgloss.NewStyle().Foreground(on)
	extraStyle := lipgloss.NewStyle().Foreground(on).Faint(true)
	dimStyle := lipgloss.NewStyle().Foreground(dim)
	headStyle := onStyle.Reverse(true)

	var out strings.Builder
	out.WriteString(onStyle.Render(fmt.Sprintf("%-3s", label)))
	for i := range base {
		if i%4 == 0 {
			out.WriteString(" ")
		}
		glyph, style := string(g.Empty), dimStyle
		switch {
		case base[i]:
			glyph, style = string(g.Base), onStyle
		case i < len(extra) && extra[i]:
			glyph, style = string(g.Extra), extraStyle
		}
		if i == playhead {
			style = headStyle
		}
		out.WriteString(style.Render(glyph))
	}
	return out.String()
}

// RenderPlayhead renders the marker line above a step row
func RenderPlayhead(step, steps int, marker rune, color lipgloss.Color) string {
	var out strings.Builder
	out.WriteString("   ")
	for i := 0; i < steps; i++ {
		if i%4 == 0 {
			out.WriteString(" ")
		}
		if i == step {
			out.WriteString(lipgloss.NewStyle().Foreground(color).Render(string(marker)))
		} else {
			out.WriteString(" ")
		}
	}
	return out.String()
}

// RenderLED renders a labelled indicator
func RenderLED(label string, lit bool, onGlyph, offGlyph rune, on, off lipgloss.Color) string {
	if lit {
		return lipgloss.NewStyle().Foreground(on).Render(string(onGlyph)) + " " + label
	}
	return lipgloss.NewStyle().Foreground(off).Render(string(offGlyph)) + " " + label
}

// Knob describes one knob for RenderKnob
type Knob struct {
	Label    string
	Raw      int
	RawMax   int
	Value    string // what the sequencer made of the position
	Selected bool
}

// KnobWidth is the bar width used by RenderKnob
const KnobWidth = 16

// RenderKnob renders "> label [████░░░░] value"
func RenderKnob(k Knob, fill, empty rune, accent, dim lipgloss.Color) string {
	filled := 0
	if k.RawMax > 0 {
		filled = k.Raw * KnobWidth / k.RawMax
	}
	if filled > KnobWidth {
		filled = KnobWidth
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat(string(fill), filled) + strings.Repeat(string(empty), KnobWidth-filled)

	cursor := " "
	labelStyle := lipgloss.NewStyle().Foreground(dim)
	if k.Selected {
		cursor = ">"
		labelStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)
	}
	return fmt.Sprintf("%s %s %s %4d  %s",
		cursor,
		labelStyle.Render(fmt.Sprintf("%-13s", k.Label)),
		lipgloss.NewStyle().Foreground(accent).Render(bar),
		k.Raw,
		k.Value)
}

// RenderKeyHelp renders one line per section: the title, then each
// binding as "key:desc"
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		parts := make([]string, 0, len(sec.Keys)+1)
		if sec.Title != "" {
			parts = append(parts, fmt.Sprintf("%-7s", sec.Title))
		}
		for _, k := range sec.Keys {
			parts = append(parts, k.Key+":"+k.Desc)
		}
		lines = append(lines, strings.Join(parts, "  "))
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}
