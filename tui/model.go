package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-drummer/midi"
	"go-drummer/sequencer"
	"go-drummer/sim"
	"go-drummer/theme"
	"go-drummer/widgets"
)

const frameRate = 30

var keyHelp = []widgets.KeySection{
	{Title: "knobs", Keys: []widgets.KeyBinding{
		{Key: "tab/1-6", Desc: "select"},
		{Key: "←/→", Desc: "option"},
		{Key: "H/L", Desc: "fine"},
	}},
	{Title: "button", Keys: []widgets.KeyBinding{
		{Key: "r", Desc: "reset"},
		{Key: "R", Desc: "re-roll"},
		{Key: "b", Desc: "hold/release"},
	}},
	{Title: "clock", Keys: []widgets.KeyBinding{
		{Key: "space", Desc: "start/stop"},
		{Key: "+/-", Desc: "tempo"},
		{Key: "q", Desc: "quit"},
	}},
}

// Source publishes core state
type Source interface {
	Snapshot() sequencer.Snapshot
}

// Transport is the internal clock, nil when the clock is external
type Transport interface {
	Toggle()
	Running() bool
	BPM() int
	SetBPM(bpm int)
}

// Meter counts hits per drum
type Meter interface {
	Counts() [sequencer.NumChannels]uint64
}

// Options wires the model to the running simulator
type Options struct {
	Core       Source
	Panel      *sim.Panel
	Metronome  Transport
	Ports      *midi.PortManager
	Meter      Meter
	Theme      *theme.Theme
	Settings   sequencer.Settings
	ClockLabel string // shown when Metronome is nil
}

type Model struct {
	opts     Options
	snap     sequencer.Snapshot
	selected sequencer.Knob
	status   string
	quitting bool
}

type tickMsg time.Time

type PortEventMsg midi.PortEvent

func NewModel(opts Options) Model {
	if opts.Theme == nil {
		opts.Theme = theme.New(nil)
	}
	return Model{
		opts: opts,
		snap: opts.Core.Snapshot(),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func ListenForPorts(ports *midi.PortManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ports.Events()
		if !ok {
			return nil
		}
		return PortEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tick()}
	if m.opts.Ports != nil {
		cmds = append(cmds, ListenForPorts(m.opts.Ports))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case tickMsg:
		m.snap = m.opts.Core.Snapshot()
		return m, tick()

	case PortEventMsg:
		verb := "connected"
		if msg.Type == midi.PortDisconnected {
			verb = "disconnected"
		}
		m.status = fmt.Sprintf("midi %s %s: %s", msg.Dir, verb, msg.Name)
		if m.opts.Ports == nil {
			return m, nil
		}
		return m, ListenForPorts(m.opts.Ports)
	}

	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "tab", "down", "j":
		m.selected = (m.selected + 1) % sequencer.NumKnobs
	case "shift+tab", "up", "k":
		m.selected = (m.selected + sequencer.NumKnobs - 1) % sequencer.NumKnobs
	case "1", "2", "3", "4", "5", "6":
		m.selected = sequencer.Knob(key[0] - '1')

	case "right", "l":
		m.stepKnob(1)
	case "left", "h":
		m.stepKnob(-1)
	case "L", "pgup":
		m.opts.Panel.Turn(m.selected, 16)
	case "H", "pgdown":
		m.opts.Panel.Turn(m.selected, -16)

	case "r":
		m.opts.Panel.Press(m.opts.Settings.Debounce * 4)
		m.status = "reset"
	case "R":
		m.opts.Panel.Press(m.opts.Settings.LongPress + 250*time.Millisecond)
		m.status = "re-roll intensity"
	case "b":
		// released after LongPress re-rolls, before it resets
		down := !m.opts.Panel.Held()
		m.opts.Panel.Hold(down)
		if down {
			m.status = "button held"
		} else {
			m.status = "button released"
		}

	case " ":
		if m.opts.Metronome != nil {
			m.opts.Metronome.Toggle()
		}
	case "+", "=":
		if m.opts.Metronome != nil {
			m.opts.Metronome.SetBPM(m.opts.Metronome.BPM() + 5)
		}
	case "-", "_":
		if m.opts.Metronome != nil {
			m.opts.Metronome.SetBPM(m.opts.Metronome.BPM() - 5)
		}
	}
	return m, nil
}

// options returns how many positions the sequencer distinguishes on k
func (m Model) options(k sequencer.Knob) int {
	switch k {
	case sequencer.KnobIntensity:
		return m.opts.Settings.Levels
	case sequencer.KnobShuffle:
		return m.opts.Settings.Resolution
	}
	return m.snap.Counts[k]
}

// stepKnob moves the selected knob to the next option in dir
func (m Model) stepKnob(dir int) {
	n := m.options(m.selected)
	if n <= 0 {
		return
	}
	cur := sequencer.MapKnob(n, m.opts.Panel.Knob(m.selected), m.opts.Settings.RawMax)
	next := cur + dir
	if next < 0 || next >= n {
		return
	}
	m.opts.Panel.SelectOption(m.selected, next, n)
}

func (m Model) knobValue(k sequencer.Knob) string {
	s := m.snap
	switch k {
	case sequencer.KnobIntensity:
		return fmt.Sprintf("level %d/%d", s.Intensity, m.opts.Settings.Levels-1)
	case sequencer.KnobShuffle:
		delay := sequencer.ShuffleDelay(s.PulsePeriod, m.opts.Settings.Resolution, s.Shuffle)
		return fmt.Sprintf("%d/%d  +%v", s.Shuffle, m.opts.Settings.Resolution-1, delay)
	}
	return fmt.Sprintf("pattern %d/%d", s.Patterns[k]+1, s.Counts[k])
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	th := m.opts.Theme
	sym := th.Symbols
	s := m.snap

	headerStyle := lipgloss.NewStyle().Foreground(th.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(th.Muted())
	statusStyle := lipgloss.NewStyle().Foreground(th.Warning())

	clock := m.opts.ClockLabel
	if t := m.opts.Metronome; t != nil {
		state := "STOP"
		if t.Running() {
			state = "RUN "
		}
		clock = fmt.Sprintf("%s %3dbpm", state, t.BPM())
	}
	header := headerStyle.Render(fmt.Sprintf("go-drummer  %s  step:%02d  %-10s  period:%v",
		clock, s.Step, s.State, s.PulsePeriod.Round(time.Millisecond)))

	// LEDs
	var leds []string
	leds = append(leds, widgets.RenderLED("beat", s.Outputs.Has(sequencer.OutputDownbeat), sym.LEDOn, sym.LEDOff, th.Success(), th.Muted()))
	for ch := sequencer.Channel(0); ch < sequencer.NumChannels; ch++ {
		leds = append(leds, widgets.RenderLED(ch.String(), s.Outputs.Has(ch.Output()), sym.LEDOn, sym.LEDOff, th.Channel(ch), th.Muted()))
	}
	held := ""
	if m.opts.Panel.Held() {
		held = statusStyle.Render("  [button]")
	}

	// Step grid
	glyphs := widgets.StepGlyphs{Empty: sym.StepEmpty, Base: sym.StepBase, Extra: sym.StepExtra, Playhead: sym.StepPlayhead}
	rows := []string{widgets.RenderPlayhead(s.Step, sequencer.NumSteps, sym.StepPlayhead, th.FG())}
	for ch := sequencer.Channel(0); ch < sequencer.NumChannels; ch++ {
		base, extra := make([]bool, sequencer.NumSteps), make([]bool, sequencer.NumSteps)
		for i := 0; i < sequencer.NumSteps; i++ {
			base[i] = s.Base[ch].Has(i)
			extra[i] = s.Extra[ch].Has(i)
		}
		rows = append(rows, widgets.RenderStepRow(ch.String(), base, extra, s.Step, glyphs, th.Channel(ch), th.Muted()))
	}

	// Knobs
	var knobs []string
	for k := sequencer.Knob(0); k < sequencer.NumKnobs; k++ {
		knobs = append(knobs, widgets.RenderKnob(widgets.Knob{
			Label:    k.String(),
			Raw:      m.opts.Panel.Knob(k),
			RawMax:   m.opts.Settings.RawMax,
			Value:    m.knobValue(k),
			Selected: k == m.selected,
		}, sym.KnobFill, sym.KnobEmpty, th.Accent(), th.Muted()))
	}

	line := fmt.Sprintf("edges:%d  resets:%d  auto:%d", s.Edges, s.Resets, s.AutoResets)
	if m.opts.Meter != nil {
		hits := m.opts.Meter.Counts()
		for ch := sequencer.Channel(0); ch < sequencer.NumChannels; ch++ {
			line += fmt.Sprintf("  %s:%d", ch, hits[ch])
		}
	}
	counters := dimStyle.Render(line)
	help := dimStyle.Render(widgets.RenderKeyHelp(keyHelp))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n  ")
	out.WriteString(strings.Join(leds, "  "))
	out.WriteString(held)
	out.WriteString("\n\n")
	out.WriteString(strings.Join(rows, "\n"))
	out.WriteString("\n\n")
	out.WriteString(strings.Join(knobs, "\n"))
	out.WriteString("\n\n")
	out.WriteString(counters)
	if m.status != "" {
		out.WriteString("  ")
		out.WriteString(statusStyle.Render(m.status))
	}
	out.WriteString("\n")
	out.WriteString(help)

	return out.String()
}
