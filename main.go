package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"go-drummer/audio"
	"go-drummer/config"
	"go-drummer/debug"
	"go-drummer/midi"
	"go-drummer/sequencer"
	"go-drummer/sim"
	"go-drummer/theme"
	"go-drummer/tui"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "init" {
		if err := initFiles(); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// initFiles writes an editable config and factory bank
func initFiles() error {
	written, err := config.Init()
	for _, path := range written {
		fmt.Println("wrote", path)
	}
	if err != nil {
		return err
	}
	if len(written) == 0 {
		dir, _ := config.ConfigDir()
		fmt.Println("nothing to do, files already exist in", dir)
	}
	return nil
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Debug {
		if err := debug.Enable(); err != nil {
			return err
		}
		defer debug.Disable()
	}

	// Load theme
	var palette *theme.Palette
	if cfg.Palette != "" {
		if palette, err = theme.LoadGPL(cfg.Palette); err != nil {
			return err
		}
	}
	th := theme.New(palette)

	// Virtual front panel and output banks
	panel := sim.NewPanel(cfg.Sequencer.RawMax, cfg.Knobs)
	meter := &sim.Recorder{}
	outputs := sequencer.Fanout{meter}
	defer midi.CloseDriver()

	if cfg.MIDIOut.Port != "" {
		port, err := midi.FindOut(cfg.MIDIOut.Port)
		if err != nil {
			return err
		}
		trig, err := midi.OpenTriggerOut(port, cfg.MIDIOut)
		if err != nil {
			return err
		}
		defer trig.Close()
		outputs = append(outputs, trig)
	}
	if cfg.Audio.Enabled {
		mon, err := audio.NewMonitor(cfg.Audio)
		if err != nil {
			return err
		}
		defer mon.Close()
		outputs = append(outputs, mon)
	}

	var table *sequencer.PatternTable // nil = factory patterns
	if cfg.Patterns != "" {
		path, err := config.ResolvePatterns(cfg.Patterns)
		if err != nil {
			return err
		}
		if table, err = config.LoadPatterns(path, cfg.Sequencer.Levels); err != nil {
			return err
		}
	}

	core, err := sequencer.New(sequencer.Hardware{
		Analog:  panel,
		Digital: panel,
		Outputs: outputs,
		Clock:   sim.NewWallClock(),
		Random:  sequencer.NewRandom(cfg.Seed),
	}, table, cfg.Sequencer)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Clock source
	var transport tui.Transport
	clockLabel := ""
	switch cfg.Clock.Source {
	case config.ClockMIDI:
		port, err := midi.FindIn(cfg.Clock.Port)
		if err != nil {
			return err
		}
		clock := midi.NewClockIn(cfg.Clock.PulsesPerStep, core.ClockEdge)
		if cfg.Clock.StartResets {
			clock.OnStart(core.Resync)
		}
		if err := clock.Open(port); err != nil {
			return err
		}
		defer clock.Close()
		clockLabel = "midi:" + port.String()
	default:
		metro := sim.NewMetronome(cfg.Clock.BPM, core.ClockEdge)
		go metro.Run(ctx)
		metro.Start()
		transport = metro
	}

	// Hot-plug notices for the status line
	ports := midi.NewPortManager()
	go ports.Run(ctx)

	done := make(chan struct{})
	go func() {
		core.Run(ctx)
		close(done)
	}()

	m := tui.NewModel(tui.Options{
		Core:       core,
		Panel:      panel,
		Metronome:  transport,
		Ports:      ports,
		Meter:      meter,
		Theme:      th,
		Settings:   cfg.Sequencer,
		ClockLabel: clockLabel,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()

	// outputs low before the banks close
	cancel()
	<-done
	return err
}
