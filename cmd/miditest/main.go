package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"go-drummer/config"
	"go-drummer/midi"
	"go-drummer/sequencer"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	defer midi.CloseDriver()

	var err error
	switch os.Args[1] {
	case "list":
		err = listPorts()
	case "clock":
		err = watchClock(arg(2))
	case "trig":
		err = fireDrums(arg(2))
	case "poll":
		pollPorts()
	default:
		usage()
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func arg(i int) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return ""
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list          - List all MIDI ports")
	fmt.Println("  clock <port>  - Print sixteenth-note edges derived from MIDI clock")
	fmt.Println("  trig <port>   - Fire each drum note once")
	fmt.Println("  poll          - Poll for port changes")
}

func listPorts() error {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ins, outs, err := midi.ListPorts()
	if err != nil {
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return err
	}
	for i, p := range ins {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, p := range outs {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	return nil
}

func watchClock(name string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if name == "" {
		name = cfg.Clock.Port
	}
	port, err := midi.FindIn(name)
	if err != nil {
		return err
	}

	var last atomic.Int64
	clock := midi.NewClockIn(cfg.Clock.PulsesPerStep, func() {
		now := time.Now().UnixNano()
		prev := last.Swap(now)
		if prev != 0 {
			fmt.Printf("  edge  period %v\n", time.Duration(now-prev).Round(100*time.Microsecond))
		} else {
			fmt.Println("  edge")
		}
	})
	clock.OnStart(func() {
		fmt.Println("START")
		last.Store(0)
	})
	if err := clock.Open(port); err != nil {
		return err
	}
	defer clock.Close()

	fmt.Printf("Listening on %s, %d pulses per step. Ctrl+C to exit.\n", port.String(), cfg.Clock.PulsesPerStep)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	<-ctx.Done()
	fmt.Printf("\n%d edges\n", clock.Steps())
	return nil
}

func fireDrums(name string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if name == "" {
		name = cfg.MIDIOut.Port
	}
	port, err := midi.FindOut(name)
	if err != nil {
		return err
	}
	out, err := midi.OpenTriggerOut(port, cfg.MIDIOut)
	if err != nil {
		return err
	}
	defer out.Close()

	for ch := sequencer.Channel(0); ch < sequencer.NumChannels; ch++ {
		fmt.Printf("  %s note %d\n", ch, cfg.MIDIOut.Notes[ch])
		out.Assert(ch.Output())
		time.Sleep(cfg.Sequencer.TriggerLength)
		out.Deassert(ch.Output())
		time.Sleep(400 * time.Millisecond)
	}
	if n := out.Errors(); n > 0 {
		return fmt.Errorf("%d sends failed", n)
	}
	fmt.Println("Done!")
	return nil
}

func pollPorts() {
	fmt.Println("Polling for port changes every second...")
	fmt.Println("Connect/disconnect devices to test. Ctrl+C to exit.")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pm := midi.NewPortManager()
	go pm.Run(ctx)

	for ev := range pm.Events() {
		verb := "connected"
		if ev.Type == midi.PortDisconnected {
			verb = "disconnected"
		}
		fmt.Printf("[%s] %s %s: %s\n", time.Now().Format("15:04:05"), ev.Dir, verb, ev.Name)
	}
}
