package midi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go-drummer/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// Direction of a MIDI port
type Direction int

const (
	DirIn Direction = iota
	DirOut
)

func (d Direction) String() string {
	if d == DirOut {
		return "out"
	}
	return "in"
}

// PortEvent is emitted when a port appears or disappears
type PortEvent struct {
	Type PortEventType
	Dir  Direction
	Name string
}

type PortEventType int

const (
	PortConnected PortEventType = iota
	PortDisconnected
)

// ErrTimeout is returned when the driver does not answer a port listing
var ErrTimeout = errors.New("midi: port listing timed out")

const listTimeout = 3 * time.Second

// PortManager handles hot-plug detection of MIDI ports
type PortManager struct {
	mu       sync.RWMutex
	ins      map[string]bool
	outs     map[string]bool
	events   chan PortEvent
	pollRate time.Duration
	list     func() ([]string, []string, error)
}

// NewPortManager creates a port manager backed by the system driver
func NewPortManager() *PortManager {
	return newPortManager(listPortNames)
}

func newPortManager(list func() ([]string, []string, error)) *PortManager {
	return &PortManager{
		ins:      make(map[string]bool),
		outs:     make(map[string]bool),
		events:   make(chan PortEvent, 16),
		pollRate: time.Second,
		list:     list,
	}
}

// Events returns a channel of port connect/disconnect events
func (pm *PortManager) Events() <-chan PortEvent {
	return pm.events
}

// Inputs returns the input port names seen on the last scan
func (pm *PortManager) Inputs() []string {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return sortedNames(pm.ins)
}

// Outputs returns the output port names seen on the last scan
func (pm *PortManager) Outputs() []string {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return sortedNames(pm.outs)
}

// Run starts the polling loop (blocking - run in goroutine)
func (pm *PortManager) Run(ctx context.Context) {
	ticker := time.NewTicker(pm.pollRate)
	defer ticker.Stop()

	// Initial scan
	pm.scan()

	for {
		select {
		case <-ctx.Done():
			close(pm.events)
			return
		case <-ticker.C:
			pm.scan()
		}
	}
}

func (pm *PortManager) scan() {
	ins, outs, err := pm.list()
	if err != nil {
		// CoreMIDI is hung - skip this scan
		debug.LogEvery(30, "midi", "scan: %v", err)
		return
	}

	pm.mu.Lock()
	var events []PortEvent
	events = append(events, diffPorts(pm.ins, ins, DirIn)...)
	events = append(events, diffPorts(pm.outs, outs, DirOut)...)
	pm.mu.Unlock()

	for _, ev := range events {
		debug.Log("midi", "port %s %s connected=%v", ev.Dir, ev.Name, ev.Type == PortConnected)
		select {
		case pm.events <- ev:
		default:
		}
	}
}

// diffPorts updates known to match seen and reports the changes
func diffPorts(known map[string]bool, seen []string, dir Direction) []PortEvent {
	var events []PortEvent
	now := make(map[string]bool, len(seen))
	for _, name := range seen {
		now[name] = true
		if !known[name] {
			known[name] = true
			events = append(events, PortEvent{Type: PortConnected, Dir: dir, Name: name})
		}
	}
	for _, name := range sortedNames(known) {
		if !now[name] {
			delete(known, name)
			events = append(events, PortEvent{Type: PortDisconnected, Dir: dir, Name: name})
		}
	}
	return events
}

func sortedNames(m map[string]bool) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MatchPort returns the index of the port best matching want: an exact
// case-insensitive name first, then the first name containing it.
func MatchPort(names []string, want string) int {
	want = strings.ToLower(strings.TrimSpace(want))
	if want == "" {
		return -1
	}
	for i, name := range names {
		if strings.ToLower(name) == want {
			return i
		}
	}
	for i, name := range names {
		if strings.Contains(strings.ToLower(name), want) {
			return i
		}
	}
	return -1
}

type portsResult struct {
	ins  []drivers.In
	outs []drivers.Out
}

// ListPorts asks the driver for its ports with a timeout (CoreMIDI can hang)
func ListPorts() ([]drivers.In, []drivers.Out, error) {
	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{ins: gomidi.GetInPorts(), outs: gomidi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		return r.ins, r.outs, nil
	case <-time.After(listTimeout):
		// User needs to run: sudo killall coreaudiod midiserver
		return nil, nil, ErrTimeout
	}
}

func listPortNames() ([]string, []string, error) {
	ins, outs, err := ListPorts()
	if err != nil {
		return nil, nil, err
	}
	inNames := make([]string, len(ins))
	for i, p := range ins {
		inNames[i] = p.String()
	}
	outNames := make([]string, len(outs))
	for i, p := range outs {
		outNames[i] = p.String()
	}
	return inNames, outNames, nil
}

// FindIn returns the input port matching name
func FindIn(name string) (drivers.In, error) {
	ins, _, err := ListPorts()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(ins))
	for i, p := range ins {
		names[i] = p.String()
	}
	idx := MatchPort(names, name)
	if idx < 0 {
		return nil, fmt.Errorf("midi: no input port matching %q (have %v)", name, names)
	}
	return ins[idx], nil
}

// FindOut returns the output port matching name
func FindOut(name string) (drivers.Out, error) {
	_, outs, err := ListPorts()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(outs))
	for i, p := range outs {
		names[i] = p.String()
	}
	idx := MatchPort(names, name)
	if idx < 0 {
		return nil, fmt.Errorf("midi: no output port matching %q (have %v)", name, names)
	}
	return outs[idx], nil
}

// CloseDriver releases the system MIDI driver
func CloseDriver() {
	gomidi.CloseDriver()
}
