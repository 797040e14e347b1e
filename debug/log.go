package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	out     io.Writer
	file    *os.File
	mu      sync.Mutex
	enabled bool
)

// Enable starts debug logging to ~/.config/go-drummer/debug.log
func Enable() error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	dir := filepath.Join(homeDir, ".config", "go-drummer")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	file = f
	out = f
	enabled = true

	// Write directly (can't call Log - we hold the mutex)
	write("debug", "=== Debug logging started ===")
	return nil
}

// SetOutput logs to w instead of the log file. nil turns logging off.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	closeFile()
	out = w
	enabled = w != nil
}

// Disable stops debug logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	closeFile()
	out = nil
	enabled = false
}

// Enabled reports whether log lines are written anywhere
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Log writes a message to the debug log
func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || out == nil {
		return
	}
	write(category, fmt.Sprintf(format, args...))
}

// LogEvery logs only every N calls (use for high-frequency events)
var counters = make(map[string]int)

func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	if !enabled {
		mu.Unlock()
		return
	}
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if n <= 1 || count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}

func write(category, msg string) {
	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(out, "[%s] %-10s %s\n", ts, category, msg)
	if file != nil {
		file.Sync() // flush immediately so we see logs even on crash
	}
}

func closeFile() {
	if file != nil {
		file.Close()
		file = nil
	}
}
