package config

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go-drummer/sequencer"
)

func TestFactoryPatternsSurviveAFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factory.yaml")
	want := sequencer.DefaultPatterns()
	if err := SavePatterns(path, "factory", want); err != nil {
		t.Fatalf("SavePatterns: %v", err)
	}
	got, err := LoadPatterns(path, sequencer.Levels)
	if err != nil {
		t.Fatalf("LoadPatterns: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("bank changed on the way through a file")
	}
}

const smallBank = `
name: four on the floor
kick:
  patterns: ["x...|x...|x...|x..."]
  overlays: ["................", "..x...x...x...x."]
snare:
  patterns: ["....x.......x..."]
  overlays: ["................", "...............x"]
hihatClosed:
  patterns: ["..x...x...x...x.", "xxxxxxxxxxxxxxxx"]
  overlays: ["................", "................"]
hihatOpen:
  patterns: ["................"]
  overlays: ["................", "..x............."]
`

func TestParsePatterns(t *testing.T) {
	table, err := ParsePatterns([]byte(smallBank), 2)
	if err != nil {
		t.Fatalf("ParsePatterns: %v", err)
	}
	if table.Count(sequencer.HihatClosed) != 2 {
		t.Fatalf("closed hat patterns %d", table.Count(sequencer.HihatClosed))
	}
	if got := table.Pattern(sequencer.Kick, 0); got != sequencer.Downbeats {
		t.Fatalf("kick %s", got)
	}

	// the bank has two levels, the sequencer wants six
	if _, err := ParsePatterns([]byte(smallBank), sequencer.Levels); !errors.Is(err, sequencer.ErrOverlayLevels) {
		t.Fatalf("err %v, want ErrOverlayLevels", err)
	}
}

func TestParsePatternsBadSteps(t *testing.T) {
	bad := strings.Replace(smallBank, "....x.......x...", "....x...", 1)
	_, err := ParsePatterns([]byte(bad), 2)
	if err == nil || !strings.Contains(err.Error(), "SN pattern 0") {
		t.Fatalf("err %v", err)
	}
}

func TestResolvePatterns(t *testing.T) {
	if got, _ := ResolvePatterns("banks/house.yaml"); got != "banks/house.yaml" {
		t.Fatalf("path rewritten to %q", got)
	}
	got, err := ResolvePatterns("house")
	if err != nil {
		t.Fatalf("ResolvePatterns: %v", err)
	}
	if filepath.Base(got) != "house.yaml" || filepath.Base(filepath.Dir(got)) != "patterns" {
		t.Fatalf("ResolvePatterns(house) = %q", got)
	}
}
