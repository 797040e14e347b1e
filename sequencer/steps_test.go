package sequencer

import "testing"

func TestCursorCyclesSixteenSteps(t *testing.T) {
	c := StartCursor
	seen := make(map[Cursor]bool)
	for i := 0; i < NumSteps; i++ {
		if c.Index() != i {
			t.Fatalf("step %d: cursor index %d", i, c.Index())
		}
		if Steps(c).Count() != 1 {
			t.Fatalf("step %d: cursor %016b has %d bits", i, uint16(c), Steps(c).Count())
		}
		if seen[c] {
			t.Fatalf("step %d: cursor repeated early", i)
		}
		seen[c] = true
		c = c.Advance()
	}
	if c != StartCursor {
		t.Fatalf("expected wrap to step 0, got %d", c.Index())
	}
}

func TestCursorDownbeatsAndParity(t *testing.T) {
	c := StartCursor
	for i := 0; i < NumSteps; i++ {
		if got, want := c.In(Downbeats), i%4 == 0; got != want {
			t.Errorf("step %d: downbeat %v, want %v", i, got, want)
		}
		if got, want := c.Odd(), i%2 == 1; got != want {
			t.Errorf("step %d: odd %v, want %v", i, got, want)
		}
		if !c.Is(i) {
			t.Errorf("step %d: Is(%d) false", i, i)
		}
		c = c.Advance()
	}
}

func TestStepsOf(t *testing.T) {
	s := StepsOf(1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0)
	if s != Downbeats {
		t.Fatalf("StepsOf = %016b, want %016b", uint16(s), uint16(Downbeats))
	}
	if s.String() != "x...x...x...x..." {
		t.Fatalf("String() = %q", s.String())
	}
	if s.Has(16) || s.Has(-1) {
		t.Fatalf("out of range steps must read as clear")
	}
	if !Steps(0b1000100000000000).Within(s) || Steps(0x0001).Within(s) {
		t.Fatalf("Within mismatch")
	}
}

func TestParseSteps(t *testing.T) {
	tests := []struct {
		in   string
		want Steps
		ok   bool
	}{
		{"x...x...x...x...", StepsOf(1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0), true},
		{"x... | .... | ..x. | ...x", StepsOf(1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1), true},
		{"1010101010101010", StepsOf(1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0), true},
		{"x...", 0, false},
		{"x...x...x...x...x", 0, false},
		{"x...y...x...x...", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseSteps(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseSteps(%q) err = %v", tt.in, err)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("ParseSteps(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	s := StepsOf(0, 1, 1, 0, 0, 0, 0, 1)
	if back, err := ParseSteps(s.String()); err != nil || back != s {
		t.Errorf("ParseSteps(String()) = %s, %v", back, err)
	}
}
