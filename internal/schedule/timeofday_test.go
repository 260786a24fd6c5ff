package schedule

import "testing"

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in     string
		want   TimeOfDay
		wantOK bool
	}{
		{"9:00 AM", 9 * 60, true},
		{"12:00 PM", 12 * 60, true},
		{"12:00 AM", 0, true},
		{"3:45 pm", 15*60 + 45, true},
		{"3:45PM", 15*60 + 45, true},
		{"14:30", 14*60 + 30, true},
		{"  9:00 AM ", 9 * 60, true},
		{"", 0, false},
		{"25:00", 0, false},
		{"9am", 0, false},
		{"nonsense", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseTimeOfDay(tt.in)
		if ok != tt.wantOK {
			t.Errorf("ParseTimeOfDay(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseTimeOfDay(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		in   TimeOfDay
		want string
	}{
		{9 * 60, "9:00 AM"},
		{0, "12:00 AM"},
		{12 * 60, "12:00 PM"},
		{15*60 + 45, "3:45 PM"},
		{23*60 + 59, "11:59 PM"},
	}

	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("TimeOfDay(%d).String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	for m := TimeOfDay(0); m < MinutesPerDay; m += 15 {
		back, ok := ParseTimeOfDay(m.String())
		if !ok || back != m {
			t.Fatalf("round trip failed for %d: got %d ok=%v", m, back, ok)
		}
	}
}

func TestOnQuarterHour(t *testing.T) {
	tests := []struct {
		in   TimeOfDay
		want bool
	}{
		{9 * 60, true},
		{9*60 + 15, true},
		{9*60 + 30, true},
		{9*60 + 45, true},
		{9*60 + 10, false},
		{9*60 + 1, false},
	}

	for _, tt := range tests {
		if got := tt.in.OnQuarterHour(); got != tt.want {
			t.Errorf("TimeOfDay(%d).OnQuarterHour() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsExactlyOneHour(t *testing.T) {
	tests := []struct {
		name       string
		start, end TimeOfDay
		want       bool
	}{
		{"exactly 60", 9 * 60, 10 * 60, true},
		{"59 minutes", 9 * 60, 9*60 + 59, false},
		{"61 minutes", 9 * 60, 10*60 + 1, false},
		{"zero length", 9 * 60, 9 * 60, false},
		{"end before start", 10 * 60, 9 * 60, false},
		{"crosses midnight", 23*60 + 30, 30, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsExactlyOneHour(tt.start, tt.end); got != tt.want {
				t.Errorf("IsExactlyOneHour(%d, %d) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 TimeOfDay
		want           bool
	}{
		{"identical", 540, 600, 540, 600, true},
		{"contained", 540, 600, 550, 560, true},
		{"partial", 540, 600, 570, 630, true},
		{"adjacent after", 540, 600, 600, 660, false},
		{"adjacent before", 600, 660, 540, 600, false},
		{"disjoint", 540, 600, 720, 780, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(tt.s1, tt.e1, tt.s2, tt.e2)
			if got != tt.want {
				t.Errorf("Overlaps(%d,%d,%d,%d) = %v, want %v",
					tt.s1, tt.e1, tt.s2, tt.e2, got, tt.want)
			}

			// Overlap is symmetric.
			if rev := Overlaps(tt.s2, tt.e2, tt.s1, tt.e1); rev != got {
				t.Errorf("Overlaps not symmetric for (%d,%d) vs (%d,%d)",
					tt.s1, tt.e1, tt.s2, tt.e2)
			}
		})
	}
}

func TestParseInterval(t *testing.T) {
	iv, ok := ParseInterval("9:00 AM", "10:00 AM")
	if !ok {
		t.Fatal("expected valid interval")
	}
	if iv.Start != 540 || iv.End != 600 {
		t.Errorf("got %+v, want {540 600}", iv)
	}

	if _, ok := ParseInterval("bad", "10:00 AM"); ok {
		t.Error("expected parse failure for bad start")
	}
	if _, ok := ParseInterval("9:00 AM", "bad"); ok {
		t.Error("expected parse failure for bad end")
	}
}
