/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package clock

import (
	"errors"
	"testing"
)

func TestParseAcceptsBothClockForms(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"00:00", 0},
		{"09:05", 545},
		{"9:05", 545},
		{"17:30", 1050},
		{"23:59", 1439},
		{"24:00", EndOfDay},
		{"12:00 AM", 0},
		{"12:30 am", 30},
		{"1:00 AM", 60},
		{"12:00 PM", 720},
		{"7:45 PM", 1185},
		{"11:59 pm", 1439},
	}
	for _, tc := range cases {
		got, err := Parse(tc.raw)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	bad := []string{
		"", "dinner", "25:00", "24:01", "-1:00", "12:60",
		"13:00 PM", "0:30 AM", "12", "7:5 PM", "19.30",
	}
	for _, raw := range bad {
		if _, err := Parse(raw); !errors.Is(err, ErrInvalidClock) {
			t.Fatalf("Parse(%q) err = %v, want ErrInvalidClock", raw, err)
		}
	}
}

func TestFormatIsParseInverse(t *testing.T) {
	for m := 0; m < MinutesPerDay; m += 7 {
		got, err := Parse(Format24(m))
		if err != nil {
			t.Fatalf("Parse(Format24(%d)): %v", m, err)
		}
		if got != m {
			t.Fatalf("Format24 round trip: got %d, want %d", got, m)
		}
		got, err = Parse(Format12(m))
		if err != nil {
			t.Fatalf("Parse(Format12(%d)): %v", m, err)
		}
		if got != m {
			t.Fatalf("Format12 round trip: got %d, want %d", got, m)
		}
	}
}

func TestFormatWrapsOutOfRangeMinutes(t *testing.T) {
	if got := Format24(1500); got != "01:00" {
		t.Fatalf("Format24(1500) = %q, want %q", got, "01:00")
	}
	if got := Format12(-60); got != "11:00 PM" {
		t.Fatalf("Format12(-60) = %q, want %q", got, "11:00 PM")
	}
}

func TestNormalizeLiftsWrappingWindows(t *testing.T) {
	// 22:00-01:00 anchored late evening stays "tonight".
	w, ok := Normalize(1320, 60, 1380)
	if !ok {
		t.Fatal("Normalize returned degenerate for valid input")
	}
	if w.Start != 1320 || w.End != 1500 {
		t.Fatalf("window = %+v, want {1320 1500}", w)
	}
	if !w.Contains(1380) {
		t.Fatal("anchored window should contain 23:00")
	}

	// Same literal pair anchored at 02:00 is a future window, not ongoing.
	w, ok = Normalize(1320, 60, 120)
	if !ok {
		t.Fatal("Normalize returned degenerate for valid input")
	}
	if w.Contains(120) {
		t.Fatal("window anchored at 02:00 should not contain the anchor")
	}
}

func TestNormalizeShiftsPastAnchor(t *testing.T) {
	// 18:00-19:25 anchored at 19:30 must land on tomorrow.
	w, ok := Normalize(1080, 1165, 1170)
	if !ok {
		t.Fatal("Normalize returned degenerate for valid input")
	}
	if w.Start != 1080+MinutesPerDay || w.End != 1165+MinutesPerDay {
		t.Fatalf("window = %+v, want shifted one day", w)
	}
}

func TestNormalizeAnchorConsistency(t *testing.T) {
	anchors := []int{0, 120, 719, 1170, 1439}
	for _, a := range anchors {
		for s := 0; s < MinutesPerDay; s += 97 {
			for _, d := range []int{15, 90, 300} {
				w, ok := Normalize(s, (s+d)%MinutesPerDay, a)
				if !ok {
					t.Fatalf("Normalize(%d, %d, %d) degenerate", s, (s+d)%MinutesPerDay, a)
				}
				if w.End <= a {
					t.Fatalf("end %d <= anchor %d", w.End, a)
				}
				if w.End <= w.Start {
					t.Fatalf("end %d <= start %d", w.End, w.Start)
				}
			}
		}
	}
}

func TestNormalizeRejectsZeroLengthWindows(t *testing.T) {
	if _, ok := Normalize(600, 600, 0); ok {
		t.Fatal("zero-length window should be degenerate")
	}
}

func TestNormalizeKeepsEndOfDaySentinel(t *testing.T) {
	w, ok := Normalize(1020, EndOfDay, 1170)
	if !ok {
		t.Fatal("Normalize returned degenerate for valid input")
	}
	if w.Start != 1020 || w.End != EndOfDay {
		t.Fatalf("window = %+v, want {1020 1440}", w)
	}
}
