/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package clock

// Window is a pair of absolute minute offsets with End > Start. Values may
// exceed one day once a window has been normalized past an anchor.
type Window struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Duration returns the window length in minutes.
func (w Window) Duration() int { return w.End - w.Start }

// Contains reports whether minute t lies strictly inside the window.
func (w Window) Contains(t int) bool { return w.Start < t && t < w.End }

// Covers reports whether minute t lies in the half-open interval [Start, End).
func (w Window) Covers(t int) bool { return w.Start <= t && t < w.End }

// Overlaps reports whether two windows on the same anchor share any time.
// Half-open semantics: touching endpoints do not overlap.
func (w Window) Overlaps(o Window) bool {
	return w.Start < o.End && o.Start < w.End
}

// Normalize anchors a raw (start, end) minute-of-day pair against the given
// anchor minute. The end is first lifted past the start (a pair such as
// 22:00-01:00 wraps midnight), then the whole window is shifted forward by
// whole-day increments until its end exceeds the anchor. The second return
// is false for degenerate input (zero-length windows).
//
// Every interval comparison in the engine goes through this; windows
// normalized against different anchors must never be mixed.
func Normalize(start, end, anchor int) (Window, bool) {
	s := wrap(start)
	e := end
	if e != EndOfDay {
		e = wrap(end)
	}
	if e == s {
		return Window{}, false
	}
	if e < s {
		e += MinutesPerDay
	}
	for e <= anchor {
		s += MinutesPerDay
		e += MinutesPerDay
	}
	return Window{Start: s, End: e}, true
}

// Rebase re-normalizes an already-canonical window against a new anchor.
func Rebase(w Window, anchor int) (Window, bool) {
	return Normalize(w.Start, w.End, anchor)
}
