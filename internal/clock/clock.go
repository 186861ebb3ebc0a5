/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package clock implements clock-of-day parsing and the circular interval
// arithmetic every other engine component builds on. All values are integer
// minutes; a minute-of-day lives in [0, 1440) with 1440 reserved as the
// end-of-day sentinel.
package clock

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// MinutesPerDay is the length of one service day in minutes.
	MinutesPerDay = 1440

	// EndOfDay is the sentinel minute produced by parsing "24:00".
	EndOfDay = 1440
)

// ErrInvalidClock reports a string that is not a clock time.
var ErrInvalidClock = errors.New("invalid clock time")

// Parse accepts "HH:MM" (24-hour), "H:MM AM/PM" (12-hour) and the "24:00"
// end-of-day sentinel. It returns the minute-of-day, or ErrInvalidClock.
// Callers must branch on the error; there is no zero fallback.
func Parse(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidClock)
	}

	meridiem := ""
	upper := strings.ToUpper(s)
	for _, suffix := range []string{"AM", "PM"} {
		if strings.HasSuffix(upper, suffix) {
			meridiem = suffix
			s = strings.TrimSpace(s[:len(s)-len(suffix)])
			break
		}
	}

	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || len(mm) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	if minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: minute out of range in %q", ErrInvalidClock, raw)
	}

	if meridiem != "" {
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("%w: hour out of range in %q", ErrInvalidClock, raw)
		}
		if hour == 12 {
			hour = 0
		}
		if meridiem == "PM" {
			hour += 12
		}
		return hour*60 + minute, nil
	}

	if hour == 24 && minute == 0 {
		return EndOfDay, nil
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: hour out of range in %q", ErrInvalidClock, raw)
	}
	return hour*60 + minute, nil
}

// Format24 renders a minute value as "HH:MM", wrapping into [0, 1440).
func Format24(minute int) string {
	m := wrap(minute)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Format12 renders a minute value as "H:MM AM/PM", wrapping into [0, 1440).
func Format12(minute int) string {
	m := wrap(minute)
	hour := m / 60
	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	hour = hour % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, m%60, meridiem)
}

func wrap(minute int) int {
	m := minute % MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return m
}
