/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package occupancy aggregates seated covers across the whole floor for
// the dashboard gauge and its time-series strip.
package occupancy

import (
	"math"

	"github.com/friendsincode/maitred/internal/clock"
	"github.com/friendsincode/maitred/internal/models"
	"github.com/friendsincode/maitred/internal/store"
)

// DefaultSeriesStep is the dashboard strip's sampling interval.
const DefaultSeriesStep = 30

// Snapshot is floor-wide occupancy at one instant. Seated is clamped to
// Total: overlapping demand from double-booked slots never reports more
// bodies than the room holds.
type Snapshot struct {
	Instant int `json:"instant"`
	Seated  int `json:"seated"`
	Total   int `json:"total"`
	Pct     int `json:"pct"`
}

// Aggregator computes occupancy from the sanitized interval store.
type Aggregator struct {
	store *store.Store
}

// New creates an aggregator over the given store.
func New(s *store.Store) *Aggregator {
	return &Aggregator{store: s}
}

// At returns the floor snapshot at the given minute. Every status except
// no-show counts: an unconfirmed hold doesn't block a table, but the
// party is still expected to occupy seats.
func (a *Aggregator) At(instant int) Snapshot {
	total := a.store.TotalSeats()
	seated := 0
	for _, t := range a.store.Tables() {
		for _, b := range a.store.AllBlocks(t.ID) {
			if b.Status == models.StatusNoShow {
				continue
			}
			w, ok := clock.Rebase(b.Window, instant)
			if !ok {
				continue
			}
			if w.Covers(instant) {
				seated += b.PartySize
			}
		}
	}
	if seated > total {
		seated = total
	}

	pct := 0
	if total > 0 {
		pct = int(math.Round(float64(seated) / float64(total) * 100))
	}
	return Snapshot{Instant: instant, Seated: seated, Total: total, Pct: pct}
}

// Series samples occupancy across a service period on a fixed grid. A
// step of zero means DefaultSeriesStep. The last sample lands on or
// before the closing minute.
func (a *Aggregator) Series(period models.ServicePeriod, step int) []Snapshot {
	if step <= 0 {
		step = DefaultSeriesStep
	}
	open, closeAt, ok := periodSpan(period)
	if !ok {
		return nil
	}

	var out []Snapshot
	for t := open; t <= closeAt; t += step {
		out = append(out, a.At(t))
	}
	return out
}

// periodSpan parses a service period onto its own anchored scale.
func periodSpan(period models.ServicePeriod) (open, closeAt int, ok bool) {
	start, err := clock.Parse(period.Start)
	if err != nil {
		return 0, 0, false
	}
	end, err := clock.Parse(period.End)
	if err != nil {
		return 0, 0, false
	}
	w, valid := clock.Normalize(start, end, start)
	if !valid {
		return 0, 0, false
	}
	return w.Start, w.End, true
}
