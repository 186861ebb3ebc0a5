/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package availability answers "how long is this table free" and every
// question derived from it. ContinuousWindow is the single source of
// truth: the floor map, the timeline and the booking form all resolve
// availability through it, so their answers can never drift apart.
package availability

import (
	"sort"

	"github.com/friendsincode/maitred/internal/clock"
	"github.com/friendsincode/maitred/internal/models"
	"github.com/friendsincode/maitred/internal/store"
)

// BoundaryKind names what cuts a free window short.
type BoundaryKind string

const (
	BoundaryServiceClose    BoundaryKind = "service_close"
	BoundaryNextReservation BoundaryKind = "next_reservation"
)

// Window is the result of a continuous-window probe. BoundaryAt is on the
// same anchored minute scale as the requested start. When the requested
// start falls inside a booked interval, FreeMinutes is zero and BoundaryAt
// is the moment that run of bookings ends.
type Window struct {
	FreeMinutes int          `json:"free_minutes"`
	Boundary    BoundaryKind `json:"boundary"`
	BoundaryAt  int          `json:"boundary_at"`
}

// Resolver computes availability against an immutable interval store.
type Resolver struct {
	store *store.Store

	// StepMinutes and GraceMinutes tune the booking form's slot grid.
	StepMinutes  int
	GraceMinutes int
}

// New creates a resolver with the default 15-minute grid and 8-minute
// walk-in grace.
func New(s *store.Store) *Resolver {
	return &Resolver{store: s, StepMinutes: 15, GraceMinutes: 8}
}

// Store exposes the underlying catalog to collaborating components.
func (r *Resolver) Store() *store.Store { return r.store }

// ContinuousWindow computes the longest uninterrupted free stretch on a
// table starting at requestedStart, bounded by the service close and the
// next booked interval. requestedStart is its own anchor: every blocking
// window and the period close are normalized against it before comparison.
func (r *Resolver) ContinuousWindow(tableID string, requestedStart int, period models.ServicePeriod) Window {
	t := requestedStart
	busy := coalesce(rebaseAll(r.store.BlockingWindows(tableID), t))

	for _, w := range busy {
		if w.Covers(t) {
			return Window{FreeMinutes: 0, Boundary: BoundaryNextReservation, BoundaryAt: w.End}
		}
	}

	boundary := BoundaryServiceClose
	boundaryAt := periodClose(period, t)
	for _, w := range busy {
		if w.Start >= t && w.Start < boundaryAt {
			boundary = BoundaryNextReservation
			boundaryAt = w.Start
		}
	}

	free := boundaryAt - t
	if free < 0 {
		free = 0
	}
	return Window{FreeMinutes: free, Boundary: boundary, BoundaryAt: boundaryAt}
}

// IsAvailable reports whether a table can host a booking of the given
// duration starting at start.
func (r *Resolver) IsAvailable(tableID string, start, duration int) bool {
	period, ok := r.periodContaining(start)
	if !ok {
		return false
	}
	return r.ContinuousWindow(tableID, start, period).FreeMinutes >= duration
}

// isAvailableIn is IsAvailable with the period already pinned; the slot
// enumeration paths use it so a probe and a ranking pass agree.
func (r *Resolver) isAvailableIn(tableID string, start, duration int, period models.ServicePeriod) bool {
	return r.ContinuousWindow(tableID, start, period).FreeMinutes >= duration
}

// MaxDuration is the answer for a booking form's duration picker.
type MaxDuration struct {
	Recommended int `json:"recommended"`
	Cap         int `json:"cap"`
}

// MaxDurationAt returns the policy duration for the party size clamped to
// what the table can actually host, with the cap floored to the 15-minute
// grid. A cap under 15 minutes cannot host any booking: both values are
// zero and callers must treat duration as disabled.
func (r *Resolver) MaxDurationAt(tableID string, start int, period models.ServicePeriod, partySize int) MaxDuration {
	free := r.ContinuousWindow(tableID, start, period).FreeMinutes
	cap := free / store.MinBlockMinutes * store.MinBlockMinutes
	if cap < store.MinBlockMinutes {
		return MaxDuration{Recommended: 0, Cap: 0}
	}
	rec := PolicyDuration(partySize)
	if rec > cap {
		rec = cap
	}
	return MaxDuration{Recommended: rec, Cap: cap}
}

// PolicyDuration is the house seating policy by party size tier.
func PolicyDuration(partySize int) int {
	switch {
	case partySize <= 2:
		return 75
	case partySize <= 4:
		return 90
	case partySize <= 6:
		return 105
	default:
		return 120
	}
}

// periodContaining infers the service period covering the given minute.
func (r *Resolver) periodContaining(t int) (models.ServicePeriod, bool) {
	for _, p := range r.store.Periods() {
		start, err := clock.Parse(p.Start)
		if err != nil {
			continue
		}
		end, err := clock.Parse(p.End)
		if err != nil {
			continue
		}
		w, ok := clock.Normalize(start, end, t)
		if !ok {
			continue
		}
		if w.Covers(t) {
			return p, true
		}
	}
	return models.ServicePeriod{}, false
}

// periodClose normalizes a period's closing minute forward past the
// anchor. Unparseable period bounds fall back to end of day; the loader
// warns about those at build time.
func periodClose(period models.ServicePeriod, anchor int) int {
	start, err := clock.Parse(period.Start)
	if err != nil {
		return clock.EndOfDay
	}
	end, err := clock.Parse(period.End)
	if err != nil {
		return clock.EndOfDay
	}
	w, ok := clock.Normalize(start, end, anchor)
	if !ok {
		return clock.EndOfDay
	}
	return w.End
}

// rebaseAll re-anchors canonical windows, dropping any that degenerate.
func rebaseAll(ws []clock.Window, anchor int) []clock.Window {
	out := make([]clock.Window, 0, len(ws))
	for _, w := range ws {
		rw, ok := clock.Rebase(w, anchor)
		if !ok {
			continue
		}
		out = append(out, rw)
	}
	return out
}

// coalesce merges overlapping and adjacent windows into disjoint runs.
func coalesce(ws []clock.Window) []clock.Window {
	if len(ws) == 0 {
		return ws
	}
	sort.Slice(ws, func(i, j int) bool {
		if ws[i].Start != ws[j].Start {
			return ws[i].Start < ws[j].Start
		}
		return ws[i].End < ws[j].End
	})
	out := ws[:1]
	for _, w := range ws[1:] {
		last := &out[len(out)-1]
		if w.Start <= last.End {
			if w.End > last.End {
				last.End = w.End
			}
			continue
		}
		out = append(out, w)
	}
	return out
}
