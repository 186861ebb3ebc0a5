/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package ranking scores tables for a booking request and orders them so
// the recommended pick is stable: identical inputs always produce the
// identical order, and the top table never flickers between equivalent
// candidates.
package ranking

import (
	"sort"

	"github.com/friendsincode/maitred/internal/availability"
	"github.com/friendsincode/maitred/internal/models"
)

const (
	// availableScore dominates: a table free right now always outranks
	// one that merely opens soon.
	availableScore = 1000
	// opensSoonBase decays by one point per minute of wait.
	opensSoonBase = 700

	// DefaultWeight is the oversize penalty used by the booking form;
	// the floor map uses FloorWeight to bias harder toward exact fits.
	DefaultWeight = 3
	FloorWeight   = 4

	// opensSoonCutoff partitions the alternatives list.
	opensSoonCutoff = 90
)

// Request is one ranking pass over the roster.
type Request struct {
	Start     int
	Duration  int
	PartySize int
	Zone      models.Zone
	Period    models.ServicePeriod
	Weight    int // oversize penalty weight; zero means DefaultWeight
}

// Candidate is one scored table. OpensAt is a display hint: the next
// moment the table is free at all, not necessarily long enough for the
// requested duration.
type Candidate struct {
	Table         models.Table `json:"table"`
	AvailableNow  bool         `json:"available_now"`
	OpensAt       int          `json:"opens_at"`
	WaitMinutes   int          `json:"wait_minutes"`
	CapacityDelta int          `json:"capacity_delta"`
	Score         int          `json:"score"`
}

// Result is an ordered ranking. The first candidate is the recommended
// table; an empty ranking is a valid, displayable "nothing fits" state,
// not an error.
type Result struct {
	Candidates []Candidate `json:"candidates"`
}

// Best returns the recommended table.
func (r Result) Best() (Candidate, bool) {
	if len(r.Candidates) == 0 {
		return Candidate{}, false
	}
	return r.Candidates[0], true
}

// BestNow returns up to two top candidates that are available immediately.
func (r Result) BestNow() []Candidate {
	var out []Candidate
	for _, c := range r.Candidates {
		if !c.AvailableNow {
			continue
		}
		out = append(out, c)
		if len(out) == 2 {
			break
		}
	}
	return out
}

// Buckets partitions candidates for progressive disclosure: available now,
// opens soon (within 90 minutes of the requested start), and later.
type Buckets struct {
	AvailableNow []Candidate `json:"available_now"`
	OpensSoon    []Candidate `json:"opens_soon"`
	Later        []Candidate `json:"later"`
}

// Buckets splits the ranking while preserving order inside each bucket.
func (r Result) Buckets() Buckets {
	var b Buckets
	for _, c := range r.Candidates {
		switch {
		case c.AvailableNow:
			b.AvailableNow = append(b.AvailableNow, c)
		case c.WaitMinutes <= opensSoonCutoff:
			b.OpensSoon = append(b.OpensSoon, c)
		default:
			b.Later = append(b.Later, c)
		}
	}
	return b
}

// Rank filters the roster by seats and zone preference, scores every
// qualifying table and orders them. Ties break by ascending OpensAt, then
// ascending CapacityDelta, then label, so the order is fully determined
// by the inputs.
func Rank(resolver *availability.Resolver, req Request) Result {
	weight := req.Weight
	if weight == 0 {
		weight = DefaultWeight
	}

	var candidates []Candidate
	for _, t := range resolver.Store().Tables() {
		if t.Seats < req.PartySize {
			continue
		}
		if req.Zone != "" && req.Zone != models.ZoneAny && t.Zone != req.Zone {
			continue
		}

		cw := resolver.ContinuousWindow(t.ID, req.Start, req.Period)
		availableNow := cw.FreeMinutes >= req.Duration

		opensAt := req.Start
		if !availableNow {
			opensAt = cw.BoundaryAt
		}

		delta := t.Seats - req.PartySize
		score := availableScore
		if !availableNow {
			score = opensSoonBase - (opensAt - req.Start)
			if score < 0 {
				score = 0
			}
		}
		score -= delta * weight

		candidates = append(candidates, Candidate{
			Table:         t,
			AvailableNow:  availableNow,
			OpensAt:       opensAt,
			WaitMinutes:   opensAt - req.Start,
			CapacityDelta: delta,
			Score:         score,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.OpensAt != b.OpensAt {
			return a.OpensAt < b.OpensAt
		}
		if a.CapacityDelta != b.CapacityDelta {
			return a.CapacityDelta < b.CapacityDelta
		}
		return a.Table.Label < b.Table.Label
	})

	return Result{Candidates: candidates}
}
