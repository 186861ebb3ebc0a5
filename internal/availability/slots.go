/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package availability

import (
	"github.com/friendsincode/maitred/internal/clock"
	"github.com/friendsincode/maitred/internal/models"
)

// SlotQuery describes one booking-form availability request. Now is the
// simulated current time in minutes; nil means no "now" filtering (e.g.
// a future-date booking). TableID empty means "any matching table".
type SlotQuery struct {
	TableID   string
	PartySize int
	Zone      models.Zone
	Duration  int
	Period    models.ServicePeriod
	Now       *int
}

// CandidateStartTimes enumerates slot starts across a service period on
// the resolver's step grid. When now falls inside the period, slots before
// the ceiling-rounded current time are excluded, except that the most
// recently started bucket survives if it began no more than GraceMinutes
// ago (a walk-in can still take a slot that technically just started).
// If rounding leaves nothing, the full un-rounded grid is returned: the
// picker must never show an empty list just because now passed the
// nominal window.
//
// Returned minutes are on the period's own anchored scale and may exceed
// 1440 for periods that wrap midnight; format with clock.Format24.
func (r *Resolver) CandidateStartTimes(period models.ServicePeriod, now *int) []int {
	step := r.StepMinutes
	open, closeAt, ok := periodSpan(period)
	if !ok {
		return nil
	}

	var slots []int
	for t := open; t < closeAt; t += step {
		slots = append(slots, t)
	}
	if now == nil {
		return slots
	}

	// Lift now onto the period's scale; if the period does not cover it,
	// the request is for another service and no rounding applies.
	n := *now % clock.MinutesPerDay
	if n < 0 {
		n += clock.MinutesPerDay
	}
	if n < open {
		n += clock.MinutesPerDay
	}
	if n < open || n >= closeAt {
		return slots
	}

	rounded := (n + step - 1) / step * step

	var out []int
	lastBucket := n / step * step
	if lastBucket < rounded && lastBucket >= open && n-lastBucket <= r.GraceMinutes {
		out = append(out, lastBucket)
	}
	for _, s := range slots {
		if s >= rounded {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return slots
	}
	return out
}

// AvailableStartTimes filters the candidate grid down to starts that can
// actually host the booking. With a specific table the check is direct;
// otherwise a slot qualifies if any table matching the party size and zone
// preference is available.
func (r *Resolver) AvailableStartTimes(q SlotQuery) []int {
	candidates := r.CandidateStartTimes(q.Period, q.Now)
	if len(candidates) == 0 {
		return nil
	}

	var out []int
	for _, s := range candidates {
		if q.TableID != "" {
			if r.isAvailableIn(q.TableID, s, q.Duration, q.Period) {
				out = append(out, s)
			}
			continue
		}
		for _, t := range r.store.Tables() {
			if t.Seats < q.PartySize {
				continue
			}
			if q.Zone != "" && q.Zone != models.ZoneAny && t.Zone != q.Zone {
				continue
			}
			if r.isAvailableIn(t.ID, s, q.Duration, q.Period) {
				out = append(out, s)
				break
			}
		}
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
