/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package advisor derives human-facing warnings for a proposed booking
// from the interval data and guest history. Every rule is evaluated
// independently and statelessly; any subset may fire and nothing is
// deduplicated across calls.
package advisor

import (
	"fmt"
	"math"
	"time"

	"github.com/friendsincode/maitred/internal/availability"
	"github.com/friendsincode/maitred/internal/clock"
	"github.com/friendsincode/maitred/internal/models"
)

// WarningKind identifies the rule that fired.
type WarningKind string

const (
	KindTightBuffer         WarningKind = "tight_buffer"
	KindNoShowRisk          WarningKind = "no_show_risk"
	KindFirstTimeLargeParty WarningKind = "first_time_large_party"
	KindMergeRequired       WarningKind = "merge_required"
)

// Severity grades a warning for display.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Warning is one advisory for the host stand.
type Warning struct {
	Kind       WarningKind `json:"kind"`
	Severity   Severity    `json:"severity"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// MergeOption is a feasible two-table pairing for an oversized party.
type MergeOption struct {
	TableA        string `json:"table_a"`
	TableB        string `json:"table_b"`
	CombinedSeats int    `json:"combined_seats"`
}

// Selection is the proposed booking under review.
type Selection struct {
	TableID   string
	Start     int
	Duration  int
	PartySize int
	Period    models.ServicePeriod
	Weekday   time.Weekday
}

// Advisor evaluates conflict rules against the resolver's interval data.
type Advisor struct {
	resolver *availability.Resolver

	// BufferWarnMinutes is the turnaround under which a booking is
	// flagged as tight against the next reservation.
	BufferWarnMinutes int

	// LargePartySize is the cover count treated as a large party.
	LargePartySize int
}

// New creates an advisor with house defaults.
func New(resolver *availability.Resolver) *Advisor {
	return &Advisor{resolver: resolver, BufferWarnMinutes: 10, LargePartySize: 6}
}

// ConflictsFor runs every rule against the selection. An empty slice
// means no concerns; it is never an error.
func (a *Advisor) ConflictsFor(sel Selection, hist models.GuestHistory) []Warning {
	var warnings []Warning

	if w, ok := a.tightBuffer(sel); ok {
		warnings = append(warnings, w)
	}
	if w, ok := a.noShowRisk(hist); ok {
		warnings = append(warnings, w)
	}
	if w, ok := a.firstTimeLargeParty(sel, hist); ok {
		warnings = append(warnings, w)
	}
	if w, ok := a.mergeRequired(sel); ok {
		warnings = append(warnings, w)
	}

	return warnings
}

// tightBuffer fires when the booking fits but leaves less than the
// threshold before the next reservation on the same table.
func (a *Advisor) tightBuffer(sel Selection) (Warning, bool) {
	if sel.TableID == "" {
		return Warning{}, false
	}
	cw := a.resolver.ContinuousWindow(sel.TableID, sel.Start, sel.Period)
	if cw.Boundary != availability.BoundaryNextReservation {
		return Warning{}, false
	}
	slack := cw.FreeMinutes - sel.Duration
	if slack < 0 || slack >= a.BufferWarnMinutes {
		return Warning{}, false
	}
	return Warning{
		Kind:     KindTightBuffer,
		Severity: SeverityWarning,
		Message: fmt.Sprintf("Only %d minutes before the next reservation at %s.",
			slack, clock.Format12(cw.BoundaryAt)),
		Suggestion: "Consider an earlier time or a different table.",
	}, true
}

// noShowRisk fires for guests with a repeat no-show history and states
// the computed rate.
func (a *Advisor) noShowRisk(hist models.GuestHistory) (Warning, bool) {
	if hist.NoShows < 2 {
		return Warning{}, false
	}
	rate := int(math.Round(hist.NoShowRate() * 100))
	return Warning{
		Kind:     KindNoShowRisk,
		Severity: SeverityWarning,
		Message: fmt.Sprintf("Guest has %d no-shows out of %d reservations (%d%% no-show rate).",
			hist.NoShows, hist.TotalReservations, rate),
		Suggestion: "Consider requiring a deposit.",
	}, true
}

// firstTimeLargeParty is advisory only: a brand-new guest bringing a
// large party on a high-traffic night.
func (a *Advisor) firstTimeLargeParty(sel Selection, hist models.GuestHistory) (Warning, bool) {
	if hist.Visits != 0 || sel.PartySize < a.LargePartySize {
		return Warning{}, false
	}
	if sel.Weekday != time.Friday && sel.Weekday != time.Saturday {
		return Warning{}, false
	}
	return Warning{
		Kind:     KindFirstTimeLargeParty,
		Severity: SeverityInfo,
		Message: fmt.Sprintf("First-time guest with a party of %d on a %s.",
			sel.PartySize, sel.Weekday),
	}, true
}

// mergeRequired fires when no single table can seat the party and lists
// feasible two-table pairings in the same zone.
func (a *Advisor) mergeRequired(sel Selection) (Warning, bool) {
	s := a.resolver.Store()
	if sel.PartySize <= s.LargestTableSeats() {
		return Warning{}, false
	}

	options := a.mergeOptions(sel)
	msg := fmt.Sprintf("Party of %d exceeds the largest single table (%d seats).",
		sel.PartySize, s.LargestTableSeats())
	w := Warning{Kind: KindMergeRequired, Severity: SeverityWarning, Message: msg}
	if len(options) == 0 {
		w.Suggestion = "No two-table merge can seat this party at the requested time."
		return w, true
	}

	suggestion := "Merge candidates:"
	for _, opt := range options {
		suggestion += fmt.Sprintf(" %s+%s (%d seats)", opt.TableA, opt.TableB, opt.CombinedSeats)
	}
	w.Suggestion = suggestion
	return w, true
}

// mergeOptions enumerates same-zone table pairs with enough combined
// seats where both halves are free for the requested window. The roster
// is label-ordered, so the pairs come out deterministically.
func (a *Advisor) mergeOptions(sel Selection) []MergeOption {
	tables := a.resolver.Store().Tables()

	var out []MergeOption
	for i := 0; i < len(tables); i++ {
		for j := i + 1; j < len(tables); j++ {
			ta, tb := tables[i], tables[j]
			if ta.Zone != tb.Zone {
				continue
			}
			if ta.Seats+tb.Seats < sel.PartySize {
				continue
			}
			if a.resolver.ContinuousWindow(ta.ID, sel.Start, sel.Period).FreeMinutes < sel.Duration {
				continue
			}
			if a.resolver.ContinuousWindow(tb.ID, sel.Start, sel.Period).FreeMinutes < sel.Duration {
				continue
			}
			out = append(out, MergeOption{TableA: ta.Label, TableB: tb.Label, CombinedSeats: ta.Seats + tb.Seats})
		}
	}
	return out
}
