/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package store builds the sanitized reservation interval catalog. It is
// constructed once from raw floor data and is a pure lookup afterwards;
// concurrent reads are safe as long as Build completes before the first
// query.
package store

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/friendsincode/maitred/internal/clock"
	"github.com/friendsincode/maitred/internal/floordata"
	"github.com/friendsincode/maitred/internal/models"
)

// MinBlockMinutes is the policy floor for a sanitized block's duration.
const MinBlockMinutes = 15

// Block is a sanitized reservation interval on one table. Its window is
// canonical: start in [0, 1440), end lifted past the start, both possibly
// pushed forward by sanitization.
type Block struct {
	ID        string             `json:"id"`
	TableID   string             `json:"table_id"`
	GuestID   string             `json:"guest_id,omitempty"`
	PartySize int                `json:"party_size"`
	Status    models.BlockStatus `json:"status"`
	Window    clock.Window       `json:"window"`
	Tags      []string           `json:"tags,omitempty"`
	Notes     string             `json:"notes,omitempty"`
}

// Store is the read-only queryable interval catalog.
type Store struct {
	tables  []models.Table
	byID    map[string]models.Table
	lanes   map[string][]Block       // sanitized, time-ordered per table
	merges  map[string][]clock.Window // pairing windows per constituent table
	pairs   []models.MergePairing
	periods []models.ServicePeriod
	guests  map[string]models.GuestHistory

	totalSeats   int
	largestTable int

	logger zerolog.Logger
}

// Build sanitizes the raw floor set into a canonical non-overlapping form.
// The result is immutable; rebuild wholesale if the source data changes.
func Build(fs *floordata.FloorSet, logger zerolog.Logger) *Store {
	s := &Store{
		tables:  append([]models.Table(nil), fs.Tables...),
		byID:    make(map[string]models.Table, len(fs.Tables)),
		lanes:   make(map[string][]Block, len(fs.Tables)),
		merges:  make(map[string][]clock.Window),
		pairs:   append([]models.MergePairing(nil), fs.Merges...),
		periods: append([]models.ServicePeriod(nil), fs.Periods...),
		guests:  make(map[string]models.GuestHistory, len(fs.Guests)),
		logger:  logger.With().Str("component", "store").Logger(),
	}

	sort.Slice(s.tables, func(i, j int) bool { return s.tables[i].Label < s.tables[j].Label })
	for _, t := range s.tables {
		s.byID[t.ID] = t
		s.totalSeats += t.Seats
		if t.Seats > s.largestTable {
			s.largestTable = t.Seats
		}
	}
	for _, g := range fs.Guests {
		s.guests[g.GuestID] = g
	}

	raw := make(map[string][]Block, len(s.tables))
	for _, rb := range fs.Blocks {
		b, ok := canonicalBlock(rb)
		if !ok {
			s.logger.Warn().Str("block_id", rb.ID).Str("table_id", rb.TableID).
				Msg("dropping degenerate block window")
			continue
		}
		raw[rb.TableID] = append(raw[rb.TableID], b)
	}
	for tableID, lane := range raw {
		s.lanes[tableID] = sanitizeLane(lane)
	}

	for _, m := range fs.Merges {
		start, err1 := clock.Parse(m.Start)
		end, err2 := clock.Parse(m.End)
		if err1 != nil || err2 != nil {
			continue // already warned at load time
		}
		w, ok := clock.Normalize(start, end, start)
		if !ok {
			continue
		}
		s.merges[m.TableA] = append(s.merges[m.TableA], w)
		s.merges[m.TableB] = append(s.merges[m.TableB], w)
	}

	s.logger.Debug().Int("tables", len(s.tables)).Int("blocks", len(fs.Blocks)).
		Int("merges", len(fs.Merges)).Msg("interval store built")
	return s
}

// canonicalBlock parses a raw block and self-anchors its window, giving it
// a canonical absolute form with start in [0, 1440).
func canonicalBlock(rb models.RawBlock) (Block, bool) {
	start, err := clock.Parse(rb.Start)
	if err != nil {
		return Block{}, false
	}
	end, err := clock.Parse(rb.End)
	if err != nil {
		return Block{}, false
	}
	w, ok := clock.Normalize(start, end, start)
	if !ok {
		return Block{}, false
	}
	return Block{
		ID:        rb.ID,
		TableID:   rb.TableID,
		GuestID:   rb.GuestID,
		PartySize: rb.PartySize,
		Status:    rb.Status,
		Window:    w,
		Tags:      rb.Tags,
		Notes:     rb.Notes,
	}, true
}

// sanitizeLane repairs a table's raw blocks into strictly non-overlapping,
// time-ordered windows of at least MinBlockMinutes. Sort order is
// normalized start, then end, then ID, so repeated builds are
// deterministic. The walk clamps each block's start to the previous
// block's adjusted end: the earliest reservation keeps its original time
// and later blocks absorb the adjustment. Lossy, but never drops a block.
func sanitizeLane(lane []Block) []Block {
	sort.Slice(lane, func(i, j int) bool {
		a, b := lane[i], lane[j]
		if a.Window.Start != b.Window.Start {
			return a.Window.Start < b.Window.Start
		}
		if a.Window.End != b.Window.End {
			return a.Window.End < b.Window.End
		}
		return a.ID < b.ID
	})

	prevEnd := -1
	for i := range lane {
		w := lane[i].Window
		if w.Start < prevEnd {
			w.Start = prevEnd
		}
		if w.End < w.Start+MinBlockMinutes {
			w.End = w.Start + MinBlockMinutes
		}
		lane[i].Window = w
		prevEnd = w.End
	}
	return lane
}

// Tables returns the roster ordered by label.
func (s *Store) Tables() []models.Table {
	return append([]models.Table(nil), s.tables...)
}

// TableByID looks up one roster entry.
func (s *Store) TableByID(id string) (models.Table, bool) {
	t, ok := s.byID[id]
	return t, ok
}

// AllBlocks returns the sanitized blocks for a table, inclusive of
// unconfirmed holds. Read-only displays such as the timeline render these.
func (s *Store) AllBlocks(tableID string) []Block {
	return append([]Block(nil), s.lanes[tableID]...)
}

// BlockingWindows returns the windows that hold a table against new
// bookings: sanitized reservation windows minus unconfirmed holds, plus
// any merge-pairing window the table participates in. Ordered by start.
func (s *Store) BlockingWindows(tableID string) []clock.Window {
	var out []clock.Window
	for _, b := range s.lanes[tableID] {
		if b.Status.Blocking() {
			out = append(out, b.Window)
		}
	}
	out = append(out, s.merges[tableID]...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].End < out[j].End
	})
	return out
}

// MergePairings returns the authored pairings.
func (s *Store) MergePairings() []models.MergePairing {
	return append([]models.MergePairing(nil), s.pairs...)
}

// Periods returns the configured service periods.
func (s *Store) Periods() []models.ServicePeriod {
	return append([]models.ServicePeriod(nil), s.periods...)
}

// PeriodByID returns the service period with the given ID or label.
func (s *Store) PeriodByID(idOrLabel string) (models.ServicePeriod, bool) {
	for _, p := range s.periods {
		if p.ID == idOrLabel || p.Label == idOrLabel {
			return p, true
		}
	}
	return models.ServicePeriod{}, false
}

// Guest returns the history for a guest, if known.
func (s *Store) Guest(id string) (models.GuestHistory, bool) {
	g, ok := s.guests[id]
	return g, ok
}

// TotalSeats is the venue's physical seat count.
func (s *Store) TotalSeats() int { return s.totalSeats }

// LargestTableSeats is the seat count of the biggest single table.
func (s *Store) LargestTableSeats() int { return s.largestTable }
