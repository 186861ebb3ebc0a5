/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package floordata loads the static floor reference data (roster, raw
// reservation blocks, merge pairings, service periods, guest histories)
// from a YAML fixture file or a relational database. Loading is read-only
// ingestion; the engine never writes anything back.
package floordata

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/friendsincode/maitred/internal/clock"
	"github.com/friendsincode/maitred/internal/models"
)

// ErrMergeConflict reports a table named in overlapping merge pairings.
// This is a data-integrity violation and aborts the load.
var ErrMergeConflict = errors.New("conflicting merge pairings")

// FloorSet is the raw, possibly-inconsistent input the store is built from.
type FloorSet struct {
	Venue   string                 `yaml:"venue"`
	Tables  []models.Table         `yaml:"tables"`
	Blocks  []models.RawBlock      `yaml:"blocks"`
	Merges  []models.MergePairing  `yaml:"merges"`
	Periods []models.ServicePeriod `yaml:"periods"`
	Guests  []models.GuestHistory  `yaml:"guests"`
}

// LoadYAML reads a floor fixture file.
func LoadYAML(path string, logger zerolog.Logger) (*FloorSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read floor fixture: %w", err)
	}

	var fs FloorSet
	if err := yaml.Unmarshal(raw, &fs); err != nil {
		return nil, fmt.Errorf("parse floor fixture: %w", err)
	}

	if err := fs.validate(logger); err != nil {
		return nil, err
	}
	return &fs, nil
}

// LoadDB reads floor reference data from a connected database.
func LoadDB(db *gorm.DB, logger zerolog.Logger) (*FloorSet, error) {
	var fs FloorSet
	if err := db.Order("label").Find(&fs.Tables).Error; err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	if err := db.Order("id").Find(&fs.Blocks).Error; err != nil {
		return nil, fmt.Errorf("load blocks: %w", err)
	}
	if err := db.Order("id").Find(&fs.Merges).Error; err != nil {
		return nil, fmt.Errorf("load merge pairings: %w", err)
	}
	if err := db.Order("start").Find(&fs.Periods).Error; err != nil {
		return nil, fmt.Errorf("load service periods: %w", err)
	}
	if err := db.Find(&fs.Guests).Error; err != nil {
		return nil, fmt.Errorf("load guest histories: %w", err)
	}

	if err := fs.validate(logger); err != nil {
		return nil, err
	}
	return &fs, nil
}

// validate assigns IDs to unlabelled rows, drops rows that reference
// unknown tables or carry unparseable clock strings, and rejects
// inconsistent merge data. Hand-authored demo data is expected to be
// sloppy, so everything short of a merge conflict is repaired or dropped
// with a warning rather than failing the load.
func (fs *FloorSet) validate(logger zerolog.Logger) error {
	log := logger.With().Str("component", "floordata").Logger()

	known := make(map[string]bool, len(fs.Tables))
	for i := range fs.Tables {
		if fs.Tables[i].ID == "" {
			fs.Tables[i].ID = uuid.NewString()
		}
		if fs.Tables[i].Zone == "" {
			fs.Tables[i].Zone = models.ZoneMain
		}
		known[fs.Tables[i].ID] = true
	}

	kept := fs.Blocks[:0]
	for i := range fs.Blocks {
		b := fs.Blocks[i]
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		if !known[b.TableID] {
			log.Warn().Str("block_id", b.ID).Str("table_id", b.TableID).Msg("dropping block for unknown table")
			continue
		}
		if _, err := clock.Parse(b.Start); err != nil {
			log.Warn().Str("block_id", b.ID).Str("start", b.Start).Msg("dropping block with unparseable start")
			continue
		}
		if _, err := clock.Parse(b.End); err != nil {
			log.Warn().Str("block_id", b.ID).Str("end", b.End).Msg("dropping block with unparseable end")
			continue
		}
		if b.Status == "" {
			b.Status = models.StatusConfirmed
		}
		kept = append(kept, b)
	}
	fs.Blocks = kept

	if err := fs.checkMerges(log, known); err != nil {
		return err
	}

	for i := range fs.Periods {
		if fs.Periods[i].ID == "" {
			fs.Periods[i].ID = uuid.NewString()
		}
	}

	return nil
}

// checkMerges enforces the pairing invariants: no self-merge, both tables
// known, and no table named in two pairings whose windows overlap.
func (fs *FloorSet) checkMerges(log zerolog.Logger, known map[string]bool) error {
	type span struct {
		id     string
		window clock.Window
	}
	byTable := make(map[string][]span)

	keptMerges := fs.Merges[:0]
	for i := range fs.Merges {
		m := fs.Merges[i]
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if m.TableA == m.TableB {
			return fmt.Errorf("%w: pairing %s merges table %s with itself", ErrMergeConflict, m.ID, m.TableA)
		}
		if !known[m.TableA] || !known[m.TableB] {
			log.Warn().Str("merge_id", m.ID).Msg("dropping merge pairing for unknown table")
			continue
		}

		start, err := clock.Parse(m.Start)
		if err != nil {
			log.Warn().Str("merge_id", m.ID).Str("start", m.Start).Msg("dropping merge pairing with unparseable start")
			continue
		}
		end, err := clock.Parse(m.End)
		if err != nil {
			log.Warn().Str("merge_id", m.ID).Str("end", m.End).Msg("dropping merge pairing with unparseable end")
			continue
		}
		w, ok := clock.Normalize(start, end, start)
		if !ok {
			log.Warn().Str("merge_id", m.ID).Msg("dropping degenerate merge pairing window")
			continue
		}

		for _, tableID := range []string{m.TableA, m.TableB} {
			for _, other := range byTable[tableID] {
				if w.Overlaps(other.window) {
					return fmt.Errorf("%w: table %s appears in pairings %s and %s with overlapping windows",
						ErrMergeConflict, tableID, other.id, m.ID)
				}
			}
			byTable[tableID] = append(byTable[tableID], span{id: m.ID, window: w})
		}
		keptMerges = append(keptMerges, m)
	}
	fs.Merges = keptMerges
	return nil
}

// Table returns the roster entry for an ID, if present.
func (fs *FloorSet) Table(id string) (models.Table, bool) {
	for _, t := range fs.Tables {
		if t.ID == id {
			return t, true
		}
	}
	return models.Table{}, false
}

// Period returns the service period with the given ID or label.
func (fs *FloorSet) Period(idOrLabel string) (models.ServicePeriod, bool) {
	for _, p := range fs.Periods {
		if p.ID == idOrLabel || p.Label == idOrLabel {
			return p, true
		}
	}
	return models.ServicePeriod{}, false
}
