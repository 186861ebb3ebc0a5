/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package store

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/friendsincode/maitred/internal/floordata"
	"github.com/friendsincode/maitred/internal/models"
)

func buildTestStore(t *testing.T, fs *floordata.FloorSet) *Store {
	t.Helper()
	return Build(fs, zerolog.Nop())
}

func fourTop(id, label string) models.Table {
	return models.Table{ID: id, Label: label, Seats: 4, Zone: models.ZoneMain}
}

func TestSanitizeOrdersAndSeparatesOverlappingBlocks(t *testing.T) {
	fs := &floordata.FloorSet{
		Tables: []models.Table{fourTop("t1", "T1")},
		Blocks: []models.RawBlock{
			{ID: "b2", TableID: "t1", PartySize: 2, Start: "18:30", End: "19:30", Status: models.StatusConfirmed},
			{ID: "b1", TableID: "t1", PartySize: 4, Start: "18:00", End: "19:00", Status: models.StatusConfirmed},
		},
	}
	s := buildTestStore(t, fs)

	blocks := s.AllBlocks("t1")
	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(blocks))
	}
	if blocks[0].ID != "b1" || blocks[1].ID != "b2" {
		t.Fatalf("order = %s,%s, want b1,b2", blocks[0].ID, blocks[1].ID)
	}
	// b2's start is clamped to b1's end; earliest reservation keeps its time.
	if blocks[0].Window.Start != 1080 || blocks[0].Window.End != 1140 {
		t.Fatalf("b1 window = %+v, want {1080 1140}", blocks[0].Window)
	}
	if blocks[1].Window.Start != 1140 || blocks[1].Window.End != 1170 {
		t.Fatalf("b2 window = %+v, want {1140 1170}", blocks[1].Window)
	}
}

func TestSanitizeEnforcesMinimumDuration(t *testing.T) {
	fs := &floordata.FloorSet{
		Tables: []models.Table{fourTop("t1", "T1")},
		Blocks: []models.RawBlock{
			{ID: "b1", TableID: "t1", PartySize: 2, Start: "18:00", End: "18:05", Status: models.StatusConfirmed},
		},
	}
	s := buildTestStore(t, fs)

	blocks := s.AllBlocks("t1")
	if len(blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(blocks))
	}
	if got := blocks[0].Window.Duration(); got != MinBlockMinutes {
		t.Fatalf("duration = %d, want %d", got, MinBlockMinutes)
	}
}

func TestSanitizeIsIdempotent(t *testing.T) {
	fs := &floordata.FloorSet{
		Tables: []models.Table{fourTop("t1", "T1")},
		Blocks: []models.RawBlock{
			{ID: "b1", TableID: "t1", PartySize: 2, Start: "17:00", End: "18:10", Status: models.StatusConfirmed},
			{ID: "b2", TableID: "t1", PartySize: 2, Start: "17:30", End: "19:00", Status: models.StatusConfirmed},
			{ID: "b3", TableID: "t1", PartySize: 2, Start: "18:45", End: "18:50", Status: models.StatusConfirmed},
		},
	}
	s := buildTestStore(t, fs)
	once := s.AllBlocks("t1")

	twice := sanitizeLane(s.AllBlocks("t1"))
	for i := range once {
		if once[i].Window != twice[i].Window {
			t.Fatalf("block %s window changed on second pass: %+v vs %+v",
				once[i].ID, once[i].Window, twice[i].Window)
		}
	}
}

func TestSanitizedLanesNeverOverlap(t *testing.T) {
	fs := &floordata.FloorSet{
		Tables: []models.Table{fourTop("t1", "T1"), fourTop("t2", "T2")},
		Blocks: []models.RawBlock{
			{ID: "b1", TableID: "t1", PartySize: 2, Start: "17:00", End: "19:00", Status: models.StatusConfirmed},
			{ID: "b2", TableID: "t1", PartySize: 2, Start: "17:15", End: "18:00", Status: models.StatusConfirmed},
			{ID: "b3", TableID: "t1", PartySize: 2, Start: "17:15", End: "20:30", Status: models.StatusConfirmed},
			{ID: "b4", TableID: "t2", PartySize: 2, Start: "22:00", End: "01:00", Status: models.StatusConfirmed},
			{ID: "b5", TableID: "t2", PartySize: 2, Start: "23:30", End: "23:45", Status: models.StatusConfirmed},
		},
	}
	s := buildTestStore(t, fs)

	for _, tableID := range []string{"t1", "t2"} {
		blocks := s.AllBlocks(tableID)
		for i := 1; i < len(blocks); i++ {
			if blocks[i].Window.Start < blocks[i-1].Window.End {
				t.Fatalf("table %s blocks %s and %s overlap: %+v, %+v",
					tableID, blocks[i-1].ID, blocks[i].ID, blocks[i-1].Window, blocks[i].Window)
			}
		}
	}
}

func TestBlockingWindowsExcludeUnconfirmedHolds(t *testing.T) {
	fs := &floordata.FloorSet{
		Tables: []models.Table{fourTop("t1", "T1")},
		Blocks: []models.RawBlock{
			{ID: "b1", TableID: "t1", PartySize: 2, Start: "18:00", End: "19:00", Status: models.StatusConfirmed},
			{ID: "b2", TableID: "t1", PartySize: 2, Start: "20:00", End: "21:00", Status: models.StatusUnconfirmed},
		},
	}
	s := buildTestStore(t, fs)

	if got := len(s.BlockingWindows("t1")); got != 1 {
		t.Fatalf("blocking windows = %d, want 1 (hold must not block)", got)
	}
	if got := len(s.AllBlocks("t1")); got != 2 {
		t.Fatalf("all blocks = %d, want 2 (timeline renders holds)", got)
	}
}

func TestMergePairingBlocksBothTables(t *testing.T) {
	fs := &floordata.FloorSet{
		Tables: []models.Table{fourTop("t1", "T1"), fourTop("t2", "T2")},
		Merges: []models.MergePairing{
			{ID: "m1", TableA: "t1", TableB: "t2", Start: "19:00", End: "21:00"},
		},
	}
	s := buildTestStore(t, fs)

	for _, tableID := range []string{"t1", "t2"} {
		ws := s.BlockingWindows(tableID)
		if len(ws) != 1 {
			t.Fatalf("table %s blocking windows = %d, want 1", tableID, len(ws))
		}
		if ws[0].Start != 1140 || ws[0].End != 1260 {
			t.Fatalf("table %s pairing window = %+v, want {1140 1260}", tableID, ws[0])
		}
	}
}

func TestBuildAggregatesSeatCounts(t *testing.T) {
	fs := &floordata.FloorSet{
		Tables: []models.Table{
			{ID: "t1", Label: "T1", Seats: 2, Zone: models.ZoneMain},
			{ID: "t2", Label: "T2", Seats: 8, Zone: models.ZonePrivate},
			{ID: "t3", Label: "T3", Seats: 4, Zone: models.ZonePatio},
		},
	}
	s := buildTestStore(t, fs)

	if s.TotalSeats() != 14 {
		t.Fatalf("total seats = %d, want 14", s.TotalSeats())
	}
	if s.LargestTableSeats() != 8 {
		t.Fatalf("largest table = %d, want 8", s.LargestTableSeats())
	}
}
