/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/friendsincode/maitred/internal/advisor"
	"github.com/friendsincode/maitred/internal/availability"
	"github.com/friendsincode/maitred/internal/floordata"
	"github.com/friendsincode/maitred/internal/models"
	"github.com/friendsincode/maitred/internal/occupancy"
	"github.com/friendsincode/maitred/internal/store"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()
	fs := &floordata.FloorSet{
		Tables: []models.Table{
			{ID: "t12", Label: "T12", Seats: 4, Zone: models.ZoneMain},
			{ID: "t7", Label: "T7", Seats: 4, Zone: models.ZoneMain},
		},
		Periods: []models.ServicePeriod{
			{ID: "dinner", Label: "Dinner", Start: "17:00", End: "23:00"},
		},
		Blocks: []models.RawBlock{
			{ID: "b1", TableID: "t7", GuestID: "g1", PartySize: 4, Start: "18:30", End: "19:45", Status: models.StatusConfirmed},
		},
		Guests: []models.GuestHistory{
			{GuestID: "g1", Name: "Avery", Visits: 3, NoShows: 2, TotalReservations: 5},
		},
	}
	s := store.Build(fs, zerolog.Nop())
	resolver := availability.New(s)
	return New(resolver, advisor.New(resolver), occupancy.New(s), zerolog.Nop())
}

func serve(t *testing.T, a *API, target string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	a.Routes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestAvailabilityEndpoint(t *testing.T) {
	a := newTestAPI(t)

	rec := serve(t, a, "/api/v1/availability?table_id=t12&start=1170&period=dinner")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		TableID     string `json:"table_id"`
		FreeMinutes int    `json:"free_minutes"`
		Boundary    string `json:"boundary"`
		BoundaryAt  int    `json:"boundary_at"`
	}
	decode(t, rec, &resp)
	if resp.FreeMinutes != 210 || resp.Boundary != "service_close" || resp.BoundaryAt != 1380 {
		t.Fatalf("response = %+v, want 210 free to service close at 1380", resp)
	}
}

func TestAvailabilityAcceptsClockStrings(t *testing.T) {
	a := newTestAPI(t)

	rec := serve(t, a, "/api/v1/availability?table_id=t12&start=19:30&period=dinner")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Start int `json:"start"`
	}
	decode(t, rec, &resp)
	if resp.Start != 1170 {
		t.Fatalf("start = %d, want 1170", resp.Start)
	}
}

func TestAvailabilityUnknownTable(t *testing.T) {
	a := newTestAPI(t)

	rec := serve(t, a, "/api/v1/availability?table_id=nope&start=1170&period=dinner")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSlotsEndpointFiltersByNow(t *testing.T) {
	a := newTestAPI(t)

	rec := serve(t, a, "/api/v1/slots?party_size=2&duration=60&period=dinner&now=1063")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Slots []struct {
			Start int    `json:"start"`
			Clock string `json:"clock"`
		} `json:"slots"`
	}
	decode(t, rec, &resp)
	if len(resp.Slots) == 0 {
		t.Fatal("want slots, got none")
	}
	if resp.Slots[0].Start != 1065 || resp.Slots[0].Clock != "17:45" {
		t.Fatalf("first slot = %+v, want 1065/17:45", resp.Slots[0])
	}
}

func TestRankEndpoint(t *testing.T) {
	a := newTestAPI(t)

	rec := serve(t, a, "/api/v1/rank?start=1170&duration=90&party_size=4&period=dinner")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Candidates []struct {
			Table struct {
				ID string `json:"id"`
			} `json:"table"`
			Score int `json:"score"`
		} `json:"candidates"`
	}
	decode(t, rec, &resp)
	if len(resp.Candidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(resp.Candidates))
	}
	if resp.Candidates[0].Table.ID != "t12" || resp.Candidates[0].Score != 1000 {
		t.Fatalf("best = %+v, want T12 at 1000", resp.Candidates[0])
	}
}

func TestConflictsEndpointUsesGuestHistory(t *testing.T) {
	a := newTestAPI(t)

	rec := serve(t, a, "/api/v1/conflicts?table_id=t12&start=1170&duration=90&party_size=2&period=dinner&guest_id=g1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Warnings []struct {
			Kind string `json:"kind"`
		} `json:"warnings"`
	}
	decode(t, rec, &resp)
	if len(resp.Warnings) != 1 || resp.Warnings[0].Kind != "no_show_risk" {
		t.Fatalf("warnings = %+v, want a single no_show_risk", resp.Warnings)
	}
}

func TestConflictsEndpointRejectsBadWeekday(t *testing.T) {
	a := newTestAPI(t)

	rec := serve(t, a, "/api/v1/conflicts?start=1170&duration=90&party_size=2&period=dinner&weekday=someday")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestOccupancyEndpoint(t *testing.T) {
	a := newTestAPI(t)

	// 19:00, mid-booking on T7.
	rec := serve(t, a, "/api/v1/occupancy?at=1140")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var snap struct {
		Seated int `json:"seated"`
		Total  int `json:"total"`
		Pct    int `json:"pct"`
	}
	decode(t, rec, &snap)
	if snap.Seated != 4 || snap.Total != 8 || snap.Pct != 50 {
		t.Fatalf("snapshot = %+v, want 4/8 (50%%)", snap)
	}
}

func TestNextFreeEndpointOnFreeTable(t *testing.T) {
	a := newTestAPI(t)

	rec := serve(t, a, "/api/v1/next-free?table_id=t12&period=dinner&now=1170")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Ghost *struct {
			StartsAt int `json:"starts_at"`
		} `json:"ghost"`
	}
	decode(t, rec, &resp)
	if resp.Ghost != nil {
		t.Fatalf("ghost = %+v, want null for a free table", resp.Ghost)
	}
}

func TestNextFreeEndpointOnOccupiedTable(t *testing.T) {
	a := newTestAPI(t)

	// 19:00, T7 is mid-booking until 19:45.
	rec := serve(t, a, "/api/v1/next-free?table_id=t7&period=dinner&now=1140")
	var resp struct {
		Ghost *struct {
			StartsAt int `json:"starts_at"`
			EndsAt   int `json:"ends_at"`
		} `json:"ghost"`
	}
	decode(t, rec, &resp)
	if resp.Ghost == nil || resp.Ghost.StartsAt != 1185 || resp.Ghost.EndsAt != 1380 {
		t.Fatalf("ghost = %+v, want {1185 1380}", resp.Ghost)
	}
}

func TestTableBlocksEndpoint(t *testing.T) {
	a := newTestAPI(t)

	rec := serve(t, a, "/api/v1/tables/t7/blocks")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var blocks []struct {
		ID string `json:"id"`
	}
	decode(t, rec, &blocks)
	if len(blocks) != 1 || blocks[0].ID != "b1" {
		t.Fatalf("blocks = %+v, want b1", blocks)
	}
}
