/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package api exposes the availability engine over read-only JSON
// endpoints. Every handler takes its reference time as an explicit
// query parameter; nothing here reads the wall clock, which keeps
// responses reproducible and the engine trivially testable.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/friendsincode/maitred/internal/advisor"
	"github.com/friendsincode/maitred/internal/availability"
	"github.com/friendsincode/maitred/internal/clock"
	"github.com/friendsincode/maitred/internal/models"
	"github.com/friendsincode/maitred/internal/occupancy"
	"github.com/friendsincode/maitred/internal/ranking"
	"github.com/friendsincode/maitred/internal/telemetry"
)

// API exposes HTTP handlers over the availability engine.
type API struct {
	resolver  *availability.Resolver
	advisor   *advisor.Advisor
	occupancy *occupancy.Aggregator
	logger    zerolog.Logger
}

// New creates the API router wrapper.
func New(resolver *availability.Resolver, adv *advisor.Advisor, occ *occupancy.Aggregator, logger zerolog.Logger) *API {
	return &API{
		resolver:  resolver,
		advisor:   adv,
		occupancy: occ,
		logger:    logger.With().Str("component", "api").Logger(),
	}
}

// Routes registers all endpoints on the router.
func (a *API) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/tables", a.handleTablesList)
		r.Get("/tables/{tableID}/blocks", a.handleTableBlocks)
		r.Get("/periods", a.handlePeriodsList)
		r.Get("/availability", a.handleAvailability)
		r.Get("/slots", a.handleSlots)
		r.Get("/duration", a.handleDuration)
		r.Get("/rank", a.handleRank)
		r.Get("/conflicts", a.handleConflicts)
		r.Get("/occupancy", a.handleOccupancy)
		r.Get("/occupancy/series", a.handleOccupancySeries)
		r.Get("/next-free", a.handleNextFree)
	})
}

func (a *API) handleTablesList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.resolver.Store().Tables())
}

func (a *API) handleTableBlocks(w http.ResponseWriter, r *http.Request) {
	tableID := chi.URLParam(r, "tableID")
	if _, ok := a.resolver.Store().TableByID(tableID); !ok {
		writeError(w, http.StatusNotFound, "unknown_table")
		return
	}
	writeJSON(w, http.StatusOK, a.resolver.Store().AllBlocks(tableID))
}

func (a *API) handlePeriodsList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.resolver.Store().Periods())
}

func (a *API) handleAvailability(w http.ResponseWriter, r *http.Request) {
	tableID := r.URL.Query().Get("table_id")
	if _, ok := a.resolver.Store().TableByID(tableID); !ok {
		writeError(w, http.StatusNotFound, "unknown_table")
		return
	}
	start, err := parseMinuteParam(r, "start")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_start")
		return
	}
	period, ok := a.lookupPeriod(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown_period")
		return
	}

	win := a.resolver.ContinuousWindow(tableID, start, period)
	telemetry.AvailabilityProbesTotal.WithLabelValues(string(win.Boundary)).Inc()

	writeJSON(w, http.StatusOK, struct {
		TableID string `json:"table_id"`
		Start   int    `json:"start"`
		availability.Window
	}{TableID: tableID, Start: start, Window: win})
}

func (a *API) handleSlots(w http.ResponseWriter, r *http.Request) {
	period, ok := a.lookupPeriod(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown_period")
		return
	}
	duration, err := parseIntParam(r, "duration")
	if err != nil || duration <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_duration")
		return
	}

	q := availability.SlotQuery{
		TableID:  r.URL.Query().Get("table_id"),
		Duration: duration,
		Period:   period,
		Zone:     models.Zone(r.URL.Query().Get("zone")),
	}
	if q.TableID == "" {
		partySize, err := parseIntParam(r, "party_size")
		if err != nil || partySize <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_party_size")
			return
		}
		q.PartySize = partySize
	} else if _, ok := a.resolver.Store().TableByID(q.TableID); !ok {
		writeError(w, http.StatusNotFound, "unknown_table")
		return
	}
	if r.URL.Query().Has("now") {
		now, err := parseMinuteParam(r, "now")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_now")
			return
		}
		q.Now = &now
	}

	starts := a.resolver.AvailableStartTimes(q)
	slots := make([]slotResponse, 0, len(starts))
	for _, s := range starts {
		slots = append(slots, slotResponse{Start: s, Clock: clock.Format24(s)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"slots": slots})
}

type slotResponse struct {
	Start int    `json:"start"`
	Clock string `json:"clock"`
}

func (a *API) handleDuration(w http.ResponseWriter, r *http.Request) {
	tableID := r.URL.Query().Get("table_id")
	if _, ok := a.resolver.Store().TableByID(tableID); !ok {
		writeError(w, http.StatusNotFound, "unknown_table")
		return
	}
	start, err := parseMinuteParam(r, "start")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_start")
		return
	}
	period, ok := a.lookupPeriod(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown_period")
		return
	}
	partySize, err := parseIntParam(r, "party_size")
	if err != nil || partySize <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_party_size")
		return
	}

	writeJSON(w, http.StatusOK, a.resolver.MaxDurationAt(tableID, start, period, partySize))
}

func (a *API) handleRank(w http.ResponseWriter, r *http.Request) {
	period, ok := a.lookupPeriod(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown_period")
		return
	}
	start, err := parseMinuteParam(r, "start")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_start")
		return
	}
	duration, err := parseIntParam(r, "duration")
	if err != nil || duration <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_duration")
		return
	}
	partySize, err := parseIntParam(r, "party_size")
	if err != nil || partySize <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_party_size")
		return
	}

	req := ranking.Request{
		Start:     start,
		Duration:  duration,
		PartySize: partySize,
		Zone:      models.Zone(r.URL.Query().Get("zone")),
		Period:    period,
	}
	if r.URL.Query().Get("view") == "floor" {
		req.Weight = ranking.FloorWeight
	}

	res := ranking.Rank(a.resolver, req)
	telemetry.RankingPassesTotal.Inc()

	writeJSON(w, http.StatusOK, map[string]any{
		"candidates": res.Candidates,
		"buckets":    res.Buckets(),
	})
}

func (a *API) handleConflicts(w http.ResponseWriter, r *http.Request) {
	period, ok := a.lookupPeriod(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown_period")
		return
	}
	start, err := parseMinuteParam(r, "start")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_start")
		return
	}
	duration, err := parseIntParam(r, "duration")
	if err != nil || duration <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_duration")
		return
	}
	partySize, err := parseIntParam(r, "party_size")
	if err != nil || partySize <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_party_size")
		return
	}

	sel := advisor.Selection{
		TableID:   r.URL.Query().Get("table_id"),
		Start:     start,
		Duration:  duration,
		PartySize: partySize,
		Period:    period,
	}
	if day := r.URL.Query().Get("weekday"); day != "" {
		wd, err := parseWeekday(day)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_weekday")
			return
		}
		sel.Weekday = wd
	}

	var hist models.GuestHistory
	if guestID := r.URL.Query().Get("guest_id"); guestID != "" {
		hist, _ = a.resolver.Store().Guest(guestID)
	}

	warnings := a.advisor.ConflictsFor(sel, hist)
	if warnings == nil {
		warnings = []advisor.Warning{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"warnings": warnings})
}

func (a *API) handleOccupancy(w http.ResponseWriter, r *http.Request) {
	at, err := parseMinuteParam(r, "at")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_at")
		return
	}

	snap := a.occupancy.At(at)
	telemetry.FloorOccupancyPct.Set(float64(snap.Pct))
	writeJSON(w, http.StatusOK, snap)
}

func (a *API) handleOccupancySeries(w http.ResponseWriter, r *http.Request) {
	period, ok := a.lookupPeriod(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown_period")
		return
	}
	step := 0
	if r.URL.Query().Has("step") {
		var err error
		step, err = parseIntParam(r, "step")
		if err != nil || step <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_step")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"series": a.occupancy.Series(period, step)})
}

func (a *API) handleNextFree(w http.ResponseWriter, r *http.Request) {
	tableID := r.URL.Query().Get("table_id")
	if _, ok := a.resolver.Store().TableByID(tableID); !ok {
		writeError(w, http.StatusNotFound, "unknown_table")
		return
	}
	period, ok := a.lookupPeriod(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown_period")
		return
	}
	now, err := parseMinuteParam(r, "now")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_now")
		return
	}

	slot, found := a.resolver.NextFreeWindow(tableID, period, now)
	if !found {
		writeJSON(w, http.StatusOK, map[string]any{"ghost": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ghost": slot})
}

// lookupPeriod resolves the period query parameter by ID or label.
func (a *API) lookupPeriod(r *http.Request) (models.ServicePeriod, bool) {
	return a.resolver.Store().PeriodByID(r.URL.Query().Get("period"))
}

// parseMinuteParam reads a time parameter as either raw minutes ("1170")
// or a clock string ("19:30", "7:30 PM").
func parseMinuteParam(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	return clock.Parse(v)
}

func parseIntParam(r *http.Request, name string) (int, error) {
	return strconv.Atoi(r.URL.Query().Get(name))
}

func parseWeekday(name string) (time.Weekday, error) {
	days := map[string]time.Weekday{
		"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
		"wednesday": time.Wednesday, "thursday": time.Thursday,
		"friday": time.Friday, "saturday": time.Saturday,
	}
	wd, ok := days[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", name)
	}
	return wd, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
