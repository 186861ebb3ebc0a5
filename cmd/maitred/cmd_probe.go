/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/friendsincode/maitred/internal/availability"
	"github.com/friendsincode/maitred/internal/clock"
	"github.com/friendsincode/maitred/internal/floordata"
	"github.com/friendsincode/maitred/internal/models"
	"github.com/friendsincode/maitred/internal/ranking"
	"github.com/friendsincode/maitred/internal/store"
)

// Probe flags
var (
	probeFloorPath string
	probePeriod    string
	probeStart     string
	probeDuration  int
	probePartySize int
	probeZone      string
	probeTableID   string
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Run a one-shot availability query against a floor fixture",
	Long: `Loads a YAML floor fixture, builds the availability engine and prints
either the continuous free window for one table or a ranked list of
candidate tables for a booking request.

Examples:
  maitred probe --floor floor.yaml --period Dinner --start 19:30 --table-id t12
  maitred probe --floor floor.yaml --period Dinner --start 19:30 --party-size 4 --duration 90`,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().StringVar(&probeFloorPath, "floor", "./floor.yaml", "Path to YAML floor fixture")
	probeCmd.Flags().StringVar(&probePeriod, "period", "", "Service period ID or label (required)")
	probeCmd.Flags().StringVar(&probeStart, "start", "", "Requested start as a clock string (required)")
	probeCmd.Flags().IntVar(&probeDuration, "duration", 0, "Requested duration in minutes (default: house policy for the party size)")
	probeCmd.Flags().IntVar(&probePartySize, "party-size", 2, "Party size")
	probeCmd.Flags().StringVar(&probeZone, "zone", "", "Zone preference (main, patio, private, bar)")
	probeCmd.Flags().StringVar(&probeTableID, "table-id", "", "Probe one table instead of ranking the roster")
	probeCmd.MarkFlagRequired("period")
	probeCmd.MarkFlagRequired("start")
}

func runProbe(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	fs, err := floordata.LoadYAML(probeFloorPath, logger)
	if err != nil {
		return fmt.Errorf("load floor fixture: %w", err)
	}

	s := store.Build(fs, logger)
	resolver := availability.New(s)

	period, ok := s.PeriodByID(probePeriod)
	if !ok {
		return fmt.Errorf("unknown service period: %s", probePeriod)
	}
	start, err := clock.Parse(probeStart)
	if err != nil {
		return fmt.Errorf("parse start: %w", err)
	}

	duration := probeDuration
	if duration == 0 {
		duration = availability.PolicyDuration(probePartySize)
	}

	if probeTableID != "" {
		t, ok := s.TableByID(probeTableID)
		if !ok {
			return fmt.Errorf("unknown table: %s", probeTableID)
		}
		w := resolver.ContinuousWindow(t.ID, start, period)
		fmt.Printf("%s (%d seats, %s) at %s:\n", t.Label, t.Seats, t.Zone, clock.Format12(start))
		fmt.Printf("  free:     %d minutes\n", w.FreeMinutes)
		fmt.Printf("  boundary: %s at %s\n", w.Boundary, clock.Format12(w.BoundaryAt))
		if w.FreeMinutes < duration {
			if ghost, ok := resolver.NextFreeWindow(t.ID, period, start); ok {
				fmt.Printf("  frees up: %s\n", clock.Format12(ghost.StartsAt))
			}
		}
		return nil
	}

	res := ranking.Rank(resolver, ranking.Request{
		Start:     start,
		Duration:  duration,
		PartySize: probePartySize,
		Zone:      models.Zone(probeZone),
		Period:    period,
	})
	if len(res.Candidates) == 0 {
		fmt.Println("No table can host this booking.")
		return nil
	}

	fmt.Printf("Party of %d for %d minutes at %s:\n", probePartySize, duration, clock.Format12(start))
	for _, c := range res.Candidates {
		state := "available now"
		if !c.AvailableNow {
			state = fmt.Sprintf("opens at %s (%d min wait)", clock.Format12(c.OpensAt), c.WaitMinutes)
		}
		fmt.Printf("  %-6s %d seats  score %4d  %s\n", c.Table.Label, c.Table.Seats, c.Score, state)
	}
	return nil
}
