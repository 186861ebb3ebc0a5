/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import "testing"

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.FloorBackend != FloorYAML {
		t.Fatalf("backend = %s, want yaml", cfg.FloorBackend)
	}
	if cfg.SlotStepMinutes != 15 {
		t.Fatalf("slot step = %d, want 15", cfg.SlotStepMinutes)
	}
	if cfg.GraceMinutes != 8 {
		t.Fatalf("grace = %d, want 8", cfg.GraceMinutes)
	}
}

func TestLoadDatabaseBackendRequiresDSN(t *testing.T) {
	t.Setenv("MAITRED_FLOOR_BACKEND", "sqlite")
	if _, err := Load(); err == nil {
		t.Fatal("expected load to fail without MAITRED_FLOOR_DSN")
	}

	t.Setenv("MAITRED_FLOOR_DSN", "file:floor.db")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.FloorBackend != FloorSQLite {
		t.Fatalf("backend = %s, want sqlite", cfg.FloorBackend)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("MAITRED_FLOOR_BACKEND", "etcd")
	if _, err := Load(); err == nil {
		t.Fatal("expected load to fail for unknown backend")
	}
}

func TestLoadRejectsBadSampleRate(t *testing.T) {
	t.Setenv("MAITRED_TRACING_SAMPLE_RATE", "1.5")
	if _, err := Load(); err == nil {
		t.Fatal("expected load to fail for sample rate above 1")
	}
}
