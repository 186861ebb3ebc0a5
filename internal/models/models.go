/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package models holds the floor reference data the engine is built from:
// the table roster, raw reservation blocks, merge pairings, service periods
// and guest histories. Everything here is static input; the engine never
// creates or mutates these at runtime.
package models

import "time"

// Zone partitions the floor plan.
type Zone string

const (
	ZoneAny     Zone = "any" // filter value only, never assigned to a table
	ZoneMain    Zone = "main"
	ZonePatio   Zone = "patio"
	ZonePrivate Zone = "private"
	ZoneBar     Zone = "bar"
)

// BlockStatus is the lifecycle state of a reservation block.
type BlockStatus string

const (
	StatusConfirmed   BlockStatus = "confirmed"
	StatusUnconfirmed BlockStatus = "unconfirmed"
	StatusSeated      BlockStatus = "seated"
	StatusLate        BlockStatus = "late"
	StatusCompleted   BlockStatus = "completed"
	StatusNoShow      BlockStatus = "no_show"
)

// Blocking reports whether a block in this status holds its table against
// new bookings. Unconfirmed holds deliberately do not: a tentative hold
// must not beat a confirmed competing booking.
func (s BlockStatus) Blocking() bool {
	return s != StatusUnconfirmed
}

// Table is one physical table on the floor plan.
type Table struct {
	ID        string    `gorm:"type:uuid;primaryKey" yaml:"id" json:"id"`
	Label     string    `gorm:"index" yaml:"label" json:"label"`
	Seats     int       `gorm:"not null" yaml:"seats" json:"seats"`
	Zone      Zone      `gorm:"type:varchar(16);index" yaml:"zone" json:"zone"`
	CreatedAt time.Time `yaml:"-" json:"-"`
	UpdatedAt time.Time `yaml:"-" json:"-"`
}

// RawBlock is a reservation interval as authored: start/end are clock
// strings ("HH:MM" or "H:MM AM/PM"), windows may overlap on a lane and may
// wrap midnight. The store sanitizes these on load.
type RawBlock struct {
	ID        string      `gorm:"type:uuid;primaryKey" yaml:"id" json:"id"`
	TableID   string      `gorm:"type:uuid;index;not null" yaml:"table_id" json:"table_id"`
	GuestID   string      `gorm:"type:uuid;index" yaml:"guest_id" json:"guest_id"`
	PartySize int         `gorm:"not null" yaml:"party_size" json:"party_size"`
	Start     string      `gorm:"type:varchar(16);not null" yaml:"start" json:"start"`
	End       string      `gorm:"type:varchar(16);not null" yaml:"end" json:"end"`
	Status    BlockStatus `gorm:"type:varchar(16);not null;default:'confirmed'" yaml:"status" json:"status"`
	Tags      []string    `gorm:"serializer:json" yaml:"tags" json:"tags,omitempty"`
	Notes     string      `gorm:"type:text" yaml:"notes" json:"notes,omitempty"`
	CreatedAt time.Time   `yaml:"-" json:"-"`
	UpdatedAt time.Time   `yaml:"-" json:"-"`
}

// MergePairing joins two tables for a time window. While active, the
// pairing's window blocks both constituent tables. Authored once, not
// duplicated per table.
type MergePairing struct {
	ID        string    `gorm:"type:uuid;primaryKey" yaml:"id" json:"id"`
	TableA    string    `gorm:"type:uuid;index;not null" yaml:"table_a" json:"table_a"`
	TableB    string    `gorm:"type:uuid;index;not null" yaml:"table_b" json:"table_b"`
	Start     string    `gorm:"type:varchar(16);not null" yaml:"start" json:"start"`
	End       string    `gorm:"type:varchar(16);not null" yaml:"end" json:"end"`
	CreatedAt time.Time `yaml:"-" json:"-"`
	UpdatedAt time.Time `yaml:"-" json:"-"`
}

// ServicePeriod is a named open/close window bounding candidate bookings,
// e.g. Dinner 17:00-23:00. End supports the "24:00" sentinel.
type ServicePeriod struct {
	ID        string    `gorm:"type:uuid;primaryKey" yaml:"id" json:"id"`
	Label     string    `gorm:"uniqueIndex" yaml:"label" json:"label"`
	Start     string    `gorm:"type:varchar(16);not null" yaml:"start" json:"start"`
	End       string    `gorm:"type:varchar(16);not null" yaml:"end" json:"end"`
	CreatedAt time.Time `yaml:"-" json:"-"`
	UpdatedAt time.Time `yaml:"-" json:"-"`
}

// GuestHistory is consumed, not owned, by the conflict advisor.
type GuestHistory struct {
	GuestID           string    `gorm:"type:uuid;primaryKey" yaml:"guest_id" json:"guest_id"`
	Name              string    `yaml:"name" json:"name"`
	Visits            int       `yaml:"visits" json:"visits"`
	NoShows           int       `yaml:"no_shows" json:"no_shows"`
	TotalReservations int       `yaml:"total_reservations" json:"total_reservations"`
	CreatedAt         time.Time `yaml:"-" json:"-"`
	UpdatedAt         time.Time `yaml:"-" json:"-"`
}

// NoShowRate is the guest's historical no-show fraction in [0, 1].
func (g GuestHistory) NoShowRate() float64 {
	if g.TotalReservations <= 0 {
		return 0
	}
	return float64(g.NoShows) / float64(g.TotalReservations)
}
