/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package db

import (
	"gorm.io/gorm"

	"github.com/friendsincode/maitred/internal/models"
)

// Migrate creates the floor reference tables. Used by database-backed
// deployments and the sqlite test fixtures.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Table{},
		&models.RawBlock{},
		&models.MergePairing{},
		&models.ServicePeriod{},
		&models.GuestHistory{},
	)
}
