/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package availability

import (
	"github.com/friendsincode/maitred/internal/models"
)

// GhostSlot is a projected future free window on a currently occupied
// table. The UI renders it as an affordance ("frees up at 9:15").
type GhostSlot struct {
	StartsAt int `json:"starts_at"`
	EndsAt   int `json:"ends_at"`
}

// NextFreeWindow walks forward from now to the first gap in a table's
// blocking windows within the service period. It answers "when does this
// table free up later", not current state: if the table is free right now,
// or no gap opens before service close, it returns nothing. Current state
// comes from ContinuousWindow.
func (r *Resolver) NextFreeWindow(tableID string, period models.ServicePeriod, now int) (GhostSlot, bool) {
	closeAt := periodClose(period, now)
	busy := coalesce(rebaseAll(r.store.BlockingWindows(tableID), now))

	for i, w := range busy {
		if !w.Covers(now) {
			continue
		}
		gapStart := w.End
		if gapStart >= closeAt {
			return GhostSlot{}, false
		}
		gapEnd := closeAt
		if i+1 < len(busy) && busy[i+1].Start < closeAt {
			gapEnd = busy[i+1].Start
		}
		return GhostSlot{StartsAt: gapStart, EndsAt: gapEnd}, true
	}

	// Free at this instant; nothing to project.
	return GhostSlot{}, false
}
