// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/DheerajVerma945/GISCC/internal/store"
)

// Job names.
const (
	JobRefreshListings = "refresh_listings"
	JobPurgeSessions   = "purge_sessions"
)

// PurgeSchedule is when expired SQLite sessions are deleted.
const PurgeSchedule = "@every 30m"

// Refresher reloads the listing snapshots.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshListings reloads the cached listings so visitors rarely wait on
// the API.
func RefreshListings(r Refresher) Func {
	return r.Refresh
}

// PurgeSessions deletes expired rows from the SQLite session table.
func PurgeSessions(db *sql.DB, logger *slog.Logger) Func {
	return func(ctx context.Context) error {
		n, err := store.PurgeExpiredSessions(ctx, db)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("purged expired sessions", "count", n)
		}
		return nil
	}
}
