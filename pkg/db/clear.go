// Package db provides audit log clearing.
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

const clearLogPrefix = "db:clear"

// ClearDispatchLog truncates the dispatches table. Schema is preserved; only
// data is removed. RESTART IDENTITY resets sequences.
func ClearDispatchLog(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info(fmt.Sprintf("%s - Clearing dispatch audit log", clearLogPrefix))

	_, err := pool.Exec(ctx, `TRUNCATE TABLE dispatches RESTART IDENTITY CASCADE`)
	if err != nil {
		return fmt.Errorf("%s - truncate failed: %w", clearLogPrefix, err)
	}

	slog.Info(fmt.Sprintf("%s - Dispatch audit log cleared", clearLogPrefix))
	return nil
}
