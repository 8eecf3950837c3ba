package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// PurgeExpiredSessions deletes every session that expired before now and
// logs how many rows were removed. It runs once; expired sessions seen by
// a request are already removed when they are validated.
func PurgeExpiredSessions(ctx context.Context, db *sql.DB, now time.Time, log *zap.Logger) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		log.Error("failed to purge expired sessions", zap.Error(err))
		return 0, err
	}
	rows, _ := res.RowsAffected()
	if rows > 0 {
		log.Info("purged expired sessions", zap.Int64("removed", rows))
	}
	return rows, nil
}
