package pushkin

import (
	"context"
	"fmt"
	"time"

	"github.com/asydorov/sygnal/internal/infrastructure/database"
)

// RejectedPushkey is one pushkey a downstream service permanently refused.
type RejectedPushkey struct {
	AppID      string
	Pushkey    string
	Reason     string
	RejectedAt time.Time
}

// RejectionLog persists pushkeys that backends report as permanently
// rejected. Operators query this table to see which tokens homeservers
// keep sending despite being dead.
type RejectionLog struct {
	db *database.DB
}

// NewRejectionLog creates a rejection log backed by the shared database.
func NewRejectionLog(db *database.DB) *RejectionLog {
	return &RejectionLog{db: db}
}

// Record stores a rejected pushkey. Recording the same (app_id, pushkey)
// again updates the reason and timestamp.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - appID: Application the pushkey belongs to
//   - pushkey: The rejected token
//   - reason: Short human-readable cause (e.g. "rejected by remote")
func (l *RejectionLog) Record(ctx context.Context, appID, pushkey, reason string) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO rejected_pushkeys (app_id, pushkey, reason, rejected_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (app_id, pushkey) DO UPDATE SET
			reason = excluded.reason,
			rejected_at = excluded.rejected_at
	`, appID, pushkey, reason, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording rejected pushkey: %w", err)
	}
	return nil
}

// List returns rejected pushkeys for an app, newest first.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - appID: Application to list rejections for
//   - limit: Maximum rows to return (0 means no limit)
func (l *RejectionLog) List(ctx context.Context, appID string, limit int) ([]RejectedPushkey, error) {
	query := `
		SELECT app_id, pushkey, reason, rejected_at
		FROM rejected_pushkeys
		WHERE app_id = ?
		ORDER BY rejected_at DESC
	`
	args := []any{appID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing rejected pushkeys: %w", err)
	}
	defer rows.Close()

	var result []RejectedPushkey
	for rows.Next() {
		var r RejectedPushkey
		var rejectedAt string
		if err := rows.Scan(&r.AppID, &r.Pushkey, &r.Reason, &rejectedAt); err != nil {
			return nil, fmt.Errorf("scanning rejected pushkey: %w", err)
		}
		r.RejectedAt, _ = time.Parse(time.RFC3339, rejectedAt) //nolint:errcheck // Format is controlled
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rejected pushkeys: %w", err)
	}
	return result, nil
}
