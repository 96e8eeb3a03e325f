package device

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PumpRepository defines the interface for pump activity log storage.
type PumpRepository interface {
	Insert(ctx context.Context, l *PumpLog) error
	ListByDevice(ctx context.Context, deviceID string, limit int) ([]PumpLog, error)
}

// SQLitePumpRepository implements PumpRepository using SQLite.
type SQLitePumpRepository struct {
	db *sql.DB
}

// NewPumpRepository creates a new SQLite-backed pump log repository.
func NewPumpRepository(db *sql.DB) *SQLitePumpRepository {
	return &SQLitePumpRepository{db: db}
}

// Insert records one pump command. Timestamp defaults to now when zero.
func (r *SQLitePumpRepository) Insert(ctx context.Context, l *PumpLog) error {
	if l.ID == "" {
		l.ID = "pmp-" + uuid.NewString()[:8]
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now().UTC()
	}

	var duration sql.NullInt64
	if l.Duration != nil {
		duration = sql.NullInt64{Int64: int64(*l.Duration), Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pump_logs (id, device_id, action, duration, timestamp) VALUES (?, ?, ?, ?, ?)`,
		l.ID, l.DeviceID, string(l.Action), duration, l.Timestamp.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting pump log: %w", err)
	}

	return nil
}

// ListByDevice returns up to limit pump log entries, newest first.
func (r *SQLitePumpRepository) ListByDevice(ctx context.Context, deviceID string, limit int) ([]PumpLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, device_id, action, duration, timestamp FROM pump_logs
		 WHERE device_id = ? ORDER BY timestamp DESC, id DESC LIMIT ?`,
		deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing pump logs: %w", err)
	}
	defer rows.Close()

	logs := []PumpLog{}
	for rows.Next() {
		var l PumpLog
		var action, ts string
		var duration sql.NullInt64

		if err := rows.Scan(&l.ID, &l.DeviceID, &action, &duration, &ts); err != nil {
			return nil, fmt.Errorf("scanning pump log: %w", err)
		}

		l.Action = PumpAction(action)
		if duration.Valid {
			d := int(duration.Int64)
			l.Duration = &d
		}
		l.Timestamp, _ = time.Parse(time.RFC3339, ts) //nolint:errcheck // format is controlled

		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pump logs: %w", err)
	}

	return logs, nil
}
