package device

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LightRepository defines the interface for light intensity reading storage.
type LightRepository interface {
	Insert(ctx context.Context, p *LightDataPoint) error
	ListByDevice(ctx context.Context, deviceID string, limit int, from, to *time.Time) ([]LightDataPoint, error)
	Latest(ctx context.Context, deviceID string) (*LightDataPoint, error)
}

// SQLiteLightRepository implements LightRepository using SQLite.
type SQLiteLightRepository struct {
	db *sql.DB
}

// NewLightRepository creates a new SQLite-backed light reading repository.
func NewLightRepository(db *sql.DB) *SQLiteLightRepository {
	return &SQLiteLightRepository{db: db}
}

const lightColumns = "id, device_id, timestamp, intensity"

// Insert stores one reading. Timestamp defaults to now when zero.
func (r *SQLiteLightRepository) Insert(ctx context.Context, p *LightDataPoint) error {
	if p.ID == "" {
		p.ID = "lgt-" + uuid.NewString()[:8]
	}
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO light_data (id, device_id, timestamp, intensity) VALUES (?, ?, ?, ?)`,
		p.ID, p.DeviceID, p.Timestamp.UTC().Format(time.RFC3339), p.Intensity,
	)
	if err != nil {
		return fmt.Errorf("inserting light reading: %w", err)
	}

	return nil
}

// ListByDevice returns up to limit readings for a device, newest first,
// optionally bounded to [from, to] inclusive.
func (r *SQLiteLightRepository) ListByDevice(ctx context.Context, deviceID string, limit int, from, to *time.Time) ([]LightDataPoint, error) {
	query, args := buildSeriesQuery(lightColumns, "light_data", deviceID, limit, from, to)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing light readings: %w", err)
	}
	defer rows.Close()

	points := []LightDataPoint{}
	for rows.Next() {
		p, err := scanLightPoint(rows)
		if err != nil {
			return nil, err
		}
		points = append(points, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating light readings: %w", err)
	}

	return points, nil
}

// Latest returns the most recent reading for a device, or nil when the
// device has none yet.
func (r *SQLiteLightRepository) Latest(ctx context.Context, deviceID string) (*LightDataPoint, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+lightColumns+" FROM light_data WHERE device_id = ? ORDER BY timestamp DESC, id DESC LIMIT 1",
		deviceID)
	if err != nil {
		return nil, fmt.Errorf("querying latest light reading: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanLightPoint(rows)
}

func scanLightPoint(s scanner) (*LightDataPoint, error) {
	var p LightDataPoint
	var ts string

	if err := s.Scan(&p.ID, &p.DeviceID, &ts, &p.Intensity); err != nil {
		return nil, fmt.Errorf("scanning light reading: %w", err)
	}

	p.Timestamp, _ = time.Parse(time.RFC3339, ts) //nolint:errcheck // format is controlled
	return &p, nil
}
