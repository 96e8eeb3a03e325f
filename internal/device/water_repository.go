package device

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// WaterRepository defines the interface for water-quality reading storage.
type WaterRepository interface {
	Insert(ctx context.Context, p *WaterDataPoint) error
	ListByDevice(ctx context.Context, deviceID string, limit int, from, to *time.Time) ([]WaterDataPoint, error)
	ListByOwner(ctx context.Context, ownerID string, limit int, from, to *time.Time) ([]WaterDataPoint, error)
	Latest(ctx context.Context, deviceID string) (*WaterDataPoint, error)
}

// SQLiteWaterRepository implements WaterRepository using SQLite.
type SQLiteWaterRepository struct {
	db *sql.DB
}

// NewWaterRepository creates a new SQLite-backed water reading repository.
func NewWaterRepository(db *sql.DB) *SQLiteWaterRepository {
	return &SQLiteWaterRepository{db: db}
}

const waterColumns = "id, device_id, timestamp, temperature, ph, dissolved_oxygen, turbidity"

// Insert stores one reading. Timestamp defaults to now when zero.
func (r *SQLiteWaterRepository) Insert(ctx context.Context, p *WaterDataPoint) error {
	if p.ID == "" {
		p.ID = "wtr-" + uuid.NewString()[:8]
	}
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO water_data (id, device_id, timestamp, temperature, ph, dissolved_oxygen, turbidity)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.DeviceID, p.Timestamp.UTC().Format(time.RFC3339),
		p.Temperature, p.PH, p.DissolvedOxygen, p.Turbidity,
	)
	if err != nil {
		return fmt.Errorf("inserting water reading: %w", err)
	}

	return nil
}

// ListByDevice returns up to limit readings for a device, newest first,
// optionally bounded to [from, to] inclusive.
func (r *SQLiteWaterRepository) ListByDevice(ctx context.Context, deviceID string, limit int, from, to *time.Time) ([]WaterDataPoint, error) {
	query, args := buildSeriesQuery(waterColumns, "water_data", deviceID, limit, from, to)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing water readings: %w", err)
	}
	defer rows.Close()

	points := []WaterDataPoint{}
	for rows.Next() {
		p, err := scanWaterPoint(rows)
		if err != nil {
			return nil, err
		}
		points = append(points, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating water readings: %w", err)
	}

	return points, nil
}

// ListByOwner returns up to limit readings across every device owned by
// ownerID, newest first, optionally bounded to [from, to] inclusive.
func (r *SQLiteWaterRepository) ListByOwner(ctx context.Context, ownerID string, limit int, from, to *time.Time) ([]WaterDataPoint, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT w.id, w.device_id, w.timestamp, w.temperature, w.ph, w.dissolved_oxygen, w.turbidity
		 FROM water_data w JOIN devices d ON d.id = w.device_id
		 WHERE d.owner_id = ?`)
	args := []any{ownerID}

	if from != nil {
		sb.WriteString(" AND w.timestamp >= ?")
		args = append(args, from.UTC().Format(time.RFC3339))
	}
	if to != nil {
		sb.WriteString(" AND w.timestamp <= ?")
		args = append(args, to.UTC().Format(time.RFC3339))
	}

	sb.WriteString(" ORDER BY w.timestamp DESC, w.id DESC LIMIT ?")
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("listing water readings by owner: %w", err)
	}
	defer rows.Close()

	points := []WaterDataPoint{}
	for rows.Next() {
		p, err := scanWaterPoint(rows)
		if err != nil {
			return nil, err
		}
		points = append(points, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating water readings: %w", err)
	}

	return points, nil
}

// Latest returns the most recent reading for a device, or nil when the
// device has none yet.
func (r *SQLiteWaterRepository) Latest(ctx context.Context, deviceID string) (*WaterDataPoint, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+waterColumns+" FROM water_data WHERE device_id = ? ORDER BY timestamp DESC, id DESC LIMIT 1",
		deviceID)
	if err != nil {
		return nil, fmt.Errorf("querying latest water reading: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanWaterPoint(rows)
}

func scanWaterPoint(s scanner) (*WaterDataPoint, error) {
	var p WaterDataPoint
	var ts string

	err := s.Scan(&p.ID, &p.DeviceID, &ts, &p.Temperature, &p.PH, &p.DissolvedOxygen, &p.Turbidity)
	if err != nil {
		return nil, fmt.Errorf("scanning water reading: %w", err)
	}

	p.Timestamp, _ = time.Parse(time.RFC3339, ts) //nolint:errcheck // format is controlled
	return &p, nil
}

// buildSeriesQuery assembles the shared newest-first, optionally bounded
// query used by all telemetry tables.
func buildSeriesQuery(columns, table, deviceID string, limit int, from, to *time.Time) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT " + columns + " FROM " + table + " WHERE device_id = ?")
	args := []any{deviceID}

	if from != nil {
		sb.WriteString(" AND timestamp >= ?")
		args = append(args, from.UTC().Format(time.RFC3339))
	}
	if to != nil {
		sb.WriteString(" AND timestamp <= ?")
		args = append(args, to.UTC().Format(time.RFC3339))
	}

	sb.WriteString(" ORDER BY timestamp DESC, id DESC LIMIT ?")
	args = append(args, limit)

	return sb.String(), args
}
