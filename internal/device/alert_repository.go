package device

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AlertRepository defines the interface for alert rule persistence.
type AlertRepository interface {
	Create(ctx context.Context, rule *AlertRule) error
	GetByID(ctx context.Context, id string) (*AlertRule, error)
	OwnerID(ctx context.Context, id string) (string, error)
	ListByDevice(ctx context.Context, deviceID string) ([]AlertRule, error)
	ListByOwner(ctx context.Context, ownerID string) ([]AlertRule, error)
	Delete(ctx context.Context, id string) error
}

// SQLiteAlertRepository implements AlertRepository using SQLite.
type SQLiteAlertRepository struct {
	db *sql.DB
}

// NewAlertRepository creates a new SQLite-backed alert rule repository.
func NewAlertRepository(db *sql.DB) *SQLiteAlertRepository {
	return &SQLiteAlertRepository{db: db}
}

const alertColumns = "id, owner_id, device_id, name, description, metric, operator, threshold, severity, created_at"

// Create inserts a new alert rule. The ID is generated if empty.
func (r *SQLiteAlertRepository) Create(ctx context.Context, rule *AlertRule) error {
	if rule.ID == "" {
		rule.ID = "alr-" + uuid.NewString()[:8]
	}

	now := time.Now().UTC().Truncate(time.Second)
	rule.CreatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO alert_rules (id, owner_id, device_id, name, description, metric, operator, threshold, severity, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rule.ID, rule.OwnerID, rule.DeviceID, rule.Name, nullString(rule.Description),
		string(rule.Metric), string(rule.Operator), rule.Threshold, string(rule.Severity),
		now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("creating alert rule: %w", err)
	}

	return nil
}

// GetByID retrieves an alert rule by its unique ID.
func (r *SQLiteAlertRepository) GetByID(ctx context.Context, id string) (*AlertRule, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+alertColumns+" FROM alert_rules WHERE id = ?", id)
	return scanAlertRule(row)
}

// OwnerID returns the rule's owning user without loading the full row.
func (r *SQLiteAlertRepository) OwnerID(ctx context.Context, id string) (string, error) {
	var ownerID string
	err := r.db.QueryRowContext(ctx,
		"SELECT owner_id FROM alert_rules WHERE id = ?", id).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrRuleNotFound
		}
		return "", fmt.Errorf("looking up alert rule owner: %w", err)
	}
	return ownerID, nil
}

// ListByDevice returns a device's alert rules, newest first.
func (r *SQLiteAlertRepository) ListByDevice(ctx context.Context, deviceID string) ([]AlertRule, error) {
	return r.list(ctx, "device_id", deviceID)
}

// ListByOwner returns all of a user's alert rules across devices, newest
// first.
func (r *SQLiteAlertRepository) ListByOwner(ctx context.Context, ownerID string) ([]AlertRule, error) {
	return r.list(ctx, "owner_id", ownerID)
}

func (r *SQLiteAlertRepository) list(ctx context.Context, column, value string) ([]AlertRule, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+alertColumns+" FROM alert_rules WHERE "+column+" = ? ORDER BY created_at DESC, id DESC",
		value)
	if err != nil {
		return nil, fmt.Errorf("listing alert rules: %w", err)
	}
	defer rows.Close()

	rules := []AlertRule{}
	for rows.Next() {
		rule, err := scanAlertRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating alert rules: %w", err)
	}

	return rules, nil
}

// Delete removes an alert rule by ID.
func (r *SQLiteAlertRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM alert_rules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting alert rule: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrRuleNotFound
	}
	return nil
}

func scanAlertRule(s scanner) (*AlertRule, error) {
	var rule AlertRule
	var metric, operator, severity, createdAt string
	var description sql.NullString

	err := s.Scan(&rule.ID, &rule.OwnerID, &rule.DeviceID, &rule.Name, &description,
		&metric, &operator, &rule.Threshold, &severity, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRuleNotFound
		}
		return nil, fmt.Errorf("scanning alert rule: %w", err)
	}

	rule.Description = description.String
	rule.Metric = Metric(metric)
	rule.Operator = Operator(operator)
	rule.Severity = Severity(severity)
	rule.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled

	return &rule, nil
}
