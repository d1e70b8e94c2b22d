package storage

import (
	"context"
	"fmt"

	"github.com/claude/fittrack/internal/models"
)

// InsertMeasurement appends a body measurement entry and returns its ID.
func (db *DB) InsertMeasurement(ctx context.Context, m *models.BodyMeasurement) (int64, error) {
	if m.CreatedAt == 0 {
		m.CreatedAt = nowMillis()
	}
	if m.Date == 0 {
		m.Date = m.CreatedAt
	}
	res, err := db.sql.ExecContext(ctx,
		`INSERT INTO body_measurements (date, body_weight, body_fat, notes, created_at)
		 VALUES (?,?,?,?,?)`,
		m.Date, m.BodyWeight, m.BodyFat, m.Notes, m.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("inserting measurement: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("inserting measurement: %w", err)
	}
	m.ID = id
	return id, nil
}

// ListMeasurements retrieves measurements newest first, up to limit (0 = all).
func (db *DB) ListMeasurements(ctx context.Context, limit int) ([]models.BodyMeasurement, error) {
	query := `SELECT id, date, body_weight, body_fat, notes, created_at
		 FROM body_measurements ORDER BY date DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying measurements: %w", err)
	}
	defer rows.Close()

	var result []models.BodyMeasurement
	for rows.Next() {
		var m models.BodyMeasurement
		if err := rows.Scan(&m.ID, &m.Date, &m.BodyWeight, &m.BodyFat, &m.Notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning measurement: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}
