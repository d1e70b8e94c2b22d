package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/claude/fittrack/internal/models"
)

// GetSettings returns the singleton settings row, creating it with defaults
// if it does not exist yet.
func (db *DB) GetSettings(ctx context.Context) (*models.UserSettings, error) {
	s, err := db.readSettings(ctx)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	defaults := models.DefaultSettings(nowMillis())
	if err := db.writeSettings(ctx, &defaults, true); err != nil {
		return nil, err
	}
	return &defaults, nil
}

// SaveSettings replaces the settings row and stamps updated_at.
func (db *DB) SaveSettings(ctx context.Context, s *models.UserSettings) error {
	// Read-first so a save against a fresh database still creates the row.
	if _, err := db.GetSettings(ctx); err != nil {
		return err
	}
	s.ID = 1
	s.UpdatedAt = nowMillis()
	return db.writeSettings(ctx, s, false)
}

func (db *DB) readSettings(ctx context.Context) (*models.UserSettings, error) {
	row := db.sql.QueryRowContext(ctx,
		`SELECT id, display_name, email, gym_type, available_equipment, available_plates,
		 barbell_weight, use_metric, default_rest_working, default_rest_warmup,
		 warmup_template, created_at, updated_at
		 FROM user_settings WHERE id = 1`)

	var s models.UserSettings
	var equipment, plates, warmup string
	if err := row.Scan(&s.ID, &s.DisplayName, &s.Email, &s.GymType, &equipment, &plates,
		&s.BarbellWeight, &s.UseMetric, &s.DefaultRestWorking, &s.DefaultRestWarmup,
		&warmup, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if err := fromJSON(equipment, &s.AvailableEquipment); err != nil {
		return nil, err
	}
	if err := fromJSON(plates, &s.AvailablePlates); err != nil {
		return nil, err
	}
	if err := fromJSON(warmup, &s.WarmupTemplate); err != nil {
		return nil, err
	}
	return &s, nil
}

func (db *DB) writeSettings(ctx context.Context, s *models.UserSettings, insert bool) error {
	equipment, err := toJSON(s.AvailableEquipment)
	if err != nil {
		return err
	}
	plates, err := toJSON(s.AvailablePlates)
	if err != nil {
		return err
	}
	warmup, err := toJSON(s.WarmupTemplate)
	if err != nil {
		return err
	}

	if insert {
		_, err = db.sql.ExecContext(ctx,
			`INSERT INTO user_settings (id, display_name, email, gym_type, available_equipment,
			 available_plates, barbell_weight, use_metric, default_rest_working,
			 default_rest_warmup, warmup_template, created_at, updated_at)
			 VALUES (1,?,?,?,?,?,?,?,?,?,?,?,?)`,
			s.DisplayName, s.Email, s.GymType, equipment,
			plates, s.BarbellWeight, s.UseMetric, s.DefaultRestWorking,
			s.DefaultRestWarmup, warmup, s.CreatedAt, s.UpdatedAt)
	} else {
		_, err = db.sql.ExecContext(ctx,
			`UPDATE user_settings SET display_name = ?, email = ?, gym_type = ?,
			 available_equipment = ?, available_plates = ?, barbell_weight = ?,
			 use_metric = ?, default_rest_working = ?, default_rest_warmup = ?,
			 warmup_template = ?, updated_at = ? WHERE id = 1`,
			s.DisplayName, s.Email, s.GymType,
			equipment, plates, s.BarbellWeight,
			s.UseMetric, s.DefaultRestWorking, s.DefaultRestWarmup,
			warmup, s.UpdatedAt)
	}
	if err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}
