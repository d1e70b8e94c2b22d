package storage

import (
	"context"
	"fmt"

	"github.com/claude/fittrack/internal/models"
)

const setColumns = `id, session_id, exercise_id, exercise_name, set_number, set_type,
	weight, reps, time_sec, distance, resistance, rpe, rir, side,
	completed, completed_at, notes, original_exercise_id, swapped`

// InsertSet inserts a logged set and returns its ID.
func (db *DB) InsertSet(ctx context.Context, s *models.WorkoutSet) (int64, error) {
	res, err := db.sql.ExecContext(ctx,
		`INSERT INTO workout_sets (session_id, exercise_id, exercise_name, set_number, set_type,
		 weight, reps, time_sec, distance, resistance, rpe, rir, side,
		 completed, completed_at, notes, original_exercise_id, swapped)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		s.SessionID, s.ExerciseID, s.ExerciseName, s.SetNumber, s.SetType,
		s.Weight, s.Reps, s.Time, s.Distance, s.Resistance, s.RPE, s.RIR, s.Side,
		s.Completed, s.CompletedAt, s.Notes, s.OriginalExerciseID, s.Swapped)
	if err != nil {
		return 0, fmt.Errorf("inserting set: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("inserting set: %w", err)
	}
	s.ID = id
	return id, nil
}

// UpdateSet replaces a set's fields by ID.
func (db *DB) UpdateSet(ctx context.Context, s *models.WorkoutSet) error {
	res, err := db.sql.ExecContext(ctx,
		`UPDATE workout_sets SET exercise_id = ?, exercise_name = ?, set_number = ?,
		 set_type = ?, weight = ?, reps = ?, time_sec = ?, distance = ?, resistance = ?,
		 rpe = ?, rir = ?, side = ?, completed = ?, completed_at = ?, notes = ?,
		 original_exercise_id = ?, swapped = ? WHERE id = ?`,
		s.ExerciseID, s.ExerciseName, s.SetNumber,
		s.SetType, s.Weight, s.Reps, s.Time, s.Distance, s.Resistance,
		s.RPE, s.RIR, s.Side, s.Completed, s.CompletedAt, s.Notes,
		s.OriginalExerciseID, s.Swapped, s.ID)
	if err != nil {
		return fmt.Errorf("updating set: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSet removes a logged set.
func (db *DB) DeleteSet(ctx context.Context, id int64) error {
	res, err := db.sql.ExecContext(ctx, `DELETE FROM workout_sets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting set: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetsBySession retrieves a session's sets in insertion order.
func (db *DB) SetsBySession(ctx context.Context, sessionID int64) ([]models.WorkoutSet, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT `+setColumns+` FROM workout_sets WHERE session_id = ? ORDER BY id ASC`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying session sets: %w", err)
	}
	defer rows.Close()
	return collectSets(rows)
}

// RecentCompletedSets retrieves an exercise's most recent completed sets
// across all sessions, newest first, bounded by limit.
func (db *DB) RecentCompletedSets(ctx context.Context, exerciseID int64, limit int) ([]models.WorkoutSet, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT `+setColumns+` FROM workout_sets
		 WHERE exercise_id = ? AND completed = 1
		 ORDER BY completed_at DESC LIMIT ?`,
		exerciseID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent sets: %w", err)
	}
	defer rows.Close()
	return collectSets(rows)
}

// ExerciseRecords holds the all-time records for one exercise.
type ExerciseRecords struct {
	ExerciseID   int64    `json:"exercise_id"`
	MaxWeight    *float64 `json:"max_weight,omitempty"`
	MaxReps      *int     `json:"max_reps,omitempty"`
	SessionCount int      `json:"session_count"`
}

// GetExerciseRecords computes max weight, max reps and the number of distinct
// sessions with completed sets for one exercise.
func (db *DB) GetExerciseRecords(ctx context.Context, exerciseID int64) (*ExerciseRecords, error) {
	rec := &ExerciseRecords{ExerciseID: exerciseID}
	err := db.sql.QueryRowContext(ctx,
		`SELECT MAX(weight), MAX(reps), COUNT(DISTINCT session_id)
		 FROM workout_sets WHERE exercise_id = ? AND completed = 1`,
		exerciseID).Scan(&rec.MaxWeight, &rec.MaxReps, &rec.SessionCount)
	if err != nil {
		return nil, fmt.Errorf("querying exercise records: %w", err)
	}
	return rec, nil
}

type rowsScanner interface {
	rowScanner
	Next() bool
	Err() error
}

func collectSets(rows rowsScanner) ([]models.WorkoutSet, error) {
	var result []models.WorkoutSet
	for rows.Next() {
		var s models.WorkoutSet
		if err := rows.Scan(&s.ID, &s.SessionID, &s.ExerciseID, &s.ExerciseName,
			&s.SetNumber, &s.SetType, &s.Weight, &s.Reps, &s.Time, &s.Distance,
			&s.Resistance, &s.RPE, &s.RIR, &s.Side, &s.Completed, &s.CompletedAt,
			&s.Notes, &s.OriginalExerciseID, &s.Swapped); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
