package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/claude/fittrack/internal/models"
)

const routineColumns = `id, name, description, assigned_days, rest_time_working,
	rest_time_warmup, created_at, last_used_at, archived`

// InsertRoutine inserts a routine together with its exercise links in one
// transaction and returns the routine ID.
func (db *DB) InsertRoutine(ctx context.Context, r *models.Routine, exercises []models.RoutineExercise) (int64, error) {
	days, err := toJSON(r.AssignedDays)
	if err != nil {
		return 0, err
	}
	if r.CreatedAt == 0 {
		r.CreatedAt = nowMillis()
	}

	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning routine insert: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO routines (name, description, assigned_days, rest_time_working,
		 rest_time_warmup, created_at, last_used_at, archived)
		 VALUES (?,?,?,?,?,?,?,?)`,
		r.Name, r.Description, days, r.RestTimeWorking,
		r.RestTimeWarmup, r.CreatedAt, r.LastUsedAt, r.Archived)
	if err != nil {
		return 0, fmt.Errorf("inserting routine: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("inserting routine: %w", err)
	}

	if err := insertRoutineExercises(ctx, tx, id, exercises); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing routine insert: %w", err)
	}
	r.ID = id
	return id, nil
}

// UpdateRoutine replaces a routine's fields and its exercise links.
func (db *DB) UpdateRoutine(ctx context.Context, r *models.Routine, exercises []models.RoutineExercise) error {
	days, err := toJSON(r.AssignedDays)
	if err != nil {
		return err
	}

	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning routine update: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE routines SET name = ?, description = ?, assigned_days = ?,
		 rest_time_working = ?, rest_time_warmup = ?, archived = ? WHERE id = ?`,
		r.Name, r.Description, days,
		r.RestTimeWorking, r.RestTimeWarmup, r.Archived, r.ID)
	if err != nil {
		return fmt.Errorf("updating routine: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM routine_exercises WHERE routine_id = ?`, r.ID); err != nil {
		return fmt.Errorf("clearing routine exercises: %w", err)
	}
	if err := insertRoutineExercises(ctx, tx, r.ID, exercises); err != nil {
		return err
	}
	return tx.Commit()
}

func insertRoutineExercises(ctx context.Context, tx *sql.Tx, routineID int64, exercises []models.RoutineExercise) error {
	for i, re := range exercises {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO routine_exercises (routine_id, exercise_id, order_index,
			 planned_sets, superset_group, rest_time_override)
			 VALUES (?,?,?,?,?,?)`,
			routineID, re.ExerciseID, i, re.PlannedSets, re.SupersetGroup, re.RestTimeOverride)
		if err != nil {
			return fmt.Errorf("inserting routine exercise %d: %w", re.ExerciseID, err)
		}
	}
	return nil
}

// DeleteRoutine hard-deletes a routine; its exercise links cascade away and
// past sessions keep their routine-name snapshots.
func (db *DB) DeleteRoutine(ctx context.Context, id int64) error {
	res, err := db.sql.ExecContext(ctx, `DELETE FROM routines WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting routine: %w", err)
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

// ArchiveRoutine soft-deletes a routine.
func (db *DB) ArchiveRoutine(ctx context.Context, id int64) error {
	res, err := db.sql.ExecContext(ctx,
		`UPDATE routines SET archived = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("archiving routine: %w", err)
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

// TouchRoutineLastUsed stamps the routine's last-used timestamp.
func (db *DB) TouchRoutineLastUsed(ctx context.Context, id, timestamp int64) error {
	_, err := db.sql.ExecContext(ctx,
		`UPDATE routines SET last_used_at = ? WHERE id = ?`, timestamp, id)
	if err != nil {
		return fmt.Errorf("touching routine: %w", err)
	}
	return nil
}

// FindRoutine retrieves one routine by ID.
func (db *DB) FindRoutine(ctx context.Context, id int64) (*models.Routine, error) {
	row := db.sql.QueryRowContext(ctx,
		`SELECT `+routineColumns+` FROM routines WHERE id = ?`, id)
	r, err := scanRoutine(row)
	if err != nil {
		return nil, notFound(err)
	}
	return r, nil
}

// ListRoutines retrieves non-archived routines, most recently used first.
func (db *DB) ListRoutines(ctx context.Context) ([]models.Routine, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT `+routineColumns+` FROM routines WHERE archived = 0
		 ORDER BY last_used_at DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying routines: %w", err)
	}
	defer rows.Close()

	var result []models.Routine
	for rows.Next() {
		r, err := scanRoutine(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *r)
	}
	return result, rows.Err()
}

// ListRoutineExercises retrieves a routine's exercise links in plan order.
func (db *DB) ListRoutineExercises(ctx context.Context, routineID int64) ([]models.RoutineExercise, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT routine_id, exercise_id, order_index, planned_sets, superset_group, rest_time_override
		 FROM routine_exercises WHERE routine_id = ? ORDER BY order_index ASC`, routineID)
	if err != nil {
		return nil, fmt.Errorf("querying routine exercises: %w", err)
	}
	defer rows.Close()

	var result []models.RoutineExercise
	for rows.Next() {
		var re models.RoutineExercise
		if err := rows.Scan(&re.RoutineID, &re.ExerciseID, &re.OrderIndex,
			&re.PlannedSets, &re.SupersetGroup, &re.RestTimeOverride); err != nil {
			return nil, fmt.Errorf("scanning routine exercise: %w", err)
		}
		result = append(result, re)
	}
	return result, rows.Err()
}

func scanRoutine(row rowScanner) (*models.Routine, error) {
	var r models.Routine
	var days string
	if err := row.Scan(&r.ID, &r.Name, &r.Description, &days, &r.RestTimeWorking,
		&r.RestTimeWarmup, &r.CreatedAt, &r.LastUsedAt, &r.Archived); err != nil {
		return nil, fmt.Errorf("scanning routine: %w", err)
	}
	if err := fromJSON(days, &r.AssignedDays); err != nil {
		return nil, err
	}
	return &r, nil
}
