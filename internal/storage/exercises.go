package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/claude/fittrack/internal/models"
)

const exerciseColumns = `id, name, name_pl, description, category, tracking_type,
	main_muscle, secondary_muscles, unilateral, volume_multiplier, notes, is_custom, created_at`

// ExerciseFilter narrows ListExercises results. Zero values mean "no filter".
type ExerciseFilter struct {
	Category   models.ExerciseCategory
	Muscle     models.MuscleGroup
	Query      string // case-insensitive substring of name or name_pl
	CustomOnly bool
}

// InsertExercise inserts an exercise and returns its ID.
func (db *DB) InsertExercise(ctx context.Context, e *models.Exercise) (int64, error) {
	secondary, err := toJSON(e.SecondaryMuscles)
	if err != nil {
		return 0, err
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = nowMillis()
	}
	res, err := db.sql.ExecContext(ctx,
		`INSERT INTO exercises (name, name_pl, description, category, tracking_type,
		 main_muscle, secondary_muscles, unilateral, volume_multiplier, notes, is_custom, created_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		e.Name, e.NamePl, e.Description, e.Category, e.TrackingType,
		e.MainMuscle, secondary, e.Unilateral, e.VolumeMultiplier, e.Notes, e.IsCustom, e.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("inserting exercise: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("inserting exercise: %w", err)
	}
	e.ID = id
	return id, nil
}

// UpdateExercise replaces the mutable fields of an exercise.
func (db *DB) UpdateExercise(ctx context.Context, e *models.Exercise) error {
	secondary, err := toJSON(e.SecondaryMuscles)
	if err != nil {
		return err
	}
	res, err := db.sql.ExecContext(ctx,
		`UPDATE exercises SET name = ?, name_pl = ?, description = ?, category = ?,
		 tracking_type = ?, main_muscle = ?, secondary_muscles = ?, unilateral = ?,
		 volume_multiplier = ?, notes = ? WHERE id = ?`,
		e.Name, e.NamePl, e.Description, e.Category,
		e.TrackingType, e.MainMuscle, secondary, e.Unilateral,
		e.VolumeMultiplier, e.Notes, e.ID)
	if err != nil {
		return fmt.Errorf("updating exercise: %w", err)
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

// DeleteExercise removes an exercise. Handlers restrict this to custom entries.
func (db *DB) DeleteExercise(ctx context.Context, id int64) error {
	res, err := db.sql.ExecContext(ctx, `DELETE FROM exercises WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting exercise: %w", err)
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

// FindExercise retrieves one exercise by ID.
func (db *DB) FindExercise(ctx context.Context, id int64) (*models.Exercise, error) {
	row := db.sql.QueryRowContext(ctx,
		`SELECT `+exerciseColumns+` FROM exercises WHERE id = ?`, id)
	e, err := scanExercise(row)
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

// ListExercises retrieves catalog entries matching the filter, ordered by name.
func (db *DB) ListExercises(ctx context.Context, f ExerciseFilter) ([]models.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises`
	var conds []string
	var args []any

	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.Muscle != "" {
		conds = append(conds, "(main_muscle = ? OR secondary_muscles LIKE ?)")
		args = append(args, f.Muscle, `%"`+string(f.Muscle)+`"%`)
	}
	if f.Query != "" {
		conds = append(conds, "(name LIKE ? COLLATE NOCASE OR name_pl LIKE ? COLLATE NOCASE)")
		pattern := "%" + f.Query + "%"
		args = append(args, pattern, pattern)
	}
	if f.CustomOnly {
		conds = append(conds, "is_custom = 1")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name ASC"

	rows, err := db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExercise(row rowScanner) (*models.Exercise, error) {
	var e models.Exercise
	var secondary string
	if err := row.Scan(&e.ID, &e.Name, &e.NamePl, &e.Description, &e.Category,
		&e.TrackingType, &e.MainMuscle, &secondary, &e.Unilateral,
		&e.VolumeMultiplier, &e.Notes, &e.IsCustom, &e.CreatedAt); err != nil {
		return nil, fmt.Errorf("scanning exercise: %w", err)
	}
	if err := fromJSON(secondary, &e.SecondaryMuscles); err != nil {
		return nil, err
	}
	return &e, nil
}
