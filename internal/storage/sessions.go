package storage

import (
	"context"
	"fmt"

	"github.com/claude/fittrack/internal/models"
)

const sessionColumns = `id, routine_id, routine_name, start_time, end_time,
	total_duration, comment, completed, created_at`

// InsertSession inserts a training session row and returns its ID.
func (db *DB) InsertSession(ctx context.Context, s *models.TrainingSession) (int64, error) {
	if s.CreatedAt == 0 {
		s.CreatedAt = nowMillis()
	}
	res, err := db.sql.ExecContext(ctx,
		`INSERT INTO training_sessions (routine_id, routine_name, start_time, end_time,
		 total_duration, comment, completed, created_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		s.RoutineID, s.RoutineName, s.StartTime, s.EndTime,
		s.TotalDuration, s.Comment, s.Completed, s.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("inserting session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("inserting session: %w", err)
	}
	s.ID = id
	return id, nil
}

// UpdateSession replaces a session's mutable fields.
func (db *DB) UpdateSession(ctx context.Context, s *models.TrainingSession) error {
	res, err := db.sql.ExecContext(ctx,
		`UPDATE training_sessions SET end_time = ?, total_duration = ?, comment = ?,
		 completed = ? WHERE id = ?`,
		s.EndTime, s.TotalDuration, s.Comment, s.Completed, s.ID)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
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

// FindSession retrieves one session by ID.
func (db *DB) FindSession(ctx context.Context, id int64) (*models.TrainingSession, error) {
	row := db.sql.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM training_sessions WHERE id = ?`, id)
	s, err := scanSession(row)
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

// ActiveSession returns the most recent incomplete session, or ErrNotFound
// when no workout is in progress.
func (db *DB) ActiveSession(ctx context.Context) (*models.TrainingSession, error) {
	row := db.sql.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM training_sessions
		 WHERE completed = 0 ORDER BY start_time DESC LIMIT 1`)
	s, err := scanSession(row)
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

// ListSessions retrieves sessions newest first, up to limit (0 = no limit).
func (db *DB) ListSessions(ctx context.Context, limit int) ([]models.TrainingSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM training_sessions ORDER BY start_time DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var result []models.TrainingSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

// ListSessionsByRoutine retrieves a routine's sessions newest first.
func (db *DB) ListSessionsByRoutine(ctx context.Context, routineID int64) ([]models.TrainingSession, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM training_sessions
		 WHERE routine_id = ? ORDER BY start_time DESC`, routineID)
	if err != nil {
		return nil, fmt.Errorf("querying sessions by routine: %w", err)
	}
	defer rows.Close()

	var result []models.TrainingSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

func scanSession(row rowScanner) (*models.TrainingSession, error) {
	var s models.TrainingSession
	if err := row.Scan(&s.ID, &s.RoutineID, &s.RoutineName, &s.StartTime, &s.EndTime,
		&s.TotalDuration, &s.Comment, &s.Completed, &s.CreatedAt); err != nil {
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	return &s, nil
}
