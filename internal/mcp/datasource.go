package mcp

import (
	"context"

	"github.com/claude/fittrack/internal/models"
	"github.com/claude/fittrack/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListSessions(ctx context.Context, limit int) ([]models.TrainingSession, error)
	FindSession(ctx context.Context, id int64) (*models.TrainingSession, error)
	SetsBySession(ctx context.Context, sessionID int64) ([]models.WorkoutSet, error)
	RecentCompletedSets(ctx context.Context, exerciseID int64, limit int) ([]models.WorkoutSet, error)
	GetExerciseRecords(ctx context.Context, exerciseID int64) (*storage.ExerciseRecords, error)
	FindExercise(ctx context.Context, id int64) (*models.Exercise, error)
	ListRoutines(ctx context.Context) ([]models.Routine, error)
	ListRoutineExercises(ctx context.Context, routineID int64) ([]models.RoutineExercise, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
