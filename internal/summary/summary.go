// Package summary computes post-workout statistics from persisted sets. The
// computation is a deterministic fold with no writes; it runs after the
// session engine has finalized a session.
package summary

import (
	"context"
	"fmt"

	"github.com/claude/fittrack/internal/models"
)

// ExerciseSummary aggregates one exercise's completed sets within a session.
type ExerciseSummary struct {
	ExerciseID   int64   `json:"exercise_id"`
	ExerciseName string  `json:"exercise_name"`
	SetCount     int     `json:"set_count"`
	MaxWeight    float64 `json:"max_weight"`
	Volume       float64 `json:"volume"`
}

// SessionSummary is the full statistics block for one finished session.
type SessionSummary struct {
	SessionID       int64             `json:"session_id"`
	RoutineName     string            `json:"routine_name"`
	StartTime       int64             `json:"start_time"`
	DurationMinutes int64             `json:"duration_minutes"`
	TotalVolume     float64           `json:"total_volume"`
	SetCount        int               `json:"set_count"`
	ExerciseCount   int               `json:"exercise_count"`
	Exercises       []ExerciseSummary `json:"exercises"`
}

// Compute folds a session and its sets into a summary. Only completed sets
// count; missing weight or reps contribute 0 volume. Exercises appear in the
// order their first completed set was logged.
func Compute(session *models.TrainingSession, sets []models.WorkoutSet) SessionSummary {
	s := SessionSummary{
		SessionID:   session.ID,
		RoutineName: session.RoutineName,
		StartTime:   session.StartTime,
	}
	if session.TotalDuration != nil {
		s.DurationMinutes = *session.TotalDuration / 60_000
	}

	index := make(map[int64]int)
	for _, set := range sets {
		if !set.Completed {
			continue
		}

		i, ok := index[set.ExerciseID]
		if !ok {
			s.Exercises = append(s.Exercises, ExerciseSummary{
				ExerciseID:   set.ExerciseID,
				ExerciseName: set.ExerciseName,
			})
			i = len(s.Exercises) - 1
			index[set.ExerciseID] = i
		}
		group := &s.Exercises[i]

		volume := 0.0
		if set.Weight != nil && set.Reps != nil {
			volume = *set.Weight * float64(*set.Reps)
		}
		group.SetCount++
		group.Volume += volume
		if set.Weight != nil && *set.Weight > group.MaxWeight {
			group.MaxWeight = *set.Weight
		}

		s.SetCount++
		s.TotalVolume += volume
	}
	s.ExerciseCount = len(s.Exercises)
	return s
}

// Store is the read surface the aggregator needs. *storage.DB satisfies it.
type Store interface {
	FindSession(ctx context.Context, id int64) (*models.TrainingSession, error)
	SetsBySession(ctx context.Context, sessionID int64) ([]models.WorkoutSet, error)
}

// Aggregator loads a session and its sets and computes the summary.
type Aggregator struct {
	store Store
}

func New(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// ForSession computes the summary for the given session ID.
func (a *Aggregator) ForSession(ctx context.Context, sessionID int64) (*SessionSummary, error) {
	session, err := a.store.FindSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session %d: %w", sessionID, err)
	}
	sets, err := a.store.SetsBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading sets for session %d: %w", sessionID, err)
	}
	s := Compute(session, sets)
	return &s, nil
}
