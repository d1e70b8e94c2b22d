package workout

import "github.com/claude/fittrack/internal/models"

// SessionState is a point-in-time copy of the engine's in-memory state,
// safe for the caller to hold across further mutations.
type SessionState struct {
	SessionID      int64          `json:"session_id"`
	RoutineName    string         `json:"routine_name"`
	StartTime      int64          `json:"start_time"`
	ElapsedSeconds int64          `json:"elapsed_seconds"`
	Exercises      []ExerciseSlot `json:"exercises"`
	RestRemaining  int            `json:"rest_remaining"`
	RestRunning    bool           `json:"rest_running"`
	DefaultRest    int            `json:"default_rest"`
	Finished       bool           `json:"finished"`
}

// Active reports whether the engine currently drives an unfinished session.
func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessionID != 0 && !e.finished
}

// SessionID returns the driven session's ID, or zero before Start/Resume.
func (e *Engine) SessionID() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessionID
}

// Snapshot copies the current session state for observers.
func (e *Engine) Snapshot() SessionState {
	e.mu.Lock()
	defer e.mu.Unlock()

	state := SessionState{
		SessionID:     e.sessionID,
		RoutineName:   e.routineName,
		StartTime:     e.startTime,
		RestRemaining: e.restRemaining,
		RestRunning:   e.restRunning,
		DefaultRest:   e.defaultRest,
		Finished:      e.finished,
	}
	if e.startTime != 0 {
		if elapsed := (e.opts.Clock().UnixMilli() - e.startTime) / 1000; elapsed > 0 {
			state.ElapsedSeconds = elapsed
		}
	}

	state.Exercises = make([]ExerciseSlot, len(e.exercises))
	for i, slot := range e.exercises {
		copied := slot
		copied.Sets = append([]models.WorkoutSet(nil), slot.Sets...)
		copied.HistoricalSets = append([]models.WorkoutSet(nil), slot.HistoricalSets...)
		state.Exercises[i] = copied
	}
	return state
}
