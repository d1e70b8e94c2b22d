package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/claude/fittrack/internal/models"
	"github.com/claude/fittrack/internal/storage"
	"github.com/claude/fittrack/internal/workout"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleStartWorkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoutineID int64 `json:"routine_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RoutineID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "routine_id is required"})
		return
	}

	sessionID, err := s.engine.Start(r.Context(), req.RoutineID)
	if err != nil {
		s.engineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"session_id": sessionID})
}

func (s *Server) handleResumeWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.engine.Resume(r.Context(), id); err != nil {
		s.engineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

func (s *Server) handleActiveWorkout(w http.ResponseWriter, r *http.Request) {
	if !s.engine.Active() {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active workout"})
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	exercise, ok := pathIndex(w, r, "exercise")
	if !ok {
		return
	}
	setID, err := s.engine.AddSet(r.Context(), exercise)
	if err != nil {
		s.engineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"set_id": setID})
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	exercise, set, ok := pathSetAddress(w, r)
	if !ok {
		return
	}
	var upd workout.SetUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.engine.UpdateSet(r.Context(), exercise, set, upd); err != nil {
		s.engineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompleteSet(w http.ResponseWriter, r *http.Request) {
	exercise, set, ok := pathSetAddress(w, r)
	if !ok {
		return
	}
	if err := s.engine.CompleteSet(r.Context(), exercise, set); err != nil {
		s.engineError(w, err)
		return
	}
	remaining, running := s.engine.RestState()
	writeJSON(w, http.StatusOK, map[string]any{
		"rest_remaining": remaining,
		"rest_running":   running,
	})
}

func (s *Server) handleSetSetType(w http.ResponseWriter, r *http.Request) {
	exercise, set, ok := pathSetAddress(w, r)
	if !ok {
		return
	}
	var req struct {
		Type models.SetType `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.engine.SetSetType(r.Context(), exercise, set, req.Type); err != nil {
		s.engineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	exercise, set, ok := pathSetAddress(w, r)
	if !ok {
		return
	}
	if err := s.engine.DeleteSet(r.Context(), exercise, set); err != nil {
		s.engineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSwapExercise(w http.ResponseWriter, r *http.Request) {
	exercise, ok := pathIndex(w, r, "exercise")
	if !ok {
		return
	}
	var req struct {
		ExerciseID int64 `json:"exercise_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ExerciseID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise_id is required"})
		return
	}
	if err := s.engine.SwapExercise(r.Context(), exercise, req.ExerciseID); err != nil {
		s.engineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

func (s *Server) handleSkipRest(w http.ResponseWriter, r *http.Request) {
	s.engine.SkipRest()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddRestTime(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Seconds int `json:"seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	s.engine.AddRestTime(req.Seconds)
	remaining, running := s.engine.RestState()
	writeJSON(w, http.StatusOK, map[string]any{
		"rest_remaining": remaining,
		"rest_running":   running,
	})
}

func (s *Server) handleFinishWorkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Comment string `json:"comment"`
	}
	// Body is optional.
	_ = json.NewDecoder(r.Body).Decode(&req)

	sessionID := s.engine.SessionID()
	if err := s.engine.Finish(r.Context(), req.Comment); err != nil {
		s.engineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"session_id": sessionID})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 50)

	if v := r.URL.Query().Get("routine_id"); v != "" {
		routineID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || routineID <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid routine_id"})
			return
		}
		sessions, err := s.db.ListSessionsByRoutine(r.Context(), routineID)
		if err != nil {
			s.internalError(w, "listing sessions", err)
			return
		}
		writeJSON(w, http.StatusOK, sessions)
		return
	}

	sessions, err := s.db.ListSessions(r.Context(), limit)
	if err != nil {
		s.internalError(w, "listing sessions", err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	session, err := s.db.FindSession(r.Context(), id)
	if err != nil {
		s.storageError(w, "session", err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleSessionSets(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	sets, err := s.db.SetsBySession(r.Context(), id)
	if err != nil {
		s.internalError(w, "loading session sets", err)
		return
	}
	writeJSON(w, http.StatusOK, sets)
}

func (s *Server) handleSessionSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	sum, err := s.summaries.ForSession(r.Context(), id)
	if err != nil {
		s.storageError(w, "session", err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// pathIndex parses the named URL parameter as a zero-based slice index.
func pathIndex(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || idx < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + name + " index"})
		return 0, false
	}
	return idx, true
}

func pathSetAddress(w http.ResponseWriter, r *http.Request) (exercise, set int, ok bool) {
	exercise, ok = pathIndex(w, r, "exercise")
	if !ok {
		return 0, 0, false
	}
	set, ok = pathIndex(w, r, "set")
	if !ok {
		return 0, 0, false
	}
	return exercise, set, true
}

// engineError maps engine failures onto HTTP statuses.
func (s *Server) engineError(w http.ResponseWriter, err error) {
	var idxErr *workout.InvalidIndexError
	switch {
	case errors.Is(err, workout.ErrSessionActive):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, workout.ErrNoSession):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.As(err, &idxErr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		// Missing routine on start, missing session on resume, missing
		// exercise on swap: recoverable for the caller, not a server fault.
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		s.internalError(w, "workout operation failed", err)
	}
}
