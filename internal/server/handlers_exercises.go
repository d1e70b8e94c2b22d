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

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.ExerciseFilter{
		Category:   models.ExerciseCategory(q.Get("category")),
		Muscle:     models.MuscleGroup(q.Get("muscle")),
		Query:      q.Get("q"),
		CustomOnly: q.Get("custom") == "true",
	}

	exercises, err := s.db.ListExercises(r.Context(), filter)
	if err != nil {
		s.internalError(w, "listing exercises", err)
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	var ex models.Exercise
	if err := json.NewDecoder(r.Body).Decode(&ex); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if ex.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	// API-created exercises are always user exercises; clients cannot mark
	// an entry as built-in.
	ex.IsCustom = true

	id, err := s.db.InsertExercise(r.Context(), &ex)
	if err != nil {
		s.internalError(w, "creating exercise", err)
		return
	}
	ex.ID = id
	writeJSON(w, http.StatusCreated, ex)
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	ex, err := s.db.FindExercise(r.Context(), id)
	if err != nil {
		s.storageError(w, "exercise", err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (s *Server) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var ex models.Exercise
	if err := json.NewDecoder(r.Body).Decode(&ex); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	ex.ID = id

	if err := s.db.UpdateExercise(r.Context(), &ex); err != nil {
		s.storageError(w, "exercise", err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.db.DeleteExercise(r.Context(), id); err != nil {
		s.storageError(w, "exercise", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExerciseHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	limit := queryLimit(r, 20)

	sets, err := s.db.RecentCompletedSets(r.Context(), id, limit)
	if err != nil {
		s.internalError(w, "loading exercise history", err)
		return
	}
	writeJSON(w, http.StatusOK, sets)
}

func (s *Server) handleExerciseRecords(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	records, err := s.db.GetExerciseRecords(r.Context(), id)
	if err != nil {
		s.internalError(w, "loading exercise records", err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// handleExerciseWarmup suggests warmup sets for a working weight, rounded to
// the user's plate inventory for barbell exercises.
func (s *Server) handleExerciseWarmup(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	weight, err := strconv.ParseFloat(r.URL.Query().Get("weight"), 64)
	if err != nil || weight <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weight parameter required"})
		return
	}

	ex, err := s.db.FindExercise(r.Context(), id)
	if err != nil {
		s.storageError(w, "exercise", err)
		return
	}
	settings, err := s.db.GetSettings(r.Context())
	if err != nil {
		s.internalError(w, "loading settings", err)
		return
	}

	plan := workout.WarmupPlan(weight, ex.Category, *settings)
	writeJSON(w, http.StatusOK, plan)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// pathID parses the named URL parameter as an int64 ID, writing a 400 on
// failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func queryLimit(r *http.Request, fallback int) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func (s *Server) internalError(w http.ResponseWriter, msg string, err error) {
	s.log.Error(msg, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// storageError maps missing rows to 404 and everything else to 500.
func (s *Server) storageError(w http.ResponseWriter, what string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": what + " not found"})
		return
	}
	s.internalError(w, "storage error", err)
}
