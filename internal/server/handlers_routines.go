package server

import (
	"encoding/json"
	"net/http"

	"github.com/claude/fittrack/internal/models"
)

// routinePayload is the request/response shape for routine endpoints: the
// routine row plus its ordered exercise links.
type routinePayload struct {
	models.Routine
	Exercises []models.RoutineExercise `json:"exercises"`
}

func (s *Server) handleListRoutines(w http.ResponseWriter, r *http.Request) {
	routines, err := s.db.ListRoutines(r.Context())
	if err != nil {
		s.internalError(w, "listing routines", err)
		return
	}
	writeJSON(w, http.StatusOK, routines)
}

func (s *Server) handleCreateRoutine(w http.ResponseWriter, r *http.Request) {
	var payload routinePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if payload.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	id, err := s.db.InsertRoutine(r.Context(), &payload.Routine, payload.Exercises)
	if err != nil {
		s.internalError(w, "creating routine", err)
		return
	}
	payload.ID = id
	writeJSON(w, http.StatusCreated, payload)
}

func (s *Server) handleGetRoutine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	routine, err := s.db.FindRoutine(r.Context(), id)
	if err != nil {
		s.storageError(w, "routine", err)
		return
	}
	exercises, err := s.db.ListRoutineExercises(r.Context(), id)
	if err != nil {
		s.internalError(w, "loading routine exercises", err)
		return
	}
	writeJSON(w, http.StatusOK, routinePayload{Routine: *routine, Exercises: exercises})
}

func (s *Server) handleUpdateRoutine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var payload routinePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	payload.ID = id

	if err := s.db.UpdateRoutine(r.Context(), &payload.Routine, payload.Exercises); err != nil {
		s.storageError(w, "routine", err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleDeleteRoutine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.db.DeleteRoutine(r.Context(), id); err != nil {
		s.storageError(w, "routine", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleArchiveRoutine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.db.ArchiveRoutine(r.Context(), id); err != nil {
		s.storageError(w, "routine", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
