package server

import (
	"encoding/json"
	"net/http"

	"github.com/claude/fittrack/internal/models"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.db.GetSettings(r.Context())
	if err != nil {
		s.internalError(w, "loading settings", err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.UserSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if err := s.db.SaveSettings(r.Context(), &settings); err != nil {
		s.internalError(w, "saving settings", err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleListMeasurements(w http.ResponseWriter, r *http.Request) {
	measurements, err := s.db.ListMeasurements(r.Context(), queryLimit(r, 100))
	if err != nil {
		s.internalError(w, "listing measurements", err)
		return
	}
	writeJSON(w, http.StatusOK, measurements)
}

func (s *Server) handleCreateMeasurement(w http.ResponseWriter, r *http.Request) {
	var m models.BodyMeasurement
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if m.BodyWeight <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body_weight must be positive"})
		return
	}

	id, err := s.db.InsertMeasurement(r.Context(), &m)
	if err != nil {
		s.internalError(w, "creating measurement", err)
		return
	}
	m.ID = id
	writeJSON(w, http.StatusCreated, m)
}
