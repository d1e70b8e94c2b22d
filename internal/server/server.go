package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/fittrack/internal/storage"
	"github.com/claude/fittrack/internal/summary"
	"github.com/claude/fittrack/internal/workout"
	"github.com/go-chi/chi/v5"
)

var (
	_ workout.Store = (*storage.DB)(nil)
	_ summary.Store = (*storage.DB)(nil)
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db        *storage.DB
	engine    *workout.Engine
	events    *workout.Events
	summaries *summary.Aggregator
	log       *slog.Logger
	apiKey    string
	router    chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, engine *workout.Engine, events *workout.Events, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:        db,
		engine:    engine,
		events:    events,
		summaries: summary.New(db),
		log:       log,
		apiKey:    apiKey,
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestID)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		// EventSource cannot set request headers, so the SSE bridge
		// sits outside API-key auth.
		r.Get("/events", s.handleEvents)

		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))

			r.Route("/exercises", func(r chi.Router) {
				r.Get("/", s.handleListExercises)
				r.Post("/", s.handleCreateExercise)
				r.Get("/{id}", s.handleGetExercise)
				r.Put("/{id}", s.handleUpdateExercise)
				r.Delete("/{id}", s.handleDeleteExercise)
				r.Get("/{id}/history", s.handleExerciseHistory)
				r.Get("/{id}/records", s.handleExerciseRecords)
				r.Get("/{id}/warmup", s.handleExerciseWarmup)
			})

			r.Route("/routines", func(r chi.Router) {
				r.Get("/", s.handleListRoutines)
				r.Post("/", s.handleCreateRoutine)
				r.Get("/{id}", s.handleGetRoutine)
				r.Put("/{id}", s.handleUpdateRoutine)
				r.Delete("/{id}", s.handleDeleteRoutine)
				r.Post("/{id}/archive", s.handleArchiveRoutine)
			})

			r.Route("/workouts", func(r chi.Router) {
				r.Get("/", s.handleListSessions)
				r.Post("/start", s.handleStartWorkout)
				r.Get("/{id}", s.handleGetSession)
				r.Get("/{id}/sets", s.handleSessionSets)
				r.Get("/{id}/summary", s.handleSessionSummary)
				r.Post("/{id}/resume", s.handleResumeWorkout)

				r.Route("/active", func(r chi.Router) {
					r.Get("/", s.handleActiveWorkout)
					r.Post("/finish", s.handleFinishWorkout)
					r.Post("/rest/skip", s.handleSkipRest)
					r.Post("/rest/add", s.handleAddRestTime)
					r.Post("/exercises/{exercise}/sets", s.handleAddSet)
					r.Post("/exercises/{exercise}/swap", s.handleSwapExercise)
					r.Put("/exercises/{exercise}/sets/{set}", s.handleUpdateSet)
					r.Delete("/exercises/{exercise}/sets/{set}", s.handleDeleteSet)
					r.Post("/exercises/{exercise}/sets/{set}/complete", s.handleCompleteSet)
					r.Put("/exercises/{exercise}/sets/{set}/type", s.handleSetSetType)
				})
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", s.handleGetSettings)
				r.Put("/", s.handleSaveSettings)
			})

			r.Route("/measurements", func(r chi.Router) {
				r.Get("/", s.handleListMeasurements)
				r.Post("/", s.handleCreateMeasurement)
			})
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
