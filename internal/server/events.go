package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type sseMessage struct {
	event string
	data  any
}

// handleEvents streams engine notifications as server-sent events. Each engine
// event maps to one SSE event; a slow consumer drops messages rather than
// blocking the engine's notify path.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan sseMessage, 16)
	push := func(event string, data any) {
		select {
		case ch <- sseMessage{event: event, data: data}:
		default:
		}
	}

	unsubscribe := []func(){
		s.events.SetCompleted.Listen(func(setID int64) {
			push("set_completed", map[string]int64{"set_id": setID})
		}),
		s.events.RestTimerFinished.Listen(func(struct{}) {
			push("rest_timer_finished", map[string]any{})
		}),
		s.events.WorkoutFinished.Listen(func(sessionID int64) {
			push("workout_finished", map[string]int64{"session_id": sessionID})
		}),
		s.events.Error.Listen(func(msg string) {
			push("error", map[string]string{"message": msg})
		}),
	}
	defer func() {
		for _, u := range unsubscribe {
			u()
		}
	}()

	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-ch:
			data, err := json.Marshal(msg.data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.event, data)
			flusher.Flush()
		}
	}
}
