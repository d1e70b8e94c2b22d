package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testServer(t *testing.T, wantPath, response string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != wantPath {
			t.Errorf("path = %q, want %q", r.URL.Path, wantPath)
		}
		if key := r.Header.Get("X-API-Key"); key != "test-key" {
			t.Errorf("X-API-Key = %q, want test-key", key)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// TestHTTPClientListSessions verifies path, auth header and decoding.
func TestHTTPClientListSessions(t *testing.T) {
	srv := testServer(t, "/api/v1/workouts",
		`[{"id":1,"routine_name":"Push Day","start_time":1700000000000,"completed":true}]`)

	c := NewHTTPClient(srv.URL, "test-key")
	sessions, err := c.ListSessions(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("len = %d, want 1", len(sessions))
	}
	if sessions[0].RoutineName != "Push Day" {
		t.Errorf("routine_name = %q, want Push Day", sessions[0].RoutineName)
	}
}

// TestHTTPClientLimitParam verifies the limit query parameter is forwarded.
func TestHTTPClientLimitParam(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("limit = %q, want 5", got)
		}
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPClient(srv.URL, "test-key")
	if _, err := c.RecentCompletedSets(context.Background(), 3, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestHTTPClientExerciseRecords verifies decoding of the records shape.
func TestHTTPClientExerciseRecords(t *testing.T) {
	srv := testServer(t, "/api/v1/exercises/7/records",
		`{"exercise_id":7,"max_weight":140,"max_reps":12,"session_count":23}`)

	c := NewHTTPClient(srv.URL, "test-key")
	records, err := c.GetExerciseRecords(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records.MaxWeight == nil || *records.MaxWeight != 140 {
		t.Errorf("max_weight = %v, want 140", records.MaxWeight)
	}
	if records.SessionCount != 23 {
		t.Errorf("session_count = %d, want 23", records.SessionCount)
	}
}

// TestHTTPClientRoutinePlan verifies the exercise links are extracted from
// the routine payload.
func TestHTTPClientRoutinePlan(t *testing.T) {
	srv := testServer(t, "/api/v1/routines/4",
		`{"id":4,"name":"Legs","exercises":[{"routine_id":4,"exercise_id":9,"planned_sets":5}]}`)

	c := NewHTTPClient(srv.URL, "test-key")
	plan, err := c.ListRoutineExercises(context.Background(), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan) != 1 || plan[0].ExerciseID != 9 || plan[0].PlannedSets != 5 {
		t.Errorf("plan = %+v, want one link to exercise 9 with 5 sets", plan)
	}
}

// TestHTTPClientErrorStatus verifies non-200 responses surface as errors.
func TestHTTPClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"session not found"}`, http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPClient(srv.URL, "test-key")
	if _, err := c.FindSession(context.Background(), 999); err == nil {
		t.Fatal("expected error for 404 response")
	}
}
