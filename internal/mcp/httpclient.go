package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/fittrack/internal/models"
	"github.com/claude/fittrack/internal/storage"
)

// HTTPClient implements DataSource by calling the FitTrack REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func decodeInto[T any](body []byte, what string) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("httpclient: decode %s: %w", what, err)
	}
	return v, nil
}

func limitParams(limit int) url.Values {
	v := url.Values{}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	return v
}

func (c *HTTPClient) ListSessions(ctx context.Context, limit int) ([]models.TrainingSession, error) {
	body, err := c.get(ctx, "/api/v1/workouts", limitParams(limit))
	if err != nil {
		return nil, err
	}
	return decodeInto[[]models.TrainingSession](body, "sessions")
}

func (c *HTTPClient) FindSession(ctx context.Context, id int64) (*models.TrainingSession, error) {
	body, err := c.get(ctx, fmt.Sprintf("/api/v1/workouts/%d", id), nil)
	if err != nil {
		return nil, err
	}
	return decodeInto[*models.TrainingSession](body, "session")
}

func (c *HTTPClient) SetsBySession(ctx context.Context, sessionID int64) ([]models.WorkoutSet, error) {
	body, err := c.get(ctx, fmt.Sprintf("/api/v1/workouts/%d/sets", sessionID), nil)
	if err != nil {
		return nil, err
	}
	return decodeInto[[]models.WorkoutSet](body, "session sets")
}

func (c *HTTPClient) RecentCompletedSets(ctx context.Context, exerciseID int64, limit int) ([]models.WorkoutSet, error) {
	body, err := c.get(ctx, fmt.Sprintf("/api/v1/exercises/%d/history", exerciseID), limitParams(limit))
	if err != nil {
		return nil, err
	}
	return decodeInto[[]models.WorkoutSet](body, "exercise history")
}

func (c *HTTPClient) GetExerciseRecords(ctx context.Context, exerciseID int64) (*storage.ExerciseRecords, error) {
	body, err := c.get(ctx, fmt.Sprintf("/api/v1/exercises/%d/records", exerciseID), nil)
	if err != nil {
		return nil, err
	}
	return decodeInto[*storage.ExerciseRecords](body, "exercise records")
}

func (c *HTTPClient) FindExercise(ctx context.Context, id int64) (*models.Exercise, error) {
	body, err := c.get(ctx, fmt.Sprintf("/api/v1/exercises/%d", id), nil)
	if err != nil {
		return nil, err
	}
	return decodeInto[*models.Exercise](body, "exercise")
}

func (c *HTTPClient) ListRoutines(ctx context.Context) ([]models.Routine, error) {
	body, err := c.get(ctx, "/api/v1/routines", nil)
	if err != nil {
		return nil, err
	}
	return decodeInto[[]models.Routine](body, "routines")
}

func (c *HTTPClient) ListRoutineExercises(ctx context.Context, routineID int64) ([]models.RoutineExercise, error) {
	body, err := c.get(ctx, fmt.Sprintf("/api/v1/routines/%d", routineID), nil)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Exercises []models.RoutineExercise `json:"exercises"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("httpclient: decode routine: %w", err)
	}
	return payload.Exercises, nil
}
