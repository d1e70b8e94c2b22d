package mcp

import (
	"context"

	"github.com/claude/fittrack/internal/summary"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolListRecentSessions = mcp.NewTool("list_recent_sessions",
	mcp.WithDescription("List recent training sessions, newest first. Includes routine name, start/end times, duration, and completion state."),
	mcp.WithNumber("limit", mcp.Description("Maximum sessions to return. Defaults to 10.")),
)

var toolGetSessionSummary = mcp.NewTool("get_session_summary",
	mcp.WithDescription("Compute the statistics of one finished session: duration, total volume (sum of weight x reps over completed sets), and per-exercise set counts, max weight, and volume."),
	mcp.WithNumber("session_id", mcp.Required(), mcp.Description("The session's ID")),
)

var toolGetExerciseHistory = mcp.NewTool("get_exercise_history",
	mcp.WithDescription("Recent completed sets of one exercise across all sessions, newest first. Each set includes weight, reps, RPE/RIR and set type."),
	mcp.WithNumber("exercise_id", mcp.Required(), mcp.Description("The exercise's ID")),
	mcp.WithNumber("limit", mcp.Description("Maximum sets to return. Defaults to 20.")),
)

var toolGetPersonalBests = mcp.NewTool("get_personal_bests",
	mcp.WithDescription("Personal records for one exercise: heaviest completed set, highest rep count, and the number of sessions it appeared in."),
	mcp.WithNumber("exercise_id", mcp.Required(), mcp.Description("The exercise's ID")),
)

var toolListRoutines = mcp.NewTool("list_routines",
	mcp.WithDescription("List workout routines with their ordered exercise plans, assigned weekdays, and rest-time defaults."),
)

// --- Tool handlers ---

func (h *handlers) listRecentSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	sessions, err := h.ds.ListSessions(ctx, limit)
	if err != nil {
		h.log.Error("mcp list_recent_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSessionSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireInt("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}

	session, err := h.ds.FindSession(ctx, int64(sessionID))
	if err != nil {
		h.log.Error("mcp get_session_summary", "error", err)
		return mcp.NewToolResultError("session not found: " + err.Error()), nil
	}
	sets, err := h.ds.SetsBySession(ctx, int64(sessionID))
	if err != nil {
		h.log.Error("mcp get_session_summary sets", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(summary.Compute(session, sets))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID, err := req.RequireInt("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}
	limit := req.GetInt("limit", 20)
	if limit <= 0 {
		limit = 20
	}

	sets, err := h.ds.RecentCompletedSets(ctx, int64(exerciseID), limit)
	if err != nil {
		h.log.Error("mcp get_exercise_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sets)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getPersonalBests(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID, err := req.RequireInt("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}

	ex, err := h.ds.FindExercise(ctx, int64(exerciseID))
	if err != nil {
		h.log.Error("mcp get_personal_bests", "error", err)
		return mcp.NewToolResultError("exercise not found: " + err.Error()), nil
	}
	records, err := h.ds.GetExerciseRecords(ctx, int64(exerciseID))
	if err != nil {
		h.log.Error("mcp get_personal_bests records", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"exercise": ex.Name,
		"records":  records,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listRoutines(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	routines, err := h.ds.ListRoutines(ctx)
	if err != nil {
		h.log.Error("mcp list_routines", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	type routineWithPlan struct {
		Routine any `json:"routine"`
		Plan    any `json:"plan"`
	}
	out := make([]routineWithPlan, 0, len(routines))
	for _, r := range routines {
		plan, err := h.ds.ListRoutineExercises(ctx, r.ID)
		if err != nil {
			h.log.Error("mcp list_routines plan", "routine_id", r.ID, "error", err)
			return mcp.NewToolResultError("query failed: " + err.Error()), nil
		}
		out = append(out, routineWithPlan{Routine: r, Plan: plan})
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
