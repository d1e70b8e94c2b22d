package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/fittrack/internal/summary"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sessions, err := h.ds.ListSessions(ctx, 10)
	if err != nil {
		return nil, err
	}

	type entry struct {
		Session any                     `json:"session"`
		Summary *summary.SessionSummary `json:"summary,omitempty"`
	}
	out := make([]entry, 0, len(sessions))
	for _, session := range sessions {
		e := entry{Session: session}
		if session.Completed {
			sets, err := h.ds.SetsBySession(ctx, session.ID)
			if err != nil {
				h.log.Warn("recent_sessions: loading sets failed", "session_id", session.ID, "error", err)
			} else {
				s := summary.Compute(&session, sets)
				e.Summary = &s
			}
		}
		out = append(out, e)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
