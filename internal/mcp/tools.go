package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

var toolListRoutines = mcp.NewTool("list_routines",
	mcp.WithDescription("List the filenames of all stored workout routines."),
)

var toolGetRoutine = mcp.NewTool("get_routine",
	mcp.WithDescription("Get a routine's normalized exercise steps (lengths rounded up to whole seconds) and its total duration in seconds."),
	mcp.WithString("filename", mcp.Required(), mcp.Description("Routine filename as returned by list_routines, e.g. hiit.yaml")),
)

var resCatalog = mcp.NewResource(
	"routinetimer://catalog",
	"Routine Catalog",
	mcp.WithResourceDescription("Every stored routine with its step count and total duration, or the reason it is invalid"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) listRoutines(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := h.ds.ListRoutines(ctx)
	if err != nil {
		h.log.Error("mcp list_routines", "error", err)
		return mcp.NewToolResultError("listing routines failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{"routines": names})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRoutine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("filename")
	if err != nil {
		return mcp.NewToolResultError("filename parameter is required"), nil
	}

	r, err := h.ds.GetRoutine(ctx, name)
	if err != nil {
		h.log.Warn("mcp get_routine", "file", name, "error", err)
		return mcp.NewToolResultError("routine unavailable: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(r)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

type catalogEntry struct {
	Filename      string `json:"filename"`
	Steps         int    `json:"steps,omitempty"`
	TotalDuration int    `json:"total_duration,omitempty"`
	Error         string `json:"error,omitempty"`
}

func (h *handlers) catalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	names, err := h.ds.ListRoutines(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]catalogEntry, 0, len(names))
	for _, name := range names {
		e := catalogEntry{Filename: name}
		r, err := h.ds.GetRoutine(ctx, name)
		if err != nil {
			e.Error = err.Error()
		} else {
			e.Steps = len(r.Exercises)
			e.TotalDuration = r.TotalDuration()
		}
		entries = append(entries, e)
	}

	data, err := json.Marshal(entries)
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
