package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/lagna/internal/birth"
	"github.com/hpungsan/lagna/internal/errors"
	"github.com/hpungsan/lagna/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db     *sql.DB
	engine *ops.Engine
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, engine *ops.Engine) *Handlers {
	return &Handlers{db: db, engine: engine}
}

// Request types for each tool

// ComputeRequest represents the arguments for chart_compute.
type ComputeRequest struct {
	Birth     *birth.Record `json:"birth"`
	Ayanamsa  string        `json:"ayanamsa,omitempty"`
	NodeModel string        `json:"node_model,omitempty"`
}

// StoreRequest represents the arguments for chart_store.
type StoreRequest struct {
	Birth     *birth.Record `json:"birth"`
	Owner     string        `json:"owner,omitempty"`
	Name      *string       `json:"name,omitempty"`
	Label     *string       `json:"label,omitempty"`
	Ayanamsa  string        `json:"ayanamsa,omitempty"`
	NodeModel string        `json:"node_model,omitempty"`
	Mode      string        `json:"mode,omitempty"`
}

// FetchRequest represents the arguments for chart_fetch.
type FetchRequest struct {
	ID             string `json:"id,omitempty"`
	Owner          string `json:"owner,omitempty"`
	Name           string `json:"name,omitempty"`
	IncludeDeleted bool   `json:"include_deleted,omitempty"`
	IncludeChart   *bool  `json:"include_chart,omitempty"`
}

// ListRequest represents the arguments for chart_list.
type ListRequest struct {
	Owner          string `json:"owner,omitempty"`
	AllOwners      bool   `json:"all_owners,omitempty"`
	MoonNakshatra  string `json:"moon_nakshatra,omitempty"`
	Limit          int    `json:"limit,omitempty"`
	Offset         int    `json:"offset,omitempty"`
	IncludeDeleted bool   `json:"include_deleted,omitempty"`
}

// DeleteRequest represents the arguments for chart_delete.
type DeleteRequest struct {
	ID    string `json:"id,omitempty"`
	Owner string `json:"owner,omitempty"`
	Name  string `json:"name,omitempty"`
}

// PurgeRequest represents the arguments for chart_purge.
type PurgeRequest struct {
	Owner         *string `json:"owner,omitempty"`
	OlderThanDays *int    `json:"older_than_days,omitempty"`
}

// VargaRequest represents the arguments for chart_varga.
type VargaRequest struct {
	Subject ops.Subject `json:"subject"`
	Kind    string      `json:"kind,omitempty"`
}

// MatchRequest represents the arguments for match_compute.
type MatchRequest struct {
	Boy  ops.Subject `json:"boy"`
	Girl ops.Subject `json:"girl"`
}

// DashaRequest represents the arguments for dasha_compute.
type DashaRequest struct {
	Subject ops.Subject `json:"subject"`
	Count   int         `json:"count,omitempty"`
	At      string      `json:"at,omitempty"`
}

// Handler implementations

// HandleCompute handles the chart_compute tool call.
func (h *Handlers) HandleCompute(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ComputeRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	if input.Birth == nil {
		return errorResult(errors.NewInvalidRequest("birth is required")), nil
	}

	result, err := ops.Compute(h.engine, ops.ComputeInput{
		Birth:     *input.Birth,
		Ayanamsa:  input.Ayanamsa,
		NodeModel: input.NodeModel,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleStore handles the chart_store tool call.
func (h *Handlers) HandleStore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[StoreRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	if input.Birth == nil {
		return errorResult(errors.NewInvalidRequest("birth is required")), nil
	}

	mode := ops.StoreModeError
	switch input.Mode {
	case "", "error":
	case "replace":
		mode = ops.StoreModeReplace
	default:
		return errorResult(errors.NewInvalidRequest("mode must be \"error\" or \"replace\"")), nil
	}

	result, err := ops.Store(ctx, h.db, h.engine, ops.StoreInput{
		Owner:     input.Owner,
		Name:      input.Name,
		Label:     input.Label,
		Birth:     *input.Birth,
		Ayanamsa:  input.Ayanamsa,
		NodeModel: input.NodeModel,
		Mode:      mode,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFetch handles the chart_fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Fetch(ctx, h.db, ops.FetchInput{
		ID:             input.ID,
		Owner:          input.Owner,
		Name:           input.Name,
		IncludeDeleted: input.IncludeDeleted,
		IncludeChart:   input.IncludeChart,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the chart_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.List(ctx, h.db, ops.ListInput{
		Owner:          input.Owner,
		AllOwners:      input.AllOwners,
		MoonNakshatra:  input.MoonNakshatra,
		Limit:          input.Limit,
		Offset:         input.Offset,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDelete handles the chart_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Delete(ctx, h.db, ops.DeleteInput{
		ID:    input.ID,
		Owner: input.Owner,
		Name:  input.Name,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePurge handles the chart_purge tool call.
func (h *Handlers) HandlePurge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PurgeRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Purge(ctx, h.db, ops.PurgeInput{
		Owner:         input.Owner,
		OlderThanDays: input.OlderThanDays,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleVarga handles the chart_varga tool call.
func (h *Handlers) HandleVarga(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[VargaRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Varga(ctx, h.db, h.engine, ops.VargaInput{
		Subject: input.Subject,
		Kind:    input.Kind,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleMatch handles the match_compute tool call.
func (h *Handlers) HandleMatch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MatchRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Match(ctx, h.db, h.engine, ops.MatchInput{
		Boy:  input.Boy,
		Girl: input.Girl,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDasha handles the dasha_compute tool call.
func (h *Handlers) HandleDasha(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DashaRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	var at *time.Time
	if s := strings.TrimSpace(input.At); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return errorResult(errors.NewInvalidRequest("at must be an RFC 3339 timestamp")), nil
		}
		at = &t
	}

	result, err := ops.Dasha(ctx, h.db, h.engine, ops.DashaInput{
		Subject: input.Subject,
		Count:   input.Count,
		At:      at,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are never exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if lErr, ok := errors.As(err); ok {
		// Keep any wrapping context, e.g. "boy: NOT_FOUND: ..." → "boy: chart not found"
		message := strings.TrimSuffix(err.Error(), lErr.Error()) + lErr.Message
		errorObj := map[string]any{
			"code":    lErr.Code,
			"message": message,
			"status":  lErr.Status,
		}
		if lErr.Code != errors.ErrInternal && lErr.Details != nil {
			errorObj["details"] = lErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
