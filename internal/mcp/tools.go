package mcp

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/barload/internal/planner"
	"github.com/meltforce/barload/internal/plates"
)

// --- Tool definitions ---

func calculatePlatesTool(barbells []string) mcp.Tool {
	barbellOpts := []mcp.PropertyOption{
		mcp.Description("Barbell to load. Defaults to the heaviest bar (men, 20 kg)."),
	}
	if len(barbells) > 0 {
		barbellOpts = append(barbellOpts, mcp.Enum(barbells...))
	}
	return mcp.NewTool("calculate_plates",
		mcp.WithDescription("Compute the plates to load on each side of a barbell for a target total weight in kg. Returns the per-side plates heaviest first, or an error with kind invalid_input or infeasible."),
		mcp.WithNumber("weight", mcp.Required(), mcp.Description("Target total weight in kg, including the bar and collars. At most 1000.")),
		mcp.WithString("barbell", barbellOpts...),
		mcp.WithBoolean("collar", mcp.Description("Whether a collar is used on each side. Defaults to false.")),
	)
}

var toolListBarbells = mcp.NewTool("list_barbells",
	mcp.WithDescription("List the barbells the calculator knows, with their weight in kg."),
)

var toolRecentLoads = mcp.NewTool("recent_loads",
	mcp.WithDescription("List the caller's most recent calculations, newest first, including failed ones."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of loads to return (1-200). Defaults to 10.")),
)

// calcResult is the calculate_plates payload.
type calcResult struct {
	*plates.Result
	TotalKg   float64             `json:"total_kg"`
	PerSideKg float64             `json:"per_side_kg"`
	Counts    []plates.PlateCount `json:"counts"`
}

// calcFailure is returned as the error text of calculate_plates so clients
// can tell bad input from loads the plates cannot make.
type calcFailure struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// --- Tool handlers ---

func (h *handlers) calculatePlates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weight, ok := weightArg(req.GetArguments()["weight"])
	if !ok {
		return mcp.NewToolResultError("weight parameter is required"), nil
	}
	in := planner.Input{
		Weight:  weight,
		Barbell: req.GetString("barbell", ""),
		Collar:  req.GetBool("collar", false),
	}

	res, err := h.backend.Calculate(ctx, UserFromContext(ctx), in)
	if err != nil {
		kind := plates.Kind(err)
		if kind == "" {
			h.log.Error("mcp calculate_plates", "error", err)
			return mcp.NewToolResultError("calculation failed: " + err.Error()), nil
		}
		data, _ := json.Marshal(calcFailure{Error: err.Error(), Kind: kind})
		return mcp.NewToolResultError(string(data)), nil
	}

	counts := res.Counts()
	if counts == nil {
		counts = []plates.PlateCount{}
	}
	result, err := mcp.NewToolResultJSON(calcResult{
		Result:    res,
		TotalKg:   res.Total(),
		PerSideKg: res.PerSideWeight(),
		Counts:    counts,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// weightArg accepts the weight as a JSON number or a numeric string.
func weightArg(v any) (string, bool) {
	switch w := v.(type) {
	case float64:
		return strconv.FormatFloat(w, 'f', -1, 64), true
	case json.Number:
		return w.String(), true
	case string:
		return w, true
	default:
		return "", false
	}
}

func (h *handlers) listBarbells(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	inv, err := h.backend.Inventory(ctx)
	if err != nil {
		h.log.Error("mcp list_barbells", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(inv.Barbells)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) recentLoads(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 10)
	if limit < 1 || limit > 200 {
		return mcp.NewToolResultError("limit must be between 1 and 200"), nil
	}

	recs, err := h.backend.RecentLoads(ctx, UserFromContext(ctx), limit)
	if err != nil {
		h.log.Error("mcp recent_loads", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(recs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// --- Resource handlers ---

func (h *handlers) inventory(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	inv, err := h.backend.Inventory(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(inv)
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
