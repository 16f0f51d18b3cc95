package mcp

import (
	"context"

	"github.com/meltforce/barload/internal/models"
	"github.com/meltforce/barload/internal/planner"
	"github.com/meltforce/barload/internal/plates"
)

// Backend runs calculations for MCP tools. Both *planner.Planner (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type Backend interface {
	Calculate(ctx context.Context, user string, in planner.Input) (*plates.Result, error)
	Inventory(ctx context.Context) (*planner.InventoryInfo, error)
	RecentLoads(ctx context.Context, user string, limit int) ([]models.LoadRecord, error)
}

// Compile-time check: *planner.Planner satisfies Backend.
var _ Backend = (*planner.Planner)(nil)
