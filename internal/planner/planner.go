// Package planner connects the plate calculator to the outside world: it
// resolves request fields, runs the calculator and keeps a history of what
// was asked. The HTTP and MCP servers both go through a Planner.
package planner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/barload/internal/models"
	"github.com/meltforce/barload/internal/plates"
	"github.com/meltforce/barload/internal/storage"
)

// History stores load records. Both storage backends satisfy it.
type History interface {
	RecordLoad(ctx context.Context, rec models.LoadRecord) error
	RecentLoads(ctx context.Context, user string, limit int) ([]models.LoadRecord, error)
	ClearHistory(ctx context.Context, user string) (int64, error)
	Stats(ctx context.Context, user string) (*storage.LoadStats, error)
}

var (
	_ History = (*storage.DB)(nil)
	_ History = (*storage.SQLite)(nil)
)

// Input is an unparsed load request as it arrives from a form, query
// string or tool call.
type Input struct {
	Weight  string `json:"weight"`
	Barbell string `json:"barbell"`
	Collar  bool   `json:"collar"`
}

// InventoryInfo describes what the calculator can load.
type InventoryInfo struct {
	Plates   []float64        `json:"plates"`
	Barbells []plates.Barbell `json:"barbells"`
	CollarKg float64          `json:"collar_kg"`
}

// Planner runs calculations and records them. A nil History disables
// recording; everything else keeps working.
type Planner struct {
	calc    *plates.Calculator
	history History
	log     *slog.Logger
	now     func() time.Time
}

// New creates a Planner. history may be nil.
func New(calc *plates.Calculator, history History, log *slog.Logger) *Planner {
	return &Planner{calc: calc, history: history, log: log, now: time.Now}
}

// Calculate parses in, computes the per-side plates and records the outcome
// for user. Errors from the calculator are returned unchanged so callers can
// match plates.ErrInvalidInput and plates.ErrInfeasible.
func (p *Planner) Calculate(ctx context.Context, user string, in Input) (*plates.Result, error) {
	inv := p.calc.Inventory()
	rec := models.LoadRecord{
		ID:        uuid.New(),
		CreatedAt: p.now().UTC(),
		User:      user,
		Barbell:   in.Barbell,
		Collar:    in.Collar,
	}

	res, err := p.calculate(inv, in, &rec)
	switch {
	case err == nil:
		rec.Status = models.StatusOK
		rec.Plates = res.PerSide
	case errors.Is(err, plates.ErrInfeasible):
		rec.Status = models.StatusInfeasible
	default:
		rec.Status = models.StatusInvalid
	}
	if err != nil {
		msg := err.Error()
		rec.Error = &msg
	}

	p.record(ctx, rec)
	return res, err
}

func (p *Planner) calculate(inv *plates.Inventory, in Input, rec *models.LoadRecord) (*plates.Result, error) {
	bar, err := inv.Barbell(in.Barbell)
	if err != nil {
		return nil, err
	}
	rec.Barbell = bar.Name
	rec.BarbellKg = bar.WeightKg

	target, err := plates.ParseWeight(in.Weight)
	if err != nil {
		return nil, err
	}
	rec.TargetKg = target

	return p.calc.Calculate(plates.Request{TargetKg: target, Barbell: bar, Collar: in.Collar})
}

// record writes rec to history. Failures are logged, never returned.
func (p *Planner) record(ctx context.Context, rec models.LoadRecord) {
	if p.history == nil {
		return
	}
	if err := p.history.RecordLoad(ctx, rec); err != nil {
		p.log.Warn("failed to record load", "user", rec.User, "status", rec.Status, "error", err)
	}
}

// Inventory returns the plates, barbells and collar weight in use.
func (p *Planner) Inventory(_ context.Context) (*InventoryInfo, error) {
	inv := p.calc.Inventory()
	return &InventoryInfo{
		Plates:   inv.Plates(),
		Barbells: inv.Barbells(),
		CollarKg: inv.CollarKg(),
	}, nil
}

// RecentLoads returns the user's latest loads, newest first. It returns an
// empty list when history is disabled.
func (p *Planner) RecentLoads(ctx context.Context, user string, limit int) ([]models.LoadRecord, error) {
	if p.history == nil {
		return []models.LoadRecord{}, nil
	}
	recs, err := p.history.RecentLoads(ctx, user, limit)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []models.LoadRecord{}
	}
	return recs, nil
}

// ClearHistory removes the user's loads and reports how many were deleted.
func (p *Planner) ClearHistory(ctx context.Context, user string) (int64, error) {
	if p.history == nil {
		return 0, nil
	}
	return p.history.ClearHistory(ctx, user)
}

// Stats summarizes the user's history.
func (p *Planner) Stats(ctx context.Context, user string) (*storage.LoadStats, error) {
	if p.history == nil {
		return &storage.LoadStats{}, nil
	}
	return p.history.Stats(ctx, user)
}

// HistoryEnabled reports whether loads are being recorded.
func (p *Planner) HistoryEnabled() bool { return p.history != nil }
