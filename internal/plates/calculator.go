// Package plates computes which plates to load on each side of a barbell
// to reach a target weight.
package plates

import (
	"fmt"
	"math"
)

// Epsilon absorbs decimal rounding when comparing weights.
const Epsilon = 1e-6

// MaxTargetKg is the heaviest target accepted. It keeps every result to a
// few dozen plates per side.
const MaxTargetKg = 1000

// Request describes one load to compute.
type Request struct {
	TargetKg float64
	Barbell  Barbell
	Collar   bool
}

// Result is a successful load. PerSide lists the plates for one sleeve in
// the order they go on the bar, heaviest (innermost) first.
type Result struct {
	TargetKg      float64   `json:"target_kg"`
	Barbell       Barbell   `json:"barbell"`
	Collar        bool      `json:"collar"`
	CollarPerSide float64   `json:"collar_per_side_kg"`
	PerSide       []float64 `json:"per_side"`
}

// PlateCount is one denomination and how many of it go on each side.
type PlateCount struct {
	WeightKg float64 `json:"weight_kg"`
	Count    int     `json:"count"`
}

// PerSideWeight is the sum of the plates on one side, collar excluded.
func (r *Result) PerSideWeight() float64 {
	var sum float64
	for _, p := range r.PerSide {
		sum += p
	}
	return sum
}

// Total is the full weight on the bar: both sides, the bar and collars.
func (r *Result) Total() float64 {
	return r.PerSideWeight()*2 + r.Barbell.WeightKg + r.CollarPerSide*2
}

// Counts groups PerSide by denomination, heaviest first.
func (r *Result) Counts() []PlateCount {
	var out []PlateCount
	for _, p := range r.PerSide {
		if n := len(out); n > 0 && out[n-1].WeightKg == p {
			out[n-1].Count++
			continue
		}
		out = append(out, PlateCount{WeightKg: p, Count: 1})
	}
	return out
}

// Calculator decomposes target weights over an Inventory. It holds no
// mutable state and is safe for concurrent use.
type Calculator struct {
	inv *Inventory
}

// NewCalculator returns a Calculator over inv, or over the default
// inventory when inv is nil.
func NewCalculator(inv *Inventory) *Calculator {
	if inv == nil {
		inv = DefaultInventory()
	}
	return &Calculator{inv: inv}
}

// Inventory returns the inventory the calculator uses.
func (c *Calculator) Inventory() *Inventory { return c.inv }

// Calculate returns the per-side plates for req. Errors match either
// ErrInvalidInput or ErrInfeasible.
func (c *Calculator) Calculate(req Request) (*Result, error) {
	if err := validateWeight(req.TargetKg); err != nil {
		return nil, err
	}

	collar := 0.0
	if req.Collar {
		collar = c.inv.collarKg
	}

	remaining := (req.TargetKg - req.Barbell.WeightKg - 2*collar) / 2
	if remaining < -Epsilon {
		return nil, fmt.Errorf("%w: %s kg is less than %s kg", ErrBelowMinimum,
			FormatKg(req.TargetKg), FormatKg(req.Barbell.WeightKg+2*collar))
	}

	perSide, left := greedy(c.inv.plates, remaining)
	if math.Abs(left) > Epsilon {
		return nil, fmt.Errorf("%w: %s kg left over per side", ErrNoCombination, FormatKg(left))
	}

	return &Result{
		TargetKg:      req.TargetKg,
		Barbell:       req.Barbell,
		Collar:        req.Collar,
		CollarPerSide: collar,
		PerSide:       perSide,
	}, nil
}

// greedy takes as many of each plate as fit, heaviest first, so the work
// is one step per denomination. plates must be sorted heaviest first. It
// returns the plates taken and what is left over.
func greedy(plates []float64, remaining float64) ([]float64, float64) {
	taken := []float64{}
	for _, p := range plates {
		if remaining <= Epsilon {
			break
		}
		n := int(math.Floor((remaining + Epsilon) / p))
		for range n {
			taken = append(taken, p)
		}
		remaining -= float64(n) * p
	}
	return taken, remaining
}

func validateWeight(w float64) error {
	if math.IsNaN(w) {
		return ErrNotANumber
	}
	if w <= 0 || math.IsInf(w, 0) {
		return fmt.Errorf("%w: got %v", ErrNotPositive, w)
	}
	if w > MaxTargetKg {
		return fmt.Errorf("%w: %g kg is more than %d kg", ErrTooHeavy, w, MaxTargetKg)
	}
	return nil
}
